// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package fdf

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// normalizeLine prepares a raw header line for tokenize.
//
// Whitespace inside {} lists is collapsed so that every list becomes a single
// comma separated token, e.g. "{ 64 64 }" becomes "{64,64}".
// The C declaration markers '*', '[' and ']' are dropped outside quotes.
// Everything else is passed through as is.
func normalizeLine(line string) string {
	if !utf8.ValidString(line) {
		line = decodeLatin1(line)
	}

	var sb strings.Builder
	sb.Grow(len(line))

	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			sb.WriteByte(c)
		case inQuote:
			sb.WriteByte(c)
		case c == '*' || c == '[' || c == ']':
		case c == '{':
			end := strings.IndexByte(line[i:], '}')
			if end == -1 {
				// Unbalanced, leave the rest alone.
				sb.WriteString(line[i:])
				return sb.String()
			}
			sb.WriteString(collapseList(line[i+1 : i+end]))
			i += end
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

func collapseList(s string) string {
	items := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	return "{" + strings.Join(items, ",") + "}"
}

// decodeLatin1 decodes s from ISO-8859-1, which is what older
// scanner consoles write into free text header fields.
func decodeLatin1(s string) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}

// tokenize splits line on spaces and semicolons.
// Empty tokens are dropped and a double quoted string is kept as one token.
func tokenize(line string) []string {
	var tokens []string
	start := -1
	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			inQuote = !inQuote
		}
		if !inQuote && (c == ' ' || c == ';') {
			if start != -1 {
				tokens = append(tokens, line[start:i])
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		tokens = append(tokens, line[start:])
	}
	return tokens
}

// fieldFromTokens returns the field for a type name = value statement.
// It returns false for any other token count.
func fieldFromTokens(tokens []string) (Field, bool) {
	if len(tokens) != 4 {
		return Field{}, false
	}
	return Field{
		Type:  tokens[0],
		Name:  tokens[1],
		Value: unquote(tokens[3]),
	}, true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// fieldHandlers applies the value of a known header field to the header.
// Field names not in this map are ignored.
var fieldHandlers = map[string]func(h *Header, value string) error{
	"spatial_rank": func(h *Header, value string) error {
		h.SpatialRank = value
		return nil
	},
	"matrix": func(h *Header, value string) error {
		values, err := parseList("matrix", value)
		if err != nil {
			return err
		}
		if len(values) > maxDimensions {
			return newHeaderErrorf("matrix: %d values, at most %d dimensions are supported", len(values), maxDimensions)
		}
		h.setNumDimensions(len(values))
		for i, v := range values {
			h.Dimensions[i] = int(v)
		}
		return nil
	},
	"orientation": func(h *Header, value string) error {
		values, err := parseList("orientation", value)
		if err != nil {
			return err
		}
		h.Direction = directionFromOrientation(values, h.NumDimensions())
		return nil
	},
	"span": func(h *Header, value string) (err error) {
		h.Span, err = parseList("span", value)
		return
	},
	"origin": func(h *Header, value string) error {
		values, err := parseList("origin", value)
		if err != nil {
			return err
		}
		if len(values) > maxDimensions {
			return newHeaderErrorf("origin: %d values, at most %d dimensions are supported", len(values), maxDimensions)
		}
		h.setNumDimensions(len(values))
		for i, v := range values {
			h.Origin[i] = v / 10
		}
		return nil
	},
	"roi": func(h *Header, value string) (err error) {
		h.ROI, err = parseList("roi", value)
		return
	},
	"location": func(h *Header, value string) (err error) {
		h.Location, err = parseList("location", value)
		return
	},
	"bigendian": func(h *Header, value string) error {
		if value == "0" {
			h.ByteOrder = LittleEndian
		} else {
			h.ByteOrder = BigEndian
		}
		return nil
	},
	"storage": func(h *Header, value string) (err error) {
		h.ComponentType, err = componentTypeFromStorage(value)
		return
	},
	"bits": func(h *Header, value string) error {
		h.Bits = parseLeadingInt(value)
		return nil
	},
	"checksum": func(h *Header, value string) error {
		h.Checksum = parseLeadingInt(value)
		return nil
	},
}

// applyField updates h with f.
func (h *Header) applyField(f Field) error {
	handle, found := fieldHandlers[f.Name]
	if !found {
		return nil
	}
	return handle(h, f.Value)
}

// parseList parses a list value such as {256,256} or a single number.
func parseList(name, value string) ([]float64, error) {
	value = strings.TrimPrefix(value, "{")
	value = strings.TrimSuffix(value, "}")

	var values []float64
	for _, s := range strings.Split(value, ",") {
		s = unquote(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, newHeaderErrorf("%s: %w", name, err)
		}
		values = append(values, f)
	}
	return values, nil
}

// parseLeadingInt returns the integer at the start of value, e.g. 8 for "8.000000".
// It returns 0 if value does not start with an integer.
func parseLeadingInt(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	if end < len(value) && (value[end] == '-' || value[end] == '+') {
		end++
	}
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	i, err := strconv.ParseInt(value[:end], 10, 64)
	if err != nil {
		return 0
	}
	return int(i)
}
