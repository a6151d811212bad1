// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package fdf

import (
	"fmt"
	"math"
	"math/bits"
)

// ComponentType is the numeric type of a single pixel component in the payload.
//
//go:generate stringer -type=ComponentType
type ComponentType int

const (
	// UnknownComponentType is the zero value; the header did not declare a storage type.
	UnknownComponentType ComponentType = iota
	CHAR
	UCHAR
	SHORT
	USHORT
	INT
	UINT
	LONG
	ULONG
	FLOAT
	DOUBLE
)

// storageKeywords maps the values of the storage header field to component types.
var storageKeywords = map[string]ComponentType{
	"double":         DOUBLE,
	"float":          FLOAT,
	"long":           LONG,
	"unsigned long":  ULONG,
	"int":            INT,
	"unsigned int":   UINT,
	"short":          SHORT,
	"unsigned short": USHORT,
	"char":           CHAR,
	"unsigned char":  UCHAR,
}

// componentTypeFromStorage returns the component type for a storage keyword.
func componentTypeFromStorage(keyword string) (ComponentType, error) {
	if ct, ok := storageKeywords[keyword]; ok {
		return ct, nil
	}
	return UnknownComponentType, fmt.Errorf("%w: %q", ErrUnknownComponentType, keyword)
}

// componentInfo describes the fixed width layout of a component type.
type componentInfo struct {
	size int
	// swap reverses the byte order of every element in b in place.
	// len(b) is a multiple of size.
	swap func(b []byte)
	// float64 reads one element in native byte order.
	float64 func(b []byte) float64
}

// componentTable is the single dispatch point for size, swapping and
// conversion. All entries use the LP64 widths the scanners write.
var componentTable = map[ComponentType]componentInfo{
	CHAR: {
		size:    1,
		swap:    swapNoop,
		float64: func(b []byte) float64 { return float64(int8(b[0])) },
	},
	UCHAR: {
		size:    1,
		swap:    swapNoop,
		float64: func(b []byte) float64 { return float64(b[0]) },
	},
	SHORT: {
		size:    2,
		swap:    swap2,
		float64: func(b []byte) float64 { return float64(int16(nativeEndian.Uint16(b))) },
	},
	USHORT: {
		size:    2,
		swap:    swap2,
		float64: func(b []byte) float64 { return float64(nativeEndian.Uint16(b)) },
	},
	INT: {
		size:    4,
		swap:    swap4,
		float64: func(b []byte) float64 { return float64(int32(nativeEndian.Uint32(b))) },
	},
	UINT: {
		size:    4,
		swap:    swap4,
		float64: func(b []byte) float64 { return float64(nativeEndian.Uint32(b)) },
	},
	LONG: {
		size:    8,
		swap:    swap8,
		float64: func(b []byte) float64 { return float64(int64(nativeEndian.Uint64(b))) },
	},
	ULONG: {
		size:    8,
		swap:    swap8,
		float64: func(b []byte) float64 { return float64(nativeEndian.Uint64(b)) },
	},
	FLOAT: {
		size:    4,
		swap:    swap4,
		float64: func(b []byte) float64 { return float64(math.Float32frombits(nativeEndian.Uint32(b))) },
	},
	DOUBLE: {
		size:    8,
		swap:    swap8,
		float64: func(b []byte) float64 { return math.Float64frombits(nativeEndian.Uint64(b)) },
	},
}

// Size returns the size in bytes of one component, or 0 if t has no fixed width.
func (t ComponentType) Size() int {
	return componentTable[t].size
}

// IsSigned reports whether t is a signed integer or floating point type.
func (t ComponentType) IsSigned() bool {
	switch t {
	case CHAR, SHORT, INT, LONG, FLOAT, DOUBLE:
		return true
	default:
		return false
	}
}

// Keyword returns the storage keyword for t, as written in the header.
func (t ComponentType) Keyword() string {
	for k, v := range storageKeywords {
		if v == t {
			return k
		}
	}
	return ""
}

func swapNoop([]byte) {}

func swap2(b []byte) {
	for i := 0; i+1 < len(b); i += 2 {
		b[i], b[i+1] = b[i+1], b[i]
	}
}

func swap4(b []byte) {
	for i := 0; i+3 < len(b); i += 4 {
		v := nativeEndian.Uint32(b[i:])
		nativeEndian.PutUint32(b[i:], bits.ReverseBytes32(v))
	}
}

func swap8(b []byte) {
	for i := 0; i+7 < len(b); i += 8 {
		v := nativeEndian.Uint64(b[i:])
		nativeEndian.PutUint64(b[i:], bits.ReverseBytes64(v))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ComponentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ComponentType) UnmarshalText(text []byte) error {
	for ct := UnknownComponentType; ct <= DOUBLE; ct++ {
		if ct.String() == string(text) {
			*t = ct
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownComponentType, text)
}
