// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

//go:generate go run main.go
package main

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// fixture is an FDF test file: header statements followed by the payload.
type fixture struct {
	name    string
	header  []string
	payload func() []byte
}

var fixtures = []fixture{
	{
		name: "images/float_2d.fdf",
		header: []string{
			`float  rank = 2;`,
			`char  *spatial_rank = "2dfov";`,
			`char  *storage = "float";`,
			`float  bits = 32;`,
			`char  *type = "absval";`,
			`float  matrix[] = {4, 3};`,
			`char  *abscissa[] = {"cm", "cm"};`,
			`char  *ordinate[] = { "intensity" };`,
			`float  span[] = {4.000000, 3.000000};`,
			`float  origin[] = {-2.000000, -1.500000};`,
			`char  *nucleus[] = {"H1","H1"};`,
			`float  location[] = {0.000000,0.000000,0.000000};`,
			`float  roi[] = {4.000000,3.000000,0.200000};`,
			`float  orientation[] = {0.0,1.0,-1.0,0.0,0.0,0.0,0.0,0.0,1.0};`,
			`int    bigendian = 0;`,
			`int    checksum = 1234567;`,
		},
		payload: func() []byte {
			var buf bytes.Buffer
			for i := range 12 {
				binary.Write(&buf, binary.LittleEndian, float32(i)*0.5)
			}
			return buf.Bytes()
		},
	},
	{
		name: "images/short_3d.fdf",
		header: []string{
			`float  rank = 3;`,
			`char  *spatial_rank = "3dfov";`,
			`char  *storage = "short";`,
			`float  bits = 16;`,
			`float  matrix[] = {2, 2, 2};`,
			`float  origin[] = {10.0, 20.0, 30.0};`,
			`float  roi[] = {1.0, 1.0, 0.5};`,
			`float  orientation[] = {0.0,0.0,1.0,1.0,0.0,0.0,0.0,1.0,0.0};`,
			`int    bigendian = 1;`,
		},
		payload: func() []byte {
			var buf bytes.Buffer
			for i := range 8 {
				binary.Write(&buf, binary.BigEndian, int16(i-4))
			}
			return buf.Bytes()
		},
	},
	{
		name: "images/uchar_degenerate.fdf",
		header: []string{
			`char  *storage = "unsigned char";`,
			`float  matrix[] = {2, 2};`,
			`float  roi[] = {0.4, 0.4};`,
			`float  orientation[] = {1.0,0.0,0.0,0.0,0.0,0.0,0.0,0.0,1.0};`,
			`int    bigendian = 1;`,
		},
		payload: func() []byte {
			return []byte{1, 2, 3, 4}
		},
	},
	{
		name: "images/double_be.fdf",
		header: []string{
			`char  *storage = "double";`,
			`float  matrix[] = {3, 2};`,
			`float  roi[] = {0.3, 0.2};`,
			`int    bigendian = 1;`,
		},
		payload: func() []byte {
			b := make([]byte, 6*8)
			for i := range 6 {
				binary.BigEndian.PutUint64(b[i*8:], math.Float64bits(float64(i)*1.25))
			}
			return b
		},
	},
	{
		name: "corrupt/unknown_storage.fdf",
		header: []string{
			`char  *storage = "weird";`,
			`float  matrix[] = {2, 2};`,
		},
		payload: func() []byte { return make([]byte, 4) },
	},
	{
		name: "corrupt/missing_storage.fdf",
		header: []string{
			`float  matrix[] = {2, 2};`,
			`float  roi[] = {1.0, 1.0};`,
		},
		payload: func() []byte { return make([]byte, 4) },
	},
	{
		name: "corrupt/truncated.fdf",
		header: []string{
			`char  *storage = "float";`,
			`float  matrix[] = {64, 64};`,
			`float  roi[] = {10.0, 10.0};`,
		},
		payload: func() []byte { return make([]byte, 16) },
	},
	{
		name: "corrupt/zero_dimension.fdf",
		header: []string{
			`char  *storage = "float";`,
			`float  matrix[] = {0, 4};`,
			`float  roi[] = {10.0, 10.0};`,
		},
		payload: func() []byte { return nil },
	},
}

// encode writes the magic line, the statements, the form feed line
// and the NUL byte that precede the payload in files written by the scanners.
func (f fixture) encode() []byte {
	var buf bytes.Buffer
	buf.WriteString("#!/usr/local/fdf/startup\n")
	buf.WriteString(strings.Join(f.header, "\n"))
	buf.WriteString("\n\f\n\x00")
	buf.Write(f.payload())
	return buf.Bytes()
}

func main() {
	outDir := filepath.Join("..", "testdata")

	for _, f := range fixtures {
		filename := filepath.Join(outDir, filepath.FromSlash(f.name))
		if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(filename, f.encode(), 0o644); err != nil {
			log.Fatal(err)
		}
	}
}
