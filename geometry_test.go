// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package fdf

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestDirectionFromOrientation(t *testing.T) {
	c := qt.New(t)

	c.Assert(directionFromOrientation([]float64{1, 0, 0, 1}, 0), qt.IsNil)

	c.Assert(
		directionFromOrientation([]float64{0, 1, -1, 0}, 2),
		qt.DeepEquals,
		[][]float64{{0, 1}, {-1, 0}},
	)

	// Degenerate: a 3x3 identity read as 2x2.
	c.Assert(
		directionFromOrientation([]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, 2),
		qt.DeepEquals,
		[][]float64{{1, 0}, {0, 1}},
	)

	// Linearly dependent axes.
	c.Assert(
		directionFromOrientation([]float64{1, 2, 0, 2, 4, 0, 0, 0, 1}, 3),
		qt.DeepEquals,
		identity(3),
	)

	// Too short.
	c.Assert(
		directionFromOrientation([]float64{0, 1, 1}, 2),
		qt.DeepEquals,
		identity(2),
	)

	// Only the first n*n values are used.
	c.Assert(
		directionFromOrientation([]float64{2, 0, 0, 3, 9, 9, 9}, 2),
		qt.DeepEquals,
		[][]float64{{2, 0}, {0, 3}},
	)
}

func TestWidenDirection(t *testing.T) {
	c := qt.New(t)

	c.Assert(widenDirection(nil, 2), qt.DeepEquals, identity(2))
	c.Assert(
		widenDirection([][]float64{{0, 1}, {1, 0}}, 3),
		qt.DeepEquals,
		[][]float64{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}},
	)
	same := [][]float64{{-1}}
	c.Assert(widenDirection(same, 1), qt.DeepEquals, same)
}

func TestResolve(t *testing.T) {
	c := qt.New(t)

	noWarn := func(format string, args ...any) {
		c.Fatalf("unexpected warning: "+format, args...)
	}

	newResolvable := func() *Header {
		h := newHeader()
		h.ComponentType = UCHAR
		h.setNumDimensions(2)
		h.Dimensions[0], h.Dimensions[1] = 2, 2
		h.ROI = []float64{1, 1}
		return h
	}

	c.Run("Offset", func(c *qt.C) {
		h := newResolvable()
		c.Assert(h.resolve(100, noWarn), qt.IsNil)
		c.Assert(h.DataOffset, qt.Equals, int64(96))
		c.Assert(h.FileSize, qt.Equals, int64(100))
		c.Assert(h.Spacing, qt.DeepEquals, []float64{5, 5})
		c.Assert(h.Direction, qt.DeepEquals, identity(2))
	})

	c.Run("Payload fills file", func(c *qt.C) {
		h := newResolvable()
		c.Assert(h.resolve(4, noWarn), qt.IsNil)
		c.Assert(h.DataOffset, qt.Equals, int64(0))
	})

	c.Run("Negative offset", func(c *qt.C) {
		h := newResolvable()
		c.Assert(h.resolve(3, noWarn), qt.ErrorIs, ErrInvalidGeometry)
	})

	c.Run("Missing storage", func(c *qt.C) {
		h := newResolvable()
		h.ComponentType = UnknownComponentType
		c.Assert(h.resolve(100, noWarn), qt.ErrorIs, ErrMissingRequiredField)
	})

	c.Run("No matrix", func(c *qt.C) {
		h := newHeader()
		h.ComponentType = FLOAT
		c.Assert(h.resolve(100, noWarn), qt.ErrorIs, ErrInvalidGeometry)
	})

	c.Run("Negative dimension", func(c *qt.C) {
		h := newResolvable()
		h.Dimensions[1] = -2
		c.Assert(h.resolve(100, noWarn), qt.ErrorIs, ErrInvalidGeometry)
	})

	c.Run("Overflowing matrix", func(c *qt.C) {
		h := newResolvable()
		h.ComponentType = DOUBLE
		h.Dimensions[0], h.Dimensions[1] = 1<<31, 1<<31
		c.Assert(h.resolve(100, noWarn), qt.ErrorMatches, `fdf: invalid geometry: matrix .* is too large`)
	})

	c.Run("Unsupported component type", func(c *qt.C) {
		h := newResolvable()
		h.ComponentType = ComponentType(42)
		c.Assert(h.resolve(100, noWarn), qt.ErrorIs, ErrUnsupportedComponentType)
	})
}
