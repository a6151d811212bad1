// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package fdf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// directionFromOrientation builds the n×n direction matrix from an
// orientation list in which every run of n values is the direction of one axis.
//
// A degenerate matrix (zero determinant) or a list too short to fill
// the matrix yields the identity matrix. This happens when a 2D image
// carries the 3×3 orientation block of the volume it was sliced from.
func directionFromOrientation(values []float64, n int) [][]float64 {
	if n == 0 {
		return nil
	}
	if len(values) < n*n {
		return identity(n)
	}

	m := mat.NewDense(n, n, nil)
	direction := make([][]float64, n)
	for i := range n {
		direction[i] = make([]float64, n)
		for j := range n {
			v := values[i*n+j]
			m.Set(j, i, v)
			direction[i][j] = v
		}
	}

	if mat.Det(m) == 0 {
		return identity(n)
	}

	return direction
}

func identity(n int) [][]float64 {
	direction := make([][]float64, n)
	for i := range n {
		direction[i] = make([]float64, n)
		direction[i][i] = 1
	}
	return direction
}

// widenDirection returns direction grown to n×n, filling new
// rows and columns from the identity matrix.
func widenDirection(direction [][]float64, n int) [][]float64 {
	if len(direction) == n {
		return direction
	}
	widened := identity(n)
	for i, row := range direction {
		if i >= n {
			break
		}
		copy(widened[i], row)
	}
	return widened
}

// resolve finalizes the derived fields once the whole header has been read.
func (h *Header) resolve(fileSize int64, warnf func(string, ...any)) error {
	if h.ComponentType == UnknownComponentType {
		return fmt.Errorf("%w: storage", ErrMissingRequiredField)
	}
	if h.ComponentType.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedComponentType, h.ComponentType)
	}

	n := h.NumDimensions()
	if n == 0 {
		return newGeometryErrorf("no matrix declared")
	}

	h.Direction = widenDirection(h.Direction, n)

	if len(h.ROI) < n {
		warnf("fdf: roi has %d values for %d dimensions; missing spacing set to 0", len(h.ROI), n)
	}
	h.Spacing = make([]float64, n)
	limit := math.MaxInt64 / int64(h.ComponentType.Size())
	count := int64(1)
	for i := range n {
		d := h.Dimensions[i]
		if d <= 0 {
			return newGeometryErrorf("dimension %d has size %d", i, d)
		}
		if count > limit/int64(d) {
			return newGeometryErrorf("matrix %v is too large", h.Dimensions)
		}
		count *= int64(d)
		if i < len(h.ROI) {
			h.Spacing[i] = (h.ROI[i] * 10) / float64(d)
		}
	}

	h.FileSize = fileSize
	h.DataOffset = fileSize - h.PayloadSize()
	if h.DataOffset < 0 {
		return newGeometryErrorf("payload of %d bytes does not fit in file of %d bytes", h.PayloadSize(), fileSize)
	}

	return nil
}
