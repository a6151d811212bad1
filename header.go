// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package fdf

import "fmt"

const maxDimensions = 16

// Header holds the geometry and encoding of one FDF file.
// It is created fresh for every decode and is not shared.
type Header struct {
	// SpatialRank is the raw spatial_rank value, e.g. "2dfov".
	SpatialRank string `json:"spatialRank,omitempty" yaml:"spatialRank,omitempty" cbor:"spatialRank,omitempty"`

	// Dimensions holds the number of pixels along each axis.
	Dimensions []int `json:"dimensions" yaml:"dimensions" cbor:"dimensions"`

	// Direction holds one direction vector per axis.
	// It is the identity matrix when the declared orientation is degenerate.
	Direction [][]float64 `json:"direction" yaml:"direction" cbor:"direction"`

	// Origin holds the origin per axis in centimeters.
	Origin []float64 `json:"origin" yaml:"origin" cbor:"origin"`

	Span     []float64 `json:"span,omitempty" yaml:"span,omitempty" cbor:"span,omitempty"`
	ROI      []float64 `json:"roi,omitempty" yaml:"roi,omitempty" cbor:"roi,omitempty"`
	Location []float64 `json:"location,omitempty" yaml:"location,omitempty" cbor:"location,omitempty"`

	// Spacing holds the pixel spacing per axis, derived from ROI and Dimensions.
	Spacing []float64 `json:"spacing" yaml:"spacing" cbor:"spacing"`

	ByteOrder     ByteOrder     `json:"byteOrder" yaml:"byteOrder" cbor:"byteOrder"`
	ComponentType ComponentType `json:"componentType" yaml:"componentType" cbor:"componentType"`

	Bits     int `json:"bits,omitempty" yaml:"bits,omitempty" cbor:"bits,omitempty"`
	Checksum int `json:"checksum,omitempty" yaml:"checksum,omitempty" cbor:"checksum,omitempty"`

	// FileSize is the size of the file the header was read from.
	FileSize int64 `json:"fileSize" yaml:"fileSize" cbor:"fileSize"`

	// DataOffset is the position of the first payload byte.
	DataOffset int64 `json:"dataOffset" yaml:"dataOffset" cbor:"dataOffset"`
}

func newHeader() *Header {
	return &Header{
		ByteOrder: NativeByteOrder(),
	}
}

// NumDimensions returns the number of axes.
func (h *Header) NumDimensions() int {
	return len(h.Dimensions)
}

// PixelCount returns the number of pixels in the image.
func (h *Header) PixelCount() int64 {
	if len(h.Dimensions) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range h.Dimensions {
		n *= int64(d)
	}
	return n
}

// PayloadSize returns the size in bytes of the binary payload.
func (h *Header) PayloadSize() int64 {
	return h.PixelCount() * int64(h.ComponentType.Size())
}

// String implements fmt.Stringer.
func (h *Header) String() string {
	storage := h.ComponentType.Keyword()
	if storage == "" {
		storage = h.ComponentType.String()
	}
	return fmt.Sprintf("FDF %v %s %s offset=%d", h.Dimensions, storage, h.ByteOrder, h.DataOffset)
}

// setNumDimensions widens every per axis slice to n entries.
func (h *Header) setNumDimensions(n int) {
	if n <= len(h.Dimensions) {
		return
	}
	h.Dimensions = growInts(h.Dimensions, n)
	h.Origin = growFloats(h.Origin, n)
}

// Field is a single type name = value statement from the header.
type Field struct {
	// The declared C type, e.g. "float" or "char".
	Type string
	// The field name with pointer and array markers removed, e.g. "matrix".
	Name string
	// The raw value, with surrounding quotes removed.
	Value string
}

// MetadataSink receives the decoded geometry of an image.
// It is typically implemented by an image container.
type MetadataSink interface {
	SetNumberOfDimensions(n int)
	SetDimension(axis, size int)
	SetSpacing(axis int, spacing float64)
	SetOrigin(axis int, origin float64)
	SetDirection(axis int, direction []float64)
	SetByteOrder(order ByteOrder)
	SetComponentType(t ComponentType)
	SetRegion(size, index []int)
}

// Export passes the resolved geometry to sink.
// Spacing and origin missing from an unresolved header are exported as 0,
// a missing direction as the identity matrix.
func (h *Header) Export(sink MetadataSink) {
	n := h.NumDimensions()
	sink.SetNumberOfDimensions(n)
	index := make([]int, n)
	direction := widenDirection(h.Direction, n)
	for i := range n {
		sink.SetDimension(i, h.Dimensions[i])
		sink.SetSpacing(i, floatAt(h.Spacing, i))
		sink.SetOrigin(i, floatAt(h.Origin, i))
		row := make([]float64, n)
		row[i] = 1
		copy(row, direction[i])
		sink.SetDirection(i, row)
	}
	sink.SetByteOrder(h.ByteOrder)
	sink.SetComponentType(h.ComponentType)
	sink.SetRegion(append([]int(nil), h.Dimensions...), index)
}

// Image is a decoded FDF file: the header and the payload in native byte order.
type Image struct {
	Header *Header
	Pixels []byte
}

// Float64s returns the pixel values converted to float64.
func (img *Image) Float64s() []float64 {
	info := componentTable[img.Header.ComponentType]
	if info.size == 0 {
		return nil
	}
	n := len(img.Pixels) / info.size
	values := make([]float64, n)
	for i := range n {
		values[i] = info.float64(img.Pixels[i*info.size:])
	}
	return values
}

func floatAt(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func growInts(s []int, n int) []int {
	for len(s) < n {
		s = append(s, 0)
	}
	return s
}

func growFloats(s []float64, n int) []float64 {
	for len(s) < n {
		s = append(s, 0)
	}
	return s
}
