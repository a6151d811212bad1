// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package fdf reads images in the FDF format written by Varian/Agilent MR scanners.
//
// An FDF file starts with a text header of C-like statements,
//
//	float  matrix[] = {256, 256};
//	char  *storage = "float";
//	int    bigendian = 0;
//
// terminated by an empty line, followed by the raw pixel payload.
// The payload is the last PayloadSize bytes of the file.
//
// The format is read only.
package fdf

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const defaultLimitHeaderBytes = 1 << 20

// Options contains the options for the decoder.
type Options struct {
	// If set, HandleField is only called for fields where this returns true.
	ShouldHandleField func(f Field) bool

	// If set, called for every type name = value statement in the header, in order,
	// including fields the decoder does not interpret.
	// Return ErrStopWalking to stop reading the header.
	HandleField func(f Field) error

	// Warnf will be called for each warning.
	Warnf func(string, ...any)

	// LimitHeaderBytes is the maximum number of bytes to scan for the end of the header.
	// Default value is 1 MiB.
	LimitHeaderBytes int64
}

func (o Options) withDefaults() Options {
	if o.ShouldHandleField == nil {
		o.ShouldHandleField = func(Field) bool { return true }
	}
	if o.HandleField == nil {
		o.HandleField = func(Field) error { return nil }
	}
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
	if o.LimitHeaderBytes <= 0 {
		o.LimitHeaderBytes = defaultLimitHeaderBytes
	}
	return o
}

// ImageIO is the set of operations an image file reader provides to a host.
type ImageIO interface {
	// CanRead reports whether filename looks like a file this reader handles.
	CanRead(filename string) (bool, error)
	ReadHeader(filename string) (*Header, error)
	// ReadPayload reads the pixels described by h into buf,
	// which must be exactly h.PayloadSize() bytes.
	ReadPayload(filename string, h *Header, buf []byte) error

	CanWrite(filename string) bool
	WriteHeader(h *Header) error
	Write(buf []byte) error
}

var _ ImageIO = (*Decoder)(nil)

// Decoder reads FDF files from the file system.
// A Decoder is safe for concurrent use on distinct files.
type Decoder struct {
	opts Options
}

// NewDecoder returns a new Decoder.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts.withDefaults()}
}

// HasExtension reports whether filename ends with .fdf or .FDF.
func HasExtension(filename string) bool {
	return strings.HasSuffix(filename, ".fdf") || strings.HasSuffix(filename, ".FDF")
}

// CanRead reports whether filename has an FDF extension.
// The file is only opened if the extension matches, and a failure to
// open it is returned as an error wrapping ErrFileNotFound.
func (d *Decoder) CanRead(filename string) (bool, error) {
	if filename == "" || !HasExtension(filename) {
		return false, nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	f.Close()
	return true, nil
}

// ReadHeader reads and resolves the header of filename.
func (d *Decoder) ReadHeader(filename string) (*Header, error) {
	ok, err := d.CanRead(filename)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRecognized, filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	defer f.Close()

	return DecodeHeader(f, d.opts)
}

// ReadPayload reads the payload of filename into buf in native byte order.
func (d *Decoder) ReadPayload(filename string, h *Header, buf []byte) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	defer f.Close()

	return ReadPayloadFrom(f, h, buf)
}

// ReadImage reads the header and the payload of filename.
func (d *Decoder) ReadImage(filename string) (*Image, error) {
	h, err := d.ReadHeader(filename)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, h.PayloadSize())
	if err := d.ReadPayload(filename, h, buf); err != nil {
		return nil, err
	}
	return &Image{Header: h, Pixels: buf}, nil
}

// CanWrite always returns false. FDF files cannot be written.
func (d *Decoder) CanWrite(filename string) bool {
	return false
}

// WriteHeader does nothing. FDF files cannot be written.
func (d *Decoder) WriteHeader(h *Header) error {
	return nil
}

// Write does nothing. FDF files cannot be written.
func (d *Decoder) Write(buf []byte) error {
	return nil
}

// DecodeHeader reads the header from r and resolves the geometry.
// The size of r is used to locate the payload.
func DecodeHeader(r io.ReadSeeker, opts Options) (h *Header, err error) {
	if r == nil {
		return nil, fmt.Errorf("no reader provided")
	}
	opts = opts.withDefaults()

	defer func() {
		if err2 := errFromRecover(recover()); err2 != nil {
			h, err = nil, err2
		}
	}()

	sr := newStreamReader(r, opts.LimitHeaderBytes)
	defer sr.close()

	h = newHeader()
	if err := decodeFields(sr, h, opts); err != nil {
		return nil, err
	}

	size, err := sr.size()
	if err != nil {
		return nil, err
	}

	if err := h.resolve(size, opts.Warnf); err != nil {
		return nil, err
	}

	return h, nil
}

func decodeFields(sr *streamReader, h *Header, opts Options) error {
	for {
		line, err := sr.readLine()
		if err == io.EOF {
			return nil
		}
		if err == errHeaderLimit {
			opts.Warnf("fdf: no end of header found in the first %d bytes", opts.LimitHeaderBytes)
			return nil
		}
		if err != nil {
			return err
		}

		if isEndOfHeader(line) {
			return nil
		}

		f, ok := fieldFromTokens(tokenize(normalizeLine(line)))
		if !ok {
			continue
		}

		if err := h.applyField(f); err != nil {
			return err
		}

		if opts.ShouldHandleField(f) {
			if err := opts.HandleField(f); err != nil {
				if err == ErrStopWalking {
					return nil
				}
				return err
			}
		}
	}
}

// isEndOfHeader reports whether line terminates the header.
func isEndOfHeader(line string) bool {
	return line == "" || line[0] == 0
}

// ReadPayloadFrom seeks r to h.DataOffset, fills buf with the payload
// and converts it to the native byte order.
// buf must be exactly h.PayloadSize() bytes. r is not closed.
func ReadPayloadFrom(r io.ReadSeeker, h *Header, buf []byte) (err error) {
	if r == nil || h == nil {
		return fmt.Errorf("no reader or header provided")
	}

	defer func() {
		if err2 := errFromRecover(recover()); err2 != nil {
			err = err2
		}
	}()

	if h.ComponentType.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedComponentType, h.ComponentType)
	}
	if size := h.PayloadSize(); int64(len(buf)) != size {
		return newGeometryErrorf("buffer is %d bytes, payload is %d bytes", len(buf), size)
	}
	if h.DataOffset < 0 {
		return newGeometryErrorf("negative data offset %d", h.DataOffset)
	}

	sr := newStreamReader(r, 0)
	if err := sr.readAt(h.DataOffset, buf); err != nil {
		return err
	}

	return SwapBytes(buf, h.ComponentType, h.ByteOrder, int(h.PixelCount()))
}

func errFromRecover(r any) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return fmt.Errorf("unknown panic: %v", r)
}
