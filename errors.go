// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package fdf

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRecognized is returned when a path does not name an FDF file.
	// Callers should try another decoder.
	ErrNotRecognized = errors.New("fdf: not recognized")

	// ErrFileNotFound is returned when an FDF path cannot be opened.
	ErrFileNotFound = errors.New("fdf: file not found")

	// ErrIO is returned when a seek or read on the underlying resource fails.
	ErrIO = errors.New("fdf: i/o error")

	// ErrInvalidHeader is returned when a recognized header field has a value that cannot be parsed.
	ErrInvalidHeader = errors.New("fdf: invalid header")

	// ErrMissingRequiredField is returned when the header never declares the storage type.
	ErrMissingRequiredField = errors.New("fdf: missing required field")

	// ErrUnknownComponentType is returned for a storage keyword outside the supported set.
	ErrUnknownComponentType = errors.New("fdf: unknown component type")

	// ErrInvalidGeometry is returned for zero or negative dimensions,
	// a negative payload offset or a buffer of the wrong size.
	ErrInvalidGeometry = errors.New("fdf: invalid geometry")

	// ErrUnsupportedComponentType is returned when asked to byte swap
	// a component type without a fixed width.
	ErrUnsupportedComponentType = errors.New("fdf: unsupported component type")

	// ErrStopWalking is a sentinel error a HandleField func may return to stop
	// reading the header. It is not returned to the caller.
	ErrStopWalking = errors.New("stop walking")
)

// IsFormatError reports whether err was caused by the content of the file
// rather than by the file system.
func IsFormatError(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{
		ErrInvalidHeader,
		ErrMissingRequiredField,
		ErrUnknownComponentType,
		ErrInvalidGeometry,
		ErrUnsupportedComponentType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func newHeaderErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidHeader}, args...)...)
}

func newGeometryErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidGeometry}, args...)...)
}

func newIOError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
