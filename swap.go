// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package fdf

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder is the byte order of the payload as declared by the bigendian header field.
//
//go:generate stringer -type=ByteOrder
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// nativeEndian is the byte order of the running system.
var nativeEndian = binary.NativeEndian

// NativeByteOrder returns the byte order of the running system.
func NativeByteOrder() ByteOrder {
	var b [2]byte
	nativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}

// SwapBytes converts the first n components in buf from order to the native
// byte order of the running system, in place.
// Calling it twice with the same arguments restores the original bytes.
func SwapBytes(buf []byte, t ComponentType, order ByteOrder, n int) error {
	info, found := componentTable[t]
	if !found {
		return fmt.Errorf("%w: %s", ErrUnsupportedComponentType, t)
	}
	if n < 0 || n > len(buf)/info.size {
		return newGeometryErrorf("buffer of %d bytes cannot hold %d components of type %s", len(buf), n, t)
	}
	if order == NativeByteOrder() {
		return nil
	}
	info.swap(buf[:n*info.size])
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (o ByteOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *ByteOrder) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LittleEndian":
		*o = LittleEndian
	case "BigEndian":
		*o = BigEndian
	default:
		return fmt.Errorf("unknown byte order %q", text)
	}
	return nil
}
