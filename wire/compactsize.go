// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Compact-size varint prefixes. Values below 0xfd are encoded as a single
// byte; larger values use one of these sentinel prefixes followed by a
// fixed-width little-endian integer.
const (
	prefix16 = 0xfd
	prefix32 = 0xfe
	prefix64 = 0xff
)

// errNonCanonicalVarInt is returned when a compact-size integer is encoded
// with more bytes than the minimal encoding for its value would require.
var errNonCanonicalVarInt = fmt.Errorf("non-canonical compact-size encoding")

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a compact-size integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < prefix16:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteVarInt serializes val to w using the compact-size encoding described
// in spec.md section 4.1: values under 253 occupy one byte; larger values use
// a one-byte prefix (253/254/255) followed by 2/4/8 little-endian bytes.
func WriteVarInt(w io.Writer, val uint64) error {
	switch {
	case val < prefix16:
		_, err := w.Write([]byte{byte(val)})
		return err
	case val <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = prefix16
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	case val <= 0xffffffff:
		buf := make([]byte, 5)
		buf[0] = prefix32
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	default:
		buf := make([]byte, 9)
		buf[0] = prefix64
		binary.LittleEndian.PutUint64(buf[1:], val)
		_, err := w.Write(buf)
		return err
	}
}

// ReadVarInt reads a compact-size integer from r. Truncated reads and
// non-canonical (non-minimal) encodings both fail, matching spec.md's framing
// strictness requirement.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	switch prefix[0] {
	case prefix16:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		val := uint64(binary.LittleEndian.Uint16(buf[:]))
		if val < prefix16 {
			return 0, errNonCanonicalVarInt
		}
		return val, nil
	case prefix32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		val := uint64(binary.LittleEndian.Uint32(buf[:]))
		if val <= 0xffff {
			return 0, errNonCanonicalVarInt
		}
		return val, nil
	case prefix64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		val := binary.LittleEndian.Uint64(buf[:])
		if val <= 0xffffffff {
			return 0, errNonCanonicalVarInt
		}
		return val, nil
	default:
		return uint64(prefix[0]), nil
	}
}

// WriteVarBytes writes a compact-size length prefix followed by the bytes
// themselves.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarBytes reads a compact-size length prefix followed by that many
// bytes, rejecting lengths beyond maxAllowed.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, fmt.Errorf("%s is larger than the max allowed size [count %d, max %d]",
			fieldName, count, maxAllowed)
	}
	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
