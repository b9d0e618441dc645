// Copyright 2018 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package leb128 implements the variable-length integer encoding used
// throughout the WebAssembly binary format.
package leb128

import "io"

// ReadVarUint64 reads an unsigned LEB128-encoded integer from r.
func ReadVarUint64(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, nil
}

// ReadVarInt64 reads a signed LEB128-encoded integer from r.
func ReadVarInt64(r io.ByteReader) (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}

// WriteVarUint64 writes v to w using the unsigned LEB128 encoding.
func WriteVarUint64(w io.ByteWriter, v uint64) error {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

// WriteVarInt64 writes v to w using the signed LEB128 encoding.
func WriteVarInt64(w io.ByteWriter, v int64) error {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			if err := w.WriteByte(b); err != nil {
				return err
			}
			return nil
		}
		b |= 0x80
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
}
