// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import "math"

// Reader is a cursor over a byte slice providing big-endian primitive
// reads. Every class file component above it (descriptor grammar,
// constant pool, attribute dispatch, bytecode decoder) is driven by pulls
// against a Reader; there is no buffering or look-ahead beyond the
// current position.
//
// A short read is an error everywhere except the one site documented on
// DecodeCode: running out of bytes right before an opcode is read is
// treated as "the instruction stream is complete", not a failure.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps a byte slice for sequential, cursor-based reading. The
// slice is not copied; callers must not mutate it while the Reader is in
// use.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current offset from the start of the buffer.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// AtEnd reports whether the cursor sits exactly at the end of the buffer.
func (r *Reader) AtEnd() bool {
	return r.pos >= len(r.data)
}

// ReadBytes returns exactly n bytes starting at the cursor, or fails if
// fewer than n bytes remain.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrUnexpectedEndOfStream
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func (r *Reader) ReadI8() (int8, error) {
	b, err := r.ReadU8()
	return int8(b), err
}

// ReadU16 reads a big-endian unsigned 16-bit value.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadI16 reads a big-endian signed 16-bit value.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a big-endian unsigned 32-bit value.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadI32 reads a big-endian signed 32-bit value.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads a big-endian unsigned 64-bit value.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// ReadI64 reads a big-endian signed 64-bit value.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads a big-endian IEEE-754 single precision float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads a big-endian IEEE-754 double precision float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// SeekAlign consumes bytes until Position() is a multiple of m. It is
// used by tableswitch/lookupswitch, which must start their fixed-size
// payload on a 4-byte boundary relative to the start of the code array.
func (r *Reader) SeekAlign(m int) error {
	for r.pos%m != 0 {
		if _, err := r.ReadU8(); err != nil {
			return err
		}
	}
	return nil
}
