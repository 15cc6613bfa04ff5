// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import "testing"

func TestReaderPrimitives(t *testing.T) {
	data := []byte{0x01, 0xff, 0x00, 0x02, 0x80, 0x00, 0x01}
	r := NewReader(data)

	u8, err := r.ReadU8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("ReadU8() = %d, %v; want 1, nil", u8, err)
	}

	u16, err := r.ReadU16()
	if err != nil || u16 != 0xff00 {
		t.Fatalf("ReadU16() = %#x, %v; want 0xff00, nil", u16, err)
	}

	u32, err := r.ReadU32()
	if err != nil || u32 != 0x02800001 {
		t.Fatalf("ReadU32() = %#x, %v; want 0x02800001, nil", u32, err)
	}

	if !r.AtEnd() {
		t.Fatalf("AtEnd() = false, want true after consuming all bytes")
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.ReadU32(); err != ErrUnexpectedEndOfStream {
		t.Fatalf("ReadU32() err = %v, want ErrUnexpectedEndOfStream", err)
	}
}

func TestReaderSeekAlign(t *testing.T) {
	tests := []struct {
		start int
		align int
		want  int
	}{
		{0, 4, 0},
		{1, 4, 4},
		{2, 4, 4},
		{3, 4, 4},
		{4, 4, 4},
	}
	data := make([]byte, 8)
	for _, tt := range tests {
		r := &Reader{data: data, pos: tt.start}
		if err := r.SeekAlign(tt.align); err != nil {
			t.Fatalf("SeekAlign(%d) from %d: %v", tt.align, tt.start, err)
		}
		if r.Position() != tt.want {
			t.Errorf("SeekAlign(%d) from %d = %d, want %d", tt.align, tt.start, r.Position(), tt.want)
		}
	}
}

func TestReaderFloats(t *testing.T) {
	// 1.0f as IEEE-754 single precision.
	r := NewReader([]byte{0x3f, 0x80, 0x00, 0x00})
	f, err := r.ReadF32()
	if err != nil || f != 1.0 {
		t.Fatalf("ReadF32() = %v, %v; want 1.0, nil", f, err)
	}
}
