// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import "testing"

func u16b(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func u32b(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func utf8Entry(s string) []byte {
	b := []byte{tagUtf8}
	b = append(b, u16b(uint16(len(s)))...)
	b = append(b, s...)
	return b
}

// buildObjectInitPool builds a pool equivalent to:
//
//	#1 = Utf8               java/lang/Object
//	#2 = Class               #1
//	#3 = Utf8               <init>
//	#4 = Utf8               ()V
//	#5 = NameAndType         #3:#4
//	#6 = MethodRef           #2.#5
func buildObjectInitPool(t *testing.T) *ConstantPool {
	t.Helper()
	var buf []byte
	buf = append(buf, u16b(7)...) // constant_pool_count = 7 (6 entries, 1-based)
	buf = append(buf, utf8Entry("java/lang/Object")...)
	buf = append(buf, tagClass)
	buf = append(buf, u16b(1)...)
	buf = append(buf, utf8Entry("<init>")...)
	buf = append(buf, utf8Entry("()V")...)
	buf = append(buf, tagNameAndType)
	buf = append(buf, u16b(3)...)
	buf = append(buf, u16b(4)...)
	buf = append(buf, tagMethodRef)
	buf = append(buf, u16b(2)...)
	buf = append(buf, u16b(5)...)

	r := NewReader(buf)
	cp, err := parseConstantPool(r, 0)
	if err != nil {
		t.Fatalf("parseConstantPool failed: %v", err)
	}
	return cp
}

func TestConstantPoolResolution(t *testing.T) {
	cp := buildObjectInitPool(t)

	s, err := cp.GetString(1)
	if err != nil || s != "java/lang/Object" {
		t.Fatalf("GetString(1) = %q, %v; want java/lang/Object, nil", s, err)
	}

	cr, err := cp.GetClassRef(2)
	if err != nil || cr.BinaryName != "java/lang/Object" {
		t.Fatalf("GetClassRef(2) = %+v, %v", cr, err)
	}

	name, descriptor, err := cp.GetNameAndType(5)
	if err != nil || name != "<init>" || descriptor != "()V" {
		t.Fatalf("GetNameAndType(5) = %q, %q, %v", name, descriptor, err)
	}

	mr, err := cp.GetMethodRef(6)
	if err != nil {
		t.Fatalf("GetMethodRef(6) failed: %v", err)
	}
	if mr.Owner.BinaryName != "java/lang/Object" || mr.Name != "<init>" || !mr.IsConstructor() {
		t.Errorf("GetMethodRef(6) = %+v, want owner java/lang/Object, name <init>", mr)
	}
}

func TestConstantPoolMismatchedType(t *testing.T) {
	cp := buildObjectInitPool(t)
	if _, err := cp.GetClassRef(1); err == nil {
		t.Fatalf("GetClassRef(1) succeeded on a Utf8 entry, want mismatch error")
	} else if _, ok := err.(*MismatchedConstantPoolEntryTypeError); !ok {
		t.Errorf("GetClassRef(1) err type = %T, want *MismatchedConstantPoolEntryTypeError", err)
	}
}

func TestConstantPoolBadIndex(t *testing.T) {
	cp := buildObjectInitPool(t)
	tests := []uint16{0, 7, 100}
	for _, idx := range tests {
		if _, err := cp.GetString(idx); err == nil {
			t.Errorf("GetString(%d) succeeded, want BadConstantPoolIndex", idx)
		}
	}
}

func TestConstantPoolLongDoubleSecondSlot(t *testing.T) {
	var buf []byte
	buf = append(buf, u16b(3)...) // count=3: entry #1 is Long, #2 is its unused second slot
	buf = append(buf, tagLong)
	buf = append(buf, u32b(0)...)
	buf = append(buf, u32b(1)...)

	r := NewReader(buf)
	cp, err := parseConstantPool(r, 0)
	if err != nil {
		t.Fatalf("parseConstantPool failed: %v", err)
	}

	cv, err := cp.GetConstantValue(1)
	if err != nil || cv.Kind != ConstantLong || cv.Long != 1 {
		t.Fatalf("GetConstantValue(1) = %+v, %v", cv, err)
	}

	if _, err := cp.GetConstantValue(2); err == nil {
		t.Errorf("GetConstantValue(2) succeeded against Long's second slot, want BadConstantPoolIndex")
	}
}

func TestConstantPoolUnexpectedTag(t *testing.T) {
	buf := append(u16b(2), 0xEE)
	r := NewReader(buf)
	_, err := parseConstantPool(r, 0)
	if err == nil {
		t.Fatalf("parseConstantPool succeeded on unknown tag, want error")
	}
	if _, ok := err.(*UnexpectedConstantPoolTagError); !ok {
		t.Errorf("err type = %T, want *UnexpectedConstantPoolTagError", err)
	}
}

func TestConstantPoolMethodHandle(t *testing.T) {
	cp := buildObjectInitPool(t)
	// Append a MethodHandle entry (#7) of kind InvokeSpecial (7) against
	// the MethodRef already at #6. Re-parse a pool that includes it.
	var buf []byte
	buf = append(buf, u16b(8)...)
	buf = append(buf, utf8Entry("java/lang/Object")...)
	buf = append(buf, tagClass)
	buf = append(buf, u16b(1)...)
	buf = append(buf, utf8Entry("<init>")...)
	buf = append(buf, utf8Entry("()V")...)
	buf = append(buf, tagNameAndType)
	buf = append(buf, u16b(3)...)
	buf = append(buf, u16b(4)...)
	buf = append(buf, tagMethodRef)
	buf = append(buf, u16b(2)...)
	buf = append(buf, u16b(5)...)
	buf = append(buf, tagMethodHandle)
	buf = append(buf, byte(RefInvokeSpecial))
	buf = append(buf, u16b(6)...)

	r := NewReader(buf)
	var err error
	cp, err = parseConstantPool(r, 0)
	if err != nil {
		t.Fatalf("parseConstantPool failed: %v", err)
	}

	mh, err := cp.GetMethodHandle(7)
	if err != nil {
		t.Fatalf("GetMethodHandle(7) failed: %v", err)
	}
	if mh.Kind != RefInvokeSpecial || mh.Method == nil || mh.Method.Name != "<init>" {
		t.Errorf("GetMethodHandle(7) = %+v, want InvokeSpecial against <init>", mh)
	}
}
