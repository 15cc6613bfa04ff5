// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import "testing"

// minimalClassBytes builds a complete class file for:
//
//	class Test extends java.lang.Object {
//	    Test() { super(); }
//	}
//
// with majorVersion and the single method's name and access flags
// parameterized so callers can exercise the <clinit> validation rule.
func minimalClassBytes(majorVersion uint16, methodName string, methodAccessFlags uint16) []byte {
	var cp []byte
	cp = append(cp, utf8Entry("Test")...)             // #1
	cp = append(cp, tagClass)                         // #2
	cp = append(cp, u16b(1)...)
	cp = append(cp, utf8Entry("java/lang/Object")...) // #3
	cp = append(cp, tagClass)                         // #4
	cp = append(cp, u16b(3)...)
	cp = append(cp, utf8Entry("<init>")...)           // #5
	cp = append(cp, utf8Entry("()V")...)              // #6
	cp = append(cp, tagNameAndType)                   // #7
	cp = append(cp, u16b(5)...)
	cp = append(cp, u16b(6)...)
	cp = append(cp, tagMethodRef)                     // #8
	cp = append(cp, u16b(4)...)
	cp = append(cp, u16b(7)...)
	cp = append(cp, utf8Entry("Code")...)             // #9
	cp = append(cp, utf8Entry(methodName)...)         // #10

	var buf []byte
	buf = append(buf, u32b(classMagic)...)
	buf = append(buf, u16b(0)...)             // minor
	buf = append(buf, u16b(majorVersion)...)  // major
	buf = append(buf, u16b(11)...)            // constant_pool_count
	buf = append(buf, cp...)
	buf = append(buf, u16b(AccPublic|AccSuper)...) // access_flags
	buf = append(buf, u16b(2)...)                  // this_class
	buf = append(buf, u16b(4)...)                  // super_class
	buf = append(buf, u16b(0)...)                  // interfaces_count
	buf = append(buf, u16b(0)...)                  // fields_count
	buf = append(buf, u16b(1)...)                  // methods_count

	codeBody := []byte{0x2a, 0xb7, 0x00, 0x08, 0xb1} // aload_0; invokespecial #8; return
	var codeAttrPayload []byte
	codeAttrPayload = append(codeAttrPayload, u16b(1)...) // max_stack
	codeAttrPayload = append(codeAttrPayload, u16b(1)...) // max_locals
	codeAttrPayload = append(codeAttrPayload, u32b(uint32(len(codeBody)))...)
	codeAttrPayload = append(codeAttrPayload, codeBody...)
	codeAttrPayload = append(codeAttrPayload, u16b(0)...) // exception_table_count
	codeAttrPayload = append(codeAttrPayload, u16b(0)...) // attributes_count

	buf = append(buf, u16b(methodAccessFlags)...) // method access_flags
	buf = append(buf, u16b(10)...)                // name_index (methodName)
	buf = append(buf, u16b(6)...)                 // descriptor_index ()V
	buf = append(buf, u16b(1)...)                 // attributes_count
	buf = append(buf, u16b(9)...)                 // attribute name_index (Code)
	buf = append(buf, u32b(uint32(len(codeAttrPayload)))...)
	buf = append(buf, codeAttrPayload...)

	buf = append(buf, u16b(0)...) // class attributes_count
	return buf
}

func TestDecodeMinimalClass(t *testing.T) {
	data := minimalClassBytes(52, "<init>", AccPublic)
	cf, err := Decode(data, nil)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cf.ThisClass.BinaryName != "Test" {
		t.Errorf("ThisClass.BinaryName = %q, want Test", cf.ThisClass.BinaryName)
	}
	if cf.SuperClass == nil || cf.SuperClass.BinaryName != "java/lang/Object" {
		t.Fatalf("SuperClass = %+v, want java/lang/Object", cf.SuperClass)
	}
	if len(cf.Methods) != 1 {
		t.Fatalf("len(Methods) = %d, want 1", len(cf.Methods))
	}
	m := cf.Methods[0]
	if m.Name != "<init>" || m.Owner != "Test" {
		t.Errorf("method = %+v, want <init> owned by Test", m)
	}
	if m.Code == nil {
		t.Fatalf("method.Code = nil, want populated Code")
	}
	if len(m.Code.Instructions) != 3 {
		t.Errorf("len(Code.Instructions) = %d, want 3", len(m.Code.Instructions))
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := minimalClassBytes(52, "<init>", AccPublic)
	data[0] = 0x00
	if _, err := Decode(data, nil); err != ErrNotAClassFile {
		t.Fatalf("Decode err = %v, want ErrNotAClassFile", err)
	}
}

func TestDecodeClassInitializerMustBeStaticAfterVersion51(t *testing.T) {
	// Non-static <clinit> in a major-version-52 class file must fail.
	data := minimalClassBytes(52, "<clinit>", AccPublic)
	if _, err := Decode(data, nil); err == nil {
		t.Fatalf("Decode succeeded with non-static <clinit>, want MalformedClassFile")
	}

	// The same shape is legal when <clinit> is static.
	data = minimalClassBytes(52, "<clinit>", AccStatic)
	if _, err := Decode(data, nil); err != nil {
		t.Fatalf("Decode failed for static <clinit>: %v", err)
	}
}

func TestDecodeAbstractMethodMustNotHaveCode(t *testing.T) {
	data := minimalClassBytes(52, "doStuff", AccPublic|AccAbstract)
	if _, err := Decode(data, nil); err == nil {
		t.Fatalf("Decode succeeded for abstract method with a Code attribute, want error")
	}
}
