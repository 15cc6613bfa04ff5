// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import "testing"

func TestMethodReferenceIsConstructor(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		want       bool
	}{
		{"<init>", "()V", true},
		{"<init>", "()I", false},
		{"run", "()V", false},
		{"<clinit>", "()V", false},
	}
	for _, tt := range tests {
		md, err := ParseMethodDescriptor(tt.descriptor)
		if err != nil {
			t.Fatalf("ParseMethodDescriptor(%q) failed: %v", tt.descriptor, err)
		}
		mr := MethodReference{Name: tt.name, Descriptor: md}
		if got := mr.IsConstructor(); got != tt.want {
			t.Errorf("MethodReference{Name: %q}.IsConstructor() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMethodReferenceIsClassInitializer(t *testing.T) {
	mr := MethodReference{Name: "<clinit>"}
	if !mr.IsClassInitializer() {
		t.Errorf("IsClassInitializer() = false, want true")
	}
	mr.Name = "<init>"
	if mr.IsClassInitializer() {
		t.Errorf("IsClassInitializer() = true, want false")
	}
}

func TestConstantValueIsWide(t *testing.T) {
	tests := []struct {
		name string
		cv   ConstantValue
		want bool
	}{
		{"int", ConstantValue{Kind: ConstantInteger}, false},
		{"long", ConstantValue{Kind: ConstantLong}, true},
		{"double", ConstantValue{Kind: ConstantDouble}, true},
		{"string", ConstantValue{Kind: ConstantString}, false},
		{
			"dynamic long",
			ConstantValue{Kind: ConstantDynamic, Dynamic: DynamicConstant{Type: NewPrimitiveType(Long)}},
			true,
		},
		{
			"dynamic int",
			ConstantValue{Kind: ConstantDynamic, Dynamic: DynamicConstant{Type: NewPrimitiveType(Int)}},
			false,
		},
		{
			"dynamic object",
			ConstantValue{Kind: ConstantDynamic, Dynamic: DynamicConstant{Type: NewObjectType("java/lang/Object")}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cv.IsWide(); got != tt.want {
				t.Errorf("IsWide() = %v, want %v", got, tt.want)
			}
		})
	}
}
