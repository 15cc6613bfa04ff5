// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import "testing"

func TestParseFieldTypeRoundTrip(t *testing.T) {
	tests := []string{
		"Z", "C", "F", "D", "B", "S", "I", "J",
		"Ljava/lang/String;",
		"[I",
		"[[Ljava/lang/Object;",
		"[[[J",
	}
	for _, descriptor := range tests {
		t.Run(descriptor, func(t *testing.T) {
			ft, err := ParseFieldType(descriptor)
			if err != nil {
				t.Fatalf("ParseFieldType(%q) failed: %v", descriptor, err)
			}
			if got := ft.String(); got != descriptor {
				t.Errorf("round trip = %q, want %q", got, descriptor)
			}
		})
	}
}

func TestParseFieldTypeArrayDimensions(t *testing.T) {
	ft, err := ParseFieldType("[[[Ljava/lang/String;")
	if err != nil {
		t.Fatalf("ParseFieldType failed: %v", err)
	}
	if !ft.IsArray() {
		t.Fatalf("IsArray() = false, want true")
	}
	if got := ft.Dimensions(); got != 3 {
		t.Errorf("Dimensions() = %d, want 3", got)
	}
	base := ft.Base()
	if !base.IsObject() || base.BinaryName() != "java/lang/String" {
		t.Errorf("Base() = %+v, want object java/lang/String", base)
	}
}

func TestParseFieldTypeRejections(t *testing.T) {
	tests := []string{
		"",
		"Q",
		"Ljava/lang/String",  // missing terminating semicolon
		"Ljava/lang/String;X", // trailing garbage
		"[",
	}
	for _, descriptor := range tests {
		t.Run(descriptor, func(t *testing.T) {
			if _, err := ParseFieldType(descriptor); err == nil {
				t.Errorf("ParseFieldType(%q) succeeded, want error", descriptor)
			}
		})
	}
}

func TestParseMethodDescriptorRoundTrip(t *testing.T) {
	tests := []string{
		"()V",
		"()I",
		"(I[Ljava/lang/String;J)V",
		"(Ljava/lang/Object;)Ljava/lang/Object;",
	}
	for _, descriptor := range tests {
		t.Run(descriptor, func(t *testing.T) {
			md, err := ParseMethodDescriptor(descriptor)
			if err != nil {
				t.Fatalf("ParseMethodDescriptor(%q) failed: %v", descriptor, err)
			}
			if got := md.String(); got != descriptor {
				t.Errorf("round trip = %q, want %q", got, descriptor)
			}
		})
	}
}

// TestParseMethodDescriptorRejections covers every counter-example from
// the descriptor grammar's testable properties.
func TestParseMethodDescriptorRejections(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
	}{
		{"empty string", ""},
		{"missing return type", "()"},
		{"missing semicolon", "(I[Ljava/lang/StringJ)V"},
		{"unterminated object", "()Ljava/lang"},
		{"void as parameter", "(V[Ljava/lang/String;J)V"},
		{"two return types", "()VV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMethodDescriptor(tt.descriptor); err == nil {
				t.Errorf("ParseMethodDescriptor(%q) succeeded, want error", tt.descriptor)
			}
		})
	}
}
