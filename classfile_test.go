// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import "testing"

func TestOptionsMaxConstantPoolEntriesDefault(t *testing.T) {
	var o *Options
	if got := o.maxConstantPoolEntries(); got != defaultMaxConstantPoolEntries {
		t.Errorf("nil Options maxConstantPoolEntries() = %d, want %d", got, defaultMaxConstantPoolEntries)
	}

	o = &Options{}
	if got := o.maxConstantPoolEntries(); got != defaultMaxConstantPoolEntries {
		t.Errorf("zero-value Options maxConstantPoolEntries() = %d, want %d", got, defaultMaxConstantPoolEntries)
	}

	o = &Options{MaxConstantPoolEntries: -1}
	if got := o.maxConstantPoolEntries(); got != 0 {
		t.Errorf("MaxConstantPoolEntries: -1 maxConstantPoolEntries() = %d, want 0 (disabled)", got)
	}

	o = &Options{MaxConstantPoolEntries: 10}
	if got := o.maxConstantPoolEntries(); got != 10 {
		t.Errorf("MaxConstantPoolEntries: 10 maxConstantPoolEntries() = %d, want 10", got)
	}
}

func TestNewBytesRejectsOversizedConstantPool(t *testing.T) {
	data := minimalClassBytes(52, "<init>", AccPublic)
	if _, err := NewBytes(data, &Options{MaxConstantPoolEntries: 2}); err == nil {
		t.Fatalf("NewBytes succeeded despite a too-small MaxConstantPoolEntries cap, want error")
	}
}

func TestNewBytesMatchesDecode(t *testing.T) {
	data := minimalClassBytes(52, "<init>", AccPublic)
	cf, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes failed: %v", err)
	}
	if cf.ThisClass.BinaryName != "Test" {
		t.Errorf("ThisClass.BinaryName = %q, want Test", cf.ThisClass.BinaryName)
	}
}
