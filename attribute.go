// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

// RawAttribute is the (name, payload) shape every attribute starts life
// as: its name, resolved from the name index into the constant pool, and
// the exact byte span of its info array, read but not yet interpreted. Named attributes this
// decoder understands are promoted to a concrete type during class
// assembly; everything else is kept in this raw form (spec.md §4.6,
// "Unknown attributes").
type RawAttribute struct {
	Name    string
	Content []byte
}

// readAttributes reads an attributes_count followed by that many raw
// (name_index, length, info) triples.
func readAttributes(r *Reader, cp *ConstantPool) ([]RawAttribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]RawAttribute, 0, count)
	for i := 0; i < int(count); i++ {
		nameIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		name, err := cp.GetString(nameIndex)
		if err != nil {
			return nil, err
		}
		length, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		content, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		out = append(out, RawAttribute{Name: name, Content: content})
	}
	return out, nil
}
