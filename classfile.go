// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package classfile decodes JVM class files into a typed in-memory
// representation: the constant pool, fields, methods, and bytecode
// instruction streams, ready for static analysis or IR lowering.
package classfile

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/go-classfile/classfile/internal/log"
)

// defaultMaxConstantPoolEntries is the cap applied to
// constant_pool_count when Options does not set one. It equals 65535,
// the largest value the u2 field can hold, so the default rejects no
// count; a smaller Options.MaxConstantPoolEntries tightens the bound.
const defaultMaxConstantPoolEntries = 65535

// Options configures a decode. A nil *Options is equivalent to
// &Options{}, matching the saferwall/pe convention of a
// zero-value-safe Options struct with a Logger field.
type Options struct {
	// Logger receives non-fatal diagnostics encountered while decoding.
	// It never receives data that also appears in a returned error. A
	// nil Logger disables diagnostics.
	Logger log.Logger

	// MaxConstantPoolEntries caps constant_pool_count; zero selects
	// defaultMaxConstantPoolEntries. Set to a negative value to disable
	// the cap entirely.
	MaxConstantPoolEntries int
}

func (o *Options) maxConstantPoolEntries() int {
	if o == nil {
		return defaultMaxConstantPoolEntries
	}
	if o.MaxConstantPoolEntries == 0 {
		return defaultMaxConstantPoolEntries
	}
	if o.MaxConstantPoolEntries < 0 {
		return 0
	}
	return o.MaxConstantPoolEntries
}

func (o *Options) helper() *log.Helper {
	if o == nil {
		return log.NewHelper(nil)
	}
	return log.NewHelper(o.Logger)
}

// File is an opened class file backed by a memory-mapped region. Close
// must be called once the caller is done with the decoded ClassFile, as
// with the teacher library's own mmap-backed File type.
type File struct {
	*ClassFile

	mapping mmap.MMap
	handle  *os.File
}

// Open memory-maps path and decodes it as a class file. The returned
// File owns the mapping; call Close to release it.
func Open(path string, opts *Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	cf, err := Decode(m, opts)
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}

	return &File{ClassFile: cf, mapping: m, handle: f}, nil
}

// Close unmaps the underlying file and closes its descriptor.
func (f *File) Close() error {
	if f.mapping != nil {
		if err := f.mapping.Unmap(); err != nil {
			return err
		}
		f.mapping = nil
	}
	if f.handle != nil {
		return f.handle.Close()
	}
	return nil
}

// NewBytes decodes a class file already resident in memory, with no
// file handle or mapping to manage.
func NewBytes(data []byte, opts *Options) (*ClassFile, error) {
	return Decode(data, opts)
}

// Decode is the library's single entry point: it parses data as a
// complete class file and returns either the assembled ClassFile or the
// first structural error encountered (spec.md §6, "Consumer-facing
// interface").
func Decode(data []byte, opts *Options) (*ClassFile, error) {
	h := opts.helper()
	h.Debugf("decoding class file, %d bytes", len(data))

	r := NewReader(data)
	cf, err := parseClass(r, opts)
	if err != nil {
		h.Warnf("decode failed")
		return nil, err
	}
	if !r.AtEnd() {
		h.Debugf("%d trailing bytes after last class attribute", r.Remaining())
	}
	return cf, nil
}
