// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import (
	"errors"
	"fmt"
)

// Sentinel and structural errors returned while decoding a class file.
// These mirror the error taxonomy of the JVM class file format: a short
// read always fails except at an opcode-read boundary, where running out
// of bytes simply ends the instruction stream (see DecodeCode).
var (
	// ErrUnexpectedEndOfStream is returned by the byte reader whenever a
	// read runs past the end of its input at any site other than the
	// start of an opcode in the bytecode decoder.
	ErrUnexpectedEndOfStream = errors.New("classfile: unexpected end of stream")

	// ErrNotAClassFile is returned when the file does not begin with the
	// magic number 0xCAFEBABE.
	ErrNotAClassFile = errors.New("classfile: missing CAFEBABE magic")

	// ErrTooLongInstructionList is returned when a Code attribute's code
	// array is longer than 65535 bytes.
	ErrTooLongInstructionList = errors.New("classfile: code array exceeds 65535 bytes")
)

// UnexpectedConstantPoolTagError is returned when a constant pool entry
// starts with a tag byte outside the 17 recognized tag values.
type UnexpectedConstantPoolTagError struct {
	Tag byte
}

func (e *UnexpectedConstantPoolTagError) Error() string {
	return fmt.Sprintf("classfile: unexpected constant pool tag 0x%02x", e.Tag)
}

// BadConstantPoolIndexError is returned when an index is zero, out of
// range, or names the unused second slot of a Long/Double entry.
type BadConstantPoolIndexError struct {
	Index uint16
}

func (e *BadConstantPoolIndexError) Error() string {
	return fmt.Sprintf("classfile: bad constant pool index #%d", e.Index)
}

// MismatchedConstantPoolEntryTypeError is returned when a resolution
// operation is called against an entry of the wrong kind.
type MismatchedConstantPoolEntryTypeError struct {
	Index    uint16
	Expected string
	Found    string
}

func (e *MismatchedConstantPoolEntryTypeError) Error() string {
	return fmt.Sprintf("classfile: constant pool entry #%d: expected %s, found %s",
		e.Index, e.Expected, e.Found)
}

// InvalidDescriptorError is returned when the descriptor grammar rejects
// a field-type or method-descriptor string.
type InvalidDescriptorError struct {
	Text string
}

func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("classfile: invalid descriptor %q", e.Text)
}

// UnexpectedOpCodeError is returned for an unknown opcode, or an invalid
// secondary opcode following the 0xC4 wide prefix.
type UnexpectedOpCodeError struct {
	OpCode byte
}

func (e *UnexpectedOpCodeError) Error() string {
	return fmt.Sprintf("classfile: unexpected opcode 0x%02x", e.OpCode)
}

// MalformedClassFileError covers structural constraints that are not one
// of the more specific error kinds above: nonzero padding where zero is
// required, switch low > high, <clinit> constraints, and so on. A
// missing magic number is reported as ErrNotAClassFile, not as this
// type.
type MalformedClassFileError struct {
	Reason string
}

func (e *MalformedClassFileError) Error() string {
	return "classfile: malformed class file: " + e.Reason
}

func malformed(reason string) error {
	return &MalformedClassFileError{Reason: reason}
}

func badIndex(index uint16) error {
	return &BadConstantPoolIndexError{Index: index}
}

func mismatched(index uint16, expected, found string) error {
	return &MismatchedConstantPoolEntryTypeError{Index: index, Expected: expected, Found: found}
}
