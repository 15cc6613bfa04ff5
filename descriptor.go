// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import "strings"

// PrimitiveKind enumerates the eight JVM primitive types, each written as
// a single descriptor character.
type PrimitiveKind uint8

const (
	Boolean PrimitiveKind = iota
	Char
	Float
	Double
	Byte
	Short
	Int
	Long
)

func (p PrimitiveKind) descriptorChar() byte {
	switch p {
	case Boolean:
		return 'Z'
	case Char:
		return 'C'
	case Float:
		return 'F'
	case Double:
		return 'D'
	case Byte:
		return 'B'
	case Short:
		return 'S'
	case Int:
		return 'I'
	case Long:
		return 'J'
	default:
		panic("classfile: invalid PrimitiveKind")
	}
}

func primitiveFromChar(c byte) (PrimitiveKind, bool) {
	switch c {
	case 'Z':
		return Boolean, true
	case 'C':
		return Char, true
	case 'F':
		return Float, true
	case 'D':
		return Double, true
	case 'B':
		return Byte, true
	case 'S':
		return Short, true
	case 'I':
		return Int, true
	case 'J':
		return Long, true
	default:
		return 0, false
	}
}

// FieldType is the recursive sum described in spec.md §3: a primitive, an
// object reference by binary name, or an array wrapping another
// FieldType. Exactly one of the three is populated; IsArray/IsObject
// discriminate.
type FieldType struct {
	primitive  PrimitiveKind
	isPrim     bool
	binaryName string // populated when this is an Object
	element    *FieldType
}

// NewPrimitiveType builds a FieldType for one of the eight primitives.
func NewPrimitiveType(p PrimitiveKind) FieldType {
	return FieldType{primitive: p, isPrim: true}
}

// NewObjectType builds a FieldType referring to a class by binary name
// (slash-separated, e.g. "java/lang/String").
func NewObjectType(binaryName string) FieldType {
	return FieldType{binaryName: binaryName}
}

// NewArrayType wraps element as an array's component type.
func NewArrayType(element FieldType) FieldType {
	return FieldType{element: &element}
}

// IsPrimitive reports whether t is one of the eight primitive types.
func (t FieldType) IsPrimitive() bool { return t.isPrim }

// IsObject reports whether t is a class reference.
func (t FieldType) IsObject() bool { return !t.isPrim && t.element == nil }

// IsArray reports whether t is an array type.
func (t FieldType) IsArray() bool { return t.element != nil }

// Primitive returns the primitive kind; valid only when IsPrimitive().
func (t FieldType) Primitive() PrimitiveKind { return t.primitive }

// BinaryName returns the referenced class's binary name; valid only when
// IsObject().
func (t FieldType) BinaryName() string { return t.binaryName }

// Element returns the array's component type; valid only when IsArray().
func (t FieldType) Element() FieldType { return *t.element }

// Dimensions counts the number of nested Array wrappers, iteratively so
// that deeply nested array descriptors do not recurse on the call stack
// (see spec.md §9, "Recursive types").
func (t FieldType) Dimensions() int {
	dims := 0
	cur := t
	for cur.IsArray() {
		dims++
		cur = cur.Element()
	}
	return dims
}

// Base returns the innermost non-array element type, iteratively.
func (t FieldType) Base() FieldType {
	cur := t
	for cur.IsArray() {
		cur = cur.Element()
	}
	return cur
}

func (t FieldType) String() string {
	var b strings.Builder
	t.writeDescriptor(&b)
	return b.String()
}

func (t FieldType) writeDescriptor(b *strings.Builder) {
	switch {
	case t.isPrim:
		b.WriteByte(t.primitive.descriptorChar())
	case t.element != nil:
		b.WriteByte('[')
		t.element.writeDescriptor(b)
	default:
		b.WriteByte('L')
		b.WriteString(t.binaryName)
		b.WriteByte(';')
	}
}

// ParseFieldType parses a single field-type descriptor. The entire string
// must be consumed: any trailing character after a valid parse is an
// error (spec.md §4.2).
func ParseFieldType(descriptor string) (FieldType, error) {
	t, rest, err := parseFieldTypePrefix(descriptor)
	if err != nil {
		return FieldType{}, err
	}
	if rest != "" {
		return FieldType{}, &InvalidDescriptorError{Text: descriptor}
	}
	return t, nil
}

// parseFieldTypePrefix parses exactly one field type from the front of s
// and returns the unconsumed remainder. The array arm recurses without
// requiring full consumption locally; only the top-level ParseFieldType
// call enforces that.
func parseFieldTypePrefix(s string) (FieldType, string, error) {
	if s == "" {
		return FieldType{}, "", &InvalidDescriptorError{Text: s}
	}
	switch c := s[0]; c {
	case 'L':
		rest := s[1:]
		i := strings.IndexByte(rest, ';')
		if i < 0 {
			return FieldType{}, "", &InvalidDescriptorError{Text: s}
		}
		return NewObjectType(rest[:i]), rest[i+1:], nil
	case '[':
		element, rest, err := parseFieldTypePrefix(s[1:])
		if err != nil {
			return FieldType{}, "", err
		}
		return NewArrayType(element), rest, nil
	default:
		p, ok := primitiveFromChar(c)
		if !ok {
			return FieldType{}, "", &InvalidDescriptorError{Text: s}
		}
		return NewPrimitiveType(p), s[1:], nil
	}
}

// MethodDescriptor is (parameters, return type) per the grammar
// `( field_type* ) return_type`.
type MethodDescriptor struct {
	Parameters []FieldType
	// ReturnType is the parsed return type; ReturnsVoid is true exactly
	// when the descriptor's return type was "V".
	ReturnType  FieldType
	ReturnsVoid bool
}

func (d MethodDescriptor) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range d.Parameters {
		p.writeDescriptor(&b)
	}
	b.WriteByte(')')
	if d.ReturnsVoid {
		b.WriteByte('V')
	} else {
		d.ReturnType.writeDescriptor(&b)
	}
	return b.String()
}

// ParseMethodDescriptor parses `( field_type* ) return_type`. Multiple or
// missing return types, a missing '(' or ')', or a 'V' used as a
// parameter type are all errors.
func ParseMethodDescriptor(descriptor string) (MethodDescriptor, error) {
	if len(descriptor) == 0 || descriptor[0] != '(' {
		return MethodDescriptor{}, &InvalidDescriptorError{Text: descriptor}
	}
	rest := descriptor[1:]
	var params []FieldType
	for {
		if rest == "" {
			return MethodDescriptor{}, &InvalidDescriptorError{Text: descriptor}
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		if rest[0] == 'V' {
			// 'V' is only valid as the return type, never a parameter.
			return MethodDescriptor{}, &InvalidDescriptorError{Text: descriptor}
		}
		param, next, err := parseFieldTypePrefix(rest)
		if err != nil {
			return MethodDescriptor{}, &InvalidDescriptorError{Text: descriptor}
		}
		params = append(params, param)
		rest = next
	}

	if rest == "" {
		return MethodDescriptor{}, &InvalidDescriptorError{Text: descriptor}
	}
	if rest == "V" {
		return MethodDescriptor{Parameters: params, ReturnsVoid: true}, nil
	}
	ret, trailing, err := parseFieldTypePrefix(rest)
	if err != nil || trailing != "" {
		// trailing != "" covers both "two return types" and any other
		// garbage left after the single return type.
		return MethodDescriptor{}, &InvalidDescriptorError{Text: descriptor}
	}
	return MethodDescriptor{Parameters: params, ReturnType: ret}, nil
}
