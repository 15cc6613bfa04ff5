// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

// ClassReference names a class or interface by its binary name (e.g.
// "java/lang/String"). It is an owned value produced by resolution, not a
// pointer back into the constant pool (spec.md §3, "Lifetime").
type ClassReference struct {
	BinaryName string
}

// ModuleReference names a module by its Utf8 name.
type ModuleReference struct {
	Name string
}

// PackageReference names a package by its binary name.
type PackageReference struct {
	BinaryName string
}

// FieldReference is a resolved {owner, name, type} product.
type FieldReference struct {
	Owner ClassReference
	Name  string
	Type  FieldType
}

// MethodReferenceKind distinguishes a MethodRef from an InterfaceMethodRef
// constant pool entry, since the two resolve to the same shape of data
// but carry distinct meaning (spec.md §3, "References").
type MethodReferenceKind uint8

const (
	// MethodReferenceClass is produced by resolving a MethodRef entry.
	MethodReferenceClass MethodReferenceKind = iota
	// MethodReferenceInterface is produced by resolving an
	// InterfaceMethodRef entry.
	MethodReferenceInterface
)

// MethodReference is a resolved {owner, name, descriptor} product, tagged
// with whether it came from a MethodRef or an InterfaceMethodRef entry.
type MethodReference struct {
	Kind       MethodReferenceKind
	Owner      ClassReference
	Name       string
	Descriptor MethodDescriptor
}

// IsConstructor reports whether this reference names an instance
// initializer: a method named "<init>" with a void return type
// (spec.md §8, scenario 2).
func (m MethodReference) IsConstructor() bool {
	return m.Name == "<init>" && m.Descriptor.ReturnsVoid
}

// IsClassInitializer reports whether this reference names a class or
// interface initializer.
func (m MethodReference) IsClassInitializer() bool {
	return m.Name == "<clinit>"
}

// ArrayTypeRef is the {base_element, dimension_count} product of
// resolving a Class entry whose name parses as an array descriptor
// (spec.md §4.3, "Array-type resolution").
type ArrayTypeRef struct {
	BaseElement FieldType
	Dimensions  int
}

// MethodHandleKind is one of the nine reference_kind values a
// MethodHandle constant pool entry may carry.
type MethodHandleKind uint8

const (
	RefGetField MethodHandleKind = iota + 1
	RefGetStatic
	RefPutField
	RefPutStatic
	RefInvokeVirtual
	RefInvokeStatic
	RefInvokeSpecial
	RefNewInvokeSpecial
	RefInvokeInterface
)

// MethodHandle is a resolved method handle: the reference_kind tag plus
// the field or method reference it resolves against (spec.md §4.3,
// "Method-handle resolution").
type MethodHandle struct {
	Kind   MethodHandleKind
	Field  *FieldReference
	Method *MethodReference
}

// ConstantValueKind discriminates the nine shapes a loadable constant
// (the result of get_constant_value, ldc, ldc_w, ldc2_w) can take.
type ConstantValueKind uint8

const (
	ConstantInteger ConstantValueKind = iota
	ConstantFloat
	ConstantLong
	ConstantDouble
	ConstantString
	ConstantClass
	ConstantMethodType
	ConstantMethodHandle
	ConstantDynamic
)

// ConstantValue is a tagged union over the values constant-pool
// resolution can hand back as a "loadable constant" (spec.md §4.3,
// get_constant_value).
type ConstantValue struct {
	Kind    ConstantValueKind
	Int     int32
	Float   float32
	Long    int64
	Double  float64
	Str     string
	Class   ClassReference
	Method  MethodDescriptor
	Handle  MethodHandle
	Dynamic DynamicConstant
}

// DynamicConstant is the resolved form of a Dynamic constant pool entry
// loaded as a constant: the bootstrap method table index, the name, and
// the field type the dynamic constant evaluates to.
type DynamicConstant struct {
	BootstrapMethodIndex uint16
	Name                 string
	Type                 FieldType
}

// IsWide reports whether this constant occupies two stack/local slots:
// true for Long, Double, and a Dynamic constant whose declared type is
// long or double (spec.md §4.5, "Load-constant size constraints").
func (c ConstantValue) IsWide() bool {
	switch c.Kind {
	case ConstantLong, ConstantDouble:
		return true
	case ConstantDynamic:
		return c.Dynamic.Type.IsPrimitive() &&
			(c.Dynamic.Type.Primitive() == Long || c.Dynamic.Type.Primitive() == Double)
	default:
		return false
	}
}
