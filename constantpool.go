// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

import (
	"golang.org/x/text/transform"

	"github.com/go-classfile/classfile/internal/mutf8"
)

// Constant pool tag bytes, byte-for-byte as defined in the JVM
// specification chapter 4.4 (spec.md §6, "Byte-exact input formats").
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldRef           = 9
	tagMethodRef          = 10
	tagInterfaceMethodRef = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// entry is the raw, unresolved shape of one constant pool slot: a tag
// plus the fixed tuple of inline scalars/indices that tag carries. Entries
// reference each other by index; resolution dereferences on demand
// instead of building a cyclic object graph (spec.md §9).
type entry struct {
	tag byte

	// Utf8
	str string

	// Integer / Float / Long / Double
	i32 int32
	f32 float32
	i64 int64
	f64 float64

	// Class / String / Module / Package / MethodType
	index1 uint16

	// FieldRef / MethodRef / InterfaceMethodRef / NameAndType /
	// Dynamic / InvokeDynamic
	index2a uint16
	index2b uint16

	// MethodHandle
	refKind byte
}

func (e *entry) typeName() string {
	switch e.tag {
	case tagUtf8:
		return "Utf8"
	case tagInteger:
		return "Integer"
	case tagFloat:
		return "Float"
	case tagLong:
		return "Long"
	case tagDouble:
		return "Double"
	case tagClass:
		return "Class"
	case tagString:
		return "String"
	case tagFieldRef:
		return "FieldRef"
	case tagMethodRef:
		return "MethodRef"
	case tagInterfaceMethodRef:
		return "InterfaceMethodRef"
	case tagNameAndType:
		return "NameAndType"
	case tagMethodHandle:
		return "MethodHandle"
	case tagMethodType:
		return "MethodType"
	case tagDynamic:
		return "Dynamic"
	case tagInvokeDynamic:
		return "InvokeDynamic"
	case tagModule:
		return "Module"
	case tagPackage:
		return "Package"
	default:
		return "<unknown>"
	}
}

// longOrDoubleSlot marks the unused second slot consumed by a preceding
// Long or Double entry (spec.md §3, "Invariant").
const longOrDoubleSlot = 0

// ConstantPool is the 1-based, by-index symbol table described in
// spec.md §3/§4.3. It is populated once, in full, then treated as
// immutable: every Get* method is safe to call concurrently once
// population finishes (spec.md §5).
type ConstantPool struct {
	// entries is indexed by constant pool index; entries[0] and the
	// second slot of any Long/Double entry are both nil.
	entries []*entry
}

// Count returns the constant_pool_count this pool was parsed with
// (one past the highest valid single-width index, per the JVM format).
func (cp *ConstantPool) Count() int {
	return len(cp.entries)
}

// parseConstantPool reads constant_pool_count and then that many (minus
// one) entries, honoring the double-width slot consumed by Long/Double
// (spec.md §4.3, "Population").
func parseConstantPool(r *Reader, maxEntries int) (*ConstantPool, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if maxEntries > 0 && int(count) > maxEntries {
		return nil, malformed("constant_pool_count exceeds configured maximum")
	}

	cp := &ConstantPool{entries: make([]*entry, count)}
	i := 1
	for i < int(count) {
		e, err := parseConstantPoolEntry(r)
		if err != nil {
			return nil, err
		}
		cp.entries[i] = e
		if e.tag == tagLong || e.tag == tagDouble {
			i += 2
		} else {
			i++
		}
	}
	return cp, nil
}

func parseConstantPoolEntry(r *Reader) (*entry, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagUtf8:
		length, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		raw, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		decoded, _, err := transform.Bytes(mutf8.NewDecoder(), raw)
		if err != nil {
			return nil, malformed("UTF8 constant pool entry: " + err.Error())
		}
		return &entry{tag: tag, str: string(decoded)}, nil
	case tagInteger:
		v, err := r.ReadI32()
		return &entry{tag: tag, i32: v}, err
	case tagFloat:
		v, err := r.ReadF32()
		return &entry{tag: tag, f32: v}, err
	case tagLong:
		v, err := r.ReadI64()
		return &entry{tag: tag, i64: v}, err
	case tagDouble:
		v, err := r.ReadF64()
		return &entry{tag: tag, f64: v}, err
	case tagClass, tagString, tagModule, tagPackage, tagMethodType:
		v, err := r.ReadU16()
		return &entry{tag: tag, index1: v}, err
	case tagFieldRef, tagMethodRef, tagInterfaceMethodRef, tagNameAndType,
		tagDynamic, tagInvokeDynamic:
		a, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &entry{tag: tag, index2a: a, index2b: b}, nil
	case tagMethodHandle:
		kind, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &entry{tag: tag, refKind: kind, index1: idx}, nil
	default:
		return nil, &UnexpectedConstantPoolTagError{Tag: tag}
	}
}

func (cp *ConstantPool) get(index uint16) (*entry, error) {
	if index == 0 || int(index) >= len(cp.entries) {
		return nil, badIndex(index)
	}
	e := cp.entries[index]
	if e == nil {
		return nil, badIndex(index)
	}
	return e, nil
}

// GetString resolves a Utf8 entry to its decoded string.
func (cp *ConstantPool) GetString(index uint16) (string, error) {
	e, err := cp.get(index)
	if err != nil {
		return "", err
	}
	if e.tag != tagUtf8 {
		return "", mismatched(index, "Utf8", e.typeName())
	}
	return e.str, nil
}

// GetClassRef resolves a Class entry to a ClassReference.
func (cp *ConstantPool) GetClassRef(index uint16) (ClassReference, error) {
	e, err := cp.get(index)
	if err != nil {
		return ClassReference{}, err
	}
	if e.tag != tagClass {
		return ClassReference{}, mismatched(index, "Class", e.typeName())
	}
	name, err := cp.GetString(e.index1)
	if err != nil {
		return ClassReference{}, err
	}
	return ClassReference{BinaryName: name}, nil
}

// GetModuleRef resolves a Module entry.
func (cp *ConstantPool) GetModuleRef(index uint16) (ModuleReference, error) {
	e, err := cp.get(index)
	if err != nil {
		return ModuleReference{}, err
	}
	if e.tag != tagModule {
		return ModuleReference{}, mismatched(index, "Module", e.typeName())
	}
	name, err := cp.GetString(e.index1)
	if err != nil {
		return ModuleReference{}, err
	}
	return ModuleReference{Name: name}, nil
}

// GetPackageRef resolves a Package entry.
func (cp *ConstantPool) GetPackageRef(index uint16) (PackageReference, error) {
	e, err := cp.get(index)
	if err != nil {
		return PackageReference{}, err
	}
	if e.tag != tagPackage {
		return PackageReference{}, mismatched(index, "Package", e.typeName())
	}
	name, err := cp.GetString(e.index1)
	if err != nil {
		return PackageReference{}, err
	}
	return PackageReference{BinaryName: name}, nil
}

// GetNameAndType resolves a NameAndType entry to its (name, descriptor)
// string pair.
func (cp *ConstantPool) GetNameAndType(index uint16) (name, descriptor string, err error) {
	e, err := cp.get(index)
	if err != nil {
		return "", "", err
	}
	if e.tag != tagNameAndType {
		return "", "", mismatched(index, "NameAndType", e.typeName())
	}
	name, err = cp.GetString(e.index2a)
	if err != nil {
		return "", "", err
	}
	descriptor, err = cp.GetString(e.index2b)
	if err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// GetFieldRef resolves a FieldRef entry to a FieldReference.
func (cp *ConstantPool) GetFieldRef(index uint16) (FieldReference, error) {
	e, err := cp.get(index)
	if err != nil {
		return FieldReference{}, err
	}
	if e.tag != tagFieldRef {
		return FieldReference{}, mismatched(index, "FieldRef", e.typeName())
	}
	owner, err := cp.GetClassRef(e.index2a)
	if err != nil {
		return FieldReference{}, err
	}
	name, descriptor, err := cp.GetNameAndType(e.index2b)
	if err != nil {
		return FieldReference{}, err
	}
	ft, err := ParseFieldType(descriptor)
	if err != nil {
		return FieldReference{}, err
	}
	return FieldReference{Owner: owner, Name: name, Type: ft}, nil
}

// GetMethodRef resolves a MethodRef or InterfaceMethodRef entry to a
// MethodReference tagged with which it was.
func (cp *ConstantPool) GetMethodRef(index uint16) (MethodReference, error) {
	e, err := cp.get(index)
	if err != nil {
		return MethodReference{}, err
	}
	var kind MethodReferenceKind
	switch e.tag {
	case tagMethodRef:
		kind = MethodReferenceClass
	case tagInterfaceMethodRef:
		kind = MethodReferenceInterface
	default:
		return MethodReference{}, mismatched(index, "MethodRef | InterfaceMethodRef", e.typeName())
	}
	owner, err := cp.GetClassRef(e.index2a)
	if err != nil {
		return MethodReference{}, err
	}
	name, descriptor, err := cp.GetNameAndType(e.index2b)
	if err != nil {
		return MethodReference{}, err
	}
	md, err := ParseMethodDescriptor(descriptor)
	if err != nil {
		return MethodReference{}, err
	}
	return MethodReference{Kind: kind, Owner: owner, Name: name, Descriptor: md}, nil
}

// GetMethodHandle resolves a MethodHandle entry, dispatching to
// GetFieldRef or GetMethodRef according to reference_kind (spec.md §4.3,
// "Method-handle resolution").
func (cp *ConstantPool) GetMethodHandle(index uint16) (MethodHandle, error) {
	e, err := cp.get(index)
	if err != nil {
		return MethodHandle{}, err
	}
	if e.tag != tagMethodHandle {
		return MethodHandle{}, mismatched(index, "MethodHandle", e.typeName())
	}
	kind := MethodHandleKind(e.refKind)
	switch kind {
	case RefGetField, RefGetStatic, RefPutField, RefPutStatic:
		fr, err := cp.GetFieldRef(e.index1)
		if err != nil {
			return MethodHandle{}, err
		}
		return MethodHandle{Kind: kind, Field: &fr}, nil
	case RefInvokeVirtual, RefInvokeStatic, RefInvokeSpecial, RefNewInvokeSpecial, RefInvokeInterface:
		mr, err := cp.GetMethodRef(e.index1)
		if err != nil {
			return MethodHandle{}, err
		}
		return MethodHandle{Kind: kind, Method: &mr}, nil
	default:
		return MethodHandle{}, malformed("invalid method handle reference_kind")
	}
}

// GetConstantValue resolves any of the nine kinds of loadable constant
// (spec.md §4.3).
func (cp *ConstantPool) GetConstantValue(index uint16) (ConstantValue, error) {
	e, err := cp.get(index)
	if err != nil {
		return ConstantValue{}, err
	}
	switch e.tag {
	case tagInteger:
		return ConstantValue{Kind: ConstantInteger, Int: e.i32}, nil
	case tagFloat:
		return ConstantValue{Kind: ConstantFloat, Float: e.f32}, nil
	case tagLong:
		return ConstantValue{Kind: ConstantLong, Long: e.i64}, nil
	case tagDouble:
		return ConstantValue{Kind: ConstantDouble, Double: e.f64}, nil
	case tagString:
		s, err := cp.GetString(e.index1)
		if err != nil {
			return ConstantValue{}, err
		}
		return ConstantValue{Kind: ConstantString, Str: s}, nil
	case tagClass:
		cr, err := cp.GetClassRef(index)
		if err != nil {
			return ConstantValue{}, err
		}
		return ConstantValue{Kind: ConstantClass, Class: cr}, nil
	case tagMethodType:
		descriptor, err := cp.GetString(e.index1)
		if err != nil {
			return ConstantValue{}, err
		}
		md, err := ParseMethodDescriptor(descriptor)
		if err != nil {
			return ConstantValue{}, err
		}
		return ConstantValue{Kind: ConstantMethodType, Method: md}, nil
	case tagMethodHandle:
		mh, err := cp.GetMethodHandle(index)
		if err != nil {
			return ConstantValue{}, err
		}
		return ConstantValue{Kind: ConstantMethodHandle, Handle: mh}, nil
	case tagDynamic:
		name, descriptor, err := cp.GetNameAndType(e.index2b)
		if err != nil {
			return ConstantValue{}, err
		}
		ft, err := ParseFieldType(descriptor)
		if err != nil {
			return ConstantValue{}, err
		}
		return ConstantValue{
			Kind: ConstantDynamic,
			Dynamic: DynamicConstant{
				BootstrapMethodIndex: e.index2a,
				Name:                 name,
				Type:                 ft,
			},
		}, nil
	default:
		return ConstantValue{}, mismatched(index,
			"Integer | Long | Float | Double | String | MethodType | Class | MethodHandle | Dynamic",
			e.typeName())
	}
}

// GetArrayTypeRef reads a Class entry, parses its name as a field type,
// requires the outermost form to be an array, and counts dimensions
// iteratively (spec.md §4.3, "Array-type resolution").
func (cp *ConstantPool) GetArrayTypeRef(index uint16) (ArrayTypeRef, error) {
	cr, err := cp.GetClassRef(index)
	if err != nil {
		return ArrayTypeRef{}, err
	}
	ft, err := ParseFieldType(cr.BinaryName)
	if err != nil {
		return ArrayTypeRef{}, err
	}
	if !ft.IsArray() {
		return ArrayTypeRef{}, malformed("array type ref does not name an array type")
	}
	return ArrayTypeRef{BaseElement: ft.Base(), Dimensions: ft.Dimensions()}, nil
}

// GetInvokeDynamic resolves an InvokeDynamic entry to its bootstrap
// method table index and (name, descriptor) name-and-type pair, used by
// the bytecode decoder for the invokedynamic instruction.
func (cp *ConstantPool) GetInvokeDynamic(index uint16) (bootstrapIndex uint16, name string, descriptor MethodDescriptor, err error) {
	e, err := cp.get(index)
	if err != nil {
		return 0, "", MethodDescriptor{}, err
	}
	if e.tag != tagInvokeDynamic {
		return 0, "", MethodDescriptor{}, mismatched(index, "InvokeDynamic", e.typeName())
	}
	n, d, err := cp.GetNameAndType(e.index2b)
	if err != nil {
		return 0, "", MethodDescriptor{}, err
	}
	md, err := ParseMethodDescriptor(d)
	if err != nil {
		return 0, "", MethodDescriptor{}, err
	}
	return e.index2a, n, md, nil
}

// GetDynamic resolves a Dynamic entry (a constant produced by a bootstrap
// method, as opposed to InvokeDynamic's call site) to its bootstrap
// method table index and (name, type) pair.
func (cp *ConstantPool) GetDynamic(index uint16) (bootstrapIndex uint16, name string, fieldType FieldType, err error) {
	e, err := cp.get(index)
	if err != nil {
		return 0, "", FieldType{}, err
	}
	if e.tag != tagDynamic {
		return 0, "", FieldType{}, mismatched(index, "Dynamic", e.typeName())
	}
	n, d, err := cp.GetNameAndType(e.index2b)
	if err != nil {
		return 0, "", FieldType{}, err
	}
	ft, err := ParseFieldType(d)
	if err != nil {
		return 0, "", FieldType{}, err
	}
	return e.index2a, n, ft, nil
}
