// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

const classMagic = 0xCAFEBABE

// Access flag bits shared (with different valid subsets) by classes,
// fields, and methods (JVM spec table 4.1-A and friends).
const (
	AccPublic       uint16 = 0x0001
	AccPrivate      uint16 = 0x0002
	AccProtected    uint16 = 0x0004
	AccStatic       uint16 = 0x0008
	AccFinal        uint16 = 0x0010
	AccSuper        uint16 = 0x0020
	AccSynchronized uint16 = 0x0020
	AccVolatile     uint16 = 0x0040
	AccBridge       uint16 = 0x0040
	AccTransient    uint16 = 0x0080
	AccVarargs      uint16 = 0x0080
	AccNative       uint16 = 0x0100
	AccInterface    uint16 = 0x0200
	AccAbstract     uint16 = 0x0400
	AccStrict       uint16 = 0x0800
	AccSynthetic    uint16 = 0x1000
	AccAnnotation   uint16 = 0x2000
	AccEnum         uint16 = 0x4000
	AccModule       uint16 = 0x8000
)

// Field is one parsed field_info entry.
type Field struct {
	AccessFlags   uint16
	Name          string
	Type          FieldType
	ConstantValue *ConstantValue
	Signature     string
	Synthetic     bool
	Deprecated    bool
	Attributes    []RawAttribute
}

// Method is one parsed method_info entry. Owner is the declaring
// class's binary name, threaded through from the Class Assembler rather
// than re-read per method (spec.md §4.6).
type Method struct {
	AccessFlags uint16
	Owner       string
	Name        string
	Descriptor  MethodDescriptor
	Code        *Code
	Exceptions  []ClassReference
	Parameters  []MethodParameter
	Signature   string
	Synthetic   bool
	Deprecated  bool
	Attributes  []RawAttribute
}

func (m Method) isAbstractOrNative() bool {
	return m.AccessFlags&(AccAbstract|AccNative) != 0
}

func (m Method) isClassInitializer() bool {
	return m.Name == "<clinit>"
}

// Reference builds the MethodReference a caller would use to refer to
// this method from elsewhere (e.g. to cross-check against an
// invokespecial target), tagged as a class reference since a method_info
// entry is always read from its own declaring class, never an interface
// reference in isolation.
func (m Method) Reference() MethodReference {
	return MethodReference{
		Kind:       MethodReferenceClass,
		Owner:      ClassReference{BinaryName: m.Owner},
		Name:       m.Name,
		Descriptor: m.Descriptor,
	}
}

// ClassFile is the fully assembled result of decoding a .class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	AccessFlags  uint16
	ThisClass    ClassReference
	SuperClass   *ClassReference
	Interfaces   []ClassReference
	Fields       []Field
	Methods      []Method
	SourceFile   string
	Signature    string
	Bootstraps   []BootstrapMethod
	InnerClasses []InnerClass
	Attributes   []RawAttribute
}

// IsInterface reports whether the ACC_INTERFACE bit is set.
func (c *ClassFile) IsInterface() bool { return c.AccessFlags&AccInterface != 0 }

// parseClass is the Class Assembler: it reads the magic number, version,
// constant pool, access flags, this/super class, interfaces, fields,
// methods, and class-level attributes in file order (spec.md §4.6).
func parseClass(r *Reader, opts *Options) (*ClassFile, error) {
	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != classMagic {
		return nil, ErrNotAClassFile
	}

	minor, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	major, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	cp, err := parseConstantPool(r, opts.maxConstantPoolEntries())
	if err != nil {
		return nil, err
	}

	accessFlags, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	thisClassIndex, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	thisClass, err := cp.GetClassRef(thisClassIndex)
	if err != nil {
		return nil, err
	}

	superClassIndex, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	var superClass *ClassReference
	if superClassIndex != 0 {
		sc, err := cp.GetClassRef(superClassIndex)
		if err != nil {
			return nil, err
		}
		superClass = &sc
	}

	interfaceCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	interfaces := make([]ClassReference, interfaceCount)
	for i := range interfaces {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		cr, err := cp.GetClassRef(idx)
		if err != nil {
			return nil, err
		}
		interfaces[i] = cr
	}

	fields, err := parseFields(r, cp)
	if err != nil {
		return nil, err
	}

	methods, err := parseMethods(r, cp, thisClass.BinaryName, int(major))
	if err != nil {
		return nil, err
	}

	classAttrs, err := readAttributes(r, cp)
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{
		MinorVersion: minor,
		MajorVersion: major,
		ConstantPool: cp,
		AccessFlags:  accessFlags,
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   classAttrs,
	}

	for _, a := range classAttrs {
		switch a.Name {
		case "SourceFile":
			nr := NewReader(a.Content)
			idx, err := nr.ReadU16()
			if err != nil {
				return nil, err
			}
			cf.SourceFile, err = cp.GetString(idx)
			if err != nil {
				return nil, err
			}
		case "Signature":
			sig, err := parseSignatureAttribute(a, cp)
			if err != nil {
				return nil, err
			}
			cf.Signature = sig
		case "BootstrapMethods":
			bs, err := parseBootstrapMethodsAttribute(a, cp)
			if err != nil {
				return nil, err
			}
			cf.Bootstraps = bs
		case "InnerClasses":
			ics, err := parseInnerClassesAttribute(a, cp)
			if err != nil {
				return nil, err
			}
			cf.InnerClasses = ics
		}
	}

	return cf, nil
}

func parseFields(r *Reader, cp *ConstantPool) ([]Field, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]Field, count)
	for i := range out {
		flags, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		nameIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		name, err := cp.GetString(nameIndex)
		if err != nil {
			return nil, err
		}
		descIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		descriptor, err := cp.GetString(descIndex)
		if err != nil {
			return nil, err
		}
		ft, err := ParseFieldType(descriptor)
		if err != nil {
			return nil, err
		}
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, err
		}

		f := Field{AccessFlags: flags, Name: name, Type: ft, Attributes: attrs}
		for _, a := range attrs {
			switch a.Name {
			case "ConstantValue":
				cv, err := parseConstantValueAttribute(a, cp)
				if err != nil {
					return nil, err
				}
				f.ConstantValue = &cv
			case "Signature":
				sig, err := parseSignatureAttribute(a, cp)
				if err != nil {
					return nil, err
				}
				f.Signature = sig
			case "Synthetic":
				f.Synthetic = true
			case "Deprecated":
				f.Deprecated = true
			}
		}
		out[i] = f
	}
	return out, nil
}

func parseMethods(r *Reader, cp *ConstantPool, ownerName string, majorVersion int) ([]Method, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]Method, count)
	for i := range out {
		flags, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		nameIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		name, err := cp.GetString(nameIndex)
		if err != nil {
			return nil, err
		}
		descIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		descriptorStr, err := cp.GetString(descIndex)
		if err != nil {
			return nil, err
		}
		descriptor, err := ParseMethodDescriptor(descriptorStr)
		if err != nil {
			return nil, err
		}
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, err
		}

		m := Method{AccessFlags: flags, Owner: ownerName, Name: name, Descriptor: descriptor, Attributes: attrs}
		var codeAttrCount int
		for _, a := range attrs {
			switch a.Name {
			case "Code":
				codeAttrCount++
				code, err := parseCodeAttribute(a, cp)
				if err != nil {
					return nil, err
				}
				m.Code = code
			case "Exceptions":
				exc, err := parseExceptionsAttribute(a, cp)
				if err != nil {
					return nil, err
				}
				m.Exceptions = exc
			case "MethodParameters":
				params, err := parseMethodParametersAttribute(a, cp)
				if err != nil {
					return nil, err
				}
				m.Parameters = params
			case "Signature":
				sig, err := parseSignatureAttribute(a, cp)
				if err != nil {
					return nil, err
				}
				m.Signature = sig
			case "Synthetic":
				m.Synthetic = true
			case "Deprecated":
				m.Deprecated = true
			}
		}

		if err := validateMethod(m, codeAttrCount, majorVersion); err != nil {
			return nil, err
		}

		out[i] = m
	}
	return out, nil
}

// validateMethod enforces spec.md §4.4's "Method-info validation":
// native/abstract methods (other than class initializers) must lack a
// Code attribute; every other method must have exactly one. Class
// initializers compiled for major version > 51 must be static with no
// parameters.
func validateMethod(m Method, codeAttrCount int, majorVersion int) error {
	if m.Name == "<clinit>" && majorVersion > 51 {
		if m.AccessFlags&AccStatic == 0 {
			return malformed("<clinit> must be static in class files newer than version 51")
		}
		if len(m.Descriptor.Parameters) != 0 {
			return malformed("<clinit> must take no parameters in class files newer than version 51")
		}
	}

	if m.isAbstractOrNative() && !m.isClassInitializer() {
		if codeAttrCount != 0 {
			return malformed("native or abstract method must not carry a Code attribute")
		}
		return nil
	}
	if codeAttrCount != 1 {
		return malformed("method must carry exactly one Code attribute")
	}
	return nil
}
