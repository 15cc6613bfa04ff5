// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

// ExceptionHandler is one entry of a Code attribute's exception table
// (JVM spec 4.7.3).
type ExceptionHandler struct {
	StartPC   int
	EndPC     int
	HandlerPC int
	// CatchType is nil for a handler that catches every exception (a
	// catch_type of 0, used to implement finally blocks).
	CatchType *ClassReference
}

// Code is the parsed form of a method's Code attribute: its stack/local
// depth, decoded instruction stream, exception table, and any nested
// attributes (LineNumberTable, LocalVariableTable, StackMapTable, etc.,
// kept raw since this decoder does not verify bytecode).
type Code struct {
	MaxStack       int
	MaxLocals      int
	Instructions   []Instruction
	ExceptionTable []ExceptionHandler
	Attributes     []RawAttribute
}

func parseCodeAttribute(raw RawAttribute, cp *ConstantPool) (*Code, error) {
	r := NewReader(raw.Content)
	maxStack, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	codeLength, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if codeLength == 0 {
		return nil, malformed("code array must not be empty")
	}
	if codeLength > maxCodeLength {
		return nil, ErrTooLongInstructionList
	}
	codeBytes, err := r.ReadBytes(int(codeLength))
	if err != nil {
		return nil, err
	}
	instructions, err := DecodeCode(codeBytes, cp)
	if err != nil {
		return nil, err
	}

	excCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	table := make([]ExceptionHandler, excCount)
	for i := range table {
		startPC, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		endPC, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		handlerPC, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		catchIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		h := ExceptionHandler{StartPC: int(startPC), EndPC: int(endPC), HandlerPC: int(handlerPC)}
		if catchIndex != 0 {
			cr, err := cp.GetClassRef(catchIndex)
			if err != nil {
				return nil, err
			}
			h.CatchType = &cr
		}
		table[i] = h
	}

	attrs, err := readAttributes(r, cp)
	if err != nil {
		return nil, err
	}

	return &Code{
		MaxStack:       int(maxStack),
		MaxLocals:      int(maxLocals),
		Instructions:   instructions,
		ExceptionTable: table,
		Attributes:     attrs,
	}, nil
}

// parseExceptionsAttribute parses the Exceptions attribute: the list of
// checked exception classes a method declares with `throws`.
func parseExceptionsAttribute(raw RawAttribute, cp *ConstantPool) ([]ClassReference, error) {
	r := NewReader(raw.Content)
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]ClassReference, count)
	for i := range out {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		cr, err := cp.GetClassRef(idx)
		if err != nil {
			return nil, err
		}
		out[i] = cr
	}
	return out, nil
}

// BootstrapMethod is one entry of the BootstrapMethods attribute: the
// method handle invoked at class initialization time to resolve an
// invokedynamic call site or a Dynamic constant, plus its static
// arguments (grounded on artipop-jacobin's bootstrapMethod{methodRef,
// args}, generalized here to resolved values instead of raw indexes).
type BootstrapMethod struct {
	Method    MethodHandle
	Arguments []ConstantValue
}

func parseBootstrapMethodsAttribute(raw RawAttribute, cp *ConstantPool) ([]BootstrapMethod, error) {
	r := NewReader(raw.Content)
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]BootstrapMethod, count)
	for i := range out {
		handleIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		handle, err := cp.GetMethodHandle(handleIndex)
		if err != nil {
			return nil, err
		}
		argCount, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		args := make([]ConstantValue, argCount)
		for j := range args {
			argIndex, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			cv, err := cp.GetConstantValue(argIndex)
			if err != nil {
				return nil, err
			}
			args[j] = cv
		}
		out[i] = BootstrapMethod{Method: handle, Arguments: args}
	}
	return out, nil
}

// MethodParameter is one entry of the MethodParameters attribute.
type MethodParameter struct {
	Name        string
	AccessFlags uint16
}

func parseMethodParametersAttribute(raw RawAttribute, cp *ConstantPool) ([]MethodParameter, error) {
	r := NewReader(raw.Content)
	count, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	out := make([]MethodParameter, count)
	for i := range out {
		nameIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		flags, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		var name string
		if nameIndex != 0 {
			name, err = cp.GetString(nameIndex)
			if err != nil {
				return nil, err
			}
		}
		out[i] = MethodParameter{Name: name, AccessFlags: flags}
	}
	return out, nil
}

// parseSignatureAttribute parses the Signature attribute shared by
// classes, fields, and methods: a single Utf8 reference naming the
// generic signature.
func parseSignatureAttribute(raw RawAttribute, cp *ConstantPool) (string, error) {
	r := NewReader(raw.Content)
	idx, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	return cp.GetString(idx)
}

// parseConstantValueAttribute parses a field's ConstantValue attribute.
func parseConstantValueAttribute(raw RawAttribute, cp *ConstantPool) (ConstantValue, error) {
	r := NewReader(raw.Content)
	idx, err := r.ReadU16()
	if err != nil {
		return ConstantValue{}, err
	}
	return cp.GetConstantValue(idx)
}

// InnerClass is one entry of the InnerClasses attribute.
type InnerClass struct {
	Inner       ClassReference
	Outer       *ClassReference
	Name        string
	AccessFlags uint16
}

func parseInnerClassesAttribute(raw RawAttribute, cp *ConstantPool) ([]InnerClass, error) {
	r := NewReader(raw.Content)
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]InnerClass, count)
	for i := range out {
		innerIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		inner, err := cp.GetClassRef(innerIndex)
		if err != nil {
			return nil, err
		}
		outerIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		nameIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		flags, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		ic := InnerClass{Inner: inner, AccessFlags: flags}
		if outerIndex != 0 {
			outer, err := cp.GetClassRef(outerIndex)
			if err != nil {
				return nil, err
			}
			ic.Outer = &outer
		}
		if nameIndex != 0 {
			name, err := cp.GetString(nameIndex)
			if err != nil {
				return nil, err
			}
			ic.Name = name
		}
		out[i] = ic
	}
	return out, nil
}
