// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

// maxCodeLength is the largest code array the JVM format allows: the
// length prefix is itself a u4, but a method's code array may never
// exceed 65535 bytes (JVM spec 4.7.3).
const maxCodeLength = 65535

// DecodeCode decodes a method's raw code array into a sequence of
// Instructions. code is the exact byte slice stored in the Code
// attribute; cp resolves constant pool references encountered along the
// way.
//
// Running out of bytes exactly at the start of an opcode ends the
// instruction stream cleanly; any other short read is
// ErrUnexpectedEndOfStream (spec.md §4.4, "Termination").
func DecodeCode(code []byte, cp *ConstantPool) ([]Instruction, error) {
	if len(code) > maxCodeLength {
		return nil, ErrTooLongInstructionList
	}
	r := NewReader(code)
	var out []Instruction
loop:
	for {
		if r.AtEnd() {
			break loop
		}
		offset := r.Position()
		opByte, err := r.ReadU8()
		if err != nil {
			break loop
		}
		if !isValidOpCode(opByte) {
			return nil, &UnexpectedOpCodeError{OpCode: opByte}
		}
		op := OpCode(opByte)

		insn, err := decodeOne(r, cp, offset, op)
		if err != nil {
			return nil, err
		}
		out = append(out, insn)
	}
	if err := validateBranchTargets(out, len(code)); err != nil {
		return nil, err
	}
	return out, nil
}

// validateBranchTargets enforces the stable contract spec.md §4.5
// documents for every resolved branch/switch target: an absolute PC
// within [0, codeLength). A target outside that range — e.g. from a
// branch delta that overshoots the code array — is a parse error, not a
// value consumers have to bounds-check themselves (spec.md §8).
func validateBranchTargets(insns []Instruction, codeLen int) error {
	check := func(target int) error {
		if target < 0 || target >= codeLen {
			return malformed("branch target out of code bounds")
		}
		return nil
	}
	for _, insn := range insns {
		switch v := insn.(type) {
		case Branch:
			if err := check(v.Target); err != nil {
				return err
			}
		case TableSwitchInsn:
			if err := check(v.Default); err != nil {
				return err
			}
			for _, t := range v.Targets {
				if err := check(t); err != nil {
					return err
				}
			}
		case LookupSwitchInsn:
			if err := check(v.Default); err != nil {
				return err
			}
			for _, t := range v.Targets {
				if err := check(t); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func decodeOne(r *Reader, cp *ConstantPool, offset int, op OpCode) (Instruction, error) {
	b := base{offset: offset, op: op}

	switch op {
	case OpWide:
		return decodeWide(r, offset)

	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore, OpRet:
		idx, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return LocalVarInsn{base: b, Index: int(idx)}, nil

	case OpIload0, OpIload1, OpIload2, OpIload3,
		OpLload0, OpLload1, OpLload2, OpLload3,
		OpFload0, OpFload1, OpFload2, OpFload3,
		OpDload0, OpDload1, OpDload2, OpDload3,
		OpAload0, OpAload1, OpAload2, OpAload3,
		OpIstore0, OpIstore1, OpIstore2, OpIstore3,
		OpLstore0, OpLstore1, OpLstore2, OpLstore3,
		OpFstore0, OpFstore1, OpFstore2, OpFstore3,
		OpDstore0, OpDstore1, OpDstore2, OpDstore3,
		OpAstore0, OpAstore1, OpAstore2, OpAstore3,
		OpIaload, OpLaload, OpFaload, OpDaload, OpAaload, OpBaload, OpCaload, OpSaload,
		OpIastore, OpLastore, OpFastore, OpDastore, OpAastore, OpBastore, OpCastore, OpSastore,
		OpNop, OpAconstNull,
		OpIconstM1, OpIconst0, OpIconst1, OpIconst2, OpIconst3, OpIconst4, OpIconst5,
		OpLconst0, OpLconst1, OpFconst0, OpFconst1, OpFconst2, OpDconst0, OpDconst1,
		OpPop, OpPop2, OpDup, OpDupX1, OpDupX2, OpDup2, OpDup2X1, OpDup2X2, OpSwap,
		OpIadd, OpLadd, OpFadd, OpDadd, OpIsub, OpLsub, OpFsub, OpDsub,
		OpImul, OpLmul, OpFmul, OpDmul, OpIdiv, OpLdiv, OpFdiv, OpDdiv,
		OpIrem, OpLrem, OpFrem, OpDrem, OpIneg, OpLneg, OpFneg, OpDneg,
		OpIshl, OpLshl, OpIshr, OpLshr, OpIushr, OpLushr, OpIand, OpLand, OpIor, OpLor, OpIxor, OpLxor,
		OpI2l, OpI2f, OpI2d, OpL2i, OpL2f, OpL2d, OpF2i, OpF2l, OpF2d, OpD2i, OpD2l, OpD2f,
		OpI2b, OpI2c, OpI2s, OpLcmp, OpFcmpl, OpFcmpg, OpDcmpl, OpDcmpg,
		OpIreturn, OpLreturn, OpFreturn, OpDreturn, OpAreturn, OpReturn,
		OpArraylength, OpAthrow, OpMonitorenter, OpMonitorexit:
		return Simple{base: b}, nil

	case OpIinc:
		idx, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		inc, err := r.ReadI8()
		if err != nil {
			return nil, err
		}
		return IincInsn{base: b, Index: int(idx), Increment: int32(inc)}, nil

	case OpBipush:
		v, err := r.ReadI8()
		if err != nil {
			return nil, err
		}
		return ConstInsn{base: b, Immediate: int32(v), HasImmediate: true}, nil

	case OpSipush:
		v, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		return ConstInsn{base: b, Immediate: int32(v), HasImmediate: true}, nil

	case OpLdc:
		idx, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		cv, err := cp.GetConstantValue(uint16(idx))
		if err != nil {
			return nil, err
		}
		if cv.IsWide() {
			return nil, malformed("ldc must not reference a wide constant")
		}
		return ConstInsn{base: b, Value: cv}, nil

	case OpLdcW:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		cv, err := cp.GetConstantValue(idx)
		if err != nil {
			return nil, err
		}
		if cv.IsWide() {
			return nil, malformed("ldc_w must not reference a wide constant")
		}
		return ConstInsn{base: b, Value: cv}, nil

	case OpLdc2W:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		cv, err := cp.GetConstantValue(idx)
		if err != nil {
			return nil, err
		}
		if !cv.IsWide() {
			return nil, malformed("ldc2_w must reference a wide constant")
		}
		return ConstInsn{base: b, Value: cv}, nil

	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpIfAcmpeq, OpIfAcmpne, OpGoto, OpJsr, OpIfnull, OpIfnonnull:
		rel, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		return Branch{base: b, Target: offset + int(rel)}, nil

	case OpGotoW, OpJsrW:
		rel, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		return Branch{base: b, Target: offset + int(rel)}, nil

	case OpTableswitch:
		return decodeTableSwitch(r, b, offset)

	case OpLookupswitch:
		return decodeLookupSwitch(r, b, offset)

	case OpGetstatic, OpPutstatic, OpGetfield, OpPutfield:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		fr, err := cp.GetFieldRef(idx)
		if err != nil {
			return nil, err
		}
		return FieldInsn{base: b, Field: fr}, nil

	case OpInvokevirtual, OpInvokespecial, OpInvokestatic:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		mr, err := cp.GetMethodRef(idx)
		if err != nil {
			return nil, err
		}
		return InvokeInsn{base: b, Method: mr}, nil

	case OpInvokeinterface:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		count, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		zero, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if zero != 0 {
			return nil, malformed("invokeinterface trailing byte must be zero")
		}
		mr, err := cp.GetMethodRef(idx)
		if err != nil {
			return nil, err
		}
		return InvokeInsn{base: b, Method: mr, Count: count}, nil

	case OpInvokedynamic:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		z1, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		z2, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if z1 != 0 || z2 != 0 {
			return nil, malformed("invokedynamic trailing bytes must be zero")
		}
		bsmIndex, name, descriptor, err := cp.GetInvokeDynamic(idx)
		if err != nil {
			return nil, err
		}
		return InvokeDynamicInsn{base: b, BootstrapMethodIndex: bsmIndex, Name: name, Descriptor: descriptor}, nil

	case OpNew, OpCheckcast, OpInstanceof:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		cr, err := cp.GetClassRef(idx)
		if err != nil {
			return nil, err
		}
		return TypeInsn{base: b, Class: cr}, nil

	case OpAnewarray:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		cr, err := cp.GetClassRef(idx)
		if err != nil {
			return nil, err
		}
		return TypeInsn{base: b, Class: cr}, nil

	case OpNewarray:
		atype, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		kind, ok := primitiveFromAType(atype)
		if !ok {
			return nil, malformed("invalid newarray atype")
		}
		return NewArrayInsn{base: b, Element: kind}, nil

	case OpMultianewarray:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		dims, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if dims == 0 {
			return nil, malformed("multianewarray dimensions must be nonzero")
		}
		at, err := cp.GetArrayTypeRef(idx)
		if err != nil {
			return nil, err
		}
		return MultiANewArrayInsn{base: b, Type: at, Dimensions: dims}, nil

	default:
		return nil, &UnexpectedOpCodeError{OpCode: byte(op)}
	}
}

func primitiveFromAType(atype byte) (PrimitiveKind, bool) {
	switch atype {
	case ATypeBoolean:
		return Boolean, true
	case ATypeChar:
		return Char, true
	case ATypeFloat:
		return Float, true
	case ATypeDouble:
		return Double, true
	case ATypeByte:
		return Byte, true
	case ATypeShort:
		return Short, true
	case ATypeInt:
		return Int, true
	case ATypeLong:
		return Long, true
	default:
		return 0, false
	}
}

// decodeWide handles the 0xC4 prefix: it widens the index operand of the
// following *load/*store/ret instruction to two bytes, or widens iinc's
// index and increment to two bytes each (JVM spec 6.5.wide).
func decodeWide(r *Reader, offset int) (Instruction, error) {
	opByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	op := OpCode(opByte)
	b := base{offset: offset, op: op}

	switch op {
	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore, OpRet:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return LocalVarInsn{base: b, Index: int(idx), Wide: true}, nil

	case OpIinc:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		inc, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		return IincInsn{base: b, Index: int(idx), Increment: int32(inc), Wide: true}, nil

	default:
		return nil, &UnexpectedOpCodeError{OpCode: opByte}
	}
}

func decodeTableSwitch(r *Reader, b base, offset int) (Instruction, error) {
	if err := r.SeekAlign(4); err != nil {
		return nil, err
	}
	defaultOffset, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	low, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	high, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if high < low {
		return nil, malformed("tableswitch high must be >= low")
	}
	n := int(high) - int(low) + 1
	targets := make([]int, n)
	for i := 0; i < n; i++ {
		rel, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		targets[i] = offset + int(rel)
	}
	return TableSwitchInsn{
		base:    b,
		Default: offset + int(defaultOffset),
		Low:     low,
		High:    high,
		Targets: targets,
	}, nil
}

func decodeLookupSwitch(r *Reader, b base, offset int) (Instruction, error) {
	if err := r.SeekAlign(4); err != nil {
		return nil, err
	}
	defaultOffset, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	npairs, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if npairs < 0 {
		return nil, malformed("lookupswitch npairs must be non-negative")
	}
	matches := make([]int32, npairs)
	targets := make([]int, npairs)
	var prev int32
	for i := 0; i < int(npairs); i++ {
		match, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		if i > 0 && match <= prev {
			return nil, malformed("lookupswitch match values must be strictly ascending")
		}
		rel, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		matches[i] = match
		targets[i] = offset + int(rel)
		prev = match
	}
	return LookupSwitchInsn{
		base:    b,
		Default: offset + int(defaultOffset),
		Matches: matches,
		Targets: targets,
	}, nil
}
