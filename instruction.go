// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

// Instruction is one decoded bytecode instruction. It is a sealed sum
// type: the concrete types below are the only implementations, grouped
// by operand shape rather than one struct per opcode, since most of the
// ~200 opcodes differ only in which stack type they act on (spec.md §9,
// "Instruction representation").
type Instruction interface {
	// Offset is this instruction's byte offset from the start of the
	// code array; branch and switch targets are expressed relative to
	// this value before being resolved to absolute offsets.
	Offset() int
	// Op is the opcode this instruction was decoded from.
	Op() OpCode

	instruction()
}

type base struct {
	offset int
	op     OpCode
}

func (b base) Offset() int   { return b.offset }
func (b base) Op() OpCode    { return b.op }
func (base) instruction()    {}

// Simple covers every zero-operand instruction: stack manipulation,
// arithmetic, conversions, comparisons, array loads/stores, and the
// niladic returns.
type Simple struct{ base }

// LocalVarInsn covers *load/*store and ret: an opcode plus one local
// variable slot index. The slot width is one byte normally, or two
// bytes following a wide prefix (spec.md §4.4, "wide").
type LocalVarInsn struct {
	base
	Index int
	Wide  bool
}

// IincInsn is the iinc instruction: a local variable slot and a signed
// increment, both one byte normally or two bytes under wide.
type IincInsn struct {
	base
	Index     int
	Increment int32
	Wide      bool
}

// ConstInsn covers bipush, sipush, and the ldc family. Op distinguishes
// ldc/ldc_w (single width constant) from ldc2_w (wide constant); bipush
// and sipush carry their value directly with no constant pool lookup.
type ConstInsn struct {
	base
	// Immediate is set for bipush/sipush.
	Immediate  int32
	HasImmediate bool
	// Value is set for ldc/ldc_w/ldc2_w.
	Value ConstantValue
}

// Branch covers goto, jsr, goto_w, jsr_w, and every if* comparison
// instruction: an opcode plus a single branch target, already resolved
// to an absolute offset within the code array.
type Branch struct {
	base
	Target int
}

// TableSwitchInsn is the tableswitch instruction.
type TableSwitchInsn struct {
	base
	Default int
	Low     int32
	High    int32
	// Targets holds High-Low+1 absolute offsets, one per case value from
	// Low to High inclusive.
	Targets []int
}

// LookupSwitchInsn is the lookupswitch instruction. Match values are
// required to be in strictly ascending order (spec.md open question:
// resolved as "validated on parse").
type LookupSwitchInsn struct {
	base
	Default int
	Matches []int32
	Targets []int
}

// FieldInsn covers getstatic, putstatic, getfield, putfield.
type FieldInsn struct {
	base
	Field FieldReference
}

// InvokeInsn covers invokevirtual, invokespecial, invokestatic,
// invokeinterface. Count is only meaningful for invokeinterface, where
// it must equal the method's argument slot count plus one.
type InvokeInsn struct {
	base
	Method MethodReference
	Count  uint8
}

// InvokeDynamicInsn is the invokedynamic instruction: a call site
// described by a bootstrap method table index and a (name, descriptor)
// pair, per spec.md's resolved Open Question ("two zero bytes, JVM spec
// exact").
type InvokeDynamicInsn struct {
	base
	BootstrapMethodIndex uint16
	Name                 string
	Descriptor           MethodDescriptor
}

// TypeInsn covers new, checkcast, instanceof, and anewarray: an opcode
// plus a resolved class reference.
type TypeInsn struct {
	base
	Class ClassReference
}

// NewArrayInsn is the newarray instruction: an opcode plus the
// primitive element type (the atype operand, already decoded).
type NewArrayInsn struct {
	base
	Element PrimitiveKind
}

// MultiANewArrayInsn is the multianewarray instruction: an array type
// reference plus the number of dimensions to actually create (which may
// be less than the type's full dimension count).
type MultiANewArrayInsn struct {
	base
	Type       ArrayTypeRef
	Dimensions uint8
}

var (
	_ Instruction = Simple{}
	_ Instruction = LocalVarInsn{}
	_ Instruction = IincInsn{}
	_ Instruction = ConstInsn{}
	_ Instruction = Branch{}
	_ Instruction = TableSwitchInsn{}
	_ Instruction = LookupSwitchInsn{}
	_ Instruction = FieldInsn{}
	_ Instruction = InvokeInsn{}
	_ Instruction = InvokeDynamicInsn{}
	_ Instruction = TypeInsn{}
	_ Instruction = NewArrayInsn{}
	_ Instruction = MultiANewArrayInsn{}
)
