/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "github.com/glassvm/glassvm/types"

// Op is a normalized instruction opcode. Every "short form" JVM opcode
// (aload_0..aload_3, iconst_m1..iconst_5, bipush, sipush, ldc_w, goto_w,
// jsr_w, and every wide-prefixed form) canonicalizes to one of these, with
// its operand carried in the Insn payload instead of implied by the opcode
// byte. This is the complete instruction set of JVMS Table 6.5.
type Op uint16

const (
	OpNop Op = iota

	OpAaload
	OpAastore
	OpAconstNull
	OpAreturn
	OpArraylength
	OpAthrow
	OpBaload
	OpBastore
	OpCaload
	OpCastore
	OpD2f
	OpD2i
	OpD2l
	OpDadd
	OpDaload
	OpDastore
	OpDcmpg
	OpDcmpl
	OpDdiv
	OpDmul
	OpDneg
	OpDrem
	OpDreturn
	OpDsub
	OpDup
	OpDupX1
	OpDupX2
	OpDup2
	OpDup2X1
	OpDup2X2
	OpF2d
	OpF2i
	OpF2l
	OpFadd
	OpFaload
	OpFastore
	OpFcmpg
	OpFcmpl
	OpFdiv
	OpFmul
	OpFneg
	OpFrem
	OpFreturn
	OpFsub
	OpI2b
	OpI2c
	OpI2d
	OpI2f
	OpI2l
	OpI2s
	OpIadd
	OpIaload
	OpIand
	OpIastore
	OpIdiv
	OpImul
	OpIneg
	OpIor
	OpIrem
	OpIreturn
	OpIshl
	OpIshr
	OpIsub
	OpIushr
	OpIxor
	OpL2d
	OpL2f
	OpL2i
	OpLadd
	OpLaload
	OpLand
	OpLastore
	OpLcmp
	OpLdc
	OpLdc2W
	OpLdiv
	OpLmul
	OpLneg
	OpLor
	OpLrem
	OpLreturn
	OpLshl
	OpLshr
	OpLsub
	OpLushr
	OpLxor
	OpMonitorenter
	OpMonitorexit
	OpPop
	OpPop2
	OpReturn
	OpSaload
	OpSastore
	OpSwap

	// Indexes into the local variable table.
	OpDload
	OpFload
	OpIload
	OpLload
	OpDstore
	OpFstore
	OpIstore
	OpLstore
	OpAload
	OpAstore

	// Indexes into the constant pool.
	OpAnewarray
	OpCheckcast
	OpGetfield
	OpGetstatic
	OpInstanceof
	OpInvokedynamic
	OpNew
	OpPutfield
	OpPutstatic
	OpInvokevirtual
	OpInvokespecial
	OpInvokestatic

	// Indexes into the instruction table (branch targets).
	OpGoto
	OpJsr
	OpRet

	OpIfAcmpeq
	OpIfAcmpne
	OpIfIcmpeq
	OpIfIcmpne
	OpIfIcmplt
	OpIfIcmpge
	OpIfIcmpgt
	OpIfIcmple
	OpIfeq
	OpIfne
	OpIflt
	OpIfge
	OpIfgt
	OpIfle
	OpIfnonnull
	OpIfnull

	// Numeric immediate.
	OpIconst
	OpDconst
	OpFconst
	OpLconst

	// Cursed.
	OpIinc
	OpInvokeinterface
	OpMultianewarray
	OpNewarray
	OpTableswitch
	OpLookupswitch
)

// IIncData is the (index, const) payload of an iinc instruction.
type IIncData struct {
	Index uint16
	Const int16
}

// InvokeInterfaceData is the (cp-index, count) payload of invokeinterface.
type InvokeInterfaceData struct {
	Index uint16
	Count uint8
}

// MultianewarrayData is the (cp-index, dims) payload of multianewarray.
type MultianewarrayData struct {
	Index uint16
	Dims  uint8
}

// Insn is a normalized bytecode instruction: one canonical opcode plus a
// flat payload whose fields are interpreted according to Op. Unused fields
// are left zero. Branch targets, once fixed up, are instruction indices
// into the owning CodeAttribute.Instructions, not raw program counters.
type Insn struct {
	Op Op
	PC int // the instruction's original byte offset in the Code array

	Index     uint16          // local-var index, CP index, or (pre-fixup) absolute branch target PC / (post-fixup) target index
	IntImm    int64           // iconst/lconst immediate
	FloatImm  float32         // fconst immediate
	DoubleImm float64         // dconst immediate
	Atype     types.Primitive // newarray element type
	IInc      IIncData
	InvokeIF  InvokeInterfaceData
	Multianew MultianewarrayData
	Switch    int // index into the owning Classfile's table/lookup switch pool
}

// TableswitchData is a tableswitch instruction's interned operand: a dense
// array of (High-Low+1) targets plus a default, all as instruction indices.
type TableswitchData struct {
	Default int
	Low     int32
	High    int32
	Targets []int
}

// LookupPair is one (key, target) entry of a lookupswitch, stored in
// ascending key order as the class file guarantees.
type LookupPair struct {
	Key    int32
	Target int
}

// LookupswitchData is a lookupswitch instruction's interned operand.
type LookupswitchData struct {
	Default int
	Pairs   []LookupPair
}
