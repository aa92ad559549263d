/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/cpool"
	"github.com/glassvm/glassvm/object"
)

// testOwner builds the minimal *object.Class step() needs as a Frame's
// Owner: a non-nil CF with an (empty but non-nil) constant pool, since
// step reads fr.Owner.CF.CP unconditionally before dispatching on the
// opcode, whether or not that particular opcode touches the pool.
func testOwner(name string) *object.Class {
	return &object.Class{Name: name, CF: &classfile.Classfile{CP: &cpool.Pool{Entries: []cpool.Entry{cpool.Invalid{}}}}}
}

// runMethod builds a frame over insns (which must not raise a Java
// exception: doing so would require a classloader.Loader able to load and
// construct a real Throwable, which these package-local tests don't wire
// up — the *ByStep tests below cover that case via vm.step instead) and
// drives it to completion. Insn/CodeAttribute are built directly, the same
// shortcut classfile's own table-driven tests use for parseCodeAttribute.
func runMethod(t *testing.T, insns []classfile.Insn, maxStack, maxLocals int, descriptor string) Value {
	t.Helper()
	code := &classfile.CodeAttribute{MaxStack: maxStack, MaxLocals: maxLocals, Instructions: insns}
	m := &classfile.MethodInfo{Name: "test", Descriptor: descriptor, AccessFlags: classfile.AccStatic, Code: code}
	owner := testOwner("Test")
	vm := New(nil)
	fr := NewFrame(owner, m, nil, nil, nil)
	v, err := vm.run(fr)
	require.NoError(t, err)
	return v
}

func iconst(v int64) classfile.Insn { return classfile.Insn{Op: classfile.OpIconst, IntImm: v} }

// TestTwoPlusThreeTimesFour is spec §8 end-to-end scenario 1: evaluating
// 2+3*4 by stack bytecode must return 14.
func TestTwoPlusThreeTimesFour(t *testing.T) {
	insns := []classfile.Insn{
		iconst(2),
		iconst(3),
		iconst(4),
		{Op: classfile.OpImul},
		{Op: classfile.OpIadd},
		{Op: classfile.OpIreturn},
	}
	got := runMethod(t, insns, 4, 0, "()I")
	require.EqualValues(t, 14, got.asInt())
}

// TestDup2DuplicatesCategory2TopOfStack verifies dup2 on a long duplicates
// the whole 64-bit value (two slots), not just the top slot.
func TestDup2DuplicatesCategory2TopOfStack(t *testing.T) {
	insns := []classfile.Insn{
		{Op: classfile.OpLconst, IntImm: 7},
		{Op: classfile.OpDup2},
		{Op: classfile.OpPop2},
		{Op: classfile.OpLreturn},
	}
	got := runMethod(t, insns, 8, 0, "()J")
	require.EqualValues(t, 7, got.asLong())
}

// TestDupX1 follows the JVMS exactly: ..., a, b -> ..., b, a, b.
func TestDupX1(t *testing.T) {
	insns := []classfile.Insn{
		iconst(1), // a
		iconst(2), // b
		{Op: classfile.OpDupX1},
		{Op: classfile.OpIadd}, // pops b, a -> 1+2=3, leaves b beneath it
		{Op: classfile.OpIadd}, // pops 3, b=2 -> 5
		{Op: classfile.OpIreturn},
	}
	got := runMethod(t, insns, 8, 0, "()I")
	require.EqualValues(t, 5, got.asInt())
}

// TestArithmeticExceptionByStep exercises idiv(a, 0) at the opcode-handler
// level (vm.step, before exception materialization into a heap object,
// which needs a classloader.Loader this unit test doesn't wire up).
func TestArithmeticExceptionByStep(t *testing.T) {
	code := &classfile.CodeAttribute{MaxStack: 4}
	m := &classfile.MethodInfo{Name: "test", Descriptor: "()I", AccessFlags: classfile.AccStatic, Code: code}
	owner := testOwner("Test")
	vm := New(nil)
	fr := NewFrame(owner, m, nil, nil, nil)
	fr.pushInt(1)
	fr.pushInt(0)

	_, _, _, err := vm.step(fr, classfile.Insn{Op: classfile.OpIdiv})
	require.Error(t, err)
	req, ok := err.(*excRequest)
	require.True(t, ok)
	require.Equal(t, "java/lang/ArithmeticException", req.ClassName)
}

// TestArrayIndexOutOfBoundsByStep mirrors spec §8 scenario 4 (new int[3],
// store at index 3) at the vm.step level for the same reason as above.
func TestArrayIndexOutOfBoundsByStep(t *testing.T) {
	arrCls := &object.Class{Name: "[I", Kind: object.KindPrimitiveArray}
	arr := object.NewArray(arrCls, 3)

	code := &classfile.CodeAttribute{MaxStack: 4}
	m := &classfile.MethodInfo{Name: "test", Descriptor: "()V", AccessFlags: classfile.AccStatic, Code: code}
	owner := testOwner("Test")
	vm := New(nil)
	fr := NewFrame(owner, m, nil, nil, nil)
	fr.pushRef(arr)
	fr.pushInt(3)
	fr.pushInt(99)

	_, _, _, err := vm.step(fr, classfile.Insn{Op: classfile.OpIastore})
	require.Error(t, err)
	req, ok := err.(*excRequest)
	require.True(t, ok)
	require.Equal(t, "java/lang/ArrayIndexOutOfBoundsException", req.ClassName)
	require.Equal(t, "3", req.Message)
}

// TestNullReceiverRaisesNullPointerByStep: getfield-family checks on a
// null receiver raise NullPointerException (spec §4.F) without looking at
// any resolved field, so this exercises arraylength's null check, the
// simplest opcode with that shape.
func TestNullReceiverRaisesNullPointerByStep(t *testing.T) {
	code := &classfile.CodeAttribute{MaxStack: 2}
	m := &classfile.MethodInfo{Name: "test", Descriptor: "()I", AccessFlags: classfile.AccStatic, Code: code}
	owner := testOwner("Test")
	vm := New(nil)
	fr := NewFrame(owner, m, nil, nil, nil)
	fr.pushRef(nil)

	_, _, _, err := vm.step(fr, classfile.Insn{Op: classfile.OpArraylength})
	require.Error(t, err)
	req, ok := err.(*excRequest)
	require.True(t, ok)
	require.Equal(t, "java/lang/NullPointerException", req.ClassName)
}

// TestFcmplAndFcmpgDisagreeOnlyOnNaN: fcmpl(NaN, 0) == -1, fcmpg(NaN, 0) ==
// +1 (spec §8's literal example); every non-NaN comparison agrees.
func TestFcmplAndFcmpgDisagreeOnlyOnNaN(t *testing.T) {
	require.EqualValues(t, -1, fcmpl(float32(math.NaN()), 0))
	require.EqualValues(t, 1, fcmpg(float32(math.NaN()), 0))
	require.EqualValues(t, fcmpl(2, 1), fcmpg(2, 1))
	require.EqualValues(t, fcmpl(1, 2), fcmpg(1, 2))
	require.EqualValues(t, fcmpl(1, 1), fcmpg(1, 1))
}

// TestIdivMinValueByMinusOne and TestIremMinValueByMinusOne are spec §8
// scenario 2 and its remainder counterpart: both suppress the overflow
// rather than trapping or wrapping to a different bit pattern.
func TestIdivMinValueByMinusOne(t *testing.T) {
	v, err := idiv(math.MinInt32, -1)
	require.NoError(t, err)
	require.EqualValues(t, math.MinInt32, v)
}

func TestIremMinValueByMinusOne(t *testing.T) {
	v, err := irem(math.MinInt32, -1)
	require.NoError(t, err)
	require.EqualValues(t, 0, v)
}

func TestIdivByZero(t *testing.T) {
	_, err := idiv(42, 0)
	require.Error(t, err)
}

// TestShiftAmountMasking: ishl/ishr/iushr use only the low 5 bits of the
// shift amount, so shifting by 32 behaves like shifting by 0.
func TestShiftAmountMasking(t *testing.T) {
	require.EqualValues(t, 1, ishl(1, 32))
	require.EqualValues(t, 1, ishr(1, 32))
	require.EqualValues(t, 1, iushr(1, 32))
	require.EqualValues(t, int32(0x7FFFFFFF), iushr(-1, 1))
}

func TestLcmp(t *testing.T) {
	require.EqualValues(t, 1, lcmp(2, 1))
	require.EqualValues(t, -1, lcmp(1, 2))
	require.EqualValues(t, 0, lcmp(1, 1))
}

// TestFloatToIntConversionSaturatesAndZeroesNaN covers f2i/d2i's
// round-toward-zero-with-saturation contract (spec §4.F).
func TestFloatToIntConversionSaturatesAndZeroesNaN(t *testing.T) {
	require.EqualValues(t, 0, f2i(float32(math.NaN())))
	require.EqualValues(t, math.MaxInt32, f2i(float32(math.Inf(1))))
	require.EqualValues(t, math.MinInt32, f2i(float32(math.Inf(-1))))
	require.EqualValues(t, 3, f2i(3.9))
	require.EqualValues(t, -3, f2i(-3.9))
}
