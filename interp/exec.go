/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"fmt"
	"math"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/cpool"
	"github.com/glassvm/glassvm/excnames"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/types"
)

// run is the dispatch loop of spec §4.F: one pass over the normalized
// instruction stream, keyed on the canonical opcode, with exception
// propagation handled inline against the current frame's exception table
// before falling back to returning a *ThrownException to the caller.
func (vm *VM) run(fr *Frame) (Value, error) {
	for {
		if fr.PC < 0 || fr.PC >= len(fr.Code.Instructions) {
			return Value{}, fmt.Errorf("interp: program counter %d out of range in %s.%s", fr.PC, fr.Owner.Name, fr.Method.Name)
		}
		insn := fr.Code.Instructions[fr.PC]
		ret, returned, branched, err := vm.step(fr, insn)
		if err != nil {
			thrown, ok := vm.asThrown(err).(*ThrownException)
			if !ok {
				return Value{}, err
			}
			if handlerPC, ok := vm.findHandler(fr, fr.PC, thrown.Throwable); ok {
				fr.sp = 0
				fr.push(vRef(thrown.Throwable))
				fr.PC = handlerPC
				continue
			}
			return Value{}, thrown
		}
		if returned {
			return ret, nil
		}
		if branched {
			continue
		}
		fr.PC++
	}
}

// findHandler implements the exception-table walk of spec §4.F: the first
// entry (lowest index) whose range covers throwPC and whose catch-type is
// either "any" or a supertype of the throwable's dynamic class wins.
func (vm *VM) findHandler(fr *Frame, throwPC int, throwable *object.Object) (int, bool) {
	for _, e := range fr.Code.ExceptionTable {
		if throwPC < e.Start || throwPC >= e.End {
			continue
		}
		if e.CatchType == 0 {
			return e.Handler, true
		}
		ce, err := cpool.Get[cpool.Class](fr.Owner.CF.CP, e.CatchType)
		if err != nil {
			continue
		}
		catchCls, _ := ce.Resolved.(*object.Class)
		if catchCls == nil {
			continue
		}
		if throwable.Class.IsSubclassOf(catchCls) {
			return e.Handler, true
		}
	}
	return 0, false
}

// step executes exactly one instruction. Of the three outputs, at most one
// of (returned, branched) is true; when both are false the loop advances
// PC by one.
func (vm *VM) step(fr *Frame, insn classfile.Insn) (ret Value, returned bool, branched bool, err error) {
	pool := fr.Owner.CF.CP
	switch insn.Op {

	case classfile.OpNop:
		// nothing

	// --- constants ---
	case classfile.OpAconstNull:
		fr.pushRef(nil)
	case classfile.OpIconst:
		fr.pushInt(int32(insn.IntImm))
	case classfile.OpLconst:
		fr.pushLong(insn.IntImm)
	case classfile.OpFconst:
		fr.pushFloat(insn.FloatImm)
	case classfile.OpDconst:
		fr.pushDouble(insn.DoubleImm)
	case classfile.OpLdc:
		if e := vm.execLdc(fr, pool, int(insn.Index)); e != nil {
			err = e
		}
	case classfile.OpLdc2W:
		e, gerr := pool.GetAny(int(insn.Index))
		if gerr != nil {
			err = gerr
			break
		}
		switch v := e.(type) {
		case cpool.Long:
			fr.pushLong(v.Value)
		case cpool.Double:
			fr.pushDouble(v.Value)
		default:
			err = fmt.Errorf("interp: ldc2_w on non-long/double constant")
		}

	// --- loads ---
	case classfile.OpIload, classfile.OpFload, classfile.OpAload:
		fr.push(fr.getLocal(int(insn.Index)))
	case classfile.OpLload, classfile.OpDload:
		fr.pushCat2(fr.getLocal(int(insn.Index)))

	// --- stores ---
	case classfile.OpIstore, classfile.OpFstore, classfile.OpAstore:
		fr.setLocal(int(insn.Index), fr.pop())
	case classfile.OpLstore, classfile.OpDstore:
		fr.setLocal(int(insn.Index), fr.popCat2())

	// --- array load ---
	case classfile.OpIaload, classfile.OpFaload, classfile.OpBaload, classfile.OpCaload, classfile.OpSaload:
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		fr.push(Value{Slot: arr.Elements[i]})
	case classfile.OpLaload, classfile.OpDaload:
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		fr.pushCat2(Value{Slot: arr.Elements[i]})
	case classfile.OpAaload:
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		fr.pushRef(arr.RefElements[i])

	// --- array store ---
	case classfile.OpIastore, classfile.OpFastore:
		v := fr.pop()
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		arr.Elements[i] = v.Slot
	case classfile.OpBastore:
		v := fr.popInt()
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		arr.Elements[i] = types.SlotFromInt32(int32(int8(v)))
	case classfile.OpCastore:
		v := fr.popInt()
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		arr.Elements[i] = types.SlotFromInt32(int32(uint16(v)))
	case classfile.OpSastore:
		v := fr.popInt()
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		arr.Elements[i] = types.SlotFromInt32(int32(int16(v)))
	case classfile.OpLastore, classfile.OpDastore:
		v := fr.popCat2()
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		arr.Elements[i] = v.Slot
	case classfile.OpAastore:
		v := fr.popRef()
		i := fr.popInt()
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		if !arr.InBounds(int(i)) {
			err = errArrayIndex(int(i))
			break
		}
		arr.RefElements[i] = v

	// --- stack manipulation ---
	case classfile.OpPop:
		fr.pop()
	case classfile.OpPop2:
		fr.pop()
		fr.pop()
	case classfile.OpDup:
		v := fr.peek()
		fr.push(v)
	case classfile.OpDupX1:
		v1 := fr.pop()
		v2 := fr.pop()
		fr.push(v1)
		fr.push(v2)
		fr.push(v1)
	case classfile.OpDupX2:
		v1 := fr.pop()
		v2 := fr.pop()
		v3 := fr.pop()
		fr.push(v1)
		fr.push(v3)
		fr.push(v2)
		fr.push(v1)
	case classfile.OpDup2:
		v1 := fr.pop()
		v2 := fr.pop()
		fr.push(v2)
		fr.push(v1)
		fr.push(v2)
		fr.push(v1)
	case classfile.OpDup2X1:
		v1 := fr.pop()
		v2 := fr.pop()
		v3 := fr.pop()
		fr.push(v2)
		fr.push(v1)
		fr.push(v3)
		fr.push(v2)
		fr.push(v1)
	case classfile.OpDup2X2:
		v1 := fr.pop()
		v2 := fr.pop()
		v3 := fr.pop()
		v4 := fr.pop()
		fr.push(v2)
		fr.push(v1)
		fr.push(v4)
		fr.push(v3)
		fr.push(v2)
		fr.push(v1)
	case classfile.OpSwap:
		v1 := fr.pop()
		v2 := fr.pop()
		fr.push(v1)
		fr.push(v2)

	// --- int arithmetic ---
	case classfile.OpIadd:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(a + b)
	case classfile.OpIsub:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(a - b)
	case classfile.OpImul:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(a * b)
	case classfile.OpIdiv:
		b, a := fr.popInt(), fr.popInt()
		v, e := idiv(a, b)
		if e != nil {
			err = e
			break
		}
		fr.pushInt(v)
	case classfile.OpIrem:
		b, a := fr.popInt(), fr.popInt()
		v, e := irem(a, b)
		if e != nil {
			err = e
			break
		}
		fr.pushInt(v)
	case classfile.OpIneg:
		fr.pushInt(-fr.popInt())
	case classfile.OpIshl:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(ishl(a, b))
	case classfile.OpIshr:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(ishr(a, b))
	case classfile.OpIushr:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(iushr(a, b))
	case classfile.OpIand:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(a & b)
	case classfile.OpIor:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(a | b)
	case classfile.OpIxor:
		b, a := fr.popInt(), fr.popInt()
		fr.pushInt(a ^ b)
	case classfile.OpIinc:
		cur := fr.getLocal(int(insn.IInc.Index)).asInt()
		fr.setLocal(int(insn.IInc.Index), vInt(cur+int32(insn.IInc.Const)))

	// --- long arithmetic ---
	case classfile.OpLadd:
		b, a := fr.popLong(), fr.popLong()
		fr.pushLong(a + b)
	case classfile.OpLsub:
		b, a := fr.popLong(), fr.popLong()
		fr.pushLong(a - b)
	case classfile.OpLmul:
		b, a := fr.popLong(), fr.popLong()
		fr.pushLong(a * b)
	case classfile.OpLdiv:
		b, a := fr.popLong(), fr.popLong()
		v, e := ldiv(a, b)
		if e != nil {
			err = e
			break
		}
		fr.pushLong(v)
	case classfile.OpLrem:
		b, a := fr.popLong(), fr.popLong()
		v, e := lrem(a, b)
		if e != nil {
			err = e
			break
		}
		fr.pushLong(v)
	case classfile.OpLneg:
		fr.pushLong(-fr.popLong())
	case classfile.OpLshl:
		b, a := fr.popInt(), fr.popLong()
		fr.pushLong(lshl(a, b))
	case classfile.OpLshr:
		b, a := fr.popInt(), fr.popLong()
		fr.pushLong(lshr(a, b))
	case classfile.OpLushr:
		b, a := fr.popInt(), fr.popLong()
		fr.pushLong(lushr(a, b))
	case classfile.OpLand:
		b, a := fr.popLong(), fr.popLong()
		fr.pushLong(a & b)
	case classfile.OpLor:
		b, a := fr.popLong(), fr.popLong()
		fr.pushLong(a | b)
	case classfile.OpLxor:
		b, a := fr.popLong(), fr.popLong()
		fr.pushLong(a ^ b)
	case classfile.OpLcmp:
		b, a := fr.popLong(), fr.popLong()
		fr.pushInt(lcmp(a, b))

	// --- float arithmetic ---
	case classfile.OpFadd:
		b, a := fr.popFloat(), fr.popFloat()
		fr.pushFloat(a + b)
	case classfile.OpFsub:
		b, a := fr.popFloat(), fr.popFloat()
		fr.pushFloat(a - b)
	case classfile.OpFmul:
		b, a := fr.popFloat(), fr.popFloat()
		fr.pushFloat(a * b)
	case classfile.OpFdiv:
		b, a := fr.popFloat(), fr.popFloat()
		fr.pushFloat(a / b)
	case classfile.OpFrem:
		b, a := fr.popFloat(), fr.popFloat()
		fr.pushFloat(float32(mod(float64(a), float64(b))))
	case classfile.OpFneg:
		fr.pushFloat(-fr.popFloat())
	case classfile.OpFcmpl:
		b, a := fr.popFloat(), fr.popFloat()
		fr.pushInt(fcmpl(a, b))
	case classfile.OpFcmpg:
		b, a := fr.popFloat(), fr.popFloat()
		fr.pushInt(fcmpg(a, b))

	// --- double arithmetic ---
	case classfile.OpDadd:
		b, a := fr.popDouble(), fr.popDouble()
		fr.pushDouble(a + b)
	case classfile.OpDsub:
		b, a := fr.popDouble(), fr.popDouble()
		fr.pushDouble(a - b)
	case classfile.OpDmul:
		b, a := fr.popDouble(), fr.popDouble()
		fr.pushDouble(a * b)
	case classfile.OpDdiv:
		b, a := fr.popDouble(), fr.popDouble()
		fr.pushDouble(a / b)
	case classfile.OpDrem:
		b, a := fr.popDouble(), fr.popDouble()
		fr.pushDouble(mod(a, b))
	case classfile.OpDneg:
		fr.pushDouble(-fr.popDouble())
	case classfile.OpDcmpl:
		b, a := fr.popDouble(), fr.popDouble()
		fr.pushInt(dcmpl(a, b))
	case classfile.OpDcmpg:
		b, a := fr.popDouble(), fr.popDouble()
		fr.pushInt(dcmpg(a, b))

	// --- conversions ---
	case classfile.OpI2l:
		fr.pushLong(int64(fr.popInt()))
	case classfile.OpI2f:
		fr.pushFloat(float32(fr.popInt()))
	case classfile.OpI2d:
		fr.pushDouble(float64(fr.popInt()))
	case classfile.OpI2b:
		fr.pushInt(int32(int8(fr.popInt())))
	case classfile.OpI2c:
		fr.pushInt(int32(uint16(fr.popInt())))
	case classfile.OpI2s:
		fr.pushInt(int32(int16(fr.popInt())))
	case classfile.OpL2i:
		fr.pushInt(int32(fr.popLong()))
	case classfile.OpL2f:
		fr.pushFloat(float32(fr.popLong()))
	case classfile.OpL2d:
		fr.pushDouble(float64(fr.popLong()))
	case classfile.OpF2i:
		fr.pushInt(f2i(fr.popFloat()))
	case classfile.OpF2l:
		fr.pushLong(f2l(fr.popFloat()))
	case classfile.OpF2d:
		fr.pushDouble(float64(fr.popFloat()))
	case classfile.OpD2i:
		fr.pushInt(d2i(fr.popDouble()))
	case classfile.OpD2l:
		fr.pushLong(d2l(fr.popDouble()))
	case classfile.OpD2f:
		fr.pushFloat(float32(fr.popDouble()))

	// --- control flow: unconditional ---
	case classfile.OpGoto:
		fr.PC = int(insn.Index)
		branched = true
	case classfile.OpJsr:
		fr.pushInt(int32(fr.PC + 1))
		fr.PC = int(insn.Index)
		branched = true
	case classfile.OpRet:
		fr.PC = int(fr.getLocal(int(insn.Index)).asInt())
		branched = true

	// --- control flow: conditional ---
	case classfile.OpIfeq, classfile.OpIfne, classfile.OpIflt, classfile.OpIfge, classfile.OpIfgt, classfile.OpIfle:
		v := fr.popInt()
		if intCmpTaken(insn.Op, v, 0) {
			fr.PC = int(insn.Index)
			branched = true
		}
	case classfile.OpIfIcmpeq, classfile.OpIfIcmpne, classfile.OpIfIcmplt, classfile.OpIfIcmpge, classfile.OpIfIcmpgt, classfile.OpIfIcmple:
		b, a := fr.popInt(), fr.popInt()
		if intCmpTaken(insn.Op, a, b) {
			fr.PC = int(insn.Index)
			branched = true
		}
	case classfile.OpIfAcmpeq:
		b, a := fr.popRef(), fr.popRef()
		if a == b {
			fr.PC = int(insn.Index)
			branched = true
		}
	case classfile.OpIfAcmpne:
		b, a := fr.popRef(), fr.popRef()
		if a != b {
			fr.PC = int(insn.Index)
			branched = true
		}
	case classfile.OpIfnull:
		if fr.popRef() == nil {
			fr.PC = int(insn.Index)
			branched = true
		}
	case classfile.OpIfnonnull:
		if fr.popRef() != nil {
			fr.PC = int(insn.Index)
			branched = true
		}

	case classfile.OpTableswitch:
		key := fr.popInt()
		ts := fr.Owner.CF.TableSwitches[insn.Switch]
		target := ts.Default
		if key >= ts.Low && key <= ts.High {
			target = ts.Targets[key-ts.Low]
		}
		fr.PC = target
		branched = true
	case classfile.OpLookupswitch:
		key := fr.popInt()
		ls := fr.Owner.CF.LookupSwitches[insn.Switch]
		target := ls.Default
		for _, pair := range ls.Pairs {
			if pair.Key == key {
				target = pair.Target
				break
			}
		}
		fr.PC = target
		branched = true

	// --- returns ---
	case classfile.OpReturn:
		returned = true
	case classfile.OpIreturn, classfile.OpFreturn, classfile.OpAreturn:
		ret = fr.pop()
		returned = true
	case classfile.OpLreturn, classfile.OpDreturn:
		ret = fr.popCat2()
		returned = true

	// --- objects and fields ---
	case classfile.OpNew:
		cls, e := classAt(pool, int(insn.Index))
		if e != nil {
			err = e
			break
		}
		if e := vm.ensureInitialized(cls); e != nil {
			err = e
			break
		}
		fr.pushRef(object.NewInstance(cls))
	case classfile.OpGetfield:
		rf, e := fieldAt(pool, int(insn.Index))
		if e != nil {
			err = e
			break
		}
		recv := fr.popRef()
		if recv == nil {
			err = errNullPointer()
			break
		}
		fr.push(fieldGet(recv, rf))
	case classfile.OpPutfield:
		rf, e := fieldAt(pool, int(insn.Index))
		if e != nil {
			err = e
			break
		}
		v := popByCategory(fr, rf.Slot.Category)
		recv := fr.popRef()
		if recv == nil {
			err = errNullPointer()
			break
		}
		fieldSet(recv, rf, v)
	case classfile.OpGetstatic:
		rf, e := fieldAt(pool, int(insn.Index))
		if e != nil {
			err = e
			break
		}
		if e := vm.ensureInitialized(rf.Owner); e != nil {
			err = e
			break
		}
		fr.push(staticGet(rf))
	case classfile.OpPutstatic:
		rf, e := fieldAt(pool, int(insn.Index))
		if e != nil {
			err = e
			break
		}
		if e := vm.ensureInitialized(rf.Owner); e != nil {
			err = e
			break
		}
		v := popByCategory(fr, rf.Slot.Category)
		staticSet(rf, v)

	case classfile.OpInvokevirtual:
		err = vm.execInvoke(fr, pool, int(insn.Index), true, false)
	case classfile.OpInvokespecial:
		err = vm.execInvoke(fr, pool, int(insn.Index), false, false)
	case classfile.OpInvokestatic:
		err = vm.execInvoke(fr, pool, int(insn.Index), false, true)
	case classfile.OpInvokeinterface:
		err = vm.execInvoke(fr, pool, int(insn.InvokeIF.Index), true, false)
	case classfile.OpInvokedynamic:
		err = vm.execInvokeDynamic(fr, pool, int(insn.Index))

	case classfile.OpNewarray:
		n := fr.popInt()
		if n < 0 {
			err = errNegativeArraySize(n)
			break
		}
		elemName := "[" + classfile.FieldType{Kind: classfile.DescPrimitive, Primitive: insn.Atype}.ArrayInternalName()
		cls, e := vm.Loader.Load(elemName)
		if e != nil {
			err = e
			break
		}
		fr.pushRef(object.NewArray(cls, int(n)))
	case classfile.OpAnewarray:
		n := fr.popInt()
		if n < 0 {
			err = errNegativeArraySize(n)
			break
		}
		elemCls, e := classAt(pool, int(insn.Index))
		if e != nil {
			err = e
			break
		}
		arrName := "[" + arrayElementDescriptor(elemCls)
		cls, e := vm.Loader.Load(arrName)
		if e != nil {
			err = e
			break
		}
		fr.pushRef(object.NewObjectArray(cls, int(n)))
	case classfile.OpMultianewarray:
		dims := make([]int32, insn.Multianew.Dims)
		for i := len(dims) - 1; i >= 0; i-- {
			dims[i] = fr.popInt()
		}
		for _, d := range dims {
			if d < 0 {
				err = errNegativeArraySize(d)
				break
			}
		}
		if err != nil {
			break
		}
		cls, e := classAt(pool, int(insn.Multianew.Index))
		if e != nil {
			err = e
			break
		}
		arr, e := allocMultiArray(cls, dims)
		if e != nil {
			err = e
			break
		}
		fr.pushRef(arr)

	case classfile.OpArraylength:
		arr := fr.popRef()
		if arr == nil {
			err = errNullPointer()
			break
		}
		fr.pushInt(int32(arr.Length))

	case classfile.OpCheckcast:
		cls, e := classAt(pool, int(insn.Index))
		if e != nil {
			err = e
			break
		}
		v := fr.peek()
		if v.Ref != nil && !v.Ref.Class.IsSubclassOf(cls) {
			err = errClassCast(v.Ref.Class.Name, cls.Name)
		}
	case classfile.OpInstanceof:
		cls, e := classAt(pool, int(insn.Index))
		if e != nil {
			err = e
			break
		}
		v := fr.popRef()
		fr.pushBool(v != nil && v.Class.IsSubclassOf(cls))

	case classfile.OpAthrow:
		t := fr.popRef()
		if t == nil {
			err = errNullPointer()
			break
		}
		err = &ThrownException{Throwable: t}

	case classfile.OpMonitorenter, classfile.OpMonitorexit:
		if fr.popRef() == nil {
			err = errNullPointer()
		}

	default:
		err = fmt.Errorf("interp: unimplemented opcode %v", insn.Op)
	}
	return
}

// mod implements Java's floating-point remainder semantics, which is C's
// fmod (truncating quotient), not the round-to-nearest IEEE remainder
// math.Remainder computes. math.Mod already matches it, NaN propagation
// included.
func mod(a, b float64) float64 {
	return math.Mod(a, b)
}

func intCmpTaken(op classfile.Op, a, b int32) bool {
	switch op {
	case classfile.OpIfeq, classfile.OpIfIcmpeq:
		return a == b
	case classfile.OpIfne, classfile.OpIfIcmpne:
		return a != b
	case classfile.OpIflt, classfile.OpIfIcmplt:
		return a < b
	case classfile.OpIfge, classfile.OpIfIcmpge:
		return a >= b
	case classfile.OpIfgt, classfile.OpIfIcmpgt:
		return a > b
	case classfile.OpIfle, classfile.OpIfIcmple:
		return a <= b
	}
	return false
}

func popByCategory(fr *Frame, category int) Value {
	if category == 2 {
		return fr.popCat2()
	}
	return fr.pop()
}

func classAt(pool *cpool.Pool, idx int) (*object.Class, error) {
	ce, err := cpool.Get[cpool.Class](pool, idx)
	if err != nil {
		return nil, err
	}
	cls, _ := ce.Resolved.(*object.Class)
	if cls == nil {
		return nil, &excRequest{excnames.NoClassDefFoundError, ""}
	}
	return cls, nil
}

func fieldAt(pool *cpool.Pool, idx int) (object.ResolvedField, error) {
	fe, err := cpool.Get[cpool.Fieldref](pool, idx)
	if err != nil {
		return object.ResolvedField{}, err
	}
	rf, _ := fe.Resolved.(object.ResolvedField)
	if rf.Slot == nil {
		return object.ResolvedField{}, &excRequest{excnames.NoSuchFieldError, ""}
	}
	return rf, nil
}

func methodAt(pool *cpool.Pool, idx int) (object.ResolvedMethod, error) {
	if me, err := cpool.Get[cpool.Methodref](pool, idx); err == nil {
		if rm, ok := me.Resolved.(object.ResolvedMethod); ok {
			return rm, nil
		}
	}
	ie, err := cpool.Get[cpool.InterfaceMethodref](pool, idx)
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	rm, ok := ie.Resolved.(object.ResolvedMethod)
	if !ok {
		return object.ResolvedMethod{}, &excRequest{excnames.NoSuchMethodError, ""}
	}
	return rm, nil
}

func fieldGet(recv *object.Object, rf object.ResolvedField) Value {
	if isRefDescriptor(rf.Slot.Descriptor) {
		return vRef(recv.GetFieldRef(rf.Slot.Offset))
	}
	return Value{Slot: recv.GetField(rf.Slot.Offset)}
}

func fieldSet(recv *object.Object, rf object.ResolvedField, v Value) {
	if isRefDescriptor(rf.Slot.Descriptor) {
		recv.SetFieldRef(rf.Slot.Offset, v.Ref)
		return
	}
	recv.SetField(rf.Slot.Offset, v.Slot)
}

func staticGet(rf object.ResolvedField) Value {
	idx := rf.Slot.Offset / types.RefSize
	if isRefDescriptor(rf.Slot.Descriptor) {
		return vRef(rf.Owner.StaticRefs[idx])
	}
	return Value{Slot: rf.Owner.StaticValues[idx]}
}

func staticSet(rf object.ResolvedField, v Value) {
	idx := rf.Slot.Offset / types.RefSize
	if isRefDescriptor(rf.Slot.Descriptor) {
		rf.Owner.StaticRefs[idx] = v.Ref
		if v.Ref != nil {
			rf.Owner.StaticValues[idx] = 1
		} else {
			rf.Owner.StaticValues[idx] = 0
		}
		return
	}
	rf.Owner.StaticValues[idx] = v.Slot
}

func isRefDescriptor(desc string) bool {
	return len(desc) > 0 && (desc[0] == 'L' || desc[0] == '[')
}

// arrayElementDescriptor names cls the way an array's own internal name
// embeds its element: an array class's Name is already bracket-form, a
// Plain class needs the "L...;" wrapper.
func arrayElementDescriptor(cls *object.Class) string {
	if cls.Kind != object.KindPlain {
		return cls.Name
	}
	return "L" + cls.Name + ";"
}

func allocMultiArray(cls *object.Class, dims []int32) (*object.Object, error) {
	n := dims[0]
	if cls.Kind == object.KindPrimitiveArray {
		return object.NewArray(cls, int(n)), nil
	}
	arr := object.NewObjectArray(cls, int(n))
	if len(dims) > 1 {
		for i := 0; i < int(n); i++ {
			sub, err := allocMultiArray(cls.ElementClass, dims[1:])
			if err != nil {
				return nil, err
			}
			arr.RefElements[i] = sub
		}
	}
	return arr, nil
}

func (vm *VM) execLdc(fr *Frame, pool *cpool.Pool, idx int) error {
	e, err := pool.GetAny(idx)
	if err != nil {
		return err
	}
	switch v := e.(type) {
	case cpool.Integer:
		fr.pushInt(v.Value)
	case cpool.Float:
		fr.pushFloat(v.Value)
	case cpool.String:
		s := v.Resolved
		var strObj *object.Object
		if so, ok := s.(*object.Object); ok {
			strObj = so
		} else {
			text, terr := pool.GetUTF8(int(v.StringIndex))
			if terr != nil {
				return terr
			}
			strObj = vm.Strings.Intern(text)
			v.Resolved = strObj
			pool.Set(idx, v)
		}
		fr.pushRef(strObj)
	case cpool.Class:
		cls, _ := v.Resolved.(*object.Class)
		if cls == nil {
			return &excRequest{excnames.NoClassDefFoundError, ""}
		}
		classClass, cerr := vm.Loader.Load(types.ClassClassName)
		if cerr != nil {
			return cerr
		}
		fr.pushRef(cls.Mirror(classClass))
	default:
		return fmt.Errorf("interp: ldc on unsupported constant kind %T", e)
	}
	return nil
}

// execInvoke dispatches invokevirtual/invokespecial/invokestatic/
// invokeinterface (spec §4.F, §4.E method lookup). virtual dispatch
// re-resolves name+descriptor against the receiver's dynamic class;
// invokespecial/invokestatic use the compile-time resolved method.
func (vm *VM) execInvoke(fr *Frame, pool *cpool.Pool, idx int, virtual, static bool) error {
	rm, err := methodAt(pool, idx)
	if err != nil {
		return err
	}
	argc := len(rm.Method.Parsed.Params)
	args := make([]Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = popByCategory(fr, rm.Method.Parsed.Params[i].Category())
	}
	if static {
		if !rm.Method.IsStatic() {
			return &excRequest{excnames.IncompatibleClassChangeError, rm.Owner.Name + "." + rm.Method.Name + rm.Method.Descriptor}
		}
		if e := vm.ensureInitialized(rm.Owner); e != nil {
			return e
		}
		v, err := vm.Invoke(rm, args)
		if err != nil {
			return err
		}
		if rm.Method.Parsed.Return.Kind != classfile.DescVoid {
			pushReturn(fr, v, rm.Method.Parsed.Return)
		}
		return nil
	}
	recv := fr.popRef()
	if recv == nil {
		return errNullPointer()
	}
	target := rm
	if virtual {
		if found, ok := recv.Class.FindMethod(rm.Method.Name, rm.Method.Descriptor); ok {
			target = found
		}
	}
	v, err := vm.InvokeInstance(target, recv, args)
	if err != nil {
		return err
	}
	if target.Method.Parsed.Return.Kind != classfile.DescVoid {
		pushReturn(fr, v, target.Method.Parsed.Return)
	}
	return nil
}

func pushReturn(fr *Frame, v Value, ft classfile.FieldType) {
	if ft.Category() == 2 {
		fr.pushCat2(v)
		return
	}
	fr.push(v)
}

// execInvokeDynamic takes the method that the call site's bootstrap
// MethodHandle references (a Methodref) and invokes that method directly
// with the call-site arguments, caching it on the constant-pool entry.
// The bootstrap method is not run to produce a CallSite, and no
// MethodHandle or CallSite objects are created.
func (vm *VM) execInvokeDynamic(fr *Frame, pool *cpool.Pool, idx int) error {
	e, err := cpool.Get[cpool.InvokeDynamic](pool, idx)
	if err != nil {
		return err
	}
	var rm object.ResolvedMethod
	if cached, ok := e.Resolved.(object.ResolvedMethod); ok {
		rm = cached
	} else {
		resolved, rerr := vm.resolveInvokeDynamicTarget(fr.Owner, pool, e)
		if rerr != nil {
			return rerr
		}
		rm = resolved
		e.Resolved = rm
		pool.Set(idx, e)
	}
	argc := len(rm.Method.Parsed.Params)
	args := make([]Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = popByCategory(fr, rm.Method.Parsed.Params[i].Category())
	}
	v, err := vm.Invoke(rm, args)
	if err != nil {
		return err
	}
	if rm.Method.Parsed.Return.Kind != classfile.DescVoid {
		pushReturn(fr, v, rm.Method.Parsed.Return)
	}
	return nil
}

func (vm *VM) resolveInvokeDynamicTarget(owner *object.Class, pool *cpool.Pool, e cpool.InvokeDynamic) (object.ResolvedMethod, error) {
	if int(e.BootstrapMethodAttrIndex) >= len(owner.CF.Bootstraps) {
		return object.ResolvedMethod{}, fmt.Errorf("interp: bootstrap method index out of range")
	}
	bsm := owner.CF.Bootstraps[e.BootstrapMethodAttrIndex]
	mh, err := cpool.Get[cpool.MethodHandle](pool, bsm.MethodRef)
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	mref, err := cpool.Get[cpool.Methodref](pool, int(mh.ReferenceIndex))
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	classEntry, err := cpool.Get[cpool.Class](pool, int(mref.ClassIndex))
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	targetName, err := pool.GetUTF8(int(classEntry.NameIndex))
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	targetCls, err := vm.Loader.Load(targetName)
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	if err := vm.ensureInitialized(targetCls); err != nil {
		return object.ResolvedMethod{}, err
	}
	nat, err := cpool.Get[cpool.NameAndType](pool, int(mref.NameAndTypeIndex))
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	mname, err := pool.GetUTF8(int(nat.NameIndex))
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	mdesc, err := pool.GetUTF8(int(nat.DescriptorIndex))
	if err != nil {
		return object.ResolvedMethod{}, err
	}
	rm, ok := targetCls.FindMethod(mname, mdesc)
	if !ok {
		return object.ResolvedMethod{}, &excRequest{excnames.NoSuchMethodError, mname}
	}
	return rm, nil
}
