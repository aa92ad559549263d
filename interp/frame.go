/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/object"
)

// Frame is one method activation record (spec §3 "Execution frame"): fixed
// locals and operand-stack vectors, a program counter expressed as an
// instruction index (not a raw PC), and a back-pointer to the method and
// class it is executing. Longs and doubles occupy two adjacent Values;
// the filler slot's contents are unspecified (never read).
type Frame struct {
	Locals []Value
	Stack  []Value
	sp     int

	PC     int
	Method *classfile.MethodInfo
	Owner  *object.Class
	Code   *classfile.CodeAttribute

	// jsr/ret need no dedicated field: jsr pushes the instruction index to
	// resume at onto the operand stack, and ret reads it back from a
	// local, so the frame's own storage holds it (a Value whose Slot is an
	// instruction index, never a real operand).
}

// NewFrame allocates a Frame sized to the method's Code attribute and
// pre-populated locals (receiver at slot 0 for an instance method,
// arguments packed after it; category-2 arguments consume two local
// slots, the second left as the zero Value per spec).
func NewFrame(owner *object.Class, m *classfile.MethodInfo, receiver *object.Object, args []Value, paramCategories []int) *Frame {
	code := m.Code
	f := &Frame{
		Locals: make([]Value, code.MaxLocals),
		Stack:  make([]Value, code.MaxStack+2), // headroom for padding pushes (dup2_x2 etc.)
		Method: m,
		Owner:  owner,
		Code:   code,
	}
	li := 0
	if !m.IsStatic() {
		f.Locals[li] = vRef(receiver)
		li++
	}
	for i, a := range args {
		f.Locals[li] = a
		cat := 1
		if i < len(paramCategories) {
			cat = paramCategories[i]
		}
		li += cat
	}
	return f
}

func (f *Frame) push(v Value) {
	f.Stack[f.sp] = v
	f.sp++
}

func (f *Frame) pop() Value {
	f.sp--
	return f.Stack[f.sp]
}

func (f *Frame) peek() Value { return f.Stack[f.sp-1] }

func (f *Frame) depth() int { return f.sp }

func (f *Frame) pushInt(v int32)       { f.push(vInt(v)) }
func (f *Frame) pushFloat(v float32)   { f.push(vFloat(v)) }
func (f *Frame) pushRef(v *object.Object) { f.push(vRef(v)) }
func (f *Frame) pushBool(v bool) {
	if v {
		f.pushInt(1)
	} else {
		f.pushInt(0)
	}
}

func (f *Frame) popInt() int32         { return f.pop().asInt() }
func (f *Frame) popFloat() float32     { return f.pop().asFloat() }
func (f *Frame) popRef() *object.Object { return f.pop().Ref }

// pushCat2/popCat2 implement the two-slot convention for long/double: the
// value is written/read at the lower index, a filler Value occupies the
// slot above it.
func (f *Frame) pushCat2(v Value) {
	f.push(v)
	f.push(Value{})
}

func (f *Frame) popCat2() Value {
	f.sp -= 2
	return f.Stack[f.sp]
}

func (f *Frame) pushLong(v int64)     { f.pushCat2(vLong(v)) }
func (f *Frame) pushDouble(v float64) { f.pushCat2(vDouble(v)) }
func (f *Frame) popLong() int64       { return f.popCat2().asLong() }
func (f *Frame) popDouble() float64   { return f.popCat2().asDouble() }

func (f *Frame) getLocal(i int) Value  { return f.Locals[i] }
func (f *Frame) setLocal(i int, v Value) { f.Locals[i] = v }
