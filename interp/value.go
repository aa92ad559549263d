/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package interp is the stack-based bytecode interpreter (spec §4.F): a
// single dispatch loop over the normalized instruction stream of package
// classfile, operating on per-call Frames and driving package classloader
// lazily as execution demands new classes.
package interp

import (
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/types"
)

// Value is one frame slot: the untyped 64-bit bit-bag of spec §9 plus,
// when the slot holds a reference, the live *object.Object Go cannot
// safely fold into that bit-bag (see object.Object's Fields/Refs doc
// comment for why). Every opcode handler reads Value under the type the
// opcode declares; a numeric opcode never looks at Ref, and a reference
// opcode never looks at Slot except to null-check it.
type Value struct {
	Slot types.Slot
	Ref  *object.Object
}

// IsNullRef reports whether a reference-typed Value is Java null.
func (v Value) IsNullRef() bool { return v.Ref == nil }

func vInt(i int32) Value        { return Value{Slot: types.SlotFromInt32(i)} }
func vLong(i int64) Value       { return Value{Slot: types.SlotFromInt64(i)} }
func vFloat(f float32) Value    { return Value{Slot: types.SlotFromFloat32(f)} }
func vDouble(d float64) Value   { return Value{Slot: types.SlotFromFloat64(d)} }
func vRef(o *object.Object) Value {
	if o == nil {
		return Value{}
	}
	return Value{Slot: 1, Ref: o}
}

func (v Value) asInt() int32      { return v.Slot.Int32() }
func (v Value) asLong() int64     { return v.Slot.Int64() }
func (v Value) asFloat() float32  { return v.Slot.Float32() }
func (v Value) asDouble() float64 { return v.Slot.Float64() }
func (v Value) asBool() bool      { return v.Slot.Int32() != 0 }

// zeroValueFor returns the JVMS §5.4.3 default value for a primitive type,
// used when allocating array elements and reading unset local slots.
func zeroValueFor(p types.Primitive) Value {
	switch p {
	case types.Float:
		return vFloat(0)
	case types.Double:
		return vDouble(0)
	case types.Long:
		return vLong(0)
	default:
		return vInt(0)
	}
}
