/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package types holds value types shared across every layer of the VM:
// the untyped 64-bit frame/field slot, the primitive-type enumeration used
// by descriptors and arrays, and the handful of well-known internal names.
package types

import (
	"math"
	"strings"
)

// Slot is the bit-bag that backs locals, the operand stack, and static- and
// instance-field storage. Every opcode handler must interpret it under the
// type the opcode declares; the slot itself carries no tag.
type Slot uint64

// Int32 reinterprets the low 32 bits of the slot as a signed int.
func (s Slot) Int32() int32 { return int32(uint32(s)) }

// Int64 reinterprets the slot as a signed 64-bit int.
func (s Slot) Int64() int64 { return int64(s) }

// Float32 reinterprets the low 32 bits of the slot as an IEEE-754 float.
func (s Slot) Float32() float32 { return math.Float32frombits(uint32(s)) }

// Float64 reinterprets the slot as an IEEE-754 double.
func (s Slot) Float64() float64 { return math.Float64frombits(uint64(s)) }

// SlotFromInt32 packs a signed int into a slot, zero-extending.
func SlotFromInt32(v int32) Slot { return Slot(uint32(v)) }

// SlotFromInt64 packs a signed 64-bit int into a slot.
func SlotFromInt64(v int64) Slot { return Slot(v) }

// SlotFromFloat32 packs an IEEE-754 float into a slot's low 32 bits.
func SlotFromFloat32(v float32) Slot { return Slot(math.Float32bits(v)) }

// SlotFromFloat64 packs an IEEE-754 double into a slot.
func SlotFromFloat64(v float64) Slot { return Slot(math.Float64bits(v)) }

// JavaByte is a signed 8-bit Java byte, distinct from Go's unsigned byte so
// sign-extension on baload/bastore is not accidentally lost.
type JavaByte int8

// Primitive identifies one of the eight JVM primitive types.
type Primitive byte

const (
	Boolean Primitive = iota
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
)

// Size returns the element size in bytes used for primitive-array storage.
func (p Primitive) Size() int {
	switch p {
	case Boolean, Byte:
		return 1
	case Char, Short:
		return 2
	case Int, Float:
		return 4
	case Long, Double:
		return 8
	default:
		return 4
	}
}

func (p Primitive) String() string {
	switch p {
	case Boolean:
		return "boolean"
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return "?"
	}
}

// PrimitiveFromAtype maps a newarray `atype` operand (4..11) to a Primitive.
func PrimitiveFromAtype(atype byte) (Primitive, bool) {
	switch atype {
	case 4:
		return Boolean, true
	case 5:
		return Char, true
	case 6:
		return Float, true
	case 7:
		return Double, true
	case 8:
		return Byte, true
	case 9:
		return Short, true
	case 10:
		return Int, true
	case 11:
		return Long, true
	default:
		return 0, false
	}
}

// RefSize is the size in bytes of a reference slot in instance/array layout
// on the target this VM is built for. glassvm targets 64-bit hosts only.
const RefSize = 8

// HeaderSize is the size in bytes of the heap-object header (mark word +
// class pointer), as specified in §3.
const HeaderSize = 16

// ArrayLengthFieldSize is the (padded) size in bytes of an array object's
// length field, so element storage starts 8-byte aligned.
const ArrayLengthFieldSize = 8

// ObjectClassName is the one class with no superclass.
const ObjectClassName = "java/lang/Object"

// StringClassName names the class the interner backs its values with.
const StringClassName = "java/lang/String"

// SystemClassName is initialized by the VM entry before the main class,
// per spec §6's "Primary VM entry".
const SystemClassName = "java/lang/System"

// ClassClassName names the class of every class mirror.
const ClassClassName = "java/lang/Class"

// ThrowableClassName is the root of the Java throwable hierarchy.
const ThrowableClassName = "java/lang/Throwable"

// IsArrayName reports whether an internal name denotes an array class.
func IsArrayName(name string) bool {
	return strings.HasPrefix(name, "[")
}

// ArrayElementName strips one leading '[' from an array internal name,
// returning the element's internal/descriptor name.
func ArrayElementName(name string) string {
	return strings.TrimPrefix(name, "[")
}
