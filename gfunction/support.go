/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"fmt"
	"hash/fnv"
	"unicode/utf16"

	"github.com/glassvm/glassvm/interp"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/types"
)

func intValue(i int32) interp.Value  { return interp.Value{Slot: types.SlotFromInt32(i)} }
func longValue(i int64) interp.Value { return interp.Value{Slot: types.SlotFromInt64(i)} }
func boolValue(b bool) interp.Value {
	if b {
		return intValue(1)
	}
	return intValue(0)
}

func refValue(o *object.Object) interp.Value {
	if o == nil {
		return interp.Value{}
	}
	return interp.Value{Slot: 1, Ref: o}
}

// identityHash derives a stable-for-its-lifetime int from an object's
// address without resorting to unsafe: the pointer's formatted
// representation is unique per live object and fed through fnv32 the same
// way a non-cryptographic hash collapses any fixed-width key.
func identityHash(o *object.Object) int32 {
	if o == nil {
		return 0
	}
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%p", o)
	return int32(h.Sum32())
}

// staticIndex, getStatic and setStatic read/write a static field already resolved by
// FindField, the same Offset/RefSize indexing classloader's linker and
// interp's exec.go use.
func staticIndex(slot *object.FieldSlot) int { return slot.Offset / types.RefSize }

func getStatic(owner *object.Class, slot *object.FieldSlot) interp.Value {
	i := staticIndex(slot)
	if isRefDescriptor(slot.Descriptor) {
		return refValue(owner.StaticRefs[i])
	}
	return interp.Value{Slot: owner.StaticValues[i]}
}

func setStatic(owner *object.Class, slot *object.FieldSlot, v interp.Value) {
	i := staticIndex(slot)
	if isRefDescriptor(slot.Descriptor) {
		owner.StaticRefs[i] = v.Ref
		if v.Ref == nil {
			owner.StaticValues[i] = 0
		} else {
			owner.StaticValues[i] = 1
		}
		return
	}
	owner.StaticValues[i] = v.Slot
}

func isRefDescriptor(desc string) bool {
	return len(desc) > 0 && (desc[0] == 'L' || desc[0] == '[')
}

// javaString decodes the UTF-16 backing char[] of an interned
// java/lang/String instance back to a Go string. s may be nil (Java null),
// in which case the literal "null" is returned, matching
// String.valueOf(Object)'s convention.
func javaString(s *object.Object) string {
	if s == nil {
		return "null"
	}
	return charArrayToString(valueArrayOf(s))
}

// valueArrayOf returns a java/lang/String instance's backing char[],
// preferring the ValueArray shortcut strpool.Pool.Intern sets and falling
// back to a field lookup for a String built some other way (e.g. by a
// native that doesn't go through the interner).
func valueArrayOf(s *object.Object) *object.Object {
	if s == nil {
		return nil
	}
	if s.ValueArray != nil {
		return s.ValueArray
	}
	_, slot, ok := s.Class.FindField("value")
	if !ok {
		return nil
	}
	return s.GetFieldRef(slot.Offset)
}

func charArrayToString(arr *object.Object) string {
	if arr == nil {
		return ""
	}
	units := make([]uint16, arr.Length)
	for i := 0; i < arr.Length; i++ {
		units[i] = uint16(arr.Elements[i].Int32())
	}
	return string(utf16.Decode(units))
}
