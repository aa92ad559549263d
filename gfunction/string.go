/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"unicode/utf16"

	"github.com/glassvm/glassvm/interp"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/types"
)

// loadLangString registers the java/lang/String natives the chosen rt stub
// declares native (SPEC_FULL.md §9's resolved open question: the `value`
// field is a UTF-16 char[], so every operation here works over that array
// rather than a hidden Go string). Grounded on the teacher's
// javaLangString.go registration idiom (per-class function populating a
// mangled-name table).
func loadLangString(t table) {
	const cls = types.StringClassName

	register(t, cls+".length()I", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return intValue(int32(valueArrayOf(args[0].Ref).Length)), nil
	})

	register(t, cls+".charAt(I)C", 2, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		arr := valueArrayOf(args[0].Ref)
		idx := int(args[1].Slot.Int32())
		if !arr.InBounds(idx) {
			return interp.Value{}, vm.Throw("java/lang/StringIndexOutOfBoundsException", "")
		}
		return intValue(arr.Elements[idx].Int32() & 0xFFFF), nil
	})

	register(t, cls+".isEmpty()Z", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return boolValue(valueArrayOf(args[0].Ref).Length == 0), nil
	})

	register(t, cls+".hashCode()I", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return intValue(javaStringHash(javaString(args[0].Ref))), nil
	})

	register(t, cls+".equals(Ljava/lang/Object;)Z", 2, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		this, other := args[0].Ref, args[1].Ref
		if other == nil || other.Class == nil || other.Class.Name != types.StringClassName {
			return boolValue(false), nil
		}
		return boolValue(javaString(this) == javaString(other)), nil
	})

	register(t, cls+".concat(Ljava/lang/String;)Ljava/lang/String;", 2, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		combined := javaString(args[0].Ref) + javaString(args[1].Ref)
		return refValue(vm.Strings.Intern(combined)), nil
	})

	register(t, cls+".toString()Ljava/lang/String;", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return args[0], nil
	})

	register(t, cls+".intern()Ljava/lang/String;", 1, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		return refValue(vm.Strings.Intern(javaString(args[0].Ref))), nil
	})

	register(t, cls+".getBytes()[B", 1, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		byteCls, err := vm.Loader.Load("[B")
		if err != nil {
			return interp.Value{}, err
		}
		jbytes := object.JavaByteArrayFromGoString(javaString(args[0].Ref))
		arr := object.NewArray(byteCls, len(jbytes))
		for i, b := range jbytes {
			arr.Elements[i] = types.SlotFromInt32(int32(b))
		}
		return refValue(arr), nil
	})

	register(t, cls+".<init>([B)V", 2, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		this, src := args[0].Ref, args[1].Ref
		jbytes := make([]types.JavaByte, src.Length)
		for i := range jbytes {
			jbytes[i] = types.JavaByte(src.Elements[i].Int32())
		}
		charCls, err := vm.Loader.Load("[C")
		if err != nil {
			return interp.Value{}, err
		}
		units := utf16.Encode([]rune(object.GoStringFromJavaByteArray(jbytes)))
		charArr := object.NewArray(charCls, len(units))
		for i, u := range units {
			charArr.Elements[i] = types.SlotFromInt32(int32(u))
		}
		if _, slot, ok := this.Class.FindField("value"); ok {
			this.SetFieldRef(slot.Offset, charArr)
		}
		this.ValueArray = charArr
		return interp.Value{}, nil
	})
}

// javaStringHash implements String.hashCode()'s documented recurrence
// (JLS 8 §String.hashCode): s[0]*31^(n-1) + s[1]*31^(n-2) + ... + s[n-1],
// computed over UTF-16 code units so it matches real Java for strings
// outside the BMP the same way javac's own implementation does.
func javaStringHash(s string) int32 {
	units := utf16.Encode([]rune(s))
	var h int32
	for _, u := range units {
		h = 31*h + int32(u)
	}
	return h
}
