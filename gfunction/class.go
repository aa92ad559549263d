/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"github.com/glassvm/glassvm/interp"
	"github.com/glassvm/glassvm/types"
)

// loadLangClass registers java/lang/Class's natives: enough of the mirror
// API (getName, isInterface, isArray) for a main method that introspects
// its own class or an array's. A mirror's MirrorOf always points back to
// the Class it reflects, set once by object.Class.Mirror and never
// reassigned.
func loadLangClass(t table) {
	const cls = types.ClassClassName

	register(t, cls+".registerNatives()V", 0, func(_ *interp.VM, _ []interp.Value) (interp.Value, error) {
		return interp.Value{}, nil
	})

	register(t, cls+".getName()Ljava/lang/String;", 1, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		mirror := args[0].Ref
		name := externalName(mirror.MirrorOf.Name)
		return refValue(vm.Strings.Intern(name)), nil
	})

	register(t, cls+".isInterface()Z", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return boolValue(args[0].Ref.MirrorOf.IsInterface()), nil
	})

	register(t, cls+".isArray()Z", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return boolValue(args[0].Ref.MirrorOf.IsArray()), nil
	})

	register(t, cls+".hashCode()I", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return intValue(identityHash(args[0].Ref)), nil
	})
}

// externalName converts an internal class name ("java/lang/Object") to its
// Class.getName() form ("java.lang.Object"); array names are returned
// unchanged, matching the real JDK's documented behavior for array types.
func externalName(internal string) string {
	if types.IsArrayName(internal) {
		return internal
	}
	out := make([]byte, len(internal))
	for i := 0; i < len(internal); i++ {
		if internal[i] == '/' {
			out[i] = '.'
		} else {
			out[i] = internal[i]
		}
	}
	return string(out)
}
