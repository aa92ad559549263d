/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"fmt"

	"github.com/glassvm/glassvm/interp"
	"github.com/glassvm/glassvm/types"
)

// loadLangObject registers the java/lang/Object natives every instance
// ultimately inherits (SPEC_FULL.md component I), grounded on the teacher's
// Load_Lang_Object()-style registration function.
func loadLangObject(t table) {
	const cls = types.ObjectClassName

	register(t, cls+".<init>()V", 1, func(_ *interp.VM, _ []interp.Value) (interp.Value, error) {
		return interp.Value{}, nil
	})

	register(t, cls+".hashCode()I", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return intValue(identityHash(args[0].Ref)), nil
	})

	register(t, cls+".equals(Ljava/lang/Object;)Z", 2, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return boolValue(args[0].Ref == args[1].Ref), nil
	})

	register(t, cls+".getClass()Ljava/lang/Class;", 1, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		recv := args[0].Ref
		if recv == nil {
			return interp.Value{}, vm.Throw("java/lang/NullPointerException", "")
		}
		classClass, err := vm.Loader.Load(types.ClassClassName)
		if err != nil {
			return interp.Value{}, err
		}
		return refValue(recv.Class.Mirror(classClass)), nil
	})

	register(t, cls+".toString()Ljava/lang/String;", 1, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		recv := args[0].Ref
		if recv == nil {
			return interp.Value{}, vm.Throw("java/lang/NullPointerException", "")
		}
		text := fmt.Sprintf("%s@%x", recv.Class.Name, uint32(identityHash(recv)))
		return refValue(vm.Strings.Intern(text)), nil
	})
}
