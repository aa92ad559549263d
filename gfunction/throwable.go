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

// loadLangThrowable registers java/lang/Throwable's natives. Real OpenJDK
// marks fillInStackTrace, getStackTraceDepth, and getStackTraceElement
// native; this minimal rt stub has no frame-walking stack-trace capture,
// so fillInStackTrace is a no-op returning the receiver (the conventional
// Java idiom `return fillInStackTrace();` inside the constructor still
// works) and the depth/element pair report an empty trace.
func loadLangThrowable(t table) {
	const cls = types.ThrowableClassName

	register(t, cls+".fillInStackTrace()Ljava/lang/Throwable;", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return args[0], nil
	})

	register(t, cls+".getStackTraceDepth()I", 1, func(_ *interp.VM, _ []interp.Value) (interp.Value, error) {
		return intValue(0), nil
	})

	register(t, cls+".getStackTraceElement(I)Ljava/lang/StackTraceElement;", 2, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		return interp.Value{}, vm.Throw("java/lang/IndexOutOfBoundsException", "")
	})
}
