/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"fmt"
	"io"
	"sync"

	"github.com/glassvm/glassvm/interp"
	"github.com/glassvm/glassvm/object"
)

// streamTargets maps a live PrintStream instance to the Go writer it
// prints through. A heap Object has no general-purpose native-handle
// field, so rather than grow one for this single use, the association is
// kept here the way a JNI host keeps native peers in a side table keyed by
// object identity.
var (
	streamMu      sync.Mutex
	streamTargets = map[*object.Object]io.Writer{}
)

func newPrintStream(vm *interp.VM, w io.Writer) (*object.Object, error) {
	cls, err := vm.Loader.Load("java/io/PrintStream")
	if err != nil {
		return nil, err
	}
	if err := vm.EnsureInitialized(cls); err != nil {
		return nil, err
	}
	inst := object.NewInstance(cls)
	streamMu.Lock()
	streamTargets[inst] = w
	streamMu.Unlock()
	return inst, nil
}

func writerFor(ps *object.Object) io.Writer {
	streamMu.Lock()
	defer streamMu.Unlock()
	if w, ok := streamTargets[ps]; ok {
		return w
	}
	return io.Discard
}

// loadIoPrintStream registers java/io/PrintStream's print/println family.
// Each overload prints its argument's natural text form followed by the
// platform line terminator for the println variants, matching the
// subset of PrintStream a minimal rt stub exposes to a `main` that uses
// System.out/System.err.
func loadIoPrintStream(t table) {
	const cls = "java/io/PrintStream"

	printString := func(_ *interp.VM, args []interp.Value, newline bool) (interp.Value, error) {
		w := writerFor(args[0].Ref)
		text := javaString(args[1].Ref)
		if newline {
			fmt.Fprintln(w, text)
		} else {
			fmt.Fprint(w, text)
		}
		return interp.Value{}, nil
	}

	register(t, cls+".print(Ljava/lang/String;)V", 2, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		return printString(vm, args, false)
	})
	register(t, cls+".println(Ljava/lang/String;)V", 2, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		return printString(vm, args, true)
	})

	register(t, cls+".println()V", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		fmt.Fprintln(writerFor(args[0].Ref))
		return interp.Value{}, nil
	})

	register(t, cls+".print(I)V", 2, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		fmt.Fprint(writerFor(args[0].Ref), args[1].Slot.Int32())
		return interp.Value{}, nil
	})
	register(t, cls+".println(I)V", 2, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		fmt.Fprintln(writerFor(args[0].Ref), args[1].Slot.Int32())
		return interp.Value{}, nil
	})

	register(t, cls+".print(J)V", 3, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		fmt.Fprint(writerFor(args[0].Ref), args[1].Slot.Int64())
		return interp.Value{}, nil
	})
	register(t, cls+".println(J)V", 3, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		fmt.Fprintln(writerFor(args[0].Ref), args[1].Slot.Int64())
		return interp.Value{}, nil
	})

	register(t, cls+".print(Z)V", 2, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		fmt.Fprint(writerFor(args[0].Ref), args[1].Slot.Int32() != 0)
		return interp.Value{}, nil
	})
	register(t, cls+".println(Z)V", 2, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		fmt.Fprintln(writerFor(args[0].Ref), args[1].Slot.Int32() != 0)
		return interp.Value{}, nil
	})

	register(t, cls+".println(Ljava/lang/Object;)V", 2, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		text := objectToString(vm, args[1].Ref)
		fmt.Fprintln(writerFor(args[0].Ref), text)
		return interp.Value{}, nil
	})

	register(t, cls+".flush()V", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		if f, ok := writerFor(args[0].Ref).(interface{ Sync() error }); ok {
			_ = f.Sync()
		}
		return interp.Value{}, nil
	})
}

// objectToString calls the receiver's toString() if it overrides Object's,
// falling back to the default Object.toString rendering.
func objectToString(vm *interp.VM, o *object.Object) string {
	if o == nil {
		return "null"
	}
	if o.Class.Name == "java/lang/String" {
		return javaString(o)
	}
	if rm, ok := o.Class.FindMethod("toString", "()Ljava/lang/String;"); ok {
		v, err := vm.InvokeInstance(rm, o, nil)
		if err == nil && v.Ref != nil {
			return javaString(v.Ref)
		}
	}
	return fmt.Sprintf("%s@%x", o.Class.Name, uint32(identityHash(o)))
}
