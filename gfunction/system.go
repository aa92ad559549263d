/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"io"
	"os"
	"time"

	"github.com/glassvm/glassvm/interp"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/shutdown"
)

// loadLangSystem registers java/lang/System's natives, including an
// initializeSystemClass-equivalent <clinit> that wires the static out/err
// fields to stdout/stderr-backed PrintStream instances.
func loadLangSystem(t table) {
	const cls = "java/lang/System"

	register(t, cls+".<clinit>()V", 0, func(vm *interp.VM, _ []interp.Value) (interp.Value, error) {
		sysCls, err := vm.Loader.Load(cls)
		if err != nil {
			return interp.Value{}, err
		}
		if err := bindStream(vm, sysCls, "out", os.Stdout); err != nil {
			return interp.Value{}, err
		}
		if err := bindStream(vm, sysCls, "err", os.Stderr); err != nil {
			return interp.Value{}, err
		}
		return interp.Value{}, nil
	})

	register(t, cls+".registerNatives()V", 0, func(_ *interp.VM, _ []interp.Value) (interp.Value, error) {
		return interp.Value{}, nil
	})

	register(t, cls+".currentTimeMillis()J", 0, func(_ *interp.VM, _ []interp.Value) (interp.Value, error) {
		return longValue(time.Now().UnixMilli()), nil
	})

	register(t, cls+".nanoTime()J", 0, func(_ *interp.VM, _ []interp.Value) (interp.Value, error) {
		return longValue(time.Now().UnixNano()), nil
	})

	register(t, cls+".identityHashCode(Ljava/lang/Object;)I", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		return intValue(identityHash(args[0].Ref)), nil
	})

	register(t, cls+".exit(I)V", 1, func(_ *interp.VM, args []interp.Value) (interp.Value, error) {
		shutdown.Exit(int(args[0].Slot.Int32()))
		return interp.Value{}, nil
	})

	register(t, cls+".arraycopy(Ljava/lang/Object;ILjava/lang/Object;II)V", 5, func(vm *interp.VM, args []interp.Value) (interp.Value, error) {
		return interp.Value{}, arraycopy(vm, args)
	})
}

// bindStream loads java/io/PrintStream, wraps w as one, and installs it
// into sysCls's static field name. System.out and System.err are populated
// by this native bootstrap rather than by Java-level construction, the
// same way the real initializeSystemClass never runs Java source to build
// these two instances either.
func bindStream(vm *interp.VM, sysCls *object.Class, name string, w io.Writer) error {
	ps, err := newPrintStream(vm, w)
	if err != nil {
		return err
	}
	_, slot, ok := sysCls.FindField(name)
	if !ok {
		return nil // stub classfile doesn't declare this field; nothing to wire
	}
	setStatic(sysCls, slot, refValue(ps))
	return nil
}

func arraycopy(vm *interp.VM, args []interp.Value) error {
	src, srcPos := args[0].Ref, int(args[1].Slot.Int32())
	dst, dstPos := args[2].Ref, int(args[3].Slot.Int32())
	length := int(args[4].Slot.Int32())

	if src == nil || dst == nil {
		return vm.Throw("java/lang/NullPointerException", "")
	}
	if srcPos < 0 || dstPos < 0 || length < 0 ||
		srcPos+length > src.Length || dstPos+length > dst.Length {
		return vm.Throw("java/lang/ArrayIndexOutOfBoundsException", "")
	}

	if src.RefElements != nil || dst.RefElements != nil {
		copy(dst.RefElements[dstPos:dstPos+length], src.RefElements[srcPos:srcPos+length])
		return nil
	}
	copy(dst.Elements[dstPos:dstPos+length], src.Elements[srcPos:srcPos+length])
	return nil
}
