/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"fmt"

	"github.com/glassvm/glassvm/excnames"
	"github.com/glassvm/glassvm/object"
)

// excRequest is an internal marker an opcode helper (idiv, array bounds
// checks, ...) returns to ask the dispatch loop to raise a named Java
// exception; it never escapes package interp. This keeps arith.go free of
// any dependency on *VM/*Frame so its corner cases stay unit-testable in
// isolation (spec §8).
type excRequest struct {
	ClassName string
	Message   string
}

func (e *excRequest) Error() string { return fmt.Sprintf("%s: %s", e.ClassName, e.Message) }

func errArithmetic(msg string) error { return &excRequest{excnames.ArithmeticException, msg} }

func errNullPointer() error { return &excRequest{ClassName: excnames.NullPointerException} }

func errArrayIndex(i int) error {
	return &excRequest{excnames.ArrayIndexOutOfBoundsException, fmt.Sprintf("%d", i)}
}

func errNegativeArraySize(n int32) error {
	return &excRequest{excnames.NegativeArraySizeException, fmt.Sprintf("%d", n)}
}

func errClassCast(from, to string) error {
	return &excRequest{excnames.ClassCastException, fmt.Sprintf("class %s cannot be cast to class %s", from, to)}
}

// ThrownException is a live Java exception in flight: a heap object
// subclassing Throwable, propagating through the exception-table
// mechanism of spec §4.F. It is the "Threw" leg of spec §9's explicit
// Value/Returned/Threw result kind, represented here as a distinguished
// error type rather than a third return value so ordinary Go control flow
// (return err) does the propagating.
type ThrownException struct {
	Throwable *object.Object
}

func (e *ThrownException) Error() string {
	if e.Throwable == nil || e.Throwable.Class == nil {
		return "exception"
	}
	return e.Throwable.Class.Name
}

// newThrowable instantiates and (if a single-string constructor exists)
// initializes a Throwable of the given internal class name. Construction
// failures degrade to a bare instance rather than losing the original
// condition in a secondary VM-internal error.
func (vm *VM) newThrowable(className, message string) (*object.Object, error) {
	cls, err := vm.Loader.Load(className)
	if err != nil {
		return nil, err
	}
	if err := vm.ensureInitialized(cls); err != nil {
		return nil, err
	}
	inst := object.NewInstance(cls)
	if rm, ok := cls.FindMethod("<init>", "(Ljava/lang/String;)V"); ok && message != "" {
		msgStr := vm.Strings.Intern(message)
		if _, err := vm.InvokeInstance(rm, inst, []Value{vRef(msgStr)}); err != nil {
			// Constructor itself threw: still return the (partially
			// built) instance rather than masking the original fault.
			return inst, nil
		}
	}
	return inst, nil
}

// throw materializes a VM-raised condition (null check, divide by zero,
// array bounds, ...) as a real Throwable and wraps it for propagation.
func (vm *VM) throw(className, message string) error {
	t, err := vm.newThrowable(className, message)
	if err != nil {
		return err
	}
	return &ThrownException{Throwable: t}
}

// Throw lets a native method (package gfunction) raise a named Java
// exception the same way a VM-internal check does, without exposing
// excRequest or newThrowable outside this package.
func (vm *VM) Throw(className, message string) error {
	return vm.throw(className, message)
}

// asThrown converts an excRequest (or passes through anything else,
// including an already-built *ThrownException) into a *ThrownException
// carrying a real heap object.
func (vm *VM) asThrown(err error) error {
	if err == nil {
		return nil
	}
	if req, ok := err.(*excRequest); ok {
		return vm.throw(req.ClassName, req.Message)
	}
	return err
}
