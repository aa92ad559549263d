/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"fmt"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/classloader"
	"github.com/glassvm/glassvm/excnames"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/strpool"
	"github.com/glassvm/glassvm/types"
)

// NativeFunc is one native method's implementation: it receives the VM
// (so it can allocate, throw, or call back into Java) and the argument
// Values (receiver first for an instance method), and returns a result
// Value or an error (a *ThrownException to raise a Java exception, any
// other error for a VM-internal failure).
type NativeFunc func(vm *VM, args []Value) (Value, error)

// NativeRegistry is the collaborator interface of spec §6's "Native
// method registry (consumed)": a lookup from mangled name to
// implementation. Package gfunction implements it; interp only depends on
// the interface, avoiding an import cycle.
type NativeRegistry interface {
	Lookup(mangled string) (NativeFunc, bool)
}

// VM ties together the loader, the native registry, and the string
// interner into the single executing entity spec §4.F describes: the
// interpreter dispatches to the loader for new/getstatic/invoke* and to
// the registry for native calls.
type VM struct {
	Loader  *classloader.Loader
	Natives NativeRegistry
	Strings *strpool.Pool

	callDepth int
	maxDepth  int
}

// defaultMaxCallDepth bounds recursion so a runaway Java program raises
// StackOverflowError instead of crashing the host Go process; the core has
// no native stack-depth introspection, so this is the Go-level stand-in.
const defaultMaxCallDepth = 2000

// New constructs a VM over an already-configured loader. Natives and
// Strings may be nil at construction and set once their dependencies
// (rt classes) are loaded. A native call with Natives nil returns an
// error; Strings has no nil check and is dereferenced by string constants
// and interning natives.
func New(loader *classloader.Loader) *VM {
	return &VM{Loader: loader, maxDepth: defaultMaxCallDepth}
}

// ClinitInvoker adapts VM.Invoke to classloader.MethodInvoker's numeric-
// only signature, the shape <clinit> (niladic, void-returning) needs.
func (vm *VM) ClinitInvoker() classloader.MethodInvoker {
	return func(m object.ResolvedMethod, _ []types.Slot) (types.Slot, error) {
		v, err := vm.Invoke(m, nil)
		return v.Slot, err
	}
}

// EnsureInitialized drives cls through Link/Initialize if it hasn't
// already run, for natives (package gfunction) that construct an instance
// of a class without going through a `new` bytecode (e.g. System's
// bring-up of its PrintStream fields).
func (vm *VM) EnsureInitialized(cls *object.Class) error {
	return vm.ensureInitialized(cls)
}

func (vm *VM) ensureInitialized(cls *object.Class) error {
	if cls.Status() == object.StatusLoaded {
		if err := vm.Loader.Link(cls); err != nil {
			return err
		}
	}
	return vm.Loader.Initialize(cls, vm.ClinitInvoker())
}

// Invoke runs a resolved method to completion (spec §4.F "Entry"). args
// excludes the receiver for an instance method; NewFrame places it at
// local 0 itself via receiver. Native methods short-circuit into the
// registry without a Frame at all.
func (vm *VM) Invoke(rm object.ResolvedMethod, args []Value) (Value, error) {
	return vm.invokeWithReceiver(rm, nil, args)
}

// InvokeInstance is Invoke for a non-static method, supplying the receiver
// separately from args so callers never have to remember slot 0's
// convention.
func (vm *VM) InvokeInstance(rm object.ResolvedMethod, receiver *object.Object, args []Value) (Value, error) {
	return vm.invokeWithReceiver(rm, receiver, args)
}

func (vm *VM) invokeWithReceiver(rm object.ResolvedMethod, receiver *object.Object, args []Value) (Value, error) {
	m := rm.Method
	if m.IsNative() {
		return vm.invokeNative(rm, receiver, args)
	}
	if m.Code == nil {
		return Value{}, fmt.Errorf("interp: %s.%s%s has no Code attribute and is not native", rm.Owner.Name, m.Name, m.Descriptor)
	}

	vm.callDepth++
	defer func() { vm.callDepth-- }()
	if vm.callDepth > vm.maxDepth {
		return Value{}, vm.throw(excnames.StackOverflowError, "")
	}

	cats := paramCategories(m.Parsed)
	fr := NewFrame(rm.Owner, m, receiver, args, cats)
	return vm.run(fr)
}

func (vm *VM) invokeNative(rm object.ResolvedMethod, receiver *object.Object, args []Value) (Value, error) {
	if vm.Natives == nil {
		return Value{}, fmt.Errorf("interp: native registry not configured")
	}
	mangled := rm.Owner.Name + "." + rm.Method.Name + rm.Method.Descriptor
	fn, ok := vm.Natives.Lookup(mangled)
	if !ok {
		return Value{}, &excRequest{excnames.UnsatisfiedLinkError, mangled}
	}
	full := args
	if !rm.Method.IsStatic() {
		full = append([]Value{vRef(receiver)}, args...)
	}
	return fn(vm, full)
}

func paramCategories(md classfile.MethodDescriptor) []int {
	cats := make([]int, len(md.Params))
	for i, p := range md.Params {
		cats[i] = p.Category()
	}
	return cats
}
