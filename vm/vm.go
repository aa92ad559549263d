/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package vm assembles the loader, interpreter, native registry, and
// string interner into the single entity spec §6 calls the "Primary VM
// entry": a classpath and a main-class name in, an exit code out. It is
// the concrete wiring SPEC_FULL.md's domain-stack item J (cmd/glassvm)
// and the library surface (vm.VM.Start) both build on, grounded on the
// teacher's own top-level bring-up sequence (load System, run
// initializeSystemClass, load/link/init the main class, invoke main).
package vm

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/glassvm/glassvm/classloader"
	"github.com/glassvm/glassvm/gfunction"
	"github.com/glassvm/glassvm/globals"
	"github.com/glassvm/glassvm/interp"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/provider"
	"github.com/glassvm/glassvm/shutdown"
	"github.com/glassvm/glassvm/strpool"
	"github.com/glassvm/glassvm/trace"
	"github.com/glassvm/glassvm/types"
)

// Config is the configuration of a single VM instance: spec §6's
// classpath (colon-delimited directories, jars, or dir/* globs) and main
// class, plus the program arguments a CLI front-end collects and this
// package currently does not forward (see Start's doc comment).
type Config struct {
	Classpath string
	MainClass string
	Args      []string

	TraceClass  bool
	TraceCloadi bool
	TraceInst   bool
}

// VM is the assembled embeddable JVM: a classloader.Loader backed by a
// provider.Classpath, an interp.VM wired to a gfunction.Registry and a
// strpool.Pool, all sharing the one globals.Global this instance
// installed.
type VM struct {
	cfg    Config
	loader *classloader.Loader
	interp *interp.VM
}

// New builds a VM over cfg's classpath without loading any class yet;
// Start does the loading. Returns an error only for a malformed classpath
// (a jar that fails to open).
func New(cfg Config) (*VM, error) {
	trace.Init()
	g := globals.InitGlobals(toInternalName(cfg.MainClass))
	g.Classpath = cfg.Classpath
	g.Args = cfg.Args
	g.TraceClass = cfg.TraceClass
	g.TraceCloadi = cfg.TraceCloadi
	g.TraceInst = cfg.TraceInst

	cp, err := provider.New(cfg.Classpath)
	if err != nil {
		return nil, fmt.Errorf("vm: classpath %q: %w", cfg.Classpath, err)
	}

	loader := classloader.New(cp)
	iv := interp.New(loader)
	iv.Natives = gfunction.NewRegistry()

	return &VM{cfg: cfg, loader: loader, interp: iv}, nil
}

// toInternalName accepts either a dotted (java.lang.String) or internal
// (java/lang/String) class name on the CLI/embedder boundary and returns
// the internal form every other package expects.
func toInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// Start runs spec §6's primary VM entry sequence: load and initialize
// java/lang/System, then the main class, then invoke its
// main([Ljava/lang/String;)V with an empty String[] (spec §6's literal
// contract; cfg.Args is recorded on globals.Global for a native that
// wants to read it, e.g. a future System.getProperty-style hook, but this
// minimal rt stub's main does not receive argv the way a hosted JDK
// would). Returns one of the three exit codes spec §7 defines:
// shutdown.OK, shutdown.JavaException, or shutdown.JVMException.
func (v *VM) Start() int {
	if err := v.bootstrapStrings(); err != nil {
		trace.Error(err.Error())
		return shutdown.JVMException
	}

	sysCls, err := v.loader.Load(types.SystemClassName)
	if err != nil {
		trace.Error(err.Error())
		return shutdown.JVMException
	}
	if err := v.interp.EnsureInitialized(sysCls); err != nil {
		return v.reportFailure(err)
	}

	mainName := toInternalName(v.cfg.MainClass)
	mainCls, err := v.loader.Load(mainName)
	if err != nil {
		trace.Error(err.Error())
		return shutdown.JVMException
	}
	if err := v.interp.EnsureInitialized(mainCls); err != nil {
		return v.reportFailure(err)
	}

	rm, ok := mainCls.FindMethod("main", "([Ljava/lang/String;)V")
	if !ok {
		trace.Error(fmt.Sprintf("vm: %s has no main([Ljava/lang/String;)V", mainName))
		return shutdown.JVMException
	}

	argsArrayCls, err := v.loader.Load("[Ljava/lang/String;")
	if err != nil {
		trace.Error(err.Error())
		return shutdown.JVMException
	}
	argv := object.NewObjectArray(argsArrayCls, 0)

	if _, err := v.interp.Invoke(rm, []interp.Value{{Slot: 1, Ref: argv}}); err != nil {
		return v.reportFailure(err)
	}
	return shutdown.OK
}

// reportFailure prints an uncaught Java exception (or, if err is not one,
// a VM-internal failure) to stderr and returns the matching exit code.
func (v *VM) reportFailure(err error) int {
	if thrown, ok := err.(*interp.ThrownException); ok {
		trace.Error("Exception in thread \"main\" " + v.describeThrowable(thrown.Throwable))
		return shutdown.JavaException
	}
	trace.Error(err.Error())
	return shutdown.JVMException
}

// describeThrowable renders a throwable's class name (and its toString()
// result, if invokable) the way a hosted JVM's default uncaught-exception
// handler would, without depending on a specific Throwable field layout
// the rt stub may or may not declare.
func (v *VM) describeThrowable(t *object.Object) string {
	if t == nil || t.Class == nil {
		return "<unknown throwable>"
	}
	if rm, ok := t.Class.FindMethod("toString", "()Ljava/lang/String;"); ok {
		if s, err := v.interp.InvokeInstance(rm, t, nil); err == nil && s.Ref != nil {
			return stringValue(s.Ref)
		}
	}
	return t.Class.Name
}

// stringValue decodes a java/lang/String instance's backing char[] back to
// a Go string, mirroring gfunction's own javaString helper (unexported
// there, so duplicated narrowly here).
func stringValue(s *object.Object) string {
	arr := s.ValueArray
	if arr == nil {
		_, slot, ok := s.Class.FindField("value")
		if !ok {
			return ""
		}
		arr = s.GetFieldRef(slot.Offset)
	}
	if arr == nil {
		return ""
	}
	units := make([]uint16, arr.Length)
	for i := 0; i < arr.Length; i++ {
		units[i] = uint16(arr.Elements[i].Int32())
	}
	return string(utf16.Decode(units))
}

// bootstrapStrings loads java/lang/String and its backing char array
// class, links String far enough to know its "value" field's offset, and
// installs a strpool.Pool the interpreter's ldc/string-constant handling
// and every gfunction native that calls vm.Strings.Intern depend on.
func (v *VM) bootstrapStrings() error {
	charCls, err := v.loader.Load("[C")
	if err != nil {
		return fmt.Errorf("vm: loading char array class: %w", err)
	}
	strCls, err := v.loader.Load(types.StringClassName)
	if err != nil {
		return fmt.Errorf("vm: loading %s: %w", types.StringClassName, err)
	}
	if err := v.loader.Link(strCls); err != nil {
		return fmt.Errorf("vm: linking %s: %w", types.StringClassName, err)
	}

	newCharArray := func(units []uint16) *object.Object {
		arr := object.NewArray(charCls, len(units))
		for i, u := range units {
			arr.Elements[i] = types.SlotFromInt32(int32(u))
		}
		return arr
	}
	newString := func() *object.Object { return object.NewInstance(strCls) }
	valueOffset := func() int {
		_, slot, ok := strCls.FindField("value")
		if !ok {
			return 0
		}
		return slot.Offset
	}

	v.interp.Strings = strpool.New(newCharArray, newString, valueOffset)
	return nil
}

// Loader exposes the underlying classloader.Loader for an embedder that
// wants to pre-load classes (e.g. a test harness) before calling Start.
func (v *VM) Loader() *classloader.Loader { return v.loader }

// Interp exposes the underlying interp.VM, e.g. so an embedder can invoke
// an arbitrary method after Start has brought up the rt classes.
func (v *VM) Interp() *interp.VM { return v.interp }
