/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package classloader implements the load/link/initialize state machine of
// spec §4.E over the runtime Class model of package object. It consumes
// two collaborator interfaces rather than depending on their concrete
// implementations: ClassProvider (bytes by internal name, spec §6) and
// MethodInvoker (running <clinit>, supplied by the interpreter) — the same
// "accept interfaces" shape the teacher's classloader uses for its own
// collaborators, generalized to avoid an import cycle with package interp.
package classloader

import (
	"sync"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/globals"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/trace"
	"github.com/glassvm/glassvm/types"
)

// ClassProvider is the external class-file source the loader calls during
// Load (spec §6). Implementations must return identical bytes for
// identical names across the VM's lifetime.
type ClassProvider interface {
	ReadClass(internalName string) ([]byte, error)
}

// MethodInvoker runs a resolved method to completion and returns its
// result slot (void-returning methods return the zero Slot). Supplied by
// the interpreter; the loader calls it only to run <clinit>.
type MethodInvoker func(m object.ResolvedMethod, args []types.Slot) (types.Slot, error)

// Loader owns the process-wide name→Class map (spec §5's shared-resource
// policy) and drives classes through Loaded→Linked→Initializing→Initialized.
type Loader struct {
	mu       sync.Mutex
	classes  map[string]*object.Class
	provider ClassProvider
	linking  map[*object.Class]bool // reentrancy guard, see Link
}

// New constructs a Loader backed by provider.
func New(provider ClassProvider) *Loader {
	return &Loader{
		classes:  make(map[string]*object.Class),
		provider: provider,
		linking:  make(map[*object.Class]bool),
	}
}

// Lookup returns the Class already loaded under name, if any, without
// triggering a load.
func (l *Loader) Lookup(name string) (*object.Class, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.classes[name]
	return c, ok
}

// Load returns the Class for an internal name, loading it if necessary
// (spec §4.E "Load"). Cyclic references are broken by storing the Class in
// the map before its superclass/interfaces are loaded.
func (l *Loader) Load(name string) (*object.Class, error) {
	l.mu.Lock()
	if c, ok := l.classes[name]; ok {
		l.mu.Unlock()
		return c, nil
	}
	l.mu.Unlock()

	if types.IsArrayName(name) {
		return l.loadArrayClass(name)
	}

	raw, err := l.provider.ReadClass(name)
	if err != nil {
		return nil, &ClassNotFoundError{Name: name}
	}
	cf, err := classfile.Decode(raw)
	if err != nil {
		return nil, err
	}

	cls := &object.Class{
		Name:        cf.ThisClass,
		Kind:        object.KindPlain,
		AccessFlags: cf.AccessFlags,
		CF:          cf,
	}

	l.mu.Lock()
	l.classes[cls.Name] = cls // stored before recursing, breaking symbol-graph cycles
	l.mu.Unlock()

	if globals.GetGlobalRef().TraceClass {
		trace.Trace("class loaded: " + cls.Name)
	}

	if cf.SuperClass != "" {
		super, err := l.Load(cf.SuperClass)
		if err != nil {
			return nil, err
		}
		cls.Super = super
	}
	for _, ifaceName := range cf.Interfaces {
		iface, err := l.Load(ifaceName)
		if err != nil {
			return nil, err
		}
		cls.Interfaces = append(cls.Interfaces, iface)
	}

	return cls, nil
}

// loadArrayClass constructs (or returns the already-built) Class for an
// array internal name, recursing on the element type per spec §4.E's
// array-class construction rule. All array classes have java/lang/Object
// as their superclass.
func (l *Loader) loadArrayClass(name string) (*object.Class, error) {
	l.mu.Lock()
	if c, ok := l.classes[name]; ok {
		l.mu.Unlock()
		return c, nil
	}
	l.mu.Unlock()

	objectClass, err := l.Load(types.ObjectClassName)
	if err != nil {
		return nil, err
	}

	elemDesc := types.ArrayElementName(name)
	ft, err := classfile.ParseFieldDescriptor(elemDesc)
	if err != nil {
		return nil, err
	}

	var cls *object.Class
	if ft.Kind == classfile.DescPrimitive {
		cls = &object.Class{
			Name:             name,
			Kind:             object.KindPrimitiveArray,
			Super:            objectClass,
			ElementPrimitive: ft.Primitive,
		}
	} else {
		elemName := elemDesc
		if ft.Kind == classfile.DescReference {
			elemName = ft.ClassName
		}
		elemClass, err := l.Load(elemName)
		if err != nil {
			return nil, err
		}
		cls = &object.Class{
			Name:         name,
			Kind:         object.KindObjectArray,
			Super:        objectClass,
			ElementClass: elemClass,
		}
	}
	cls.SetStatus(object.StatusInitialized) // array classes need no constant-pool linking or <clinit>

	l.mu.Lock()
	l.classes[name] = cls
	l.mu.Unlock()
	return cls, nil
}
