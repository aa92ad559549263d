/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package object implements the runtime object model (spec §4.D): the
// Class tagged variant (Plain/ObjectArray/PrimitiveArray) sharing a common
// header, and HeapObject, the instance representation for both ordinary
// objects and arrays.
package object

import (
	"sync"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/types"
)

// Kind discriminates the three Class variants of spec §4.D/§9. Dispatch
// that used to be virtual methods on a BaseKlass hierarchy becomes a switch
// on Kind.
type Kind byte

const (
	KindPlain Kind = iota
	KindObjectArray
	KindPrimitiveArray
)

// Status is a Class's position in the load/link/init state machine
// (spec §4.E). It only ever advances forward or jumps to Error, and once
// Error it never leaves it.
type Status int32

const (
	StatusLoaded Status = iota
	StatusLinked
	StatusInitializing
	StatusInitialized
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "Loaded"
	case StatusLinked:
		return "Linked"
	case StatusInitializing:
		return "Initializing"
	case StatusInitialized:
		return "Initialized"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FieldSlot is one field's computed layout: its byte offset into instance
// storage (instance fields) or into the static vector, i.e. the vector
// index times types.RefSize (static fields), assigned at link time.
type FieldSlot struct {
	Name       string
	Descriptor string
	Category   int // 1 or 2 frame slots; mirrors the instance/static storage width
	Offset     int
	Static     bool
}

// ResolvedMethod pairs a decoded method with the Class that declares it,
// the unit invoke* dispatch operates on once lookup succeeds.
type ResolvedMethod struct {
	Owner  *Class
	Method *classfile.MethodInfo
}

// ResolvedField pairs a field's computed layout slot with the Class that
// declares it, the unit getfield/putfield/getstatic/putstatic operate on
// once lookup succeeds. Stored in a cpool.Fieldref's Resolved field.
type ResolvedField struct {
	Owner *Class
	Slot  *FieldSlot
}

// Class is the runtime representation of a loaded type: a Plain class, an
// array-of-objects class, or an array-of-primitives class, sharing one
// header (Name/Status/Super/static storage) per spec §9's tagged-variant
// rearchitecture of the source BaseKlass hierarchy.
type Class struct {
	Name        string
	Kind        Kind
	AccessFlags uint16

	Super      *Class   // nil only for java/lang/Object
	Interfaces []*Class

	// Plain-only.
	CF                  *classfile.Classfile
	InstanceFieldLayout []FieldSlot
	InstanceSlots       int // number of types.Slot words an instance needs, header excluded
	StaticFieldLayout   []FieldSlot
	StaticValues        []types.Slot
	// StaticRefs parallels StaticValues one-for-one for reference-typed
	// static fields, the same Fields/Refs split Object uses for instance
	// storage and for the same reason (see Object's doc comment).
	StaticRefs []*Object

	// ObjectArray/PrimitiveArray-only.
	ElementClass     *Class          // ObjectArray
	ElementPrimitive types.Primitive // PrimitiveArray

	mu        sync.Mutex
	status    Status
	linkErr   error // the memoized Error-state throwable, or a VM-internal error
	mirrorObj *Object
}

// Status returns the Class's current state-machine position.
func (c *Class) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetStatus advances the state machine. Callers are responsible for only
// moving it forward or into Error; this just stores the value.
func (c *Class) SetStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// LinkError returns the memoized throwable/error stored when this Class
// transitioned to Error, or nil.
func (c *Class) LinkError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linkErr
}

// SetLinkError transitions the Class to Error and memoizes err so every
// subsequent active use re-raises the same identity (spec §4.E, §7).
func (c *Class) SetLinkError(err error) {
	c.mu.Lock()
	c.status = StatusError
	c.linkErr = err
	c.mu.Unlock()
}

// IsArray reports whether this Class is one of the two array variants.
func (c *Class) IsArray() bool { return c.Kind != KindPlain }

// IsInterface reports the class-file ACC_INTERFACE bit; always false for
// array classes, which carry no access_flags of their own.
func (c *Class) IsInterface() bool {
	return c.Kind == KindPlain && c.AccessFlags&classfile.AccInterface != 0
}

// IsSubclassOf reports whether c is the same class as, or a transitive
// subclass/implementor of, target. Used for checkcast/instanceof and
// exception-handler catch-type matching.
func (c *Class) IsSubclassOf(target *Class) bool {
	if target == nil {
		return true // index 0 / nil catch-type means "any"
	}
	for k := c; k != nil; k = k.Super {
		if k == target {
			return true
		}
		for _, iface := range k.Interfaces {
			if iface == target || iface.IsSubclassOf(target) {
				return true
			}
		}
	}
	return false
}

// FindMethod performs the method-lookup algorithm of spec §4.E: this
// class, then each superinterface breadth-first, then the superclass
// chain. Name and descriptor must match exactly.
func (c *Class) FindMethod(name, descriptor string) (ResolvedMethod, bool) {
	for k := c; k != nil; k = k.Super {
		if k.CF == nil {
			continue
		}
		for i := range k.CF.Methods {
			m := &k.CF.Methods[i]
			if m.Name == name && m.Descriptor == descriptor {
				return ResolvedMethod{Owner: k, Method: m}, true
			}
		}
		if rm, ok := findMethodInInterfaces(k.Interfaces, name, descriptor); ok {
			return rm, true
		}
	}
	return ResolvedMethod{}, false
}

func findMethodInInterfaces(ifaces []*Class, name, descriptor string) (ResolvedMethod, bool) {
	queue := append([]*Class(nil), ifaces...)
	for len(queue) > 0 {
		iface := queue[0]
		queue = queue[1:]
		if iface.CF != nil {
			for i := range iface.CF.Methods {
				m := &iface.CF.Methods[i]
				if m.Name == name && m.Descriptor == descriptor {
					return ResolvedMethod{Owner: iface, Method: m}, true
				}
			}
		}
		queue = append(queue, iface.Interfaces...)
	}
	return ResolvedMethod{}, false
}

// FindField searches this class then its superclass chain for an instance
// or static field declared by name (descriptor is not part of field
// identity per JVMS, unlike methods).
func (c *Class) FindField(name string) (*Class, *FieldSlot, bool) {
	for k := c; k != nil; k = k.Super {
		for i := range k.InstanceFieldLayout {
			if k.InstanceFieldLayout[i].Name == name {
				return k, &k.InstanceFieldLayout[i], true
			}
		}
		for i := range k.StaticFieldLayout {
			if k.StaticFieldLayout[i].Name == name {
				return k, &k.StaticFieldLayout[i], true
			}
		}
	}
	return nil, nil, false
}

// Mirror lazily allocates this Class's java/lang/Class instance, preserving
// identity across calls (spec §4.D invariant). classClass is the already-
// loaded Class for "java/lang/Class" itself; passed in rather than looked
// up here to keep this package independent of the loader.
func (c *Class) Mirror(classClass *Class) *Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mirrorObj == nil {
		c.mirrorObj = NewInstance(classClass)
		c.mirrorObj.MirrorOf = c
	}
	return c.mirrorObj
}
