/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package cpool implements the constant pool (spec §4.B): a 1-based, tagged
// table of literals and symbolic references. Entries are parsed once by the
// class-file decoder and later mutated in place by the linker to carry
// resolved cross-pointers (to another entry, or to a runtime Class/Field/
// Method descriptor owned by package classloader/object). To avoid an
// import cycle those cross-pointers are stored as `any` here and type-
// asserted by the linker and interpreter, which both already import the
// packages that own the concrete resolved types.
package cpool

import (
	"fmt"
)

// Tag identifies the kind of a constant-pool entry, per JVMS Table 4.4-A.
type Tag byte

const (
	TagUTF8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagInvokeDynamic      Tag = 18
)

// Entry is implemented by every constant-pool entry type, including the
// Invalid placeholder used for index 0 and the second slot of Long/Double.
type Entry interface {
	Tag() Tag
}

// Invalid marks an unaddressable slot (index 0, or the slot following a
// Long/Double entry).
type Invalid struct{}

func (Invalid) Tag() Tag { return 0 }

type UTF8 struct{ Value string }

func (UTF8) Tag() Tag { return TagUTF8 }

type Integer struct{ Value int32 }

func (Integer) Tag() Tag { return TagInteger }

type Float struct{ Value float32 }

func (Float) Tag() Tag { return TagFloat }

type Long struct{ Value int64 }

func (Long) Tag() Tag { return TagLong }

type Double struct{ Value float64 }

func (Double) Tag() Tag { return TagDouble }

// Class is a symbolic reference to a class or array type by name. Resolved
// holds a *object.Class once the linker resolves it.
type Class struct {
	NameIndex uint16
	Resolved  any
}

func (Class) Tag() Tag { return TagClass }

// String is a symbolic reference to a literal string. Resolved holds the
// interned *object.Object once ldc first touches it.
type String struct {
	StringIndex uint16
	Resolved    any
}

func (String) Tag() Tag { return TagString }

// Fieldref is a symbolic reference to a field. Resolved holds an
// object.ResolvedField once linked.
type Fieldref struct {
	ClassIndex      uint16
	NameAndTypeIndex uint16
	Resolved        any
}

func (Fieldref) Tag() Tag { return TagFieldref }

// Methodref is a symbolic reference to a method. Resolved holds an
// object.ResolvedMethod once linked.
type Methodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
	Resolved         any
}

func (Methodref) Tag() Tag { return TagMethodref }

// InterfaceMethodref is a symbolic reference to an interface method.
type InterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
	Resolved         any
}

func (InterfaceMethodref) Tag() Tag { return TagInterfaceMethodref }

type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (NameAndType) Tag() Tag { return TagNameAndType }

type MethodHandle struct {
	ReferenceKind  byte
	ReferenceIndex uint16
	Resolved       any
}

func (MethodHandle) Tag() Tag { return TagMethodHandle }

type MethodType struct {
	DescriptorIndex uint16
}

func (MethodType) Tag() Tag { return TagMethodType }

// InvokeDynamic is a symbolic reference to a call site created via a
// bootstrap method.
type InvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
	Resolved                 any
}

func (InvokeDynamic) Tag() Tag { return TagInvokeDynamic }

// BadConstantPoolError is raised for any out-of-range or tag-mismatched
// constant-pool access.
type BadConstantPoolError struct {
	Index   int
	Wanted  string
	Message string
}

func (e *BadConstantPoolError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bad constant pool entry at index %d: %s", e.Index, e.Message)
	}
	return fmt.Sprintf("bad constant pool entry at index %d: expected %s", e.Index, e.Wanted)
}

// Pool is the parsed constant pool: a 1-based table of N-1 addressable
// entries (index 0 is reserved), with Long/Double consuming two slots.
type Pool struct {
	Entries []Entry // Entries[0] is always Invalid
}

// Size returns the number of slots, including the reserved index 0 and any
// Long/Double filler slots (i.e. what the class file calls constant_pool_count).
func (p *Pool) Size() int { return len(p.Entries) }

// GetAny returns the raw entry at index i, failing if i is out of range or
// names an unaddressable slot (the filler following a Long/Double).
func (p *Pool) GetAny(i int) (Entry, error) {
	if i <= 0 || i >= len(p.Entries) {
		return nil, &BadConstantPoolError{Index: i, Message: "index out of range"}
	}
	if _, ok := p.Entries[i].(Invalid); ok {
		return nil, &BadConstantPoolError{Index: i, Message: "unaddressable slot"}
	}
	return p.Entries[i], nil
}

// Get returns the entry at index i as type T, failing if the index is out
// of range or the entry's concrete type does not match.
func Get[T Entry](p *Pool, i int) (T, error) {
	var zero T
	e, err := p.GetAny(i)
	if err != nil {
		return zero, err
	}
	t, ok := e.(T)
	if !ok {
		return zero, &BadConstantPoolError{Index: i, Wanted: fmt.Sprintf("%T", zero)}
	}
	return t, nil
}

// GetUTF8 is a shorthand for Get[UTF8](p, i).Value, the most common access.
func (p *Pool) GetUTF8(i int) (string, error) {
	e, err := Get[UTF8](p, i)
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

// Set overwrites the entry at index i in place; used by the linker to
// store resolved cross-pointers and by the decoder to populate slots.
func (p *Pool) Set(i int, e Entry) {
	p.Entries[i] = e
}
