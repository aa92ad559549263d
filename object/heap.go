/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import "github.com/glassvm/glassvm/types"

// Object is a heap allocation: a 16-byte header (modeled here as the Class
// pointer plus an implicit mark word the single-threaded core never
// examines) followed either by instance field slots (Plain) or by a
// length and element slots (array kinds). One representation serves both
// so array bounds/length live next to ordinary field storage the same way
// the spec's 16-byte-header-plus-payload layout does.
type Object struct {
	Class *Class

	// Plain: one types.Slot per FieldSlot in Class.InstanceFieldLayout
	// (indexed by FieldSlot.Offset/8). Category-2 fields (long/double)
	// occupy a single Slot here; the frame-level two-slot convention is an
	// interpreter concern, not a heap-layout one.
	//
	// Reference-typed fields additionally use Refs at the same index: Go
	// gives us no safe way to fold a live pointer into an untyped uint64
	// without unsafe tricks that a tracing Go GC cannot see through, so a
	// reference slot's Fields entry only ever carries a 0/1 null-check
	// sentinel and Refs carries the actual *Object. This is the concrete
	// mechanism behind the GC contract of spec §3's "Ownership and
	// lifecycle": reachability is preserved by Refs being an ordinary Go
	// slice the runtime's own collector traces.
	Fields []types.Slot
	Refs   []*Object

	// Arrays only. ObjectArray instances use Refs (RefElements below);
	// PrimitiveArray instances use Elements. Both share Length.
	Length      int
	Elements    []types.Slot
	RefElements []*Object

	// Set only on a Class's lazily-allocated mirror (see Class.Mirror);
	// nil for every ordinary instance.
	MirrorOf *Class

	// Set only on interned java/lang/String instances: the backing
	// primitive char array (spec §9/§4.G), kept here so strpool.Pool
	// doesn't need a field-offset lookup to find it again.
	ValueArray *Object
}

// NewInstance allocates a zeroed Plain instance of cls. Every numeric
// field starts at 0 and every reference field at nil, matching JVMS
// §5.4.3's default-value preparation.
func NewInstance(cls *Class) *Object {
	return &Object{
		Class:  cls,
		Fields: make([]types.Slot, cls.InstanceSlots),
		Refs:   make([]*Object, cls.InstanceSlots),
	}
}

// NewArray allocates a PrimitiveArray instance of the given length. length
// must be non-negative (the NegativeArraySizeException check is the
// interpreter's responsibility, since raising it requires loading a
// Throwable class).
func NewArray(cls *Class, length int) *Object {
	return &Object{Class: cls, Length: length, Elements: make([]types.Slot, length)}
}

// NewObjectArray allocates an ObjectArray instance of the given length,
// every element starting nil.
func NewObjectArray(cls *Class, length int) *Object {
	return &Object{Class: cls, Length: length, RefElements: make([]*Object, length)}
}

// InBounds reports whether i is a valid index into this array.
func (o *Object) InBounds(i int) bool {
	return i >= 0 && i < o.Length
}

// GetField reads instance field slot at byte offset.
func (o *Object) GetField(offset int) types.Slot {
	return o.Fields[offset/types.RefSize]
}

// SetField writes instance field slot at byte offset.
func (o *Object) SetField(offset int, v types.Slot) {
	o.Fields[offset/types.RefSize] = v
}

// GetFieldRef reads a reference-typed instance field at byte offset.
func (o *Object) GetFieldRef(offset int) *Object {
	return o.Refs[offset/types.RefSize]
}

// SetFieldRef writes a reference-typed instance field at byte offset,
// keeping the parallel Fields null-check sentinel in sync.
func (o *Object) SetFieldRef(offset int, v *Object) {
	i := offset / types.RefSize
	o.Refs[i] = v
	if v == nil {
		o.Fields[i] = 0
	} else {
		o.Fields[i] = 1
	}
}
