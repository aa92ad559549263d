/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/cpool"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/types"
)

type erroringProvider struct{}

func (erroringProvider) ReadClass(name string) ([]byte, error) {
	return nil, &ClassNotFoundError{Name: name}
}

func newTestLoader() *Loader {
	return New(erroringProvider{})
}

func objectClass() *object.Class {
	c := &object.Class{Name: types.ObjectClassName}
	c.SetStatus(object.StatusInitialized)
	return c
}

func TestLinkResolvesClassEntry(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj

	pool := &cpool.Pool{Entries: []cpool.Entry{
		cpool.Invalid{},
		cpool.UTF8{Value: types.ObjectClassName},
		cpool.Class{NameIndex: 1},
	}}
	cls := &object.Class{
		Name: "com/example/Widget",
		Kind: object.KindPlain,
		Super: obj,
		CF:   &classfile.Classfile{ThisClass: "com/example/Widget", CP: pool},
	}
	l.classes[cls.Name] = cls

	err := l.Link(cls)
	require.NoError(t, err, spew.Sdump(err))
	require.Equal(t, object.StatusLinked, cls.Status())

	entry, err := pool.GetAny(2)
	require.NoError(t, err)
	ce := entry.(cpool.Class)
	require.Same(t, obj, ce.Resolved)
}

func TestLinkResolvesFieldrefAndMethodref(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj

	targetCF := &classfile.Classfile{
		ThisClass: "com/example/Target",
		Methods:   []classfile.MethodInfo{{Name: "greet", Descriptor: "()V"}},
	}
	target := &object.Class{
		Name:  "com/example/Target",
		Super: obj,
		CF:    targetCF,
		InstanceFieldLayout: []object.FieldSlot{
			{Name: "count", Descriptor: "I", Offset: 0},
		},
	}
	target.SetStatus(object.StatusInitialized)
	l.classes[target.Name] = target

	pool := &cpool.Pool{Entries: []cpool.Entry{
		cpool.Invalid{},
		cpool.UTF8{Value: "com/example/Target"},
		cpool.Class{NameIndex: 1},
		cpool.UTF8{Value: "count"},
		cpool.UTF8{Value: "I"},
		cpool.NameAndType{NameIndex: 3, DescriptorIndex: 4},
		cpool.Fieldref{ClassIndex: 2, NameAndTypeIndex: 5},
		cpool.UTF8{Value: "greet"},
		cpool.UTF8{Value: "()V"},
		cpool.NameAndType{NameIndex: 7, DescriptorIndex: 8},
		cpool.Methodref{ClassIndex: 2, NameAndTypeIndex: 9},
	}}
	cls := &object.Class{
		Name:  "com/example/User",
		Super: obj,
		CF:    &classfile.Classfile{ThisClass: "com/example/User", CP: pool},
	}
	l.classes[cls.Name] = cls

	require.NoError(t, l.Link(cls))

	fr, err := pool.GetAny(6)
	require.NoError(t, err)
	rf := fr.(cpool.Fieldref).Resolved.(object.ResolvedField)
	require.Same(t, target, rf.Owner)
	require.Equal(t, "count", rf.Slot.Name)

	mr, err := pool.GetAny(10)
	require.NoError(t, err)
	rm := mr.(cpool.Methodref).Resolved.(object.ResolvedMethod)
	require.Same(t, target, rm.Owner)
	require.Equal(t, "greet", rm.Method.Name)
}

func TestLinkMemoizesErrorByIdentity(t *testing.T) {
	l := newTestLoader()
	pool := &cpool.Pool{Entries: []cpool.Entry{
		cpool.Invalid{},
		cpool.UTF8{Value: "does/not/Exist"},
		cpool.Class{NameIndex: 1},
	}}
	cls := &object.Class{
		Name: "com/example/Broken",
		CF:   &classfile.Classfile{ThisClass: "com/example/Broken", CP: pool},
	}
	l.classes[cls.Name] = cls

	err1 := l.Link(cls)
	require.Error(t, err1)
	require.Equal(t, object.StatusError, cls.Status())

	err2 := l.Link(cls)
	require.Same(t, err1, err2)
}

func TestLinkSelfReferentialFieldrefDoesNotDeadlock(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj

	pool := &cpool.Pool{Entries: []cpool.Entry{
		cpool.Invalid{},
		cpool.UTF8{Value: "com/example/Node"},
		cpool.Class{NameIndex: 1},
		cpool.UTF8{Value: "next"},
		cpool.UTF8{Value: "Lcom/example/Node;"},
		cpool.NameAndType{NameIndex: 3, DescriptorIndex: 4},
		cpool.Fieldref{ClassIndex: 2, NameAndTypeIndex: 5},
	}}
	cls := &object.Class{
		Name:  "com/example/Node",
		Super: obj,
		CF:    &classfile.Classfile{ThisClass: "com/example/Node", CP: pool},
		InstanceFieldLayout: []object.FieldSlot{
			{Name: "next", Descriptor: "Lcom/example/Node;"},
		},
	}
	l.classes[cls.Name] = cls

	done := make(chan error, 1)
	go func() { done <- l.Link(cls) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Link deadlocked on a self-referential fieldref")
	}
}

func TestPrepareFieldsOffsetsSuperclassFirst(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj

	super := &object.Class{
		Name:  "com/example/Base",
		Super: obj,
		CF:    &classfile.Classfile{ThisClass: "com/example/Base", CP: emptyPool()},
	}
	super.InstanceFieldLayout = []object.FieldSlot{{Name: "id", Descriptor: "I", Offset: 0}}
	super.InstanceSlots = 1
	super.SetStatus(object.StatusInitialized)
	l.classes[super.Name] = super

	cf := &classfile.Classfile{
		ThisClass: "com/example/Derived",
		CP:        emptyPool(),
		Fields: []classfile.FieldInfo{
			{Name: "a", Descriptor: "I"},
			{Name: "b", Descriptor: "J"},
		},
	}
	cls := &object.Class{Name: "com/example/Derived", Super: super, CF: cf}
	l.classes[cls.Name] = cls

	require.NoError(t, l.Link(cls))
	require.Len(t, cls.InstanceFieldLayout, 2)
	require.Equal(t, 8, cls.InstanceFieldLayout[0].Offset)
	require.Equal(t, 16, cls.InstanceFieldLayout[1].Offset)
	require.Equal(t, 3, cls.InstanceSlots)
}

func TestPrepareFieldsStaticConstantValue(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj

	cf := &classfile.Classfile{
		ThisClass: "com/example/Constants",
		CP:        emptyPool(),
		Fields: []classfile.FieldInfo{
			{Name: "MAX", Descriptor: "I", AccessFlags: classfile.AccStatic, ConstValue: int32(42)},
		},
	}
	cls := &object.Class{Name: "com/example/Constants", Super: obj, CF: cf}
	l.classes[cls.Name] = cls

	require.NoError(t, l.Link(cls))
	require.Len(t, cls.StaticValues, 1)
	require.EqualValues(t, 42, cls.StaticValues[0])
}

func emptyPool() *cpool.Pool {
	return &cpool.Pool{Entries: []cpool.Entry{cpool.Invalid{}}}
}
