/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/types"
)

func clinitCF(owner string) *classfile.Classfile {
	return &classfile.Classfile{
		ThisClass: owner,
		CP:        emptyPool(),
		Methods:   []classfile.MethodInfo{{Name: "<clinit>", Descriptor: "()V"}},
	}
}

func TestInitializeRunsSuperclassBeforeSelf(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj

	super := &object.Class{Name: "com/example/Base", Super: obj, CF: clinitCF("com/example/Base")}
	l.classes[super.Name] = super
	derived := &object.Class{Name: "com/example/Derived", Super: super, CF: clinitCF("com/example/Derived")}
	l.classes[derived.Name] = derived

	var order []string
	invoke := func(m object.ResolvedMethod, args []types.Slot) (types.Slot, error) {
		order = append(order, m.Owner.Name)
		return 0, nil
	}

	require.NoError(t, l.Initialize(derived, invoke))
	require.Equal(t, []string{"com/example/Base", "com/example/Derived"}, order)
	require.Equal(t, object.StatusInitialized, super.Status())
	require.Equal(t, object.StatusInitialized, derived.Status())
}

func TestInitializeIsIdempotent(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj
	cls := &object.Class{Name: "com/example/Once", Super: obj, CF: clinitCF("com/example/Once")}
	l.classes[cls.Name] = cls

	calls := 0
	invoke := func(m object.ResolvedMethod, args []types.Slot) (types.Slot, error) {
		calls++
		return 0, nil
	}

	require.NoError(t, l.Initialize(cls, invoke))
	require.NoError(t, l.Initialize(cls, invoke))
	require.Equal(t, 1, calls)
}

func TestInitializeWrapsClinitException(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj
	cls := &object.Class{Name: "com/example/Boom", Super: obj, CF: clinitCF("com/example/Boom")}
	l.classes[cls.Name] = cls

	boom := errors.New("boom")
	invoke := func(m object.ResolvedMethod, args []types.Slot) (types.Slot, error) {
		return 0, boom
	}

	err := l.Initialize(cls, invoke)
	require.Error(t, err)
	var wrapped *ExceptionInInitializerError
	require.ErrorAs(t, err, &wrapped)
	require.Equal(t, "com/example/Boom", wrapped.ClassName)
	require.ErrorIs(t, err, boom)
	require.Equal(t, object.StatusError, cls.Status())
}

func TestInitializeSkipsInterfaceWithNoDefaultMethods(t *testing.T) {
	l := newTestLoader()
	obj := objectClass()
	l.classes[obj.Name] = obj

	iface := &object.Class{
		Name: "com/example/Marker",
		CF: &classfile.Classfile{
			ThisClass: "com/example/Marker",
			CP:        emptyPool(),
			Methods: []classfile.MethodInfo{
				{Name: "<clinit>", Descriptor: "()V", AccessFlags: classfile.AccStatic},
			},
		},
	}
	l.classes[iface.Name] = iface

	cls := &object.Class{Name: "com/example/Impl", Super: obj, Interfaces: []*object.Class{iface}, CF: emptyClinitlessCF("com/example/Impl")}
	l.classes[cls.Name] = cls

	calls := 0
	invoke := func(m object.ResolvedMethod, args []types.Slot) (types.Slot, error) {
		calls++
		return 0, nil
	}

	require.NoError(t, l.Initialize(cls, invoke))
	require.Equal(t, 0, calls)
	require.Equal(t, object.StatusLinked, iface.Status())
}

func emptyClinitlessCF(owner string) *classfile.Classfile {
	return &classfile.Classfile{ThisClass: owner, CP: emptyPool()}
}
