/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/types"
)

func TestNewInstanceZeroesFields(t *testing.T) {
	cls := &Class{Name: "Example", InstanceSlots: 3}
	obj := NewInstance(cls)
	require.Len(t, obj.Fields, 3)
	for _, f := range obj.Fields {
		require.Zero(t, f)
	}
}

func TestArrayBoundsCheck(t *testing.T) {
	cls := &Class{Name: "[I", Kind: KindPrimitiveArray, ElementPrimitive: types.Int}
	arr := NewArray(cls, 3)
	require.True(t, arr.InBounds(0))
	require.True(t, arr.InBounds(2))
	require.False(t, arr.InBounds(3))
	require.False(t, arr.InBounds(-1))
}

func TestIsSubclassOfWalksSuperclassChain(t *testing.T) {
	object := &Class{Name: types.ObjectClassName}
	throwable := &Class{Name: types.ThrowableClassName, Super: object}
	exception := &Class{Name: "java/lang/Exception", Super: throwable}
	custom := &Class{Name: "com/example/MyException", Super: exception}

	require.True(t, custom.IsSubclassOf(throwable))
	require.True(t, custom.IsSubclassOf(object))
	require.True(t, custom.IsSubclassOf(custom))
	require.False(t, throwable.IsSubclassOf(custom))
	require.True(t, custom.IsSubclassOf(nil)) // nil catch-type matches any
}

func TestIsSubclassOfWalksInterfaces(t *testing.T) {
	runnable := &Class{Name: "java/lang/Runnable"}
	object := &Class{Name: types.ObjectClassName}
	impl := &Class{Name: "com/example/Task", Super: object, Interfaces: []*Class{runnable}}

	require.True(t, impl.IsSubclassOf(runnable))
}

func TestFindMethodSearchesSuperclassChain(t *testing.T) {
	baseCF := &classfile.Classfile{
		Methods: []classfile.MethodInfo{{Name: "toString", Descriptor: "()Ljava/lang/String;"}},
	}
	base := &Class{Name: "Base", CF: baseCF}
	derived := &Class{Name: "Derived", Super: base, CF: &classfile.Classfile{}}

	rm, ok := derived.FindMethod("toString", "()Ljava/lang/String;")
	require.True(t, ok)
	require.Equal(t, base, rm.Owner)
}

func TestLinkErrorIsMemoized(t *testing.T) {
	cls := &Class{Name: "Broken"}
	require.Equal(t, StatusLoaded, cls.Status())

	err := errSentinel{"boom"}
	cls.SetLinkError(err)

	require.Equal(t, StatusError, cls.Status())
	require.Equal(t, err, cls.LinkError())
	// A second read returns the identical error value.
	require.Equal(t, cls.LinkError(), cls.LinkError())
}

func TestMirrorIdentityIsStable(t *testing.T) {
	classClass := &Class{Name: types.ClassClassName, InstanceSlots: 0}
	target := &Class{Name: "com/example/Widget"}

	m1 := target.Mirror(classClass)
	m2 := target.Mirror(classClass)
	require.Same(t, m1, m2)
	require.Equal(t, target, m1.MirrorOf)
}

type errSentinel struct{ msg string }

func (e errSentinel) Error() string { return e.msg }
