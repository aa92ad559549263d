/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

// Access flag bits, JVMS §4.1/§4.5/§4.6 (the same bit can mean different
// things at class/field/method level; each accessor below picks the right
// context).
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSuper        = 0x0020
	AccSynchronized = 0x0020
	AccVolatile     = 0x0040
	AccBridge       = 0x0040
	AccTransient    = 0x0080
	AccVarargs      = 0x0080
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
	AccModule       = 0x8000
)

func (c *Classfile) IsInterface() bool { return c.AccessFlags&AccInterface != 0 }

func (m MethodInfo) IsStatic() bool   { return m.AccessFlags&AccStatic != 0 }
func (m MethodInfo) IsNative() bool   { return m.AccessFlags&AccNative != 0 }
func (m MethodInfo) IsAbstract() bool { return m.AccessFlags&AccAbstract != 0 }

func (f FieldInfo) IsStatic() bool { return f.AccessFlags&AccStatic != 0 }
