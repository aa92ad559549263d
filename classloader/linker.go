/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"math"

	"github.com/glassvm/glassvm/classfile"
	"github.com/glassvm/glassvm/cpool"
	"github.com/glassvm/glassvm/object"
	"github.com/glassvm/glassvm/types"
)

// Link transitions cls from Loaded to Linked (spec §4.E "Link"): every
// constant-pool entry is resolved, and instance/static field layout is
// computed and statics prepared to their default (or ConstantValue)
// values. A resolution failure (a LinkageError, NoSuchFieldError or
// NoSuchMethodError) is memoized on the Class as returned and re-raised by
// identity on every subsequent call.
func (l *Loader) Link(cls *object.Class) error {
	if cls.Status() != object.StatusLoaded {
		if err := cls.LinkError(); err != nil {
			return err
		}
		return nil
	}

	l.mu.Lock()
	if l.linking[cls] {
		l.mu.Unlock()
		return nil // already being linked further up the call stack
	}
	l.linking[cls] = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		delete(l.linking, cls)
		l.mu.Unlock()
	}()

	if err := l.linkOne(cls); err != nil {
		cls.SetLinkError(err)
		return err
	}
	cls.SetStatus(object.StatusLinked)
	return nil
}

func (l *Loader) linkOne(cls *object.Class) error {
	if cls.Super != nil {
		if err := l.Link(cls.Super); err != nil {
			return err
		}
	}
	for _, iface := range cls.Interfaces {
		if err := l.Link(iface); err != nil {
			return err
		}
	}

	if err := l.resolveConstantPool(cls); err != nil {
		return err
	}
	l.prepareFields(cls)
	return nil
}

// resolveConstantPool resolves every Class/Fieldref/Methodref/
// InterfaceMethodref entry, storing the resolved cross-pointer back into
// the pool (cpool.Pool.Set), the copy-modify-write pattern cpool's doc
// comment describes.
func (l *Loader) resolveConstantPool(cls *object.Class) error {
	pool := cls.CF.CP
	for i := 1; i < pool.Size(); i++ {
		entry, err := pool.GetAny(i)
		if err != nil {
			continue // filler slot following a Long/Double
		}
		switch e := entry.(type) {
		case cpool.Class:
			name, err := pool.GetUTF8(int(e.NameIndex))
			if err != nil {
				return &LinkageError{ClassName: cls.Name, Reason: err.Error()}
			}
			var target *object.Class
			if name == cls.Name {
				target = cls
			} else {
				target, err = l.Load(name)
				if err != nil {
					return &LinkageError{ClassName: cls.Name, Reason: err.Error()}
				}
			}
			e.Resolved = target
			pool.Set(i, e)
		case cpool.Fieldref:
			rf, err := l.resolveField(cls, e.ClassIndex, e.NameAndTypeIndex)
			if err != nil {
				return err
			}
			e.Resolved = rf
			pool.Set(i, e)
		case cpool.Methodref:
			rm, err := l.resolveMethod(cls, e.ClassIndex, e.NameAndTypeIndex)
			if err != nil {
				return err
			}
			e.Resolved = rm
			pool.Set(i, e)
		case cpool.InterfaceMethodref:
			rm, err := l.resolveMethod(cls, e.ClassIndex, e.NameAndTypeIndex)
			if err != nil {
				return err
			}
			e.Resolved = rm
			pool.Set(i, e)
		}
	}
	return nil
}

func (l *Loader) resolveField(cls *object.Class, classIdx, natIdx uint16) (object.ResolvedField, error) {
	pool := cls.CF.CP
	targetName, err := classNameAt(pool, int(classIdx))
	if err != nil {
		return object.ResolvedField{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	target, err := l.Load(targetName)
	if err != nil {
		return object.ResolvedField{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	if err := l.Link(target); err != nil {
		return object.ResolvedField{}, err
	}
	nat, err := cpool.Get[cpool.NameAndType](pool, int(natIdx))
	if err != nil {
		return object.ResolvedField{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	fieldName, err := pool.GetUTF8(int(nat.NameIndex))
	if err != nil {
		return object.ResolvedField{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	owner, slot, ok := target.FindField(fieldName)
	if !ok {
		return object.ResolvedField{}, &NoSuchFieldError{ClassName: targetName, FieldName: fieldName}
	}
	return object.ResolvedField{Owner: owner, Slot: slot}, nil
}

func (l *Loader) resolveMethod(cls *object.Class, classIdx, natIdx uint16) (object.ResolvedMethod, error) {
	pool := cls.CF.CP
	targetName, err := classNameAt(pool, int(classIdx))
	if err != nil {
		return object.ResolvedMethod{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	target, err := l.Load(targetName)
	if err != nil {
		return object.ResolvedMethod{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	nat, err := cpool.Get[cpool.NameAndType](pool, int(natIdx))
	if err != nil {
		return object.ResolvedMethod{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	methodName, err := pool.GetUTF8(int(nat.NameIndex))
	if err != nil {
		return object.ResolvedMethod{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	descriptor, err := pool.GetUTF8(int(nat.DescriptorIndex))
	if err != nil {
		return object.ResolvedMethod{}, &LinkageError{ClassName: cls.Name, Reason: err.Error()}
	}
	rm, ok := target.FindMethod(methodName, descriptor)
	if !ok {
		return object.ResolvedMethod{}, &NoSuchMethodError{ClassName: targetName, MethodName: methodName, Descriptor: descriptor}
	}
	return rm, nil
}

func classNameAt(pool *cpool.Pool, idx int) (string, error) {
	ce, err := cpool.Get[cpool.Class](pool, idx)
	if err != nil {
		return "", err
	}
	return pool.GetUTF8(int(ce.NameIndex))
}

// prepareFields computes instance and static field offsets (superclass
// fields first, spec §4.D) and seeds static storage with defaults or
// ConstantValue literals.
func (l *Loader) prepareFields(cls *object.Class) {
	offset := 0
	if cls.Super != nil {
		offset = cls.Super.InstanceSlots * types.RefSize
	}
	for _, f := range cls.CF.Fields {
		ft, err := classfile.ParseFieldDescriptor(f.Descriptor)
		category := 1
		if err == nil {
			category = ft.Category()
		}
		slot := object.FieldSlot{Name: f.Name, Descriptor: f.Descriptor, Category: category}
		if f.IsStatic() {
			slot.Static = true
			slot.Offset = len(cls.StaticValues) * types.RefSize
			cls.StaticValues = append(cls.StaticValues, staticDefault(f))
			cls.StaticRefs = append(cls.StaticRefs, nil)
			cls.StaticFieldLayout = append(cls.StaticFieldLayout, slot)
		} else {
			slot.Offset = offset
			offset += types.RefSize // every slot is one types.Slot word regardless of category
			cls.InstanceFieldLayout = append(cls.InstanceFieldLayout, slot)
		}
	}
	cls.InstanceSlots = offset / types.RefSize
}

// staticDefault computes a static field's prepared value: the
// ConstantValue literal if the class file carries one, else zero. A
// string ConstantValue needs an interned java/lang/String instance, which
// only package strpool can produce; it is left at zero (a null reference),
// and no later step installs the string.
func staticDefault(f classfile.FieldInfo) types.Slot {
	switch v := f.ConstValue.(type) {
	case int32:
		return types.Slot(uint32(v))
	case int64:
		return types.Slot(uint64(v))
	case float32:
		return types.Slot(uint64(math.Float32bits(v)))
	case float64:
		return types.Slot(math.Float64bits(v))
	default:
		return 0
	}
}
