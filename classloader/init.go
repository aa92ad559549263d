/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"

	"github.com/glassvm/glassvm/object"
)

// ExceptionInInitializerError wraps an exception that escaped a class's
// <clinit>, per spec §7's rewrapping rule. Cause is whatever invoke
// returned (expected to be a *object.Object throwable, opaque to this
// package).
type ExceptionInInitializerError struct {
	ClassName string
	Cause     error
}

func (e *ExceptionInInitializerError) Error() string {
	return fmt.Sprintf("exception in initializer of %s: %v", e.ClassName, e.Cause)
}

func (e *ExceptionInInitializerError) Unwrap() error { return e.Cause }

// Initialize drives cls through Initializing to Initialized (spec §4.E
// "Initialize"): superclass and declaring superinterfaces first, then this
// class's own <clinit>, if any. invoke is supplied by the interpreter; the
// loader never runs bytecode itself.
//
// The state-machine guards are checked without holding a lock across the
// (possibly long) superclass/invoke calls below — this core is
// single-threaded, so Initializing can only be observed re-entrantly on
// the same goroutine (a static initializer provoking its own class's use),
// which the Initializing check below short-circuits harmlessly.
func (l *Loader) Initialize(cls *object.Class, invoke MethodInvoker) error {
	switch cls.Status() {
	case object.StatusInitialized:
		return nil
	case object.StatusInitializing:
		return nil // re-entrant: <clinit> (transitively) triggered use of its own class
	case object.StatusError:
		return cls.LinkError()
	}

	if cls.Status() == object.StatusLoaded {
		if err := l.Link(cls); err != nil {
			return err
		}
	}

	cls.SetStatus(object.StatusInitializing)

	if cls.Super != nil {
		if err := l.Initialize(cls.Super, invoke); err != nil {
			cls.SetLinkError(err)
			return err
		}
	}
	for _, iface := range cls.Interfaces {
		if !hasDefaultMethods(iface) {
			continue
		}
		if err := l.Initialize(iface, invoke); err != nil {
			cls.SetLinkError(err)
			return err
		}
	}

	if cls.CF != nil {
		for i := range cls.CF.Methods {
			m := &cls.CF.Methods[i]
			if m.Name == "<clinit>" && m.Descriptor == "()V" {
				rm := object.ResolvedMethod{Owner: cls, Method: m}
				if _, err := invoke(rm, nil); err != nil {
					wrapped := &ExceptionInInitializerError{ClassName: cls.Name, Cause: err}
					cls.SetLinkError(wrapped)
					return wrapped
				}
				break
			}
		}
	}

	cls.SetStatus(object.StatusInitialized)
	return nil
}

// hasDefaultMethods reports whether iface declares any non-abstract,
// non-static (default) method, the JVMS §5.5 condition under which an interface must itself be
// initialized ahead of an implementing class.
func hasDefaultMethods(iface *object.Class) bool {
	if iface.CF == nil {
		return false
	}
	for i := range iface.CF.Methods {
		if !iface.CF.Methods[i].IsAbstract() && !iface.CF.Methods[i].IsStatic() {
			return true
		}
	}
	return false
}
