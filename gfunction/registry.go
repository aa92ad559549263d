/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package gfunction is the native-method registry: a table from
// JNI-mangled name to Go implementation, populated by one load* function
// per rt class, mirroring the teacher's own MethodSignatures/GMeth
// convention. It is the concrete interp.NativeRegistry package interp
// dispatches OpInvoke* natives through.
package gfunction

import "github.com/glassvm/glassvm/interp"

// GMeth is one registered native: its argument slot count (informational,
// matching the teacher's own bookkeeping, and useful for callers that want
// to validate a descriptor against the table without invoking it) and its
// implementation.
type GMeth struct {
	ParamSlots int
	Func       interp.NativeFunc
}

// table is the mangled-name -> GMeth map, populated by the per-class load*
// functions at Registry construction time. Mangled names follow the teacher's
// own convention: Owner.Name + "." + Method.Name + Method.Descriptor, e.g.
// "java/lang/String.length()I".
type table map[string]GMeth

// Registry is the concrete interp.NativeRegistry: a closed-over table built
// once at VM bring-up.
type Registry struct {
	methods table
}

// NewRegistry builds the registry with the minimum closure of natives
// needed to bring up and run a minimal rt stub: java/lang/Object,
// java/lang/String, java/lang/System, java/lang/Throwable,
// java/lang/Class, and java/io/PrintStream.
func NewRegistry() *Registry {
	r := &Registry{methods: make(table)}
	loadLangObject(r.methods)
	loadLangString(r.methods)
	loadLangSystem(r.methods)
	loadLangThrowable(r.methods)
	loadLangClass(r.methods)
	loadIoPrintStream(r.methods)
	return r
}

// Lookup implements interp.NativeRegistry.
func (r *Registry) Lookup(mangled string) (interp.NativeFunc, bool) {
	m, ok := r.methods[mangled]
	if !ok {
		return nil, false
	}
	return m.Func, true
}

func register(t table, mangled string, paramSlots int, fn interp.NativeFunc) {
	t[mangled] = GMeth{ParamSlots: paramSlots, Func: fn}
}
