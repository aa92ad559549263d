/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package globals holds the handful of process-wide, per-VM settings that
// every layer of the core needs to reach without threading a context
// parameter through every call: the classpath, the main class name, and the
// verbosity flags that gate trace.Trace calls.
package globals

import "sync"

// Global carries the configuration of a single VM instance.
type Global struct {
	Classpath string // colon-delimited: directories, .jar files, or dir/* globs
	MainClass string // internal name (dots or slashes accepted on input)
	Args      []string

	TraceClass  bool // trace class loading/linking/initialization
	TraceCloadi bool // trace classloader-internal bootstrap steps
	TraceInst   bool // trace instruction dispatch
}

var (
	mu  sync.Mutex
	ref *Global
)

// InitGlobals installs a fresh Global and returns it. The mainClass
// parameter seeds MainClass for convenience; callers may overwrite any
// field afterward via GetGlobalRef.
func InitGlobals(mainClass string) *Global {
	mu.Lock()
	defer mu.Unlock()
	ref = &Global{MainClass: mainClass}
	return ref
}

// GetGlobalRef returns the current Global, creating an empty one if none
// has been initialized yet.
func GetGlobalRef() *Global {
	mu.Lock()
	defer mu.Unlock()
	if ref == nil {
		ref = &Global{}
	}
	return ref
}
