/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package trace is the VM's logging facade. It wraps the standard library's
// log package with the severities the rest of the core calls directly
// (Trace for verbose diagnostics gated on the global trace flags, Error for
// conditions that are always worth printing, Warning for non-fatal ones)
// so that every other package
// logs the same way and through a single, swappable sink.
package trace

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu     sync.Mutex
	logger *log.Logger
)

// Init (re)creates the package-level logger writing to stderr. It is safe
// to call more than once, which tests rely on when they redirect os.Stderr.
func Init() {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(os.Stderr, "", 0)
}

func ensure() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	return logger
}

// SetOutput redirects where Trace/Error/Warning write. Primarily useful in
// tests and in embedding hosts that want the VM's diagnostics routed
// elsewhere.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

// Trace prints a verbose diagnostic message. Callers are expected to guard
// calls with the relevant globals.Trace* flag so that tracing has no cost
// when disabled.
func Trace(msg string) {
	ensure().Print("[trace] " + msg)
}

// Error prints an always-visible diagnostic. It does not itself terminate
// the VM; callers decide whether the condition is fatal.
func Error(msg string) {
	ensure().Print("[error] " + msg)
}

// Warning prints a non-fatal, always-visible diagnostic.
func Warning(msg string) {
	ensure().Print("[warning] " + msg)
}
