/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "fmt"

// ClassNotFoundError is a VM-internal failure (spec §7): the external class
// provider has no bytes for the requested internal name.
type ClassNotFoundError struct {
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class not found: %s", e.Name)
}

// LinkageError wraps a resolution failure encountered during Link. It is
// memoized on the owning Class (spec §4.E/§7): once stored, every later
// active use of the class re-raises this exact error value.
type LinkageError struct {
	ClassName string
	Reason    string
}

func (e *LinkageError) Error() string {
	return fmt.Sprintf("linkage error in %s: %s", e.ClassName, e.Reason)
}

// NoSuchFieldError mirrors java.lang.NoSuchFieldError for a resolution miss.
type NoSuchFieldError struct {
	ClassName, FieldName string
}

func (e *NoSuchFieldError) Error() string {
	return fmt.Sprintf("no such field: %s.%s", e.ClassName, e.FieldName)
}

// NoSuchMethodError mirrors java.lang.NoSuchMethodError for a resolution miss.
type NoSuchMethodError struct {
	ClassName, MethodName, Descriptor string
}

func (e *NoSuchMethodError) Error() string {
	return fmt.Sprintf("no such method: %s.%s%s", e.ClassName, e.MethodName, e.Descriptor)
}
