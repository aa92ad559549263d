/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package excnames centralizes the internal names of the Java throwable
// classes the core raises directly, so callers never hand-type a string
// that the interpreter also hand-types elsewhere.
package excnames

const (
	ArithmeticException               = "java/lang/ArithmeticException"
	ArrayIndexOutOfBoundsException     = "java/lang/ArrayIndexOutOfBoundsException"
	ClassCastException                 = "java/lang/ClassCastException"
	ClassNotFoundException             = "java/lang/ClassNotFoundException"
	ExceptionInInitializerError        = "java/lang/ExceptionInInitializerError"
	IllegalArgumentException           = "java/lang/IllegalArgumentException"
	IncompatibleClassChangeError       = "java/lang/IncompatibleClassChangeError"
	NegativeArraySizeException         = "java/lang/NegativeArraySizeException"
	NoClassDefFoundError               = "java/lang/NoClassDefFoundError"
	NoSuchFieldError                   = "java/lang/NoSuchFieldError"
	NoSuchMethodError                  = "java/lang/NoSuchMethodError"
	NullPointerException               = "java/lang/NullPointerException"
	OutOfMemoryError                   = "java/lang/OutOfMemoryError"
	UnsatisfiedLinkError               = "java/lang/UnsatisfiedLinkError"
	VerifyError                        = "java/lang/VerifyError"
	StackOverflowError                 = "java/lang/StackOverflowError"
)
