/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package strpool implements the string interner (spec §4.G): it
// canonicalizes decoded text to a single java/lang/String heap object per
// distinct value, backing it with a primitive char array the way the
// chosen rt stub's String class expects (spec §9's open question,
// resolved in SPEC_FULL.md §9: value is a []uint16 of UTF-16 code units,
// the Java 8 char[] layout).
package strpool

import (
	"sync"
	"unicode/utf16"

	"github.com/glassvm/glassvm/object"
)

// CharArrayAllocator builds the backing char[] instance holding units.
// Supplied by the VM wiring once java/lang/String and its char-array
// class are loaded and linked, so this package never needs to know how
// array classes are constructed.
type CharArrayAllocator func(units []uint16) *object.Object

// StringAllocator builds an empty java/lang/String instance whose "value"
// field Intern then populates.
type StringAllocator func() *object.Object

// ValueFieldOffset locates the byte offset of java/lang/String's "value"
// field within an instance, resolved once the String class is linked.
type ValueFieldOffset func() int

// Pool canonicalizes text to a single java/lang/String instance per value
// (spec §4.G). It is part of the VM's root set: every entry it holds stays
// reachable for the life of the VM, the same as a Class's static fields.
type Pool struct {
	mu      sync.Mutex
	entries map[string]*object.Object

	newCharArray CharArrayAllocator
	newString    StringAllocator
	valueOffset  ValueFieldOffset
}

// New constructs an interner. The three callbacks are supplied once the
// loader has java/lang/String and the char array class loaded and linked;
// Intern must not be called before then.
func New(newCharArray CharArrayAllocator, newString StringAllocator, valueOffset ValueFieldOffset) *Pool {
	return &Pool{
		entries:      make(map[string]*object.Object),
		newCharArray: newCharArray,
		newString:    newString,
		valueOffset:  valueOffset,
	}
}

// Intern returns the canonical java/lang/String instance for text (already
// decoded from Modified UTF-8 to ordinary Unicode text, e.g. by
// cpool.UTF8.Value). Two calls with equal text return the same object
// identity, satisfying intern(s) == intern(s).
func (p *Pool) Intern(text string) *object.Object {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.entries[text]; ok {
		return s
	}
	units := utf16.Encode([]rune(text))
	charArray := p.newCharArray(units)
	s := p.newString()
	s.SetFieldRef(p.valueOffset(), charArray)
	s.ValueArray = charArray
	p.entries[text] = s
	return s
}

// Len reports how many distinct strings are currently interned, mostly
// useful for tests.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
