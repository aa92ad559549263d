/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package provider implements the concrete classpath scanner (spec §6's
// class-provider interface, SPEC_FULL.md component H): an ordered list of
// directories and .jar archives searched in turn for a class's bytes. A
// directory hit is read via a memory-mapped view rather than a copying
// read, so the decoder in package classfile sees the same zero-copy span a
// large file naturally wants.
package provider

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// entry is one classpath element: either a directory root or an open jar.
type entry struct {
	dir string // "" if this entry is a jar
	jar *zip.ReadCloser
}

// Classpath is an ordered search path of directories and jars implementing
// classloader.ClassProvider. Entries are searched in the order they were
// added, matching the JVM's own classpath precedence rule.
type Classpath struct {
	mu      sync.Mutex
	entries []entry
}

// New builds a Classpath by splitting path on the host's list separator
// (":" on Unix, ";" on Windows) and opening each element. An element
// ending in "/*" expands to that directory's subdirectories and .jar/.zip
// archives, in the order filepath.Glob returns them. A jar that fails
// to open is reported immediately rather than silently skipped, since a
// typo'd classpath entry is a configuration error worth surfacing.
func New(path string) (*Classpath, error) {
	cp := &Classpath{}
	if path == "" {
		return cp, nil
	}
	for _, part := range strings.Split(path, string(os.PathListSeparator)) {
		if part == "" {
			continue
		}
		if strings.HasSuffix(part, "/*") {
			matches, _ := filepath.Glob(filepath.Join(strings.TrimSuffix(part, "/*"), "*"))
			for _, m := range matches {
				lower := strings.ToLower(m)
				if fi, err := os.Stat(m); err == nil && (fi.IsDir() || strings.HasSuffix(lower, ".jar") || strings.HasSuffix(lower, ".zip")) {
					if err := cp.Add(m); err != nil {
						cp.Close()
						return nil, err
					}
				}
			}
			continue
		}
		if err := cp.Add(part); err != nil {
			cp.Close()
			return nil, err
		}
	}
	return cp, nil
}

// Add appends one classpath element: a directory is added as-is, a path
// ending in .jar/.zip is opened as an archive.
func (cp *Classpath) Add(path string) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if strings.HasSuffix(strings.ToLower(path), ".jar") || strings.HasSuffix(strings.ToLower(path), ".zip") {
		zr, err := zip.OpenReader(path)
		if err != nil {
			return fmt.Errorf("provider: opening archive %q: %w", path, err)
		}
		cp.entries = append(cp.entries, entry{jar: zr})
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("provider: classpath entry %q: %w", path, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("provider: classpath entry %q is neither a directory nor a .jar", path)
	}
	cp.entries = append(cp.entries, entry{dir: path})
	return nil
}

// Close releases every open archive. Directory entries need no cleanup.
func (cp *Classpath) Close() error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	var first error
	for _, e := range cp.entries {
		if e.jar != nil {
			if err := e.jar.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// ReadClass implements classloader.ClassProvider: it resolves internalName
// (e.g. "java/lang/String") to "java/lang/String.class" and returns the
// first match across the classpath entries, in order.
func (cp *Classpath) ReadClass(internalName string) ([]byte, error) {
	cp.mu.Lock()
	entries := cp.entries
	cp.mu.Unlock()

	rel := internalName + ".class"
	for _, e := range entries {
		if e.jar != nil {
			if b, ok := readFromJar(e.jar, rel); ok {
				return b, nil
			}
			continue
		}
		if b, ok := readFromDir(e.dir, rel); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("provider: class %q not found on classpath", internalName)
}

func readFromJar(zr *zip.ReadCloser, rel string) ([]byte, bool) {
	for _, f := range zr.File {
		if f.Name != rel {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}
		return b, true
	}
	return nil, false
}

// readFromDir memory-maps the class file rather than reading it into a
// fresh allocation, so a large single-class-file read off disk costs one
// page-table entry instead of a copy (grounded on saferwall-pe's whole-file
// mmap for the same reason, SPEC_FULL.md §4.A/H). The mapping is read-only
// and is never unmapped: class bytes are immutable and live for the life
// of the VM, the same lifetime package strpool's interned strings have.
func readFromDir(dir, rel string) ([]byte, bool) {
	full := filepath.Join(dir, filepath.FromSlash(rel))
	f, err := os.Open(full)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, false
	}
	if fi.Size() == 0 {
		return []byte{}, true // mmap.Map rejects empty files
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		b, rerr := io.ReadAll(f)
		if rerr != nil {
			return nil, false
		}
		return b, true
	}
	return []byte(m), true
}
