/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package bytereader implements the positioned, big-endian reader that the
// class-file decoder sits on top of (spec §4.A). A Reader is a view over an
// immutable byte span plus a cursor; Slice carves out a child view over a
// contiguous sub-range and, per the policy chosen in SPEC_FULL.md §4.A,
// reserves (skips) those bytes in the parent atomically.
package bytereader

import (
	"encoding/binary"
	"fmt"
	"math"
)

// UnexpectedEndError is returned whenever a read would run past the end of
// the reader's span. It names the logical component being read so callers
// get a message like "unexpected end of constant pool tag".
type UnexpectedEndError struct {
	Component string
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("unexpected end of %s", e.Component)
}

// Reader is an immutable byte span with a read cursor.
type Reader struct {
	bytes  []byte
	cursor int
	base   int // offset of bytes[0] within the original file
}

// New wraps a byte slice as a Reader whose original-file offset starts at 0.
func New(b []byte) *Reader {
	return &Reader{bytes: b}
}

// Offset returns the current cursor position relative to this span.
func (r *Reader) Offset() int { return r.cursor }

// OriginalOffset returns the cursor position relative to the original file
// this reader (or an ancestor, via Slice) was constructed from.
func (r *Reader) OriginalOffset() int { return r.base + r.cursor }

// Len returns the total length of the span.
func (r *Reader) Len() int { return len(r.bytes) }

// Eof reports whether the cursor has reached the end of the span.
func (r *Reader) Eof() bool { return r.cursor >= len(r.bytes) }

// Remaining returns the number of unread bytes in the span.
func (r *Reader) Remaining() int { return len(r.bytes) - r.cursor }

func (r *Reader) need(n int, component string) error {
	if r.cursor+n > len(r.bytes) {
		return &UnexpectedEndError{Component: component}
	}
	return nil
}

// NextBytes reads and returns the next n raw bytes, advancing the cursor.
func (r *Reader) NextBytes(n int, component string) ([]byte, error) {
	if err := r.need(n, component); err != nil {
		return nil, err
	}
	b := r.bytes[r.cursor : r.cursor+n]
	r.cursor += n
	return b, nil
}

// Slice returns a new Reader over the next n bytes of this span and
// advances this reader's cursor past them, so the parent and the returned
// child never overlap in what they each consider unread.
func (r *Reader) Slice(component string, n int) (*Reader, error) {
	if err := r.need(n, component); err != nil {
		return nil, err
	}
	child := &Reader{
		bytes: r.bytes[r.cursor : r.cursor+n],
		base:  r.base + r.cursor,
	}
	r.cursor += n
	return child, nil
}

// U8 reads an unsigned 8-bit integer.
func (r *Reader) U8(component string) (uint8, error) {
	if err := r.need(1, component); err != nil {
		return 0, err
	}
	v := r.bytes[r.cursor]
	r.cursor++
	return v, nil
}

// I8 reads a signed 8-bit integer.
func (r *Reader) I8(component string) (int8, error) {
	v, err := r.U8(component)
	return int8(v), err
}

// U16 reads a big-endian unsigned 16-bit integer.
func (r *Reader) U16(component string) (uint16, error) {
	if err := r.need(2, component); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.bytes[r.cursor:])
	r.cursor += 2
	return v, nil
}

// I16 reads a big-endian signed 16-bit integer.
func (r *Reader) I16(component string) (int16, error) {
	v, err := r.U16(component)
	return int16(v), err
}

// U32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) U32(component string) (uint32, error) {
	if err := r.need(4, component); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.bytes[r.cursor:])
	r.cursor += 4
	return v, nil
}

// I32 reads a big-endian signed 32-bit integer.
func (r *Reader) I32(component string) (int32, error) {
	v, err := r.U32(component)
	return int32(v), err
}

// U64 reads a big-endian unsigned 64-bit integer.
func (r *Reader) U64(component string) (uint64, error) {
	if err := r.need(8, component); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.bytes[r.cursor:])
	r.cursor += 8
	return v, nil
}

// I64 reads a big-endian signed 64-bit integer.
func (r *Reader) I64(component string) (int64, error) {
	v, err := r.U64(component)
	return int64(v), err
}

// F32 reads a big-endian IEEE-754 single-precision float.
func (r *Reader) F32(component string) (float32, error) {
	v, err := r.U32(component)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// F64 reads a big-endian IEEE-754 double-precision float.
func (r *Reader) F64(component string) (float64, error) {
	v, err := r.U64(component)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Skip advances the cursor by n bytes without returning them, failing the
// same way a positioned read would if n overruns the span.
func (r *Reader) Skip(n int, component string) error {
	if err := r.need(n, component); err != nil {
		return err
	}
	r.cursor += n
	return nil
}
