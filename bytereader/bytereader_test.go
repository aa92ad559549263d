/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package bytereader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicReads(t *testing.T) {
	r := New([]byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x01})
	u32, err := r.U32("magic")
	require.NoError(t, err)
	require.Equal(t, uint32(0xCAFEBABE), u32)

	u16, err := r.U16("minor version")
	require.NoError(t, err)
	require.Equal(t, uint16(1), u16)

	require.True(t, r.Eof())
}

func TestUnexpectedEndNamesComponent(t *testing.T) {
	r := New([]byte{0x01})
	_, err := r.U16("constant pool tag")
	require.Error(t, err)
	require.Equal(t, "unexpected end of constant pool tag", err.Error())
}

func TestSliceReservesAndSkipsParent(t *testing.T) {
	r := New([]byte{1, 2, 3, 4, 5, 6})
	child, err := r.Slice("code", 4)
	require.NoError(t, err)
	require.Equal(t, 4, child.Len())
	require.Equal(t, 2, r.Remaining())

	b, err := child.U32("code body")
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), b)
	require.True(t, child.Eof())

	// the parent's cursor advanced past the slice, not into it
	rest, err := r.NextBytes(2, "tail")
	require.NoError(t, err)
	require.Equal(t, []byte{5, 6}, rest)
}

func TestOriginalOffsetAccountsForSliceBase(t *testing.T) {
	r := New([]byte{0, 0, 1, 2, 3, 4})
	_, err := r.NextBytes(2, "prefix")
	require.NoError(t, err)

	child, err := r.Slice("body", 4)
	require.NoError(t, err)
	require.Equal(t, 2, child.OriginalOffset())

	_, err = child.U16("first")
	require.NoError(t, err)
	require.Equal(t, 4, child.OriginalOffset())
}

func TestSignedReads(t *testing.T) {
	r := New([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	i32, err := r.I32("value")
	require.NoError(t, err)
	require.Equal(t, int32(-1), i32)
}

func TestFloatsRoundTrip(t *testing.T) {
	r := New([]byte{0x3F, 0x80, 0x00, 0x00, 0x3F, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	f, err := r.F32("f")
	require.NoError(t, err)
	require.Equal(t, float32(1.0), f)

	d, err := r.F64("d")
	require.NoError(t, err)
	require.Equal(t, 1.0, d)
}

func TestSliceOutOfRangeFails(t *testing.T) {
	r := New([]byte{1, 2, 3})
	_, err := r.Slice("code", 10)
	require.Error(t, err)
}
