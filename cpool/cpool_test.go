/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package cpool

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/glassvm/glassvm/bytereader"
	"github.com/stretchr/testify/require"
)

// buildSamplePool encodes: #1 UTF8 "Foo", #2 Class -> #1, #3 Long, #4(filler),
// #5 Integer 42.
func buildSamplePool(t *testing.T) []byte {
	t.Helper()
	b := []byte{}
	// #1 UTF8 "Foo"
	b = append(b, byte(TagUTF8), 0, 3, 'F', 'o', 'o')
	// #2 Class name_index=1
	b = append(b, byte(TagClass), 0, 1)
	// #3 Long value=1
	b = append(b, byte(TagLong), 0, 0, 0, 0, 0, 0, 0, 1)
	// #5 Integer value=42
	b = append(b, byte(TagInteger), 0, 0, 0, 42)
	return b
}

func TestParseBasicEntries(t *testing.T) {
	raw := buildSamplePool(t)
	r := bytereader.New(raw)
	// count = 6 (5 addressable slots + reserved 0), since Long occupies 3,4
	p, err := Parse(r, 6)
	require.NoError(t, err)
	require.Equal(t, 6, p.Size())

	utf8, err := p.GetUTF8(1)
	require.NoError(t, err)
	require.Equal(t, "Foo", utf8)

	cls, err := Get[Class](p, 2)
	require.NoError(t, err)
	require.Equal(t, uint16(1), cls.NameIndex)

	lng, err := Get[Long](p, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), lng.Value)

	// slot 4 is the reserved filler following the Long entry
	_, err = p.GetAny(4)
	require.Error(t, err, "slot 4 should be the unaddressable Long filler")

	intg, err := Get[Integer](p, 5)
	require.NoError(t, err)
	require.Equal(t, int32(42), intg.Value)
}

func TestGetTagMismatchFails(t *testing.T) {
	raw := buildSamplePool(t)
	p, err := Parse(bytereader.New(raw), 6)
	require.NoError(t, err)

	_, err = Get[Integer](p, 1) // slot 1 is UTF8, not Integer
	if err == nil {
		t.Fatalf("expected tag mismatch, got entries: %s", spew.Sdump(p.Entries))
	}
}

func TestIndexZeroIsInvalid(t *testing.T) {
	raw := buildSamplePool(t)
	p, err := Parse(bytereader.New(raw), 6)
	require.NoError(t, err)
	_, err = p.GetAny(0)
	require.Error(t, err)
}

func TestResolvedFieldRoundTrips(t *testing.T) {
	raw := buildSamplePool(t)
	p, err := Parse(bytereader.New(raw), 6)
	require.NoError(t, err)

	cls, err := Get[Class](p, 2)
	require.NoError(t, err)
	cls.Resolved = "stand-in for *object.Class"
	p.Set(2, cls)

	again, err := Get[Class](p, 2)
	require.NoError(t, err)
	require.Equal(t, "stand-in for *object.Class", again.Resolved)
}
