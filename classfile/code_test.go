/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/glassvm/glassvm/bytereader"
	"github.com/glassvm/glassvm/cpool"
)

// codeBody builds a raw Code attribute body (the part after the
// attribute_length field has already been sliced off) with the given
// max_stack/max_locals/instruction bytes and an empty exception table and
// attribute list.
func codeBody(t *testing.T, maxStack, maxLocals uint16, code []byte) *bytereader.Reader {
	t.Helper()
	var buf []byte
	buf = append(buf, byte(maxStack>>8), byte(maxStack))
	buf = append(buf, byte(maxLocals>>8), byte(maxLocals))
	n := uint32(len(code))
	buf = append(buf, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	buf = append(buf, code...)
	buf = append(buf, 0, 0) // exception_table_length = 0
	buf = append(buf, 0, 0) // attributes_count = 0
	return bytereader.New(buf)
}

func emptyPool() *cpool.Pool {
	return &cpool.Pool{Entries: []cpool.Entry{cpool.Invalid{}}}
}

func TestParseCodeAttributeBasicArithmetic(t *testing.T) {
	// iconst_2, iconst_3, iadd, ireturn
	code := []byte{5, 6, 96, 172}
	body := codeBody(t, 2, 1, code)
	cf := &Classfile{}

	got, err := parseCodeAttribute(body, emptyPool(), cf)
	require.NoError(t, err, spew.Sdump(got))
	require.Equal(t, 2, got.MaxStack)
	require.Equal(t, 1, got.MaxLocals)
	require.Len(t, got.Instructions, 4)
	require.Equal(t, OpIconst, got.Instructions[0].Op)
	require.EqualValues(t, 2, got.Instructions[0].IntImm)
	require.Equal(t, OpIconst, got.Instructions[1].Op)
	require.EqualValues(t, 3, got.Instructions[1].IntImm)
	require.Equal(t, OpIadd, got.Instructions[2].Op)
	require.Equal(t, OpIreturn, got.Instructions[3].Op)
}

func TestParseCodeAttributeArrayStore(t *testing.T) {
	// aload_0, iconst_1, iconst_2, iastore, return
	code := []byte{42, 4, 5, 79, 177}
	body := codeBody(t, 3, 1, code)
	cf := &Classfile{}

	got, err := parseCodeAttribute(body, emptyPool(), cf)
	require.NoError(t, err)
	require.Equal(t, OpAload, got.Instructions[0].Op)
	require.EqualValues(t, 0, got.Instructions[0].Index)
	require.Equal(t, OpIastore, got.Instructions[3].Op)
	require.Equal(t, OpReturn, got.Instructions[4].Op)
}

func TestParseCodeAttributeGotoFixesUpToInstructionIndex(t *testing.T) {
	// iconst_0(pc0), goto +4(pc1, offset bytes at pc2-3) -> targets pc1+4=pc5,
	// nop(pc4), ireturn(pc5). The goto skips the nop and lands on ireturn.
	code := []byte{
		3,           // pc0: iconst_0
		167, 0, 4,   // pc1: goto +4 -> targets pc1+4=pc5
		0,           // pc4: nop
		172,         // pc5: ireturn
	}
	body := codeBody(t, 1, 0, code)
	cf := &Classfile{}

	got, err := parseCodeAttribute(body, emptyPool(), cf)
	require.NoError(t, err, spew.Sdump(got))
	require.Len(t, got.Instructions, 4)
	require.Equal(t, OpGoto, got.Instructions[1].Op)
	// goto at pc1 targets pc5, the 4th instruction (index 3: ireturn)
	require.EqualValues(t, 3, got.Instructions[1].Index)
	require.Equal(t, OpIreturn, got.Instructions[3].Op)
}

func TestParseCodeAttributeBadBranchTarget(t *testing.T) {
	// goto +1 lands mid-instruction, not on a boundary.
	code := []byte{167, 0, 1, 172}
	body := codeBody(t, 1, 0, code)
	cf := &Classfile{}

	_, err := parseCodeAttribute(body, emptyPool(), cf)
	require.Error(t, err)
	var branchErr *BadBranchError
	require.ErrorAs(t, err, &branchErr)
}

func TestParseCodeAttributeTableswitch(t *testing.T) {
	// pc0: iload_0 (1 byte)
	// pc1: tableswitch opcode; afterOpcode=pc2, pad 2 bytes to reach pc4;
	//   default(4) low(4) high(4) + 2 targets(4 each) = 23 bytes from pc1,
	//   so the next instruction starts at pc1+23=pc24.
	// pc24: iconst_0 ; pc25: ireturn
	// Instruction stream: [iload_0(pc0)] [tableswitch(pc1)] [iconst_0(pc24)] [ireturn(pc25)]
	code := []byte{
		26,  // pc0: iload_0
		170, // pc1: tableswitch
		0, 0, // 2 padding bytes (pc1+1=2, needs 2 more to reach 4)
		0, 0, 0, 23, // default offset: pc1+23=pc24
		0, 0, 0, 0, // low = 0
		0, 0, 0, 1, // high = 1
		0, 0, 0, 23, // target[0]: pc1+23=pc24
		0, 0, 0, 24, // target[1]: pc1+24=pc25
		3,   // pc24: iconst_0
		172, // pc25: ireturn
	}
	body := codeBody(t, 2, 1, code)
	cf := &Classfile{}

	got, err := parseCodeAttribute(body, emptyPool(), cf)
	require.NoError(t, err, spew.Sdump(got))
	require.Len(t, cf.TableSwitches, 1)
	ts := cf.TableSwitches[0]
	// default and target[0] point at the same instruction: iconst_0 at pc24,
	// which is instruction index 2 (iload_0=0, tableswitch=1, iconst_0=2).
	require.Equal(t, 2, ts.Default)
	require.Equal(t, []int{2, 3}, ts.Targets)
	require.Equal(t, int32(0), ts.Low)
	require.Equal(t, int32(1), ts.High)
}

func TestParseCodeAttributeLookupswitch(t *testing.T) {
	// pc0: iload_0 (1 byte)
	// pc1: lookupswitch opcode; pad 2 bytes to reach pc4;
	//   default(4) + npairs(4) + 2 pairs(8 each) = 27 bytes from pc1,
	//   so the next instruction starts at pc1+27=pc28.
	// pc28: iconst_0 ; pc29: ireturn
	code := []byte{
		26,  // pc0: iload_0
		171, // pc1: lookupswitch
		0, 0, // padding
		0, 0, 0, 27, // default: pc1+27=pc28
		0, 0, 0, 2, // npairs=2
		0, 0, 0, 0, // key 0
		0, 0, 0, 27, // offset -> pc28
		0, 0, 0, 5, // key 5
		0, 0, 0, 28, // offset -> pc29
		3,   // pc28: iconst_0
		172, // pc29: ireturn
	}
	body := codeBody(t, 2, 1, code)
	cf := &Classfile{}

	got, err := parseCodeAttribute(body, emptyPool(), cf)
	require.NoError(t, err, spew.Sdump(got))
	require.Len(t, cf.LookupSwitches, 1)
	ls := cf.LookupSwitches[0]
	require.Equal(t, 2, ls.Default)
	require.Len(t, ls.Pairs, 2)
	require.Equal(t, int32(0), ls.Pairs[0].Key)
	require.Equal(t, 2, ls.Pairs[0].Target)
	require.Equal(t, int32(5), ls.Pairs[1].Key)
	require.Equal(t, 3, ls.Pairs[1].Target)
}

func TestParseCodeAttributeWideIinc(t *testing.T) {
	// wide iinc #300, 1000
	code := []byte{
		196,            // wide
		132,            // iinc
		0x01, 0x2C,     // index = 300
		0x03, 0xE8,     // const = 1000
		177, // return
	}
	body := codeBody(t, 0, 301, code)
	cf := &Classfile{}

	got, err := parseCodeAttribute(body, emptyPool(), cf)
	require.NoError(t, err, spew.Sdump(got))
	require.Equal(t, OpIinc, got.Instructions[0].Op)
	require.EqualValues(t, 300, got.Instructions[0].IInc.Index)
	require.EqualValues(t, 1000, got.Instructions[0].IInc.Const)
}

func TestParseCodeAttributeExceptionTablePCsTranslated(t *testing.T) {
	// pc0: nop, pc1: nop, pc2: nop (handler), pc3: return
	code := []byte{0, 0, 0, 177}
	var buf []byte
	buf = append(buf, 0, 1, 0, 1) // max_stack=1, max_locals=1
	n := uint32(len(code))
	buf = append(buf, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	buf = append(buf, code...)
	buf = append(buf, 0, 1) // exception_table_length = 1
	buf = append(buf, 0, 0, 0, 2, 0, 2, 0, 0) // start=0 end=2 handler=2 catch_type=0
	buf = append(buf, 0, 0)                   // attributes_count = 0
	body := bytereader.New(buf)
	cf := &Classfile{}

	got, err := parseCodeAttribute(body, emptyPool(), cf)
	require.NoError(t, err, spew.Sdump(got))
	require.Len(t, got.ExceptionTable, 1)
	entry := got.ExceptionTable[0]
	require.Equal(t, 0, entry.Start)
	require.Equal(t, 2, entry.End)
	require.Equal(t, 2, entry.Handler)
	require.Equal(t, 0, entry.CatchType)
}
