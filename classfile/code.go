/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"github.com/glassvm/glassvm/bytereader"
	"github.com/glassvm/glassvm/cpool"
	"github.com/glassvm/glassvm/types"
)

// raw (un-normalized) JVMS Table 6.5 opcode values this decoder recognizes.
const (
	rawNop          = 0
	rawAconstNull   = 1
	rawIconstM1     = 2 // iconst_m1..iconst_5 = 2..8
	rawLconst0      = 9 // lconst_0, lconst_1 = 9, 10
	rawFconst0      = 11 // fconst_0..2 = 11..13
	rawDconst0      = 14 // dconst_0, dconst_1 = 14, 15
	rawBipush       = 16
	rawSipush       = 17
	rawLdc          = 18
	rawLdcW         = 19
	rawLdc2W        = 20
	rawIload        = 21
	rawLload        = 22
	rawFload        = 23
	rawDload        = 24
	rawAload        = 25
	rawIload0       = 26 // iload_0..3 = 26..29
	rawLload0       = 30 // lload_0..3 = 30..33
	rawFload0       = 34 // fload_0..3 = 34..37
	rawDload0       = 38 // dload_0..3 = 38..41
	rawAload0       = 42 // aload_0..3 = 42..45
	rawIaload       = 46
	rawLaload       = 47
	rawFaload       = 48
	rawDaload       = 49
	rawAaload       = 50
	rawBaload       = 51
	rawCaload       = 52
	rawSaload       = 53
	rawIstore       = 54
	rawLstore       = 55
	rawFstore       = 56
	rawDstore       = 57
	rawAstore       = 58
	rawIstore0      = 59 // istore_0..3 = 59..62
	rawLstore0      = 63 // lstore_0..3 = 63..66
	rawFstore0      = 67 // fstore_0..3 = 67..70
	rawDstore0      = 71 // dstore_0..3 = 71..74
	rawAstore0      = 75 // astore_0..3 = 75..78
	rawIastore      = 79
	rawLastore      = 80
	rawFastore      = 81
	rawDastore      = 82
	rawAastore      = 83
	rawBastore      = 84
	rawCastore      = 85
	rawSastore      = 86
	rawPop          = 87
	rawPop2         = 88
	rawDup          = 89
	rawDupX1        = 90
	rawDupX2        = 91
	rawDup2         = 92
	rawDup2X1       = 93
	rawDup2X2       = 94
	rawSwap         = 95
	rawIadd         = 96
	rawLadd         = 97
	rawFadd         = 98
	rawDadd         = 99
	rawIsub         = 100
	rawLsub         = 101
	rawFsub         = 102
	rawDsub         = 103
	rawImul         = 104
	rawLmul         = 105
	rawFmul         = 106
	rawDmul         = 107
	rawIdiv         = 108
	rawLdiv         = 109
	rawFdiv         = 110
	rawDdiv         = 111
	rawIrem         = 112
	rawLrem         = 113
	rawFrem         = 114
	rawDrem         = 115
	rawIneg         = 116
	rawLneg         = 117
	rawFneg         = 118
	rawDneg         = 119
	rawIshl         = 120
	rawLshl         = 121
	rawIshr         = 122
	rawLshr         = 123
	rawIushr        = 124
	rawLushr        = 125
	rawIand         = 126
	rawLand         = 127
	rawIor          = 128
	rawLor          = 129
	rawIxor         = 130
	rawLxor         = 131
	rawIinc         = 132
	rawI2l          = 133
	rawI2f          = 134
	rawI2d          = 135
	rawL2i          = 136
	rawL2f          = 137
	rawL2d          = 138
	rawF2i          = 139
	rawF2l          = 140
	rawF2d          = 141
	rawD2i          = 142
	rawD2l          = 143
	rawD2f          = 144
	rawI2b          = 145
	rawI2c          = 146
	rawI2s          = 147
	rawLcmp         = 148
	rawFcmpl        = 149
	rawFcmpg        = 150
	rawDcmpl        = 151
	rawDcmpg        = 152
	rawIfeq         = 153
	rawIfne         = 154
	rawIflt         = 155
	rawIfge         = 156
	rawIfgt         = 157
	rawIfle         = 158
	rawIfIcmpeq     = 159
	rawIfIcmpne     = 160
	rawIfIcmplt     = 161
	rawIfIcmpge     = 162
	rawIfIcmpgt     = 163
	rawIfIcmple     = 164
	rawIfAcmpeq     = 165
	rawIfAcmpne     = 166
	rawGoto         = 167
	rawJsr          = 168
	rawRet          = 169
	rawTableswitch  = 170
	rawLookupswitch = 171
	rawIreturn      = 172
	rawLreturn      = 173
	rawFreturn      = 174
	rawDreturn      = 175
	rawAreturn      = 176
	rawReturn       = 177
	rawGetstatic    = 178
	rawPutstatic    = 179
	rawGetfield     = 180
	rawPutfield     = 181
	rawInvokevirtual   = 182
	rawInvokespecial   = 183
	rawInvokestatic    = 184
	rawInvokeinterface = 185
	rawInvokedynamic   = 186
	rawNew             = 187
	rawNewarray        = 188
	rawAnewarray       = 189
	rawArraylength     = 190
	rawAthrow          = 191
	rawCheckcast       = 192
	rawInstanceof      = 193
	rawMonitorenter    = 194
	rawMonitorexit     = 195
	rawWide            = 196
	rawMultianewarray  = 197
	rawIfnull          = 198
	rawIfnonnull       = 199
	rawGotoW           = 200
	rawJsrW            = 201
)

// branchFixup records an Insn whose Index field currently holds an absolute
// target PC (not yet an instruction index), to be resolved once every
// instruction in the method has been parsed and PCToIndex is complete.
type branchFixup struct {
	insnIndex int
	targetPC  int
}

func parseCodeAttribute(body *bytereader.Reader, pool *cpool.Pool, cf *Classfile) (*CodeAttribute, error) {
	maxStack, err := body.U16("max_stack")
	if err != nil {
		return nil, err
	}
	maxLocals, err := body.U16("max_locals")
	if err != nil {
		return nil, err
	}
	codeLength, err := body.U32("code_length")
	if err != nil {
		return nil, err
	}
	codeReader, err := body.Slice("code array", int(codeLength))
	if err != nil {
		return nil, err
	}

	code := &CodeAttribute{
		MaxStack:  int(maxStack),
		MaxLocals: int(maxLocals),
		PCToIndex: make(map[int]int),
	}

	tsStart := len(cf.TableSwitches)
	lsStart := len(cf.LookupSwitches)
	var fixups []branchFixup

	for !codeReader.Eof() {
		pc := codeReader.Offset()
		code.PCToIndex[pc] = len(code.Instructions)
		insn, needsFixup, err := decodeInstruction(codeReader, pc, cf)
		if err != nil {
			return nil, err
		}
		if needsFixup {
			fixups = append(fixups, branchFixup{insnIndex: len(code.Instructions), targetPC: int(insn.Index)})
		}
		code.Instructions = append(code.Instructions, insn)
	}
	// codeLength itself is a valid boundary: exception-table `end` may equal
	// it, and a tableswitch/lookupswitch default/target may point one past
	// the last instruction only in pathological input, which BadBranch below
	// will catch since it won't appear in PCToIndex unless equal to codeLength.
	code.PCToIndex[int(codeLength)] = len(code.Instructions)

	for _, fx := range fixups {
		idx, ok := code.PCToIndex[fx.targetPC]
		if !ok {
			return nil, &BadBranchError{SourcePC: code.Instructions[fx.insnIndex].PC, TargetPC: fx.targetPC}
		}
		code.Instructions[fx.insnIndex].Index = uint16(idx)
	}
	for i := tsStart; i < len(cf.TableSwitches); i++ {
		ts := &cf.TableSwitches[i]
		def, ok := code.PCToIndex[ts.Default]
		if !ok {
			return nil, &BadBranchError{TargetPC: ts.Default}
		}
		ts.Default = def
		for j, t := range ts.Targets {
			idx, ok := code.PCToIndex[t]
			if !ok {
				return nil, &BadBranchError{TargetPC: t}
			}
			ts.Targets[j] = idx
		}
	}
	for i := lsStart; i < len(cf.LookupSwitches); i++ {
		ls := &cf.LookupSwitches[i]
		def, ok := code.PCToIndex[ls.Default]
		if !ok {
			return nil, &BadBranchError{TargetPC: ls.Default}
		}
		ls.Default = def
		for j, p := range ls.Pairs {
			idx, ok := code.PCToIndex[p.Target]
			if !ok {
				return nil, &BadBranchError{TargetPC: p.Target}
			}
			ls.Pairs[j].Target = idx
		}
	}

	excLen, err := body.U16("exception_table_length")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(excLen); i++ {
		startPC, err := body.U16("exception start_pc")
		if err != nil {
			return nil, err
		}
		endPC, err := body.U16("exception end_pc")
		if err != nil {
			return nil, err
		}
		handlerPC, err := body.U16("exception handler_pc")
		if err != nil {
			return nil, err
		}
		catchType, err := body.U16("exception catch_type")
		if err != nil {
			return nil, err
		}
		startIdx, ok := code.PCToIndex[int(startPC)]
		if !ok {
			return nil, &BadBranchError{TargetPC: int(startPC)}
		}
		endIdx, ok := code.PCToIndex[int(endPC)]
		if !ok {
			return nil, &BadBranchError{TargetPC: int(endPC)}
		}
		handlerIdx, ok := code.PCToIndex[int(handlerPC)]
		if !ok {
			return nil, &BadBranchError{TargetPC: int(handlerPC)}
		}
		code.ExceptionTable = append(code.ExceptionTable, ExceptionTableEntry{
			Start: startIdx, End: endIdx, Handler: handlerIdx, CatchType: int(catchType),
		})
	}

	attrCount, err := body.U16("code attributes_count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		name, attrBody, err := readAttributeHeader(body, pool)
		if err != nil {
			return nil, err
		}
		switch name {
		case "LineNumberTable":
			n, err := attrBody.U16("line_number_table_length")
			if err != nil {
				return nil, err
			}
			for j := 0; j < int(n); j++ {
				startPC, err := attrBody.U16("line_number start_pc")
				if err != nil {
					return nil, err
				}
				lineNo, err := attrBody.U16("line_number")
				if err != nil {
					return nil, err
				}
				idx, ok := code.PCToIndex[int(startPC)]
				if !ok {
					continue // non-fatal: informational only
				}
				code.LineNumbers = append(code.LineNumbers, LineNumberEntry{InstructionIndex: idx, LineNumber: int(lineNo)})
			}
		default:
			_, _ = attrBody.NextBytes(attrBody.Remaining(), name)
		}
	}

	return code, nil
}

// decodeInstruction reads exactly one (possibly wide-prefixed) instruction
// from r, whose cursor must be positioned at pc within the owning code
// array. needsFixup reports whether Index currently holds an absolute
// target PC rather than its final payload value.
func decodeInstruction(r *bytereader.Reader, pc int, cf *Classfile) (Insn, bool, error) {
	opcode, err := r.U8("opcode")
	if err != nil {
		return Insn{}, false, err
	}

	insn := Insn{PC: pc}

	branch := func(width int) (int, error) {
		if width == 2 {
			v, err := r.I16("branch offset")
			if err != nil {
				return 0, err
			}
			return pc + int(v), nil
		}
		v, err := r.I32("branch offset")
		if err != nil {
			return 0, err
		}
		return pc + int(v), nil
	}

	switch opcode {
	case rawNop:
		insn.Op = OpNop
	case rawAconstNull:
		insn.Op = OpAconstNull
	case rawIconstM1, rawIconstM1 + 1, rawIconstM1 + 2, rawIconstM1 + 3, rawIconstM1 + 4, rawIconstM1 + 5, rawIconstM1 + 6:
		insn.Op = OpIconst
		insn.IntImm = int64(int(opcode) - rawIconstM1 - 1)
	case rawLconst0, rawLconst0 + 1:
		insn.Op = OpLconst
		insn.IntImm = int64(opcode - rawLconst0)
	case rawFconst0, rawFconst0 + 1, rawFconst0 + 2:
		insn.Op = OpFconst
		insn.FloatImm = float32(opcode - rawFconst0)
	case rawDconst0, rawDconst0 + 1:
		insn.Op = OpDconst
		insn.DoubleImm = float64(opcode - rawDconst0)
	case rawBipush:
		v, err := r.I8("bipush immediate")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpIconst
		insn.IntImm = int64(v)
	case rawSipush:
		v, err := r.I16("sipush immediate")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpIconst
		insn.IntImm = int64(v)
	case rawLdc:
		idx, err := r.U8("ldc index")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpLdc
		insn.Index = uint16(idx)
	case rawLdcW:
		idx, err := r.U16("ldc_w index")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpLdc
		insn.Index = idx
	case rawLdc2W:
		idx, err := r.U16("ldc2_w index")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpLdc2W
		insn.Index = idx
	case rawIload, rawLload, rawFload, rawDload, rawAload,
		rawIstore, rawLstore, rawFstore, rawDstore, rawAstore:
		idx, err := r.U8("local variable index")
		if err != nil {
			return insn, false, err
		}
		insn.Op = loadStoreOp(opcode)
		insn.Index = uint16(idx)
	case rawIload0, rawIload0 + 1, rawIload0 + 2, rawIload0 + 3:
		insn.Op, insn.Index = OpIload, uint16(opcode-rawIload0)
	case rawLload0, rawLload0 + 1, rawLload0 + 2, rawLload0 + 3:
		insn.Op, insn.Index = OpLload, uint16(opcode-rawLload0)
	case rawFload0, rawFload0 + 1, rawFload0 + 2, rawFload0 + 3:
		insn.Op, insn.Index = OpFload, uint16(opcode-rawFload0)
	case rawDload0, rawDload0 + 1, rawDload0 + 2, rawDload0 + 3:
		insn.Op, insn.Index = OpDload, uint16(opcode-rawDload0)
	case rawAload0, rawAload0 + 1, rawAload0 + 2, rawAload0 + 3:
		insn.Op, insn.Index = OpAload, uint16(opcode-rawAload0)
	case rawIstore0, rawIstore0 + 1, rawIstore0 + 2, rawIstore0 + 3:
		insn.Op, insn.Index = OpIstore, uint16(opcode-rawIstore0)
	case rawLstore0, rawLstore0 + 1, rawLstore0 + 2, rawLstore0 + 3:
		insn.Op, insn.Index = OpLstore, uint16(opcode-rawLstore0)
	case rawFstore0, rawFstore0 + 1, rawFstore0 + 2, rawFstore0 + 3:
		insn.Op, insn.Index = OpFstore, uint16(opcode-rawFstore0)
	case rawDstore0, rawDstore0 + 1, rawDstore0 + 2, rawDstore0 + 3:
		insn.Op, insn.Index = OpDstore, uint16(opcode-rawDstore0)
	case rawAstore0, rawAstore0 + 1, rawAstore0 + 2, rawAstore0 + 3:
		insn.Op, insn.Index = OpAstore, uint16(opcode-rawAstore0)
	case rawIaload:
		insn.Op = OpIaload
	case rawLaload:
		insn.Op = OpLaload
	case rawFaload:
		insn.Op = OpFaload
	case rawDaload:
		insn.Op = OpDaload
	case rawAaload:
		insn.Op = OpAaload
	case rawBaload:
		insn.Op = OpBaload
	case rawCaload:
		insn.Op = OpCaload
	case rawSaload:
		insn.Op = OpSaload
	case rawIastore:
		insn.Op = OpIastore
	case rawLastore:
		insn.Op = OpLastore
	case rawFastore:
		insn.Op = OpFastore
	case rawDastore:
		insn.Op = OpDastore
	case rawAastore:
		insn.Op = OpAastore
	case rawBastore:
		insn.Op = OpBastore
	case rawCastore:
		insn.Op = OpCastore
	case rawSastore:
		insn.Op = OpSastore
	case rawPop:
		insn.Op = OpPop
	case rawPop2:
		insn.Op = OpPop2
	case rawDup:
		insn.Op = OpDup
	case rawDupX1:
		insn.Op = OpDupX1
	case rawDupX2:
		insn.Op = OpDupX2
	case rawDup2:
		insn.Op = OpDup2
	case rawDup2X1:
		insn.Op = OpDup2X1
	case rawDup2X2:
		insn.Op = OpDup2X2
	case rawSwap:
		insn.Op = OpSwap
	case rawIadd:
		insn.Op = OpIadd
	case rawLadd:
		insn.Op = OpLadd
	case rawFadd:
		insn.Op = OpFadd
	case rawDadd:
		insn.Op = OpDadd
	case rawIsub:
		insn.Op = OpIsub
	case rawLsub:
		insn.Op = OpLsub
	case rawFsub:
		insn.Op = OpFsub
	case rawDsub:
		insn.Op = OpDsub
	case rawImul:
		insn.Op = OpImul
	case rawLmul:
		insn.Op = OpLmul
	case rawFmul:
		insn.Op = OpFmul
	case rawDmul:
		insn.Op = OpDmul
	case rawIdiv:
		insn.Op = OpIdiv
	case rawLdiv:
		insn.Op = OpLdiv
	case rawFdiv:
		insn.Op = OpFdiv
	case rawDdiv:
		insn.Op = OpDdiv
	case rawIrem:
		insn.Op = OpIrem
	case rawLrem:
		insn.Op = OpLrem
	case rawFrem:
		insn.Op = OpFrem
	case rawDrem:
		insn.Op = OpDrem
	case rawIneg:
		insn.Op = OpIneg
	case rawLneg:
		insn.Op = OpLneg
	case rawFneg:
		insn.Op = OpFneg
	case rawDneg:
		insn.Op = OpDneg
	case rawIshl:
		insn.Op = OpIshl
	case rawLshl:
		insn.Op = OpLshl
	case rawIshr:
		insn.Op = OpIshr
	case rawLshr:
		insn.Op = OpLshr
	case rawIushr:
		insn.Op = OpIushr
	case rawLushr:
		insn.Op = OpLushr
	case rawIand:
		insn.Op = OpIand
	case rawLand:
		insn.Op = OpLand
	case rawIor:
		insn.Op = OpIor
	case rawLor:
		insn.Op = OpLor
	case rawIxor:
		insn.Op = OpIxor
	case rawLxor:
		insn.Op = OpLxor
	case rawIinc:
		idx, err := r.U8("iinc index")
		if err != nil {
			return insn, false, err
		}
		c, err := r.I8("iinc const")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpIinc
		insn.IInc = IIncData{Index: uint16(idx), Const: int16(c)}
	case rawI2l:
		insn.Op = OpI2l
	case rawI2f:
		insn.Op = OpI2f
	case rawI2d:
		insn.Op = OpI2d
	case rawL2i:
		insn.Op = OpL2i
	case rawL2f:
		insn.Op = OpL2f
	case rawL2d:
		insn.Op = OpL2d
	case rawF2i:
		insn.Op = OpF2i
	case rawF2l:
		insn.Op = OpF2l
	case rawF2d:
		insn.Op = OpF2d
	case rawD2i:
		insn.Op = OpD2i
	case rawD2l:
		insn.Op = OpD2l
	case rawD2f:
		insn.Op = OpD2f
	case rawI2b:
		insn.Op = OpI2b
	case rawI2c:
		insn.Op = OpI2c
	case rawI2s:
		insn.Op = OpI2s
	case rawLcmp:
		insn.Op = OpLcmp
	case rawFcmpl:
		insn.Op = OpFcmpl
	case rawFcmpg:
		insn.Op = OpFcmpg
	case rawDcmpl:
		insn.Op = OpDcmpl
	case rawDcmpg:
		insn.Op = OpDcmpg
	case rawIfeq, rawIfne, rawIflt, rawIfge, rawIfgt, rawIfle,
		rawIfIcmpeq, rawIfIcmpne, rawIfIcmplt, rawIfIcmpge, rawIfIcmpgt, rawIfIcmple,
		rawIfAcmpeq, rawIfAcmpne, rawIfnull, rawIfnonnull:
		target, err := branch(2)
		if err != nil {
			return insn, false, err
		}
		insn.Op = ifOp(opcode)
		insn.Index = uint16(target)
		return insn, true, nil
	case rawGoto:
		target, err := branch(2)
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpGoto
		insn.Index = uint16(target)
		return insn, true, nil
	case rawGotoW:
		target, err := branch(4)
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpGoto
		insn.Index = uint16(target)
		return insn, true, nil
	case rawJsr:
		target, err := branch(2)
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpJsr
		insn.Index = uint16(target)
		return insn, true, nil
	case rawJsrW:
		target, err := branch(4)
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpJsr
		insn.Index = uint16(target)
		return insn, true, nil
	case rawRet:
		idx, err := r.U8("ret index")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpRet
		insn.Index = uint16(idx)
	case rawTableswitch:
		ts, err := parseTableswitch(r, pc)
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpTableswitch
		insn.Switch = len(cf.TableSwitches)
		cf.TableSwitches = append(cf.TableSwitches, ts)
	case rawLookupswitch:
		ls, err := parseLookupswitch(r, pc)
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpLookupswitch
		insn.Switch = len(cf.LookupSwitches)
		cf.LookupSwitches = append(cf.LookupSwitches, ls)
	case rawIreturn:
		insn.Op = OpIreturn
	case rawLreturn:
		insn.Op = OpLreturn
	case rawFreturn:
		insn.Op = OpFreturn
	case rawDreturn:
		insn.Op = OpDreturn
	case rawAreturn:
		insn.Op = OpAreturn
	case rawReturn:
		insn.Op = OpReturn
	case rawGetstatic:
		idx, err := r.U16("getstatic index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpGetstatic, idx
	case rawPutstatic:
		idx, err := r.U16("putstatic index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpPutstatic, idx
	case rawGetfield:
		idx, err := r.U16("getfield index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpGetfield, idx
	case rawPutfield:
		idx, err := r.U16("putfield index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpPutfield, idx
	case rawInvokevirtual:
		idx, err := r.U16("invokevirtual index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpInvokevirtual, idx
	case rawInvokespecial:
		idx, err := r.U16("invokespecial index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpInvokespecial, idx
	case rawInvokestatic:
		idx, err := r.U16("invokestatic index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpInvokestatic, idx
	case rawInvokeinterface:
		idx, err := r.U16("invokeinterface index")
		if err != nil {
			return insn, false, err
		}
		count, err := r.U8("invokeinterface count")
		if err != nil {
			return insn, false, err
		}
		if _, err := r.U8("invokeinterface reserved byte"); err != nil {
			return insn, false, err
		}
		insn.Op = OpInvokeinterface
		insn.InvokeIF = InvokeInterfaceData{Index: idx, Count: count}
	case rawInvokedynamic:
		idx, err := r.U16("invokedynamic index")
		if err != nil {
			return insn, false, err
		}
		if _, err := r.U16("invokedynamic reserved bytes"); err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpInvokedynamic, idx
	case rawNew:
		idx, err := r.U16("new index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpNew, idx
	case rawNewarray:
		atype, err := r.U8("newarray atype")
		if err != nil {
			return insn, false, err
		}
		prim, ok := types.PrimitiveFromAtype(atype)
		if !ok {
			return insn, false, &BadDescriptorError{Reason: "invalid newarray atype"}
		}
		insn.Op = OpNewarray
		insn.Atype = prim
	case rawAnewarray:
		idx, err := r.U16("anewarray index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpAnewarray, idx
	case rawArraylength:
		insn.Op = OpArraylength
	case rawAthrow:
		insn.Op = OpAthrow
	case rawCheckcast:
		idx, err := r.U16("checkcast index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpCheckcast, idx
	case rawInstanceof:
		idx, err := r.U16("instanceof index")
		if err != nil {
			return insn, false, err
		}
		insn.Op, insn.Index = OpInstanceof, idx
	case rawMonitorenter:
		insn.Op = OpMonitorenter
	case rawMonitorexit:
		insn.Op = OpMonitorexit
	case rawMultianewarray:
		idx, err := r.U16("multianewarray index")
		if err != nil {
			return insn, false, err
		}
		dims, err := r.U8("multianewarray dimensions")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpMultianewarray
		insn.Multianew = MultianewarrayData{Index: idx, Dims: dims}
	case rawWide:
		return decodeWide(r, pc)
	default:
		return insn, false, &BadOpcodeError{Opcode: opcode, PC: pc}
	}
	return insn, false, nil
}

func decodeWide(r *bytereader.Reader, pc int) (Insn, bool, error) {
	inner, err := r.U8("wide opcode")
	if err != nil {
		return Insn{}, false, err
	}
	insn := Insn{PC: pc}
	if inner == rawIinc {
		idx, err := r.U16("wide iinc index")
		if err != nil {
			return insn, false, err
		}
		c, err := r.I16("wide iinc const")
		if err != nil {
			return insn, false, err
		}
		insn.Op = OpIinc
		insn.IInc = IIncData{Index: idx, Const: c}
		return insn, false, nil
	}
	idx, err := r.U16("wide local variable index")
	if err != nil {
		return insn, false, err
	}
	switch inner {
	case rawIload, rawLload, rawFload, rawDload, rawAload, rawIstore, rawLstore, rawFstore, rawDstore, rawAstore:
		insn.Op = loadStoreOp(inner)
	case rawRet:
		insn.Op = OpRet
	default:
		return insn, false, &BadOpcodeError{Opcode: inner, PC: pc}
	}
	insn.Index = idx
	return insn, false, nil
}

func loadStoreOp(raw byte) Op {
	switch raw {
	case rawIload, rawIstore:
		if raw == rawIload {
			return OpIload
		}
		return OpIstore
	case rawLload:
		return OpLload
	case rawLstore:
		return OpLstore
	case rawFload:
		return OpFload
	case rawFstore:
		return OpFstore
	case rawDload:
		return OpDload
	case rawDstore:
		return OpDstore
	case rawAload:
		return OpAload
	case rawAstore:
		return OpAstore
	}
	return OpNop
}

func ifOp(raw byte) Op {
	switch raw {
	case rawIfeq:
		return OpIfeq
	case rawIfne:
		return OpIfne
	case rawIflt:
		return OpIflt
	case rawIfge:
		return OpIfge
	case rawIfgt:
		return OpIfgt
	case rawIfle:
		return OpIfle
	case rawIfIcmpeq:
		return OpIfIcmpeq
	case rawIfIcmpne:
		return OpIfIcmpne
	case rawIfIcmplt:
		return OpIfIcmplt
	case rawIfIcmpge:
		return OpIfIcmpge
	case rawIfIcmpgt:
		return OpIfIcmpgt
	case rawIfIcmple:
		return OpIfIcmple
	case rawIfAcmpeq:
		return OpIfAcmpeq
	case rawIfAcmpne:
		return OpIfAcmpne
	case rawIfnull:
		return OpIfnull
	case rawIfnonnull:
		return OpIfnonnull
	}
	return OpNop
}

func parseTableswitch(r *bytereader.Reader, pc int) (TableswitchData, error) {
	afterOpcode := pc + 1
	padding := (4 - afterOpcode%4) % 4
	if err := r.Skip(padding, "tableswitch padding"); err != nil {
		return TableswitchData{}, err
	}
	defOff, err := r.I32("tableswitch default")
	if err != nil {
		return TableswitchData{}, err
	}
	low, err := r.I32("tableswitch low")
	if err != nil {
		return TableswitchData{}, err
	}
	high, err := r.I32("tableswitch high")
	if err != nil {
		return TableswitchData{}, err
	}
	count := int(high) - int(low) + 1
	ts := TableswitchData{Default: pc + int(defOff), Low: low, High: high}
	for i := 0; i < count; i++ {
		off, err := r.I32("tableswitch target")
		if err != nil {
			return TableswitchData{}, err
		}
		ts.Targets = append(ts.Targets, pc+int(off))
	}
	return ts, nil
}

func parseLookupswitch(r *bytereader.Reader, pc int) (LookupswitchData, error) {
	afterOpcode := pc + 1
	padding := (4 - afterOpcode%4) % 4
	if err := r.Skip(padding, "lookupswitch padding"); err != nil {
		return LookupswitchData{}, err
	}
	defOff, err := r.I32("lookupswitch default")
	if err != nil {
		return LookupswitchData{}, err
	}
	npairs, err := r.I32("lookupswitch npairs")
	if err != nil {
		return LookupswitchData{}, err
	}
	ls := LookupswitchData{Default: pc + int(defOff)}
	for i := 0; i < int(npairs); i++ {
		key, err := r.I32("lookupswitch key")
		if err != nil {
			return LookupswitchData{}, err
		}
		off, err := r.I32("lookupswitch offset")
		if err != nil {
			return LookupswitchData{}, err
		}
		ls.Pairs = append(ls.Pairs, LookupPair{Key: key, Target: pc + int(off)})
	}
	return ls, nil
}
