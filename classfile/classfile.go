/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package classfile decodes a JVMS §4 class file into a typed Classfile
// record (spec §4.C): version, access flags, this/super, interfaces,
// fields, methods, and attributes, with method bytecode normalized into
// the Insn representation of instr.go.
package classfile

import (
	"fmt"

	"github.com/glassvm/glassvm/bytereader"
	"github.com/glassvm/glassvm/cpool"
)

const magicNumber = 0xCAFEBABE

// RawAttribute is the payload of an attribute this decoder does not
// interpret; it is kept verbatim, matching the spec's "unknown attributes
// are skipped" rather than discarded without a trace.
type RawAttribute struct {
	Name    string
	Content []byte
}

// BootstrapMethod is one entry of the class-level BootstrapMethods
// attribute, consumed by invokedynamic resolution.
type BootstrapMethod struct {
	MethodRef int   // cp index of a MethodHandle entry
	Args      []int // cp indices of loadable bootstrap arguments
}

// FieldInfo is one field declared by the class.
type FieldInfo struct {
	AccessFlags   uint16
	Name          string
	Descriptor    string
	ConstValue    any // non-nil for a ConstantValue-annotated static: int32/int64/float32/float64/string
	RawAttributes []RawAttribute
}

// ExceptionTableEntry is one protected region of a method's Code attribute,
// with PCs already translated to instruction indices.
type ExceptionTableEntry struct {
	Start     int // inclusive instruction index
	End       int // exclusive instruction index (may equal len(Instructions))
	Handler   int // instruction index of the handler
	CatchType int // cp index of the catch type Class entry, or 0 for "any"
}

// LineNumberEntry maps one instruction to a source line.
type LineNumberEntry struct {
	InstructionIndex int
	LineNumber       int
}

// CodeAttribute is a parsed Code attribute (spec §3 "Code attribute").
type CodeAttribute struct {
	MaxStack       int
	MaxLocals      int
	Instructions   []Insn
	PCToIndex      map[int]int // sparse: only the first byte of each instruction, plus codeLength -> len(Instructions)
	ExceptionTable []ExceptionTableEntry
	LineNumbers    []LineNumberEntry
}

// InstructionIndexAt translates a PC to an instruction index. ok is false
// if pc does not fall on an instruction boundary.
func (c *CodeAttribute) InstructionIndexAt(pc int) (int, bool) {
	idx, ok := c.PCToIndex[pc]
	return idx, ok
}

// MethodInfo is one method (or constructor) declared by the class.
type MethodInfo struct {
	AccessFlags   uint16
	Name          string
	Descriptor    string
	Parsed        MethodDescriptor
	Code          *CodeAttribute // nil for abstract/native methods
	Exceptions    []string       // internal names declared by a throws clause
	RawAttributes []RawAttribute
}

// Classfile is the fully decoded class file.
type Classfile struct {
	MinorVersion int
	MajorVersion int
	AccessFlags  uint16
	ThisClass    string
	SuperClass   string // "" only for java/lang/Object
	Interfaces   []string
	Fields       []FieldInfo
	Methods      []MethodInfo
	CP           *cpool.Pool
	Bootstraps   []BootstrapMethod
	SourceFile   string

	// Switch-table pools, interned per class file; an Insn's Switch field
	// indexes into one of these depending on its Op.
	TableSwitches  []TableswitchData
	LookupSwitches []LookupswitchData

	RawAttributes []RawAttribute
}

// Decode parses raw into a Classfile, or fails with *BadMagicError,
// *cpool.BadConstantPoolError, *BadDescriptorError, *BadBranchError,
// *BadOpcodeError, or a *bytereader.UnexpectedEndError.
func Decode(raw []byte) (*Classfile, error) {
	r := bytereader.New(raw)

	magic, err := r.U32("magic number")
	if err != nil {
		return nil, err
	}
	if magic != magicNumber {
		return nil, &BadMagicError{Got: magic}
	}

	minor, err := r.U16("minor version")
	if err != nil {
		return nil, err
	}
	major, err := r.U16("major version")
	if err != nil {
		return nil, err
	}

	cpCount, err := r.U16("constant_pool_count")
	if err != nil {
		return nil, err
	}
	pool, err := cpool.Parse(r, int(cpCount))
	if err != nil {
		return nil, err
	}

	cf := &Classfile{
		MinorVersion: int(minor),
		MajorVersion: int(major),
		CP:           pool,
	}

	cf.AccessFlags, err = r.U16("access_flags")
	if err != nil {
		return nil, err
	}

	thisIdx, err := r.U16("this_class")
	if err != nil {
		return nil, err
	}
	cf.ThisClass, err = resolveClassName(pool, int(thisIdx))
	if err != nil {
		return nil, err
	}

	superIdx, err := r.U16("super_class")
	if err != nil {
		return nil, err
	}
	if superIdx != 0 {
		cf.SuperClass, err = resolveClassName(pool, int(superIdx))
		if err != nil {
			return nil, err
		}
	}

	ifaceCount, err := r.U16("interfaces_count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.U16("interface index")
		if err != nil {
			return nil, err
		}
		name, err := resolveClassName(pool, int(idx))
		if err != nil {
			return nil, err
		}
		cf.Interfaces = append(cf.Interfaces, name)
	}

	fieldCount, err := r.U16("fields_count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(fieldCount); i++ {
		f, err := parseField(r, pool)
		if err != nil {
			return nil, err
		}
		cf.Fields = append(cf.Fields, f)
	}

	methodCount, err := r.U16("methods_count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(methodCount); i++ {
		m, err := parseMethod(r, pool, cf)
		if err != nil {
			return nil, err
		}
		cf.Methods = append(cf.Methods, m)
	}

	attrCount, err := r.U16("attributes_count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		if err := parseClassAttribute(r, pool, cf); err != nil {
			return nil, err
		}
	}

	return cf, nil
}

func resolveClassName(pool *cpool.Pool, idx int) (string, error) {
	ce, err := cpool.Get[cpool.Class](pool, idx)
	if err != nil {
		return "", err
	}
	return pool.GetUTF8(int(ce.NameIndex))
}

func readAttributeHeader(r *bytereader.Reader, pool *cpool.Pool) (name string, body *bytereader.Reader, err error) {
	nameIdx, err := r.U16("attribute_name_index")
	if err != nil {
		return "", nil, err
	}
	name, err = pool.GetUTF8(int(nameIdx))
	if err != nil {
		return "", nil, err
	}
	length, err := r.U32("attribute_length")
	if err != nil {
		return "", nil, err
	}
	body, err = r.Slice(name+" attribute body", int(length))
	if err != nil {
		return "", nil, err
	}
	return name, body, nil
}

func parseField(r *bytereader.Reader, pool *cpool.Pool) (FieldInfo, error) {
	var f FieldInfo
	var err error
	f.AccessFlags, err = r.U16("field access_flags")
	if err != nil {
		return f, err
	}
	nameIdx, err := r.U16("field name_index")
	if err != nil {
		return f, err
	}
	f.Name, err = pool.GetUTF8(int(nameIdx))
	if err != nil {
		return f, err
	}
	descIdx, err := r.U16("field descriptor_index")
	if err != nil {
		return f, err
	}
	f.Descriptor, err = pool.GetUTF8(int(descIdx))
	if err != nil {
		return f, err
	}
	if _, err := ParseFieldDescriptor(f.Descriptor); err != nil {
		return f, err
	}

	attrCount, err := r.U16("field attributes_count")
	if err != nil {
		return f, err
	}
	for i := 0; i < int(attrCount); i++ {
		name, body, err := readAttributeHeader(r, pool)
		if err != nil {
			return f, err
		}
		switch name {
		case "ConstantValue":
			idx, err := body.U16("ConstantValue index")
			if err != nil {
				return f, err
			}
			v, err := constantValueAt(pool, int(idx))
			if err != nil {
				return f, err
			}
			f.ConstValue = v
		default:
			content, _ := body.NextBytes(body.Remaining(), name)
			f.RawAttributes = append(f.RawAttributes, RawAttribute{Name: name, Content: content})
		}
	}
	return f, nil
}

func constantValueAt(pool *cpool.Pool, idx int) (any, error) {
	entry, err := pool.GetAny(idx)
	if err != nil {
		return nil, err
	}
	switch e := entry.(type) {
	case cpool.Integer:
		return e.Value, nil
	case cpool.Long:
		return e.Value, nil
	case cpool.Float:
		return e.Value, nil
	case cpool.Double:
		return e.Value, nil
	case cpool.String:
		return pool.GetUTF8(int(e.StringIndex))
	default:
		return nil, fmt.Errorf("classfile: ConstantValue index %d is not a constant entry", idx)
	}
}

func parseMethod(r *bytereader.Reader, pool *cpool.Pool, cf *Classfile) (MethodInfo, error) {
	var m MethodInfo
	var err error
	m.AccessFlags, err = r.U16("method access_flags")
	if err != nil {
		return m, err
	}
	nameIdx, err := r.U16("method name_index")
	if err != nil {
		return m, err
	}
	m.Name, err = pool.GetUTF8(int(nameIdx))
	if err != nil {
		return m, err
	}
	descIdx, err := r.U16("method descriptor_index")
	if err != nil {
		return m, err
	}
	m.Descriptor, err = pool.GetUTF8(int(descIdx))
	if err != nil {
		return m, err
	}
	m.Parsed, err = ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		return m, err
	}

	attrCount, err := r.U16("method attributes_count")
	if err != nil {
		return m, err
	}
	for i := 0; i < int(attrCount); i++ {
		name, body, err := readAttributeHeader(r, pool)
		if err != nil {
			return m, err
		}
		switch name {
		case "Code":
			code, err := parseCodeAttribute(body, pool, cf)
			if err != nil {
				return m, err
			}
			m.Code = code
		case "Exceptions":
			n, err := body.U16("number_of_exceptions")
			if err != nil {
				return m, err
			}
			for j := 0; j < int(n); j++ {
				idx, err := body.U16("exception_index_table entry")
				if err != nil {
					return m, err
				}
				name, err := resolveClassName(pool, int(idx))
				if err != nil {
					return m, err
				}
				m.Exceptions = append(m.Exceptions, name)
			}
		default:
			content, _ := body.NextBytes(body.Remaining(), name)
			m.RawAttributes = append(m.RawAttributes, RawAttribute{Name: name, Content: content})
		}
	}
	return m, nil
}

func parseClassAttribute(r *bytereader.Reader, pool *cpool.Pool, cf *Classfile) error {
	name, body, err := readAttributeHeader(r, pool)
	if err != nil {
		return err
	}
	switch name {
	case "BootstrapMethods":
		n, err := body.U16("num_bootstrap_methods")
		if err != nil {
			return err
		}
		for i := 0; i < int(n); i++ {
			ref, err := body.U16("bootstrap_method_ref")
			if err != nil {
				return err
			}
			argc, err := body.U16("num_bootstrap_arguments")
			if err != nil {
				return err
			}
			bm := BootstrapMethod{MethodRef: int(ref)}
			for j := 0; j < int(argc); j++ {
				a, err := body.U16("bootstrap_argument")
				if err != nil {
					return err
				}
				bm.Args = append(bm.Args, int(a))
			}
			cf.Bootstraps = append(cf.Bootstraps, bm)
		}
	case "SourceFile":
		idx, err := body.U16("sourcefile_index")
		if err != nil {
			return err
		}
		cf.SourceFile, err = pool.GetUTF8(int(idx))
		if err != nil {
			return err
		}
	default:
		content, _ := body.NextBytes(body.Remaining(), name)
		cf.RawAttributes = append(cf.RawAttributes, RawAttribute{Name: name, Content: content})
	}
	return nil
}
