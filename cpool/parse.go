/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package cpool

import (
	"fmt"

	"github.com/glassvm/glassvm/bytereader"
)

// Parse reads a constant pool from r. count is the class file's
// constant_pool_count field; the pool holds count-1 addressable slots plus
// the reserved index 0.
func Parse(r *bytereader.Reader, count int) (*Pool, error) {
	if count < 1 {
		return nil, fmt.Errorf("cpool: invalid constant_pool_count %d", count)
	}
	p := &Pool{Entries: make([]Entry, count)}
	p.Entries[0] = Invalid{}

	for i := 1; i < count; i++ {
		tagByte, err := r.U8("constant pool tag")
		if err != nil {
			return nil, err
		}
		entry, extraSlot, err := parseEntry(r, Tag(tagByte))
		if err != nil {
			return nil, err
		}
		p.Entries[i] = entry
		if extraSlot {
			i++
			if i >= count {
				return nil, fmt.Errorf("cpool: long/double entry at index %d has no room for its filler slot", i-1)
			}
			p.Entries[i] = Invalid{}
		}
	}
	return p, nil
}

// parseEntry decodes one tagged entry. extraSlot is true for Long and
// Double, which occupy the following index as an unaddressable filler.
func parseEntry(r *bytereader.Reader, tag Tag) (Entry, bool, error) {
	switch tag {
	case TagUTF8:
		n, err := r.U16("UTF-8 length")
		if err != nil {
			return nil, false, err
		}
		b, err := r.NextBytes(int(n), "UTF-8 bytes")
		if err != nil {
			return nil, false, err
		}
		return UTF8{Value: decodeModifiedUTF8(b)}, false, nil
	case TagInteger:
		v, err := r.I32("Integer value")
		return Integer{Value: v}, false, err
	case TagFloat:
		v, err := r.F32("Float value")
		return Float{Value: v}, false, err
	case TagLong:
		v, err := r.I64("Long value")
		return Long{Value: v}, true, err
	case TagDouble:
		v, err := r.F64("Double value")
		return Double{Value: v}, true, err
	case TagClass:
		idx, err := r.U16("Class name_index")
		return Class{NameIndex: idx}, false, err
	case TagString:
		idx, err := r.U16("String string_index")
		return String{StringIndex: idx}, false, err
	case TagFieldref:
		ci, err := r.U16("Fieldref class_index")
		if err != nil {
			return nil, false, err
		}
		nt, err := r.U16("Fieldref name_and_type_index")
		return Fieldref{ClassIndex: ci, NameAndTypeIndex: nt}, false, err
	case TagMethodref:
		ci, err := r.U16("Methodref class_index")
		if err != nil {
			return nil, false, err
		}
		nt, err := r.U16("Methodref name_and_type_index")
		return Methodref{ClassIndex: ci, NameAndTypeIndex: nt}, false, err
	case TagInterfaceMethodref:
		ci, err := r.U16("InterfaceMethodref class_index")
		if err != nil {
			return nil, false, err
		}
		nt, err := r.U16("InterfaceMethodref name_and_type_index")
		return InterfaceMethodref{ClassIndex: ci, NameAndTypeIndex: nt}, false, err
	case TagNameAndType:
		ni, err := r.U16("NameAndType name_index")
		if err != nil {
			return nil, false, err
		}
		di, err := r.U16("NameAndType descriptor_index")
		return NameAndType{NameIndex: ni, DescriptorIndex: di}, false, err
	case TagMethodHandle:
		rk, err := r.U8("MethodHandle reference_kind")
		if err != nil {
			return nil, false, err
		}
		ri, err := r.U16("MethodHandle reference_index")
		return MethodHandle{ReferenceKind: rk, ReferenceIndex: ri}, false, err
	case TagMethodType:
		di, err := r.U16("MethodType descriptor_index")
		return MethodType{DescriptorIndex: di}, false, err
	case TagInvokeDynamic:
		bi, err := r.U16("InvokeDynamic bootstrap_method_attr_index")
		if err != nil {
			return nil, false, err
		}
		nt, err := r.U16("InvokeDynamic name_and_type_index")
		return InvokeDynamic{BootstrapMethodAttrIndex: bi, NameAndTypeIndex: nt}, false, err
	default:
		return nil, false, fmt.Errorf("cpool: unknown constant pool tag %d", tag)
	}
}

// decodeModifiedUTF8 decodes the JVM's Modified UTF-8 encoding (JVMS §4.4.7)
// into a Go string. It differs from standard UTF-8 only in how it encodes
// the NUL character and supplementary characters (as a pair of 3-byte
// surrogate sequences); we decode both forms permissively.
func decodeModifiedUTF8(b []byte) string {
	runes := make([]rune, 0, len(b))
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c&0x80 == 0: // 1-byte: 0xxxxxxx
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b): // 2-byte: 110xxxxx 10xxxxxx
			r := rune(c&0x1F)<<6 | rune(b[i+1]&0x3F)
			runes = append(runes, r)
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b): // 3-byte: 1110xxxx 10xxxxxx 10xxxxxx
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
			// A high surrogate followed by a 3-byte low surrogate is one
			// supplementary character.
			if r >= 0xD800 && r <= 0xDBFF && i+2 < len(b) && b[i]&0xF0 == 0xE0 {
				lo := rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
				if lo >= 0xDC00 && lo <= 0xDFFF {
					r = 0x10000 + (r-0xD800)<<10 + (lo - 0xDC00)
					i += 3
				}
			}
			runes = append(runes, r)
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
