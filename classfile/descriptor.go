/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"strings"

	"github.com/glassvm/glassvm/types"
)

// DescKind classifies one parsed field-descriptor entry.
type DescKind byte

const (
	DescPrimitive DescKind = iota
	DescReference
	DescArray
	DescVoid
)

// FieldType is one parsed entry of the field/method descriptor grammar
// (JVMS §4.3): a primitive, a class reference, an array, or (return
// position only) void.
type FieldType struct {
	Kind      DescKind
	Primitive types.Primitive // valid when Kind == DescPrimitive
	ClassName string          // valid when Kind == DescReference: internal name, no L/; wrapper
	Element   *FieldType      // valid when Kind == DescArray
	Dims      int             // valid when Kind == DescArray: total bracket depth
	Raw       string          // the descriptor text consumed for this entry
}

// Category returns the number of frame slots this type occupies: 2 for
// long/double, 1 for everything else (including void, which never appears
// as a value but is given a category for completeness).
func (f FieldType) Category() int {
	if f.Kind == DescPrimitive && (f.Primitive == types.Long || f.Primitive == types.Double) {
		return 2
	}
	return 1
}

// ArrayInternalName reconstructs the JVM internal name for this type when
// used as an array element, e.g. "I" for int, "Ljava/lang/String;" for a
// reference, "[I" for int[].
func (f FieldType) ArrayInternalName() string {
	switch f.Kind {
	case DescPrimitive:
		return primitiveDescriptorLetter(f.Primitive)
	case DescReference:
		return "L" + f.ClassName + ";"
	case DescArray:
		dims := f.Dims
		if dims < 1 {
			dims = 1
		}
		return strings.Repeat("[", dims) + f.Element.ArrayInternalName()
	default:
		return ""
	}
}

func primitiveDescriptorLetter(p types.Primitive) string {
	switch p {
	case types.Byte:
		return "B"
	case types.Char:
		return "C"
	case types.Double:
		return "D"
	case types.Float:
		return "F"
	case types.Int:
		return "I"
	case types.Long:
		return "J"
	case types.Short:
		return "S"
	case types.Boolean:
		return "Z"
	default:
		return "?"
	}
}

// descCursor walks a descriptor string one rune at a time.
type descCursor struct {
	s   string
	pos int
}

func (c *descCursor) peek() (byte, bool) {
	if c.pos >= len(c.s) {
		return 0, false
	}
	return c.s[c.pos], true
}

// parseOne parses exactly one descriptor entry starting at the cursor,
// allowing 'V' only when allowVoid is set (i.e. in return position).
func parseOne(c *descCursor, full string, allowVoid bool) (FieldType, error) {
	start := c.pos
	b, ok := c.peek()
	if !ok {
		return FieldType{}, &BadDescriptorError{Descriptor: full, Reason: "unexpected end of descriptor"}
	}
	switch b {
	case 'B':
		c.pos++
		return FieldType{Kind: DescPrimitive, Primitive: types.Byte, Raw: "B"}, nil
	case 'C':
		c.pos++
		return FieldType{Kind: DescPrimitive, Primitive: types.Char, Raw: "C"}, nil
	case 'D':
		c.pos++
		return FieldType{Kind: DescPrimitive, Primitive: types.Double, Raw: "D"}, nil
	case 'F':
		c.pos++
		return FieldType{Kind: DescPrimitive, Primitive: types.Float, Raw: "F"}, nil
	case 'I':
		c.pos++
		return FieldType{Kind: DescPrimitive, Primitive: types.Int, Raw: "I"}, nil
	case 'J':
		c.pos++
		return FieldType{Kind: DescPrimitive, Primitive: types.Long, Raw: "J"}, nil
	case 'S':
		c.pos++
		return FieldType{Kind: DescPrimitive, Primitive: types.Short, Raw: "S"}, nil
	case 'Z':
		c.pos++
		return FieldType{Kind: DescPrimitive, Primitive: types.Boolean, Raw: "Z"}, nil
	case 'V':
		if !allowVoid {
			return FieldType{}, &BadDescriptorError{Descriptor: full, Reason: "'V' is only valid as a return type"}
		}
		c.pos++
		return FieldType{Kind: DescVoid, Raw: "V"}, nil
	case 'L':
		end := strings.IndexByte(c.s[c.pos:], ';')
		if end < 0 {
			return FieldType{}, &BadDescriptorError{Descriptor: full, Reason: "unterminated class reference (missing ';')"}
		}
		name := c.s[c.pos+1 : c.pos+end]
		if name == "" {
			return FieldType{}, &BadDescriptorError{Descriptor: full, Reason: "empty class reference"}
		}
		c.pos += end + 1
		return FieldType{Kind: DescReference, ClassName: name, Raw: c.s[start:c.pos]}, nil
	case '[':
		c.pos++
		dims := 1
		for {
			nb, ok := c.peek()
			if ok && nb == '[' {
				dims++
				c.pos++
				continue
			}
			break
		}
		elem, err := parseOne(c, full, false)
		if err != nil {
			return FieldType{}, err
		}
		return FieldType{Kind: DescArray, Element: &elem, Dims: dims, Raw: c.s[start:c.pos]}, nil
	default:
		return FieldType{}, &BadDescriptorError{Descriptor: full, Reason: "unrecognized descriptor character '" + string(b) + "'"}
	}
}

// ParseFieldDescriptor parses a single field descriptor, e.g. "I",
// "[Ljava/lang/String;", or "Ljava/lang/Object;". 'V' is rejected.
func ParseFieldDescriptor(desc string) (FieldType, error) {
	c := &descCursor{s: desc}
	ft, err := parseOne(c, desc, false)
	if err != nil {
		return FieldType{}, err
	}
	if c.pos != len(desc) {
		return FieldType{}, &BadDescriptorError{Descriptor: desc, Reason: "trailing characters after field type"}
	}
	return ft, nil
}

// MethodDescriptor is a parsed "(params)return" method descriptor.
type MethodDescriptor struct {
	Params []FieldType
	Return FieldType
	Raw    string
}

// ArgSlots returns the number of local-variable slots the parameters
// occupy, counting longs/doubles as 2.
func (m MethodDescriptor) ArgSlots() int {
	n := 0
	for _, p := range m.Params {
		n += p.Category()
	}
	return n
}

// ParseMethodDescriptor parses a method descriptor of the form
// "(ParamType*)ReturnType", where ReturnType may be 'V'.
func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return MethodDescriptor{}, &BadDescriptorError{Descriptor: desc, Reason: "method descriptor must start with '('"}
	}
	c := &descCursor{s: desc, pos: 1}
	var params []FieldType
	for {
		b, ok := c.peek()
		if !ok {
			return MethodDescriptor{}, &BadDescriptorError{Descriptor: desc, Reason: "unterminated parameter list"}
		}
		if b == ')' {
			c.pos++
			break
		}
		p, err := parseOne(c, desc, false)
		if err != nil {
			return MethodDescriptor{}, err
		}
		params = append(params, p)
	}
	ret, err := parseOne(c, desc, true)
	if err != nil {
		return MethodDescriptor{}, err
	}
	if c.pos != len(desc) {
		return MethodDescriptor{}, &BadDescriptorError{Descriptor: desc, Reason: "trailing characters after return type"}
	}
	return MethodDescriptor{Params: params, Return: ret, Raw: desc}, nil
}
