package classfile

import "strings"

// FieldType is a decoded field descriptor: either a primitive (BaseType
// set), a class reference (ClassName set, internal form, slashes not
// dots), or either of those wrapped in ArrayDepth levels of array.
type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else if ft.ClassName != "" {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft *FieldType) IsArray() bool     { return ft.ArrayDepth > 0 }
func (ft *FieldType) IsPrimitive() bool { return ft.BaseType != "" && ft.ClassName == "" }
func (ft *FieldType) IsReference() bool { return ft.ClassName != "" || ft.ArrayDepth > 0 }

// MethodDescriptor is a decoded method descriptor: an ordered parameter
// list plus a return type (nil ReturnType means void).
type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType *FieldType
}

func (md *MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range md.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if md.ReturnType != nil {
		sb.WriteString(" ")
		sb.WriteString(md.ReturnType.String())
	} else {
		sb.WriteString(" void")
	}
	return sb.String()
}

// ParseFieldDescriptor parses a single field_descriptor string (JVM spec
// §4.3.2), failing with MalformedDescriptor if desc is not exactly one
// well-formed field type.
func ParseFieldDescriptor(desc string) (*FieldType, error) {
	ft, consumed, err := parseFieldType(desc, 0)
	if err != nil {
		return nil, err
	}
	if consumed != len(desc) {
		return nil, newParseError(MalformedDescriptor, 0, "trailing data in field descriptor %q", desc)
	}
	return ft, nil
}

// ParseMethodDescriptor parses a method_descriptor string (JVM spec
// §4.3.3): a parenthesized parameter list followed by a return type or
// 'V' for void.
func ParseMethodDescriptor(desc string) (*MethodDescriptor, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, newParseError(MalformedDescriptor, 0, "method descriptor %q missing leading (", desc)
	}

	md := &MethodDescriptor{}
	i := 1

	for i < len(desc) && desc[i] != ')' {
		ft, consumed, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		md.Parameters = append(md.Parameters, *ft)
		i += consumed
	}

	if i >= len(desc) || desc[i] != ')' {
		return nil, newParseError(MalformedDescriptor, 0, "method descriptor %q missing closing )", desc)
	}
	i++

	if i >= len(desc) {
		return nil, newParseError(MalformedDescriptor, 0, "method descriptor %q missing return type", desc)
	}
	if desc[i] == 'V' && i == len(desc)-1 {
		md.ReturnType = nil
		return md, nil
	}
	ret, consumed, err := parseFieldType(desc, i)
	if err != nil {
		return nil, err
	}
	if i+consumed != len(desc) {
		return nil, newParseError(MalformedDescriptor, 0, "trailing data in method descriptor %q", desc)
	}
	md.ReturnType = ret
	return md, nil
}

// parseFieldType decodes one field type starting at start, returning the
// number of bytes consumed.
func parseFieldType(desc string, start int) (*FieldType, int, error) {
	if start >= len(desc) {
		return nil, 0, newParseError(MalformedDescriptor, start, "expected field type, found end of string")
	}

	ft := &FieldType{}
	i := start

	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}

	if i >= len(desc) {
		return nil, 0, newParseError(MalformedDescriptor, start, "array descriptor %q missing element type", desc[start:])
	}

	switch desc[i] {
	case 'B':
		ft.BaseType = "byte"
	case 'C':
		ft.BaseType = "char"
	case 'D':
		ft.BaseType = "double"
	case 'F':
		ft.BaseType = "float"
	case 'I':
		ft.BaseType = "int"
	case 'J':
		ft.BaseType = "long"
	case 'S':
		ft.BaseType = "short"
	case 'Z':
		ft.BaseType = "boolean"
	case 'L':
		semicolon := strings.IndexByte(desc[i:], ';')
		if semicolon == -1 {
			return nil, 0, newParseError(MalformedDescriptor, start, "class descriptor %q missing terminating ;", desc[start:])
		}
		ft.ClassName = desc[i+1 : i+semicolon]
		return ft, i - start + semicolon + 1, nil
	default:
		return nil, 0, newParseError(MalformedDescriptor, start, "unrecognized descriptor character %q", desc[i])
	}
	return ft, i - start + 1, nil
}

// InternalToSourceName converts an internal binary class name (slash
// separated) to its source form (dot separated).
func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

// SourceToInternalName converts a source-form class name (dot separated)
// to its internal binary form (slash separated).
func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
