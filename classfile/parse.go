package classfile

import (
	"fmt"
	"io"
	"os"
)

// ParseFile opens path and parses it as a class file.
func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a complete class file from rd (JVM spec §4.1's
// ClassFile structure, top to bottom): magic, version, constant pool,
// access flags, this/super/interfaces, fields, methods, attributes.
func Parse(rd io.Reader) (*ClassFile, error) {
	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("reading class file: %w", err)
	}

	r := NewByteReader(raw)

	if err := checkMagic(r); err != nil {
		return nil, fmt.Errorf("parsing magic: %w", err)
	}

	cf := &ClassFile{}
	if cf.MinorVersion, err = r.U2(); err != nil {
		return nil, fmt.Errorf("parsing minor_version: %w", err)
	}
	if cf.MajorVersion, err = r.U2(); err != nil {
		return nil, fmt.Errorf("parsing major_version: %w", err)
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, fmt.Errorf("parsing constant pool: %w", err)
	}
	cf.ConstantPool = cp
	r.BindPool(&cf.ConstantPool)

	flags, err := r.U2()
	if err != nil {
		return nil, fmt.Errorf("parsing access_flags: %w", err)
	}
	cf.AccessFlags = AccessFlags(flags)

	if cf.ThisClass, err = r.U2(); err != nil {
		return nil, fmt.Errorf("parsing this_class: %w", err)
	}
	if cf.SuperClass, err = r.U2(); err != nil {
		return nil, fmt.Errorf("parsing super_class: %w", err)
	}

	interfacesCount, err := r.U2()
	if err != nil {
		return nil, fmt.Errorf("parsing interfaces_count: %w", err)
	}
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		if cf.Interfaces[i], err = r.U2(); err != nil {
			return nil, fmt.Errorf("parsing interfaces[%d]: %w", i, err)
		}
	}

	fieldsCount, err := r.U2()
	if err != nil {
		return nil, fmt.Errorf("parsing fields_count: %w", err)
	}
	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := range cf.Fields {
		field, err := parseFieldInfo(r)
		if err != nil {
			return nil, fmt.Errorf("parsing fields[%d]: %w", i, err)
		}
		cf.Fields[i] = *field
	}

	methodsCount, err := r.U2()
	if err != nil {
		return nil, fmt.Errorf("parsing methods_count: %w", err)
	}
	cf.Methods = make([]MethodInfo, methodsCount)
	for i := range cf.Methods {
		method, err := parseMethodInfo(r)
		if err != nil {
			return nil, fmt.Errorf("parsing methods[%d]: %w", i, err)
		}
		cf.Methods[i] = *method
	}

	attrs, err := parseAttributes(r)
	if err != nil {
		return nil, fmt.Errorf("parsing attributes: %w", err)
	}
	cf.Attributes = attrs

	return cf, nil
}

func checkMagic(r *ByteReader) error {
	b, err := r.Read(4)
	if err != nil {
		return err
	}
	magic := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	if magic != Magic {
		return newParseError(BadMagic, 0, "0x%08X", magic)
	}
	return nil
}

func parseFieldInfo(r *ByteReader) (*FieldInfo, error) {
	flags, err := r.U2()
	if err != nil {
		return nil, err
	}
	nameIndex, err := r.U2()
	if err != nil {
		return nil, err
	}
	descIndex, err := r.U2()
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributes(r)
	if err != nil {
		return nil, err
	}
	return &FieldInfo{
		AccessFlags:     AccessFlags(flags),
		NameIndex:       nameIndex,
		DescriptorIndex: descIndex,
		Attributes:      attrs,
	}, nil
}

func parseMethodInfo(r *ByteReader) (*MethodInfo, error) {
	flags, err := r.U2()
	if err != nil {
		return nil, err
	}
	nameIndex, err := r.U2()
	if err != nil {
		return nil, err
	}
	descIndex, err := r.U2()
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributes(r)
	if err != nil {
		return nil, err
	}
	return &MethodInfo{
		AccessFlags:     AccessFlags(flags),
		NameIndex:       nameIndex,
		DescriptorIndex: descIndex,
		Attributes:      attrs,
	}, nil
}
