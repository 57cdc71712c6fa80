package classfile

import "fmt"

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []AttributeInfo
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsClass() bool {
	return !cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsModule()
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool {
	return cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsEnum() bool {
	return cf.AccessFlags.IsEnum()
}

func (cf *ClassFile) IsModule() bool {
	return cf.AccessFlags.IsModule()
}

// Field looks up a declared field by name, or reports an error if none
// exists. This is the strict counterpart to GetField, following the same
// strict/lenient split as ConstantPool's entry/Get* pair.
func (cf *ClassFile) Field(name string) (*FieldInfo, error) {
	for i := range cf.Fields {
		if cf.Fields[i].Name(cf.ConstantPool) == name {
			return &cf.Fields[i], nil
		}
	}
	return nil, fmt.Errorf("no field named %q in %s", name, cf.ClassName())
}

// GetField is the lenient form of Field: nil instead of an error when the
// field is absent.
func (cf *ClassFile) GetField(name string) *FieldInfo {
	f, err := cf.Field(name)
	if err != nil {
		return nil
	}
	return f
}

// Method looks up a declared method by name and descriptor (descriptor
// may be empty to match the first method with the given name), or
// reports an error if none exists.
func (cf *ClassFile) Method(name, descriptor string) (*MethodInfo, error) {
	for i := range cf.Methods {
		if cf.Methods[i].Name(cf.ConstantPool) == name {
			if descriptor == "" || cf.Methods[i].Descriptor(cf.ConstantPool) == descriptor {
				return &cf.Methods[i], nil
			}
		}
	}
	return nil, fmt.Errorf("no method named %q with descriptor %q in %s", name, descriptor, cf.ClassName())
}

// GetMethod is the lenient form of Method.
func (cf *ClassFile) GetMethod(name, descriptor string) *MethodInfo {
	m, err := cf.Method(name, descriptor)
	if err != nil {
		return nil
	}
	return m
}

func (cf *ClassFile) GetMethods(name string) []*MethodInfo {
	var methods []*MethodInfo
	for i := range cf.Methods {
		if cf.Methods[i].Name(cf.ConstantPool) == name {
			methods = append(methods, &cf.Methods[i])
		}
	}
	return methods
}

// Attribute looks up a class-level attribute by its literal name, or
// reports an error if absent.
func (cf *ClassFile) Attribute(name string) (*AttributeInfo, error) {
	for i := range cf.Attributes {
		if cf.ConstantPool.GetUtf8(cf.Attributes[i].NameIndex) == name {
			return &cf.Attributes[i], nil
		}
	}
	return nil, fmt.Errorf("no %q attribute on %s", name, cf.ClassName())
}

// GetAttribute is the lenient form of Attribute.
func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	a, err := cf.Attribute(name)
	if err != nil {
		return nil
	}
	return a
}
