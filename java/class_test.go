package java

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/glennimoss/java-decompyler/classfile"
)

// cpBuilder assembles a constant_pool byte stream for a hand-built test
// class, the same technique classfile's own parser tests use: real class
// files aren't available in this environment, so fixtures are built field
// by field instead of checked in as binary blobs.
type cpBuilder struct {
	buf   bytes.Buffer
	count uint16
}

func newCPBuilder() *cpBuilder { return &cpBuilder{count: 1} }

func (b *cpBuilder) u1(v uint8)  { b.buf.WriteByte(v) }
func (b *cpBuilder) u2(v uint16) { binary.Write(&b.buf, binary.BigEndian, v) }

func (b *cpBuilder) utf8(s string) uint16 {
	b.u1(uint8(classfile.ConstantUtf8))
	b.u2(uint16(len(s)))
	b.buf.WriteString(s)
	idx := b.count
	b.count++
	return idx
}

func (b *cpBuilder) class(nameIdx uint16) uint16 {
	b.u1(uint8(classfile.ConstantClass))
	b.u2(nameIdx)
	idx := b.count
	b.count++
	return idx
}

// classBuilder lays out a full class file around a cpBuilder: this/super
// class, its interfaces, a handful of fields and methods, all written with
// no attributes.
type classBuilder struct {
	cp         *cpBuilder
	thisClass  uint16
	superClass uint16
	interfaces []uint16
	fields     []fieldSpec
	methods    []methodSpec
}

type fieldSpec struct {
	flags classfile.AccessFlags
	name  uint16
	desc  uint16
}

type methodSpec struct {
	flags classfile.AccessFlags
	name  uint16
	desc  uint16
}

func (c *classBuilder) addField(flags classfile.AccessFlags, name, desc string) {
	c.fields = append(c.fields, fieldSpec{flags, c.cp.utf8(name), c.cp.utf8(desc)})
}

func (c *classBuilder) addMethod(flags classfile.AccessFlags, name, desc string) {
	c.methods = append(c.methods, methodSpec{flags, c.cp.utf8(name), c.cp.utf8(desc)})
}

func (c *classBuilder) bytes() []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(classfile.Magic))
	binary.Write(&out, binary.BigEndian, uint16(0))  // minor
	binary.Write(&out, binary.BigEndian, uint16(52)) // major
	binary.Write(&out, binary.BigEndian, c.cp.count)
	out.Write(c.cp.buf.Bytes())
	binary.Write(&out, binary.BigEndian, uint16(classfile.AccPublic))
	binary.Write(&out, binary.BigEndian, c.thisClass)
	binary.Write(&out, binary.BigEndian, c.superClass)
	binary.Write(&out, binary.BigEndian, uint16(len(c.interfaces)))
	for _, i := range c.interfaces {
		binary.Write(&out, binary.BigEndian, i)
	}
	binary.Write(&out, binary.BigEndian, uint16(len(c.fields)))
	for _, f := range c.fields {
		binary.Write(&out, binary.BigEndian, uint16(f.flags))
		binary.Write(&out, binary.BigEndian, f.name)
		binary.Write(&out, binary.BigEndian, f.desc)
		binary.Write(&out, binary.BigEndian, uint16(0)) // attributes_count
	}
	binary.Write(&out, binary.BigEndian, uint16(len(c.methods)))
	for _, m := range c.methods {
		binary.Write(&out, binary.BigEndian, uint16(m.flags))
		binary.Write(&out, binary.BigEndian, m.name)
		binary.Write(&out, binary.BigEndian, m.desc)
		binary.Write(&out, binary.BigEndian, uint16(0)) // attributes_count
	}
	binary.Write(&out, binary.BigEndian, uint16(0)) // class attributes_count
	return out.Bytes()
}

// testClass builds testdata/TestClass: public, implements Runnable, with
// one constant int field, one String field, one plain int field, two
// constructors and three methods, covering the visibility/static/final combinations the rest of
// this file's tests check against.
func testClass() *Class {
	cp := newCPBuilder()
	objName := cp.utf8("java/lang/Object")
	objClass := cp.class(objName)
	runnableName := cp.utf8("java/lang/Runnable")
	runnableClass := cp.class(runnableName)
	thisName := cp.utf8("testdata/TestClass")
	thisClass := cp.class(thisName)

	cb := &classBuilder{cp: cp, thisClass: thisClass, superClass: objClass, interfaces: []uint16{runnableClass}}

	cb.addField(classfile.AccPublic|classfile.AccStatic|classfile.AccFinal, "CONSTANT_VALUE", "I")
	cb.addField(classfile.AccPrivate, "name", "Ljava/lang/String;")
	cb.addField(classfile.AccPrivate, "count", "I")

	cb.addMethod(classfile.AccPublic, "<init>", "()V")
	cb.addMethod(classfile.AccPublic, "<init>", "(Ljava/lang/String;)V")
	cb.addMethod(classfile.AccPublic, "getName", "()Ljava/lang/String;")
	cb.addMethod(classfile.AccPublic, "setName", "(Ljava/lang/String;)V")
	cb.addMethod(classfile.AccPrivate|classfile.AccStatic, "helper", "(II)I")

	data := cb.bytes()
	c, err := ParseClass(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	return c
}

func TestParseClass(t *testing.T) {
	c := testClass()

	t.Run("class name", func(t *testing.T) {
		if got := c.Name(); got != "testdata.TestClass" {
			t.Errorf("Name() = %q, want %q", got, "testdata.TestClass")
		}
	})

	t.Run("simple name", func(t *testing.T) {
		if got := c.SimpleName(); got != "TestClass" {
			t.Errorf("SimpleName() = %q, want %q", got, "TestClass")
		}
	})

	t.Run("package", func(t *testing.T) {
		if got := c.Package(); got != "testdata" {
			t.Errorf("Package() = %q, want %q", got, "testdata")
		}
	})

	t.Run("super class", func(t *testing.T) {
		if got := c.SuperClass(); got != "java.lang.Object" {
			t.Errorf("SuperClass() = %q, want %q", got, "java.lang.Object")
		}
	})

	t.Run("interfaces", func(t *testing.T) {
		interfaces := c.Interfaces()
		if len(interfaces) != 1 {
			t.Fatalf("Expected 1 interface, got %d", len(interfaces))
		}
		if interfaces[0] != "java.lang.Runnable" {
			t.Errorf("Interface[0] = %q, want %q", interfaces[0], "java.lang.Runnable")
		}
	})

	t.Run("is class", func(t *testing.T) {
		if !c.IsClass() {
			t.Error("Expected IsClass() to be true")
		}
		if c.IsInterface() {
			t.Error("Expected IsInterface() to be false")
		}
	})

	t.Run("visibility", func(t *testing.T) {
		if c.Visibility() != "public" {
			t.Errorf("Visibility() = %q, want %q", c.Visibility(), "public")
		}
	})
}

func TestClassFields(t *testing.T) {
	c := testClass()

	t.Run("fields count", func(t *testing.T) {
		fields := c.Fields()
		if len(fields) != 3 {
			t.Fatalf("Expected 3 fields, got %d", len(fields))
		}
	})

	t.Run("CONSTANT_VALUE field", func(t *testing.T) {
		f := c.Field("CONSTANT_VALUE")
		if f == nil {
			t.Fatal("Expected to find CONSTANT_VALUE field")
		}
		if f.Name() != "CONSTANT_VALUE" {
			t.Errorf("Name() = %q, want %q", f.Name(), "CONSTANT_VALUE")
		}
		if f.Type().String() != "int" {
			t.Errorf("Type() = %q, want %q", f.Type().String(), "int")
		}
		if !f.IsPublic() || !f.IsStatic() || !f.IsFinal() {
			t.Error("CONSTANT_VALUE should be public static final")
		}
		if f.Visibility() != "public" {
			t.Errorf("Visibility() = %q, want %q", f.Visibility(), "public")
		}
	})

	t.Run("name field", func(t *testing.T) {
		f := c.Field("name")
		if f == nil {
			t.Fatal("Expected to find name field")
		}
		if f.Type().String() != "java.lang.String" {
			t.Errorf("Type() = %q, want %q", f.Type().String(), "java.lang.String")
		}
		if !f.IsPrivate() {
			t.Error("name should be private")
		}
	})

	t.Run("constructors", func(t *testing.T) {
		constructors := c.Constructors()
		if len(constructors) != 2 {
			t.Fatalf("Expected 2 constructors, got %d", len(constructors))
		}
		for _, ctor := range constructors {
			if !ctor.IsConstructor() {
				t.Error("Expected constructor to report IsConstructor() = true")
			}
		}
	})

	t.Run("getName method", func(t *testing.T) {
		m := c.Method("getName")
		if m == nil {
			t.Fatal("Expected to find getName method")
		}
		if m.Name() != "getName" {
			t.Errorf("Name() = %q, want %q", m.Name(), "getName")
		}
		if m.ReturnType().String() != "java.lang.String" {
			t.Errorf("ReturnType() = %q, want %q", m.ReturnType().String(), "java.lang.String")
		}
		if m.ParameterCount() != 0 {
			t.Errorf("ParameterCount() = %d, want %d", m.ParameterCount(), 0)
		}
		if !m.IsPublic() {
			t.Error("getName should be public")
		}
	})

	t.Run("setName method", func(t *testing.T) {
		m := c.Method("setName")
		if m == nil {
			t.Fatal("Expected to find setName method")
		}
		if m.ReturnType().String() != "void" {
			t.Errorf("ReturnType() = %q, want %q", m.ReturnType().String(), "void")
		}
		if m.ParameterCount() != 1 {
			t.Fatalf("ParameterCount() = %d, want %d", m.ParameterCount(), 1)
		}
		params := m.Parameters()
		if params[0].Type.String() != "java.lang.String" {
			t.Errorf("Parameter[0].Type = %q, want %q", params[0].Type.String(), "java.lang.String")
		}
	})

	t.Run("helper method", func(t *testing.T) {
		m := c.Method("helper")
		if m == nil {
			t.Fatal("Expected to find helper method")
		}
		if !m.IsPrivate() || !m.IsStatic() {
			t.Error("helper should be private static")
		}
		if m.ReturnType().String() != "int" {
			t.Errorf("ReturnType() = %q, want %q", m.ReturnType().String(), "int")
		}
		if m.ParameterCount() != 2 {
			t.Fatalf("ParameterCount() = %d, want %d", m.ParameterCount(), 2)
		}
		params := m.Parameters()
		if params[0].Type.String() != "int" || params[1].Type.String() != "int" {
			t.Errorf("Parameters should both be int")
		}
	})

	t.Run("method visibility", func(t *testing.T) {
		getName := c.Method("getName")
		if getName.Visibility() != "public" {
			t.Errorf("getName.Visibility() = %q, want %q", getName.Visibility(), "public")
		}

		helper := c.Method("helper")
		if helper.Visibility() != "private" {
			t.Errorf("helper.Visibility() = %q, want %q", helper.Visibility(), "private")
		}
	})
}

func TestMethodString(t *testing.T) {
	c := testClass()

	t.Run("getName", func(t *testing.T) {
		m := c.Method("getName")
		got := m.String()
		if got != "public java.lang.String getName()" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("helper", func(t *testing.T) {
		m := c.Method("helper")
		got := m.String()
		if got != "private static int helper(int, int)" {
			t.Errorf("String() = %q", got)
		}
	})
}

func TestType(t *testing.T) {
	tests := []struct {
		typ       Type
		str       string
		primitive bool
		array     bool
		void      bool
	}{
		{Type{Name: "int"}, "int", true, false, false},
		{Type{Name: "boolean"}, "boolean", true, false, false},
		{Type{Name: "java.lang.String"}, "java.lang.String", false, false, false},
		{Type{Name: "int", ArrayDepth: 1}, "int[]", false, true, false},
		{Type{Name: "java.lang.Object", ArrayDepth: 2}, "java.lang.Object[][]", false, true, false},
		{Type{Name: "void"}, "void", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.typ.IsPrimitive(); got != tt.primitive {
				t.Errorf("IsPrimitive() = %v, want %v", got, tt.primitive)
			}
			if got := tt.typ.IsArray(); got != tt.array {
				t.Errorf("IsArray() = %v, want %v", got, tt.array)
			}
			if got := tt.typ.IsVoid(); got != tt.void {
				t.Errorf("IsVoid() = %v, want %v", got, tt.void)
			}
		})
	}
}

func TestTypeElementType(t *testing.T) {
	arr := Type{Name: "int", ArrayDepth: 2}
	elem := arr.ElementType()
	if elem.ArrayDepth != 1 || elem.Name != "int" {
		t.Errorf("ElementType() = %v, want int[]", elem)
	}

	single := Type{Name: "int"}
	sameElem := single.ElementType()
	if sameElem.ArrayDepth != 0 || sameElem.Name != "int" {
		t.Errorf("ElementType() on non-array = %v, want int", sameElem)
	}
}
