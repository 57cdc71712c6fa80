package format

import (
	"io"
	"strings"

	"github.com/glennimoss/java-decompyler/document"
	"github.com/glennimoss/java-decompyler/java"
)

// JavaEncoder renders a raw parsed class (java.Class) as Java source text.
// It only has access to what a class file directly carries — no record
// components, sealed-class permits, or other constructs that require the
// richer ClassModel decompilation. Unlike JavaModelEncoder's output, this
// is closer to a disassembly stub than reconstructed source.
type JavaEncoder struct {
	w     io.Writer
	class *java.Class
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w}
}

func (e *JavaEncoder) Encode(class *java.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	c := e.class
	doc := document.New("    ")

	if pkg := c.Package(); pkg != "" {
		doc.Append("package " + pkg + ";")
		doc.Append("")
	}

	header, body := doc.Block(" {", "}")
	header.Append(e.classDeclaration())

	fields := body.Section(true)
	for _, f := range c.Fields() {
		if f.IsSynthetic() {
			continue
		}
		fields.Append(e.fieldDeclaration(f) + ";")
	}

	methods := body.Section(false)
	first := true
	for _, m := range c.Methods() {
		if m.IsSynthetic() || m.IsBridge() || m.IsStaticInitializer() {
			continue
		}
		if !first {
			methods.Append("")
		}
		first = false
		decl := e.methodDeclaration(m)
		if m.IsAbstract() || m.IsNative() || c.IsInterface() {
			methods.Append(decl + ";")
		} else {
			methods.Append(decl + " { }")
		}
	}

	return []byte(doc.String() + "\n"), nil
}

func (e *JavaEncoder) classDeclaration() string {
	c := e.class
	var sb strings.Builder

	if c.IsPublic() {
		sb.WriteString("public ")
	}
	if c.IsAbstract() && !c.IsInterface() {
		sb.WriteString("abstract ")
	}
	if c.IsFinal() {
		sb.WriteString("final ")
	}

	switch {
	case c.IsAnnotation():
		sb.WriteString("@interface ")
	case c.IsEnum():
		sb.WriteString("enum ")
	case c.IsInterface():
		sb.WriteString("interface ")
	default:
		sb.WriteString("class ")
	}

	sb.WriteString(c.SimpleName())

	if sup := c.SuperClass(); sup != "" && sup != "java.lang.Object" && !c.IsEnum() {
		sb.WriteString(" extends ")
		sb.WriteString(sup)
	}

	if interfaces := c.Interfaces(); len(interfaces) > 0 {
		if c.IsInterface() {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		sb.WriteString(strings.Join(interfaces, ", "))
	}

	return sb.String()
}

func (e *JavaEncoder) fieldDeclaration(f java.Field) string {
	var sb strings.Builder
	switch f.Visibility() {
	case "public":
		sb.WriteString("public ")
	case "private":
		sb.WriteString("private ")
	case "protected":
		sb.WriteString("protected ")
	}
	if f.IsStatic() {
		sb.WriteString("static ")
	}
	if f.IsFinal() {
		sb.WriteString("final ")
	}
	if f.IsVolatile() {
		sb.WriteString("volatile ")
	}
	if f.IsTransient() {
		sb.WriteString("transient ")
	}
	sb.WriteString(f.Type().String())
	sb.WriteString(" ")
	sb.WriteString(f.Name())
	return sb.String()
}

func (e *JavaEncoder) methodDeclaration(m java.Method) string {
	var sb strings.Builder
	switch m.Visibility() {
	case "public":
		sb.WriteString("public ")
	case "private":
		sb.WriteString("private ")
	case "protected":
		sb.WriteString("protected ")
	}
	if m.IsStatic() {
		sb.WriteString("static ")
	}
	if m.IsFinal() {
		sb.WriteString("final ")
	}
	if m.IsAbstract() && !e.class.IsInterface() {
		sb.WriteString("abstract ")
	}
	if m.IsSynchronized() {
		sb.WriteString("synchronized ")
	}
	if m.IsNative() {
		sb.WriteString("native ")
	}

	if m.IsConstructor() {
		sb.WriteString(e.class.SimpleName())
	} else {
		sb.WriteString(m.ReturnType().String())
		sb.WriteString(" ")
		sb.WriteString(m.Name())
	}

	sb.WriteString("(")
	for i, p := range m.Parameters() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
		if p.Name != "" {
			sb.WriteString(" ")
			sb.WriteString(p.Name)
		}
	}
	sb.WriteString(")")

	if exceptions := m.Exceptions(); len(exceptions) > 0 {
		sb.WriteString(" throws ")
		sb.WriteString(strings.Join(exceptions, ", "))
	}
	return sb.String()
}
