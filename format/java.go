package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/glennimoss/java-decompyler/document"
	"github.com/glennimoss/java-decompyler/java"
)

// JavaModelEncoder renders a decompiled class model as Java source text,
// using a document.Document (spec §4.7's pretty-printer) to lay out the
// class body's brace block and blank-line-separated field/method
// sections. Unlike LineEncoder and JSONEncoder, which project the raw
// parsed class, this works from a java.ClassModel: the richer,
// already-decompiled shape that carries record components, sealed-class
// permits, and annotation values.
type JavaModelEncoder struct {
	w     io.Writer
	model *java.ClassModel
}

func NewJavaModelEncoder(w io.Writer) *JavaModelEncoder {
	return &JavaModelEncoder{w: w}
}

func (e *JavaModelEncoder) Encode(model *java.ClassModel) error {
	e.model = model
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaModelEncoder) MarshalText() ([]byte, error) {
	m := e.model
	doc := document.New("    ")

	if m.Package != "" {
		doc.Append("package " + m.Package + ";")
		doc.Append("")
	}

	header, body := doc.Block(" {", "}")
	header.Append(e.classDeclaration())

	fields := body.Section(true)
	for _, f := range m.Fields {
		if f.IsSynthetic {
			continue
		}
		fields.Append(e.fieldDeclaration(f) + ";")
	}

	methods := body.Section(false)
	first := true
	for _, meth := range m.Methods {
		if meth.IsSynthetic || meth.IsBridge || meth.Name == "<clinit>" {
			continue
		}
		if !first {
			methods.Append("")
		}
		first = false
		decl := e.methodDeclaration(meth)
		if meth.IsAbstract || meth.IsNative || m.Kind == java.ClassKindInterface {
			methods.Append(decl + ";")
		} else {
			methods.Append(decl + " { }")
		}
	}

	return []byte(doc.String() + "\n"), nil
}

func (e *JavaModelEncoder) classDeclaration() string {
	m := e.model
	var sb strings.Builder

	e.writeAnnotationPrefix(&sb, m.Annotations)

	if m.Visibility == java.VisibilityPublic {
		sb.WriteString("public ")
	}
	isRecord := m.Kind == java.ClassKindRecord
	isInterface := m.Kind == java.ClassKindInterface
	if m.IsAbstract && !isInterface && !m.IsSealed {
		sb.WriteString("abstract ")
	}
	if m.IsSealed {
		sb.WriteString("sealed ")
	}
	if m.IsFinal && !isRecord {
		sb.WriteString("final ")
	}

	switch m.Kind {
	case java.ClassKindAnnotation:
		sb.WriteString("@interface ")
	case java.ClassKindEnum:
		sb.WriteString("enum ")
	case java.ClassKindRecord:
		sb.WriteString("record ")
	case java.ClassKindInterface:
		sb.WriteString("interface ")
	default:
		sb.WriteString("class ")
	}

	sb.WriteString(m.SimpleName)

	if isRecord {
		sb.WriteString(e.recordComponents())
	}

	if m.SuperClass != "" && m.SuperClass != "java.lang.Object" && m.SuperClass != "java.lang.Record" && m.Kind != java.ClassKindEnum {
		sb.WriteString(" extends ")
		sb.WriteString(m.SuperClass)
	}

	if len(m.Interfaces) > 0 {
		if isInterface {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		sb.WriteString(strings.Join(m.Interfaces, ", "))
	}

	if len(m.PermittedSubclasses) > 0 {
		sb.WriteString(" permits ")
		sb.WriteString(strings.Join(m.PermittedSubclasses, ", "))
	}

	return sb.String()
}

func (e *JavaModelEncoder) fieldDeclaration(f java.FieldModel) string {
	var sb strings.Builder
	e.writeAnnotationPrefix(&sb, f.Annotations)
	switch f.Visibility {
	case java.VisibilityPublic:
		sb.WriteString("public ")
	case java.VisibilityPrivate:
		sb.WriteString("private ")
	case java.VisibilityProtected:
		sb.WriteString("protected ")
	}
	if f.IsStatic {
		sb.WriteString("static ")
	}
	if f.IsFinal {
		sb.WriteString("final ")
	}
	if f.IsVolatile {
		sb.WriteString("volatile ")
	}
	if f.IsTransient {
		sb.WriteString("transient ")
	}
	sb.WriteString(typeModelStr(f.Type))
	sb.WriteString(" ")
	sb.WriteString(f.Name)
	return sb.String()
}

func (e *JavaModelEncoder) methodDeclaration(m java.MethodModel) string {
	var sb strings.Builder
	e.writeAnnotationPrefix(&sb, m.Annotations)
	switch m.Visibility {
	case java.VisibilityPublic:
		sb.WriteString("public ")
	case java.VisibilityPrivate:
		sb.WriteString("private ")
	case java.VisibilityProtected:
		sb.WriteString("protected ")
	}
	if m.IsStatic {
		sb.WriteString("static ")
	}
	if m.IsFinal {
		sb.WriteString("final ")
	}
	if m.IsAbstract && e.model.Kind != java.ClassKindInterface {
		sb.WriteString("abstract ")
	}
	if m.IsSynchronized {
		sb.WriteString("synchronized ")
	}
	if m.IsNative {
		sb.WriteString("native ")
	}

	if m.Name == "<init>" {
		sb.WriteString(e.model.SimpleName)
	} else {
		sb.WriteString(typeModelStr(m.ReturnType))
		sb.WriteString(" ")
		sb.WriteString(m.Name)
	}

	sb.WriteString("(")
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(typeModelStr(p.Type))
		if p.Name != "" {
			sb.WriteString(" ")
			sb.WriteString(p.Name)
		}
	}
	sb.WriteString(")")

	if len(m.Exceptions) > 0 {
		sb.WriteString(" throws ")
		sb.WriteString(strings.Join(m.Exceptions, ", "))
	}
	return sb.String()
}

func (e *JavaModelEncoder) writeAnnotationPrefix(sb *strings.Builder, anns []java.AnnotationModel) {
	for _, a := range anns {
		sb.WriteString("@")
		sb.WriteString(a.Type)
		if len(a.Values) > 0 {
			sb.WriteString("(")
			if v, ok := a.Values["value"]; ok && len(a.Values) == 1 {
				e.writeAnnotationValue(sb, v)
			} else {
				first := true
				for name, v := range a.Values {
					if !first {
						sb.WriteString(", ")
					}
					first = false
					sb.WriteString(name)
					sb.WriteString(" = ")
					e.writeAnnotationValue(sb, v)
				}
			}
			sb.WriteString(")")
		}
		sb.WriteString(" ")
	}
}

func (e *JavaModelEncoder) writeAnnotationValue(sb *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case string:
		sb.WriteString("\"")
		sb.WriteString(val)
		sb.WriteString("\"")
	case int32:
		sb.WriteString(strconv.Itoa(int(val)))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
		sb.WriteString("L")
	case float32:
		sb.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 32))
		sb.WriteString("f")
	case float64:
		sb.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case map[string]string:
		if typ, ok := val["type"]; ok {
			sb.WriteString(typ)
			sb.WriteString(".")
			sb.WriteString(val["value"])
		}
	case []interface{}:
		sb.WriteString("{")
		for i, elem := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.writeAnnotationValue(sb, elem)
		}
		sb.WriteString("}")
	case java.AnnotationModel:
		sb.WriteString("@")
		sb.WriteString(val.Type)
		if len(val.Values) > 0 {
			sb.WriteString("(")
			first := true
			for name, v := range val.Values {
				if !first {
					sb.WriteString(", ")
				}
				first = false
				sb.WriteString(name)
				sb.WriteString(" = ")
				e.writeAnnotationValue(sb, v)
			}
			sb.WriteString(")")
		}
	default:
		sb.WriteString("?")
	}
}

func (e *JavaModelEncoder) recordComponents() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, c := range e.model.RecordComponents {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(typeModelStr(c.Type))
		sb.WriteString(" ")
		sb.WriteString(c.Name)
	}
	sb.WriteString(")")
	return sb.String()
}
