package classfile

// AttributeInfo is one attribute_info structure: the raw name index and
// bytes, plus Parsed — the typed decode of Info if its name is one of the
// attributes this package understands (nil otherwise, which is not an
// error: unrecognized attributes are a normal, forward-compatible part of
// the format).
type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
	Parsed    interface{}
}

type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []AttributeInfo
}

// ExceptionTableEntry is one entry of a Code attribute's exception_table.
// CatchType is a pool_ref that may be 0, meaning "catch every exception"
// (used to implement `finally`).
type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

type LineNumberTableAttribute struct {
	LineNumberTable []LineNumberEntry
}

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

type LocalVariableTableAttribute struct {
	LocalVariableTable []LocalVariableEntry
}

type LocalVariableEntry struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

// LocalVariableTypeTableAttribute mirrors LocalVariableTableAttribute but
// carries a Signature index (generic type) instead of a Descriptor index.
type LocalVariableTypeTableAttribute struct {
	LocalVariableTypeTable []LocalVariableTypeEntry
}

type LocalVariableTypeEntry struct {
	StartPC        uint16
	Length         uint16
	NameIndex      uint16
	SignatureIndex uint16
	Index          uint16
}

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

// SourceDebugExtensionAttribute carries vendor debug information as raw
// modified-UTF8 text with no length prefix of its own — its body is
// exactly the attribute's declared length (JVM spec §4.7.11).
type SourceDebugExtensionAttribute struct {
	DebugExtension string
}

type ConstantValueAttribute struct {
	ConstantValueIndex uint16
}

type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

// InnerClassesAttribute lists nested-class relationships. OuterClassInfoIndex
// and InnerNameIndex may be 0 (anonymous class / not a member).
type InnerClassesAttribute struct {
	Classes []InnerClassEntry
}

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

// EnclosingMethodAttribute.MethodIndex may be 0 when the class is not
// enclosed by a method (e.g. enclosed directly by a class body).
type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16
}

type SignatureAttribute struct {
	SignatureIndex uint16
}

type BootstrapMethodsAttribute struct {
	BootstrapMethods []BootstrapMethod
}

type BootstrapMethod struct {
	BootstrapMethodRef uint16
	BootstrapArguments []uint16
}

type RuntimeAnnotationsAttribute struct {
	Annotations []Annotation
}

type RuntimeParameterAnnotationsAttribute struct {
	ParameterAnnotations [][]Annotation
}

type AnnotationDefaultAttribute struct {
	Value ElementValue
}

func (a *AttributeInfo) AsCode() *CodeAttribute {
	v, _ := a.Parsed.(*CodeAttribute)
	return v
}

func (a *AttributeInfo) AsLineNumberTable() *LineNumberTableAttribute {
	v, _ := a.Parsed.(*LineNumberTableAttribute)
	return v
}

func (a *AttributeInfo) AsLocalVariableTable() *LocalVariableTableAttribute {
	v, _ := a.Parsed.(*LocalVariableTableAttribute)
	return v
}

func (a *AttributeInfo) AsLocalVariableTypeTable() *LocalVariableTypeTableAttribute {
	v, _ := a.Parsed.(*LocalVariableTypeTableAttribute)
	return v
}

func (a *AttributeInfo) AsSourceFile() *SourceFileAttribute {
	v, _ := a.Parsed.(*SourceFileAttribute)
	return v
}

func (a *AttributeInfo) AsSourceDebugExtension() *SourceDebugExtensionAttribute {
	v, _ := a.Parsed.(*SourceDebugExtensionAttribute)
	return v
}

func (a *AttributeInfo) AsConstantValue() *ConstantValueAttribute {
	v, _ := a.Parsed.(*ConstantValueAttribute)
	return v
}

func (a *AttributeInfo) AsExceptions() *ExceptionsAttribute {
	v, _ := a.Parsed.(*ExceptionsAttribute)
	return v
}

func (a *AttributeInfo) AsInnerClasses() *InnerClassesAttribute {
	v, _ := a.Parsed.(*InnerClassesAttribute)
	return v
}

func (a *AttributeInfo) AsEnclosingMethod() *EnclosingMethodAttribute {
	v, _ := a.Parsed.(*EnclosingMethodAttribute)
	return v
}

func (a *AttributeInfo) AsSignature() *SignatureAttribute {
	v, _ := a.Parsed.(*SignatureAttribute)
	return v
}

func (a *AttributeInfo) AsBootstrapMethods() *BootstrapMethodsAttribute {
	v, _ := a.Parsed.(*BootstrapMethodsAttribute)
	return v
}

func (a *AttributeInfo) AsAnnotations() *RuntimeAnnotationsAttribute {
	v, _ := a.Parsed.(*RuntimeAnnotationsAttribute)
	return v
}

func (a *AttributeInfo) AsParameterAnnotations() *RuntimeParameterAnnotationsAttribute {
	v, _ := a.Parsed.(*RuntimeParameterAnnotationsAttribute)
	return v
}

func (a *AttributeInfo) AsAnnotationDefault() *AnnotationDefaultAttribute {
	v, _ := a.Parsed.(*AnnotationDefaultAttribute)
	return v
}

// attributeParsers dispatches on the attribute's name (resolved through
// the constant pool), one closed table covering every attribute kind
// this package materializes (JVM spec §4.7). A name with no entry here is
// left with Parsed == nil, matching the spec's own forward-compatibility
// rule for unrecognized attributes.
var attributeParsers = map[string]func(r *ByteReader, cp ConstantPool) (interface{}, error){
	"ConstantValue":                        parseConstantValueAttribute,
	"Code":                                 parseCodeAttribute,
	"StackMapTable":                        parseStackMapTableAttribute,
	"Exceptions":                           parseExceptionsAttribute,
	"InnerClasses":                         parseInnerClassesAttribute,
	"EnclosingMethod":                      parseEnclosingMethodAttribute,
	"Synthetic":                            parseMarkerAttribute,
	"Signature":                            parseSignatureAttribute,
	"SourceFile":                           parseSourceFileAttribute,
	"SourceDebugExtension":                 parseSourceDebugExtensionAttribute,
	"LineNumberTable":                      parseLineNumberTableAttribute,
	"LocalVariableTable":                   parseLocalVariableTableAttribute,
	"LocalVariableTypeTable":               parseLocalVariableTypeTableAttribute,
	"Deprecated":                           parseMarkerAttribute,
	"RuntimeVisibleAnnotations":            parseRuntimeAnnotationsAttribute,
	"RuntimeInvisibleAnnotations":          parseRuntimeAnnotationsAttribute,
	"RuntimeVisibleParameterAnnotations":   parseRuntimeParameterAnnotationsAttribute,
	"RuntimeInvisibleParameterAnnotations": parseRuntimeParameterAnnotationsAttribute,
	"AnnotationDefault":                    parseAnnotationDefaultAttribute,
	"BootstrapMethods":                     parseBootstrapMethodsAttribute,
}

// parseAttributes reads an attributes_count-prefixed attribute_info
// array. r must already be bound to the constant pool used to resolve
// attribute names.
func parseAttributes(r *ByteReader) ([]AttributeInfo, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	attrs := make([]AttributeInfo, 0, count)
	for i := 0; i < int(count); i++ {
		nameIndex, err := r.U2()
		if err != nil {
			return nil, err
		}
		length, err := r.U4()
		if err != nil {
			return nil, err
		}
		sub, err := r.Sub(int(length))
		if err != nil {
			return nil, err
		}

		attr := AttributeInfo{NameIndex: nameIndex, Info: sub.b}
		if r.pool != nil {
			if name, nerr := r.pool.Utf8(nameIndex); nerr == nil {
				if parse, ok := attributeParsers[name]; ok {
					parsed, perr := parse(sub, *r.pool)
					if perr != nil {
						return nil, perr
					}
					if sub.Len() != 0 {
						return nil, newParseError(AttributeLengthMismatch, sub.Offset(),
							"%s attribute declared %d bytes, consumed %d", name, length, sub.Offset())
					}
					attr.Parsed = parsed
				}
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func parseConstantValueAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	idx, err := r.U2()
	if err != nil {
		return nil, err
	}
	return &ConstantValueAttribute{ConstantValueIndex: idx}, nil
}

func parseCodeAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	maxStack, err := r.U2()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.U2()
	if err != nil {
		return nil, err
	}
	codeLength, err := r.U4()
	if err != nil {
		return nil, err
	}
	code, err := r.Read(int(codeLength))
	if err != nil {
		return nil, err
	}

	exceptionTableLength, err := r.U2()
	if err != nil {
		return nil, err
	}
	exceptionTable := make([]ExceptionTableEntry, exceptionTableLength)
	for i := range exceptionTable {
		startPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		endPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		handlerPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		catchType, err := r.U2()
		if err != nil {
			return nil, err
		}
		exceptionTable[i] = ExceptionTableEntry{StartPC: startPC, EndPC: endPC, HandlerPC: handlerPC, CatchType: catchType}
	}

	attrs, err := parseAttributes(r)
	if err != nil {
		return nil, err
	}

	return &CodeAttribute{
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Code:           code,
		ExceptionTable: exceptionTable,
		Attributes:     attrs,
	}, nil
}

func parseLineNumberTableAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	table := make([]LineNumberEntry, count)
	for i := range table {
		startPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		lineNumber, err := r.U2()
		if err != nil {
			return nil, err
		}
		table[i] = LineNumberEntry{StartPC: startPC, LineNumber: lineNumber}
	}
	return &LineNumberTableAttribute{LineNumberTable: table}, nil
}

func parseLocalVariableTableAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	table := make([]LocalVariableEntry, count)
	for i := range table {
		startPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		length, err := r.U2()
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
		index, err := r.U2()
		if err != nil {
			return nil, err
		}
		table[i] = LocalVariableEntry{
			StartPC: startPC, Length: length, NameIndex: nameIndex,
			DescriptorIndex: descIndex, Index: index,
		}
	}
	return &LocalVariableTableAttribute{LocalVariableTable: table}, nil
}

func parseLocalVariableTypeTableAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	table := make([]LocalVariableTypeEntry, count)
	for i := range table {
		startPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		length, err := r.U2()
		if err != nil {
			return nil, err
		}
		nameIndex, err := r.U2()
		if err != nil {
			return nil, err
		}
		sigIndex, err := r.U2()
		if err != nil {
			return nil, err
		}
		index, err := r.U2()
		if err != nil {
			return nil, err
		}
		table[i] = LocalVariableTypeEntry{
			StartPC: startPC, Length: length, NameIndex: nameIndex,
			SignatureIndex: sigIndex, Index: index,
		}
	}
	return &LocalVariableTypeTableAttribute{LocalVariableTypeTable: table}, nil
}

func parseSourceFileAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	idx, err := r.U2()
	if err != nil {
		return nil, err
	}
	return &SourceFileAttribute{SourceFileIndex: idx}, nil
}

func parseSourceDebugExtensionAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	b, err := r.Read(r.Len())
	if err != nil {
		return nil, err
	}
	return &SourceDebugExtensionAttribute{DebugExtension: decodeModifiedUtf8(b)}, nil
}

func parseExceptionsAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	table := make([]uint16, count)
	for i := range table {
		table[i], err = r.U2()
		if err != nil {
			return nil, err
		}
	}
	return &ExceptionsAttribute{ExceptionIndexTable: table}, nil
}

func parseInnerClassesAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	classes := make([]InnerClassEntry, count)
	for i := range classes {
		innerIndex, err := r.U2()
		if err != nil {
			return nil, err
		}
		outerIndex, err := r.U2()
		if err != nil {
			return nil, err
		}
		nameIndex, err := r.U2()
		if err != nil {
			return nil, err
		}
		flags, err := r.U2()
		if err != nil {
			return nil, err
		}
		classes[i] = InnerClassEntry{
			InnerClassInfoIndex:   innerIndex,
			OuterClassInfoIndex:   outerIndex,
			InnerNameIndex:        nameIndex,
			InnerClassAccessFlags: AccessFlags(flags),
		}
	}
	return &InnerClassesAttribute{Classes: classes}, nil
}

func parseEnclosingMethodAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	classIndex, err := r.U2()
	if err != nil {
		return nil, err
	}
	methodIndex, err := r.U2()
	if err != nil {
		return nil, err
	}
	return &EnclosingMethodAttribute{ClassIndex: classIndex, MethodIndex: methodIndex}, nil
}

func parseSignatureAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	idx, err := r.U2()
	if err != nil {
		return nil, err
	}
	return &SignatureAttribute{SignatureIndex: idx}, nil
}

func parseBootstrapMethodsAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	methods := make([]BootstrapMethod, count)
	for i := range methods {
		ref, err := r.U2()
		if err != nil {
			return nil, err
		}
		numArgs, err := r.U2()
		if err != nil {
			return nil, err
		}
		args := make([]uint16, numArgs)
		for j := range args {
			args[j], err = r.U2()
			if err != nil {
				return nil, err
			}
		}
		methods[i] = BootstrapMethod{BootstrapMethodRef: ref, BootstrapArguments: args}
	}
	return &BootstrapMethodsAttribute{BootstrapMethods: methods}, nil
}

// parseMarkerAttribute handles Synthetic and Deprecated, which carry no
// data at all — their presence alone is the signal (JVM spec §4.7.8,
// §4.7.15).
func parseMarkerAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	return struct{}{}, nil
}

func parseRuntimeAnnotationsAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	anns := make([]Annotation, count)
	for i := range anns {
		anns[i], err = parseAnnotation(r)
		if err != nil {
			return nil, err
		}
	}
	return &RuntimeAnnotationsAttribute{Annotations: anns}, nil
}

func parseRuntimeParameterAnnotationsAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	numParams, err := r.U1()
	if err != nil {
		return nil, err
	}
	perParam := make([][]Annotation, numParams)
	for p := range perParam {
		count, err := r.U2()
		if err != nil {
			return nil, err
		}
		anns := make([]Annotation, count)
		for i := range anns {
			anns[i], err = parseAnnotation(r)
			if err != nil {
				return nil, err
			}
		}
		perParam[p] = anns
	}
	return &RuntimeParameterAnnotationsAttribute{ParameterAnnotations: perParam}, nil
}

func parseAnnotationDefaultAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	v, err := parseElementValue(r)
	if err != nil {
		return nil, err
	}
	return &AnnotationDefaultAttribute{Value: v}, nil
}
