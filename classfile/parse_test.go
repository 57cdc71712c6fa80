package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// cpBuilder assembles a constant_pool byte stream and tracks how many
// entries it has written (including the gap after Long/Double), so tests
// can compute a valid constant_pool_count without hand counting bytes.
type cpBuilder struct {
	buf   bytes.Buffer
	count uint16 // constant_pool_count; starts at 1 (index 0 is reserved)
}

func newCPBuilder() *cpBuilder {
	return &cpBuilder{count: 1}
}

func (b *cpBuilder) u1(v uint8)  { b.buf.WriteByte(v) }
func (b *cpBuilder) u2(v uint16) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *cpBuilder) u4(v uint32) { binary.Write(&b.buf, binary.BigEndian, v) }

// utf8 appends a CONSTANT_Utf8_info and returns its 1-indexed pool index.
func (b *cpBuilder) utf8(s string) uint16 {
	b.u1(uint8(ConstantUtf8))
	b.u2(uint16(len(s)))
	b.buf.WriteString(s)
	idx := b.count
	b.count++
	return idx
}

func (b *cpBuilder) class(nameIdx uint16) uint16 {
	b.u1(uint8(ConstantClass))
	b.u2(nameIdx)
	idx := b.count
	b.count++
	return idx
}

func (b *cpBuilder) nameAndType(nameIdx, descIdx uint16) uint16 {
	b.u1(uint8(ConstantNameAndType))
	b.u2(nameIdx)
	b.u2(descIdx)
	idx := b.count
	b.count++
	return idx
}

func (b *cpBuilder) methodref(classIdx, ntIdx uint16) uint16 {
	b.u1(uint8(ConstantMethodref))
	b.u2(classIdx)
	b.u2(ntIdx)
	idx := b.count
	b.count++
	return idx
}

func (b *cpBuilder) fieldref(classIdx, ntIdx uint16) uint16 {
	b.u1(uint8(ConstantFieldref))
	b.u2(classIdx)
	b.u2(ntIdx)
	idx := b.count
	b.count++
	return idx
}

func (b *cpBuilder) methodHandle(kind MethodHandleKind, refIdx uint16) uint16 {
	b.u1(uint8(ConstantMethodHandle))
	b.u1(uint8(kind))
	b.u2(refIdx)
	idx := b.count
	b.count++
	return idx
}

func (b *cpBuilder) long(v int64) uint16 {
	b.u1(uint8(ConstantLong))
	binary.Write(&b.buf, binary.BigEndian, v)
	idx := b.count
	b.count += 2 // Long occupies two pool indices
	return idx
}

func (b *cpBuilder) integer(v int32) uint16 {
	b.u1(uint8(ConstantInteger))
	binary.Write(&b.buf, binary.BigEndian, v)
	idx := b.count
	b.count++
	return idx
}

// minimalClass builds a class file with the given constant pool, this/super
// class pool indices, and no fields, methods, or interfaces.
func minimalClass(cp *cpBuilder, thisClass, superClass uint16, extra ...func(*bytes.Buffer)) []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(Magic))
	binary.Write(&out, binary.BigEndian, uint16(0))  // minor
	binary.Write(&out, binary.BigEndian, uint16(52)) // major
	binary.Write(&out, binary.BigEndian, cp.count)
	out.Write(cp.buf.Bytes())
	binary.Write(&out, binary.BigEndian, uint16(AccPublic)) // access_flags
	binary.Write(&out, binary.BigEndian, thisClass)
	binary.Write(&out, binary.BigEndian, superClass)
	binary.Write(&out, binary.BigEndian, uint16(0)) // interfaces_count
	binary.Write(&out, binary.BigEndian, uint16(0)) // fields_count
	binary.Write(&out, binary.BigEndian, uint16(0)) // methods_count
	if len(extra) == 0 {
		binary.Write(&out, binary.BigEndian, uint16(0)) // attributes_count
	}
	for _, f := range extra {
		f(&out)
	}
	return out.Bytes()
}

func baseClass() (*cpBuilder, uint16, uint16) {
	cp := newCPBuilder()
	objName := cp.utf8("java/lang/Object")
	objClass := cp.class(objName)
	thisName := cp.utf8("com/example/Thing")
	thisClass := cp.class(thisName)
	return cp, thisClass, objClass
}

func TestParseClassFile(t *testing.T) {
	cp, thisClass, superClass := baseClass()
	data := minimalClass(cp, thisClass, superClass)

	cf, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := cf.ClassName(); got != "com/example/Thing" {
		t.Errorf("ClassName() = %q, want %q", got, "com/example/Thing")
	}
	if got := cf.SuperClassName(); got != "java/lang/Object" {
		t.Errorf("SuperClassName() = %q, want %q", got, "java/lang/Object")
	}
	if !cf.IsClass() || cf.IsInterface() {
		t.Error("expected a plain class")
	}
	if !cf.AccessFlags.IsPublic() {
		t.Error("expected public class")
	}
}

func TestParseBadMagic(t *testing.T) {
	data := minimalClass(newCPBuilder(), 0, 0)
	data[0] = 0x00 // corrupt magic

	_, err := Parse(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for bad magic")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *ParseError, got %T: %v", err, err)
	}
	if pe.Kind != BadMagic {
		t.Errorf("Kind = %v, want BadMagic", pe.Kind)
	}
}

func TestParseShortRead(t *testing.T) {
	cp, thisClass, superClass := baseClass()
	data := minimalClass(cp, thisClass, superClass)
	truncated := data[:len(data)-3]

	_, err := Parse(bytes.NewReader(truncated))
	if err == nil {
		t.Fatal("expected an error for truncated input")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *ParseError, got %T: %v", err, err)
	}
	if pe.Kind != ShortRead {
		t.Errorf("Kind = %v, want ShortRead", pe.Kind)
	}
}

func TestConstantPoolLongTakesTwoSlots(t *testing.T) {
	cp := newCPBuilder()
	objName := cp.utf8("java/lang/Object")
	objClass := cp.class(objName)
	thisName := cp.utf8("com/example/Thing")
	thisClass := cp.class(thisName)
	longIdx := cp.long(1234567890123)
	// the slot right after longIdx is a gap; the next real entry lands two
	// indices later.
	afterName := cp.utf8("after")
	afterIdx := cp.class(afterName)

	data := minimalClass(cp, thisClass, objClass)
	cf, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	v, ok := cf.ConstantPool.GetLong(longIdx)
	if !ok || v != 1234567890123 {
		t.Errorf("GetLong(%d) = (%d, %v), want (1234567890123, true)", longIdx, v, ok)
	}

	if _, err := cf.ConstantPool.entry(longIdx + 1); err == nil {
		t.Error("expected an error resolving the gap slot after a Long entry")
	}

	if name, err := cf.ConstantPool.ClassName(afterIdx); err != nil || name != "after" {
		t.Errorf("ClassName(after) = (%q, %v), want (\"after\", nil)", name, err)
	}
}

func TestConstantPoolIndexZero(t *testing.T) {
	cp, thisClass, superClass := baseClass()
	data := minimalClass(cp, thisClass, superClass)
	cf, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if _, err := cf.ConstantPool.Utf8(0); err == nil {
		t.Error("expected PoolIndexOutOfRange resolving index 0")
	}
	// SuperClassName is the documented exception: 0 means "no superclass"
	// (only valid for java/lang/Object), and returns "" rather than erroring.
	cf.SuperClass = 0
	if got := cf.SuperClassName(); got != "" {
		t.Errorf("SuperClassName() with SuperClass=0 = %q, want \"\"", got)
	}
}

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc       string
		baseType   string
		className  string
		arrayDepth int
	}{
		{"I", "int", "", 0},
		{"Z", "boolean", "", 0},
		{"Ljava/lang/String;", "", "java/lang/String", 0},
		{"[I", "int", "", 1},
		{"[[D", "double", "", 2},
		{"[Ljava/lang/Object;", "", "java/lang/Object", 1},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft, err := ParseFieldDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseFieldDescriptor(%q) error: %v", tt.desc, err)
			}
			if ft.BaseType != tt.baseType {
				t.Errorf("BaseType = %q, want %q", ft.BaseType, tt.baseType)
			}
			if ft.ClassName != tt.className {
				t.Errorf("ClassName = %q, want %q", ft.ClassName, tt.className)
			}
			if ft.ArrayDepth != tt.arrayDepth {
				t.Errorf("ArrayDepth = %d, want %d", ft.ArrayDepth, tt.arrayDepth)
			}
		})
	}

	malformed := []string{"", "L", "Lfoo", "Q", "[", "[[["}
	for _, desc := range malformed {
		t.Run("malformed/"+desc, func(t *testing.T) {
			if _, err := ParseFieldDescriptor(desc); err == nil {
				t.Errorf("ParseFieldDescriptor(%q) expected an error", desc)
			}
		})
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc        string
		numParams   int
		returnsVoid bool
		returnType  string
	}{
		{"()V", 0, true, ""},
		{"()I", 0, false, "int"},
		{"(I)V", 1, true, ""},
		{"(II)I", 2, false, "int"},
		{"(Ljava/lang/String;)V", 1, true, ""},
		{"(IDLjava/lang/Thread;)Ljava/lang/Object;", 3, false, "java/lang/Object"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md, err := ParseMethodDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseMethodDescriptor(%q) error: %v", tt.desc, err)
			}
			if len(md.Parameters) != tt.numParams {
				t.Errorf("len(Parameters) = %d, want %d", len(md.Parameters), tt.numParams)
			}
			if tt.returnsVoid {
				if md.ReturnType != nil {
					t.Error("expected nil ReturnType for void")
				}
			} else {
				if md.ReturnType == nil {
					t.Fatal("expected non-nil ReturnType")
				}
				got := md.ReturnType.BaseType
				if got == "" {
					got = md.ReturnType.ClassName
				}
				if got != tt.returnType {
					t.Errorf("ReturnType = %q, want %q", got, tt.returnType)
				}
			}
		})
	}
}

func TestAttributeLengthMismatch(t *testing.T) {
	cp, thisClass, superClass := baseClass()
	sourceFileName := cp.utf8("SourceFile")
	data := minimalClass(cp, thisClass, superClass, func(out *bytes.Buffer) {
		binary.Write(out, binary.BigEndian, uint16(1)) // attributes_count
		binary.Write(out, binary.BigEndian, sourceFileName)
		binary.Write(out, binary.BigEndian, uint32(4)) // declares 4 bytes
		out.Write([]byte{0, 1, 0xFF, 0xFF})             // but SourceFile only consumes 2
	})

	_, err := Parse(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for mismatched attribute length")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *ParseError, got %T: %v", err, err)
	}
	if pe.Kind != AttributeLengthMismatch {
		t.Errorf("Kind = %v, want AttributeLengthMismatch", pe.Kind)
	}
}

func TestBytecodeWideIinc(t *testing.T) {
	// wide iinc #300, #-5
	code := []byte{
		byte(OpWide), byte(OpIinc),
		0x01, 0x2C, // local_var_index = 300
		0xFF, 0xFB, // value = -5
	}
	c, err := ParseCode(code)
	if err != nil {
		t.Fatalf("ParseCode() error: %v", err)
	}
	in := c.At(0)
	if in == nil {
		t.Fatal("expected an instruction at offset 0")
	}
	if !in.Wide || in.Opcode != OpIinc {
		t.Errorf("Wide=%v Opcode=%v, want Wide=true Opcode=iinc", in.Wide, in.Opcode)
	}
	if in.LocalVarIndex != 300 || in.Value != -5 {
		t.Errorf("LocalVarIndex=%d Value=%d, want 300 -5", in.LocalVarIndex, in.Value)
	}
}

func TestBytecodeTableswitchAlignment(t *testing.T) {
	// one nop byte then tableswitch, so the switch itself starts at offset 1
	// and its operands must be padded to the next 4-byte boundary measured
	// from the start of the code array (offset 0), not from the switch's
	// own start.
	code := []byte{byte(OpNop), byte(OpTableswitch)}
	code = append(code, 0x00, 0x00) // 2 padding bytes -> offset 4
	var defaultOffset, low, high [4]byte
	binary.BigEndian.PutUint32(defaultOffset[:], 100)
	binary.BigEndian.PutUint32(low[:], 1)
	binary.BigEndian.PutUint32(high[:], 3)
	code = append(code, defaultOffset[:]...)
	code = append(code, low[:]...)
	code = append(code, high[:]...)
	for _, v := range []uint32{10, 20, 30} {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v)
		code = append(code, b[:]...)
	}

	c, err := ParseCode(code)
	if err != nil {
		t.Fatalf("ParseCode() error: %v", err)
	}
	in := c.At(1)
	if in == nil {
		t.Fatal("expected an instruction at offset 1")
	}
	if in.Opcode != OpTableswitch {
		t.Fatalf("Opcode = %v, want tableswitch", in.Opcode)
	}
	if in.LowBound != 1 || in.HighBound != 3 {
		t.Errorf("LowBound=%d HighBound=%d, want 1 3", in.LowBound, in.HighBound)
	}
	if len(in.JumpTable) != 3 || in.JumpTable[1] != 20 {
		t.Errorf("JumpTable = %v, want [10 20 30]", in.JumpTable)
	}
}

func TestBytecodeLookupswitch(t *testing.T) {
	code := []byte{byte(OpLookupswitch)}
	code = append(code, 0x00, 0x00, 0x00) // 3 padding bytes -> offset 4
	var defaultOffset, npairs [4]byte
	binary.BigEndian.PutUint32(defaultOffset[:], 50)
	binary.BigEndian.PutUint32(npairs[:], 2)
	code = append(code, defaultOffset[:]...)
	code = append(code, npairs[:]...)
	for _, pair := range [][2]int32{{1, 11}, {2, 22}} {
		var m, o [4]byte
		binary.BigEndian.PutUint32(m[:], uint32(pair[0]))
		binary.BigEndian.PutUint32(o[:], uint32(pair[1]))
		code = append(code, m[:]...)
		code = append(code, o[:]...)
	}

	c, err := ParseCode(code)
	if err != nil {
		t.Fatalf("ParseCode() error: %v", err)
	}
	in := c.At(0)
	if in == nil || in.Opcode != OpLookupswitch {
		t.Fatal("expected a lookupswitch instruction at offset 0")
	}
	if len(in.LookupTable) != 2 || in.LookupTable[1].Match != 2 || in.LookupTable[1].Offset != 22 {
		t.Errorf("LookupTable = %v, want [{1 11} {2 22}]", in.LookupTable)
	}
}

func TestStackMapFrameDispatch(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		kind  StackMapFrameKind
	}{
		{"same", []byte{10}, FrameSame},
		{"same_locals_1_stack_item", []byte{70, byte(VerificationInteger)}, FrameSameLocals1StackItem},
		{"same_locals_1_stack_item_extended", []byte{247, 0x00, 0x05, byte(VerificationInteger)}, FrameSameLocals1StackItemExtended},
		{"chop", []byte{249, 0x00, 0x03}, FrameChop},
		{"same_frame_extended", []byte{251, 0x00, 0x07}, FrameSameExtended},
		{"append", []byte{252, 0x00, 0x02, byte(VerificationInteger)}, FrameAppend},
		{"full", []byte{255, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}, FrameFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewByteReader(tt.bytes)
			frame, err := parseStackMapFrame(r)
			if err != nil {
				t.Fatalf("parseStackMapFrame() error: %v", err)
			}
			if frame.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", frame.Kind, tt.kind)
			}
		})
	}
}

func TestStackMapFrameReservedRange(t *testing.T) {
	r := NewByteReader([]byte{200})
	_, err := parseStackMapFrame(r)
	if err == nil {
		t.Fatal("expected an error for a reserved frame_type")
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != UnknownTag {
		t.Errorf("expected UnknownTag, got %v", err)
	}
}

func TestMethodHandleExpectedVariant(t *testing.T) {
	tests := []struct {
		kind MethodHandleKind
		want ConstantTag
	}{
		{RefGetField, ConstantFieldref},
		{RefPutStatic, ConstantFieldref},
		{RefInvokeVirtual, ConstantMethodref},
		{RefInvokeSpecial, ConstantMethodref},
		{RefInvokeInterface, ConstantInterfaceMethodref},
	}
	for _, tt := range tests {
		if got := tt.kind.ExpectedVariant(); got != tt.want {
			t.Errorf("%v.ExpectedVariant() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestGetMethodHandleValidatesReferenceVariant(t *testing.T) {
	cp, thisClass, superClass := baseClass()
	fieldName := cp.utf8("value")
	fieldDesc := cp.utf8("I")
	fieldNT := cp.nameAndType(fieldName, fieldDesc)
	fieldRef := cp.fieldref(thisClass, fieldNT)
	methodRef := cp.methodref(thisClass, fieldNT)
	goodHandle := cp.methodHandle(RefGetStatic, fieldRef)
	badHandle := cp.methodHandle(RefGetStatic, methodRef)

	data := minimalClass(cp, thisClass, superClass)
	cf, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if _, ok := cf.ConstantPool.GetMethodHandle(goodHandle); !ok {
		t.Error("GetMethodHandle with a matching Fieldref variant should succeed")
	}
	if _, ok := cf.ConstantPool.GetMethodHandle(badHandle); ok {
		t.Error("GetMethodHandle with a Methodref reference_index under REF_getStatic should fail")
	}
}

func TestDecodeModifiedUtf8SupplementaryPlane(t *testing.T) {
	// U+1F600 (grinning face) encoded as a CESU-8 surrogate pair:
	// high surrogate 0xD83D, low surrogate 0xDE00.
	b := []byte{
		0xED, 0xA0, 0xBD, // high surrogate 0xD83D
		0xED, 0xB8, 0x80, // low surrogate 0xDE00
	}
	got := decodeModifiedUtf8(b)
	want := string(rune(0x1F600))
	if got != want {
		t.Errorf("decodeModifiedUtf8(surrogate pair) = %q, want %q", got, want)
	}
}

func TestDecodeModifiedUtf8TruncatedSurrogateDoesNotPanic(t *testing.T) {
	// A high surrogate's three bytes followed by exactly three more bytes
	// (the minimum length the old bounds check let through) but without a
	// valid low-surrogate lead byte.
	b := []byte{0xED, 0xA0, 0xBD, 0x00, 0x00, 0x00}
	decodeModifiedUtf8(b) // must not panic
}

func TestFieldTypeStringArraySuffix(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"I", "int"},
		{"[I", "int[]"},
		{"[[D", "double[][]"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[Ljava/lang/String;", "java.lang.String[]"},
	}
	for _, tt := range tests {
		ft, err := ParseFieldDescriptor(tt.desc)
		if err != nil {
			t.Fatalf("ParseFieldDescriptor(%q) error: %v", tt.desc, err)
		}
		if got := ft.String(); got != tt.want {
			t.Errorf("FieldType.String() for %q = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestParseInstructionUnknownOpcode(t *testing.T) {
	// 0xba is invokedynamic, a recognized opcode with operand decoding, so
	// pick a genuinely reserved byte: 0xcb is unassigned in the JVM spec.
	_, err := ParseCode([]byte{0xcb})
	if err == nil {
		t.Fatal("expected an error for an unrecognized opcode")
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != UnknownTag {
		t.Errorf("expected UnknownTag, got %v", err)
	}
}

func TestParseTableswitchLowExceedsHighDoesNotPanic(t *testing.T) {
	var code bytes.Buffer
	code.WriteByte(0xaa) // tableswitch
	code.Write([]byte{0, 0, 0})
	binary.Write(&code, binary.BigEndian, int32(0))  // default
	binary.Write(&code, binary.BigEndian, int32(10)) // low
	binary.Write(&code, binary.BigEndian, int32(0))  // high < low

	_, err := ParseCode(code.Bytes())
	if err == nil {
		t.Fatal("expected an error for low > high")
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != MalformedBytecode {
		t.Errorf("expected MalformedBytecode, got %v", err)
	}
}
