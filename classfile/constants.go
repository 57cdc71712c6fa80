package classfile

// Magic is the fixed four-byte signature every class file begins with.
const Magic = 0xCAFEBABE

// AccessFlags is the raw u2 access_flags bitmask shared by classes,
// fields, methods, and inner-class entries. Several bit positions are
// reused with different meaning depending on context (e.g. 0x0020 is
// ACC_SUPER on a class and ACC_SYNCHRONIZED on a method); the Is* methods
// below are safe to call regardless of context, but Names reports only the
// flags meaningful for the given FlagContext.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccOpen         AccessFlags = 0x0020
	AccTransitive   AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccStaticPhase  AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
	AccMandated     AccessFlags = 0x8000
)

func (f AccessFlags) IsPublic() bool       { return f&AccPublic != 0 }
func (f AccessFlags) IsPrivate() bool      { return f&AccPrivate != 0 }
func (f AccessFlags) IsProtected() bool    { return f&AccProtected != 0 }
func (f AccessFlags) IsStatic() bool       { return f&AccStatic != 0 }
func (f AccessFlags) IsFinal() bool        { return f&AccFinal != 0 }
func (f AccessFlags) IsSuper() bool        { return f&AccSuper != 0 }
func (f AccessFlags) IsSynchronized() bool { return f&AccSynchronized != 0 }
func (f AccessFlags) IsVolatile() bool     { return f&AccVolatile != 0 }
func (f AccessFlags) IsBridge() bool       { return f&AccBridge != 0 }
func (f AccessFlags) IsTransient() bool    { return f&AccTransient != 0 }
func (f AccessFlags) IsVarargs() bool      { return f&AccVarargs != 0 }
func (f AccessFlags) IsNative() bool       { return f&AccNative != 0 }
func (f AccessFlags) IsInterface() bool    { return f&AccInterface != 0 }
func (f AccessFlags) IsAbstract() bool     { return f&AccAbstract != 0 }
func (f AccessFlags) IsStrict() bool       { return f&AccStrict != 0 }
func (f AccessFlags) IsSynthetic() bool    { return f&AccSynthetic != 0 }
func (f AccessFlags) IsAnnotation() bool   { return f&AccAnnotation != 0 }
func (f AccessFlags) IsEnum() bool         { return f&AccEnum != 0 }
func (f AccessFlags) IsModule() bool       { return f&AccModule != 0 }

// FlagContext selects which named-flag table Names consults, since the
// same bit means different things on a class, a field, or a method.
type FlagContext int

const (
	ClassFlags FlagContext = iota
	FieldFlags
	MethodFlags
	InnerClassFlags
)

type namedFlag struct {
	bit  AccessFlags
	name string
}

var classFlagNames = []namedFlag{
	{AccPublic, "PUBLIC"}, {AccFinal, "FINAL"}, {AccSuper, "SUPER"},
	{AccInterface, "INTERFACE"}, {AccAbstract, "ABSTRACT"},
	{AccSynthetic, "SYNTHETIC"}, {AccAnnotation, "ANNOTATION"},
	{AccEnum, "ENUM"}, {AccModule, "MODULE"},
}

var fieldFlagNames = []namedFlag{
	{AccPublic, "PUBLIC"}, {AccPrivate, "PRIVATE"}, {AccProtected, "PROTECTED"},
	{AccStatic, "STATIC"}, {AccFinal, "FINAL"}, {AccVolatile, "VOLATILE"},
	{AccTransient, "TRANSIENT"}, {AccSynthetic, "SYNTHETIC"}, {AccEnum, "ENUM"},
}

var methodFlagNames = []namedFlag{
	{AccPublic, "PUBLIC"}, {AccPrivate, "PRIVATE"}, {AccProtected, "PROTECTED"},
	{AccStatic, "STATIC"}, {AccFinal, "FINAL"}, {AccSynchronized, "SYNCHRONIZED"},
	{AccBridge, "BRIDGE"}, {AccVarargs, "VARARGS"}, {AccNative, "NATIVE"},
	{AccAbstract, "ABSTRACT"}, {AccStrict, "STRICT"}, {AccSynthetic, "SYNTHETIC"},
}

var innerClassFlagNames = []namedFlag{
	{AccPublic, "PUBLIC"}, {AccPrivate, "PRIVATE"}, {AccProtected, "PROTECTED"},
	{AccStatic, "STATIC"}, {AccFinal, "FINAL"}, {AccInterface, "INTERFACE"},
	{AccAbstract, "ABSTRACT"}, {AccSynthetic, "SYNTHETIC"}, {AccAnnotation, "ANNOTATION"},
	{AccEnum, "ENUM"},
}

// Names decodes bits into the set of flag names meaningful in ctx: the
// name f appears iff f's bit is set in the receiver, for every f in ctx's
// flag table. Order follows the table, which follows spec order.
func (f AccessFlags) Names(ctx FlagContext) []string {
	var table []namedFlag
	switch ctx {
	case FieldFlags:
		table = fieldFlagNames
	case MethodFlags:
		table = methodFlagNames
	case InnerClassFlags:
		table = innerClassFlagNames
	default:
		table = classFlagNames
	}
	names := make([]string, 0, len(table))
	for _, nf := range table {
		if f&nf.bit != 0 {
			names = append(names, nf.name)
		}
	}
	return names
}

// ConstantTag is the u1 discriminator at the start of every constant pool
// entry.
type ConstantTag uint8

const (
	ConstantUtf8               ConstantTag = 1
	ConstantInteger            ConstantTag = 3
	ConstantFloat              ConstantTag = 4
	ConstantLong               ConstantTag = 5
	ConstantDouble             ConstantTag = 6
	ConstantClass              ConstantTag = 7
	ConstantString             ConstantTag = 8
	ConstantFieldref           ConstantTag = 9
	ConstantMethodref          ConstantTag = 10
	ConstantInterfaceMethodref ConstantTag = 11
	ConstantNameAndType        ConstantTag = 12
	ConstantMethodHandle       ConstantTag = 15
	ConstantMethodType         ConstantTag = 16
	ConstantInvokeDynamic      ConstantTag = 18
)

func (t ConstantTag) String() string {
	switch t {
	case ConstantUtf8:
		return "Utf8"
	case ConstantInteger:
		return "Integer"
	case ConstantFloat:
		return "Float"
	case ConstantLong:
		return "Long"
	case ConstantDouble:
		return "Double"
	case ConstantClass:
		return "Class"
	case ConstantString:
		return "String"
	case ConstantFieldref:
		return "Fieldref"
	case ConstantMethodref:
		return "Methodref"
	case ConstantInterfaceMethodref:
		return "InterfaceMethodref"
	case ConstantNameAndType:
		return "NameAndType"
	case ConstantMethodHandle:
		return "MethodHandle"
	case ConstantMethodType:
		return "MethodType"
	case ConstantInvokeDynamic:
		return "InvokeDynamic"
	default:
		return "Unknown"
	}
}

// MethodHandleKind is the reference_kind of a CONSTANT_MethodHandle_info.
// It determines which pool variant reference_index must resolve to.
type MethodHandleKind uint8

const (
	RefGetField         MethodHandleKind = 1
	RefGetStatic        MethodHandleKind = 2
	RefPutField         MethodHandleKind = 3
	RefPutStatic        MethodHandleKind = 4
	RefInvokeVirtual    MethodHandleKind = 5
	RefInvokeStatic     MethodHandleKind = 6
	RefInvokeSpecial    MethodHandleKind = 7
	RefNewInvokeSpecial MethodHandleKind = 8
	RefInvokeInterface  MethodHandleKind = 9
)

// ExpectedVariant reports which pool entry variant reference_index must
// resolve to for this reference_kind, making explicit what the original
// implementation left as a three-times-shadowed field (spec Design Notes,
// Open Questions).
func (k MethodHandleKind) ExpectedVariant() ConstantTag {
	switch {
	case k >= RefGetField && k <= RefPutStatic:
		return ConstantFieldref
	case k == RefInvokeInterface:
		return ConstantInterfaceMethodref
	default:
		return ConstantMethodref
	}
}
