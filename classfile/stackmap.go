package classfile

// VerificationTypeTag is the u1 discriminator of a verification_type_info
// entry (JVM spec §4.7.4).
type VerificationTypeTag uint8

const (
	VerificationTop               VerificationTypeTag = 0
	VerificationInteger           VerificationTypeTag = 1
	VerificationFloat             VerificationTypeTag = 2
	VerificationDouble            VerificationTypeTag = 3
	VerificationLong              VerificationTypeTag = 4
	VerificationNull              VerificationTypeTag = 5
	VerificationUninitializedThis VerificationTypeTag = 6
	VerificationObject            VerificationTypeTag = 7
	VerificationUninitialized     VerificationTypeTag = 8
)

// VerificationTypeInfo describes the type of one local variable or
// operand stack slot at a stack map frame. Tag 7 (Object) carries
// PoolIndex, a reference into the constant pool's Class entries. Tag 8
// (Uninitialized) carries Offset, the bytecode offset of the `new`
// instruction that created the not-yet-initialized object.
type VerificationTypeInfo struct {
	Tag       VerificationTypeTag
	PoolIndex uint16 // valid iff Tag == VerificationObject
	Offset    uint16 // valid iff Tag == VerificationUninitialized
}

func parseVerificationTypeInfo(r *ByteReader) (VerificationTypeInfo, error) {
	tagOffset := r.Offset()
	raw, err := r.U1()
	if err != nil {
		return VerificationTypeInfo{}, err
	}
	tag := VerificationTypeTag(raw)
	switch tag {
	case VerificationTop, VerificationInteger, VerificationFloat, VerificationDouble,
		VerificationLong, VerificationNull, VerificationUninitializedThis:
		return VerificationTypeInfo{Tag: tag}, nil
	case VerificationObject:
		idx, err := r.U2()
		if err != nil {
			return VerificationTypeInfo{}, err
		}
		return VerificationTypeInfo{Tag: tag, PoolIndex: idx}, nil
	case VerificationUninitialized:
		off, err := r.U2()
		if err != nil {
			return VerificationTypeInfo{}, err
		}
		return VerificationTypeInfo{Tag: tag, Offset: off}, nil
	default:
		return VerificationTypeInfo{}, newParseError(UnknownTag, tagOffset, "verification_type_info tag %d", raw)
	}
}

// StackMapFrameKind classifies which of the frame_type ranges (JVM spec
// §4.7.4) a frame falls in.
type StackMapFrameKind int

const (
	FrameSame StackMapFrameKind = iota
	FrameSameLocals1StackItem
	FrameSameLocals1StackItemExtended
	FrameChop
	FrameSameExtended
	FrameAppend
	FrameFull
)

// StackMapFrame is one entry of a StackMapTable attribute. Field
// applicability depends on Kind:
//   - FrameSame: only OffsetDelta (implied by FrameType)
//   - FrameSameLocals1StackItem(Extended): Stack has exactly one entry
//   - FrameChop: ChopCount locals are removed from the preceding frame
//   - FrameAppend: Locals holds the appended locals
//   - FrameFull: Locals and Stack are both given in full
type StackMapFrame struct {
	FrameType    uint8
	Kind         StackMapFrameKind
	OffsetDelta  uint16
	ChopCount    int
	Locals       []VerificationTypeInfo
	Stack        []VerificationTypeInfo
}

func parseStackMapFrame(r *ByteReader) (StackMapFrame, error) {
	frameTypeOffset := r.Offset()
	raw, err := r.U1()
	if err != nil {
		return StackMapFrame{}, err
	}
	frameType := raw

	switch {
	case frameType < 64:
		return StackMapFrame{FrameType: frameType, Kind: FrameSame, OffsetDelta: uint16(frameType)}, nil

	case frameType < 128:
		stack, err := parseVerificationTypeInfo(r)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			FrameType:   frameType,
			Kind:        FrameSameLocals1StackItem,
			OffsetDelta: uint16(frameType) - 64,
			Stack:       []VerificationTypeInfo{stack},
		}, nil

	case frameType < 247:
		return StackMapFrame{}, newParseError(UnknownTag, frameTypeOffset, "reserved stack map frame_type %d", frameType)

	case frameType == 247:
		delta, err := r.U2()
		if err != nil {
			return StackMapFrame{}, err
		}
		stack, err := parseVerificationTypeInfo(r)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			FrameType:   frameType,
			Kind:        FrameSameLocals1StackItemExtended,
			OffsetDelta: delta,
			Stack:       []VerificationTypeInfo{stack},
		}, nil

	case frameType < 251:
		delta, err := r.U2()
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			FrameType:   frameType,
			Kind:        FrameChop,
			OffsetDelta: delta,
			ChopCount:   251 - int(frameType),
		}, nil

	case frameType == 251:
		delta, err := r.U2()
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, Kind: FrameSameExtended, OffsetDelta: delta}, nil

	case frameType < 255:
		delta, err := r.U2()
		if err != nil {
			return StackMapFrame{}, err
		}
		n := int(frameType) - 251
		locals := make([]VerificationTypeInfo, n)
		for i := range locals {
			locals[i], err = parseVerificationTypeInfo(r)
			if err != nil {
				return StackMapFrame{}, err
			}
		}
		return StackMapFrame{FrameType: frameType, Kind: FrameAppend, OffsetDelta: delta, Locals: locals}, nil

	default: // frameType == 255
		delta, err := r.U2()
		if err != nil {
			return StackMapFrame{}, err
		}
		numLocals, err := r.U2()
		if err != nil {
			return StackMapFrame{}, err
		}
		locals := make([]VerificationTypeInfo, numLocals)
		for i := range locals {
			locals[i], err = parseVerificationTypeInfo(r)
			if err != nil {
				return StackMapFrame{}, err
			}
		}
		numStack, err := r.U2()
		if err != nil {
			return StackMapFrame{}, err
		}
		stack := make([]VerificationTypeInfo, numStack)
		for i := range stack {
			stack[i], err = parseVerificationTypeInfo(r)
			if err != nil {
				return StackMapFrame{}, err
			}
		}
		return StackMapFrame{
			FrameType:   frameType,
			Kind:        FrameFull,
			OffsetDelta: delta,
			Locals:      locals,
			Stack:       stack,
		}, nil
	}
}

// StackMapTableAttribute holds the ordered frames of a method's
// StackMapTable attribute (JVM spec §4.7.4). Each frame's absolute
// bytecode offset is the prior frame's offset plus 1 plus OffsetDelta
// (or just OffsetDelta for the first frame) — see spec.md's bytecode
// offset note.
type StackMapTableAttribute struct {
	Entries []StackMapFrame
}

func parseStackMapTableAttribute(r *ByteReader, cp ConstantPool) (interface{}, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	entries := make([]StackMapFrame, count)
	for i := range entries {
		entries[i], err = parseStackMapFrame(r)
		if err != nil {
			return nil, err
		}
	}
	return &StackMapTableAttribute{Entries: entries}, nil
}

func (a *AttributeInfo) AsStackMapTable() *StackMapTableAttribute {
	if smt, ok := a.Parsed.(*StackMapTableAttribute); ok {
		return smt
	}
	return nil
}
