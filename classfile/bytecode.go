package classfile

import "fmt"

// MatchOffsetPair is one (match, offset) entry of a lookupswitch
// instruction's lookup table.
type MatchOffsetPair struct {
	Match  int32
	Offset int32
}

// Instruction is one decoded bytecode instruction. Offset is its position
// relative to the start of the code region (what the JVM calls the
// "program counter"). Only the fields relevant to Opcode are populated;
// the rest hold their zero value. BranchOffset/DefaultOffset/JumpTable/
// LookupTable entries are stored as the raw signed displacement read from
// the stream — add Offset to get an absolute target, which is what
// String does.
type Instruction struct {
	Offset int
	Opcode Opcode
	Wide   bool

	LocalVarIndex int32
	Value         int32

	BranchOffset int32

	ConstIndex              uint16
	FieldRefIndex           uint16
	MethodRefIndex          uint16
	InterfaceMethodRefIndex uint16
	InvokeInterfaceCount    uint8
	CallSiteIndex           uint16

	AType      PrimitiveArrayType
	Dimensions uint8
	// DescriptorArrayDepth is the array depth of the resolved class
	// descriptor for a multianewarray's type_index, when it can be
	// resolved; -1 if not checked. A Dimensions value greater than this
	// is a malformed class file in practice, but verification is not
	// performed here (spec Non-goals) — this is exposed best-effort for
	// callers that want to flag it.
	DescriptorArrayDepth int

	DefaultOffset int32
	LowBound      int32
	HighBound     int32
	JumpTable     []int32
	LookupTable   []MatchOffsetPair
}

// ResolveMultianewarrayDepth looks up a multianewarray instruction's
// type_index in cp and records the resolved class descriptor's array
// depth in DescriptorArrayDepth, so callers can flag Dimensions exceeding
// it. It is a no-op for any other opcode. This is advisory only — a
// mismatch is not treated as a parse error, since verifying bytecode
// against the constant pool is out of scope here.
func (in *Instruction) ResolveMultianewarrayDepth(cp ConstantPool) {
	if in.Opcode != OpMultianewarray {
		return
	}
	name, err := cp.ClassName(in.ConstIndex)
	if err != nil {
		return
	}
	depth := 0
	for depth < len(name) && name[depth] == '[' {
		depth++
	}
	in.DescriptorArrayDepth = depth
}

// AbsoluteTarget returns base (an instruction's Offset) plus one of its
// raw relative displacement fields, giving the absolute code-region
// offset a branch lands on.
func AbsoluteTarget(base int, displacement int32) int {
	return base + int(displacement)
}

func (in *Instruction) String() string {
	parts := []string{in.Opcode.String()}
	switch in.Opcode {
	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore, OpRet:
		parts = append(parts, fmt.Sprintf("%d", in.LocalVarIndex))
	case OpIinc:
		parts = append(parts, fmt.Sprintf("%d", in.LocalVarIndex), fmt.Sprintf("%d", in.Value))
	case OpBipush, OpSipush:
		parts = append(parts, fmt.Sprintf("%d", in.Value))
	case OpLdc, OpLdcW, OpLdc2W:
		parts = append(parts, fmt.Sprintf("#%d", in.ConstIndex))
	case OpGetfield, OpPutfield, OpGetstatic, OpPutstatic:
		parts = append(parts, fmt.Sprintf("#%d", in.FieldRefIndex))
	case OpInvokespecial, OpInvokestatic, OpInvokevirtual:
		parts = append(parts, fmt.Sprintf("#%d", in.MethodRefIndex))
	case OpInvokeinterface:
		parts = append(parts, fmt.Sprintf("#%d", in.InterfaceMethodRefIndex), fmt.Sprintf("%d", in.InvokeInterfaceCount))
	case OpInvokedynamic:
		parts = append(parts, fmt.Sprintf("#%d", in.CallSiteIndex))
	case OpNew, OpAnewarray, OpCheckcast, OpInstanceof:
		parts = append(parts, fmt.Sprintf("#%d", in.ConstIndex))
	case OpMultianewarray:
		parts = append(parts, fmt.Sprintf("#%d", in.ConstIndex), fmt.Sprintf("%d", in.Dimensions))
	case OpNewarray:
		parts = append(parts, in.AType.String())
	case OpGoto, OpGotoW, OpJsr, OpJsrW,
		OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpIfAcmpeq, OpIfAcmpne, OpIfnull, OpIfnonnull:
		parts = append(parts, fmt.Sprintf("%d", AbsoluteTarget(in.Offset, in.BranchOffset)))
	case OpTableswitch:
		parts = append(parts, fmt.Sprintf("default=%d low=%d high=%d",
			AbsoluteTarget(in.Offset, in.DefaultOffset), in.LowBound, in.HighBound))
	case OpLookupswitch:
		parts = append(parts, fmt.Sprintf("default=%d npairs=%d",
			AbsoluteTarget(in.Offset, in.DefaultOffset), len(in.LookupTable)))
	}
	s := parts[0]
	for _, p := range parts[1:] {
		s += " " + p
	}
	return s
}

// Code is a decoded instruction stream: the Code attribute's code array,
// broken into individual instructions indexed by code-region offset.
type Code struct {
	Instructions map[int]*Instruction
	Length       int
}

// At returns the instruction starting at the given code-region offset,
// or nil if none starts there (either out of range, or the offset falls
// in the middle of a multi-byte instruction).
func (c *Code) At(offset int) *Instruction {
	return c.Instructions[offset]
}

// Each yields (offset, instruction) pairs in ascending offset order. This
// is the sequencing the public disassembly API (spec §6) is built on.
func (c *Code) Each(yield func(offset int, in *Instruction)) {
	for pc := 0; pc < c.Length; pc++ {
		if in, ok := c.Instructions[pc]; ok {
			yield(pc, in)
		}
	}
}

// ParsedCode decodes the Code attribute's raw code array into individual
// instructions, or nil if the stream is malformed.
func (c *CodeAttribute) ParsedCode() *Code {
	code, err := ParseCode(c.Code)
	if err != nil {
		return nil
	}
	return code
}

// ParseCode decodes a Code attribute's code array into individual
// instructions.
func ParseCode(code []byte) (*Code, error) {
	r := NewByteReader(code)
	r.StartAlign()
	result := &Code{Instructions: make(map[int]*Instruction), Length: len(code)}
	for r.Len() > 0 {
		offset := r.AlignedOffset()
		in, err := parseInstruction(r)
		if err != nil {
			return nil, err
		}
		result.Instructions[offset] = in
	}
	return result, nil
}

func parseInstruction(r *ByteReader) (*Instruction, error) {
	offset := r.AlignedOffset()
	raw, err := r.U1()
	if err != nil {
		return nil, err
	}
	op := Opcode(raw)
	in := &Instruction{Offset: offset, Opcode: op, DescriptorArrayDepth: -1}

	if op == OpWide {
		raw, err = r.U1()
		if err != nil {
			return nil, err
		}
		in.Opcode = Opcode(raw)
		in.Wide = true
		if err := decodeWideOperand(r, in); err != nil {
			return nil, err
		}
		return in, nil
	}

	if decode, ok := operandDecoders[op]; ok {
		if err := decode(r, in); err != nil {
			return nil, err
		}
		return in, nil
	}
	if !op.IsZeroOperand() {
		return nil, newParseError(UnknownTag, offset, "unrecognized opcode 0x%02x", raw)
	}
	return in, nil
}

func decodeWideOperand(r *ByteReader, in *Instruction) error {
	switch in.Opcode {
	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore, OpRet:
		idx, err := r.U2()
		if err != nil {
			return err
		}
		in.LocalVarIndex = int32(idx)
		return nil
	case OpIinc:
		idx, err := r.U2()
		if err != nil {
			return err
		}
		val, err := r.I2()
		if err != nil {
			return err
		}
		in.LocalVarIndex = int32(idx)
		in.Value = int32(val)
		return nil
	default:
		return newParseError(UnknownTag, r.Offset(), "opcode %s is not valid after a wide prefix", in.Opcode)
	}
}

func u1LocalVar(r *ByteReader, in *Instruction) error {
	v, err := r.U1()
	in.LocalVarIndex = int32(v)
	return err
}

func u2ConstIndex(r *ByteReader, in *Instruction) error {
	v, err := r.U2()
	in.ConstIndex = v
	return err
}

var operandDecoders = map[Opcode]func(r *ByteReader, in *Instruction) error{
	OpIload: u1LocalVar, OpLload: u1LocalVar, OpFload: u1LocalVar,
	OpDload: u1LocalVar, OpAload: u1LocalVar,
	OpIstore: u1LocalVar, OpLstore: u1LocalVar, OpFstore: u1LocalVar,
	OpDstore: u1LocalVar, OpAstore: u1LocalVar, OpRet: u1LocalVar,

	OpBipush: func(r *ByteReader, in *Instruction) error {
		v, err := r.I1()
		in.Value = int32(v)
		return err
	},
	OpSipush: func(r *ByteReader, in *Instruction) error {
		v, err := r.I2()
		in.Value = int32(v)
		return err
	},
	OpIinc: func(r *ByteReader, in *Instruction) error {
		idx, err := r.U1()
		if err != nil {
			return err
		}
		val, err := r.I1()
		if err != nil {
			return err
		}
		in.LocalVarIndex = int32(idx)
		in.Value = int32(val)
		return nil
	},

	OpLdc: func(r *ByteReader, in *Instruction) error {
		v, err := r.U1()
		in.ConstIndex = uint16(v)
		return err
	},
	OpLdcW:  u2ConstIndex,
	OpLdc2W: u2ConstIndex,

	OpAnewarray:  u2ConstIndex,
	OpCheckcast:  u2ConstIndex,
	OpInstanceof: u2ConstIndex,
	OpNew:        u2ConstIndex,

	OpNewarray: func(r *ByteReader, in *Instruction) error {
		v, err := r.U1()
		in.AType = PrimitiveArrayType(v)
		return err
	},

	OpGetfield: func(r *ByteReader, in *Instruction) error {
		v, err := r.U2()
		in.FieldRefIndex = v
		return err
	},
	OpPutfield: func(r *ByteReader, in *Instruction) error {
		v, err := r.U2()
		in.FieldRefIndex = v
		return err
	},
	OpGetstatic: func(r *ByteReader, in *Instruction) error {
		v, err := r.U2()
		in.FieldRefIndex = v
		return err
	},
	OpPutstatic: func(r *ByteReader, in *Instruction) error {
		v, err := r.U2()
		in.FieldRefIndex = v
		return err
	},

	OpInvokespecial: func(r *ByteReader, in *Instruction) error {
		v, err := r.U2()
		in.MethodRefIndex = v
		return err
	},
	OpInvokestatic: func(r *ByteReader, in *Instruction) error {
		v, err := r.U2()
		in.MethodRefIndex = v
		return err
	},
	OpInvokevirtual: func(r *ByteReader, in *Instruction) error {
		v, err := r.U2()
		in.MethodRefIndex = v
		return err
	},
	OpInvokeinterface: func(r *ByteReader, in *Instruction) error {
		idx, err := r.U2()
		if err != nil {
			return err
		}
		count, err := r.U1()
		if err != nil {
			return err
		}
		if err := r.Expect([]byte{0x00}); err != nil {
			return err
		}
		in.InterfaceMethodRefIndex = idx
		in.InvokeInterfaceCount = count
		return nil
	},
	OpInvokedynamic: func(r *ByteReader, in *Instruction) error {
		idx, err := r.U2()
		if err != nil {
			return err
		}
		if err := r.Expect([]byte{0x00, 0x00}); err != nil {
			return err
		}
		in.CallSiteIndex = idx
		return nil
	},

	OpMultianewarray: func(r *ByteReader, in *Instruction) error {
		idx, err := r.U2()
		if err != nil {
			return err
		}
		dims, err := r.U1()
		if err != nil {
			return err
		}
		in.ConstIndex = idx
		in.Dimensions = dims
		return nil
	},

	OpGoto: func(r *ByteReader, in *Instruction) error {
		v, err := r.I2()
		in.BranchOffset = int32(v)
		return err
	},
	OpJsr: func(r *ByteReader, in *Instruction) error {
		v, err := r.I2()
		in.BranchOffset = int32(v)
		return err
	},
	OpGotoW: func(r *ByteReader, in *Instruction) error {
		v, err := r.I4()
		in.BranchOffset = v
		return err
	},
	OpJsrW: func(r *ByteReader, in *Instruction) error {
		v, err := r.I4()
		in.BranchOffset = v
		return err
	},
	OpIfeq: branchOffset, OpIfne: branchOffset, OpIflt: branchOffset,
	OpIfge: branchOffset, OpIfgt: branchOffset, OpIfle: branchOffset,
	OpIfIcmpeq: branchOffset, OpIfIcmpne: branchOffset, OpIfIcmplt: branchOffset,
	OpIfIcmpge: branchOffset, OpIfIcmpgt: branchOffset, OpIfIcmple: branchOffset,
	OpIfAcmpeq: branchOffset, OpIfAcmpne: branchOffset,
	OpIfnull: branchOffset, OpIfnonnull: branchOffset,

	OpTableswitch: func(r *ByteReader, in *Instruction) error {
		if err := r.Align(4); err != nil {
			return err
		}
		def, err := r.I4()
		if err != nil {
			return err
		}
		low, err := r.I4()
		if err != nil {
			return err
		}
		high, err := r.I4()
		if err != nil {
			return err
		}
		n := int(high) - int(low) + 1
		if n < 0 {
			return newParseError(MalformedBytecode, r.Offset(), "tableswitch low=%d exceeds high=%d", low, high)
		}
		table := make([]int32, 0, n)
		for i := 0; i < n; i++ {
			v, err := r.I4()
			if err != nil {
				return err
			}
			table = append(table, v)
		}
		in.DefaultOffset = def
		in.LowBound = low
		in.HighBound = high
		in.JumpTable = table
		return nil
	},
	OpLookupswitch: func(r *ByteReader, in *Instruction) error {
		if err := r.Align(4); err != nil {
			return err
		}
		def, err := r.I4()
		if err != nil {
			return err
		}
		npairs, err := r.I4()
		if err != nil {
			return err
		}
		pairs := make([]MatchOffsetPair, npairs)
		for i := range pairs {
			match, err := r.I4()
			if err != nil {
				return err
			}
			off, err := r.I4()
			if err != nil {
				return err
			}
			pairs[i] = MatchOffsetPair{Match: match, Offset: off}
		}
		in.DefaultOffset = def
		in.LookupTable = pairs
		return nil
	},
}

func branchOffset(r *ByteReader, in *Instruction) error {
	v, err := r.I2()
	in.BranchOffset = int32(v)
	return err
}
