package classfile

import "math"

// ConstantPoolEntry is implemented by every constant pool variant. Tag
// reports the wire discriminator that produced it, so callers resolving a
// pool_ref can check PoolTypeMismatch without a type switch of their own.
type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }

type ConstantFieldrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantFieldrefInfo) Tag() ConstantTag { return ConstantFieldref }

type ConstantMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMethodrefInfo) Tag() ConstantTag { return ConstantMethodref }

type ConstantInterfaceMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantInterfaceMethodrefInfo) Tag() ConstantTag { return ConstantInterfaceMethodref }

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndTypeInfo) Tag() ConstantTag { return ConstantNameAndType }

type ConstantMethodHandleInfo struct {
	ReferenceKind  MethodHandleKind
	ReferenceIndex uint16
}

func (c *ConstantMethodHandleInfo) Tag() ConstantTag { return ConstantMethodHandle }

type ConstantMethodTypeInfo struct {
	DescriptorIndex uint16
}

func (c *ConstantMethodTypeInfo) Tag() ConstantTag { return ConstantMethodType }

type ConstantInvokeDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantInvokeDynamicInfo) Tag() ConstantTag { return ConstantInvokeDynamic }

// constantPoolGap occupies the slot immediately after a Long or Double
// entry, since those take two consecutive pool indices but only the first
// is a real entry (JVM spec §4.4.5). entry recognizes it and reports
// PoolIndexOutOfRange for any index that lands on it, rather than
// silently reading garbage.
type constantPoolGap struct{}

func (constantPoolGap) Tag() ConstantTag { return 0 }

// ConstantPool is the parsed constant_pool: entry i (1-indexed, as the
// class file format itself indexes) is cp[i-1]. Long and Double entries
// leave a constantPoolGap in the slot that follows them.
type ConstantPool []ConstantPoolEntry

// Count reports constant_pool_count, i.e. len(cp)+1 (index 0 is reserved
// and not stored).
func (cp ConstantPool) Count() int {
	return len(cp) + 1
}

// entry resolves index against the pool. Index 0 is always rejected with
// PoolIndexOutOfRange; callers that legitimately accept index 0 (e.g. a
// superclass or exception handler's catch-all) check for it before
// calling entry.
func (cp ConstantPool) entry(index uint16) (ConstantPoolEntry, error) {
	if index == 0 || int(index) > len(cp) {
		return nil, newParseError(PoolIndexOutOfRange, 0, "index %d (pool has %d entries)", index, len(cp))
	}
	e := cp[index-1]
	if _, gap := e.(constantPoolGap); gap {
		return nil, newParseError(PoolIndexOutOfRange, 0, "index %d falls on the second slot of a Long/Double entry", index)
	}
	return e, nil
}

// Utf8 resolves index to its UTF-8 text, or an error if it is not a
// CONSTANT_Utf8_info.
func (cp ConstantPool) Utf8(index uint16) (string, error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", err
	}
	u, ok := e.(*ConstantUtf8Info)
	if !ok {
		return "", newParseError(PoolTypeMismatch, 0, "index %d is %s, want Utf8", index, e.Tag())
	}
	return u.Value, nil
}

// ClassName resolves a CONSTANT_Class_info index to its binary class name.
func (cp ConstantPool) ClassName(index uint16) (string, error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", err
	}
	c, ok := e.(*ConstantClassInfo)
	if !ok {
		return "", newParseError(PoolTypeMismatch, 0, "index %d is %s, want Class", index, e.Tag())
	}
	return cp.Utf8(c.NameIndex)
}

// NameAndType resolves a CONSTANT_NameAndType_info index to its member
// name and descriptor text.
func (cp ConstantPool) NameAndType(index uint16) (name, descriptor string, err error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", "", err
	}
	nt, ok := e.(*ConstantNameAndTypeInfo)
	if !ok {
		return "", "", newParseError(PoolTypeMismatch, 0, "index %d is %s, want NameAndType", index, e.Tag())
	}
	if name, err = cp.Utf8(nt.NameIndex); err != nil {
		return "", "", err
	}
	if descriptor, err = cp.Utf8(nt.DescriptorIndex); err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// --- lenient accessors, matching the consuming packages' best-effort style:
// these return the zero value on any failure instead of an error, since a
// decompiled rendering would rather show an empty string than abort.

// GetUtf8 returns the UTF-8 text at index, or "" if it does not resolve.
func (cp ConstantPool) GetUtf8(index uint16) string {
	v, err := cp.Utf8(index)
	if err != nil {
		return ""
	}
	return v
}

// GetClassName returns the class name at index, or "" if it does not
// resolve.
func (cp ConstantPool) GetClassName(index uint16) string {
	v, err := cp.ClassName(index)
	if err != nil {
		return ""
	}
	return v
}

// GetNameAndType returns the name and descriptor at index, or ("", "") if
// it does not resolve.
func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string) {
	name, descriptor, err := cp.NameAndType(index)
	if err != nil {
		return "", ""
	}
	return name, descriptor
}

// GetString returns the text of a CONSTANT_String_info's referenced
// Utf8, or "" if it does not resolve.
func (cp ConstantPool) GetString(index uint16) string {
	e, err := cp.entry(index)
	if err != nil {
		return ""
	}
	s, ok := e.(*ConstantStringInfo)
	if !ok {
		return ""
	}
	return cp.GetUtf8(s.StringIndex)
}

// GetInteger returns the value of a CONSTANT_Integer_info at index.
func (cp ConstantPool) GetInteger(index uint16) (int32, bool) {
	e, err := cp.entry(index)
	if err != nil {
		return 0, false
	}
	v, ok := e.(*ConstantIntegerInfo)
	if !ok {
		return 0, false
	}
	return v.Value, true
}

// GetFloat returns the value of a CONSTANT_Float_info at index.
func (cp ConstantPool) GetFloat(index uint16) (float32, bool) {
	e, err := cp.entry(index)
	if err != nil {
		return 0, false
	}
	v, ok := e.(*ConstantFloatInfo)
	if !ok {
		return 0, false
	}
	return v.Value, true
}

// GetLong returns the value of a CONSTANT_Long_info at index.
func (cp ConstantPool) GetLong(index uint16) (int64, bool) {
	e, err := cp.entry(index)
	if err != nil {
		return 0, false
	}
	v, ok := e.(*ConstantLongInfo)
	if !ok {
		return 0, false
	}
	return v.Value, true
}

// GetDouble returns the value of a CONSTANT_Double_info at index.
func (cp ConstantPool) GetDouble(index uint16) (float64, bool) {
	e, err := cp.entry(index)
	if err != nil {
		return 0, false
	}
	v, ok := e.(*ConstantDoubleInfo)
	if !ok {
		return 0, false
	}
	return v.Value, true
}

// GetMethodHandle returns the CONSTANT_MethodHandle_info at index, or
// false if index doesn't resolve to one or its reference_index does not
// point at the pool variant its reference_kind requires (JVM spec §4.4.8).
func (cp ConstantPool) GetMethodHandle(index uint16) (*ConstantMethodHandleInfo, bool) {
	e, err := cp.entry(index)
	if err != nil {
		return nil, false
	}
	v, ok := e.(*ConstantMethodHandleInfo)
	if !ok {
		return nil, false
	}
	ref, err := cp.entry(v.ReferenceIndex)
	if err != nil || ref.Tag() != v.ReferenceKind.ExpectedVariant() {
		return nil, false
	}
	return v, true
}

// GetMethodType returns the descriptor text of a CONSTANT_MethodType_info
// at index.
func (cp ConstantPool) GetMethodType(index uint16) (string, bool) {
	e, err := cp.entry(index)
	if err != nil {
		return "", false
	}
	v, ok := e.(*ConstantMethodTypeInfo)
	if !ok {
		return "", false
	}
	return cp.GetUtf8(v.DescriptorIndex), true
}

// GetInvokeDynamic returns the CONSTANT_InvokeDynamic_info at index.
func (cp ConstantPool) GetInvokeDynamic(index uint16) (*ConstantInvokeDynamicInfo, bool) {
	e, err := cp.entry(index)
	if err != nil {
		return nil, false
	}
	v, ok := e.(*ConstantInvokeDynamicInfo)
	return v, ok
}

// constantPoolEntryParsers dispatches on the wire tag byte, per Design
// Notes' preference for a closed lookup table over open registration.
var constantPoolEntryParsers = map[ConstantTag]func(r *ByteReader) (ConstantPoolEntry, error){
	ConstantUtf8: func(r *ByteReader) (ConstantPoolEntry, error) {
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		b, err := r.Read(int(n))
		if err != nil {
			return nil, err
		}
		return &ConstantUtf8Info{Value: decodeModifiedUtf8(b)}, nil
	},
	ConstantInteger: func(r *ByteReader) (ConstantPoolEntry, error) {
		v, err := r.I4()
		return &ConstantIntegerInfo{Value: v}, err
	},
	ConstantFloat: func(r *ByteReader) (ConstantPoolEntry, error) {
		bits, err := r.U4()
		if err != nil {
			return nil, err
		}
		return &ConstantFloatInfo{Value: math.Float32frombits(bits)}, nil
	},
	ConstantLong: func(r *ByteReader) (ConstantPoolEntry, error) {
		bits, err := r.U8()
		if err != nil {
			return nil, err
		}
		return &ConstantLongInfo{Value: int64(bits)}, nil
	},
	ConstantDouble: func(r *ByteReader) (ConstantPoolEntry, error) {
		bits, err := r.U8()
		if err != nil {
			return nil, err
		}
		return &ConstantDoubleInfo{Value: math.Float64frombits(bits)}, nil
	},
	ConstantClass: func(r *ByteReader) (ConstantPoolEntry, error) {
		idx, err := r.U2()
		return &ConstantClassInfo{NameIndex: idx}, err
	},
	ConstantString: func(r *ByteReader) (ConstantPoolEntry, error) {
		idx, err := r.U2()
		return &ConstantStringInfo{StringIndex: idx}, err
	},
	ConstantFieldref: func(r *ByteReader) (ConstantPoolEntry, error) {
		c, err := r.U2()
		if err != nil {
			return nil, err
		}
		nt, err := r.U2()
		return &ConstantFieldrefInfo{ClassIndex: c, NameAndTypeIndex: nt}, err
	},
	ConstantMethodref: func(r *ByteReader) (ConstantPoolEntry, error) {
		c, err := r.U2()
		if err != nil {
			return nil, err
		}
		nt, err := r.U2()
		return &ConstantMethodrefInfo{ClassIndex: c, NameAndTypeIndex: nt}, err
	},
	ConstantInterfaceMethodref: func(r *ByteReader) (ConstantPoolEntry, error) {
		c, err := r.U2()
		if err != nil {
			return nil, err
		}
		nt, err := r.U2()
		return &ConstantInterfaceMethodrefInfo{ClassIndex: c, NameAndTypeIndex: nt}, err
	},
	ConstantNameAndType: func(r *ByteReader) (ConstantPoolEntry, error) {
		n, err := r.U2()
		if err != nil {
			return nil, err
		}
		d, err := r.U2()
		return &ConstantNameAndTypeInfo{NameIndex: n, DescriptorIndex: d}, err
	},
	ConstantMethodHandle: func(r *ByteReader) (ConstantPoolEntry, error) {
		kind, err := r.U1()
		if err != nil {
			return nil, err
		}
		idx, err := r.U2()
		return &ConstantMethodHandleInfo{ReferenceKind: MethodHandleKind(kind), ReferenceIndex: idx}, err
	},
	ConstantMethodType: func(r *ByteReader) (ConstantPoolEntry, error) {
		idx, err := r.U2()
		return &ConstantMethodTypeInfo{DescriptorIndex: idx}, err
	},
	ConstantInvokeDynamic: func(r *ByteReader) (ConstantPoolEntry, error) {
		bm, err := r.U2()
		if err != nil {
			return nil, err
		}
		nt, err := r.U2()
		return &ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: bm, NameAndTypeIndex: nt}, err
	},
}

// parseConstantPool reads constant_pool_count followed by that many minus
// one pool entries, skipping the extra slot that Long/Double entries
// reserve.
func parseConstantPool(r *ByteReader) (ConstantPool, error) {
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, newParseError(UnexpectedBytes, r.Offset(), "constant_pool_count must be at least 1")
	}
	cp := make(ConstantPool, int(count)-1)
	for i := 0; i < len(cp); i++ {
		tagOffset := r.Offset()
		rawTag, err := r.U1()
		if err != nil {
			return nil, err
		}
		tag := ConstantTag(rawTag)
		parse, ok := constantPoolEntryParsers[tag]
		if !ok {
			return nil, newParseError(UnknownTag, tagOffset, "constant pool tag %d", rawTag)
		}
		entry, err := parse(r)
		if err != nil {
			return nil, err
		}
		cp[i] = entry
		if tag == ConstantLong || tag == ConstantDouble {
			i++
			if i < len(cp) {
				cp[i] = constantPoolGap{}
			}
		}
	}
	return cp, nil
}
