package classfile

import "bytes"

// ByteReader is a positional, big-endian reader over an in-memory byte
// source. It is the leaf of the decoder: every other component reads
// through one of these. A ByteReader is bound to a ConstantPool once the
// pool has been parsed, after which pool_ref fields may resolve; fields
// decoded before that point must not call Pool.
type ByteReader struct {
	b         []byte
	offset    int
	pool      *ConstantPool
	alignFrom int
}

// NewByteReader wraps b for sequential big-endian decoding starting at
// offset 0.
func NewByteReader(b []byte) *ByteReader {
	return &ByteReader{b: b}
}

// Sub returns a new reader scoped to the next n bytes of r, advancing r
// past them regardless of what the sub-reader's caller later does with it.
// Used for attribute bodies, whose declared length bounds a sub-parse.
func (r *ByteReader) Sub(n int) (*ByteReader, error) {
	body, err := r.Read(n)
	if err != nil {
		return nil, err
	}
	return &ByteReader{b: body, pool: r.pool}, nil
}

// Offset reports the current byte position within the source.
func (r *ByteReader) Offset() int {
	return r.offset
}

// Len reports how many bytes remain unread.
func (r *ByteReader) Len() int {
	return len(r.b) - r.offset
}

// BindPool attaches the constant pool so that subsequent PoolRef reads can
// resolve. Call exactly once, right after the pool itself has been parsed.
func (r *ByteReader) BindPool(cp *ConstantPool) {
	r.pool = cp
}

// Pool returns the bound constant pool, or nil if BindPool has not been
// called yet.
func (r *ByteReader) Pool() *ConstantPool {
	return r.pool
}

func (r *ByteReader) take(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.b) {
		return nil, newParseError(ShortRead, r.offset, "need %d bytes, have %d", n, r.Len())
	}
	start := r.offset
	r.offset += n
	return r.b[start:r.offset], nil
}

// Read returns the next n raw bytes.
func (r *ByteReader) Read(n int) ([]byte, error) {
	return r.take(n)
}

// Expect reads len(literal) bytes and fails with UnexpectedBytes if they
// differ from literal.
func (r *ByteReader) Expect(literal []byte) error {
	start := r.offset
	got, err := r.take(len(literal))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, literal) {
		return newParseError(UnexpectedBytes, start, "expected % x, found % x", literal, got)
	}
	return nil
}

// U1 reads an unsigned 8-bit integer.
func (r *ByteReader) U1() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U2 reads an unsigned big-endian 16-bit integer.
func (r *ByteReader) U2() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// U4 reads an unsigned big-endian 32-bit integer.
func (r *ByteReader) U4() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// U8 reads an unsigned big-endian 64-bit integer.
func (r *ByteReader) U8() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	hi := uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])
	lo := uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
	return hi<<32 | lo, nil
}

// I1 reads a signed 8-bit integer.
func (r *ByteReader) I1() (int8, error) {
	u, err := r.U1()
	return int8(u), err
}

// I2 reads a signed big-endian 16-bit integer.
func (r *ByteReader) I2() (int16, error) {
	u, err := r.U2()
	return int16(u), err
}

// I4 reads a signed big-endian 32-bit integer.
func (r *ByteReader) I4() (int32, error) {
	u, err := r.U4()
	return int32(u), err
}

// StartAlign records the current offset as the reference point for
// AlignedOffset and Align. Bytecode streams call this once, at the first
// instruction byte, since tableswitch/lookupswitch padding is measured
// relative to the start of the code region, not the whole class file.
func (r *ByteReader) StartAlign() {
	r.alignFrom = r.offset
}

// AlignedOffset returns the offset relative to the last StartAlign call.
func (r *ByteReader) AlignedOffset() int {
	return r.offset - r.alignFrom
}

// Align consumes (-AlignedOffset()) mod m padding bytes.
func (r *ByteReader) Align(m int) error {
	off := r.AlignedOffset()
	padded := (off + m - 1) / m * m
	_, err := r.Read(padded - off)
	return err
}
