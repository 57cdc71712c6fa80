package classfile

import "fmt"

// ErrorKind identifies the mutually exclusive ways a parse can fail (spec
// ErrorKind set: every failure maps to exactly one of these).
type ErrorKind int

const (
	// ShortRead means the underlying byte source ended before a decode
	// step had the bytes it needed.
	ShortRead ErrorKind = iota
	// BadMagic means the first four bytes were not CAFEBABE.
	BadMagic
	// UnexpectedBytes means a literal-expect decoder mismatched.
	UnexpectedBytes
	// PoolIndexOutOfRange means a pool reference was 0 where non-zero was
	// required, pointed past the end of the pool, or landed on the second
	// slot of a Long/Double entry.
	PoolIndexOutOfRange
	// PoolTypeMismatch means a pool entry existed but was not of the
	// variant a reference declared.
	PoolTypeMismatch
	// UnknownTag means a tagged-dispatch discriminator (pool tag,
	// frame-type range, element-value tag, opcode) had no registered
	// variant.
	UnknownTag
	// AttributeLengthMismatch means the bytes consumed by a known
	// attribute's typed decoder did not equal its declared length.
	AttributeLengthMismatch
	// MalformedDescriptor means a descriptor string failed to parse.
	MalformedDescriptor
	// MalformedBytecode means a structurally well-formed instruction
	// encoded a semantically invalid operand (e.g. a tableswitch whose
	// low bound exceeds its high bound).
	MalformedBytecode
)

func (k ErrorKind) String() string {
	switch k {
	case ShortRead:
		return "ShortRead"
	case BadMagic:
		return "BadMagic"
	case UnexpectedBytes:
		return "UnexpectedBytes"
	case PoolIndexOutOfRange:
		return "PoolIndexOutOfRange"
	case PoolTypeMismatch:
		return "PoolTypeMismatch"
	case UnknownTag:
		return "UnknownTag"
	case AttributeLengthMismatch:
		return "AttributeLengthMismatch"
	case MalformedDescriptor:
		return "MalformedDescriptor"
	case MalformedBytecode:
		return "MalformedBytecode"
	default:
		return "Unknown"
	}
}

// ParseError is the one error type the core library surfaces: a kind, the
// byte offset at which it was detected, and a short description. Every
// parse failure is fatal and carries exactly one ParseError (wrapped, where
// it crosses a function boundary, with %w so errors.As still finds it).
type ParseError struct {
	Kind    ErrorKind
	Offset  int
	Context string
}

func (e *ParseError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Context)
}

func newParseError(kind ErrorKind, offset int, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:    kind,
		Offset:  offset,
		Context: fmt.Sprintf(format, args...),
	}
}
