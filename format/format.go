package format

import (
	"encoding"

	"github.com/glennimoss/java-decompyler/java"
)

// Encoder renders a raw parsed class (java.Class): the fields directly
// derivable from the class file without any decompilation.
type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.Class) error
}

// ModelEncoder renders a decompiled class model (java.ClassModel): the
// richer shape produced once bytecode, annotations and attributes have
// been interpreted into source-level constructs.
type ModelEncoder interface {
	encoding.TextMarshaler
	Encode(model *java.ClassModel) error
}
