package java

import (
	"strconv"
	"strings"

	"github.com/glennimoss/java-decompyler/classfile"
)

// Instruction is one disassembled bytecode instruction: its code-region
// offset and formatted mnemonic/operand text (e.g. "invokevirtual #14").
type Instruction struct {
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

// Disassembly is a formatted iterator over a method body's instructions,
// in ascending offset order.
type Disassembly struct {
	Instructions []Instruction
}

func (d *Disassembly) String() string {
	var sb strings.Builder
	for i, in := range d.Instructions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strconv.Itoa(in.Offset))
		sb.WriteByte(':')
		sb.WriteByte(' ')
		sb.WriteString(in.Text)
	}
	return sb.String()
}

func disassemblyFromCode(code *classfile.CodeAttribute, cp classfile.ConstantPool) *Disassembly {
	parsed := code.ParsedCode()
	if parsed == nil {
		return nil
	}
	d := &Disassembly{}
	parsed.Each(func(offset int, in *classfile.Instruction) {
		in.ResolveMultianewarrayDepth(cp)
		d.Instructions = append(d.Instructions, Instruction{
			Offset: offset,
			Text:   in.String(),
		})
	})
	return d
}
