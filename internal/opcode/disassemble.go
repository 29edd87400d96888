package opcode

import (
	"fmt"
	"strings"
)

// Disassemble renders an instruction stream as human-readable text, one
// instruction per line prefixed with its byte offset — used by
// --print-bytecode (spec §7 CLI diagnostics contract; SPEC_FULL §A test
// tooling).
func Disassemble(ins Instructions) string {
	var sb strings.Builder
	offset := 0
	for offset < len(ins) {
		def, err := Lookup(ins[offset])
		if err != nil {
			fmt.Fprintf(&sb, "%04d ERROR: %s\n", offset, err)
			offset++
			continue
		}
		operands, read := ReadOperands(def, ins[offset+1:])
		fmt.Fprintf(&sb, "%04d %s\n", offset, formatInstruction(def, operands))
		offset += 1 + read
	}
	return sb.String()
}

func formatInstruction(def *Definition, operands []int) string {
	switch len(operands) {
	case 0:
		return def.Name
	case 1:
		return fmt.Sprintf("%s %d", def.Name, operands[0])
	default:
		return fmt.Sprintf("%s %v", def.Name, operands)
	}
}
