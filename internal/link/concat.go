package link

import (
	"fmt"

	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/runtime"
)

// translateConstants performs spec §4.5 step 5: each object's constant
// pool is translated into fully-resolved ExecConstants, deduplicated
// against the whole program's pool so two modules' identical literals
// share a slot the same way codegen already dedupes within one module.
func (l *linker) translateConstants() {
	seen := map[runtime.ExecConstant]int{}
	l.objConstGlobal = make([][]int, len(l.objs))

	for i, obj := range l.objs {
		table := make([]int, len(obj.Constants))
		for ci, c := range obj.Constants {
			ec := runtime.ExecConstant{
				Kind:  runtime.ConstantKind(c.Kind),
				Int:   c.Int,
				Float: c.Float,
				Bool:  c.Bool,
				Str:   c.String,
			}
			if idx, ok := seen[ec]; ok {
				table[ci] = idx
				continue
			}
			l.globalConstants = append(l.globalConstants, ec)
			idx := len(l.globalConstants) - 1
			seen[ec] = idx
			table[ci] = idx
		}
		l.objConstGlobal[i] = table
	}
}

// refOperandKind says which per-object translation table (if any) an
// opcode's 2-byte operand indexes into, so concatenate knows how to
// rewrite it. Opcodes not listed here either take no operand, or an
// operand already final at codegen time (local slots, attribute slots,
// CALL_VIRTUAL's vtable index).
type refOperandKind int

const (
	refNone refOperandKind = iota
	refConst
	refClass
	refFunc
	refJump
)

func operandKind(op opcode.Opcode) refOperandKind {
	switch op {
	case opcode.OpConstInt, opcode.OpConstFloat, opcode.OpConstBool, opcode.OpConstString:
		return refConst
	case opcode.OpNew:
		return refClass
	case opcode.OpCallStatic, opcode.OpCallNative:
		return refFunc
	case opcode.OpJump, opcode.OpJumpIfFalse:
		return refJump
	default:
		return refNone
	}
}

// concatenate performs spec §4.5 step 6: walks every local, non-native
// function's instruction stream in turn, rewriting each instruction's
// symbolic operand (constant/class/function-pool index, or in-function
// jump target) into the final program's address space, and records each
// function's CodeOffset as it goes.
func (l *linker) concatenate() opcode.Instructions {
	var out opcode.Instructions

	for i, obj := range l.objs {
		for li, fc := range obj.LocalFuncs {
			if fc.IsNative {
				continue
			}
			fd := l.localFuncDesc[i][li]
			fd.CodeOffset = len(out)
			out = append(out, l.translateFuncBody(i, fc.Code, fd.CodeOffset)...)
		}
	}
	return out
}

// translateFuncBody rewrites one function's instruction stream, decoding
// each instruction with opcode.Lookup/ReadOperands and re-encoding via
// opcode.Make with the rewritten operand (spec §4.5 step 6: "Each
// SymbolicInstruction resolves against the three mapping tables into a
// concrete Instruction").
func (l *linker) translateFuncBody(objIdx int, code opcode.Instructions, base int) opcode.Instructions {
	out := make(opcode.Instructions, 0, len(code))
	pos := 0
	for pos < len(code) {
		op := opcode.Opcode(code[pos])
		def, err := opcode.Lookup(byte(op))
		if err != nil {
			panic(fmt.Sprintf("link: %v", err))
		}
		operands, n := opcode.ReadOperands(def, code[pos+1:])
		pos += 1 + n

		switch operandKind(op) {
		case refConst:
			operands[0] = l.objConstGlobal[objIdx][operands[0]]
		case refClass:
			operands[0] = l.objClassGlobal[objIdx][operands[0]]
		case refFunc:
			operands[0] = l.objFuncGlobal[objIdx][operands[0]]
		case refJump:
			operands[0] += base
		}
		out = append(out, opcode.Make(op, operands...)...)
	}
	return out
}
