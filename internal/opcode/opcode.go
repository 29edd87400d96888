// Package opcode defines Venom's bytecode instruction set: a one-byte
// Opcode, per-opcode operand-width Definitions, and the Make/ReadOperands
// encode/decode pair the code generator and VM share (spec §4.4 VM
// instruction inventory, §6 typed opcode families).
//
// Grounded on the teacher's Opcode/Definition/Make pattern (byte opcode +
// fixed operand-width table), generalized here to Venom's typed opcode
// families (_INT/_FLOAT/_BOOL/_REF suffixes select the Cell union member an
// instruction reads/writes, spec §4.4) and virtual/native call instructions
// it does not have.
package opcode

import (
	"encoding/binary"
	"fmt"
)

// Instructions is a raw encoded instruction stream.
type Instructions []byte

// Opcode is a single VM instruction tag.
type Opcode byte

const (
	// Stack/constant loading.
	OpConstInt Opcode = iota
	OpConstFloat
	OpConstBool
	OpConstString
	OpPushNull
	OpPop
	OpDup

	// Locals (operand: local slot index, 2 bytes).
	OpLoadLocalInt
	OpLoadLocalFloat
	OpLoadLocalBool
	OpLoadLocalRef
	OpStoreLocalInt
	OpStoreLocalFloat
	OpStoreLocalBool
	OpStoreLocalRef

	// Module-level globals (operand: global slot index, 2 bytes).
	OpLoadGlobalRef
	OpStoreGlobalRef

	// Attribute access (operand: attribute slot index, 2 bytes). Stack:
	// [obj] -> [value] / [obj, value] -> [].
	OpLoadAttrInt
	OpLoadAttrFloat
	OpLoadAttrBool
	OpLoadAttrRef
	OpStoreAttrInt
	OpStoreAttrFloat
	OpStoreAttrBool
	OpStoreAttrRef

	// Typed arithmetic/comparison (spec §4.1 ArithResult rules): operate on
	// the top two Cells of the matching union member.
	OpAddInt
	OpSubInt
	OpMulInt
	OpDivInt
	OpModInt
	OpAddFloat
	OpSubFloat
	OpMulFloat
	OpDivFloat
	OpConcatString

	OpLtInt
	OpLeInt
	OpGtInt
	OpGeInt
	OpLtFloat
	OpLeFloat
	OpGtFloat
	OpGeFloat
	OpEqRef
	OpNeRef

	OpAndBool
	OpOrBool
	OpNotBool
	OpNegInt
	OpNegFloat

	OpBitAndInt
	OpBitOrInt
	OpBitXorInt
	OpBitNotInt

	// Control flow (operand: absolute instruction offset, 2 bytes).
	OpJump
	OpJumpIfFalse

	// Object construction (operand: class-pool index, 2 bytes). Stack:
	// [ctorArgs...] -> [objRef].
	OpNew

	// Calls. OpCallStatic's operand is a function-pool index (2 bytes);
	// OpCallVirtual's operand is a vtable slot index (2 bytes) and expects
	// the receiver beneath its arguments; OpCallNative's operand is a
	// function-pool index like OpCallStatic's (2 bytes) and trampolines into
	// Go (spec §4.4 "native trampoline").
	OpCallStatic
	OpCallVirtual
	OpCallNative
	OpReturn

	// Boxing (spec §4.3 BoxPrimitives pass): wrap/unwrap a primitive Cell in
	// its Box{Int,Float,Bool} object.
	OpBoxInt
	OpBoxFloat
	OpBoxBool
	OpUnboxInt
	OpUnboxFloat
	OpUnboxBool

	// Ref cell access (spec §4.3 lifting contract): Ref{T}.value get/set.
	OpRefGet
	OpRefSet

	OpHalt
)

// Definition describes one opcode's mnemonic and operand widths (bytes per
// operand), used by both the encoder and a disassembler.
type Definition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*Definition{
	OpConstInt:    {"CONST_INT", []int{2}},
	OpConstFloat:  {"CONST_FLOAT", []int{2}},
	OpConstBool:   {"CONST_BOOL", []int{2}},
	OpConstString: {"CONST_STRING", []int{2}},
	OpPushNull:    {"PUSH_NULL", []int{}},
	OpPop:         {"POP", []int{}},
	OpDup:         {"DUP", []int{}},

	OpLoadLocalInt:   {"LOAD_LOCAL_INT", []int{2}},
	OpLoadLocalFloat: {"LOAD_LOCAL_FLOAT", []int{2}},
	OpLoadLocalBool:  {"LOAD_LOCAL_BOOL", []int{2}},
	OpLoadLocalRef:   {"LOAD_LOCAL_REF", []int{2}},
	OpStoreLocalInt:   {"STORE_LOCAL_INT", []int{2}},
	OpStoreLocalFloat: {"STORE_LOCAL_FLOAT", []int{2}},
	OpStoreLocalBool:  {"STORE_LOCAL_BOOL", []int{2}},
	OpStoreLocalRef:   {"STORE_LOCAL_REF", []int{2}},

	OpLoadGlobalRef:  {"LOAD_GLOBAL_REF", []int{2}},
	OpStoreGlobalRef: {"STORE_GLOBAL_REF", []int{2}},

	OpLoadAttrInt:   {"LOAD_ATTR_INT", []int{2}},
	OpLoadAttrFloat: {"LOAD_ATTR_FLOAT", []int{2}},
	OpLoadAttrBool:  {"LOAD_ATTR_BOOL", []int{2}},
	OpLoadAttrRef:   {"LOAD_ATTR_REF", []int{2}},
	OpStoreAttrInt:   {"STORE_ATTR_INT", []int{2}},
	OpStoreAttrFloat: {"STORE_ATTR_FLOAT", []int{2}},
	OpStoreAttrBool:  {"STORE_ATTR_BOOL", []int{2}},
	OpStoreAttrRef:   {"STORE_ATTR_REF", []int{2}},

	OpAddInt: {"ADD_INT", []int{}}, OpSubInt: {"SUB_INT", []int{}},
	OpMulInt: {"MUL_INT", []int{}}, OpDivInt: {"DIV_INT", []int{}},
	OpModInt: {"MOD_INT", []int{}},
	OpAddFloat: {"ADD_FLOAT", []int{}}, OpSubFloat: {"SUB_FLOAT", []int{}},
	OpMulFloat: {"MUL_FLOAT", []int{}}, OpDivFloat: {"DIV_FLOAT", []int{}},
	OpConcatString: {"CONCAT_STRING", []int{}},

	OpLtInt: {"LT_INT", []int{}}, OpLeInt: {"LE_INT", []int{}},
	OpGtInt: {"GT_INT", []int{}}, OpGeInt: {"GE_INT", []int{}},
	OpLtFloat: {"LT_FLOAT", []int{}}, OpLeFloat: {"LE_FLOAT", []int{}},
	OpGtFloat: {"GT_FLOAT", []int{}}, OpGeFloat: {"GE_FLOAT", []int{}},
	OpEqRef: {"EQ_REF", []int{}}, OpNeRef: {"NE_REF", []int{}},

	OpAndBool: {"AND_BOOL", []int{}}, OpOrBool: {"OR_BOOL", []int{}},
	OpNotBool: {"NOT_BOOL", []int{}},
	OpNegInt:  {"NEG_INT", []int{}}, OpNegFloat: {"NEG_FLOAT", []int{}},

	OpBitAndInt: {"BITAND_INT", []int{}}, OpBitOrInt: {"BITOR_INT", []int{}},
	OpBitXorInt: {"BITXOR_INT", []int{}}, OpBitNotInt: {"BITNOT_INT", []int{}},

	OpJump:        {"JUMP", []int{2}},
	OpJumpIfFalse: {"JUMP_IF_FALSE", []int{2}},

	OpNew: {"NEW", []int{2}},

	OpCallStatic:  {"CALL_STATIC", []int{2}},
	OpCallVirtual: {"CALL_VIRTUAL", []int{2}},
	OpCallNative:  {"CALL_NATIVE", []int{2}},
	OpReturn:      {"RETURN", []int{}},

	OpBoxInt: {"BOX_INT", []int{}}, OpBoxFloat: {"BOX_FLOAT", []int{}},
	OpBoxBool: {"BOX_BOOL", []int{}},
	OpUnboxInt: {"UNBOX_INT", []int{}}, OpUnboxFloat: {"UNBOX_FLOAT", []int{}},
	OpUnboxBool: {"UNBOX_BOOL", []int{}},

	OpRefGet: {"REF_GET", []int{}}, OpRefSet: {"REF_SET", []int{}},

	OpHalt: {"HALT", []int{}},
}

// Lookup returns op's Definition, or an error if op is not defined.
func Lookup(op byte) (*Definition, error) {
	def, ok := definitions[Opcode(op)]
	if !ok {
		return nil, fmt.Errorf("opcode: undefined opcode %d", op)
	}
	return def, nil
}

// Make encodes op and its operands into a single instruction.
func Make(op Opcode, operands ...int) Instructions {
	def, ok := definitions[op]
	if !ok {
		return Instructions{}
	}
	length := 1
	for _, w := range def.OperandWidths {
		length += w
	}
	out := make(Instructions, length)
	out[0] = byte(op)
	offset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 2:
			binary.BigEndian.PutUint16(out[offset:], uint16(operand))
		case 1:
			out[offset] = byte(operand)
		}
		offset += width
	}
	return out
}

// ReadOperands decodes the operands of an instruction starting at ins[0]
// (the opcode byte is not included in ins), per def. Returns the decoded
// operands and the number of bytes consumed.
func ReadOperands(def *Definition, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0
	for i, width := range def.OperandWidths {
		switch width {
		case 2:
			operands[i] = int(binary.BigEndian.Uint16(ins[offset:]))
		case 1:
			operands[i] = int(ins[offset])
		}
		offset += width
	}
	return operands, offset
}

// ReadUint16 reads a big-endian uint16 at the start of ins, used by the VM's
// dispatch loop to decode jump/index operands without re-deriving widths.
func ReadUint16(ins Instructions) uint16 { return binary.BigEndian.Uint16(ins) }
