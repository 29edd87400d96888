package opcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeAndReadOperandsRoundTrip(t *testing.T) {
	ins := Make(OpConstInt, 513)
	require.Equal(t, byte(OpConstInt), ins[0])

	def, err := Lookup(ins[0])
	require.NoError(t, err)
	operands, n := ReadOperands(def, ins[1:])
	require.Equal(t, 2, n)
	require.Equal(t, []int{513}, operands)
}

func TestMakeNoOperandInstruction(t *testing.T) {
	ins := Make(OpAddInt)
	require.Len(t, ins, 1)
}

func TestDisassembleMultipleInstructions(t *testing.T) {
	var ins Instructions
	ins = append(ins, Make(OpConstInt, 1)...)
	ins = append(ins, Make(OpConstInt, 2)...)
	ins = append(ins, Make(OpAddInt)...)

	out := Disassemble(ins)
	require.Contains(t, out, "CONST_INT 1")
	require.Contains(t, out, "CONST_INT 2")
	require.Contains(t, out, "ADD_INT")
}

func TestLookupUndefinedOpcode(t *testing.T) {
	_, err := Lookup(255)
	require.Error(t, err)
}
