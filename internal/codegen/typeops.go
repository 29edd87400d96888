package codegen

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/types"
)

// loadLocalOp/storeLocalOp/loadAttrOp/storeAttrOp pick the typed opcode
// family matching t's Cell union member (spec §4.4: "typed emission rules
// select the Cell tag the static type carries").
func loadLocalOp(t *types.InstantiatedType) opcode.Opcode {
	switch {
	case t.IsInt():
		return opcode.OpLoadLocalInt
	case t.IsFloat():
		return opcode.OpLoadLocalFloat
	case t.IsBool():
		return opcode.OpLoadLocalBool
	default:
		return opcode.OpLoadLocalRef
	}
}

func storeLocalOp(t *types.InstantiatedType) opcode.Opcode {
	switch {
	case t.IsInt():
		return opcode.OpStoreLocalInt
	case t.IsFloat():
		return opcode.OpStoreLocalFloat
	case t.IsBool():
		return opcode.OpStoreLocalBool
	default:
		return opcode.OpStoreLocalRef
	}
}

func loadAttrOp(t *types.InstantiatedType) opcode.Opcode {
	switch {
	case t.IsInt():
		return opcode.OpLoadAttrInt
	case t.IsFloat():
		return opcode.OpLoadAttrFloat
	case t.IsBool():
		return opcode.OpLoadAttrBool
	default:
		return opcode.OpLoadAttrRef
	}
}

func storeAttrOp(t *types.InstantiatedType) opcode.Opcode {
	switch {
	case t.IsInt():
		return opcode.OpStoreAttrInt
	case t.IsFloat():
		return opcode.OpStoreAttrFloat
	case t.IsBool():
		return opcode.OpStoreAttrBool
	default:
		return opcode.OpStoreAttrRef
	}
}

func boxOp(t *types.InstantiatedType) opcode.Opcode {
	switch {
	case t.IsInt():
		return opcode.OpBoxInt
	case t.IsFloat():
		return opcode.OpBoxFloat
	default:
		return opcode.OpBoxBool
	}
}

// binopOpcode picks the typed arithmetic/comparison opcode for op given
// the static type of its left operand (spec §4.1 ArithResult rules: both
// operands of a well-typed binop share a Cell tag by the time codegen
// runs, except string `+` which concatenates and ref `==`/`!=` which
// compare identity).
func binopOpcode(op ast.BinopKind, leftType *types.InstantiatedType) opcode.Opcode {
	isFloat := leftType.IsFloat()
	isString := leftType.IsString()

	switch op {
	case ast.OpAdd:
		switch {
		case isString:
			return opcode.OpConcatString
		case isFloat:
			return opcode.OpAddFloat
		default:
			return opcode.OpAddInt
		}
	case ast.OpSub:
		if isFloat {
			return opcode.OpSubFloat
		}
		return opcode.OpSubInt
	case ast.OpMul:
		if isFloat {
			return opcode.OpMulFloat
		}
		return opcode.OpMulInt
	case ast.OpDiv:
		if isFloat {
			return opcode.OpDivFloat
		}
		return opcode.OpDivInt
	case ast.OpMod:
		return opcode.OpModInt
	case ast.OpLt:
		if isFloat {
			return opcode.OpLtFloat
		}
		return opcode.OpLtInt
	case ast.OpLe:
		if isFloat {
			return opcode.OpLeFloat
		}
		return opcode.OpLeInt
	case ast.OpGt:
		if isFloat {
			return opcode.OpGtFloat
		}
		return opcode.OpGtInt
	case ast.OpGe:
		if isFloat {
			return opcode.OpGeFloat
		}
		return opcode.OpGeInt
	case ast.OpEq:
		// opcode's EQ_REF/NE_REF are the VM's only equality instructions
		// (spec's per-family EQ/NE split collapses here): the VM compares
		// whichever Cell union member the runtime tag says is live, so one
		// opcode pair covers primitives and refs alike.
		return opcode.OpEqRef
	case ast.OpNe:
		return opcode.OpNeRef
	case ast.OpAnd:
		return opcode.OpAndBool
	case ast.OpOr:
		return opcode.OpOrBool
	case ast.OpBitAnd:
		return opcode.OpBitAndInt
	case ast.OpBitOr:
		return opcode.OpBitOrInt
	case ast.OpBitXor:
		return opcode.OpBitXorInt
	}
	panic("codegen: unhandled BinopKind")
}
