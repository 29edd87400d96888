package codegen

import (
	"fmt"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/rewrite"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// emitExpr emits e's code, leaving exactly one Cell on the stack (spec
// §4.4 "per-construct emission rules").
func (fe *funcEmitter) emitExpr(e ast.ExprNode) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		fe.emit(opcode.OpConstInt, fe.gen.intern(Constant{Kind: ConstInt, Int: n.Value}))
	case *ast.FloatLiteral:
		fe.emit(opcode.OpConstFloat, fe.gen.intern(Constant{Kind: ConstFloat, Float: n.Value}))
	case *ast.BoolLiteral:
		fe.emit(opcode.OpConstBool, fe.gen.intern(Constant{Kind: ConstBool, Bool: n.Value}))
	case *ast.StringLiteral:
		fe.emit(opcode.OpConstString, fe.gen.intern(Constant{Kind: ConstString, String: n.Value}))
	case *ast.NullLiteral:
		fe.emit(opcode.OpPushNull)
	case *ast.SelfExpr:
		fe.emit(opcode.OpLoadLocalRef, fe.selfSlot)
	case *ast.SuperExpr:
		// super is never loaded as a value in its own right — it only marks
		// a call's dispatch as non-virtual (emitCall); as a receiver it
		// denotes the very same object self does.
		fe.emit(opcode.OpLoadLocalRef, fe.selfSlot)
	case *ast.Variable:
		fe.emitVariableLoad(n)
	case *ast.BinopExpr:
		fe.emitBinop(n)
	case *ast.UnopExpr:
		fe.emitUnop(n)
	case *ast.AttrAccess:
		fe.emitExpr(n.Base)
		fe.emit(loadAttrOp(n.Type()), fe.attrSlot(n))
	case *ast.ArrayAccess:
		fe.emitArrayGet(n)
	case *ast.FunctionCall:
		fe.emitCall(n)
	case *ast.AssignExpr:
		fe.emitAssignExpr(n)
	case *rewrite.BoxExpr:
		fe.emitExpr(n.Inner)
		fe.emit(boxOp(n.Inner.Type()))
	default:
		panic(fmt.Sprintf("codegen: unhandled expression node %T (array/dict literals must be desugared before codegen)", e))
	}
}

func (fe *funcEmitter) emitVariableLoad(v *ast.Variable) {
	vs, ok := v.Symbol.(*symbols.ValueSymbol)
	if !ok {
		panic("codegen: Variable with unresolved symbol")
	}
	slot := fe.localSlot(vs)
	fe.emit(loadLocalOp(v.Type()), slot)
}

func (fe *funcEmitter) attrSlot(n *ast.AttrAccess) int {
	ca, ok := n.Symbol.(*symbols.ClassAttribute)
	if !ok {
		panic(fmt.Sprintf("codegen: AttrAccess %q with unresolved attribute symbol", n.Name))
	}
	return ca.SlotIndex
}

func (fe *funcEmitter) emitBinop(n *ast.BinopExpr) {
	fe.emitExpr(n.Left)
	fe.emitExpr(n.Right)
	fe.emit(binopOpcode(n.Op, n.Left.Type()))
}

func (fe *funcEmitter) emitUnop(n *ast.UnopExpr) {
	fe.emitExpr(n.Arg)
	switch n.Op {
	case ast.OpNeg:
		if n.Arg.Type().IsFloat() {
			fe.emit(opcode.OpNegFloat)
		} else {
			fe.emit(opcode.OpNegInt)
		}
	case ast.OpNot:
		fe.emit(opcode.OpNotBool)
	case ast.OpBitNot:
		fe.emit(opcode.OpBitNotInt)
	}
}

// emitArrayGet models `base[index]` as a native method call on the
// builtin List/Map class (spec §4 runtime contract) rather than a
// dedicated opcode family: internal/opcode's set has no GET/SET_ARRAY_ACCESS
// instructions (a deliberate simplification from spec §6's literal
// inventory), so indexing reuses the same
// CALL_NATIVE path as any other builtin method.
func (fe *funcEmitter) emitArrayGet(n *ast.ArrayAccess) {
	fe.emitExpr(n.Base)
	fe.emitExpr(n.Index)
	ref := fe.gen.funcRef(syntheticNative(nativeIndexName(n.Base.Type(), "get")))
	fe.emit(opcode.OpCallNative, int(ref))
}

func (fe *funcEmitter) emitCall(fc *ast.FunctionCall) {
	switch bound := fc.Bound.(type) {
	case *symbols.ClassSymbol:
		for _, a := range fc.Args.Exprs {
			fe.emitExpr(a)
		}
		fe.emit(opcode.OpNew, int(fe.gen.classRef(bound)))
	case *symbols.MethodSymbol:
		recv, isSuper := methodReceiver(fc.Target)
		fe.emitExpr(recv)
		for _, a := range fc.Args.Exprs {
			fe.emitExpr(a)
		}
		ref := fe.gen.funcRef(bound)
		switch {
		case bound.Native:
			fe.emit(opcode.OpCallNative, int(ref))
		case isSuper:
			fe.emit(opcode.OpCallStatic, int(ref))
		default:
			fe.emit(opcode.OpCallVirtual, bound.VTableIndex)
		}
	case *symbols.FuncSymbol:
		for _, a := range fc.Args.Exprs {
			fe.emitExpr(a)
		}
		ref := fe.gen.funcRef(bound)
		if bound.Native {
			fe.emit(opcode.OpCallNative, int(ref))
		} else {
			fe.emit(opcode.OpCallStatic, int(ref))
		}
	default:
		panic(fmt.Sprintf("codegen: function call with unresolved target %T", fc.Bound))
	}
}

// methodReceiver recovers the receiver expression and whether the call is
// a non-virtual `super.m(...)` dispatch from the call's Target shape (spec
// §4.2 method-call desugaring: `recv.m(args)` parses as a FunctionCall
// whose Target is an AttrAccess).
func methodReceiver(target ast.ExprNode) (ast.ExprNode, bool) {
	attr, ok := target.(*ast.AttrAccess)
	if !ok {
		return &ast.SelfExpr{}, false
	}
	_, isSuper := attr.Base.(*ast.SuperExpr)
	return attr.Base, isSuper
}

// emitAssignExpr handles the rare case of an assignment used for its value
// in a larger expression, e.g. `print(x = 3)`: perform the store exactly
// as the statement form would (net zero stack effect), then re-read the
// target to produce the expression's value. This avoids needing a second,
// stack-juggling code path alongside emitStoreStmt.
func (fe *funcEmitter) emitAssignExpr(n *ast.AssignExpr) {
	fe.emitStoreStmt(n.LHS, n.RHS)
	fe.emitExpr(n.LHS)
}

// emitStoreStmt evaluates rhs and stores it into lhs with net zero stack
// effect (spec §4.4 "attribute read/write"/"array access").
func (fe *funcEmitter) emitStoreStmt(lhs, rhs ast.ExprNode) {
	switch l := lhs.(type) {
	case *ast.Variable:
		fe.emitExpr(rhs)
		vs := l.Symbol.(*symbols.ValueSymbol)
		fe.emit(storeLocalOp(l.Type()), fe.localSlot(vs))
	case *ast.AttrAccess:
		fe.emitExpr(l.Base)
		fe.emitExpr(rhs)
		fe.emit(storeAttrOp(l.Type()), fe.attrSlot(l))
	case *ast.ArrayAccess:
		fe.emitExpr(l.Base)
		fe.emitExpr(l.Index)
		fe.emitExpr(rhs)
		ref := fe.gen.funcRef(syntheticNative(nativeIndexName(l.Base.Type(), "set")))
		fe.emit(opcode.OpCallNative, int(ref))
		fe.emit(opcode.OpPop) // native "set" still returns one Cell (null); discard it to stay balanced
	default:
		panic(fmt.Sprintf("codegen: unsupported assignment target %T", lhs))
	}
}

// syntheticNative builds the ad hoc *symbols.FuncSymbol codegen uses to
// address a builtin List/Map accessor through the ordinary funcRef/extern
// machinery, without the analyzer having to know about it. The linker
// resolves it purely by name (spec §4.5 step 3), same as any other extern.
func syntheticNative(name string) *symbols.FuncSymbol {
	return &symbols.FuncSymbol{Name: name, Native: true, MangledName: name}
}

func nativeIndexName(baseType *types.InstantiatedType, verb string) string {
	if baseType.IsListType() {
		return "list." + verb
	}
	return "map." + verb
}
