package codegen

import (
	"fmt"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/opcode"
)

// emitStmtList emits each statement in order. Statements never leave a
// value on the stack when this returns (spec §4.4 "expression-list value"
// is the one exception, handled by ExprStmt when it is the final implicit
// return of a function body — but rewrite.FunctionReturns has already
// turned every such tail expression into an explicit Return by the time
// codegen runs, so ExprStmt here always discards).
func (fe *funcEmitter) emitStmtList(body *ast.StmtList) {
	for _, stmt := range body.Stmts {
		fe.emitStmt(stmt)
	}
}

func (fe *funcEmitter) emitStmt(n ast.Node) {
	switch v := n.(type) {
	case *ast.Assign:
		fe.emitStoreStmt(v.Expr.LHS, v.Expr.RHS)
	case *ast.ExprStmt:
		fe.emitExpr(v.Expr)
		fe.emit(opcode.OpPop)
	case *ast.Return:
		if v.Expr != nil {
			fe.emitExpr(v.Expr)
		} else {
			fe.emit(opcode.OpPushNull)
		}
		fe.emit(opcode.OpReturn)
	case *ast.IfStmt:
		fe.emitIf(v)
	case *ast.ForStmt:
		fe.emitFor(v)
	case *ast.Import:
		// Resolved at analysis time; nothing to generate.
	case *ast.ClassAttrDecl, *ast.FuncDecl, *ast.ClassDecl:
		panic(fmt.Sprintf("codegen: %T found inside a function body; rewrite.Lift should have lifted it out", n))
	default:
		panic(fmt.Sprintf("codegen: unhandled statement node %T", n))
	}
}

func (fe *funcEmitter) emitIf(n *ast.IfStmt) {
	fe.emitExpr(n.Cond)
	jumpToElse := fe.emitJump(opcode.OpJumpIfFalse)
	fe.emitStmtList(n.ThenBody)
	if n.ElseBody == nil {
		fe.patchJump(jumpToElse)
		return
	}
	jumpToEnd := fe.emitJump(opcode.OpJump)
	fe.patchJump(jumpToElse)
	fe.emitStmtList(n.ElseBody)
	fe.patchJump(jumpToEnd)
}

// emitFor lowers `for init; cond; step do body end` directly to a
// test-at-top loop (spec §6 grammar); any of init/cond/step may be absent.
func (fe *funcEmitter) emitFor(n *ast.ForStmt) {
	if n.Init != nil {
		fe.emitStmt(n.Init)
	}
	loopStart := len(fe.code)
	var jumpToEnd int
	hasCond := n.Cond != nil
	if hasCond {
		fe.emitExpr(n.Cond)
		jumpToEnd = fe.emitJump(opcode.OpJumpIfFalse)
	}
	fe.emitStmtList(n.Body)
	if n.Step != nil {
		fe.emitStmt(n.Step)
	}
	fe.emit(opcode.OpJump, loopStart)
	if hasCond {
		fe.patchJump(jumpToEnd)
	}
}
