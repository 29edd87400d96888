package link_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/codegen"
	"github.com/funvibe/venom/internal/link"
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/pipeline"
	"github.com/funvibe/venom/internal/runtime"
	"github.com/funvibe/venom/internal/vm"
)

// buildBranchingModule compiles a module whose function a() is emitted
// before <main> (rewrite.ModuleMain wraps the module's top-level if/return
// into a synthetic <main>), so concat.go's concatenate() gives <main> a
// nonzero CodeOffset — the only case where translateFuncBody's refJump
// rebasing (operands[0] += base) is observably different from a no-op.
func buildBranchingModule(t *testing.T) (*codegen.ObjectCode, *link.Executable) {
	t.Helper()
	a := &ast.FuncDecl{Name: "a", RetType: &ast.TypeRef{Name: "Int"}, Body: &ast.StmtList{Stmts: []ast.Node{
		&ast.Return{Expr: &ast.IntLiteral{Value: 10}},
	}}}
	branch := &ast.IfStmt{
		Cond: &ast.BoolLiteral{Value: true},
		ThenBody: &ast.StmtList{Stmts: []ast.Node{
			&ast.Return{Expr: &ast.IntLiteral{Value: 1}},
		}},
		ElseBody: &ast.StmtList{Stmts: []ast.Node{
			&ast.Return{Expr: &ast.IntLiteral{Value: 2}},
		}},
	}
	root := &ast.ModuleRoot{Path: "main", Body: &ast.StmtList{Stmts: []ast.Node{a, branch}}}

	oc, _, err := pipeline.Compile("main", root, nil)
	require.NoError(t, err)
	require.True(t, oc.HasMainFunc)
	require.Len(t, oc.LocalFuncs, 2, "a must be emitted ahead of the synthesized <main>")
	require.Equal(t, "a", oc.LocalFuncs[0].Name, "a must concatenate first so <main>'s CodeOffset is nonzero")

	exe, err := pipeline.Link([]*codegen.ObjectCode{oc}, 0)
	require.NoError(t, err)
	return oc, exe
}

// TestConcatenateRebasesJumpOperand confirms translateFuncBody's refJump
// case actually adds <main>'s CodeOffset to the if's jump targets, rather
// than leaving them as the 0-based, function-local offsets codegen emitted
// them with (internal/codegen/emit_stmt.go's emitIf measures jumps from
// len(fe.code), i.e. relative to the owning function's own start).
func TestConcatenateRebasesJumpOperand(t *testing.T) {
	_, exe := buildBranchingModule(t)
	require.Greater(t, exe.MainOffset, 0, "a's code must precede <main>'s for this test to exercise rebasing")

	pos := exe.MainOffset
	var jumpOperand int
	found := false
	for pos < len(exe.Code) {
		op := opcode.Opcode(exe.Code[pos])
		def, err := opcode.Lookup(byte(op))
		require.NoError(t, err)
		operands, n := opcode.ReadOperands(def, exe.Code[pos+1:])
		if op == opcode.OpJumpIfFalse {
			jumpOperand = operands[0]
			found = true
			break
		}
		pos += 1 + n
	}
	require.True(t, found, "main's if must emit a JumpIfFalse")

	// A non-rebased (still function-local) operand would be a small offset
	// counted from the start of the if — well below MainOffset. The rebased
	// operand must land inside <main>'s own region of the concatenated code.
	require.GreaterOrEqual(t, jumpOperand, exe.MainOffset)
	require.Less(t, jumpOperand, len(exe.Code))
}

// TestConcatenateBranchExecutesCorrectTarget runs the linked program end to
// end: if refJump's rebasing were wrong (off by MainOffset, or not applied
// at all) the VM would jump to an unrelated instruction inside a()'s region
// or past the end of the code, producing the wrong result or an execution
// error instead of silently being "slightly wrong".
func TestConcatenateBranchExecutesCorrectTarget(t *testing.T) {
	_, exe := buildBranchingModule(t)

	execCtx, err := vm.NewExecutionContext(exe)
	require.NoError(t, err)
	result, err := execCtx.Run()
	require.NoError(t, err)
	require.Equal(t, runtime.CellInt, result.Tag)
	require.Equal(t, int64(1), result.Int, "cond is literal true, so the then-branch's return 1 must run")
}
