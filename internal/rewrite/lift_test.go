package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/venom/internal/analyzer"
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/symbols"
)

// buildOuterInner mirrors pipeline_test.go's TestClosureLifting tree:
//
//	def outer(): Int
//	  x = 10
//	  def inner(): Void
//	    x = x + 1
//	  end
//	  inner()
//	  return x
//	end
//
// one level lower in the pipeline than that test, so Lift's own output
// shape is checked directly rather than only through the VM's result.
func buildOuterInner() (root *ast.ModuleRoot, outerDecl, innerDecl *ast.FuncDecl) {
	innerDecl = &ast.FuncDecl{
		Name:    "inner",
		RetType: &ast.TypeRef{Name: "Void"},
		Body: &ast.StmtList{Stmts: []ast.Node{
			&ast.Assign{Expr: &ast.AssignExpr{
				LHS: &ast.Variable{Name: "x"},
				RHS: &ast.BinopExpr{Op: ast.OpAdd, Left: &ast.Variable{Name: "x"}, Right: &ast.IntLiteral{Value: 1}},
			}},
		}},
	}
	outerDecl = &ast.FuncDecl{
		Name:    "outer",
		RetType: &ast.TypeRef{Name: "Int"},
		Body: &ast.StmtList{Stmts: []ast.Node{
			&ast.Assign{Expr: &ast.AssignExpr{LHS: &ast.Variable{Name: "x"}, RHS: &ast.IntLiteral{Value: 10}}},
			innerDecl,
			&ast.ExprStmt{Expr: &ast.FunctionCall{Target: &ast.Variable{Name: "inner"}, Args: &ast.ExprList{}}},
			&ast.Return{Expr: &ast.Variable{Name: "x"}},
		}},
	}
	root = &ast.ModuleRoot{Path: "main", Body: &ast.StmtList{Stmts: []ast.Node{outerDecl}}}
	return root, outerDecl, innerDecl
}

// analyzeOnly runs just the analyzer (no rewrite stage), the shared
// starting point for a test that wants to call Lift directly.
func analyzeOnly(t *testing.T, root *ast.ModuleRoot) *symbols.SemanticContext {
	t.Helper()
	ctx := symbols.NewSemanticContext("main")
	a := analyzer.New(ctx)
	a.Run(root)
	require.True(t, a.Ok(), "analyzer diagnostics: %v", a.Diags)
	return ctx
}

// TestLiftMovesNestedFuncToTopLevel confirms inner no longer lives inside
// outer's body after Lift, and instead appears as a fresh top-level
// declaration (spec §4.3's closure conversion) with a distinct, generated
// name in place of its original one, since "inner" as a bare identifier
// could collide with another module's own top-level "inner".
func TestLiftMovesNestedFuncToTopLevel(t *testing.T) {
	root, outerDecl, innerDecl := buildOuterInner()
	ctx := analyzeOnly(t, root)

	Lift(ctx, root)

	for _, stmt := range outerDecl.Body.Stmts {
		require.NotSame(t, innerDecl, stmt, "inner must be spliced out of outer's body")
		_, isFuncDecl := stmt.(*ast.FuncDecl)
		require.False(t, isFuncDecl, "no FuncDecl should remain nested inside outer after Lift")
	}

	var lifted *ast.FuncDecl
	for _, stmt := range root.Body.Stmts {
		if fd, ok := stmt.(*ast.FuncDecl); ok && fd != outerDecl {
			lifted = fd
		}
	}
	require.NotNil(t, lifted, "Lift must append inner as a new top-level declaration")
	require.Same(t, innerDecl, lifted, "the appended declaration must be inner's own node, renamed in place")
	require.True(t, strings.HasPrefix(lifted.Name, "inner$lift_"), "lifted name must be derived from the original (freshName), got %q", lifted.Name)
}

// TestLiftAddsRefParamForCapturedVariable confirms inner gains an extra
// Ref{T}-typed parameter for the one free variable (x) it closes over, and
// that the parameter's declared type names config.RefTypeName (spec §4.3
// "captured enclosing variables made explicit as Ref{T} parameters").
func TestLiftAddsRefParamForCapturedVariable(t *testing.T) {
	root, _, innerDecl := buildOuterInner()
	ctx := analyzeOnly(t, root)

	require.Empty(t, innerDecl.Params, "inner takes no parameters before lifting")

	Lift(ctx, root)

	require.Len(t, innerDecl.Params, 1, "lifting must add exactly one ref parameter for the one captured variable")
	refParam := innerDecl.Params[0]
	require.Equal(t, "x$refparam", refParam.Name)
	require.Equal(t, config.RefTypeName, refParam.Type.Name)
}

// TestLiftInjectsRefArgAtCallSite confirms the call site inner() (textually
// inside outer, the only place it can occur) gains the matching extra
// argument once inner's signature grows a ref parameter — otherwise the
// call and the lifted declaration would disagree on arity.
func TestLiftInjectsRefArgAtCallSite(t *testing.T) {
	root, outerDecl, _ := buildOuterInner()
	ctx := analyzeOnly(t, root)

	call := outerDecl.Body.Stmts[2].(*ast.ExprStmt).Expr.(*ast.FunctionCall)
	require.Empty(t, call.Args.Exprs, "inner() is called with no arguments before lifting")

	Lift(ctx, root)

	require.Len(t, call.Args.Exprs, 1, "the call site must receive the injected ref argument")
	arg, ok := call.Args.Exprs[0].(*ast.Variable)
	require.True(t, ok)
	require.Equal(t, "x", arg.Name, "the injected argument passes outer's own (now ref-typed) x cell")
}

// TestLiftPromotesCapturedDeclToRefAlloc confirms promoteCaptureInScope's
// half of the contract: x's declaring assignment (x = 10) becomes an
// allocation of a fresh ref cell followed by a store into its .value field,
// so outer and the lifted inner share the same cell rather than each
// reading/writing their own copy of x.
func TestLiftPromotesCapturedDeclToRefAlloc(t *testing.T) {
	root, outerDecl, _ := buildOuterInner()
	ctx := analyzeOnly(t, root)

	Lift(ctx, root)

	// x = 10 must have become two statements: alloc (x = ref{Int}()) and
	// store (x.value = 10), so outer's body keeps its statement count
	// (original 4 stmts: decl, inner-decl(now spliced out), call, return ->
	// 3 after splice, +1 from the alloc/store split = 4 again).
	require.Len(t, outerDecl.Body.Stmts, 4)

	alloc, ok := outerDecl.Body.Stmts[0].(*ast.Assign)
	require.True(t, ok)
	allocLHS, ok := alloc.Expr.LHS.(*ast.Variable)
	require.True(t, ok)
	require.Equal(t, "x", allocLHS.Name)
	refCtor, ok := alloc.Expr.RHS.(*ast.FunctionCall)
	require.True(t, ok, "x's declaring assignment must become a ref{T}() constructor call")
	target, ok := refCtor.Target.(*ast.Variable)
	require.True(t, ok)
	require.Equal(t, config.RefTypeName, target.Name)

	store, ok := outerDecl.Body.Stmts[1].(*ast.Assign)
	require.True(t, ok)
	storeLHS, ok := store.Expr.LHS.(*ast.AttrAccess)
	require.True(t, ok, "the store must write through .value, not reassign the cell itself")
	require.Equal(t, config.RefValueAttr, storeLHS.Name)
	storeRHS, ok := store.Expr.RHS.(*ast.IntLiteral)
	require.True(t, ok)
	require.Equal(t, int64(10), storeRHS.Value)

	// The later `return x` must now read through .value too.
	ret, ok := outerDecl.Body.Stmts[3].(*ast.Return)
	require.True(t, ok)
	retExpr, ok := ret.Expr.(*ast.AttrAccess)
	require.True(t, ok, "outer's remaining reads of x must be rewritten to x.value")
	require.Equal(t, config.RefValueAttr, retExpr.Name)
}
