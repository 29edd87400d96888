package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/venom/internal/analyzer"
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// runUpTo analyzes root, then runs each of the given rewrite stages in the
// order passed (callers list them in Run's fixed order, pipeline.go, ending
// with the pass under test) — so a test can inspect the tree right after
// that pass, before any later stage runs.
func runUpTo(t *testing.T, root *ast.ModuleRoot, stages ...func(*symbols.SemanticContext, *ast.ModuleRoot)) *symbols.SemanticContext {
	t.Helper()
	ctx := symbols.NewSemanticContext("main")
	a := analyzer.New(ctx)
	a.Run(root)
	require.True(t, a.Ok(), "analyzer diagnostics: %v", a.Diags)
	for _, stage := range stages {
		stage(ctx, root)
	}
	return ctx
}

// findFuncDecl locates the one top-level *ast.FuncDecl whose Name matches
// want among root's statements (post-Specialize, root.Body.Stmts holds both
// the original declarations and any appended clones).
func findFuncDecl(root *ast.ModuleRoot, want string) *ast.FuncDecl {
	for _, stmt := range root.Body.Stmts {
		if fd, ok := stmt.(*ast.FuncDecl); ok && fd.Name == want {
			return fd
		}
	}
	return nil
}

// TestSpecializeClonesGenericFuncForCallSite builds the same `id{T}`
// function and `id{Int}(41)` call site as pipeline_test.go's
// TestMonomorphization, but calls Specialize directly (after DeSugar,
// CanonicalRefs and ModuleMain, matching rewrite.Run's own order up to that
// point) and inspects the clone it produces instead of running the program
// through codegen/link/vm.
func TestSpecializeClonesGenericFuncForCallSite(t *testing.T) {
	idDecl := &ast.FuncDecl{
		Name:       "id",
		TypeParams: []string{"T"},
		Params: []*ast.ParamDecl{
			{Name: "x", Type: &ast.TypeRef{Name: "T"}},
		},
		RetType: &ast.TypeRef{Name: "T"},
		Body: &ast.StmtList{Stmts: []ast.Node{
			&ast.Return{Expr: &ast.Variable{Name: "x"}},
		}},
	}
	call := &ast.FunctionCall{
		Target:   &ast.Variable{Name: "id"},
		Args:     &ast.ExprList{Exprs: []ast.ExprNode{&ast.IntLiteral{Value: 41}}},
		TypeArgs: []*types.InstantiatedType{types.IntType},
	}
	topReturn := &ast.Return{Expr: call}
	root := &ast.ModuleRoot{Path: "main", Body: &ast.StmtList{Stmts: []ast.Node{idDecl, topReturn}}}

	ctx := symbols.NewSemanticContext("main")
	a := analyzer.New(ctx)
	a.Run(root)
	require.True(t, a.Ok(), "analyzer diagnostics: %v", a.Diags)

	templateSym, ok := idDecl.Symbol.(*symbols.FuncSymbol)
	require.True(t, ok, "analyzer must bind id's declaration to a *symbols.FuncSymbol before any rewrite runs")
	require.NotNil(t, call.Bound, "analyzer's second phase must resolve the call's Bound before rewrite runs")

	DeSugar(ctx, root)
	CanonicalRefs(ctx, root)
	ModuleMain(ctx, root)
	Specialize(ctx, root)

	clone := findFuncDecl(root, "id{int}")
	require.NotNil(t, clone, "Specialize must append a clone named by BoundFunction.CreateFuncName")
	require.Empty(t, clone.TypeParams, "a specialized clone is concrete, not generic")
	require.NotSame(t, idDecl, clone, "the original generic declaration must be left in place")

	cloneSym, ok := clone.Symbol.(*symbols.FuncSymbol)
	require.True(t, ok)
	require.NotSame(t, templateSym, cloneSym)

	boundSym, ok := call.Bound.(*symbols.FuncSymbol)
	require.True(t, ok, "call site must rebind to the specialized clone, not the generic template")
	require.Same(t, cloneSym, boundSym)

	require.NotNil(t, findFuncDecl(root, "id"), "the generic template itself must survive Specialize untouched")
}

// TestSpecializeReusesCacheForRepeatedTypeArgs confirms two call sites
// instantiating the same generic function with the same type argument
// share one clone (*symbols.SemanticContext.SpecializedFunc cache) rather
// than Specialize appending a duplicate declaration per call site.
func TestSpecializeReusesCacheForRepeatedTypeArgs(t *testing.T) {
	idDecl := &ast.FuncDecl{
		Name:       "id",
		TypeParams: []string{"T"},
		Params: []*ast.ParamDecl{
			{Name: "x", Type: &ast.TypeRef{Name: "T"}},
		},
		RetType: &ast.TypeRef{Name: "T"},
		Body: &ast.StmtList{Stmts: []ast.Node{
			&ast.Return{Expr: &ast.Variable{Name: "x"}},
		}},
	}
	callA := &ast.FunctionCall{
		Target:   &ast.Variable{Name: "id"},
		Args:     &ast.ExprList{Exprs: []ast.ExprNode{&ast.IntLiteral{Value: 1}}},
		TypeArgs: []*types.InstantiatedType{types.IntType},
	}
	callB := &ast.FunctionCall{
		Target:   &ast.Variable{Name: "id"},
		Args:     &ast.ExprList{Exprs: []ast.ExprNode{&ast.IntLiteral{Value: 2}}},
		TypeArgs: []*types.InstantiatedType{types.IntType},
	}
	root := &ast.ModuleRoot{Path: "main", Body: &ast.StmtList{Stmts: []ast.Node{idDecl, &ast.ExprStmt{Expr: callA}, &ast.ExprStmt{Expr: callB}}}}

	runUpTo(t, root, DeSugar, CanonicalRefs, ModuleMain, Specialize)

	require.Same(t, callA.Bound, callB.Bound, "repeated instantiation with an identical type-argument tuple must reuse the cached clone")

	var clones int
	for _, stmt := range root.Body.Stmts {
		if fd, ok := stmt.(*ast.FuncDecl); ok && fd.Name == "id{int}" {
			clones++
		}
	}
	require.Equal(t, 1, clones, "Specialize must not append a duplicate clone for a call site it has already specialized")
}
