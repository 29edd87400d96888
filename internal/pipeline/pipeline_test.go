package pipeline

import (
	"testing"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/codegen"
	"github.com/funvibe/venom/internal/runtime"
	"github.com/funvibe/venom/internal/types"
	"github.com/funvibe/venom/internal/vm"
)

// compileAndRun drives root through the whole front half (Compile) and the
// linker (Link) exactly as cmd/venom would, then executes the result and
// returns whatever <main> returns. No lexer/parser is involved: these
// hand-built trees stand in for what one would produce.
func compileAndRun(t *testing.T, root *ast.ModuleRoot) runtime.Cell {
	t.Helper()
	oc, _, err := Compile("main", root, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	exe, err := Link([]*codegen.ObjectCode{oc}, 0)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	execCtx, err := vm.NewExecutionContext(exe)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result, err := execCtx.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

// TestMonomorphization builds:
//
//	def id{T}(x: T): T
//	  return x
//	end
//
//	return id{Int}(41) + 1
//
// exercising spec §8 scenario #5: a generic free function specialized for
// a concrete type argument at its one call site, then used in further
// arithmetic on the (now concrete) result.
func TestMonomorphization(t *testing.T) {
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
	topReturn := &ast.Return{Expr: &ast.BinopExpr{
		Op:    ast.OpAdd,
		Left:  call,
		Right: &ast.IntLiteral{Value: 1},
	}}

	root := &ast.ModuleRoot{Path: "main", Body: &ast.StmtList{Stmts: []ast.Node{idDecl, topReturn}}}

	got := compileAndRun(t, root)
	if got.Tag != runtime.CellInt || got.Int != 42 {
		t.Fatalf("id{Int}(41) + 1 = %+v, want IntCell(42)", got)
	}
}

// TestClosureLifting builds:
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
//	return outer()
//
// exercising spec §8 scenario #6: inner closes over outer's local x by
// reference, mutates it, and outer observes the mutation after the call.
func TestClosureLifting(t *testing.T) {
	innerDecl := &ast.FuncDecl{
		Name:    "inner",
		RetType: &ast.TypeRef{Name: "Void"},
		Body: &ast.StmtList{Stmts: []ast.Node{
			&ast.Assign{Expr: &ast.AssignExpr{
				LHS: &ast.Variable{Name: "x"},
				RHS: &ast.BinopExpr{Op: ast.OpAdd, Left: &ast.Variable{Name: "x"}, Right: &ast.IntLiteral{Value: 1}},
			}},
		}},
	}
	outerDecl := &ast.FuncDecl{
		Name:    "outer",
		RetType: &ast.TypeRef{Name: "Int"},
		Body: &ast.StmtList{Stmts: []ast.Node{
			&ast.Assign{Expr: &ast.AssignExpr{LHS: &ast.Variable{Name: "x"}, RHS: &ast.IntLiteral{Value: 10}}},
			innerDecl,
			&ast.ExprStmt{Expr: &ast.FunctionCall{Target: &ast.Variable{Name: "inner"}, Args: &ast.ExprList{}}},
			&ast.Return{Expr: &ast.Variable{Name: "x"}},
		}},
	}

	topReturn := &ast.Return{Expr: &ast.FunctionCall{Target: &ast.Variable{Name: "outer"}, Args: &ast.ExprList{}}}

	root := &ast.ModuleRoot{Path: "main", Body: &ast.StmtList{Stmts: []ast.Node{outerDecl, topReturn}}}

	got := compileAndRun(t, root)
	if got.Tag != runtime.CellInt || got.Int != 11 {
		t.Fatalf("outer() = %+v, want IntCell(11)", got)
	}
}
