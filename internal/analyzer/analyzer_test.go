package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// buildModule wraps body statements into a minimal ModuleRoot/StmtList tree
// for feeding into Analyzer.Run, mirroring how the parser would hand off
// a parsed module (spec §4.2 entry point).
func buildModule(stmts ...ast.Node) *ast.ModuleRoot {
	return &ast.ModuleRoot{Path: "main", Body: &ast.StmtList{Stmts: stmts}}
}

func TestAssignInfersLHSTypeFromRHS(t *testing.T) {
	ctx := symbols.NewSemanticContext("main")
	a := New(ctx)

	rhs := &ast.IntLiteral{Value: 1}
	rhs.SetType(types.IntType)
	assign := &ast.Assign{Expr: &ast.AssignExpr{LHS: &ast.Variable{Name: "x"}, RHS: rhs}}

	mod := buildModule(assign)
	a.Run(mod)

	require.True(t, a.Ok(), "%v", a.Diags)
	res, ok := ctx.Root.FindValue("x", symbols.NoRecurse)
	require.True(t, ok)
	require.True(t, res.Symbol.(*symbols.ValueSymbol).Type.Equals(types.IntType))
}

func TestUndeclaredVariableIsDiagnosed(t *testing.T) {
	ctx := symbols.NewSemanticContext("main")
	a := New(ctx)
	v := &ast.Variable{Name: "nope"}
	mod := buildModule(&ast.ExprStmt{Expr: v})
	a.Run(mod)
	require.False(t, a.Ok())
}

func TestClassDeclGetsDefaultCtorAndObjectParent(t *testing.T) {
	ctx := symbols.NewSemanticContext("main")
	a := New(ctx)
	cls := &ast.ClassDecl{Name: "Widget", Body: &ast.StmtList{}}
	mod := buildModule(cls)
	a.Run(mod)

	require.True(t, a.Ok(), "%v", a.Diags)
	cs := cls.Symbol.(*symbols.ClassSymbol)
	require.True(t, cs.ParentIT.Equals(types.ObjectType))
	require.GreaterOrEqual(t, cs.CtorIndex, -1)
	require.NotEmpty(t, cs.OwnMethods, "default constructor must be inserted")
}

func TestMethodOverrideDetected(t *testing.T) {
	ctx := symbols.NewSemanticContext("main")
	a := New(ctx)

	parent := &ast.ClassDecl{Name: "Animal", Body: &ast.StmtList{Stmts: []ast.Node{
		&ast.FuncDecl{Name: "speak", Body: &ast.StmtList{}, RetType: &ast.TypeRef{Name: "Void"}},
	}}}
	child := &ast.ClassDecl{Name: "Dog", Parent: &ast.TypeRef{Name: "Animal"}, Body: &ast.StmtList{Stmts: []ast.Node{
		&ast.FuncDecl{Name: "speak", Body: &ast.StmtList{}, RetType: &ast.TypeRef{Name: "Void"}},
	}}}
	mod := buildModule(parent, child)
	a.Run(mod)

	require.True(t, a.Ok(), "%v", a.Diags)
	childCS := child.Symbol.(*symbols.ClassSymbol)
	var speak *symbols.MethodSymbol
	for _, m := range childCS.OwnMethods {
		if m.Name == "speak" {
			speak = m
		}
	}
	require.NotNil(t, speak)
	require.True(t, speak.Overrides)
}
