package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/venom/internal/types"
)

func TestCloneStructuralIsIndependentCopy(t *testing.T) {
	lit := &IntLiteral{Value: 42}
	lit.SetType(types.IntType)

	clone := lit.Clone(Structural).(*IntLiteral)
	require.Equal(t, int64(42), clone.Value)
	require.Nil(t, clone.Type(), "Structural clone must not carry over the resolved type")

	clone.Value = 7
	require.Equal(t, int64(42), lit.Value, "clone must not alias the original")
}

func TestCloneSemanticCarriesType(t *testing.T) {
	v := &Variable{Name: "x"}
	v.SetType(types.IntType)
	clone := v.Clone(Semantic).(*Variable)
	require.True(t, clone.Type().Equals(types.IntType))
}

func TestBinopKidsRoundTrip(t *testing.T) {
	left := &IntLiteral{Value: 1}
	right := &IntLiteral{Value: 2}
	bin := &BinopExpr{Op: OpAdd, Left: left, Right: right}
	require.Equal(t, 2, bin.NumKids())
	require.Same(t, left, bin.Kid(0))

	replacement := &IntLiteral{Value: 9}
	bin.SetKid(1, replacement)
	require.Same(t, replacement, bin.Right)
}

func TestIfStmtNeedsNewScopeOnlyForBranches(t *testing.T) {
	ifs := &IfStmt{Cond: &BoolLiteral{Value: true}, ThenBody: &StmtList{}, ElseBody: &StmtList{}}
	require.False(t, ifs.NeedsNewScope(0))
	require.True(t, ifs.NeedsNewScope(1))
	require.True(t, ifs.NeedsNewScope(2))
}

func TestCloneForTemplateSubstitutesTypes(t *testing.T) {
	tv := types.NewTypeParam("T", 0)
	tvIT := types.Instantiate(tv)

	v := &Variable{Name: "x"}
	v.SetType(tvIT)
	body := &StmtList{Stmts: []Node{&ExprStmt{Expr: v}}}
	fn := &FuncDecl{Name: "id", TypeParams: []string{"T"}, Body: body}

	tr := types.NewTranslator()
	tr.BindParams([]*types.Type{tv}, []*types.InstantiatedType{types.IntType})

	cloned := CloneForTemplate(fn, tr).(*FuncDecl)
	innerVar := cloned.Body.Stmts[0].(*ExprStmt).Expr.(*Variable)
	require.True(t, innerVar.Type().Equals(types.IntType))
	// original untouched
	require.True(t, v.Type().Equals(tvIT))
}
