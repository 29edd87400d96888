package rewrite

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// BoxExpr wraps a primitive-typed expression so it can flow through an Any
// slot (spec §4.3(e)): codegen reads this node's inner type to pick the
// matching OP_BOX_{INT,FLOAT,BOOL} opcode (codegen.boxOp).
type BoxExpr struct {
	ast.TypedBase
	Inner ast.ExprNode
}

func (n *BoxExpr) NumKids() int           { return 1 }
func (n *BoxExpr) Kid(i int) ast.Node     { return n.Inner }
func (n *BoxExpr) SetKid(i int, kid ast.Node) { n.Inner = kid.(ast.ExprNode) }
func (n *BoxExpr) NeedsNewScope(k int) bool { return false }
func (n *BoxExpr) Clone(mode ast.CloneMode) ast.Node {
	c := &BoxExpr{Inner: n.Inner.Clone(mode).(ast.ExprNode)}
	if mode == ast.Semantic {
		c.Typ = n.Typ
	}
	return c
}

// BoxPrimitives implements spec §4.3(e): any expression whose expected
// type is Any and whose static type is a primitive is wrapped in a
// BoxExpr. "Expected type is Any" sites covered here: the RHS of an
// assignment to an Any-typed variable, and each argument position
// matched against an Any-typed parameter.
func BoxPrimitives(ctx *symbols.SemanticContext, root *ast.ModuleRoot) {
	boxNode(root)
}

func boxNode(n ast.Node) {
	if n == nil {
		return
	}
	for i := 0; i < n.NumKids(); i++ {
		kid := n.Kid(i)
		if kid == nil {
			continue
		}
		boxNode(kid)
	}
	switch v := n.(type) {
	case *ast.Assign:
		boxIfExpectedAny(v.Expr)
	case *ast.FunctionCall:
		if fs, ok := v.Bound.(*symbols.FuncSymbol); ok {
			boxCallArgs(v, fs.Params)
		} else if ms, ok := v.Bound.(*symbols.MethodSymbol); ok {
			boxCallArgs(v, ms.Params)
		}
	}
}

func boxIfExpectedAny(assign *ast.AssignExpr) {
	lhsType := assign.LHS.Type()
	if lhsType == nil || !lhsType.IsAny() {
		return
	}
	rhsType := assign.RHS.Type()
	if rhsType == nil || !rhsType.IsPrimitive() {
		return
	}
	boxed := &BoxExpr{Inner: assign.RHS}
	boxed.SetType(types.AnyType)
	assign.RHS = boxed
}

func boxCallArgs(call *ast.FunctionCall, params []*types.InstantiatedType) {
	for i, arg := range call.Args.Exprs {
		if i >= len(params) {
			break
		}
		if !params[i].IsAny() {
			continue
		}
		argType := arg.Type()
		if argType == nil || !argType.IsPrimitive() {
			continue
		}
		boxed := &BoxExpr{Inner: arg}
		boxed.SetType(types.AnyType)
		call.Args.Exprs[i] = boxed
	}
}
