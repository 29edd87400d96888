package rewrite

import (
	"fmt"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// DeSugar implements spec §4.3(a): list/dict literals are rewritten into a
// constructor call followed by a chain of mutator calls on a fresh
// synthetic temporary, which then replaces the literal in its original
// expression position. String `+` is left untouched (the typed ADD/CONCAT
// split is made later by codegen, not here).
func DeSugar(ctx *symbols.SemanticContext, root *ast.ModuleRoot) {
	processBodies(root, ctx)
}

func processBodies(n ast.Node, ctx *symbols.SemanticContext) {
	switch v := n.(type) {
	case *ast.ModuleRoot:
		desugarStmtList(v.Body, ctx)
	case *ast.FuncDecl:
		if v.Body != nil {
			desugarStmtList(v.Body, ctx)
		}
	case *ast.ClassDecl:
		desugarStmtList(v.Body, ctx)
	case *ast.IfStmt:
		desugarStmtList(v.ThenBody, ctx)
		if v.ElseBody != nil {
			desugarStmtList(v.ElseBody, ctx)
		}
	case *ast.ForStmt:
		desugarStmtList(v.Body, ctx)
	}
}

func desugarStmtList(sl *ast.StmtList, ctx *symbols.SemanticContext) {
	if sl == nil {
		return
	}
	counter := 0
	out := make([]ast.Node, 0, len(sl.Stmts))
	for _, stmt := range sl.Stmts {
		var hoist []ast.Node
		newStmt := desugarNode(stmt, &hoist, &counter)
		out = append(out, hoist...)
		out = append(out, newStmt)
	}
	sl.Stmts = out
	for _, stmt := range sl.Stmts {
		processBodies(stmt, ctx)
	}
}

// desugarNode post-order rewrites n's subtree, hoisting any ArrayLiteral or
// DictLiteral it finds into *hoist and returning the node with those
// literals replaced by references to the synthesized temporaries.
func desugarNode(n ast.Node, hoist *[]ast.Node, counter *int) ast.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < n.NumKids(); i++ {
		kid := n.Kid(i)
		if kid == nil {
			continue
		}
		// Nested statement lists (function/class/if/for bodies) are their
		// own hoisting scope and are walked separately by
		// desugarStmtList/processBodies, not folded into this statement's
		// hoist list — hoisting a list literal out of a conditional branch
		// would change when (or whether) its side effects run.
		if _, isBody := kid.(*ast.StmtList); isBody {
			continue
		}
		newKid := desugarNode(kid, hoist, counter)
		if newKid != kid {
			n.SetKid(i, newKid)
		}
	}
	switch v := n.(type) {
	case *ast.ArrayLiteral:
		return desugarArrayLiteral(v, hoist, counter)
	case *ast.DictLiteral:
		return desugarDictLiteral(v, hoist, counter)
	}
	return n
}

// newSyntheticTemp declares one ValueSymbol for a desugared temp and returns
// a Variable referencing it; every further occurrence of the same temp must
// reuse this exact symbol pointer, not just its name, since codegen's
// localSlot/emitVariableLoad key a function's local-slot table by symbol
// identity (package codegen, emitVariableLoad/emitStoreStmt).
func newSyntheticTemp(name string, t *types.InstantiatedType) (*symbols.ValueSymbol, *ast.Variable) {
	vs := &symbols.ValueSymbol{Name: name, Type: t}
	v := &ast.Variable{Name: name, Symbol: vs}
	v.SetType(t)
	return vs, v
}

// syntheticVarRef produces another read of vs, sharing its symbol (see
// newSyntheticTemp).
func syntheticVarRef(vs *symbols.ValueSymbol, v *ast.Variable) *ast.Variable {
	r := &ast.Variable{Name: v.Name, Symbol: vs}
	r.SetType(v.Type())
	return r
}

func desugarArrayLiteral(v *ast.ArrayLiteral, hoist *[]ast.Node, counter *int) ast.Node {
	name := fmt.Sprintf("$list%d", *counter)
	*counter++

	vs, lhs := newSyntheticTemp(name, v.Type())

	ctorCall := &ast.FunctionCall{Target: &ast.Variable{Name: config.ListTypeName}, Args: &ast.ExprList{}}
	ctorCall.Bound = &symbols.ClassSymbol{Name: config.ListTypeName}
	ctorCall.SetType(v.Type())
	*hoist = append(*hoist, &ast.Assign{Expr: &ast.AssignExpr{LHS: lhs, RHS: ctorCall}})

	for _, e := range v.Elems.Exprs {
		appendCall := &ast.FunctionCall{
			Target: &ast.AttrAccess{Base: syntheticVarRef(vs, lhs), Name: config.ListAppendName},
			Args:   &ast.ExprList{Exprs: []ast.ExprNode{e}},
		}
		appendCall.Bound = symbols.SyntheticNativeMethod(config.ListTypeName, config.ListAppendName)
		appendCall.SetType(types.VoidType)
		*hoist = append(*hoist, &ast.ExprStmt{Expr: appendCall})
	}

	return syntheticVarRef(vs, lhs)
}

func desugarDictLiteral(v *ast.DictLiteral, hoist *[]ast.Node, counter *int) ast.Node {
	name := fmt.Sprintf("$map%d", *counter)
	*counter++

	vs, lhs := newSyntheticTemp(name, v.Type())

	ctorCall := &ast.FunctionCall{Target: &ast.Variable{Name: config.MapTypeName}, Args: &ast.ExprList{}}
	ctorCall.Bound = &symbols.ClassSymbol{Name: config.MapTypeName}
	ctorCall.SetType(v.Type())
	*hoist = append(*hoist, &ast.Assign{Expr: &ast.AssignExpr{LHS: lhs, RHS: ctorCall}})

	for i := range v.Keys.Exprs {
		putCall := &ast.FunctionCall{
			Target: &ast.AttrAccess{Base: syntheticVarRef(vs, lhs), Name: config.MapPutName},
			Args:   &ast.ExprList{Exprs: []ast.ExprNode{v.Keys.Exprs[i], v.Values.Exprs[i]}},
		}
		putCall.Bound = symbols.SyntheticNativeMethod(config.MapTypeName, config.MapPutName)
		putCall.SetType(types.VoidType)
		*hoist = append(*hoist, &ast.ExprStmt{Expr: putCall})
	}

	return syntheticVarRef(vs, lhs)
}
