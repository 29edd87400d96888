package rewrite

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/symbols"
)

// CanonicalRefs implements spec §4.3(b): a bare name `x` that resolves to
// an object field or method becomes `self.x`; a bare name that resolves to
// a module-level symbol becomes `<module>.x`. Downstream passes can then
// assume every access has an explicit receiver.
func CanonicalRefs(ctx *symbols.SemanticContext, root *ast.ModuleRoot) {
	canonicalizeNode(root, ctx)
}

func canonicalizeNode(n ast.Node, ctx *symbols.SemanticContext) ast.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < n.NumKids(); i++ {
		kid := n.Kid(i)
		if kid == nil {
			continue
		}
		newKid := canonicalizeNode(kid, ctx)
		if newKid != kid {
			n.SetKid(i, newKid)
		}
	}
	v, ok := n.(*ast.Variable)
	if !ok || v.Symbol == nil {
		return n
	}
	switch sym := v.Symbol.(type) {
	case *symbols.ClassAttribute:
		attr := &ast.AttrAccess{Base: &ast.SelfExpr{}, Name: v.Name, Symbol: sym}
		attr.SetType(v.Type())
		return attr
	case *symbols.ValueSymbol:
		if sym.Scope != nil && sym.Scope.Kind == symbols.ScopeModule {
			attr := &ast.AttrAccess{Base: &ast.Variable{Name: "<module>"}, Name: v.Name}
			attr.SetType(v.Type())
			return attr
		}
	}
	return n
}
