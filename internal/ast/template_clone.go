package ast

import "github.com/funvibe/venom/internal/types"

// CloneForTemplate produces the specialization-pass clone discipline (spec
// §3/§4.1 "Specialize"): a Semantic clone whose every resolved
// InstantiatedType has additionally been pushed through tr, so a generic
// function/class body cloned for one concrete type-argument binding ends up
// with concrete (non-type-parameter) types throughout, not just at the
// declaration site.
func CloneForTemplate(n Node, tr *types.Translator) Node {
	clone := n.Clone(Semantic)
	retypeTree(clone, tr)
	return clone
}

// retypeTree walks the freshly cloned tree, re-running tr.Translate over
// every ExprNode's resolved type in place.
func retypeTree(n Node, tr *types.Translator) {
	if n == nil {
		return
	}
	if en, ok := n.(ExprNode); ok {
		if t := en.Type(); t != nil {
			en.SetType(tr.Translate(t))
		}
	}
	switch v := n.(type) {
	case *FuncDecl:
		retypeParamDecls(v.Params, tr)
		if v.RetType != nil {
			retypeTypeRef(v.RetType, tr)
		}
	case *ClassAttrDecl:
		if v.Type != nil {
			retypeTypeRef(v.Type, tr)
		}
	}
	for i := 0; i < n.NumKids(); i++ {
		retypeTree(n.Kid(i), tr)
	}
}

func retypeParamDecls(ps []*ParamDecl, tr *types.Translator) {
	for _, p := range ps {
		if p.Type != nil {
			retypeTypeRef(p.Type, tr)
		}
	}
}

func retypeTypeRef(ref *TypeRef, tr *types.Translator) {
	if ref.Resolved != nil {
		ref.Resolved = tr.Translate(ref.Resolved)
	}
	for _, p := range ref.Params {
		retypeTypeRef(p, tr)
	}
}
