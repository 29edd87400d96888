package rewrite

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// Specialize implements spec §4.3's pre-lifting specialization pass: for
// every fully-instantiated type-argument tuple a parameterized function or
// class is actually called/constructed with, clone its declaration via a
// template clone and insert the monomorphized version into the same
// statement list (spec §3 BoundFunction.CreateFuncName for the clone's
// name). Re-entrant call sites sharing a tuple reuse the cached clone
// (*symbols.SemanticContext.SpecializedFunc/Class).
func Specialize(ctx *symbols.SemanticContext, root *ast.ModuleRoot) {
	var extraDecls []ast.Node
	inserted := map[string]bool{}

	walkAll(root, func(n ast.Node) {
		fc, ok := n.(*ast.FunctionCall)
		if !ok || len(fc.TypeArgs) == 0 {
			return
		}
		switch bound := fc.Bound.(type) {
		case *symbols.FuncSymbol:
			if len(bound.TypeParams) == 0 {
				return
			}
			clone := specializeFunc(ctx, bound, fc.TypeArgs)
			if clone == nil {
				return
			}
			fc.Bound = clone
			if !inserted[clone.Name] {
				inserted[clone.Name] = true
				extraDecls = append(extraDecls, clone.Decl.(*ast.FuncDecl))
			}
		case *symbols.MethodSymbol:
			if len(bound.TypeParams) == 0 {
				return
			}
			if clone := specializeFunc(ctx, &bound.FuncSymbol, fc.TypeArgs); clone != nil {
				fc.Bound = clone
			}
		case *symbols.ClassSymbol:
			// A call whose target resolved directly to a class symbol is a
			// constructor invocation of a parameterized class (spec §4.3
			// "Specialize"; class instantiation is a call on the class name).
			if len(bound.Backing.TypeParams) == 0 {
				return
			}
			clone := specializeClass(ctx, bound, fc.TypeArgs)
			if clone == nil {
				return
			}
			fc.Bound = clone
			if !inserted[clone.Name] {
				inserted[clone.Name] = true
				extraDecls = append(extraDecls, clone.Decl.(*ast.ClassDecl))
			}
		}
	})

	root.Body.Stmts = append(root.Body.Stmts, extraDecls...)
}

// specializeClass produces (and caches) the monomorphized clone of a
// parameterized class for a concrete argument list, used both directly
// (generic class instantiation) and indirectly (a generic function
// parameterized by a generic class type).
func specializeClass(ctx *symbols.SemanticContext, cs *symbols.ClassSymbol, args []*types.InstantiatedType) *symbols.ClassSymbol {
	bf := types.BoundFunction{Name: cs.Name, TypeArgs: args}
	mangled := bf.CreateFuncName()
	if existing, ok := ctx.SpecializedClass(mangled); ok {
		return existing
	}
	decl, ok := cs.Decl.(*ast.ClassDecl)
	if !ok {
		return nil
	}
	tr := types.NewTranslator()
	tr.BindParams(cs.Backing.TypeParams, args)

	clonedDecl := ast.CloneForTemplate(decl, tr).(*ast.ClassDecl)
	clonedDecl.Name = mangled
	clonedDecl.TypeParams = nil

	clonedBacking := types.NewType(mangled, cs.Backing.Parent, 0)
	clonedCS := &symbols.ClassSymbol{
		Name:        mangled,
		ClassScope:  cs.ClassScope,
		Backing:     clonedBacking,
		ParentIT:    cs.ParentIT,
		CtorIndex:   cs.CtorIndex,
		Specializes: types.Instantiate(cs.Backing, args...),
		Decl:        clonedDecl,
	}
	clonedBacking.ClassLink = clonedCS
	clonedDecl.Symbol = clonedCS
	ctx.CacheSpecializedClass(mangled, clonedCS)
	return clonedCS
}

func specializeFunc(ctx *symbols.SemanticContext, fs *symbols.FuncSymbol, args []*types.InstantiatedType) *symbols.FuncSymbol {
	bf := types.BoundFunction{Name: fs.Name, TypeArgs: args}
	mangled := bf.CreateFuncName()
	if existing, ok := ctx.SpecializedFunc(mangled); ok {
		return existing
	}
	decl, ok := fs.Decl.(*ast.FuncDecl)
	if !ok {
		return nil
	}
	tr := types.NewTranslator()
	tr.BindParams(fs.TypeParams, args)

	clonedDecl := ast.CloneForTemplate(decl, tr).(*ast.FuncDecl)
	clonedDecl.Name = mangled
	clonedDecl.TypeParams = nil

	params := make([]*types.InstantiatedType, len(fs.Params))
	for i, p := range fs.Params {
		params[i] = tr.Translate(p)
	}

	// A Semantic clone shares its Variable.Symbol pointers with the
	// template (CloneForTemplate only retypes, it does not rebind), so the
	// clone's own parameters still resolve to the template's ValueSymbols,
	// declared in the template's InnerScope. codegen needs each local looked
	// up through the clone's own FuncSymbol.InnerScope, so give the clone a
	// fresh scope with its own (concretely typed) ValueSymbol per parameter
	// and retarget the clone's body to reference those instead.
	innerScope := symbols.NewSymbolTable(symbols.ScopeFunction, fs.DefiningScope)
	if fs.InnerScope != nil {
		for i, p := range decl.Params {
			oldSym, _ := fs.InnerScope.LocalValue(p.Name)
			oldVs, _ := oldSym.(*symbols.ValueSymbol)
			newVs := &symbols.ValueSymbol{Name: p.Name, Type: params[i]}
			innerScope.CreateValueSymbol(newVs)
			if oldVs != nil {
				rebindVariable(clonedDecl.Body, oldVs, newVs)
			}
		}
	}

	clonedFS := &symbols.FuncSymbol{
		Name:          mangled,
		Params:        params,
		Return:        tr.Translate(fs.Return),
		Native:        fs.Native,
		DefiningScope: fs.DefiningScope,
		InnerScope:    innerScope,
		Decl:          clonedDecl,
	}
	clonedDecl.Symbol = clonedFS
	ctx.CacheSpecializedFunc(mangled, clonedFS)
	return clonedFS
}

// rebindVariable retargets every read of from inside n to to, used when a
// specialized clone needs its own ValueSymbol distinct from the generic
// template's shared one (see specializeFunc).
func rebindVariable(n ast.Node, from, to *symbols.ValueSymbol) {
	walkAll(n, func(kid ast.Node) {
		if v, ok := kid.(*ast.Variable); ok && v.Symbol == from {
			v.Symbol = to
		}
	})
}

// walkAll visits every node in the tree, including nested statement lists
// (unlike desugarNode's walk, which treats StmtList as an opaque boundary).
func walkAll(n ast.Node, visit func(ast.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < n.NumKids(); i++ {
		walkAll(n.Kid(i), visit)
	}
}
