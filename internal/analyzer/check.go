package analyzer

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// Loader, if set, resolves an imported dotted path to its (already or
// newly) analyzed SemanticContext (spec §4.2 "Import" obligation: "if the
// module has not been compiled yet, recursively compile it"). cmd/venom
// wires this to the real multi-module driver; left nil in standalone
// single-module analysis (e.g. tests).
type Loader func(path string) (*symbols.SemanticContext, error)

// check implements spec §4.2 phase 2: post-order, each node registers its
// own symbol before its children are visited as required so forward
// references inside a class/function body resolve.
func (a *Analyzer) check(n ast.Node, scope *symbols.SymbolTable) {
	switch v := n.(type) {
	case *ast.ClassDecl:
		a.checkClassDecl(v, scope)
		return
	case *ast.FuncDecl:
		a.checkFuncDecl(v, scope)
		return
	case *ast.ClassAttrDecl:
		a.checkClassAttrDecl(v, scope)
		return
	case *ast.Assign:
		a.checkAssign(v, scope)
		return
	case *ast.Variable:
		a.checkVariable(v, scope)
		return
	case *ast.Import:
		a.checkImport(v, scope)
		return
	case *ast.SelfExpr:
		cs := findEnclosingClassScope(scope)
		if scope.OwningClass == nil && cs == nil {
			a.fail(ast.Pos{}, "self used outside a class scope")
			return
		}
		if cs != nil && cs.OwningClass != nil {
			v.SetType(types.Instantiate(cs.OwningClass.Backing))
		}
		return
	case *ast.SuperExpr:
		cs := findEnclosingClassScope(scope)
		if cs == nil {
			a.fail(ast.Pos{}, "super used outside a class scope")
			return
		}
		if cs.OwningClass != nil && cs.OwningClass.ParentIT != nil {
			v.SetType(cs.OwningClass.ParentIT)
		}
		return
	case ast.ExprNode:
		// Every other expression kind (literals, BinopExpr/UnopExpr,
		// AttrAccess, ArrayAccess, FunctionCall, the list/dict literals,
		// AssignExpr) is typed and bound by inference.go's general pass,
		// which recurses into its own children in evaluation order instead
		// of the generic child walk below.
		a.inferExpr(v, scope)
		return
	}

	childScope := scope
	if cs := n.SymbolTable(); cs != nil {
		childScope = cs
	}
	for i := 0; i < n.NumKids(); i++ {
		kid := n.Kid(i)
		if kid == nil {
			continue
		}
		ks := childScope
		if kid.SymbolTable() != nil {
			ks = kid.SymbolTable()
		}
		a.check(kid, ks)
	}
}

func findEnclosingClassScope(scope *symbols.SymbolTable) *symbols.SymbolTable {
	for cur := scope; cur != nil; cur = cur.Primary {
		if cur.Kind == symbols.ScopeClass {
			return cur
		}
	}
	return nil
}

func (a *Analyzer) checkClassDecl(v *ast.ClassDecl, scope *symbols.SymbolTable) {
	classScope := v.Body.SymbolTable()
	if classScope == nil {
		classScope = symbols.NewSymbolTable(symbols.ScopeClass, scope)
	}

	parentIT := types.ObjectType
	if v.Parent != nil {
		parentIT = a.InstantiatedTypeOf(v.Parent, scope)
		if parentCS, ok := parentIT.Type.ClassLink.(*symbols.ClassSymbol); ok {
			classScope.ClassParent = parentCS.ClassScope
		}
	}

	backing := types.NewType(v.Name, parentIT, len(v.TypeParams))
	for i, tp := range v.TypeParams {
		tpType := types.NewTypeParam(tp, i)
		backing.TypeParams = append(backing.TypeParams, tpType)
		classScope.DeclareTypeParam(tp, tpType)
	}

	cs := &symbols.ClassSymbol{Name: v.Name, ClassScope: classScope, Backing: backing, ParentIT: parentIT, CtorIndex: -1, Decl: v}
	backing.ClassLink = cs
	classScope.OwningClass = cs
	v.Symbol = cs

	if !scope.CreateClassSymbol(cs) {
		a.fail(ast.Pos{}, "class %q redeclared in this scope", v.Name)
	}

	// Register nested class/func declarations first so forward references
	// inside sibling members resolve (spec §4.2 "recursively register
	// nested declarations first").
	for _, stmt := range v.Body.Stmts {
		switch stmt.(type) {
		case *ast.ClassDecl, *ast.FuncDecl:
			a.check(stmt, classScope)
		}
	}
	for i, stmt := range v.Body.Stmts {
		switch fd := stmt.(type) {
		case *ast.ClassDecl:
			continue
		case *ast.FuncDecl:
			if fd.Name == config.CtorName {
				cs.CtorIndex = i
			}
			continue
		default:
			a.check(stmt, classScope)
		}
	}

	if cs.CtorIndex == -1 {
		// Auto-insert a default (no-arg) constructor (spec §4.2).
		ctor := &symbols.MethodSymbol{FuncSymbol: symbols.FuncSymbol{Name: config.CtorName, Return: types.VoidType}, Owner: cs}
		cs.OwnMethods = append(cs.OwnMethods, ctor)
		classScope.CreateMethodSymbol(ctor)
	}
}

func (a *Analyzer) checkFuncDecl(v *ast.FuncDecl, scope *symbols.SymbolTable) {
	fnScope := v.Body.SymbolTable()
	if fnScope == nil {
		fnScope = symbols.NewSymbolTable(symbols.ScopeFunction, scope)
	}

	typeParams := make([]*types.Type, len(v.TypeParams))
	for i, tp := range v.TypeParams {
		typeParams[i] = types.NewTypeParam(tp, i)
		fnScope.DeclareTypeParam(tp, typeParams[i])
	}

	seen := map[string]bool{}
	params := make([]*types.InstantiatedType, len(v.Params))
	for i, p := range v.Params {
		if seen[p.Name] {
			a.fail(ast.Pos{}, "duplicate parameter name %q in %q", p.Name, v.Name)
		}
		seen[p.Name] = true
		pt := a.InstantiatedTypeOf(p.Type, fnScope)
		p.Type.Resolved = pt
		params[i] = pt
		fnScope.CreateValueSymbol(&symbols.ValueSymbol{Name: p.Name, Type: pt})
	}
	ret := a.InstantiatedTypeOf(v.RetType, fnScope)

	if classScope := findEnclosingClassScope(scope); classScope != nil {
		owner := classScope.OwningClass
		overrides := false
		if classScope.ClassParent != nil {
			if _, ok := classScope.ClassParent.FindFunc(v.Name, symbols.ClassLookup); ok {
				overrides = true
			}
		}
		m := &symbols.MethodSymbol{
			FuncSymbol: symbols.FuncSymbol{Name: v.Name, TypeParams: typeParams, Params: params, Return: ret, Native: v.Native, InnerScope: fnScope, Decl: v},
			Owner:      owner,
			Overrides:  overrides,
		}
		v.Symbol = m
		owner.OwnMethods = append(owner.OwnMethods, m)
		if !classScope.CreateMethodSymbol(m) {
			a.fail(ast.Pos{}, "method %q redeclared in class %q", v.Name, owner.Name)
		}
		if v.Name == config.CtorName {
			a.prependSuperCtorCall(v, owner, fnScope)
		}
	} else {
		fs := &symbols.FuncSymbol{Name: v.Name, TypeParams: typeParams, Params: params, Return: ret, Native: v.Native, InnerScope: fnScope, Decl: v}
		v.Symbol = fs
		if !scope.CreateFuncSymbol(fs) {
			a.fail(ast.Pos{}, "function %q redeclared in this scope", v.Name)
		}
	}

	for _, stmt := range v.Body.Stmts {
		a.check(stmt, fnScope)
	}
}

// prependSuperCtorCall implements spec §4.2's constructor obligation:
// unless the user already wrote a super.<ctor>(args) call as the first
// statement, insert `super.<ctor>()` there.
func (a *Analyzer) prependSuperCtorCall(v *ast.FuncDecl, owner *symbols.ClassSymbol, fnScope *symbols.SymbolTable) {
	if owner.ParentIT == nil || owner.ParentIT.Equals(types.ObjectType) {
		return
	}
	if len(v.Body.Stmts) > 0 && isSuperCtorCall(v.Body.Stmts[0]) {
		return
	}
	call := &ast.ExprStmt{Expr: &ast.FunctionCall{
		Target: &ast.AttrAccess{Base: &ast.SuperExpr{}, Name: config.CtorName},
		Args:   &ast.ExprList{},
	}}
	v.Body.Stmts = append([]ast.Node{call}, v.Body.Stmts...)
}

func isSuperCtorCall(n ast.Node) bool {
	es, ok := n.(*ast.ExprStmt)
	if !ok {
		return false
	}
	fc, ok := es.Expr.(*ast.FunctionCall)
	if !ok {
		return false
	}
	attr, ok := fc.Target.(*ast.AttrAccess)
	if !ok || attr.Name != config.CtorName {
		return false
	}
	_, ok = attr.Base.(*ast.SuperExpr)
	return ok
}

func (a *Analyzer) checkClassAttrDecl(v *ast.ClassAttrDecl, scope *symbols.SymbolTable) {
	classScope := findEnclosingClassScope(scope)
	owner := (*symbols.ClassSymbol)(nil)
	if classScope != nil {
		owner = classScope.OwningClass
	}
	t := a.InstantiatedTypeOf(v.Type, scope)
	attr := &symbols.ClassAttribute{
		ValueSymbol: symbols.ValueSymbol{Name: v.Name, Type: t},
		Owner:       owner,
		Private:     v.Private,
		SlotIndex:   -1,
	}
	v.Symbol = attr
	if owner != nil {
		owner.OwnAttributes = append(owner.OwnAttributes, attr)
	}
	if !scope.CreateClassAttribute(attr) {
		a.fail(ast.Pos{}, "attribute %q redeclared", v.Name)
	}
	if v.Init != nil {
		a.check(v.Init, scope)
	}
}

func (a *Analyzer) checkAssign(v *ast.Assign, scope *symbols.SymbolTable) {
	a.inferExpr(v.Expr.RHS, scope)
	a.bindAssignTarget(v.Expr.LHS, v.Expr.RHS.Type(), scope)
	v.Expr.SetType(v.Expr.RHS.Type())
}

func (a *Analyzer) checkVariable(v *ast.Variable, scope *symbols.SymbolTable) {
	res, ok := scope.FindValue(v.Name, symbols.ClassParents)
	if !ok {
		a.fail(ast.Pos{}, "undeclared identifier %q", v.Name)
		v.SetType(types.AnyType)
		return
	}
	vs := res.Symbol.(*symbols.ValueSymbol)
	v.Symbol = vs
	if vs.Type != nil {
		v.SetType(res.Translator.Translate(vs.Type))
	}
}

func (a *Analyzer) checkImport(v *ast.Import, scope *symbols.SymbolTable) {
	if a.Loader == nil {
		a.fail(ast.Pos{}, "no module loader configured to resolve import %q", v.Path)
		return
	}
	depCtx, err := a.Loader(v.Path)
	if err != nil {
		a.fail(ast.Pos{}, "import %q: %v", v.Path, err)
		return
	}
	a.Ctx.ImportModule(v.Path, depCtx)
}
