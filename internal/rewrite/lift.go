package rewrite

import (
	"github.com/google/uuid"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// Lift implements spec §4.3's closure-conversion pass: every function
// declared inside another function, and every class declared inside a
// function or another class, is renamed in place to a fresh name and moved
// to the module's top level, captured enclosing variables made explicit as Ref{T}
// parameters (functions) or private fields (classes), and the enclosing
// scope's declaration/use sites of those variables rewritten to go through
// the ref's .value field. Runs once, after Specialize.
//
// A method (a FuncDecl directly inside a ClassDecl's body) is not a lift
// candidate — it is an ordinary member, not a closure, and has no access to
// any enclosing function's locals to capture — so it stays in place; only
// its own body is scanned for further nesting. Likewise a declaration that
// is already at module top level is left untouched. containerKind tracks
// which of these three positions the statement list being scanned occupies
// so liftFunc/liftClass are invoked only for genuine nested closures.
func Lift(ctx *symbols.SemanticContext, root *ast.ModuleRoot) {
	l := &lifter{root: root}
	l.scanContainer(root.Body, containerModule)
	root.Body.Stmts = append(root.Body.Stmts, l.extras...)
}

type lifter struct {
	root   *ast.ModuleRoot
	extras []ast.Node
}

// containerKind classifies the statement list scanContainer is currently
// walking, which determines whether a FuncDecl/ClassDecl found directly in
// it is a lift candidate.
type containerKind int

const (
	containerModule containerKind = iota // root.Body: declarations here are already top-level
	containerFunc                        // a function/closure body: nested decls here are true closures
	containerClass                       // a class body: FuncDecl here are methods (kept), ClassDecl here are nested classes (lifted)
)

// scanContainer scans one container's statement list for nested Func/Class
// declarations, lifting each one that is a genuine closure (per kind),
// splicing lifted declarations out of stmts, and recursing into every
// FuncDecl/ClassDecl body found (lifted or not) to find further nesting.
func (l *lifter) scanContainer(body *ast.StmtList, kind containerKind) {
	var kept []ast.Node
	var liftedFuncs []*ast.FuncDecl
	var liftedClasses []*ast.ClassDecl
	var recurseFuncs []*ast.FuncDecl
	var recurseClasses []*ast.ClassDecl

	for _, stmt := range body.Stmts {
		switch v := stmt.(type) {
		case *ast.FuncDecl:
			recurseFuncs = append(recurseFuncs, v)
			if kind == containerFunc {
				liftedFuncs = append(liftedFuncs, v)
			} else {
				// Method (containerClass) or already-top-level (containerModule):
				// not a closure, stays where it is.
				kept = append(kept, v)
			}
		case *ast.ClassDecl:
			recurseClasses = append(recurseClasses, v)
			if kind == containerModule {
				kept = append(kept, v)
			} else {
				liftedClasses = append(liftedClasses, v)
			}
		default:
			kept = append(kept, stmt)
		}
	}

	// body.Stmts must already reflect the post-lift shape (lifted decls
	// spliced out) before liftFunc/liftClass run: promoteCaptureInScope
	// rewrites this same body's surviving statements (the declaring
	// assignment of a captured variable becomes an alloc+store pair), and
	// that rewrite has to land on the list codegen will actually see, not on
	// a snapshot this loop already moved past.
	body.Stmts = kept

	for _, v := range liftedFuncs {
		l.liftFunc(v, body)
		l.extras = append(l.extras, v)
	}
	for _, v := range liftedClasses {
		l.liftClass(v, body)
		l.extras = append(l.extras, v)
	}

	for _, v := range recurseFuncs {
		l.scanContainer(v.Body, containerFunc)
	}
	for _, v := range recurseClasses {
		l.scanContainer(v.Body, containerClass)
	}
}

// liftFunc rewrites fd in place into its top-level, closure-converted form
// and rewrites fd's former enclosing container (whose remaining statements
// are enclosing) to route through .value for every captured variable.
func (l *lifter) liftFunc(fd *ast.FuncDecl, enclosing *ast.StmtList) {
	fs, ok := fd.Symbol.(*symbols.FuncSymbol)
	if !ok || fs.InnerScope == nil {
		return
	}
	captured := collectCapturedValues(fd.Body, fs.InnerScope)
	fd.Name = freshName(fd.Name)
	fs.Name = fd.Name
	fs.MangledName = fd.Name

	for _, v := range captured {
		paramName := refParamName(v)
		refIT := v.Type.Refify()
		fd.Params = append(fd.Params, &ast.ParamDecl{Name: paramName, Type: refTypeRef(refIT)})
		fs.Params = append(fs.Params, refIT)
		paramSym := &symbols.ValueSymbol{Name: paramName, Type: refIT}
		fs.InnerScope.CreateValueSymbol(paramSym)
		substituteVariable(fd.Body, v, nil, func() ast.ExprNode {
			return valueField(&ast.Variable{Name: paramName, Symbol: paramSym})
		})
		promoteCaptureInScope(enclosing, v)
		l.injectRefArg(fs, v)
	}
}

// liftClass rewrites a nested class declaration into its top-level,
// closure-converted form: captured enclosing locals become private Ref{T}
// fields populated from extra constructor parameters, and (spec §4.3)
// references to an enclosing class's own members gain an `<outer>` chain.
func (l *lifter) liftClass(cd *ast.ClassDecl, enclosing *ast.StmtList) {
	cs, ok := cd.Symbol.(*symbols.ClassSymbol)
	if !ok {
		return
	}
	cd.Name = freshName(cd.Name)
	cs.Name = cd.Name
	cs.Backing.Name = cd.Name

	ctor := findCtor(cd)
	var ctorMS *symbols.MethodSymbol
	if ctor != nil {
		ctorMS, _ = ctor.Symbol.(*symbols.MethodSymbol)
	}

	if outerScope := findEnclosingClassScope(cs.ClassScope); outerScope != nil {
		l.addOuterField(cd, cs, ctor, ctorMS, outerScope)
	}

	captured := collectCapturedValues(cd.Body, cs.ClassScope)
	for _, v := range captured {
		l.addCapturedField(cd, cs, ctor, ctorMS, v)
		promoteCaptureInScope(enclosing, v)
	}
}

// addOuterField gives a nested class an `<outer>` field holding the
// enclosing instance, threaded through an extra constructor parameter, and
// rewrites attribute accesses that resolve to the enclosing class (or
// further out) into a chain of `<outer>` hops (spec §4.3).
func (l *lifter) addOuterField(cd *ast.ClassDecl, cs *symbols.ClassSymbol, ctor *ast.FuncDecl, ctorMS *symbols.MethodSymbol, outerScope *symbols.SymbolTable) {
	outerClass := outerScope.OwningClass
	if outerClass == nil {
		return
	}
	outerIT := types.Instantiate(outerClass.Backing)
	field := &symbols.ClassAttribute{ValueSymbol: symbols.ValueSymbol{Name: config.OuterAttrName, Type: outerIT}, Owner: cs, Private: true, SlotIndex: -1}
	cd.Body.Stmts = append([]ast.Node{&ast.ClassAttrDecl{Name: config.OuterAttrName, Type: refTypeRefPlain(outerIT), Symbol: field}}, cd.Body.Stmts...)
	cs.OwnAttributes = append(cs.OwnAttributes, field)
	cs.ClassScope.CreateClassAttribute(field)

	rewriteOuterAccesses(cd.Body, cs.ClassScope, outerScope)

	if ctor != nil && ctorMS != nil {
		const paramName = "$outerparam"
		ctor.Params = append(ctor.Params, &ast.ParamDecl{Name: paramName, Type: refTypeRefPlain(outerIT)})
		ctorMS.Params = append(ctorMS.Params, outerIT)
		paramSym := &symbols.ValueSymbol{Name: paramName, Type: outerIT}
		ctorMS.InnerScope.CreateValueSymbol(paramSym)
		assign := &ast.Assign{Expr: &ast.AssignExpr{
			LHS: &ast.AttrAccess{Base: &ast.SelfExpr{}, Name: config.OuterAttrName, Symbol: field},
			RHS: &ast.Variable{Name: paramName, Symbol: paramSym},
		}}
		ctor.Body.Stmts = append([]ast.Node{assign}, ctor.Body.Stmts...)
	}

	l.injectOuterCtorArg(cs)
}

// addCapturedField gives a nested class a private Ref{T} field for one
// captured enclosing local, threaded through an extra constructor
// parameter exactly like addOuterField's `<outer>` field.
func (l *lifter) addCapturedField(cd *ast.ClassDecl, cs *symbols.ClassSymbol, ctor *ast.FuncDecl, ctorMS *symbols.MethodSymbol, v *symbols.ValueSymbol) {
	fieldName := refParamName(v)
	refIT := v.Type.Refify()
	field := &symbols.ClassAttribute{ValueSymbol: symbols.ValueSymbol{Name: fieldName, Type: refIT}, Owner: cs, Private: true, SlotIndex: -1}
	cd.Body.Stmts = append([]ast.Node{&ast.ClassAttrDecl{Name: fieldName, Type: refTypeRef(refIT), Symbol: field}}, cd.Body.Stmts...)
	cs.OwnAttributes = append(cs.OwnAttributes, field)
	cs.ClassScope.CreateClassAttribute(field)

	substituteVariable(cd.Body, v, nil, func() ast.ExprNode {
		return valueField(&ast.AttrAccess{Base: &ast.SelfExpr{}, Name: fieldName, Symbol: field})
	})

	if ctor == nil || ctorMS == nil {
		return
	}
	paramName := fieldName + "$ctorarg"
	ctor.Params = append(ctor.Params, &ast.ParamDecl{Name: paramName, Type: refTypeRef(refIT)})
	ctorMS.Params = append(ctorMS.Params, refIT)
	paramSym := &symbols.ValueSymbol{Name: paramName, Type: refIT}
	ctorMS.InnerScope.CreateValueSymbol(paramSym)
	assign := &ast.Assign{Expr: &ast.AssignExpr{
		LHS: &ast.AttrAccess{Base: &ast.SelfExpr{}, Name: fieldName, Symbol: field},
		RHS: &ast.Variable{Name: paramName, Symbol: paramSym},
	}}
	ctor.Body.Stmts = append([]ast.Node{assign}, ctor.Body.Stmts...)

	l.injectCapturedCtorArg(cs, v)
}

// injectRefArg appends the (now ref-typed) captured variable as an extra
// bare argument at every existing call site bound to fs (spec §4.3
// "callers of the lifted entity pass the matching refs").
func (l *lifter) injectRefArg(fs *symbols.FuncSymbol, v *symbols.ValueSymbol) {
	walkAll(l.root, func(n ast.Node) {
		fc, ok := n.(*ast.FunctionCall)
		if !ok {
			return
		}
		bound := fc.Bound
		if ms, ok := bound.(*symbols.MethodSymbol); ok {
			bound = &ms.FuncSymbol
		}
		if bf, ok := bound.(*symbols.FuncSymbol); !ok || bf != fs {
			return
		}
		fc.Args.Exprs = append(fc.Args.Exprs, &ast.Variable{Name: v.Name, Symbol: v, TypedBase: typedBase(v.Type)})
	})
}

// injectOuterCtorArg appends `self` as the extra constructor argument at
// every `new <NestedClass>(...)` call site found inside the enclosing
// class's own methods (the only place such a call can textually occur).
func (l *lifter) injectOuterCtorArg(cs *symbols.ClassSymbol) {
	walkAll(l.root, func(n ast.Node) {
		fc, ok := n.(*ast.FunctionCall)
		if !ok {
			return
		}
		if bcs, ok := fc.Bound.(*symbols.ClassSymbol); !ok || bcs != cs {
			return
		}
		fc.Args.Exprs = append(fc.Args.Exprs, &ast.SelfExpr{})
	})
}

func (l *lifter) injectCapturedCtorArg(cs *symbols.ClassSymbol, v *symbols.ValueSymbol) {
	walkAll(l.root, func(n ast.Node) {
		fc, ok := n.(*ast.FunctionCall)
		if !ok {
			return
		}
		if bcs, ok := fc.Bound.(*symbols.ClassSymbol); !ok || bcs != cs {
			return
		}
		fc.Args.Exprs = append(fc.Args.Exprs, &ast.Variable{Name: v.Name, Symbol: v, TypedBase: typedBase(v.Type)})
	})
}

func findCtor(cd *ast.ClassDecl) *ast.FuncDecl {
	for _, stmt := range cd.Body.Stmts {
		if fd, ok := stmt.(*ast.FuncDecl); ok && fd.Name == config.CtorName {
			return fd
		}
	}
	return nil
}

func findEnclosingClassScope(scope *symbols.SymbolTable) *symbols.SymbolTable {
	for cur := scope.Primary; cur != nil; cur = cur.Primary {
		if cur.Kind == symbols.ScopeClass {
			return cur
		}
	}
	return nil
}

// collectCapturedValues walks body looking for Variable reads resolving to
// a ValueSymbol declared in some scope strictly outside own (i.e. not a
// local/parameter of the declaration being lifted), deduplicated and in
// first-encountered order. Module-level values are excluded: CanonicalRefs
// already rewrote those into `<module>.x` attribute accesses.
func collectCapturedValues(body ast.Node, own *symbols.SymbolTable) []*symbols.ValueSymbol {
	seen := map[*symbols.ValueSymbol]bool{}
	var out []*symbols.ValueSymbol
	walkAll(body, func(n ast.Node) {
		v, ok := n.(*ast.Variable)
		if !ok {
			return
		}
		vs, ok := v.Symbol.(*symbols.ValueSymbol)
		if !ok || vs.Scope == nil {
			return
		}
		if vs.Scope.Kind == symbols.ScopeModule {
			return
		}
		if isDescendantOf(vs.Scope, own) {
			return // declared at or inside own scope: a true local, not a capture
		}
		if seen[vs] {
			return
		}
		seen[vs] = true
		out = append(out, vs)
	})
	return out
}

func isDescendantOf(st, ancestor *symbols.SymbolTable) bool {
	for cur := st; cur != nil; cur = cur.Primary {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// rewriteOuterAccesses finds self-attribute accesses inside body whose
// resolved owner is not own's own class (i.e. it belongs to an ancestor
// lexical class), and rewrites them into a chain of `<outer>` hops of
// length symbols.CountClassBoundaries(own, target's scope) (spec §4.3).
func rewriteOuterAccesses(body ast.Node, own *symbols.SymbolTable, outerScope *symbols.SymbolTable) {
	walkAllMutable(body, func(n ast.Node) ast.Node {
		attr, ok := n.(*ast.AttrAccess)
		if !ok {
			return n
		}
		if _, isSelf := attr.Base.(*ast.SelfExpr); !isSelf {
			return n
		}
		ca, ok := attr.Symbol.(*symbols.ClassAttribute)
		if !ok || ca.Owner == nil || ca.Owner.ClassScope == own {
			return n
		}
		hops := symbols.CountClassBoundaries(outerScope, ca.Owner.ClassScope) + 1
		var base ast.ExprNode = &ast.SelfExpr{}
		for i := 0; i < hops; i++ {
			base = &ast.AttrAccess{Base: base, Name: config.OuterAttrName}
		}
		return &ast.AttrAccess{Base: base, Name: attr.Name, Symbol: attr.Symbol, TypedBase: attr.TypedBase}
	})
}

// promoteCaptureInScope implements the enclosing-side half of spec §4.3's
// lifting contract: the declaring assignment of v becomes an allocation of
// a fresh Ref{T} followed by a store into its .value field, and every
// other read of v in the same container becomes a .value read. v's own
// static type is refified in place so later passes (and any sibling
// closure also capturing v) see it uniformly as a Ref{T}.
func promoteCaptureInScope(body *ast.StmtList, v *symbols.ValueSymbol) {
	if v.PromoteToRef {
		return // already promoted by an earlier sibling capture of the same variable
	}
	v.PromoteToRef = true
	origType := v.Type
	v.Type = origType.Refify()

	// The declaring assignment's own LHS names the ref cell itself (`v =
	// ...`), not a read of its contents, so it is excluded from the
	// blanket read->'.value' substitution below and rewritten by hand
	// into the alloc+store pair afterward.
	var declaredLHS *ast.Variable
	for _, stmt := range body.Stmts {
		if assign, ok := stmt.(*ast.Assign); ok {
			if variable, ok := assign.Expr.LHS.(*ast.Variable); ok && variable.Symbol == v {
				declaredLHS = variable
				break
			}
		}
	}
	if declaredLHS != nil {
		// Its cached type was set by analysis before the refify above;
		// codegen's storeLocalOp reads this cached type, not vs.Type.
		declaredLHS.SetType(v.Type)
	}

	substituteVariable(body, v, declaredLHS, func() ast.ExprNode {
		return valueField(&ast.Variable{Name: v.Name, Symbol: v, TypedBase: typedBase(v.Type)})
	})

	if declaredLHS == nil {
		return
	}
	var out []ast.Node
	for _, stmt := range body.Stmts {
		if assign, ok := stmt.(*ast.Assign); ok && assign.Expr.LHS == declaredLHS {
			refCtor := &ast.FunctionCall{
				Target:    &ast.Variable{Name: config.RefTypeName},
				Args:      &ast.ExprList{},
				TypeArgs:  []*types.InstantiatedType{origType},
				TypedBase: typedBase(v.Type),
			}
			refCtor.Bound = &symbols.ClassSymbol{Name: config.RefTypeName}
			alloc := &ast.Assign{Expr: &ast.AssignExpr{
				LHS: declaredLHS,
				RHS: refCtor,
			}}
			store := &ast.Assign{Expr: &ast.AssignExpr{
				LHS: valueField(&ast.Variable{Name: v.Name, Symbol: v, TypedBase: typedBase(v.Type)}),
				RHS: assign.Expr.RHS,
			}}
			out = append(out, alloc, store)
			continue
		}
		out = append(out, stmt)
	}
	body.Stmts = out
}

// substituteVariable replaces every read of v in n with replacement(),
// except the single exempt node (the declaring assignment's own LHS,
// which names the ref cell itself rather than reading its contents). Pass
// a nil exempt to substitute unconditionally (used for ref-parameter
// substitution inside a freshly lifted body, which has no such LHS).
func substituteVariable(n ast.Node, v *symbols.ValueSymbol, exempt *ast.Variable, replacement func() ast.ExprNode) {
	walkAllMutable(n, func(kid ast.Node) ast.Node {
		variable, ok := kid.(*ast.Variable)
		if !ok || variable.Symbol != v || variable == exempt {
			return kid
		}
		return replacement()
	})
}

func valueField(base ast.ExprNode) ast.ExprNode {
	return &ast.AttrAccess{Base: base, Name: config.RefValueAttr}
}

func refParamName(v *symbols.ValueSymbol) string {
	return v.Name + "$refparam"
}

func freshName(base string) string {
	return base + "$lift_" + uuid.NewString()
}

func refTypeRef(it *types.InstantiatedType) *ast.TypeRef {
	return &ast.TypeRef{Name: config.RefTypeName, Resolved: it}
}

func refTypeRefPlain(it *types.InstantiatedType) *ast.TypeRef {
	return &ast.TypeRef{Name: it.Type.Name, Resolved: it}
}

func typedBase(it *types.InstantiatedType) ast.TypedBase {
	tb := ast.TypedBase{}
	tb.SetType(it)
	return tb
}

// walkAll visits every node in n's subtree read-only (shared with
// specialize.go).

// walkAllMutable visits every node in n's subtree, replacing each kid with
// the value visit returns (allowing in-place rewriting of leaves like
// Variable -> AttrAccess without needing a parent pointer).
func walkAllMutable(n ast.Node, visit func(ast.Node) ast.Node) {
	if n == nil {
		return
	}
	for i := 0; i < n.NumKids(); i++ {
		kid := n.Kid(i)
		if kid == nil {
			continue
		}
		newKid := visit(kid)
		if newKid != kid {
			n.SetKid(i, newKid)
		} else {
			walkAllMutable(kid, visit)
			continue
		}
	}
}
