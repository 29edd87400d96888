package analyzer

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// inferExpr is the analyzer's general expression pass (spec §4.1): it
// resolves an expression node's static type and, for the nodes that carry
// one, its symbol/call binding (Variable.Symbol, AttrAccess.Symbol,
// FunctionCall.Bound). check's post-order walk dispatches every ast.ExprNode
// here instead of recursing generically, since an expression's children
// must be visited in evaluation order with each step's inferred type
// available to the next (e.g. a BinopExpr needs both operands typed before
// it can pick its own type).
func (a *Analyzer) inferExpr(n ast.ExprNode, scope *symbols.SymbolTable) {
	switch v := n.(type) {
	case *ast.IntLiteral:
		v.SetType(types.IntType)
	case *ast.FloatLiteral:
		v.SetType(types.FloatType)
	case *ast.BoolLiteral:
		v.SetType(types.BoolType)
	case *ast.StringLiteral:
		v.SetType(types.StringType)
	case *ast.NullLiteral:
		v.SetType(types.BoundlessType)
	case *ast.Variable:
		a.checkVariable(v, scope)
	case *ast.BinopExpr:
		a.inferBinop(v, scope)
	case *ast.UnopExpr:
		a.inferUnop(v, scope)
	case *ast.AttrAccess:
		a.inferAttrAccess(v, scope)
	case *ast.ArrayAccess:
		a.inferArrayAccess(v, scope)
	case *ast.ExprList:
		for _, e := range v.Exprs {
			a.inferExpr(e, scope)
		}
	case *ast.FunctionCall:
		a.inferFunctionCall(v, scope)
	case *ast.ArrayLiteral:
		a.inferArrayLiteral(v, scope)
	case *ast.DictLiteral:
		a.inferDictLiteral(v, scope)
	case *ast.AssignExpr:
		a.inferAssignExpr(v, scope)
	}
}

// classSymbolFor recovers the ClassSymbol a class-declared InstantiatedType
// is backed by, or nil for a builtin type with no class declaration of its
// own (int/float/bool/string/list/map/ref/...).
func classSymbolFor(it *types.InstantiatedType) *symbols.ClassSymbol {
	if it == nil || it.Type == nil || it.Type.ClassLink == nil {
		return nil
	}
	cs, _ := it.Type.ClassLink.(*symbols.ClassSymbol)
	return cs
}

func (a *Analyzer) inferBinop(v *ast.BinopExpr, scope *symbols.SymbolTable) {
	a.inferExpr(v.Left, scope)
	a.inferExpr(v.Right, scope)
	lt, rt := v.Left.Type(), v.Right.Type()
	if lt == nil || rt == nil {
		v.SetType(types.AnyType)
		return
	}

	switch v.Op {
	case ast.OpAnd, ast.OpOr:
		v.SetType(types.BoolType)
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		v.SetType(types.BoolType)
	case ast.OpMod, ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		if !lt.IsInt() || !rt.IsInt() {
			a.fail(ast.Pos{}, "operator requires int operands, got %s and %s", lt, rt)
		}
		v.SetType(types.IntType)
	case ast.OpAdd:
		if lt.IsString() && rt.IsString() {
			v.SetType(types.StringType)
			return
		}
		v.SetType(arithmeticResult(a, lt, rt))
	default: // Sub, Mul, Div
		v.SetType(arithmeticResult(a, lt, rt))
	}
}

// arithmeticResult implements spec §4.1's static arithmetic rule: int op
// int -> int; any float operand -> float.
func arithmeticResult(a *Analyzer, lt, rt *types.InstantiatedType) *types.InstantiatedType {
	if !lt.IsNumeric() || !rt.IsNumeric() {
		a.fail(ast.Pos{}, "arithmetic operator requires numeric operands, got %s and %s", lt, rt)
		return types.AnyType
	}
	if lt.IsFloat() || rt.IsFloat() {
		return types.FloatType
	}
	return types.IntType
}

func (a *Analyzer) inferUnop(v *ast.UnopExpr, scope *symbols.SymbolTable) {
	a.inferExpr(v.Arg, scope)
	switch v.Op {
	case ast.OpNot:
		v.SetType(types.BoolType)
	case ast.OpBitNot:
		v.SetType(types.IntType)
	default: // OpNeg
		v.SetType(v.Arg.Type())
	}
}

func (a *Analyzer) inferAttrAccess(v *ast.AttrAccess, scope *symbols.SymbolTable) {
	a.inferExpr(v.Base, scope)
	baseType := v.Base.Type()
	if baseType == nil {
		v.SetType(types.AnyType)
		return
	}
	cs := classSymbolFor(baseType)
	if cs == nil {
		a.fail(ast.Pos{}, "%q is not a class-typed value", v.Name)
		v.SetType(types.AnyType)
		return
	}
	res, ok := cs.ClassScope.FindValue(v.Name, symbols.ClassLookup)
	if !ok {
		a.fail(ast.Pos{}, "undefined attribute %q on %s", v.Name, baseType)
		v.SetType(types.AnyType)
		return
	}
	attr, ok := res.Symbol.(*symbols.ClassAttribute)
	if !ok {
		a.fail(ast.Pos{}, "%q is not an attribute", v.Name)
		v.SetType(types.AnyType)
		return
	}
	v.Symbol = attr
	v.SetType(res.Translator.Translate(attr.Type))
}

func (a *Analyzer) inferArrayAccess(v *ast.ArrayAccess, scope *symbols.SymbolTable) {
	a.inferExpr(v.Base, scope)
	a.inferExpr(v.Index, scope)
	bt := v.Base.Type()
	if bt == nil {
		v.SetType(types.AnyType)
		return
	}
	switch {
	case bt.IsListType():
		v.SetType(bt.Params[0])
	case bt.IsMapType():
		v.SetType(bt.Params[1])
	default:
		a.fail(ast.Pos{}, "index operator on non-list/map type %s", bt)
		v.SetType(types.AnyType)
	}
}

// inferFunctionCall resolves fc.Bound to the *symbols.ClassSymbol (ctor
// call), *symbols.FuncSymbol (free function), or *symbols.MethodSymbol
// (method call) fc.Target names (spec §4.2 call resolution). This is the
// only binding Specialize needs: it later re-binds fc.Bound to a
// monomorphized clone when fc.TypeArgs is non-empty, but assumes the
// unspecialized symbol is already here.
func (a *Analyzer) inferFunctionCall(fc *ast.FunctionCall, scope *symbols.SymbolTable) {
	for _, arg := range fc.Args.Exprs {
		a.inferExpr(arg, scope)
	}

	switch target := fc.Target.(type) {
	case *ast.Variable:
		a.bindCallByName(fc, target.Name, scope)
	case *ast.AttrAccess:
		a.bindMethodCall(fc, target, scope)
	default:
		a.inferExpr(fc.Target, scope)
		fc.SetType(types.AnyType)
	}
}

// bindCallByName resolves a call whose target is a bare name: a class name
// is a constructor invocation, otherwise it must be a function (or, called
// without an explicit receiver from inside a method body, a same-class
// method — spec §4.2 "implicit self").
func (a *Analyzer) bindCallByName(fc *ast.FunctionCall, name string, scope *symbols.SymbolTable) {
	if cs, ok := scope.FindClass(name, symbols.ClassParents); ok {
		fc.Bound = cs
		if len(fc.TypeArgs) == len(cs.Backing.TypeParams) {
			fc.SetType(types.Instantiate(cs.Backing, fc.TypeArgs...))
		} else {
			fc.SetType(types.Instantiate(cs.Backing))
		}
		return
	}

	res, ok := scope.FindFunc(name, symbols.ClassParents)
	if !ok {
		a.fail(ast.Pos{}, "undefined function %q", name)
		fc.SetType(types.AnyType)
		return
	}
	switch fs := res.Symbol.(type) {
	case *symbols.MethodSymbol:
		fc.Bound = fs
		fc.SetType(a.callReturnType(fs.TypeParams, fs.Return, fc.TypeArgs, res.Translator))
	case *symbols.FuncSymbol:
		fc.Bound = fs
		fc.SetType(a.callReturnType(fs.TypeParams, fs.Return, fc.TypeArgs, res.Translator))
	default:
		a.fail(ast.Pos{}, "%q is not callable", name)
		fc.SetType(types.AnyType)
	}
}

// callReturnType resolves a call's static result type: a generic
// function/method called with explicit type arguments (`f{T1,T2}(...)`)
// substitutes its own declared type parameters directly, taking priority
// over the lookup-site translator (which only carries bindings from an
// enclosing parameterized class, spec §4.1 "composed while traversing
// parameterized class boundaries" — orthogonal to the call's own
// `fc.TypeArgs`).
func (a *Analyzer) callReturnType(typeParams []*types.Type, ret *types.InstantiatedType, typeArgs []*types.InstantiatedType, scopeTr *types.Translator) *types.InstantiatedType {
	if len(typeParams) > 0 && len(typeArgs) == len(typeParams) {
		tr := types.NewTranslator()
		tr.BindParams(typeParams, typeArgs)
		return tr.Translate(ret)
	}
	return scopeTr.Translate(ret)
}

// nativeMutatorReturn types a list/map/string builtin method call by name:
// "len" returns int, everything else (append/put/set) is a void mutator
// (spec §4.6's built-in library surface).
func nativeMutatorReturn(name string) *types.InstantiatedType {
	if name == "len" {
		return types.IntType
	}
	return types.VoidType
}

// bindMethodCall resolves `base.name(args)`. List/Map built-ins have no
// ClassSymbol of their own, so their mutators are addressed through a
// synthetic MethodSymbol (symbols.SyntheticNativeMethod), resolved by the
// linker purely by name like any other extern (spec §4.5 step 3) — the same
// device package rewrite's DeSugar uses for the literals it hoists.
func (a *Analyzer) bindMethodCall(fc *ast.FunctionCall, target *ast.AttrAccess, scope *symbols.SymbolTable) {
	a.inferExpr(target.Base, scope)
	baseType := target.Base.Type()
	if baseType == nil {
		fc.SetType(types.AnyType)
		return
	}

	if baseType.IsListType() || baseType.IsMapType() {
		owner := "list"
		if baseType.IsMapType() {
			owner = "map"
		}
		fc.Bound = symbols.SyntheticNativeMethod(owner, target.Name)
		fc.SetType(nativeMutatorReturn(target.Name))
		return
	}

	if baseType.IsString() {
		fc.Bound = symbols.SyntheticNativeMethod(config.StringTypeName, target.Name)
		if target.Name == config.ConcatMethod {
			fc.SetType(types.StringType)
		} else {
			fc.SetType(nativeMutatorReturn(target.Name))
		}
		return
	}

	cs := classSymbolFor(baseType)
	if cs == nil {
		a.fail(ast.Pos{}, "method call %q on non-class type %s", target.Name, baseType)
		fc.SetType(types.AnyType)
		return
	}
	res, ok := cs.ClassScope.FindFunc(target.Name, symbols.ClassLookup)
	if !ok {
		a.fail(ast.Pos{}, "undefined method %q on %s", target.Name, baseType)
		fc.SetType(types.AnyType)
		return
	}
	ms, ok := res.Symbol.(*symbols.MethodSymbol)
	if !ok {
		a.fail(ast.Pos{}, "%q is not a method", target.Name)
		fc.SetType(types.AnyType)
		return
	}
	fc.Bound = ms
	fc.SetType(res.Translator.Translate(ms.Return))
}

// inferArrayLiteral types `[e1, e2, ...]` as list{mostCommonType(elems)}
// (spec §4.1 mostCommonType; an empty literal has no way to infer an
// element type from its elements alone, so it falls back to Any and is
// typed list{Any}; that type is not refined afterwards).
func (a *Analyzer) inferArrayLiteral(v *ast.ArrayLiteral, scope *symbols.SymbolTable) {
	for _, e := range v.Elems.Exprs {
		a.inferExpr(e, scope)
	}
	elem := types.AnyType
	for i, e := range v.Elems.Exprs {
		if e.Type() == nil {
			continue
		}
		if i == 0 {
			elem = e.Type()
		} else {
			elem = elem.MostCommonType(e.Type())
		}
	}
	v.SetType(types.Instantiate(types.ListTypeCtor, elem))
}

func (a *Analyzer) inferDictLiteral(v *ast.DictLiteral, scope *symbols.SymbolTable) {
	for _, e := range v.Keys.Exprs {
		a.inferExpr(e, scope)
	}
	for _, e := range v.Values.Exprs {
		a.inferExpr(e, scope)
	}
	key, val := types.AnyType, types.AnyType
	for i, e := range v.Keys.Exprs {
		if e.Type() == nil {
			continue
		}
		if i == 0 {
			key = e.Type()
		} else {
			key = key.MostCommonType(e.Type())
		}
	}
	for i, e := range v.Values.Exprs {
		if e.Type() == nil {
			continue
		}
		if i == 0 {
			val = e.Type()
		} else {
			val = val.MostCommonType(e.Type())
		}
	}
	v.SetType(types.Instantiate(types.MapTypeCtor, key, val))
}

// inferAssignExpr handles `lhs = rhs` used in expression position (spec §6);
// the common statement form `lhs = rhs` is handled by checkAssign instead,
// which shares bindAssignTarget with this.
func (a *Analyzer) inferAssignExpr(v *ast.AssignExpr, scope *symbols.SymbolTable) {
	a.inferExpr(v.RHS, scope)
	a.bindAssignTarget(v.LHS, v.RHS.Type(), scope)
	v.SetType(v.RHS.Type())
}

// bindAssignTarget resolves (declaring, if new) an assignment's LHS against
// rhsType (spec §4.2 Assignment: "assignment to an undeclared name
// introduces a new local").
func (a *Analyzer) bindAssignTarget(lhs ast.ExprNode, rhsType *types.InstantiatedType, scope *symbols.SymbolTable) {
	if rhsType != nil && types.IsHiddenOrModule(rhsType) {
		a.fail(ast.Pos{}, "cannot assign a module value")
	}

	variable, ok := lhs.(*ast.Variable)
	if !ok {
		a.inferExpr(lhs, scope)
		return
	}

	res, found := scope.FindValue(variable.Name, symbols.AllowCurrentScope)
	if !found {
		vs := &symbols.ValueSymbol{Name: variable.Name, Type: rhsType}
		scope.CreateValueSymbol(vs)
		variable.Symbol = vs
		variable.SetType(vs.Type)
		return
	}
	vs := res.Symbol.(*symbols.ValueSymbol)
	if vs.Type == nil {
		vs.Type = rhsType
	} else if rhsType != nil && !rhsType.IsSubtypeOf(vs.Type) {
		a.fail(ast.Pos{}, "cannot assign %s to %s", rhsType, vs.Type)
	}
	variable.Symbol = vs
	variable.SetType(vs.Type)
}
