package ast

import "github.com/funvibe/venom/internal/types"

// StmtList is a `;`-joined sequence of statements, the body of a module,
// function, class, or block (spec §6). NeedsNewScope is overridden by the
// owning Func/Class/Module declaration node — a bare StmtList itself opens
// no scope.
type StmtList struct {
	Base
	Stmts []Node
}

func (n *StmtList) NumKids() int           { return len(n.Stmts) }
func (n *StmtList) Kid(i int) Node         { return n.Stmts[i] }
func (n *StmtList) SetKid(i int, kid Node) { n.Stmts[i] = kid }
func (n *StmtList) NeedsNewScope(k int) bool { return false }
func (n *StmtList) Clone(mode CloneMode) Node {
	c := &StmtList{Stmts: make([]Node, len(n.Stmts))}
	for i, s := range n.Stmts {
		c.Stmts[i] = s.Clone(mode)
	}
	return c
}

// Assign is the statement form `lhs = rhs` (spec §6).
type Assign struct {
	Base
	Expr *AssignExpr
}

func (n *Assign) NumKids() int           { return 1 }
func (n *Assign) Kid(i int) Node         { return n.Expr }
func (n *Assign) SetKid(i int, kid Node) { n.Expr = kid.(*AssignExpr) }
func (n *Assign) NeedsNewScope(k int) bool { return false }
func (n *Assign) Clone(mode CloneMode) Node {
	return &Assign{Expr: n.Expr.Clone(mode).(*AssignExpr)}
}

// ExprStmt is an expression evaluated for effect (or, before
// FunctionReturns rewrites it, the final implicit-return expression of a
// function body) (spec §4.1 FunctionReturns pass).
type ExprStmt struct {
	Base
	Expr ExprNode
}

func (n *ExprStmt) NumKids() int           { return 1 }
func (n *ExprStmt) Kid(i int) Node         { return n.Expr }
func (n *ExprStmt) SetKid(i int, kid Node) { n.Expr = kid.(ExprNode) }
func (n *ExprStmt) NeedsNewScope(k int) bool { return false }
func (n *ExprStmt) Clone(mode CloneMode) Node {
	return &ExprStmt{Expr: n.Expr.Clone(mode).(ExprNode)}
}

// Return is an explicit `return expr` (or bare `return`) statement.
type Return struct {
	Base
	Expr ExprNode // nil for a bare return
}

func (n *Return) NumKids() int {
	if n.Expr == nil {
		return 0
	}
	return 1
}
func (n *Return) Kid(i int) Node { return n.Expr }
func (n *Return) SetKid(i int, kid Node) {
	if kid == nil {
		n.Expr = nil
		return
	}
	n.Expr = kid.(ExprNode)
}
func (n *Return) NeedsNewScope(k int) bool { return false }
func (n *Return) Clone(mode CloneMode) Node {
	c := &Return{}
	if n.Expr != nil {
		c.Expr = n.Expr.Clone(mode).(ExprNode)
	}
	return c
}

// IfStmt is `if cond then thenBody [else elseBody] end` (spec §6).
// elseBody is nil when there is no else clause.
type IfStmt struct {
	Base
	Cond               ExprNode
	ThenBody, ElseBody *StmtList
}

func (n *IfStmt) NumKids() int {
	if n.ElseBody == nil {
		return 2
	}
	return 3
}
func (n *IfStmt) Kid(i int) Node {
	switch i {
	case 0:
		return n.Cond
	case 1:
		return n.ThenBody
	default:
		return n.ElseBody
	}
}
func (n *IfStmt) SetKid(i int, kid Node) {
	switch i {
	case 0:
		n.Cond = kid.(ExprNode)
	case 1:
		n.ThenBody = kid.(*StmtList)
	default:
		n.ElseBody = kid.(*StmtList)
	}
}

// NeedsNewScope reports true for the then/else body kids (spec §4.1
// new-scope node kinds: block bodies get their own lexical scope so
// variables declared inside do not leak out).
func (n *IfStmt) NeedsNewScope(k int) bool { return k == 1 || k == 2 }
func (n *IfStmt) Clone(mode CloneMode) Node {
	c := &IfStmt{Cond: n.Cond.Clone(mode).(ExprNode), ThenBody: n.ThenBody.Clone(mode).(*StmtList)}
	if n.ElseBody != nil {
		c.ElseBody = n.ElseBody.Clone(mode).(*StmtList)
	}
	return c
}

// ForStmt is `for init; cond; step do body end` (spec §6). Any of
// init/cond/step may be nil.
type ForStmt struct {
	Base
	Init       Node
	Cond       ExprNode
	Step       Node
	Body       *StmtList
}

func (n *ForStmt) NumKids() int { return 4 }
func (n *ForStmt) Kid(i int) Node {
	switch i {
	case 0:
		return n.Init
	case 1:
		return n.Cond
	case 2:
		return n.Step
	default:
		return n.Body
	}
}
func (n *ForStmt) SetKid(i int, kid Node) {
	switch i {
	case 0:
		n.Init = kid
	case 1:
		if kid == nil {
			n.Cond = nil
		} else {
			n.Cond = kid.(ExprNode)
		}
	case 2:
		n.Step = kid
	default:
		n.Body = kid.(*StmtList)
	}
}

// NeedsNewScope is true for the body only (spec §4.1): Init, Cond and Step
// are analyzed in the enclosing scope, so a variable Init declares lives
// there, and Body gets a block scope of its own.
func (n *ForStmt) NeedsNewScope(k int) bool { return k == 3 }
func (n *ForStmt) Clone(mode CloneMode) Node {
	c := &ForStmt{Body: n.Body.Clone(mode).(*StmtList)}
	if n.Init != nil {
		c.Init = n.Init.Clone(mode)
	}
	if n.Cond != nil {
		c.Cond = n.Cond.Clone(mode).(ExprNode)
	}
	if n.Step != nil {
		c.Step = n.Step.Clone(mode)
	}
	return c
}

// Import is `import path` (spec §6); resolved by the analyzer into a
// ModuleSymbol binding.
type Import struct {
	Base
	Path string
}

func (n *Import) NumKids() int            { return 0 }
func (n *Import) Kid(i int) Node          { panic("ast: Import has no kids") }
func (n *Import) SetKid(i int, kid Node)  { panic("ast: Import has no kids") }
func (n *Import) NeedsNewScope(k int) bool { return false }
func (n *Import) Clone(mode CloneMode) Node {
	return &Import{Path: n.Path}
}

// TypeRef names a declared type in source syntax, e.g. `List{Int}`,
// resolved against the symbol table into an InstantiatedType by the
// analyzer (spec §6 type-annotation grammar).
type TypeRef struct {
	Name   string
	Params []*TypeRef
	// Resolved is filled in by the analyzer.
	Resolved *types.InstantiatedType
}

// ParamDecl is one `name :: TypeRef` function parameter (spec §6).
type ParamDecl struct {
	Name string
	Type *TypeRef
}

// FuncDecl is `def name{T1,T2}(p1 :: T1, p2 :: T2) :: RetType body end`
// (spec §6; RetType is Void when `:: RetType` is omitted) — a free
// function, or a method when it sits directly in a ClassDecl's body (its
// Symbol is then a *symbols.MethodSymbol).
type FuncDecl struct {
	Base
	Name       string
	TypeParams []string
	Params     []*ParamDecl
	RetType    *TypeRef
	Body       *StmtList
	Native     bool

	// Symbol is the resolved *symbols.FuncSymbol or *symbols.MethodSymbol.
	Symbol any
}

func (n *FuncDecl) NumKids() int {
	if n.Body == nil {
		return 0
	}
	return 1
}
func (n *FuncDecl) Kid(i int) Node { return n.Body }
func (n *FuncDecl) SetKid(i int, kid Node) {
	if kid == nil {
		n.Body = nil
		return
	}
	n.Body = kid.(*StmtList)
}

// NeedsNewScope is true for the body: a function introduces a new scope for
// its parameters and locals (spec §4.1).
func (n *FuncDecl) NeedsNewScope(k int) bool { return true }
func (n *FuncDecl) Clone(mode CloneMode) Node {
	c := &FuncDecl{Name: n.Name, TypeParams: n.TypeParams, Params: n.Params, RetType: n.RetType, Native: n.Native}
	if n.Body != nil {
		c.Body = n.Body.Clone(mode).(*StmtList)
	}
	if mode == Semantic {
		c.Symbol = n.Symbol
	}
	return c
}

// ClassAttrDecl is an attribute declaration inside a class body,
// `[private] attr name :: Type [= init]` (spec §6).
type ClassAttrDecl struct {
	Base
	Name    string
	Type    *TypeRef
	Init    ExprNode // nil if no initializer
	Private bool

	Symbol any // *symbols.ClassAttribute
}

func (n *ClassAttrDecl) NumKids() int {
	if n.Init == nil {
		return 0
	}
	return 1
}
func (n *ClassAttrDecl) Kid(i int) Node { return n.Init }
func (n *ClassAttrDecl) SetKid(i int, kid Node) {
	if kid == nil {
		n.Init = nil
		return
	}
	n.Init = kid.(ExprNode)
}
func (n *ClassAttrDecl) NeedsNewScope(k int) bool { return false }
func (n *ClassAttrDecl) Clone(mode CloneMode) Node {
	c := &ClassAttrDecl{Name: n.Name, Type: n.Type, Private: n.Private}
	if n.Init != nil {
		c.Init = n.Init.Clone(mode).(ExprNode)
	}
	if mode == Semantic {
		c.Symbol = n.Symbol
	}
	return c
}

// ClassDecl is `class Name{T1,T2} <: Parent stmtlist end` (spec §6):
// attribute decls, method FuncDecls, and nested ClassDecls all live in Body.
type ClassDecl struct {
	Base
	Name       string
	TypeParams []string
	Parent     *TypeRef // nil means implicit `Object` parent
	Body       *StmtList

	Symbol any // *symbols.ClassSymbol
}

func (n *ClassDecl) NumKids() int { return 1 }
func (n *ClassDecl) Kid(i int) Node { return n.Body }
func (n *ClassDecl) SetKid(i int, kid Node) { n.Body = kid.(*StmtList) }

// NeedsNewScope is true: a class body is its own scope, with a
// ClassParent link to the superclass's scope (spec §4.1).
func (n *ClassDecl) NeedsNewScope(k int) bool { return true }
func (n *ClassDecl) Clone(mode CloneMode) Node {
	c := &ClassDecl{Name: n.Name, TypeParams: n.TypeParams, Parent: n.Parent, Body: n.Body.Clone(mode).(*StmtList)}
	if mode == Semantic {
		c.Symbol = n.Symbol
	}
	return c
}

// ModuleRoot is the top-level node of a compiled unit: its StmtList holds
// top-level class/func decls and (before the ModuleMain rewrite) top-level
// executable statements (spec §4.1 ModuleMain pass).
type ModuleRoot struct {
	Base
	Path string
	Body *StmtList
}

func (n *ModuleRoot) NumKids() int           { return 1 }
func (n *ModuleRoot) Kid(i int) Node         { return n.Body }
func (n *ModuleRoot) SetKid(i int, kid Node) { n.Body = kid.(*StmtList) }
func (n *ModuleRoot) NeedsNewScope(k int) bool { return true }
func (n *ModuleRoot) Clone(mode CloneMode) Node {
	return &ModuleRoot{Path: n.Path, Body: n.Body.Clone(mode).(*StmtList)}
}
