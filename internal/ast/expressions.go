package ast

import "github.com/funvibe/venom/internal/types"

// Literal nodes (spec §6 grammar: int/float/bool/string/null literals).
type IntLiteral struct {
	TypedBase
	Value int64
}

func (n *IntLiteral) NumKids() int                  { return 0 }
func (n *IntLiteral) Kid(i int) Node                { panic("ast: IntLiteral has no kids") }
func (n *IntLiteral) SetKid(i int, kid Node)         { panic("ast: IntLiteral has no kids") }
func (n *IntLiteral) NeedsNewScope(k int) bool       { return false }
func (n *IntLiteral) Clone(mode CloneMode) Node {
	c := &IntLiteral{Value: n.Value}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

type FloatLiteral struct {
	TypedBase
	Value float64
}

func (n *FloatLiteral) NumKids() int            { return 0 }
func (n *FloatLiteral) Kid(i int) Node          { panic("ast: FloatLiteral has no kids") }
func (n *FloatLiteral) SetKid(i int, kid Node)  { panic("ast: FloatLiteral has no kids") }
func (n *FloatLiteral) NeedsNewScope(k int) bool { return false }
func (n *FloatLiteral) Clone(mode CloneMode) Node {
	c := &FloatLiteral{Value: n.Value}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

type BoolLiteral struct {
	TypedBase
	Value bool
}

func (n *BoolLiteral) NumKids() int            { return 0 }
func (n *BoolLiteral) Kid(i int) Node          { panic("ast: BoolLiteral has no kids") }
func (n *BoolLiteral) SetKid(i int, kid Node)  { panic("ast: BoolLiteral has no kids") }
func (n *BoolLiteral) NeedsNewScope(k int) bool { return false }
func (n *BoolLiteral) Clone(mode CloneMode) Node {
	c := &BoolLiteral{Value: n.Value}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

type StringLiteral struct {
	TypedBase
	Value string
}

func (n *StringLiteral) NumKids() int            { return 0 }
func (n *StringLiteral) Kid(i int) Node          { panic("ast: StringLiteral has no kids") }
func (n *StringLiteral) SetKid(i int, kid Node)  { panic("ast: StringLiteral has no kids") }
func (n *StringLiteral) NeedsNewScope(k int) bool { return false }
func (n *StringLiteral) Clone(mode CloneMode) Node {
	c := &StringLiteral{Value: n.Value}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

// NullLiteral is the single `null` literal, statically typed Boundless
// until assigned into a concrete slot (spec §3 Boundless).
type NullLiteral struct{ TypedBase }

func (n *NullLiteral) NumKids() int            { return 0 }
func (n *NullLiteral) Kid(i int) Node          { panic("ast: NullLiteral has no kids") }
func (n *NullLiteral) SetKid(i int, kid Node)  { panic("ast: NullLiteral has no kids") }
func (n *NullLiteral) NeedsNewScope(k int) bool { return false }
func (n *NullLiteral) Clone(mode CloneMode) Node {
	c := &NullLiteral{}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

// SelfExpr/SuperExpr reference the receiver and the receiver viewed as its
// superclass, respectively (spec §6).
type SelfExpr struct{ TypedBase }

func (n *SelfExpr) NumKids() int            { return 0 }
func (n *SelfExpr) Kid(i int) Node          { panic("ast: SelfExpr has no kids") }
func (n *SelfExpr) SetKid(i int, kid Node)  { panic("ast: SelfExpr has no kids") }
func (n *SelfExpr) NeedsNewScope(k int) bool { return false }
func (n *SelfExpr) Clone(mode CloneMode) Node {
	c := &SelfExpr{}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

type SuperExpr struct{ TypedBase }

func (n *SuperExpr) NumKids() int            { return 0 }
func (n *SuperExpr) Kid(i int) Node          { panic("ast: SuperExpr has no kids") }
func (n *SuperExpr) SetKid(i int, kid Node)  { panic("ast: SuperExpr has no kids") }
func (n *SuperExpr) NeedsNewScope(k int) bool { return false }
func (n *SuperExpr) Clone(mode CloneMode) Node {
	c := &SuperExpr{}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

// Variable is an unqualified name reference, resolved to a ValueSymbol or
// ClassAttribute during semantic analysis (spec §4.2). After CanonicalRefs
// rewrites an implicit `self.x` into an explicit AttrAccess, a surviving
// Variable always names a true local/parameter/module value.
type Variable struct {
	TypedBase
	Name   string
	Symbol any // *symbols.ValueSymbol, filled in by the analyzer
}

func (n *Variable) NumKids() int            { return 0 }
func (n *Variable) Kid(i int) Node          { panic("ast: Variable has no kids") }
func (n *Variable) SetKid(i int, kid Node)  { panic("ast: Variable has no kids") }
func (n *Variable) NeedsNewScope(k int) bool { return false }
func (n *Variable) Clone(mode CloneMode) Node {
	c := &Variable{Name: n.Name}
	if mode == Semantic {
		c.Typ = n.Typ
		c.Symbol = n.Symbol
	}
	return c
}

// BinopKind enumerates Venom's binary operators (spec §4.1 arithmetic and
// comparison rules).
type BinopKind int

const (
	OpAdd BinopKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
)

type BinopExpr struct {
	TypedBase
	Op          BinopKind
	Left, Right ExprNode
}

func (n *BinopExpr) NumKids() int { return 2 }
func (n *BinopExpr) Kid(i int) Node {
	if i == 0 {
		return n.Left
	}
	return n.Right
}
func (n *BinopExpr) SetKid(i int, kid Node) {
	if i == 0 {
		n.Left = kid.(ExprNode)
	} else {
		n.Right = kid.(ExprNode)
	}
}
func (n *BinopExpr) NeedsNewScope(k int) bool { return false }
func (n *BinopExpr) Clone(mode CloneMode) Node {
	c := &BinopExpr{Op: n.Op, Left: n.Left.Clone(mode).(ExprNode), Right: n.Right.Clone(mode).(ExprNode)}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

type UnopKind int

const (
	OpNeg UnopKind = iota
	OpNot
	OpBitNot
)

type UnopExpr struct {
	TypedBase
	Op  UnopKind
	Arg ExprNode
}

func (n *UnopExpr) NumKids() int    { return 1 }
func (n *UnopExpr) Kid(i int) Node  { return n.Arg }
func (n *UnopExpr) SetKid(i int, kid Node) { n.Arg = kid.(ExprNode) }
func (n *UnopExpr) NeedsNewScope(k int) bool { return false }
func (n *UnopExpr) Clone(mode CloneMode) Node {
	c := &UnopExpr{Op: n.Op, Arg: n.Arg.Clone(mode).(ExprNode)}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

// AttrAccess is `base.name` — attribute read or (as an AssignExpr LHS)
// write (spec §6).
type AttrAccess struct {
	TypedBase
	Base ExprNode
	Name string
	// Symbol is the resolved *symbols.ClassAttribute once known.
	Symbol any
}

func (n *AttrAccess) NumKids() int    { return 1 }
func (n *AttrAccess) Kid(i int) Node  { return n.Base }
func (n *AttrAccess) SetKid(i int, kid Node) { n.Base = kid.(ExprNode) }
func (n *AttrAccess) NeedsNewScope(k int) bool { return false }
func (n *AttrAccess) Clone(mode CloneMode) Node {
	c := &AttrAccess{Base: n.Base.Clone(mode).(ExprNode), Name: n.Name}
	if mode == Semantic {
		c.Typ = n.Typ
		c.Symbol = n.Symbol
	}
	return c
}

// ArrayAccess is `base[index]` (spec §6), used for both List and Map
// indexing — disambiguated by Base's static type.
type ArrayAccess struct {
	TypedBase
	Base, Index ExprNode
}

func (n *ArrayAccess) NumKids() int { return 2 }
func (n *ArrayAccess) Kid(i int) Node {
	if i == 0 {
		return n.Base
	}
	return n.Index
}
func (n *ArrayAccess) SetKid(i int, kid Node) {
	if i == 0 {
		n.Base = kid.(ExprNode)
	} else {
		n.Index = kid.(ExprNode)
	}
}
func (n *ArrayAccess) NeedsNewScope(k int) bool { return false }
func (n *ArrayAccess) Clone(mode CloneMode) Node {
	c := &ArrayAccess{Base: n.Base.Clone(mode).(ExprNode), Index: n.Index.Clone(mode).(ExprNode)}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

// ExprList is a comma-separated expression list (call arguments, literal
// elements) (spec §6).
type ExprList struct {
	TypedBase
	Exprs []ExprNode
}

func (n *ExprList) NumKids() int           { return len(n.Exprs) }
func (n *ExprList) Kid(i int) Node         { return n.Exprs[i] }
func (n *ExprList) SetKid(i int, kid Node) { n.Exprs[i] = kid.(ExprNode) }
func (n *ExprList) NeedsNewScope(k int) bool { return false }
func (n *ExprList) Clone(mode CloneMode) Node {
	c := &ExprList{Exprs: make([]ExprNode, len(n.Exprs))}
	for i, e := range n.Exprs {
		c.Exprs[i] = e.Clone(mode).(ExprNode)
	}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

// FunctionCall is `target(args...)` (spec §6), possibly carrying explicit
// type arguments for a generic function (`target{T1,T2}(args...)`).
type FunctionCall struct {
	TypedBase
	Target   ExprNode
	Args     *ExprList
	TypeArgs []*types.InstantiatedType

	// Bound is filled in by the analyzer: the resolved *symbols.ClassSymbol
	// (constructor call), *symbols.FuncSymbol or *symbols.MethodSymbol. The
	// specializer re-binds it to a monomorphized clone when TypeArgs is
	// non-empty.
	Bound any
}

func (n *FunctionCall) NumKids() int { return 2 }
func (n *FunctionCall) Kid(i int) Node {
	if i == 0 {
		return n.Target
	}
	return n.Args
}
func (n *FunctionCall) SetKid(i int, kid Node) {
	if i == 0 {
		n.Target = kid.(ExprNode)
	} else {
		n.Args = kid.(*ExprList)
	}
}
func (n *FunctionCall) NeedsNewScope(k int) bool { return false }
func (n *FunctionCall) Clone(mode CloneMode) Node {
	c := &FunctionCall{Target: n.Target.Clone(mode).(ExprNode), Args: n.Args.Clone(mode).(*ExprList), TypeArgs: n.TypeArgs}
	if mode == Semantic {
		c.Typ = n.Typ
		c.Bound = n.Bound
	}
	return c
}

// ArrayLiteral is `[e1, e2, ...]` (spec §6), desugared by DeSugar into a
// constructor call + append chain on the underlying List class.
type ArrayLiteral struct {
	TypedBase
	Elems *ExprList
}

func (n *ArrayLiteral) NumKids() int    { return 1 }
func (n *ArrayLiteral) Kid(i int) Node  { return n.Elems }
func (n *ArrayLiteral) SetKid(i int, kid Node) { n.Elems = kid.(*ExprList) }
func (n *ArrayLiteral) NeedsNewScope(k int) bool { return false }
func (n *ArrayLiteral) Clone(mode CloneMode) Node {
	c := &ArrayLiteral{Elems: n.Elems.Clone(mode).(*ExprList)}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

// DictLiteral is `{k1 :: v1, k2 :: v2, ...}` (spec §6), desugared
// analogously to ArrayLiteral but against the Map class. The parser
// separates key and value with `::` only; a single `:` is not accepted.
type DictLiteral struct {
	TypedBase
	Keys, Values *ExprList
}

func (n *DictLiteral) NumKids() int { return 2 }
func (n *DictLiteral) Kid(i int) Node {
	if i == 0 {
		return n.Keys
	}
	return n.Values
}
func (n *DictLiteral) SetKid(i int, kid Node) {
	if i == 0 {
		n.Keys = kid.(*ExprList)
	} else {
		n.Values = kid.(*ExprList)
	}
}
func (n *DictLiteral) NeedsNewScope(k int) bool { return false }
func (n *DictLiteral) Clone(mode CloneMode) Node {
	c := &DictLiteral{Keys: n.Keys.Clone(mode).(*ExprList), Values: n.Values.Clone(mode).(*ExprList)}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}

// AssignExpr is an assignment used in expression position, `lhs = rhs`,
// evaluating to rhs's value (spec §6). The Assign statement wraps one of
// these for the common statement-level case.
type AssignExpr struct {
	TypedBase
	LHS, RHS ExprNode
}

func (n *AssignExpr) NumKids() int { return 2 }
func (n *AssignExpr) Kid(i int) Node {
	if i == 0 {
		return n.LHS
	}
	return n.RHS
}
func (n *AssignExpr) SetKid(i int, kid Node) {
	if i == 0 {
		n.LHS = kid.(ExprNode)
	} else {
		n.RHS = kid.(ExprNode)
	}
}
func (n *AssignExpr) NeedsNewScope(k int) bool { return false }
func (n *AssignExpr) Clone(mode CloneMode) Node {
	c := &AssignExpr{LHS: n.LHS.Clone(mode).(ExprNode), RHS: n.RHS.Clone(mode).(ExprNode)}
	if mode == Semantic {
		c.Typ = n.Typ
	}
	return c
}
