// Package ast defines Venom's AST node set (spec §6 grammar), the
// location-context bitset, and the clone disciplines the rewrite pipeline
// and specializer need (spec §4.3, §4.1 "Specialize" pass).
package ast

import (
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// LocationContext flags mark *why* a node appears where it does, so later
// passes (rewrite, codegen) can special-case a position without re-deriving
// it from tree shape (spec §6; grounded on
// original_source/src/ast/node.h's locCtx bitset).
type LocationContext uint32

const (
	CtxFunctionCall LocationContext = 1 << iota
	CtxTopLevelClassBody
	CtxTopLevelFuncBody
	CtxAssignmentLHS
	CtxFunctionParam
)

// CloneMode selects which clone discipline Clone should use (spec §4.1/§4.3):
// Structural duplicates a subtree verbatim (fresh nodes, no symbol re-binding,
// used before re-running semanticCheck on a copy); Semantic additionally
// carries over the resolved Symbol/Type so a post-analysis clone stays
// type-correct without a second check pass.
type CloneMode int

const (
	Structural CloneMode = iota
	Semantic
)

// Node is the common interface over every AST node (spec §6). Only the
// structural/bookkeeping surface lives here; per-kind behavior (semantic
// check, codegen, rewrite) is implemented via type switches in the owning
// package (analyzer/rewrite/codegen), matching the teacher's
// Processor/visitor convention rather than virtual dispatch.
type Node interface {
	NumKids() int
	Kid(i int) Node
	SetKid(i int, kid Node)

	// NeedsNewScope reports whether the k-th kid opens a new lexical scope
	// (spec §4.1 "new-scope node kinds": module root, function body, class
	// body, for/if blocks that introduce loop variables).
	NeedsNewScope(k int) bool

	LocationContext() LocationContext
	SetLocationContext(ctx LocationContext)
	AddLocationContext(ctx LocationContext)
	ClearLocationContext(ctx LocationContext)

	SymbolTable() *symbols.SymbolTable
	SetSymbolTable(st *symbols.SymbolTable)

	Clone(mode CloneMode) Node
}

// ExprNode is a Node that produces a value and carries its resolved static
// type once semantic analysis completes.
type ExprNode interface {
	Node
	Type() *types.InstantiatedType
	SetType(t *types.InstantiatedType)
}

// StmtNode is a Node executed for effect.
type StmtNode interface {
	Node
}

// Base is embedded in every concrete node and implements the
// scope/location-context bookkeeping shared by all of them (spec §6).
type Base struct {
	Symbols *symbols.SymbolTable
	LocCtx  LocationContext
}

func (b *Base) LocationContext() LocationContext { return b.LocCtx }
func (b *Base) SetLocationContext(ctx LocationContext) { b.LocCtx = ctx }
func (b *Base) AddLocationContext(ctx LocationContext) { b.LocCtx |= ctx }
func (b *Base) ClearLocationContext(ctx LocationContext) { b.LocCtx &^= ctx }
func (b *Base) SymbolTable() *symbols.SymbolTable { return b.Symbols }
func (b *Base) SetSymbolTable(st *symbols.SymbolTable) { b.Symbols = st }

// TypedBase additionally carries an expression's resolved type.
type TypedBase struct {
	Base
	Typ *types.InstantiatedType
}

func (b *TypedBase) Type() *types.InstantiatedType        { return b.Typ }
func (b *TypedBase) SetType(t *types.InstantiatedType)     { b.Typ = t }

// Pos is a source location used when reporting diagnostics (spec §7 error
// reporting). Nodes do not store one, so the analyzer reports with the zero
// value.
type Pos struct {
	Line   int
	Column int
}
