// Package rewrite implements the fixed-order AST rewrite pipeline that runs
// between semantic analysis and code generation (spec §4.3): DeSugar,
// CanonicalRefs, ModuleMain, a Specialize pass, a Lift pass, FunctionReturns,
// and BoxPrimitives, in that order.
//
// Grounded on the teacher's internal/pipeline/pipeline.go — a tiny
// Pipeline{stages []Processor} orchestrator that runs each stage in
// sequence over one shared value — generalized here to Venom's fixed,
// non-configurable seven-stage order (spec §4.3 "Passes run in this fixed
// order"; a Processor is a rewrite.Pass below).
package rewrite

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/symbols"
)

// Pass rewrites a module's AST in place and returns nothing — every pass
// here mutates StmtList.Stmts slices directly, in place of rewriteLocal's
// "returns the new node, or nil for no change" contract, since Go slices
// already give us that in-place swap cheaply.
type Pass func(ctx *symbols.SemanticContext, root *ast.ModuleRoot)

// Run runs Venom's fixed rewrite order (spec §4.3). Stages are not
// configurable — the order is a correctness requirement, not a policy
// knob — so Run takes no stage list, unlike the teacher's general-purpose
// Pipeline.
func Run(ctx *symbols.SemanticContext, root *ast.ModuleRoot) {
	DeSugar(ctx, root)
	CanonicalRefs(ctx, root)
	ModuleMain(ctx, root)
	Specialize(ctx, root)
	Lift(ctx, root)
	FunctionReturns(ctx, root)
	BoxPrimitives(ctx, root)
}
