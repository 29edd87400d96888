// Package analyzer implements Venom's two-phase semantic analyzer (spec
// §4.2): scope initialization followed by a post-order semantic check that
// registers and resolves symbols, type-checks expressions, and applies the
// subtyping/arithmetic rules from package types.
//
// Grounded on original_source/src/analysis/analysis.h's two-phase
// contract and the teacher's Processor-per-pass pipeline shape
// (internal/backend/processor.go), adapted here to a single Analyzer type
// with two exported entry points rather than a registered processor list,
// since Venom's analyzer is one fixed two-step walk, not an extensible
// chain.
package analyzer

import (
	"fmt"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/errs"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// Analyzer holds the accumulated diagnostics for one module's analysis run.
type Analyzer struct {
	Ctx   *symbols.SemanticContext
	Diags []error

	// Loader resolves an imported module path (spec §4.2 Import
	// obligation). See Loader's doc in check.go.
	Loader Loader
}

// New creates an Analyzer bound to ctx.
func New(ctx *symbols.SemanticContext) *Analyzer {
	return &Analyzer{Ctx: ctx}
}

func (a *Analyzer) fail(pos ast.Pos, format string, args ...any) {
	a.Diags = append(a.Diags, &errs.SemanticViolation{
		Pos: errs.Pos{Line: pos.Line, Column: pos.Column},
		Msg: fmt.Sprintf(format, args...),
	})
}

// Ok reports whether analysis produced no diagnostics.
func (a *Analyzer) Ok() bool { return len(a.Diags) == 0 }

// Run performs both phases of spec §4.2 on root (a *ast.ModuleRoot), using
// a.Ctx.Root as the module scope.
func (a *Analyzer) Run(root *ast.ModuleRoot) {
	root.SetSymbolTable(a.Ctx.Root)
	a.initScopes(root.Body, a.Ctx.Root)
	a.check(root.Body, a.Ctx.Root)
}

// InstantiatedTypeOf resolves an *ast.TypeRef against the current scope,
// looking up its name as a class symbol (or a builtin) and instantiating it
// with the resolved type arguments (spec §4.1 type-annotation resolution).
func (a *Analyzer) InstantiatedTypeOf(ref *ast.TypeRef, scope *symbols.SymbolTable) *types.InstantiatedType {
	if ref == nil {
		return types.VoidType
	}
	if builtin, ok := builtinType(ref.Name); ok {
		return builtin
	}
	if tp, ok := scope.FindTypeParam(ref.Name); ok {
		return types.Instantiate(tp)
	}
	params := make([]*types.InstantiatedType, len(ref.Params))
	for i, p := range ref.Params {
		params[i] = a.InstantiatedTypeOf(p, scope)
	}
	cs, ok := scope.FindClass(ref.Name, symbols.ClassParents)
	if !ok {
		a.fail(ast.Pos{}, "unknown type %q", ref.Name)
		return types.AnyType
	}
	return types.Instantiate(cs.Backing, params...)
}

func builtinType(name string) (*types.InstantiatedType, bool) {
	switch name {
	case "Int":
		return types.IntType, true
	case "Float":
		return types.FloatType, true
	case "Bool":
		return types.BoolType, true
	case "String":
		return types.StringType, true
	case "Void":
		return types.VoidType, true
	case "Any":
		return types.AnyType, true
	case "Object":
		return types.ObjectType, true
	}
	return nil, false
}
