// Package pipeline chains Venom's per-module front half (analysis, rewrite,
// codegen) and the whole-program linker into the two calls a driver needs:
// Compile (one module's AST to its ObjectCode) and Link (every module's
// ObjectCode to one runnable Executable).
//
// Grounded on the teacher's internal/pipeline/pipeline.go Processor-chain
// shape, generalized here the same way internal/rewrite.Run already is: a
// fixed, non-configurable sequence rather than a registered stage list,
// since spec §4 wires analyzer → rewrite → codegen → link in exactly this
// order and nothing else ever runs between them.
package pipeline

import (
	"fmt"

	"github.com/funvibe/venom/internal/analyzer"
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/codegen"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/link"
	"github.com/funvibe/venom/internal/rewrite"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// Diagnostics reports the semantic errors accumulated analyzing a module
// (spec §4.2); a non-nil Diagnostics means Compile stopped before codegen.
type Diagnostics struct {
	Errs []error
}

func (d *Diagnostics) Error() string {
	if len(d.Errs) == 1 {
		return d.Errs[0].Error()
	}
	return fmt.Sprintf("%d semantic errors, first: %v", len(d.Errs), d.Errs[0])
}

// Compile runs one module's front half: semantic analysis (spec §4.2),
// then the fixed rewrite order (spec §4.3), then symbolic code generation
// (spec §4.4). loader resolves an `import` statement's module path to an
// already-or-newly analyzed context (nil for a standalone single-module
// compile, e.g. tests).
func Compile(modulePath string, root *ast.ModuleRoot, loader analyzer.Loader) (*codegen.ObjectCode, *symbols.SemanticContext, error) {
	ctx := symbols.NewSemanticContext(modulePath)
	seedPrelude(ctx)
	a := analyzer.New(ctx)
	a.Loader = loader
	a.Run(root)
	if !a.Ok() {
		return nil, ctx, &Diagnostics{Errs: a.Diags}
	}

	rewrite.Run(ctx, root)

	oc, err := codegen.Generate(ctx, root)
	if err != nil {
		return nil, ctx, fmt.Errorf("pipeline: codegen: %w", err)
	}
	return oc, ctx, nil
}

// seedPrelude binds the names every module sees without an import or
// declaration of its own: today, just print(any) (spec §8's stdout
// scenarios), resolved as an ordinary native *symbols.FuncSymbol through
// the same analyzer.bindCallByName/codegen.emitCall path as a user
// function — runtime.BuiltinFunctions supplies the actual implementation
// at link time.
func seedPrelude(ctx *symbols.SemanticContext) {
	ctx.Root.CreateFuncSymbol(&symbols.FuncSymbol{
		Name:        config.PrintFuncName,
		Params:      []*types.InstantiatedType{types.AnyType},
		Return:      types.VoidType,
		Native:      true,
		MangledName: config.PrintFuncName,
	})
}

// Link resolves every module's ObjectCode into one Executable (spec §4.5).
// mainIdx names which entry of objs owns <main>.
func Link(objs []*codegen.ObjectCode, mainIdx int) (*link.Executable, error) {
	return link.Link(objs, mainIdx)
}
