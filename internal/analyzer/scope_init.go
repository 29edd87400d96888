package analyzer

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/symbols"
)

// initScopes implements spec §4.2 phase 1: allocate a SymbolTable for every
// node whose parent reports NeedsNewScope for that child index, and thread
// symbol tables down through nodes that do not open a scope of their own.
func (a *Analyzer) initScopes(n ast.Node, scope *symbols.SymbolTable) {
	if n == nil {
		return
	}
	n.SetSymbolTable(scope)

	var classScope *symbols.SymbolTable
	if cd, ok := n.(*ast.ClassDecl); ok {
		classScope = symbols.NewSymbolTable(symbols.ScopeClass, scope)
		_ = cd
	}

	for i := 0; i < n.NumKids(); i++ {
		kid := n.Kid(i)
		if kid == nil {
			continue
		}
		childScope := scope
		if n.NeedsNewScope(i) {
			switch n.(type) {
			case *ast.ClassDecl:
				childScope = classScope
			case *ast.FuncDecl:
				childScope = symbols.NewSymbolTable(symbols.ScopeFunction, scope)
			case *ast.ModuleRoot:
				childScope = scope // module root already owns a.Ctx.Root
			default:
				childScope = symbols.NewSymbolTable(symbols.ScopeBlock, scope)
			}
		}
		a.initScopes(kid, childScope)
	}
}
