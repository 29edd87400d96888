package rewrite

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/types"
)

// ModuleMain implements spec §4.3(c): every top-level statement that is
// not a class or function declaration is moved into a synthetic function
// named "<main>"; afterward the module's statement list holds only
// declarations plus that one function.
func ModuleMain(ctx *symbols.SemanticContext, root *ast.ModuleRoot) {
	var decls []ast.Node
	var body []ast.Node
	for _, stmt := range root.Body.Stmts {
		switch stmt.(type) {
		case *ast.ClassDecl, *ast.FuncDecl:
			decls = append(decls, stmt)
		default:
			body = append(body, stmt)
		}
	}

	mainScope := symbols.NewSymbolTable(symbols.ScopeFunction, ctx.Root)
	mainFn := &ast.FuncDecl{
		Name:    config.MainFunctionName,
		RetType: &ast.TypeRef{Name: "Void", Resolved: types.VoidType},
		Body:    &ast.StmtList{Stmts: body},
	}
	mainFn.SetSymbolTable(mainScope)
	mainFn.Body.SetSymbolTable(mainScope)
	mainFn.Symbol = &symbols.FuncSymbol{Name: config.MainFunctionName, Return: types.VoidType, InnerScope: mainScope, DefiningScope: ctx.Root}
	ctx.Root.CreateFuncSymbol(mainFn.Symbol.(*symbols.FuncSymbol))

	root.Body.Stmts = append(decls, mainFn)
}
