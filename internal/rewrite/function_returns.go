package rewrite

import (
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/symbols"
)

// FunctionReturns implements spec §4.3(d): for every function body, if the
// return type is void, append an explicit `return` at the end; otherwise
// rewrite a tail-position expression-statement into `return <expr>`.
func FunctionReturns(ctx *symbols.SemanticContext, root *ast.ModuleRoot) {
	walkFuncDecls(root.Body, func(fd *ast.FuncDecl) {
		fixupReturns(fd)
	})
}

func walkFuncDecls(sl *ast.StmtList, visit func(*ast.FuncDecl)) {
	if sl == nil {
		return
	}
	for _, stmt := range sl.Stmts {
		switch v := stmt.(type) {
		case *ast.FuncDecl:
			visit(v)
			walkFuncDecls(v.Body, visit)
		case *ast.ClassDecl:
			walkFuncDecls(v.Body, visit)
		}
	}
}

func fixupReturns(fd *ast.FuncDecl) {
	if fd.Body == nil {
		return
	}
	isVoid := fd.RetType == nil || fd.RetType.Name == "Void"
	n := len(fd.Body.Stmts)
	if isVoid {
		if n == 0 {
			fd.Body.Stmts = append(fd.Body.Stmts, &ast.Return{})
			return
		}
		if _, ok := fd.Body.Stmts[n-1].(*ast.Return); !ok {
			fd.Body.Stmts = append(fd.Body.Stmts, &ast.Return{})
		}
		return
	}
	if n == 0 {
		return
	}
	if es, ok := fd.Body.Stmts[n-1].(*ast.ExprStmt); ok {
		fd.Body.Stmts[n-1] = &ast.Return{Expr: es.Expr}
	}
}
