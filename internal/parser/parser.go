// Package parser turns a internal/token stream into the internal/ast trees
// internal/analyzer consumes (SPEC_FULL §C). Grounded in the teacher's
// internal/parser package: recursive-descent over statement/declaration
// forms, precedence-climbing ("Pratt") over binary expressions. Unlike the
// teacher's ~7000-line parser, this one covers exactly spec §6's grammar —
// the thin external-collaborator role spec §1 assigns the frontend.
package parser

import (
	"fmt"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/errs"
	"github.com/funvibe/venom/internal/lexer"
	"github.com/funvibe/venom/internal/token"
	"github.com/funvibe/venom/internal/types"
)

// Parser is a one-shot recursive-descent parser over a single module's
// source text; a syntax error aborts parsing immediately (spec §7
// ParseError, the one error kind the frontend itself raises).
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token
}

// Parse lexes and parses src into a ModuleRoot named path (spec §6: the
// module path import statements elsewhere refer to it by).
func Parse(path, src string) (root *ast.ModuleRoot, err error) {
	p := &Parser{l: lexer.New(src)}
	p.advance()
	p.advance()

	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*errs.ParseError)
			if !ok {
				panic(r)
			}
			err = pe
		}
	}()

	stmts := p.parseStmtsUntil(token.EOF)
	return &ast.ModuleRoot{Path: path, Body: &ast.StmtList{Stmts: stmts}}, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
	for p.peek.Type == token.NEWLINE {
		p.peek = p.l.NextToken()
	}
	for p.cur.Type == token.NEWLINE {
		p.cur = p.peek
		p.peek = p.l.NextToken()
	}
}

func (p *Parser) pos() errs.Pos { return errs.Pos{Line: p.cur.Line, Column: p.cur.Column} }

func (p *Parser) fail(format string, args ...any) {
	panic(&errs.ParseError{Pos: p.pos(), Msg: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(t token.TokenType) token.Token {
	if p.cur.Type != t {
		p.fail("expected %s, got %s %q", t, p.cur.Type, p.cur.Lexeme)
	}
	tok := p.cur
	p.advance()
	return tok
}

func (p *Parser) at(t token.TokenType) bool { return p.cur.Type == t }

// parseStmtsUntil parses a statement sequence up to (but not consuming) a
// token of type stop — "end" for most bodies, EOF for the module itself.
func (p *Parser) parseStmtsUntil(stop token.TokenType) []ast.Node {
	var out []ast.Node
	for !p.at(stop) && !p.at(token.EOF) {
		out = append(out, p.parseTopStmt())
	}
	return out
}

// parseTopStmt parses anything that can appear at module, class, or
// function-body level: declarations plus ordinary statements. The
// rewrite pipeline (ModuleMain/Lift) is what later separates declarations
// from executable code, not the parser (spec §4.3).
func (p *Parser) parseTopStmt() ast.Node {
	switch p.cur.Type {
	case token.IMPORT:
		return p.parseImport()
	case token.CLASS:
		return p.parseClassDecl()
	case token.DEF:
		return p.parseFuncDecl()
	case token.ATTR, token.PRIVATE:
		return p.parseAttrDecl()
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseImport() ast.Node {
	p.expect(token.IMPORT)
	name := p.expect(token.IDENT).Lexeme
	path := name
	for p.at(token.DOT) {
		p.advance()
		seg := p.cur
		if seg.Type != token.IDENT && seg.Type != token.UIDENT {
			p.fail("expected identifier after '.' in import path")
		}
		p.advance()
		path += "." + seg.Lexeme
	}
	return &ast.Import{Path: path}
}

// parseTypeParams parses the optional `{T1,T2,...}` declaration-site type
// parameter list (spec §6); nil if none is present.
func (p *Parser) parseTypeParams() []string {
	if !p.at(token.LBRACE) {
		return nil
	}
	p.advance()
	var names []string
	for {
		names = append(names, p.expect(token.UIDENT).Lexeme)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return names
}

// parseTypeRef parses a type annotation: `Name` or `Name{T1,T2}` (spec §6).
func (p *Parser) parseTypeRef() *ast.TypeRef {
	name := p.expect(token.UIDENT).Lexeme
	tr := &ast.TypeRef{Name: name}
	if p.at(token.LBRACE) {
		p.advance()
		for {
			tr.Params = append(tr.Params, p.parseTypeRef())
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBRACE)
	}
	return tr
}

func (p *Parser) parseClassDecl() ast.Node {
	p.expect(token.CLASS)
	name := p.expect(token.UIDENT).Lexeme
	typeParams := p.parseTypeParams()
	var parent *ast.TypeRef
	if p.at(token.LANGLECOLON) {
		p.advance()
		parent = p.parseTypeRef()
	}
	body := p.parseStmtsUntil(token.END)
	p.expect(token.END)
	return &ast.ClassDecl{Name: name, TypeParams: typeParams, Parent: parent, Body: &ast.StmtList{Stmts: body}}
}

func (p *Parser) parseAttrDecl() ast.Node {
	private := false
	if p.at(token.PRIVATE) {
		private = true
		p.advance()
	}
	p.expect(token.ATTR)
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.COLONCOLON)
	typ := p.parseTypeRef()
	var init ast.ExprNode
	if p.at(token.ASSIGN) {
		p.advance()
		init = p.parseExpr()
	}
	return &ast.ClassAttrDecl{Name: name, Type: typ, Init: init, Private: private}
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	p.expect(token.DEF)
	nameTok := p.cur
	if nameTok.Type != token.IDENT && nameTok.Type != token.UIDENT {
		p.fail("expected function name, got %s", p.cur.Type)
	}
	p.advance()
	typeParams := p.parseTypeParams()

	p.expect(token.LPAREN)
	var params []*ast.ParamDecl
	for !p.at(token.RPAREN) {
		pname := p.expect(token.IDENT).Lexeme
		p.expect(token.COLONCOLON)
		ptyp := p.parseTypeRef()
		params = append(params, &ast.ParamDecl{Name: pname, Type: ptyp})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)

	var ret *ast.TypeRef
	if p.at(token.COLONCOLON) {
		p.advance()
		ret = p.parseTypeRef()
	} else {
		ret = &ast.TypeRef{Name: "Void"}
	}

	body := p.parseStmtsUntil(token.END)
	p.expect(token.END)
	return &ast.FuncDecl{Name: nameTok.Lexeme, TypeParams: typeParams, Params: params, RetType: ret, Body: &ast.StmtList{Stmts: body}}
}

// parseStmt parses one executable statement (spec §6: assignment,
// if/for, return, expression statement).
func (p *Parser) parseStmt() ast.Node {
	switch p.cur.Type {
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.DEF:
		return p.parseFuncDecl()
	case token.CLASS:
		return p.parseClassDecl()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseIf() ast.Node {
	p.expect(token.IF)
	cond := p.parseExpr()
	p.expect(token.THEN)
	thenBody := p.parseStmtsUntilElseOrEnd()
	var elseBody *ast.StmtList
	if p.cur.Type == token.ELSE {
		p.advance()
		elseBody = &ast.StmtList{Stmts: p.parseStmtsUntilElseOrEnd()}
	}
	p.expect(token.END)
	return &ast.IfStmt{Cond: cond, ThenBody: &ast.StmtList{Stmts: thenBody}, ElseBody: elseBody}
}

// parseStmtsUntilElseOrEnd covers the then-branch, which must stop at
// either "else" or "end" (parseStmtsUntil only tests one stop token).
func (p *Parser) parseStmtsUntilElseOrEnd() []ast.Node {
	var out []ast.Node
	for !p.at(token.END) && !p.at(token.ELSE) && !p.at(token.EOF) {
		out = append(out, p.parseTopStmt())
	}
	return out
}

func (p *Parser) parseFor() ast.Node {
	p.expect(token.FOR)
	var init ast.Node
	if !p.at(token.SEMI) {
		init = p.parseExprOrAssignStmt()
	}
	p.expect(token.SEMI)
	var cond ast.ExprNode
	if !p.at(token.SEMI) {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)
	var step ast.Node
	if !p.at(token.DO) {
		step = p.parseExprOrAssignStmt()
	}
	p.expect(token.DO)
	body := p.parseStmtsUntil(token.END)
	p.expect(token.END)
	return &ast.ForStmt{Init: init, Cond: cond, Step: step, Body: &ast.StmtList{Stmts: body}}
}

func (p *Parser) parseReturn() ast.Node {
	p.expect(token.RETURN)
	if p.startsExpr() {
		return &ast.Return{Expr: p.parseExpr()}
	}
	return &ast.Return{}
}

func (p *Parser) startsExpr() bool {
	switch p.cur.Type {
	case token.END, token.ELSE, token.EOF, token.SEMI:
		return false
	default:
		return true
	}
}

// parseExprOrAssignStmt parses either `lhs = rhs` (Assign) or a bare
// expression statement (spec §6): both start the same way, so the
// expression is parsed first and promoted to an assignment if `=` follows.
func (p *Parser) parseExprOrAssignStmt() ast.Node {
	e := p.parseExpr()
	if p.at(token.ASSIGN) {
		p.advance()
		rhs := p.parseExpr()
		return &ast.Assign{Expr: &ast.AssignExpr{LHS: e, RHS: rhs}}
	}
	return &ast.ExprStmt{Expr: e}
}

// --- Expressions: precedence-climbing over the binary operator set (spec
// §6), lowest to highest: or, and, equality, relational, bitwise,
// additive, multiplicative, unary, postfix, primary.

func (p *Parser) parseExpr() ast.ExprNode { return p.parseOr() }

func (p *Parser) parseOr() ast.ExprNode {
	left := p.parseAnd()
	for p.at(token.OR) {
		p.advance()
		left = &ast.BinopExpr{Op: ast.OpOr, Left: left, Right: p.parseAnd()}
	}
	return left
}

func (p *Parser) parseAnd() ast.ExprNode {
	left := p.parseEquality()
	for p.at(token.AND) {
		p.advance()
		left = &ast.BinopExpr{Op: ast.OpAnd, Left: left, Right: p.parseEquality()}
	}
	return left
}

func (p *Parser) parseEquality() ast.ExprNode {
	left := p.parseRelational()
	for p.at(token.EQ) || p.at(token.NEQ) {
		op := ast.OpEq
		if p.cur.Type == token.NEQ {
			op = ast.OpNe
		}
		p.advance()
		left = &ast.BinopExpr{Op: op, Left: left, Right: p.parseRelational()}
	}
	return left
}

func (p *Parser) parseRelational() ast.ExprNode {
	left := p.parseBitwise()
	for p.at(token.LT) || p.at(token.LTE) || p.at(token.GT) || p.at(token.GTE) {
		var op ast.BinopKind
		switch p.cur.Type {
		case token.LT:
			op = ast.OpLt
		case token.LTE:
			op = ast.OpLe
		case token.GT:
			op = ast.OpGt
		default:
			op = ast.OpGe
		}
		p.advance()
		left = &ast.BinopExpr{Op: op, Left: left, Right: p.parseBitwise()}
	}
	return left
}

func (p *Parser) parseBitwise() ast.ExprNode {
	left := p.parseAdditive()
	for p.at(token.PIPE) || p.at(token.CARET) || p.at(token.AMP) {
		var op ast.BinopKind
		switch p.cur.Type {
		case token.PIPE:
			op = ast.OpBitOr
		case token.CARET:
			op = ast.OpBitXor
		default:
			op = ast.OpBitAnd
		}
		p.advance()
		left = &ast.BinopExpr{Op: op, Left: left, Right: p.parseAdditive()}
	}
	return left
}

func (p *Parser) parseAdditive() ast.ExprNode {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.OpAdd
		if p.cur.Type == token.MINUS {
			op = ast.OpSub
		}
		p.advance()
		left = &ast.BinopExpr{Op: op, Left: left, Right: p.parseMultiplicative()}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.ExprNode {
	left := p.parseUnary()
	for p.at(token.ASTERISK) || p.at(token.SLASH) || p.at(token.PERCENT) {
		var op ast.BinopKind
		switch p.cur.Type {
		case token.ASTERISK:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		p.advance()
		left = &ast.BinopExpr{Op: op, Left: left, Right: p.parseUnary()}
	}
	return left
}

func (p *Parser) parseUnary() ast.ExprNode {
	switch p.cur.Type {
	case token.MINUS:
		p.advance()
		return &ast.UnopExpr{Op: ast.OpNeg, Arg: p.parseUnary()}
	case token.NOT:
		p.advance()
		return &ast.UnopExpr{Op: ast.OpNot, Arg: p.parseUnary()}
	case token.TILDE:
		p.advance()
		return &ast.UnopExpr{Op: ast.OpBitNot, Arg: p.parseUnary()}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles `.name`, `[index]`, and `(args)` chained onto a
// primary (spec §6). Explicit generic call type arguments (`f{T,...}(...)`)
// are recognized only directly after a bare name (parsePrimary), the one
// shape spec §8's scenarios exercise; a generic method call would need a
// second case here.
func (p *Parser) parsePostfix() ast.ExprNode {
	e := p.parsePrimary()
	for {
		switch p.cur.Type {
		case token.DOT:
			p.advance()
			name := p.expect(token.IDENT).Lexeme
			e = &ast.AttrAccess{Base: e, Name: name}
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			e = &ast.ArrayAccess{Base: e, Index: idx}
		case token.LPAREN:
			e = &ast.FunctionCall{Target: e, Args: p.parseArgs()}
		default:
			return e
		}
	}
}

func (p *Parser) parseArgs() *ast.ExprList {
	p.expect(token.LPAREN)
	list := &ast.ExprList{}
	for !p.at(token.RPAREN) {
		list.Exprs = append(list.Exprs, p.parseExpr())
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return list
}

func (p *Parser) parsePrimary() ast.ExprNode {
	tok := p.cur
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.IntLiteral{Value: tok.Literal.(int64)}
	case token.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Value: tok.Literal.(float64)}
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Value: tok.Literal.(string)}
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: false}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{}
	case token.SELF:
		p.advance()
		return &ast.SelfExpr{}
	case token.SUPER:
		p.advance()
		return &ast.SuperExpr{}
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.LBRACKET:
		p.advance()
		list := &ast.ExprList{}
		for !p.at(token.RBRACKET) {
			list.Exprs = append(list.Exprs, p.parseExpr())
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBRACKET)
		return &ast.ArrayLiteral{Elems: list}
	case token.LBRACE:
		p.advance()
		keys, vals := &ast.ExprList{}, &ast.ExprList{}
		for !p.at(token.RBRACE) {
			k := p.parseExpr()
			p.expect(token.COLONCOLON)
			v := p.parseExpr()
			keys.Exprs = append(keys.Exprs, k)
			vals.Exprs = append(vals.Exprs, v)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBRACE)
		return &ast.DictLiteral{Keys: keys, Values: vals}
	case token.IDENT, token.UIDENT:
		p.advance()
		if p.at(token.LBRACE) {
			typeArgs := p.parseExplicitTypeArgs()
			args := p.parseArgs()
			return &ast.FunctionCall{Target: &ast.Variable{Name: tok.Lexeme}, Args: args, TypeArgs: typeArgs}
		}
		if p.at(token.LPAREN) {
			return &ast.FunctionCall{Target: &ast.Variable{Name: tok.Lexeme}, Args: p.parseArgs()}
		}
		return &ast.Variable{Name: tok.Lexeme}
	default:
		p.fail("unexpected token %s %q in expression", tok.Type, tok.Lexeme)
		return nil
	}
}

// parseExplicitTypeArgs parses a call-site `{T1,T2,...}` type-argument
// list straight into resolved *types.InstantiatedType values (spec §6
// grammar; ast.FunctionCall.TypeArgs is already-resolved, unlike
// ast.TypeRef elsewhere) — restricted to the seven builtin primitive names
// analyzer.builtinType recognizes, since a user class name can't be
// resolved without the symbol table the parser doesn't have access to.
func (p *Parser) parseExplicitTypeArgs() []*types.InstantiatedType {
	p.expect(token.LBRACE)
	var out []*types.InstantiatedType
	for {
		name := p.expect(token.UIDENT).Lexeme
		it, ok := builtinType(name)
		if !ok {
			p.fail("explicit type argument %q must be a builtin type (Int/Float/Bool/String/Void/Any/Object); generic user classes as call-site type arguments aren't supported by this frontend", name)
		}
		out = append(out, it)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return out
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
