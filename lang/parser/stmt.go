package parser

import (
	"github.com/mna/virel/lang/ast"
	"github.com/mna/virel/lang/token"
)

// parseBlock parses a braced block of statements, or, when the current
// token is "do", a single statement treated as a singleton block.
func (p *parser) parseBlock() *ast.Block {
	if p.peek().Kind == token.DO {
		doTok := p.advance()
		stmt := p.parseStatement()
		_, end := stmt.Span()
		return &ast.Block{Start: doTok.Pos(), End: end, Stmts: []ast.Stmt{stmt}}
	}

	lbrace := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for p.peek().Kind != token.RBRACE {
		if p.atEnd() {
			p.failf(p.peek(), "unexpected end of file, expected '}'")
		}
		stmts = append(stmts, p.parseStatement())
	}
	rbrace := p.advance()
	return &ast.Block{Start: lbrace.Pos(), End: rbrace.Pos(), Stmts: stmts}
}

// parseStatement dispatches on the first token of the statement.
func (p *parser) parseStatement() ast.Stmt {
	switch p.peek().Kind {
	case token.IF:
		return p.parseIfStmt()
	case token.VAR:
		return p.parseDeclStmt()
	case token.LBRACE, token.DO:
		return p.parseBlock()
	case token.FUNCTION, token.FOR, token.WHILE, token.RETURN:
		// reserved keywords, not supported in this version
		p.failf(p.peek(), "%#v statements are not supported", p.peek().Kind)
		panic("unreachable")
	default:
		return p.parseExprStmt()
	}
}

// parseIfStmt parses: if cond body [else body], where each body is a
// block (or a "do" singleton block) and the else body may be another if
// statement, forming an elif chain.
func (p *parser) parseIfStmt() *ast.IfStmt {
	ifTok := p.expect(token.IF)
	cond := p.parseExpr()
	then := p.parseBlock()

	var els ast.Stmt
	if p.peek().Kind == token.ELSE {
		p.advance()
		if p.peek().Kind == token.IF {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlock()
		}
	}
	return &ast.IfStmt{If: ifTok.Pos(), Cond: cond, Then: then, Else: els}
}

// parseDeclStmt parses: var NAME [: TYPENAME] [= expr] ; requiring at
// least one of the type annotation and the initializer.
func (p *parser) parseDeclStmt() *ast.DeclStmt {
	varTok := p.expect(token.VAR)
	name := p.expect(token.NAME)

	var typeName *token.Token
	var init ast.Expr

	if p.peek().Kind == token.COLON {
		p.advance()
		tn := p.expect(token.NAME)
		typeName = &tn
	}
	if p.peek().Kind == token.EQ {
		p.advance()
		init = p.parseExpr()
	}
	if typeName == nil && init == nil {
		p.failf(name, "declaration of %q requires a type or an initializer", name.Lexeme)
	}

	semi := p.expect(token.SEMI)
	return &ast.DeclStmt{
		Var:      varTok.Pos(),
		Name:     name,
		TypeName: typeName,
		Init:     init,
		Semi:     semi.Pos(),
	}
}

// parseExprStmt parses an expression followed by a semicolon.
func (p *parser) parseExprStmt() *ast.ExprStmt {
	expr := p.parseExpr()
	semi := p.expect(token.SEMI)
	return &ast.ExprStmt{Expr: expr, Semi: semi.Pos()}
}
