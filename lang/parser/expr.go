package parser

import (
	"github.com/mna/virel/lang/ast"
	"github.com/mna/virel/lang/token"
)

// parseExpr parses an expression with the two-stack operator precedence
// algorithm. The expression ends, without consuming the delimiter, at a
// separator token (',', ';', '.', ':', '?', '{' or 'do') or at a ')'
// that closes no parenthesis opened within the expression (which is how
// call argument lists end).
//
// The canBeUnary flag tracks whether the next operator token appears in
// unary position: it is true at the start and after every operator or
// '(', false after every operand. When it is set, the tokens '+', '-',
// '&' and '*' are rewritten to their unary forms.
func (p *parser) parseExpr() ast.Expr {
	var exprStack []ast.Expr
	var opStack []token.Token
	canBeUnary := true
	nesting := 0 // '(' opened within the expression

loop:
	for {
		cur := p.peek()
		if cur.Kind == token.EOF {
			p.failf(cur, "unexpected end of file while parsing expression")
		}
		if cur.Kind.IsSeparator() {
			// the delimiter is not consumed
			break
		}

		p.advance()

		switch {
		case cur.Kind.IsOperator():
			if canBeUnary && cur.Kind.HasUnaryForm() {
				cur.Kind = cur.Kind.UnaryForm()
			}

			// fold every stacked operator that binds tighter than the
			// incoming one, or as tight when the incoming operator is
			// left-associative
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1].Kind
				if top == token.LPAREN {
					break
				}
				if top.Precedence() < cur.Kind.Precedence() ||
					(top.Precedence() == cur.Kind.Precedence() && cur.Kind.LeftAssoc()) {
					exprStack, opStack = p.combineTop(cur, exprStack, opStack)
					continue
				}
				break
			}
			opStack = append(opStack, cur)

			// after an operator another unary operator may follow, e.g. --x
			canBeUnary = true
			continue

		case cur.Kind == token.LPAREN:
			opStack = append(opStack, cur)
			nesting++
			canBeUnary = true
			continue

		case cur.Kind == token.RPAREN:
			if nesting == 0 {
				// this must be the closing ')' of an enclosing call, leave
				// it for the caller
				p.backup()
				break loop
			}
			for len(opStack) > 0 && opStack[len(opStack)-1].Kind != token.LPAREN {
				exprStack, opStack = p.combineTop(cur, exprStack, opStack)
			}
			if len(opStack) == 0 {
				p.failf(cur, "no matching left parenthesis")
			}
			opStack = opStack[:len(opStack)-1]
			nesting--

		case cur.Kind == token.NAME:
			if p.peek().Kind == token.LPAREN {
				exprStack = append(exprStack, p.parseCall(cur))
			} else {
				exprStack = append(exprStack, &ast.LiteralExpr{Tok: cur})
			}

		case cur.Kind.IsLiteral():
			exprStack = append(exprStack, &ast.LiteralExpr{Tok: cur})

		default:
			p.failf(cur, "unexpected token %#v in expression", cur.Kind)
		}

		// the next operator cannot be unary after an operand
		canBeUnary = false
	}

	for len(opStack) > 0 {
		exprStack, opStack = p.combineTop(p.peek(), exprStack, opStack)
	}

	switch len(exprStack) {
	case 1:
		return exprStack[0]
	case 0:
		p.failf(p.peek(), "empty expression")
	default:
		p.failf(p.peek(), "malformed expression, operand without operator")
	}
	panic("unreachable")
}

// combineTop pops the top operator and folds it with one (unary) or two
// (binary) expressions from the expression stack, pushing the combined
// node back. The at token anchors diagnostics.
func (p *parser) combineTop(at token.Token, exprStack []ast.Expr, opStack []token.Token) ([]ast.Expr, []token.Token) {
	if len(opStack) == 0 {
		p.failf(at, "not enough operators to combine expressions")
	}
	op := opStack[len(opStack)-1]
	opStack = opStack[:len(opStack)-1]

	if !op.Kind.IsOperator() {
		// a leftover '(' with no matching ')'
		p.failf(op, "missing closing parenthesis")
	}

	if op.Kind.IsUnary() {
		if len(exprStack) < 1 {
			p.failf(op, "not enough operands for operator %#v", op.Kind)
		}
		child := exprStack[len(exprStack)-1]
		exprStack = exprStack[:len(exprStack)-1]
		exprStack = append(exprStack, &ast.UnaryExpr{Op: op, Right: child})
	} else {
		if len(exprStack) < 2 {
			p.failf(op, "not enough operands for operator %#v", op.Kind)
		}
		right := exprStack[len(exprStack)-1]
		left := exprStack[len(exprStack)-2]
		exprStack = exprStack[:len(exprStack)-2]
		exprStack = append(exprStack, &ast.BinaryExpr{Left: left, Op: op, Right: right})
	}
	return exprStack, opStack
}

// parseCall parses a function call, the callee name already consumed:
// ( [expr {, expr}] ). A trailing comma is not allowed.
func (p *parser) parseCall(name token.Token) *ast.CallExpr {
	p.expect(token.LPAREN)

	if p.peek().Kind == token.RPAREN {
		rp := p.advance()
		return &ast.CallExpr{Name: name, Rparen: rp.Pos()}
	}

	var args []ast.Expr
	for {
		if p.atEnd() {
			p.failf(p.peek(), "unexpected end of file in call arguments")
		}
		args = append(args, p.parseExpr())

		switch tok := p.peek(); tok.Kind {
		case token.COMMA:
			p.advance()
		case token.RPAREN:
			rp := p.advance()
			return &ast.CallExpr{Name: name, Args: args, Rparen: rp.Pos()}
		default:
			p.failf(tok, "unexpected token %#v in call arguments, expected ',' or ')'", tok.Kind)
		}
	}
}
