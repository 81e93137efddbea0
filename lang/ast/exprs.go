package ast

import (
	"fmt"

	"github.com/mna/virel/lang/token"
)

type (
	// LiteralExpr represents a literal: a number, boolean or character
	// constant, or a variable name. The token's kind distinguishes them.
	LiteralExpr struct {
		Tok token.Token
		typ TypeInfo
	}

	// UnaryExpr represents a unary operation, e.g. -x or !b. Op is the
	// operator token, already rewritten to its unary kind by the parser
	// where applicable.
	UnaryExpr struct {
		Op    token.Token
		Right Expr
		typ   TypeInfo
	}

	// BinaryExpr represents a binary operation, e.g. x + y.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		Right Expr
		typ   TypeInfo
	}

	// CallExpr represents a function call, e.g. print(x). Only the
	// intrinsic functions exist in this version of the language.
	CallExpr struct {
		Name   token.Token // NAME token of the callee
		Args   []Expr
		Rparen token.Pos
		typ    TypeInfo
	}
)

func (n *LiteralExpr) expr()           {}
func (n *LiteralExpr) Type() *TypeInfo { return &n.typ }
func (n *LiteralExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, quoteLexeme(n.Tok.Lexeme), nil)
}
func (n *LiteralExpr) Span() (start, end token.Pos) {
	return n.Tok.Pos(), n.Tok.Pos()
}
func (n *LiteralExpr) Walk(_ Visitor) {}

func (n *UnaryExpr) expr()           {}
func (n *UnaryExpr) Type() *TypeInfo { return &n.typ }
func (n *UnaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.Op.Kind.String(), nil)
}
func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.Op.Pos(), end
}
func (n *UnaryExpr) Walk(v Visitor) {
	Walk(v, n.Right)
}

func (n *BinaryExpr) expr()           {}
func (n *BinaryExpr) Type() *TypeInfo { return &n.typ }
func (n *BinaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.Op.Kind.String(), nil)
}
func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *CallExpr) expr()           {}
func (n *CallExpr) Type() *TypeInfo { return &n.typ }
func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call "+n.Name.Lexeme, map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	return n.Name.Pos(), n.Rparen
}
func (n *CallExpr) Walk(v Visitor) {
	for _, a := range n.Args {
		Walk(v, a)
	}
}
