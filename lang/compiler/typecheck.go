package compiler

import (
	"github.com/mna/virel/lang/ast"
	"github.com/mna/virel/lang/token"
	"github.com/mna/virel/lang/types"
)

// deduceExpr resolves and returns the type index of the expression,
// rejecting ill-typed operands. Deduction is idempotent: an already
// resolved expression returns immediately, so a node is never checked
// twice even though emission deduces each node before lowering it.
func (c *compiler) deduceExpr(e ast.Expr) int32 {
	if ti := e.Type(); ti.Resolved() {
		return ti.TypeIndex()
	}

	var index int32
	switch e := e.(type) {
	case *ast.LiteralExpr:
		index = c.deduceLiteral(e)
	case *ast.UnaryExpr:
		index = c.deduceUnary(e)
	case *ast.BinaryExpr:
		index = c.deduceBinary(e)
	case *ast.CallExpr:
		index = c.deduceCall(e)
	default:
		start, _ := e.Span()
		c.typeErrorf(start, "unsupported expression node %v", e)
	}

	e.Type().Resolve(index)
	return index
}

func (c *compiler) deduceLiteral(e *ast.LiteralExpr) int32 {
	switch e.Tok.Kind {
	case token.NUMBER, token.CHARACTER:
		return types.Int64
	case token.BOOLEAN:
		return types.Bool
	case token.NAME:
		v, ok := c.ctx.FindVariable(e.Tok.Lexeme)
		if !ok {
			c.typeErrorf(e.Tok.Pos(), "variable %q is not declared", e.Tok.Lexeme)
		}
		return v.Type
	default:
		c.typeErrorf(e.Tok.Pos(), "unsupported literal %q (%s)", e.Tok.Lexeme, e.Tok.Kind)
		panic("unreachable")
	}
}

func (c *compiler) deduceUnary(e *ast.UnaryExpr) int32 {
	child := c.deduceExpr(e.Right)

	switch e.Op.Kind {
	case token.UNARY_PLUS, token.UNARY_MINUS, token.TILDE:
		if child != types.Int64 {
			c.typeErrorf(e.Op.Pos(), "operator %#v requires an int64 operand, got %s",
				e.Op.Kind, c.typeName(child))
		}
	case token.BANG:
		if child != types.Bool {
			c.typeErrorf(e.Op.Pos(), "operator %#v requires a bool operand, got %s",
				e.Op.Kind, c.typeName(child))
		}
	case token.UNARY_REF, token.UNARY_DEREF:
		// accepted here, rejected at emission: no lowering yet
	default:
		c.typeErrorf(e.Op.Pos(), "unsupported unary operator %#v", e.Op.Kind)
	}
	return child
}

func (c *compiler) deduceBinary(e *ast.BinaryExpr) int32 {
	left := c.deduceExpr(e.Left)
	right := c.deduceExpr(e.Right)

	// no implicit conversion: operand types must match exactly
	if left != right {
		c.typeErrorf(e.Op.Pos(), "types %s and %s are incompatible for operator %#v",
			c.typeName(left), c.typeName(right), e.Op.Kind)
	}

	switch e.Op.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		if left != types.Int64 {
			c.operandErrorf(e.Op, left)
		}
		return left

	case token.PIPE, token.PIPEPIPE, token.AMPERSAND, token.AMPAMP,
		token.CIRCUMFLEX, token.CARETCARET:
		if left != types.Int64 && left != types.Bool {
			c.operandErrorf(e.Op, left)
		}
		return left

	case token.EQL, token.NEQ:
		if left != types.Int64 && left != types.Bool {
			c.operandErrorf(e.Op, left)
		}
		return types.Bool

	case token.LT, token.LE, token.GT, token.GE:
		if left != types.Int64 {
			c.operandErrorf(e.Op, left)
		}
		return types.Bool

	case token.EQ, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PERCENT_EQ, token.PIPE_EQ, token.AMP_EQ, token.CIRCUMFLEX_EQ:
		c.typeErrorf(e.Op.Pos(), "assignment operator %#v is not supported", e.Op.Kind)
	}

	c.typeErrorf(e.Op.Pos(), "unsupported binary operator %#v", e.Op.Kind)
	panic("unreachable")
}

func (c *compiler) operandErrorf(op token.Token, operand int32) {
	c.typeErrorf(op.Pos(), "operator %#v cannot be applied to %s operands",
		op.Kind, c.typeName(operand))
}

func (c *compiler) deduceCall(e *ast.CallExpr) int32 {
	switch e.Name.Lexeme {
	case "print":
		for _, arg := range e.Args {
			if c.deduceExpr(arg) == types.Void {
				start, _ := arg.Span()
				c.typeErrorf(start, "cannot print a void value")
			}
		}
		return types.Void

	case "int64":
		c.deduceCast(e, types.Bool)
		return types.Int64

	case "bool":
		c.deduceCast(e, types.Int64)
		return types.Bool

	default:
		c.typeErrorf(e.Name.Pos(), "unknown function %q, only intrinsic functions exist", e.Name.Lexeme)
		panic("unreachable")
	}
}

func (c *compiler) deduceCast(e *ast.CallExpr, want int32) {
	if len(e.Args) != 1 {
		c.typeErrorf(e.Name.Pos(), "%s cast takes exactly one argument, got %d",
			e.Name.Lexeme, len(e.Args))
	}
	if got := c.deduceExpr(e.Args[0]); got != want {
		c.typeErrorf(e.Name.Pos(), "%s cast requires a %s operand, got %s",
			e.Name.Lexeme, c.typeName(want), c.typeName(got))
	}
}

func (c *compiler) typeName(index int32) string {
	return c.reg.ByIndex(index).Name
}
