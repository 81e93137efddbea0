// Package compiler lowers a parsed AST to the bytecode executed by the
// virtual machine. Type checking and emission run as a single
// post-order pass: each node's type is deduced before any bytecode for
// it is emitted, and both share the same emission Context so that names
// resolve identically in both roles.
package compiler

import (
	"context"
	"strconv"

	"github.com/mna/virel/lang/ast"
	"github.com/mna/virel/lang/token"
	"github.com/mna/virel/lang/types"
)

// Compile compiles a parsed chunk to bytecode using a fresh emission
// context. The returned error, if non-nil, is a *TypeError or an
// *EmitError.
func Compile(ctx context.Context, reg *types.Registry, ch *ast.Chunk) (*Code, error) {
	return CompileBlock(ctx, reg, NewContext(), ch.Block)
}

// CompileBlock compiles a block to bytecode using the provided emission
// context, which records the variables declared by the block.
func CompileBlock(ctx context.Context, reg *types.Registry, ectx *Context, block *ast.Block) (code *Code, err error) {
	c := &compiler{reg: reg, ctx: ectx, code: &Code{}}

	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case *TypeError:
				code, err = nil, e
			case *EmitError:
				code, err = nil, e
			default:
				panic(e)
			}
		}
	}()

	c.stmt(block)
	return c.code, nil
}

// compiler holds the state of one emission run.
type compiler struct {
	reg  *types.Registry
	ctx  *Context
	code *Code
}

func (c *compiler) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		for _, st := range s.Stmts {
			c.stmt(st)
		}
	case *ast.ExprStmt:
		c.expr(s.Expr)
	case *ast.DeclStmt:
		c.declStmt(s)
	case *ast.IfStmt:
		c.ifStmt(s)
	default:
		start, _ := s.Span()
		c.emitErrorf(start, "unsupported statement node %v", s)
	}
}

func (c *compiler) declStmt(s *ast.DeclStmt) {
	declared := int32(-1)
	if s.TypeName != nil {
		t, ok := c.reg.Lookup(s.TypeName.Lexeme)
		if !ok {
			c.typeErrorf(s.TypeName.Pos(), "unknown type %q", s.TypeName.Lexeme)
		}
		declared = t.Index
	}
	if s.Init != nil {
		it := c.deduceExpr(s.Init)
		if declared == -1 {
			declared = it
		} else if declared != it {
			c.typeErrorf(s.Name.Pos(), "type mismatch in declaration of %q: declared %s, initializer is %s",
				s.Name.Lexeme, c.typeName(declared), c.typeName(it))
		}
	}
	s.Type().Resolve(declared)

	var store Opcode
	switch declared {
	case types.Int64:
		store = INT64_LOAD_INTO_ADDRESS
	case types.Bool:
		store = BOOL_LOAD_INTO_ADDRESS
	default:
		c.emitErrorf(s.Name.Pos(), "only int64 and bool variables are supported, %q is %s",
			s.Name.Lexeme, c.typeName(declared))
	}

	// the variable becomes visible only after its initializer has been
	// deduced, so "var x = x;" is rejected above
	v := c.ctx.AddVariable(s.Name.Lexeme, c.reg.ByIndex(declared))

	if s.Init != nil {
		c.expr(s.Init)
	} else if declared == types.Int64 {
		c.code.AppendImm(INT64_LOAD, 0)
	} else {
		c.code.AppendImm(BOOL_LOAD, 0)
	}

	c.code.AppendImm(INT64_LOAD, v.Offset)
	c.code.Append(STACK_PTR_LOAD)
	c.code.Append(store)
}

// ifStmt emits the condition followed by NOT and JUMP_IF, realizing
// "jump when the condition is false". The jump targets go through
// freshly reserved lookup table slots that are patched in place once
// the positions past each body are known.
func (c *compiler) ifStmt(s *ast.IfStmt) {
	if cond := c.deduceExpr(s.Cond); cond != types.Bool {
		start, _ := s.Cond.Span()
		c.typeErrorf(start, "if condition must evaluate to bool, got %s", c.typeName(cond))
	}
	c.expr(s.Cond)

	c.code.Append(NOT)
	slotPastThen := c.code.ReserveSlot()
	c.code.AppendImm(JUMP_IF, slotPastThen)

	c.stmt(s.Then)

	if s.Else != nil {
		slotPastElse := c.code.ReserveSlot()
		c.code.AppendImm(JUMP, slotPastElse)
		c.code.PatchSlot(slotPastThen, c.code.Pos())
		c.stmt(s.Else)
		c.code.PatchSlot(slotPastElse, c.code.Pos())
	} else {
		c.code.PatchSlot(slotPastThen, c.code.Pos())
	}
}

func (c *compiler) expr(e ast.Expr) {
	c.deduceExpr(e)

	switch e := e.(type) {
	case *ast.LiteralExpr:
		c.literal(e)
	case *ast.UnaryExpr:
		c.unary(e)
	case *ast.BinaryExpr:
		c.binary(e)
	case *ast.CallExpr:
		c.call(e)
	}
}

func (c *compiler) literal(e *ast.LiteralExpr) {
	switch e.Tok.Kind {
	case token.NUMBER:
		n, err := strconv.ParseInt(e.Tok.Lexeme, 10, 64)
		if err != nil {
			c.emitErrorf(e.Tok.Pos(), "number literal %q out of range", e.Tok.Lexeme)
		}
		c.code.AppendImm(INT64_LOAD, n)

	case token.CHARACTER:
		rs := []rune(e.Tok.Lexeme)
		if len(rs) != 1 {
			c.emitErrorf(e.Tok.Pos(), "invalid character literal %q", e.Tok.Lexeme)
		}
		c.code.AppendImm(INT64_LOAD, int64(rs[0]))

	case token.BOOLEAN:
		var imm int64
		if e.Tok.Lexeme == "true" {
			imm = 1
		}
		c.code.AppendImm(BOOL_LOAD, imm)

	case token.NAME:
		v, _ := c.ctx.FindVariable(e.Tok.Lexeme)
		var load Opcode
		switch v.Type {
		case types.Int64:
			load = INT64_LOAD_FROM_ADDRESS
		case types.Bool:
			load = BOOL_LOAD_FROM_ADDRESS
		default:
			c.emitErrorf(e.Tok.Pos(), "only int64 and bool variables are supported, %q is %s",
				e.Tok.Lexeme, c.typeName(v.Type))
		}
		c.code.AppendImm(INT64_LOAD, v.Offset)
		c.code.Append(STACK_PTR_LOAD)
		c.code.Append(load)

	default:
		c.emitErrorf(e.Tok.Pos(), "unsupported literal %q (%s)", e.Tok.Lexeme, e.Tok.Kind)
	}
}

func (c *compiler) unary(e *ast.UnaryExpr) {
	c.expr(e.Right)

	switch e.Op.Kind {
	case token.UNARY_PLUS:
		// no-op
	case token.UNARY_MINUS:
		c.code.Append(NEGATE)
	case token.TILDE, token.BANG:
		c.code.Append(NOT)
	default:
		c.emitErrorf(e.Op.Pos(), "unary operator %#v has no lowering", e.Op.Kind)
	}
}

var binaryOpcodes = map[token.Kind]Opcode{
	token.PLUS:       ADD,
	token.MINUS:      SUBTRACT,
	token.STAR:       MULTIPLY,
	token.SLASH:      DIVIDE,
	token.PERCENT:    MODULO,
	token.PIPE:       OR,
	token.PIPEPIPE:   OR,
	token.AMPERSAND:  AND,
	token.AMPAMP:     AND,
	token.CIRCUMFLEX: XOR,
	token.CARETCARET: XOR,
	token.EQL:        EQUAL,
	token.NEQ:        NOT_EQUAL,
	token.LT:         SMALLER,
	token.LE:         SMALLER_EQUAL,
	token.GT:         BIGGER,
	token.GE:         BIGGER_EQUAL,
}

func (c *compiler) binary(e *ast.BinaryExpr) {
	c.expr(e.Left)
	c.expr(e.Right)

	op, ok := binaryOpcodes[e.Op.Kind]
	if !ok {
		c.emitErrorf(e.Op.Pos(), "binary operator %#v has no lowering", e.Op.Kind)
	}
	c.code.Append(op)
}

func (c *compiler) call(e *ast.CallExpr) {
	switch e.Name.Lexeme {
	case "print":
		for _, arg := range e.Args {
			c.expr(arg)
			c.code.Append(PRINT)
		}
	case "int64":
		c.expr(e.Args[0])
		c.code.Append(BOOL_TO_INT64)
	case "bool":
		c.expr(e.Args[0])
		c.code.Append(INT64_TO_BOOL)
	default:
		// deduceCall rejects unknown names before emission
		c.emitErrorf(e.Name.Pos(), "function call %q has no lowering", e.Name.Lexeme)
	}
}
