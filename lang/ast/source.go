package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/virel/lang/token"
)

// WriteSource writes the node back as canonical source code. Binary and
// unary expressions are fully parenthesized so that parsing the output
// again produces a structurally equal tree.
func WriteSource(w io.Writer, n Node) error {
	sw := &sourceWriter{w: w}
	sw.node(n, 0)
	return sw.err
}

type sourceWriter struct {
	w   io.Writer
	err error
}

func (s *sourceWriter) printf(format string, args ...interface{}) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *sourceWriter) node(n Node, indent int) {
	switch n := n.(type) {
	case *Chunk:
		s.node(n.Block, indent)
		s.printf("\n")

	case *Block:
		s.printf("{\n")
		for _, st := range n.Stmts {
			s.printf("%s", strings.Repeat("\t", indent+1))
			s.node(st, indent+1)
			s.printf("\n")
		}
		s.printf("%s}", strings.Repeat("\t", indent))

	case *ExprStmt:
		s.node(n.Expr, indent)
		s.printf(";")

	case *DeclStmt:
		s.printf("var %s", n.Name.Lexeme)
		if n.TypeName != nil {
			s.printf(": %s", n.TypeName.Lexeme)
		}
		if n.Init != nil {
			s.printf(" = ")
			s.node(n.Init, indent)
		}
		s.printf(";")

	case *IfStmt:
		s.printf("if ")
		s.node(n.Cond, indent)
		s.printf(" ")
		s.node(n.Then, indent)
		if n.Else != nil {
			s.printf(" else ")
			s.node(n.Else, indent)
		}

	case *LiteralExpr:
		switch n.Tok.Kind {
		case token.CHARACTER:
			s.printf("'%s'", escapeLexeme(n.Tok.Lexeme, '\''))
		case token.STRING:
			s.printf("\"%s\"", escapeLexeme(n.Tok.Lexeme, '"'))
		default:
			s.printf("%s", n.Tok.Lexeme)
		}

	case *UnaryExpr:
		s.printf("%s(", opSource(n.Op.Kind))
		s.node(n.Right, indent)
		s.printf(")")

	case *BinaryExpr:
		s.printf("(")
		s.node(n.Left, indent)
		s.printf(" %s ", opSource(n.Op.Kind))
		s.node(n.Right, indent)
		s.printf(")")

	case *CallExpr:
		s.printf("%s(", n.Name.Lexeme)
		for i, a := range n.Args {
			if i > 0 {
				s.printf(", ")
			}
			s.node(a, indent)
		}
		s.printf(")")

	default:
		s.err = fmt.Errorf("unsupported node type %T", n)
	}
}

// opSource maps an operator kind back to its source spelling, undoing
// the parser's unary rewriting.
func opSource(k token.Kind) string {
	switch k {
	case token.UNARY_PLUS:
		return "+"
	case token.UNARY_MINUS:
		return "-"
	case token.UNARY_REF:
		return "&"
	case token.UNARY_DEREF:
		return "*"
	}
	return k.String()
}

func escapeLexeme(lex string, quote byte) string {
	var sb strings.Builder
	for _, r := range lex {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		case '\\':
			sb.WriteString(`\\`)
		case rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
