package parser_test

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/virel/internal/filetest"
	"github.com/mna/virel/internal/maincmd"
	"github.com/mna/virel/lang/ast"
	"github.com/mna/virel/lang/parser"
)

var testUpdateParserTests = flag.Bool("test.update-parser-tests", false, "If set, replace expected parser test results with actual results.")

func TestParser(t *testing.T) {
	ctx := context.Background()
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".vr") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{
				Stdout: &buf,
				Stderr: &ebuf,
			}

			// error is ignored, we just want it to be printed to ebuf
			_ = maincmd.ParseFiles(ctx, stdio, false, filepath.Join(srcDir, fi.Name()))
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateParserTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateParserTests)
		})
	}
}

// parseExpr parses src as the expression of a single expression
// statement and returns it.
func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	ch, err := parser.ParseChunk(context.Background(), "test.vr", []byte("{ "+src+"; }"))
	require.NoError(t, err)
	require.Len(t, ch.Block.Stmts, 1)
	es, ok := ch.Block.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "statement is %T, not *ast.ExprStmt", ch.Block.Stmts[0])
	return es.Expr
}

func sourceOf(t *testing.T, n ast.Node) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, ast.WriteSource(&sb, n))
	return sb.String()
}

func TestExprPrecedence(t *testing.T) {
	cases := []struct {
		in   string
		want string // canonical, fully parenthesized source
	}{
		{"42", "42"},
		{"2 + 3 * 4", "(2 + (3 * 4))"},
		{"2 * 3 + 4", "((2 * 3) + 4)"},
		{"10 - 4 - 3", "((10 - 4) - 3)"},
		{"(2 + 3) * 4", "((2 + 3) * 4)"},
		{"120 / 40 / 2 + 59", "(((120 / 40) / 2) + 59)"},
		{"1 + 2 % 3", "(1 + (2 % 3))"},
		{"a < b == c < d", "((a < b) == (c < d))"},
		{"a & b ^ c | d", "(((a & b) ^ c) | d)"},
		{"a && b || c", "((a && b) || c)"},
		{"a ^^ b || c", "((a ^^ b) || c)"},
		{"a == b && c == d", "((a == b) && (c == d))"},

		// unary operators bind tighter than any binary operator
		{"-x * y", "(-(x) * y)"},
		{"a - -b", "(a - -(b))"},
		{"--x", "-(-(x))"},
		{"+x + y", "(+(x) + y)"},
		{"!b && c", "(!(b) && c)"},
		{"~n | m", "(~(n) | m)"},
		{"*p + 1", "(*(p) + 1)"},
		{"&x", "&(x)"},

		// assignment family parses right-associative
		{"a = b = c", "(a = (b = c))"},
		{"a += b - 1", "(a += (b - 1))"},

		// calls
		{"print()", "print()"},
		{"print(1, 2)", "print(1, 2)"},
		{"f(g(1), 2 + 3)", "f(g(1), (2 + 3))"},
		{"int64(b) + 1", "(int64(b) + 1)"},

		// parentheses produce no node of their own
		{"(((7)))", "7"},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			e := parseExpr(t, c.in)
			assert.Equal(t, c.want, sourceOf(t, e))
		})
	}
}

// TestSourceRoundTrip verifies that parsing the canonical source of a
// parsed chunk produces the same canonical source again.
func TestSourceRoundTrip(t *testing.T) {
	ctx := context.Background()

	cases := []string{
		"{ print(2 + 3 * 4); }",
		"{ var x: int64 = 7; var y: int64 = 5; print(x * y + 1); }",
		"{ var b: bool = true; if b { print(1); } else { print(0); } }",
		"{ if a { } else if b { } else do print(1); }",
		"{ do do print(--1); }",
		"{ var n = 'c'; print(~n, !true, -(n + 1)); }",
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			ch1, err := parser.ParseChunk(ctx, "a.vr", []byte(src))
			require.NoError(t, err)
			canon1 := sourceOf(t, ch1)

			ch2, err := parser.ParseChunk(ctx, "b.vr", []byte(canon1))
			require.NoError(t, err)
			canon2 := sourceOf(t, ch2)

			assert.Equal(t, canon1, canon2)
		})
	}
}

func TestDeclStmt(t *testing.T) {
	ctx := context.Background()

	t.Run("type only", func(t *testing.T) {
		ch, err := parser.ParseChunk(ctx, "t.vr", []byte("{ var x: int64; }"))
		require.NoError(t, err)
		decl := ch.Block.Stmts[0].(*ast.DeclStmt)
		assert.Equal(t, "x", decl.Name.Lexeme)
		require.NotNil(t, decl.TypeName)
		assert.Equal(t, "int64", decl.TypeName.Lexeme)
		assert.Nil(t, decl.Init)
	})

	t.Run("initializer only", func(t *testing.T) {
		ch, err := parser.ParseChunk(ctx, "t.vr", []byte("{ var x = 1 + 2; }"))
		require.NoError(t, err)
		decl := ch.Block.Stmts[0].(*ast.DeclStmt)
		assert.Nil(t, decl.TypeName)
		require.NotNil(t, decl.Init)
		assert.Equal(t, "(1 + 2)", sourceOf(t, decl.Init))
	})

	t.Run("type and initializer", func(t *testing.T) {
		ch, err := parser.ParseChunk(ctx, "t.vr", []byte("{ var x: bool = true; }"))
		require.NoError(t, err)
		decl := ch.Block.Stmts[0].(*ast.DeclStmt)
		require.NotNil(t, decl.TypeName)
		assert.Equal(t, "bool", decl.TypeName.Lexeme)
		require.NotNil(t, decl.Init)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := parser.ParseChunk(ctx, "t.vr", []byte("{ var x; }"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "requires a type or an initializer")
	})
}

func TestIfStmt(t *testing.T) {
	ctx := context.Background()

	ch, err := parser.ParseChunk(ctx, "t.vr",
		[]byte("{ if a { print(1); } else if b { print(2); } else do print(3); }"))
	require.NoError(t, err)

	ifs, ok := ch.Block.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, ifs.Then.Stmts, 1)

	elif, ok := ifs.Else.(*ast.IfStmt)
	require.True(t, ok, "else branch is %T, not an elif chain", ifs.Else)

	els, ok := elif.Else.(*ast.Block)
	require.True(t, ok)
	require.Len(t, els.Stmts, 1, "'do' makes a singleton block")
}

func TestParseErrors(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		in      string
		errLike string
	}{
		{"{ print(1 ; }", "expected ',' or ')'"},
		{"{ print(1)", "expected ';'"},
		{"{ print(1);", "unexpected end of file, expected '}'"},
		{"{ (1; }", "missing closing parenthesis"},
		{"{ 1 2; }", "operand without operator"},
		{"{ ; }", "empty expression"},
		{"{ + ; }", "not enough operands"},
		{"{ 1 + ; }", "not enough operands"},
		{"{ 1 +", "unexpected end of file while parsing expression"},
		{"{ 1); }", "expected ';'"},
		{"{ if 1 print(1); }", "operand without operator"},
		{"{ var 1 = 2; }", "expected name"},
		{"{ while true { } }", "not supported"},
		{"{ return 1; }", "not supported"},
		{"print(1);", "expected '{'"},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			_, err := parser.ParseChunk(ctx, "t.vr", []byte(c.in))
			require.Error(t, err)
			var perr *parser.Error
			require.ErrorAs(t, err, &perr)
			assert.ErrorContains(t, err, c.errLike)
			assert.ErrorContains(t, err, "there was an error while parsing")
		})
	}
}

func TestErrorPosition(t *testing.T) {
	ctx := context.Background()

	_, err := parser.ParseChunk(ctx, "t.vr", []byte("{\n\tprint(1)\n}"))
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	// the '}' on line 3 is found where ';' is expected
	assert.Equal(t, 3, perr.Tok.Line)
	assert.Equal(t, fmt.Sprintf("%v", perr),
		"there was an error while parsing: expected ';', found '}' at 3:1")
}
