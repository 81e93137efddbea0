package scanner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/virel/lang/scanner"
	"github.com/mna/virel/lang/token"
)

type tok struct {
	kind   token.Kind
	lexeme string
}

func kinds(toks []token.Token) []tok {
	res := make([]tok, 0, len(toks))
	for _, t := range toks {
		res = append(res, tok{t.Kind, t.Lexeme})
	}
	return res
}

func TestScanChunk(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		in   string
		want []tok
	}{
		{"", []tok{{token.EOF, ""}}},
		{"   \n\t ", []tok{{token.EOF, ""}}},
		{"42", []tok{{token.NUMBER, "42"}, {token.EOF, ""}}},
		{"x", []tok{{token.NAME, "x"}, {token.EOF, ""}}},
		{"true false", []tok{{token.BOOLEAN, "true"}, {token.BOOLEAN, "false"}, {token.EOF, ""}}},
		{"var x: int64 = 7;", []tok{
			{token.VAR, "var"}, {token.NAME, "x"}, {token.COLON, ":"},
			{token.NAME, "int64"}, {token.EQ, "="}, {token.NUMBER, "7"},
			{token.SEMI, ";"}, {token.EOF, ""},
		}},
		{"if b { print(1); } else do print(0);", []tok{
			{token.IF, "if"}, {token.NAME, "b"}, {token.LBRACE, "{"},
			{token.NAME, "print"}, {token.LPAREN, "("}, {token.NUMBER, "1"},
			{token.RPAREN, ")"}, {token.SEMI, ";"}, {token.RBRACE, "}"},
			{token.ELSE, "else"}, {token.DO, "do"},
			{token.NAME, "print"}, {token.LPAREN, "("}, {token.NUMBER, "0"},
			{token.RPAREN, ")"}, {token.SEMI, ";"}, {token.EOF, ""},
		}},
		{"+ += - -= * *= / /= % %=", []tok{
			{token.PLUS, "+"}, {token.PLUS_EQ, "+="},
			{token.MINUS, "-"}, {token.MINUS_EQ, "-="},
			{token.STAR, "*"}, {token.STAR_EQ, "*="},
			{token.SLASH, "/"}, {token.SLASH_EQ, "/="},
			{token.PERCENT, "%"}, {token.PERCENT_EQ, "%="},
			{token.EOF, ""},
		}},
		{"| || |= & && &= ^ ^^ ^= ~", []tok{
			{token.PIPE, "|"}, {token.PIPEPIPE, "||"}, {token.PIPE_EQ, "|="},
			{token.AMPERSAND, "&"}, {token.AMPAMP, "&&"}, {token.AMP_EQ, "&="},
			{token.CIRCUMFLEX, "^"}, {token.CARETCARET, "^^"}, {token.CIRCUMFLEX_EQ, "^="},
			{token.TILDE, "~"},
			{token.EOF, ""},
		}},
		{"= == ! != < <= > >=", []tok{
			{token.EQ, "="}, {token.EQL, "=="},
			{token.BANG, "!"}, {token.NEQ, "!="},
			{token.LT, "<"}, {token.LE, "<="},
			{token.GT, ">"}, {token.GE, ">="},
			{token.EOF, ""},
		}},
		{", ; . : ? { } ( ) [ ]", []tok{
			{token.COMMA, ","}, {token.SEMI, ";"}, {token.DOT, "."},
			{token.COLON, ":"}, {token.QUESTION, "?"},
			{token.LBRACE, "{"}, {token.RBRACE, "}"},
			{token.LPAREN, "("}, {token.RPAREN, ")"},
			{token.LBRACK, "["}, {token.RBRACK, "]"},
			{token.EOF, ""},
		}},
		// consecutive minus signs are two tokens, not a '-='
		{"1--2", []tok{
			{token.NUMBER, "1"}, {token.MINUS, "-"}, {token.MINUS, "-"},
			{token.NUMBER, "2"}, {token.EOF, ""},
		}},
		{`"hi there"`, []tok{{token.STRING, "hi there"}, {token.EOF, ""}}},
		{`"a\nb"`, []tok{{token.STRING, "a\nb"}, {token.EOF, ""}}},
		{"'a'", []tok{{token.CHARACTER, "a"}, {token.EOF, ""}}},
		{`'\n'`, []tok{{token.CHARACTER, "\n"}, {token.EOF, ""}}},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			toks, err := scanner.ScanChunk(ctx, "test.vr", []byte(c.in))
			require.NoError(t, err)
			assert.Equal(t, c.want, kinds(toks))
		})
	}
}

func TestScanPositions(t *testing.T) {
	ctx := context.Background()

	toks, err := scanner.ScanChunk(ctx, "test.vr", []byte("var x;\n  print(x);"))
	require.NoError(t, err)

	type pos struct{ line, col int }
	want := []pos{
		{1, 1}, // var
		{1, 5}, // x
		{1, 6}, // ;
		{2, 3}, // print
		{2, 8}, // (
		{2, 9}, // x
		{2, 10}, // )
		{2, 11}, // ;
		{2, 12}, // EOF
	}
	require.Len(t, toks, len(want))
	for i, tok := range toks {
		assert.Equal(t, want[i], pos{tok.Line, tok.Col}, "token %d (%s)", i, tok)
	}
}

func TestScanErrors(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		in      string
		errLike string
	}{
		{`"abc`, "unterminated string literal"},
		{"\"abc\nd\"", "unterminated string literal"},
		{"'ab'", "unterminated character literal"},
		{"''", "empty or unterminated character literal"},
		{`"a\q"`, "unknown escape sequence"},
		{"@", "illegal character"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			_, err := scanner.ScanChunk(ctx, "test.vr", []byte(c.in))
			require.Error(t, err)
			var el scanner.ErrorList
			require.ErrorAs(t, err, &el)
			assert.ErrorContains(t, err, c.errLike)
		})
	}
}
