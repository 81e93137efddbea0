// Package scanner implements the lexer that turns source text into the
// token sequence consumed by the parser. Lexical diagnostics are
// reported through a go/scanner error list so that multiple errors can
// be collected in a single pass; every later phase aborts on first
// error instead.
package scanner

import (
	"context"
	"fmt"
	"go/scanner"
	gotoken "go/token"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/mna/virel/lang/token"
)

type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

var PrintError = scanner.PrintError

// ScanFiles is a helper function that tokenizes the source files and
// returns the list of tokens grouped by the file at the same index,
// along with any error encountered. The error, if non-nil, is
// guaranteed to be an ErrorList.
func ScanFiles(ctx context.Context, files ...string) ([][]token.Token, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var (
		s  Scanner
		el ErrorList
	)

	tokensByFile := make([][]token.Token, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(gotoken.Position{Filename: file}, err.Error())
			continue
		}

		s.Init(file, b, el.Add)
		for {
			tok := s.Scan()
			tokensByFile[i] = append(tokensByFile[i], tok)
			if tok.Kind == token.EOF {
				break
			}
		}
	}
	el.Sort()
	return tokensByFile, el.Err()
}

// ScanChunk tokenizes a single chunk of source bytes under the provided
// name and returns the token sequence, always terminated by an EOF
// token. The error, if non-nil, is guaranteed to be an ErrorList.
func ScanChunk(ctx context.Context, filename string, src []byte) ([]token.Token, error) {
	var (
		s    Scanner
		el   ErrorList
		toks []token.Token
	)
	s.Init(filename, src, el.Add)
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	el.Sort()
	return toks, el.Err()
}

// Scanner tokenizes source files for the parser to consume.
type Scanner struct {
	// immutable state after Init
	filename string
	src      []byte
	err      func(pos gotoken.Position, msg string)

	// mutable scanning state
	cur  rune // current character, -1 at end of file
	off  int  // offset in bytes of cur
	roff int  // reading offset in bytes (position after cur)
	line int  // 1-based line of cur
	col  int  // 1-based column of cur
}

// Init initializes the scanner to tokenize a new source chunk.
func (s *Scanner) Init(filename string, src []byte, errHandler func(gotoken.Position, string)) {
	s.filename = filename
	s.src = src
	s.err = errHandler

	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0

	s.advance()
}

// read the next character into s.cur; s.cur < 0 means end-of-file.
func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur != -1 {
			s.col++
		}
		s.cur = -1
		return
	}

	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.errorf(s.line, s.col+1, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.col++
	s.cur = r
}

// advance only if the current char matches the specified one.
func (s *Scanner) advanceIf(match rune) bool {
	if s.cur == match {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) errorf(line, col int, format string, args ...any) {
	if s.err != nil {
		s.err(gotoken.Position{
			Filename: s.filename,
			Line:     line,
			Column:   col,
		}, fmt.Sprintf(format, args...))
	}
}

// Scan returns the next token in the source chunk. Once the end of the
// chunk is reached, every call returns an EOF token.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespace()

	line, col := s.line, s.col

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		return token.Token{Kind: token.LookupKw(lit), Lexeme: lit, Line: line, Col: col}

	case isDigit(cur):
		lit := s.number()
		return token.Token{Kind: token.NUMBER, Lexeme: lit, Line: line, Col: col}

	default:
		s.advance() // always make progress

		var kind token.Kind
		switch cur {
		case '+':
			kind = s.selectEq(token.PLUS, token.PLUS_EQ)
		case '-':
			kind = s.selectEq(token.MINUS, token.MINUS_EQ)
		case '*':
			kind = s.selectEq(token.STAR, token.STAR_EQ)
		case '/':
			kind = s.selectEq(token.SLASH, token.SLASH_EQ)
		case '%':
			kind = s.selectEq(token.PERCENT, token.PERCENT_EQ)
		case '|':
			// '|', '||' or '|='
			kind = token.PIPE
			if s.advanceIf('|') {
				kind = token.PIPEPIPE
			} else if s.advanceIf('=') {
				kind = token.PIPE_EQ
			}
		case '&':
			kind = token.AMPERSAND
			if s.advanceIf('&') {
				kind = token.AMPAMP
			} else if s.advanceIf('=') {
				kind = token.AMP_EQ
			}
		case '^':
			kind = token.CIRCUMFLEX
			if s.advanceIf('^') {
				kind = token.CARETCARET
			} else if s.advanceIf('=') {
				kind = token.CIRCUMFLEX_EQ
			}
		case '~':
			kind = token.TILDE
		case '=':
			kind = s.selectEq(token.EQ, token.EQL)
		case '!':
			kind = s.selectEq(token.BANG, token.NEQ)
		case '<':
			kind = s.selectEq(token.LT, token.LE)
		case '>':
			kind = s.selectEq(token.GT, token.GE)
		case ',':
			kind = token.COMMA
		case ';':
			kind = token.SEMI
		case '.':
			kind = token.DOT
		case ':':
			kind = token.COLON
		case '?':
			kind = token.QUESTION
		case '{':
			kind = token.LBRACE
		case '}':
			kind = token.RBRACE
		case '(':
			kind = token.LPAREN
		case ')':
			kind = token.RPAREN
		case '[':
			kind = token.LBRACK
		case ']':
			kind = token.RBRACK

		case '"':
			lit, ok := s.stringLit(line, col)
			k := token.STRING
			if !ok {
				k = token.ILLEGAL
			}
			return token.Token{Kind: k, Lexeme: lit, Line: line, Col: col}

		case '\'':
			lit, ok := s.charLit(line, col)
			k := token.CHARACTER
			if !ok {
				k = token.ILLEGAL
			}
			return token.Token{Kind: k, Lexeme: lit, Line: line, Col: col}

		case -1:
			return token.Token{Kind: token.EOF, Line: line, Col: col}

		default:
			s.errorf(line, col, "illegal character %#U", cur)
			return token.Token{Kind: token.ILLEGAL, Lexeme: string(cur), Line: line, Col: col}
		}
		return token.Token{Kind: kind, Lexeme: kind.String(), Line: line, Col: col}
	}
}

// selectEq returns withEq if the current char is '=' (consuming it),
// otherwise plain.
func (s *Scanner) selectEq(plain, withEq token.Kind) token.Kind {
	if s.advanceIf('=') {
		return withEq
	}
	return plain
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) number() string {
	start := s.off
	for isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// stringLit scans a double-quoted string literal, the opening quote
// already consumed. The returned lexeme is the interpreted content,
// escape sequences resolved.
func (s *Scanner) stringLit(line, col int) (string, bool) {
	var buf []rune
	for {
		switch s.cur {
		case '"':
			s.advance()
			return string(buf), true
		case '\n', -1:
			s.errorf(line, col, "unterminated string literal")
			return string(buf), false
		case '\\':
			s.advance()
			r, ok := s.escape(line, col)
			if !ok {
				return string(buf), false
			}
			buf = append(buf, r)
		default:
			buf = append(buf, s.cur)
			s.advance()
		}
	}
}

// charLit scans a single-quoted character literal, the opening quote
// already consumed.
func (s *Scanner) charLit(line, col int) (string, bool) {
	var r rune
	switch s.cur {
	case '\'', '\n', -1:
		s.errorf(line, col, "empty or unterminated character literal")
		return "", false
	case '\\':
		s.advance()
		var ok bool
		r, ok = s.escape(line, col)
		if !ok {
			return "", false
		}
	default:
		r = s.cur
		s.advance()
	}
	if !s.advanceIf('\'') {
		s.errorf(line, col, "unterminated character literal")
		return string(r), false
	}
	return string(r), true
}

func (s *Scanner) escape(line, col int) (rune, bool) {
	var r rune
	switch s.cur {
	case 'n':
		r = '\n'
	case 't':
		r = '\t'
	case 'r':
		r = '\r'
	case '0':
		r = 0
	case '\\', '\'', '"':
		r = s.cur
	default:
		s.errorf(line, col, "unknown escape sequence '\\%c'", s.cur)
		return 0, false
	}
	s.advance()
	return r, true
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.cur) {
		s.advance()
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9'
}
