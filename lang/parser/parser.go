// Package parser implements the parser that transforms the token
// sequence produced by the scanner into an abstract syntax tree (AST).
//
// Statements are parsed by recursive descent; expressions use an
// operator precedence algorithm over two stacks (one of expressions,
// one of operator tokens), which is how the same lexical operator can
// serve both unary and binary roles. Parsing aborts on the first error.
package parser

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/virel/lang/ast"
	"github.com/mna/virel/lang/scanner"
	"github.com/mna/virel/lang/token"
)

// Error is a parse diagnostic. It carries the offending token so that
// callers can report its position.
type Error struct {
	Tok token.Token
	Msg string
}

func (e *Error) Error() string {
	pos := e.Tok.Pos()
	if pos.Unknown() {
		return fmt.Sprintf("there was an error while parsing: %s", e.Msg)
	}
	return fmt.Sprintf("there was an error while parsing: %s at %s", e.Msg, pos)
}

// ParseFiles is a helper function that scans and parses the source
// files and returns the ASTs along with the first error encountered, if
// any. Scanning errors are reported before parsing is attempted.
func ParseFiles(ctx context.Context, files ...string) ([]*ast.Chunk, error) {
	if len(files) == 0 {
		return nil, nil
	}

	res := make([]*ast.Chunk, 0, len(files))
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return res, err
		}
		ch, err := ParseChunk(ctx, file, b)
		if err != nil {
			return res, err
		}
		res = append(res, ch)
	}
	return res, nil
}

// ParseChunk scans and parses a single chunk of source bytes under the
// provided name and returns the AST.
func ParseChunk(ctx context.Context, filename string, src []byte) (*ast.Chunk, error) {
	toks, err := scanner.ScanChunk(ctx, filename, src)
	if err != nil {
		return nil, err
	}
	ch, err := ParseTokens(toks)
	if ch != nil {
		ch.Name = filename
	}
	return ch, err
}

// ParseTokens parses a finite token sequence, terminated by an EOF
// token, into a chunk whose block is the top-level statement block.
func ParseTokens(toks []token.Token) (ch *ast.Chunk, err error) {
	if n := len(toks); n == 0 || toks[n-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}

	p := &parser{toks: toks}
	defer func() {
		if e := recover(); e != nil {
			perr, ok := e.(*Error)
			if !ok {
				panic(e)
			}
			ch, err = nil, perr
		}
	}()

	block := p.parseBlock()
	eof := p.expect(token.EOF)
	return &ast.Chunk{Block: block, EOF: eof.Pos()}, nil
}

// parser parses a token sequence and generates an AST.
type parser struct {
	toks []token.Token
	ptr  int
}

// peek returns the current token without consuming it.
func (p *parser) peek() token.Token {
	return p.toks[p.ptr]
}

// advance consumes and returns the current token. The EOF sentinel is
// never consumed so that peeking past the end stays valid.
func (p *parser) advance() token.Token {
	tok := p.toks[p.ptr]
	if tok.Kind != token.EOF {
		p.ptr++
	}
	return tok
}

// backup un-consumes the most recently consumed token.
func (p *parser) backup() {
	p.ptr--
}

func (p *parser) atEnd() bool {
	return p.toks[p.ptr].Kind == token.EOF
}

// expect consumes and returns the current token if it is of the
// expected kind, and fails the parse otherwise.
func (p *parser) expect(k token.Kind) token.Token {
	if tok := p.peek(); tok.Kind != k {
		p.failf(tok, "expected %#v, found %#v", k, tok.Kind)
	}
	return p.advance()
}

// failf aborts the parse with a diagnostic anchored at tok.
func (p *parser) failf(tok token.Token, format string, args ...any) {
	panic(&Error{Tok: tok, Msg: fmt.Sprintf(format, args...)})
}
