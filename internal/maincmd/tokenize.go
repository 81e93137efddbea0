package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/virel/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles scans the source files and prints one token per line,
// with its position, kind and, for literal tokens, its lexeme.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	toksByFile, err := scanner.ScanFiles(ctx, files...)
	for _, toks := range toksByFile {
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tok.Pos(), tok.Kind)
			if tok.Kind.IsLiteral() {
				fmt.Fprintf(stdio.Stdout, " %s", tok.Lexeme)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
