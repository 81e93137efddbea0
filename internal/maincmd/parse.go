package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/mna/virel/lang/ast"
	"github.com/mna/virel/lang/parser"
	"github.com/mna/virel/lang/scanner"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, c.Positions, args...)
}

// ParseFiles parses the source files and pretty-prints the resulting
// ASTs, one node per line. Diagnostics go to stderr.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, positions bool, files ...string) error {
	chunks, err := parser.ParseFiles(ctx, files...)

	pr := &ast.Printer{Output: stdio.Stdout, Positions: positions}
	for _, ch := range chunks {
		if perr := pr.Print(ch); perr != nil && err == nil {
			err = perr
		}
	}
	if err != nil {
		printError(stdio, err)
	}
	return err
}

// printError prints err to stderr, expanding scanner error lists into
// one diagnostic per line.
func printError(stdio mainer.Stdio, err error) {
	if el, ok := err.(scanner.ErrorList); ok {
		scanner.PrintError(stdio.Stderr, el)
		return
	}
	stdio.Stderr.Write([]byte(err.Error() + "\n"))
}
