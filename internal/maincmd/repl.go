package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/mna/mainer"
	"github.com/mna/virel/lang/compiler"
	"github.com/mna/virel/lang/machine"
	"github.com/mna/virel/lang/parser"
	"github.com/mna/virel/lang/scanner"
	"github.com/mna/virel/lang/token"
	"github.com/mna/virel/lang/types"
)

func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return Repl(ctx, stdio)
}

// Repl starts an interactive session. Each line is scanned, wrapped in
// a top-level block, compiled and executed as a self-contained program
// on a fresh machine; diagnostics are printed and the session
// continues. The session ends on "exit", interrupt or end of input.
func Repl(ctx context.Context, stdio mainer.Stdio) error {
	cfg, err := machine.ConfigFromEnv()
	if err != nil {
		printError(stdio, err)
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: ">>> ",
		Stdin:  io.NopCloser(stdio.Stdin),
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
	})
	if err != nil {
		printError(stdio, err)
		return err
	}
	defer rl.Close()

	fmt.Fprintf(stdio.Stdout, "%s repl, 'exit' to quit\n", binName)
	for {
		if cerr := ctx.Err(); cerr != nil {
			return nil
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// io.EOF on close of input
			return nil
		}
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if err := replLine(ctx, stdio, cfg, line); err != nil {
			printError(stdio, err)
		}
	}
}

// replLine executes a single line of input as a top-level block.
func replLine(ctx context.Context, stdio mainer.Stdio, cfg machine.Config, line string) error {
	toks, err := scanner.ScanChunk(ctx, "repl", []byte(line))
	if err != nil {
		return err
	}

	// wrap the line's tokens in a top-level block
	wrapped := make([]token.Token, 0, len(toks)+2)
	wrapped = append(wrapped, token.Token{Kind: token.LBRACE, Lexeme: "{"})
	wrapped = append(wrapped, toks[:len(toks)-1]...)
	wrapped = append(wrapped, token.Token{Kind: token.RBRACE, Lexeme: "}"})
	wrapped = append(wrapped, toks[len(toks)-1])

	ch, err := parser.ParseTokens(wrapped)
	if err != nil {
		return err
	}

	code, err := compiler.Compile(ctx, types.NewRegistry(), ch)
	if err != nil {
		return err
	}
	return machine.New(code, cfg).Run(ctx, stdio.Stdout)
}
