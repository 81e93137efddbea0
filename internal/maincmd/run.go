package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/mna/virel/lang/compiler"
	"github.com/mna/virel/lang/machine"
	"github.com/mna/virel/lang/parser"
	"github.com/mna/virel/lang/types"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(ctx, stdio, args...)
}

// RunFiles compiles and executes the source files in order, each on a
// fresh machine. Output produced by print calls goes to stdout, in
// execution order; the first diagnostic of any phase aborts and goes to
// stderr.
func RunFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	cfg, err := machine.ConfigFromEnv()
	if err != nil {
		printError(stdio, err)
		return err
	}

	for _, file := range files {
		chunks, err := parser.ParseFiles(ctx, file)
		if err != nil {
			printError(stdio, err)
			return err
		}

		reg := types.NewRegistry()
		code, err := compiler.Compile(ctx, reg, chunks[0])
		if err != nil {
			printError(stdio, err)
			return err
		}

		m := machine.New(code, cfg)
		if err := m.Run(ctx, stdio.Stdout); err != nil {
			printError(stdio, err)
			return err
		}
	}
	return nil
}
