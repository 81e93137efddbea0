package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/virel/lang/compiler"
	"github.com/mna/virel/lang/parser"
	"github.com/mna/virel/lang/types"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(ctx, stdio, c.Output, args...)
}

// CompileFiles compiles the source files and prints the bytecode
// disassembly of each. When output is not empty, the serialized
// bytecode of the single input file is also written to that path.
func CompileFiles(ctx context.Context, stdio mainer.Stdio, output string, files ...string) error {
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

		if err := code.Disassemble(stdio.Stdout); err != nil {
			printError(stdio, err)
			return err
		}

		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				printError(stdio, err)
				return err
			}
			err = compiler.Encode(f, code)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				printError(stdio, err)
				return err
			}
		}
	}
	return nil
}
