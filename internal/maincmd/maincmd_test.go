package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/virel/internal/maincmd"
	"github.com/mna/virel/lang/compiler"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.vr")
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))
	return path
}

func runMain(t *testing.T, args ...string) (mainer.ExitCode, string, string) {
	t.Helper()
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{
		Stdout: &buf,
		Stderr: &ebuf,
	}
	c := maincmd.Cmd{BuildVersion: "0.0", BuildDate: "2024-01-01"}
	code := c.Main(append([]string{"virel"}, args...), stdio)
	return code, buf.String(), ebuf.String()
}

func TestRunCommand(t *testing.T) {
	cases := []struct {
		src string
		out string
	}{
		{"{ print(2 + 3 * 4); }", "14\n"},
		{"{ print((2 + 3) * 4); }", "20\n"},
		{"{ print(10 - 4 - 3); }", "3\n"},
		{"{ var x: int64 = 7; var y: int64 = 5; print(x * y + 1); }", "36\n"},
		{"{ var b: bool = true; if b { print(1); } else { print(0); } }", "1\n"},
		{"{ var n: int64 = 0; if bool(n) { print(1); } else { print(2); } }", "2\n"},
		{"{ print(120 / 40 / 2 + 59); }", "60\n"},
	}

	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			path := writeSource(t, c.src)
			code, out, eout := runMain(t, "run", path)
			assert.Equal(t, mainer.Success, code)
			assert.Equal(t, c.out, out)
			assert.Empty(t, eout)
		})
	}
}

func TestRunCommandDiagnostics(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		errLike string
	}{
		{"type mismatch", "{ var x: int64 = true; }", "there was an error while checking types"},
		{"operand mismatch", "{ print(1 + true); }", "there was an error while checking types"},
		{"condition not bool", "{ if 3 { } }", "if condition must evaluate to bool"},
		{"unmatched paren", "{ print(1 ; }", "there was an error while parsing"},
		{"runtime", "{ print(1 / 0); }", "there was an error while the virtual machine was executing"},
		{"lexical", "{ print(@); }", "illegal character"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeSource(t, c.src)
			code, _, eout := runMain(t, "run", path)
			assert.Equal(t, mainer.Failure, code)
			assert.Contains(t, eout, c.errLike)
		})
	}
}

func TestTokenizeCommand(t *testing.T) {
	path := writeSource(t, "var x = 1;\n")
	code, out, eout := runMain(t, "tokenize", path)
	assert.Equal(t, mainer.Success, code)
	assert.Empty(t, eout)
	assert.Equal(t, `1:1: var
1:5: name x
1:7: =
1:9: number 1
1:10: ;
2:1: end of file
`, out)
}

func TestParseCommand(t *testing.T) {
	path := writeSource(t, "{ print(1 + 2); }")
	code, out, eout := runMain(t, "parse", path)
	assert.Equal(t, mainer.Success, code)
	assert.Empty(t, eout)
	assert.Equal(t, `chunk
. block
. . exprstmt
. . . call print
. . . . +
. . . . . 1
. . . . . 2
`, out)
}

func TestCompileCommand(t *testing.T) {
	path := writeSource(t, "{ print(2 + 3); }")

	t.Run("disassembly", func(t *testing.T) {
		code, out, eout := runMain(t, "compile", path)
		assert.Equal(t, mainer.Success, code)
		assert.Empty(t, eout)
		assert.Equal(t, `   0: INT64_LOAD 2
   2: INT64_LOAD 3
   4: ADD
   5: PRINT
`, out)
	})

	t.Run("serialized output", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "main.vrbc")
		code, _, _ := runMain(t, "compile", "-o", outPath, path)
		require.Equal(t, mainer.Success, code)

		f, err := os.Open(outPath)
		require.NoError(t, err)
		defer f.Close()

		decoded, err := compiler.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, []int64{
			int64(compiler.INT64_LOAD), 2,
			int64(compiler.INT64_LOAD), 3,
			int64(compiler.ADD),
			int64(compiler.PRINT),
		}, decoded.Bytes)
	})
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := runMain(t, "--version")
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "virel 0.0 2024-01-01\n", out)
}

func TestHelpFlag(t *testing.T) {
	code, out, _ := runMain(t, "--help")
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out, "usage: virel")
}

func TestInvalidArgs(t *testing.T) {
	cases := [][]string{
		{},                        // no command
		{"frobnicate"},            // unknown command
		{"run"},                   // missing file
		{"repl", "file.vr"},       // repl takes no file
		{"run", "-p", "file.vr"},  // positions is parse-only
		{"tokenize", "-o", "out"}, // output is compile-only
	}
	for _, args := range cases {
		code, _, eout := runMain(t, args...)
		assert.Equal(t, mainer.InvalidArgs, code, "%v", args)
		assert.NotEmpty(t, eout, "%v", args)
	}
}

func TestRunMissingFile(t *testing.T) {
	code, _, eout := runMain(t, "run", filepath.Join(t.TempDir(), "nope.vr"))
	assert.Equal(t, mainer.Failure, code)
	assert.NotEmpty(t, eout)
}
