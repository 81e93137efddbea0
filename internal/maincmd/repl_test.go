package maincmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/virel/lang/machine"
)

func TestReplLine(t *testing.T) {
	ctx := context.Background()
	cfg := machine.DefaultConfig()

	t.Run("expression statement", func(t *testing.T) {
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

		require.NoError(t, replLine(ctx, stdio, cfg, "print(2 + 3);"))
		assert.Equal(t, "5\n", buf.String())
	})

	t.Run("multiple statements", func(t *testing.T) {
		var buf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf}

		require.NoError(t, replLine(ctx, stdio, cfg, "var x: int64 = 6; print(x * 7);"))
		assert.Equal(t, "42\n", buf.String())
	})

	t.Run("parse error", func(t *testing.T) {
		var buf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf}

		err := replLine(ctx, stdio, cfg, "print(1")
		require.Error(t, err)
		assert.ErrorContains(t, err, "there was an error while parsing")
	})

	t.Run("type error", func(t *testing.T) {
		var buf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf}

		err := replLine(ctx, stdio, cfg, "print(1 + true);")
		require.Error(t, err)
		assert.ErrorContains(t, err, "there was an error while checking types")
	})

	t.Run("each line is self-contained", func(t *testing.T) {
		var buf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf}

		require.NoError(t, replLine(ctx, stdio, cfg, "var x: int64 = 1; print(x);"))
		err := replLine(ctx, stdio, cfg, "print(x);")
		require.Error(t, err, "variables do not persist across lines")
		assert.ErrorContains(t, err, "is not declared")
	})
}
