package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plsweave/plsweave/internal/config"
	"github.com/plsweave/plsweave/pkg/parser"
)

func TestDiffEdit(t *testing.T) {
	cases := []struct {
		name     string
		old, new string
		want     parser.Edit
	}{
		{
			name: "middle replacement",
			old:  "a := 1;\nb := 2;\n",
			new:  "a := 1;\nb := 99;\n",
			want: parser.Edit{StartByte: 13, OldEndByte: 14, NewEndByte: 15, NewText: "99"},
		},
		{
			name: "pure insertion",
			old:  "ab",
			new:  "aXb",
			want: parser.Edit{StartByte: 1, OldEndByte: 1, NewEndByte: 2, NewText: "X"},
		},
		{
			name: "pure deletion",
			old:  "aXb",
			new:  "ab",
			want: parser.Edit{StartByte: 1, OldEndByte: 2, NewEndByte: 1, NewText: ""},
		},
		{
			name: "prepend",
			old:  "tail",
			new:  "head tail",
			want: parser.Edit{StartByte: 0, OldEndByte: 0, NewEndByte: 5, NewText: "head "},
		},
		{
			name: "append",
			old:  "head",
			new:  "head tail",
			want: parser.Edit{StartByte: 4, OldEndByte: 4, NewEndByte: 9, NewText: " tail"},
		},
		{
			name: "full rewrite",
			old:  "xyz",
			new:  "abc",
			want: parser.Edit{StartByte: 0, OldEndByte: 3, NewEndByte: 3, NewText: "abc"},
		},
		{
			name: "empty to content",
			old:  "",
			new:  "abc",
			want: parser.Edit{StartByte: 0, OldEndByte: 0, NewEndByte: 3, NewText: "abc"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, changed := diffEdit(tc.old, tc.new)
			require.True(t, changed)
			assert.Equal(t, tc.want, e)
			assert.Equal(t, tc.new, e.Apply(tc.old), "the edit reproduces the new text")
		})
	}
}

func TestDiffEdit_NoChange(t *testing.T) {
	_, changed := diffEdit("same", "same")
	assert.False(t, changed)
	_, changed = diffEdit("", "")
	assert.False(t, changed)
}

func TestDiffEdit_RepeatedRuns(t *testing.T) {
	// Common prefix and suffix overlap in the middle; the edit must still
	// be well-formed and reproduce the new text.
	old := "aaaa"
	new := "aaa"
	e, changed := diffEdit(old, new)
	require.True(t, changed)
	assert.GreaterOrEqual(t, e.OldEndByte, e.StartByte)
	assert.Equal(t, new, e.Apply(old))
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "2026-08-23", "abc1234")
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "plsweave 1.2.3")
	assert.Contains(t, s, "build date: 2026-08-23")
	assert.Contains(t, s, "commit:     abc1234")
	assert.Contains(t, s, "go:")
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()

	// Fallbacks when the root command never ran.
	cfg := GetConfig(ctx)
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultIndexPath, cfg.IndexPath)
	assert.NotNil(t, GetLogger(ctx))

	want := &config.Config{IndexPath: "custom.db"}
	ctx = WithConfig(ctx, want)
	assert.Same(t, want, GetConfig(ctx))

	logger := slog.New(slog.DiscardHandler)
	ctx = WithLogger(ctx, logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactlyten", truncate("exactlyten", 10))
	long := truncate("0123456789abcdef", 10)
	assert.Contains(t, long, "…")
	assert.LessOrEqual(t, len([]rune(long)), 11)
}
