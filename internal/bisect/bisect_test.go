package bisect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_CleanInput(t *testing.T) {
	res := Run(`layer Core;

COLUMN order_no IS
   Prompt = 'Order No';
`)
	assert.True(t, res.Clean)
	assert.Equal(t, 0, res.FirstBadLine)
	assert.Equal(t, 4, res.TotalLines)
}

func TestRun_EmptyInput(t *testing.T) {
	res := Run("")
	assert.True(t, res.Clean)
	assert.Equal(t, 0, res.TotalLines)
}

func TestRun_FindsTransitionLine(t *testing.T) {
	// Every line prefix through line 3 parses clean; the garbage on line 4
	// is the onset.
	src := `layer Core;
COLUMN a IS Prompt = 'A';
COLUMN b IS Prompt = 'B';
%%% garbage %%%
COLUMN c IS Prompt = 'C';
`
	res := Run(src)
	assert.False(t, res.Clean)
	assert.Equal(t, 4, res.FirstBadLine)
	assert.Equal(t, 5, res.TotalLines)
}

func TestRun_SingleBadLine(t *testing.T) {
	res := Run("??? not anything ???")
	assert.False(t, res.Clean)
	assert.Equal(t, 1, res.FirstBadLine)
	assert.Equal(t, 1, res.TotalLines)
}

func TestRun_TruncationOnsetTrailsOpenConstruct(t *testing.T) {
	// A package cut off anywhere is itself a syntax error, so the onset
	// lands on the first line even though nothing on it is wrong by
	// itself. The result still brackets the failure.
	src := "PACKAGE BODY X IS\nPROCEDURE P IS\nBEGIN\nNULL;\nEND P;\nEND X;"
	assert.True(t, Run(src).Clean, "the whole file is fine")

	bad := "PACKAGE BODY X IS\nPROCEDURE P IS\nBEGIN\nNULL\nEND P;\nEND X;"
	res := Run(bad)
	assert.False(t, res.Clean)
	assert.GreaterOrEqual(t, res.FirstBadLine, 1)
	assert.LessOrEqual(t, res.FirstBadLine, res.TotalLines)
}

func TestSplitLines_PrefixesAreBytePrefixes(t *testing.T) {
	src := "a\nb\nc"
	lines := splitLines(src)
	assert.Equal(t, []string{"a\n", "b\n", "c"}, lines)
	assert.Equal(t, src, join(lines))
	assert.Equal(t, "a\nb\n", join(lines[:2]))
}
