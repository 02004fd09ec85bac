package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plsweave/plsweave/pkg/token"
)

func pos(off int) token.Position {
	return token.Position{Line: 1, Column: off + 1, Offset: off}
}

func spanAt(start, end int) token.Span {
	return token.Span{Start: pos(start), End: pos(end)}
}

// tok makes a single-line token whose span starts at the given offset.
func tok(typ token.Type, lit string, start int) token.Token {
	return token.Token{Type: typ, Literal: lit, Span: spanAt(start, start+len(lit))}
}

func TestBuilder_SpanIsUnionOfChildren(t *testing.T) {
	src := "a := 1"
	b := NewBuilder(src)
	b.Open(KindFile)
	b.Open(KindAssignStmt)
	b.Token(tok(token.IDENT, "a", 0))
	b.Token(tok(token.ASSIGN, ":=", 2))
	b.Token(tok(token.NUMBER, "1", 5))
	b.Close()
	tree := b.Finish()

	require.False(t, tree.HasErrors())
	assert.Equal(t, src, tree.Src())
	assert.Len(t, tree.Tokens(), 3)

	stmt := tree.Root().Child(0)
	assert.Equal(t, KindAssignStmt, stmt.Kind())
	assert.Equal(t, spanAt(0, 6), stmt.Span())
	assert.Equal(t, "a := 1", stmt.Text())
	assert.Equal(t, spanAt(0, 6), tree.Root().Span())
}

func TestBuilder_ChildlessNodeHasZeroWidthSpan(t *testing.T) {
	b := NewBuilder("x;")
	b.Open(KindFile)
	b.Token(tok(token.IDENT, "x", 0))
	b.Open(KindError)
	b.Close()
	b.Token(tok(token.SEMI, ";", 1))
	tree := b.Finish()

	errNode := tree.Root().Child(1)
	require.Equal(t, KindError, errNode.Kind())
	// Pinned just past the last attached leaf.
	assert.Equal(t, spanAt(1, 1), errNode.Span())
	assert.Equal(t, 0, errNode.Span().Len())
	assert.Equal(t, "", errNode.Text())
}

func TestBuilder_ErrorCounting(t *testing.T) {
	b := NewBuilder("? garbage")
	b.Open(KindFile)
	b.Token(tok(token.INVALID, "?", 0))
	b.Open(KindCallStmt)
	b.Token(tok(token.IDENT, "garbage", 2))
	b.CloseAs(KindError)
	tree := b.Finish()

	assert.True(t, tree.HasErrors())
	assert.Equal(t, 2, tree.ErrorCount(), "one INVALID leaf, one Error node")
	assert.True(t, tree.Root().Child(0).IsError())
	assert.True(t, tree.Root().Child(1).IsError())
	assert.False(t, tree.Root().IsError())
}

func TestBuilder_CloseAsNilKeepsKind(t *testing.T) {
	b := NewBuilder("x")
	b.Open(KindFile)
	b.Open(KindNameRef)
	b.Token(tok(token.IDENT, "x", 0))
	b.CloseAs(KindNil)
	tree := b.Finish()

	assert.Equal(t, KindNameRef, tree.Root().Child(0).Kind())
	assert.False(t, tree.HasErrors())
}

func TestBuilder_FinishClosesOpenNodes(t *testing.T) {
	b := NewBuilder("BEGIN")
	b.Open(KindFile)
	b.Open(KindPackageBody)
	b.Open(KindBlock)
	b.Token(tok(token.BEGIN, "BEGIN", 0))
	tree := b.Finish()

	root := tree.Root()
	require.True(t, root.IsValid())
	assert.Equal(t, KindFile, root.Kind())
	assert.Equal(t, KindPackageBody, root.Child(0).Kind())
	assert.Equal(t, KindBlock, root.Child(0).Child(0).Kind())
	assert.Equal(t, spanAt(0, 5), root.Span())
}

func TestBuilder_MarkOpenAtAdoptsLeftOperand(t *testing.T) {
	// The infix pattern: the left operand is already built when the
	// operator is seen, so the BinaryExpr wraps it retroactively.
	b := NewBuilder("1 + 2")
	b.Open(KindFile)
	cp := b.Mark()
	b.Token(tok(token.NUMBER, "1", 0))
	b.OpenAt(cp, KindBinaryExpr)
	b.Token(tok(token.PLUS, "+", 2))
	b.Token(tok(token.NUMBER, "2", 4))
	b.Close()
	tree := b.Finish()

	root := tree.Root()
	require.Equal(t, 1, root.NumChildren(), "the operand moved under the wrapper")
	bin := root.Child(0)
	assert.Equal(t, KindBinaryExpr, bin.Kind())
	require.Equal(t, 3, bin.NumChildren())
	assert.Equal(t, "1 + 2", bin.Text())

	// Parent links follow the adoption.
	assert.Equal(t, bin.ID(), bin.Child(0).Parent().ID())
	assert.Equal(t, root.ID(), bin.Parent().ID())
}

func TestBuilder_CurrentKind(t *testing.T) {
	b := NewBuilder("")
	assert.Equal(t, KindNil, b.CurrentKind())
	b.Open(KindFile)
	assert.Equal(t, KindFile, b.CurrentKind())
	b.Open(KindPackageSpec)
	assert.Equal(t, KindPackageSpec, b.CurrentKind())
	b.Close()
	assert.Equal(t, KindFile, b.CurrentKind())
	b.Finish()
}

func TestBuilder_ImportShiftsSpans(t *testing.T) {
	oldSrc := "x := 1"
	ob := NewBuilder(oldSrc)
	ob.Open(KindFile)
	ob.Open(KindAssignStmt)
	lead := tok(token.IDENT, "x", 0)
	lead.Leading = []token.Trivia{{
		Kind: token.LineComment,
		Span: spanAt(0, 0),
	}}
	ob.Token(lead)
	ob.Token(tok(token.ASSIGN, ":=", 2))
	ob.Token(tok(token.NUMBER, "1", 5))
	ob.Close()
	old := ob.Finish()
	stmtID := old.Root().Child(0).ID()

	newSrc := "-- c\nx := 1"
	nb := NewBuilder(newSrc)
	nb.Open(KindFile)
	nb.Import(old, stmtID, 5, 1)
	tree := nb.Finish()

	stmt := tree.Root().Child(0)
	assert.Equal(t, KindAssignStmt, stmt.Kind())
	assert.Equal(t, token.Span{Start: pos(0).Shift(5, 1), End: pos(6).Shift(5, 1)}, stmt.Span())
	assert.Equal(t, "x := 1", stmt.Text(), "shifted span reads the right bytes of the new source")

	require.Len(t, tree.Tokens(), 3)
	first := tree.Tokens()[0]
	assert.Equal(t, 5, first.Span.Start.Offset)
	assert.Equal(t, 2, first.Span.Start.Line)
	require.Len(t, first.Leading, 1)
	assert.Equal(t, 5, first.Leading[0].Span.Start.Offset, "trivia shifts with the token")
	// The copy owns its trivia; the old tree is untouched.
	assert.Equal(t, 0, old.Tokens()[0].Leading[0].Span.Start.Offset)
}

func TestBuilder_ImportCarriesErrors(t *testing.T) {
	ob := NewBuilder("?")
	ob.Open(KindFile)
	ob.Open(KindError)
	ob.Token(tok(token.INVALID, "?", 0))
	ob.Close()
	old := ob.Finish()
	require.Equal(t, 2, old.ErrorCount())

	nb := NewBuilder("?")
	nb.Open(KindFile)
	nb.Import(old, old.Root().Child(0).ID(), 0, 0)
	tree := nb.Finish()

	assert.Equal(t, 2, tree.ErrorCount(), "imported Error node and INVALID leaf both count")
}

func TestNode_InvalidHandleIsInert(t *testing.T) {
	var n Node
	assert.False(t, n.IsValid())
	assert.Equal(t, KindNil, n.Kind())
	assert.Equal(t, "", n.Text())
	assert.Equal(t, 0, n.NumChildren())
	assert.False(t, n.Parent().IsValid())
	assert.False(t, n.Child(0).IsValid())
	_, ok := n.Token()
	assert.False(t, ok)
}
