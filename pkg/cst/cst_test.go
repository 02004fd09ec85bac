package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plsweave/plsweave/pkg/token"
)

func TestVisibilityOf(t *testing.T) {
	cases := []struct {
		name string
		want Visibility
	}{
		{"Get_Order", Public},
		{"Get_Order_", Public},
		{"Check_Insert__", Protected},
		{"Do_Remove___", Private},
		{"", Public},
		{"___", Private},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, VisibilityOf(tc.name), "name %q", tc.name)
	}

	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "private", Private.String())
}

func TestKindByName_RoundTrip(t *testing.T) {
	for k, name := range kindNames {
		got, ok := KindByName(name)
		require.True(t, ok, "kind %s", name)
		assert.Equal(t, k, got)
		assert.Equal(t, name, got.String())
	}

	_, ok := KindByName("NoSuchKind")
	assert.False(t, ok)
	assert.Equal(t, "Kind(?)", Kind(9999).String())
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindAssignStmt.IsStatement())
	assert.True(t, KindSqlStmt.IsStatement())
	assert.True(t, KindDirective.IsStatement())
	assert.False(t, KindProcedure.IsStatement())
	assert.False(t, KindBinaryExpr.IsStatement())

	assert.True(t, KindPackageBody.IsTopLevel())
	assert.True(t, KindEntity.IsTopLevel())
	assert.True(t, KindError.IsTopLevel())
	assert.False(t, KindParam.IsTopLevel())
	assert.False(t, KindWhereClause.IsTopLevel())
}

// buildDirective assembles a Directive node from marker tokens with the
// anchor and payload groups in between, the way the parser lays them out.
func buildDirective(t *testing.T, terminated bool, open token.Type, payloadMarker token.Type) *Tree {
	t.Helper()
	b := NewBuilder("")
	b.Open(KindFile)
	b.Open(KindDirective)
	off := 0
	put := func(typ token.Type, lit string) {
		b.Token(tok(typ, lit, off))
		off += len(lit) + 1
	}
	put(open, open.String())
	b.Open(KindDirectiveAnchor)
	put(token.IDENT, "anchor_line")
	put(token.SEMI, ";")
	b.Close()
	if payloadMarker != token.EOF {
		put(payloadMarker, payloadMarker.String())
		b.Open(KindDirectivePayload)
		put(token.IDENT, "payload_line")
		put(token.SEMI, ";")
		b.Close()
	}
	if terminated {
		put(token.DEND, "$END")
		b.Close()
	} else {
		b.CloseAs(KindError)
	}
	return b.Finish()
}

func TestDirective_DecodeSearchReplace(t *testing.T) {
	tree := buildDirective(t, true, token.DSEARCH, token.DREPLACE)
	dir := tree.Root().Child(0)

	info, ok := dir.Directive()
	require.True(t, ok)
	assert.Equal(t, DirectiveReplace, info.Op)
	assert.False(t, info.Text)
	assert.True(t, info.Terminated)
	require.True(t, info.Anchor.IsValid())
	assert.Equal(t, KindDirectiveAnchor, info.Anchor.Kind())
	require.True(t, info.Payload.IsValid())
	assert.Equal(t, KindDirectivePayload, info.Payload.Kind())
}

func TestDirective_PureSearchHasNoPayload(t *testing.T) {
	tree := buildDirective(t, true, token.DSEARCH, token.EOF)
	info, ok := tree.Root().Child(0).Directive()
	require.True(t, ok)
	assert.Equal(t, DirectiveSearch, info.Op)
	assert.False(t, info.Payload.IsValid())
}

func TestDirective_TextVariantsSetFlag(t *testing.T) {
	cases := []struct {
		open, payload token.Type
		op            DirectiveOp
	}{
		{token.DTEXTSEARCH, token.DTEXTREPLACE, DirectiveReplace},
		{token.DTEXTSEARCH, token.DTEXTAPPEND, DirectiveAppend},
		{token.DTEXTPREPEND, token.EOF, DirectivePrepend},
		{token.DTEXTAPPEND, token.EOF, DirectiveAppend},
	}
	for _, tc := range cases {
		tree := buildDirective(t, true, tc.open, tc.payload)
		info, ok := tree.Root().Child(0).Directive()
		require.True(t, ok, "open %s", tc.open)
		assert.Equal(t, tc.op, info.Op, "open %s", tc.open)
		assert.True(t, info.Text, "open %s", tc.open)
	}
}

func TestDirective_UnterminatedErrorNodeStillDecodes(t *testing.T) {
	tree := buildDirective(t, false, token.DSEARCH, token.DAPPEND)
	dir := tree.Root().Child(0)
	require.Equal(t, KindError, dir.Kind())

	info, ok := dir.Directive()
	require.True(t, ok)
	assert.Equal(t, DirectiveAppend, info.Op)
	assert.False(t, info.Terminated)
}

func TestDirective_NonDirectiveNodesDecline(t *testing.T) {
	tree := fixtureTree()
	_, ok := tree.Root().Child(0).Directive()
	assert.False(t, ok, "PackageSpec is not a directive")

	// An Error node without markers declines too.
	b := NewBuilder("x")
	b.Open(KindFile)
	b.Open(KindError)
	b.Token(tok(token.IDENT, "x", 0))
	b.Close()
	errTree := b.Finish()
	_, ok = errTree.Root().Child(0).Directive()
	assert.False(t, ok)
}

func TestDirectiveOp_String(t *testing.T) {
	assert.Equal(t, "SEARCH", DirectiveSearch.String())
	assert.Equal(t, "APPEND", DirectiveAppend.String())
	assert.Equal(t, "REPLACE", DirectiveReplace.String())
	assert.Equal(t, "PREPEND", DirectivePrepend.String())
}

func TestDiagnostics_SourceOrderAndMessages(t *testing.T) {
	b := NewBuilder("? x oops")
	b.Open(KindFile)
	b.Token(tok(token.INVALID, "?", 0))
	b.Token(tok(token.IDENT, "x", 2))
	b.Open(KindError)
	b.Token(tok(token.IDENT, "oops", 4))
	b.Close()
	tree := b.Finish()

	diags := tree.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, 0, diags[0].Span.Start.Offset)
	assert.Contains(t, diags[0].Message, `invalid token "?"`)
	assert.Equal(t, 4, diags[1].Span.Start.Offset)
	assert.Equal(t, "syntax error", diags[1].Message)
	assert.Equal(t, "1:1: invalid token \"?\"", diags[0].String())
}

func TestDiagnostics_CleanTreeIsEmpty(t *testing.T) {
	assert.Empty(t, fixtureTree().Diagnostics())
}
