package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plsweave/plsweave/pkg/token"
)

// annotatedBody builds the member layout of
//
//	@Override @UncheckedAccess PROCEDURE Init; FUNCTION Peek;
//
// as the parser lays it out: annotations as siblings preceding the
// declaration they mark.
func annotatedBody(t *testing.T) *Tree {
	t.Helper()
	b := NewBuilder("@Override @UncheckedAccess PROCEDURE Init; FUNCTION Peek;")
	b.Open(KindFile)
	b.Open(KindPackageBody)

	b.Open(KindAnnotation)
	b.Token(tok(token.OVERRIDE, "@Override", 0))
	b.Close()
	b.Open(KindAnnotation)
	b.Token(tok(token.UNCHECKED, "@UncheckedAccess", 10))
	b.Close()
	b.Open(KindProcedure)
	b.Token(tok(token.PROCEDURE, "PROCEDURE", 27))
	b.Token(tok(token.IDENT, "Init", 37))
	b.Token(tok(token.SEMI, ";", 41))
	b.Close()
	b.Open(KindFunction)
	b.Token(tok(token.FUNCTION, "FUNCTION", 43))
	b.Token(tok(token.IDENT, "Peek", 52))
	b.Token(tok(token.SEMI, ";", 56))
	b.Close()

	b.Close()
	return b.Finish()
}

func TestAnnotation_TargetSkipsStackedAnnotations(t *testing.T) {
	tree := annotatedBody(t)
	body := tree.Root().Child(0)

	first, second := body.Child(0), body.Child(1)
	require.Equal(t, KindAnnotation, first.Kind())
	require.Equal(t, KindAnnotation, second.Kind())

	assert.Equal(t, "Init", first.Target().Name(), "binds past the stacked annotation")
	assert.Equal(t, "Init", second.Target().Name())
}

func TestAnnotation_DeclarationListsItsAnnotations(t *testing.T) {
	tree := annotatedBody(t)
	body := tree.Root().Child(0)

	proc := body.Child(2)
	require.Equal(t, KindProcedure, proc.Kind())
	anns := proc.Annotations()
	require.Len(t, anns, 2)
	first, _ := anns[0].Child(0).Token()
	assert.Equal(t, token.OVERRIDE, first.Type, "source order preserved")

	fn := body.Child(3)
	require.Equal(t, KindFunction, fn.Kind())
	assert.Nil(t, fn.Annotations(), "the stack belongs to the nearer declaration only")
}

func TestAnnotation_DanglingHasNoTarget(t *testing.T) {
	// The parser wraps an annotation with no following declaration in an
	// Error node; inside it there is nothing to bind to.
	b := NewBuilder("@Override")
	b.Open(KindFile)
	b.Open(KindPackageBody)
	b.Open(KindError)
	b.Open(KindAnnotation)
	b.Token(tok(token.OVERRIDE, "@Override", 0))
	b.Close()
	b.Close()
	b.Close()
	tree := b.Finish()

	ann := tree.Root().Child(0).Child(0).Child(0)
	require.Equal(t, KindAnnotation, ann.Kind())
	assert.False(t, ann.Target().IsValid())
}

func TestAnnotation_AccessorsRejectOtherKinds(t *testing.T) {
	tree := annotatedBody(t)
	body := tree.Root().Child(0)

	assert.False(t, body.Target().IsValid(), "Target is annotation-only")
	assert.Nil(t, body.Child(0).Annotations(), "Annotations is declaration-only")
}
