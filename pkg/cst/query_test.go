package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plsweave/plsweave/pkg/token"
)

// fixtureTree builds
//
//	File
//	  PackageSpec
//	    IDENT "Order_API"
//	    Procedure
//	      IDENT "Get"
//	    Procedure
//	      IDENT "Remove___"
//
// over the source "Order_API Get Remove___".
func fixtureTree() *Tree {
	b := NewBuilder("Order_API Get Remove___")
	b.Open(KindFile)
	b.Open(KindPackageSpec)
	b.Token(tok(token.IDENT, "Order_API", 0))
	b.Open(KindProcedure)
	b.Token(tok(token.IDENT, "Get", 10))
	b.Close()
	b.Open(KindProcedure)
	b.Token(tok(token.IDENT, "Remove___", 14))
	b.Close()
	b.Close()
	return b.Finish()
}

func TestWalk_PreorderAndPrune(t *testing.T) {
	tree := fixtureTree()

	var kinds []Kind
	Walk(tree.Root(), func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []Kind{
		KindFile, KindPackageSpec, KindToken,
		KindProcedure, KindToken, KindProcedure, KindToken,
	}, kinds)

	// Returning false prunes the subtree.
	var pruned []Kind
	Walk(tree.Root(), func(n Node) bool {
		pruned = append(pruned, n.Kind())
		return n.Kind() != KindProcedure
	})
	assert.Equal(t, []Kind{
		KindFile, KindPackageSpec, KindToken, KindProcedure, KindProcedure,
	}, pruned)
}

func TestQuery_KindAndWhere(t *testing.T) {
	tree := fixtureTree()

	procs := tree.FindAll(KindProcedure)
	require.Len(t, procs, 2)
	assert.Equal(t, "Get", procs[0].Name())
	assert.Equal(t, "Remove___", procs[1].Name())

	private := Query{
		Kind:  KindProcedure,
		Where: func(n Node) bool { return VisibilityOf(n.Name()) == Private },
	}.Find(tree)
	require.Len(t, private, 1)
	assert.Equal(t, "Remove___", private[0].Name())

	assert.Empty(t, tree.FindAll(KindViewDef))
}

func TestNodeAt(t *testing.T) {
	tree := fixtureTree()

	// Inside "Get": the smallest covering node is the leaf itself.
	leaf := tree.NodeAt(11)
	require.True(t, leaf.IsValid())
	assert.Equal(t, KindToken, leaf.Kind())
	assert.Equal(t, "Get", leaf.Text())
	assert.Equal(t, KindProcedure, leaf.Parent().Kind())

	// Offsets outside the root span resolve to nothing.
	assert.False(t, tree.NodeAt(-1).IsValid())
	assert.False(t, tree.NodeAt(len(tree.Src())).IsValid())
}

func TestCursor_MatchesWalkOrder(t *testing.T) {
	tree := fixtureTree()

	var walked []NodeID
	Walk(tree.Root(), func(n Node) bool {
		walked = append(walked, n.ID())
		return true
	})

	var cursored []NodeID
	c := NewCursor(tree)
	for n := c.Next(); n.IsValid(); n = c.Next() {
		cursored = append(cursored, n.ID())
	}
	assert.Equal(t, walked, cursored)

	// Exhausted cursors stay exhausted.
	assert.False(t, c.Next().IsValid())
}

func TestCursor_Suspendable(t *testing.T) {
	tree := fixtureTree()
	c := NewCursor(tree)

	first := c.Next()
	require.Equal(t, KindFile, first.Kind())

	// Picking up later continues where it stopped.
	second := c.Next()
	assert.Equal(t, KindPackageSpec, second.Kind())
}

func TestNode_NameSkipsNonIdentLeaves(t *testing.T) {
	b := NewBuilder("PROCEDURE Get")
	b.Open(KindFile)
	b.Open(KindProcedure)
	b.Token(tok(token.PROCEDURE, "PROCEDURE", 0))
	b.Token(tok(token.IDENT, "Get", 10))
	b.Close()
	tree := b.Finish()

	proc := tree.Root().Child(0)
	assert.Equal(t, "Get", proc.Name())
	assert.Equal(t, "", tree.Root().Name(), "no direct IDENT child")
	assert.False(t, proc.FirstChildOfKind(KindParamList).IsValid())
}
