// Package cst provides the concrete syntax tree produced by the parser.
//
// Trees are immutable once built. Nodes live in a flat arena addressed by
// NodeID handles, which makes subtree reuse during incremental re-parse a
// cheap record copy rather than a pointer-graph clone. Every token of the
// input appears as a leaf; a node's span is the union of its children's
// spans, and sibling spans are ordered and non-overlapping.
package cst

import "github.com/plsweave/plsweave/pkg/token"

// NodeID is a stable handle into a tree's node arena.
type NodeID int32

// NilNode is the invalid node handle.
const NilNode NodeID = -1

// nodeData is the arena record backing one node.
type nodeData struct {
	kind     Kind
	span     token.Span
	parent   NodeID
	tok      int32 // index into Tree.tokens for leaves, -1 otherwise
	children []NodeID
}

// Tree is an immutable concrete syntax tree over a single source buffer.
type Tree struct {
	src    string
	nodes  []nodeData
	tokens []token.Token
	root   NodeID
	errors int // Error nodes plus INVALID leaves
}

// Src returns the source text the tree was parsed from.
func (t *Tree) Src() string { return t.src }

// Root returns the root File node.
func (t *Tree) Root() Node { return Node{tree: t, id: t.root} }

// Tokens returns the token stream underlying the tree, in source order.
func (t *Tree) Tokens() []token.Token { return t.tokens }

// Len returns the number of nodes in the tree (leaves included).
func (t *Tree) Len() int { return len(t.nodes) }

// HasErrors reports whether the tree contains any Error node or INVALID
// token. This is the boolean signal the bisection tool consumes.
func (t *Tree) HasErrors() bool { return t.errors > 0 }

// ErrorCount returns the number of Error nodes and INVALID tokens.
func (t *Tree) ErrorCount() int { return t.errors }

// Node is a lightweight handle to one node of a tree.
type Node struct {
	tree *Tree
	id   NodeID
}

// IsValid reports whether the handle refers to an actual node.
func (n Node) IsValid() bool {
	return n.tree != nil && n.id >= 0 && int(n.id) < len(n.tree.nodes)
}

// ID returns the node's arena handle.
func (n Node) ID() NodeID { return n.id }

// Kind returns the node's production kind.
func (n Node) Kind() Kind {
	if !n.IsValid() {
		return KindNil
	}
	return n.tree.nodes[n.id].kind
}

// Span returns the node's source span (leading trivia excluded).
func (n Node) Span() token.Span {
	if !n.IsValid() {
		return token.Span{}
	}
	return n.tree.nodes[n.id].span
}

// Text returns the source text covered by the node's span.
func (n Node) Text() string {
	if !n.IsValid() {
		return ""
	}
	sp := n.tree.nodes[n.id].span
	if sp.Start.Offset < 0 || sp.End.Offset > len(n.tree.src) {
		return ""
	}
	return n.tree.src[sp.Start.Offset:sp.End.Offset]
}

// Parent returns the node's parent, or an invalid Node at the root.
// Parent links are non-owning back-references; the tree remains a strict
// DAG from root to leaves.
func (n Node) Parent() Node {
	if !n.IsValid() {
		return Node{}
	}
	return Node{tree: n.tree, id: n.tree.nodes[n.id].parent}
}

// NumChildren returns the number of children.
func (n Node) NumChildren() int {
	if !n.IsValid() {
		return 0
	}
	return len(n.tree.nodes[n.id].children)
}

// Child returns the i-th child in source order.
func (n Node) Child(i int) Node {
	if !n.IsValid() || i < 0 || i >= len(n.tree.nodes[n.id].children) {
		return Node{}
	}
	return Node{tree: n.tree, id: n.tree.nodes[n.id].children[i]}
}

// Children returns all children in source order.
func (n Node) Children() []Node {
	if !n.IsValid() {
		return nil
	}
	ids := n.tree.nodes[n.id].children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{tree: n.tree, id: id}
	}
	return out
}

// IsToken reports whether the node is a leaf token.
func (n Node) IsToken() bool {
	return n.IsValid() && n.tree.nodes[n.id].tok >= 0
}

// Token returns the leaf's token, if the node is a leaf.
func (n Node) Token() (token.Token, bool) {
	if !n.IsToken() {
		return token.Token{}, false
	}
	return n.tree.tokens[n.tree.nodes[n.id].tok], true
}

// IsError reports whether the node is an Error node or an INVALID leaf.
func (n Node) IsError() bool {
	if !n.IsValid() {
		return false
	}
	if n.Kind() == KindError {
		return true
	}
	if tok, ok := n.Token(); ok {
		return tok.Type == token.INVALID
	}
	return false
}

// FirstChildOfKind returns the first direct child with the given kind.
func (n Node) FirstChildOfKind(k Kind) Node {
	for _, c := range n.Children() {
		if c.Kind() == k {
			return c
		}
	}
	return Node{}
}

// Name returns the text of the node's first IDENT leaf child, which by
// construction is the declared name for named productions (Procedure,
// Function, PackageSpec, CursorDecl, ...). Empty if the node has none.
func (n Node) Name() string {
	for _, c := range n.Children() {
		if tok, ok := c.Token(); ok && tok.Type == token.IDENT {
			return tok.Literal
		}
	}
	return ""
}
