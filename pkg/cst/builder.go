package cst

import "github.com/plsweave/plsweave/pkg/token"

// Builder assembles a Tree during parsing. Nodes are opened and closed in
// nesting order; tokens attach as leaves to the innermost open node.
type Builder struct {
	src    string
	nodes  []nodeData
	tokens []token.Token
	open   []NodeID
	errors int
	// lastEnd is the end position of the most recently attached leaf,
	// used to give zero-width spans to childless nodes.
	lastEnd token.Position
}

// NewBuilder creates a builder for the given source text.
func NewBuilder(src string) *Builder {
	return &Builder{
		src:     src,
		lastEnd: token.Position{Line: 1, Column: 1, Offset: 0},
	}
}

// Open starts a new node of the given kind as a child of the innermost
// open node and returns its handle.
func (b *Builder) Open(kind Kind) NodeID {
	id := NodeID(len(b.nodes))
	parent := NilNode
	if len(b.open) > 0 {
		parent = b.open[len(b.open)-1]
	}
	b.nodes = append(b.nodes, nodeData{
		kind:   kind,
		parent: parent,
		tok:    -1,
	})
	if parent != NilNode {
		b.nodes[parent].children = append(b.nodes[parent].children, id)
	}
	b.open = append(b.open, id)
	return id
}

// Close finishes the innermost open node, computing its span as the union
// of its children's spans. Childless nodes get a zero-width span at the
// current position.
func (b *Builder) Close() {
	b.CloseAs(KindNil)
}

// CloseAs finishes the innermost open node, optionally retagging it.
// Passing KindNil keeps the kind it was opened with. Retagging to
// KindError is how structurally broken constructs (unterminated
// directives, dangling annotations) keep their partial children.
func (b *Builder) CloseAs(kind Kind) {
	id := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]

	nd := &b.nodes[id]
	if kind != KindNil {
		nd.kind = kind
	}
	if nd.kind == KindError {
		b.errors++
	}

	if len(nd.children) == 0 {
		nd.span = token.Span{Start: b.lastEnd, End: b.lastEnd}
		return
	}
	sp := b.nodes[nd.children[0]].span
	for _, c := range nd.children[1:] {
		sp = sp.Union(b.nodes[c].span)
	}
	nd.span = sp
}

// Checkpoint marks the current child position of the innermost open
// node. A later OpenAt wraps everything attached since the checkpoint
// into a new node, which is how infix expressions get their left
// operand after it has already been built.
type Checkpoint int

// Mark returns a checkpoint at the current position.
func (b *Builder) Mark() Checkpoint {
	if len(b.open) == 0 {
		return 0
	}
	return Checkpoint(len(b.nodes[b.open[len(b.open)-1]].children))
}

// OpenAt opens a node of the given kind that adopts all children the
// innermost open node gained since the checkpoint. The new node becomes
// the innermost open node.
func (b *Builder) OpenAt(cp Checkpoint, kind Kind) NodeID {
	parent := b.open[len(b.open)-1]
	id := NodeID(len(b.nodes))

	moved := b.nodes[parent].children[cp:]
	adopted := make([]NodeID, len(moved))
	copy(adopted, moved)
	for _, c := range adopted {
		b.nodes[c].parent = id
	}
	b.nodes = append(b.nodes, nodeData{
		kind:     kind,
		parent:   parent,
		tok:      -1,
		children: adopted,
	})
	b.nodes[parent].children = append(b.nodes[parent].children[:cp], id)
	b.open = append(b.open, id)
	return id
}

// CurrentKind returns the kind of the innermost open node, or KindNil.
func (b *Builder) CurrentKind() Kind {
	if len(b.open) == 0 {
		return KindNil
	}
	return b.nodes[b.open[len(b.open)-1]].kind
}

// Token attaches tok as a leaf of the innermost open node.
func (b *Builder) Token(tok token.Token) {
	id := NodeID(len(b.nodes))
	parent := NilNode
	if len(b.open) > 0 {
		parent = b.open[len(b.open)-1]
	}
	b.nodes = append(b.nodes, nodeData{
		kind:   KindToken,
		span:   tok.Span,
		parent: parent,
		tok:    int32(len(b.tokens)),
	})
	if parent != NilNode {
		b.nodes[parent].children = append(b.nodes[parent].children, id)
	}
	b.tokens = append(b.tokens, tok)
	if tok.Type == token.INVALID {
		b.errors++
	}
	b.lastEnd = tok.Span.End
}

// Import copies a subtree from a previously built tree into the current
// innermost open node, translating every span by the given byte and line
// deltas. Sharing is by record copy, not by reference: each tree owns
// one contiguous arena, so a carried subtree is appended as translated
// records rather than pointed at in the old arena. The contract is
// structural equivalence with a fresh parse, not node identity, and no
// re-lexing or re-parsing happens. This is the structural-sharing
// primitive of incremental re-parse.
func (b *Builder) Import(old *Tree, id NodeID, byteDelta, lineDelta int) {
	parent := NilNode
	if len(b.open) > 0 {
		parent = b.open[len(b.open)-1]
	}
	b.importRec(old, id, parent, byteDelta, lineDelta)
}

func (b *Builder) importRec(old *Tree, id, parent NodeID, byteDelta, lineDelta int) NodeID {
	src := old.nodes[id]
	newID := NodeID(len(b.nodes))

	nd := nodeData{
		kind:   src.kind,
		span:   src.span.Shift(byteDelta, lineDelta),
		parent: parent,
		tok:    -1,
	}
	if src.kind == KindError {
		b.errors++
	}
	if src.tok >= 0 {
		tok := old.tokens[src.tok]
		tok.Span = tok.Span.Shift(byteDelta, lineDelta)
		if len(tok.Leading) > 0 {
			leading := make([]token.Trivia, len(tok.Leading))
			for i, tr := range tok.Leading {
				tr.Span = tr.Span.Shift(byteDelta, lineDelta)
				leading[i] = tr
			}
			tok.Leading = leading
		}
		nd.tok = int32(len(b.tokens))
		b.tokens = append(b.tokens, tok)
		if tok.Type == token.INVALID {
			b.errors++
		}
		b.lastEnd = tok.Span.End
	}
	b.nodes = append(b.nodes, nd)
	if parent != NilNode {
		b.nodes[parent].children = append(b.nodes[parent].children, newID)
	}

	for _, c := range src.children {
		b.importRec(old, c, newID, byteDelta, lineDelta)
	}
	return newID
}

// Finish closes any still-open nodes and returns the completed tree.
// The first node opened becomes the root.
func (b *Builder) Finish() *Tree {
	for len(b.open) > 0 {
		b.Close()
	}
	root := NilNode
	if len(b.nodes) > 0 {
		root = 0
	}
	return &Tree{
		src:    b.src,
		nodes:  b.nodes,
		tokens: b.tokens,
		root:   root,
		errors: b.errors,
	}
}
