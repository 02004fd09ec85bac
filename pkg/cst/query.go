package cst

// Walk visits n and its descendants in preorder. If fn returns false the
// node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if !n.IsValid() {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Query describes a structural pattern over a tree: a node kind plus an
// optional predicate. It exists so host tooling can ask for, say, all
// Directive nodes of a given operation without hand-walking the tree.
type Query struct {
	Kind  Kind
	Where func(Node) bool
}

// Find returns all nodes matching the query, in preorder.
func (q Query) Find(t *Tree) []Node {
	var out []Node
	Walk(t.Root(), func(n Node) bool {
		if n.Kind() == q.Kind && (q.Where == nil || q.Where(n)) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindAll returns all nodes of the given kind, in preorder.
func (t *Tree) FindAll(kind Kind) []Node {
	return Query{Kind: kind}.Find(t)
}

// NodeAt returns the smallest node whose span contains the given byte
// offset, or an invalid Node if the offset is outside the root span.
func (t *Tree) NodeAt(offset int) Node {
	n := t.Root()
	if !n.Span().Contains(offset) {
		return Node{}
	}
	for {
		descended := false
		for _, c := range n.Children() {
			if c.Span().Contains(offset) {
				n = c
				descended = true
				break
			}
		}
		if !descended {
			return n
		}
	}
}

// Cursor is a preorder iterator over a tree. Unlike Walk it can be
// suspended and resumed, which the query REPL uses for paging.
type Cursor struct {
	stack []Node
}

// NewCursor creates a cursor positioned before the root.
func NewCursor(t *Tree) *Cursor {
	return &Cursor{stack: []Node{t.Root()}}
}

// Next advances to the next node in preorder. Returns an invalid Node
// when the traversal is exhausted.
func (c *Cursor) Next() Node {
	if len(c.stack) == 0 {
		return Node{}
	}
	n := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	kids := n.Children()
	for i := len(kids) - 1; i >= 0; i-- {
		c.stack = append(c.stack, kids[i])
	}
	return n
}
