package cst

// Annotation binding is positional: an Annotation node annotates the
// next Procedure or Function sibling, and a stack of Annotation
// siblings all bind to the same declaration. A dangling annotation is
// wrapped in an Error node by the parser and binds to nothing.

// siblingIndex returns n's position among its parent's children, -1 at
// the root.
func (n Node) siblingIndex() int {
	p := n.Parent()
	if !p.IsValid() {
		return -1
	}
	for i, id := range n.tree.nodes[p.id].children {
		if id == n.id {
			return i
		}
	}
	return -1
}

// Target returns the declaration an Annotation node binds to: the next
// Procedure or Function sibling, skipping annotations stacked between.
// The invalid Node is returned for non-annotation nodes and for
// dangling annotations.
func (n Node) Target() Node {
	if n.Kind() != KindAnnotation {
		return Node{}
	}
	idx := n.siblingIndex()
	if idx < 0 {
		return Node{}
	}
	parent := n.Parent()
	for i := idx + 1; i < parent.NumChildren(); i++ {
		c := parent.Child(i)
		switch c.Kind() {
		case KindAnnotation:
			continue
		case KindProcedure, KindFunction:
			return c
		default:
			return Node{}
		}
	}
	return Node{}
}

// Annotations returns the Annotation siblings stacked immediately
// before a Procedure or Function, in source order. Nil for other node
// kinds and for unannotated declarations.
func (n Node) Annotations() []Node {
	switch n.Kind() {
	case KindProcedure, KindFunction:
	default:
		return nil
	}
	idx := n.siblingIndex()
	if idx < 0 {
		return nil
	}
	parent := n.Parent()
	lo := idx
	for lo > 0 && parent.Child(lo-1).Kind() == KindAnnotation {
		lo--
	}
	if lo == idx {
		return nil
	}
	out := make([]Node, 0, idx-lo)
	for ; lo < idx; lo++ {
		out = append(out, parent.Child(lo))
	}
	return out
}
