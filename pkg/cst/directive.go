package cst

import "github.com/plsweave/plsweave/pkg/token"

// DirectiveOp is the operation a code-weaving directive block performs.
type DirectiveOp int

// Directive operations.
const (
	DirectiveSearch DirectiveOp = iota // $SEARCH block with no payload marker
	DirectiveAppend
	DirectiveReplace
	DirectivePrepend
)

func (op DirectiveOp) String() string {
	switch op {
	case DirectiveSearch:
		return "SEARCH"
	case DirectiveAppend:
		return "APPEND"
	case DirectiveReplace:
		return "REPLACE"
	case DirectivePrepend:
		return "PREPEND"
	}
	return "?"
}

// DirectiveInfo is the decoded view of one Directive node.
//
// A block is $SEARCH ... ($APPEND|$REPLACE|$PREPEND) ... $END, or a pure
// insertion $APPEND/$PREPEND ... $END with no anchor. The $TEXT* marker
// variants only change downstream whitespace handling, never tree shape,
// so they surface here as the Text flag on an otherwise identical block.
type DirectiveInfo struct {
	Op         DirectiveOp
	Text       bool // $TEXT* marker variant
	Anchor     Node // DirectiveAnchor group; invalid for pure insertions
	Payload    Node // DirectivePayload group; invalid for pure $SEARCH
	Terminated bool // true when the block has its matching $END
}

// Directive decodes a Directive (or Error-retagged directive) node.
// Returns false if the node carries no directive marker.
func (n Node) Directive() (DirectiveInfo, bool) {
	if k := n.Kind(); k != KindDirective && k != KindError {
		return DirectiveInfo{}, false
	}

	var info DirectiveInfo
	seen := false
	for _, c := range n.Children() {
		if c.Kind() == KindDirectiveAnchor {
			info.Anchor = c
			continue
		}
		if c.Kind() == KindDirectivePayload {
			info.Payload = c
			continue
		}
		tok, ok := c.Token()
		if !ok || !token.IsDirective(tok.Type) {
			continue
		}
		switch tok.Type {
		case token.DEND:
			info.Terminated = true
		case token.DSEARCH, token.DTEXTSEARCH:
			// Op stays SEARCH unless a payload marker follows.
			seen = true
			info.Text = tok.Type == token.DTEXTSEARCH
		case token.DAPPEND, token.DTEXTAPPEND:
			seen = true
			info.Op = DirectiveAppend
			info.Text = info.Text || tok.Type == token.DTEXTAPPEND
		case token.DREPLACE, token.DTEXTREPLACE:
			seen = true
			info.Op = DirectiveReplace
			info.Text = info.Text || tok.Type == token.DTEXTREPLACE
		case token.DPREPEND, token.DTEXTPREPEND:
			seen = true
			info.Op = DirectivePrepend
			info.Text = info.Text || tok.Type == token.DTEXTPREPEND
		}
	}
	if !seen {
		return DirectiveInfo{}, false
	}
	return info, true
}
