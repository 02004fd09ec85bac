package cst

import (
	"fmt"

	"github.com/plsweave/plsweave/pkg/token"
)

// Diagnostic is one syntax-level finding: an Error node or an INVALID
// token. The parser never aborts, so diagnostics are the only way a
// malformed input announces itself.
type Diagnostic struct {
	Span    token.Span
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Span.Start, d.Message)
}

// Diagnostics collects all syntax anomalies in the tree, in source order.
func (t *Tree) Diagnostics() []Diagnostic {
	var out []Diagnostic
	Walk(t.Root(), func(n Node) bool {
		if tok, ok := n.Token(); ok {
			if tok.Type == token.INVALID {
				out = append(out, Diagnostic{
					Span:    tok.Span,
					Message: fmt.Sprintf("invalid token %q", tok.Literal),
				})
			}
			return false
		}
		if n.Kind() == KindError {
			out = append(out, Diagnostic{
				Span:    n.Span(),
				Message: "syntax error",
			})
		}
		return true
	})
	return out
}
