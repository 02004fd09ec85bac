package index

import (
	"github.com/plsweave/plsweave/pkg/cst"
)

// Extract pulls the indexable symbols out of a parsed tree: package
// members and top-level declarations, with directive payload contents
// included (a woven-in procedure is still a procedure to a caller
// searching for it). Nested block-local declarations are not indexed.
func Extract(tree *cst.Tree) []*Symbol {
	var out []*Symbol
	cst.Walk(tree.Root(), func(n cst.Node) bool {
		switch n.Kind() {
		case cst.KindFile, cst.KindPackageSpec, cst.KindPackageBody,
			cst.KindDirective, cst.KindDirectiveAnchor, cst.KindDirectivePayload,
			cst.KindEntity, cst.KindEnumeration, cst.KindViews, cst.KindStorage:
			// Containers to descend into.
			if sym := symbolFor(n); sym != nil {
				out = append(out, sym)
			}
			return true
		default:
			if sym := symbolFor(n); sym != nil {
				out = append(out, sym)
			}
			return false
		}
	})
	return out
}

// symbolFor converts one named declaration node, or nil.
func symbolFor(n cst.Node) *Symbol {
	switch n.Kind() {
	case cst.KindPackageSpec, cst.KindPackageBody,
		cst.KindProcedure, cst.KindFunction, cst.KindCursorDecl,
		cst.KindConstantDecl, cst.KindVariableDecl, cst.KindExceptionDecl,
		cst.KindTypeDecl, cst.KindSubtypeDecl,
		cst.KindViewDef, cst.KindColumnDef, cst.KindTableDef,
		cst.KindIndexDef, cst.KindSequenceDef:
	default:
		return nil
	}
	name := n.Name()
	if name == "" {
		return nil
	}
	start := n.Span().Start
	return &Symbol{
		Name:       name,
		Kind:       n.Kind().String(),
		Visibility: cst.VisibilityOf(name).String(),
		Line:       start.Line,
		Column:     start.Column,
	}
}
