package parser

import (
	"fmt"
	"strings"

	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/token"
)

// Incremental re-parse. The unit of reuse is the top-level member: a
// package, or a declaration directly inside one. A member survives an
// edit when its bytes (leading trivia included) lie entirely on one side
// of the edited range; surviving subtrees are imported into the new tree
// as flat record copies with shifted spans, and the lexer jumps over
// them. Everything else is re-parsed from source. When nothing
// qualifies, Reparse degrades to a full parse of the edited text.

// Edit describes a single contiguous text replacement, in byte offsets
// of the tree's source: [StartByte, OldEndByte) is removed and NewText
// takes its place, ending at NewEndByte in the edited source.
type Edit struct {
	StartByte  int
	OldEndByte int
	NewEndByte int
	NewText    string
}

// Apply returns the edited source text.
func (e Edit) Apply(src string) string {
	return src[:e.StartByte] + e.NewText + src[e.OldEndByte:]
}

func (e Edit) validate(srcLen int) error {
	switch {
	case e.StartByte < 0,
		e.OldEndByte < e.StartByte,
		e.OldEndByte > srcLen,
		e.NewEndByte < e.StartByte,
		e.NewEndByte-e.StartByte != len(e.NewText):
		return editError(e, srcLen)
	}
	return nil
}

// Reparse parses the source that results from applying the edit to the
// old tree's source, reusing old subtrees where the edit cannot have
// affected them. The returned tree is always equivalent to a fresh
// Parse of the edited text.
//
// The only failure mode is a malformed edit descriptor, reported as
// ErrInvalidEdit. Syntax problems in the edited text never cause an
// error; they surface inside the tree like on any other parse.
func Reparse(old *cst.Tree, e Edit) (*cst.Tree, error) {
	if old == nil {
		return nil, fmt.Errorf("%w: nil previous tree", ErrInvalidEdit)
	}
	if err := e.validate(len(old.Src())); err != nil {
		return nil, err
	}
	newSrc := e.Apply(old.Src())

	p := newParser(newSrc, collectReuse(old, e, newSrc))
	p.oldTree = old
	return p.parseFile(), nil
}

// reuseEntry records one old subtree eligible for reuse, keyed in the
// parser's table by the new-source offset of its first token.
type reuseEntry struct {
	id        cst.NodeID
	parent    cst.Kind // kind of the node's parent in the old tree
	byteDelta int
	lineDelta int
	extStart  int            // new-source offset of the first leading trivia byte
	endPos    token.Position // shifted position just past the subtree
}

// collectReuse walks the old tree's top level (and package member level)
// for subtrees untouched by the edit.
func collectReuse(old *cst.Tree, e Edit, newSrc string) map[int]reuseEntry {
	byteDelta := e.NewEndByte - e.OldEndByte
	oldRegion := old.Src()[e.StartByte:e.OldEndByte]
	lineDelta := strings.Count(e.NewText, "\n") - strings.Count(oldRegion, "\n")

	reuse := make(map[int]reuseEntry)
	for _, c := range old.Root().Children() {
		considerReuse(reuse, c, e, newSrc, byteDelta, lineDelta)
		switch c.Kind() {
		case cst.KindPackageSpec, cst.KindPackageBody:
			for _, m := range c.Children() {
				considerReuse(reuse, m, e, newSrc, byteDelta, lineDelta)
			}
		}
	}
	return reuse
}

// reusableKinds are the member productions worth carrying across edits.
// Error nodes are excluded: re-parsing a previously broken region is
// what lets a fix actually take effect.
func reusableKind(k cst.Kind) bool {
	switch k {
	case cst.KindPackageSpec, cst.KindPackageBody,
		cst.KindProcedure, cst.KindFunction, cst.KindCursorDecl,
		cst.KindConstantDecl, cst.KindVariableDecl, cst.KindExceptionDecl,
		cst.KindTypeDecl, cst.KindSubtypeDecl, cst.KindPragma,
		cst.KindDirective:
		return true
	}
	return false
}

func considerReuse(reuse map[int]reuseEntry, n cst.Node, e Edit, newSrc string, byteDelta, lineDelta int) {
	if !reusableKind(n.Kind()) {
		return
	}
	first, ok := firstTokenOf(n)
	if !ok {
		return
	}
	extStart := first.FullStart().Offset
	end := n.Span().End

	var bd, ld int
	switch {
	case end.Offset < e.StartByte:
		// Entirely before the edit, with at least one unchanged byte
		// between the subtree and the edit so its last token cannot
		// merge with inserted text. Positions are unchanged.
	case extStart >= e.OldEndByte:
		bd, ld = byteDelta, lineDelta
		// Shifted positions keep their column, which only holds when
		// the subtree's run of bytes begins a line in the new source.
		ns := extStart + bd
		if ns > 0 && newSrc[ns-1] != '\n' {
			return
		}
	default:
		// Overlaps the edited range.
		return
	}

	key := first.Span.Start.Offset + bd
	reuse[key] = reuseEntry{
		id:        n.ID(),
		parent:    n.Parent().Kind(),
		byteDelta: bd,
		lineDelta: ld,
		extStart:  extStart + bd,
		endPos:    end.Shift(bd, ld),
	}
}

// firstTokenOf returns the first leaf token under n.
func firstTokenOf(n cst.Node) (token.Token, bool) {
	if tok, ok := n.Token(); ok {
		return tok, true
	}
	for i := 0; i < n.NumChildren(); i++ {
		if tok, ok := firstTokenOf(n.Child(i)); ok {
			return tok, true
		}
	}
	return token.Token{}, false
}

// tryReuse imports an old subtree if one is registered at the current
// token and the parse context matches the old one. On success the lexer
// resumes just past the imported region. Returns false, consuming
// nothing, when no reuse applies.
func (p *Parser) tryReuse(parent cst.Kind) bool {
	if p.oldTree == nil || len(p.reuse) == 0 {
		return false
	}
	ent, ok := p.reuse[p.token.Start().Offset]
	if !ok {
		return false
	}
	// Context guards: same parent production as in the old tree, same
	// leading-trivia extent, base lexing mode.
	if ent.parent != parent || p.b.CurrentKind() != parent {
		return false
	}
	if p.token.FullStart().Offset != ent.extStart {
		return false
	}
	if p.lexer.Mode() != ModePlsql {
		return false
	}

	p.b.Import(p.oldTree, ent.id, ent.byteDelta, ent.lineDelta)

	p.lexer = NewLexerAt(p.src, ent.endPos, LexState{Mode: ModePlsql})
	p.token = p.lexer.NextToken()
	p.peek = p.lexer.NextToken()
	p.peek2 = p.lexer.NextToken()
	return true
}
