// Package bisect localizes syntax errors by binary search over line
// prefixes. It treats the parser as a black box with a boolean outcome
// (tree.HasErrors), which makes it a useful cross-check of the parser's
// own error spans: the two should point at the same neighborhood.
package bisect

import (
	"strings"

	"github.com/plsweave/plsweave/pkg/parser"
)

// Result describes the first failing region of a source text.
type Result struct {
	// Clean is true when the whole input parses without errors.
	Clean bool
	// FirstBadLine is the 1-based line at which error onset occurs: the
	// shortest line prefix ending here parses with errors. Note that a
	// construct left open (an unterminated block or directive) shows its
	// onset at the truncation point, which can trail the true culprit.
	FirstBadLine int
	// TotalLines is the line count of the input.
	TotalLines int
}

// Run locates a transition line: some prefix ending at FirstBadLine
// parses with errors while the prefix one line shorter parses clean.
// Prefix truncation can itself manufacture errors (cutting a package in
// half is a syntax error), so the predicate is not strictly monotone;
// the search still converges on a transition point, which in practice
// lands on or just after the offending line.
func Run(src string) Result {
	lines := splitLines(src)
	n := len(lines)
	res := Result{TotalLines: n}

	if !parseHasErrors(src) {
		res.Clean = true
		return res
	}

	// Invariant: prefix(hi) has errors, and no prefix longer than hi is
	// known clean. Search the largest clean prefix below it.
	lo, hi := 0, n
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if parseHasErrors(join(lines[:mid])) {
			hi = mid
		} else {
			lo = mid
		}
	}
	res.FirstBadLine = hi
	return res
}

func parseHasErrors(src string) bool {
	return parser.Parse(src).HasErrors()
}

// splitLines splits keeping terminators, so prefixes are byte prefixes
// of the original input.
func splitLines(src string) []string {
	var lines []string
	for len(src) > 0 {
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			lines = append(lines, src)
			break
		}
		lines = append(lines, src[:i+1])
		src = src[i+1:]
	}
	return lines
}

func join(lines []string) string {
	return strings.Join(lines, "")
}
