package token

// TriviaKind distinguishes whitespace, line and block comment runs.
type TriviaKind int

// Trivia kinds.
const (
	Whitespace   TriviaKind = iota
	LineComment             // -- comment
	BlockComment            // /* comment */
)

func (k TriviaKind) String() string {
	switch k {
	case Whitespace:
		return "Whitespace"
	case LineComment:
		return "LineComment"
	case BlockComment:
		return "BlockComment"
	}
	return "TriviaKind(?)"
}

// Trivia represents a skipped source region (whitespace or comment)
// attached to the token that follows it. Retaining trivia spans keeps
// the token stream a lossless tiling of the input.
type Trivia struct {
	Kind TriviaKind
	Text string // includes delimiters (-- or /* */)
	Span Span
}

// IsComment returns true for line and block comments.
func (tr Trivia) IsComment() bool {
	return tr.Kind == LineComment || tr.Kind == BlockComment
}
