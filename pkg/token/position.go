package token

import "fmt"

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Shift returns the position translated by the given byte and line deltas.
// The column is preserved; callers must only shift positions that keep
// their column, i.e. positions at or after a full-line boundary.
func (p Position) Shift(byteDelta, lineDelta int) Position {
	return Position{
		Line:   p.Line + lineDelta,
		Column: p.Column,
		Offset: p.Offset + byteDelta,
	}
}

// Span represents a half-open byte range [Start, End) in source code.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// Union returns the smallest span covering both s and o.
func (s Span) Union(o Span) Span {
	if !s.IsValid() {
		return o
	}
	if !o.IsValid() {
		return s
	}
	u := s
	if o.Start.Offset < u.Start.Offset {
		u.Start = o.Start
	}
	if o.End.Offset > u.End.Offset {
		u.End = o.End
	}
	return u
}

// Shift returns the span translated by the given byte and line deltas.
func (s Span) Shift(byteDelta, lineDelta int) Span {
	return Span{
		Start: s.Start.Shift(byteDelta, lineDelta),
		End:   s.End.Shift(byteDelta, lineDelta),
	}
}
