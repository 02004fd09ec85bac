package cst

import "strings"

// Visibility is the access level a trailing-underscore naming convention
// implies for a procedure or function. This is a consumer-level reading
// of an ordinary identifier: the lexer and grammar treat Do_Thing,
// Do_Thing__ and Do_Thing___ identically.
type Visibility int

// Visibility levels.
const (
	Public    Visibility = iota // no trailing underscore
	Protected                   // two trailing underscores
	Private                     // three trailing underscores
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	}
	return "public"
}

// VisibilityOf classifies a declared name by its trailing underscores.
func VisibilityOf(name string) Visibility {
	switch {
	case strings.HasSuffix(name, "___"):
		return Private
	case strings.HasSuffix(name, "__"):
		return Protected
	}
	return Public
}
