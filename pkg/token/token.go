// Package token defines the lexical vocabulary of the IFS PL/SQL superset.
//
// Core Oracle PL/SQL and SQL terminals are defined as constants (IDs 0-999)
// for switch performance. File-form specific keywords (entity, enumeration,
// views, storage) are registered dynamically via Register().
package token

import "fmt"

// Type represents the type of a lexical token.
type Type int32

//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Special tokens
	EOF Type = iota
	INVALID

	// Literals
	IDENT  // identifier, including trailing-underscore forms
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello', with '' doubling

	// Operators and delimiters
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	EQ      // =
	NE      // != or <> or ^=
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=
	ASSIGN  // :=
	ARROW   // =>
	DPIPE   // ||
	DOTDOT  // ..
	PERCENT // % (attribute refs: %TYPE, %ROWTYPE, %FOUND)
	DOT     // .
	COMMA   // ,
	SEMI    // ;
	COLON   // :
	LPAREN  // (
	RPAREN  // )
	LBRACE  // {
	RBRACE  // }
	AT      // @ (layer reference suffix)

	// Code-weaving directive markers, recognized at start of line only
	DSEARCH      // $SEARCH
	DAPPEND      // $APPEND
	DREPLACE     // $REPLACE
	DPREPEND     // $PREPEND
	DEND         // $END
	DTEXTSEARCH  // $TEXTSEARCH
	DTEXTAPPEND  // $TEXTAPPEND
	DTEXTREPLACE // $TEXTREPLACE
	DTEXTPREPEND // $TEXTPREPEND

	// Annotations
	OVERRIDE   // @Override
	OVERTAKE   // @Overtake
	UNCHECKED  // @UncheckedAccess
	ANNOTATION // any other @Name

	// Keywords (alphabetical)
	ALL
	AND
	AS
	ASC
	BEGIN
	BETWEEN
	BODY
	BY
	CASE
	CONSTANT
	CURSOR
	DECLARE
	DEFAULT
	DELETE
	DESC
	DISTINCT
	ELSE
	ELSIF
	END
	EXCEPTION
	EXISTS
	EXIT
	FETCH
	FOR
	FROM
	FULL
	FUNCTION
	GROUP
	HAVING
	IF
	IN
	INNER
	INSERT
	INTO
	IS
	JOIN
	LEFT
	LIKE
	LOOP
	NOT
	NULL
	OF
	ON
	OR
	ORDER
	OUT
	OUTER
	PACKAGE
	PRAGMA
	PROCEDURE
	RAISE
	RECORD
	RETURN
	REVERSE
	RIGHT
	SELECT
	SET
	SUBTYPE
	THEN
	TYPE
	UNION
	UPDATE
	VALUES
	WHEN
	WHERE
	WHILE

	// Sentinel - dynamic tokens start after this
	maxBuiltin Type = 999
)

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	// Check dynamic tokens first
	if name, ok := getDynamicName(t); ok {
		return name
	}
	// Then check builtin tokens
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps builtin token types to their string representations.
var tokenNames = map[Type]string{
	EOF:     "EOF",
	INVALID: "INVALID",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	EQ:      "=",
	NE:      "!=",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",
	ASSIGN:  ":=",
	ARROW:   "=>",
	DPIPE:   "||",
	DOTDOT:  "..",
	PERCENT: "%",
	DOT:     ".",
	COMMA:   ",",
	SEMI:    ";",
	COLON:   ":",
	LPAREN:  "(",
	RPAREN:  ")",
	LBRACE:  "{",
	RBRACE:  "}",
	AT:      "@",

	DSEARCH:      "$SEARCH",
	DAPPEND:      "$APPEND",
	DREPLACE:     "$REPLACE",
	DPREPEND:     "$PREPEND",
	DEND:         "$END",
	DTEXTSEARCH:  "$TEXTSEARCH",
	DTEXTAPPEND:  "$TEXTAPPEND",
	DTEXTREPLACE: "$TEXTREPLACE",
	DTEXTPREPEND: "$TEXTPREPEND",

	OVERRIDE:   "@Override",
	OVERTAKE:   "@Overtake",
	UNCHECKED:  "@UncheckedAccess",
	ANNOTATION: "ANNOTATION",

	ALL:       "ALL",
	AND:       "AND",
	AS:        "AS",
	ASC:       "ASC",
	BEGIN:     "BEGIN",
	BETWEEN:   "BETWEEN",
	BODY:      "BODY",
	BY:        "BY",
	CASE:      "CASE",
	CONSTANT:  "CONSTANT",
	CURSOR:    "CURSOR",
	DECLARE:   "DECLARE",
	DEFAULT:   "DEFAULT",
	DELETE:    "DELETE",
	DESC:      "DESC",
	DISTINCT:  "DISTINCT",
	ELSE:      "ELSE",
	ELSIF:     "ELSIF",
	END:       "END",
	EXCEPTION: "EXCEPTION",
	EXISTS:    "EXISTS",
	EXIT:      "EXIT",
	FETCH:     "FETCH",
	FOR:       "FOR",
	FROM:      "FROM",
	FULL:      "FULL",
	FUNCTION:  "FUNCTION",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	IF:        "IF",
	IN:        "IN",
	INNER:     "INNER",
	INSERT:    "INSERT",
	INTO:      "INTO",
	IS:        "IS",
	JOIN:      "JOIN",
	LEFT:      "LEFT",
	LIKE:      "LIKE",
	LOOP:      "LOOP",
	NOT:       "NOT",
	NULL:      "NULL",
	OF:        "OF",
	ON:        "ON",
	OR:        "OR",
	ORDER:     "ORDER",
	OUT:       "OUT",
	OUTER:     "OUTER",
	PACKAGE:   "PACKAGE",
	PRAGMA:    "PRAGMA",
	PROCEDURE: "PROCEDURE",
	RAISE:     "RAISE",
	RECORD:    "RECORD",
	RETURN:    "RETURN",
	REVERSE:   "REVERSE",
	RIGHT:     "RIGHT",
	SELECT:    "SELECT",
	SET:       "SET",
	SUBTYPE:   "SUBTYPE",
	THEN:      "THEN",
	TYPE:      "TYPE",
	UNION:     "UNION",
	UPDATE:    "UPDATE",
	VALUES:    "VALUES",
	WHEN:      "WHEN",
	WHERE:     "WHERE",
	WHILE:     "WHILE",
}

// keywords maps lowercase keyword strings to their token types.
// Keyword recognition is case-insensitive per Oracle convention; callers
// must lowercase the lexeme before lookup.
var keywords = map[string]Type{
	"all":       ALL,
	"and":       AND,
	"as":        AS,
	"asc":       ASC,
	"begin":     BEGIN,
	"between":   BETWEEN,
	"body":      BODY,
	"by":        BY,
	"case":      CASE,
	"constant":  CONSTANT,
	"cursor":    CURSOR,
	"declare":   DECLARE,
	"default":   DEFAULT,
	"delete":    DELETE,
	"desc":      DESC,
	"distinct":  DISTINCT,
	"else":      ELSE,
	"elsif":     ELSIF,
	"end":       END,
	"exception": EXCEPTION,
	"exists":    EXISTS,
	"exit":      EXIT,
	"fetch":     FETCH,
	"for":       FOR,
	"from":      FROM,
	"full":      FULL,
	"function":  FUNCTION,
	"group":     GROUP,
	"having":    HAVING,
	"if":        IF,
	"in":        IN,
	"inner":     INNER,
	"insert":    INSERT,
	"into":      INTO,
	"is":        IS,
	"join":      JOIN,
	"left":      LEFT,
	"like":      LIKE,
	"loop":      LOOP,
	"not":       NOT,
	"null":      NULL,
	"of":        OF,
	"on":        ON,
	"or":        OR,
	"order":     ORDER,
	"out":       OUT,
	"outer":     OUTER,
	"package":   PACKAGE,
	"pragma":    PRAGMA,
	"procedure": PROCEDURE,
	"raise":     RAISE,
	"record":    RECORD,
	"return":    RETURN,
	"reverse":   REVERSE,
	"right":     RIGHT,
	"select":    SELECT,
	"set":       SET,
	"subtype":   SUBTYPE,
	"then":      THEN,
	"type":      TYPE,
	"union":     UNION,
	"update":    UPDATE,
	"values":    VALUES,
	"when":      WHEN,
	"where":     WHERE,
	"while":     WHILE,
}

// directives maps uppercase directive marker spellings to their token types.
var directives = map[string]Type{
	"$SEARCH":      DSEARCH,
	"$APPEND":      DAPPEND,
	"$REPLACE":     DREPLACE,
	"$PREPEND":     DPREPEND,
	"$END":         DEND,
	"$TEXTSEARCH":  DTEXTSEARCH,
	"$TEXTAPPEND":  DTEXTAPPEND,
	"$TEXTREPLACE": DTEXTREPLACE,
	"$TEXTPREPEND": DTEXTPREPEND,
}

// LookupIdent returns the token type for the given lowercased identifier.
// If the identifier is a builtin keyword, the keyword token type is
// returned. Otherwise, IDENT is returned.
// This only checks builtin keywords; dynamic keywords registered by file
// forms are resolved via LookupDynamicKeyword.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// LookupDirective returns the token type for an uppercased $-marker
// spelling. Returns INVALID and false for unknown markers.
func LookupDirective(marker string) (Type, bool) {
	if tok, ok := directives[marker]; ok {
		return tok, true
	}
	return INVALID, false
}

// IsKeyword returns true if the token type is a builtin keyword.
func IsKeyword(t Type) bool {
	return t >= ALL && t <= WHILE
}

// IsDirective returns true if the token type is a code-weaving directive
// marker.
func IsDirective(t Type) bool {
	return t >= DSEARCH && t <= DTEXTPREPEND
}

// IsDirectiveOpen returns true for markers that open a directive block
// (everything except $END).
func IsDirectiveOpen(t Type) bool {
	return IsDirective(t) && t != DEND
}

// IsAnnotation returns true if the token type is an @-annotation.
func IsAnnotation(t Type) bool {
	return t >= OVERRIDE && t <= ANNOTATION
}

// Token represents a lexical token with position information.
// Leading holds the whitespace and comment runs skipped immediately before
// the token, so that trivia plus token spans tile the whole input.
type Token struct {
	Type    Type
	Literal string
	Span    Span
	Leading []Trivia
}

// Start returns the token's start position, excluding leading trivia.
func (t Token) Start() Position { return t.Span.Start }

// FullStart returns the start position including leading trivia.
func (t Token) FullStart() Position {
	if len(t.Leading) > 0 {
		return t.Leading[0].Span.Start
	}
	return t.Span.Start
}
