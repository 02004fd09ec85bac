package parser

import (
	"strings"
	"unicode"

	"github.com/plsweave/plsweave/pkg/token"
)

// Mode selects the lexer's context-sensitive behavior. The grammar toggles
// it when crossing construct boundaries the token stream alone cannot
// distinguish: embedded SQL regions and the non-PLSQL file forms.
type Mode int

// Lexer modes.
const (
	ModePlsql Mode = iota
	// ModeSql is set while the grammar is inside an embedded SQL region
	// (cursor body, standalone DML). Oracle SQL shares PL/SQL's lexical
	// conventions, so token shapes are unchanged; the mode is carried in
	// LexState so an incremental rejoin can confirm the boundary context.
	ModeSql
	// ModeForm is set for entity/enumeration/views/storage files, where
	// the dynamically registered file-form keywords are live. In PL/SQL
	// bodies those same spellings stay ordinary identifiers.
	ModeForm
)

// LexState is the scanner state threaded between calls and captured for
// incremental resumption. It is a plain value: two lexers at the same
// offset with equal states produce identical token streams.
type LexState struct {
	Mode Mode
}

// Lexer tokenizes IFS PL/SQL superset input. It is a total function over
// the input: anomalies become INVALID tokens, never errors.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
	bol     bool // no token emitted yet on the current line
	mode    Mode
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
		bol:   true,
	}
	l.readChar()
	return l
}

// NewLexerAt creates a Lexer resuming at the given position with the
// given captured state. The position must lie on a token boundary of a
// previous scan of the same input; the incremental engine guarantees
// this by resuming only at reused-subtree edges.
func NewLexerAt(input string, pos token.Position, st LexState) *Lexer {
	l := &Lexer{
		input:   input,
		readPos: pos.Offset,
		line:    pos.Line,
		col:     pos.Column - 1,
		bol:     pos.Column == 1,
		mode:    st.Mode,
	}
	// A recorded position sitting on a newline already carries that
	// newline's line increment; readChar below re-reads the byte and
	// would count it a second time.
	if pos.Offset < len(input) && input[pos.Offset] == '\n' {
		l.line = pos.Line - 1
	}
	l.readChar()
	return l
}

// State returns the current scanner state.
func (l *Lexer) State() LexState {
	return LexState{Mode: l.mode}
}

// SetMode switches the context-sensitive lexing mode. Called by the
// grammar when entering or leaving an embedded SQL region or a file form.
func (l *Lexer) SetMode(m Mode) {
	l.mode = m
}

// Mode returns the current lexing mode.
func (l *Lexer) Mode() Mode {
	return l.mode
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token. It never fails: end of input yields
// EOF tokens forever, unrecognized characters yield INVALID tokens.
func (l *Lexer) NextToken() token.Token {
	leading := l.scanTrivia()

	start := l.currentPos()
	atBOL := l.bol
	l.bol = false

	var tok token.Token

	switch l.ch {
	case 0:
		tok = token.Token{Type: token.EOF, Span: token.Span{Start: start, End: start}}
	case '+':
		tok = l.single(token.PLUS, start)
	case '-':
		tok = l.single(token.MINUS, start)
	case '*':
		tok = l.single(token.STAR, start)
	case '/':
		tok = l.single(token.SLASH, start)
	case '%':
		tok = l.single(token.PERCENT, start)
	case ',':
		tok = l.single(token.COMMA, start)
	case ';':
		tok = l.single(token.SEMI, start)
	case '(':
		tok = l.single(token.LPAREN, start)
	case ')':
		tok = l.single(token.RPAREN, start)
	case '{':
		tok = l.single(token.LBRACE, start)
	case '}':
		tok = l.single(token.RBRACE, start)
	case '=':
		if l.peekChar() == '>' {
			tok = l.double(token.ARROW, start)
		} else {
			tok = l.single(token.EQ, start)
		}
	case '<':
		switch l.peekChar() {
		case '=':
			tok = l.double(token.LE, start)
		case '>':
			tok = l.double(token.NE, start)
		default:
			tok = l.single(token.LT, start)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.double(token.GE, start)
		} else {
			tok = l.single(token.GT, start)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.double(token.NE, start)
		} else {
			tok = l.single(token.INVALID, start)
		}
	case '^':
		if l.peekChar() == '=' {
			tok = l.double(token.NE, start)
		} else {
			tok = l.single(token.INVALID, start)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.double(token.DPIPE, start)
		} else {
			tok = l.single(token.INVALID, start)
		}
	case ':':
		if l.peekChar() == '=' {
			tok = l.double(token.ASSIGN, start)
		} else {
			tok = l.single(token.COLON, start)
		}
	case '.':
		if l.peekChar() == '.' {
			tok = l.double(token.DOTDOT, start)
		} else {
			tok = l.single(token.DOT, start)
		}
	case '\'':
		tok = l.readString(start)
	case '@':
		tok = l.readAnnotation(start)
	case '$':
		tok = l.readDirective(start, atBOL)
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			tok = l.readIdentifier(start)
		case isDigit(l.ch):
			tok = l.readNumber(start)
		default:
			tok = l.single(token.INVALID, start)
		}
	}

	tok.Leading = leading
	return tok
}

// single emits a one-character token.
func (l *Lexer) single(t token.Type, start token.Position) token.Token {
	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: lit, Span: token.Span{Start: start, End: l.currentPos()}}
}

// double emits a two-character token.
func (l *Lexer) double(t token.Type, start token.Position) token.Token {
	lit := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: lit, Span: token.Span{Start: start, End: l.currentPos()}}
}

// scanTrivia collects whitespace and comment runs preceding the next
// token. The spans are retained so trivia plus tokens tile the input.
func (l *Lexer) scanTrivia() []token.Trivia {
	var trivia []token.Trivia
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			start := l.currentPos()
			for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
				if l.ch == '\n' {
					l.bol = true
				}
				l.readChar()
			}
			trivia = append(trivia, token.Trivia{
				Kind: token.Whitespace,
				Text: l.input[start.Offset:l.pos],
				Span: token.Span{Start: start, End: l.currentPos()},
			})
		case l.ch == '-' && l.peekChar() == '-':
			start := l.currentPos()
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			trivia = append(trivia, token.Trivia{
				Kind: token.LineComment,
				Text: l.input[start.Offset:l.pos],
				Span: token.Span{Start: start, End: l.currentPos()},
			})
		case l.ch == '/' && l.peekChar() == '*':
			start := l.currentPos()
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			for l.ch != 0 {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			trivia = append(trivia, token.Trivia{
				Kind: token.BlockComment,
				Text: l.input[start.Offset:l.pos],
				Span: token.Span{Start: start, End: l.currentPos()},
			})
		default:
			return trivia
		}
	}
}

// readString reads a single-quoted string literal. A doubled quote ''
// is an embedded quote, not a terminator. An unterminated literal
// produces an INVALID token spanning to end of input.
func (l *Lexer) readString(start token.Position) token.Token {
	l.readChar() // skip opening quote

	var value strings.Builder
	for {
		if l.ch == 0 {
			return token.Token{
				Type:    token.INVALID,
				Literal: l.input[start.Offset:l.pos],
				Span:    token.Span{Start: start, End: l.currentPos()},
			}
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				value.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			break
		}
		value.WriteByte(l.ch)
		l.readChar()
	}
	return token.Token{
		Type:    token.STRING,
		Literal: value.String(),
		Span:    token.Span{Start: start, End: l.currentPos()},
	}
}

// readAnnotation reads an @-annotation. @Override, @Overtake and
// @UncheckedAccess get dedicated types; any other @Name is a generic
// ANNOTATION token; a bare @ is an AT token.
func (l *Lexer) readAnnotation(start token.Position) token.Token {
	l.readChar() // skip '@'
	if !isLetter(l.ch) {
		return token.Token{
			Type:    token.AT,
			Literal: "@",
			Span:    token.Span{Start: start, End: l.currentPos()},
		}
	}
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	lit := l.input[start.Offset:l.pos]

	t := token.ANNOTATION
	switch strings.ToLower(lit) {
	case "@override":
		t = token.OVERRIDE
	case "@overtake":
		t = token.OVERTAKE
	case "@uncheckedaccess":
		t = token.UNCHECKED
	}
	return token.Token{Type: t, Literal: lit, Span: token.Span{Start: start, End: l.currentPos()}}
}

// readDirective reads a $-marker. Markers are recognized only as the
// first token on a line (after optional whitespace), so a mid-line $
// cannot collide with other dollar uses. Unknown markers and mid-line
// markers are lexical anomalies, not failures.
func (l *Lexer) readDirective(start token.Position, atBOL bool) token.Token {
	l.readChar() // skip '$'
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	lit := l.input[start.Offset:l.pos]
	span := token.Span{Start: start, End: l.currentPos()}

	if !atBOL {
		return token.Token{Type: token.INVALID, Literal: lit, Span: span}
	}
	if t, ok := token.LookupDirective(strings.ToUpper(lit)); ok {
		return token.Token{Type: t, Literal: lit, Span: span}
	}
	return token.Token{Type: token.INVALID, Literal: lit, Span: span}
}

// readIdentifier reads an unquoted identifier or keyword. Oracle
// identifiers may contain _, $ and # after the leading letter; keyword
// classification is case-insensitive. Trailing-underscore visibility
// forms are ordinary IDENT tokens.
func (l *Lexer) readIdentifier(start token.Position) token.Token {
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' || l.ch == '#' {
		l.readChar()
	}
	lit := l.input[start.Offset:l.pos]
	lower := strings.ToLower(lit)

	t := token.LookupIdent(lower)
	if t == token.IDENT && l.mode == ModeForm {
		if dyn, ok := token.LookupDynamicKeyword(lower); ok {
			t = dyn
		}
	}
	return token.Token{Type: t, Literal: lit, Span: token.Span{Start: start, End: l.currentPos()}}
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber(start token.Position) token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1])) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	lit := l.input[start.Offset:l.pos]
	return token.Token{Type: token.NUMBER, Literal: lit, Span: token.Span{Start: start, End: l.currentPos()}}
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, EOF included.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
