// Package parser turns IFS PL/SQL superset source into a concrete syntax
// tree.
//
// # Usage
//
//	tree := parser.Parse(src)
//	if tree.HasErrors() { ... }
//
// Parse is total: it always returns a tree covering the whole input, with
// syntax anomalies captured as Error nodes and INVALID tokens. Reparse
// re-parses after an edit, reusing unaffected top-level members from the
// previous tree.
//
// # Grammar Overview
//
// The engine is a recursive-descent parser with panic-free error
// recovery. A single grammar covers every file form; the top-level
// production is selected by the file's leading tokens:
//
//	file    → package | package_body | item* | entity | enumeration
//	        | views | storage
//	package → PACKAGE [BODY] name (IS|AS) member* END [name] ";" ["/"]
//	item    → annotation | directive | procedure | function
//
// Embedded Oracle SQL (cursor bodies, standalone DML) is parsed by a
// separate production set in parser_sql.go; keeping the SQL grammar
// nested but distinct avoids inflating the PL/SQL grammar with SQL's
// breadth.
package parser

import (
	"strings"

	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/token"
)

// Parser holds one parse session's state.
type Parser struct {
	src   string
	lexer *Lexer
	b     *cst.Builder

	token token.Token // current token
	peek  token.Token // lookahead token
	peek2 token.Token // second lookahead token

	// Incremental reuse table, keyed by new-source start offset of a
	// reusable old subtree. Empty for fresh parses.
	reuse   map[int]reuseEntry
	oldTree *cst.Tree
}

// Parse parses the given source text into a tree. It never fails.
func Parse(src string) *cst.Tree {
	p := newParser(src, nil)
	return p.parseFile()
}

func newParser(src string, reuse map[int]reuseEntry) *Parser {
	mode := ModePlsql
	if detectForm(src) != cst.KindNil {
		mode = ModeForm
	}
	l := NewLexer(src)
	l.SetMode(mode)

	p := &Parser{
		src:   src,
		lexer: l,
		b:     cst.NewBuilder(src),
		reuse: reuse,
	}
	// Read three tokens to initialize current, peek, and peek2.
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// detectForm sniffs the leading tokens to decide whether the file is one
// of the non-PLSQL forms. The scan is bounded; package and layered
// PL/SQL files return KindNil.
func detectForm(src string) cst.Kind {
	l := NewLexer(src)
	sawLayer := false
	for i := 0; i < 8; i++ {
		tok := l.NextToken()
		if tok.Type != token.IDENT {
			// PL/SQL files (including layered ones that open with a
			// "layer" line) reveal themselves with these tokens.
			switch {
			case tok.Type == token.EOF,
				tok.Type == token.PACKAGE,
				tok.Type == token.PROCEDURE,
				tok.Type == token.FUNCTION,
				token.IsAnnotation(tok.Type),
				token.IsDirective(tok.Type):
				return cst.KindNil
			}
			continue
		}
		switch strings.ToLower(tok.Literal) {
		case "entityname":
			return cst.KindEntity
		case "enumerationname":
			return cst.KindEnumeration
		case "layer":
			sawLayer = true
		case "column", "view":
			if sawLayer {
				return cst.KindViews
			}
		case "table", "index", "sequence":
			if sawLayer {
				return cst.KindStorage
			}
		default:
			if !sawLayer {
				return cst.KindNil
			}
		}
	}
	if sawLayer {
		return cst.KindViews
	}
	return cst.KindNil
}

// parseFile parses the whole input into a File tree.
func (p *Parser) parseFile() *cst.Tree {
	p.b.Open(cst.KindFile)

	switch form := detectForm(p.src); form {
	case cst.KindEntity:
		p.parseEntity()
	case cst.KindEnumeration:
		p.parseEnumeration()
	case cst.KindViews:
		p.parseViews()
	case cst.KindStorage:
		p.parseStorage()
	default:
		p.parseTopLevelItems()
	}

	// Attach the EOF token so trailing trivia stays in the tree.
	p.b.Token(p.token)
	p.b.Close()
	return p.b.Finish()
}

// parseTopLevelItems parses a PL/SQL file: either a package (spec or
// body) or a layered file of bare procedure/function implementations.
func (p *Parser) parseTopLevelItems() {
	for !p.check(token.EOF) {
		if p.tryReuse(cst.KindFile) {
			continue
		}
		switch {
		case p.check(token.PACKAGE):
			p.parsePackage()
		case p.check(token.PROCEDURE):
			p.parseRoutine(cst.KindProcedure)
		case p.check(token.FUNCTION):
			p.parseRoutine(cst.KindFunction)
		case token.IsAnnotation(p.token.Type):
			p.parseAnnotation(token.PROCEDURE, token.FUNCTION)
		case token.IsDirectiveOpen(p.token.Type):
			p.parseDirective(p.parseTopLevelDirectiveItem)
		case p.check(token.SLASH):
			// SQL*Plus style terminator line.
			p.bump()
		case p.check(token.IDENT) && strings.EqualFold(p.token.Literal, "layer"):
			p.parseLayerLine()
		default:
			p.errorUntil(token.PACKAGE, token.PROCEDURE, token.FUNCTION)
		}
	}
}

// parseTopLevelDirectiveItem parses one item inside a top-level
// directive group.
func (p *Parser) parseTopLevelDirectiveItem() {
	switch {
	case p.check(token.PROCEDURE):
		p.parseRoutine(cst.KindProcedure)
	case p.check(token.FUNCTION):
		p.parseRoutine(cst.KindFunction)
	case token.IsAnnotation(p.token.Type):
		p.parseAnnotation(token.PROCEDURE, token.FUNCTION)
	default:
		p.errorUntil(token.PROCEDURE, token.FUNCTION)
	}
}

// ---------- Token Helpers ----------

// nextToken advances the lookahead window without emitting anything.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// bump attaches the current token as a leaf and advances.
func (p *Parser) bump() {
	p.b.Token(p.token)
	p.nextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.Type) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.Type) bool {
	return p.peek.Type == t
}

// match bumps the current token if it matches and returns true.
func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.bump()
		return true
	}
	return false
}

// expect bumps the current token if it matches; otherwise it records a
// zero-width Error node at the current position and leaves the token for
// the caller's recovery.
func (p *Parser) expect(t token.Type) bool {
	if p.check(t) {
		p.bump()
		return true
	}
	p.b.Open(cst.KindError)
	p.b.Close()
	return false
}

// at reports whether the current token is one of the given types.
func (p *Parser) at(types ...token.Type) bool {
	for _, t := range types {
		if p.token.Type == t {
			return true
		}
	}
	return false
}

// ---------- Error Recovery ----------

// errorUntil opens an Error node and consumes tokens until one of the
// synchronization types (or EOF) is reached. A leading SEMI sync token is
// consumed into the error so parsing resumes after the terminator. At
// least one token is always consumed, which guarantees forward progress.
func (p *Parser) errorUntil(sync ...token.Type) {
	p.b.Open(cst.KindError)
	consumed := 0
	for !p.check(token.EOF) {
		if consumed > 0 && p.atSync(sync) {
			break
		}
		isSemi := p.check(token.SEMI)
		p.bump()
		consumed++
		if isSemi {
			break
		}
	}
	p.b.Close()
}

func (p *Parser) atSync(sync []token.Type) bool {
	if p.check(token.SEMI) {
		return true
	}
	if token.IsDirective(p.token.Type) {
		return true
	}
	for _, t := range sync {
		if p.token.Type == t {
			return true
		}
	}
	return false
}

// ---------- Annotations ----------

// parseAnnotation parses a free-standing @-annotation prefix node. The
// annotation binds to the immediately following declaration; when the
// next token cannot start one (and is not another annotation), the
// annotation is dangling and gets wrapped in an Error node instead of
// being silently dropped.
func (p *Parser) parseAnnotation(follows ...token.Type) {
	ok := token.IsAnnotation(p.peek.Type)
	for _, t := range follows {
		if p.peek.Type == t {
			ok = true
		}
	}
	if !ok {
		p.b.Open(cst.KindError)
	}
	p.b.Open(cst.KindAnnotation)
	p.bump()
	p.b.Close()
	if !ok {
		p.b.Close()
	}
}
