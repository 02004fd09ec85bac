package parser

import (
	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/token"
)

// Non-PLSQL file forms: entity and enumeration models, view definitions
// and storage definitions. These files are line- and section-oriented
// rather than block-structured, so the productions here are deliberately
// lenient: a property is a word run ending at ";", a section is a braced
// group of properties.
//
// The form keywords only exist in ModeForm; inside PL/SQL the same
// spellings stay plain identifiers.

func (p *Parser) parseEntity()      { p.parseFormFile(cst.KindEntity) }
func (p *Parser) parseEnumeration() { p.parseFormFile(cst.KindEnumeration) }
func (p *Parser) parseViews()       { p.parseFormFile(cst.KindViews) }
func (p *Parser) parseStorage()     { p.parseFormFile(cst.KindStorage) }

func (p *Parser) parseFormFile(kind cst.Kind) {
	p.b.Open(kind)
	for !p.check(token.EOF) {
		p.parseFormItem()
	}
	p.b.Close()
}

// parseFormItem parses one top-level item of a form file.
func (p *Parser) parseFormItem() {
	switch p.token.Type {
	case kwLayer:
		p.parseLayerLine()
		return
	case kwColumn:
		p.parseColumnDef()
		return
	case kwView:
		p.parseViewDef()
		return
	case kwTable:
		p.parseRawDef(cst.KindTableDef)
		return
	case kwIndex, kwUnique:
		// INDEX and UNIQUE INDEX.
		p.parseRawDef(cst.KindIndexDef)
		return
	case kwSequence:
		p.parseRawDef(cst.KindSequenceDef)
		return
	}
	switch {
	case token.IsDirectiveOpen(p.token.Type):
		p.parseDirective(p.parseFormItem)
	case p.check(token.IDENT), p.token.Type == kwEntityname,
		p.token.Type == kwEnumerationname, p.token.Type == kwComponent,
		p.token.Type == kwAttributes, p.token.Type == kwKeys,
		p.token.Type == kwReferences, p.token.Type == kwCodegenproperties:
		if p.checkPeek(token.LBRACE) {
			p.parseSection()
		} else {
			p.parseProperty()
		}
	case p.at(token.RBRACE, token.LBRACE):
		// Stray brace at top level; drop just the one token.
		p.b.Open(cst.KindError)
		p.bump()
		p.b.Close()
	default:
		p.errorUntil()
	}
}

// parseLayerLine parses `layer Name;`. In PL/SQL files the opening word
// arrives as a plain identifier, in form files as the layer keyword.
func (p *Parser) parseLayerLine() {
	p.b.Open(cst.KindLayerClause)
	p.bump() // layer
	p.match(token.IDENT)
	p.expect(token.SEMI)
	p.b.Close()
}

// parseSection parses `name { item* }` with nested sections allowed.
func (p *Parser) parseSection() {
	p.b.Open(cst.KindSection)
	p.bump() // section name
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE, token.EOF) {
		switch {
		case token.IsDirectiveOpen(p.token.Type):
			p.parseDirective(p.parseSectionItem)
		case token.IsDirective(p.token.Type):
			// Stray $END with no open directive.
			p.b.Open(cst.KindError)
			p.bump()
			p.b.Close()
		default:
			p.parseSectionItem()
		}
	}
	p.expect(token.RBRACE)
	p.match(token.SEMI)
	p.b.Close()
}

// parseSectionItem parses one item inside a braced section: a nested
// section or a property line.
func (p *Parser) parseSectionItem() {
	if (p.check(token.IDENT) || token.IsDynamic(p.token.Type)) &&
		p.checkPeek(token.LBRACE) {
		p.parseSection()
		return
	}
	p.parseProperty()
}

// parseProperty parses one property line: a word run terminated by ";".
// Form property payloads are free-form (datatype specs, flag strings,
// key-value pairs), so everything up to the terminator is kept as leaf
// tokens.
func (p *Parser) parseProperty() {
	p.b.Open(cst.KindProperty)
	if p.at(token.RBRACE, token.LBRACE) {
		// Stray brace; let the enclosing section deal with it.
		p.b.CloseAs(cst.KindError)
		p.bump()
		return
	}
	for !p.check(token.EOF) {
		if p.match(token.SEMI) {
			break
		}
		if p.at(token.LBRACE, token.RBRACE) || token.IsDirective(p.token.Type) {
			break
		}
		p.bump()
	}
	p.b.Close()
}

// parseColumnDef parses `COLUMN name IS assignment* ";"`.
func (p *Parser) parseColumnDef() {
	p.b.Open(cst.KindColumnDef)
	p.bump() // COLUMN
	p.match(token.IDENT)
	p.match(token.IS)
	for p.check(token.IDENT) && p.checkPeek(token.EQ) {
		p.parsePropertyAssign()
	}
	p.expect(token.SEMI)
	p.b.Close()
}

// parseViewDef parses `VIEW name IS assignment* select ";" ["/"]`.
func (p *Parser) parseViewDef() {
	p.b.Open(cst.KindViewDef)
	p.bump() // VIEW
	p.match(token.IDENT)
	p.match(token.IS)
	for p.check(token.IDENT) && p.checkPeek(token.EQ) {
		p.parsePropertyAssign()
	}
	if p.check(token.SELECT) {
		p.parseSqlRegion()
	}
	p.expect(token.SEMI)
	p.match(token.SLASH)
	p.b.Close()
}

// parsePropertyAssign parses one `Name = expr` pair.
func (p *Parser) parsePropertyAssign() {
	p.b.Open(cst.KindProperty)
	p.bump() // name
	p.bump() // =
	p.parseExpr()
	p.b.Close()
}

// parseRawDef parses the storage definitions (TABLE, INDEX, SEQUENCE)
// leniently: the introducing keywords and name, then a balanced token
// run through the terminating ";". The column and option payloads are
// plain Oracle DDL fragments that downstream consumers read as text.
func (p *Parser) parseRawDef(kind cst.Kind) {
	p.b.Open(kind)
	p.bump() // keyword (or UNIQUE)
	if p.token.Type == kwIndex {
		p.bump()
	}
	p.match(token.IDENT)
	depth := 0
	for !p.check(token.EOF) {
		if depth == 0 && p.match(token.SEMI) {
			break
		}
		if token.IsDirective(p.token.Type) {
			break
		}
		switch p.token.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		p.bump()
	}
	p.b.Close()
}
