package parser

import (
	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/token"
)

// Expression parsing. Precedence is encoded as one function per level;
// infix nodes are built by wrapping the already-parsed left operand via
// builder checkpoints.
//
// Levels, loosest first: OR, AND, NOT, comparison (= != < > <= >= LIKE
// IN BETWEEN IS), additive (+ - ||), multiplicative (* /), unary, postfix.

// parseExpr parses one expression.
func (p *Parser) parseExpr() {
	p.parseOrExpr()
}

func (p *Parser) parseOrExpr() {
	cp := p.b.Mark()
	p.parseAndExpr()
	for p.check(token.OR) {
		p.b.OpenAt(cp, cst.KindBinaryExpr)
		p.bump()
		p.parseAndExpr()
		p.b.Close()
	}
}

func (p *Parser) parseAndExpr() {
	cp := p.b.Mark()
	p.parseNotExpr()
	for p.check(token.AND) {
		p.b.OpenAt(cp, cst.KindBinaryExpr)
		p.bump()
		p.parseNotExpr()
		p.b.Close()
	}
}

func (p *Parser) parseNotExpr() {
	if p.check(token.NOT) {
		p.b.Open(cst.KindUnaryExpr)
		p.bump()
		p.parseNotExpr()
		p.b.Close()
		return
	}
	p.parseComparison()
}

func (p *Parser) parseComparison() {
	cp := p.b.Mark()
	p.parseAdditive()
	for {
		switch {
		case p.at(token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE):
			p.b.OpenAt(cp, cst.KindBinaryExpr)
			p.bump()
			p.parseAdditive()
			p.b.Close()
		case p.check(token.LIKE),
			p.check(token.NOT) && p.checkPeek(token.LIKE):
			p.b.OpenAt(cp, cst.KindBinaryExpr)
			p.match(token.NOT)
			p.bump() // LIKE
			p.parseAdditive()
			p.b.Close()
		case p.check(token.BETWEEN),
			p.check(token.NOT) && p.checkPeek(token.BETWEEN):
			p.b.OpenAt(cp, cst.KindBinaryExpr)
			p.match(token.NOT)
			p.bump() // BETWEEN
			p.parseAdditive()
			p.expect(token.AND)
			p.parseAdditive()
			p.b.Close()
		case p.check(token.IN),
			p.check(token.NOT) && p.checkPeek(token.IN):
			p.b.OpenAt(cp, cst.KindBinaryExpr)
			p.match(token.NOT)
			p.bump() // IN
			p.parseInList()
			p.b.Close()
		case p.check(token.IS):
			// IS [NOT] NULL
			p.b.OpenAt(cp, cst.KindBinaryExpr)
			p.bump()
			p.match(token.NOT)
			p.expect(token.NULL)
			p.b.Close()
		default:
			return
		}
	}
}

// parseInList parses the right side of IN: a parenthesized subquery or
// value list, or a collection name.
func (p *Parser) parseInList() {
	if !p.check(token.LPAREN) {
		p.parseAdditive()
		return
	}
	p.b.Open(cst.KindParenExpr)
	p.bump() // (
	if p.check(token.SELECT) {
		p.parseSqlRegion()
	} else {
		p.parseExpr()
		for p.match(token.COMMA) {
			p.parseExpr()
		}
	}
	p.expect(token.RPAREN)
	p.b.Close()
}

func (p *Parser) parseAdditive() {
	cp := p.b.Mark()
	p.parseMultiplicative()
	for p.at(token.PLUS, token.MINUS, token.DPIPE) {
		p.b.OpenAt(cp, cst.KindBinaryExpr)
		p.bump()
		p.parseMultiplicative()
		p.b.Close()
	}
}

func (p *Parser) parseMultiplicative() {
	cp := p.b.Mark()
	p.parseUnary()
	for p.at(token.STAR, token.SLASH) {
		p.b.OpenAt(cp, cst.KindBinaryExpr)
		p.bump()
		p.parseUnary()
		p.b.Close()
	}
}

func (p *Parser) parseUnary() {
	if p.at(token.PLUS, token.MINUS) {
		p.b.Open(cst.KindUnaryExpr)
		p.bump()
		p.parseUnary()
		p.b.Close()
		return
	}
	p.parsePrimary()
}

// parsePrimary parses literals, parenthesized expressions and
// subqueries, CASE expressions, EXISTS, and name expressions. An
// unusable token becomes a one-token Error node so expression callers
// always make progress.
func (p *Parser) parsePrimary() {
	switch {
	case p.at(token.NUMBER, token.STRING, token.NULL):
		p.bump()
	case p.check(token.LPAREN):
		p.b.Open(cst.KindParenExpr)
		p.bump()
		if p.check(token.SELECT) {
			p.parseSqlRegion()
		} else {
			p.parseExpr()
		}
		p.expect(token.RPAREN)
		p.b.Close()
	case p.check(token.CASE):
		p.parseCaseExpr()
	case p.check(token.EXISTS):
		p.b.Open(cst.KindUnaryExpr)
		p.bump()
		if p.expect(token.LPAREN) {
			if p.check(token.SELECT) {
				p.parseSqlRegion()
			} else {
				p.parseExpr()
			}
			p.expect(token.RPAREN)
		}
		p.b.Close()
	case p.check(token.IDENT):
		p.parseNameExpr()
	case p.check(token.STAR):
		// SELECT list wildcard.
		p.bump()
	case p.check(token.COLON):
		// Bind variable :name.
		p.b.Open(cst.KindNameRef)
		p.bump()
		p.match(token.IDENT)
		p.b.Close()
	default:
		p.b.Open(cst.KindError)
		p.bump()
		p.b.Close()
	}
}

// parseCaseExpr parses both the searched and the simple CASE form:
//
//	CASE [expr] (WHEN expr THEN expr)* [ELSE expr] END
func (p *Parser) parseCaseExpr() {
	p.b.Open(cst.KindCaseExpr)
	p.bump() // CASE
	if !p.at(token.WHEN, token.END, token.EOF) {
		p.parseExpr()
	}
	for p.check(token.WHEN) {
		p.b.Open(cst.KindCaseWhen)
		p.bump()
		p.parseExpr()
		p.expect(token.THEN)
		p.parseExpr()
		p.b.Close()
	}
	if p.match(token.ELSE) {
		p.parseExpr()
	}
	p.expect(token.END)
	p.b.Close()
}

// parseNameExpr parses a (possibly qualified) name with its postfix
// forms: call arguments, %-attributes, and member access after a call.
// The base name stays a NameRef; each postfix wraps what came before it.
func (p *Parser) parseNameExpr() {
	cp := p.b.Mark()
	p.b.Open(cst.KindNameRef)
	p.parseQualifiedName()
	switch {
	case p.check(token.AT) && p.checkPeek(token.IDENT):
		// Layer-qualified reference, name@Layer.
		p.bump()
		p.bump()
	case token.IsAnnotation(p.token.Type) && len(p.token.Leading) == 0:
		// The layer suffix sits flush against the name and lexes as a
		// single @-token; annotation lines always carry leading trivia.
		p.bump()
	}
	p.b.Close()

	for {
		switch {
		case p.check(token.LPAREN):
			p.b.OpenAt(cp, cst.KindCallExpr)
			p.parseCallArgs()
			p.b.Close()
		case p.check(token.PERCENT):
			p.b.OpenAt(cp, cst.KindAttrExpr)
			p.bump()
			// %FOUND, %NOTFOUND, %ROWCOUNT are identifiers; %TYPE and
			// %ROWTYPE hit the TYPE keyword.
			if p.at(token.IDENT, token.TYPE) {
				p.bump()
			}
			p.b.Close()
		case p.check(token.DOT) && p.checkPeek(token.IDENT):
			p.b.OpenAt(cp, cst.KindAttrExpr)
			p.bump()
			p.bump()
			p.b.Close()
		default:
			return
		}
	}
}

// parseCallArgs parses "(" [arg ("," arg)*] ")" where an arg may carry a
// `name =>` named-parameter prefix.
func (p *Parser) parseCallArgs() {
	p.bump() // (
	for !p.at(token.RPAREN, token.EOF) {
		if p.check(token.IDENT) && p.checkPeek(token.ARROW) {
			p.bump()
			p.bump()
		}
		p.parseExpr()
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
}
