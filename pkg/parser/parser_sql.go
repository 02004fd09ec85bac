package parser

import (
	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/token"
)

// Embedded SQL sub-grammar. Cursor bodies, statement-position DML and
// parenthesized subqueries land here. Keeping these productions apart
// from the PL/SQL grammar keeps each side small; the lexer is flipped to
// ModeSql for the duration of a region so lexer state snapshots record
// where SQL islands sit.
//
//	select → SELECT [DISTINCT|ALL] select_list [INTO names] from_clause
//	         [WHERE expr] [GROUP BY exprs [HAVING expr]] [ORDER BY items]
//	         (UNION [ALL] select)*
//	insert → INSERT INTO table_ref ["(" names ")"] (VALUES "(" exprs ")" | select)
//	update → UPDATE table_ref SET name "=" expr ("," ...)* [WHERE expr]
//	delete → DELETE [FROM] table_ref [WHERE expr]

// parseSqlRegion parses one SQL statement, not including any trailing
// semicolon. Unrecognized content becomes an Error node that stops at
// the region boundary so the host grammar can resume.
func (p *Parser) parseSqlRegion() {
	prev := p.lexer.Mode()
	p.lexer.SetMode(ModeSql)
	defer p.lexer.SetMode(prev)

	switch p.token.Type {
	case token.SELECT:
		p.parseSelect()
	case token.INSERT:
		p.parseInsert()
	case token.UPDATE:
		p.parseUpdate()
	case token.DELETE:
		p.parseDelete()
	default:
		p.sqlError()
	}
}

// sqlError consumes tokens into an Error node up to the region boundary,
// leaving the terminator for the host grammar.
func (p *Parser) sqlError() {
	p.b.Open(cst.KindError)
	depth := 0
	for !p.check(token.EOF) {
		if depth == 0 && p.at(token.SEMI, token.RPAREN) {
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

// parseSelect parses a SELECT statement including UNION chains.
func (p *Parser) parseSelect() {
	cp := p.b.Mark()
	p.parseSelectCore()
	for p.check(token.UNION) {
		p.b.OpenAt(cp, cst.KindSelectStmt)
		p.bump() // UNION
		p.match(token.ALL)
		if p.check(token.SELECT) {
			p.parseSelectCore()
		} else {
			p.sqlError()
		}
		p.b.Close()
	}
}

func (p *Parser) parseSelectCore() {
	p.b.Open(cst.KindSelectStmt)
	p.bump() // SELECT
	if !p.match(token.DISTINCT) {
		p.match(token.ALL)
	}

	p.b.Open(cst.KindSelectList)
	for !p.atSqlBoundary() && !p.at(token.FROM, token.INTO) {
		p.b.Open(cst.KindSelectItem)
		p.parseExpr()
		// Optional [AS] alias.
		p.match(token.AS)
		p.match(token.IDENT)
		p.b.Close()
		if !p.match(token.COMMA) {
			break
		}
	}
	p.b.Close()

	if p.check(token.INTO) {
		p.b.Open(cst.KindIntoClause)
		p.bump()
		p.parseNameExpr()
		for p.match(token.COMMA) {
			p.parseNameExpr()
		}
		p.b.Close()
	}

	if p.check(token.FROM) {
		p.b.Open(cst.KindFromClause)
		p.bump()
		p.parseTableRef()
		for {
			if p.match(token.COMMA) {
				p.parseTableRef()
				continue
			}
			if p.atJoin() {
				p.parseJoin()
				continue
			}
			break
		}
		p.b.Close()
	}

	if p.check(token.WHERE) {
		p.b.Open(cst.KindWhereClause)
		p.bump()
		p.parseExpr()
		p.b.Close()
	}
	if p.check(token.GROUP) {
		p.b.Open(cst.KindGroupByClause)
		p.bump()
		p.expect(token.BY)
		p.parseExpr()
		for p.match(token.COMMA) {
			p.parseExpr()
		}
		p.b.Close()
		if p.check(token.HAVING) {
			p.b.Open(cst.KindHavingClause)
			p.bump()
			p.parseExpr()
			p.b.Close()
		}
	}
	if p.check(token.ORDER) {
		p.b.Open(cst.KindOrderByClause)
		p.bump()
		p.expect(token.BY)
		p.parseOrderItem()
		for p.match(token.COMMA) {
			p.parseOrderItem()
		}
		p.b.Close()
	}
	p.b.Close()
}

func (p *Parser) parseOrderItem() {
	p.b.Open(cst.KindOrderItem)
	p.parseExpr()
	if !p.match(token.ASC) {
		p.match(token.DESC)
	}
	p.b.Close()
}

// parseTableRef parses a table name or parenthesized subquery, with an
// optional alias.
func (p *Parser) parseTableRef() {
	p.b.Open(cst.KindTableRef)
	if p.check(token.LPAREN) {
		p.bump()
		if p.check(token.SELECT) {
			p.parseSelect()
		} else {
			p.sqlError()
		}
		p.expect(token.RPAREN)
	} else if p.check(token.IDENT) {
		p.parseQualifiedName()
	} else {
		p.sqlError()
	}
	p.match(token.IDENT) // alias
	p.b.Close()
}

func (p *Parser) atJoin() bool {
	return p.at(token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL)
}

func (p *Parser) parseJoin() {
	p.b.Open(cst.KindJoinClause)
	if p.at(token.INNER, token.LEFT, token.RIGHT, token.FULL) {
		p.bump()
		p.match(token.OUTER)
	}
	p.expect(token.JOIN)
	p.parseTableRef()
	if p.match(token.ON) {
		p.parseExpr()
	}
	p.b.Close()
}

func (p *Parser) parseInsert() {
	p.b.Open(cst.KindInsertStmt)
	p.bump() // INSERT
	p.expect(token.INTO)
	p.parseTableRef()
	if p.check(token.LPAREN) && !p.checkPeek(token.SELECT) {
		p.bump()
		p.match(token.IDENT)
		for p.match(token.COMMA) {
			p.match(token.IDENT)
		}
		p.expect(token.RPAREN)
	}
	switch {
	case p.check(token.VALUES):
		p.b.Open(cst.KindValuesClause)
		p.bump()
		if p.expect(token.LPAREN) {
			p.parseExpr()
			for p.match(token.COMMA) {
				p.parseExpr()
			}
			p.expect(token.RPAREN)
		}
		p.b.Close()
	case p.check(token.SELECT):
		p.parseSelect()
	case p.check(token.LPAREN) && p.checkPeek(token.SELECT):
		p.bump()
		p.parseSelect()
		p.expect(token.RPAREN)
	default:
		p.sqlError()
	}
	p.b.Close()
}

func (p *Parser) parseUpdate() {
	p.b.Open(cst.KindUpdateStmt)
	p.bump() // UPDATE
	p.parseTableRef()
	if p.expect(token.SET) {
		p.b.Open(cst.KindSetClause)
		p.parseSetItem()
		for p.match(token.COMMA) {
			p.parseSetItem()
		}
		p.b.Close()
	}
	if p.check(token.WHERE) {
		p.b.Open(cst.KindWhereClause)
		p.bump()
		p.parseExpr()
		p.b.Close()
	}
	p.b.Close()
}

func (p *Parser) parseSetItem() {
	p.parseNameExpr()
	if p.expect(token.EQ) {
		p.parseExpr()
	}
}

func (p *Parser) parseDelete() {
	p.b.Open(cst.KindDeleteStmt)
	p.bump() // DELETE
	p.match(token.FROM)
	p.parseTableRef()
	if p.check(token.WHERE) {
		p.b.Open(cst.KindWhereClause)
		p.bump()
		p.parseExpr()
		p.b.Close()
	}
	p.b.Close()
}

// atSqlBoundary reports whether the current token ends a SQL region.
func (p *Parser) atSqlBoundary() bool {
	return p.at(token.SEMI, token.RPAREN, token.EOF) ||
		token.IsDirective(p.token.Type)
}
