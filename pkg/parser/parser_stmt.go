package parser

import (
	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/token"
)

// Statement parsing, plus the code-weaving directive engine. Directives
// can appear wherever a statement or member can, so parseDirective takes
// the item production of its surrounding context.

// parseStatements parses statements until one of the stop tokens or EOF.
func (p *Parser) parseStatements(stop ...token.Type) {
	for !p.check(token.EOF) && !p.at(stop...) {
		p.parseStatement()
	}
}

// parseStatement parses a single statement.
func (p *Parser) parseStatement() {
	switch {
	case token.IsDirectiveOpen(p.token.Type):
		p.parseDirective(p.parseStatement)
	case p.check(token.IF):
		p.parseIfStmt()
	case p.check(token.LOOP):
		p.parseLoopStmt()
	case p.check(token.WHILE):
		p.parseWhileStmt()
	case p.check(token.FOR):
		p.parseForStmt()
	case p.check(token.BEGIN), p.check(token.DECLARE):
		p.parseBlockStmt()
	case p.check(token.RETURN):
		p.parseReturnStmt()
	case p.check(token.RAISE):
		p.parseRaiseStmt()
	case p.check(token.EXIT):
		p.parseExitStmt()
	case p.check(token.NULL):
		p.b.Open(cst.KindNullStmt)
		p.bump()
		p.expect(token.SEMI)
		p.b.Close()
	case p.at(token.SELECT, token.INSERT, token.UPDATE, token.DELETE):
		p.b.Open(cst.KindSqlStmt)
		p.parseSqlRegion()
		p.expect(token.SEMI)
		p.b.Close()
	case p.check(token.FETCH):
		p.parseFetchStmt()
	case p.check(token.IDENT):
		p.parseAssignOrCall()
	default:
		p.errorUntil(token.END, token.ELSIF, token.ELSE, token.WHEN,
			token.BEGIN)
	}
}

// parseAssignOrCall disambiguates `name := expr;` from `name(...);` by
// parsing the name expression first and wrapping it retroactively.
func (p *Parser) parseAssignOrCall() {
	cp := p.b.Mark()
	p.parseNameExpr()
	if p.check(token.ASSIGN) {
		p.b.OpenAt(cp, cst.KindAssignStmt)
		p.bump() // :=
		p.parseExpr()
	} else {
		p.b.OpenAt(cp, cst.KindCallStmt)
	}
	if !p.expect(token.SEMI) {
		p.errorUntil(token.END, token.ELSIF, token.ELSE, token.WHEN)
	}
	p.b.Close()
}

// parseIfStmt parses IF expr THEN stmts (ELSIF expr THEN stmts)* (ELSE
// stmts)? END IF ";".
func (p *Parser) parseIfStmt() {
	p.b.Open(cst.KindIfStmt)
	p.bump() // IF
	p.parseExpr()
	p.expect(token.THEN)
	p.parseStatements(token.ELSIF, token.ELSE, token.END)

	for p.check(token.ELSIF) {
		p.b.Open(cst.KindElsifClause)
		p.bump()
		p.parseExpr()
		p.expect(token.THEN)
		p.parseStatements(token.ELSIF, token.ELSE, token.END)
		p.b.Close()
	}
	if p.check(token.ELSE) {
		p.b.Open(cst.KindElseClause)
		p.bump()
		p.parseStatements(token.END)
		p.b.Close()
	}
	if p.expect(token.END) {
		p.expect(token.IF)
		p.expect(token.SEMI)
	}
	p.b.Close()
}

// parseLoopStmt parses a basic LOOP ... END LOOP ";".
func (p *Parser) parseLoopStmt() {
	p.b.Open(cst.KindLoopStmt)
	p.bump() // LOOP
	p.parseLoopTail()
	p.b.Close()
}

// parseWhileStmt parses WHILE expr LOOP ... END LOOP ";".
func (p *Parser) parseWhileStmt() {
	p.b.Open(cst.KindWhileStmt)
	p.bump() // WHILE
	p.parseExpr()
	if p.expect(token.LOOP) {
		p.parseLoopTail()
	}
	p.b.Close()
}

// parseForStmt parses the numeric range and cursor forms of FOR:
//
//	FOR i IN [REVERSE] low .. high LOOP ... END LOOP ";"
//	FOR rec IN cursor_name[(args)] LOOP ... END LOOP ";"
//	FOR rec IN (SELECT ...) LOOP ... END LOOP ";"
func (p *Parser) parseForStmt() {
	p.b.Open(cst.KindForStmt)
	p.bump() // FOR
	p.expect(token.IDENT)
	if p.expect(token.IN) {
		p.match(token.REVERSE)
		if p.check(token.LPAREN) && p.checkPeek(token.SELECT) {
			p.b.Open(cst.KindParenExpr)
			p.bump() // (
			p.parseSqlRegion()
			p.expect(token.RPAREN)
			p.b.Close()
		} else {
			p.parseExpr()
			if p.match(token.DOTDOT) {
				p.parseExpr()
			}
		}
	}
	if p.expect(token.LOOP) {
		p.parseLoopTail()
	}
	p.b.Close()
}

// parseLoopTail parses the body of a loop after LOOP, through END LOOP ";".
func (p *Parser) parseLoopTail() {
	p.parseStatements(token.END)
	if p.expect(token.END) {
		p.expect(token.LOOP)
		p.match(token.IDENT)
		p.expect(token.SEMI)
	}
}

// parseBlockStmt parses a nested [DECLARE decls] BEGIN ... END ";" block.
func (p *Parser) parseBlockStmt() {
	p.b.Open(cst.KindBlock)
	if p.match(token.DECLARE) {
		for !p.at(token.BEGIN, token.END, token.EOF) {
			p.parseMember()
		}
	}
	if !p.expect(token.BEGIN) {
		p.b.Close()
		return
	}
	p.parseStatements(token.END, token.EXCEPTION)
	if p.check(token.EXCEPTION) {
		p.parseExceptionHandlers()
	}
	p.expect(token.END)
	p.match(token.IDENT)
	p.expect(token.SEMI)
	p.b.Close()
}

// parseReturnStmt parses RETURN [expr] ";".
func (p *Parser) parseReturnStmt() {
	p.b.Open(cst.KindReturnStmt)
	p.bump() // RETURN
	if !p.check(token.SEMI) && !p.check(token.EOF) {
		p.parseExpr()
	}
	p.expect(token.SEMI)
	p.b.Close()
}

// parseRaiseStmt parses RAISE [exception_name] ";".
func (p *Parser) parseRaiseStmt() {
	p.b.Open(cst.KindRaiseStmt)
	p.bump() // RAISE
	if p.check(token.IDENT) {
		p.parseQualifiedName()
	}
	p.expect(token.SEMI)
	p.b.Close()
}

// parseExitStmt parses EXIT [label] [WHEN expr] ";".
func (p *Parser) parseExitStmt() {
	p.b.Open(cst.KindExitStmt)
	p.bump() // EXIT
	p.match(token.IDENT)
	if p.match(token.WHEN) {
		p.parseExpr()
	}
	p.expect(token.SEMI)
	p.b.Close()
}

// parseFetchStmt parses FETCH cursor INTO target ("," target)* ";".
func (p *Parser) parseFetchStmt() {
	p.b.Open(cst.KindSqlStmt)
	p.bump() // FETCH
	if p.check(token.IDENT) {
		p.parseQualifiedName()
	}
	if p.match(token.INTO) {
		p.parseNameExpr()
		for p.match(token.COMMA) {
			p.parseNameExpr()
		}
	}
	p.expect(token.SEMI)
	p.b.Close()
}

// ---------- Code-Weaving Directives ----------

// parseDirective parses one directive block. Layout:
//
//	$SEARCH anchor* ($APPEND|$REPLACE|$PREPEND) payload* $END
//	($APPEND|$REPLACE|$PREPEND) payload* $END
//
// The $TEXT* spellings produce the same structure; the variant is
// recorded on the node and only changes how the weaver matches the
// anchor, not how the content parses.
//
// itemFn is the item production of the surrounding context, so a
// directive in member position holds members and one in statement
// position holds statements. A directive missing its $END keeps its
// partial children but the whole block is retagged as an Error node.
func (p *Parser) parseDirective(itemFn func()) {
	p.b.Open(cst.KindDirective)
	open := p.token.Type
	p.bump() // open marker

	group := func(kind cst.Kind) {
		p.b.Open(kind)
		for !p.check(token.EOF) && !token.IsDirective(p.token.Type) {
			itemFn()
		}
		p.b.Close()
	}

	if open == token.DSEARCH || open == token.DTEXTSEARCH {
		group(cst.KindDirectiveAnchor)
		if token.IsDirectiveOpen(p.token.Type) &&
			p.token.Type != token.DSEARCH && p.token.Type != token.DTEXTSEARCH {
			p.bump() // payload marker
			group(cst.KindDirectivePayload)
		}
	} else {
		group(cst.KindDirectivePayload)
	}

	if p.match(token.DEND) {
		p.b.Close()
	} else {
		// Unterminated: a stray $SEARCH or EOF ended the block. The open
		// marker of the next directive is left for the caller.
		p.b.CloseAs(cst.KindError)
	}
}
