package parser

import (
	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/token"
)

// Declaration parsing: package spec/body, members, routines, parameter
// lists, type references.
//
// Grammar:
//
//	package    → PACKAGE [BODY] name (IS|AS) member* END [name] ";" ["/"]
//	member     → annotation | directive | routine | cursor | type
//	           | subtype | pragma | constant | variable | exception
//	routine    → (PROCEDURE|FUNCTION) name [param_list] [RETURN type_ref]
//	             (";" | (IS|AS) decl* block)
//	param_list → "(" param ("," param)* ")"
//	param      → name [IN] [OUT] type_ref [(":="|DEFAULT) expr]
//	cursor     → CURSOR name [param_list] IS select ";"
//	constant   → name CONSTANT type_ref [":=" expr] ";"
//	variable   → name type_ref [":=" expr] ";"
//	exception  → name EXCEPTION ";"

// parsePackage parses a package spec or body.
func (p *Parser) parsePackage() {
	kind := cst.KindPackageSpec
	if p.checkPeek(token.BODY) {
		kind = cst.KindPackageBody
	}
	p.b.Open(kind)
	p.bump() // PACKAGE
	p.match(token.BODY)
	p.expect(token.IDENT)
	if !p.match(token.IS) {
		p.match(token.AS)
	}

	for !p.at(token.END, token.EOF) {
		if p.tryReuse(kind) {
			continue
		}
		if p.check(token.BEGIN) {
			// Package body initialization section. Its statements run up
			// to the package's own END, which stays outside the block.
			p.b.Open(cst.KindBlock)
			p.bump() // BEGIN
			p.parseStatements(token.END)
			p.b.Close()
			break
		}
		p.parseMember()
	}

	// END [name] ; and optional SQL*Plus slash.
	if p.expect(token.END) {
		p.match(token.IDENT)
		p.expect(token.SEMI)
	}
	p.match(token.SLASH)
	p.b.Close()
}

// parseMember parses one package member.
func (p *Parser) parseMember() {
	switch {
	case token.IsAnnotation(p.token.Type):
		p.parseAnnotation(token.PROCEDURE, token.FUNCTION)
	case token.IsDirectiveOpen(p.token.Type):
		p.parseDirective(p.parseMemberDirectiveItem)
	case p.check(token.PROCEDURE):
		p.parseRoutine(cst.KindProcedure)
	case p.check(token.FUNCTION):
		p.parseRoutine(cst.KindFunction)
	case p.check(token.CURSOR):
		p.parseCursor()
	case p.check(token.TYPE):
		p.parseRawDecl(cst.KindTypeDecl)
	case p.check(token.SUBTYPE):
		p.parseRawDecl(cst.KindSubtypeDecl)
	case p.check(token.PRAGMA):
		p.parseRawDecl(cst.KindPragma)
	case p.check(token.IDENT):
		p.parseItemDecl()
	default:
		p.errorUntil(token.PROCEDURE, token.FUNCTION, token.CURSOR,
			token.TYPE, token.PRAGMA, token.BEGIN, token.END)
	}
}

// parseMemberDirectiveItem parses one item of a directive group in
// member position.
func (p *Parser) parseMemberDirectiveItem() {
	p.parseMember()
}

// parseRoutine parses a procedure or function: a bare signature
// declaration, or a full implementation with declarations and a block.
func (p *Parser) parseRoutine(kind cst.Kind) {
	p.b.Open(kind)
	p.bump() // PROCEDURE or FUNCTION
	p.expect(token.IDENT)

	if p.check(token.LPAREN) {
		p.parseParamList()
	}
	if kind == cst.KindFunction && p.match(token.RETURN) {
		p.parseTypeRef()
	}

	switch {
	case p.match(token.SEMI):
		// Declaration only.
	case p.check(token.IS) || p.check(token.AS):
		p.bump()
		p.parseRoutineTail()
	default:
		p.errorUntil(token.PROCEDURE, token.FUNCTION, token.BEGIN, token.END)
	}
	p.b.Close()
}

// parseRoutineTail parses the declaration section and block of a routine
// implementation, ending with END [name] ";".
func (p *Parser) parseRoutineTail() {
	for !p.at(token.BEGIN, token.END, token.EOF) {
		p.parseMember()
	}

	p.b.Open(cst.KindBlock)
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

// parseExceptionHandlers parses EXCEPTION WHEN name THEN stmts* up to
// the enclosing END.
func (p *Parser) parseExceptionHandlers() {
	p.bump() // EXCEPTION
	for p.check(token.WHEN) {
		p.b.Open(cst.KindExceptionHandler)
		p.bump() // WHEN
		if !p.match(token.NULL) {
			// exception name, or OTHERS (an identifier)
			p.parseQualifiedName()
		}
		p.expect(token.THEN)
		p.parseStatements(token.WHEN, token.END)
		p.b.Close()
	}
}

// parseParamList parses a parenthesized parameter list.
func (p *Parser) parseParamList() {
	p.b.Open(cst.KindParamList)
	p.bump() // (
	for !p.at(token.RPAREN, token.EOF) {
		p.parseParam()
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	p.b.Close()
}

// parseParam parses one parameter: name, optional IN/OUT modes, type,
// optional default.
func (p *Parser) parseParam() {
	p.b.Open(cst.KindParam)
	if !p.expect(token.IDENT) {
		// Skip whatever is here so the list keeps moving.
		p.errorUntilParam()
		p.b.Close()
		return
	}
	p.match(token.IN)
	p.match(token.OUT)
	p.parseTypeRef()
	if p.match(token.ASSIGN) || p.match(token.DEFAULT) {
		p.parseExpr()
	}
	if !p.at(token.COMMA, token.RPAREN, token.EOF) {
		p.errorUntilParam()
	}
	p.b.Close()
}

// errorUntilParam consumes tokens into an Error node until a parameter
// boundary, balancing nested parens.
func (p *Parser) errorUntilParam() {
	p.b.Open(cst.KindError)
	depth := 0
	for !p.check(token.EOF) {
		if depth == 0 && p.at(token.COMMA, token.RPAREN, token.SEMI) {
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

// parseTypeRef parses a type reference: qualified name, optional
// precision arguments, optional %TYPE / %ROWTYPE attribute.
func (p *Parser) parseTypeRef() {
	p.b.Open(cst.KindTypeRef)
	if !p.check(token.IDENT) && !p.check(token.NUMBER) {
		p.b.CloseAs(cst.KindError)
		return
	}
	p.parseQualifiedName()
	if p.check(token.LPAREN) {
		p.bump()
		depth := 1
		for depth > 0 && !p.check(token.EOF) {
			switch p.token.Type {
			case token.LPAREN:
				depth++
			case token.RPAREN:
				depth--
			}
			p.bump()
		}
	}
	if p.check(token.PERCENT) {
		p.bump()
		// %TYPE, %ROWTYPE: the attribute word may be the TYPE keyword
		// or a plain identifier.
		if p.at(token.TYPE, token.IDENT) {
			p.bump()
		}
	}
	p.b.Close()
}

// parseQualifiedName consumes name ("." name)* as plain leaves.
func (p *Parser) parseQualifiedName() {
	p.expect(token.IDENT)
	for p.check(token.DOT) && p.checkPeek(token.IDENT) {
		p.bump()
		p.bump()
	}
}

// parseCursor parses CURSOR name [params] IS select ";". The cursor body
// is handed to the SQL sub-grammar; its node span stays inside the
// cursor declaration's span.
func (p *Parser) parseCursor() {
	p.b.Open(cst.KindCursorDecl)
	p.bump() // CURSOR
	p.expect(token.IDENT)
	if p.check(token.LPAREN) {
		p.parseParamList()
	}
	if p.expect(token.IS) {
		p.parseSqlRegion()
	}
	p.expect(token.SEMI)
	p.b.Close()
}

// parseItemDecl parses a constant, variable or exception declaration,
// all of which open with the declared name.
func (p *Parser) parseItemDecl() {
	kind := cst.KindVariableDecl
	switch p.peek.Type {
	case token.CONSTANT:
		kind = cst.KindConstantDecl
	case token.EXCEPTION:
		kind = cst.KindExceptionDecl
	}
	p.b.Open(kind)
	p.bump() // name

	switch kind {
	case cst.KindConstantDecl:
		p.bump() // CONSTANT
		p.parseTypeRef()
		if p.match(token.ASSIGN) || p.match(token.DEFAULT) {
			p.parseExpr()
		}
	case cst.KindExceptionDecl:
		p.bump() // EXCEPTION
	default:
		p.parseTypeRef()
		if p.match(token.ASSIGN) || p.match(token.DEFAULT) {
			p.parseExpr()
		}
	}
	if !p.expect(token.SEMI) {
		p.errorUntil(token.PROCEDURE, token.FUNCTION, token.BEGIN, token.END)
	}
	p.b.Close()
}

// parseRawDecl parses TYPE/SUBTYPE/PRAGMA declarations leniently: the
// keyword, then everything up to the terminating semicolon with parens
// balanced. The payload shape is not structurally interesting to
// downstream consumers.
func (p *Parser) parseRawDecl(kind cst.Kind) {
	p.b.Open(kind)
	p.bump() // keyword
	depth := 0
	for !p.check(token.EOF) {
		if depth == 0 && p.check(token.SEMI) {
			p.bump()
			break
		}
		if depth == 0 && p.at(token.END, token.BEGIN, token.PROCEDURE, token.FUNCTION) {
			// Missing semicolon; stop at the construct boundary.
			p.b.Open(cst.KindError)
			p.b.Close()
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
