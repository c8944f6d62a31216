package parser

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/token"
)

func (p *Parser) parseClassDeclaration() ast.Stmt {
	pos := p.cur.Pos
	p.expect(token.IDENT)
	decl := ast.NewClassDeclaration(pos, p.cur.Literal)

	if p.peekIs(token.LT) {
		p.next()
		decl.TypeParams = p.parseTypeParamList()
	}
	if p.peekIs(token.EXTENDS) {
		p.next()
		p.expect(token.IDENT)
		decl.Extends = p.cur.Literal
	}
	if p.peekIs(token.IMPLEMENTS) {
		p.next()
		for {
			p.expect(token.IDENT)
			decl.Implements = append(decl.Implements, p.cur.Literal)
			if p.peekIs(token.COMMA) {
				p.next()
				continue
			}
			break
		}
	}

	p.expect(token.LBRACE)
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.next()
		member, ok := p.parseClassMember()
		if ok {
			decl.Members = append(decl.Members, member)
		}
	}
	p.expect(token.RBRACE)
	return decl
}

// parseClassMember parses one member starting with cur at its first
// modifier or name token.
func (p *Parser) parseClassMember() (ast.ClassMember, bool) {
	m := ast.ClassMember{Visibility: ast.Public}

	for {
		switch p.cur.Type {
		case token.PUBLIC:
			m.Visibility = ast.Public
		case token.PRIVATE:
			m.Visibility = ast.Private
		case token.PROTECTED:
			m.Visibility = ast.Protected
		case token.STATIC:
			m.Static = true
		case token.READONLY:
			m.ReadOnly = true
		default:
			goto modifiersDone
		}
		p.next()
	}
modifiersDone:

	switch p.cur.Type {
	case token.CONSTRUCTOR:
		m.Kind = ast.MemberConstructor
		p.expect(token.LPAREN)
		m.Params = p.parseParamList()
		p.expect(token.LBRACE)
		m.Body = p.parseBlock()
		return m, true

	case token.GET:
		m.Kind = ast.MemberGetter
		p.expect(token.IDENT)
		m.Name = p.cur.Literal
		p.expect(token.LPAREN)
		p.expect(token.RPAREN)
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			m.ReturnType = p.parseTypeExpr()
		}
		p.expect(token.LBRACE)
		m.Body = p.parseBlock()
		return m, true

	case token.SET:
		m.Kind = ast.MemberSetter
		p.expect(token.IDENT)
		m.Name = p.cur.Literal
		p.expect(token.LPAREN)
		m.Params = p.parseParamList()
		p.expect(token.LBRACE)
		m.Body = p.parseBlock()
		return m, true

	case token.IDENT:
		m.Name = p.cur.Literal
		if p.peekIs(token.LPAREN) {
			m.Kind = ast.MemberMethod
			p.next()
			m.Params = p.parseParamList()
			if p.peekIs(token.COLON) {
				p.next()
				p.next()
				m.ReturnType = p.parseTypeExpr()
			}
			p.expect(token.LBRACE)
			m.Body = p.parseBlock()
			return m, true
		}
		m.Kind = ast.MemberProperty
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			m.Annotation = p.parseTypeExpr()
		}
		if p.peekIs(token.ASSIGN) {
			p.next()
			p.next()
			m.Initializer = p.parseExpression(ASSIGNMENT)
		}
		if p.peekIs(token.SEMICOLON) {
			p.next()
		}
		return m, true

	default:
		p.errorf(p.cur.Pos, "expected class member, got %s", p.cur.Type)
		return m, false
	}
}
