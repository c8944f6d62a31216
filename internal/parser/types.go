package parser

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/token"
)

// parseTypeExpr parses a type annotation per the grammar in spec.md §4.E:
//
//	T := primitive | ident (< T, … >)? | T [] | { prop: T [, …] }
//	   | ( T, … ) => T | [ T, … ] | T | T | T & T
//
// `|` binds looser than `&`, which binds looser than the postfix `[]`
// suffix. Entry assumes cur is the first token of the annotation.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	return p.parseUnionType()
}

func (p *Parser) parseUnionType() ast.TypeExpr {
	pos := p.cur.Pos
	first := p.parseIntersectionType()
	members := []ast.TypeExpr{first}
	for p.peekIs(token.PIPE) {
		p.next() // cur == '|'
		p.next() // cur == start of next member
		members = append(members, p.parseIntersectionType())
	}
	if len(members) == 1 {
		return first
	}
	return ast.NewUnionTypeExpr(pos, members)
}

func (p *Parser) parseIntersectionType() ast.TypeExpr {
	pos := p.cur.Pos
	first := p.parsePostfixType()
	members := []ast.TypeExpr{first}
	for p.peekIs(token.AMP) {
		p.next() // cur == '&'
		p.next() // cur == start of next member
		members = append(members, p.parsePostfixType())
	}
	if len(members) == 1 {
		return first
	}
	return ast.NewIntersectionTypeExpr(pos, members)
}

func (p *Parser) parsePostfixType() ast.TypeExpr {
	t := p.parsePrimaryType()
	for p.peekIs(token.LBRACKET) {
		p.next() // cur == '['
		if !p.expect(token.RBRACKET) {
			break
		}
		t = ast.NewArrayTypeExpr(t.Pos(), t)
	}
	return t
}

var primitiveTypeNames = map[token.Type]string{
	token.NUMBER_TYPE: "number", token.STRING_TYPE: "string", token.BOOLEAN_TYPE: "boolean",
	token.ANY_TYPE: "any", token.UNKNOWN_TYPE: "unknown", token.NEVER_TYPE: "never", token.VOID_TYPE: "void",
	token.NULL: "null", token.UNDEFINED: "undefined",
}

func (p *Parser) parsePrimaryType() ast.TypeExpr {
	pos := p.cur.Pos

	if name, ok := primitiveTypeNames[p.cur.Type]; ok {
		return ast.NewNamedTypeExpr(pos, name)
	}

	switch p.cur.Type {
	case token.IDENT:
		name := p.cur.Literal
		if !p.peekIs(token.LT) {
			return ast.NewNamedTypeExpr(pos, name)
		}
		p.next() // cur == '<'
		p.next() // cur == start of first type arg
		var args []ast.TypeExpr
		args = append(args, p.parseTypeExpr())
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			args = append(args, p.parseTypeExpr())
		}
		p.expect(token.GT)
		return ast.NewNamedTypeExpr(pos, name, args...)

	case token.LBRACE:
		var members []ast.ObjectTypeMember
		for !p.peekIs(token.RBRACE) {
			p.next()
			name := p.cur.Literal
			if !p.expect(token.COLON) {
				break
			}
			p.next()
			members = append(members, ast.ObjectTypeMember{Name: name, Type: p.parseTypeExpr()})
			if p.peekIs(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RBRACE)
		return ast.NewObjectTypeExpr(pos, members)

	case token.LBRACKET:
		var elements []ast.TypeExpr
		for !p.peekIs(token.RBRACKET) {
			p.next()
			elements = append(elements, p.parseTypeExpr())
			if p.peekIs(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RBRACKET)
		return ast.NewTupleTypeExpr(pos, elements)

	case token.LPAREN:
		var params []ast.TypeExpr
		for !p.peekIs(token.RPAREN) {
			p.next()
			params = append(params, p.parseTypeExpr())
			if p.peekIs(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RPAREN)
		p.expect(token.ARROW)
		p.next()
		ret := p.parseTypeExpr()
		return ast.NewFunctionTypeExpr(pos, params, ret)

	default:
		p.errorf(pos, "invalid type annotation starting at %s", p.cur.Type)
		return ast.NewNamedTypeExpr(pos, "any")
	}
}
