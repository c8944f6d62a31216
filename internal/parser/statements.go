package parser

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/token"
)

// parseStatement dispatches on the current token kind per spec.md §4.E.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case token.LET, token.CONST, token.VAR:
		return p.parseVariableDeclaration()
	case token.FUNCTION:
		return p.parseFunctionDeclaration()
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.INTERFACE:
		return p.parseInterfaceDeclaration()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		return p.parseContinue()
	case token.LBRACE:
		return p.parseBlock()
	case token.RETURN:
		return p.parseReturn()
	default:
		return p.parseExpressionStatement()
	}
}

func declKindFor(t token.Type) ast.DeclKind {
	switch t {
	case token.CONST:
		return ast.DeclConst
	case token.VAR:
		return ast.DeclVar
	default:
		return ast.DeclLet
	}
}

func (p *Parser) parseVariableDeclaration() ast.Stmt {
	pos := p.cur.Pos
	kind := declKindFor(p.cur.Type)

	var decls []ast.Declarator
	for {
		if !p.expect(token.IDENT) {
			break
		}
		d := ast.Declarator{Name: p.cur.Literal}
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			d.Annotation = p.parseTypeExpr()
		}
		if p.peekIs(token.ASSIGN) {
			p.next()
			p.next()
			d.Initializer = p.parseExpression(ASSIGNMENT)
		}
		decls = append(decls, d)
		if p.peekIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	if p.peekIs(token.SEMICOLON) {
		p.next()
	}
	return ast.NewVariableDeclaration(pos, kind, decls)
}

func (p *Parser) parseBlock() *ast.Block {
	pos := p.cur.Pos // cur == '{'
	var stmts []ast.Stmt
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.next()
		before := p.diags.Len()
		stmt := p.parseStatement()
		if p.diags.Len() > before {
			p.synchronizeInBlock()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.RBRACE)
	return ast.NewBlock(pos, stmts)
}

// synchronizeInBlock mirrors Parser.synchronize but also treats '}' as a
// stopping point so recovery doesn't run past the enclosing block.
func (p *Parser) synchronizeInBlock() {
	for !p.curIs(token.EOF) && !p.peekIs(token.RBRACE) {
		if p.curIs(token.SEMICOLON) {
			return
		}
		if p.peek.Type.BeginsStatement() {
			// cur stays put; parseBlock's loop advances into peek itself.
			return
		}
		p.next()
	}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.cur.Pos
	p.expect(token.LPAREN)
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.next()
	then := p.parseStatement()
	var els ast.Stmt
	if p.peekIs(token.ELSE) {
		p.next()
		p.next()
		els = p.parseStatement()
	}
	return ast.NewIf(pos, cond, then, els)
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.cur.Pos
	p.expect(token.LPAREN)
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.next()
	body := p.parseStatement()
	return ast.NewWhile(pos, cond, body)
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.cur.Pos
	p.expect(token.LPAREN)

	var init ast.Stmt
	if !p.peekIs(token.SEMICOLON) {
		p.next()
		if p.curIs(token.LET) || p.curIs(token.CONST) || p.curIs(token.VAR) {
			init = p.parseVariableDeclaration() // consumes trailing ';'
		} else {
			expr := p.parseExpression(LOWEST)
			init = ast.NewExpressionStmt(expr.Pos(), expr)
			p.expect(token.SEMICOLON)
		}
	} else {
		p.next() // consume ';'
	}

	var cond ast.Expr
	if !p.peekIs(token.SEMICOLON) {
		p.next()
		cond = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON)

	var update ast.Expr
	if !p.peekIs(token.RPAREN) {
		p.next()
		update = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN)
	p.next()
	body := p.parseStatement()
	return ast.NewFor(pos, init, cond, update, body)
}

func (p *Parser) parseBreak() ast.Stmt {
	pos := p.cur.Pos
	if p.peekIs(token.SEMICOLON) {
		p.next()
	}
	return ast.NewBreak(pos)
}

func (p *Parser) parseContinue() ast.Stmt {
	pos := p.cur.Pos
	if p.peekIs(token.SEMICOLON) {
		p.next()
	}
	return ast.NewContinue(pos)
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.cur.Pos
	if p.peekIs(token.SEMICOLON) {
		p.next()
		return ast.NewReturn(pos, nil)
	}
	p.next()
	value := p.parseExpression(LOWEST)
	if p.peekIs(token.SEMICOLON) {
		p.next()
	}
	return ast.NewReturn(pos, value)
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	pos := p.cur.Pos
	expr := p.parseExpression(LOWEST)
	if p.peekIs(token.SEMICOLON) {
		p.next()
	}
	if expr == nil {
		return nil
	}
	return ast.NewExpressionStmt(pos, expr)
}

func (p *Parser) parseFunctionDeclaration() ast.Stmt {
	pos := p.cur.Pos
	p.expect(token.IDENT)
	decl := ast.NewFunctionDeclaration(pos, p.cur.Literal)
	if p.peekIs(token.LT) {
		p.next()
		decl.TypeParams = p.parseTypeParamList()
	}
	p.expect(token.LPAREN)
	decl.Params = p.parseParamList()
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		decl.ReturnType = p.parseTypeExpr()
	}
	p.expect(token.LBRACE)
	decl.Body = p.parseBlock()
	return decl
}

// parseTypeParamList parses `<T, U>` starting with cur == '<'.
func (p *Parser) parseTypeParamList() []string {
	var names []string
	for !p.peekIs(token.GT) {
		p.next()
		names = append(names, p.cur.Literal)
		if p.peekIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.GT)
	return names
}

func (p *Parser) parseInterfaceDeclaration() ast.Stmt {
	pos := p.cur.Pos
	p.expect(token.IDENT)
	decl := ast.NewInterfaceDeclaration(pos, p.cur.Literal)
	if p.peekIs(token.LT) {
		p.next()
		decl.TypeParams = p.parseTypeParamList()
	}
	if p.peekIs(token.EXTENDS) {
		p.next()
		for {
			p.expect(token.IDENT)
			decl.Extends = append(decl.Extends, p.cur.Literal)
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
		name := p.cur.Literal
		if !p.expect(token.COLON) {
			break
		}
		p.next()
		decl.Members = append(decl.Members, ast.ObjectTypeMember{Name: name, Type: p.parseTypeExpr()})
		if p.peekIs(token.SEMICOLON) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return decl
}
