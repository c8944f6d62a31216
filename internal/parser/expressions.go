package parser

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/token"
)

// parseExpression implements the core Pratt loop: read a prefix, then while
// the peeked token binds tighter than minPrec, consume it as an infix
// operator. Right-associative operators (assignment, conditional) register
// an infix handler that recurses one level below their own precedence;
// left-associative ones recurse at their own precedence (handled inside
// parseBinary), so an equal-precedence operator ends the right operand.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.errorf(p.cur.Pos, "unexpected token %s in expression", p.cur.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && minPrec < p.peekPrecedence() {
		infix := p.infixFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.next()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	if p.peekIs(token.ARROW) {
		return p.parseArrowSingleParam()
	}
	return ast.NewIdentifier(p.cur.Pos, p.cur.Literal)
}

// parseArrowSingleParam handles the bare-identifier arrow form `x => expr`.
func (p *Parser) parseArrowSingleParam() ast.Expr {
	fn := ast.NewFunctionExpr(p.cur.Pos)
	fn.IsArrow = true
	fn.Params = []ast.Param{{Name: p.cur.Literal}}
	p.next() // consume identifier, cur == ARROW
	p.next() // consume =>, cur == start of body
	fn.Body = p.parseArrowBody()
	return fn
}

func (p *Parser) parseArrowBody() *ast.Block {
	if p.curIs(token.LBRACE) {
		return p.parseBlock()
	}
	pos := p.cur.Pos
	expr := p.parseExpression(ASSIGNMENT)
	return ast.NewBlock(pos, []ast.Stmt{ast.NewReturn(pos, expr)})
}

func (p *Parser) parseNumberLiteral() ast.Expr {
	lit := ast.NewLiteral(p.cur.Pos, ast.NumberLiteral)
	lit.Number = p.cur.NumberValue
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expr {
	lit := ast.NewLiteral(p.cur.Pos, ast.StringLiteral)
	lit.Str = p.cur.StringValue
	return lit
}

func (p *Parser) parseBooleanLiteral() ast.Expr {
	lit := ast.NewLiteral(p.cur.Pos, ast.BooleanLiteral)
	lit.Bool = p.curIs(token.TRUE)
	return lit
}

func (p *Parser) parseNullLiteral() ast.Expr {
	return ast.NewLiteral(p.cur.Pos, ast.NullLiteral)
}

func (p *Parser) parseUndefinedLiteral() ast.Expr {
	return ast.NewLiteral(p.cur.Pos, ast.UndefinedLiteral)
}

var unaryOps = map[token.Type]ast.UnaryOp{
	token.MINUS: ast.OpNeg, token.PLUS: ast.OpPos, token.BANG: ast.OpNot,
	token.TILDE: ast.OpBitNot, token.INC: ast.OpIncr, token.DEC: ast.OpDecr,
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.cur.Pos
	op := unaryOps[p.cur.Type]
	p.next()
	operand := p.parseExpression(UNARY)
	return ast.NewUnary(pos, op, operand, false)
}

func (p *Parser) parsePostfix(left ast.Expr) ast.Expr {
	op := unaryOps[p.cur.Type]
	return ast.NewUnary(left.Pos(), op, left, true)
}

func (p *Parser) parseTypeofExpr() ast.Expr {
	pos := p.cur.Pos
	p.next()
	operand := p.parseExpression(UNARY)
	// `typeof x` has no dedicated node in spec.md §3's Expr list; it is
	// represented as a Call to the synthetic identifier "typeof" so the
	// checker's typeof-narrowing pattern match (spec.md §4.F) can detect it
	// by callee name without growing the tagged sum.
	return ast.NewCall(pos, ast.NewIdentifier(pos, "typeof"), []ast.Expr{operand})
}

func (p *Parser) parseNewExpr() ast.Expr {
	pos := p.cur.Pos
	p.next()
	// CALL-1 so that a trailing '(' at the CALL precedence level is still
	// consumed as the constructor's argument list by this same parse.
	callee := p.parseExpression(CALL - 1)
	call, ok := callee.(*ast.Call)
	if !ok {
		call = ast.NewCall(pos, callee, nil)
	}
	call.IsNew = true
	return call
}

var binaryOps = map[token.Type]ast.BinaryOp{
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub, token.STAR: ast.OpMul,
	token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod,
	token.LT: ast.OpLt, token.GT: ast.OpGt, token.LE: ast.OpLe, token.GE: ast.OpGe,
	token.EQ: ast.OpEq, token.NEQ: ast.OpNeq,
	token.AND_AND: ast.OpAnd, token.OR_OR: ast.OpOr,
	token.AMP: ast.OpBitAnd, token.PIPE: ast.OpBitOr, token.CARET: ast.OpBitXor,
	token.SHL: ast.OpShl, token.SHR: ast.OpShr, token.USHR: ast.OpUShr,
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := binaryOps[p.cur.Type]
	pos := p.cur.Pos
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec) // left-associative: strictly greater binds next
	return ast.NewBinary(pos, op, left, right)
}

func (p *Parser) parseStrictEqual(left ast.Expr) ast.Expr {
	negate := p.curIs(token.STRICT_NEQ)
	pos := p.cur.Pos
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return ast.NewStrictEqual(pos, left, right, negate)
}

// parseTypeAssertion handles the postfix `expr as T` cast form (spec.md §3's
// TypeAssertion node; the prefix `<T>expr` form is not supported since it
// collides with the generic-instantiation/less-than grammar).
func (p *Parser) parseTypeAssertion(left ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.next()
	ann := p.parseTypeExpr()
	return ast.NewTypeAssertion(pos, left, ann)
}

func (p *Parser) parseInstanceOf(left ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.next()
	if !p.curIs(token.IDENT) {
		p.errorf(p.cur.Pos, "expected class name after instanceof, got %s", p.cur.Type)
		return ast.NewInstanceOf(pos, left, "")
	}
	class := p.cur.Literal
	return ast.NewInstanceOf(pos, left, class)
}

// parseConditional is right-associative: the then-branch is a full
// expression (LOWEST) and the else-branch recurses at CONDITIONAL-1 so
// nested ternaries on the right associate correctly.
func (p *Parser) parseConditional(cond ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.next()
	then := p.parseExpression(LOWEST)
	if !p.expect(token.COLON) {
		return ast.NewConditional(pos, cond, then, then)
	}
	p.next()
	// Right-associative: recurse one level below CONDITIONAL so a nested
	// `c ? d : e` on the right is consumed as a unit instead of producing
	// the wrong left grouping.
	els := p.parseExpression(CONDITIONAL - 1)
	return ast.NewConditional(pos, cond, then, els)
}

var compoundAssignOps = map[token.Type]ast.AssignOp{
	token.ASSIGN: ast.AssignPlain, token.PLUS_ASSIGN: ast.AssignAdd, token.MINUS_ASSIGN: ast.AssignSub,
	token.STAR_ASSIGN: ast.AssignMul, token.SLASH_ASSIGN: ast.AssignDiv, token.PERCENT_ASSIGN: ast.AssignMod,
	token.AMP_ASSIGN: ast.AssignBitAnd, token.PIPE_ASSIGN: ast.AssignBitOr, token.CARET_ASSIGN: ast.AssignBitXor,
	token.SHL_ASSIGN: ast.AssignShl, token.SHR_ASSIGN: ast.AssignShr, token.USHR_ASSIGN: ast.AssignUShr,
}

// parseAssignment is right-associative: see parseConditional.
func (p *Parser) parseAssignment(left ast.Expr) ast.Expr {
	op := compoundAssignOps[p.cur.Type]
	pos := p.cur.Pos
	p.next()
	right := p.parseExpression(ASSIGNMENT - 1)
	return ast.NewAssignment(pos, left, op, right)
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	pos := p.cur.Pos
	var elements []ast.Expr
	for !p.peekIs(token.RBRACKET) {
		p.next()
		elements = append(elements, p.parseExpression(ASSIGNMENT))
		if p.peekIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACKET)
	return ast.NewArrayLiteral(pos, elements)
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	pos := p.cur.Pos
	var props []ast.ObjectProperty
	for !p.peekIs(token.RBRACE) {
		p.next()
		name := p.cur.Literal
		if !p.expect(token.COLON) {
			break
		}
		p.next()
		value := p.parseExpression(ASSIGNMENT)
		props = append(props, ast.ObjectProperty{Key: name, Value: value})
		if p.peekIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return ast.NewObjectLiteral(pos, props)
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	pos := p.cur.Pos
	var args []ast.Expr
	for !p.peekIs(token.RPAREN) {
		p.next()
		args = append(args, p.parseExpression(ASSIGNMENT))
		if p.peekIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return ast.NewCall(pos, left, args)
}

func (p *Parser) parseMember(left ast.Expr) ast.Expr {
	optional := p.curIs(token.QUESTION_DOT)
	pos := p.cur.Pos
	if !p.expect(token.IDENT) {
		return left
	}
	return ast.NewDottedMember(pos, left, p.cur.Literal, optional)
}

func (p *Parser) parseComputedMember(left ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.next()
	index := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET)
	return ast.NewComputedMember(pos, left, index)
}

// parseParenOrArrow disambiguates `(expr)` from a parenthesized arrow
// parameter list by speculatively parsing the latter and backtracking via
// a full lexer snapshot if it turns out not to be followed by `=>`.
func (p *Parser) parseParenOrArrow() ast.Expr {
	mark := p.snapshot()
	if fn, ok := p.tryParseArrowParams(); ok {
		return fn
	}
	p.restore(mark)

	p.next() // consume '('
	expr := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return expr
}

func (p *Parser) tryParseArrowParams() (ast.Expr, bool) {
	pos := p.cur.Pos
	p.next() // consume '('
	var params []ast.Param
	for !p.curIs(token.RPAREN) {
		if !p.curIs(token.IDENT) {
			return nil, false
		}
		param := ast.Param{Name: p.cur.Literal}
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			param.Annotation = p.parseTypeExpr()
		}
		params = append(params, param)
		p.next()
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	if !p.curIs(token.RPAREN) {
		return nil, false
	}
	if !p.peekIs(token.ARROW) {
		return nil, false
	}
	p.next() // cur == ARROW
	p.next() // cur == start of body
	fn := ast.NewFunctionExpr(pos)
	fn.IsArrow = true
	fn.Params = params
	fn.Body = p.parseArrowBody()
	return fn, true
}

func (p *Parser) parseFunctionExpr() ast.Expr {
	pos := p.cur.Pos
	fn := ast.NewFunctionExpr(pos)
	if p.peekIs(token.IDENT) {
		p.next()
		fn.Name = p.cur.Literal
	}
	p.expect(token.LPAREN)
	fn.Params = p.parseParamList()
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		fn.ReturnType = p.parseTypeExpr()
	}
	p.expect(token.LBRACE)
	fn.Body = p.parseBlock()
	return fn
}

// parseParamList parses `(p1: T1, p2: T2)` starting with cur == LPAREN and
// finishing with cur == RPAREN.
func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	for !p.peekIs(token.RPAREN) {
		p.next()
		param := ast.Param{Name: p.cur.Literal}
		if p.peekIs(token.COLON) {
			p.next()
			p.next()
			param.Annotation = p.parseTypeExpr()
		}
		params = append(params, param)
		if p.peekIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return params
}
