// Package parser implements a Pratt parser turning a token stream into the
// AST defined in internal/ast, per spec.md §4.E. It is grounded on the
// prefix/infix handler-table structure of github.com/cwbudde/go-dws's
// internal/parser (precedence-driven parseExpression loop, per-statement
// dispatch on the current token kind, panic-mode error recovery that skips
// to a synchronization token) adapted to this grammar's own precedence
// ladder and type-annotation syntax.
package parser

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/lexer"
	"github.com/tsxscript/tsx/internal/token"
)

// Precedence levels, low to high, per spec.md §4.E.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT
	CONDITIONAL
	LOGICAL_OR
	LOGICAL_AND
	BITWISE_OR
	BITWISE_XOR
	BITWISE_AND
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
	CALL
	PRIMARY
)

var precedences = map[token.Type]int{
	token.ASSIGN: ASSIGNMENT, token.PLUS_ASSIGN: ASSIGNMENT, token.MINUS_ASSIGN: ASSIGNMENT,
	token.STAR_ASSIGN: ASSIGNMENT, token.SLASH_ASSIGN: ASSIGNMENT, token.PERCENT_ASSIGN: ASSIGNMENT,
	token.AMP_ASSIGN: ASSIGNMENT, token.PIPE_ASSIGN: ASSIGNMENT, token.CARET_ASSIGN: ASSIGNMENT,
	token.SHL_ASSIGN: ASSIGNMENT, token.SHR_ASSIGN: ASSIGNMENT, token.USHR_ASSIGN: ASSIGNMENT,

	token.QUESTION: CONDITIONAL,
	token.OR_OR:    LOGICAL_OR,
	token.AND_AND:  LOGICAL_AND,
	token.PIPE:     BITWISE_OR,
	token.CARET:    BITWISE_XOR,
	token.AMP:      BITWISE_AND,

	token.EQ: EQUALITY, token.NEQ: EQUALITY, token.STRICT_EQ: EQUALITY, token.STRICT_NEQ: EQUALITY,

	token.LT: RELATIONAL, token.GT: RELATIONAL, token.LE: RELATIONAL, token.GE: RELATIONAL,
	token.INSTANCEOF: RELATIONAL, token.AS: RELATIONAL,

	token.SHL: SHIFT, token.SHR: SHIFT, token.USHR: SHIFT,

	token.PLUS: ADDITIVE, token.MINUS: ADDITIVE,

	token.STAR: MULTIPLICATIVE, token.SLASH: MULTIPLICATIVE, token.PERCENT: MULTIPLICATIVE,

	token.INC: POSTFIX, token.DEC: POSTFIX,

	token.LPAREN: CALL, token.DOT: CALL, token.QUESTION_DOT: CALL, token.LBRACKET: CALL,
}

type prefixParseFn func() ast.Expr
type infixParseFn func(ast.Expr) ast.Expr

// Parser consumes a lexer's token stream one token of lookahead at a time
// and reports syntax errors into a diag.Bag rather than panicking.
type Parser struct {
	lex *lexer.Lexer

	cur, peek token.Token

	diags diag.Bag

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// New creates a Parser over source. Call ParseProgram to produce the AST.
func New(source string) *Parser {
	p := &Parser{lex: lexer.New(source)}

	p.prefixFns = map[token.Type]prefixParseFn{
		token.IDENT:           p.parseIdentifier,
		token.NUMBER:          p.parseNumberLiteral,
		token.STRING:          p.parseStringLiteral,
		token.TEMPLATE_STRING: p.parseStringLiteral,
		token.TRUE:            p.parseBooleanLiteral,
		token.FALSE:           p.parseBooleanLiteral,
		token.NULL:            p.parseNullLiteral,
		token.UNDEFINED:       p.parseUndefinedLiteral,
		token.MINUS:           p.parseUnary,
		token.PLUS:            p.parseUnary,
		token.BANG:            p.parseUnary,
		token.TILDE:           p.parseUnary,
		token.INC:             p.parseUnary,
		token.DEC:             p.parseUnary,
		token.TYPEOF:          p.parseTypeofExpr,
		token.NEW:             p.parseNewExpr,
		token.LPAREN:          p.parseParenOrArrow,
		token.LBRACKET:        p.parseArrayLiteral,
		token.LBRACE:          p.parseObjectLiteral,
		token.FUNCTION:        p.parseFunctionExpr,
	}

	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS: p.parseBinary, token.MINUS: p.parseBinary,
		token.STAR: p.parseBinary, token.SLASH: p.parseBinary, token.PERCENT: p.parseBinary,
		token.LT: p.parseBinary, token.GT: p.parseBinary, token.LE: p.parseBinary, token.GE: p.parseBinary,
		token.EQ: p.parseBinary, token.NEQ: p.parseBinary,
		token.AND_AND: p.parseBinary, token.OR_OR: p.parseBinary,
		token.AMP: p.parseBinary, token.PIPE: p.parseBinary, token.CARET: p.parseBinary,
		token.SHL: p.parseBinary, token.SHR: p.parseBinary, token.USHR: p.parseBinary,

		token.STRICT_EQ: p.parseStrictEqual, token.STRICT_NEQ: p.parseStrictEqual,
		token.INSTANCEOF: p.parseInstanceOf,
		token.AS:         p.parseTypeAssertion,

		token.QUESTION: p.parseConditional,

		token.ASSIGN: p.parseAssignment, token.PLUS_ASSIGN: p.parseAssignment,
		token.MINUS_ASSIGN: p.parseAssignment, token.STAR_ASSIGN: p.parseAssignment,
		token.SLASH_ASSIGN: p.parseAssignment, token.PERCENT_ASSIGN: p.parseAssignment,
		token.AMP_ASSIGN: p.parseAssignment, token.PIPE_ASSIGN: p.parseAssignment,
		token.CARET_ASSIGN: p.parseAssignment, token.SHL_ASSIGN: p.parseAssignment,
		token.SHR_ASSIGN: p.parseAssignment, token.USHR_ASSIGN: p.parseAssignment,

		token.INC: p.parsePostfix, token.DEC: p.parsePostfix,

		token.LPAREN:       p.parseCall,
		token.DOT:          p.parseMember,
		token.QUESTION_DOT: p.parseMember,
		token.LBRACKET:     p.parseComputedMember,
	}

	p.next()
	p.next()
	return p
}

// Diagnostics returns every syntax error collected while parsing.
func (p *Parser) Diagnostics() []*diag.Diagnostic { return p.diags.Items() }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// expect advances past peek if it matches t, otherwise records a syntax
// error and leaves the cursor unchanged.
func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.next()
		return true
	}
	p.errorf(p.peek.Pos, "expected %s, got %s", t, p.peek.Type)
	return false
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.diags.Add(diag.Newf(diag.KindSyntax, pos, format, args...))
}

// snapshot captures enough state to backtrack a speculative parse (used to
// disambiguate a parenthesized expression from an arrow function's
// parameter list). The lexer holds only value fields, so copying it is a
// full, independent snapshot.
type snapshot struct {
	lex       lexer.Lexer
	cur, peek token.Token
	ndiags    int
}

func (p *Parser) snapshot() snapshot {
	return snapshot{lex: *p.lex, cur: p.cur, peek: p.peek, ndiags: p.diags.Len()}
}

func (p *Parser) restore(s snapshot) {
	*p.lex = s.lex
	p.cur, p.peek = s.cur, s.peek
	// Diagnostics recorded by the abandoned attempt are discarded by
	// truncating back to the pre-attempt count.
	items := p.diags.Items()
	if s.ndiags < len(items) {
		trimmed := diag.Bag{}
		for _, d := range items[:s.ndiags] {
			trimmed.Add(d)
		}
		p.diags = trimmed
	}
}

// ParseProgram parses the whole token stream into a Program, recovering
// from statement-level errors via synchronize (spec.md §4.E).
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		before := p.diags.Len()
		stmt := p.parseStatement()
		if p.diags.Len() > before {
			p.synchronize()
			continue
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.next()
	}
	return prog
}

// synchronize discards tokens until one that can begin a new top-level
// statement, or a semicolon just consumed, or EOF.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.next()
			return
		}
		if p.cur.Type.BeginsStatement() {
			return
		}
		p.next()
	}
}
