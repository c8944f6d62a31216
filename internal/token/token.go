package token

import "fmt"

// Type identifies the kind of a Token. Kinds partition into keywords,
// literal markers, punctuation/operator kinds, and the terminal EOF/Error
// kinds, per spec.md §3.
type Type int

const (
	// ILLEGAL marks a byte sequence the lexer could not classify.
	ILLEGAL Type = iota
	EOF
	ERROR // carries a diagnostic message as its Literal

	// Identifiers and literals.
	IDENT
	NUMBER
	STRING
	TEMPLATE_STRING

	literalEnd

	// Keywords.
	LET
	CONST
	VAR
	FUNCTION
	CLASS
	INTERFACE
	IF
	ELSE
	WHILE
	FOR
	RETURN
	BREAK
	CONTINUE
	EXTENDS
	IMPLEMENTS
	NEW
	TYPEOF
	INSTANCEOF
	AS
	TRUE
	FALSE
	NULL
	UNDEFINED
	PUBLIC
	PRIVATE
	PROTECTED
	STATIC
	READONLY
	GET
	SET
	CONSTRUCTOR

	// Type-position keywords (also usable as identifiers in some positions,
	// but recognized as distinct kinds to simplify annotation parsing).
	NUMBER_TYPE
	STRING_TYPE
	BOOLEAN_TYPE
	ANY_TYPE
	UNKNOWN_TYPE
	NEVER_TYPE
	VOID_TYPE

	keywordEnd

	// Punctuation and operators. Longest-match families are grouped.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMICOLON
	COMMA
	DOT
	QUESTION_DOT
	COLON
	QUESTION
	ARROW // =>
	ELLIPSIS

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	TILDE

	AMP
	PIPE
	CARET
	SHL  // <<
	SHR  // >>
	USHR // >>>

	LT
	GT
	LE
	GE

	EQ     // ==
	STRICT_EQ  // ===
	NEQ    // !=
	STRICT_NEQ // !==

	AND_AND // &&
	OR_OR   // ||

	INC // ++
	DEC // --

	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	AMP_ASSIGN
	PIPE_ASSIGN
	CARET_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	USHR_ASSIGN
)

var typeNames = map[Type]string{
	ILLEGAL:         "ILLEGAL",
	EOF:             "EOF",
	ERROR:           "ERROR",
	IDENT:           "IDENT",
	NUMBER:          "NUMBER",
	STRING:          "STRING",
	TEMPLATE_STRING: "TEMPLATE_STRING",

	LET: "LET", CONST: "CONST", VAR: "VAR", FUNCTION: "FUNCTION",
	CLASS: "CLASS", INTERFACE: "INTERFACE", IF: "IF", ELSE: "ELSE",
	WHILE: "WHILE", FOR: "FOR", RETURN: "RETURN", BREAK: "BREAK",
	CONTINUE: "CONTINUE", EXTENDS: "EXTENDS", IMPLEMENTS: "IMPLEMENTS",
	NEW: "NEW", TYPEOF: "TYPEOF", INSTANCEOF: "INSTANCEOF", AS: "AS", TRUE: "TRUE",
	FALSE: "FALSE", NULL: "NULL", UNDEFINED: "UNDEFINED", PUBLIC: "PUBLIC",
	PRIVATE: "PRIVATE", PROTECTED: "PROTECTED", STATIC: "STATIC",
	READONLY: "READONLY", GET: "GET", SET: "SET", CONSTRUCTOR: "CONSTRUCTOR",

	NUMBER_TYPE: "NUMBER_TYPE", STRING_TYPE: "STRING_TYPE",
	BOOLEAN_TYPE: "BOOLEAN_TYPE", ANY_TYPE: "ANY_TYPE",
	UNKNOWN_TYPE: "UNKNOWN_TYPE", NEVER_TYPE: "NEVER_TYPE", VOID_TYPE: "VOID_TYPE",

	LPAREN: "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
	LBRACKET: "LBRACKET", RBRACKET: "RBRACKET", SEMICOLON: "SEMICOLON",
	COMMA: "COMMA", DOT: "DOT", QUESTION_DOT: "QUESTION_DOT", COLON: "COLON",
	QUESTION: "QUESTION", ARROW: "ARROW", ELLIPSIS: "ELLIPSIS",

	PLUS: "PLUS", MINUS: "MINUS", STAR: "STAR", SLASH: "SLASH",
	PERCENT: "PERCENT", BANG: "BANG", TILDE: "TILDE",
	AMP: "AMP", PIPE: "PIPE", CARET: "CARET", SHL: "SHL", SHR: "SHR", USHR: "USHR",
	LT: "LT", GT: "GT", LE: "LE", GE: "GE",
	EQ: "EQ", STRICT_EQ: "STRICT_EQ", NEQ: "NEQ", STRICT_NEQ: "STRICT_NEQ",
	AND_AND: "AND_AND", OR_OR: "OR_OR",
	INC: "INC", DEC: "DEC",

	ASSIGN: "ASSIGN", PLUS_ASSIGN: "PLUS_ASSIGN", MINUS_ASSIGN: "MINUS_ASSIGN",
	STAR_ASSIGN: "STAR_ASSIGN", SLASH_ASSIGN: "SLASH_ASSIGN",
	PERCENT_ASSIGN: "PERCENT_ASSIGN", AMP_ASSIGN: "AMP_ASSIGN",
	PIPE_ASSIGN: "PIPE_ASSIGN", CARET_ASSIGN: "CARET_ASSIGN",
	SHL_ASSIGN: "SHL_ASSIGN", SHR_ASSIGN: "SHR_ASSIGN", USHR_ASSIGN: "USHR_ASSIGN",
}

// String renders the token type's symbolic name, used in diagnostics and in
// Token.String().
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsKeyword reports whether t is one of the reserved-word kinds.
func (t Type) IsKeyword() bool {
	return t > literalEnd && t < keywordEnd
}

// Keywords maps every reserved identifier to its token kind. The lexer
// consults this table after scanning an identifier-shaped lexeme.
var Keywords = map[string]Type{
	"let": LET, "const": CONST, "var": VAR, "function": FUNCTION,
	"class": CLASS, "interface": INTERFACE, "if": IF, "else": ELSE,
	"while": WHILE, "for": FOR, "return": RETURN, "break": BREAK,
	"continue": CONTINUE, "extends": EXTENDS, "implements": IMPLEMENTS,
	"new": NEW, "typeof": TYPEOF, "instanceof": INSTANCEOF, "as": AS,
	"true": TRUE, "false": FALSE, "null": NULL, "undefined": UNDEFINED,
	"public": PUBLIC, "private": PRIVATE, "protected": PROTECTED,
	"static": STATIC, "readonly": READONLY, "get": GET, "set": SET,
	"constructor": CONSTRUCTOR,
	"number":      NUMBER_TYPE, "string": STRING_TYPE, "boolean": BOOLEAN_TYPE,
	"any": ANY_TYPE, "unknown": UNKNOWN_TYPE, "never": NEVER_TYPE, "void": VOID_TYPE,
}

// Token is a single lexical unit: its kind, the source slice it was scanned
// from, and the position it started at. Number and string literals also
// carry their decoded value.
type Token struct {
	Type    Type
	Literal string
	Pos     Position

	NumberValue float64
	StringValue string
	HasNumber   bool
	HasString   bool
}

// NewToken builds a Token of the given kind and lexeme at pos.
func NewToken(t Type, literal string, pos Position) Token {
	return Token{Type: t, Literal: literal, Pos: pos}
}

// String renders a debug form: "TYPE(\"lexeme\") at line:col", truncating
// long literals the way error listings do.
func (t Token) String() string {
	if t.Type == EOF {
		return fmt.Sprintf("EOF at %s", t.Pos)
	}
	lit := t.Literal
	const maxLen = 20
	if len(lit) > maxLen {
		lit = fmt.Sprintf("%s...", lit[:maxLen])
	}
	return fmt.Sprintf("%s(%q) at %s", t.Type, lit, t.Pos)
}

// IsAssignment reports whether t is one of the compound/plain assignment
// operator kinds; the parser uses this to decide the Assignment precedence
// level's infix handler.
func (t Type) IsAssignment() bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, AMP_ASSIGN, PIPE_ASSIGN, CARET_ASSIGN,
		SHL_ASSIGN, SHR_ASSIGN, USHR_ASSIGN:
		return true
	default:
		return false
	}
}

// BeginsStatement reports whether t is a token kind that can start a new
// top-level statement; the parser's panic-mode recovery (spec.md §4.E)
// resynchronizes on these kinds.
func (t Type) BeginsStatement() bool {
	switch t {
	case CLASS, FUNCTION, LET, CONST, VAR, IF, WHILE, FOR, RETURN, INTERFACE:
		return true
	default:
		return false
	}
}
