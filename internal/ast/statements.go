package ast

import (
	"fmt"
	"strings"

	"github.com/tsxscript/tsx/internal/token"
)

// ExpressionStmt wraps an expression evaluated for its side effect.
type ExpressionStmt struct {
	stmtBase
	Expression Expr
}

func NewExpressionStmt(pos token.Position, expr Expr) *ExpressionStmt {
	return &ExpressionStmt{stmtBase: stmtBase{base{pos}}, Expression: expr}
}

func (e *ExpressionStmt) String() string { return e.Expression.String() + ";" }

// Block is a brace-delimited statement sequence and is itself a lexical
// scope boundary (spec.md §4.F).
type Block struct {
	stmtBase
	Statements []Stmt
}

func NewBlock(pos token.Position, stmts []Stmt) *Block {
	return &Block{stmtBase: stmtBase{base{pos}}, Statements: stmts}
}

func (b *Block) String() string {
	if len(b.Statements) == 0 {
		return "{}"
	}
	var sb stringBuilder
	for _, s := range b.Statements {
		sb.writeLine(indent(s.String()))
	}
	return "{\n" + sb.String() + "\n}"
}

// DeclKind distinguishes let/const/var declarations.
type DeclKind int

const (
	DeclLet DeclKind = iota
	DeclConst
	DeclVar
)

func (k DeclKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	case DeclVar:
		return "var"
	}
	return "let"
}

// Declarator is one `name: T = init` binding within a VariableDeclaration.
type Declarator struct {
	Name        string
	Annotation  TypeExpr // nil if omitted
	Initializer Expr     // nil if omitted
}

// VariableDeclaration is `let|const|var d1, d2, ...;`.
type VariableDeclaration struct {
	stmtBase
	Kind        DeclKind
	Declarators []Declarator
}

func NewVariableDeclaration(pos token.Position, kind DeclKind, decls []Declarator) *VariableDeclaration {
	return &VariableDeclaration{stmtBase: stmtBase{base{pos}}, Kind: kind, Declarators: decls}
}

func (v *VariableDeclaration) String() string {
	parts := make([]string, len(v.Declarators))
	for i, d := range v.Declarators {
		s := d.Name
		if d.Annotation != nil {
			s += ": " + d.Annotation.String()
		}
		if d.Initializer != nil {
			s += " = " + d.Initializer.String()
		}
		parts[i] = s
	}
	return fmt.Sprintf("%s %s;", v.Kind, strings.Join(parts, ", "))
}

// If is an `if (cond) then else else` statement; Else is nil when absent.
type If struct {
	stmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt
}

func NewIf(pos token.Position, cond Expr, then, els Stmt) *If {
	return &If{stmtBase: stmtBase{base{pos}}, Condition: cond, Then: then, Else: els}
}

func (i *If) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Condition.String(), i.Then.String())
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// While is `while (cond) body`.
type While struct {
	stmtBase
	Condition Expr
	Body      Stmt
}

func NewWhile(pos token.Position, cond Expr, body Stmt) *While {
	return &While{stmtBase: stmtBase{base{pos}}, Condition: cond, Body: body}
}

func (w *While) String() string {
	return fmt.Sprintf("while (%s) %s", w.Condition.String(), w.Body.String())
}

// For is a C-style `for (init; cond; update) body`; any clause may be nil.
type For struct {
	stmtBase
	Init   Stmt
	Cond   Expr
	Update Expr
	Body   Stmt
}

func NewFor(pos token.Position, init Stmt, cond, update Expr, body Stmt) *For {
	return &For{stmtBase: stmtBase{base{pos}}, Init: init, Cond: cond, Update: update, Body: body}
}

func (f *For) String() string {
	initStr, condStr, updateStr := "", "", ""
	if f.Init != nil {
		initStr = strings.TrimSuffix(f.Init.String(), ";")
	}
	if f.Cond != nil {
		condStr = f.Cond.String()
	}
	if f.Update != nil {
		updateStr = f.Update.String()
	}
	return fmt.Sprintf("for (%s; %s; %s) %s", initStr, condStr, updateStr, f.Body.String())
}

// Return is `return expr;`; Value is nil for a bare `return;`.
type Return struct {
	stmtBase
	Value Expr
}

func NewReturn(pos token.Position, value Expr) *Return {
	return &Return{stmtBase: stmtBase{base{pos}}, Value: value}
}

func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value.String())
}

// Break is `break;`.
type Break struct{ stmtBase }

func NewBreak(pos token.Position) *Break { return &Break{stmtBase{base{pos}}} }
func (b *Break) String() string          { return "break;" }

// Continue is `continue;`.
type Continue struct{ stmtBase }

func NewContinue(pos token.Position) *Continue { return &Continue{stmtBase{base{pos}}} }
func (c *Continue) String() string             { return "continue;" }

// FunctionDeclaration is a named top-level/nested `function` declaration.
type FunctionDeclaration struct {
	stmtBase
	Name       string
	TypeParams []string
	Params     []Param
	ReturnType TypeExpr
	Body       *Block
}

func NewFunctionDeclaration(pos token.Position, name string) *FunctionDeclaration {
	return &FunctionDeclaration{stmtBase: stmtBase{base{pos}}, Name: name}
}

func (f *FunctionDeclaration) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Annotation != nil {
			parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Annotation.String())
		} else {
			parts[i] = p.Name
		}
	}
	tp := ""
	if len(f.TypeParams) > 0 {
		tp = "<" + strings.Join(f.TypeParams, ", ") + ">"
	}
	ret := ""
	if f.ReturnType != nil {
		ret = ": " + f.ReturnType.String()
	}
	return fmt.Sprintf("function %s%s(%s)%s %s", f.Name, tp, strings.Join(parts, ", "), ret, f.Body.String())
}

// InterfaceDeclaration declares a structural interface with an optional
// extends list.
type InterfaceDeclaration struct {
	stmtBase
	Name       string
	TypeParams []string
	Extends    []string
	Members    []ObjectTypeMember
}

func NewInterfaceDeclaration(pos token.Position, name string) *InterfaceDeclaration {
	return &InterfaceDeclaration{stmtBase: stmtBase{base{pos}}, Name: name}
}

func (i *InterfaceDeclaration) String() string {
	parts := make([]string, len(i.Members))
	for idx, m := range i.Members {
		parts[idx] = fmt.Sprintf("  %s: %s;", m.Name, m.Type.String())
	}
	ext := ""
	if len(i.Extends) > 0 {
		ext = " extends " + strings.Join(i.Extends, ", ")
	}
	body := "{}"
	if len(parts) > 0 {
		body = "{\n" + strings.Join(parts, "\n") + "\n}"
	}
	return fmt.Sprintf("interface %s%s %s", i.Name, ext, body)
}
