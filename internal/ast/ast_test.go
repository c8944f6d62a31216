package ast

import (
	"strings"
	"testing"

	"github.com/tsxscript/tsx/internal/token"
)

func pos() token.Position { return token.Position{Line: 1, Column: 1} }

func TestLiteral_String(t *testing.T) {
	n := NewLiteral(pos(), NumberLiteral)
	n.Number = 42
	if got := n.String(); got != "42" {
		t.Errorf("got %q, want %q", got, "42")
	}

	s := NewLiteral(pos(), StringLiteral)
	s.Str = "hi"
	if got := s.String(); got != `"hi"` {
		t.Errorf("got %q, want %q", got, `"hi"`)
	}
}

func TestBinary_String(t *testing.T) {
	left := NewIdentifier(pos(), "a")
	right := NewIdentifier(pos(), "b")
	b := NewBinary(pos(), OpAdd, left, right)
	if got, want := b.String(), "(a + b)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStrictEqual_DistinctFromBinary(t *testing.T) {
	se := NewStrictEqual(pos(), NewIdentifier(pos(), "x"), NewLiteral(pos(), NullLiteral), false)
	if got, want := se.String(), "(x === null)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	var _ Expr = se // satisfies Expr without being a *Binary
}

func TestInstanceOf_String(t *testing.T) {
	io := NewInstanceOf(pos(), NewIdentifier(pos(), "x"), "Dog")
	if got, want := io.String(), "(x instanceof Dog)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBlock_String_IndentsStatements(t *testing.T) {
	block := NewBlock(pos(), []Stmt{
		NewExpressionStmt(pos(), NewIdentifier(pos(), "x")),
	})
	got := block.String()
	if !strings.Contains(got, "  x;") {
		t.Errorf("expected indented statement, got %q", got)
	}
}

func TestIf_String_WithElse(t *testing.T) {
	then := NewBlock(pos(), nil)
	els := NewBlock(pos(), nil)
	ifs := NewIf(pos(), NewIdentifier(pos(), "cond"), then, els)
	want := "if (cond) {} else {}"
	if got := ifs.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVariableDeclaration_String(t *testing.T) {
	decl := NewVariableDeclaration(pos(), DeclLet, []Declarator{
		{Name: "x", Annotation: NewNamedTypeExpr(pos(), "number"), Initializer: NewLiteral(pos(), NumberLiteral)},
	})
	want := "let x: number = 0;"
	if got := decl.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClassDeclaration_String(t *testing.T) {
	class := NewClassDeclaration(pos(), "Animal")
	class.Members = []ClassMember{
		{Kind: MemberProperty, Name: "name", Visibility: Public, Annotation: NewNamedTypeExpr(pos(), "string")},
		{Kind: MemberMethod, Name: "speak", Visibility: Public, Body: NewBlock(pos(), nil)},
	}
	got := class.String()
	if !strings.HasPrefix(got, "class Animal {\n") {
		t.Errorf("unexpected class rendering: %q", got)
	}
	if !strings.Contains(got, "public name: string;") {
		t.Errorf("expected property rendering, got %q", got)
	}
	if !strings.Contains(got, "public speak() {}") {
		t.Errorf("expected method rendering, got %q", got)
	}
}

func TestFunctionExpr_Arrow_String(t *testing.T) {
	f := NewFunctionExpr(pos())
	f.IsArrow = true
	f.Params = []Param{{Name: "x", Annotation: NewNamedTypeExpr(pos(), "number")}}
	f.Body = NewBlock(pos(), []Stmt{NewReturn(pos(), NewIdentifier(pos(), "x"))})
	want := "(x: number) => {\n  return x;\n}"
	if got := f.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnionTypeExpr_String(t *testing.T) {
	u := NewUnionTypeExpr(pos(), []TypeExpr{
		NewNamedTypeExpr(pos(), "number"),
		NewNamedTypeExpr(pos(), "string"),
	})
	if got, want := u.String(), "number | string"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProgram_String_JoinsStatementsByLine(t *testing.T) {
	p := &Program{Statements: []Stmt{
		NewExpressionStmt(pos(), NewIdentifier(pos(), "a")),
		NewExpressionStmt(pos(), NewIdentifier(pos(), "b")),
	}}
	want := "a;\nb;"
	if got := p.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
