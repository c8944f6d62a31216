package parser

import (
	"strings"
	"testing"

	"github.com/tsxscript/tsx/internal/ast"
)

func parseExprString(t *testing.T, src string) string {
	t.Helper()
	p := New(src)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, p.Diagnostics())
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	es, ok := prog.Statements[0].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("expected ExpressionStmt, got %T", prog.Statements[0])
	}
	return es.Expression.String()
}

func TestParseExpression_Precedence(t *testing.T) {
	tests := []struct{ src, want string }{
		{"2 + 3 * 4;", "(2 + (3 * 4))"},
		{"(2 + 3) * 4;", "((2 + 3) * 4)"},
		{"a = b = c;", "(a = (b = c))"},
		{"a ? b : c ? d : e;", "(a ? b : (c ? d : e))"},
		{"a instanceof B;", "(a instanceof B)"},
		{"a === b;", "(a === b)"},
		{"a !== b;", "(a !== b)"},
		{"!a && b;", "((!a) && b)"},
		{"a.b.c;", "a.b.c"},
		{"a[0];", "a[0]"},
		{"f(1, 2);", "f(1, 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := parseExprString(t, tt.src); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseNew_MarksCallAsNew(t *testing.T) {
	got := parseExprString(t, "new B();")
	if got != "new B()" {
		t.Errorf("got %q", got)
	}
}

func TestParseArrow_SingleParam(t *testing.T) {
	got := parseExprString(t, "x => x + 1;")
	want := "(x) => {\n  return (x + 1);\n}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseArrow_TypedParamsDisambiguatesFromGrouping(t *testing.T) {
	got := parseExprString(t, "(x: number, y: number) => x + y;")
	if !strings.Contains(got, "(x: number, y: number) =>") {
		t.Errorf("got %q", got)
	}
}

func TestParseGrouping_NotMistakenForArrow(t *testing.T) {
	got := parseExprString(t, "(1 + 2) * 3;")
	if got != "((1 + 2) * 3)" {
		t.Errorf("got %q", got)
	}
}

func TestParseVariableDeclaration(t *testing.T) {
	p := New(`let x: number = 2 + 3 * 4;`)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", prog.Statements[0])
	}
	if decl.Kind != ast.DeclLet || len(decl.Declarators) != 1 {
		t.Fatalf("unexpected declaration shape: %+v", decl)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	p := New(`function add(a: number, b: number): number { return a + b; }`)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	fn, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected FunctionDeclaration, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
}

func TestParseClassDeclaration(t *testing.T) {
	src := `
class Animal {
  private name: string;
  constructor(name: string) { this.name = name; }
  speak(): string { return this.name; }
}`
	p := New(src)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	class, ok := prog.Statements[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected ClassDeclaration, got %T", prog.Statements[0])
	}
	if class.Name != "Animal" || len(class.Members) != 3 {
		t.Fatalf("unexpected class shape: %+v", class)
	}
}

func TestParseIfWithTypeofGuard(t *testing.T) {
	src := `
function f(x) {
  if (typeof x === "string") { return x; }
  return "not string";
}`
	p := New(src)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	ifStmt, ok := fn.Body.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected If, got %T", fn.Body.Statements[0])
	}
	call, ok := ifStmt.Condition.(*ast.StrictEqual)
	if !ok {
		t.Fatalf("expected StrictEqual condition, got %T", ifStmt.Condition)
	}
	if _, ok := call.Left.(*ast.Call); !ok {
		t.Fatalf("expected typeof call on the left, got %T", call.Left)
	}
}

func TestParseTypeAnnotation_UnionAndArray(t *testing.T) {
	p := New(`let x: number[] | string;`)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	ann := decl.Declarators[0].Annotation
	if ann.String() != "number[] | string" {
		t.Errorf("got %q", ann.String())
	}
}

func TestParseFunctionTypeAnnotation(t *testing.T) {
	p := New(`let f: (number, string) => boolean;`)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	if got, want := decl.Declarators[0].Annotation.String(), "(number, string) => boolean"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSynchronize_RecoversAfterSyntaxError(t *testing.T) {
	src := `let x: number = ; let y = 1;`
	p := New(src)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
	found := false
	for _, s := range prog.Statements {
		if decl, ok := s.(*ast.VariableDeclaration); ok && decl.Declarators[0].Name == "y" {
			found = true
		}
	}
	if !found {
		t.Error("parser should recover and still parse the statement after the error")
	}
}

func TestRoundTrip_ReparsesToEquivalentText(t *testing.T) {
	src := "let x: number = 2 + 3 * 4;"
	p1 := New(src)
	prog1 := p1.ParseProgram()
	rendered := prog1.String()

	p2 := New(rendered)
	prog2 := p2.ParseProgram()
	if len(p2.Diagnostics()) > 0 {
		t.Fatalf("re-parsing rendered output failed: %v", p2.Diagnostics())
	}
	if prog2.String() != rendered {
		t.Errorf("round-trip text diverged: %q vs %q", prog2.String(), rendered)
	}
}
