package checker

import (
	"testing"

	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/parser"
)

func checkSource(t *testing.T, src string) []*diag.Diagnostic {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Diagnostics())
	}
	return New().CheckProgram(prog)
}

func TestArithmeticNoErrors(t *testing.T) {
	diags := checkSource(t, `let x: number = 2 + 3 * 4; x;`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestIncompatibleInitializer(t *testing.T) {
	diags := checkSource(t, `let x: number = "hi";`)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Kind != diag.KindTypeMismatch {
		t.Fatalf("expected a type-mismatch diagnostic, got %s", diags[0].Kind)
	}
}

func TestUndefinedVariable(t *testing.T) {
	diags := checkSource(t, `y;`)
	if len(diags) != 1 || diags[0].Kind != diag.KindUndefinedVariable {
		t.Fatalf("expected one undefined-variable diagnostic, got %v", diags)
	}
}

func TestCallArityTooFewTooMany(t *testing.T) {
	diags := checkSource(t, `
		function f(a: number, b: number): number { return a + b; }
		f(1);
		f(1, 2, 3);
	`)
	var few, many int
	for _, d := range diags {
		switch d.Kind {
		case diag.KindTooFewArguments:
			few++
		case diag.KindTooManyArguments:
			many++
		}
	}
	if few != 1 || many != 1 {
		t.Fatalf("expected one too-few and one too-many diagnostic, got %v", diags)
	}
}

func TestPropertyNotExist(t *testing.T) {
	diags := checkSource(t, `let o = { a: 1 }; o.b;`)
	if len(diags) != 1 || diags[0].Kind != diag.KindUnknownProperty {
		t.Fatalf("expected one unknown-property diagnostic, got %v", diags)
	}
}

func TestNotCallable(t *testing.T) {
	diags := checkSource(t, `let x: number = 1; x();`)
	if len(diags) != 1 || diags[0].Kind != diag.KindNotCallable {
		t.Fatalf("expected one not-callable diagnostic, got %v", diags)
	}
}

func TestTypeofNarrowing(t *testing.T) {
	src := `
		function f(x) {
			if (typeof x === "string") {
				let y: string = x;
			}
			return "not string";
		}
	`
	diags := checkSource(t, src)
	if len(diags) != 0 {
		t.Fatalf("expected zero errors inside the narrowed branch, got %v", diags)
	}
}

func TestInstanceofNarrowing(t *testing.T) {
	src := `
		class A { greet(): string { return "A"; } }
		class B { greet(): string { return "B"; } }
		function g(x) {
			if (x instanceof B) {
				return x.greet();
			}
			return "unknown";
		}
	`
	diags := checkSource(t, src)
	if len(diags) != 0 {
		t.Fatalf("expected zero errors, got %v", diags)
	}
}

func TestNonNullNarrowingEitherOrder(t *testing.T) {
	for _, src := range []string{
		`function f(x: string | null | undefined) { if (x !== null && x !== undefined) { let y: string = x; } }`,
		`function f(x: string | null | undefined) { if (x !== undefined && x !== null) { let y: string = x; } }`,
	} {
		diags := checkSource(t, src)
		if len(diags) != 0 {
			t.Fatalf("expected zero errors for %q, got %v", src, diags)
		}
	}
}

func TestDuplicateDeclarationSameScope(t *testing.T) {
	diags := checkSource(t, `let x = 1; let x = 2;`)
	if len(diags) != 1 || diags[0].Kind != diag.KindDuplicateDeclaration {
		t.Fatalf("expected one duplicate-declaration diagnostic, got %v", diags)
	}
}

func TestBreakContinueOutsideLoopIsError(t *testing.T) {
	diags := checkSource(t, `break;`)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
}

func TestWhileAndForBodiesAllowBreakContinue(t *testing.T) {
	diags := checkSource(t, `
		while (true) { break; }
		for (let i = 0; i < 10; i = i + 1) { continue; }
	`)
	if len(diags) != 0 {
		t.Fatalf("expected zero diagnostics, got %v", diags)
	}
}
