package compiler

import (
	"strconv"
	"strings"
	"testing"

	"github.com/tsxscript/tsx/internal/bytecode"
	"github.com/tsxscript/tsx/internal/parser"
)

func compileSource(t *testing.T, src string) *bytecode.Function {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if diags := p.Diagnostics(); len(diags) > 0 {
		t.Fatalf("unexpected parse errors: %v", diags)
	}
	fn, err := New().Compile(prog)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return fn
}

func disasm(fn *bytecode.Function) string { return bytecode.Disassemble(fn) }

func TestTopLevelEndsWithImplicitNullReturn(t *testing.T) {
	fn := compileSource(t, `1 + 1;`)
	out := disasm(fn)
	if !strings.Contains(out, "Null") || !strings.Contains(out, "Return") {
		t.Fatalf("expected an implicit Null/Return pair at the end of the top-level function, got:\n%s", out)
	}
}

func TestArithmeticEmitsExpectedOpcodes(t *testing.T) {
	fn := compileSource(t, `2 + 3 * 4;`)
	out := disasm(fn)
	for _, want := range []string{"Constant", "Multiply", "Add"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected disassembly to contain %q, got:\n%s", want, out)
		}
	}
}

func TestLocalDeclarationUsesLocalSlotsNotGlobals(t *testing.T) {
	src := `function f() { let x = 1; let y = 2; return x + y; }`
	fn := compileSource(t, src)
	nested, ok := findNestedFunction(fn, "f")
	if !ok {
		t.Fatalf("expected a nested Function constant named %q", "f")
	}
	if nested.NumLocals != 2 {
		t.Fatalf("expected 2 locals (x, y), got %d", nested.NumLocals)
	}
	out := disasm(nested)
	if strings.Contains(out, "GetGlobal") || strings.Contains(out, "SetGlobal") {
		t.Fatalf("expected only local opcodes inside a function body with no free variables, got:\n%s", out)
	}
	if !strings.Contains(out, "GetLocal") {
		t.Fatalf("expected GetLocal opcodes reading x and y, got:\n%s", out)
	}
}

func TestTopLevelVariableUsesGlobalOpcodes(t *testing.T) {
	fn := compileSource(t, `let x = 1; x;`)
	out := disasm(fn)
	if !strings.Contains(out, "SetGlobal") || !strings.Contains(out, "GetGlobal") {
		t.Fatalf("expected top-level `let` to use Get/SetGlobal, got:\n%s", out)
	}
}

func TestClosureCapturesEnclosingLocalAsUpvalue(t *testing.T) {
	src := `
		function outer() {
			let count = 0;
			function inner() { return count; }
			return inner;
		}
	`
	fn := compileSource(t, src)
	outerFn, ok := findNestedFunction(fn, "outer")
	if !ok {
		t.Fatalf("expected a nested Function constant named %q", "outer")
	}
	innerFn, ok := findNestedFunction(outerFn, "inner")
	if !ok {
		t.Fatalf("expected a doubly-nested Function constant named %q", "inner")
	}
	if innerFn.NumUpvalues != 1 {
		t.Fatalf("expected inner to capture exactly one upvalue, got %d", innerFn.NumUpvalues)
	}
	innerOut := disasm(innerFn)
	if !strings.Contains(innerOut, "GetUpvalue") {
		t.Fatalf("expected inner's body to read count via GetUpvalue, got:\n%s", innerOut)
	}
	outerOut := disasm(outerFn)
	if !strings.Contains(outerOut, "Closure") {
		t.Fatalf("expected outer to emit a Closure instruction building inner, got:\n%s", outerOut)
	}
}

func TestIfStatementEmitsConditionalJumps(t *testing.T) {
	fn := compileSource(t, `if (true) { 1; } else { 2; }`)
	out := disasm(fn)
	if !strings.Contains(out, "JumpIfFalse") {
		t.Fatalf("expected a JumpIfFalse for the if condition, got:\n%s", out)
	}
	if !strings.Contains(out, "Jump ") && !strings.Contains(out, "Jump\n") {
		t.Fatalf("expected an unconditional Jump skipping the else branch, got:\n%s", out)
	}
}

func TestWhileLoopEmitsBackwardJump(t *testing.T) {
	fn := compileSource(t, `let i = 0; while (i < 10) { i = i + 1; }`)
	out := disasm(fn)
	lines := strings.Split(out, "\n")
	sawBackward := false
	for _, line := range lines {
		if !strings.Contains(line, "->") {
			continue
		}
		fields := strings.Fields(line)
		offset, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		target, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			continue
		}
		if target < offset {
			sawBackward = true
		}
	}
	if !sawBackward {
		t.Fatalf("expected at least one jump targeting an earlier offset (the loop back-edge), got:\n%s", out)
	}
}

func TestLogicalOperatorsLowerToJumpsNotAndOrOpcodes(t *testing.T) {
	fn := compileSource(t, `true && false;`)
	out := disasm(fn)
	if strings.Contains(out, " And ") {
		t.Fatalf("expected && to lower to JumpIfFalse, not an And opcode, got:\n%s", out)
	}
	if !strings.Contains(out, "JumpIfFalse") {
		t.Fatalf("expected a JumpIfFalse for short-circuiting &&, got:\n%s", out)
	}
}

func TestClassCompilesConstructorAndMethodOpcodes(t *testing.T) {
	src := `
		class Point {
			x: number;
			constructor(x: number) { this.x = x; }
			getX(): number { return this.x; }
		}
	`
	fn := compileSource(t, src)
	out := disasm(fn)
	for _, want := range []string{"CreateClass", "Method"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected class declaration to emit %q, got:\n%s", want, out)
		}
	}
	ctor, ok := findNestedFunction(fn, "constructor")
	if !ok {
		t.Fatalf("expected a constructor Function constant")
	}
	if ctor.NumLocals < 1 {
		t.Fatalf("expected the constructor to reserve local slot 0 for `this`, got NumLocals=%d", ctor.NumLocals)
	}
}

func TestClassWithSuperclassEmitsInherit(t *testing.T) {
	src := `
		class Animal { speak(): string { return "..."; } }
		class Dog extends Animal { speak(): string { return "woof"; } }
	`
	fn := compileSource(t, src)
	out := disasm(fn)
	if !strings.Contains(out, "Inherit") {
		t.Fatalf("expected `extends` to emit Inherit, got:\n%s", out)
	}
}

func TestTooManyConstantsFails(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteString("let v")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" = ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(";\n")
	}
	p := parser.New(b.String())
	prog := p.ParseProgram()
	if diags := p.Diagnostics(); len(diags) > 0 {
		t.Fatalf("unexpected parse errors: %v", diags)
	}
	_, err := New().Compile(prog)
	if err == nil {
		t.Fatalf("expected a compile error once the 256-constant limit is exceeded")
	}
}

// findNestedFunction searches fn's constant pool (and recursively, nested
// functions' pools) for a *bytecode.Function with the given name.
func findNestedFunction(fn *bytecode.Function, name string) (*bytecode.Function, bool) {
	for _, c := range fn.Constants {
		if nested, ok := c.AsObject().(*bytecode.Function); ok {
			if nested.Name == name {
				return nested, true
			}
			if found, ok := findNestedFunction(nested, name); ok {
				return found, true
			}
		}
	}
	return nil, false
}

