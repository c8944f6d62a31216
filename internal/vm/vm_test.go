package vm

import (
	"strings"
	"testing"

	"github.com/tsxscript/tsx/internal/bytecode"
	"github.com/tsxscript/tsx/internal/compiler"
	"github.com/tsxscript/tsx/internal/parser"
)

// compileSource parses and compiles src, failing the test on any syntax or
// compile error — tests below only exercise already-valid programs.
func compileSource(t *testing.T, src string) *bytecode.Function {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if diags := p.Diagnostics(); len(diags) > 0 {
		t.Fatalf("unexpected parse errors: %v", diags)
	}
	fn, err := compiler.New().Compile(prog)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return fn
}

func runSource(t *testing.T, src string) bytecode.Value {
	t.Helper()
	fn := compileSource(t, src)
	machine := NewWithBuiltins()
	result, err := machine.Run(fn)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return result
}

func TestArithmetic(t *testing.T) {
	result := runSource(t, `2 + 3 * 4;`)
	if !result.IsNumber() || result.AsNumber() != 14 {
		t.Fatalf("expected 14, got %v", result)
	}
}

func TestStringConcatenation(t *testing.T) {
	result := runSource(t, `"foo" + "bar";`)
	if !result.IsString() || result.AsString() != "foobar" {
		t.Fatalf("expected \"foobar\", got %v", result)
	}
}

func TestClosureCapturesCounter(t *testing.T) {
	src := `
		function makeCounter() {
			let count = 0;
			function increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		let counter = makeCounter();
		counter();
		counter();
		counter();
	`
	result := runSource(t, src)
	if !result.IsNumber() || result.AsNumber() != 3 {
		t.Fatalf("expected the shared counter to reach 3, got %v", result)
	}
}

func TestTwoClosuresDoNotShareState(t *testing.T) {
	src := `
		function makeCounter() {
			let count = 0;
			function increment() { count = count + 1; return count; }
			return increment;
		}
		let a = makeCounter();
		let b = makeCounter();
		a();
		a();
		b();
		a() + b();
	`
	result := runSource(t, src)
	if !result.IsNumber() || result.AsNumber() != 5 {
		t.Fatalf("expected independent counters (3 + 2 = 5), got %v", result)
	}
}

func TestClassInstantiationAndMethodDispatch(t *testing.T) {
	src := `
		class Greeter {
			greeting: string;
			constructor(greeting: string) {
				this.greeting = greeting;
			}
			greet(name: string): string {
				return this.greeting + ", " + name;
			}
		}
		let g = new Greeter("hello");
		g.greet("world");
	`
	result := runSource(t, src)
	if !result.IsString() || result.AsString() != "hello, world" {
		t.Fatalf("expected \"hello, world\", got %v", result)
	}
}

func TestMethodBoundAsValueRetainsThis(t *testing.T) {
	src := `
		class Box {
			value: number;
			constructor(value: number) { this.value = value; }
			get(): number { return this.value; }
		}
		let b = new Box(42);
		let f = b.get;
		f();
	`
	result := runSource(t, src)
	if !result.IsNumber() || result.AsNumber() != 42 {
		t.Fatalf("expected a method value extracted from an instance to keep its receiver, got %v", result)
	}
}

func TestClassInheritanceDispatch(t *testing.T) {
	src := `
		class Animal {
			speak(): string { return "..."; }
		}
		class Dog extends Animal {
			speak(): string { return "woof"; }
		}
		let d = new Dog();
		d.speak();
	`
	result := runSource(t, src)
	if !result.IsString() || result.AsString() != "woof" {
		t.Fatalf("expected \"woof\", got %v", result)
	}
}

func TestArrayIndexingAndAutoGrow(t *testing.T) {
	src := `
		let a = [1, 2, 3];
		a[5] = 99;
		a[5];
	`
	result := runSource(t, src)
	if !result.IsNumber() || result.AsNumber() != 99 {
		t.Fatalf("expected 99, got %v", result)
	}
}

func TestWhileLoop(t *testing.T) {
	src := `
		let i = 0;
		let sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		sum;
	`
	result := runSource(t, src)
	if !result.IsNumber() || result.AsNumber() != 10 {
		t.Fatalf("expected 10, got %v", result)
	}
}

func TestForLoopWithBreakAndContinue(t *testing.T) {
	src := `
		let sum = 0;
		for (let i = 0; i < 10; i = i + 1) {
			if (i == 3) { continue; }
			if (i == 7) { break; }
			sum = sum + i;
		}
		sum;
	`
	result := runSource(t, src)
	// 0+1+2+4+5+6 = 18
	if !result.IsNumber() || result.AsNumber() != 18 {
		t.Fatalf("expected 18, got %v", result)
	}
}

func TestTypeofNative(t *testing.T) {
	cases := map[string]string{
		`typeof 1;`:         "number",
		`typeof "s";`:       "string",
		`typeof true;`:      "boolean",
		`typeof undefined;`: "undefined",
		`typeof null;`:      "object",
		`typeof [];`:        "object",
	}
	for src, want := range cases {
		result := runSource(t, src)
		if !result.IsString() || result.AsString() != want {
			t.Fatalf("typeof %q: expected %q, got %v", src, want, result)
		}
	}
}

func TestInstanceofNative(t *testing.T) {
	src := `
		class A {}
		class B extends A {}
		let b = new B();
		b instanceof A;
	`
	result := runSource(t, src)
	if !result.IsTruthy() {
		t.Fatalf("expected b instanceof A to be true, got %v", result)
	}
}

func TestPrintNativeWritesToOutput(t *testing.T) {
	fn := compileSource(t, `print("hello", "world");`)
	machine := NewWithBuiltins()
	var out strings.Builder
	machine.SetOutput(&out)
	if _, err := machine.Run(fn); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out.String() != "hello world\n" {
		t.Fatalf("expected \"hello world\\n\", got %q", out.String())
	}
}

func TestRuntimeErrorTraceIncludesFunctionNames(t *testing.T) {
	src := `
		function inner() {
			return 1 / 0 === 1 / 0 ? undefinedName : 1;
		}
		function outer() {
			return inner();
		}
		outer();
	`
	fn := compileSource(t, src)
	machine := NewWithBuiltins()
	_, err := machine.Run(fn)
	if err == nil {
		t.Fatalf("expected a runtime error for the division by zero in inner")
	}
	rtErr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected a *RuntimeError, got %T", err)
	}
	if len(rtErr.Trace) < 2 || rtErr.Trace[0] != "inner" || rtErr.Trace[1] != "outer" {
		t.Fatalf("expected a stack trace starting with inner, outer; got %v", rtErr.Trace)
	}
}

func TestGlobalsPersistAcrossRunsOnSameVM(t *testing.T) {
	machine := NewWithBuiltins()

	fn1 := compileSource(t, `let counter = 10;`)
	if _, err := machine.Run(fn1); err != nil {
		t.Fatalf("unexpected error on first run: %v", err)
	}

	fn2 := compileSource(t, `counter = counter + 5; counter;`)
	result, err := machine.Run(fn2)
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if !result.IsNumber() || result.AsNumber() != 15 {
		t.Fatalf("expected globals to persist across Run calls (got 15), got %v", result)
	}
}

func TestGCSurvivesArrayPressure(t *testing.T) {
	// Allocates far more arrays than fit under the collector's initial
	// threshold, forcing at least one mark-and-sweep cycle while live
	// references (the final accumulator) must survive it.
	src := `
		let total = 0;
		let i = 0;
		while (i < 10000) {
			let garbage = [i, i, i, i, i, i, i, i];
			total = total + garbage[0];
			i = i + 1;
		}
		total;
	`
	fn := compileSource(t, src)
	machine := NewWithBuiltins()
	result, err := machine.Run(fn)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	want := float64(10000 * 9999 / 2)
	if !result.IsNumber() || result.AsNumber() != want {
		t.Fatalf("expected %v, got %v", want, result)
	}
	if machine.Collector().Cycles() == 0 {
		t.Fatalf("expected at least one GC cycle under this allocation pressure")
	}
}
