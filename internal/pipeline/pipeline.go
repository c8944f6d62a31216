// Package pipeline wires the lexer/parser/checker/compiler stages into
// the sequence every front end (the run and typecheck CLI commands, the
// REPL) needs: parse, report syntax errors, type-check, report type
// errors, compile. It exists so that sequence lives in one place instead
// of being duplicated across cmd/tsx/cmd's command files, the way
// go-dws's run.go/compile.go each re-inline the same lex/parse/analyze
// steps.
package pipeline

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/bytecode"
	"github.com/tsxscript/tsx/internal/checker"
	"github.com/tsxscript/tsx/internal/compiler"
	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/parser"
)

// Parse lexes and parses source, returning the AST and any syntax
// diagnostics. A non-empty diagnostics slice means prog is partial —
// spec.md §4.A's "compilation refuses to proceed when checking produced
// errors" applies equally to a syntax failure.
func Parse(source string) (*ast.Program, []*diag.Diagnostic) {
	p := parser.New(source)
	prog := p.ParseProgram()
	return prog, p.Diagnostics()
}

// TypeCheck runs the static checker over an already-parsed program.
func TypeCheck(prog *ast.Program) []*diag.Diagnostic {
	c := checker.New()
	return c.CheckProgram(prog)
}

// Compile lowers a checked program to its top-level bytecode Function.
// Callers are expected to have already confirmed TypeCheck returned no
// errors (spec.md §4.A).
func Compile(prog *ast.Program) (*bytecode.Function, error) {
	return compiler.New().Compile(prog)
}
