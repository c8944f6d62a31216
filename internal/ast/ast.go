// Package ast defines the expression and statement node families of
// spec.md §3/§4.D: two tagged sum types (Expr, Stmt) sharing a Position
// field, traversed by type switch rather than virtual dispatch, per
// spec.md §9 ("Re-architect as two tagged sum types … traversal is
// pattern-match rather than virtual dispatch"). Node shapes are grounded on
// atom/script/ast/ast.h in _examples/original_source; the split into
// per-concern files (expressions.go, statements.go, declarations.go) and
// the toString-based pretty printer follow the file-organization and
// String() convention used throughout github.com/cwbudde/go-dws's
// internal/ast package.
package ast

import (
	"github.com/tsxscript/tsx/internal/token"
	"github.com/tsxscript/tsx/internal/types"
)

// Node is the root interface shared by every expression and statement
// variant: it carries a source position and a canonical string form used in
// diagnostics and round-trip tests (spec.md §8, invariant 2).
type Node interface {
	Pos() token.Position
	String() string
}

// Expr is implemented by every expression node. Expr nodes may receive an
// inferred type during checking (spec.md §3: "Expression nodes may receive
// an inferred Type during checking").
type Expr interface {
	Node
	exprNode()
	// InferredType returns the type the checker attached to this node, or
	// nil if the node has not been checked (or checking failed).
	InferredType() types.Type
	SetInferredType(types.Type)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// base is embedded by every concrete node to provide its Position.
type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }

// exprBase additionally carries the optional inferred type every
// expression may receive.
type exprBase struct {
	base
	Type types.Type
}

func (e *exprBase) exprNode() {}
func (e *exprBase) InferredType() types.Type { return e.Type }
func (e *exprBase) SetInferredType(t types.Type) { e.Type = t }

type stmtBase struct {
	base
}

func (s stmtBase) stmtNode() {}

// Program is the root node: a sequence of top-level statements.
type Program struct {
	Statements []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) == 0 {
		return token.Position{}
	}
	return p.Statements[0].Pos()
}

func (p *Program) String() string {
	var sb stringBuilder
	for _, s := range p.Statements {
		sb.writeLine(s.String())
	}
	return sb.String()
}
