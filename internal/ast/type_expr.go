package ast

import (
	"fmt"
	"strings"

	"github.com/tsxscript/tsx/internal/token"
)

// TypeExpr is the syntactic form of a type annotation as written in source,
// per the grammar in spec.md §4.D:
//
//	T := primitive | ident(<T,...>)? | T[] | {prop:T,...} | (T,...)=>T
//	   | [T,...] | T|T | T&T
//
// It is distinct from types.Type: TypeExpr is what the parser produces from
// annotation syntax, types.Type is what the checker resolves annotations
// into. Every variant implements Node so annotations participate in the
// same Pos()/String() conventions as expressions and statements.
type TypeExpr interface {
	Node
	typeExprNode()
}

type typeExprBase struct {
	base
}

func (t typeExprBase) typeExprNode() {}

// NamedTypeExpr is a bare identifier, a primitive keyword (number, string,
// boolean, any, unknown, never, void, null, undefined), or a generic instantiation when
// TypeArgs is non-empty (e.g. `Box<number>`).
type NamedTypeExpr struct {
	typeExprBase
	Name     string
	TypeArgs []TypeExpr
}

func NewNamedTypeExpr(pos token.Position, name string, args ...TypeExpr) *NamedTypeExpr {
	return &NamedTypeExpr{typeExprBase: typeExprBase{base{pos}}, Name: name, TypeArgs: args}
}

func (n *NamedTypeExpr) String() string {
	if len(n.TypeArgs) == 0 {
		return n.Name
	}
	parts := make([]string, len(n.TypeArgs))
	for i, a := range n.TypeArgs {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", n.Name, strings.Join(parts, ", "))
}

// ArrayTypeExpr is `T[]`.
type ArrayTypeExpr struct {
	typeExprBase
	Element TypeExpr
}

func NewArrayTypeExpr(pos token.Position, element TypeExpr) *ArrayTypeExpr {
	return &ArrayTypeExpr{typeExprBase: typeExprBase{base{pos}}, Element: element}
}

func (a *ArrayTypeExpr) String() string { return a.Element.String() + "[]" }

// TupleTypeExpr is `[T, T, ...]`.
type TupleTypeExpr struct {
	typeExprBase
	Elements []TypeExpr
}

func NewTupleTypeExpr(pos token.Position, elements []TypeExpr) *TupleTypeExpr {
	return &TupleTypeExpr{typeExprBase: typeExprBase{base{pos}}, Elements: elements}
}

func (t *TupleTypeExpr) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectTypeMember is one `name: T` entry of an object type literal.
type ObjectTypeMember struct {
	Name string
	Type TypeExpr
}

// ObjectTypeExpr is `{ prop: T, ... }`, optionally with an index signature.
type ObjectTypeExpr struct {
	typeExprBase
	Members  []ObjectTypeMember
	IndexSig TypeExpr // nil if absent
}

func NewObjectTypeExpr(pos token.Position, members []ObjectTypeMember) *ObjectTypeExpr {
	return &ObjectTypeExpr{typeExprBase: typeExprBase{base{pos}}, Members: members}
}

func (o *ObjectTypeExpr) String() string {
	parts := make([]string, 0, len(o.Members)+1)
	for _, m := range o.Members {
		parts = append(parts, fmt.Sprintf("%s: %s", m.Name, m.Type.String()))
	}
	if o.IndexSig != nil {
		parts = append(parts, fmt.Sprintf("[index: string]: %s", o.IndexSig.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FunctionTypeExpr is `(T, T) => T`.
type FunctionTypeExpr struct {
	typeExprBase
	Params []TypeExpr
	Return TypeExpr
}

func NewFunctionTypeExpr(pos token.Position, params []TypeExpr, ret TypeExpr) *FunctionTypeExpr {
	return &FunctionTypeExpr{typeExprBase: typeExprBase{base{pos}}, Params: params, Return: ret}
}

func (f *FunctionTypeExpr) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), f.Return.String())
}

// UnionTypeExpr is `T | T | ...`.
type UnionTypeExpr struct {
	typeExprBase
	Members []TypeExpr
}

func NewUnionTypeExpr(pos token.Position, members []TypeExpr) *UnionTypeExpr {
	return &UnionTypeExpr{typeExprBase: typeExprBase{base{pos}}, Members: members}
}

func (u *UnionTypeExpr) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// IntersectionTypeExpr is `T & T & ...`.
type IntersectionTypeExpr struct {
	typeExprBase
	Members []TypeExpr
}

func NewIntersectionTypeExpr(pos token.Position, members []TypeExpr) *IntersectionTypeExpr {
	return &IntersectionTypeExpr{typeExprBase: typeExprBase{base{pos}}, Members: members}
}

func (i *IntersectionTypeExpr) String() string {
	parts := make([]string, len(i.Members))
	for idx, m := range i.Members {
		parts[idx] = m.String()
	}
	return strings.Join(parts, " & ")
}
