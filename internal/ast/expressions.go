package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsxscript/tsx/internal/token"
)

// LiteralKind distinguishes the primitive literal forms.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BooleanLiteral
	NullLiteral
	UndefinedLiteral
)

// Literal is a number/string/boolean/null/undefined constant.
type Literal struct {
	exprBase
	Kind   LiteralKind
	Number float64
	Str    string
	Bool   bool
}

func NewLiteral(pos token.Position, kind LiteralKind) *Literal {
	return &Literal{exprBase: exprBase{base: base{pos}}, Kind: kind}
}

func (l *Literal) String() string {
	switch l.Kind {
	case NumberLiteral:
		return strconv.FormatFloat(l.Number, 'g', -1, 64)
	case StringLiteral:
		return strconv.Quote(l.Str)
	case BooleanLiteral:
		if l.Bool {
			return "true"
		}
		return "false"
	case NullLiteral:
		return "null"
	case UndefinedLiteral:
		return "undefined"
	}
	return "<literal>"
}

// Identifier is a bare name reference.
type Identifier struct {
	exprBase
	Name string
}

func NewIdentifier(pos token.Position, name string) *Identifier {
	return &Identifier{exprBase: exprBase{base: base{pos}}, Name: name}
}

func (i *Identifier) String() string { return i.Name }

// BinaryOp enumerates the operators handled uniformly by Binary. `===`/`!==`
// and `instanceof` are modeled as their own node kinds (StrictEqual,
// InstanceOf) per spec.md §3, since the checker's type-guard detection
// pattern-matches on them specifically.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq  // ==
	OpNeq // !=
	OpAnd // &&
	OpOr  // ||
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpUShr
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=",
	OpEq: "==", OpNeq: "!=", OpAnd: "&&", OpOr: "||",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
	OpShl: "<<", OpShr: ">>", OpUShr: ">>>",
}

func (op BinaryOp) String() string { return binaryOpSymbols[op] }

// Binary is a two-operand expression.
type Binary struct {
	exprBase
	Op          BinaryOp
	Left, Right Expr
}

func NewBinary(pos token.Position, op BinaryOp, left, right Expr) *Binary {
	return &Binary{exprBase: exprBase{base: base{pos}}, Op: op, Left: left, Right: right}
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op.String(), b.Right.String())
}

// UnaryOp enumerates the supported prefix/postfix operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -
	OpPos                // +
	OpNot                // !
	OpBitNot             // ~
	OpIncr               // ++
	OpDecr               // --
)

var unaryOpSymbols = map[UnaryOp]string{
	OpNeg: "-", OpPos: "+", OpNot: "!", OpBitNot: "~", OpIncr: "++", OpDecr: "--",
}

func (op UnaryOp) String() string { return unaryOpSymbols[op] }

// Unary is a prefix or postfix unary expression; Postfix distinguishes
// `x++`/`x--` from `++x`/`--x` (spec.md §3).
type Unary struct {
	exprBase
	Op      UnaryOp
	Operand Expr
	Postfix bool
}

func NewUnary(pos token.Position, op UnaryOp, operand Expr, postfix bool) *Unary {
	return &Unary{exprBase: exprBase{base: base{pos}}, Op: op, Operand: operand, Postfix: postfix}
}

func (u *Unary) String() string {
	if u.Postfix {
		return fmt.Sprintf("(%s%s)", u.Operand.String(), u.Op.String())
	}
	return fmt.Sprintf("(%s%s)", u.Op.String(), u.Operand.String())
}

// AssignOp enumerates `=` and the compound assignment operators.
type AssignOp int

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignBitAnd
	AssignBitOr
	AssignBitXor
	AssignShl
	AssignShr
	AssignUShr
)

var assignOpSymbols = map[AssignOp]string{
	AssignPlain: "=", AssignAdd: "+=", AssignSub: "-=", AssignMul: "*=",
	AssignDiv: "/=", AssignMod: "%=", AssignBitAnd: "&=", AssignBitOr: "|=",
	AssignBitXor: "^=", AssignShl: "<<=", AssignShr: ">>=", AssignUShr: ">>>=",
}

func (op AssignOp) String() string { return assignOpSymbols[op] }

// Assignment is `target op= value`; Target is always an Identifier or
// Member (assignability of the target is a parse-time grammar constraint,
// enforced by the parser rather than by the node shape).
type Assignment struct {
	exprBase
	Target Expr
	Op     AssignOp
	Value  Expr
}

func NewAssignment(pos token.Position, target Expr, op AssignOp, value Expr) *Assignment {
	return &Assignment{exprBase: exprBase{base: base{pos}}, Target: target, Op: op, Value: value}
}

func (a *Assignment) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Target.String(), a.Op.String(), a.Value.String())
}

// Conditional is the ternary `cond ? then : else` expression.
type Conditional struct {
	exprBase
	Condition, Then, Else Expr
}

func NewConditional(pos token.Position, cond, then, els Expr) *Conditional {
	return &Conditional{exprBase: exprBase{base: base{pos}}, Condition: cond, Then: then, Else: els}
}

func (c *Conditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Condition.String(), c.Then.String(), c.Else.String())
}

// ArrayLiteral is `[e1, e2, …]`.
type ArrayLiteral struct {
	exprBase
	Elements []Expr
}

func NewArrayLiteral(pos token.Position, elements []Expr) *ArrayLiteral {
	return &ArrayLiteral{exprBase: exprBase{base: base{pos}}, Elements: elements}
}

func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectProperty is one `key: value` entry of an object literal.
type ObjectProperty struct {
	Key   string
	Value Expr
}

// ObjectLiteral is `{ k1: v1, k2: v2 }`.
type ObjectLiteral struct {
	exprBase
	Properties []ObjectProperty
}

func NewObjectLiteral(pos token.Position, props []ObjectProperty) *ObjectLiteral {
	return &ObjectLiteral{exprBase: exprBase{base: base{pos}}, Properties: props}
}

func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = fmt.Sprintf("%s: %s", p.Key, p.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Member is a dotted (`obj.prop`) or computed (`obj[expr]`) property access.
type Member struct {
	exprBase
	Object   Expr
	Property string // set when !Computed
	Index    Expr   // set when Computed
	Computed bool
	Optional bool // `?.`
}

func NewDottedMember(pos token.Position, object Expr, property string, optional bool) *Member {
	return &Member{exprBase: exprBase{base: base{pos}}, Object: object, Property: property, Optional: optional}
}

func NewComputedMember(pos token.Position, object, index Expr) *Member {
	return &Member{exprBase: exprBase{base: base{pos}}, Object: object, Index: index, Computed: true}
}

func (m *Member) String() string {
	if m.Computed {
		return fmt.Sprintf("%s[%s]", m.Object.String(), m.Index.String())
	}
	dot := "."
	if m.Optional {
		dot = "?."
	}
	return fmt.Sprintf("%s%s%s", m.Object.String(), dot, m.Property)
}

// Call is a function/method invocation, or a `new` construction when IsNew
// is set (spec.md §3 lists no separate New variant; this subset folds
// construction into Call since a `new` expression is syntactically and
// semantically "invoke this callee with these arguments").
type Call struct {
	exprBase
	Callee Expr
	Args   []Expr
	IsNew  bool
}

func NewCall(pos token.Position, callee Expr, args []Expr) *Call {
	return &Call{exprBase: exprBase{base: base{pos}}, Callee: callee, Args: args}
}

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	prefix := ""
	if c.IsNew {
		prefix = "new "
	}
	return fmt.Sprintf("%s%s(%s)", prefix, c.Callee.String(), strings.Join(parts, ", "))
}

// InstanceOf is `expr instanceof Name`, modeled distinctly so the checker's
// type-guard narrowing (spec.md §4.F) can pattern-match on it directly.
type InstanceOf struct {
	exprBase
	Left  Expr
	Class string
}

func NewInstanceOf(pos token.Position, left Expr, class string) *InstanceOf {
	return &InstanceOf{exprBase: exprBase{base: base{pos}}, Left: left, Class: class}
}

func (i *InstanceOf) String() string {
	return fmt.Sprintf("(%s instanceof %s)", i.Left.String(), i.Class)
}

// StrictEqual is `===`/`!==`, which never coerces (spec.md §3: "in this
// subset `==` is `===`"); Negate distinguishes `!==`.
type StrictEqual struct {
	exprBase
	Left, Right Expr
	Negate      bool
}

func NewStrictEqual(pos token.Position, left, right Expr, negate bool) *StrictEqual {
	return &StrictEqual{exprBase: exprBase{base: base{pos}}, Left: left, Right: right, Negate: negate}
}

func (s *StrictEqual) String() string {
	op := "==="
	if s.Negate {
		op = "!=="
	}
	return fmt.Sprintf("(%s %s %s)", s.Left.String(), op, s.Right.String())
}

// TypeAssertion is `expr as T`; the prefix `<T>expr` form is not parsed.
type TypeAssertion struct {
	exprBase
	Target     Expr
	Annotation TypeExpr
}

func NewTypeAssertion(pos token.Position, target Expr, ann TypeExpr) *TypeAssertion {
	return &TypeAssertion{exprBase: exprBase{base: base{pos}}, Target: target, Annotation: ann}
}

func (t *TypeAssertion) String() string {
	return fmt.Sprintf("(%s as %s)", t.Target.String(), t.Annotation.String())
}

// Param is one function parameter: a name with an optional type annotation.
type Param struct {
	Name       string
	Annotation TypeExpr // nil if omitted
}

// FunctionExpr is a `function` or arrow function expression.
type FunctionExpr struct {
	exprBase
	Name       string // "" for anonymous/arrow
	Params     []Param
	ReturnType TypeExpr // nil if omitted
	Body       *Block
	IsArrow    bool
}

func NewFunctionExpr(pos token.Position) *FunctionExpr {
	return &FunctionExpr{exprBase: exprBase{base: base{pos}}}
}

func (f *FunctionExpr) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Annotation != nil {
			parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Annotation.String())
		} else {
			parts[i] = p.Name
		}
	}
	sig := fmt.Sprintf("(%s)", strings.Join(parts, ", "))
	if f.IsArrow {
		return fmt.Sprintf("%s => %s", sig, f.Body.String())
	}
	name := f.Name
	return fmt.Sprintf("function %s%s %s", name, sig, f.Body.String())
}
