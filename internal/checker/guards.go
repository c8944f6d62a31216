package checker

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/types"
)

// detectGuard implements spec.md §4.F's "Type guards (control-flow
// narrowing)": it recognizes the three supported `if` condition shapes and
// returns the narrowing to apply in the then-branch. No guard narrows the
// else-branch: els is always nil. then is nil when no guard matches.
func (c *Checker) detectGuard(cond ast.Expr) (then, els map[string]types.Type) {
	if name, target, ok := typeofGuard(cond); ok {
		return map[string]types.Type{name: target}, nil
	}
	if name, class, ok := instanceofGuard(cond); ok {
		if t, found := c.registry.Lookup(class); found {
			return map[string]types.Type{name: t}, nil
		}
		return nil, nil
	}
	if name, ok := nonNullGuard(cond); ok {
		if declared, found := c.cur.lookup(name); found {
			return map[string]types.Type{name: stripNullish(declared)}, nil
		}
	}
	return nil, nil
}

var typeofResultTypes = map[string]types.Type{
	"string":    types.String,
	"number":    types.Number,
	"boolean":   types.Boolean,
	"undefined": types.Undefined,
	"function":  &types.Function{Params: nil, Return: types.Any},
	"object":    types.NewObject(),
}

// typeofGuard matches `typeof x === "kind"` (or `==`), either operand
// order, where `typeof x` is the synthetic Call{Identifier("typeof"),[x]}
// node the parser produces (see parser.parseTypeofExpr).
func typeofGuard(cond ast.Expr) (name string, target types.Type, ok bool) {
	var left, right ast.Expr
	switch e := cond.(type) {
	case *ast.StrictEqual:
		if e.Negate {
			return "", nil, false
		}
		left, right = e.Left, e.Right
	case *ast.Binary:
		if e.Op != ast.OpEq {
			return "", nil, false
		}
		left, right = e.Left, e.Right
	default:
		return "", nil, false
	}

	typeofOperand, lit, swapped := matchTypeofAndLiteral(left, right)
	if typeofOperand == nil {
		return "", nil, false
	}
	_ = swapped
	id, ok := typeofOperand.(*ast.Identifier)
	if !ok {
		return "", nil, false
	}
	t, known := typeofResultTypes[lit]
	if !known {
		return "", nil, false
	}
	return id.Name, t, true
}

// matchTypeofAndLiteral returns the `typeof x` operand and the string
// literal operand regardless of which side each appears on.
func matchTypeofAndLiteral(a, b ast.Expr) (typeofOperand ast.Expr, lit string, swapped bool) {
	if call, ok := a.(*ast.Call); ok && isTypeofCall(call) {
		if s, ok := literalString(b); ok {
			return call.Args[0], s, false
		}
	}
	if call, ok := b.(*ast.Call); ok && isTypeofCall(call) {
		if s, ok := literalString(a); ok {
			return call.Args[0], s, true
		}
	}
	return nil, "", false
}

func isTypeofCall(call *ast.Call) bool {
	id, ok := call.Callee.(*ast.Identifier)
	return ok && id.Name == "typeof" && !call.IsNew && len(call.Args) == 1
}

func literalString(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok || lit.Kind != ast.StringLiteral {
		return "", false
	}
	return lit.Str, true
}

// instanceofGuard matches `x instanceof C`.
func instanceofGuard(cond ast.Expr) (name, class string, ok bool) {
	io, ok := cond.(*ast.InstanceOf)
	if !ok {
		return "", "", false
	}
	id, ok := io.Left.(*ast.Identifier)
	if !ok {
		return "", "", false
	}
	return id.Name, io.Class, true
}

// nonNullGuard matches `x !== null && x !== undefined`, in either conjunct
// order and accepting either inequality operator, per spec.md §4.F.
func nonNullGuard(cond ast.Expr) (name string, ok bool) {
	bin, ok := cond.(*ast.Binary)
	if !ok || bin.Op != ast.OpAnd {
		return "", false
	}
	n1, k1, ok1 := nullCheckOperand(bin.Left)
	n2, k2, ok2 := nullCheckOperand(bin.Right)
	if !ok1 || !ok2 || n1 != n2 {
		return "", false
	}
	if (k1 == "null" && k2 == "undefined") || (k1 == "undefined" && k2 == "null") {
		return n1, true
	}
	return "", false
}

// nullCheckOperand matches `x !== null`/`x != null` (and the undefined
// form), either operand order, either inequality operator.
func nullCheckOperand(e ast.Expr) (name, kind string, ok bool) {
	var left, right ast.Expr
	switch b := e.(type) {
	case *ast.StrictEqual:
		if !b.Negate {
			return "", "", false
		}
		left, right = b.Left, b.Right
	case *ast.Binary:
		if b.Op != ast.OpNeq {
			return "", "", false
		}
		left, right = b.Left, b.Right
	default:
		return "", "", false
	}

	id, litExpr, swapped := identAndLiteral(left, right)
	if id == nil {
		return "", "", false
	}
	_ = swapped
	lit, ok := litExpr.(*ast.Literal)
	if !ok {
		return "", "", false
	}
	switch lit.Kind {
	case ast.NullLiteral:
		return id.Name, "null", true
	case ast.UndefinedLiteral:
		return id.Name, "undefined", true
	}
	return "", "", false
}

func identAndLiteral(a, b ast.Expr) (*ast.Identifier, ast.Expr, bool) {
	if id, ok := a.(*ast.Identifier); ok {
		return id, b, false
	}
	if id, ok := b.(*ast.Identifier); ok {
		return id, a, true
	}
	return nil, nil, false
}

// stripNullish removes Null/Undefined from a top-level union, per
// spec.md §4.F: "if the union becomes empty, use Never; if a singleton,
// use that".
func stripNullish(t types.Type) types.Type {
	u, ok := t.(*types.Union)
	if !ok {
		if isNullOrUndefined(t) {
			return types.Never
		}
		return t
	}
	var kept []types.Type
	for _, m := range u.Members {
		if !isNullOrUndefined(m) {
			kept = append(kept, m)
		}
	}
	switch len(kept) {
	case 0:
		return types.Never
	case 1:
		return kept[0]
	default:
		return &types.Union{Members: kept}
	}
}

func isNullOrUndefined(t types.Type) bool {
	p, ok := t.(*types.Primitive)
	return ok && (p.Kind == types.KindNull || p.Kind == types.KindUndefined)
}
