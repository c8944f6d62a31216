package checker

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/types"
)

// checkExpr infers an expression's type, records it on the node via
// SetInferredType, and appends any diagnostics, per spec.md §4.F's
// "Expression typing" rules.
func (c *Checker) checkExpr(e ast.Expr) types.Type {
	t := c.inferExpr(e)
	if t == nil {
		t = types.Any
	}
	e.SetInferredType(t)
	return t
}

func (c *Checker) inferExpr(e ast.Expr) types.Type {
	switch ex := e.(type) {
	case *ast.Literal:
		switch ex.Kind {
		case ast.NumberLiteral:
			return types.Number
		case ast.StringLiteral:
			return types.String
		case ast.BooleanLiteral:
			return types.Boolean
		case ast.NullLiteral:
			return types.Null
		case ast.UndefinedLiteral:
			return types.Undefined
		}
		return types.Any

	case *ast.Identifier:
		if t, ok := c.cur.lookup(ex.Name); ok {
			return t
		}
		c.errorAt(diag.KindUndefinedVariable, ex.Pos(), "%q is not defined", ex.Name)
		return types.Any

	case *ast.ArrayLiteral:
		if len(ex.Elements) == 0 {
			return &types.Array{Element: types.Any}
		}
		elem := c.checkExpr(ex.Elements[0])
		for _, el := range ex.Elements[1:] {
			elem = combine(elem, c.checkExpr(el))
		}
		return &types.Array{Element: elem}

	case *ast.ObjectLiteral:
		obj := types.NewObject()
		for _, p := range ex.Properties {
			obj.AddProperty(p.Key, c.checkExpr(p.Value))
		}
		return obj

	case *ast.Member:
		return c.checkMember(ex)

	case *ast.Call:
		return c.checkCall(ex)

	case *ast.InstanceOf:
		c.checkExpr(ex.Left)
		if _, ok := c.registry.Lookup(ex.Class); !ok {
			c.errorAt(diag.KindUndefinedVariable, ex.Pos(), "class %q is not defined", ex.Class)
		}
		return types.Boolean

	case *ast.StrictEqual:
		c.checkExpr(ex.Left)
		c.checkExpr(ex.Right)
		return types.Boolean

	case *ast.TypeAssertion:
		c.checkExpr(ex.Target)
		return c.resolveType(ex.Annotation)

	case *ast.Binary:
		return c.checkBinary(ex)

	case *ast.Unary:
		return c.checkUnary(ex)

	case *ast.Assignment:
		return c.checkAssignment(ex)

	case *ast.Conditional:
		condType := c.checkExpr(ex.Condition)
		if !types.Assignable(condType, types.Boolean) {
			c.errorAt(diag.KindTypeMismatch, ex.Condition.Pos(),
				"conditional test must be assignable to boolean, got %s", condType)
		}
		thenType := c.checkExpr(ex.Then)
		elseType := c.checkExpr(ex.Else)
		return combine(thenType, elseType)

	case *ast.FunctionExpr:
		return c.checkFunctionExpr(ex)
	}
	return types.Any
}

// checkMember implements spec.md §4.F's Member-access rule: structural
// property lookup on Object, numeric-index element lookup on Array.
func (c *Checker) checkMember(m *ast.Member) types.Type {
	objType := c.checkExpr(m.Object)

	if m.Computed {
		idxType := c.checkExpr(m.Index)
		if arr, ok := objType.(*types.Array); ok {
			if !types.Assignable(idxType, types.Number) {
				c.errorAt(diag.KindInvalidOperation, m.Index.Pos(), "array index must be a number, got %s", idxType)
			}
			return arr.Element
		}
		if obj, ok := objType.(*types.Object); ok && obj.IndexSig != nil {
			return obj.IndexSig
		}
		return types.Any
	}

	switch o := objType.(type) {
	case *types.Object:
		if t, ok := o.PropertyType(m.Property); ok {
			return t
		}
		if m.Optional {
			return types.Undefined
		}
		c.errorAt(diag.KindUnknownProperty, m.Pos(), "property %q does not exist on type %s", m.Property, objType)
		return types.Any
	case *types.Primitive:
		if o.Kind == types.KindAny {
			return types.Any
		}
	}
	if m.Optional {
		return types.Undefined
	}
	c.errorAt(diag.KindUnknownProperty, m.Pos(), "property %q does not exist on type %s", m.Property, objType)
	return types.Any
}

// checkCall implements spec.md §4.F's Call rule, with one addition: a call
// whose callee is the bare identifier "typeof" is the synthetic node the
// parser emits for a `typeof x` expression (see parser.parseTypeofExpr)
// and always yields string without an arity/callability check.
func (c *Checker) checkCall(call *ast.Call) types.Type {
	if id, ok := call.Callee.(*ast.Identifier); ok && id.Name == "typeof" && !call.IsNew {
		if len(call.Args) == 1 {
			c.checkExpr(call.Args[0])
		}
		return types.String
	}

	// `new C(...)`: C names a registered class/object type, not a variable.
	if call.IsNew {
		if id, ok := call.Callee.(*ast.Identifier); ok {
			if t, ok := c.registry.Lookup(id.Name); ok {
				for _, a := range call.Args {
					c.checkExpr(a)
				}
				return t
			}
			c.errorAt(diag.KindUndefinedVariable, call.Pos(), "class %q is not defined", id.Name)
			for _, a := range call.Args {
				c.checkExpr(a)
			}
			return types.Any
		}
	}

	calleeType := c.checkExpr(call.Callee)
	fn, ok := calleeType.(*types.Function)
	if !ok {
		if p, isPrim := calleeType.(*types.Primitive); isPrim && p.Kind == types.KindAny {
			for _, a := range call.Args {
				c.checkExpr(a)
			}
			return types.Any
		}
		c.errorAt(diag.KindNotCallable, call.Pos(), "%s is not callable", calleeType)
		for _, a := range call.Args {
			c.checkExpr(a)
		}
		return types.Any
	}

	if len(call.Args) < len(fn.Params) {
		c.errorAt(diag.KindTooFewArguments, call.Pos(), "expected %d argument(s), got %d", len(fn.Params), len(call.Args))
	} else if len(call.Args) > len(fn.Params) {
		c.errorAt(diag.KindTooManyArguments, call.Pos(), "expected %d argument(s), got %d", len(fn.Params), len(call.Args))
	}

	for i, a := range call.Args {
		argType := c.checkExpr(a)
		if i < len(fn.Params) && !types.Assignable(argType, fn.Params[i]) {
			c.errorAt(diag.KindTypeMismatch, a.Pos(), "cannot pass %s as argument of type %s", argType, fn.Params[i])
		}
	}
	return fn.Return
}

// checkBinary implements the operator rules of spec.md §4.F.
func (c *Checker) checkBinary(b *ast.Binary) types.Type {
	left := c.checkExpr(b.Left)
	right := c.checkExpr(b.Right)

	switch b.Op {
	case ast.OpAdd:
		if types.Assignable(left, types.Number) && types.Assignable(right, types.Number) {
			return types.Number
		}
		if types.Assignable(left, types.String) || types.Assignable(right, types.String) {
			return types.String
		}
		c.errorAt(diag.KindInvalidOperation, b.Pos(), "operator + requires two numbers or a string operand, got %s and %s", left, right)
		return types.Any

	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
		ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr, ast.OpUShr:
		if !types.Assignable(left, types.Number) || !types.Assignable(right, types.Number) {
			c.errorAt(diag.KindInvalidOperation, b.Pos(), "operator %s requires two numbers, got %s and %s", b.Op, left, right)
		}
		return types.Number

	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe, ast.OpEq, ast.OpNeq:
		return types.Boolean

	case ast.OpAnd, ast.OpOr:
		return types.Boolean
	}
	return types.Any
}

func (c *Checker) checkUnary(u *ast.Unary) types.Type {
	operandType := c.checkExpr(u.Operand)
	switch u.Op {
	case ast.OpNot:
		return types.Boolean
	case ast.OpNeg, ast.OpPos, ast.OpBitNot, ast.OpIncr, ast.OpDecr:
		if !types.Assignable(operandType, types.Number) {
			c.errorAt(diag.KindInvalidOperation, u.Pos(), "operator %s requires a number, got %s", u.Op, operandType)
		}
		return types.Number
	}
	return types.Any
}

func (c *Checker) checkAssignment(a *ast.Assignment) types.Type {
	targetType := c.checkExpr(a.Target)
	valueType := c.checkExpr(a.Value)

	effective := valueType
	if a.Op != ast.AssignPlain {
		effective = types.Number
		if !types.Assignable(targetType, types.Number) || !types.Assignable(valueType, types.Number) {
			if a.Op == ast.AssignAdd && (types.Assignable(targetType, types.String) || types.Assignable(valueType, types.String)) {
				effective = types.String
			} else {
				c.errorAt(diag.KindInvalidOperation, a.Pos(), "compound assignment %s requires numeric operands, got %s and %s", a.Op, targetType, valueType)
			}
		}
	}
	if !types.Assignable(effective, targetType) {
		c.errorAt(diag.KindInvalidAssignment, a.Pos(), "cannot assign %s to %s", effective, targetType)
	}
	return targetType
}

func (c *Checker) checkFunctionExpr(fn *ast.FunctionExpr) types.Type {
	sig := c.functionSignature(fn.Params, fn.ReturnType)
	c.pushScope()
	if fn.Name != "" {
		c.cur.define(fn.Name, sig)
	}
	for i, p := range fn.Params {
		c.cur.define(p.Name, sig.Params[i])
	}
	c.checkStmt(fn.Body)
	c.popScope()
	return sig
}
