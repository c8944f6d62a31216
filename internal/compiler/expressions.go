package compiler

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/bytecode"
)

func (c *Compiler) expression(e ast.Expr) {
	if c.err != nil {
		return
	}
	switch ex := e.(type) {
	case *ast.Literal:
		c.literal(ex)

	case *ast.Identifier:
		// "this" resolves through the ordinary local/upvalue path: class
		// member bodies declare it as local slot 0 (compileFunctionBody),
		// so nested closures capture it exactly like any other enclosing
		// local.
		get, _, operand := c.resolveVariable(ex.Name)
		c.cur.fn.EmitOp(get)
		c.cur.fn.EmitByte(operand)

	case *ast.ArrayLiteral:
		for _, el := range ex.Elements {
			c.expression(el)
		}
		c.cur.fn.EmitOp(bytecode.Array)
		c.cur.fn.EmitByte(byte(len(ex.Elements)))

	case *ast.ObjectLiteral:
		for _, p := range ex.Properties {
			c.cur.fn.EmitOp(bytecode.Constant)
			c.cur.fn.EmitByte(c.constant(bytecode.String(p.Key)))
			c.expression(p.Value)
		}
		c.cur.fn.EmitOp(bytecode.Object)
		c.cur.fn.EmitByte(byte(len(ex.Properties)))

	case *ast.Member:
		c.member(ex)

	case *ast.Call:
		c.call(ex)

	case *ast.InstanceOf:
		c.instanceOf(ex)

	case *ast.StrictEqual:
		c.expression(ex.Left)
		c.expression(ex.Right)
		c.cur.fn.EmitOp(bytecode.Equal)
		if ex.Negate {
			c.cur.fn.EmitOp(bytecode.Not)
		}

	case *ast.TypeAssertion:
		c.expression(ex.Target)

	case *ast.Binary:
		c.binary(ex)

	case *ast.Unary:
		c.unary(ex)

	case *ast.Assignment:
		c.assignment(ex)

	case *ast.Conditional:
		c.conditional(ex)

	case *ast.FunctionExpr:
		c.functionExpr(ex)
	}
}

func (c *Compiler) literal(l *ast.Literal) {
	switch l.Kind {
	case ast.NumberLiteral:
		idx := c.constant(bytecode.Number(l.Number))
		c.cur.fn.EmitOp(bytecode.Constant)
		c.cur.fn.EmitByte(idx)
	case ast.StringLiteral:
		idx := c.constant(bytecode.String(l.Str))
		c.cur.fn.EmitOp(bytecode.Constant)
		c.cur.fn.EmitByte(idx)
	case ast.BooleanLiteral:
		if l.Bool {
			c.cur.fn.EmitOp(bytecode.True)
		} else {
			c.cur.fn.EmitOp(bytecode.False)
		}
	case ast.NullLiteral:
		c.cur.fn.EmitOp(bytecode.Null)
	case ast.UndefinedLiteral:
		c.cur.fn.EmitOp(bytecode.Undefined)
	}
}

// member implements the synthetic `typeof x` call specially at the Call
// site (see call below); a bare Member just emits the field/index
// opcodes from spec.md §4.H.
func (c *Compiler) member(m *ast.Member) {
	c.expression(m.Object)
	if m.Computed {
		c.expression(m.Index)
		c.cur.fn.EmitOp(bytecode.GetIndex)
		return
	}
	idx := c.identifierConstant(m.Property)
	c.cur.fn.EmitOp(bytecode.GetField)
	c.cur.fn.EmitByte(idx)
}

// call implements spec.md §4.G/§4.H: `new C(...)` desugars to loading the
// class value and issuing a normal Call (the VM's Call handling allocates
// an Instance and runs the constructor when the callee is a Class); a
// `typeof` call is a compiler-recognized pseudo-op with no runtime opcode
// of its own — it's resolved at parse/check time to behave like a unary
// operator, and at codegen time it becomes a one-argument Call of the
// `typeof` native global.
func (c *Compiler) call(call *ast.Call) {
	if id, ok := call.Callee.(*ast.Identifier); ok && id.Name == "typeof" && !call.IsNew && len(call.Args) == 1 {
		// `typeof x` has no dedicated opcode; it's lowered to a call of the
		// `typeof` native every program gets pre-registered as a global
		// (see vm.NewWithBuiltins), matching how bitwise operators are
		// lowered below.
		get, _, operand := c.resolveVariable("typeof")
		c.cur.fn.EmitOp(get)
		c.cur.fn.EmitByte(operand)
		c.expression(call.Args[0])
		c.cur.fn.EmitOp(bytecode.Call)
		c.cur.fn.EmitByte(1)
		return
	}

	if call.IsNew {
		if id, ok := call.Callee.(*ast.Identifier); ok {
			get, _, operand := c.resolveVariable(id.Name)
			c.cur.fn.EmitOp(get)
			c.cur.fn.EmitByte(operand)
			for _, a := range call.Args {
				c.expression(a)
			}
			c.cur.fn.EmitOp(bytecode.Call)
			c.cur.fn.EmitByte(byte(len(call.Args)))
			return
		}
	}

	// A method call `obj.method(args)` loads the callee the same way a
	// plain Member access would; the Call opcode itself doesn't need a
	// receiver slot distinct from a free function call in this subset
	// (GetField on an instance yields a closure bound to that instance, and
	// the VM places the bound receiver in the callee's "this" slot 0).
	c.expression(call.Callee)
	for _, a := range call.Args {
		c.expression(a)
	}
	c.cur.fn.EmitOp(bytecode.Call)
	c.cur.fn.EmitByte(byte(len(call.Args)))
}

func (c *Compiler) instanceOf(io *ast.InstanceOf) {
	// The callee must land below its arguments (vm_calls.go's callValue
	// reads it at sp-argCount-1), so the native goes on the stack first.
	idx := c.constant(bytecode.String("__instanceof__"))
	c.cur.fn.EmitOp(bytecode.GetGlobal)
	c.cur.fn.EmitByte(idx)
	c.expression(io.Left)
	get, _, operand := c.resolveVariable(io.Class)
	c.cur.fn.EmitOp(get)
	c.cur.fn.EmitByte(operand)
	c.cur.fn.EmitOp(bytecode.Call)
	c.cur.fn.EmitByte(2)
}

func (c *Compiler) binary(b *ast.Binary) {
	if b.Op == ast.OpAnd || b.Op == ast.OpOr {
		c.shortCircuit(b)
		return
	}
	if isBitwiseOp(b.Op) {
		// This subset's VM has no dedicated bitwise opcodes (spec.md §4.G's
		// opcode list omits them); they're evaluated by a registered native
		// taking the operator name, mirroring how `typeof`/`instanceof`
		// reach the runtime without their own opcode. The callee must be
		// pushed before its arguments (vm_calls.go's callValue reads it at
		// sp-argCount-1), so the native goes on the stack before either
		// operand.
		idx := c.constant(bytecode.String(bitwiseNativeName(b.Op)))
		c.cur.fn.EmitOp(bytecode.GetGlobal)
		c.cur.fn.EmitByte(idx)
		c.expression(b.Left)
		c.expression(b.Right)
		c.cur.fn.EmitOp(bytecode.Call)
		c.cur.fn.EmitByte(2)
		return
	}
	c.expression(b.Left)
	c.expression(b.Right)
	switch b.Op {
	case ast.OpAdd:
		c.cur.fn.EmitOp(bytecode.Add)
	case ast.OpSub:
		c.cur.fn.EmitOp(bytecode.Subtract)
	case ast.OpMul:
		c.cur.fn.EmitOp(bytecode.Multiply)
	case ast.OpDiv:
		c.cur.fn.EmitOp(bytecode.Divide)
	case ast.OpMod:
		c.cur.fn.EmitOp(bytecode.Modulo)
	case ast.OpLt:
		c.cur.fn.EmitOp(bytecode.Less)
	case ast.OpGt:
		c.cur.fn.EmitOp(bytecode.Greater)
	case ast.OpLe:
		c.cur.fn.EmitOp(bytecode.LessEqual)
	case ast.OpGe:
		c.cur.fn.EmitOp(bytecode.GreaterEqual)
	case ast.OpEq:
		c.cur.fn.EmitOp(bytecode.Equal)
	case ast.OpNeq:
		c.cur.fn.EmitOp(bytecode.NotEqual)
	}
}

func isBitwiseOp(op ast.BinaryOp) bool {
	switch op {
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr, ast.OpUShr:
		return true
	}
	return false
}

func bitwiseNativeName(op ast.BinaryOp) string {
	switch op {
	case ast.OpBitAnd:
		return "__bitand__"
	case ast.OpBitOr:
		return "__bitor__"
	case ast.OpBitXor:
		return "__bitxor__"
	case ast.OpShl:
		return "__shl__"
	case ast.OpShr:
		return "__shr__"
	default:
		return "__ushr__"
	}
}

// shortCircuit implements `&&`/`||` without a dedicated opcode: evaluate
// the left operand, branch past the right operand if it already decides
// the result.
func (c *Compiler) shortCircuit(b *ast.Binary) {
	c.expression(b.Left)
	var skip int
	if b.Op == ast.OpAnd {
		skip = c.cur.fn.EmitJump(bytecode.JumpIfFalse)
	} else {
		skip = c.cur.fn.EmitJump(bytecode.JumpIfTrue)
	}
	c.cur.fn.EmitOp(bytecode.Pop)
	c.expression(b.Right)
	if err := c.cur.fn.PatchJump(skip); err != nil {
		c.fail("%s", err)
	}
}

func (c *Compiler) unary(u *ast.Unary) {
	if u.Op == ast.OpIncr || u.Op == ast.OpDecr {
		c.incrDecr(u)
		return
	}
	if u.Op == ast.OpBitNot {
		// The native callee must be pushed before its argument (see
		// isBitwiseOp's comment in binary above).
		idx := c.constant(bytecode.String("__bitnot__"))
		c.cur.fn.EmitOp(bytecode.GetGlobal)
		c.cur.fn.EmitByte(idx)
		c.expression(u.Operand)
		c.cur.fn.EmitOp(bytecode.Call)
		c.cur.fn.EmitByte(1)
		return
	}
	c.expression(u.Operand)
	switch u.Op {
	case ast.OpNeg:
		c.cur.fn.EmitOp(bytecode.Negate)
	case ast.OpPos:
		// Unary plus is identity on numbers in this subset; no opcode needed.
	case ast.OpNot:
		c.cur.fn.EmitOp(bytecode.Not)
	}
}

// incrDecr desugars `x++`/`++x`/`x--`/`--x` into a read-modify-write
// sequence; no dedicated opcode exists for it.
func (c *Compiler) incrDecr(u *ast.Unary) {
	id, ok := u.Operand.(*ast.Identifier)
	if !ok {
		c.fail("increment/decrement target must be a variable in this subset")
		return
	}
	get, set, operand := c.resolveVariable(id.Name)
	c.cur.fn.EmitOp(get)
	c.cur.fn.EmitByte(operand)
	if u.Postfix {
		c.cur.fn.EmitOp(bytecode.Dup)
	}
	idx := c.constant(bytecode.Number(1))
	c.cur.fn.EmitOp(bytecode.Constant)
	c.cur.fn.EmitByte(idx)
	if u.Op == ast.OpIncr {
		c.cur.fn.EmitOp(bytecode.Add)
	} else {
		c.cur.fn.EmitOp(bytecode.Subtract)
	}
	if u.Postfix {
		// Stack: [old, new]. Store new into the variable, leaving old as
		// the expression's result.
		c.cur.fn.EmitOp(set)
		c.cur.fn.EmitByte(operand)
		c.cur.fn.EmitOp(bytecode.Pop)
	} else {
		c.cur.fn.EmitOp(set)
		c.cur.fn.EmitByte(operand)
	}
}

// assignment implements spec.md §4.H's write opcodes. A Member target
// needs its object (and, if computed, index) pushed before the value, so
// the target's addressing is evaluated up front and the read-for-compound
// path (if any) re-reads through that same addressing rather than through
// a second evaluation of the object subexpression (which could have side
// effects, e.g. `a()[i] += 1`).
func (c *Compiler) assignment(a *ast.Assignment) {
	switch t := a.Target.(type) {
	case *ast.Identifier:
		get, set, operand := c.resolveVariable(t.Name)
		if a.Op == ast.AssignPlain {
			c.expression(a.Value)
		} else {
			c.emitCompoundOp(a.Op,
				func() {
					c.cur.fn.EmitOp(get)
					c.cur.fn.EmitByte(operand)
				},
				func() { c.expression(a.Value) },
			)
		}
		c.cur.fn.EmitOp(set)
		c.cur.fn.EmitByte(operand)

	case *ast.Member:
		if t.Computed {
			if a.Op == ast.AssignPlain {
				c.expression(t.Object)
				c.expression(t.Index)
				c.expression(a.Value)
				c.cur.fn.EmitOp(bytecode.SetIndex)
				return
			}
			c.compoundComputedAssign(t, a)
			return
		}
		if a.Op != ast.AssignPlain {
			c.compoundFieldAssign(t, a)
			return
		}
		c.expression(t.Object)
		c.expression(a.Value)
		idx := c.identifierConstant(t.Property)
		c.cur.fn.EmitOp(bytecode.SetField)
		c.cur.fn.EmitByte(idx)
	}
}

// compoundFieldAssign implements `obj.prop op= value`. The object is
// stashed in a scratch local (rather than duplicated directly on the
// stack) so that a bitwise op's native callee — which must be pushed
// below its two operands, per vm_calls.go's callValue — can be inserted
// between the read and the write without disturbing the object reference
// SetField needs at the end.
func (c *Compiler) compoundFieldAssign(t *ast.Member, a *ast.Assignment) {
	c.beginScope()
	c.expression(t.Object)
	c.declareLocal("")
	objSlot := len(c.cur.locals) - 1
	idx := c.identifierConstant(t.Property)

	c.emitCompoundOp(a.Op,
		func() {
			c.cur.fn.EmitOp(bytecode.GetLocal)
			c.cur.fn.EmitByte(byte(objSlot))
			c.cur.fn.EmitOp(bytecode.GetField)
			c.cur.fn.EmitByte(idx)
		},
		func() { c.expression(a.Value) },
	)

	// Stack: [object, result]; SetField's [object, value] pop order lines
	// up directly since nothing else was pushed below result.
	c.cur.fn.EmitOp(bytecode.SetField)
	c.cur.fn.EmitByte(idx)

	c.cur.locals = c.cur.locals[:len(c.cur.locals)-1]
	c.cur.scopeDepth--
}

// compoundComputedAssign implements `a[i] op= v`. Three scratch locals
// hold the evaluated object, index, and compound result: SetIndex needs
// [object, index, value] pushed in that order (vm_ops.go's setIndex pops
// value, then key, then object), so the result is stashed rather than
// left on top of the object/index pair, and all three are re-pushed in
// the order SetIndex expects.
func (c *Compiler) compoundComputedAssign(t *ast.Member, a *ast.Assignment) {
	c.beginScope()
	c.expression(t.Object)
	c.declareLocal("")
	objSlot := len(c.cur.locals) - 1
	c.expression(t.Index)
	c.declareLocal("")
	idxSlot := len(c.cur.locals) - 1

	c.emitCompoundOp(a.Op,
		func() {
			c.cur.fn.EmitOp(bytecode.GetLocal)
			c.cur.fn.EmitByte(byte(objSlot))
			c.cur.fn.EmitOp(bytecode.GetLocal)
			c.cur.fn.EmitByte(byte(idxSlot))
			c.cur.fn.EmitOp(bytecode.GetIndex)
		},
		func() { c.expression(a.Value) },
	)
	c.declareLocal("")
	resultSlot := len(c.cur.locals) - 1

	c.cur.fn.EmitOp(bytecode.GetLocal)
	c.cur.fn.EmitByte(byte(objSlot))
	c.cur.fn.EmitOp(bytecode.GetLocal)
	c.cur.fn.EmitByte(byte(idxSlot))
	c.cur.fn.EmitOp(bytecode.GetLocal)
	c.cur.fn.EmitByte(byte(resultSlot))
	c.cur.fn.EmitOp(bytecode.SetIndex)

	c.cur.locals = c.cur.locals[:len(c.cur.locals)-3]
	c.cur.scopeDepth--
}

// emitCompoundOp evaluates a compound assignment's left and right operand
// via the supplied closures and applies op. Bitwise operators lower to a
// registered native (no dedicated opcode exists for them, spec.md §4.G),
// so their callee is pushed before either operand runs, matching
// vm_calls.go's callValue convention; the arithmetic operators push their
// operands directly and emit a single opcode.
func (c *Compiler) emitCompoundOp(op ast.AssignOp, lhs, rhs func()) {
	if isBitwiseAssignOp(op) {
		idx := c.constant(bytecode.String(bitwiseNativeName(bitwiseOpFor(op))))
		c.cur.fn.EmitOp(bytecode.GetGlobal)
		c.cur.fn.EmitByte(idx)
		lhs()
		rhs()
		c.cur.fn.EmitOp(bytecode.Call)
		c.cur.fn.EmitByte(2)
		return
	}
	lhs()
	rhs()
	switch op {
	case ast.AssignAdd:
		c.cur.fn.EmitOp(bytecode.Add)
	case ast.AssignSub:
		c.cur.fn.EmitOp(bytecode.Subtract)
	case ast.AssignMul:
		c.cur.fn.EmitOp(bytecode.Multiply)
	case ast.AssignDiv:
		c.cur.fn.EmitOp(bytecode.Divide)
	case ast.AssignMod:
		c.cur.fn.EmitOp(bytecode.Modulo)
	}
}

func isBitwiseAssignOp(op ast.AssignOp) bool {
	switch op {
	case ast.AssignBitAnd, ast.AssignBitOr, ast.AssignBitXor, ast.AssignShl, ast.AssignShr, ast.AssignUShr:
		return true
	}
	return false
}

func bitwiseOpFor(op ast.AssignOp) ast.BinaryOp {
	switch op {
	case ast.AssignBitAnd:
		return ast.OpBitAnd
	case ast.AssignBitOr:
		return ast.OpBitOr
	case ast.AssignBitXor:
		return ast.OpBitXor
	case ast.AssignShl:
		return ast.OpShl
	case ast.AssignShr:
		return ast.OpShr
	default:
		return ast.OpUShr
	}
}

// storeTo writes the top-of-stack value into an Identifier or Member
// target, leaving the value on the stack as the assignment expression's
// result (spec.md §4.H: SetLocal/SetGlobal/SetField/SetIndex all write
// without popping).
func (c *Compiler) storeTo(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Identifier:
		_, set, operand := c.resolveVariable(t.Name)
		c.cur.fn.EmitOp(set)
		c.cur.fn.EmitByte(operand)
	case *ast.Member:
		if t.Computed {
			// Stack must become [object, index, value] before SetIndex; the
			// value was already computed, so re-emit object/index beneath
			// it is not possible post hoc — assignment compiles the target
			// specially instead of reusing the read path.
			c.expression(t.Object)
			c.expression(t.Index)
			c.cur.fn.EmitOp(bytecode.SetIndex)
			return
		}
		c.expression(t.Object)
		idx := c.identifierConstant(t.Property)
		c.cur.fn.EmitOp(bytecode.SetField)
		c.cur.fn.EmitByte(idx)
	}
}

func (c *Compiler) conditional(cond *ast.Conditional) {
	c.expression(cond.Condition)
	elseJump := c.cur.fn.EmitJump(bytecode.JumpIfFalse)
	c.cur.fn.EmitOp(bytecode.Pop)
	c.expression(cond.Then)
	endJump := c.cur.fn.EmitJump(bytecode.Jump)
	if err := c.cur.fn.PatchJump(elseJump); err != nil {
		c.fail("%s", err)
	}
	c.cur.fn.EmitOp(bytecode.Pop)
	c.expression(cond.Else)
	if err := c.cur.fn.PatchJump(endJump); err != nil {
		c.fail("%s", err)
	}
}

func (c *Compiler) functionExpr(fn *ast.FunctionExpr) {
	compiled := c.compileFunctionBody(fn.Name, fn.Params, fn.Body, false, false)
	c.emitClosure(compiled)
}
