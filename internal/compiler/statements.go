package compiler

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/bytecode"
)

func (c *Compiler) statement(s ast.Stmt) {
	if c.err != nil {
		return
	}
	switch st := s.(type) {
	case *ast.ExpressionStmt:
		c.expression(st.Expression)
		c.cur.fn.EmitOp(bytecode.Pop)

	case *ast.Block:
		c.beginScope()
		for _, inner := range st.Statements {
			c.statement(inner)
		}
		c.endScope()

	case *ast.VariableDeclaration:
		c.variableDeclaration(st)

	case *ast.If:
		c.ifStatement(st)

	case *ast.While:
		c.whileStatement(st)

	case *ast.For:
		c.forStatement(st)

	case *ast.Break:
		c.emitBreak()

	case *ast.Continue:
		c.emitContinue()

	case *ast.Return:
		if st.Value != nil {
			c.expression(st.Value)
		} else if c.cur.isInitializer {
			c.cur.fn.EmitOp(bytecode.GetLocal)
			c.cur.fn.EmitByte(0)
		} else {
			c.cur.fn.EmitOp(bytecode.Null)
		}
		c.cur.fn.EmitOp(bytecode.Return)

	case *ast.FunctionDeclaration:
		c.functionDeclaration(st)

	case *ast.ClassDeclaration:
		c.classDeclaration(st)

	case *ast.InterfaceDeclaration:
		// Interfaces are erased at codegen time: they exist only for the
		// checker's structural typing (spec.md §4.F) and have no runtime
		// representation.
	}
}

func (c *Compiler) variableDeclaration(decl *ast.VariableDeclaration) {
	for _, d := range decl.Declarators {
		if d.Initializer != nil {
			c.expression(d.Initializer)
		} else {
			c.cur.fn.EmitOp(bytecode.Undefined)
		}
		c.defineVariable(d.Name)
	}
}

// defineVariable implements spec.md §4.G's declaration rule: a local scope
// just keeps the value on the stack and records the slot; global scope
// emits an explicit SetGlobal followed by a Pop of the initializer value,
// matching how a declaration statement doesn't itself leave a value.
func (c *Compiler) defineVariable(name string) {
	if c.cur.scopeDepth > 0 {
		c.declareLocal(name)
		return
	}
	idx := c.identifierConstant(name)
	c.cur.fn.EmitOp(bytecode.SetGlobal)
	c.cur.fn.EmitByte(idx)
	c.cur.fn.EmitOp(bytecode.Pop)
}

func (c *Compiler) ifStatement(st *ast.If) {
	c.expression(st.Condition)
	thenJump := c.cur.fn.EmitJump(bytecode.JumpIfFalse)
	c.cur.fn.EmitOp(bytecode.Pop)
	c.statement(st.Then)

	elseJump := c.cur.fn.EmitJump(bytecode.Jump)
	if err := c.cur.fn.PatchJump(thenJump); err != nil {
		c.fail("%s", err)
	}
	c.cur.fn.EmitOp(bytecode.Pop)

	if st.Else != nil {
		c.statement(st.Else)
	}
	if err := c.cur.fn.PatchJump(elseJump); err != nil {
		c.fail("%s", err)
	}
}

// loopContext tracks the pending break jumps and the loop's continue
// target so emitBreak/emitContinue can patch/emit against the innermost
// enclosing loop. continueIsBackward distinguishes While (continue jumps
// backward straight to the condition test) from For (continue must still
// run the update clause, so it's a forward jump patched once the update's
// address is known).
type loopContext struct {
	parent             *loopContext
	continueTarget     int
	continueIsBackward bool
	continueJumps      []int
	breakJumps         []int
}

func (c *Compiler) pushLoop(continueTarget int, backward bool) {
	c.loop = &loopContext{parent: c.loop, continueTarget: continueTarget, continueIsBackward: backward}
}

func (c *Compiler) popLoop() *loopContext {
	l := c.loop
	c.loop = l.parent
	return l
}

func (c *Compiler) emitBreak() {
	if c.loop == nil {
		c.fail("break outside of a loop")
		return
	}
	j := c.cur.fn.EmitJump(bytecode.Jump)
	c.loop.breakJumps = append(c.loop.breakJumps, j)
}

func (c *Compiler) emitContinue() {
	if c.loop == nil {
		c.fail("continue outside of a loop")
		return
	}
	if c.loop.continueIsBackward {
		if err := c.cur.fn.EmitLoop(c.loop.continueTarget); err != nil {
			c.fail("%s", err)
		}
		return
	}
	j := c.cur.fn.EmitJump(bytecode.Jump)
	c.loop.continueJumps = append(c.loop.continueJumps, j)
}

func (c *Compiler) whileStatement(st *ast.While) {
	loopStart := c.cur.fn.Size()
	c.pushLoop(loopStart, true)

	c.expression(st.Condition)
	exitJump := c.cur.fn.EmitJump(bytecode.JumpIfFalse)
	c.cur.fn.EmitOp(bytecode.Pop)
	c.statement(st.Body)
	if err := c.cur.fn.EmitLoop(loopStart); err != nil {
		c.fail("%s", err)
	}

	if err := c.cur.fn.PatchJump(exitJump); err != nil {
		c.fail("%s", err)
	}
	c.cur.fn.EmitOp(bytecode.Pop)

	loop := c.popLoop()
	for _, j := range loop.breakJumps {
		if err := c.cur.fn.PatchJump(j); err != nil {
			c.fail("%s", err)
		}
	}
}

func (c *Compiler) forStatement(st *ast.For) {
	c.beginScope()
	if st.Init != nil {
		c.statement(st.Init)
	}

	loopStart := c.cur.fn.Size()
	exitJump := -1
	if st.Cond != nil {
		c.expression(st.Cond)
		exitJump = c.cur.fn.EmitJump(bytecode.JumpIfFalse)
		c.cur.fn.EmitOp(bytecode.Pop)
	}

	c.pushLoop(0, false)
	c.statement(st.Body)

	// continue lands here, just before Update runs.
	for _, j := range c.loop.continueJumps {
		if err := c.cur.fn.PatchJump(j); err != nil {
			c.fail("%s", err)
		}
	}
	if st.Update != nil {
		c.expression(st.Update)
		c.cur.fn.EmitOp(bytecode.Pop)
	}
	if err := c.cur.fn.EmitLoop(loopStart); err != nil {
		c.fail("%s", err)
	}

	loop := c.popLoop()
	for _, j := range loop.breakJumps {
		if err := c.cur.fn.PatchJump(j); err != nil {
			c.fail("%s", err)
		}
	}

	if exitJump != -1 {
		if err := c.cur.fn.PatchJump(exitJump); err != nil {
			c.fail("%s", err)
		}
		c.cur.fn.EmitOp(bytecode.Pop)
	}
	c.endScope()
}

func (c *Compiler) functionDeclaration(decl *ast.FunctionDeclaration) {
	fn := c.compileFunctionBody(decl.Name, decl.Params, decl.Body, false, false)
	c.emitClosure(fn)
	c.defineVariable(decl.Name)
}

// compileFunctionBody pushes a new compiler state, declares params as
// locals, compiles the body, and appends the implicit final return, per
// spec.md §4.G. When isMethod is true, slot 0 is reserved for "this"
// instead of the first parameter: class-member bodies declare it as an
// ordinary named local so the existing local/upvalue resolution machinery
// (including capture by nested closures) picks it up for free, matching
// the checker's own scoped `this` visibility (checker/statements.go's
// checkClassDeclaration binds "this" in a pushed scope per member body).
func (c *Compiler) compileFunctionBody(name string, params []ast.Param, body *ast.Block, isInitializer, isMethod bool) *bytecode.Function {
	fn := bytecode.NewFunction(name)
	fn.Arity = len(params)
	fn.IsInitializer = isInitializer

	parent := c.cur
	c.cur = &state{parent: parent, fn: fn, isInitializer: isInitializer, className: parent.className}
	c.beginScope()
	if isMethod {
		c.declareLocal("this")
	}
	for _, p := range params {
		c.declareLocal(p.Name)
	}
	for _, inner := range body.Statements {
		c.statement(inner)
	}
	if isInitializer {
		c.cur.fn.EmitOp(bytecode.GetLocal)
		c.cur.fn.EmitByte(0)
	} else {
		c.cur.fn.EmitOp(bytecode.Null)
	}
	c.cur.fn.EmitOp(bytecode.Return)

	compiled := c.cur.fn
	c.lastUpvalues = c.cur.upvalues
	c.cur = parent
	return compiled
}

// emitClosure appends a Closure instruction: the opcode, the function's own
// constant-pool index, and the trailing (is_local,index) pair for each
// upvalue it captures, read from the upvalue list compileFunctionBody
// recorded before discarding the child compiler state.
func (c *Compiler) emitClosure(fn *bytecode.Function) {
	idx := c.constant(bytecode.Object(fn))
	c.cur.fn.EmitOp(bytecode.Closure)
	c.cur.fn.EmitByte(idx)
	for i := 0; i < fn.NumUpvalues; i++ {
		uv := c.lastUpvalues[i]
		isLocal := byte(0)
		if uv.isLocal {
			isLocal = 1
		}
		c.cur.fn.EmitByte(isLocal)
		c.cur.fn.EmitByte(uv.index)
	}
}

func (c *Compiler) classDeclaration(decl *ast.ClassDeclaration) {
	nameIdx := c.identifierConstant(decl.Name)
	c.cur.fn.EmitOp(bytecode.CreateClass)
	c.cur.fn.EmitByte(nameIdx)

	if decl.Extends != "" {
		get, _, operand := c.resolveVariable(decl.Extends)
		c.cur.fn.EmitOp(get)
		c.cur.fn.EmitByte(operand)
		c.cur.fn.EmitOp(bytecode.Inherit)
	}

	// The class value is now on the stack; keep it there while we attach
	// methods, then bind it to the declared name.
	savedClassName := c.cur.className
	c.cur.className = decl.Name
	for _, m := range decl.Members {
		switch m.Kind {
		case ast.MemberConstructor:
			fn := c.compileFunctionBody("constructor", m.Params, m.Body, true, true)
			c.emitMethod(fn, "constructor")
		case ast.MemberMethod, ast.MemberGetter, ast.MemberSetter:
			fn := c.compileFunctionBody(m.Name, m.Params, m.Body, false, true)
			c.emitMethod(fn, m.Name)
		case ast.MemberProperty:
			// Instance properties are materialized lazily: assigning
			// `this.name = value` inside the constructor (or defaulting to
			// Undefined) is how fields come to exist on an Instance, per
			// spec.md §3's field-map Instance representation. A property
			// with only an initializer and no constructor gets no special
			// runtime treatment in this subset — it's a type-checker-only
			// declaration until first assigned.
		}
	}
	c.cur.className = savedClassName

	c.defineVariable(decl.Name)
}

func (c *Compiler) emitMethod(fn *bytecode.Function, name string) {
	c.emitClosure(fn)

	nameIdx := c.identifierConstant(name)
	c.cur.fn.EmitOp(bytecode.Method)
	c.cur.fn.EmitByte(nameIdx)
}
