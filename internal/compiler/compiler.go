// Package compiler turns a checked AST into bytecode.Function values,
// implementing spec.md §4.G's single-pass code generator: a stack of
// per-function compiler states, each tracking locals, upvalues, and scope
// depth, in the style of CWBudde-go-dws's internal/bytecode compiler
// passes.
package compiler

import (
	"fmt"

	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/bytecode"
)

type local struct {
	name       string
	depth      int
	isCaptured bool
}

type upvalueRef struct {
	index   uint8
	isLocal bool
}

// state is one frame of compilerStack: the Function currently being
// emitted plus its locals/upvalues bookkeeping.
type state struct {
	parent        *state
	fn            *bytecode.Function
	locals        []local
	upvalues      []upvalueRef
	scopeDepth    int
	isInitializer bool
	className     string // non-empty while compiling a method body, for `super`
}

// Compiler compiles an entire checked program into its top-level Function.
// Nested function/method bodies become separate Functions referenced from
// the enclosing one's constant pool, per spec.md §4.G.
type Compiler struct {
	cur *state
	err error

	// loop is the innermost enclosing loopContext, used by emitBreak and
	// emitContinue; nil outside any loop.
	loop *loopContext

	// lastUpvalues holds the upvalue list of the most recently completed
	// compileFunctionBody call, since the compiling state is discarded once
	// the body finishes; emitClosure reads it immediately afterward.
	lastUpvalues []upvalueRef
}

func New() *Compiler { return &Compiler{} }

// Compile produces the top-level Function for prog. The caller is expected
// to have already type-checked prog (spec.md §4.A: compilation refuses to
// proceed when checking produced errors).
func (c *Compiler) Compile(prog *ast.Program) (*bytecode.Function, error) {
	c.cur = &state{fn: bytecode.NewFunction("")}
	for _, stmt := range prog.Statements {
		c.statement(stmt)
		if c.err != nil {
			return nil, c.err
		}
	}
	c.cur.fn.EmitOp(bytecode.Null)
	c.cur.fn.EmitOp(bytecode.Return)
	return c.cur.fn, c.err
}

func (c *Compiler) fail(format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf(format, args...)
	}
}

func (c *Compiler) beginScope() { c.cur.scopeDepth++ }

// endScope pops locals declared at the scope being left. A captured local
// gets an explicit CloseUpvalue before it's dropped so any closure that
// captured it keeps a valid value; an uncaptured one is just popped.
func (c *Compiler) endScope() {
	c.cur.scopeDepth--
	for len(c.cur.locals) > 0 && c.cur.locals[len(c.cur.locals)-1].depth > c.cur.scopeDepth {
		last := c.cur.locals[len(c.cur.locals)-1]
		if last.isCaptured {
			c.cur.fn.EmitOp(bytecode.CloseUpvalue)
		} else {
			c.cur.fn.EmitOp(bytecode.Pop)
		}
		c.cur.locals = c.cur.locals[:len(c.cur.locals)-1]
	}
}

func (c *Compiler) constant(v bytecode.Value) uint8 {
	idx, ok := c.cur.fn.AddConstant(v)
	if !ok {
		c.fail("too many constants in function %q", c.cur.fn.Name)
	}
	return idx
}

func (c *Compiler) identifierConstant(name string) uint8 {
	return c.constant(bytecode.String(name))
}

// declareLocal records a new local in the current scope at the current
// depth; globals (scopeDepth == 0) are handled by the caller instead.
func (c *Compiler) declareLocal(name string) {
	c.cur.locals = append(c.cur.locals, local{name: name, depth: c.cur.scopeDepth})
	c.cur.fn.NumLocals++
}

// resolveLocal searches the current frame's locals newest-to-oldest.
func (c *Compiler) resolveLocal(st *state, name string) int {
	for i := len(st.locals) - 1; i >= 0; i-- {
		if st.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue implements spec.md §4.G's recursive upvalue resolution:
// ask the enclosing frame for a local; if found, mark it captured and add
// an upvalue entry; otherwise recurse into the enclosing frame's own
// upvalues.
func (c *Compiler) resolveUpvalue(st *state, name string) int {
	if st.parent == nil {
		return -1
	}
	if idx := c.resolveLocal(st.parent, name); idx != -1 {
		st.parent.locals[idx].isCaptured = true
		return c.addUpvalue(st, uint8(idx), true)
	}
	if idx := c.resolveUpvalue(st.parent, name); idx != -1 {
		return c.addUpvalue(st, uint8(idx), false)
	}
	return -1
}

func (c *Compiler) addUpvalue(st *state, index uint8, isLocal bool) int {
	for i, uv := range st.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	st.upvalues = append(st.upvalues, upvalueRef{index: index, isLocal: isLocal})
	st.fn.NumUpvalues = len(st.upvalues)
	return len(st.upvalues) - 1
}

// resolveVariable returns (opGet, opSet, operand) for reading/writing name:
// a local slot, an upvalue slot, or a global by name constant.
func (c *Compiler) resolveVariable(name string) (get, set bytecode.OpCode, operand uint8) {
	if idx := c.resolveLocal(c.cur, name); idx != -1 {
		return bytecode.GetLocal, bytecode.SetLocal, uint8(idx)
	}
	if idx := c.resolveUpvalue(c.cur, name); idx != -1 {
		return bytecode.GetUpvalue, bytecode.SetUpvalue, uint8(idx)
	}
	return bytecode.GetGlobal, bytecode.SetGlobal, c.identifierConstant(name)
}
