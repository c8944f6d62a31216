// Package vm implements the stack-based bytecode interpreter of
// spec.md §4.H: a single Value stack addressed by frame-relative slot,
// a name-indexed global table, an open-upvalue list, and a call stack of
// frames. It is grounded on github.com/cwbudde/go-dws's
// internal/bytecode VM split (vm.go for the struct and entry points,
// vm_calls.go for invocation, vm_ops.go for the instruction loop,
// builtins.go for registered natives) — generalized from go-dws's
// per-frame locals-array model to the single-shared-stack, explicit
// open-upvalue-list model spec.md §3/§4.H requires for closures.
package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/tsxscript/tsx/internal/bytecode"
	"github.com/tsxscript/tsx/internal/gc"
)

// stackMax bounds the Value stack. The backing array is never
// reallocated, so an *Value taken for an open upvalue stays valid for the
// VM's whole lifetime (spec.md §3's "Upvalue→stack-slot is a transient
// borrow").
const stackMax = 1 << 16

// framesMax bounds call depth; exceeding it is a runtime "stack overflow"
// rather than a Go panic.
const framesMax = 1024

// RuntimeError is returned by Execute on an uncaught VM fault. It carries
// the message plus the minimal stack trace spec.md §4.H asks for ("in
// <function-name or 'script'>" per active frame at the moment of the
// error).
type RuntimeError struct {
	Message string
	Trace   []string
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, line := range e.Trace {
		b.WriteString("\n  in ")
		b.WriteString(line)
	}
	return b.String()
}

type openUpvalue struct {
	index int
	uv    *bytecode.Upvalue
}

type frame struct {
	closure *bytecode.Closure
	ip      int
	base    int // stack index of local slot 0
}

// VM owns one independent heap, stack, and global table; spec.md §5
// forbids sharing heap objects between VM instances.
type VM struct {
	stack [stackMax]bytecode.Value
	sp    int

	frames []frame

	globals map[string]bytecode.Value

	openUpvalues []openUpvalue

	gc  *gc.Collector
	out io.Writer
}

// New creates a VM with empty globals and a fresh collector. Output
// defaults to io.Discard; the CLI points it at os.Stdout (matching
// go-dws's interp.New(os.Stdout) pattern) via SetOutput.
func New() *VM {
	vm := &VM{globals: make(map[string]bytecode.Value), out: io.Discard}
	vm.gc = gc.New(vm.markRoots)
	return vm
}

// SetOutput redirects the `print` native's destination.
func (vm *VM) SetOutput(w io.Writer) { vm.out = w }

// NewWithBuiltins creates a VM and pre-registers the natives this
// subset's compiler lowers operator-like constructs onto: `typeof`,
// `instanceof` (as `__instanceof__`), and the bitwise family (spec.md
// §4.G: "evaluated by a registered native taking the operator name").
func NewWithBuiltins() *VM {
	vm := New()
	registerBuiltins(vm)
	return vm
}

// RegisterNative adds a host function as a global before Run, per
// spec.md §6's `register_native(name, callable, arity)`.
func (vm *VM) RegisterNative(name string, arity int, fn bytecode.NativeFn) {
	native := &bytecode.NativeFunction{Name: name, Arity: arity, Fn: fn}
	vm.gc.Track(native)
	vm.globals[name] = bytecode.Object(native)
}

// Globals exposes the global table for a host embedding the VM (e.g. the
// REPL's persistent-globals session, spec.md §6).
func (vm *VM) Globals() map[string]bytecode.Value { return vm.globals }

// Run executes a compiled top-level Function and returns the final
// top-of-stack Value, per spec.md §6's `run(function)`.
func (vm *VM) Run(fn *bytecode.Function) (bytecode.Value, error) {
	closure := bytecode.NewClosure(fn)
	vm.gc.Track(closure)

	vm.sp = 0
	vm.frames = vm.frames[:0]
	vm.openUpvalues = vm.openUpvalues[:0]

	vm.push(bytecode.Object(closure))
	if err := vm.call(closure, 0); err != nil {
		vm.reset()
		return bytecode.Null(), err
	}

	result, err := vm.execute()
	if err != nil {
		vm.reset()
		return bytecode.Null(), err
	}
	return result, nil
}

// reset clears VM state after a runtime error, per spec.md §4.H: "The VM
// then clears its stack, resets current_closure and ip".
func (vm *VM) reset() {
	vm.sp = 0
	vm.frames = vm.frames[:0]
	vm.openUpvalues = vm.openUpvalues[:0]
}

func (vm *VM) push(v bytecode.Value) {
	if vm.sp >= stackMax {
		panic(vm.runtimeErrorf("stack overflow"))
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() bytecode.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(depth int) bytecode.Value {
	return vm.stack[vm.sp-1-depth]
}

func (vm *VM) curFrame() *frame { return &vm.frames[len(vm.frames)-1] }

func (vm *VM) runtimeError(msg string) *RuntimeError {
	return vm.errWithTrace(msg)
}

func (vm *VM) runtimeErrorf(format string, args ...any) *RuntimeError {
	return vm.errWithTrace(fmt.Sprintf(format, args...))
}

func (vm *VM) errWithTrace(msg string) *RuntimeError {
	trace := make([]string, 0, len(vm.frames))
	for i := len(vm.frames) - 1; i >= 0; i-- {
		name := vm.frames[i].closure.Function.Name
		if name == "" {
			name = "script"
		}
		trace = append(trace, name)
	}
	return &RuntimeError{Message: msg, Trace: trace}
}

// markRoots implements spec.md §4.I's root set: every live stack slot,
// every global, the current closure of every active frame, and every
// open upvalue.
func (vm *VM) markRoots(mark func(bytecode.Value)) {
	for i := 0; i < vm.sp; i++ {
		mark(vm.stack[i])
	}
	for _, g := range vm.globals {
		mark(g)
	}
	for _, f := range vm.frames {
		if f.closure != nil {
			mark(bytecode.Object(f.closure))
		}
	}
	for _, o := range vm.openUpvalues {
		mark(bytecode.Object(o.uv))
	}
}

// Collector exposes the VM's garbage collector, for hosts/tests that
// want to assert on scenario 5's "GC has run at least once".
func (vm *VM) Collector() *gc.Collector { return vm.gc }
