package vm

import "github.com/tsxscript/tsx/internal/bytecode"

// callValue dispatches the Call opcode's callee, which may be a Closure
// (plain function, bound or unbound method), a NativeFunction, or a Class
// (the `new C(...)` desugaring, spec.md §4.G). calleeSlot is the stack
// index of the callee itself, one below its arguments.
func (vm *VM) callValue(argCount int) error {
	calleeSlot := vm.sp - argCount - 1
	callee := vm.stack[calleeSlot]
	if callee.Type != bytecode.TypeObject {
		return vm.runtimeError("value is not callable")
	}
	switch obj := callee.AsObject().(type) {
	case *bytecode.Closure:
		return vm.call(obj, argCount)
	case *bytecode.NativeFunction:
		return vm.callNative(obj, argCount)
	case *bytecode.Class:
		return vm.instantiate(obj, argCount)
	default:
		return vm.runtimeError("value is not callable")
	}
}

// call pushes a new frame for closure. If closure carries a BoundReceiver
// (fetched off an instance's method table by GetField, or synthesized by
// instantiate for a constructor), the receiver is physically spliced into
// the stack ahead of the arguments so it lands at local slot 0 — the same
// slot compileFunctionBody reserved for "this" in a method body.
func (vm *VM) call(closure *bytecode.Closure, argCount int) error {
	fn := closure.Function
	if argCount != fn.Arity {
		return vm.runtimeErrorf("expected %d arguments but got %d", fn.Arity, argCount)
	}
	if len(vm.frames) >= framesMax {
		return vm.runtimeError("stack overflow")
	}

	calleeSlot := vm.sp - argCount - 1
	base := calleeSlot + 1

	if closure.BoundReceiver != nil {
		for i := vm.sp; i > base; i-- {
			vm.stack[i] = vm.stack[i-1]
		}
		vm.stack[base] = *closure.BoundReceiver
		vm.sp++
	}

	vm.frames = append(vm.frames, frame{closure: closure, ip: 0, base: base})
	return nil
}

// callNative checks arity unless native.Arity is negative, the convention
// this package uses for variadic natives (e.g. `print`).
func (vm *VM) callNative(native *bytecode.NativeFunction, argCount int) error {
	if native.Arity >= 0 && argCount != native.Arity {
		return vm.runtimeErrorf("native %q expected %d arguments but got %d", native.Name, native.Arity, argCount)
	}
	calleeSlot := vm.sp - argCount - 1
	args := make([]bytecode.Value, argCount)
	copy(args, vm.stack[calleeSlot+1:vm.sp])

	result, err := native.Fn(args)
	if err != nil {
		return vm.runtimeError(err.Error())
	}
	vm.sp = calleeSlot
	vm.push(result)
	return nil
}

// instantiate implements `new C(args)`: allocate an Instance, bind it as
// the receiver of C's constructor (if any), and let the constructor's own
// implicit `return this` (compileFunctionBody's isInitializer handling)
// produce the instance as the call's result. A class without a declared
// constructor just becomes an empty instance; any arguments are discarded,
// matching this subset's lack of a default-constructor arity check.
func (vm *VM) instantiate(cls *bytecode.Class, argCount int) error {
	calleeSlot := vm.sp - argCount - 1
	inst := bytecode.NewInstance(cls)
	vm.gc.Track(inst)
	instVal := bytecode.Object(inst)

	ctorVal, ok := cls.FindMethod("constructor")
	if !ok {
		vm.sp = calleeSlot
		vm.push(instVal)
		return nil
	}

	ctor, ok := ctorVal.AsObject().(*bytecode.Closure)
	if !ok {
		return vm.runtimeError("constructor is not callable")
	}
	bound := ctor.Bind(instVal)
	vm.gc.Track(bound)
	vm.stack[calleeSlot] = bytecode.Object(bound)
	return vm.call(bound, argCount)
}

// captureUpvalue returns the existing open upvalue for the given absolute
// stack index, or creates one, per spec.md §4.G's "closures sharing a
// captured variable share one Upvalue cell".
func (vm *VM) captureUpvalue(index int) *bytecode.Upvalue {
	for _, o := range vm.openUpvalues {
		if o.index == index {
			return o.uv
		}
	}
	uv := &bytecode.Upvalue{Location: &vm.stack[index]}
	vm.gc.Track(uv)
	vm.openUpvalues = append(vm.openUpvalues, openUpvalue{index: index, uv: uv})
	return uv
}

// closeUpvalues closes every open upvalue at or above the given absolute
// stack index, severing its Location pointer into a dead stack slot before
// that slot is reused by a subsequent call or local. Used both by the
// CloseUpvalue opcode (a single slot, at scope-exit) and by Return (the
// whole of the returning frame's slot range).
func (vm *VM) closeUpvalues(from int) {
	kept := vm.openUpvalues[:0]
	for _, o := range vm.openUpvalues {
		if o.index >= from {
			o.uv.Close()
		} else {
			kept = append(kept, o)
		}
	}
	vm.openUpvalues = kept
}
