package vm

import (
	"math"

	"github.com/tsxscript/tsx/internal/bytecode"
)

// execute runs frames until the outermost one returns, implementing
// spec.md §4.H's fetch-decode-execute loop. A runtime fault anywhere in
// the switch is surfaced as a panic carrying a *RuntimeError and converted
// back into a normal error here, mirroring how the parser's panic/recover
// style keeps the error path out of every call site.
func (vm *VM) execute() (result bytecode.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*RuntimeError); ok {
				err = rerr
				return
			}
			panic(r)
		}
	}()

	for {
		f := vm.curFrame()
		code := f.closure.Function.Code
		op := bytecode.OpCode(code[f.ip])
		f.ip++

		switch op {
		case bytecode.Constant:
			idx := vm.readByte(f)
			vm.push(f.closure.Function.Constants[idx])

		case bytecode.Null:
			vm.push(bytecode.Null())
		case bytecode.True:
			vm.push(bytecode.Bool(true))
		case bytecode.False:
			vm.push(bytecode.Bool(false))
		case bytecode.Undefined:
			vm.push(bytecode.Undefined())

		case bytecode.Add:
			vm.add()
		case bytecode.Subtract:
			vm.numberBinOp(func(a, b float64) float64 { return a - b })
		case bytecode.Multiply:
			vm.numberBinOp(func(a, b float64) float64 { return a * b })
		case bytecode.Divide:
			vm.divBinOp(func(a, b float64) float64 { return a / b })
		case bytecode.Modulo:
			vm.divBinOp(math.Mod)
		case bytecode.Negate:
			v := vm.pop()
			if !v.IsNumber() {
				panic(vm.runtimeError("operand must be a number"))
			}
			vm.push(bytecode.Number(-v.AsNumber()))
		case bytecode.Not:
			v := vm.pop()
			vm.push(bytecode.Bool(!v.IsTruthy()))

		case bytecode.Equal:
			b, a := vm.pop(), vm.pop()
			vm.push(bytecode.Bool(bytecode.Equals(a, b)))
		case bytecode.NotEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(bytecode.Bool(!bytecode.Equals(a, b)))
		case bytecode.Less:
			vm.compare(func(c int) bool { return c < 0 })
		case bytecode.LessEqual:
			vm.compare(func(c int) bool { return c <= 0 })
		case bytecode.Greater:
			vm.compare(func(c int) bool { return c > 0 })
		case bytecode.GreaterEqual:
			vm.compare(func(c int) bool { return c >= 0 })
		case bytecode.And:
			b, a := vm.pop(), vm.pop()
			if a.IsTruthy() {
				vm.push(b)
			} else {
				vm.push(a)
			}
		case bytecode.Or:
			b, a := vm.pop(), vm.pop()
			if a.IsTruthy() {
				vm.push(a)
			} else {
				vm.push(b)
			}

		case bytecode.GetLocal:
			slot := vm.readByte(f)
			vm.push(vm.stack[f.base+int(slot)])
		case bytecode.SetLocal:
			slot := vm.readByte(f)
			vm.stack[f.base+int(slot)] = vm.peek(0)

		case bytecode.GetGlobal:
			idx := vm.readByte(f)
			name := f.closure.Function.Constants[idx].AsString()
			v, ok := vm.globals[name]
			if !ok {
				panic(vm.runtimeErrorf("undefined variable %q", name))
			}
			vm.push(v)
		case bytecode.SetGlobal:
			idx := vm.readByte(f)
			name := f.closure.Function.Constants[idx].AsString()
			vm.globals[name] = vm.peek(0)

		case bytecode.GetField:
			idx := vm.readByte(f)
			name := f.closure.Function.Constants[idx].AsString()
			vm.getField(name)
		case bytecode.SetField:
			idx := vm.readByte(f)
			name := f.closure.Function.Constants[idx].AsString()
			vm.setField(name)

		case bytecode.GetIndex:
			vm.getIndex()
		case bytecode.SetIndex:
			vm.setIndex()

		case bytecode.Array:
			n := int(vm.readByte(f))
			start := vm.sp - n
			elems := make([]bytecode.Value, n)
			copy(elems, vm.stack[start:vm.sp])
			vm.sp = start
			arr := bytecode.NewArray(elems)
			vm.gc.Track(arr)
			vm.push(bytecode.Object(arr))

		case bytecode.Object:
			n := int(vm.readByte(f))
			start := vm.sp - n*2
			inst := bytecode.NewInstance(nil)
			for i := 0; i < n; i++ {
				key := vm.stack[start+i*2].AsString()
				val := vm.stack[start+i*2+1]
				inst.Fields[key] = val
			}
			vm.sp = start
			vm.gc.Track(inst)
			vm.push(bytecode.Object(inst))

		case bytecode.Call:
			argCount := int(vm.readByte(f))
			if err := vm.callValue(argCount); err != nil {
				panic(err)
			}

		case bytecode.Return:
			value := vm.pop()
			vm.closeUpvalues(f.base)
			vm.sp = f.base - 1
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return value, nil
			}
			vm.push(value)

		case bytecode.Jump:
			offset := vm.readOffset(f)
			f.ip += offset
		case bytecode.JumpIfFalse:
			offset := vm.readOffset(f)
			if !vm.peek(0).IsTruthy() {
				f.ip += offset
			}
		case bytecode.JumpIfTrue:
			offset := vm.readOffset(f)
			if vm.peek(0).IsTruthy() {
				f.ip += offset
			}

		case bytecode.Pop:
			vm.pop()
		case bytecode.Dup:
			vm.push(vm.peek(0))

		case bytecode.Closure:
			idx := vm.readByte(f)
			fn := f.closure.Function.Constants[idx].AsObject().(*bytecode.Function)
			newClosure := bytecode.NewClosure(fn)
			for i := 0; i < fn.NumUpvalues; i++ {
				isLocal := vm.readByte(f)
				index := vm.readByte(f)
				if isLocal == 1 {
					newClosure.Upvalues[i] = vm.captureUpvalue(f.base + int(index))
				} else {
					newClosure.Upvalues[i] = f.closure.Upvalues[index]
				}
			}
			vm.gc.Track(newClosure)
			vm.push(bytecode.Object(newClosure))

		case bytecode.GetUpvalue:
			idx := vm.readByte(f)
			vm.push(f.closure.Upvalues[idx].Get())
		case bytecode.SetUpvalue:
			idx := vm.readByte(f)
			f.closure.Upvalues[idx].Set(vm.peek(0))
		case bytecode.CloseUpvalue:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()

		case bytecode.CreateClass:
			idx := vm.readByte(f)
			name := f.closure.Function.Constants[idx].AsString()
			cls := bytecode.NewClass(name, nil)
			vm.gc.Track(cls)
			vm.push(bytecode.Object(cls))
		case bytecode.GetSuper:
			// No `super` keyword exists in this subset's grammar (the parser
			// never produces it), so this opcode is never emitted; it stays
			// in the dispatch table only to keep the switch exhaustive.
			panic(vm.runtimeError("GetSuper is unsupported"))
		case bytecode.Inherit:
			superVal := vm.pop()
			super, ok := superVal.AsObject().(*bytecode.Class)
			if !ok {
				panic(vm.runtimeError("superclass must be a class"))
			}
			cls := vm.peek(0).AsObject().(*bytecode.Class)
			cls.Superclass = super
		case bytecode.Method:
			idx := vm.readByte(f)
			name := f.closure.Function.Constants[idx].AsString()
			closureVal := vm.pop()
			cls := vm.peek(0).AsObject().(*bytecode.Class)
			cls.Methods[name] = closureVal

		default:
			panic(vm.runtimeErrorf("unknown opcode %v", op))
		}
	}
}

func (vm *VM) readByte(f *frame) byte {
	b := f.closure.Function.Code[f.ip]
	f.ip++
	return b
}

// readOffset decodes a Jump family's 16-bit operand as a signed
// two's-complement distance, added to ip after the operand is consumed
// (EmitLoop encodes backward jumps this way; see bytecode.Function.EmitLoop).
func (vm *VM) readOffset(f *frame) int {
	hi := f.closure.Function.Code[f.ip]
	lo := f.closure.Function.Code[f.ip+1]
	f.ip += 2
	return int(int16(uint16(hi)<<8 | uint16(lo)))
}

func (vm *VM) add() {
	b, a := vm.pop(), vm.pop()
	if a.IsNumber() && b.IsNumber() {
		vm.push(bytecode.Number(a.AsNumber() + b.AsNumber()))
		return
	}
	if a.IsString() || b.IsString() {
		vm.push(bytecode.String(a.String() + b.String()))
		return
	}
	panic(vm.runtimeError("operands must be numbers or strings"))
}

func (vm *VM) numberBinOp(f func(a, b float64) float64) {
	b, a := vm.pop(), vm.pop()
	if !a.IsNumber() || !b.IsNumber() {
		panic(vm.runtimeError("operands must be numbers"))
	}
	vm.push(bytecode.Number(f(a.AsNumber(), b.AsNumber())))
}

// divBinOp backs Divide and Modulo, which additionally fault on a zero
// right operand (spec.md §4.H, §7) rather than producing Infinity/NaN.
func (vm *VM) divBinOp(f func(a, b float64) float64) {
	b, a := vm.pop(), vm.pop()
	if !a.IsNumber() || !b.IsNumber() {
		panic(vm.runtimeError("operands must be numbers"))
	}
	if b.AsNumber() == 0 {
		panic(vm.runtimeError("division or modulo by zero"))
	}
	vm.push(bytecode.Number(f(a.AsNumber(), b.AsNumber())))
}

// compare implements the four ordering opcodes: numeric for two numbers,
// lexicographic for two strings, a runtime error otherwise.
func (vm *VM) compare(accept func(int) bool) {
	b, a := vm.pop(), vm.pop()
	var c int
	switch {
	case a.IsNumber() && b.IsNumber():
		switch {
		case a.AsNumber() < b.AsNumber():
			c = -1
		case a.AsNumber() > b.AsNumber():
			c = 1
		default:
			c = 0
		}
	case a.IsString() && b.IsString():
		switch {
		case a.AsString() < b.AsString():
			c = -1
		case a.AsString() > b.AsString():
			c = 1
		default:
			c = 0
		}
	default:
		panic(vm.runtimeError("operands must both be numbers or both be strings"))
	}
	vm.push(bytecode.Bool(accept(c)))
}

// getField implements GetField's two-tier lookup: an own field wins, then
// the class method table — and only the method-table fallback produces a
// bound closure, per the design documented on bytecode.Closure.Bind.
// Instance.GetField can't express this distinction itself (it folds both
// cases into one bool), so the VM re-does the own-field check directly.
func (vm *VM) getField(name string) {
	objVal := vm.pop()
	inst, ok := objVal.AsObject().(*bytecode.Instance)
	if !ok {
		panic(vm.runtimeError("cannot read property of a non-object value"))
	}
	if v, ok := inst.Fields[name]; ok {
		vm.push(v)
		return
	}
	if inst.Class != nil {
		if m, ok := inst.Class.FindMethod(name); ok {
			method := m.AsObject().(*bytecode.Closure)
			bound := method.Bind(objVal)
			vm.gc.Track(bound)
			vm.push(bytecode.Object(bound))
			return
		}
	}
	vm.push(bytecode.Undefined())
}

func (vm *VM) setField(name string) {
	value := vm.pop()
	objVal := vm.pop()
	inst, ok := objVal.AsObject().(*bytecode.Instance)
	if !ok {
		panic(vm.runtimeError("cannot set property of a non-object value"))
	}
	inst.Fields[name] = value
	vm.push(value)
}

// getIndex implements computed member access for the three indexable
// runtime shapes this subset has: arrays by number, strings by number
// (returning a one-character string), and plain/class objects by string
// key (so `obj[key]` and `obj.prop` share the same field map).
func (vm *VM) getIndex() {
	key := vm.pop()
	objVal := vm.pop()
	switch obj := objVal.AsObject().(type) {
	case *bytecode.Array:
		if !key.IsNumber() {
			panic(vm.runtimeError("array index must be a number"))
		}
		v, ok := obj.Get(int(key.AsNumber()))
		if !ok {
			panic(vm.runtimeErrorf("array index %d out of range", int(key.AsNumber())))
		}
		vm.push(v)
		return
	case *bytecode.Instance:
		if !key.IsString() {
			panic(vm.runtimeError("object index must be a string"))
		}
		if v, ok := obj.Fields[key.AsString()]; ok {
			vm.push(v)
		} else {
			vm.push(bytecode.Undefined())
		}
		return
	}
	if objVal.IsString() && key.IsNumber() {
		s := objVal.AsString()
		i := int(key.AsNumber())
		if i < 0 || i >= len(s) {
			vm.push(bytecode.Undefined())
			return
		}
		vm.push(bytecode.String(string(s[i])))
		return
	}
	panic(vm.runtimeError("value is not indexable"))
}

func (vm *VM) setIndex() {
	value := vm.pop()
	key := vm.pop()
	objVal := vm.pop()
	switch obj := objVal.AsObject().(type) {
	case *bytecode.Array:
		if !key.IsNumber() {
			panic(vm.runtimeError("array index must be a number"))
		}
		obj.Set(int(key.AsNumber()), value)
		vm.push(value)
		return
	case *bytecode.Instance:
		if !key.IsString() {
			panic(vm.runtimeError("object index must be a string"))
		}
		obj.Fields[key.AsString()] = value
		vm.push(value)
		return
	}
	panic(vm.runtimeError("value is not indexable"))
}
