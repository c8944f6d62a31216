package vm

import (
	"fmt"
	"strings"

	"github.com/tsxscript/tsx/internal/bytecode"
)

// registerBuiltins installs the natives the compiler lowers operator-like
// constructs onto: `typeof`, `instanceof` (see compiler.instanceOf), and
// the bitwise family (compiler.bitwiseNativeName), none of which have a
// dedicated opcode in spec.md §4.G. This mirrors how the original
// interpreter's `register_native` extends the runtime with host functions
// (atom/script's native-function table) — here used internally rather
// than exposed to embedders, though RegisterNative is the same mechanism
// a host would use for its own natives.
func registerBuiltins(vm *VM) {
	vm.RegisterNative("print", -1, func(args []bytecode.Value) (bytecode.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(vm.out, strings.Join(parts, " "))
		return bytecode.Undefined(), nil
	})
	vm.RegisterNative("typeof", 1, typeofNative)
	vm.RegisterNative("__instanceof__", 2, instanceofNative)
	vm.RegisterNative("__bitand__", 2, bitwiseNative(func(a, b int64) int64 { return a & b }))
	vm.RegisterNative("__bitor__", 2, bitwiseNative(func(a, b int64) int64 { return a | b }))
	vm.RegisterNative("__bitxor__", 2, bitwiseNative(func(a, b int64) int64 { return a ^ b }))
	vm.RegisterNative("__shl__", 2, bitwiseNative(func(a, b int64) int64 { return a << (uint64(b) & 31) }))
	vm.RegisterNative("__shr__", 2, bitwiseNative(func(a, b int64) int64 { return a >> (uint64(b) & 31) }))
	vm.RegisterNative("__ushr__", 2, func(args []bytecode.Value) (bytecode.Value, error) {
		a, err := toInt32(args[0])
		if err != nil {
			return bytecode.Value{}, err
		}
		b, err := toInt32(args[1])
		if err != nil {
			return bytecode.Value{}, err
		}
		shifted := uint32(a) >> (uint32(b) & 31)
		return bytecode.Number(float64(int32(shifted))), nil
	})
	vm.RegisterNative("__bitnot__", 1, func(args []bytecode.Value) (bytecode.Value, error) {
		a, err := toInt32(args[0])
		if err != nil {
			return bytecode.Value{}, err
		}
		return bytecode.Number(float64(^a)), nil
	})
}

// typeofResultTypes' runtime twin: the six-string mapping must stay in
// lockstep with checker/guards.go's typeofResultTypes so a `typeof x ===
// "kind"` guard narrows to the type that can actually appear at runtime.
func typeofNative(args []bytecode.Value) (bytecode.Value, error) {
	v := args[0]
	switch v.Type {
	case bytecode.TypeString:
		return bytecode.String("string"), nil
	case bytecode.TypeNumber:
		return bytecode.String("number"), nil
	case bytecode.TypeBoolean:
		return bytecode.String("boolean"), nil
	case bytecode.TypeUndefined:
		return bytecode.String("undefined"), nil
	case bytecode.TypeNull:
		return bytecode.String("object"), nil
	default:
		switch v.AsObject().(type) {
		case *bytecode.Closure, *bytecode.NativeFunction:
			return bytecode.String("function"), nil
		default:
			return bytecode.String("object"), nil
		}
	}
}

// instanceofNative implements `x instanceof C`: C's runtime Class value
// must appear somewhere in x's own class's superclass chain.
func instanceofNative(args []bytecode.Value) (bytecode.Value, error) {
	target, ok := args[1].AsObject().(*bytecode.Class)
	if !ok {
		return bytecode.Value{}, fmt.Errorf("right-hand side of instanceof must be a class")
	}
	inst, ok := args[0].AsObject().(*bytecode.Instance)
	if !ok || inst.Class == nil {
		return bytecode.Bool(false), nil
	}
	for cur := inst.Class; cur != nil; cur = cur.Superclass {
		if cur == target {
			return bytecode.Bool(true), nil
		}
	}
	return bytecode.Bool(false), nil
}

// bitwiseNative wraps a plain int64 binary op with the Number<->int32
// coercion spec.md's bitwise operators use (JS semantics: operands are
// truncated to int32, the result is an int32-range Number).
func bitwiseNative(op func(a, b int64) int64) bytecode.NativeFn {
	return func(args []bytecode.Value) (bytecode.Value, error) {
		a, err := toInt32(args[0])
		if err != nil {
			return bytecode.Value{}, err
		}
		b, err := toInt32(args[1])
		if err != nil {
			return bytecode.Value{}, err
		}
		return bytecode.Number(float64(int32(op(int64(a), int64(b))))), nil
	}
}

func toInt32(v bytecode.Value) (int32, error) {
	if !v.IsNumber() {
		return 0, fmt.Errorf("bitwise operand must be a number")
	}
	return int32(int64(v.AsNumber())), nil
}
