package bytecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueType is the runtime type tag carried by every Value, mirroring
// spec.md §3's value kinds: Null, Undefined, Boolean, Number, String, and
// the four heap-object kinds (Array, Function/Closure, Class, Instance).
type ValueType byte

const (
	TypeNull ValueType = iota
	TypeUndefined
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject // Data is a HeapObject: *Array, *Closure, *NativeFunction, *Class, *Instance
)

// Value is the tagged union every stack slot, global, field, and constant
// holds. Heap-allocated payloads (Data of TypeObject) implement HeapObject
// so the GC can trace and size them.
type Value struct {
	Data interface{}
	Type ValueType
}

func Null() Value      { return Value{Type: TypeNull} }
func Undefined() Value { return Value{Type: TypeUndefined} }
func Bool(b bool) Value {
	return Value{Type: TypeBoolean, Data: b}
}
func Number(f float64) Value {
	return Value{Type: TypeNumber, Data: f}
}
func String(s string) Value {
	return Value{Type: TypeString, Data: s}
}
func Object(o HeapObject) Value {
	return Value{Type: TypeObject, Data: o}
}

func (v Value) IsNull() bool      { return v.Type == TypeNull }
func (v Value) IsUndefined() bool { return v.Type == TypeUndefined }
func (v Value) IsNumber() bool    { return v.Type == TypeNumber }
func (v Value) IsString() bool    { return v.Type == TypeString }

func (v Value) AsBool() bool     { return v.Data.(bool) }
func (v Value) AsNumber() float64 { return v.Data.(float64) }
func (v Value) AsString() string { return v.Data.(string) }
func (v Value) AsObject() HeapObject {
	if o, ok := v.Data.(HeapObject); ok {
		return o
	}
	return nil
}

// IsTruthy implements spec.md §4.H's truthiness table: Null, Undefined,
// false, 0 (and NaN), and "" are falsy; everything else is truthy.
func (v Value) IsTruthy() bool {
	switch v.Type {
	case TypeNull, TypeUndefined:
		return false
	case TypeBoolean:
		return v.AsBool()
	case TypeNumber:
		n := v.AsNumber()
		return n != 0 && !math.IsNaN(n)
	case TypeString:
		return v.AsString() != ""
	default:
		return true
	}
}

// Equals implements value equality (Equal/NotEqual opcodes, §3): same-type
// comparison by value for primitives, identity for heap objects.
func Equals(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNull, TypeUndefined:
		return true
	case TypeBoolean:
		return a.AsBool() == b.AsBool()
	case TypeNumber:
		return a.AsNumber() == b.AsNumber()
	case TypeString:
		return a.AsString() == b.AsString()
	default:
		return a.AsObject() == b.AsObject()
	}
}

func (v Value) String() string {
	switch v.Type {
	case TypeNull:
		return "null"
	case TypeUndefined:
		return "undefined"
	case TypeBoolean:
		return strconv.FormatBool(v.AsBool())
	case TypeNumber:
		return formatNumber(v.AsNumber())
	case TypeString:
		return v.AsString()
	default:
		if o := v.AsObject(); o != nil {
			return o.String()
		}
		return "null"
	}
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// HeapObject is implemented by every GC-managed (mark-and-sweep) runtime
// object. mark_references greys everything the object points at, matching
// spec.md §4.I's mark phase.
type HeapObject interface {
	String() string
	MarkReferences(mark func(Value))
	ByteSize() int
}

// Function is the constant-pool container produced once per source
// function/method/constructor/program by the compiler (spec.md §4.G).
type Function struct {
	Name         string
	Arity        int
	NumLocals    int
	NumUpvalues  int
	Code         []byte
	Constants    []Value
	IsInitializer bool
}

func NewFunction(name string) *Function {
	return &Function{Name: name}
}

// EmitByte appends a single raw byte to the function's code stream.
func (fn *Function) EmitByte(b byte) { fn.Code = append(fn.Code, b) }

// EmitOp appends an opcode byte.
func (fn *Function) EmitOp(op OpCode) { fn.EmitByte(byte(op)) }

// Size returns the current length of the code stream, used by the compiler
// to compute jump targets before they're patched.
func (fn *Function) Size() int { return len(fn.Code) }

// PatchJump overwrites the 16-bit operand at a previously emitted jump
// instruction (offset points at the first operand byte) with the distance
// from just past the operand to the function's current end.
func (fn *Function) PatchJump(offset int) error {
	jump := fn.Size() - offset - 2
	if jump < 0 || jump > 0xFFFF {
		return fmt.Errorf("too much code to jump over")
	}
	fn.Code[offset] = byte(jump >> 8)
	fn.Code[offset+1] = byte(jump)
	return nil
}

// EmitJump emits an opcode followed by a two-byte placeholder offset and
// returns the offset of the placeholder's first byte, for a later PatchJump.
func (fn *Function) EmitJump(op OpCode) int {
	fn.EmitOp(op)
	fn.EmitByte(0xFF)
	fn.EmitByte(0xFF)
	return fn.Size() - 2
}

// EmitLoop emits a backward Jump to loopStart. Jump's 16-bit operand is
// read as a two's-complement signed offset added to ip (see vm package),
// so a backward branch is the negated forward distance.
func (fn *Function) EmitLoop(loopStart int) error {
	fn.EmitOp(Jump)
	distance := fn.Size() - loopStart + 2
	if distance > 0xFFFF {
		return fmt.Errorf("too much code to jump over")
	}
	neg := uint16(0x10000 - distance)
	fn.EmitByte(byte(neg >> 8))
	fn.EmitByte(byte(neg))
	return nil
}

// AddConstant appends a value to the constant pool and returns its u8
// index. Exceeding 256 constants is a fatal compile error, per spec.md
// §4.G ("documented limitation of this subset").
func (fn *Function) AddConstant(v Value) (uint8, bool) {
	if len(fn.Constants) >= 256 {
		return 0, false
	}
	fn.Constants = append(fn.Constants, v)
	return uint8(len(fn.Constants) - 1), true
}

func (fn *Function) String() string { return fmt.Sprintf("<fn %s>", fn.Name) }
func (fn *Function) MarkReferences(mark func(Value)) {
	for _, c := range fn.Constants {
		mark(c)
	}
}
func (fn *Function) ByteSize() int { return len(fn.Code) + len(fn.Constants)*32 }

// Upvalue is an indirection cell: open, it points at a live stack slot;
// once closed, it owns the value directly. The transition is one-way
// (spec.md §3).
type Upvalue struct {
	Location *Value // non-nil while open; points into the VM stack
	Closed   Value
}

func (u *Upvalue) IsClosed() bool { return u.Location == nil }

func (u *Upvalue) Get() Value {
	if u.IsClosed() {
		return u.Closed
	}
	return *u.Location
}

func (u *Upvalue) Set(v Value) {
	if u.IsClosed() {
		u.Closed = v
		return
	}
	*u.Location = v
}

func (u *Upvalue) Close() {
	u.Closed = *u.Location
	u.Location = nil
}

func (u *Upvalue) String() string { return "<upvalue>" }
func (u *Upvalue) MarkReferences(mark func(Value)) {
	mark(u.Get())
}
func (u *Upvalue) ByteSize() int { return 24 }

// Closure pairs a compiled Function with the upvalues it captured at
// creation time. BoundReceiver is non-nil for a closure fetched off a
// class instance's method table (GetField's fallback path): the method's
// own Function reserves local slot 0 for `this`, and the VM's Call
// handling splices BoundReceiver into that slot instead of requiring the
// bytecode to pass it as an ordinary argument.
type Closure struct {
	Function      *Function
	Upvalues      []*Upvalue
	BoundReceiver *Value
}

func NewClosure(fn *Function) *Closure {
	return &Closure{Function: fn, Upvalues: make([]*Upvalue, fn.NumUpvalues)}
}

// Bind returns a shallow copy of c with BoundReceiver set to recv,
// sharing the same Function and Upvalues slice.
func (c *Closure) Bind(recv Value) *Closure {
	bound := recv
	return &Closure{Function: c.Function, Upvalues: c.Upvalues, BoundReceiver: &bound}
}

func (c *Closure) String() string { return fmt.Sprintf("<fn %s>", c.Function.Name) }
func (c *Closure) MarkReferences(mark func(Value)) {
	mark(Object(c.Function))
	for _, uv := range c.Upvalues {
		if uv != nil {
			mark(Object(uv))
		}
	}
	if c.BoundReceiver != nil {
		mark(*c.BoundReceiver)
	}
}
func (c *Closure) ByteSize() int { return 24 + len(c.Upvalues)*8 }

// NativeFn is a Go function registered as a callable VM builtin.
type NativeFn func(args []Value) (Value, error)

type NativeFunction struct {
	Name  string
	Arity int
	Fn    NativeFn
}

func (n *NativeFunction) String() string { return fmt.Sprintf("<native %s>", n.Name) }
func (n *NativeFunction) MarkReferences(func(Value)) {}
func (n *NativeFunction) ByteSize() int { return 8 }

// Array is a growable, Value-addressed heap object (spec.md §4.H: SetIndex
// auto-grows with Null fill).
type Array struct {
	Elements []Value
}

func NewArray(elems []Value) *Array { return &Array{Elements: elems} }

func (a *Array) Get(i int) (Value, bool) {
	if i < 0 || i >= len(a.Elements) {
		return Value{}, false
	}
	return a.Elements[i], true
}

func (a *Array) Set(i int, v Value) {
	for i >= len(a.Elements) {
		a.Elements = append(a.Elements, Null())
	}
	a.Elements[i] = v
}

func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *Array) MarkReferences(mark func(Value)) {
	for _, e := range a.Elements {
		mark(e)
	}
}
func (a *Array) ByteSize() int { return 24 + len(a.Elements)*32 }

// Class is the runtime representation created by CreateClass/Inherit/
// Method; Superclass is nil for a root class.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]Value // name -> Closure value
}

func NewClass(name string, super *Class) *Class {
	return &Class{Name: name, Superclass: super, Methods: map[string]Value{}}
}

// FindMethod walks the superclass chain, matching ClassObject::getMethod in
// the reference interpreter.
func (c *Class) FindMethod(name string) (Value, bool) {
	for cur := c; cur != nil; cur = cur.Superclass {
		if m, ok := cur.Methods[name]; ok {
			return m, true
		}
	}
	return Value{}, false
}

func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }
func (c *Class) MarkReferences(mark func(Value)) {
	if c.Superclass != nil {
		mark(Object(c.Superclass))
	}
	for _, m := range c.Methods {
		mark(m)
	}
}
func (c *Class) ByteSize() int { return 32 + len(c.Methods)*40 }

// Instance is a raw object (class == nil, per spec.md §4.H's `Object n`
// opcode) or a class instance with its own field map.
type Instance struct {
	Class  *Class // nil for a raw object literal
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: map[string]Value{}}
}

func (o *Instance) GetField(name string) (Value, bool) {
	if v, ok := o.Fields[name]; ok {
		return v, true
	}
	if o.Class != nil {
		return o.Class.FindMethod(name)
	}
	return Value{}, false
}

func (o *Instance) String() string {
	if o.Class != nil {
		return fmt.Sprintf("<instance %s>", o.Class.Name)
	}
	return "<object>"
}
func (o *Instance) MarkReferences(mark func(Value)) {
	if o.Class != nil {
		mark(Object(o.Class))
	}
	for _, v := range o.Fields {
		mark(v)
	}
}
func (o *Instance) ByteSize() int { return 24 + len(o.Fields)*40 }
