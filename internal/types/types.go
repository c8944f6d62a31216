// Package types implements the tagged type lattice of spec.md §3/§4.C:
// primitives, structural object/array/function types, union/intersection
// types, and the generic-parameter/instance/placeholder variants used by
// the checker. It is grounded on atom/script/types/types.h in
// _examples/original_source (the C++ source this subset was distilled
// from) and follows the teacher's (github.com/cwbudde/go-dws) convention of
// a closed set of concrete struct types satisfying a small shared
// interface, checked with type switches rather than virtual dispatch
// (spec.md §9: "traversal is pattern-match rather than virtual dispatch").
package types

import (
	"fmt"
	"strings"
)

// Type is the shared interface every type-lattice variant implements. All
// constructors are side-effect free, as required by spec.md §4.C.
type Type interface {
	// String renders the type's canonical display form.
	String() string
	// Clone produces an owning deep copy, for storing a type in a different
	// scope without aliasing mutable substructure.
	Clone() Type

	isType()
}

// PrimitiveKind enumerates the built-in scalar kinds.
type PrimitiveKind int

const (
	KindNumber PrimitiveKind = iota
	KindString
	KindBoolean
	KindNull
	KindUndefined
	KindAny
	KindNever
	KindUnknown
)

var primitiveNames = [...]string{"number", "string", "boolean", "null", "undefined", "any", "never", "unknown"}

func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveNames) {
		return primitiveNames[k]
	}
	return "unknown"
}

// Primitive is one of the built-in scalar kinds.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) isType()        {}
func (p *Primitive) String() string { return p.Kind.String() }
func (p *Primitive) Clone() Type    { return &Primitive{Kind: p.Kind} }

// Convenience singletons; safe to share since Primitive carries no mutable
// state, but Clone still returns a fresh value for callers that assume
// ownership.
var (
	Number    = &Primitive{Kind: KindNumber}
	String    = &Primitive{Kind: KindString}
	Boolean   = &Primitive{Kind: KindBoolean}
	Null      = &Primitive{Kind: KindNull}
	Undefined = &Primitive{Kind: KindUndefined}
	Any       = &Primitive{Kind: KindAny}
	Never     = &Primitive{Kind: KindNever}
	Unknown   = &Primitive{Kind: KindUnknown}
)

// Object is a structural record type: an ordered set of named properties
// plus an optional index signature. Property names are unique; insertion
// order is preserved for display.
type Object struct {
	Names         []string // insertion order
	Properties    map[string]Type
	IndexSig      Type // nil if absent
	IsInterface   bool
}

func NewObject() *Object {
	return &Object{Properties: map[string]Type{}}
}

func (o *Object) isType() {}

// AddProperty inserts or overwrites a property, preserving first-insertion
// order for names that already exist.
func (o *Object) AddProperty(name string, t Type) {
	if _, exists := o.Properties[name]; !exists {
		o.Names = append(o.Names, name)
	}
	o.Properties[name] = t
}

func (o *Object) HasProperty(name string) bool {
	_, ok := o.Properties[name]
	return ok
}

func (o *Object) PropertyType(name string) (Type, bool) {
	t, ok := o.Properties[name]
	return t, ok
}

func (o *Object) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range o.Names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", name, o.Properties[name].String())
	}
	if o.IndexSig != nil {
		if len(o.Names) > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "[index: string]: %s", o.IndexSig.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o *Object) Clone() Type {
	n := NewObject()
	n.IsInterface = o.IsInterface
	for _, name := range o.Names {
		n.AddProperty(name, o.Properties[name].Clone())
	}
	if o.IndexSig != nil {
		n.IndexSig = o.IndexSig.Clone()
	}
	return n
}

// Array is covariant in its element type (spec.md §3).
type Array struct {
	Element Type
}

func (a *Array) isType()        {}
func (a *Array) String() string { return a.Element.String() + "[]" }
func (a *Array) Clone() Type    { return &Array{Element: a.Element.Clone()} }

// Function carries arity as part of its identity: params and return type.
type Function struct {
	Params []Type
	Return Type
}

func (f *Function) isType() {}
func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), f.Return.String())
}
func (f *Function) Clone() Type {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Clone()
	}
	return &Function{Params: params, Return: f.Return.Clone()}
}

// Union holds at least two distinct members in canonical (flattened,
// deduplicated) form.
type Union struct {
	Members []Type
}

func (u *Union) isType() {}
func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (u *Union) Clone() Type {
	members := make([]Type, len(u.Members))
	for i, m := range u.Members {
		members[i] = m.Clone()
	}
	return &Union{Members: members}
}

// NewUnion builds a canonical union: it flattens nested unions and removes
// structural duplicates. If only one distinct member remains, that member
// itself is returned rather than a singleton Union (spec.md §3: "|members|
// >= 2").
func NewUnion(members ...Type) Type {
	var flat []Type
	for _, m := range members {
		if u, ok := m.(*Union); ok {
			flat = append(flat, u.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	var deduped []Type
	for _, m := range flat {
		dup := false
		for _, d := range deduped {
			if Equals(m, d) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, m)
		}
	}
	if len(deduped) == 1 {
		return deduped[0]
	}
	return &Union{Members: deduped}
}

// Intersection holds at least two members in declared order.
type Intersection struct {
	Members []Type
}

func (i *Intersection) isType() {}
func (i *Intersection) String() string {
	parts := make([]string, len(i.Members))
	for idx, m := range i.Members {
		parts[idx] = m.String()
	}
	return strings.Join(parts, " & ")
}
func (i *Intersection) Clone() Type {
	members := make([]Type, len(i.Members))
	for idx, m := range i.Members {
		members[idx] = m.Clone()
	}
	return &Intersection{Members: members}
}

// GenericParam names a generic type parameter with an optional upper-bound
// constraint.
type GenericParam struct {
	Name       string
	Constraint Type // nil if unconstrained
}

func (g *GenericParam) isType()        {}
func (g *GenericParam) String() string { return g.Name }
func (g *GenericParam) Clone() Type {
	n := &GenericParam{Name: g.Name}
	if g.Constraint != nil {
		n.Constraint = g.Constraint.Clone()
	}
	return n
}

// GenericInstance is a named generic type applied to concrete arguments,
// e.g. Array<number>.
type GenericInstance struct {
	BaseName string
	Args     []Type
}

func (g *GenericInstance) isType() {}
func (g *GenericInstance) String() string {
	parts := make([]string, len(g.Args))
	for i, a := range g.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", g.BaseName, strings.Join(parts, ", "))
}
func (g *GenericInstance) Clone() Type {
	args := make([]Type, len(g.Args))
	for i, a := range g.Args {
		args[i] = a.Clone()
	}
	return &GenericInstance{BaseName: g.BaseName, Args: args}
}

// Placeholder is used only by the type registry to break reference cycles
// while resolving recursive type declarations (spec.md §3).
type Placeholder struct {
	Name string
}

func (p *Placeholder) isType()        {}
func (p *Placeholder) String() string { return p.Name }
func (p *Placeholder) Clone() Type    { return &Placeholder{Name: p.Name} }
