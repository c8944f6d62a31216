package checker

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/token"
	"github.com/tsxscript/tsx/internal/types"
)

// Checker walks a Program maintaining lexical scopes, a named-type
// registry, and an append-only diagnostic list — "the existence of any
// error is the observable failure signal for the whole pipeline"
// (spec.md §4.A).
type Checker struct {
	registry *types.Registry
	diags    diag.Bag
	cur      *scope

	// typeParams is a stack of generic-parameter-name sets visible while
	// resolving annotations inside a generic function/class/interface body,
	// so `T` in `function id<T>(x: T): T` resolves to a GenericParam rather
	// than an unresolved name error.
	typeParams []map[string]*types.GenericParam

	// loopDepth lets checkStmt reject a `break`/`continue` outside any
	// enclosing loop, mirroring spec.md §9's supplemented While/For.
	loopDepth int
}

// New creates a Checker with an empty global scope and type registry.
func New() *Checker {
	c := &Checker{registry: types.NewRegistry()}
	c.cur = newScope(nil)
	return c
}

// CheckProgram type-checks every top-level statement and returns the
// collected diagnostics (empty slice, not nil, on success).
func (c *Checker) CheckProgram(prog *ast.Program) []*diag.Diagnostic {
	for _, stmt := range prog.Statements {
		c.checkStmt(stmt)
	}
	return c.diags.Items()
}

// HasErrors reports whether checking produced at least one error-severity
// diagnostic; compilation refuses to proceed when true (spec.md §4.A).
func (c *Checker) HasErrors() bool { return c.diags.HasErrors() }

// Diagnostics returns every diagnostic accumulated on this Checker so far,
// across every CheckProgram call it has ever made. A caller that drives a
// Checker across several independent programs (the REPL, per spec.md §6)
// can snapshot the length before each call and slice off the suffix to find
// just that call's new diagnostics.
func (c *Checker) Diagnostics() []*diag.Diagnostic { return c.diags.Items() }

func (c *Checker) errorAt(kind diag.Kind, pos token.Position, format string, args ...any) {
	c.diags.Add(diag.Newf(kind, pos, format, args...))
}

func (c *Checker) pushScope() { c.cur = newScope(c.cur) }
func (c *Checker) popScope()  { c.cur = c.cur.parent }

func (c *Checker) pushTypeParams(names []string) {
	m := map[string]*types.GenericParam{}
	for _, n := range names {
		m[n] = &types.GenericParam{Name: n}
	}
	c.typeParams = append(c.typeParams, m)
}

func (c *Checker) popTypeParams() {
	c.typeParams = c.typeParams[:len(c.typeParams)-1]
}

func (c *Checker) lookupTypeParam(name string) (*types.GenericParam, bool) {
	for i := len(c.typeParams) - 1; i >= 0; i-- {
		if p, ok := c.typeParams[i][name]; ok {
			return p, true
		}
	}
	return nil, false
}

var primitiveByName = map[string]*types.Primitive{
	"number": types.Number, "string": types.String, "boolean": types.Boolean,
	"null": types.Null, "undefined": types.Undefined, "any": types.Any,
	"never": types.Never, "unknown": types.Unknown, "void": types.Undefined,
}

// resolveType converts a syntactic TypeExpr (as the parser produced it)
// into a semantic types.Type, per spec.md §4.C/§4.F. An unresolved named
// type falls back to Any with a Generic diagnostic rather than aborting
// the rest of the checking pass.
func (c *Checker) resolveType(te ast.TypeExpr) types.Type {
	if te == nil {
		return types.Any
	}
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		if len(t.TypeArgs) == 0 {
			if prim, ok := primitiveByName[t.Name]; ok {
				return prim
			}
			if gp, ok := c.lookupTypeParam(t.Name); ok {
				return gp
			}
			if named, ok := c.registry.Lookup(t.Name); ok {
				return named
			}
			c.errorAt(diag.KindGeneric, t.Pos(), "unknown type %q", t.Name)
			return types.Any
		}
		args := make([]types.Type, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = c.resolveType(a)
		}
		return &types.GenericInstance{BaseName: t.Name, Args: args}

	case *ast.ArrayTypeExpr:
		return &types.Array{Element: c.resolveType(t.Element)}

	case *ast.TupleTypeExpr:
		// This subset has no dedicated tuple lattice variant (spec.md §3);
		// a tuple annotation resolves to an Array of the members' common
		// supertype, matching how an array literal's element type is
		// inferred in §4.F.
		if len(t.Elements) == 0 {
			return &types.Array{Element: types.Any}
		}
		elem := c.resolveType(t.Elements[0])
		for _, e := range t.Elements[1:] {
			elem = combine(elem, c.resolveType(e))
		}
		return &types.Array{Element: elem}

	case *ast.ObjectTypeExpr:
		obj := types.NewObject()
		for _, m := range t.Members {
			obj.AddProperty(m.Name, c.resolveType(m.Type))
		}
		if t.IndexSig != nil {
			obj.IndexSig = c.resolveType(t.IndexSig)
		}
		return obj

	case *ast.FunctionTypeExpr:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveType(p)
		}
		return &types.Function{Params: params, Return: c.resolveType(t.Return)}

	case *ast.UnionTypeExpr:
		members := make([]types.Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.resolveType(m)
		}
		return types.NewUnion(members...)

	case *ast.IntersectionTypeExpr:
		members := make([]types.Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.resolveType(m)
		}
		return &types.Intersection{Members: members}
	}
	return types.Any
}

// combine returns the common supertype of a and b for the array-literal /
// tuple inference rule of spec.md §4.F: "the element type is the type of
// the first element if all subsequent elements are pair-wise assignable in
// either direction, otherwise Any".
func combine(a, b types.Type) types.Type {
	if types.Assignable(b, a) {
		return a
	}
	if types.Assignable(a, b) {
		return b
	}
	return types.Any
}
