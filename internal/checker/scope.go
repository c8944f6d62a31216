// Package checker implements the static type checker of spec.md §4.F: a
// stack of lexical scopes carrying symbol types and a narrowing overlay,
// AST traversal that infers and verifies expression/statement types, and
// control-flow-sensitive type-guard narrowing inside `if` conditions. It is
// grounded on github.com/cwbudde/go-dws's internal/semantic package, whose
// SymbolTable is a parent-linked chain of per-scope maps walked outward on
// lookup (internal/semantic/symbol_table.go) — this package follows that
// same shape, generalized from go-dws's value/const/overload bookkeeping to
// this subset's narrowing map.
package checker

import "github.com/tsxscript/tsx/internal/types"

// scope is one lexical binding frame: a parent-linked map of declared
// symbol types, plus an overlay of narrowed types that shadows the
// declared type for the scope's lifetime (spec.md §4.F: "Narrowings are
// scoped: on exiting the then-branch scope the original binding is
// restored by scope pop").
type scope struct {
	parent   *scope
	symbols  map[string]types.Type
	narrowed map[string]types.Type
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, symbols: map[string]types.Type{}}
}

// define binds name in this scope, shadowing any outer binding.
func (s *scope) define(name string, t types.Type) {
	s.symbols[name] = t
}

// declaredHere reports whether name was bound directly in this scope
// (used to detect same-scope redeclaration).
func (s *scope) declaredHere(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

// narrow overlays name with a refined type, visible only within this scope.
func (s *scope) narrow(name string, t types.Type) {
	if s.narrowed == nil {
		s.narrowed = map[string]types.Type{}
	}
	s.narrowed[name] = t
}

// lookup walks outward through the scope chain, preferring a narrowed
// overlay over the declared type at whichever scope first binds name.
func (s *scope) lookup(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.narrowed != nil {
			if t, ok := cur.narrowed[name]; ok {
				return t, true
			}
		}
		if t, ok := cur.symbols[name]; ok {
			return t, true
		}
	}
	return nil, false
}
