package types

// Assignable reports whether src ≤ tgt under the lattice rules of spec.md
// §3: Any is top in both directions, Never is bottom, Object is
// width-and-depth structural, Array is covariant, Function is contravariant
// in parameters and covariant in return, Union/Intersection distribute as
// documented. It is grounded on atom/script/types/types.h's
// isAssignableTo, generalized from that file's per-class virtual methods
// into a single recursive function operating over the closed Type sum.
func Assignable(src, tgt Type) bool {
	if tgt == nil || src == nil {
		return false
	}

	if tp, ok := tgt.(*Primitive); ok && tp.Kind == KindAny {
		return true
	}
	if sp, ok := src.(*Primitive); ok && sp.Kind == KindNever {
		return true
	}
	if sp, ok := src.(*Primitive); ok && sp.Kind == KindAny {
		return true
	}

	if su, ok := src.(*Union); ok {
		for _, m := range su.Members {
			if !Assignable(m, tgt) {
				return false
			}
		}
		return true
	}
	if tu, ok := tgt.(*Union); ok {
		for _, m := range tu.Members {
			if Assignable(src, m) {
				return true
			}
		}
		return false
	}

	if si, ok := src.(*Intersection); ok {
		for _, m := range si.Members {
			if Assignable(m, tgt) {
				return true
			}
		}
		return false
	}
	if ti, ok := tgt.(*Intersection); ok {
		for _, m := range ti.Members {
			if !Assignable(src, m) {
				return false
			}
		}
		return true
	}

	switch t := tgt.(type) {
	case *Primitive:
		sp, ok := src.(*Primitive)
		return ok && sp.Kind == t.Kind

	case *Object:
		so, ok := src.(*Object)
		if !ok {
			return false
		}
		for name, propType := range t.Properties {
			srcProp, exists := so.Properties[name]
			if !exists || !Assignable(srcProp, propType) {
				return false
			}
		}
		return true

	case *Array:
		sa, ok := src.(*Array)
		return ok && Assignable(sa.Element, t.Element)

	case *Function:
		sf, ok := src.(*Function)
		if !ok || len(sf.Params) != len(t.Params) {
			return false
		}
		// Contravariant in parameters: target's parameter must be
		// assignable to source's (callers pass target-compatible args to
		// something expecting source's narrower parameter).
		for i := range t.Params {
			if !Assignable(t.Params[i], sf.Params[i]) {
				return false
			}
		}
		return Assignable(sf.Return, t.Return)

	case *GenericInstance:
		sg, ok := src.(*GenericInstance)
		if !ok || sg.BaseName != t.BaseName || len(sg.Args) != len(t.Args) {
			return false
		}
		for i := range t.Args {
			// Invariant in this subset (spec.md §4.F: "arguments are
			// compared invariantly").
			if !Equals(sg.Args[i], t.Args[i]) {
				return false
			}
		}
		return true

	case *GenericParam:
		sp, ok := src.(*GenericParam)
		if ok && sp.Name == t.Name {
			return true
		}
		if t.Constraint != nil {
			return Assignable(src, t.Constraint)
		}
		return false

	case *Placeholder:
		sp, ok := src.(*Placeholder)
		return ok && sp.Name == t.Name
	}

	return false
}

// Equals is structural recursion over variant tags, with Union/Intersection
// equality treated as multiset-equality (spec.md §4.C).
func Equals(a, b Type) bool {
	switch x := a.(type) {
	case *Primitive:
		y, ok := b.(*Primitive)
		return ok && x.Kind == y.Kind

	case *Object:
		y, ok := b.(*Object)
		if !ok || len(x.Properties) != len(y.Properties) || x.IsInterface != y.IsInterface {
			return false
		}
		for name, t := range x.Properties {
			ot, exists := y.Properties[name]
			if !exists || !Equals(t, ot) {
				return false
			}
		}
		if (x.IndexSig == nil) != (y.IndexSig == nil) {
			return false
		}
		if x.IndexSig != nil && !Equals(x.IndexSig, y.IndexSig) {
			return false
		}
		return true

	case *Array:
		y, ok := b.(*Array)
		return ok && Equals(x.Element, y.Element)

	case *Function:
		y, ok := b.(*Function)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equals(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Equals(x.Return, y.Return)

	case *Union:
		y, ok := b.(*Union)
		return ok && multisetEqual(x.Members, y.Members)

	case *Intersection:
		y, ok := b.(*Intersection)
		return ok && multisetEqual(x.Members, y.Members)

	case *GenericParam:
		y, ok := b.(*GenericParam)
		return ok && x.Name == y.Name

	case *GenericInstance:
		y, ok := b.(*GenericInstance)
		if !ok || x.BaseName != y.BaseName || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equals(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true

	case *Placeholder:
		y, ok := b.(*Placeholder)
		return ok && x.Name == y.Name
	}
	return false
}

// multisetEqual reports whether two type slices contain the same types with
// the same multiplicities, ignoring order.
func multisetEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if used[j] {
				continue
			}
			if Equals(x, y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
