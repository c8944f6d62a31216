package types

// Registry resolves class/interface names to their structural Object type.
// While a declaration is being built, its name maps to a Placeholder so
// that self-referential or mutually-referential declarations (a class with
// a method returning its own type) don't recurse forever during
// resolution (spec.md §3: "Placeholder … used only by the registry to
// break cycles").
type Registry struct {
	named map[string]Type
}

// NewRegistry creates an empty registry seeded with nothing; callers
// register named types as declarations are checked.
func NewRegistry() *Registry {
	return &Registry{named: map[string]Type{}}
}

// Reserve installs a Placeholder for name so in-progress declarations can
// refer to themselves before their body is fully resolved.
func (r *Registry) Reserve(name string) {
	if _, exists := r.named[name]; !exists {
		r.named[name] = &Placeholder{Name: name}
	}
}

// Define installs the fully resolved type for name, replacing any
// placeholder.
func (r *Registry) Define(name string, t Type) {
	r.named[name] = t
}

// Lookup returns the type registered for name, or nil if none exists.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.named[name]
	return t, ok
}
