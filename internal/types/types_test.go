package types

import "testing"

func TestAssignable_PrimitivesAndAny(t *testing.T) {
	tests := []struct {
		name     string
		src, tgt Type
		want     bool
	}{
		{"number to number", Number, Number, true},
		{"number to string", Number, String, false},
		{"anything to any", String, Any, true},
		{"any to anything", Any, Number, true},
		{"never to anything", Never, String, true},
		{"string to never", String, Never, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assignable(tt.src, tt.tgt); got != tt.want {
				t.Errorf("Assignable(%s, %s) = %v, want %v", tt.src, tt.tgt, got, tt.want)
			}
		})
	}
}

func TestAssignable_ObjectStructural(t *testing.T) {
	wide := NewObject()
	wide.AddProperty("x", Number)
	wide.AddProperty("y", Number)

	narrow := NewObject()
	narrow.AddProperty("x", Number)

	if !Assignable(wide, narrow) {
		t.Error("a wider object should be assignable to a narrower required shape")
	}
	if Assignable(narrow, wide) {
		t.Error("a narrower object must not be assignable to a wider required shape")
	}
}

func TestAssignable_ArrayCovariance(t *testing.T) {
	numArr := &Array{Element: Number}
	anyArr := &Array{Element: Any}
	if !Assignable(numArr, anyArr) {
		t.Error("number[] should be assignable to any[]")
	}
}

func TestAssignable_FunctionContravariance(t *testing.T) {
	// number is neither a subtype nor supertype of string, so contravariant
	// parameter checking must reject both directions.
	takesNumber := &Function{Params: []Type{Number}, Return: Number}
	takesString := &Function{Params: []Type{String}, Return: Number}

	if Assignable(takesNumber, takesString) {
		t.Error("(number)=>number should not be assignable to (string)=>number")
	}
	if Assignable(takesString, takesNumber) {
		t.Error("(string)=>number should not be assignable to (number)=>number")
	}

	// A narrower return type is covariant: a function promising a string
	// return is usable wherever any return is expected.
	returnsString := &Function{Params: []Type{Number}, Return: String}
	returnsAny := &Function{Params: []Type{Number}, Return: Any}
	if !Assignable(returnsString, returnsAny) {
		t.Error("(number)=>string should be assignable to (number)=>any via covariant return")
	}
}

func TestAssignable_Union(t *testing.T) {
	u := NewUnion(Number, String)
	if !Assignable(Number, u) {
		t.Error("number should be assignable to number|string")
	}
	if Assignable(u, Number) {
		t.Error("number|string should not be assignable to number")
	}
}

func TestNewUnion_FlattensAndDedupes(t *testing.T) {
	u := NewUnion(NewUnion(Number, String), Number, Boolean)
	union, ok := u.(*Union)
	if !ok {
		t.Fatalf("expected *Union, got %T", u)
	}
	if len(union.Members) != 3 {
		t.Errorf("got %d members, want 3: %s", len(union.Members), union)
	}
}

func TestNewUnion_SingletonCollapses(t *testing.T) {
	u := NewUnion(Number, Number)
	if _, ok := u.(*Union); ok {
		t.Errorf("singleton union should collapse to its member, got %s", u)
	}
}

func TestAssignable_ReflexiveAndTransitive(t *testing.T) {
	// Testable property 7: Assignable is reflexive on the lattice.
	samples := []Type{
		Number, String, Boolean, Any, Never, Unknown,
		&Array{Element: Number},
		&Function{Params: []Type{Number}, Return: String},
	}
	for _, s := range samples {
		if !Assignable(s, s) {
			t.Errorf("Assignable(%s, %s) should be reflexive-true", s, s)
		}
	}
}

func TestEquals_ImpliesMutualAssignability(t *testing.T) {
	// Testable property 8.
	a := NewObject()
	a.AddProperty("x", Number)
	b := NewObject()
	b.AddProperty("x", Number)

	if !Equals(a, b) {
		t.Fatal("expected structurally identical objects to be equal")
	}
	if !Assignable(a, b) || !Assignable(b, a) {
		t.Error("equals(a,b) must imply assignable(a,b) and assignable(b,a)")
	}
}

func TestEquals_UnionMultisetEquality(t *testing.T) {
	a := NewUnion(Number, String)
	b := NewUnion(String, Number)
	if !Equals(a, b) {
		t.Error("unions with the same members in different order should be equal")
	}
}

func TestClone_ProducesIndependentCopy(t *testing.T) {
	orig := NewObject()
	orig.AddProperty("x", Number)

	clone := orig.Clone().(*Object)
	clone.AddProperty("y", String)

	if orig.HasProperty("y") {
		t.Error("mutating a clone must not affect the original")
	}
}

func TestGenericInstance_InvariantArgs(t *testing.T) {
	a := &GenericInstance{BaseName: "Box", Args: []Type{Number}}
	b := &GenericInstance{BaseName: "Box", Args: []Type{Any}}
	if Assignable(a, b) {
		t.Error("generic instance arguments are compared invariantly, Box<number> should not assign to Box<any>")
	}
}
