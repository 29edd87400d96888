// Package types implements the Venom type lattice: primitive, reference,
// parameterized, and module types with a total subtype relation (spec §3,
// §4.1). A Type is a named node in the lattice; an InstantiatedType applies
// concrete (or type-parameter) arguments to a Type.
package types

import "fmt"

// Type is a named node in the type lattice. It has an optional parent
// instantiated type (nil for the roots Any and Boundless and for the other
// builtins that are not placed under Any, such as Void, List and Map), an
// arity (the count of type parameters it takes), and an optional back-link
// to the class symbol that defines it (left as an opaque value to avoid an
// import cycle with package symbols; see ClassLink).
type Type struct {
	Name   string
	Parent *InstantiatedType
	Arity  int

	// ClassLink back-references the defining *symbols.ClassSymbol for
	// class-declared types. Stored as `any` to avoid a symbols<->types
	// import cycle; package symbols type-asserts it back.
	ClassLink any

	// typeParamPos marks this Type as a TypeParam when non-nil: its
	// identity is (Name, *typeParamPos), per spec §3 ("A TypeParam is a
	// Type whose identity is (name, positional index)").
	typeParamPos *int

	// TypeParams lists this Type's own declared type parameters, in
	// declaration order (len == Arity once set by the analyzer). Needed to
	// build the translator that substitutes into Parent when an
	// InstantiatedType of this Type resolves its parent instantiated type
	// (spec §3 TypeTranslator "composed while traversing parameterized
	// class boundaries").
	TypeParams []*Type
}

// NewType allocates a Type. Matches spec §4.1 createType(name, parent, arity).
func NewType(name string, parent *InstantiatedType, arity int) *Type {
	return &Type{Name: name, Parent: parent, Arity: arity}
}

// NewTypeParam allocates a TypeParam visible only inside the scope that
// introduced it; its identity is (name, pos).
func NewTypeParam(name string, pos int) *Type {
	p := pos
	return &Type{Name: name, Arity: 0, typeParamPos: &p}
}

// IsTypeParam reports whether this Type is a type-parameter placeholder.
func (t *Type) IsTypeParam() bool { return t.typeParamPos != nil }

// ParamPos returns the positional index of a TypeParam. Panics if t is not
// a TypeParam — a programmer bug per spec §7 ("Assertion failures... must
// halt the process").
func (t *Type) ParamPos() int {
	if t.typeParamPos == nil {
		panic("types: ParamPos on non-type-parameter")
	}
	return *t.typeParamPos
}

// HasParams reports whether this Type takes type parameters.
func (t *Type) HasParams() bool { return t.Arity > 0 }

// IsAny reports whether this is the root Any type (parent == nil and
// name == "any").
func (t *Type) IsAny() bool { return t.Parent == nil && t.Name == "any" }

// IsBoundless reports whether this is the Boundless bottom type.
func (t *Type) IsBoundless() bool { return t.Parent == nil && t.Name == "boundless" }

func (t *Type) String() string { return t.Name }

// Equals implements Type identity: two Types are equal iff they are the
// same allocation (spec §3/§4.1 — Type equality is not structural;
// InstantiatedType equality is).
func (t *Type) Equals(other *Type) bool { return t == other }

func (t *Type) GoString() string { return fmt.Sprintf("Type(%s)", t.Name) }
