package types

// InstantiatedType applies a Type to N InstantiatedType arguments, where
// N == type.Arity (spec §3). It is the unit of static type comparison:
// equality is structural over (type, arguments).
type InstantiatedType struct {
	Type   *Type
	Params []*InstantiatedType
}

// Instantiate allocates an InstantiatedType. Correctness must not depend on
// pointer identity — only Equals is used (spec §4.1) — so no deduplication
// is required; each call allocates fresh.
func Instantiate(t *Type, params ...*InstantiatedType) *InstantiatedType {
	if len(params) != t.Arity {
		panic("types: wrong number of type parameters for " + t.Name)
	}
	return &InstantiatedType{Type: t, Params: params}
}

// IsFullyInstantiated reports whether no TypeParam appears anywhere in this
// type's tree (spec §3).
func (it *InstantiatedType) IsFullyInstantiated() bool {
	if it.Type.IsTypeParam() {
		return false
	}
	for _, p := range it.Params {
		if !p.IsFullyInstantiated() {
			return false
		}
	}
	return true
}

// Equals is structural over (type, arguments) — spec §3.
func (it *InstantiatedType) Equals(other *InstantiatedType) bool {
	if it == nil || other == nil {
		return it == other
	}
	if !it.Type.Equals(other.Type) {
		return false
	}
	if len(it.Params) != len(other.Params) {
		return false
	}
	for i := range it.Params {
		if !it.Params[i].Equals(other.Params[i]) {
			return false
		}
	}
	return true
}

// ParentInstantiatedType resolves this type's immediate parent, substituting
// this instantiation's parameters into the parent's (possibly
// parameter-shaped) parent pointer.
func (it *InstantiatedType) ParentInstantiatedType() *InstantiatedType {
	if it.Type.Parent == nil {
		return nil
	}
	if len(it.Params) == 0 {
		return it.Type.Parent
	}
	tr := NewTranslator()
	tr.Bind(it)
	return tr.Translate(it.Type.Parent)
}

// IsSubtypeOf implements spec §3's subtype rule:
//   - Boundless is a subtype of every type;
//   - Any is a supertype of every value-carrying type;
//   - numeric widening (Int <: Float) is NOT allowed — only identity or the
//     nominal parent chain;
//   - type parameters must match invariantly (no variance): once the head
//     types agree, every parameter pair must satisfy Equals, not a nested
//     subtype check.
func (it *InstantiatedType) IsSubtypeOf(other *InstantiatedType) bool {
	if it.Equals(other) {
		return true
	}
	if it.Type.IsBoundless() {
		return true
	}
	if other.Type.IsAny() {
		return true
	}
	cur := it
	for cur != nil {
		if cur.Type.Equals(other.Type) {
			if len(cur.Params) != len(other.Params) {
				return false
			}
			for i := range cur.Params {
				if !cur.Params[i].Equals(other.Params[i]) {
					return false
				}
			}
			return true
		}
		cur = cur.ParentInstantiatedType()
	}
	return false
}

// MostCommonType walks both parent chains and returns the deepest common
// ancestor (spec §4.1). Commutative and reflexive (spec §8).
func (it *InstantiatedType) MostCommonType(other *InstantiatedType) *InstantiatedType {
	if it.Equals(other) {
		return it
	}
	ancestors := map[*Type]*InstantiatedType{}
	for cur := it; cur != nil; cur = cur.ParentInstantiatedType() {
		ancestors[cur.Type] = cur
	}
	for cur := other; cur != nil; cur = cur.ParentInstantiatedType() {
		if match, ok := ancestors[cur.Type]; ok {
			_ = match
			return cur
		}
	}
	return AnyType
}

func (it *InstantiatedType) String() string {
	if len(it.Params) == 0 {
		return it.Type.Name
	}
	s := it.Type.Name + "{"
	for i, p := range it.Params {
		if i > 0 {
			s += ","
		}
		s += p.String()
	}
	return s + "}"
}

// Convenience predicates mirroring spec §3.
func (it *InstantiatedType) IsInt() bool    { return it.Type == IntType.Type }
func (it *InstantiatedType) IsFloat() bool  { return it.Type == FloatType.Type }
func (it *InstantiatedType) IsBool() bool   { return it.Type == BoolType.Type }
func (it *InstantiatedType) IsString() bool { return it.Type == StringType.Type }
func (it *InstantiatedType) IsVoid() bool   { return it.Type == VoidType.Type }
func (it *InstantiatedType) IsAny() bool    { return it.Type.IsAny() }

func (it *InstantiatedType) IsNumeric() bool   { return it.IsInt() || it.IsFloat() }
func (it *InstantiatedType) IsPrimitive() bool { return it.IsNumeric() || it.IsBool() }
func (it *InstantiatedType) IsRefCounted() bool {
	return !it.IsPrimitive() && !it.IsVoid()
}

func (it *InstantiatedType) IsListType() bool  { return it.Type == ListTypeCtor }
func (it *InstantiatedType) IsMapType() bool   { return it.Type == MapTypeCtor }
func (it *InstantiatedType) IsRefType() bool   { return it.Type == RefType }
func (it *InstantiatedType) IsClassType() bool { return it.Type == ClassTypeBuiltin.Type }
func (it *InstantiatedType) IsModuleType() bool {
	return it.Type == ModuleType.Type
}

// IsVisible reports whether this type is visible to the program — a hidden
// (module) type cannot be assigned as a value (spec §4.2 Assignment; §7
// "access to hidden (module) type").
func (it *InstantiatedType) IsVisible() bool { return !it.IsModuleType() }

// Refify wraps this type in Ref{T}, used by the lifting pass when
// ref-promoting a captured variable (spec §4.3 lifting contract).
func (it *InstantiatedType) Refify() *InstantiatedType {
	return Instantiate(RefType, it)
}
