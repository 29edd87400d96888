package types

// Translator is an ordered list of (from, to) substitutions over
// InstantiatedType (spec §3 TypeTranslator). It is composed while traversing
// parameterized class/function boundaries during symbol lookup and cloning.
type Translator struct {
	subs []sub
}

type sub struct {
	from *Type // a TypeParam
	to   *InstantiatedType
}

// NewTranslator returns an empty translator (the identity substitution).
func NewTranslator() *Translator { return &Translator{} }

// Bind adds (typeParam_i -> it.Params[i]) for each differing pair, per spec
// §3: it.Type's own declared TypeParams are paired positionally with it's
// instantiation arguments.
func (tr *Translator) Bind(it *InstantiatedType) {
	tr.BindParams(it.Type.TypeParams, it.Params)
}

// BindParams pairs each declared TypeParam with the corresponding
// instantiation argument; used directly when the declared list is not the
// same Type as the InstantiatedType being bound (e.g. a method's own type
// parameters against a BoundFunction's type arguments).
func (tr *Translator) BindParams(typeParams []*Type, args []*InstantiatedType) {
	for i, p := range typeParams {
		if i >= len(args) {
			break
		}
		if !p.IsTypeParam() {
			continue
		}
		if existing, ok := tr.lookup(p); ok && existing.Equals(args[i]) {
			continue
		}
		tr.subs = append(tr.subs, sub{from: p, to: args[i]})
	}
}

func (tr *Translator) lookup(from *Type) (*InstantiatedType, bool) {
	for _, s := range tr.subs {
		if s.from == from {
			return s.to, true
		}
	}
	return nil, false
}

// Translate applies substitutions to fixed point: at each pass it
// substitutes any matching leaf and rebuilds parameter lists recursively,
// repeating while any substitution fired (spec §3). Translate is idempotent
// (spec §8): Translate(Translate(t)) == Translate(t).
func (tr *Translator) Translate(it *InstantiatedType) *InstantiatedType {
	if it == nil {
		return nil
	}
	cur := it
	for {
		next, fired := tr.translateOnce(cur)
		if !fired {
			return next
		}
		cur = next
	}
}

func (tr *Translator) translateOnce(it *InstantiatedType) (*InstantiatedType, bool) {
	if replacement, ok := tr.lookup(it.Type); ok && len(it.Params) == 0 {
		return replacement, true
	}
	if len(it.Params) == 0 {
		return it, false
	}
	fired := false
	newParams := make([]*InstantiatedType, len(it.Params))
	for i, p := range it.Params {
		np, f := tr.translateOnce(p)
		newParams[i] = np
		fired = fired || f
	}
	if !fired {
		return it, false
	}
	return &InstantiatedType{Type: it.Type, Params: newParams}, true
}

// IsEmpty reports whether this translator has no substitutions (the
// identity translator some callers special-case for clarity).
func (tr *Translator) IsEmpty() bool { return len(tr.subs) == 0 }

// Compose returns a new translator that applies tr first, then other,
// matching the "composition of parameter substitutions picked up while
// crossing parameterized class boundaries" from spec §3.
func (tr *Translator) Compose(other *Translator) *Translator {
	out := &Translator{subs: append([]sub{}, tr.subs...)}
	out.subs = append(out.subs, other.subs...)
	return out
}
