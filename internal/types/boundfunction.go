package types

import "strings"

// BoundFunction pairs a function's declared name with a list of type
// arguments whose arity matches the function's type-parameter count (spec
// §3). It is the key used to look up (or create) a monomorphized instance
// during the specialization pass.
type BoundFunction struct {
	Name     string
	TypeArgs []*InstantiatedType
}

// CreateFuncName gives this binding its canonical mangled name
// `name{T1,T2,...}` (spec §3), used to name the monomorphized clone and to
// look it up afterward.
func (bf BoundFunction) CreateFuncName() string {
	if len(bf.TypeArgs) == 0 {
		return bf.Name
	}
	parts := make([]string, len(bf.TypeArgs))
	for i, t := range bf.TypeArgs {
		parts[i] = t.String()
	}
	return bf.Name + "{" + strings.Join(parts, ",") + "}"
}
