package runtime

// RefClass backs every Ref{T} instance the lifting pass allocates for a
// captured variable (spec §4.3 "lifted... captured enclosing variables
// boxed in a Ref{T}"). Its single field is read/written by ordinary
// LOAD_ATTR/STORE_ATTR, typed per T by codegen's loadAttrOp/storeAttrOp —
// not through a native call — so the only runtime piece Ref needs is the
// layout itself.
//
// The field is marked ref-counted unconditionally even though T may be a
// primitive: a primitive-tagged Cell's Obj pointer is always nil, and
// Object.IncRef/DecRef are no-ops on a nil receiver, so marking the slot
// ref-counted is harmless for primitive T and correct for ref-counted T
// alike.
var RefClass = &ClassObject{
	Name:       "ref",
	NumFields:  1,
	CellIsRef:  []bool{true},
	FieldNames: []string{"value"},
}
