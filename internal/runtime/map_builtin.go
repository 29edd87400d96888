package runtime

// mapStorage is the Go-level backing store for a `map{K,V}` instance
// (spec's runtime contract). Cell is a plain comparable struct so it can
// be used directly as a Go map key; key equality is therefore reference
// identity for ref-typed keys, matching OP_EQ_REF's own semantics
// (codegen.binopOpcode) rather than deep content equality.
type mapStorage struct {
	Entries map[Cell]Cell
}

func mapCtor(args []Cell) (Cell, error) {
	self := args[0].Obj
	self.Native = &mapStorage{Entries: map[Cell]Cell{}}
	return NullCell(), nil
}

func mapEntries(self *Object) *mapStorage {
	return self.Native.(*mapStorage)
}

// mapGet implements `map.get` (self, key) -> value.
func mapGet(args []Cell) (Cell, error) {
	ms := mapEntries(args[0].Obj)
	v, ok := ms.Entries[args[1]]
	if !ok {
		return Cell{}, Errorf("key not present in map")
	}
	v.Obj.IncRef()
	return v, nil
}

// mapSet/mapPut both implement the same store-by-key operation; `put` is
// the mutator name rewrite.DeSugar emits for dict-literal entries (spec
// §4.3(a)), `set` is the general-purpose subscript-assignment name
// (codegen.nativeIndexName), kept distinct since dict literals never go
// through ArrayAccess desugaring.
func mapPut(args []Cell) (Cell, error) {
	ms := mapEntries(args[0].Obj)
	key := args[1]
	val := args[2]
	key.Obj.IncRef()
	val.Obj.IncRef()
	if old, existed := ms.Entries[key]; existed {
		old.Obj.DecRef()
	}
	ms.Entries[key] = val
	return NullCell(), nil
}

func mapLen(args []Cell) (Cell, error) {
	ms := mapEntries(args[0].Obj)
	return IntCell(int64(len(ms.Entries))), nil
}

// MapClass is the shared ClassObject every `map{K,V}` instantiation links
// against.
var MapClass = &ClassObject{
	Name:      "map",
	NumFields: 0,
	Native:    NativeMap,
	HasCtor:   true,
	Ctor:      &FunctionDescriptor{Name: "map.<ctor>", Native: true, NativeFunc: mapCtor, NumParams: 1, ParamIsRef: []bool{true}},
}

// ParamIsRef marks the key/value slots ref-true unconditionally: a
// primitive-tagged Cell's Obj is always nil, so the VM's post-call decRef
// walk is a harmless no-op when K or V happens to be a primitive (same
// reasoning as RefClass.CellIsRef).
func mapNativeFuncs() map[string]*FunctionDescriptor {
	return map[string]*FunctionDescriptor{
		"map.get": {Name: "map.get", Native: true, NativeFunc: mapGet, NumParams: 2, ParamIsRef: []bool{true, true}, OwnerClass: MapClass},
		"map.set": {Name: "map.set", Native: true, NativeFunc: mapPut, NumParams: 3, ParamIsRef: []bool{true, true, true}, OwnerClass: MapClass},
		"map.put": {Name: "map.put", Native: true, NativeFunc: mapPut, NumParams: 3, ParamIsRef: []bool{true, true, true}, OwnerClass: MapClass},
		"map.len": {Name: "map.len", Native: true, NativeFunc: mapLen, NumParams: 1, ParamIsRef: []bool{true}, OwnerClass: MapClass},
	}
}
