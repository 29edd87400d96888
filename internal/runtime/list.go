package runtime

// listStorage is the Go-level backing store for a `list{T}` instance,
// stashed in Object.Native (spec's runtime contract: "list... as the only
// built-in library implementations in scope"). Index bounds are enforced
// by the native functions below, not by the VM.
type listStorage struct {
	Elems []Cell
}

func listCtor(args []Cell) (Cell, error) {
	self := args[0].Obj
	self.Native = &listStorage{}
	return NullCell(), nil
}

func listElems(self *Object) *listStorage {
	return self.Native.(*listStorage)
}

// listGet implements `list.get` (self, index) -> element (spec §4.6 index
// access lowers to a CALL_NATIVE against this registry key,
// codegen.nativeIndexName).
func listGet(args []Cell) (Cell, error) {
	ls := listElems(args[0].Obj)
	i := args[1].Int
	if i < 0 || i >= int64(len(ls.Elems)) {
		return Cell{}, Errorf("list index %d out of range (len %d)", i, len(ls.Elems))
	}
	elem := ls.Elems[i]
	elem.Obj.IncRef()
	return elem, nil
}

// listSet implements `list.set` (self, index, value) -> void. The
// overwritten cell is released and the new one retained, since the VM
// hands the native call a borrowed argument reference that does not
// outlive the call unless the native keeps it explicitly (spec §4.6
// "Native calls").
func listSet(args []Cell) (Cell, error) {
	ls := listElems(args[0].Obj)
	i := args[1].Int
	if i < 0 || i >= int64(len(ls.Elems)) {
		return Cell{}, Errorf("list index %d out of range (len %d)", i, len(ls.Elems))
	}
	old := ls.Elems[i]
	args[2].Obj.IncRef()
	ls.Elems[i] = args[2]
	old.Obj.DecRef()
	return NullCell(), nil
}

// listAppend implements `list.append` (self, value) -> void, the mutator
// rewrite.DeSugar emits for every element of an array literal (spec
// §4.3(a)).
func listAppend(args []Cell) (Cell, error) {
	ls := listElems(args[0].Obj)
	args[1].Obj.IncRef()
	ls.Elems = append(ls.Elems, args[1])
	return NullCell(), nil
}

// listLen implements `list.len` (self) -> int.
func listLen(args []Cell) (Cell, error) {
	ls := listElems(args[0].Obj)
	return IntCell(int64(len(ls.Elems))), nil
}

// ListClass is the shared ClassObject every `list{T}` instantiation links
// against (spec's runtime contract keeps one concrete representation
// regardless of T, since element cells already carry their own tag).
var ListClass = &ClassObject{
	Name:      "list",
	NumFields: 0,
	Native:    NativeList,
	HasCtor:   true,
	Ctor:      &FunctionDescriptor{Name: "list.<ctor>", Native: true, NativeFunc: listCtor, NumParams: 1, ParamIsRef: []bool{true}},
}

func listNativeFuncs() map[string]*FunctionDescriptor {
	return map[string]*FunctionDescriptor{
		"list.get":    {Name: "list.get", Native: true, NativeFunc: listGet, NumParams: 2, ParamIsRef: []bool{true, false}, OwnerClass: ListClass},
		"list.set":    {Name: "list.set", Native: true, NativeFunc: listSet, NumParams: 3, ParamIsRef: []bool{true, false, true}, OwnerClass: ListClass},
		"list.append": {Name: "list.append", Native: true, NativeFunc: listAppend, NumParams: 2, ParamIsRef: []bool{true, true}, OwnerClass: ListClass},
		"list.len":    {Name: "list.len", Native: true, NativeFunc: listLen, NumParams: 1, ParamIsRef: []bool{true}, OwnerClass: ListClass},
	}
}
