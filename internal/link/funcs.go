package link

import (
	"github.com/funvibe/venom/internal/codegen"
	"github.com/funvibe/venom/internal/runtime"
)

type linker struct {
	objs []*codegen.ObjectCode

	funcsByName   map[funcKey]*runtime.FunctionDescriptor
	classesByName map[classKey]*runtime.ClassObject

	// objFuncGlobal[i][r] is the allFuncDescriptors index a codegen.FuncRef r
	// (local or extern, combined namespace) resolves to within object i.
	objFuncGlobal [][]int
	// objClassGlobal is the class-pool analogue.
	objClassGlobal [][]int
	// objConstGlobal[i][k] is the globalConstants index object i's local
	// constant k resolves to.
	objConstGlobal [][]int

	// localFuncDesc[i][li] is the descriptor allocated for object i's
	// LocalFuncs[li] (step 1, before step 3 fills in objFuncGlobal for
	// externs too).
	localFuncDesc  [][]*runtime.FunctionDescriptor
	localClassObj  [][]*runtime.ClassObject

	allFuncDescriptors []*runtime.FunctionDescriptor
	allClassObjects    []*runtime.ClassObject

	globalConstants []runtime.ExecConstant
}

// funcFQName is the name a function/method is resolved by across the whole
// linked program (spec §4.5 step 1 "fully-qualified name"). Venom's codegen
// already encodes method names as "Owner.Method" in its extern table
// (codegen.funcSymbolName); local descriptors are keyed identically here so
// the two agree without the object also carrying its module path — a
// simplification of spec's module-qualified scheme, since
// codegen.ExternFunc never records the declaring module.
func funcFQName(ownerClass, name string) string {
	if ownerClass == "" {
		return name
	}
	return ownerClass + "." + name
}

// allocateFuncDescriptors performs spec §4.5 step 1: every local function in
// every object gets a FunctionDescriptor, keyed by its program-wide name.
func (l *linker) allocateFuncDescriptors() {
	l.localFuncDesc = make([][]*runtime.FunctionDescriptor, len(l.objs))

	for i, obj := range l.objs {
		l.localFuncDesc[i] = make([]*runtime.FunctionDescriptor, len(obj.LocalFuncs))
		for li, fc := range obj.LocalFuncs {
			owner := ""
			if fc.HasOwner {
				owner = obj.LocalClasses[fc.OwnerClass].Name
			}
			name := funcFQName(owner, fc.Name)

			fd := &runtime.FunctionDescriptor{
				Name:      name,
				NumParams: fc.NumParams,
				Native:    fc.IsNative,
				NumLocals: fc.NumLocals,
			}
			if fc.NumParams <= len(fc.LocalIsRef) {
				fd.ParamIsRef = append([]bool(nil), fc.LocalIsRef[:fc.NumParams]...)
			}
			fd.LocalIsRef = append([]bool(nil), fc.LocalIsRef...)
			if fc.IsNative {
				fd.NativeFunc = runtime.LookupNative(fc.NativeName)
			}

			l.localFuncDesc[i][li] = fd
			l.funcsByName[name] = fd
			l.allFuncDescriptors = append(l.allFuncDescriptors, fd)
		}
	}
}

// resolveFuncRefs performs spec §4.5 step 3: builds, per object, a table
// from the object's combined FuncRef namespace to a global descriptor
// index, resolving externs by name against the merged function map.
func (l *linker) resolveFuncRefs() error {
	// globalIdx memoizes descriptor identity -> position in
	// allFuncDescriptors, so per-object lookups below are O(1).
	globalIdx := make(map[*runtime.FunctionDescriptor]int, len(l.allFuncDescriptors))
	for idx, fd := range l.allFuncDescriptors {
		globalIdx[fd] = idx
	}

	l.objFuncGlobal = make([][]int, len(l.objs))
	for i, obj := range l.objs {
		n := len(obj.LocalFuncs) + len(obj.ExternFuncs)
		table := make([]int, n)
		for li, fd := range l.localFuncDesc[i] {
			table[li] = globalIdx[fd]
		}
		for ei, ext := range obj.ExternFuncs {
			fd, ok := l.funcsByName[ext.Name]
			if !ok {
				return &LinkerException{Kind: "function", Name: ext.Name}
			}
			table[len(obj.LocalFuncs)+ei] = globalIdx[fd]
		}
		l.objFuncGlobal[i] = table
	}
	return nil
}
