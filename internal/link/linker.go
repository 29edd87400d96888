// Package link implements Venom's linker (spec §4.5): it takes every
// module's codegen.ObjectCode plus the designated main module and produces
// one Executable — concrete instructions, a merged constant pool, and
// resolved class/function descriptors. Jump operands in the linked code
// are absolute instruction offsets into the concatenated stream, not
// PC-relative offsets. It is the one place that
// turns the codegen's symbolic FuncRef/ClassRef indices into real offsets.
//
// Grounded on the teacher's internal/vm's chunk-concatenation step (the
// teacher links a single file's chunks into one program; Venom generalizes
// that to N modules, following spec §4.5's seven-step resolution order).
package link

import (
	"fmt"

	"github.com/funvibe/venom/internal/codegen"
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/runtime"
)

// LinkerException reports an unresolved external reference (spec §4.5 step
// 3: "Missing externals raise a LinkerException").
type LinkerException struct {
	Kind string // "function" or "class"
	Name string
}

func (e *LinkerException) Error() string {
	return fmt.Sprintf("LinkerException: unresolved external %s %q", e.Kind, e.Name)
}

// Executable is the linked program the VM runs (spec §4.5 step 7).
type Executable struct {
	Code         opcode.Instructions
	Constants    []runtime.ExecConstant
	Functions    []*runtime.FunctionDescriptor
	Classes      []*runtime.ClassObject
	MainOffset   int
	HasMain      bool
}

// funcKey/classKey name a descriptor/class-object across the whole linked
// program (spec §4.5 step 1 "fully-qualified name"): the bare name, or
// "Owner.Method" for a method (funcFQName). The key carries no module path,
// so same-named definitions in two modules share one key and the one
// registered last is what extern lookups find.
type funcKey = string
type classKey = string

// Link resolves objs (one per module) into a single Executable. mainIdx
// names which entry of objs owns the program's <main> (spec §4.5 "the index
// of the main module").
func Link(objs []*codegen.ObjectCode, mainIdx int) (*Executable, error) {
	if len(objs) == 0 {
		return nil, fmt.Errorf("link: no object codes given")
	}

	l := &linker{
		objs:        objs,
		funcsByName: map[funcKey]*runtime.FunctionDescriptor{},
		classesByName: map[classKey]*runtime.ClassObject{},
	}

	// Step 1: assign every local function a FunctionDescriptor and a global
	// instruction offset (the offset is filled in during step 6, once we
	// know each function's final position in the concatenated stream —
	// descriptors are allocated now so step 3/4 can take stable pointers to
	// them).
	l.allocateFuncDescriptors()

	// Step 2: merge in the runtime's built-in function map. A local
	// definition of the same name (unusual, but not forbidden) shadows the
	// builtin rather than the other way around.
	for name, fd := range runtime.BuiltinFunctions() {
		if _, exists := l.funcsByName[name]; !exists {
			l.funcsByName[name] = fd
			l.allFuncDescriptors = append(l.allFuncDescriptors, fd)
		}
	}

	// Step 3: resolve each object's function reference table (local entries
	// from step 1, externals from the merged map).
	if err := l.resolveFuncRefs(); err != nil {
		return nil, err
	}

	// Step 4: symmetric treatment for classes.
	l.allocateClassObjects()
	for name, co := range runtime.BuiltinClasses() {
		if _, exists := l.classesByName[name]; !exists {
			l.classesByName[name] = co
			l.allClassObjects = append(l.allClassObjects, co)
		}
	}
	if err := l.resolveClassRefs(); err != nil {
		return nil, err
	}
	l.finalizeClassLayouts()

	// Step 5: translate constant pools into ExecConstants, per-object
	// local→global index tables.
	l.translateConstants()

	// Step 6: concatenate instruction streams, rebasing each function's
	// jump targets (function-relative in codegen output) to absolute
	// offsets by adding the function's start, and resolving symbolic CALL/NEW/CONST operands to global indices.
	code := l.concatenate()

	exe := &Executable{
		Code:      code,
		Constants: l.globalConstants,
		Functions: l.allFuncDescriptors,
		Classes:   l.allClassObjects,
	}

	// Step 7: locate <main> in the designated main object.
	if mainIdx >= 0 && mainIdx < len(objs) {
		main := objs[mainIdx]
		if main.HasMainFunc && main.IsLocalFunc(main.MainFunc) {
			fd := l.localFuncDesc[mainIdx][int(main.MainFunc)]
			exe.MainOffset = fd.CodeOffset
			exe.HasMain = true
		}
	}

	return exe, nil
}
