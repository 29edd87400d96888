package link

import (
	"github.com/funvibe/venom/internal/runtime"
)

// allocateClassObjects performs spec §4.5 step 4's first half: materialize
// one ClassObject per local class, field layout and name only — parent and
// vtable are filled in by finalizeClassLayouts, once function refs (and
// thus vtable entries) are resolved.
func (l *linker) allocateClassObjects() {
	l.localClassObj = make([][]*runtime.ClassObject, len(l.objs))
	for i, obj := range l.objs {
		l.localClassObj[i] = make([]*runtime.ClassObject, len(obj.LocalClasses))
		for ci, cc := range obj.LocalClasses {
			co := &runtime.ClassObject{
				Name:       cc.Name,
				NumFields:  cc.NumFields,
				CellIsRef:  append([]bool(nil), cc.FieldIsRef...),
				FieldNames: append([]string(nil), cc.FieldNames...),
			}
			l.localClassObj[i][ci] = co
			l.classesByName[cc.Name] = co
			l.allClassObjects = append(l.allClassObjects, co)
		}
	}
}

// resolveClassRefs performs the class-pool analogue of resolveFuncRefs
// (spec §4.5 step 4 "resolve per-object class reference tables").
func (l *linker) resolveClassRefs() error {
	globalIdx := make(map[*runtime.ClassObject]int, len(l.allClassObjects))
	for idx, co := range l.allClassObjects {
		globalIdx[co] = idx
	}

	l.objClassGlobal = make([][]int, len(l.objs))
	for i, obj := range l.objs {
		n := len(obj.LocalClasses) + len(obj.ExternClasses)
		table := make([]int, n)
		for ci, co := range l.localClassObj[i] {
			table[ci] = globalIdx[co]
		}
		for ei, ext := range obj.ExternClasses {
			co, ok := l.classesByName[ext.Name]
			if !ok {
				return &LinkerException{Kind: "class", Name: ext.Name}
			}
			table[len(obj.LocalClasses)+ei] = globalIdx[co]
		}
		l.objClassGlobal[i] = table
	}
	return nil
}

// finalizeClassLayouts fills in each local ClassObject's parent pointer and
// vtable, now that objFuncGlobal/objClassGlobal are available (spec §4.5
// step 4 "vtable pointers resolved through this object's function reference
// table").
func (l *linker) finalizeClassLayouts() {
	for i, obj := range l.objs {
		for ci, cc := range obj.LocalClasses {
			co := l.localClassObj[i][ci]
			if cc.HasParent {
				co.Parent = l.allClassObjects[l.objClassGlobal[i][int(cc.Parent)]]
			}
			co.VTable = make([]*runtime.FunctionDescriptor, len(cc.VTable))
			for vi, fr := range cc.VTable {
				co.VTable[vi] = l.allFuncDescriptors[l.objFuncGlobal[i][int(fr)]]
			}
			if cc.HasCtor {
				co.Ctor = l.allFuncDescriptors[l.objFuncGlobal[i][int(cc.CtorRef)]]
				co.HasCtor = true
			}
		}
	}
}
