// Package codegen implements Venom's symbolic code generator (spec §4.4):
// it walks a rewritten *ast.ModuleRoot (post rewrite.Run) and produces an
// ObjectCode — per-function instruction streams plus the five interned
// pools (constants, local/external classes, local/external functions,
// per-function locals) the spec calls for. ObjectCode carries everything
// the linker (package link) needs to resolve call targets and concatenate
// instruction streams into one Executable.
//
// Grounded on the teacher's internal/vm/chunk.go + compiler.go split (a
// Chunk of raw bytes plus a constants slice, built up by a Compiler that
// tracks locals/upvalues) — Venom has no upvalues (closures are already
// lowered to explicit Ref{T} parameters by rewrite.Lift before codegen
// ever runs) so the compiler-side bookkeeping is correspondingly simpler.
package codegen

import (
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/symbols"
)

// ConstKind discriminates the constant pool's union (spec §4.4 "constant
// pool").
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstString
)

// Constant is one constant-pool entry. Deduplicated by (Kind, value) within
// a single ObjectCode (spec §4.4 "interned... identical literals share a
// slot").
type Constant struct {
	Kind   ConstKind
	Int    int64
	Float  float64
	Bool   bool
	String string
}

// FuncRef is an index into the combined [LocalFuncs, ExternFuncs] function
// namespace a single ObjectCode works in: indices below len(LocalFuncs) name
// a LocalFuncs entry, the rest name an ExternFuncs entry (spec §4.4 "local
// function pool + external ref table"). CALL_STATIC/CALL_VIRTUAL/CALL_NATIVE
// operands are encoded in this namespace; the linker (package link)
// resolves external entries to real FunctionDescriptors (spec §4.5 step 3).
type FuncRef int

// ClassRef is the class-pool analogue of FuncRef (spec §4.5 step 4).
type ClassRef int

// ExternFunc names a function this object code calls but does not define —
// resolved by the linker against the whole linked program's exported
// function names (spec §4.5 step 3, LinkerException on miss).
type ExternFunc struct {
	Name string
}

// ExternClass is the class-pool analogue of ExternFunc.
type ExternClass struct {
	Name string
}

// FuncCode is one function or method's compiled body: its instruction
// stream (jumps already resolved to in-function relative/absolute offsets,
// spec §4.4 "Labels are bound to instruction positions when created"), its
// local-variable count, and which locals are ref-typed (so the VM's frame
// setup can initialize locals_ref_info, spec §4.6).
type FuncCode struct {
	Name        string
	Symbol      any // *symbols.FuncSymbol or *symbols.MethodSymbol
	Code        opcode.Instructions
	NumParams   int
	NumLocals   int
	LocalIsRef  []bool // len == NumLocals
	IsCtor      bool
	IsNative    bool
	NativeName  string // registry key, set when IsNative
	OwnerClass  ClassRef
	HasOwner    bool
}

// ClassCode is one class's compiled layout: its linearized field list
// (inherited fields first, spec GLOSSARY "Linearized order"), its vtable
// (FuncRef per slot), and its parent (ClassRef, external if the parent is
// defined elsewhere; HasParent is false when the parent is the builtin
// Object).
type ClassCode struct {
	Name         string
	Symbol       *symbols.ClassSymbol
	Parent       ClassRef
	HasParent    bool
	NumFields    int
	FieldIsRef   []bool
	FieldNames   []string
	VTable       []FuncRef
	CtorRef      FuncRef
	HasCtor      bool
}

// ObjectCode is one module's compiled output (spec §4.4's "createObjectCode()
// finalization"): the interned pools plus, if this module defines the
// program entry point, which LocalFuncs index is <main> (spec §4.5 step 7).
type ObjectCode struct {
	ModulePath string

	Constants []Constant

	LocalFuncs  []*FuncCode
	ExternFuncs []ExternFunc

	LocalClasses  []*ClassCode
	ExternClasses []ExternClass

	MainFunc    FuncRef
	HasMainFunc bool
}

// IsLocalFunc reports whether r names a LocalFuncs entry.
func (oc *ObjectCode) IsLocalFunc(r FuncRef) bool { return int(r) < len(oc.LocalFuncs) }

// ResolveLocalFunc returns the LocalFuncs entry named by r (only valid when
// IsLocalFunc(r)).
func (oc *ObjectCode) ResolveLocalFunc(r FuncRef) *FuncCode { return oc.LocalFuncs[int(r)] }

// ResolveExternFunc returns the ExternFuncs entry named by r (only valid
// when !IsLocalFunc(r)).
func (oc *ObjectCode) ResolveExternFunc(r FuncRef) ExternFunc {
	return oc.ExternFuncs[int(r)-len(oc.LocalFuncs)]
}

func (oc *ObjectCode) IsLocalClass(r ClassRef) bool { return int(r) < len(oc.LocalClasses) }

func (oc *ObjectCode) ResolveLocalClass(r ClassRef) *ClassCode { return oc.LocalClasses[int(r)] }

func (oc *ObjectCode) ResolveExternClass(r ClassRef) ExternClass {
	return oc.ExternClasses[int(r)-len(oc.LocalClasses)]
}
