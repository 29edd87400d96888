// Package symbols implements Venom's symbol model and scope-aware symbol
// tables (spec §3 Symbol/SymbolTable, §4.1). Symbol is polymorphic over four
// variants — ValueSymbol (and its ClassAttribute specialization), FuncSymbol
// (and its MethodSymbol specialization), ClassSymbol, and ModuleSymbol —
// mirrored here as four concrete Go structs implementing a common Symbol
// interface, since Go has no tagged-union inheritance.
package symbols

import "github.com/funvibe/venom/internal/types"

// SymbolKind discriminates the four Symbol variants plus the ClassAttribute
// and MethodSymbol specializations, matching spec §3.
type SymbolKind int

const (
	KindValue SymbolKind = iota
	KindClassAttribute
	KindFunc
	KindMethod
	KindClass
	KindModule
)

// Symbol is the common interface over all symbol variants.
type Symbol interface {
	Kind() SymbolKind
	SymbolName() string
}

// ValueSymbol is a plain value binding: a local variable, parameter, or
// module-level name. Its InstantiatedType may be unknown at first encounter
// (nil) and is filled in on first assignment (spec §3).
type ValueSymbol struct {
	Name  string
	Scope *SymbolTable
	Type  *types.InstantiatedType

	// PromoteToRef is set during lifting (spec §4.3) when this variable is
	// captured by a nested function/class and must be boxed in a Ref{T}.
	PromoteToRef bool
}

func (s *ValueSymbol) Kind() SymbolKind   { return KindValue }
func (s *ValueSymbol) SymbolName() string { return s.Name }

// ClassAttribute is a ValueSymbol with an owning class pointer and a
// private flag (spec §3).
type ClassAttribute struct {
	ValueSymbol
	Owner   *ClassSymbol
	Private bool

	// SlotIndex is this attribute's position in Owner's linearized field
	// order (spec GLOSSARY "Linearized order"), assigned once the class's
	// layout is finalized. -1 until assigned.
	SlotIndex int
}

func (s *ClassAttribute) Kind() SymbolKind { return KindClassAttribute }

// FuncSymbol describes a free function: its type parameters, parameter
// types, return type, and whether it is a native (VM-trampolined) function.
type FuncSymbol struct {
	Name       string
	TypeParams []*types.Type
	Params     []*types.InstantiatedType
	Return     *types.InstantiatedType
	Native     bool

	// DefiningScope is the scope this function is declared in; InnerScope
	// is the function-body scope it opens (spec §4.2 "function body" is a
	// new-scope node kind).
	DefiningScope *SymbolTable
	InnerScope    *SymbolTable

	// MangledName is filled in by later passes (lifting); kept here so
	// a FuncSymbol and its compiled descriptor stay associated without an
	// extra side table.
	MangledName string

	// Decl back-references the declaring *ast.FuncDecl (stored as `any` to
	// avoid an ast<->symbols import cycle), used by the specialization pass
	// to clone a generic function's body (spec §4.3 "Specialize").
	Decl any
}

func (s *FuncSymbol) Kind() SymbolKind   { return KindFunc }
func (s *FuncSymbol) SymbolName() string { return s.Name }

// FuncArity is len(Params), the number used to pick the FuncN builtin type
// (spec §3).
func (s *FuncSymbol) FuncArity() int { return len(s.Params) }

// MethodSymbol is a FuncSymbol plus owning class and override flag.
type MethodSymbol struct {
	FuncSymbol
	Owner     *ClassSymbol
	Overrides bool

	// VTableIndex is this method's slot in Owner's vtable (spec §4.4
	// CALL_VIRTUAL). Overriding methods reuse the overridden method's slot;
	// new methods get the next free slot. Assigned once the class's vtable
	// is finalized; -1 until then.
	VTableIndex int
}

func (s *MethodSymbol) Kind() SymbolKind { return KindMethod }

// SyntheticNativeMethod builds an ad hoc MethodSymbol used to address a
// built-in List/Map method (append/put/...) through the ordinary
// method-call codegen path (the *symbols.MethodSymbol branch of
// codegen.emitCall, which pushes a receiver before the arguments), even
// though List/Map have no user-visible ClassSymbol declaration of their own
// (spec's runtime contract). Resolved purely by name at link time, same as
// any other extern (spec §4.5 step 3).
func SyntheticNativeMethod(ownerClass, name string) *MethodSymbol {
	return &MethodSymbol{
		FuncSymbol: FuncSymbol{Name: name, Native: true, MangledName: name},
		Owner:      &ClassSymbol{Name: ownerClass},
	}
}

// ClassSymbol describes a class declaration: its type parameters, class
// scope, backing Type, and the two lifting back-links (spec §3).
type ClassSymbol struct {
	Name       string
	TypeParams []*types.Type
	ClassScope *SymbolTable
	Backing    *types.Type
	ParentIT   *types.InstantiatedType

	// Lifted points to the top-level class this one was replaced by; Lifter
	// points the other way, from a lifted top-level class back to the class
	// it was produced from (spec §3 "lifted"/"lifter"). Nothing sets either
	// field: rewrite.Lift renames and moves a nested class's own declaration
	// and symbol in place, so both stay nil.
	Lifted *ClassSymbol
	Lifter *ClassSymbol

	// Specializes is non-nil iff this ClassSymbol is a specialized class
	// symbol (spec §3 GLOSSARY): the fully-instantiated type it realizes,
	// produced by the monomorphization pass.
	Specializes *types.InstantiatedType

	// OwnAttributes/OwnMethods are declared directly on this class, in
	// declaration order (not including inherited members).
	OwnAttributes []*ClassAttribute
	OwnMethods    []*MethodSymbol

	CtorIndex int // index into OwnMethods of the constructor, or -1

	// Decl back-references the declaring *ast.ClassDecl (stored as `any`
	// to avoid an ast<->symbols import cycle), used by the specialization
	// pass (spec §4.3 "Specialize").
	Decl any
}

func (s *ClassSymbol) Kind() SymbolKind   { return KindClass }
func (s *ClassSymbol) SymbolName() string { return s.Name }

// LinearizedAttributes returns the deterministic concatenation of
// attributes walking parents first, then this class (spec GLOSSARY
// "Linearized order"), used for both field slot indices and the runtime
// object layout.
func (s *ClassSymbol) LinearizedAttributes() []*ClassAttribute {
	var out []*ClassAttribute
	if s.ParentIT != nil {
		if parentCS := s.ParentIT.Type.ClassLink; parentCS != nil {
			out = append(out, parentCS.(*ClassSymbol).LinearizedAttributes()...)
		}
	}
	return append(out, s.OwnAttributes...)
}

// LinearizedMethods returns the vtable order: inherited methods keep their
// inherited slot unless overridden in place by this class (same slot,
// swapped descriptor), and new (non-overriding) methods are appended after
// (spec GLOSSARY "Linearized order"; spec §4.4 CALL_VIRTUAL slot).
func (s *ClassSymbol) LinearizedMethods() []*MethodSymbol {
	var inherited []*MethodSymbol
	if s.ParentIT != nil {
		if parentCS := s.ParentIT.Type.ClassLink; parentCS != nil {
			inherited = parentCS.(*ClassSymbol).LinearizedMethods()
		}
	}
	out := make([]*MethodSymbol, len(inherited))
	copy(out, inherited)
	for _, m := range s.OwnMethods {
		if m.Overrides {
			replaced := false
			for i, existing := range out {
				if existing.Name == m.Name {
					out[i] = m
					replaced = true
					break
				}
			}
			if !replaced {
				out = append(out, m)
			}
		} else {
			out = append(out, m)
		}
	}
	for i, m := range out {
		m.VTableIndex = i
	}
	return out
}

// ModuleSymbol represents an imported (or the current) module: its scope,
// the synthetic class symbol for the module singleton object, and the
// context that imported it (spec §3, §6).
type ModuleSymbol struct {
	Name           string
	ModuleScope    *SymbolTable
	SingletonClass *ClassSymbol

	// ImportingContext is recorded so that transitive imports from this
	// module are not visible at the import site (spec §6).
	ImportingContext *SemanticContext
}

func (s *ModuleSymbol) Kind() SymbolKind   { return KindModule }
func (s *ModuleSymbol) SymbolName() string { return s.Name }
