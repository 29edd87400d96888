package symbols

import "github.com/funvibe/venom/internal/types"

// RecurseMode controls how a lookup walks outward from the starting scope
// (spec §4.1 SymbolTable lookup). The five modes mirror
// original_source/src/analysis/symboltable.h's SymbolTable::Mode enum.
type RecurseMode int

const (
	// NoRecurse looks only in the starting scope's own containers.
	NoRecurse RecurseMode = iota
	// AllowCurrentScope walks outward through primary parents, including the
	// starting scope itself.
	AllowCurrentScope
	// DisallowCurrentScope walks outward through primary parents, skipping
	// the starting scope's own containers (used when re-resolving a name
	// that must come from an enclosing scope, not shadow itself).
	DisallowCurrentScope
	// ClassLookup walks the class-parent chain only (used for member
	// resolution: attribute/method lookup by name on a class hierarchy).
	ClassLookup
	// ClassParents walks both primary parents and, at each class boundary,
	// the class-parent chain — the full visibility rule used by semantic
	// analysis for unqualified name resolution inside a method body.
	ClassParents
)

// ScopeKind classifies what introduced a scope, used by countClassBoundaries
// and by canSee's visibility rule (spec §4.1/§4.2 "new-scope node kinds").
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeClass
	ScopeBlock // if/for/other nested block, no new symbol containers needed but still a lookup frame
)

// SymbolTable is a lexical scope. Following spec §4.1's "container-per-kind"
// design, bindings of different kinds never collide by name and are looked
// up independently: a class and a value may share a name in the same scope.
type SymbolTable struct {
	Kind ScopeKind

	// Primary is the lexically enclosing scope (module/function/block
	// nesting). Nil at the root (module) scope.
	Primary *SymbolTable

	// ClassParent is set only on a class body's scope (Kind == ScopeClass):
	// the single superclass's class scope, used by ClassLookup/ClassParents
	// recursion (spec §4.1; single-parent enforced by the analyzer — see
	// DESIGN.md Open Question decision on multiple class parents).
	ClassParent *SymbolTable

	// OwningClass/OwningModule back-link this scope to the symbol that
	// opened it, used by countClassBoundaries and canSee.
	OwningClass  *ClassSymbol
	OwningModule *ModuleSymbol

	values  map[string]Symbol // ValueSymbol | ClassAttribute
	funcs   map[string]Symbol // FuncSymbol | MethodSymbol
	classes map[string]*ClassSymbol
	modules map[string]*ModuleSymbol

	// typeParams binds a ClassDecl/FuncDecl's own declared type-parameter
	// names (spec §3 TypeParam) to their placeholder *types.Type, visible
	// only in this scope and scopes nested inside it — a type annotation
	// `x :: T` resolves T here rather than through the class/module
	// namespaces FindClass walks.
	typeParams map[string]*types.Type
}

// NewSymbolTable allocates an empty scope of the given kind, chained to
// primary.
func NewSymbolTable(kind ScopeKind, primary *SymbolTable) *SymbolTable {
	return &SymbolTable{
		Kind:       kind,
		Primary:    primary,
		values:     map[string]Symbol{},
		funcs:      map[string]Symbol{},
		classes:    map[string]*ClassSymbol{},
		modules:    map[string]*ModuleSymbol{},
		typeParams: map[string]*types.Type{},
	}
}

// DeclareTypeParam binds name to its TypeParam placeholder in this scope
// (called once per declared type parameter when a ClassDecl/FuncDecl's
// scope is checked, before any of its type annotations are resolved).
func (st *SymbolTable) DeclareTypeParam(name string, t *types.Type) {
	st.typeParams[name] = t
}

// FindTypeParam looks up name as a type parameter, walking outward through
// Primary scopes the same way AllowCurrentScope does for other kinds — a
// nested function/class body sees its enclosing declarations' type
// parameters too (spec §3 TypeParam "visible only inside the scope that
// introduced it").
func (st *SymbolTable) FindTypeParam(name string) (*types.Type, bool) {
	for cur := st; cur != nil; cur = cur.Primary {
		if t, ok := cur.typeParams[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// CreateValueSymbol binds name to a fresh ValueSymbol in this scope's value
// container, failing (returning false) if name is already bound there
// (spec §4.2 "redeclaration in the same scope is an error").
func (st *SymbolTable) CreateValueSymbol(sym *ValueSymbol) bool {
	if _, exists := st.values[sym.Name]; exists {
		return false
	}
	sym.Scope = st
	st.values[sym.Name] = sym
	return true
}

func (st *SymbolTable) CreateClassAttribute(sym *ClassAttribute) bool {
	if _, exists := st.values[sym.Name]; exists {
		return false
	}
	sym.Scope = st
	st.values[sym.Name] = sym
	return true
}

func (st *SymbolTable) CreateFuncSymbol(sym *FuncSymbol) bool {
	if _, exists := st.funcs[sym.Name]; exists {
		return false
	}
	sym.DefiningScope = st
	st.funcs[sym.Name] = sym
	return true
}

func (st *SymbolTable) CreateMethodSymbol(sym *MethodSymbol) bool {
	if _, exists := st.funcs[sym.Name]; exists {
		return false
	}
	sym.DefiningScope = st
	st.funcs[sym.Name] = sym
	return true
}

func (st *SymbolTable) CreateClassSymbol(sym *ClassSymbol) bool {
	if _, exists := st.classes[sym.Name]; exists {
		return false
	}
	st.classes[sym.Name] = sym
	return true
}

func (st *SymbolTable) CreateModuleSymbol(sym *ModuleSymbol) bool {
	if _, exists := st.modules[sym.Name]; exists {
		return false
	}
	st.modules[sym.Name] = sym
	return true
}

// LocalValue/LocalFunc/LocalClass/LocalModule look only in this scope's own
// container (RecurseMode == NoRecurse for a single frame).
func (st *SymbolTable) LocalValue(name string) (Symbol, bool) {
	s, ok := st.values[name]
	return s, ok
}

func (st *SymbolTable) LocalFunc(name string) (Symbol, bool) {
	s, ok := st.funcs[name]
	return s, ok
}

func (st *SymbolTable) LocalClass(name string) (*ClassSymbol, bool) {
	s, ok := st.classes[name]
	return s, ok
}

func (st *SymbolTable) LocalModule(name string) (*ModuleSymbol, bool) {
	s, ok := st.modules[name]
	return s, ok
}

// countClassBoundaries counts how many class scopes are crossed walking
// from st up to (and not including) target via Primary links. Used by the
// lifting pass to decide how many levels of "outer" indirection a captured
// self-reference needs (spec §4.3).
// CountClassBoundaries is the exported form of countClassBoundaries, used
// by the lifting pass (spec §4.3) to size an `<outer>` access chain.
func CountClassBoundaries(from, to *SymbolTable) int {
	return countClassBoundaries(from, to)
}

func countClassBoundaries(from, to *SymbolTable) int {
	n := 0
	for cur := from; cur != nil && cur != to; cur = cur.Primary {
		if cur.Kind == ScopeClass {
			n++
		}
	}
	return n
}

// isDescendantOf reports whether scope st is nested (via Primary links,
// zero or more steps) inside ancestor.
func isDescendantOf(st, ancestor *SymbolTable) bool {
	for cur := st; cur != nil; cur = cur.Primary {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// belongsTo reports whether st is the class scope owned by owner
// (st.OwningClass == owner; used by canSee's "private members are visible only within their
// declaring class" rule, spec §4.2).
func belongsTo(owner *ClassSymbol, st *SymbolTable) bool {
	return st.OwningClass == owner
}

// canSee implements the private-attribute visibility rule (spec §4.2): a
// private ClassAttribute or method is visible only from inside its owning
// class's own scope (not from subclasses, not from outside).
func canSee(attr *ClassAttribute, from *SymbolTable) bool {
	if !attr.Private {
		return true
	}
	return belongsTo(attr.Owner, from)
}
