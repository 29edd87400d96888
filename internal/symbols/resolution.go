package symbols

import "github.com/funvibe/venom/internal/types"

// LookupResult pairs a found symbol with the translator accumulated while
// crossing parameterized class boundaries to reach it (spec §3
// TypeTranslator "composed while traversing parameterized class
// boundaries"), so callers can substitute type parameters in the symbol's
// declared type before using it.
type LookupResult struct {
	Symbol     Symbol
	Translator *types.Translator
}

// findBaseSymbol is the single general lookup used by all of
// FindValue/FindFunc/FindClass/FindModule: it walks scopes according to
// mode, trying each container kind's accessor at each step, composing a
// translator as it crosses class scopes whose owning class is
// parameterized (spec §4.1).
func findBaseSymbol(start *SymbolTable, mode RecurseMode, try func(*SymbolTable) (Symbol, bool)) (*LookupResult, bool) {
	tr := types.NewTranslator()

	switch mode {
	case NoRecurse:
		if s, ok := try(start); ok {
			return &LookupResult{Symbol: s, Translator: tr}, true
		}
		return nil, false

	case AllowCurrentScope, DisallowCurrentScope:
		cur := start
		first := true
		for cur != nil {
			skip := mode == DisallowCurrentScope && first
			first = false
			if !skip {
				if s, ok := try(cur); ok {
					return &LookupResult{Symbol: s, Translator: tr}, true
				}
			}
			if cur.Kind == ScopeClass && cur.OwningClass != nil && cur.OwningClass.ParentIT != nil {
				tr.Bind(cur.OwningClass.ParentIT)
			}
			cur = cur.Primary
		}
		return nil, false

	case ClassLookup:
		cur := start
		for cur != nil {
			if s, ok := try(cur); ok {
				return &LookupResult{Symbol: s, Translator: tr}, true
			}
			if cur.OwningClass != nil && cur.OwningClass.ParentIT != nil {
				tr.Bind(cur.OwningClass.ParentIT)
			}
			cur = cur.ClassParent
		}
		return nil, false

	case ClassParents:
		cur := start
		for cur != nil {
			if s, ok := try(cur); ok {
				return &LookupResult{Symbol: s, Translator: tr}, true
			}
			if cur.Kind == ScopeClass {
				if res, ok := findBaseSymbol(cur, ClassLookup, try); ok {
					return res, true
				}
			}
			if cur.Kind == ScopeClass && cur.OwningClass != nil && cur.OwningClass.ParentIT != nil {
				tr.Bind(cur.OwningClass.ParentIT)
			}
			cur = cur.Primary
		}
		return nil, false
	}
	return nil, false
}

// FindValue resolves a value or class-attribute name, honoring mode and
// (for ClassAttribute hits) the private-visibility rule.
func (st *SymbolTable) FindValue(name string, mode RecurseMode) (*LookupResult, bool) {
	res, ok := findBaseSymbol(st, mode, func(s *SymbolTable) (Symbol, bool) {
		sym, found := s.LocalValue(name)
		if !found {
			return nil, false
		}
		if attr, isAttr := sym.(*ClassAttribute); isAttr && !canSee(attr, st) {
			return nil, false
		}
		return sym, true
	})
	return res, ok
}

// FindFunc resolves a free-function or method name.
func (st *SymbolTable) FindFunc(name string, mode RecurseMode) (*LookupResult, bool) {
	return findBaseSymbol(st, mode, func(s *SymbolTable) (Symbol, bool) {
		return s.LocalFunc(name)
	})
}

// FindClass resolves a class name.
func (st *SymbolTable) FindClass(name string, mode RecurseMode) (*ClassSymbol, bool) {
	res, ok := findBaseSymbol(st, mode, func(s *SymbolTable) (Symbol, bool) {
		cs, found := s.LocalClass(name)
		if !found {
			return nil, false
		}
		return cs, true
	})
	if !ok {
		return nil, false
	}
	return res.Symbol.(*ClassSymbol), true
}

// FindModule resolves a module name.
func (st *SymbolTable) FindModule(name string, mode RecurseMode) (*ModuleSymbol, bool) {
	res, ok := findBaseSymbol(st, mode, func(s *SymbolTable) (Symbol, bool) {
		ms, found := s.LocalModule(name)
		if !found {
			return nil, false
		}
		return ms, true
	})
	if !ok {
		return nil, false
	}
	return res.Symbol.(*ModuleSymbol), true
}
