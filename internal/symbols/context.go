package symbols

import "github.com/funvibe/venom/internal/types"

// SemanticContext owns everything produced while analyzing one module: its
// AST root (kept as `any` to avoid an import cycle with package ast), its
// root symbol table, the module's own ModuleSymbol, and the arena of
// InstantiatedTypes and specialized ClassSymbols/FuncSymbols created by the
// specialization pass (spec §4.1/§4.3 "per-module semantic context").
type SemanticContext struct {
	ModulePath string
	ASTRoot    any
	Root       *SymbolTable
	Module     *ModuleSymbol

	// Imports maps an imported module's path to the context that produced
	// it, used to enforce "transitive imports are not re-exported" (spec
	// §6): only modules directly named in this context's own import list
	// are reachable from Root.
	Imports map[string]*SemanticContext

	// specialized caches monomorphized class/function clones by their
	// mangled name (spec §3 BoundFunction.CreateFuncName), so repeated
	// instantiation sites with identical type arguments share one clone.
	specializedClasses map[string]*ClassSymbol
	specializedFuncs   map[string]*FuncSymbol
}

// NewSemanticContext allocates a context with a fresh module scope.
func NewSemanticContext(modulePath string) *SemanticContext {
	root := NewSymbolTable(ScopeModule, nil)
	ctx := &SemanticContext{
		ModulePath:         modulePath,
		Root:               root,
		Imports:            map[string]*SemanticContext{},
		specializedClasses: map[string]*ClassSymbol{},
		specializedFuncs:   map[string]*FuncSymbol{},
	}
	mod := &ModuleSymbol{Name: modulePath, ModuleScope: root}
	root.OwningModule = mod
	ctx.Module = mod
	return ctx
}

// SpecializedClass returns the cached monomorphized clone for the given
// mangled name, or (nil, false) if not yet produced.
func (ctx *SemanticContext) SpecializedClass(mangledName string) (*ClassSymbol, bool) {
	cs, ok := ctx.specializedClasses[mangledName]
	return cs, ok
}

// CacheSpecializedClass records a newly produced monomorphized class clone.
func (ctx *SemanticContext) CacheSpecializedClass(mangledName string, cs *ClassSymbol) {
	ctx.specializedClasses[mangledName] = cs
}

// SpecializedFunc returns the cached monomorphized clone for the given
// mangled name, or (nil, false) if not yet produced.
func (ctx *SemanticContext) SpecializedFunc(mangledName string) (*FuncSymbol, bool) {
	fs, ok := ctx.specializedFuncs[mangledName]
	return fs, ok
}

// CacheSpecializedFunc records a newly produced monomorphized function
// clone.
func (ctx *SemanticContext) CacheSpecializedFunc(mangledName string, fs *FuncSymbol) {
	ctx.specializedFuncs[mangledName] = fs
}

// ImportModule records that this context imports `other` under `name`,
// making other's module-level public symbols reachable via a ClassParents
// lookup rooted at ctx.Root (spec §6 import semantics) without re-exposing
// other's own transitive imports.
func (ctx *SemanticContext) ImportModule(name string, other *SemanticContext) {
	ctx.Imports[name] = other
	other.Module.ImportingContext = ctx
	ctx.Root.CreateModuleSymbol(other.Module)
}

// BindFunc pairs a FuncSymbol's declared type parameters with a
// BoundFunction's type arguments, returning the translator used to
// specialize its signature (spec §3).
func BindFunc(fs *FuncSymbol, bf types.BoundFunction) *types.Translator {
	tr := types.NewTranslator()
	tr.BindParams(fs.TypeParams, bf.TypeArgs)
	return tr
}
