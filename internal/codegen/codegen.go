package codegen

import (
	"fmt"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/symbols"
)

// Generator walks one module's rewritten AST and produces its ObjectCode
// (spec §4.4). Create one per module via Generate; a Generator is not
// reused across modules.
type Generator struct {
	ctx *symbols.SemanticContext
	oc  *ObjectCode

	funcIdx  map[any]FuncRef
	classIdx map[*symbols.ClassSymbol]ClassRef

	externFuncByName  map[string]FuncRef
	externClassByName map[string]ClassRef

	constIdx map[Constant]int
}

// Generate runs the symbolic code generator over root (already processed
// by rewrite.Run) and produces its ObjectCode.
func Generate(ctx *symbols.SemanticContext, root *ast.ModuleRoot) (*ObjectCode, error) {
	g := &Generator{
		ctx:               ctx,
		oc:                &ObjectCode{ModulePath: ctx.ModulePath},
		funcIdx:           map[any]FuncRef{},
		classIdx:          map[*symbols.ClassSymbol]ClassRef{},
		externFuncByName:  map[string]FuncRef{},
		externClassByName: map[string]ClassRef{},
		constIdx:          map[Constant]int{},
	}

	var funcDecls []*ast.FuncDecl
	var classDecls []*ast.ClassDecl
	for _, stmt := range root.Body.Stmts {
		switch v := stmt.(type) {
		case *ast.FuncDecl:
			funcDecls = append(funcDecls, v)
		case *ast.ClassDecl:
			classDecls = append(classDecls, v)
		case *ast.Import:
			// Resolved by the analyzer; nothing to generate.
		default:
			return nil, fmt.Errorf("codegen: unexpected top-level statement %T (ModuleMain should have absorbed it into %s)", stmt, config.MainFunctionName)
		}
	}

	// Registration pass: every function/method and class gets a stable
	// FuncRef/ClassRef before any body is emitted, so forward references
	// (mutual recursion, a method calling a sibling declared later) resolve
	// (spec §4.4 "interned pools").
	for _, fd := range funcDecls {
		g.registerFunc(fd)
	}
	for _, cd := range classDecls {
		g.registerClass(cd)
	}

	for _, fd := range funcDecls {
		if err := g.emitFuncDecl(fd); err != nil {
			return nil, err
		}
		if fd.Name == config.MainFunctionName {
			g.oc.MainFunc = g.funcIdx[fd.Symbol]
			g.oc.HasMainFunc = true
		}
	}
	for _, cd := range classDecls {
		if err := g.emitClassDecl(cd); err != nil {
			return nil, err
		}
	}

	return g.oc, nil
}

func (g *Generator) registerFunc(fd *ast.FuncDecl) FuncRef {
	fc := &FuncCode{Name: fd.Name, Symbol: fd.Symbol, IsNative: fd.Native, NativeName: fd.Name}
	g.oc.LocalFuncs = append(g.oc.LocalFuncs, fc)
	ref := FuncRef(len(g.oc.LocalFuncs) - 1)
	g.funcIdx[fd.Symbol] = ref
	return ref
}

func (g *Generator) registerClass(cd *ast.ClassDecl) ClassRef {
	cs := cd.Symbol.(*symbols.ClassSymbol)
	cc := &ClassCode{Name: cd.Name, Symbol: cs}
	g.oc.LocalClasses = append(g.oc.LocalClasses, cc)
	ref := ClassRef(len(g.oc.LocalClasses) - 1)
	g.classIdx[cs] = ref

	for _, stmt := range cd.Body.Stmts {
		if mfd, ok := stmt.(*ast.FuncDecl); ok {
			fref := g.registerFunc(mfd)
			g.oc.LocalFuncs[fref].HasOwner = true
			g.oc.LocalFuncs[fref].OwnerClass = ref
		}
	}
	return ref
}

// funcRef resolves a *symbols.FuncSymbol/*symbols.MethodSymbol to its
// FuncRef in this object code's combined function namespace, registering a
// fresh extern entry by name on first reference to a symbol this module
// does not define itself (spec §4.4 "external ref table"; resolved for
// real by the linker, spec §4.5 step 3).
func (g *Generator) funcRef(sym any) FuncRef {
	if ref, ok := g.funcIdx[sym]; ok {
		return ref
	}
	name := funcSymbolName(sym)
	if ref, ok := g.externFuncByName[name]; ok {
		return ref
	}
	g.oc.ExternFuncs = append(g.oc.ExternFuncs, ExternFunc{Name: name})
	ref := FuncRef(len(g.oc.LocalFuncs) + len(g.oc.ExternFuncs) - 1)
	g.externFuncByName[name] = ref
	g.funcIdx[sym] = ref
	return ref
}

func (g *Generator) classRef(cs *symbols.ClassSymbol) ClassRef {
	if ref, ok := g.classIdx[cs]; ok {
		return ref
	}
	if ref, ok := g.externClassByName[cs.Name]; ok {
		return ref
	}
	g.oc.ExternClasses = append(g.oc.ExternClasses, ExternClass{Name: cs.Name})
	ref := ClassRef(len(g.oc.LocalClasses) + len(g.oc.ExternClasses) - 1)
	g.externClassByName[cs.Name] = ref
	g.classIdx[cs] = ref
	return ref
}

func funcSymbolName(sym any) string {
	switch v := sym.(type) {
	case *symbols.FuncSymbol:
		if v.MangledName != "" {
			return v.MangledName
		}
		return v.Name
	case *symbols.MethodSymbol:
		return v.Owner.Name + "." + v.Name
	default:
		panic(fmt.Sprintf("codegen: funcSymbolName: unexpected bound symbol %T", sym))
	}
}

// intern records (or finds) c in the constant pool, returning its index
// (spec §4.4 "constant pool... identical literals share a slot").
func (g *Generator) intern(c Constant) int {
	if idx, ok := g.constIdx[c]; ok {
		return idx
	}
	g.oc.Constants = append(g.oc.Constants, c)
	idx := len(g.oc.Constants) - 1
	g.constIdx[c] = idx
	return idx
}

// emitClassDecl finalizes a class's layout: linearized field slots (spec
// GLOSSARY "Linearized order"), vtable, parent ref, and ctor ref — and
// emits the bodies of its own methods.
func (g *Generator) emitClassDecl(cd *ast.ClassDecl) error {
	cs := cd.Symbol.(*symbols.ClassSymbol)
	cc := g.oc.LocalClasses[g.classIdx[cs]]

	// A class whose parent is the builtin Object carries no ClassLink (Object
	// has no declaring *symbols.ClassSymbol, spec §3) — cc.HasParent stays
	// false and the linker/runtime treat it as rooted directly on the
	// runtime's builtin Object layout.
	if cs.ParentIT != nil {
		if parentCS, ok := cs.ParentIT.Type.ClassLink.(*symbols.ClassSymbol); ok && parentCS != nil {
			cc.Parent = g.classRef(parentCS)
			cc.HasParent = true
		}
	}

	attrs := cs.LinearizedAttributes()
	cc.NumFields = len(attrs)
	cc.FieldIsRef = make([]bool, len(attrs))
	cc.FieldNames = make([]string, len(attrs))
	for i, a := range attrs {
		a.SlotIndex = i
		cc.FieldNames[i] = a.Name
		cc.FieldIsRef[i] = !a.Type.IsPrimitive()
	}

	methods := cs.LinearizedMethods()
	cc.VTable = make([]FuncRef, len(methods))
	for i, m := range methods {
		cc.VTable[i] = g.funcRef(m)
	}

	for _, stmt := range cd.Body.Stmts {
		mfd, ok := stmt.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if err := g.emitFuncDecl(mfd); err != nil {
			return err
		}
		if mfd.Name == config.CtorName {
			cc.CtorRef = g.funcIdx[mfd.Symbol]
			cc.HasCtor = true
			g.oc.LocalFuncs[cc.CtorRef].IsCtor = true
		}
	}
	return nil
}

func (g *Generator) emitFuncDecl(fd *ast.FuncDecl) error {
	ref, ok := g.funcIdx[fd.Symbol]
	if !ok {
		return fmt.Errorf("codegen: function %q not registered", fd.Name)
	}
	fc := g.oc.LocalFuncs[ref]
	if fd.Native {
		return nil // native functions have no Venom body to compile (spec §4.6 native trampoline)
	}

	var innerScope *symbols.SymbolTable
	isMethod := false
	switch sym := fd.Symbol.(type) {
	case *symbols.MethodSymbol:
		isMethod = true
		innerScope = sym.InnerScope
	case *symbols.FuncSymbol:
		innerScope = sym.InnerScope
	}

	fe := &funcEmitter{gen: g, fc: fc, localIdx: map[*symbols.ValueSymbol]int{}, isMethod: isMethod}

	if isMethod {
		fe.selfSlot = fe.nextSlot()
	}
	for _, p := range fd.Params {
		sym, _ := innerScope.LocalValue(p.Name)
		vs, _ := sym.(*symbols.ValueSymbol)
		isRef := p.Type.Resolved == nil || !p.Type.Resolved.IsPrimitive()
		fe.declareLocal(vs, isRef)
	}
	fc.NumParams = len(fd.Params)
	if isMethod {
		fc.NumParams++
	}

	fe.emitStmtList(fd.Body)
	fe.emit(opcode.OpPushNull)
	fe.emit(opcode.OpReturn)

	fc.Code = fe.code
	fc.NumLocals = len(fe.localIsRef)
	fc.LocalIsRef = fe.localIsRef
	return nil
}
