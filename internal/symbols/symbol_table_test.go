package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/venom/internal/types"
)

func TestValueLookupWalksPrimaryChain(t *testing.T) {
	outer := NewSymbolTable(ScopeModule, nil)
	inner := NewSymbolTable(ScopeFunction, outer)

	outer.CreateValueSymbol(&ValueSymbol{Name: "x", Type: types.IntType})

	res, ok := inner.FindValue("x", AllowCurrentScope)
	require.True(t, ok)
	require.Equal(t, "x", res.Symbol.SymbolName())

	_, ok = inner.FindValue("x", NoRecurse)
	require.False(t, ok, "NoRecurse must not see the outer scope")
}

func TestDisallowCurrentScopeSkipsStartingScope(t *testing.T) {
	outer := NewSymbolTable(ScopeModule, nil)
	inner := NewSymbolTable(ScopeFunction, outer)

	outer.CreateValueSymbol(&ValueSymbol{Name: "shadowed", Type: types.IntType})
	inner.CreateValueSymbol(&ValueSymbol{Name: "shadowed", Type: types.StringType})

	res, ok := inner.FindValue("shadowed", DisallowCurrentScope)
	require.True(t, ok)
	require.True(t, res.Symbol.(*ValueSymbol).Type.Equals(types.IntType), "must skip inner's own binding")
}

func TestPrivateAttributeVisibility(t *testing.T) {
	classScope := NewSymbolTable(ScopeClass, nil)
	cs := &ClassSymbol{Name: "Widget", ClassScope: classScope}
	classScope.OwningClass = cs

	attr := &ClassAttribute{ValueSymbol: ValueSymbol{Name: "secret", Type: types.IntType}, Owner: cs, Private: true}
	classScope.CreateClassAttribute(attr)

	_, ok := classScope.FindValue("secret", NoRecurse)
	require.True(t, ok, "visible from inside the declaring class")

	outsideScope := NewSymbolTable(ScopeFunction, nil)
	outsideScope.ClassParent = classScope
	_, ok = outsideScope.FindValue("secret", ClassLookup)
	require.False(t, ok, "private attribute must not be visible outside its declaring class")
}

func TestClassLookupWalksParentChain(t *testing.T) {
	parentScope := NewSymbolTable(ScopeClass, nil)
	parentCS := &ClassSymbol{Name: "Animal", ClassScope: parentScope}
	parentScope.OwningClass = parentCS
	speak := &MethodSymbol{FuncSymbol: FuncSymbol{Name: "speak"}, Owner: parentCS}
	parentScope.CreateMethodSymbol(speak)

	childScope := NewSymbolTable(ScopeClass, nil)
	childScope.ClassParent = parentScope
	childCS := &ClassSymbol{Name: "Dog", ClassScope: childScope}
	childScope.OwningClass = childCS

	res, ok := childScope.FindFunc("speak", ClassLookup)
	require.True(t, ok)
	require.Equal(t, "speak", res.Symbol.SymbolName())
}

func TestLinearizedMethodsPreservesVTableSlotOnOverride(t *testing.T) {
	parent := &ClassSymbol{Name: "Animal"}
	speak := &MethodSymbol{FuncSymbol: FuncSymbol{Name: "speak"}, Owner: parent}
	eat := &MethodSymbol{FuncSymbol: FuncSymbol{Name: "eat"}, Owner: parent}
	parent.OwnMethods = []*MethodSymbol{speak, eat}

	parentType := types.NewType("Animal", types.AnyType, 0)
	parent.Backing = parentType
	parentIT := types.Instantiate(parentType)

	child := &ClassSymbol{Name: "Dog", ParentIT: parentIT}
	parentType.ClassLink = parent
	bark := &MethodSymbol{FuncSymbol: FuncSymbol{Name: "speak"}, Owner: child, Overrides: true}
	fetch := &MethodSymbol{FuncSymbol: FuncSymbol{Name: "fetch"}, Owner: child}
	child.OwnMethods = []*MethodSymbol{bark, fetch}

	vtable := child.LinearizedMethods()
	require.Len(t, vtable, 3)
	require.Same(t, bark, vtable[0], "override must reuse parent's vtable slot")
	require.Same(t, eat, vtable[1])
	require.Same(t, fetch, vtable[2])
	require.Equal(t, 0, bark.VTableIndex)
	require.Equal(t, 2, fetch.VTableIndex)
}

func TestCountClassBoundaries(t *testing.T) {
	module := NewSymbolTable(ScopeModule, nil)
	outerClass := NewSymbolTable(ScopeClass, module)
	method := NewSymbolTable(ScopeFunction, outerClass)
	innerClass := NewSymbolTable(ScopeClass, method)
	innerMethod := NewSymbolTable(ScopeFunction, innerClass)

	require.Equal(t, 2, countClassBoundaries(innerMethod, module))
	require.Equal(t, 0, countClassBoundaries(method, outerClass))
}

func TestSpecializedClassCache(t *testing.T) {
	ctx := NewSemanticContext("main")
	require.NotNil(t, ctx.Module)

	_, ok := ctx.SpecializedClass("Box{int}")
	require.False(t, ok)

	ctx.CacheSpecializedClass("Box{int}", &ClassSymbol{Name: "Box{int}"})
	cs, ok := ctx.SpecializedClass("Box{int}")
	require.True(t, ok)
	require.Equal(t, "Box{int}", cs.Name)
}
