package types

import (
	"strconv"

	"github.com/funvibe/venom/internal/config"
)

// Built-in types (spec §3). These are process-wide immutable singletons —
// spec §9 calls out "global mutable state on built-in types" as a
// construct to re-architect into "a read-only prelude structure created
// once per program". Since Venom's lattice needs no context-scoped
// allocation for built-ins (they never carry per-context state), a single
// package-level prelude satisfies that guidance without needing to be
// threaded through the analyzer explicitly.
var (
	AnyType      *InstantiatedType
	BoundlessType *InstantiatedType

	IntType    *InstantiatedType
	BoolType   *InstantiatedType
	FloatType  *InstantiatedType
	StringType *InstantiatedType
	VoidType   *InstantiatedType
	ObjectType *InstantiatedType

	BoxedIntType   *InstantiatedType
	BoxedBoolType  *InstantiatedType
	BoxedFloatType *InstantiatedType

	ListTypeCtor *Type // arity 1, use Instantiate(ListTypeCtor, elem)
	MapTypeCtor  *Type // arity 2
	RefType      *Type // arity 1 (Ref{T})

	ClassTypeBuiltin *InstantiatedType // "Special type which represents a class type"
	ModuleType       *InstantiatedType

	// FuncTypes[n] is the n-ary function type constructor, arity n+1
	// (params... plus return type), matching spec §3 Func0..Func19.
	FuncTypes [config.MaxFuncArity + 1]*Type
)

func init() {
	any := NewType(config.AnyTypeName, nil, 0)
	AnyType = Instantiate(any)

	boundless := NewType(config.BoundlessName, nil, 0)
	BoundlessType = Instantiate(boundless)

	objectT := NewType(config.ObjectTypeName, AnyType, 0)
	ObjectType = Instantiate(objectT)

	intT := NewType(config.IntTypeName, AnyType, 0)
	IntType = Instantiate(intT)
	boolT := NewType(config.BoolTypeName, AnyType, 0)
	BoolType = Instantiate(boolT)
	floatT := NewType(config.FloatTypeName, AnyType, 0)
	FloatType = Instantiate(floatT)
	stringT := NewType(config.StringTypeName, ObjectType, 0)
	StringType = Instantiate(stringT)
	voidT := NewType(config.VoidTypeName, nil, 0)
	VoidType = Instantiate(voidT)

	boxedIntT := NewType(config.BoxedIntName, ObjectType, 0)
	BoxedIntType = Instantiate(boxedIntT)
	boxedBoolT := NewType(config.BoxedBoolName, ObjectType, 0)
	BoxedBoolType = Instantiate(boxedBoolT)
	boxedFloatT := NewType(config.BoxedFloatName, ObjectType, 0)
	BoxedFloatType = Instantiate(boxedFloatT)

	ListTypeCtor = NewType(config.ListTypeName, nil, 1)
	MapTypeCtor = NewType(config.MapTypeName, nil, 2)
	RefType = NewType(config.RefTypeName, nil, 1)

	classTypeT := NewType(config.ClassTypeName, nil, 1)
	ClassTypeBuiltin = Instantiate(classTypeT, AnyType)

	moduleT := NewType(config.ModuleTypeName, nil, 0)
	ModuleType = Instantiate(moduleT)

	for n := 0; n <= config.MaxFuncArity; n++ {
		FuncTypes[n] = NewType(funcTypeName(n), nil, n+1)
	}
}

func funcTypeName(n int) string {
	return "Func" + strconv.Itoa(n)
}

// IsHiddenOrModule is a convenience predicate for the assignment check in
// spec §4.2 ("reject hidden types (modules) as assignable values").
func IsHiddenOrModule(it *InstantiatedType) bool { return it.IsModuleType() }
