package types

import "testing"

import "github.com/stretchr/testify/require"

func TestSubtypingReflexiveAndBoundless(t *testing.T) {
	require.True(t, IntType.IsSubtypeOf(IntType))
	require.True(t, BoundlessType.IsSubtypeOf(IntType))
	require.True(t, BoundlessType.IsSubtypeOf(StringType))
	require.True(t, IntType.IsSubtypeOf(AnyType))
	require.False(t, IntType.IsSubtypeOf(FloatType), "Int <: Float must NOT hold (no numeric widening)")
}

func TestSubtypingNominalChain(t *testing.T) {
	animal := NewType("Animal", AnyType, 0)
	dogParent := Instantiate(animal)
	dog := NewType("Dog", dogParent, 0)
	dogIT := Instantiate(dog)

	require.True(t, dogIT.IsSubtypeOf(dogParent))
	require.True(t, dogIT.IsSubtypeOf(AnyType))
	require.False(t, dogParent.IsSubtypeOf(dogIT))
}

func TestMostCommonTypeCommutative(t *testing.T) {
	animal := NewType("Animal", AnyType, 0)
	animalIT := Instantiate(animal)
	dog := NewType("Dog", animalIT, 0)
	cat := NewType("Cat", animalIT, 0)
	dogIT := Instantiate(dog)
	catIT := Instantiate(cat)

	a := dogIT.MostCommonType(catIT)
	b := catIT.MostCommonType(dogIT)
	require.True(t, a.Equals(b))
	require.True(t, a.Equals(animalIT))
}

func TestInstantiatedEqualsClone(t *testing.T) {
	listOfInt := Instantiate(ListTypeCtor, IntType)
	clone := Instantiate(ListTypeCtor, IntType)
	require.True(t, listOfInt.Equals(clone))
}

func TestTranslatorIdempotent(t *testing.T) {
	tv := NewTypeParam("T", 0)
	tvIT := Instantiate(tv)
	listOfT := Instantiate(ListTypeCtor, tvIT)

	tr := NewTranslator()
	tr.BindParams([]*Type{tv}, []*InstantiatedType{IntType})

	once := tr.Translate(listOfT)
	twice := tr.Translate(once)
	require.True(t, once.Equals(twice))
	require.True(t, once.Equals(Instantiate(ListTypeCtor, IntType)))
}

func TestInvariantParameterMatching(t *testing.T) {
	listOfInt := Instantiate(ListTypeCtor, IntType)
	listOfFloat := Instantiate(ListTypeCtor, FloatType)
	require.False(t, listOfInt.IsSubtypeOf(listOfFloat))
	require.False(t, listOfFloat.IsSubtypeOf(listOfInt))
}

func TestArithResult(t *testing.T) {
	r, ok := ArithResult(IntType, IntType)
	require.True(t, ok)
	require.True(t, r.Equals(IntType))

	r, ok = ArithResult(IntType, FloatType)
	require.True(t, ok)
	require.True(t, r.Equals(FloatType))

	_, ok = ArithResult(StringType, IntType)
	require.False(t, ok)
}

func TestBoundFunctionName(t *testing.T) {
	bf := BoundFunction{Name: "id", TypeArgs: []*InstantiatedType{IntType}}
	require.Equal(t, "id{int}", bf.CreateFuncName())
}
