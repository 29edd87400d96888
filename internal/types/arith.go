package types

// ArithResult implements the static numeric-arithmetic rule from spec §4.1:
// int op int -> int; any float operand -> float. ok is false unless both
// operands are numeric.
func ArithResult(lhs, rhs *InstantiatedType) (result *InstantiatedType, ok bool) {
	if !lhs.IsNumeric() || !rhs.IsNumeric() {
		return nil, false
	}
	if lhs.IsFloat() || rhs.IsFloat() {
		return FloatType, true
	}
	return IntType, true
}

// RequireBothInt implements "mod and bit ops require both int" (spec §4.1).
func RequireBothInt(lhs, rhs *InstantiatedType) bool {
	return lhs.IsInt() && rhs.IsInt()
}

// RequireBothString implements "String + is concatenation and requires
// both operands to be string" (spec §4.1).
func RequireBothString(lhs, rhs *InstantiatedType) bool {
	return lhs.IsString() && rhs.IsString()
}
