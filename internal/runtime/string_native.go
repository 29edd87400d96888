package runtime

// stringConcat implements the explicit `.concat()` method call form (spec
// GLOSSARY ConcatMethod); string `+` itself is lowered straight to
// OP_CONCAT_STRING by codegen (codegen.binopOpcode) and never reaches this
// registry.
func stringConcat(args []Cell) (Cell, error) {
	self := StringValue(args[0].Obj)
	other := StringValue(args[1].Obj)
	return RefCell(NewString(self + other)), nil
}

func stringLen(args []Cell) (Cell, error) {
	self := StringValue(args[0].Obj)
	return IntCell(int64(len(self))), nil
}

func stringNativeFuncs() map[string]*FunctionDescriptor {
	return map[string]*FunctionDescriptor{
		"string.concat": {Name: "string.concat", Native: true, NativeFunc: stringConcat, NumParams: 2, ParamIsRef: []bool{true, true}, OwnerClass: StringClass},
		"string.len":    {Name: "string.len", Native: true, NativeFunc: stringLen, NumParams: 1, ParamIsRef: []bool{true}, OwnerClass: StringClass},
	}
}
