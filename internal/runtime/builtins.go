package runtime

import "github.com/funvibe/venom/internal/config"

// allNativeFuncs is the complete built-in function registry (spec §4.5 step
// 2/step 1's "native" keyword lookup, and SPEC_FULL §D's built-in library
// surface): keyed by the same fully-qualified name codegen/link use for
// every other function (link.funcFQName, codegen.funcSymbolName).
func allNativeFuncs() map[string]*FunctionDescriptor {
	out := map[string]*FunctionDescriptor{}
	for _, m := range []map[string]*FunctionDescriptor{
		listNativeFuncs(),
		mapNativeFuncs(),
		stringNativeFuncs(),
		printFuncs(),
	} {
		for name, fd := range m {
			out[name] = fd
		}
	}
	return out
}

// BuiltinFunctions is merged into the linker's function map at spec §4.5
// step 2, below any same-named user definition.
func BuiltinFunctions() map[string]*FunctionDescriptor {
	return allNativeFuncs()
}

// BuiltinClasses is merged into the linker's class map at spec §4.5 step 4.
func BuiltinClasses() map[string]*ClassObject {
	return map[string]*ClassObject{
		config.ListTypeName:   ListClass,
		config.MapTypeName:    MapClass,
		config.RefTypeName:    RefClass,
		config.StringTypeName: StringClass,
		config.BoxedIntName:   BoxIntClass,
		config.BoxedFloatName: BoxFloatClass,
		config.BoxedBoolName:  BoxBoolClass,
	}
}

// LookupNative resolves a user `native` function declaration's registry key
// (spec §4.6: native functions are implemented host-side and looked up by
// name, distinct from the built-in classes' own natives above which are
// addressed as externs rather than declared `native` in Venom source).
// Returns nil on a miss; the VM's CALL_NATIVE handler treats a nil
// NativeFunc as an unresolved host binding.
func LookupNative(name string) NativeFunc {
	if fd, ok := allNativeFuncs()[name]; ok {
		return fd.NativeFunc
	}
	return nil
}
