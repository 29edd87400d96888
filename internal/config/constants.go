// Package config holds process-wide constants shared across the Venom
// pipeline: builtin names, the source file extension, and system limits.
package config

// SourceFileExt is the recognized Venom source file extension (spec §6:
// "import a.b.c maps to <import_root>/a/b/c.venom").
const SourceFileExt = ".venom"

// MaxNativeArgs is the system-wide cap on native-function arity (spec §4.6).
const MaxNativeArgs = 64

// MainFunctionName is the canonical per-module entry point synthesized by
// the ModuleMain rewrite pass (spec §4.3c) and located by the linker
// (spec §4.5 step 7).
const MainFunctionName = "<main>"

// Built-in type names (spec §3).
const (
	AnyTypeName      = "any"
	IntTypeName      = "int"
	BoolTypeName     = "bool"
	FloatTypeName    = "float"
	StringTypeName   = "string"
	VoidTypeName     = "void"
	ObjectTypeName   = "object"
	ListTypeName     = "list"
	MapTypeName      = "map"
	RefTypeName      = "ref"
	ClassTypeName    = "class_type"
	ModuleTypeName   = "module_type"
	BoundlessName    = "boundless"
	BoxedIntName     = "Int"
	BoxedBoolName    = "Bool"
	BoxedFloatName   = "Float"
)

// MaxFuncArity is the highest N of the FuncN builtin types, so there are
// MaxFuncArity+1 of them (spec §3: "Func0..Func19 (arities 1..20)").
const MaxFuncArity = 19

// Built-in constructor/method names referenced by the rewrite pipeline and
// runtime.
const (
	RefValueAttr   = "value"
	ListAppendName = "append"
	MapPutName     = "put"
	ConcatMethod   = "concat"
	CtorName       = "<ctor>"
	OuterAttrName  = "<outer>"

	// PrintFuncName is the one free function every module sees without an
	// import or declaration (spec §8's stdout scenarios all call it).
	// pipeline.Compile seeds it into the module's root scope before
	// analysis runs; runtime.allNativeFuncs supplies its implementation.
	PrintFuncName = "print"
)
