package vm

import (
	"testing"

	"github.com/funvibe/venom/internal/link"
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/runtime"
)

// buildExecutable wraps hand-assembled code in a program whose <main> starts
// at offset 0 of mainCode, followed by any extra descriptors (mirrors link.Link's output shape,
// bypassing internal/codegen/internal/link since there is no source
// program to compile one from here).
func buildExecutable(mainCode opcode.Instructions, extra ...*runtime.FunctionDescriptor) *link.Executable {
	fd := &runtime.FunctionDescriptor{Name: "<main>", CodeOffset: 0, NumParams: 0, NumLocals: 0}
	return &link.Executable{
		Code:       mainCode,
		Functions:  append([]*runtime.FunctionDescriptor{fd}, extra...),
		MainOffset: 0,
		HasMain:    true,
	}
}

func run(t *testing.T, exe *link.Executable) runtime.Cell {
	t.Helper()
	ctx, err := NewExecutionContext(exe)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result, err := ctx.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

func TestArithmeticReturnsSum(t *testing.T) {
	var code opcode.Instructions
	code = append(code, opcode.Make(opcode.OpConstInt, 0)...)
	code = append(code, opcode.Make(opcode.OpConstInt, 1)...)
	code = append(code, opcode.Make(opcode.OpAddInt)...)
	code = append(code, opcode.Make(opcode.OpReturn)...)

	exe := buildExecutable(code)
	exe.Constants = []runtime.ExecConstant{
		{Kind: runtime.ExecConstInt, Int: 2},
		{Kind: runtime.ExecConstInt, Int: 3},
	}

	got := run(t, exe)
	if got.Tag != runtime.CellInt || got.Int != 5 {
		t.Fatalf("got %+v, want int 5", got)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	var code opcode.Instructions
	code = append(code, opcode.Make(opcode.OpConstInt, 0)...)
	code = append(code, opcode.Make(opcode.OpConstInt, 1)...)
	code = append(code, opcode.Make(opcode.OpDivInt)...)
	code = append(code, opcode.Make(opcode.OpReturn)...)

	exe := buildExecutable(code)
	exe.Constants = []runtime.ExecConstant{
		{Kind: runtime.ExecConstInt, Int: 10},
		{Kind: runtime.ExecConstInt, Int: 0},
	}

	ctx, err := NewExecutionContext(exe)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	if _, err := ctx.Run(); err == nil {
		t.Fatal("expected a division-by-zero error, got nil")
	}
}

// TestStaticCallPassesArgsAsLocals calls a two-parameter function and checks
// the sum it returns, exercising pushFrame's argument-to-locals transfer and
// OP_RETURN's unwind back to <main>.
func TestStaticCallPassesArgsAsLocals(t *testing.T) {
	// add(a, b) { return a + b }
	addBody := opcode.Instructions{}
	addBody = append(addBody, opcode.Make(opcode.OpLoadLocalInt, 0)...)
	addBody = append(addBody, opcode.Make(opcode.OpLoadLocalInt, 1)...)
	addBody = append(addBody, opcode.Make(opcode.OpAddInt)...)
	addBody = append(addBody, opcode.Make(opcode.OpReturn)...)

	var mainCode opcode.Instructions
	mainCode = append(mainCode, opcode.Make(opcode.OpConstInt, 0)...)
	mainCode = append(mainCode, opcode.Make(opcode.OpConstInt, 1)...)
	mainCode = append(mainCode, opcode.Make(opcode.OpCallStatic, 1)...)
	mainCode = append(mainCode, opcode.Make(opcode.OpReturn)...)

	addOffset := len(mainCode)
	code := append(append(opcode.Instructions{}, mainCode...), addBody...)

	addDesc := &runtime.FunctionDescriptor{
		Name: "add", CodeOffset: addOffset, NumParams: 2, NumLocals: 2,
		LocalIsRef: []bool{false, false},
	}
	exe := buildExecutable(code, addDesc)
	exe.Constants = []runtime.ExecConstant{
		{Kind: runtime.ExecConstInt, Int: 4},
		{Kind: runtime.ExecConstInt, Int: 9},
	}

	got := run(t, exe)
	if got.Tag != runtime.CellInt || got.Int != 13 {
		t.Fatalf("got %+v, want int 13", got)
	}
}

// TestNewAllocatesAndRetainsObject exercises OP_NEW against a class with a
// native constructor (list's), confirming the pushed reference has refcount
// 1 and its class is ListClass.
func TestNewAllocatesAndRetainsObject(t *testing.T) {
	var code opcode.Instructions
	code = append(code, opcode.Make(opcode.OpNew, 0)...)
	code = append(code, opcode.Make(opcode.OpReturn)...)

	exe := buildExecutable(code)
	exe.Classes = []*runtime.ClassObject{runtime.ListClass}

	got := run(t, exe)
	if got.Tag != runtime.CellRef || got.Obj == nil {
		t.Fatalf("got %+v, want a list reference", got)
	}
	if got.Obj.RefCount != 1 {
		t.Fatalf("refcount = %d, want 1", got.Obj.RefCount)
	}
	if got.Obj.Class != runtime.ListClass {
		t.Fatalf("class = %v, want ListClass", got.Obj.Class)
	}
}

// TestListAppendAndGetRoundTrip drives OP_NEW + OP_CALL_NATIVE for
// list.append/list.get, exercising the native trampoline and its
// IncRef/DecRef balance.
func TestListAppendAndGetRoundTrip(t *testing.T) {
	appendDesc := &runtime.FunctionDescriptor{
		Name: "list.append", Native: true, NumParams: 2,
		ParamIsRef: []bool{true, true},
	}
	getDesc := &runtime.FunctionDescriptor{
		Name: "list.get", Native: true, NumParams: 2,
		ParamIsRef: []bool{true, false},
	}
	appendDesc.NativeFunc = runtime.LookupNative("list.append")
	getDesc.NativeFunc = runtime.LookupNative("list.get")

	var code opcode.Instructions
	code = append(code, opcode.Make(opcode.OpNew, 0)...) // [list]
	code = append(code, opcode.Make(opcode.OpDup)...)    // [list, list]
	code = append(code, opcode.Make(opcode.OpConstInt, 0)...)
	code = append(code, opcode.Make(opcode.OpCallNative, 1)...) // append(list, 7) -> [list, null]
	code = append(code, opcode.Make(opcode.OpPop)...)           // discard append's void result -> [list]
	code = append(code, opcode.Make(opcode.OpDup)...)           // [list, list]
	code = append(code, opcode.Make(opcode.OpConstInt, 1)...)   // index 0
	code = append(code, opcode.Make(opcode.OpCallNative, 2)...) // get(list, 0) -> [list, 7]
	code = append(code, opcode.Make(opcode.OpReturn)...)

	exe := buildExecutable(code, appendDesc, getDesc)
	exe.Classes = []*runtime.ClassObject{runtime.ListClass}
	exe.Constants = []runtime.ExecConstant{
		{Kind: runtime.ExecConstInt, Int: 7},
		{Kind: runtime.ExecConstInt, Int: 0},
	}

	got := run(t, exe)
	if got.Tag != runtime.CellInt || got.Int != 7 {
		t.Fatalf("got %+v, want int 7", got)
	}
}
