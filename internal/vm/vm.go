// Package vm implements Venom's stack-based bytecode interpreter (spec §4.6
// "Execution model"): a typed operand stack, a flat locals region sliced
// per call frame, and a switch-dispatched instruction loop over a linked
// link.Executable.
//
// Grounded on the teacher's internal/vm VM/CallFrame split (a flat value
// stack plus a frame stack recording each call's base offset and return
// point), adapted from the teacher's closure-upvalue model to Venom's
// explicit ref-counted Cell/Object model (spec §3, §4.6) — there is no GC
// to lean on, so every call/return here also walks the ref-counting
// contract the original C++ interpreter (original_source/src/backend/vm.h)
// specifies.
package vm

import (
	"fmt"

	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/link"
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/runtime"
)

// Frame is one call's activation record (spec §4.6 "Frame lifecycle"):
// which function is running, where its locals live in the flat locals
// region, and where to resume the caller on OP_RETURN.
type Frame struct {
	Desc       *runtime.FunctionDescriptor
	ReturnPC   int
	LocalBase  int
	// StackBase is the operand-stack depth this call started at, restored
	// by OP_RETURN after the callee's return value is computed — guards
	// against a miscompiled function leaving junk behind on the stack.
	StackBase int

	// CtorObj is set when this frame is running a constructor invoked by
	// OP_NEW (spec §4.6 "Object lifecycle"). A constructor's own RETURN is
	// void; when this frame unwinds, the VM discards its computed return
	// value and pushes CtorObj instead, so OP_NEW's result lands on the
	// stack only after the constructor body has actually finished running
	// — without a second, re-entrant dispatch loop.
	CtorObj *runtime.Object
}

// ExecutionContext is one program run (spec §3 "ExecutionContext"): the
// linked program plus the VM's mutable state. Unlike the original C++
// interpreter's reentrant resumeExecution design (needed because native
// code there calls back into the interpreter without unwinding the C++
// call stack), Venom's built-in natives never call back into Venom
// bytecode, so a single iterative dispatch loop over an explicit frame
// stack is sufficient (DESIGN.md).
type ExecutionContext struct {
	Exe *link.Executable

	Stack []runtime.Cell
	Locals []runtime.Cell

	// Globals backs OP_LOAD_GLOBAL_REF/OP_STORE_GLOBAL_REF. No module in
	// this compiler's pipeline currently emits either opcode — Venom has
	// no top-level mutable variables, only class/function declarations at
	// module scope (ast.ModuleRoot.Body), so the slot table starts empty
	// and grows lazily if anything ever does (DESIGN.md).
	Globals []runtime.Cell

	Frames []Frame
	frame  *Frame

	PC int
}

func (ctx *ExecutionContext) globalsRef() []runtime.Cell { return ctx.Globals }

func (ctx *ExecutionContext) growGlobals(slot int) {
	for slot >= len(ctx.Globals) {
		ctx.Globals = append(ctx.Globals, runtime.NullCell())
	}
}

// ExecError reports a VM-detected failure: an unresolved call target, a
// division by zero, or a stack-discipline violation (spec's
// VenomRuntimeException). An error a native function returns is passed on
// unchanged, not wrapped in an ExecError.
type ExecError struct {
	Message string
}

func (e *ExecError) Error() string { return e.Message }

func execErrorf(format string, args ...any) error {
	return &ExecError{Message: fmt.Sprintf(format, args...)}
}

// NewExecutionContext prepares exe for running, locating <main> (spec §4.5
// step 7).
func NewExecutionContext(exe *link.Executable) (*ExecutionContext, error) {
	if !exe.HasMain {
		return nil, execErrorf("vm: linked program has no entry point")
	}
	ctx := &ExecutionContext{
		Exe:    exe,
		Stack:  make([]runtime.Cell, 0, 256),
		Locals: make([]runtime.Cell, 0, 256),
	}
	return ctx, nil
}

// Run executes the program to completion and returns <main>'s result (spec
// §4.6: a well-typed <main> returns Int, by convention the process exit
// status).
func (ctx *ExecutionContext) Run() (runtime.Cell, error) {
	mainDesc := ctx.findByOffset(ctx.Exe.MainOffset)
	if mainDesc == nil {
		return runtime.Cell{}, execErrorf("vm: no function descriptor at main offset %d", ctx.Exe.MainOffset)
	}
	ctx.pushFrame(mainDesc, -1)
	return ctx.dispatch()
}

func (ctx *ExecutionContext) findByOffset(offset int) *runtime.FunctionDescriptor {
	for _, fd := range ctx.Exe.Functions {
		if !fd.Native && fd.CodeOffset == offset {
			return fd
		}
	}
	return nil
}

// pushFrame allocates desc's locals region and makes it the running frame.
// The caller has already pushed desc's NumParams argument cells onto
// ctx.Stack; they are moved (not copied+retained again) into the new
// frame's locals slots, transferring the strong reference the loader
// established onto the callee's local-variable ownership (spec §4.6
// "argument cells become the callee's first locals"); the remaining
// locals are zeroed.
func (ctx *ExecutionContext) pushFrame(desc *runtime.FunctionDescriptor, returnPC int) {
	ctx.pushFrameFor(desc, returnPC, nil)
}

func (ctx *ExecutionContext) pushFrameFor(desc *runtime.FunctionDescriptor, returnPC int, ctorObj *runtime.Object) {
	base := len(ctx.Locals)
	ctx.Locals = append(ctx.Locals, make([]runtime.Cell, desc.NumLocals)...)

	n := desc.NumParams
	args := ctx.Stack[len(ctx.Stack)-n:]
	copy(ctx.Locals[base:base+n], args)
	ctx.Stack = ctx.Stack[:len(ctx.Stack)-n]

	ctx.Frames = append(ctx.Frames, Frame{
		Desc:      desc,
		ReturnPC:  returnPC,
		LocalBase: base,
		StackBase: len(ctx.Stack),
		CtorObj:   ctorObj,
	})
	ctx.frame = &ctx.Frames[len(ctx.Frames)-1]
	ctx.PC = desc.CodeOffset
}

// popFrame tears the running frame down (spec §4.6 "Frame lifecycle":
// "decRef every ref-typed local still live, then discard the locals
// region"), leaving retval as the only thing the caller sees pushed.
func (ctx *ExecutionContext) popFrame(retval runtime.Cell) {
	f := ctx.frame
	for i, isRef := range f.Desc.LocalIsRef {
		if isRef {
			ctx.Locals[f.LocalBase+i].Obj.DecRef()
		}
	}
	ctx.Locals = ctx.Locals[:f.LocalBase]

	if f.CtorObj != nil {
		retval.Obj.DecRef() // the constructor's own (void) return value
		retval = runtime.RefCell(f.CtorObj)
	}

	returnPC := f.ReturnPC
	ctx.Stack = ctx.Stack[:f.StackBase]
	ctx.Frames = ctx.Frames[:len(ctx.Frames)-1]
	if len(ctx.Frames) == 0 {
		ctx.frame = nil
	} else {
		ctx.frame = &ctx.Frames[len(ctx.Frames)-1]
	}
	ctx.PC = returnPC
	ctx.Stack = append(ctx.Stack, retval)
}

func (ctx *ExecutionContext) code() opcode.Instructions { return ctx.Exe.Code }

func (ctx *ExecutionContext) constAt(idx int) runtime.ExecConstant { return ctx.Exe.Constants[idx] }

func (ctx *ExecutionContext) classAt(idx int) *runtime.ClassObject { return ctx.Exe.Classes[idx] }

func (ctx *ExecutionContext) funcAt(idx int) *runtime.FunctionDescriptor { return ctx.Exe.Functions[idx] }

func maxNativeArgsGuard(n int) error {
	if n > config.MaxNativeArgs {
		return execErrorf("vm: native call arity %d exceeds MaxNativeArgs (%d)", n, config.MaxNativeArgs)
	}
	return nil
}
