package vm

import "github.com/funvibe/venom/internal/runtime"

// vtableArity returns the NumParams (self included) every class's VTable[slot]
// descriptor shares. Override-compatible virtual methods always agree on
// arity (Venom's static type checker rejects a signature-incompatible
// override), so any class whose vtable reaches slot gives the right answer
// — we don't yet know the receiver's concrete class, which is exactly what
// this lookup is used to find (codegen encodes CALL_VIRTUAL's operand as a
// bare vtable slot, not a function-pool index, so the arity has to come
// from somewhere other than the instruction itself).
func (ctx *ExecutionContext) vtableArity(slot int) (int, error) {
	for _, co := range ctx.Exe.Classes {
		if slot < len(co.VTable) && co.VTable[slot] != nil {
			return co.VTable[slot].NumParams, nil
		}
	}
	return 0, execErrorf("vm: no class defines vtable slot %d", slot)
}

// execCallVirtual implements OP_CALL_VIRTUAL (spec §4.6 "virtual dispatch"):
// the receiver sits beneath its arguments on the stack (codegen pushes it
// first); its concrete class's vtable resolves the actual override.
func (ctx *ExecutionContext) execCallVirtual(slot int) error {
	arity, err := ctx.vtableArity(slot)
	if err != nil {
		return err
	}
	recv := ctx.Stack[len(ctx.Stack)-arity]
	if recv.Obj == nil {
		return execErrorf("vm: virtual call on null receiver")
	}
	desc := recv.Obj.Class.VTable[slot]
	if desc == nil {
		return execErrorf("vm: class %q has no override at vtable slot %d", recv.Obj.Class.Name, slot)
	}
	if desc.Native {
		return ctx.execCallNative(desc)
	}
	ctx.pushFrame(desc, ctx.PC)
	return nil
}

// execCallStatic implements OP_CALL_STATIC: direct call, non-virtual
// dispatch (ordinary function calls, super calls, constructors reached via
// OP_NEW — codegen never routes a native descriptor through here).
func (ctx *ExecutionContext) execCallStatic(desc *runtime.FunctionDescriptor) error {
	if desc.Native {
		return ctx.execCallNative(desc)
	}
	ctx.pushFrame(desc, ctx.PC)
	return nil
}

// execCallNative implements OP_CALL_NATIVE (spec §4.6 "native trampoline"):
// pop exactly NumParams cells, invoke the Go function synchronously (no VM
// frame is pushed — natives never call back into Venom bytecode, see
// vm.go's package doc), then release every borrowed ref-typed argument per
// ParamIsRef, honoring whatever the native itself chose to retain (e.g.
// list.append's extra IncRef on the stored element).
func (ctx *ExecutionContext) execCallNative(desc *runtime.FunctionDescriptor) error {
	if err := maxNativeArgsGuard(desc.NumParams); err != nil {
		return err
	}
	if desc.NativeFunc == nil {
		return execErrorf("vm: unresolved native function %q", desc.Name)
	}
	args := ctx.popN(desc.NumParams)
	result, err := desc.NativeFunc(args)
	for i, isRef := range desc.ParamIsRef {
		if isRef {
			args[i].Obj.DecRef()
		}
	}
	if err != nil {
		return err
	}
	ctx.push(result)
	return nil
}

// execNew implements OP_NEW (spec §4.6 "Object lifecycle"): allocate a
// zeroed instance, run its constructor (ordinary call convention, self
// first), then bring its refcount to 1 for the reference OP_NEW itself
// produces on the stack.
func (ctx *ExecutionContext) execNew(classIdx int) error {
	co := ctx.classAt(classIdx)
	obj := runtime.NewObject(co)

	ctorArgs := 0
	if co.HasCtor {
		ctorArgs = co.Ctor.NumParams - 1
	}
	args := ctx.popN(ctorArgs)

	obj.RefCount = 1
	if co.HasCtor {
		full := append([]runtime.Cell{runtime.RefCell(obj)}, args...)
		if co.Ctor.Native {
			if err := maxNativeArgsGuard(len(full)); err != nil {
				return err
			}
			if co.Ctor.NativeFunc == nil {
				return execErrorf("vm: unresolved native constructor for class %q", co.Name)
			}
			if _, err := co.Ctor.NativeFunc(full); err != nil {
				return err
			}
			for i, isRef := range co.Ctor.ParamIsRef {
				if i == 0 {
					continue // self: OP_NEW keeps this exact reference, not a borrowed copy
				}
				if isRef {
					full[i].Obj.DecRef()
				}
			}
		} else {
			// The ctor's own "self" local gets its own reference, separate
			// from the one OP_NEW hands back to the caller below — popFrame
			// will decRef it like any other ref-typed local when the ctor
			// returns, so without this extra IncRef the object would be
			// freed out from under OP_NEW's own result.
			obj.IncRef()
			ctx.Stack = append(ctx.Stack, full...)
			// pushFrameFor's ctorObj marks this frame so its eventual
			// OP_RETURN (handled by the ordinary dispatch loop, not a
			// separate nested one) pushes obj instead of the
			// constructor's own void result (vm.go's Frame.CtorObj).
			ctx.pushFrameFor(co.Ctor, ctx.PC, obj)
			return nil
		}
	}

	ctx.push(runtime.RefCell(obj))
	return nil
}
