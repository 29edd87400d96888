package vm

import (
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/runtime"
)

func (ctx *ExecutionContext) push(c runtime.Cell) { ctx.Stack = append(ctx.Stack, c) }

func (ctx *ExecutionContext) pop() runtime.Cell {
	n := len(ctx.Stack) - 1
	c := ctx.Stack[n]
	ctx.Stack = ctx.Stack[:n]
	return c
}

func (ctx *ExecutionContext) peek() runtime.Cell { return ctx.Stack[len(ctx.Stack)-1] }

// popN removes and returns the top n cells, in call order (args[0] is the
// deepest of the n).
func (ctx *ExecutionContext) popN(n int) []runtime.Cell {
	base := len(ctx.Stack) - n
	args := append([]runtime.Cell(nil), ctx.Stack[base:]...)
	ctx.Stack = ctx.Stack[:base]
	return args
}

func (ctx *ExecutionContext) local(slot int) runtime.Cell {
	return ctx.Locals[ctx.frame.LocalBase+slot]
}

func (ctx *ExecutionContext) setLocal(slot int, c runtime.Cell) {
	ctx.Locals[ctx.frame.LocalBase+slot] = c
}

// dispatch runs the fetch-decode-execute loop until the outermost frame
// returns or OP_HALT is hit (spec §4.6 "Execution model").
func (ctx *ExecutionContext) dispatch() (runtime.Cell, error) {
	code := ctx.code()

	for {
		op := opcode.Opcode(code[ctx.PC])
		at := ctx.PC + 1

		switch op {
		case opcode.OpConstInt:
			idx := int(opcode.ReadUint16(code[at:]))
			ctx.push(runtime.IntCell(ctx.constAt(idx).Int))
			ctx.PC = at + 2
		case opcode.OpConstFloat:
			idx := int(opcode.ReadUint16(code[at:]))
			ctx.push(runtime.FloatCell(ctx.constAt(idx).Float))
			ctx.PC = at + 2
		case opcode.OpConstBool:
			idx := int(opcode.ReadUint16(code[at:]))
			ctx.push(runtime.BoolCell(ctx.constAt(idx).Bool))
			ctx.PC = at + 2
		case opcode.OpConstString:
			idx := int(opcode.ReadUint16(code[at:]))
			s := runtime.NewString(ctx.constAt(idx).Str)
			ctx.push(runtime.RefCell(s))
			ctx.PC = at + 2

		case opcode.OpPushNull:
			ctx.push(runtime.NullCell())
			ctx.PC = at
		case opcode.OpPop:
			ctx.pop().Obj.DecRef()
			ctx.PC = at
		case opcode.OpDup:
			top := ctx.peek()
			top.Obj.IncRef()
			ctx.push(top)
			ctx.PC = at

		case opcode.OpLoadLocalInt, opcode.OpLoadLocalFloat, opcode.OpLoadLocalBool:
			slot := int(opcode.ReadUint16(code[at:]))
			ctx.push(ctx.local(slot))
			ctx.PC = at + 2
		case opcode.OpLoadLocalRef:
			slot := int(opcode.ReadUint16(code[at:]))
			c := ctx.local(slot)
			c.Obj.IncRef()
			ctx.push(c)
			ctx.PC = at + 2
		case opcode.OpStoreLocalInt, opcode.OpStoreLocalFloat, opcode.OpStoreLocalBool:
			slot := int(opcode.ReadUint16(code[at:]))
			ctx.setLocal(slot, ctx.pop())
			ctx.PC = at + 2
		case opcode.OpStoreLocalRef:
			slot := int(opcode.ReadUint16(code[at:]))
			old := ctx.local(slot)
			ctx.setLocal(slot, ctx.pop())
			old.Obj.DecRef()
			ctx.PC = at + 2

		case opcode.OpLoadGlobalRef:
			slot := int(opcode.ReadUint16(code[at:]))
			ctx.growGlobals(slot)
			c := ctx.Globals[slot]
			c.Obj.IncRef()
			ctx.push(c)
			ctx.PC = at + 2
		case opcode.OpStoreGlobalRef:
			slot := int(opcode.ReadUint16(code[at:]))
			ctx.growGlobals(slot)
			old := ctx.Globals[slot]
			ctx.Globals[slot] = ctx.pop()
			old.Obj.DecRef()
			ctx.PC = at + 2

		case opcode.OpLoadAttrInt, opcode.OpLoadAttrFloat, opcode.OpLoadAttrBool:
			slot := int(opcode.ReadUint16(code[at:]))
			obj := ctx.pop().Obj
			ctx.push(obj.Cells[slot])
			obj.DecRef()
			ctx.PC = at + 2
		case opcode.OpLoadAttrRef:
			slot := int(opcode.ReadUint16(code[at:]))
			obj := ctx.pop().Obj
			c := obj.Cells[slot]
			c.Obj.IncRef()
			ctx.push(c)
			obj.DecRef()
			ctx.PC = at + 2
		case opcode.OpStoreAttrInt, opcode.OpStoreAttrFloat, opcode.OpStoreAttrBool:
			slot := int(opcode.ReadUint16(code[at:]))
			val := ctx.pop()
			obj := ctx.pop().Obj
			obj.Cells[slot] = val
			obj.DecRef()
			ctx.PC = at + 2
		case opcode.OpStoreAttrRef:
			slot := int(opcode.ReadUint16(code[at:]))
			val := ctx.pop()
			obj := ctx.pop().Obj
			old := obj.Cells[slot]
			obj.Cells[slot] = val
			old.Obj.DecRef()
			obj.DecRef()
			ctx.PC = at + 2

		case opcode.OpAddInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.IntCell(a.Int + b.Int))
			ctx.PC = at
		case opcode.OpSubInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.IntCell(a.Int - b.Int))
			ctx.PC = at
		case opcode.OpMulInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.IntCell(a.Int * b.Int))
			ctx.PC = at
		case opcode.OpDivInt:
			b, a := ctx.pop(), ctx.pop()
			if b.Int == 0 {
				return runtime.Cell{}, execErrorf("vm: integer division by zero")
			}
			ctx.push(runtime.IntCell(a.Int / b.Int))
			ctx.PC = at
		case opcode.OpModInt:
			b, a := ctx.pop(), ctx.pop()
			if b.Int == 0 {
				return runtime.Cell{}, execErrorf("vm: integer modulo by zero")
			}
			ctx.push(runtime.IntCell(a.Int % b.Int))
			ctx.PC = at

		case opcode.OpAddFloat:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.FloatCell(a.Float + b.Float))
			ctx.PC = at
		case opcode.OpSubFloat:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.FloatCell(a.Float - b.Float))
			ctx.PC = at
		case opcode.OpMulFloat:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.FloatCell(a.Float * b.Float))
			ctx.PC = at
		case opcode.OpDivFloat:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.FloatCell(a.Float / b.Float))
			ctx.PC = at

		case opcode.OpConcatString:
			b, a := ctx.pop(), ctx.pop()
			s := runtime.NewString(runtime.StringValue(a.Obj) + runtime.StringValue(b.Obj))
			a.Obj.DecRef()
			b.Obj.DecRef()
			ctx.push(runtime.RefCell(s))
			ctx.PC = at

		case opcode.OpLtInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Int < b.Int))
			ctx.PC = at
		case opcode.OpLeInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Int <= b.Int))
			ctx.PC = at
		case opcode.OpGtInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Int > b.Int))
			ctx.PC = at
		case opcode.OpGeInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Int >= b.Int))
			ctx.PC = at
		case opcode.OpLtFloat:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Float < b.Float))
			ctx.PC = at
		case opcode.OpLeFloat:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Float <= b.Float))
			ctx.PC = at
		case opcode.OpGtFloat:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Float > b.Float))
			ctx.PC = at
		case opcode.OpGeFloat:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Float >= b.Float))
			ctx.PC = at

		// OpEqRef/OpNeRef cover both primitive and ref-typed operands (spec
		// §4.1's single equality pair over the union's live tag): reference
		// identity for CellRef, value equality otherwise.
		case opcode.OpEqRef:
			b, a := ctx.pop(), ctx.pop()
			eq := cellEqual(a, b)
			a.Obj.DecRef()
			b.Obj.DecRef()
			ctx.push(runtime.BoolCell(eq))
			ctx.PC = at
		case opcode.OpNeRef:
			b, a := ctx.pop(), ctx.pop()
			eq := cellEqual(a, b)
			a.Obj.DecRef()
			b.Obj.DecRef()
			ctx.push(runtime.BoolCell(!eq))
			ctx.PC = at

		case opcode.OpAndBool:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Bool && b.Bool))
			ctx.PC = at
		case opcode.OpOrBool:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.BoolCell(a.Bool || b.Bool))
			ctx.PC = at
		case opcode.OpNotBool:
			a := ctx.pop()
			ctx.push(runtime.BoolCell(!a.Bool))
			ctx.PC = at
		case opcode.OpNegInt:
			a := ctx.pop()
			ctx.push(runtime.IntCell(-a.Int))
			ctx.PC = at
		case opcode.OpNegFloat:
			a := ctx.pop()
			ctx.push(runtime.FloatCell(-a.Float))
			ctx.PC = at

		case opcode.OpBitAndInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.IntCell(a.Int & b.Int))
			ctx.PC = at
		case opcode.OpBitOrInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.IntCell(a.Int | b.Int))
			ctx.PC = at
		case opcode.OpBitXorInt:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(runtime.IntCell(a.Int ^ b.Int))
			ctx.PC = at
		case opcode.OpBitNotInt:
			a := ctx.pop()
			ctx.push(runtime.IntCell(^a.Int))
			ctx.PC = at

		case opcode.OpJump:
			target := int(opcode.ReadUint16(code[at:]))
			ctx.PC = target
		case opcode.OpJumpIfFalse:
			target := int(opcode.ReadUint16(code[at:]))
			cond := ctx.pop()
			if !cond.Bool {
				ctx.PC = target
			} else {
				ctx.PC = at + 2
			}

		case opcode.OpNew:
			classIdx := int(opcode.ReadUint16(code[at:]))
			ctx.PC = at + 2
			if err := ctx.execNew(classIdx); err != nil {
				return runtime.Cell{}, err
			}

		case opcode.OpCallStatic:
			fnIdx := int(opcode.ReadUint16(code[at:]))
			ctx.PC = at + 2
			if err := ctx.execCallStatic(ctx.funcAt(fnIdx)); err != nil {
				return runtime.Cell{}, err
			}
		case opcode.OpCallVirtual:
			slot := int(opcode.ReadUint16(code[at:]))
			ctx.PC = at + 2
			if err := ctx.execCallVirtual(slot); err != nil {
				return runtime.Cell{}, err
			}
		case opcode.OpCallNative:
			fnIdx := int(opcode.ReadUint16(code[at:]))
			ctx.PC = at + 2
			if err := ctx.execCallNative(ctx.funcAt(fnIdx)); err != nil {
				return runtime.Cell{}, err
			}

		case opcode.OpReturn:
			retval := ctx.pop()
			if len(ctx.Frames) == 1 {
				ctx.popFrame(runtime.Cell{})
				return retval, nil
			}
			ctx.popFrame(retval)
			// popFrame already resumed ctx.PC at the caller's return site.

		case opcode.OpBoxInt:
			a := ctx.pop()
			ctx.push(runtime.RefCell(runtime.NewBoxedInt(a.Int)))
			ctx.PC = at
		case opcode.OpBoxFloat:
			a := ctx.pop()
			ctx.push(runtime.RefCell(runtime.NewBoxedFloat(a.Float)))
			ctx.PC = at
		case opcode.OpBoxBool:
			a := ctx.pop()
			ctx.push(runtime.RefCell(runtime.NewBoxedBool(a.Bool)))
			ctx.PC = at

		// OpUnboxInt/Float/Bool have no emission site in the current code
		// generator (rewrite.BoxPrimitives only ever boxes on the way into
		// an Any-typed slot; nothing in this compiler generates the reverse
		// narrowing). Implemented anyway for completeness, mirroring
		// OpBox*'s inverse: pop a Box{T} reference, push the primitive cell
		// underneath and release the box.
		case opcode.OpUnboxInt:
			box := ctx.pop().Obj
			ctx.push(runtime.IntCell(box.Cells[0].Int))
			box.DecRef()
			ctx.PC = at
		case opcode.OpUnboxFloat:
			box := ctx.pop().Obj
			ctx.push(runtime.FloatCell(box.Cells[0].Float))
			box.DecRef()
			ctx.PC = at
		case opcode.OpUnboxBool:
			box := ctx.pop().Obj
			ctx.push(runtime.BoolCell(box.Cells[0].Bool))
			box.DecRef()
			ctx.PC = at

		// OpRefGet/OpRefSet likewise have no codegen emission site: Ref{T}
		// access is generated as ordinary LOAD_ATTR_*/STORE_ATTR_* against
		// slot 0, typed per T at the call site (codegen's loadAttrOp).
		// Implemented here as the slot-0, tag-polymorphic equivalent for
		// any future emitter that wants a single opcode regardless of T.
		case opcode.OpRefGet:
			ref := ctx.pop().Obj
			v := ref.Cells[0]
			v.Obj.IncRef()
			ctx.push(v)
			ref.DecRef()
			ctx.PC = at
		case opcode.OpRefSet:
			val := ctx.pop()
			ref := ctx.pop().Obj
			old := ref.Cells[0]
			ref.Cells[0] = val
			old.Obj.DecRef()
			ref.DecRef()
			ctx.PC = at

		case opcode.OpHalt:
			return runtime.Cell{}, nil

		default:
			return runtime.Cell{}, execErrorf("vm: undefined opcode %d at pc %d", op, ctx.PC)
		}
	}
}

// cellEqual implements OP_EQ_REF/OP_NE_REF's comparison (spec §4.1):
// reference identity for CellRef operands, value equality for primitives.
func cellEqual(a, b runtime.Cell) bool {
	if a.Tag == runtime.CellRef {
		return a.Obj == b.Obj
	}
	switch a.Tag {
	case runtime.CellInt:
		return a.Int == b.Int
	case runtime.CellFloat:
		return a.Float == b.Float
	case runtime.CellBool:
		return a.Bool == b.Bool
	}
	return false
}
