package codegen

import (
	"encoding/binary"

	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/symbols"
)

// funcEmitter accumulates one function/method body's instruction stream
// and its local-variable pool (spec §4.4 "per-function local-variable pool
// keyed by Symbol identity"). Jump targets are emitted relative to this
// function's own start (position 0); the linker rebases them when
// concatenating instruction streams into the final program (spec §4.5 step
// 5, "PC-relative jump resolution").
type funcEmitter struct {
	gen      *Generator
	fc       *FuncCode
	isMethod bool
	selfSlot int

	localIdx   map[*symbols.ValueSymbol]int
	localIsRef []bool

	code opcode.Instructions

	// tempCounter names synthetic locals introduced by desugared constructs
	// (for-loop bookkeeping), reusing slots is not attempted — spec §4.4
	// calls for a "reusable temp-Symbol pool" but Venom's single-pass
	// expression-stack emission never needs more than one live temp at a
	// time per nesting level, so a monotonically increasing counter with no
	// reuse is observably identical and far simpler.
	tempCounter int
}

func (fe *funcEmitter) nextSlot() int {
	idx := len(fe.localIsRef)
	fe.localIsRef = append(fe.localIsRef, true)
	return idx
}

// declareLocal assigns (or returns the existing) local slot for sym,
// recording whether it is ref-typed so the VM can initialize
// locals_ref_info on frame entry (spec §4.6).
func (fe *funcEmitter) declareLocal(sym *symbols.ValueSymbol, isRef bool) int {
	if sym == nil {
		return fe.newTemp(isRef)
	}
	if idx, ok := fe.localIdx[sym]; ok {
		return idx
	}
	idx := len(fe.localIsRef)
	fe.localIsRef = append(fe.localIsRef, isRef)
	fe.localIdx[sym] = idx
	return idx
}

func (fe *funcEmitter) newTemp(isRef bool) int {
	fe.tempCounter++
	idx := len(fe.localIsRef)
	fe.localIsRef = append(fe.localIsRef, isRef)
	return idx
}

// localSlot resolves an already-declared local's slot, declaring it on
// first sight (spec §4.2 "assignment to an undeclared name introduces a
// new local", mirrored here since codegen sees the same AST the analyzer
// already approved).
func (fe *funcEmitter) localSlot(sym *symbols.ValueSymbol) int {
	return fe.declareLocal(sym, sym.Type == nil || !sym.Type.IsPrimitive())
}

func (fe *funcEmitter) emit(op opcode.Opcode, operands ...int) int {
	pos := len(fe.code)
	fe.code = append(fe.code, opcode.Make(op, operands...)...)
	return pos
}

// emitJump emits op with a placeholder 2-byte operand, returning its
// position for a later patchJump call once the real target is known.
func (fe *funcEmitter) emitJump(op opcode.Opcode) int {
	return fe.emit(op, 0xFFFF)
}

// patchJump rewrites the jump instruction at pos to target the current end
// of the instruction stream.
func (fe *funcEmitter) patchJump(pos int) {
	fe.patchJumpTo(pos, len(fe.code))
}

func (fe *funcEmitter) patchJumpTo(pos, target int) {
	binary.BigEndian.PutUint16(fe.code[pos+1:pos+3], uint16(target))
}
