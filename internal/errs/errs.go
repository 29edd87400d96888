// Package errs defines the error kinds raised by the Venom pipeline.
//
// Spec §7 names five distinct error kinds, each introduced at a specific
// stage and surfaced only at the compile_and_exec API boundary: ParseError,
// SemanticViolation, TypeViolation, LinkerException, and
// VenomRuntimeException. None is recovered locally inside the core.
package errs

import "fmt"

// Pos is a source location. The zero value marks a synthetic node
// (inserted by the rewrite pipeline) with no originating source position.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Line == 0 {
		return "<synthetic>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseError is surfaced by the (external) parser.
type ParseError struct {
	Pos Pos
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("ParseError at %s: %s", e.Pos, e.Msg) }

// SemanticViolation covers scoping, redeclaration, and unresolved-import
// errors raised by the semantic analyzer (spec §4.2).
type SemanticViolation struct {
	Pos Pos
	Msg string
}

func (e *SemanticViolation) Error() string {
	return fmt.Sprintf("SemanticViolation at %s: %s", e.Pos, e.Msg)
}

// TypeViolation covers assignment/argument/return type mismatches, invalid
// overrides, and numeric/bitwise operand rule violations (spec §4.2/§7).
type TypeViolation struct {
	Pos Pos
	Msg string
}

func (e *TypeViolation) Error() string { return fmt.Sprintf("TypeViolation at %s: %s", e.Pos, e.Msg) }

// LinkerException is raised when the linker cannot resolve an external
// function or class reference (spec §4.5).
type LinkerException struct {
	Msg string
}

func (e *LinkerException) Error() string { return fmt.Sprintf("LinkerException: %s", e.Msg) }

// VenomRuntimeException is raised by the VM (e.g. a null dereference on a
// _REF opcode) and is fatal to the current execute() invocation; the
// ExecutionContext must not be reused afterward (spec §5, §8.6).
type VenomRuntimeException struct {
	Msg string
}

func (e *VenomRuntimeException) Error() string {
	return fmt.Sprintf("VenomRuntimeException: %s", e.Msg)
}

// NewNullDereference builds the one well-known runtime error named in
// spec §4.6: a null dereference on a _REF attribute or array access.
func NewNullDereference() *VenomRuntimeException {
	return &VenomRuntimeException{Msg: "Null pointer dereferenced"}
}
