package link_test

import (
	"testing"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/codegen"
	"github.com/funvibe/venom/internal/link"
	"github.com/funvibe/venom/internal/pipeline"
	"github.com/funvibe/venom/internal/runtime"
	"github.com/funvibe/venom/internal/vm"
)

// buildArithExecutable compiles `return 2 * (3 + 4)` through
// pipeline.Compile (analyzer, rewrite and codegen, as concat_test.go does;
// codegen.Generate alone rejects a top-level statement that ModuleMain has
// not wrapped into <main>) and links it, so this file can stay focused on
// the YAML round trip.
func buildArithExecutable(t *testing.T) *link.Executable {
	t.Helper()
	root := &ast.ModuleRoot{
		Path: "main",
		Body: &ast.StmtList{Stmts: []ast.Node{
			&ast.Return{Expr: &ast.BinopExpr{
				Op:   ast.OpMul,
				Left: &ast.IntLiteral{Value: 2},
				Right: &ast.BinopExpr{
					Op:    ast.OpAdd,
					Left:  &ast.IntLiteral{Value: 3},
					Right: &ast.IntLiteral{Value: 4},
				},
			}},
		}},
	}
	oc, _, err := pipeline.Compile("main", root, nil)
	if err != nil {
		t.Fatalf("pipeline.Compile: %v", err)
	}
	exe, err := link.Link([]*codegen.ObjectCode{oc}, 0)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	return exe
}

func runExe(t *testing.T, exe *link.Executable) runtime.Cell {
	t.Helper()
	// vm.ExecutionContext is single-use (spec §4.6): a fresh one is built
	// per Run, never reused across the two halves of this test.
	execCtx, err := vm.NewExecutionContext(exe)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result, err := execCtx.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

// TestYAMLRoundTripDeterminism exercises spec §8's "serialize, reload,
// re-execute" property: saving an Executable to YAML and loading it back
// must reproduce the exact same result a direct run of the original
// Executable gives, via two entirely separate ExecutionContexts (the type
// is single-use, so this never reuses one across the two runs).
func TestYAMLRoundTripDeterminism(t *testing.T) {
	exe := buildArithExecutable(t)

	want := runExe(t, exe)
	if want.Tag != runtime.CellInt || want.Int != 14 {
		t.Fatalf("direct run of 2*(3+4) = %+v, want IntCell(14)", want)
	}

	data, err := link.SaveYAML(exe)
	if err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}

	reloaded, err := link.LoadYAML(data)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	got := runExe(t, reloaded)
	if got != want {
		t.Fatalf("reloaded run = %+v, want %+v (original)", got, want)
	}

	// Running the original Executable a second time (fresh ExecutionContext)
	// must also agree, confirming Executable itself is reusable even though
	// ExecutionContext is not.
	again := runExe(t, exe)
	if again != want {
		t.Fatalf("second direct run = %+v, want %+v", again, want)
	}
}

// TestYAMLRoundTripBuiltinNative confirms a linked Executable that pulls in
// a built-in native function (print, spec §8's stdout scenarios) survives
// the round trip: LoadYAML must re-resolve NativeFunc by name rather than
// leaving it nil, since yaml.v3 cannot marshal a Go func value.
func TestYAMLRoundTripBuiltinNative(t *testing.T) {
	root := &ast.ModuleRoot{
		Path: "main",
		Body: &ast.StmtList{Stmts: []ast.Node{
			&ast.ExprStmt{Expr: &ast.FunctionCall{
				Target: &ast.Variable{Name: "print"},
				Args:   &ast.ExprList{Exprs: []ast.ExprNode{&ast.IntLiteral{Value: 7}}},
			}},
			&ast.Return{Expr: &ast.IntLiteral{Value: 0}},
		}},
	}
	// pipeline.Compile seeds print into the module's root scope itself.
	oc, _, err := pipeline.Compile("main", root, nil)
	if err != nil {
		t.Fatalf("pipeline.Compile: %v", err)
	}
	exe, err := link.Link([]*codegen.ObjectCode{oc}, 0)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}

	data, err := link.SaveYAML(exe)
	if err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}
	reloaded, err := link.LoadYAML(data)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	var printFn *runtime.FunctionDescriptor
	for _, fd := range reloaded.Functions {
		if fd.Name == "print" {
			printFn = fd
		}
	}
	if printFn == nil {
		t.Fatalf("reloaded executable has no print function descriptor")
	}
	if printFn.NativeFunc == nil {
		t.Fatalf("reloaded print descriptor has a nil NativeFunc; LoadYAML failed to re-resolve it")
	}

	got := runExe(t, reloaded)
	if got.Tag != runtime.CellInt || got.Int != 0 {
		t.Fatalf("reloaded run = %+v, want IntCell(0)", got)
	}
}
