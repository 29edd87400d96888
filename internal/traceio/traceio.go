// Package traceio renders the CLI's diagnostic dumps — --trace-lex,
// --trace-parse, --print-ast, --print-bytecode (spec §6 "CLI surface") —
// as YAML documents rather than ad hoc fmt.Printf trees (SPEC_FULL §A.3),
// the same role the teacher's --print-ast flag serves in cmd/funxy. Each
// Dump* function returns a string ready to write to stderr/stdout; none of
// them touches os directly, so cmd/venom decides where a trace goes.
package traceio

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/codegen"
	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/token"
)

type tokenDoc struct {
	Type    string `yaml:"type"`
	Lexeme  string `yaml:"lexeme,omitempty"`
	Literal any    `yaml:"literal,omitempty"`
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
}

// DumpTokens renders a lexed token stream for --trace-lex.
func DumpTokens(toks []token.Token) (string, error) {
	docs := make([]tokenDoc, len(toks))
	for i, t := range toks {
		docs[i] = tokenDoc{Type: t.Type.String(), Lexeme: t.Lexeme, Literal: t.Literal, Line: t.Line, Column: t.Column}
	}
	out, err := yaml.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("traceio: DumpTokens: %w", err)
	}
	return string(out), nil
}

// astNode is a shallow, cycle-free summary of one ast.Node: its dynamic
// type, a one-line label drawn from whichever fields identify it (Name,
// Value, Op, ...), and its children by ast.Node's generic NumKids/Kid
// walk — deliberately not a reflection dump of the real struct, since
// ast.Base.Symbols can point back into a symbol table that itself
// references the AST (SPEC_FULL §A.3: "a stable, diffable trace format",
// not an exhaustive field listing).
type astNode struct {
	Kind     string     `yaml:"kind"`
	Detail   string     `yaml:"detail,omitempty"`
	Children []*astNode `yaml:"children,omitempty"`
}

func describe(n ast.Node) *astNode {
	if n == nil {
		return &astNode{Kind: "<nil>"}
	}
	d := &astNode{Kind: fmt.Sprintf("%T", n), Detail: detail(n)}
	for i := 0; i < n.NumKids(); i++ {
		kid := n.Kid(i)
		if kid == nil {
			continue
		}
		d.Children = append(d.Children, describe(kid))
	}
	return d
}

// detail extracts the one or two fields that make a node's dump readable
// without printing its whole struct (a name, a literal value, an
// operator) — every ast node not named here still dumps fine, just with
// an empty Detail.
func detail(n ast.Node) string {
	switch v := n.(type) {
	case *ast.ModuleRoot:
		return v.Path
	case *ast.Import:
		return v.Path
	case *ast.FuncDecl:
		return v.Name
	case *ast.ClassDecl:
		return v.Name
	case *ast.ClassAttrDecl:
		return v.Name
	case *ast.Variable:
		return v.Name
	case *ast.AttrAccess:
		return v.Name
	case *ast.IntLiteral:
		return fmt.Sprintf("%d", v.Value)
	case *ast.FloatLiteral:
		return fmt.Sprintf("%g", v.Value)
	case *ast.BoolLiteral:
		return fmt.Sprintf("%t", v.Value)
	case *ast.StringLiteral:
		return v.Value
	case *ast.BinopExpr:
		return binopName(v.Op)
	case *ast.UnopExpr:
		return unopName(v.Op)
	default:
		return ""
	}
}

func binopName(op ast.BinopKind) string {
	names := [...]string{"add", "sub", "mul", "div", "mod", "lt", "le", "gt", "ge", "eq", "ne", "and", "or", "bitand", "bitor", "bitxor"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func unopName(op ast.UnopKind) string {
	names := [...]string{"neg", "not", "bitnot"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// DumpAST renders root's full tree for --print-ast.
func DumpAST(root *ast.ModuleRoot) (string, error) {
	out, err := yaml.Marshal(describe(root))
	if err != nil {
		return "", fmt.Errorf("traceio: DumpAST: %w", err)
	}
	return string(out), nil
}

// DumpParseTree renders just root's top-level declarations for
// --trace-parse: a lighter-weight sibling of DumpAST, one line per
// top-level import/class/func so a large module's trace stays skimmable.
func DumpParseTree(root *ast.ModuleRoot) (string, error) {
	var tops []*astNode
	for _, stmt := range root.Body.Stmts {
		tops = append(tops, &astNode{Kind: fmt.Sprintf("%T", stmt), Detail: detail(stmt)})
	}
	out, err := yaml.Marshal(struct {
		Module string     `yaml:"module"`
		Top    []*astNode `yaml:"top_level"`
	}{Module: root.Path, Top: tops})
	if err != nil {
		return "", fmt.Errorf("traceio: DumpParseTree: %w", err)
	}
	return string(out), nil
}

type funcDoc struct {
	Name       string `yaml:"name"`
	Native     bool   `yaml:"native,omitempty"`
	OwnerClass string `yaml:"owner_class,omitempty"`
	Code       string `yaml:"code,omitempty"`
}

type classDoc struct {
	Name    string   `yaml:"name"`
	Parent  string   `yaml:"parent,omitempty"`
	Fields  []string `yaml:"fields,omitempty"`
	HasCtor bool     `yaml:"has_ctor,omitempty"`
}

// DumpBytecode renders one module's generated ObjectCode for
// --print-bytecode: every local function's disassembly (opcode.Disassemble
// formats the same opcode.Instructions the VM runs) plus a class summary.
func DumpBytecode(oc *codegen.ObjectCode) (string, error) {
	var funcs []funcDoc
	for _, fc := range oc.LocalFuncs {
		fd := funcDoc{Name: fc.Name, Native: fc.IsNative}
		if fc.HasOwner {
			fd.OwnerClass = oc.LocalClasses[fc.OwnerClass].Name
		}
		if !fc.IsNative {
			fd.Code = opcode.Disassemble(fc.Code)
		}
		funcs = append(funcs, fd)
	}
	var classes []classDoc
	for _, cc := range oc.LocalClasses {
		cd := classDoc{Name: cc.Name, Fields: cc.FieldNames, HasCtor: cc.HasCtor}
		if cc.HasParent {
			cd.Parent = fmt.Sprintf("ref:%d", cc.Parent)
		}
		classes = append(classes, cd)
	}
	out, err := yaml.Marshal(struct {
		Module      string     `yaml:"module"`
		Functions   []funcDoc  `yaml:"functions"`
		Classes     []classDoc `yaml:"classes"`
		HasMainFunc bool       `yaml:"has_main_func"`
	}{Module: oc.ModulePath, Functions: funcs, Classes: classes, HasMainFunc: oc.HasMainFunc})
	if err != nil {
		return "", fmt.Errorf("traceio: DumpBytecode: %w", err)
	}
	return string(out), nil
}
