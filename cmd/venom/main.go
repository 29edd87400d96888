// Command venom is the reference driver for the Venom core: it reads a
// .venom source file, drives lexer → parser → pipeline.Compile →
// pipeline.Link → vm.ExecutionContext, and reports one of spec §7's five
// error kinds on failure. Grounded in the teacher's cmd/funxy/main.go
// style — a hand-parsed os.Args loop rather than the flag package, the
// same "- prefixed switch over os.Args" shape the teacher uses for its own
// subcommands — scaled down to the one CLI surface spec §6 names.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/venom/internal/analyzer"
	"github.com/funvibe/venom/internal/ast"
	"github.com/funvibe/venom/internal/codegen"
	"github.com/funvibe/venom/internal/config"
	"github.com/funvibe/venom/internal/errs"
	"github.com/funvibe/venom/internal/lexer"
	"github.com/funvibe/venom/internal/link"
	"github.com/funvibe/venom/internal/parser"
	"github.com/funvibe/venom/internal/pipeline"
	"github.com/funvibe/venom/internal/symbols"
	"github.com/funvibe/venom/internal/traceio"
	"github.com/funvibe/venom/internal/token"
	"github.com/funvibe/venom/internal/vm"
)

// options holds the parsed CLI surface (spec §6).
type options struct {
	traceLex          bool
	traceParse        bool
	printAST          bool
	printBytecode     bool
	semanticCheckOnly bool
	importPath        string
	sourcePath        string
}

func parseArgs(args []string) (*options, error) {
	o := &options{importPath: "."}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--trace-lex":
			o.traceLex = true
		case arg == "--trace-parse":
			o.traceParse = true
		case arg == "--print-ast":
			o.printAST = true
		case arg == "--print-bytecode":
			o.printBytecode = true
		case arg == "--semantic-check-only":
			o.semanticCheckOnly = true
		case arg == "--venom-import-path":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("--venom-import-path requires a path argument")
			}
			o.importPath = args[i]
		case strings.HasPrefix(arg, "--venom-import-path="):
			o.importPath = strings.TrimPrefix(arg, "--venom-import-path=")
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unrecognized flag %q", arg)
		default:
			if o.sourcePath != "" {
				return nil, fmt.Errorf("unexpected extra argument %q", arg)
			}
			o.sourcePath = arg
		}
	}
	if o.sourcePath == "" {
		return nil, fmt.Errorf("usage: venom [flags] <file%s>", config.SourceFileExt)
	}
	return o, nil
}

func main() {
	o, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(run(o))
}

// run performs the whole pipeline and returns the process exit status
// (spec §7: zero on success, non-zero on any of the five error kinds).
func run(o *options) int {
	d := newDriver(o)

	modPath := modulePathForFile(o.sourcePath)
	if _, _, err := d.compileFile(modPath, o.sourcePath); err != nil {
		d.reportError(err)
		return exitCodeFor(err)
	}

	if o.semanticCheckOnly {
		return 0
	}

	objs := make([]*codegen.ObjectCode, 0, len(d.order))
	mainIdx := -1
	for i, path := range d.order {
		objs = append(objs, d.compiled[path].oc)
		if path == modPath {
			mainIdx = i
		}
	}

	exe, err := pipeline.Link(objs, mainIdx)
	if err != nil {
		d.reportError(err)
		return exitCodeFor(err)
	}

	if o.printBytecode {
		for _, path := range d.order {
			dump, derr := traceio.DumpBytecode(d.compiled[path].oc)
			if derr == nil {
				fmt.Fprintln(os.Stderr, dump)
			}
		}
	}

	execCtx, err := vm.NewExecutionContext(exe)
	if err != nil {
		d.reportError(err)
		return exitCodeFor(err)
	}
	if _, err := execCtx.Run(); err != nil {
		d.reportError(err)
		return exitCodeFor(err)
	}
	return 0
}

// compiledModule is one source file's fully-compiled front half, cached so
// a diamond import graph only lexes/parses/analyzes each module once.
type compiledModule struct {
	oc  *codegen.ObjectCode
	ctx *symbols.SemanticContext
}

// driver recursively lexes, parses, and compiles a module and its
// transitive imports (spec §6 "import a.b.c maps to
// <import_root>/a/b/c.venom"), tying internal/lexer and internal/parser
// into the analyzer.Loader contract internal/pipeline already expects.
type driver struct {
	opts     *options
	compiled map[string]*compiledModule
	order    []string // compilation order, main module last-or-first is not assumed
	stack    map[string]bool
	styler   styler
}

func newDriver(o *options) *driver {
	return &driver{
		opts:     o,
		compiled: map[string]*compiledModule{},
		stack:    map[string]bool{},
		styler:   newStyler(),
	}
}

// modulePathForFile keys the entry file by its cleaned, slash-separated
// path rather than a dotted module path, since it is never the target of an
// `import`.
func modulePathForFile(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// compileFile lexes, parses, and runs pipeline.Compile on one file. modPath
// identifies it for caching and cycle detection — the entry file's cleaned
// relative path, or an imported module's dotted path (spec §6);
// filePath is the concrete file to read in either case.
func (d *driver) compileFile(modPath, filePath string) (*codegen.ObjectCode, *symbols.SemanticContext, error) {
	if cm, ok := d.compiled[modPath]; ok {
		return cm.oc, cm.ctx, nil
	}
	if d.stack[modPath] {
		return nil, nil, &errs.SemanticViolation{Msg: fmt.Sprintf("import cycle involving %q", modPath)}
	}
	d.stack[modPath] = true
	defer delete(d.stack, modPath)

	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, &errs.SemanticViolation{Msg: fmt.Sprintf("reading %q: %v", filePath, err)}
	}

	root, err := d.parseSource(modPath, string(src))
	if err != nil {
		return nil, nil, err
	}

	if d.opts.printAST {
		dump, derr := traceio.DumpAST(root)
		if derr == nil {
			fmt.Fprintln(os.Stderr, dump)
		}
	}

	oc, ctx, err := pipeline.Compile(modPath, root, d.loaderFor())
	if err != nil {
		return nil, nil, err
	}
	d.compiled[modPath] = &compiledModule{oc: oc, ctx: ctx}
	d.order = append(d.order, modPath)
	return oc, ctx, nil
}

// parseSource lexes the whole input (collecting its tokens for
// --trace-lex, spec §6), then parses it (dumping the result for
// --trace-parse).
func (d *driver) parseSource(modPath, src string) (*ast.ModuleRoot, error) {
	if d.opts.traceLex {
		var toks []token.Token
		l := lexer.New(src)
		for {
			t := l.NextToken()
			toks = append(toks, t)
			if t.Type == token.EOF {
				break
			}
		}
		dump, derr := traceio.DumpTokens(toks)
		if derr == nil {
			fmt.Fprintln(os.Stderr, dump)
		}
	}

	root, err := parser.Parse(modPath, src)
	if err != nil {
		return nil, err
	}

	if d.opts.traceParse {
		dump, derr := traceio.DumpParseTree(root)
		if derr == nil {
			fmt.Fprintln(os.Stderr, dump)
		}
	}
	return root, nil
}

// loaderFor returns the analyzer.Loader this driver's imports resolve
// through: a dotted path `a.b.c` becomes `<import-root>/a/b/c.venom`
// (spec §6), compiled (and cached) the same way the entry file is.
func (d *driver) loaderFor() analyzer.Loader {
	return func(path string) (*symbols.SemanticContext, error) {
		rel := filepath.Join(strings.Split(path, ".")...) + config.SourceFileExt
		full := filepath.Join(d.opts.importPath, rel)
		_, ctx, err := d.compileFile(path, full)
		if err != nil {
			return nil, err
		}
		return ctx, nil
	}
}

// reportError prints spec §7's "single line... containing the error kind
// and human-readable message" to stderr, styled if stderr is a terminal
// (SPEC_FULL §B, grounded in the teacher's builtins_term.go color-level
// detection).
func (d *driver) reportError(err error) {
	fmt.Fprintln(os.Stderr, d.styler.red(err.Error()))
}

// exitCodeFor maps an error to a non-zero status (spec §7 lists five error
// kinds as "non-zero"; distinct codes make the failing stage identifiable
// without parsing the message).
func exitCodeFor(err error) int {
	switch err.(type) {
	case *errs.ParseError:
		return 1
	case *errs.SemanticViolation:
		return 2
	case *errs.TypeViolation:
		return 3
	case *link.LinkerException:
		return 4
	case *pipeline.Diagnostics:
		return 2
	default:
		// Covers runtime.RuntimeError/vm.ExecError (VenomRuntimeException,
		// spec §7) and anything else that reaches the API boundary.
		return 5
	}
}

// styler gates ANSI color codes behind an isatty check (SPEC_FULL §B),
// the same NO_COLOR/isatty combination the teacher's detectColorLevel uses
// before it ever emits an escape code.
type styler struct{ enabled bool }

func newStyler() styler {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return styler{}
	}
	fd := os.Stderr.Fd()
	return styler{enabled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func (s styler) red(msg string) string {
	if !s.enabled {
		return msg
	}
	return "\x1b[31m" + msg + "\x1b[0m"
}
