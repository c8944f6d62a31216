package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsxscript/tsx/internal/bytecode"
	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/htmlreport"
	"github.com/tsxscript/tsx/internal/pipeline"
	"github.com/tsxscript/tsx/internal/vm"
)

var (
	evalExpr    string
	dumpAST     bool
	traceExec   bool
	showBytecode bool
	typecheckOnly bool
	htmlReport  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a program",
	Long: `Lex, parse, type-check, compile, and run a program from a file or
inline expression.

Examples:
  # Run a script file
  tsx run script.tsx

  # Evaluate an inline expression
  tsx run -e "print(1 + 2);"

  # Dump the parsed AST and the compiled bytecode
  tsx run --dump-ast --show-bytecode script.tsx

  # Stop after type checking and write an HTML error report
  tsx run --typecheck --html-report script.tsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST")
	runCmd.Flags().BoolVar(&traceExec, "trace", false, "announce execution start/end on stderr")
	runCmd.Flags().BoolVar(&showBytecode, "show-bytecode", false, "dump the compiled bytecode disassembly")
	runCmd.Flags().BoolVar(&typecheckOnly, "typecheck", false, "stop after type-checking; don't compile or run")
	runCmd.Flags().BoolVar(&htmlReport, "html-report", false, "write <file>.type-errors.html alongside plain diagnostics")
}

func runScript(_ *cobra.Command, args []string) error {
	source, filename, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}

	prog, syntaxDiags := pipeline.Parse(source)
	if len(syntaxDiags) > 0 {
		printDiagnostics(filename, source, syntaxDiags)
		return fmt.Errorf("parsing failed with %d error(s)", len(syntaxDiags))
	}

	if dumpAST {
		fmt.Println(prog.String())
	}

	typeDiags := pipeline.TypeCheck(prog)
	if len(typeDiags) > 0 {
		printDiagnostics(filename, source, typeDiags)
		if htmlReport {
			if err := writeHTMLReport(filename, source, typeDiags); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write HTML report: %v\n", err)
			}
		}
		return fmt.Errorf("type checking failed with %d error(s)", len(typeDiags))
	}

	if typecheckOnly {
		return nil
	}

	fn, err := pipeline.Compile(prog)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	if showBytecode {
		dumpBytecode(fn, map[*bytecode.Function]bool{})
	}

	if traceExec {
		fmt.Fprintf(os.Stderr, "[running %s]\n", filename)
	}

	machine := vm.NewWithBuiltins()
	machine.SetOutput(os.Stdout)
	_, runErr := machine.Run(fn)

	if traceExec {
		fmt.Fprintf(os.Stderr, "[finished %s]\n", filename)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", runErr)
		return fmt.Errorf("execution failed")
	}
	return nil
}

func readInput(eval string, args []string) (source, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}

func printDiagnostics(filename, source string, diags []*diag.Diagnostic) {
	for _, d := range diags {
		d.File = filename
		fmt.Fprintln(os.Stderr, d.Format(source, true))
	}
}

func writeHTMLReport(filename, source string, diags []*diag.Diagnostic) error {
	for _, d := range diags {
		d.File = filename
	}
	out := htmlreport.Render(filename, source, diags)
	path := filename + ".type-errors.html"
	if filename == "<eval>" {
		path = filepath.Join(os.TempDir(), "eval.type-errors.html")
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

// dumpBytecode disassembles fn and every nested Function it references
// through its constant pool, recursively, so closures/methods get their
// own labeled listing too.
func dumpBytecode(fn *bytecode.Function, seen map[*bytecode.Function]bool) {
	if seen[fn] {
		return
	}
	seen[fn] = true
	fmt.Printf("== %s ==\n", displayName(fn))
	fmt.Println(bytecode.Disassemble(fn))
	fmt.Println()
	for _, c := range fn.Constants {
		if nested, ok := c.AsObject().(*bytecode.Function); ok {
			dumpBytecode(nested, seen)
		}
	}
}

func displayName(fn *bytecode.Function) string {
	if fn.Name == "" {
		return "<script>"
	}
	return fn.Name
}
