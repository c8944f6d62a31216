package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsxscript/tsx/internal/checker"
	"github.com/tsxscript/tsx/internal/compiler"
	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/parser"
	"github.com/tsxscript/tsx/internal/vm"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Each input line is compiled and run as an independent program that
shares a persistent set of globals and a persistent type-check scope with
every previous line, per spec.md §6. Lines beginning with "." are REPL
commands:

  .exit      leave the REPL
  .typeson   re-enable type checking before running each line (default)
  .typeoff   disable type checking (run whatever parses, for experimentation)`,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(_ *cobra.Command, _ []string) error {
	chk := checker.New()
	machine := vm.NewWithBuiltins()
	machine.SetOutput(os.Stdout)
	typecheckEnabled := true

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			fmt.Print("> ")
			continue
		case ".exit":
			return nil
		case ".typeson":
			typecheckEnabled = true
			fmt.Println("type checking enabled")
			fmt.Print("> ")
			continue
		case ".typeoff":
			typecheckEnabled = false
			fmt.Println("type checking disabled")
			fmt.Print("> ")
			continue
		}

		replLine(line, chk, machine, typecheckEnabled)
		fmt.Print("> ")
	}
	return scanner.Err()
}

func replLine(line string, chk *checker.Checker, machine *vm.VM, typecheckEnabled bool) {
	p := parser.New(line)
	prog := p.ParseProgram()
	if syntaxDiags := p.Diagnostics(); len(syntaxDiags) > 0 {
		printDiagnostics("<repl>", line, syntaxDiags)
		return
	}

	if typecheckEnabled {
		before := chk.Diagnostics()
		newDiags := diffDiagnostics(before, chk.CheckProgram(prog))
		if len(newDiags) > 0 {
			printDiagnostics("<repl>", line, newDiags)
			return
		}
	}

	fn, err := compiler.New().Compile(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile error: %s\n", err)
		return
	}

	result, err := machine.Run(fn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
		return
	}
	if !result.IsUndefined() && !result.IsNull() {
		fmt.Println(result.String())
	}
}

// diffDiagnostics returns the diagnostics in after that come after every
// diagnostic already in before, since checker.Checker.Diagnostics grows
// across the session's lines rather than resetting per call.
func diffDiagnostics(before, after []*diag.Diagnostic) []*diag.Diagnostic {
	if len(after) <= len(before) {
		return nil
	}
	return after[len(before):]
}
