package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsxscript/tsx/internal/htmlreport"
	"github.com/tsxscript/tsx/internal/pipeline"
)

var typecheckHTMLReport bool

var typecheckCmd = &cobra.Command{
	Use:   "typecheck [file]",
	Short: "Type-check a program without running it",
	Long: `Parse and type-check a program, printing diagnostics and exiting
without compiling or executing it. Exit 0 means zero type errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: typecheckScript,
}

func init() {
	rootCmd.AddCommand(typecheckCmd)

	typecheckCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "type-check inline code instead of reading from file")
	typecheckCmd.Flags().BoolVar(&typecheckHTMLReport, "html-report", false, "write <file>.type-errors.html alongside plain diagnostics")
}

func typecheckScript(_ *cobra.Command, args []string) error {
	source, filename, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}

	prog, syntaxDiags := pipeline.Parse(source)
	if len(syntaxDiags) > 0 {
		printDiagnostics(filename, source, syntaxDiags)
		return fmt.Errorf("parsing failed with %d error(s)", len(syntaxDiags))
	}

	typeDiags := pipeline.TypeCheck(prog)
	if len(typeDiags) == 0 {
		fmt.Println("no type errors")
		return nil
	}

	printDiagnostics(filename, source, typeDiags)
	if typecheckHTMLReport {
		for _, d := range typeDiags {
			d.File = filename
		}
		out := htmlreport.Render(filename, source, typeDiags)
		path := filename + ".type-errors.html"
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write HTML report: %v\n", err)
		}
	}
	return fmt.Errorf("type checking failed with %d error(s)", len(typeDiags))
}
