package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, overridden by build flags, per go-dws's
// cmd/dwscript/cmd/root.go.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tsx",
	Short: "A TypeScript-subset interpreter",
	Long: `tsx lexes, parses, type-checks, compiles, and runs a small
statically-typed subset of TypeScript: primitives, arrays, functions and
closures, classes with single inheritance, interfaces, generics, and the
control-flow narrowing a type checker needs to track typeof/instanceof
guards.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
