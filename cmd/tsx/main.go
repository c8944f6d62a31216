// Command tsx is the CLI front end for this TypeScript-subset interpreter:
// lex, parse, type-check, compile to bytecode, and run, all from one
// binary, in the style of go-dws's cmd/dwscript.
package main

import (
	"fmt"
	"os"

	"github.com/tsxscript/tsx/cmd/tsx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
