package ast_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/tsxscript/tsx/internal/parser"
)

// TestProgram_String_Snapshot round-trips a program through the real
// parser and snapshots its pretty-printed form, exercising printer.go's
// toString() machinery (spec.md §8 invariant 2) across every statement
// and expression kind worth a golden render. go-snaps is the teacher's
// own choice for this kind of structural-render assertion (see
// CWBudde-go-dws/internal/interp/fixture_test.go).
func TestProgram_String_Snapshot(t *testing.T) {
	source := `
class Animal {
  public name: string;
  constructor(name: string) { this.name = name; }
  speak(): string { return this.name; }
}

function makeCounter() {
  let n = 0;
  function inc() { n = n + 1; return n; }
  return inc;
}

let counter = makeCounter();
if (typeof counter === "function") {
  counter();
}
`
	prog := parser.New(source).ParseProgram()
	snaps.MatchSnapshot(t, prog.String())
}
