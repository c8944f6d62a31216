package htmlreport

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/token"
)

// TestRender_Snapshot locks down the stable HTML report format spec.md §7
// requires: a fixed CSS scaffold plus one caret-annotated block per
// diagnostic, grouped and sorted by line. Snapshotted with go-snaps, the
// same structural-golden-output tool go-dws reaches for (see
// CWBudde-go-dws/internal/interp/fixture_test.go).
func TestRender_Snapshot(t *testing.T) {
	source := "let x: number = \"hi\";\nlet y = x.bogus;\n"
	diagnostics := []*diag.Diagnostic{
		diag.New(diag.KindTypeMismatch, token.Position{Line: 1, Column: 17}, `type "string" is not assignable to type "number"`),
		diag.New(diag.KindUnknownProperty, token.Position{Line: 2, Column: 11}, `property "bogus" does not exist`),
	}

	snaps.MatchSnapshot(t, Render("example.ts", source, diagnostics))
}
