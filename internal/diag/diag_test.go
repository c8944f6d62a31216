package diag

import (
	"strings"
	"testing"

	"github.com/tsxscript/tsx/internal/token"
)

func TestFormat_IncludesCaretAtColumn(t *testing.T) {
	d := New(KindTypeMismatch, token.Position{Line: 2, Column: 5}, "cannot assign string to number")
	out := d.Format("let x = 1;\nx = \"no\";", false)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header+source+caret, got %d lines: %q", len(lines), out)
	}
	caretCol := strings.Index(lines[2], "^")
	if caretCol != strings.Index(lines[1], "\"no\"") {
		t.Errorf("caret at %d, expected column of offending token", caretCol)
	}
}

func TestFormat_NoSourceOmitsCaret(t *testing.T) {
	d := New(KindSyntax, token.Position{Line: 1, Column: 1}, "unexpected token")
	out := d.Format("", false)
	if strings.Contains(out, "^") {
		t.Error("should not render a caret without source text")
	}
}

func TestBag_HasErrors(t *testing.T) {
	var b Bag
	if b.HasErrors() {
		t.Error("empty bag should report no errors")
	}
	b.Add(New(KindSyntax, token.Position{Line: 1, Column: 1}, "boom"))
	if !b.HasErrors() {
		t.Error("bag with an Error-severity diagnostic should report HasErrors")
	}
}
