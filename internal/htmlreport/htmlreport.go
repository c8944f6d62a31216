// Package htmlreport renders a diag.Bag as a static HTML page: a fixed CSS
// scaffold plus one `<div class="error">` block per diagnostic, grouped by
// source line, each with its own `^` caret marker under the offending
// column — the stable format spec.md §7 fixes for `--html-report`.
package htmlreport

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/tsxscript/tsx/internal/diag"
)

const style = `<style>
body { font-family: monospace; background: #1e1e1e; color: #d4d4d4; padding: 2em; }
h1 { color: #e06c75; font-size: 1.1em; }
.error { background: #2a2a2a; border-left: 4px solid #e06c75; margin: 1em 0; padding: 0.75em 1em; }
.error .header { color: #e5c07b; font-weight: bold; }
.error .source { white-space: pre; color: #abb2bf; margin-top: 0.5em; }
.error .caret { color: #e06c75; white-space: pre; }
</style>`

// Render produces a full HTML document for diagnostics found while
// processing source from the given filename. Diagnostics are grouped (and
// sorted) by source line, matching spec.md §7's "one labeled block per
// error grouped by line".
func Render(filename, source string, diagnostics []*diag.Diagnostic) string {
	sorted := append([]*diag.Diagnostic(nil), diagnostics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Pos.Line != sorted[j].Pos.Line {
			return sorted[i].Pos.Line < sorted[j].Pos.Line
		}
		return sorted[i].Pos.Column < sorted[j].Pos.Column
	})

	lines := strings.Split(source, "\n")

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>Type errors: %s</title>\n", html.EscapeString(filename))
	b.WriteString(style)
	b.WriteString("\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%d error(s) in %s</h1>\n", len(sorted), html.EscapeString(filename))

	for _, d := range sorted {
		b.WriteString("<div class=\"error\">\n")
		fmt.Fprintf(&b, "<div class=\"header\">%s:%d:%d: %s [%s]</div>\n",
			html.EscapeString(filename), d.Pos.Line, d.Pos.Column, html.EscapeString(d.Message), d.Kind)

		if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
			line := lines[d.Pos.Line-1]
			fmt.Fprintf(&b, "<div class=\"source\">%s</div>\n", html.EscapeString(line))
			caret := strings.Repeat(" ", max(0, d.Pos.Column-1)) + "^"
			fmt.Fprintf(&b, "<div class=\"caret\">%s</div>\n", html.EscapeString(caret))
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}
