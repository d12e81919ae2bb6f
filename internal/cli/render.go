package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/shanehandley/servo/internal/diag"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	locStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	codeStyle    = lipgloss.NewStyle().Faint(true)
)

// RenderDiagnostics writes human-readable diagnostics, one per line:
//
//	navigation.webidl:12:3: error[E301]: unresolved type reference "Foo" ...
func RenderDiagnostics(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		severity := warningStyle.Render(d.Severity.String())
		if d.Severity == diag.Error {
			severity = errorStyle.Render(d.Severity.String())
		}

		loc := d.Unit
		if d.Pos.IsValid() {
			loc = fmt.Sprintf("%s:%s", d.Unit, d.Pos)
		}
		fmt.Fprintf(w, "%s: %s%s: %s\n",
			locStyle.Render(loc),
			severity,
			codeStyle.Render("["+d.Code+"]"),
			d.Message)
	}
}

// DiagnosticSummary renders the closing "N error(s), M warning(s)" line.
func DiagnosticSummary(diags []diag.Diagnostic) string {
	var errs, warns int
	for _, d := range diags {
		switch d.Severity {
		case diag.Error:
			errs++
		case diag.Warning:
			warns++
		}
	}
	return fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
}
