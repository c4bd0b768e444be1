package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vk/ucompcheck/internal/model"
)

type markdownRenderer struct{}

func (markdownRenderer) Render(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Validation Report")
	fmt.Fprintln(bw)

	s := r.Summary()
	fmt.Fprintln(bw, "## Summary")
	fmt.Fprintf(bw, "- **Files:** %d (%d skipped)\n", s.Files, s.Skipped)
	fmt.Fprintf(bw, "- **Errors:** %d\n", s.Errors)
	fmt.Fprintf(bw, "- **Warnings:** %d\n", s.Warnings)
	fmt.Fprintln(bw)

	if len(r.Entries) > 0 {
		fmt.Fprintln(bw, "## Timing")
		fmt.Fprintln(bw, "| File | Kind | Integration (min) | Hardware (min) | Total (min) | Last changed |")
		fmt.Fprintln(bw, "|---|---|---|---|---|---|")
		for _, e := range r.Entries {
			if e.Skipped {
				fmt.Fprintf(bw, "| %s | %s | skipped | | | %s |\n", e.File, e.Kind, formatRevision(e.Revision))
				continue
			}
			fmt.Fprintf(bw, "| %s | %s | %s | %s | %s | %s |\n", e.File, e.Kind,
				formatMinutes(e.Timing.IntegrationMinutes()),
				formatMinutes(e.Timing.HardwareMinutes()),
				formatMinutes(e.Timing.TotalMinutes()),
				formatRevision(e.Revision),
			)
		}
		fmt.Fprintln(bw)
	}

	issues := r.Issues()
	if len(issues) == 0 {
		fmt.Fprintln(bw, "✅ No validation issues found.")
		return bw.Flush()
	}

	fmt.Fprintln(bw, "## Issues")
	fmt.Fprintln(bw)
	for _, g := range groupByScope(issues) {
		fmt.Fprintf(bw, "### %s\n", g.Scope)
		for _, i := range g.Issues {
			icon := "❌"
			if i.Severity == model.SeverityWarning {
				icon = "⚠️"
			}
			location := "File"
			if i.Line > 0 {
				location = fmt.Sprintf("Line %d", i.Line)
			}
			fmt.Fprintf(bw, "- %s **%s**: %s\n", icon, location, i.Message)
			if i.Context != "" {
				fmt.Fprintf(bw, "  - Context: `%s`\n", i.Context)
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
