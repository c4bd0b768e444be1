package report

import (
	"bufio"
	"fmt"
	"io"
)

type textRenderer struct{}

func (textRenderer) Render(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	for _, e := range r.Entries {
		if e.Skipped {
			fmt.Fprintf(bw, "%s: skipped (NOWARNING)\n", e.File)
			continue
		}
		fmt.Fprintf(bw, "%s: %s, integration %s min, hardware %s min, total %s min",
			e.File, e.Kind,
			formatMinutes(e.Timing.IntegrationMinutes()),
			formatMinutes(e.Timing.HardwareMinutes()),
			formatMinutes(e.Timing.TotalMinutes()),
		)
		if rev := formatRevision(e.Revision); rev != "" {
			fmt.Fprintf(bw, ", last changed %s", rev)
		}
		fmt.Fprintln(bw)
	}

	issues := r.Issues()
	if len(issues) == 0 {
		fmt.Fprintln(bw, "\nNo validation issues found.")
		return bw.Flush()
	}

	for _, g := range groupByScope(issues) {
		fmt.Fprintf(bw, "\n%s:\n", g.Scope)
		for _, i := range g.Issues {
			if i.Line > 0 {
				fmt.Fprintf(bw, "  Line %d: [%s] %s\n", i.Line, i.Severity, i.Message)
			} else {
				fmt.Fprintf(bw, "  [%s] %s\n", i.Severity, i.Message)
			}
			if i.Context != "" {
				fmt.Fprintf(bw, "    Context: %s\n", i.Context)
			}
		}
	}

	s := r.Summary()
	fmt.Fprintf(bw, "\nSummary: %d errors, %d warnings\n", s.Errors, s.Warnings)
	return bw.Flush()
}
