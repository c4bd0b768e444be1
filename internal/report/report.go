// Package report renders validation results for people and for CI.
//
// A Report gathers one Entry per validated root file. Renderers never
// decide exit codes; HasErrors and HasWarnings are for the driver.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/vk/ucompcheck/internal/model"
)

// Format selects a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatGitHub   Format = "github"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats in the order they are documented.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatGitHub, FormatMarkdown}
}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats(), f) {
		return f, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// Entry is the outcome of validating one root file.
type Entry struct {
	File    string
	Kind    model.Kind
	Skipped bool
	Issues  model.Issues
	Timing  model.Timing
	// Wavelengths seen in data commands, in first-seen order.
	Wavelengths []string
	// Revision is the time of the last commit touching File; zero when unknown.
	Revision time.Time
}

// Report is an ordered collection of entries.
type Report struct {
	Entries []Entry
}

// Add appends e.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Sort orders entries by file name so parallel runs render identically.
func (r *Report) Sort() {
	slices.SortStableFunc(r.Entries, func(a, b Entry) int {
		return strings.Compare(a.File, b.File)
	})
}

// Issues returns every issue of every entry in entry order.
func (r *Report) Issues() model.Issues {
	var all model.Issues
	for _, e := range r.Entries {
		all = append(all, e.Issues...)
	}
	return all
}

// HasErrors reports whether any entry has an Error.
func (r *Report) HasErrors() bool {
	return r.Issues().HasErrors()
}

// HasWarnings reports whether any entry has a Warning.
func (r *Report) HasWarnings() bool {
	return r.Issues().HasWarnings()
}

// Summary aggregates counts over the report.
type Summary struct {
	Files    int
	Skipped  int
	Total    int
	Errors   int
	Warnings int
	Timing   model.Timing
}

// Summary computes the aggregate counts.
func (r *Report) Summary() Summary {
	var s Summary
	for _, e := range r.Entries {
		s.Files++
		if e.Skipped {
			s.Skipped++
		}
		s.Total += len(e.Issues)
		s.Errors += e.Issues.Count(model.SeverityError)
		s.Warnings += e.Issues.Count(model.SeverityWarning)
		s.Timing = s.Timing.Add(e.Timing)
	}
	return s
}

// Renderer writes a report in one format.
type Renderer interface {
	Render(w io.Writer, r *Report) error
}

// NewRenderer returns the renderer for f.
func NewRenderer(f Format) (Renderer, error) {
	switch f {
	case FormatText:
		return textRenderer{}, nil
	case FormatJSON:
		return jsonRenderer{}, nil
	case FormatGitHub:
		return githubRenderer{}, nil
	case FormatMarkdown:
		return markdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", f)
	}
}

// Render is a convenience for NewRenderer followed by Render.
func Render(w io.Writer, f Format, r *Report) error {
	renderer, err := NewRenderer(f)
	if err != nil {
		return err
	}
	return renderer.Render(w, r)
}

// issueGroup is the issues of one location, ordered by line.
type issueGroup struct {
	Scope  string
	Issues model.Issues
}

// groupByScope groups issues by their dotted scope, sorted by scope and then
// by line. Issues without a line sort first within their scope.
func groupByScope(issues model.Issues) []issueGroup {
	index := make(map[string]int)
	var groups []issueGroup
	for _, i := range issues {
		key := i.Scope.String()
		n, ok := index[key]
		if !ok {
			n = len(groups)
			index[key] = n
			groups = append(groups, issueGroup{Scope: key})
		}
		groups[n].Issues = append(groups[n].Issues, i)
	}
	slices.SortFunc(groups, func(a, b issueGroup) int {
		return strings.Compare(a.Scope, b.Scope)
	})
	for _, g := range groups {
		slices.SortStableFunc(g.Issues, func(a, b model.Issue) int {
			return a.Line - b.Line
		})
	}
	return groups
}

func formatMinutes(m float64) string {
	return fmt.Sprintf("%.2f", m)
}

func formatRevision(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
