package report

import (
	"io"

	json "github.com/goccy/go-json"
	"github.com/vk/ucompcheck/internal/model"
)

type jsonIssue struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	File    string `json:"file"`
	Line    *int   `json:"line"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

type jsonTiming struct {
	IntegrationMs      float64 `json:"integration_ms"`
	HardwareSec        float64 `json:"hardware_sec"`
	IntegrationMinutes float64 `json:"integration_minutes"`
	HardwareMinutes    float64 `json:"hardware_minutes"`
	TotalMinutes       float64 `json:"total_minutes"`
}

type jsonEntry struct {
	File        string      `json:"file"`
	Kind        string      `json:"kind"`
	Skipped     bool        `json:"skipped"`
	Revision    string      `json:"revision,omitempty"`
	Timing      jsonTiming  `json:"timing"`
	Wavelengths []string    `json:"wavelengths"`
	Issues      []jsonIssue `json:"issues"`
}

type jsonSummary struct {
	Files    int        `json:"files"`
	Skipped  int        `json:"skipped"`
	Total    int        `json:"total"`
	Errors   int        `json:"errors"`
	Warnings int        `json:"warnings"`
	Timing   jsonTiming `json:"timing"`
}

type jsonDocument struct {
	Entries []jsonEntry `json:"entries"`
	Summary jsonSummary `json:"summary"`
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, r *Report) error {
	doc := jsonDocument{Entries: make([]jsonEntry, 0, len(r.Entries))}
	for _, e := range r.Entries {
		je := jsonEntry{
			File:        e.File,
			Kind:        e.Kind.String(),
			Skipped:     e.Skipped,
			Revision:    formatRevision(e.Revision),
			Timing:      newJSONTiming(e.Timing),
			Wavelengths: append([]string{}, e.Wavelengths...),
			Issues:      make([]jsonIssue, 0, len(e.Issues)),
		}
		for _, i := range e.Issues {
			ji := jsonIssue{
				Level:   i.Severity.String(),
				Code:    string(i.Code),
				Field:   i.Field,
				File:    i.Scope.String(),
				Message: i.Message,
				Context: i.Context,
			}
			if i.Line > 0 {
				line := i.Line
				ji.Line = &line
			}
			je.Issues = append(je.Issues, ji)
		}
		doc.Entries = append(doc.Entries, je)
	}

	s := r.Summary()
	doc.Summary = jsonSummary{
		Files:    s.Files,
		Skipped:  s.Skipped,
		Total:    s.Total,
		Errors:   s.Errors,
		Warnings: s.Warnings,
		Timing:   newJSONTiming(s.Timing),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func newJSONTiming(t model.Timing) jsonTiming {
	return jsonTiming{
		IntegrationMs:      t.IntegrationMs,
		HardwareSec:        t.HardwareSec,
		IntegrationMinutes: t.IntegrationMinutes(),
		HardwareMinutes:    t.HardwareMinutes(),
		TotalMinutes:       t.TotalMinutes(),
	}
}
