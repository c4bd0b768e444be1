// Package outline renders a validated menu as the nested markdown outline and
// plain-text summary tree used by observers to review a night's plan.
//
// An Outline is fed by interpreter hooks, so it sees exactly what the
// validator executed: unrolled loops, resolved file names and the state each
// data command ran in.
package outline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/ucompcheck/internal/instrument"
	"github.com/vk/ucompcheck/internal/interpreter"
	"github.com/vk/ucompcheck/internal/model"
)

// Icons mark data commands and recipes by the class of exposure they take.
const (
	IconData  = "&#x1F4D7;"
	IconFlat  = "&#x1F4D8;"
	IconDark  = "&#x1F4D9;"
	IconCalib = "&#x1F4D5;"
)

const (
	lineBreak  = "\n &#xE0020;"
	fieldSep   = "\t"
	indentUnit = "------"
)

// recipes whose name contains one of these set the instrument up rather
// than observe, so they get no icon.
var setupMarkers = []string{"_fw", "_pol", "setup", "_in", "_out"}

// Outline accumulates the markdown and summary of one traversal. It is not
// safe for concurrent use; give every Validate call its own Outline.
type Outline struct {
	md          strings.Builder
	summary     strings.Builder
	wavelengths []string
	seen        map[string]bool
}

// New returns an Outline with the icon legend already written.
func New() *Outline {
	o := &Outline{seen: make(map[string]bool)}
	legend := []string{
		IconData + " = data",
		IconFlat + " = flat",
		IconDark + " = dark",
		IconCalib + " = calib",
	}
	o.md.WriteString(strings.Join(legend, "  \n"))
	o.md.WriteString("\n\n")
	return o
}

// Hooks returns the callbacks that feed o.
func (o *Outline) Hooks() interpreter.Hooks {
	return interpreter.Hooks{
		OnChildEnter: o.enter,
		OnChildExit:  o.exit,
		OnCommand:    o.command,
	}
}

func (o *Outline) enter(_ context.Context, ev interpreter.NodeEvent) {
	name := ev.Node.Name
	fmt.Fprintf(&o.summary, " %s > %s\n", strings.Repeat(indentUnit, ev.Depth-1), name)

	o.md.WriteString("<details><summary>")
	if ev.Node.Kind == model.KindRecipe && !isSetup(name) {
		o.md.WriteString(iconFor(ev.State.Classify()))
	}
	o.md.WriteString(name)
	o.md.WriteString("</summary><blockquote><pre>")
}

func (o *Outline) exit(_ context.Context, ev interpreter.NodeEvent) {
	if ev.Node.Kind == model.KindRecipe {
		fmt.Fprintf(&o.md, "\nIntegration:%.2f minutes. Hardware:%.2f minutes. total:%.2f minutes  ",
			ev.Timing.IntegrationMinutes(), ev.Timing.HardwareMinutes(), ev.Timing.TotalMinutes())
	}
	o.md.WriteString("</pre></blockquote></details>")
}

func (o *Outline) command(_ context.Context, ev interpreter.CommandEvent) {
	if ev.Issue != nil && ev.Issue.Severity == model.SeverityError {
		return
	}
	fields := append([]string{ev.Command.Name}, ev.Command.Args...)
	text := strings.Join(fields, fieldSep)

	fmt.Fprintf(&o.summary, "%s> %s\n", strings.Repeat(indentUnit, ev.Depth), text)

	if ev.Command.Name == "data" {
		o.md.WriteString(iconFor(ev.Class))
		o.addWavelength(ev.Command.Args[2])
	}
	o.md.WriteString(text)
	o.md.WriteString(lineBreak)
}

func (o *Outline) addWavelength(w string) {
	if o.seen[w] {
		return
	}
	o.seen[w] = true
	o.wavelengths = append(o.wavelengths, w)
}

// Markdown returns the nested details outline.
func (o *Outline) Markdown() string {
	return o.md.String()
}

// Summary returns the plain indented tree.
func (o *Outline) Summary() string {
	return o.summary.String()
}

// Wavelengths returns the wavelengths of executed data commands in first-seen
// order.
func (o *Outline) Wavelengths() []string {
	return append([]string(nil), o.wavelengths...)
}

// WriteFiles writes <stem>.md and <stem>.summary into dir, where stem is the
// base name of root without its extension.
func (o *Outline) WriteFiles(dir, root string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create outline directory %s: %w", dir, err)
	}
	base := filepath.Base(root)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	files := map[string]string{
		stem + ".md":      o.Markdown(),
		stem + ".summary": o.Summary(),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write outline %s: %w", path, err)
		}
	}
	return nil
}

func iconFor(c instrument.Class) string {
	switch c {
	case instrument.ClassDark:
		return IconDark
	case instrument.ClassFlat:
		return IconFlat
	case instrument.ClassCoronal:
		return IconData
	case instrument.ClassCalibration:
		return IconCalib
	default:
		return ""
	}
}

func isSetup(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range setupMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
