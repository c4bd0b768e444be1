package rules

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/vk/ucompcheck/internal/model"
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%g-%g", r.Min, r.Max)
}

// Timing holds the constants used to estimate how long a script runs.
type Timing struct {
	// HardwareSec is the time charged when a mechanism command changes the
	// stored position, keyed by command name.
	HardwareSec map[string]float64
	// RelaxationMs is charged once per data command.
	RelaxationMs float64
	// ReadoutMs is the camera readout time per frame, keyed by gain.
	ReadoutMs map[string]float64
	// FramesPerSum is the number of camera frames per summed image.
	FramesPerSum float64
}

// Table is the complete rule table.
type Table struct {
	Suffixes model.Suffixes

	ValidCommands    []string
	IgnoreCommands   []string
	PositionCommands []string

	PositionValues  []string
	GainValues      []string
	CameraValues    []string
	ContinuumValues []string
	Prefilters      []string

	Wavelength Range
	Exposure   Range
	Numsum     Range
	Angle      Range

	Timing Timing

	// MaxDepth bounds script nesting; deeper references are reported as cyclic.
	MaxDepth int
}

// Default returns a fresh copy of the built-in UCoMP rule table.
func Default() *Table {
	return &Table{
		Suffixes: model.DefaultSuffixes(),
		ValidCommands: []string{
			"data", "cal", "dark", "fw", "occ", "diffuser", "calib",
			"occyrel", "saveall", "occxrel", "o1", "calret", "calpol",
			"cover", "shut", "exposure", "nd", "gain", "distortiongrid",
			"modwait", "prefilterrange",
		},
		IgnoreCommands:   []string{"date", "author", "description"},
		PositionCommands: []string{"cover", "occ", "shut", "calib", "diffuser", "distortiongrid", "nd"},
		PositionValues:   []string{"in", "out"},
		GainValues:       []string{"high", "low"},
		CameraValues:     []string{"rcam", "tcam"},
		ContinuumValues:  []string{"both", "red", "blue"},
		Prefilters: []string{
			"530", "637", "656", "670", "691", "706", "761",
			"789", "802", "991", "1074", "1079", "1083",
		},
		Wavelength: Range{Min: 530, Max: 1083},
		Exposure:   Range{Min: 1, Max: 84},
		Numsum:     Range{Min: 1, Max: 16},
		Angle:      Range{Min: 0, Max: 360},
		Timing: Timing{
			HardwareSec: map[string]float64{
				"cover":          60,
				"occ":            20,
				"prefilterrange": 25,
				"calret":         5,
				"calpol":         5,
				"calib":          20,
				"diffuser":       20,
			},
			RelaxationMs: 300,
			ReadoutMs:    map[string]float64{"high": 13.7, "low": 7.6},
			FramesPerSum: 4,
		},
		MaxDepth: 32,
	}
}

// IsValid reports whether name is a recognized command.
func (t *Table) IsValid(name string) bool {
	return slices.Contains(t.ValidCommands, name)
}

// IsIgnored reports whether name is recognized but carries no instrument
// effect (script metadata such as author or date). Header forms such as
// "author:" match their bare name.
func (t *Table) IsIgnored(name string) bool {
	return slices.Contains(t.IgnoreCommands, strings.TrimSuffix(name, ":"))
}

// IsPosition reports whether name takes an in/out position argument.
func (t *Table) IsPosition(name string) bool {
	return slices.Contains(t.PositionCommands, name)
}

// Validate checks that the table is usable. It is called after every load.
func (t *Table) Validate() error {
	var errs []error
	if err := t.Suffixes.Validate(); err != nil {
		errs = append(errs, err)
	}

	sets := []struct {
		name   string
		values []string
	}{
		{"valid_commands", t.ValidCommands},
		{"position_values", t.PositionValues},
		{"gain_values", t.GainValues},
		{"camera_values", t.CameraValues},
		{"continuum_values", t.ContinuumValues},
		{"prefilters", t.Prefilters},
	}
	for _, s := range sets {
		if len(s.values) == 0 {
			errs = append(errs, fmt.Errorf("%s must not be empty", s.name))
		}
	}

	for _, cmd := range t.PositionCommands {
		if !t.IsValid(cmd) {
			errs = append(errs, fmt.Errorf("position command %q is not a valid command", cmd))
		}
	}
	for _, cmd := range t.IgnoreCommands {
		if t.IsValid(cmd) {
			errs = append(errs, fmt.Errorf("command %q cannot be both valid and ignored", cmd))
		}
	}

	ranges := []struct {
		name string
		r    Range
	}{
		{"wavelength", t.Wavelength},
		{"exposure", t.Exposure},
		{"numsum", t.Numsum},
		{"angle", t.Angle},
	}
	for _, rg := range ranges {
		if rg.r.Min > rg.r.Max {
			errs = append(errs, fmt.Errorf("%s range min %g exceeds max %g", rg.name, rg.r.Min, rg.r.Max))
		}
	}
	if t.Numsum.Min != math.Trunc(t.Numsum.Min) || t.Numsum.Max != math.Trunc(t.Numsum.Max) {
		errs = append(errs, fmt.Errorf("numsum range %s must have integer bounds", t.Numsum))
	}

	for _, gain := range t.GainValues {
		if _, ok := t.Timing.ReadoutMs[gain]; !ok {
			errs = append(errs, fmt.Errorf("no camera readout time for gain %q", gain))
		}
	}
	for cmd, sec := range t.Timing.HardwareSec {
		if sec < 0 {
			errs = append(errs, fmt.Errorf("hardware time for %q must not be negative", cmd))
		}
	}
	if t.Timing.FramesPerSum <= 0 {
		errs = append(errs, errors.New("frames_per_sum must be positive"))
	}
	if t.MaxDepth <= 0 {
		errs = append(errs, errors.New("max_depth must be positive"))
	}

	return errors.Join(errs...)
}
