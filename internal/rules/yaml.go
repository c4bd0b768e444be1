package rules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/ucompcheck/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads rule tables written in YAML. Keys follow the layout of the
// validator's historical config file; every key is optional and absent keys
// keep their default:
//
//	valid_commands: [data, shut]
//	prefilters: ["1074", "1079"]
//	wavelength_range: {min: 530, max: 1083}
//	timing:
//	  readout_ms: {high: 13.7, low: 7.6}
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML rule-table loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

type yamlSuffixes struct {
	Menu     *string `yaml:"menu"`
	Cookbook *string `yaml:"cookbook"`
	Recipe   *string `yaml:"recipe"`
}

type yamlTiming struct {
	HardwareSec  map[string]float64 `yaml:"hardware_sec"`
	RelaxationMs *float64           `yaml:"relaxation_ms"`
	ReadoutMs    map[string]float64 `yaml:"readout_ms"`
	FramesPerSum *float64           `yaml:"frames_per_sum"`
}

type yamlDocument struct {
	Suffixes *yamlSuffixes `yaml:"suffixes"`

	ValidCommands    []string `yaml:"valid_commands"`
	IgnoreCommands   []string `yaml:"ignore_commands"`
	PositionCommands []string `yaml:"position_commands"`

	PositionValues  []string `yaml:"position_values"`
	GainValues      []string `yaml:"gain_values"`
	CameraValues    []string `yaml:"camera_values"`
	ContinuumValues []string `yaml:"continuum_values"`
	Prefilters      []string `yaml:"prefilters"`

	WavelengthRange *Range `yaml:"wavelength_range"`
	ExposureRange   *Range `yaml:"exposure_range"`
	NumsumRange     *Range `yaml:"numsum_range"`
	AngleRange      *Range `yaml:"angle_range"`

	Timing   *yamlTiming `yaml:"timing"`
	MaxDepth *int        `yaml:"max_depth"`
}

// Load parses the YAML file at path and applies it on top of base. Unknown
// keys are rejected so that typos do not silently fall back to defaults.
func (l *YAMLLoader) Load(ctx context.Context, path string, base *Table) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML rule loader started.", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open YAML rule file %s: %w", path, err)
	}
	defer f.Close()

	var doc yamlDocument
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML rule file %s: %w", path, err)
	}

	table := doc.apply(*base)
	logger.Debug("YAML rule file decoded.", "path", path)
	return &table, nil
}

func (d *yamlDocument) apply(table Table) Table {
	if s := d.Suffixes; s != nil {
		if s.Menu != nil {
			table.Suffixes.Menu = *s.Menu
		}
		if s.Cookbook != nil {
			table.Suffixes.Cookbook = *s.Cookbook
		}
		if s.Recipe != nil {
			table.Suffixes.Recipe = *s.Recipe
		}
	}

	overrides := []struct {
		src []string
		dst *[]string
	}{
		{d.ValidCommands, &table.ValidCommands},
		{d.IgnoreCommands, &table.IgnoreCommands},
		{d.PositionCommands, &table.PositionCommands},
		{d.PositionValues, &table.PositionValues},
		{d.GainValues, &table.GainValues},
		{d.CameraValues, &table.CameraValues},
		{d.ContinuumValues, &table.ContinuumValues},
		{d.Prefilters, &table.Prefilters},
	}
	for _, o := range overrides {
		if o.src != nil {
			*o.dst = lowerAll(o.src)
		}
	}

	if d.WavelengthRange != nil {
		table.Wavelength = *d.WavelengthRange
	}
	if d.ExposureRange != nil {
		table.Exposure = *d.ExposureRange
	}
	if d.NumsumRange != nil {
		table.Numsum = *d.NumsumRange
	}
	if d.AngleRange != nil {
		table.Angle = *d.AngleRange
	}

	if t := d.Timing; t != nil {
		if t.HardwareSec != nil {
			table.Timing.HardwareSec = mergeFloats(table.Timing.HardwareSec, t.HardwareSec)
		}
		if t.ReadoutMs != nil {
			table.Timing.ReadoutMs = mergeFloats(table.Timing.ReadoutMs, t.ReadoutMs)
		}
		if t.RelaxationMs != nil {
			table.Timing.RelaxationMs = *t.RelaxationMs
		}
		if t.FramesPerSum != nil {
			table.Timing.FramesPerSum = *t.FramesPerSum
		}
	}
	if d.MaxDepth != nil {
		table.MaxDepth = *d.MaxDepth
	}
	return table
}
