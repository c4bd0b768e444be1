package rules

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/ucompcheck/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HCLLoader reads rule tables written in HCL:
//
//	suffixes {
//	  cookbook = ".cbk"
//	}
//	commands {
//	  valid  = ["data", "shut"]
//	  ignore = ["date"]
//	}
//	values "prefilter" {
//	  allowed = ["1074", "1079"]
//	}
//	range "wavelength" {
//	  min = 530
//	  max = 1083
//	}
//	timing {
//	  relaxation_ms = 300
//	  readout_ms    = { high = 13.7, low = 7.6 }
//	  hardware_sec  = { cover = 60 }
//	}
//	max_depth = 16
type HCLLoader struct{}

// NewHCLLoader creates a new HCL rule-table loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

// hclRoot is used to decode every top-level block and attribute of a rule file.
type hclRoot struct {
	Suffixes *hclSuffixes `hcl:"suffixes,block"`
	Commands *hclCommands `hcl:"commands,block"`
	Values   []*hclValues `hcl:"values,block"`
	Ranges   []*hclRange  `hcl:"range,block"`
	Timing   *hclTiming   `hcl:"timing,block"`
	MaxDepth *int         `hcl:"max_depth,optional"`
}

type hclSuffixes struct {
	Menu     *string `hcl:"menu,optional"`
	Cookbook *string `hcl:"cookbook,optional"`
	Recipe   *string `hcl:"recipe,optional"`
}

type hclCommands struct {
	Valid    []string `hcl:"valid,optional"`
	Ignore   []string `hcl:"ignore,optional"`
	Position []string `hcl:"position,optional"`
}

type hclValues struct {
	Name    string   `hcl:"name,label"`
	Allowed []string `hcl:"allowed"`
}

type hclRange struct {
	Name string  `hcl:"name,label"`
	Min  float64 `hcl:"min"`
	Max  float64 `hcl:"max"`
}

// hclTiming keeps its body raw; its attributes are evaluated one by one so
// that maps may be written as HCL objects.
type hclTiming struct {
	Body hcl.Body `hcl:",remain"`
}

// Load parses the HCL file at path and applies it on top of base.
func (l *HCLLoader) Load(ctx context.Context, path string, base *Table) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL rule loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL rule file %s: %w", path, diags)
	}

	var root hclRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL rule file %s: %w", path, diags)
	}

	table := *base
	if s := root.Suffixes; s != nil {
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
	if c := root.Commands; c != nil {
		if c.Valid != nil {
			table.ValidCommands = lowerAll(c.Valid)
		}
		if c.Ignore != nil {
			table.IgnoreCommands = lowerAll(c.Ignore)
		}
		if c.Position != nil {
			table.PositionCommands = lowerAll(c.Position)
		}
	}
	for _, v := range root.Values {
		if err := table.setValues(v.Name, lowerAll(v.Allowed)); err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
	}
	for _, r := range root.Ranges {
		if err := table.setRange(r.Name, Range{Min: r.Min, Max: r.Max}); err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
	}
	if root.Timing != nil {
		timing, err := decodeTiming(root.Timing.Body, table.Timing)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
		table.Timing = timing
	}
	if root.MaxDepth != nil {
		table.MaxDepth = *root.MaxDepth
	}

	logger.Debug("HCL rule file decoded.", "path", path, "values", len(root.Values), "ranges", len(root.Ranges))
	return &table, nil
}

func decodeTiming(body hcl.Body, base Timing) (Timing, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return base, fmt.Errorf("invalid timing block: %w", diags)
	}

	timing := base
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return base, fmt.Errorf("invalid timing attribute %q: %w", name, diags)
		}
		switch name {
		case "relaxation_ms":
			if err := gocty.FromCtyValue(val, &timing.RelaxationMs); err != nil {
				return base, fmt.Errorf("timing.%s: %w", name, err)
			}
		case "frames_per_sum":
			if err := gocty.FromCtyValue(val, &timing.FramesPerSum); err != nil {
				return base, fmt.Errorf("timing.%s: %w", name, err)
			}
		case "readout_ms":
			m, err := numberMap(val)
			if err != nil {
				return base, fmt.Errorf("timing.%s: %w", name, err)
			}
			timing.ReadoutMs = mergeFloats(base.ReadoutMs, m)
		case "hardware_sec":
			m, err := numberMap(val)
			if err != nil {
				return base, fmt.Errorf("timing.%s: %w", name, err)
			}
			timing.HardwareSec = mergeFloats(base.HardwareSec, m)
		default:
			return base, fmt.Errorf("unknown timing attribute %q at %s", name, attr.Range)
		}
	}
	return timing, nil
}

// numberMap converts an HCL object or map expression value into a Go map.
func numberMap(val cty.Value) (map[string]float64, error) {
	mv, err := convert.Convert(val, cty.Map(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("expected a map of numbers: %w", err)
	}
	var out map[string]float64
	if err := gocty.FromCtyValue(mv, &out); err != nil {
		return nil, err
	}
	return out, nil
}
