package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/ucompcheck/internal/ctxlog"
)

// Loader is the interface for a format-specific rule-table loader.
type Loader interface {
	// Load reads the file at path and applies it on top of base.
	Load(ctx context.Context, path string, base *Table) (*Table, error)
}

// LoaderFor returns the loader matching the file extension of path.
func LoaderFor(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return NewHCLLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported rule file %s: expected .hcl, .yaml or .yml", path)
	}
}

// Load returns the default table, overridden by the rule file at path when
// path is set. The merged table is validated before it is returned.
func Load(ctx context.Context, path string) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	table := Default()
	if path == "" {
		logger.Debug("No rule file configured, using built-in rule table.")
		return table, nil
	}

	loader, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	table, err = loader.Load(ctx, path, table)
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule table %s: %w", path, err)
	}

	logger.Debug("Rule table loaded.", "path", path,
		"valid_commands", len(table.ValidCommands),
		"prefilters", len(table.Prefilters))
	return table, nil
}

// mergeFloats overlays src onto a copy of dst.
func mergeFloats(dst, src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[strings.ToLower(k)] = v
	}
	return out
}

// lowerAll lower-cases every entry; script tokens are compared lower-cased.
func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
