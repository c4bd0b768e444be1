package app

import (
	"errors"
	"fmt"

	"github.com/vk/ucompcheck/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RecipesDir string   // where menus, cookbooks and recipes live
	Files      []string // explicit roots; empty means every menu in RecipesDir
	RulesPath  string   // optional .hcl/.yaml rule table

	Format     report.Format
	OutputPath string // report destination; empty means stdout
	OutlineDir string // where <menu>.md and <menu>.summary go; empty disables

	LogFormat   string
	LogLevel    string
	WorkerCount int

	FailOnWarning bool
	GitRevisions  bool

	Watch           bool
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RecipesDir == "" {
		return nil, errors.New("RecipesDir is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = report.FormatText
	}
	if _, err := report.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("WorkerCount must be positive, got %d", cfg.WorkerCount)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("HealthcheckPort out of range: %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
