package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/vk/ucompcheck/internal/ctxlog"
	"github.com/vk/ucompcheck/internal/report"
	"github.com/vk/ucompcheck/internal/revision"
	"github.com/vk/ucompcheck/internal/rules"
)

// ErrValidationFailed is returned by Run when the report contains errors, or
// warnings when FailOnWarning is set.
var ErrValidationFailed = errors.New("validation failed")

const defaultDebounce = 500 * time.Millisecond

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	rules     *rules.Table
	revisions *revision.Lookup

	debounce   time.Duration
	httpServer *http.Server

	mu         sync.Mutex
	lastReport *report.Report
}

// NewApp is the constructor for the main application. Reports go to outW
// unless an output file is configured; logs go to logW.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	table := rules.Default()
	if cfg.RulesPath != "" {
		loaded, err := rules.Load(ctx, cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule table: %w", err)
		}
		table = loaded
		logger.Debug("Rule table loaded.", "path", cfg.RulesPath)
	}

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		rules:    table,
		debounce: defaultDebounce,
	}

	if cfg.GitRevisions {
		lookup, err := revision.Open(cfg.RecipesDir)
		if err != nil {
			// Revisions are decoration; a tree outside git still validates.
			logger.Warn("Git revisions unavailable.", "error", err)
		} else {
			a.revisions = lookup
			logger.Debug("Git repository opened.", "root", lookup.Root())
		}
	}

	return a, nil
}

// Rules returns the rule table in use. This is primarily for testing.
func (a *App) Rules() *rules.Table {
	return a.rules
}

// LastReport returns the most recently completed report, or nil.
func (a *App) LastReport() *report.Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReport
}

func (a *App) setLastReport(r *report.Report) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastReport = r
}
