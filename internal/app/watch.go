package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/ucompcheck/internal/ctxlog"
	"github.com/vk/ucompcheck/internal/model"
	"github.com/vk/ucompcheck/internal/rules"
)

// watch validates once, then again whenever a script or the rule table
// changes, until ctx is cancelled. Bursts of events collapse into one pass.
func (a *App) watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(a.config.RecipesDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", a.config.RecipesDir, err)
	}
	if a.config.RulesPath != "" {
		if err := watcher.Add(filepath.Dir(a.config.RulesPath)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", a.config.RulesPath, err)
		}
	}

	a.startHealthcheckServer(ctx)
	defer a.closeHealthcheckServer(ctx)

	logger.Info("👀 Watching for changes.", "recipes_dir", a.config.RecipesDir)
	a.pass(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !a.relevant(event.Name) {
				continue
			}
			logger.Debug("Change detected.", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(a.debounce)
			} else {
				timer.Reset(a.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			a.reloadRules(ctx)
			a.pass(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)
		}
	}
}

// pass runs one validation and emits its report. Failures are logged; a watch
// keeps going until it is stopped.
func (a *App) pass(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	rep, err := a.ValidateAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("Validation pass failed.", "error", err)
		}
		return
	}
	if err := a.emit(rep); err != nil {
		logger.Error("Failed to emit report.", "error", err)
		return
	}
	if err := a.verdict(rep); err != nil {
		logger.Warn("Validation reported problems.", "error", err)
	}
}

// reloadRules re-reads the rule table. A broken table keeps the previous one
// in force.
func (a *App) reloadRules(ctx context.Context) {
	if a.config.RulesPath == "" {
		return
	}
	table, err := rules.Load(ctx, a.config.RulesPath)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Rule table reload failed, keeping previous rules.", "error", err)
		return
	}
	a.rules = table
}

// relevant reports whether a change to name can affect the outcome.
func (a *App) relevant(name string) bool {
	if a.config.RulesPath != "" && filepath.Clean(name) == filepath.Clean(a.config.RulesPath) {
		return true
	}
	return a.rules.Suffixes.KindOf(name) != model.KindUnknown
}
