package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/ucompcheck/internal/ctxlog"
	"github.com/vk/ucompcheck/internal/fsutil"
	"github.com/vk/ucompcheck/internal/interpreter"
	"github.com/vk/ucompcheck/internal/model"
	"github.com/vk/ucompcheck/internal/outline"
	"github.com/vk/ucompcheck/internal/report"
	"golang.org/x/sync/errgroup"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Watch {
		return a.watch(ctx)
	}

	rep, err := a.ValidateAll(ctx)
	if err != nil {
		return err
	}
	if err := a.emit(rep); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return a.verdict(rep)
}

// ValidateAll validates every root file in parallel, bounded by the
// configured worker count, and returns the report sorted by file.
func (a *App) ValidateAll(ctx context.Context) (*report.Report, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := a.targets()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No menu files found, nothing to validate.", "recipes_dir", a.config.RecipesDir)
	}

	logger.Info("🚀 Starting validation...", "files", len(files), "workers", a.config.WorkerCount)
	entries := make([]report.Entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			entry, err := a.validateFile(gctx, file)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &report.Report{Entries: entries}
	rep.Sort()
	s := rep.Summary()
	logger.Info("🏁 Validation finished.", "files", s.Files, "errors", s.Errors, "warnings", s.Warnings)
	a.setLastReport(rep)
	return rep, nil
}

// targets returns the explicit files, or every menu under RecipesDir.
func (a *App) targets() ([]string, error) {
	if len(a.config.Files) > 0 {
		return a.config.Files, nil
	}
	files, err := fsutil.FindFilesByExtension(a.config.RecipesDir, a.rules.Suffixes.Menu)
	if err != nil {
		return nil, fmt.Errorf("failed to discover menus in %s: %w", a.config.RecipesDir, err)
	}
	return files, nil
}

// validateFile runs one independent validation with its own interpreter so
// the outline hooks see only this file's traversal.
func (a *App) validateFile(ctx context.Context, file string) (report.Entry, error) {
	ctx = ctxlog.With(ctx, "root", file)
	logger := ctxlog.FromContext(ctx)

	resolver := fsutil.NewResolver(a.config.RecipesDir)
	o := outline.New()
	interp := interpreter.New(a.rules, resolver, interpreter.WithHooks(o.Hooks()))
	res, err := interp.Validate(ctx, file)
	if err != nil {
		return report.Entry{}, err
	}

	entry := report.Entry{
		File:        file,
		Kind:        res.Kind,
		Skipped:     res.Skipped,
		Issues:      res.Issues,
		Timing:      res.Timing,
		Wavelengths: o.Wavelengths(),
	}

	if path, err := resolver.Resolve(file); err == nil && a.revisions != nil {
		if when, err := a.revisions.LastChanged(path); err != nil {
			logger.Debug("No git revision for file.", "error", err)
		} else {
			entry.Revision = when
		}
	}

	if a.config.OutlineDir != "" && res.Kind == model.KindMenu && !res.Skipped {
		if err := o.WriteFiles(a.config.OutlineDir, file); err != nil {
			return report.Entry{}, err
		}
		logger.Debug("Outline written.", "dir", a.config.OutlineDir)
	}

	logger.Debug("File validated.",
		"issues", len(res.Issues),
		"total_min", res.Timing.TotalMinutes(),
		"skipped", res.Skipped,
	)
	return entry, nil
}

// emit renders rep to the configured destination.
func (a *App) emit(rep *report.Report) error {
	var w io.Writer = a.outW
	if a.config.OutputPath != "" {
		f, err := os.Create(a.config.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := report.Render(w, a.config.Format, rep); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if a.config.OutputPath != "" {
		a.logger.Info("Report saved.", "path", a.config.OutputPath)
	}
	return nil
}

// verdict turns the report into the process outcome.
func (a *App) verdict(rep *report.Report) error {
	s := rep.Summary()
	if rep.HasErrors() {
		return fmt.Errorf("%w: %d errors, %d warnings", ErrValidationFailed, s.Errors, s.Warnings)
	}
	if a.config.FailOnWarning && rep.HasWarnings() {
		return fmt.Errorf("%w: %d warnings", ErrValidationFailed, s.Warnings)
	}
	return nil
}
