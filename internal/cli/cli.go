package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/ucompcheck/internal/app"
	"github.com/vk/ucompcheck/internal/report"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("ucompcheck", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ucompcheck - validates UCoMP observing scripts (menus, cookbooks, recipes).

Usage:
  ucompcheck [options] [FILE...]

Arguments:
  FILE
    Menu, cookbook or recipe to validate. Names are looked up in the recipes
    directory. Without files every menu in the recipes directory is validated.

Options:
`)
		flagSet.PrintDefaults()
	}

	recipesFlag := flagSet.String("recipes-dir", ".", "Directory containing menus, cookbooks and recipes.")
	rFlag := flagSet.String("r", "", "Directory containing menus, cookbooks and recipes (shorthand).")
	rulesFlag := flagSet.String("rules", "", "Rule table file (.hcl, .yaml or .yml). Defaults are built in.")
	formatFlag := flagSet.String("format", "text", "Report format. Options: 'text', 'json', 'github', 'markdown'.")
	outputFlag := flagSet.String("output", "", "Write the report to this file instead of stdout.")
	oFlag := flagSet.String("o", "", "Write the report to this file instead of stdout (shorthand).")
	outlineFlag := flagSet.String("outline-dir", "", "Write <menu>.md and <menu>.summary outlines into this directory.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of files validated concurrently.")
	failOnWarningFlag := flagSet.Bool("fail-on-warning", false, "Exit with status 1 when warnings are found.")
	gitFlag := flagSet.Bool("git-revisions", false, "Show the last commit time of each validated file.")
	watchFlag := flagSet.Bool("watch", false, "Keep running and re-validate whenever a script changes.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server in watch mode. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	recipesDir := *recipesFlag
	if *rFlag != "" {
		recipesDir = *rFlag
	}
	outputPath := *outputFlag
	if *oFlag != "" {
		outputPath = *oFlag
	}

	format, err := report.ParseFormat(*formatFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid format: must be 'text', 'json', 'github' or 'markdown'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *healthPortFlag != 0 && !*watchFlag {
		return nil, false, &ExitError{Code: 2, Message: "healthcheck-port requires -watch"}
	}
	slog.Debug("CLI parameter validation complete.")

	var files []string
	if flagSet.NArg() > 0 {
		files = flagSet.Args()
	}

	config, err := app.NewConfig(app.Config{
		RecipesDir:      recipesDir,
		Files:           files,
		RulesPath:       *rulesFlag,
		Format:          format,
		OutputPath:      outputPath,
		OutlineDir:      *outlineFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		WorkerCount:     *workersFlag,
		FailOnWarning:   *failOnWarningFlag,
		GitRevisions:    *gitFlag,
		Watch:           *watchFlag,
		HealthcheckPort: *healthPortFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
