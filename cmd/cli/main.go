package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/ucompcheck/internal/app"
	"github.com/vk/ucompcheck/internal/cli"
)

// main is the entrypoint for the ucompcheck application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	os.Exit(exitCode(err, os.Stderr))
}

// exitCode maps run's outcome to the process status: 0 clean, 1 validation
// failure or runtime error, or the code carried by a cli.ExitError.
func exitCode(err error, errW io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(errW, err)
	return 1
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ucompApp, err := app.NewApp(ctx, outW, errW, appConfig)
	if err != nil {
		return fmt.Errorf("application startup failed: %w", err)
	}

	return ucompApp.Run(ctx)
}
