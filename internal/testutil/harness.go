package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/ucompcheck/internal/ctxlog"
	"github.com/vk/ucompcheck/internal/fsutil"
	"github.com/vk/ucompcheck/internal/interpreter"
	"github.com/vk/ucompcheck/internal/rules"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcome of validating a temporary recipe tree.
type HarnessResult struct {
	Dir       string
	LogOutput string
	Result    *interpreter.Result
	Err       error
}

// WriteTree writes files (name -> content) into a fresh temporary directory
// and returns its path. Names may contain subdirectories.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// Validate writes files to a temporary recipe directory and validates root
// with the default rule table.
func Validate(t *testing.T, files map[string]string, root string, opts ...interpreter.Option) *HarnessResult {
	t.Helper()
	return ValidateWithRules(context.Background(), t, rules.Default(), files, root, opts...)
}

// ValidateWithRules is Validate with a caller-provided context and rule table.
func ValidateWithRules(ctx context.Context, t *testing.T, table *rules.Table, files map[string]string, root string, opts ...interpreter.Option) *HarnessResult {
	t.Helper()

	dir := WriteTree(t, files)
	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx = ctxlog.WithLogger(ctx, logger)

	interp := interpreter.New(table, fsutil.NewResolver(dir), opts...)
	res, err := interp.Validate(ctx, filepath.Join(dir, root))

	if os.Getenv("UCOMPCHECK_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Dir:       dir,
		LogOutput: logBuffer.String(),
		Result:    res,
		Err:       err,
	}
}
