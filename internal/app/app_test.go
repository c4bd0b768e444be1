package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/ucompcheck/internal/report"
	"github.com/vk/ucompcheck/internal/testutil"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var cleanTree = map[string]string{
	"night.menu": "science.cbk\n",
	"science.cbk": `for 2
setup.rcp
endfor
coronal.rcp
`,
	"setup.rcp": "shut in\ndata tcam both 1074 8\nshut out\ncalib out\ndiffuser in\ndata tcam both 1074 8\n",
	"coronal.rcp": "diffuser out\ndata tcam both 1074 8\n",
	"quiet.menu":  "NOWARNING\nbroken.cbk\n",
}

func newTestApp(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	config, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	logs := &testutil.SafeBuffer{}
	a, err := NewApp(context.Background(), out, logs, config)
	require.NoError(t, err)
	t.Cleanup(func() {
		if os.Getenv("UCOMPCHECK_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		cfg      Config
		contains string
	}{
		{name: "missing recipes dir", cfg: Config{WorkerCount: 1}, contains: "RecipesDir"},
		{name: "bad format", cfg: Config{RecipesDir: ".", WorkerCount: 1, Format: "xml"}, contains: "unsupported report format"},
		{name: "no workers", cfg: Config{RecipesDir: "."}, contains: "WorkerCount"},
		{name: "bad port", cfg: Config{RecipesDir: ".", WorkerCount: 1, HealthcheckPort: 70000}, contains: "HealthcheckPort"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewConfig(tc.cfg)
			require.ErrorContains(t, err, tc.contains)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewConfig(Config{RecipesDir: ".", WorkerCount: 1})
		require.NoError(t, err)
		assert.Equal(t, report.FormatText, cfg.Format)
	})
}

func TestRun_CleanTreePasses(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := testutil.WriteTree(t, cleanTree)
	outlineDir := filepath.Join(t.TempDir(), "outlines")
	a, out := newTestApp(t, Config{RecipesDir: dir, OutlineDir: outlineDir})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "night.menu: menu")
	assert.Contains(t, out.String(), "quiet.menu: skipped (NOWARNING)")
	assert.Contains(t, out.String(), "No validation issues found.")

	rep := a.LastReport()
	require.NotNil(t, rep)
	require.Len(t, rep.Entries, 2)
	assert.Equal(t, []string{"1074"}, rep.Entries[0].Wavelengths)

	_, err = os.Stat(filepath.Join(outlineDir, "night.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outlineDir, "night.summary"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outlineDir, "quiet.md"))
	require.True(t, errors.Is(err, os.ErrNotExist), "skipped menus get no outline")
}

func TestRun_ErrorsFailValidation(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"bad.menu": "gone.cbk\nocc sideways\n",
	}
	dir := testutil.WriteTree(t, files)
	a, out := newTestApp(t, Config{RecipesDir: dir, Format: report.FormatGitHub})

	err := a.Run(context.Background())

	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out.String(), "::error file=")
	assert.Contains(t, out.String(), "title=MissingFile::Missing cookbook file: gone.cbk")
}

func TestRun_FailOnWarning(t *testing.T) {
	t.Parallel()

	files := map[string]string{"w.menu": "calret 400\n"}

	testCases := []struct {
		name          string
		failOnWarning bool
		wantErr       bool
	}{
		{name: "warnings pass by default", failOnWarning: false, wantErr: false},
		{name: "warnings fail when asked", failOnWarning: true, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := testutil.WriteTree(t, files)
			a, _ := newTestApp(t, Config{RecipesDir: dir, FailOnWarning: tc.failOnWarning})

			err := a.Run(context.Background())

			if tc.wantErr {
				require.ErrorIs(t, err, ErrValidationFailed)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRun_ExplicitFilesAndJSONOutput(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := testutil.WriteTree(t, map[string]string{
		"a.cbk":      "occ in\n",
		"r.rcp":      "cover out\n",
		"never.menu": "bogus\n",
	})
	output := filepath.Join(t.TempDir(), "report.json")
	a, out := newTestApp(t, Config{
		RecipesDir: dir,
		Files:      []string{"r.rcp", "a.cbk"},
		Format:     report.FormatJSON,
		OutputPath: output,
	})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Empty(t, out.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc struct {
		Entries []struct {
			File string `json:"file"`
			Kind string `json:"kind"`
		} `json:"entries"`
		Summary struct {
			Files int `json:"files"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "a.cbk", doc.Entries[0].File)
	assert.Equal(t, "cookbook", doc.Entries[0].Kind)
	assert.Equal(t, "recipe", doc.Entries[1].Kind)
	assert.Equal(t, 2, doc.Summary.Files)
}

func TestRun_CustomRules(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"long.menu":  "exposure 90\n",
		"rules.yaml": "exposure_range: {min: 1, max: 100}\n",
	})
	a, _ := newTestApp(t, Config{RecipesDir: dir, RulesPath: filepath.Join(dir, "rules.yaml")})

	require.NoError(t, a.Run(context.Background()))
	assert.InDelta(t, 100, a.Rules().Exposure.Max, 1e-9)
}

func TestNewApp_BadRules(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"rules.toml": "x = 1\n"})
	cfg, err := NewConfig(Config{RecipesDir: dir, WorkerCount: 1, RulesPath: filepath.Join(dir, "rules.toml")})
	require.NoError(t, err)

	_, err = NewApp(context.Background(), &testutil.SafeBuffer{}, &testutil.SafeBuffer{}, cfg)
	require.ErrorContains(t, err, "failed to load rule table")
}

func TestRun_UnknownRootKind(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"notes.txt": "hello\n"})
	a, _ := newTestApp(t, Config{RecipesDir: dir, Files: []string{"notes.txt"}})

	err := a.Run(context.Background())

	require.ErrorContains(t, err, "unknown script kind")
	require.False(t, errors.Is(err, ErrValidationFailed))
}

func TestWatch_RevalidatesOnChange(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := testutil.WriteTree(t, map[string]string{"night.menu": "occ in\n"})
	a, out := newTestApp(t, Config{RecipesDir: dir, Watch: true})
	a.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// --- Act ---
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "No validation issues found.")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "night.menu"), []byte("bogus\n"), 0o644))

	// --- Assert ---
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Unknown command: bogus")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"night.menu": "bogus\n"})
	a, _ := newTestApp(t, Config{RecipesDir: dir})

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK pending\n", rec.Body.String())

	_, err := a.ValidateAll(context.Background())
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "OK files=1 errors=1 warnings=0\n", rec.Body.String())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DEBUG", parseLevel("DEBUG").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("nonsense").String())
}
