package revision

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string, when time.Time) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "observer", Email: "observer@example.org", When: when},
	})
	require.NoError(t, err)
}

func TestLastChanged(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	first := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	second := time.Date(2025, 2, 20, 9, 30, 0, 0, time.UTC)
	commitFile(t, repo, dir, "recipes/night.menu", "a.cbk\n", first)
	commitFile(t, repo, dir, "recipes/a.cbk", "occ in\n", second)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipes", "new.rcp"), []byte("occ in\n"), 0o644))

	// --- Act ---
	lookup, err := Open(filepath.Join(dir, "recipes"))
	require.NoError(t, err)

	// --- Assert ---
	menu, err := lookup.LastChanged(filepath.Join(dir, "recipes", "night.menu"))
	require.NoError(t, err)
	assert.True(t, first.Equal(menu), "got %s", menu)

	cbk, err := lookup.LastChanged(filepath.Join(dir, "recipes", "a.cbk"))
	require.NoError(t, err)
	assert.True(t, second.Equal(cbk), "got %s", cbk)

	_, err = lookup.LastChanged(filepath.Join(dir, "recipes", "new.rcp"))
	require.ErrorIs(t, err, ErrNoHistory)
}

func TestOpen_NotRepository(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}
