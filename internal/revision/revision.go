// Package revision looks up when a script file was last committed, so reports
// can show which version of a recipe was validated.
package revision

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
)

var (
	// ErrNotRepository is returned when no git repository encloses the path.
	ErrNotRepository = errors.New("not inside a git repository")
	// ErrNoHistory is returned for files that were never committed.
	ErrNoHistory = errors.New("no commit history")
)

// Lookup answers last-commit queries for files of one repository. It is safe
// for concurrent use.
type Lookup struct {
	mu   sync.Mutex
	repo *git.Repository
	root string
}

// Open finds the repository enclosing path, searching parent directories.
func Open(path string) (*Lookup, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree at %s: %w", path, err)
	}
	root, err := canonical(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	return &Lookup{repo: repo, root: root}, nil
}

// Root is the worktree directory.
func (l *Lookup) Root() string {
	return l.root
}

// LastChanged returns the author time of the newest commit reachable from
// HEAD that touched path.
func (l *Lookup) LastChanged(path string) (time.Time, error) {
	abs, err := canonical(path)
	if err != nil {
		return time.Time{}, err
	}
	rel, err := filepath.Rel(l.root, abs)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s is outside repository %s: %w", path, l.root, err)
	}
	rel = filepath.ToSlash(rel)

	l.mu.Lock()
	defer l.mu.Unlock()

	iter, err := l.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w for %s: %v", ErrNoHistory, rel, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return time.Time{}, fmt.Errorf("%w for %s", ErrNoHistory, rel)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to walk history of %s: %w", rel, err)
	}
	return commit.Author.When, nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}
