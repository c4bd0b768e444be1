package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrMissingFile is returned when a referenced script cannot be located.
var ErrMissingFile = errors.New("file not found")

// Resolver locates referenced scripts inside a recipes directory. Operators
// type script names with inconsistent case, so a case-insensitive match over
// the directory entries is tried when no exact path exists.
type Resolver struct {
	Dir string
}

// NewResolver returns a Resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir}
}

// Resolve returns the path of the script called name. The lookup order is:
// name itself when it names an existing file, then Dir/name, then
// the first entry of Dir (in sorted order) whose name equals the base name of
// name ignoring case.
func (r *Resolver) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrMissingFile)
	}

	if isFile(name) {
		return name, nil
	}

	base := filepath.Base(name)
	if r.Dir != "" {
		candidate := filepath.Join(r.Dir, base)
		if isFile(candidate) {
			return candidate, nil
		}
	}

	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s (reading %s: %v)", ErrMissingFile, name, dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		if strings.EqualFold(n, base) {
			return filepath.Join(dir, n), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingFile, name)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
