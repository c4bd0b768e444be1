// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "strings"

// Path is the chain of script names from the validated root down to the
// script that owns a finding.
type Path []string

// Child returns a new path with name appended. The receiver is not modified.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Leaf returns the last script name, or "" for an empty path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Root returns the first script name, or "" for an empty path.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// String renders the path dotted.
func (p Path) String() string {
	return strings.Join(p, ".")
}
