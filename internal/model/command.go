// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "strings"

// Command is a single instrument command: a lower-cased name, its ordered
// arguments and the source line it came from.
type Command struct {
	Name string
	Args []string
	Line int
}

// String renders the command the way it would appear in a script.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}
