// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"strings"
)

// Kind tags a script with its level in the menu/cookbook/recipe hierarchy.
type Kind int

const (
	KindUnknown Kind = iota
	KindMenu
	KindCookbook
	KindRecipe
)

func (k Kind) String() string {
	switch k {
	case KindMenu:
		return "menu"
	case KindCookbook:
		return "cookbook"
	case KindRecipe:
		return "recipe"
	default:
		return "unknown"
	}
}

// Child returns the kind a script of kind k references. Recipes may call
// other recipes, so the hierarchy bottoms out at KindRecipe.
func (k Kind) Child() Kind {
	switch k {
	case KindMenu:
		return KindCookbook
	case KindCookbook, KindRecipe:
		return KindRecipe
	default:
		return KindUnknown
	}
}

// Suffixes maps each kind to the file-name suffix that selects it.
type Suffixes struct {
	Menu     string
	Cookbook string
	Recipe   string
}

// DefaultSuffixes returns the suffixes used by the UCoMP recipe tree.
func DefaultSuffixes() Suffixes {
	return Suffixes{Menu: ".menu", Cookbook: ".cbk", Recipe: ".rcp"}
}

// For returns the suffix configured for kind k.
func (s Suffixes) For(k Kind) string {
	switch k {
	case KindMenu:
		return s.Menu
	case KindCookbook:
		return s.Cookbook
	case KindRecipe:
		return s.Recipe
	default:
		return ""
	}
}

// KindOf classifies a file name by its suffix, ignoring case.
func (s Suffixes) KindOf(name string) Kind {
	lower := strings.ToLower(name)
	switch {
	case s.Menu != "" && strings.HasSuffix(lower, s.Menu):
		return KindMenu
	case s.Cookbook != "" && strings.HasSuffix(lower, s.Cookbook):
		return KindCookbook
	case s.Recipe != "" && strings.HasSuffix(lower, s.Recipe):
		return KindRecipe
	default:
		return KindUnknown
	}
}

// Validate checks that every suffix is set, lower-case and distinct.
func (s Suffixes) Validate() error {
	seen := make(map[string]Kind, 3)
	for _, k := range []Kind{KindMenu, KindCookbook, KindRecipe} {
		suffix := s.For(k)
		if suffix == "" {
			return fmt.Errorf("suffix for %s scripts must not be empty", k)
		}
		if suffix != strings.ToLower(suffix) {
			return fmt.Errorf("suffix %q for %s scripts must be lower-case", suffix, k)
		}
		if other, dup := seen[suffix]; dup {
			return fmt.Errorf("suffix %q is used by both %s and %s scripts", suffix, other, k)
		}
		seen[suffix] = k
	}
	return nil
}
