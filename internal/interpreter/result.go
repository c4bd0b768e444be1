package interpreter

import (
	"github.com/vk/ucompcheck/internal/model"
)

// Result is everything one Validate call found.
type Result struct {
	Root string
	Kind model.Kind
	// Skipped is set when the root menu carries the NOWARNING marker.
	Skipped bool
	Issues  model.Issues
	Timing  model.Timing
	// Scopes are listed in the order they closed, innermost first.
	Scopes []Scope
}

// ScopeAt returns the scope rooted at path, if one was recorded.
func (r *Result) ScopeAt(path model.Path) (Scope, bool) {
	for _, s := range r.Scopes {
		if s.Path.String() == path.String() {
			return s, true
		}
	}
	return Scope{}, false
}
