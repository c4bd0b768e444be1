package interpreter

import (
	"context"

	"github.com/vk/ucompcheck/internal/instrument"
	"github.com/vk/ucompcheck/internal/model"
)

// NodeEvent describes a script being entered or left.
type NodeEvent struct {
	Node  *model.ScriptNode
	Path  model.Path
	Depth int
	// State is a copy of the instrument state at the time of the event.
	State instrument.State
	// Timing is the subtree total; only set when the node is left.
	Timing model.Timing
}

// CommandEvent describes one command line after it has been validated and,
// when valid, applied.
type CommandEvent struct {
	Path    model.Path
	Depth   int
	Command model.Command
	// Issue is the validation finding, if any. Errors leave the state untouched.
	Issue *model.Issue
	// Class is set for applied data commands.
	Class  instrument.Class
	Timing model.Timing
	State  instrument.State
}

// ScopeEvent is emitted when a signature scope closes, after its
// completeness findings have been recorded.
type ScopeEvent struct {
	Scope  Scope
	Issues model.Issues
}

// Hooks are optional callbacks invoked synchronously during a traversal.
// They run on the validating goroutine and must not retain the event's
// ScriptNode beyond the traversal if they mutate it.
type Hooks struct {
	OnChildEnter func(ctx context.Context, ev NodeEvent)
	OnChildExit  func(ctx context.Context, ev NodeEvent)
	OnCommand    func(ctx context.Context, ev CommandEvent)
	OnScopeEnd   func(ctx context.Context, ev ScopeEvent)
}

func (h Hooks) childEnter(ctx context.Context, ev NodeEvent) {
	if h.OnChildEnter != nil {
		h.OnChildEnter(ctx, ev)
	}
}

func (h Hooks) childExit(ctx context.Context, ev NodeEvent) {
	if h.OnChildExit != nil {
		h.OnChildExit(ctx, ev)
	}
}

func (h Hooks) command(ctx context.Context, ev CommandEvent) {
	if h.OnCommand != nil {
		h.OnCommand(ctx, ev)
	}
}

func (h Hooks) scopeEnd(ctx context.Context, ev ScopeEvent) {
	if h.OnScopeEnd != nil {
		h.OnScopeEnd(ctx, ev)
	}
}
