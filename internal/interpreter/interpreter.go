package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/ucompcheck/internal/ctxlog"
	"github.com/vk/ucompcheck/internal/instrument"
	"github.com/vk/ucompcheck/internal/loop"
	"github.com/vk/ucompcheck/internal/model"
	"github.com/vk/ucompcheck/internal/rules"
	"github.com/vk/ucompcheck/internal/validator"
)

// ErrUnknownKind is returned when the root file name matches no configured
// script suffix.
var ErrUnknownKind = errors.New("unknown script kind")

// Resolver locates a referenced script on disk.
type Resolver interface {
	Resolve(name string) (string, error)
}

// Interpreter validates script trees against one rule table. It holds no
// per-run state and is safe for concurrent use.
type Interpreter struct {
	rules     *rules.Table
	resolver  Resolver
	validator *validator.Validator
	hooks     Hooks
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithHooks installs traversal callbacks.
func WithHooks(h Hooks) Option {
	return func(i *Interpreter) {
		i.hooks = h
	}
}

// New creates an Interpreter. The table must already be validated.
func New(table *rules.Table, resolver Resolver, opts ...Option) *Interpreter {
	i := &Interpreter{
		rules:     table,
		resolver:  resolver,
		validator: validator.New(table),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Validate interprets the script at path and everything it references. The
// root kind is taken from the file suffix. Findings are returned in the
// Result; the error is reserved for an unusable root kind or a cancelled
// context.
func (i *Interpreter) Validate(ctx context.Context, path string) (*Result, error) {
	kind := i.rules.Suffixes.KindOf(path)
	if kind == model.KindUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, path)
	}

	r := &run{
		Interpreter: i,
		state:       instrument.New(i.rules.Timing),
		seen:        make(map[string]struct{}),
		onStack:     make(map[string]bool),
		result:      &Result{Root: path, Kind: kind},
	}
	r.result.Timing = r.interpret(ctx, path, kind, nil, 0, nil)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validation of %s interrupted: %w", path, err)
	}
	return r.result, nil
}

// run is the mutable context of one Validate call.
type run struct {
	*Interpreter

	state   *instrument.State
	result  *Result
	seen    map[string]struct{}
	onStack map[string]bool
	depth   int
}

func (r *run) addIssue(ctx context.Context, issue model.Issue) {
	key := issueKey(issue)
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.result.Issues = append(r.result.Issues, issue)
	ctxlog.FromContext(ctx).Debug("Recorded issue.",
		"severity", issue.Severity.String(),
		"code", string(issue.Code),
		"location", issue.Location(),
	)
}

// issueKey identifies an issue for deduplication; loop copies of a bad line
// would otherwise report the same defect once per iteration.
func issueKey(i model.Issue) string {
	return strings.Join([]string{
		i.Severity.String(), string(i.Code), i.Field, i.Scope.String(),
		strconv.Itoa(i.Line), i.Message, i.Context,
	}, "\x00")
}

// interpret processes one script node. parent is the path of the referencing
// script (nil for the root) and refLine the line that referenced it. enclosing
// is the open signature scope of the menu, or nil below a directly validated
// root.
func (r *run) interpret(ctx context.Context, name string, kind model.Kind, parent model.Path, refLine int, enclosing *accumulator) model.Timing {
	var total model.Timing
	if ctx.Err() != nil {
		return total
	}

	callerScope := parent
	if len(callerScope) == 0 {
		callerScope = model.Path{name}
	}

	resolved, err := r.resolver.Resolve(name)
	if err != nil {
		r.addIssue(ctx, model.Issue{
			Severity: model.SeverityError,
			Code:     model.CodeMissingFile,
			Scope:    callerScope,
			Line:     refLine,
			Message:  fmt.Sprintf("Missing %s file: %s", kind, name),
		})
		return total
	}

	if r.onStack[resolved] || r.depth >= r.rules.MaxDepth {
		msg := fmt.Sprintf("Cyclic reference to %s", name)
		if !r.onStack[resolved] {
			msg = fmt.Sprintf("Reference to %s exceeds maximum nesting depth %d", name, r.rules.MaxDepth)
		}
		r.addIssue(ctx, model.Issue{
			Severity: model.SeverityError,
			Code:     model.CodeCyclicReference,
			Scope:    callerScope,
			Line:     refLine,
			Message:  msg,
		})
		return total
	}

	node, err := model.ReadScriptNode(resolved, kind)
	if err != nil {
		r.addIssue(ctx, model.Issue{
			Severity: model.SeverityError,
			Code:     model.CodeMissingFile,
			Scope:    callerScope,
			Line:     refLine,
			Message:  fmt.Sprintf("Unreadable %s file: %s", kind, name),
			Context:  err.Error(),
		})
		return total
	}

	if node.Suppressed() {
		if parent == nil {
			r.result.Skipped = true
		}
		ctxlog.FromContext(ctx).Debug("Skipping suppressed menu.", "path", resolved)
		return total
	}

	path := parent.Child(node.Name)
	ctx = ctxlog.With(ctx, "script", path.String())
	logger := ctxlog.FromContext(ctx)

	r.onStack[resolved] = true
	r.depth++
	defer func() {
		delete(r.onStack, resolved)
		r.depth--
	}()

	lines := node.Lines
	if kind == model.KindCookbook {
		var loopErrs []loop.LoopError
		lines, loopErrs = loop.Unroll(lines)
		for _, le := range loopErrs {
			r.addIssue(ctx, model.Issue{
				Severity: model.SeverityError,
				Code:     model.CodeMalformedLoop,
				Scope:    path,
				Line:     le.Line,
				Message:  le.Message,
			})
		}
	}

	childKind := kind.Child()
	childSuffix := r.rules.Suffixes.For(childKind)

	// Signatures of all cookbooks under a menu are checked together.
	scope := enclosing
	ownsScope := childKind == model.KindCookbook || enclosing == nil
	if ownsScope {
		scope = newAccumulator(path)
	}

	logger.Debug("Entering script.", "kind", kind.String(), "path", resolved)
	r.hooks.childEnter(ctx, NodeEvent{Node: node, Path: path, Depth: r.depth, State: *r.state})

	for _, line := range lines {
		if line.Empty() || r.rules.IsIgnored(line.First()) {
			continue
		}
		if childSuffix != "" && strings.HasSuffix(line.First(), childSuffix) {
			total = total.Add(r.interpret(ctx, line.Raw[0], childKind, path, line.No, scope))
			continue
		}
		total = total.Add(r.execute(ctx, line.Command(), path, scope))
	}

	if ownsScope {
		findings := checkCompleteness(scope)
		for _, f := range findings {
			r.addIssue(ctx, f)
		}
		snap := scope.snapshot()
		r.result.Scopes = append(r.result.Scopes, snap)
		r.hooks.scopeEnd(ctx, ScopeEvent{Scope: snap, Issues: findings})
	}

	r.hooks.childExit(ctx, NodeEvent{Node: node, Path: path, Depth: r.depth, State: *r.state, Timing: total})
	logger.Debug("Leaving script.",
		"integration_min", total.IntegrationMinutes(),
		"hardware_min", total.HardwareMinutes(),
	)
	return total
}

// execute validates one command and applies it to the instrument state.
func (r *run) execute(ctx context.Context, cmd model.Command, path model.Path, scope *accumulator) model.Timing {
	var t model.Timing
	ev := CommandEvent{Path: path, Depth: r.depth, Command: cmd}

	issue := r.validator.Validate(cmd)
	if issue != nil {
		issue.Scope = path
		r.addIssue(ctx, *issue)
		ev.Issue = issue
	}

	if issue == nil || issue.Severity == model.SeverityWarning {
		if len(cmd.Args) == 1 {
			t.HardwareSec = r.state.Update(cmd.Name, cmd.Args[0])
		}
		if cmd.Name == "data" {
			ev.Class = r.state.Classify()
			scope.record(ev.Class, r.state, cmd)
			// numsum was validated as an integer in range.
			numsum, _ := strconv.Atoi(cmd.Args[3])
			t.IntegrationMs = r.state.IntegrationMs(numsum)
		}
	}

	ev.Timing = t
	ev.State = *r.state
	r.hooks.command(ctx, ev)
	return t
}
