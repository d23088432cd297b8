// Package action implements the workbench action bridge: it turns a
// declarative action descriptor into three coordinated registrations (an
// invocable command, a keybinding rule, a command-palette entry) and
// produces the runtime handler that instantiates, gates, executes, and
// tears down one action instance per invocation.
package action

import "context"

// Source identifies what triggered an invocation.
type Source string

const (
	// SourceKeybinding is the default origin when none is supplied.
	SourceKeybinding Source = "keybinding"
	// SourcePalette marks invocations selected from the command palette.
	SourcePalette Source = "palette"
	// SourceMenu marks invocations triggered from a menu entry.
	SourceMenu Source = "menu"
	// SourceAPI marks direct programmatic command executions.
	SourceAPI Source = "api"
)

// Invocation is the ephemeral per-call metadata passed through to the
// running action. It is not persisted by the bridge itself.
type Invocation struct {
	// ID correlates one invocation across logs, traces, and history.
	// Filled with a fresh UUID when empty.
	ID string
	// Source is the invocation origin; empty means SourceKeybinding.
	Source Source
	// Args carries caller-supplied arguments, if any.
	Args map[string]any
}

// Action is one invocable workbench action instance. A fresh instance is
// created per invocation and disposed unconditionally when the invocation
// ends; a disposed instance is never run again.
type Action interface {
	// ID returns the action identifier.
	ID() string
	// Label returns the display label.
	Label() string
	// SetLabel overrides the display label.
	SetLabel(label string)
	// Enabled reports whether the action may run. A disabled instance is
	// disposed without running; that is a normal, non-error outcome.
	Enabled() bool
	// Run executes the action.
	Run(ctx context.Context, inv Invocation) error
	// Dispose releases the instance. Called exactly once per invocation.
	Dispose()
}

// Base provides the common identity and enablement state for actions.
// Concrete actions embed it and implement Run.
type Base struct {
	id      string
	label   string
	enabled bool
}

// NewBase creates an enabled action base.
func NewBase(id, label string) Base {
	return Base{id: id, label: label, enabled: true}
}

// ID returns the action identifier.
func (b *Base) ID() string { return b.id }

// Label returns the display label.
func (b *Base) Label() string { return b.label }

// SetLabel overrides the display label.
func (b *Base) SetLabel(label string) { b.label = label }

// Enabled reports whether the action may run.
func (b *Base) Enabled() bool { return b.enabled }

// SetEnabled toggles the enablement flag.
func (b *Base) SetEnabled(enabled bool) { b.enabled = enabled }

// Dispose is a no-op. Actions holding resources override it.
func (b *Base) Dispose() {}
