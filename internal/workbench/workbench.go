// Package workbench wires the built-in actions every session gets: palette
// access, quitting, notification housekeeping, help, and keybinding reload.
// Application features contribute their own actions the same way, through
// the registrar.
package workbench

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scr8/sqlopsstudio/internal/action"
	"github.com/scr8/sqlopsstudio/internal/notify"
)

// Action ids for the built-in workbench actions.
const (
	ActionShowCommands       = "workbench.action.showCommands"
	ActionQuit               = "workbench.action.quit"
	ActionClearNotifications = "workbench.action.clearNotifications"
	ActionToggleHelp         = "workbench.action.toggleHelp"
	ActionReloadKeybindings  = "workbench.action.reloadKeybindings"
)

// Messages emitted by built-in actions for the application model.
type (
	// ShowPaletteMsg asks the model to open the command palette.
	ShowPaletteMsg struct{}
	// QuitMsg asks the model to shut the program down.
	QuitMsg struct{}
	// ToggleHelpMsg asks the model to toggle the help bar.
	ToggleHelpMsg struct{}
	// ReloadKeybindingsMsg asks the model to re-read keybinding overrides
	// from the config file.
	ReloadKeybindingsMsg struct{}
)

// Services holds what the built-in actions need. Send enqueues a message to
// the running program and must be safe to call from any goroutine.
type Services struct {
	Send          func(tea.Msg)
	Notifications *notify.Service
}

// funcAction is a stateless action backed by a run function.
type funcAction struct {
	action.Base
	run func(ctx context.Context, inv action.Invocation) error
}

func (a *funcAction) Run(ctx context.Context, inv action.Invocation) error {
	return a.run(ctx, inv)
}

// NewFuncAction returns a factory producing actions that delegate to run.
func NewFuncAction(id, label string, run func(ctx context.Context, inv action.Invocation) error) action.Factory {
	return func() (action.Action, error) {
		a := &funcAction{run: run}
		a.Base = action.NewBase(id, label)
		return a, nil
	}
}

// sendAction returns a factory for actions that post a single message to
// the program.
func sendAction(id, label string, svc Services, msg tea.Msg) action.Factory {
	return NewFuncAction(id, label, func(context.Context, action.Invocation) error {
		svc.Send(msg)
		return nil
	})
}

// Contribute registers the built-in workbench actions. The returned handle
// releases all of them at once.
func Contribute(reg *action.Registrar, svc Services) (action.Disposable, error) {
	contributions := []struct {
		desc     action.Descriptor
		alias    string
		category string
	}{
		{
			desc: action.Descriptor{
				ID:      ActionShowCommands,
				Factory: sendAction(ActionShowCommands, "Show All Commands", svc, ShowPaletteMsg{}),
				Label:   "Show All Commands",
				Keybindings: &action.KeybindingSpec{
					Chords: action.Chords{Primary: "ctrl+p"},
				},
			},
			alias: "Show All Commands",
		},
		{
			desc: action.Descriptor{
				ID:      ActionQuit,
				Factory: sendAction(ActionQuit, "Quit", svc, QuitMsg{}),
				Label:   "Quit",
				Keybindings: &action.KeybindingSpec{
					Chords: action.Chords{Primary: "ctrl+q"},
				},
			},
			alias: "Quit",
		},
		{
			desc: action.Descriptor{
				ID: ActionClearNotifications,
				Factory: NewFuncAction(ActionClearNotifications, "Clear All Notifications",
					func(context.Context, action.Invocation) error {
						svc.Notifications.Clear()
						return nil
					}),
				Label: "Clear All Notifications",
			},
			alias:    "Clear All Notifications",
			category: "Notifications",
		},
		{
			desc: action.Descriptor{
				ID:      ActionToggleHelp,
				Factory: sendAction(ActionToggleHelp, "Toggle Help", svc, ToggleHelpMsg{}),
				Label:   "Toggle Help",
				Keybindings: &action.KeybindingSpec{
					Chords: action.Chords{Primary: "f1"},
				},
			},
			alias:    "Toggle Help",
			category: "View",
		},
		{
			// Deliberately unlabeled: reachable by chord but absent from
			// the palette.
			desc: action.Descriptor{
				ID:      ActionReloadKeybindings,
				Factory: sendAction(ActionReloadKeybindings, "", svc, ReloadKeybindingsMsg{}),
				Keybindings: &action.KeybindingSpec{
					Chords: action.Chords{Primary: "f5"},
				},
			},
		},
	}

	parts := make([]action.Disposable, 0, len(contributions))
	for _, c := range contributions {
		disp, err := reg.Register(c.desc, c.alias, c.category)
		if err != nil {
			action.Combine(parts...).Dispose()
			return nil, err
		}
		parts = append(parts, disp)
	}

	return action.Combine(parts...), nil
}

// Ensure the concrete services satisfy the accessor interfaces.
var (
	_ action.Instantiator = (*Instantiator)(nil)
	_ action.Notifier     = (*notify.Service)(nil)
)
