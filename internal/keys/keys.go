// Package keys contains keybinding definitions for workbench chrome.
//
// These bindings cover component-internal navigation (palette cursor
// movement, dialog dismissal). Action chords are not defined here; they
// come from contributed keybinding rules and config overrides.
package keys

import "github.com/charmbracelet/bubbles/key"

// PaletteKeyMap defines the keybindings active while the command palette
// is open.
type PaletteKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Cancel key.Binding
}

// DefaultPaletteKeyMap returns the default palette keybindings.
func DefaultPaletteKeyMap() PaletteKeyMap {
	return PaletteKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+k"),
			key.WithHelp("↑", "previous entry"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+j"),
			key.WithHelp("↓", "next entry"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run command"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}

// WorkbenchKeyMap defines chrome-level bindings handled before action
// dispatch.
type WorkbenchKeyMap struct {
	DismissNotification key.Binding
}

// DefaultWorkbenchKeyMap returns the default workbench chrome bindings.
func DefaultWorkbenchKeyMap() WorkbenchKeyMap {
	return WorkbenchKeyMap{
		DismissNotification: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss notification"),
		),
	}
}
