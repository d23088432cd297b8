package action

import (
	"fmt"

	"github.com/scr8/sqlopsstudio/internal/log"
)

// Registrar converts an action descriptor into its three coordinated
// registrations: a command, a keybinding rule, and (when the descriptor
// carries a label) a palette entry with a command title. The shared
// registries are injected at construction so tests can substitute fakes.
type Registrar struct {
	commands    *CommandRegistry
	keybindings *KeybindingRegistry
	menus       *MenuRegistry
}

// NewRegistrar creates a registrar over the given registries.
func NewRegistrar(commands *CommandRegistry, keybindings *KeybindingRegistry, menus *MenuRegistry) *Registrar {
	return &Registrar{
		commands:    commands,
		keybindings: keybindings,
		menus:       menus,
	}
}

// Register wires one descriptor into the workbench. The alias is the
// unlocalized fallback title; category is optional. The returned handle
// releases the command registration and the palette contributions; the
// keybinding rule stays installed (the rule table has no removal API).
//
// Any registry failure propagates synchronously; nothing is retried.
func (r *Registrar) Register(desc Descriptor, alias, category string) (Disposable, error) {
	if err := desc.validate(); err != nil {
		return nil, err
	}

	cmdDisp, err := r.commands.RegisterCommand(desc.ID, NewHandler(desc))
	if err != nil {
		return nil, fmt.Errorf("registering action %q: %w", desc.ID, err)
	}

	r.keybindings.RegisterRule(Rule{
		ID:     desc.ID,
		Weight: desc.keybindingWeight(),
		When:   desc.When,
		Spec:   desc.Keybindings,
	})

	parts := []Disposable{cmdDisp}
	if desc.Label != "" {
		titleDisp := r.menus.AddCommand(CommandTitle{
			ID:       desc.ID,
			Title:    Title{Value: desc.Label, Original: alias},
			Category: category,
		})
		itemDisp := r.menus.AppendMenuItem(MenuCommandPalette, MenuItem{CommandID: desc.ID})
		parts = append(parts, titleDisp, itemDisp)
	}

	log.Debug(log.CatAction, "action registered",
		"id", desc.ID, "label", desc.Label, "category", category)

	return Combine(parts...), nil
}
