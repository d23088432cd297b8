package action

import "fmt"

// Factory constructs a fresh action instance. Factories are closures built
// at contribution time over whatever services the action needs; the
// instantiator invokes them once per invocation.
type Factory func() (Action, error)

// Weight ranks keybinding rules when several match the same chord.
// Higher weights take precedence.
type Weight int

const (
	WeightEditorCore        Weight = 0
	WeightEditorContrib     Weight = 100
	WeightWorkbenchContrib  Weight = 200
	WeightBuiltinExtension  Weight = 300
	WeightExternalExtension Weight = 400
)

// Context is a snapshot of workbench state evaluated by when predicates.
type Context map[string]any

// When gates a keybinding rule on workbench state. A nil predicate means
// the rule is always active, subject to normal dispatch ranking.
type When func(kctx Context) bool

// Chords is a primary key chord plus optional secondary chords. Chord
// strings use Bubble Tea key notation, e.g. "ctrl+shift+p".
type Chords struct {
	Primary   string
	Secondary []string
}

// KeybindingSpec is the chord set for one action, with optional
// per-platform overrides that replace the base chords wholesale.
type KeybindingSpec struct {
	Chords
	Win   *Chords
	Mac   *Chords
	Linux *Chords
}

// Descriptor is an immutable declarative description of one registrable
// workbench action. Contributing code builds it at startup and hands it to
// the Registrar; it is never mutated afterwards.
type Descriptor struct {
	// ID is the unique command identifier, e.g. "workbench.action.quit".
	ID string
	// Factory constructs one instance per invocation.
	Factory Factory
	// Label is the palette display label. Empty means the action stays
	// invocable but intentionally hidden from the palette.
	Label string
	// Keybindings is the optional chord specification. Nil means the
	// command is reachable only via palette, menu, or direct execution.
	Keybindings *KeybindingSpec
	// When gates the keybinding rule on workbench state.
	When When
	// Weight ranks the keybinding rule; zero means WeightWorkbenchContrib.
	Weight Weight
}

func (d Descriptor) validate() error {
	if d.ID == "" {
		return fmt.Errorf("action descriptor requires an id")
	}
	if d.Factory == nil {
		return fmt.Errorf("action descriptor %q requires a factory", d.ID)
	}
	return nil
}

// keybindingWeight returns the descriptor weight, falling back to the
// standard workbench contribution weight.
func (d Descriptor) keybindingWeight() Weight {
	if d.Weight != 0 {
		return d.Weight
	}
	return WeightWorkbenchContrib
}
