package action

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type registrarFixture struct {
	commands    *CommandRegistry
	keybindings *KeybindingRegistry
	menus       *MenuRegistry
	registrar   *Registrar
}

func newRegistrarFixture() *registrarFixture {
	f := &registrarFixture{
		commands:    NewCommandRegistry(),
		keybindings: newKeybindingRegistry("linux"),
		menus:       NewMenuRegistry(),
	}
	f.registrar = NewRegistrar(f.commands, f.keybindings, f.menus)
	return f
}

func paletteHas(menus *MenuRegistry, id string) bool {
	for _, item := range menus.Items(MenuCommandPalette) {
		if item.CommandID == id {
			return true
		}
	}
	return false
}

func TestRegistrar_LabeledActionIsExecutableAndVisible(t *testing.T) {
	f := newRegistrarFixture()
	inst := newTestAction("test.cmd")

	disp, err := f.registrar.Register(Descriptor{
		ID:          "test.cmd",
		Label:       "Test Command",
		Factory:     func() (Action, error) { return inst, nil },
		Keybindings: &KeybindingSpec{Chords: Chords{Primary: "ctrl+k"}},
	}, "Test Command", "")
	require.NoError(t, err)

	// Command is executable.
	acc, notifier := newTestAccessor(resolvedGate())
	require.NoError(t, f.commands.Execute(context.Background(), acc, "test.cmd", Invocation{}))
	require.Equal(t, 1, inst.Runs())
	require.Equal(t, 1, inst.Disposes())
	require.Zero(t, notifier.Count())

	// Palette entry and title are published.
	require.True(t, paletteHas(f.menus, "test.cmd"))
	ct, ok := f.menus.CommandTitle("test.cmd")
	require.True(t, ok)
	require.Equal(t, "Test Command", ct.Title.Value)
	require.Equal(t, "Test Command", ct.Title.Original)

	// Key chord resolves to the command.
	id, ok := f.keybindings.Resolve(tea.KeyMsg{Type: tea.KeyCtrlK}, nil)
	require.True(t, ok)
	require.Equal(t, "test.cmd", id)

	// Disposal removes the palette entry, the title, and the command; the
	// keybinding rule stays installed (no removal API).
	disp.Dispose()
	require.False(t, paletteHas(f.menus, "test.cmd"))
	_, ok = f.menus.CommandTitle("test.cmd")
	require.False(t, ok)
	require.False(t, f.commands.Has("test.cmd"))
	require.Equal(t, []string{"ctrl+k"}, f.keybindings.Lookup("test.cmd"))
}

func TestRegistrar_UnlabeledActionIsHiddenButExecutable(t *testing.T) {
	f := newRegistrarFixture()
	inst := newTestAction("test.hidden")

	_, err := f.registrar.Register(Descriptor{
		ID:      "test.hidden",
		Factory: func() (Action, error) { return inst, nil },
	}, "Hidden Command", "")
	require.NoError(t, err)

	require.False(t, paletteHas(f.menus, "test.hidden"), "no palette entry without a label")
	_, ok := f.menus.CommandTitle("test.hidden")
	require.False(t, ok)

	acc, _ := newTestAccessor(resolvedGate())
	require.NoError(t, f.commands.Execute(context.Background(), acc, "test.hidden", Invocation{}))
	require.Equal(t, 1, inst.Runs())
}

func TestRegistrar_CategoryAttachedToTitle(t *testing.T) {
	f := newRegistrarFixture()

	_, err := f.registrar.Register(Descriptor{
		ID:      "sql.runQuery",
		Label:   "Run Query",
		Factory: func() (Action, error) { return newTestAction("sql.runQuery"), nil },
	}, "Run Query", "SQL")
	require.NoError(t, err)

	ct, ok := f.menus.CommandTitle("sql.runQuery")
	require.True(t, ok)
	require.Equal(t, "SQL", ct.Category)
}

func TestRegistrar_DuplicateIDPropagates(t *testing.T) {
	f := newRegistrarFixture()
	desc := Descriptor{
		ID:      "test.dup",
		Factory: func() (Action, error) { return newTestAction("test.dup"), nil },
	}

	_, err := f.registrar.Register(desc, "Dup", "")
	require.NoError(t, err)

	_, err = f.registrar.Register(desc, "Dup", "")
	require.Error(t, err)
	require.ErrorContains(t, err, "already registered")
}

func TestRegistrar_DefaultKeybindingWeight(t *testing.T) {
	f := newRegistrarFixture()

	_, err := f.registrar.Register(Descriptor{
		ID:          "test.low",
		Factory:     func() (Action, error) { return newTestAction("test.low"), nil },
		Keybindings: &KeybindingSpec{Chords: Chords{Primary: "ctrl+k"}},
		Weight:      WeightEditorContrib,
	}, "Low", "")
	require.NoError(t, err)

	// No explicit weight: defaults to the workbench contribution weight,
	// which outranks the editor contribution above.
	_, err = f.registrar.Register(Descriptor{
		ID:          "test.default",
		Factory:     func() (Action, error) { return newTestAction("test.default"), nil },
		Keybindings: &KeybindingSpec{Chords: Chords{Primary: "ctrl+k"}},
	}, "Default", "")
	require.NoError(t, err)

	id, ok := f.keybindings.Resolve(tea.KeyMsg{Type: tea.KeyCtrlK}, nil)
	require.True(t, ok)
	require.Equal(t, "test.default", id)
}

func TestRegistrar_InvalidDescriptor(t *testing.T) {
	f := newRegistrarFixture()

	_, err := f.registrar.Register(Descriptor{Factory: func() (Action, error) { return nil, nil }}, "", "")
	require.Error(t, err)

	_, err = f.registrar.Register(Descriptor{ID: "test.nofactory"}, "", "")
	require.Error(t, err)
}

func TestRegistrar_HandleDisposeIsIdempotent(t *testing.T) {
	f := newRegistrarFixture()

	disp, err := f.registrar.Register(Descriptor{
		ID:      "test.cmd",
		Label:   "Test Command",
		Factory: func() (Action, error) { return newTestAction("test.cmd"), nil },
	}, "Test Command", "")
	require.NoError(t, err)

	disp.Dispose()
	require.NotPanics(t, func() { disp.Dispose() })
}
