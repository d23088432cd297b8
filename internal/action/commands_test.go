package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func noopHandler(ctx context.Context, acc *Accessor, inv Invocation) error {
	return nil
}

func TestCommandRegistry_RegisterAndExecute(t *testing.T) {
	reg := NewCommandRegistry()

	var executed bool
	_, err := reg.RegisterCommand("test.cmd", func(ctx context.Context, acc *Accessor, inv Invocation) error {
		executed = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, reg.Has("test.cmd"))

	require.NoError(t, reg.Execute(context.Background(), nil, "test.cmd", Invocation{}))
	require.True(t, executed)
}

func TestCommandRegistry_DuplicateIDFails(t *testing.T) {
	reg := NewCommandRegistry()

	_, err := reg.RegisterCommand("test.cmd", noopHandler)
	require.NoError(t, err)

	_, err = reg.RegisterCommand("test.cmd", noopHandler)
	require.Error(t, err)
	require.ErrorContains(t, err, "already registered")
}

func TestCommandRegistry_ExecuteUnknownCommand(t *testing.T) {
	reg := NewCommandRegistry()

	err := reg.Execute(context.Background(), nil, "test.missing", Invocation{})
	require.Error(t, err)
	require.ErrorContains(t, err, "not found")
}

func TestCommandRegistry_DisposeRemovesCommand(t *testing.T) {
	reg := NewCommandRegistry()

	disp, err := reg.RegisterCommand("test.cmd", noopHandler)
	require.NoError(t, err)

	disp.Dispose()
	require.False(t, reg.Has("test.cmd"))

	// The id is free again after disposal.
	_, err = reg.RegisterCommand("test.cmd", noopHandler)
	require.NoError(t, err)
}

func TestCommandRegistry_ValidatesInput(t *testing.T) {
	reg := NewCommandRegistry()

	_, err := reg.RegisterCommand("", noopHandler)
	require.Error(t, err)

	_, err = reg.RegisterCommand("test.cmd", nil)
	require.Error(t, err)
}

func TestCommandRegistry_IDsSorted(t *testing.T) {
	reg := NewCommandRegistry()

	for _, id := range []string{"c.cmd", "a.cmd", "b.cmd"} {
		_, err := reg.RegisterCommand(id, noopHandler)
		require.NoError(t, err)
	}

	require.Equal(t, []string{"a.cmd", "b.cmd", "c.cmd"}, reg.IDs())
}
