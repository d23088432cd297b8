package action

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMenuRegistry_ItemsInRegistrationOrder(t *testing.T) {
	m := NewMenuRegistry()

	m.AppendMenuItem(MenuCommandPalette, MenuItem{CommandID: "a.cmd"})
	m.AppendMenuItem(MenuCommandPalette, MenuItem{CommandID: "b.cmd"})
	m.AppendMenuItem(MenuCommandPalette, MenuItem{CommandID: "c.cmd"})

	items := m.Items(MenuCommandPalette)
	require.Len(t, items, 3)
	require.Equal(t, "a.cmd", items[0].CommandID)
	require.Equal(t, "c.cmd", items[2].CommandID)
}

func TestMenuRegistry_DisposeRemovesSingleItem(t *testing.T) {
	m := NewMenuRegistry()

	m.AppendMenuItem(MenuCommandPalette, MenuItem{CommandID: "a.cmd"})
	disp := m.AppendMenuItem(MenuCommandPalette, MenuItem{CommandID: "b.cmd"})
	m.AppendMenuItem(MenuCommandPalette, MenuItem{CommandID: "c.cmd"})

	disp.Dispose()

	items := m.Items(MenuCommandPalette)
	require.Len(t, items, 2)
	require.Equal(t, "a.cmd", items[0].CommandID)
	require.Equal(t, "c.cmd", items[1].CommandID)
}

func TestMenuRegistry_AddCommandReplaceAndWithdraw(t *testing.T) {
	m := NewMenuRegistry()

	disp := m.AddCommand(CommandTitle{ID: "test.cmd", Title: Title{Value: "Test", Original: "Test"}})

	ct, ok := m.CommandTitle("test.cmd")
	require.True(t, ok)
	require.Equal(t, "Test", ct.Title.Value)

	disp.Dispose()
	_, ok = m.CommandTitle("test.cmd")
	require.False(t, ok)
}

func TestMenuRegistry_UnknownMenuIsEmpty(t *testing.T) {
	m := NewMenuRegistry()
	require.Empty(t, m.Items(MenuID("viewMenu")))
}
