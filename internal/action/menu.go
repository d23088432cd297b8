package action

import (
	"sync"

	"github.com/scr8/sqlopsstudio/internal/log"
)

// MenuID identifies a menu surface.
type MenuID string

// MenuCommandPalette is the global searchable command list.
const MenuCommandPalette MenuID = "commandPalette"

// Title is a command's display title plus the unlocalized original used as
// a search fallback.
type Title struct {
	Value    string
	Original string
}

// CommandTitle attaches a title and optional category to a command id.
type CommandTitle struct {
	ID       string
	Title    Title
	Category string
}

// MenuItem is one entry in a menu, referencing a registered command.
type MenuItem struct {
	CommandID string
}

// MenuRegistry is the menu and command-title table. Unlike the keybinding
// table, its registrations are retractable: disposing an entry removes it.
type MenuRegistry struct {
	mu       sync.RWMutex
	commands map[string]CommandTitle
	menus    map[MenuID][]MenuItem
}

// NewMenuRegistry creates an empty menu registry.
func NewMenuRegistry() *MenuRegistry {
	return &MenuRegistry{
		commands: make(map[string]CommandTitle),
		menus:    make(map[MenuID][]MenuItem),
	}
}

// AddCommand publishes a command title. Disposing the result withdraws it.
func (m *MenuRegistry) AddCommand(ct CommandTitle) Disposable {
	m.mu.Lock()
	m.commands[ct.ID] = ct
	m.mu.Unlock()

	log.Debug(log.CatPalette, "command title added", "id", ct.ID, "title", ct.Title.Value)

	return DisposableFunc(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.commands, ct.ID)
	})
}

// AppendMenuItem appends an entry to a menu. Disposing the result removes
// that entry.
func (m *MenuRegistry) AppendMenuItem(menu MenuID, item MenuItem) Disposable {
	m.mu.Lock()
	m.menus[menu] = append(m.menus[menu], item)
	m.mu.Unlock()

	return DisposableFunc(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		items := m.menus[menu]
		for i := range items {
			if items[i] == item {
				m.menus[menu] = append(items[:i], items[i+1:]...)
				return
			}
		}
	})
}

// CommandTitle returns the published title for a command, if any.
func (m *MenuRegistry) CommandTitle(id string) (CommandTitle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ct, ok := m.commands[id]
	return ct, ok
}

// Items returns the entries of a menu in registration order.
func (m *MenuRegistry) Items(menu MenuID) []MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.menus[menu]
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}
