// Package app contains the top-level Bubble Tea model for the workbench
// shell: keybinding dispatch, the command palette overlay, the notification
// statusline, and live config reload.
package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scr8/sqlopsstudio/internal/action"
	"github.com/scr8/sqlopsstudio/internal/config"
	"github.com/scr8/sqlopsstudio/internal/gate"
	"github.com/scr8/sqlopsstudio/internal/history"
	"github.com/scr8/sqlopsstudio/internal/log"
	"github.com/scr8/sqlopsstudio/internal/notify"
	"github.com/scr8/sqlopsstudio/internal/pubsub"
	"github.com/scr8/sqlopsstudio/internal/ui/palette"
	"github.com/scr8/sqlopsstudio/internal/ui/styles"
	"github.com/scr8/sqlopsstudio/internal/workbench"
)

// Deps holds everything the model needs. Commands, Keybindings, Menus,
// Accessor, Readiness, and Notifications are required; History,
// ReloadConfig, and ConfigChanges are optional.
type Deps struct {
	Config        config.Config
	Commands      *action.CommandRegistry
	Keybindings   *action.KeybindingRegistry
	Menus         *action.MenuRegistry
	Accessor      *action.Accessor
	Readiness     *gate.Gate
	Notifications *notify.Service
	History       *history.Store
	// ReloadConfig re-reads the config file; called on reload requests.
	ReloadConfig func() (config.Config, error)
	// ConfigChanges signals that the config file changed on disk.
	ConfigChanges <-chan struct{}
}

// Model is the root workbench model.
type Model struct {
	ctx  context.Context
	deps Deps
	cfg  config.Config

	palette     palette.Model
	paletteOpen bool
	showHelp    bool

	notifListener *pubsub.Listener[notify.Notification]
	statusline    string
	statusStyle   lipgloss.Style

	width  int
	height int
}

// configChangedMsg signals that the config file changed on disk.
type configChangedMsg struct{}

// dispatchFailedMsg reports a dispatch wiring failure (unknown command,
// unresolvable services). Run failures never arrive here; those go through
// the notification service.
type dispatchFailedMsg struct {
	id  string
	err error
}

// New creates the root model.
func New(ctx context.Context, deps Deps) Model {
	return Model{
		ctx:           ctx,
		deps:          deps,
		cfg:           deps.Config,
		notifListener: pubsub.NewListener(ctx, deps.Notifications),
		statusStyle:   styles.NotifyInfoStyle,
	}
}

// Init starts the notification listener and the config change watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.notifListener.Listen(),
		m.waitConfigChangeCmd(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.paletteOpen {
			m.palette = m.palette.SetSize(msg.Width, msg.Height)
		}
		// The first size report marks the workbench as created; actions
		// invoked before this block until it fires.
		if !m.deps.Readiness.Resolved() {
			m.deps.Readiness.Resolve()
			log.Info(log.CatUI, "workbench ready", "width", msg.Width, "height", msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case workbench.ShowPaletteMsg:
		return m.openPalette()

	case workbench.QuitMsg:
		return m, tea.Quit

	case workbench.ToggleHelpMsg:
		m.showHelp = !m.showHelp
		return m, nil

	case workbench.ReloadKeybindingsMsg:
		return m, m.reloadConfig()

	case configChangedMsg:
		return m, tea.Batch(m.reloadConfig(), m.waitConfigChangeCmd())

	case palette.SelectMsg:
		m.paletteOpen = false
		return m, m.dispatchCmd(msg.Item.ID, action.SourcePalette)

	case palette.CancelMsg:
		m.paletteOpen = false
		return m, nil

	case pubsub.Event[notify.Notification]:
		m = m.applyNotification(msg)
		return m, m.notifListener.Listen()

	case dispatchFailedMsg:
		m.statusline = msg.err.Error()
		m.statusStyle = styles.NotifyErrorStyle
		return m, nil
	}

	if m.paletteOpen {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateKey routes key input: the open palette owns the keyboard, otherwise
// chords resolve against the keybinding table.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.paletteOpen {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	if msg.Type == tea.KeyEsc && m.statusline != "" {
		m.statusline = ""
		return m, nil
	}

	if id, ok := m.deps.Keybindings.Resolve(msg, m.keyContext()); ok {
		return m, m.dispatchCmd(id, action.SourceKeybinding)
	}

	// ctrl+c always quits, bound or not
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	return m, nil
}

// keyContext snapshots the workbench state when predicates can gate on.
func (m Model) keyContext() action.Context {
	return action.Context{
		"paletteOpen": m.paletteOpen,
		"helpVisible": m.showHelp,
	}
}

// dispatchCmd executes a command off the update loop. Run failures surface
// through the notification service inside the handler; only wiring defects
// come back as messages.
func (m Model) dispatchCmd(id string, source action.Source) tea.Cmd {
	ctx, accessor, commands := m.ctx, m.deps.Accessor, m.deps.Commands
	return func() tea.Msg {
		err := commands.Execute(ctx, accessor, id, action.Invocation{Source: source})
		if err != nil {
			log.ErrorErr(log.CatAction, "dispatch failed", err, "id", id)
			return dispatchFailedMsg{id: id, err: err}
		}
		return nil
	}
}

// openPalette builds the entry list from the palette menu and opens the
// overlay.
func (m Model) openPalette() (tea.Model, tea.Cmd) {
	m.palette = palette.New(palette.Config{
		Items:           m.paletteItems(),
		RecentIDs:       m.recentActionIDs(),
		MaxVisibleItems: m.cfg.Palette.MaxVisibleItems,
	})
	m.palette = m.palette.SetSize(m.width, m.height)
	m.paletteOpen = true
	return m, m.palette.Init()
}

// paletteItems collects every labeled command currently contributed to the
// palette menu.
func (m Model) paletteItems() []palette.Item {
	menuItems := m.deps.Menus.Items(action.MenuCommandPalette)
	items := make([]palette.Item, 0, len(menuItems))
	for _, mi := range menuItems {
		ct, ok := m.deps.Menus.CommandTitle(mi.CommandID)
		if !ok {
			// Title retracted after the menu item; skip rather than show
			// a blank row.
			continue
		}
		item := palette.Item{
			ID:       ct.ID,
			Title:    ct.Title.Value,
			Category: ct.Category,
		}
		if chords := m.deps.Keybindings.Lookup(ct.ID); len(chords) > 0 {
			item.Keybinding = chords[0]
		}
		items = append(items, item)
	}
	return items
}

// recentActionIDs returns the MRU ordering for the palette, if history is
// available and enabled.
func (m Model) recentActionIDs() []string {
	if m.deps.History == nil || !m.cfg.Palette.RecentFirst {
		return nil
	}
	ids, err := m.deps.History.RecentActionIDs(20)
	if err != nil {
		log.ErrorErr(log.CatPalette, "reading recent actions", err)
		return nil
	}
	return ids
}

// reloadConfig re-reads the config file and re-applies keybinding
// overrides. Installed rules are untouched; overrides shadow them at
// dispatch time.
func (m Model) reloadConfig() tea.Cmd {
	if m.deps.ReloadConfig == nil {
		return nil
	}
	reload, notifier := m.deps.ReloadConfig, m.deps.Notifications
	keybindings := m.deps.Keybindings
	return func() tea.Msg {
		cfg, err := reload()
		if err != nil {
			log.ErrorErr(log.CatConfig, "config reload failed", err)
			notifier.Show(action.SeverityWarning, fmt.Errorf("config reload failed: %w", err))
			return nil
		}
		keybindings.SetOverrides(cfg.Keybindings)
		log.Info(log.CatConfig, "keybinding overrides reloaded", "count", len(cfg.Keybindings))
		notifier.Infof("keybindings reloaded")
		return nil
	}
}

// waitConfigChangeCmd waits for the next on-disk config change.
func (m Model) waitConfigChangeCmd() tea.Cmd {
	ch := m.deps.ConfigChanges
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return configChangedMsg{}
	}
}

// applyNotification updates the statusline from a notification event.
func (m Model) applyNotification(ev pubsub.Event[notify.Notification]) Model {
	switch ev.Type {
	case pubsub.ClearedEvent:
		m.statusline = ""
	case pubsub.ShownEvent:
		n := ev.Payload
		m.statusline = n.Message
		switch n.Severity {
		case action.SeverityError:
			m.statusStyle = styles.NotifyErrorStyle
		case action.SeverityWarning:
			m.statusStyle = styles.NotifyWarnStyle
		default:
			m.statusStyle = styles.NotifyInfoStyle
		}
	}
	return m
}

// View renders the workbench.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	if m.paletteOpen {
		return m.palette.Overlay()
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor).Render("sqlops workbench")
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("press ctrl+p to open the command palette"))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.helpView())
	}

	content := b.String()
	statusline := m.statuslineView()

	bodyHeight := max(m.height-lipgloss.Height(statusline), 1)
	body := lipgloss.NewStyle().Height(bodyHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, body, statusline)
}

// helpView lists every registered command with its title and chords.
func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(styles.HelpStyle.Render("commands"))
	b.WriteString("\n")

	for _, id := range m.deps.Commands.IDs() {
		line := "  " + id
		if ct, ok := m.deps.Menus.CommandTitle(id); ok {
			line += "  " + ct.Title.Value
		}
		if chords := m.deps.Keybindings.Lookup(id); len(chords) > 0 {
			line += "  (" + strings.Join(chords, ", ") + ")"
		}
		b.WriteString(styles.HelpStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// statuslineView renders the bottom notification line.
func (m Model) statuslineView() string {
	if m.statusline == "" {
		return styles.HelpStyle.Render("ready")
	}
	return m.statusStyle.Render(m.statusline)
}
