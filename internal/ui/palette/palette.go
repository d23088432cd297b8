// Package palette provides the searchable command palette overlay. It lists
// every action contributed with a title and dispatches the one the user
// picks.
package palette

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scr8/sqlopsstudio/internal/keys"
	"github.com/scr8/sqlopsstudio/internal/ui/styles"
)

// Item represents a runnable entry in the command palette.
type Item struct {
	ID         string // Action id, dispatched on selection
	Title      string // Display title
	Category   string // Optional category prefix ("View: Toggle Help")
	Keybinding string // Primary chord shown right-aligned, if any
}

// Config defines command palette configuration.
type Config struct {
	Items           []Item
	RecentIDs       []string // Action ids in most-recently-used order
	Placeholder     string   // Search input placeholder
	MaxWidth        int      // Maximum width (default 60)
	MaxVisibleItems int      // Max items visible before scrolling (default 8)
}

// SelectMsg is sent when an entry is chosen.
type SelectMsg struct {
	Item Item
}

// CancelMsg is sent when the palette is dismissed.
type CancelMsg struct{}

// Model holds the command palette state.
type Model struct {
	config         Config
	keymap         keys.PaletteKeyMap
	textInput      textinput.Model
	ordered        []Item // All items in display order (recent first)
	filtered       []Item // Items matching the current query
	cursor         int
	scrollOffset   int
	viewportWidth  int
	viewportHeight int
}

// New creates a command palette with the given configuration. Items are
// ordered most-recently-used first, then alphabetically by display label.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = "Type a command name..."
	}
	ti.Prompt = ""
	ti.Focus()

	m := Model{
		config:    cfg,
		keymap:    keys.DefaultPaletteKeyMap(),
		textInput: ti,
		ordered:   orderItems(cfg.Items, cfg.RecentIDs),
	}
	m.filtered = m.ordered

	return m
}

// orderItems sorts items alphabetically by label, then moves recently used
// ones to the front in recency order.
func orderItems(items []Item, recentIDs []string) []Item {
	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Label() < ordered[j].Label()
	})

	if len(recentIDs) == 0 {
		return ordered
	}

	rank := make(map[string]int, len(recentIDs))
	for i, id := range recentIDs {
		rank[id] = i
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, iRecent := rank[ordered[i].ID]
		rj, jRecent := rank[ordered[j].ID]
		if iRecent && jRecent {
			return ri < rj
		}
		return iRecent && !jRecent
	})
	return ordered
}

// Label returns the display label: "Category: Title" or just the title.
func (i Item) Label() string {
	if i.Category != "" {
		return i.Category + ": " + i.Title
	}
	return i.Title
}

// Init returns the initial command (starts cursor blink).
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m = m.ensureCursorVisible()
			}
			return m, nil

		case key.Matches(msg, m.keymap.Up):
			if m.cursor > 0 {
				m.cursor--
				m = m.ensureCursorVisible()
			}
			return m, nil

		case key.Matches(msg, m.keymap.Accept):
			return m, m.selectCmd()

		case key.Matches(msg, m.keymap.Cancel), msg.Type == tea.KeyCtrlC:
			return m, func() tea.Msg { return CancelMsg{} }

		case msg.Type == tea.KeyCtrlU:
			// Clear search
			m.textInput.SetValue("")
			m = m.updateFilter()
			return m, nil

		default:
			// Forward to text input for typing
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			m = m.updateFilter()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
	}

	return m, nil
}

// updateFilter filters items based on current search text. Label matches
// rank above category-only matches.
func (m Model) updateFilter() Model {
	query := strings.ToLower(m.textInput.Value())

	if query == "" {
		m.filtered = m.ordered
	} else {
		var labelMatches []Item
		var categoryMatches []Item

		for _, item := range m.ordered {
			labelLower := strings.ToLower(item.Label())
			categoryLower := strings.ToLower(item.Category)

			if fuzzyMatch(labelLower, query) {
				labelMatches = append(labelMatches, item)
			} else if strings.Contains(categoryLower, query) {
				categoryMatches = append(categoryMatches, item)
			}
		}

		m.filtered = append(labelMatches, categoryMatches...)
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = 0
		m.scrollOffset = 0
	}

	return m
}

// fuzzyMatch reports whether every rune of query appears in s in order.
func fuzzyMatch(s, query string) bool {
	qi := 0
	qr := []rune(query)
	for _, r := range s {
		if qi < len(qr) && r == qr[qi] {
			qi++
		}
	}
	return qi == len(qr)
}

// maxVisibleItems returns the max visible items. Uses the configured value
// or default, only shrinks if the viewport is too small.
func (m Model) maxVisibleItems() int {
	target := m.config.MaxVisibleItems
	if target <= 0 {
		target = 8
	}

	if m.viewportHeight > 0 {
		// Fixed overhead: border (2) + search+divider (2). Items are one
		// line each.
		overhead := 4
		availableLines := m.viewportHeight - overhead
		maxFromViewport := max(availableLines, 2)
		if maxFromViewport < target {
			return maxFromViewport
		}
	}

	return target
}

// ensureCursorVisible adjusts scroll offset to keep cursor in view.
func (m Model) ensureCursorVisible() Model {
	maxVisible := m.maxVisibleItems()

	if m.cursor >= m.scrollOffset+maxVisible {
		m.scrollOffset = m.cursor - maxVisible + 1
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}

	return m
}

// selectCmd returns the select command for the entry under the cursor.
func (m Model) selectCmd() tea.Cmd {
	if len(m.filtered) == 0 {
		return nil
	}

	selected := m.filtered[m.cursor]
	return func() tea.Msg { return SelectMsg{Item: selected} }
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (Item, bool) {
	if m.cursor >= 0 && m.cursor < len(m.filtered) {
		return m.filtered[m.cursor], true
	}
	return Item{}, false
}

// Cursor returns the current cursor position.
func (m Model) Cursor() int {
	return m.cursor
}

// FilteredItems returns the currently filtered items.
func (m Model) FilteredItems() []Item {
	return m.filtered
}

// SearchText returns the current search text.
func (m Model) SearchText() string {
	return m.textInput.Value()
}

// View renders the command palette box.
func (m Model) View() string {
	contentWidth := m.config.MaxWidth
	if contentWidth == 0 {
		contentWidth = 60
	}
	if m.viewportWidth > 0 && contentWidth > m.viewportWidth-2 {
		contentWidth = max(m.viewportWidth-2, 20)
	}

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", contentWidth))

	searchIcon := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(" > ")
	m.textInput.Width = contentWidth - 4
	searchLine := searchIcon + m.textInput.View()

	var content strings.Builder
	content.WriteString(searchLine)
	content.WriteString("\n")
	content.WriteString(divider)

	maxVisible := m.maxVisibleItems()
	emptyLine := strings.Repeat(" ", contentWidth)

	if len(m.filtered) == 0 {
		noResultsStyle := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			PaddingLeft(1)
		content.WriteString("\n")
		content.WriteString(noResultsStyle.Render("No matching commands"))
		for i := 1; i < maxVisible; i++ {
			content.WriteString("\n")
			content.WriteString(emptyLine)
		}
	} else {
		endIdx := min(m.scrollOffset+maxVisible, len(m.filtered))
		hasMoreBelow := endIdx < len(m.filtered)

		renderedCount := 0
		for i := m.scrollOffset; i < endIdx; i++ {
			content.WriteString("\n")
			content.WriteString(m.renderItem(m.filtered[i], i == m.cursor, contentWidth))
			renderedCount++
		}

		// Pad remaining slots to keep the box a fixed height
		for i := renderedCount; i < maxVisible; i++ {
			content.WriteString("\n")
			content.WriteString(emptyLine)
		}

		if hasMoreBelow {
			moreStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
			moreText := moreStyle.Render("↓ more")
			padding := max((contentWidth-lipgloss.Width(moreText))/2, 0)
			content.WriteString("\n")
			content.WriteString(strings.Repeat(" ", padding) + moreText)
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(contentWidth)

	return boxStyle.Render(content.String())
}

// renderItem renders a single entry: label on the left, chord on the right.
func (m Model) renderItem(item Item, selected bool, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	if selected {
		labelStyle = labelStyle.Bold(true)
	}

	var indicator string
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">")
	} else {
		indicator = " "
	}

	chord := ""
	if item.Keybinding != "" {
		chord = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Render(item.Keybinding)
	}

	labelWidth := width - 2 - lipgloss.Width(chord)
	label := item.Label()
	if lipgloss.Width(label) > labelWidth {
		label = label[:max(labelWidth-3, 0)] + "..."
	}

	line := indicator + labelStyle.Render(label)
	padding := max(width-lipgloss.Width(line)-lipgloss.Width(chord)-1, 1)
	return line + strings.Repeat(" ", padding) + chord
}

// Overlay renders the command palette centered over a background view.
func (m Model) Overlay() string {
	return lipgloss.Place(
		m.viewportWidth, m.viewportHeight,
		lipgloss.Center, lipgloss.Center,
		m.View(),
	)
}
