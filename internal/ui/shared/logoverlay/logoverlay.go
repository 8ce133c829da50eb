// Package logoverlay shows the recent debug log entries in a box drawn over
// the current screen, filtered by level, category and form field.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/inlineedit/internal/log"
	"github.com/zjrosen/inlineedit/internal/ui/styles"
)

const (
	viewportMaxHeight = 25
	viewportMinHeight = 5
	chromeHeight      = 6 // header, footer and borders
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

type keyMap struct {
	Clear    key.Binding
	Debug    key.Binding
	Info     key.Binding
	Warn     key.Binding
	Error    key.Binding
	Category key.Binding
	Field    key.Binding
	Down     key.Binding
	Up       key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Close    key.Binding
}

var keys = keyMap{
	Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	Debug:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug")),
	Info:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
	Warn:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "warn")),
	Error:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error")),
	Category: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category")),
	Field:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "field")),
	Down:     key.NewBinding(key.WithKeys("j", "down")),
	Up:       key.NewBinding(key.WithKeys("k", "up")),
	Top:      key.NewBinding(key.WithKeys("g")),
	Bottom:   key.NewBinding(key.WithKeys("G")),
	Close:    key.NewBinding(key.WithKeys("ctrl+x", "esc")),
}

var levelColors = map[log.Level]lipgloss.TerminalColor{
	log.LevelError: styles.StatusErrorColor,
	log.LevelWarn:  styles.StatusWarningColor,
	log.LevelInfo:  styles.InfoColor,
	log.LevelDebug: styles.TextMutedColor,
}

// Model is the log overlay state.
type Model struct {
	visible  bool
	minLevel log.Level
	category log.Category // "" shows every category
	field    string       // "" shows every field
	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

// New creates a hidden overlay showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// NewWithSize creates a hidden overlay for a screen of the given size.
func NewWithSize(width, height int) Model {
	m := New()
	m.SetSize(width, height)
	return m
}

// Update handles keys while the overlay is visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Clear):
			log.Clear()
			m.field = ""
		case key.Matches(msg, keys.Debug):
			m.minLevel = log.LevelDebug
		case key.Matches(msg, keys.Info):
			m.minLevel = log.LevelInfo
		case key.Matches(msg, keys.Warn):
			m.minLevel = log.LevelWarn
		case key.Matches(msg, keys.Error):
			m.minLevel = log.LevelError
		case key.Matches(msg, keys.Category):
			m.category = nextCategory(m.category)
		case key.Matches(msg, keys.Field):
			m.field = nextField(m.field, log.FieldNames())
		case key.Matches(msg, keys.Down):
			m.scroll(1)
			return m, nil
		case key.Matches(msg, keys.Up):
			m.scroll(-1)
			return m, nil
		case key.Matches(msg, keys.Top):
			if m.ready {
				m.viewport.GotoTop()
			}
			return m, nil
		case key.Matches(msg, keys.Bottom):
			if m.ready {
				m.viewport.GotoBottom()
			}
			return m, nil
		case key.Matches(msg, keys.Close):
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		default:
			return m, nil
		}
		m.refresh()

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// scroll moves the viewport by delta lines, down when positive.
func (m *Model) scroll(delta int) {
	if !m.ready {
		return
	}
	if delta > 0 {
		m.viewport.ScrollDown(delta)
	} else {
		m.viewport.ScrollUp(-delta)
	}
}

// nextCategory cycles "" -> each category -> "".
func nextCategory(c log.Category) log.Category {
	if c == "" {
		return log.Categories[0]
	}
	for i, cat := range log.Categories {
		if cat == c && i+1 < len(log.Categories) {
			return log.Categories[i+1]
		}
	}
	return ""
}

// nextField cycles "" -> each field -> "". A field no longer in names
// restarts the cycle.
func nextField(current string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	if current == "" {
		return names[0]
	}
	for i, name := range names {
		if name == current && i+1 < len(names) {
			return names[i+1]
		}
	}
	return ""
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, 80), 40)
}

// View renders the overlay box, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	boxWidth := m.boxWidth()

	title := "Logs"
	if m.category != "" {
		title += " · " + string(m.category)
	}
	if m.field != "" {
		title += " · field " + m.field
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1).
		Render(title)
	divider := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor).
		Render(strings.Repeat("─", boxWidth))

	content := m.viewport.View()
	if !m.ready {
		content = m.content(boxWidth - 2)
	}

	body := strings.Join([]string{header, divider, content, divider, m.hints()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(body)
}

// Overlay renders the box centered on the screen in place of bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.View())
}

func (m Model) entries() []log.Entry {
	return log.Recent(m.matches)
}

func (m Model) content(width int) string {
	entries := m.entries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			Render("No logs to display")
	}
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = colorize(entry, width)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.content(m.boxWidth() - 2))
	}
}


// matches reports whether e passes the level, category and field filters.
func (m Model) matches(e log.Entry) bool {
	switch {
	case e.Level < m.minLevel:
		return false
	case m.category != "" && e.Category != m.category:
		return false
	case m.field != "" && e.Field != m.field:
		return false
	}
	return true
}

func colorize(e log.Entry, width int) string {
	line := e.Line()
	if ansi.StringWidth(line) > width {
		line = ansi.Truncate(line, width-3, "...")
	}
	color, ok := levelColors[e.Level]
	if !ok {
		color = styles.TextPrimaryColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(line)
}

func (m Model) hints() string {
	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	levels := []struct {
		b     key.Binding
		level log.Level
	}{
		{keys.Debug, log.LevelDebug},
		{keys.Info, log.LevelInfo},
		{keys.Warn, log.LevelWarn},
		{keys.Error, log.LevelError},
	}
	hints := []string{muted.Render(hint(keys.Clear))}
	for _, l := range levels {
		style := muted
		if l.level == m.minLevel {
			style = active
		}
		hints = append(hints, style.Render(hint(l.b)))
	}
	hints = append(hints, muted.Render(hint(keys.Category)), muted.Render(hint(keys.Field)))
	return strings.Join(hints, "  ")
}

func hint(b key.Binding) string {
	h := b.Help()
	return "[" + h.Key + "] " + h.Desc
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle shows or hides the overlay.
func (m *Model) Toggle() {
	if m.visible {
		m.Hide()
		return
	}
	m.Show()
}

// Show makes the overlay visible with fresh content.
func (m *Model) Show() {
	m.visible = true
	if !m.ready {
		m.initViewport()
	}
	m.refresh()
}

// Hide hides the overlay.
func (m *Model) Hide() {
	m.visible = false
}

// SetSize records the screen size and rebuilds the viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.initViewport()
}

func (m *Model) initViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	height := max(min(viewportMaxHeight, m.height-chromeHeight), viewportMinHeight)
	m.viewport = viewport.New(m.boxWidth()-2, height)
	m.ready = true
	m.refresh()
}

// MinLevel returns the lowest level shown.
func (m Model) MinLevel() log.Level {
	return m.minLevel
}

// Category returns the category filter, "" for all.
func (m Model) Category() log.Category {
	return m.category
}

// Field returns the field filter, "" for all.
func (m Model) Field() string {
	return m.field
}
