// Package inlineedit is the Bubble Tea rendering of the inline editor: a
// field that shows its value as text and swaps in a typed input widget with
// Save and Cancel actions while it is being edited.
//
// The control drives an editor.Editor. Work the editor defers to the next
// tick is delivered through a tickMsg command, so a value published during
// one Update reaches the widget on a following one.
package inlineedit

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/inlineedit/internal/editor"
	"github.com/zjrosen/inlineedit/internal/editor/widgets"
	"github.com/zjrosen/inlineedit/internal/log"
	"github.com/zjrosen/inlineedit/internal/ui/styles"
)

// SaveMsg is sent when an edit is saved.
type SaveMsg struct {
	ID    string
	Name  string
	Value editor.Value
}

// CancelMsg is sent when an edit is cancelled. Value is the restored value.
type CancelMsg struct {
	ID    string
	Name  string
	Value editor.Value
}

type tickMsg struct{ id string }

// area is the part of the control holding focus while editing.
type area int

const (
	areaWidget area = iota
	areaSave
	areaCancel
)

// Zone suffixes appended to the control's ID.
const (
	zoneDisplay = "display"
	zoneWidget  = "widget"
	zoneSave    = "save"
	zoneCancel  = "cancel"
)

const maxDrain = 8

// Config configures a control.
type Config struct {
	Inputs   editor.Inputs
	Value    editor.Value
	Host     editor.HostAdapter
	Registry *editor.Registry // nil means widgets.Registry()
	Zones    *zone.Manager    // nil disables mouse support
	Tracer   trace.Tracer
	Width    int
}

// outbox collects the messages the editor callbacks produce during one
// Update. It is shared by every copy of a Model.
type outbox struct {
	msgs []tea.Msg
}

// Model is the inline-edit control.
type Model struct {
	id      string
	ed      *editor.Editor
	out     *outbox
	zones   *zone.Manager
	keys    KeyMap
	area    area
	focused bool
	invalid bool
	width   int
}

// New creates a control in display mode.
func New(cfg Config) Model {
	m := Model{
		id:    uuid.NewString(),
		out:   &outbox{},
		zones: cfg.Zones,
		keys:  DefaultKeyMap(),
		width: cfg.Width,
	}
	registry := cfg.Registry
	if registry == nil {
		registry = widgets.Registry()
	}

	id, out := m.id, m.out
	var ed *editor.Editor
	ed = editor.New(cfg.Inputs, editor.Options{
		Registry:  registry,
		Host:      cfg.Host,
		Tracer:    cfg.Tracer,
		InitValue: cfg.Value,
		OnSave: func(v editor.Value) {
			out.msgs = append(out.msgs, SaveMsg{ID: id, Name: ed.Config().Name, Value: v})
		},
		OnCancel: func(prev editor.Value) {
			out.msgs = append(out.msgs, CancelMsg{ID: id, Name: ed.Config().Name, Value: prev})
		},
	})
	m.ed = ed
	return m
}

// Init delivers the initial value to the mounted widget.
func (m Model) Init() tea.Cmd {
	return m.flush(nil)
}

// Update handles messages for the control.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.ed.Destroyed() {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tickMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.ed.Tick()

	case tea.KeyMsg:
		m.drain()
		if m.ed.Editing() {
			cmd = m.handleEditKey(msg)
		} else if m.focused && key.Matches(msg, m.keys.Edit) {
			m.edit()
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.drain()
		m.click(m.hit(msg))
	}
	return m, m.flush(cmd)
}

// drain runs deferred work still queued from earlier updates so input never
// overtakes a delivery or focus transfer.
func (m *Model) drain() {
	for i := 0; i < maxDrain && m.ed.Pending(); i++ {
		m.ed.Tick()
	}
}

func (m *Model) flush(cmd tea.Cmd) tea.Cmd {
	cmds := []tea.Cmd{cmd}
	for _, msg := range m.out.msgs {
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	m.out.msgs = nil
	if m.ed.Pending() {
		id := m.id
		cmds = append(cmds, func() tea.Msg { return tickMsg{id: id} })
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Cancel):
		m.ed.Cancel()
	case key.Matches(msg, m.keys.Next):
		m.moveTo((m.area + 1) % 3)
	case key.Matches(msg, m.keys.Prev):
		m.moveTo((m.area + 2) % 3)
	case key.Matches(msg, m.keys.Enter):
		if m.area == areaCancel {
			m.ed.Cancel()
		} else {
			m.save()
		}
	default:
		if m.area == areaWidget {
			if w := m.ed.Widget(); w != nil {
				m.invalid = false
				return w.Update(msg)
			}
		}
	}
	return nil
}

// moveTo moves focus inside the control. Leaving the widget is a blur whose
// target is the newly focused action.
func (m *Model) moveTo(to area) {
	from := m.area
	m.area = to
	w := m.ed.Widget()
	switch {
	case from == areaWidget && to != areaWidget:
		if w != nil {
			w.Blur()
		}
		if m.ed.Blur(targetOf(to)) == editor.BlurCancelled {
			m.area = areaWidget
		}
	case to == areaWidget && w != nil:
		w.Focus()
	}
}

func targetOf(a area) editor.FocusTarget {
	switch a {
	case areaSave:
		return editor.SaveTarget
	case areaCancel:
		return editor.CancelTarget
	default:
		return editor.NoTarget
	}
}

func (m *Model) edit() {
	m.area = areaWidget
	m.invalid = false
	m.ed.Edit()
}

func (m *Model) save() {
	w := m.ed.Widget()
	if w == nil {
		return
	}
	if !m.ed.Validate() {
		m.invalid = true
		log.Debug(log.CatUI, "save rejected", "name", m.ed.Config().Name)
		return
	}
	m.invalid = false
	m.ed.Save(w.Value())
	m.area = areaWidget
}

// hit returns the zone under a mouse event, or "" when it is outside the
// control.
func (m Model) hit(msg tea.MouseMsg) string {
	if m.zones == nil {
		return ""
	}
	for _, name := range []string{zoneSave, zoneCancel, zoneWidget, zoneDisplay} {
		if z := m.zones.Get(m.id + name); z != nil && z.InBounds(msg) {
			return name
		}
	}
	return ""
}

func (m *Model) click(zoneName string) {
	editing := m.ed.Editing()
	switch zoneName {
	case zoneDisplay:
		if !editing {
			m.focused = true
			m.edit()
		}
	case zoneWidget:
		if editing && m.area != areaWidget {
			m.moveTo(areaWidget)
		}
	case zoneSave:
		if editing {
			if m.area == areaWidget {
				m.moveTo(areaSave)
			}
			m.save()
		}
	case zoneCancel:
		if editing {
			if m.area == areaWidget {
				m.moveTo(areaCancel)
			}
			m.ed.Cancel()
		}
	default:
		m.focused = false
		if editing {
			m.ed.Blur(editor.NoTarget)
		}
	}
}

// View renders the display text, or the widget and its actions while
// editing.
func (m Model) View() string {
	if m.ed.Destroyed() {
		return ""
	}
	if !m.ed.Editing() {
		text := m.ed.DisplayText()
		if m.ed.Config().Kind == editor.KindPassword && !editor.IsBlank(m.ed.Value()) {
			text = strings.Repeat("•", uniseg.GraphemeClusterCount(text))
		}
		if m.width > 0 {
			text = truncate.StringWithTail(text, uint(m.width), "…")
		}
		style := styles.DisplayStyle
		if editor.IsBlank(m.ed.Value()) {
			style = styles.PlaceholderStyle
		}
		if m.focused {
			style = style.Inherit(styles.FocusedStyle)
		}
		return m.mark(zoneDisplay, style.Render(text))
	}

	var widget string
	if w := m.ed.Widget(); w != nil {
		widget = w.View()
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		m.mark(zoneWidget, widget),
		" ",
		m.mark(zoneSave, m.button("Save", areaSave)),
		" ",
		m.mark(zoneCancel, m.button("Cancel", areaCancel)),
	)
	if m.invalid {
		row = lipgloss.JoinVertical(lipgloss.Left, row, styles.ErrorStyle.Render("invalid value"))
	}
	return row
}

func (m Model) button(label string, a area) string {
	if m.area == a {
		return styles.ButtonFocusedStyle.Render(label)
	}
	return styles.ButtonStyle.Render(label)
}

func (m Model) mark(name, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(m.id+name, s)
}

// Focus gives the control keyboard focus.
func (m *Model) Focus() {
	m.focused = true
}

// Blur takes keyboard focus away; an open edit is cancelled.
func (m *Model) Blur() {
	m.focused = false
	if m.ed.Editing() {
		m.ed.Blur(editor.NoTarget)
	}
}

// Focused reports whether the control has keyboard focus.
func (m Model) Focused() bool {
	return m.focused
}

// Configure replaces the field inputs, remounting the widget when its kind
// or configuration changed.
func (m *Model) Configure(in editor.Inputs) (tea.Cmd, bool) {
	changed := m.ed.Configure(in)
	return m.flush(nil), changed
}

// SetWidth sets the width the display text is truncated to.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// WriteValue replaces the value from the form side.
func (m *Model) WriteValue(v editor.Value) {
	m.ed.WriteValue(v)
}

// Destroy tears the control down.
func (m *Model) Destroy() {
	m.ed.Destroy()
}

func (m Model) ID() string             { return m.id }
func (m Model) Name() string           { return m.ed.Config().Name }
func (m Model) Value() editor.Value    { return m.ed.Value() }
func (m Model) Editing() bool          { return m.ed.Editing() }
func (m Model) Invalid() bool          { return m.invalid }
func (m Model) Editor() *editor.Editor { return m.ed }
func (m Model) KeyMap() KeyMap         { return m.keys }

// Title is the field's label: its title, else its name.
func (m Model) Title() string {
	cfg := m.ed.Config()
	if cfg.Title != "" {
		return cfg.Title
	}
	return cfg.Name
}
