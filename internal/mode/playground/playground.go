// Package playground is a demo form of inline editors: every field of a form
// definition is shown as an inline-edit control bound to a value store.
package playground

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/inlineedit/internal/config"
	"github.com/zjrosen/inlineedit/internal/editor"
	"github.com/zjrosen/inlineedit/internal/journal"
	"github.com/zjrosen/inlineedit/internal/log"
	"github.com/zjrosen/inlineedit/internal/store"
	"github.com/zjrosen/inlineedit/internal/ui/forms/inlineedit"
	"github.com/zjrosen/inlineedit/internal/ui/shared/logoverlay"
	"github.com/zjrosen/inlineedit/internal/ui/styles"
)

const helpMarkdown = `# Inline editing

Each row is a field. Move between fields with **↑/↓** (or **j/k**) and
press **enter** to edit the focused one.

| Key | While editing |
|-----|---------------|
| enter / ctrl+s | save |
| esc | cancel and restore the previous value |
| tab / shift+tab | move between the input, Save and Cancel |

Clicking a value starts an edit; clicking anywhere else cancels it.
Saved values are written to the values file and, with --journal, to a
history of saves. The form definition is reloaded when its file changes.
`

// KeyMap holds the playground's own key bindings. Keys not bound here go to
// the focused field.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Help      key.Binding
	Logs      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "down")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Logs:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "logs")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// Config configures the playground.
type Config struct {
	Form      config.Form
	Store     *store.Store
	Journal   *journal.Journal // optional log of saves
	Tracer    trace.Tracer
	Reloads   <-chan config.Form // form definitions from a file watcher
	HelpStyle string             // glamour style; "dark" when empty
}

type formReloadedMsg struct{ form config.Form }

type savedMsg struct {
	name string
	err  error
}

// change is the last saved edit.
type change struct {
	name   string
	kind   editor.Kind
	before editor.Value
	after  editor.Value
}

// Model holds the playground state.
type Model struct {
	title     string
	store     *store.Store
	journal   *journal.Journal
	tracer    trace.Tracer
	reloads   <-chan config.Form
	fields    []inlineedit.Model
	focus     int
	saved     map[string]editor.Value
	last      *change
	status    string
	failed    bool
	zones     *zone.Manager
	logs      logoverlay.Model
	keys      KeyMap
	helpStyle string
	help      string
	showHelp  bool
	width     int
	height    int
	quitting  bool
}

// New builds one control per field of cfg.Form. Fields without a stored
// value start from the form's initial value.
func New(cfg Config) Model {
	m := Model{
		title:     cfg.Form.Title,
		store:     cfg.Store,
		journal:   cfg.Journal,
		tracer:    cfg.Tracer,
		reloads:   cfg.Reloads,
		zones:     zone.New(),
		logs:      logoverlay.New(),
		keys:      DefaultKeyMap(),
		helpStyle: cfg.HelpStyle,
	}
	if m.store == nil {
		m.store = store.New("", cfg.Form.Names())
	}
	if m.helpStyle == "" {
		m.helpStyle = "dark"
	}
	for _, def := range cfg.Form.Fields {
		m.fields = append(m.fields, m.newField(def))
	}
	m.saved = m.store.Snapshot()
	if len(m.fields) > 0 {
		m.fields[0].Focus()
	}
	m.help = m.renderHelp()
	return m
}

func (m *Model) newField(def config.FieldDef) inlineedit.Model {
	m.store.Declare(def.Name)
	if err := m.store.Seed(def.Name, def.Value); err != nil {
		log.ErrorErr(log.CatMode, "seed field", err, "field", def.Name)
	}
	v, _ := m.store.Get(def.Name)
	return inlineedit.New(inlineedit.Config{
		Inputs: def.Inputs,
		Value:  v,
		Host:   m.store.Field(def.Name),
		Zones:  m.zones,
		Tracer: m.tracer,
	})
}

// Init starts every control and the form watcher.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.fields)+1)
	for _, f := range m.fields {
		cmds = append(cmds, f.Init())
	}
	cmds = append(cmds, m.waitForReload())
	return tea.Batch(cmds...)
}

func (m Model) waitForReload() tea.Cmd {
	ch := m.reloads
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		form, ok := <-ch
		if !ok {
			return nil
		}
		return formReloadedMsg{form: form}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logs.SetSize(msg.Width, msg.Height)
		m.layout()
		m.help = m.renderHelp()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case inlineedit.SaveMsg:
		return m.handleSave(msg)

	case inlineedit.CancelMsg:
		m.setStatus(fmt.Sprintf("%s: edit cancelled", msg.Name), false)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatMode, "save values", msg.err, "field", msg.name)
			m.setStatus("save failed: "+msg.err.Error(), true)
			return m, nil
		}
		where := m.store.Path()
		if where == "" {
			where = "memory"
		}
		m.setStatus(fmt.Sprintf("%s: saved to %s", msg.name, where), false)
		return m, nil

	case formReloadedMsg:
		cmd := m.applyForm(msg.form)
		return m, tea.Batch(cmd, m.waitForReload())

	case logoverlay.CloseMsg:
		return m, nil
	}
	return m, m.broadcast(msg)
}

func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.fields))
	for i := range m.fields {
		m.fields[i], cmds[i] = m.fields[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}
	if key.Matches(msg, m.keys.Logs) {
		m.logs.Toggle()
		return m, nil
	}
	if len(m.fields) == 0 {
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	f := &m.fields[m.focus]
	if f.Editing() {
		var cmd tea.Cmd
		*f, cmd = f.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	}

	if !f.Focused() {
		f.Focus()
	}
	var cmd tea.Cmd
	*f, cmd = f.Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) {
	n := len(m.fields)
	m.fields[m.focus].Blur()
	m.focus = (m.focus + delta + n) % n
	m.fields[m.focus].Focus()
}

// handleMouse lets every control hit-test the event, then follows focus to
// the control that took it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.logs.Visible() {
		return m, nil
	}
	cmd := m.broadcast(msg)
	for i, f := range m.fields {
		if f.Focused() {
			m.focus = i
			break
		}
	}
	return m, cmd
}

func (m Model) handleSave(msg inlineedit.SaveMsg) (tea.Model, tea.Cmd) {
	c := &change{name: msg.Name, before: m.saved[msg.Name], after: msg.Value}
	if f := m.field(msg.Name); f != nil {
		c.kind = f.Editor().Config().Kind
	}
	m.last = c
	m.saved[msg.Name] = msg.Value
	m.setStatus(msg.Name+": saving…", false)

	s, j, name := m.store, m.journal, msg.Name
	return m, func() tea.Msg {
		err := s.Save()
		if j != nil {
			if _, jerr := j.Record(context.Background(), name, c.kind, c.before, c.after); jerr != nil {
				err = errors.Join(err, jerr)
			}
		}
		return savedMsg{name: name, err: err}
	}
}

func (m *Model) field(name string) *inlineedit.Model {
	for i := range m.fields {
		if m.fields[i].Name() == name {
			return &m.fields[i]
		}
	}
	return nil
}

// applyForm reconciles the controls with a reloaded definition: existing
// fields are reconfigured in place, new ones created and dropped ones
// destroyed.
func (m *Model) applyForm(form config.Form) tea.Cmd {
	var focused string
	if len(m.fields) > 0 {
		focused = m.fields[m.focus].Name()
	}

	existing := make(map[string]inlineedit.Model, len(m.fields))
	for _, f := range m.fields {
		existing[f.Name()] = f
	}

	var cmds []tea.Cmd
	next := make([]inlineedit.Model, 0, len(form.Fields))
	for _, def := range form.Fields {
		f, ok := existing[def.Name]
		if !ok {
			f = m.newField(def)
			cmds = append(cmds, f.Init())
			log.Info(log.CatMode, "field added", "field", def.Name)
		} else {
			delete(existing, def.Name)
			cmd, remounted := f.Configure(def.Inputs)
			cmds = append(cmds, cmd)
			if remounted {
				log.Info(log.CatMode, "field reconfigured", "field", def.Name)
			}
		}
		next = append(next, f)
	}
	for name, f := range existing {
		f.Destroy()
		log.Info(log.CatMode, "field removed", "field", name)
	}

	m.title = form.Title
	m.fields = next
	m.focus = 0
	for i, f := range m.fields {
		if f.Name() == focused {
			m.focus = i
		}
	}
	for i := range m.fields {
		if i == m.focus {
			m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
	m.layout()
	m.setStatus(fmt.Sprintf("form reloaded: %d fields", len(m.fields)), false)
	return tea.Batch(cmds...)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	for i := range m.fields {
		m.fields[i].Destroy()
	}
	m.zones.Close()
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

func (m Model) labelWidth() int {
	w := 0
	for _, f := range m.fields {
		w = max(w, lipgloss.Width(f.Title()))
	}
	return w
}

// layout gives each control the width left after its label.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	width := max(m.width-m.labelWidth()-6, 10)
	for i := range m.fields {
		m.fields[i].SetWidth(width)
	}
}

func (m Model) renderHelp() string {
	width := 80
	if m.width > 0 {
		width = min(m.width-4, 100)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.helpStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.ErrorErr(log.CatMode, "help renderer", err)
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		log.ErrorErr(log.CatMode, "render help", err)
		return helpMarkdown
	}
	return out
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).MarginBottom(1)
	mutedStyle  = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	insertStyle = lipgloss.NewStyle().Foreground(styles.StatusSuccessColor).Underline(true)
	deleteStyle = lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Strikethrough(true)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	rows := []string{titleStyle.Render(m.title)}
	labelWidth := m.labelWidth()
	for i, f := range m.fields {
		marker := "  "
		if i == m.focus && f.Focused() {
			marker = "▸ "
		}
		label := styles.LabelStyle.Width(labelWidth).Render(f.Title())
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, marker, label, "  ", f.View()))
	}

	rows = append(rows, "")
	if m.last != nil {
		rows = append(rows, mutedStyle.Render("last change ")+m.last.render())
	}
	if m.status != "" {
		style := mutedStyle
		if m.failed {
			style = styles.ErrorStyle
		}
		rows = append(rows, style.Render(m.status))
	}
	rows = append(rows, mutedStyle.Render("↑/↓ move · enter edit · ? help · ctrl+x logs · q quit"))
	if m.showHelp {
		rows = append(rows, m.help)
	}

	out := strings.Join(rows, "\n")
	out = m.logs.Overlay(out)
	return m.zones.Scan(out)
}

// render shows the saved edit as an inline diff. Password values are never
// shown.
func (c change) render() string {
	if c.kind == editor.KindPassword {
		return c.name + ": ••••••"
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(editor.ValueString(c.before), editor.ValueString(c.after), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	b.WriteString(c.name + ": ")
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(insertStyle.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(deleteStyle.Render(d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// Focused returns the name of the focused field.
func (m Model) Focused() string {
	if len(m.fields) == 0 {
		return ""
	}
	return m.fields[m.focus].Name()
}

// Fields returns the controls in form order.
func (m Model) Fields() []inlineedit.Model {
	return m.fields
}
