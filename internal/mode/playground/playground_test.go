package playground

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/inlineedit/internal/config"
	"github.com/zjrosen/inlineedit/internal/editor"
	"github.com/zjrosen/inlineedit/internal/journal"
	"github.com/zjrosen/inlineedit/internal/store"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drive sends msgs and feeds every resulting message back until the model
// settles. It reports whether the model asked to quit.
func drive(m Model, msgs ...tea.Msg) (Model, bool) {
	queue := append([]tea.Msg(nil), msgs...)
	quit := false
	for i := 0; len(queue) > 0 && i < 500; i++ {
		next := queue[0]
		queue = queue[1:]
		if _, ok := next.(tea.QuitMsg); ok {
			quit = true
			continue
		}
		model, cmd := m.Update(next)
		m = model.(Model)
		queue = append(queue, run(cmd)...)
	}
	return m, quit
}

func keys(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
)

func newPlayground(t *testing.T, s *store.Store) Model {
	t.Helper()
	form, err := config.Default()
	require.NoError(t, err)
	if s == nil {
		s = store.New("", form.Names())
	}
	m := New(Config{Form: form, Store: s, HelpStyle: "notty"})
	m, _ = drive(m, run(m.Init())...)
	m, _ = drive(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func value(t *testing.T, m Model, name string) editor.Value {
	t.Helper()
	v, err := m.store.Get(name)
	require.NoError(t, err)
	return v
}

func TestView_ListsFields(t *testing.T) {
	m := newPlayground(t, nil)
	view := m.View()

	for _, want := range []string{"Profile", "Name", "Ada Lovelace", "Age", "36", "Wake up", "07:30", "Banana", "Click to add"} {
		require.Contains(t, view, want)
	}
	require.Equal(t, "name", m.Focused())
}

func TestFocus_MovesAndWraps(t *testing.T) {
	m := newPlayground(t, nil)

	m, _ = drive(m, down)
	require.Equal(t, "email", m.Focused())

	m, _ = drive(m, up, up)
	require.Equal(t, "fruit", m.Focused())

	m, _ = drive(m, keys("j")...)
	require.Equal(t, "name", m.Focused())
}

func TestEditAndSave(t *testing.T) {
	m := newPlayground(t, nil)

	m, _ = drive(m, enter)
	require.True(t, m.Fields()[0].Editing())

	m, _ = drive(m, keys(" Byron")...)
	m, _ = drive(m, enter)

	require.False(t, m.Fields()[0].Editing())
	require.Equal(t, "Ada Lovelace Byron", value(t, m, "name"))
	view := m.View()
	require.Contains(t, view, "name: saved to memory")
	require.Contains(t, view, "last change")
	require.Contains(t, view, "name: Ada Lovelace Byron")
}

func TestEditAndCancel(t *testing.T) {
	m := newPlayground(t, nil)

	m, _ = drive(m, enter)
	m, _ = drive(m, keys("xyz")...)
	require.Equal(t, "Ada Lovelacexyz", value(t, m, "name"), "the store follows the edit")

	m, _ = drive(m, esc)
	require.Equal(t, "Ada Lovelace", value(t, m, "name"))
	require.Contains(t, m.View(), "name: edit cancelled")
	require.True(t, m.store.Touched("name"))
}

func TestKeysGoToEditingField(t *testing.T) {
	m := newPlayground(t, nil)

	m, _ = drive(m, enter)
	m, quit := drive(m, keys("jq")...)

	require.False(t, quit)
	require.Equal(t, "name", m.Focused())
	require.Equal(t, "Ada Lovelacejq", value(t, m, "name"))
}

func TestPasswordChangeIsMasked(t *testing.T) {
	m := newPlayground(t, nil)

	m, _ = drive(m, down, down)
	require.Equal(t, "secret", m.Focused())
	m, _ = drive(m, enter)
	m, _ = drive(m, keys("hunter22")...)
	m, _ = drive(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Equal(t, "hunter22", value(t, m, "secret"))
	view := m.View()
	require.Contains(t, view, "secret: ••••••")
	require.NotContains(t, view, "hunter22")
}

func TestSave_WritesValuesFile(t *testing.T) {
	form, err := config.Default()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "values.yaml")
	s := store.New(path, form.Names())

	m := newPlayground(t, s)
	m, _ = drive(m, down, down, down, down, down)
	require.Equal(t, "fruit", m.Focused())
	m, _ = drive(m, enter)
	m, _ = drive(m, keys("j")...)
	m, _ = drive(m, enter)

	require.Equal(t, "cherry", value(t, m, "fruit"))
	require.Contains(t, m.View(), "fruit: saved to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "fruit: cherry")
}

func TestSave_InvalidValueStaysInEditMode(t *testing.T) {
	m := newPlayground(t, nil)

	m, _ = drive(m, enter)
	for range "Ada Lovelace" {
		m, _ = drive(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = drive(m, enter)

	require.True(t, m.Fields()[0].Editing(), "required field cannot be saved empty")
	require.Contains(t, m.View(), "invalid value")
}

func TestHelpToggle(t *testing.T) {
	m := newPlayground(t, nil)
	require.NotContains(t, m.View(), "Inline editing")

	m, _ = drive(m, keys("?")...)
	require.Contains(t, m.View(), "Inline editing")

	m, _ = drive(m, keys("?")...)
	require.NotContains(t, m.View(), "Inline editing")
}

func TestLogOverlay(t *testing.T) {
	m := newPlayground(t, nil)

	m, _ = drive(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.True(t, m.logs.Visible())
	require.Contains(t, m.View(), "Logs")

	m, _ = drive(m, down)
	require.Equal(t, "name", m.Focused(), "keys go to the overlay while it is open")

	m, _ = drive(m, esc)
	require.False(t, m.logs.Visible())
}

func TestQuit(t *testing.T) {
	m := newPlayground(t, nil)

	m, quit := drive(m, keys("q")...)
	require.True(t, quit)
	require.Equal(t, "", m.View())
	for _, f := range m.Fields() {
		require.True(t, f.Editor().Destroyed())
	}
}

func TestForceQuitWhileEditing(t *testing.T) {
	m := newPlayground(t, nil)
	m, _ = drive(m, enter)

	_, quit := drive(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, quit)
}

func TestClickOutsideCancelsEdit(t *testing.T) {
	m := newPlayground(t, nil)
	m, _ = drive(m, enter)
	m, _ = drive(m, keys("!")...)

	m, _ = drive(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	require.False(t, m.Fields()[0].Editing())
	require.Equal(t, "Ada Lovelace", value(t, m, "name"))

	// the next key refocuses the field
	m, _ = drive(m, enter)
	require.True(t, m.Fields()[0].Editing())
}

func reloadedForm() config.Form {
	return config.Form{
		Title: "Reloaded",
		Fields: []config.FieldDef{
			{Inputs: editor.Inputs{Name: "name", Title: "Name", Type: "password"}},
			{Inputs: editor.Inputs{Name: "zip", Title: "Zip"}, Value: "0150"},
			{Inputs: editor.Inputs{Name: "age", Title: "Age", Type: "number", Min: 1, Max: 150, Step: "1"}},
		},
	}
}

func TestReload_ReconcilesFields(t *testing.T) {
	m := newPlayground(t, nil)
	m, _ = drive(m, down, down, down)
	require.Equal(t, "age", m.Focused())
	age := m.Fields()[3].Editor().Widget()

	m, _ = drive(m, formReloadedMsg{form: reloadedForm()})

	var names []string
	for _, f := range m.Fields() {
		names = append(names, f.Name())
	}
	require.Equal(t, []string{"name", "zip", "age"}, names)
	require.Equal(t, "age", m.Focused(), "focus follows the field across reloads")
	require.Equal(t, editor.KindPassword, m.Fields()[0].Editor().Widget().Kind())
	require.Same(t, age, m.Fields()[2].Editor().Widget(), "unchanged config keeps its widget")
	require.Equal(t, "0150", value(t, m, "zip"))
	require.Equal(t, "Ada Lovelace", value(t, m, "name"), "values survive a reload")

	view := m.View()
	require.Contains(t, view, "Reloaded")
	require.Contains(t, view, "form reloaded: 3 fields")
	require.NotContains(t, view, "Email")
}

func TestReload_FromChannel(t *testing.T) {
	form, err := config.Default()
	require.NoError(t, err)
	ch := make(chan config.Form, 1)
	ch <- reloadedForm()
	close(ch)

	m := New(Config{Form: form, Reloads: ch, HelpStyle: "notty"})
	m, _ = drive(m, run(m.Init())...)

	require.Len(t, m.Fields(), 3)
	require.Contains(t, m.View(), "Reloaded")
}

func TestSave_RecordsJournal(t *testing.T) {
	j, err := journal.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	form, err := config.Default()
	require.NoError(t, err)
	m := New(Config{Form: form, Journal: j, HelpStyle: "notty"})
	m, _ = drive(m, run(m.Init())...)

	m, _ = drive(m, enter)
	m, _ = drive(m, keys(" Byron")...)
	m, _ = drive(m, enter)
	require.Contains(t, m.View(), "name: saved to memory")

	entries, err := j.Recent(context.Background(), "name", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Ada Lovelace", entries[0].Before)
	require.Equal(t, "Ada Lovelace Byron", entries[0].After)
}
