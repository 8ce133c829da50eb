package widgets

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/inlineedit/internal/editor"
)

var (
	selectUp   = key.NewBinding(key.WithKeys("up", "k"))
	selectDown = key.NewBinding(key.WithKeys("down", "j"))
	selectNone = key.NewBinding(key.WithKeys("backspace", "delete"))

	selectCursorStyle      = lipgloss.NewStyle().Bold(true)
	selectPlaceholderStyle = lipgloss.NewStyle().Faint(true)
)

// Select is a single-choice widget over the field's options. Its value is
// the chosen option's key, or nil when nothing is chosen.
type Select struct {
	base
	cursor  int // -1 when nothing is chosen
	focused bool
}

// NewSelect is the Constructor for the select kind.
func NewSelect(cfg editor.FieldConfig, emit func(editor.Value)) editor.Widget {
	return &Select{base: newBase(editor.KindSelect, cfg, emit), cursor: -1}
}

// SetValue moves the cursor to the option whose key equals v.
func (w *Select) SetValue(v editor.Value) {
	if w.destroyed {
		return
	}
	w.cursor = w.indexOf(v)
}

func (w *Select) indexOf(v editor.Value) int {
	for i, o := range w.cfg.Options {
		if editor.Equal(o.Key, v) {
			return i
		}
	}
	return -1
}

func (w *Select) Value() editor.Value {
	if w.cursor < 0 || w.cursor >= len(w.cfg.Options) {
		return nil
	}
	return w.cfg.Options[w.cursor].Key
}

// Cursor returns the index of the chosen option, -1 for none.
func (w *Select) Cursor() int {
	return w.cursor
}

func (w *Select) Focus() {
	if !w.destroyed {
		w.focused = true
	}
}

func (w *Select) Blur()         { w.focused = false }
func (w *Select) Focused() bool { return w.focused }

func (w *Select) Valid() bool {
	return !w.cfg.Required || w.Value() != nil
}

// Update moves the choice with up/down (or k/j) and clears it with
// backspace, emitting the new key.
func (w *Select) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || w.destroyed || !w.focused || len(w.cfg.Options) == 0 {
		return nil
	}
	prev := w.cursor
	switch {
	case key.Matches(keyMsg, selectUp):
		w.cursor = max(w.cursor-1, 0)
	case key.Matches(keyMsg, selectDown):
		w.cursor = min(w.cursor+1, len(w.cfg.Options)-1)
	case key.Matches(keyMsg, selectNone):
		w.cursor = -1
	}
	if w.cursor != prev {
		w.emit(w.Value())
	}
	return nil
}

func (w *Select) label(i int) string {
	o := w.cfg.Options[i]
	if o.Value == nil {
		return w.cfg.SelectPlaceholder
	}
	return editor.ValueString(o.Value)
}

// View shows the choice on one line when blurred and the whole list, with
// labels padded to a common width, when focused.
func (w *Select) View() string {
	if !w.focused {
		if w.cursor < 0 {
			return selectPlaceholderStyle.Render(w.cfg.SelectPlaceholder)
		}
		return w.label(w.cursor)
	}

	width := runewidth.StringWidth(w.cfg.SelectPlaceholder)
	for i := range w.cfg.Options {
		width = max(width, runewidth.StringWidth(w.label(i)))
	}

	lines := make([]string, 0, len(w.cfg.Options)+1)
	if w.cursor < 0 {
		lines = append(lines, "› "+selectPlaceholderStyle.Render(runewidth.FillRight(w.cfg.SelectPlaceholder, width)))
	}
	for i := range w.cfg.Options {
		text := runewidth.FillRight(w.label(i), width)
		if i == w.cursor {
			lines = append(lines, "› "+selectCursorStyle.Render(text))
		} else {
			lines = append(lines, "  "+text)
		}
	}
	return strings.Join(lines, "\n")
}

func (w *Select) Destroy() {
	w.destroyed = true
	w.focused = false
}
