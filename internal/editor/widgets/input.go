package widgets

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/inlineedit/internal/editor"
)

// Input is a single-line widget over bubbles/textinput. The text, password,
// number and time kinds differ only in echo mode, accepted runes, how the
// text converts to a value and how it is validated.
type Input struct {
	base
	input   textinput.Model
	pattern *regexp.Regexp

	accept  func(r rune) bool
	toValue func(s string) editor.Value
	valid   func(cfg editor.FieldConfig, s string) bool
}

// NewText is the Constructor for the text kind.
func NewText(cfg editor.FieldConfig, emit func(editor.Value)) editor.Widget {
	w := newInput(editor.KindText, cfg, emit)
	w.input.CharLimit = max(cfg.MaxLength, 0)
	return w
}

// NewPassword is the Constructor for the password kind.
func NewPassword(cfg editor.FieldConfig, emit func(editor.Value)) editor.Widget {
	w := newInput(editor.KindPassword, cfg, emit)
	w.input.CharLimit = max(cfg.MaxLength, 0)
	w.input.EchoMode = textinput.EchoPassword
	w.input.EchoCharacter = '•'
	return w
}

// NewNumber is the Constructor for the number kind. Its value is a float64,
// nil when empty, or the raw text when it does not parse.
func NewNumber(cfg editor.FieldConfig, emit func(editor.Value)) editor.Widget {
	w := newInput(editor.KindNumber, cfg, emit)
	w.accept = func(r rune) bool {
		return (r >= '0' && r <= '9') || strings.ContainsRune(".-+eE", r)
	}
	w.toValue = numberValue
	w.valid = func(cfg editor.FieldConfig, s string) bool { return validNumber(cfg, s) }
	return w
}

// NewTime is the Constructor for the time kind (HH:MM).
func NewTime(cfg editor.FieldConfig, emit func(editor.Value)) editor.Widget {
	w := newInput(editor.KindTime, cfg, emit)
	w.input.CharLimit = len("00:00:00")
	w.input.Placeholder = placeholderOr(cfg.Placeholder, "hh:mm")
	w.accept = func(r rune) bool { return (r >= '0' && r <= '9') || r == ':' }
	w.valid = func(cfg editor.FieldConfig, s string) bool { return validTime(cfg, s) }
	return w
}

func newInput(kind editor.Kind, cfg editor.FieldConfig, emit func(editor.Value)) *Input {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = cfg.Placeholder
	ti.Cursor.SetMode(cursor.CursorStatic)

	w := &Input{
		base:    newBase(kind, cfg, emit),
		input:   ti,
		pattern: compilePattern(cfg.Pattern),
		toValue: func(s string) editor.Value { return s },
	}
	w.valid = func(cfg editor.FieldConfig, s string) bool { return validText(cfg, w.pattern, s) }
	return w
}

func placeholderOr(p, fallback string) string {
	if p != "" {
		return p
	}
	return fallback
}

func numberValue(s string) editor.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return f
}

// SetValue shows v. It never emits.
func (w *Input) SetValue(v editor.Value) {
	if w.destroyed {
		return
	}
	s := editor.ValueString(v)
	if s == w.input.Value() {
		return
	}
	w.input.SetValue(s)
	w.input.CursorEnd()
}

// Value converts the current text for the widget's kind.
func (w *Input) Value() editor.Value {
	return w.toValue(w.input.Value())
}

// Text returns the raw input text.
func (w *Input) Text() string {
	return w.input.Value()
}

func (w *Input) Focus() {
	if w.destroyed {
		return
	}
	_ = w.input.Focus()
}

func (w *Input) Blur() {
	w.input.Blur()
}

func (w *Input) Focused() bool {
	return w.input.Focused()
}

func (w *Input) Valid() bool {
	return w.valid(w.cfg, w.input.Value())
}

// Update forwards keys to the text input and emits when the text changed.
// Rejected runes are dropped before they reach the input.
func (w *Input) Update(msg tea.Msg) tea.Cmd {
	if w.destroyed || !w.input.Focused() {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyRunes && w.accept != nil {
		kept := key.Runes[:0:0]
		for _, r := range key.Runes {
			if w.accept(r) {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		key.Runes = kept
		msg = key
	}

	before := w.input.Value()
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if w.input.Value() != before {
		w.emit(w.Value())
	}
	return cmd
}

func (w *Input) View() string {
	return w.input.View()
}

func (w *Input) Destroy() {
	w.destroyed = true
	w.input.Blur()
}
