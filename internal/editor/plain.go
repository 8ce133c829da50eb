package editor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Plain is a headless widget that holds a value without any input handling.
// It backs editors built without a registry and is handy for driving the
// state machine directly.
type Plain struct {
	id        string
	kind      Kind
	cfg       FieldConfig
	value     Value
	emit      func(Value)
	focused   bool
	destroyed bool
}

// NewPlain is a Constructor for Plain widgets.
func NewPlain(cfg FieldConfig, emit func(Value)) Widget {
	return &Plain{id: uuid.NewString(), kind: cfg.Kind, cfg: cfg, emit: emit}
}

func (p *Plain) ID() string   { return p.id }
func (p *Plain) Kind() Kind   { return p.kind }
func (p *Plain) Value() Value { return p.value }

func (p *Plain) SetValue(v Value) {
	if !p.destroyed {
		p.value = v
	}
}

// Input replaces the value as if typed and emits it.
func (p *Plain) Input(v Value) {
	if p.destroyed {
		return
	}
	p.value = v
	p.emit(v)
}

func (p *Plain) Focus() {
	if !p.destroyed {
		p.focused = true
	}
}

func (p *Plain) Blur()         { p.focused = false }
func (p *Plain) Focused() bool { return p.focused }

// Valid only checks Required.
func (p *Plain) Valid() bool {
	return !p.cfg.Required || !IsBlank(p.value)
}

func (p *Plain) Update(tea.Msg) tea.Cmd { return nil }
func (p *Plain) View() string           { return ValueString(p.value) }

func (p *Plain) Destroy() {
	p.destroyed = true
	p.focused = false
}

func (p *Plain) Destroyed() bool { return p.destroyed }
