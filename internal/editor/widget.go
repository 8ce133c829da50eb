package editor

import tea "github.com/charmbracelet/bubbletea"

// Widget is a mounted input variant. Widgets are pointer types that update
// in place; they report edits through the emit callback given to their
// Constructor and receive values from the Value Channel through SetValue.
type Widget interface {
	// ID identifies this instance; a remount always yields a new ID.
	ID() string
	Kind() Kind

	// SetValue shows v without emitting it back.
	SetValue(v Value)
	Value() Value

	// Focus moves input focus to the widget's primary input.
	Focus()
	Blur()
	Focused() bool

	// Valid reports whether the current input satisfies the field's
	// constraints.
	Valid() bool

	Update(msg tea.Msg) tea.Cmd
	View() string

	// Destroy releases the widget. A destroyed widget ignores input and
	// never emits.
	Destroy()
	Destroyed() bool
}

// Constructor builds a widget for cfg. emit publishes the widget's edits.
type Constructor func(cfg FieldConfig, emit func(Value)) Widget
