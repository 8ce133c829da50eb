// Package widgets holds the input variants the inline editor can mount and
// the registry that maps each editor.Kind to one of them.
package widgets

import (
	"github.com/google/uuid"

	"github.com/zjrosen/inlineedit/internal/editor"
)

// Registry returns the dispatch table for the closed set of kinds.
func Registry() *editor.Registry {
	return editor.NewRegistry(NewText, map[editor.Kind]editor.Constructor{
		editor.KindPassword: NewPassword,
		editor.KindNumber:   NewNumber,
		editor.KindTime:     NewTime,
		editor.KindSelect:   NewSelect,
	})
}

// base carries what every widget shares: identity, configuration, the emit
// callback and the destroyed flag.
type base struct {
	id        string
	kind      editor.Kind
	cfg       editor.FieldConfig
	emit      func(editor.Value)
	destroyed bool
}

func newBase(kind editor.Kind, cfg editor.FieldConfig, emit func(editor.Value)) base {
	if emit == nil {
		emit = func(editor.Value) {}
	}
	return base{id: uuid.NewString(), kind: kind, cfg: cfg, emit: emit}
}

func (b *base) ID() string                 { return b.id }
func (b *base) Kind() editor.Kind          { return b.kind }
func (b *base) Destroyed() bool            { return b.destroyed }
func (b *base) Config() editor.FieldConfig { return b.cfg }
