package editor

import "github.com/zjrosen/inlineedit/internal/log"

// MountController owns the single mount point. It swaps widget instances
// when the kind or configuration changes and wires the mounted widget to
// the Value Channel.
type MountController struct {
	registry *Registry
	channel  *Channel

	current Widget
	sub     *Subscription
	kind    Kind
	cfg     FieldConfig
	live    int
}

// NewMountController creates an empty mount point.
func NewMountController(registry *Registry, channel *Channel) *MountController {
	return &MountController{registry: registry, channel: channel}
}

// Mount ensures the widget for (kind, cfg) is mounted. It returns the
// mounted widget and whether a new instance was created; an identical
// request keeps the existing instance. The new widget shows the channel's
// current value before Mount returns.
func (m *MountController) Mount(kind Kind, cfg FieldConfig) (Widget, bool) {
	if m.current != nil && !m.current.Destroyed() && m.kind == kind && SameConfig(m.cfg, cfg) {
		return m.current, false
	}
	m.Unmount()

	var w Widget
	emit := func(v Value) {
		if w != nil && m.current == w && !w.Destroyed() {
			m.channel.Publish(v)
		}
	}
	w = m.registry.Lookup(kind)(cfg, emit)
	m.current = w
	m.kind = kind
	m.cfg = cfg
	m.live++
	m.sub = m.channel.Subscribe(func(v Value) {
		if m.current == w && !w.Destroyed() {
			w.SetValue(v)
		}
	})
	w.SetValue(m.channel.Current())

	log.Debug(log.CatMount, "mounted", "kind", kind, "widget", w.Kind(), "id", w.ID(), "name", cfg.Name)
	return w, true
}

// Unmount unsubscribes and destroys the mounted widget, if any.
func (m *MountController) Unmount() {
	if m.current == nil {
		return
	}
	m.sub.Unsubscribe()
	m.sub = nil
	w := m.current
	m.current = nil
	if !w.Destroyed() {
		w.Destroy()
	}
	m.live--
	log.Debug(log.CatMount, "unmounted", "id", w.ID())
}

// Current returns the mounted widget, or nil.
func (m *MountController) Current() Widget {
	return m.current
}

// IsCurrent reports whether w is the mounted, undestroyed widget.
func (m *MountController) IsCurrent(w Widget) bool {
	return w != nil && m.current == w && !w.Destroyed()
}

// Live returns how many widgets created here are still held.
func (m *MountController) Live() int {
	return m.live
}
