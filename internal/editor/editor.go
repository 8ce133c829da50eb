// Package editor implements the inline-edit core: configuration resolution,
// the widget registry, the deferred Value Channel, the mount point and the
// display/edit state machine. It has no rendering of its own; the Bubble Tea
// control in internal/ui/forms/inlineedit drives it.
package editor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/inlineedit/internal/log"
)

const tracerName = "github.com/zjrosen/inlineedit/internal/editor"

// FocusTarget names the element that receives focus when the widget blurs.
type FocusTarget string

const (
	NoTarget     FocusTarget = ""
	SaveTarget   FocusTarget = "editor-button-save"
	CancelTarget FocusTarget = "editor-button-cancel"
)

// BlurOutcome reports what a blur did.
type BlurOutcome int

const (
	BlurIgnored    BlurOutcome = iota // not editing
	BlurSuppressed                    // focus moved to the save action
	BlurCancelled                     // focus left the control
)

// HostAdapter is the enclosing form's view of the control. OnChange fires
// for every accepted change of the control's value; OnTouched after each
// save or cancel.
type HostAdapter interface {
	OnChange(v Value)
	OnTouched()
}

type nopHost struct{}

func (nopHost) OnChange(Value) {}
func (nopHost) OnTouched()     {}

// Options configures an Editor. Every field is optional; without a Registry
// every kind mounts a Plain widget.
type Options struct {
	Defaults  *FieldConfig // nil means DefaultConfig
	Registry  *Registry
	Queue     *Queue
	Host      HostAdapter
	OnSave    func(v Value)
	OnCancel  func(previous Value)
	Tracer    trace.Tracer
	InitValue Value
}

// EditSession is the rollback state of one edit, open from Edit until Save
// or Cancel.
type EditSession struct {
	PreviousValue Value

	// focusOutPending is armed and cleared within a single Blur call.
	focusOutPending bool
	span            trace.Span
}

// Editor is the inline-edit state machine. It starts in display mode and
// can cycle through edits indefinitely. All methods must be called from the
// UI goroutine.
//
// Save and Cancel notify in the same order: the value settles first (Cancel
// restores it, Save leaves it as edited), then the host's OnTouched, then
// OnSave or OnCancel.
type Editor struct {
	defaults FieldConfig
	inputs   Inputs
	cfg      FieldConfig
	value    Value

	queue   *Queue
	channel *Channel
	mount   *MountController
	hostSub *Subscription
	host    HostAdapter
	tracer  trace.Tracer

	onSave   func(Value)
	onCancel func(Value)

	session   *EditSession
	destroyed bool
}

// New resolves in, subscribes the control to its Value Channel and mounts
// the widget for the resolved kind.
func New(in Inputs, opts Options) *Editor {
	e := &Editor{
		defaults: DefaultConfig,
		inputs:   in,
		value:    opts.InitValue,
		queue:    opts.Queue,
		host:     opts.Host,
		tracer:   opts.Tracer,
		onSave:   opts.OnSave,
		onCancel: opts.OnCancel,
	}
	if opts.Defaults != nil {
		e.defaults = *opts.Defaults
	}
	if e.queue == nil {
		e.queue = NewQueue()
	}
	if e.host == nil {
		e.host = nopHost{}
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry(NewPlain, nil)
	}

	e.cfg = Resolve(in, e.defaults)
	e.channel = NewChannel(e.queue, nil)
	// The subscribe-time delivery only echoes the channel's seed; every
	// later one, nil included, is an edit the control takes.
	primed := false
	e.hostSub = e.channel.Subscribe(func(v Value) {
		if !primed {
			primed = true
			return
		}
		e.SetValue(v)
	})
	e.mount = NewMountController(registry, e.channel)
	e.mount.Mount(e.cfg.Kind, e.cfg)
	return e
}

// Configure replaces the caller inputs. The widget is remounted only when
// the resolved kind or configuration changed; it reports whether it was.
func (e *Editor) Configure(in Inputs) bool {
	if e.destroyed {
		return false
	}
	e.inputs = in
	e.cfg = Resolve(in, e.defaults)
	w, created := e.mount.Mount(e.cfg.Kind, e.cfg)
	if created && e.session != nil {
		e.scheduleFocus(w)
	}
	return created
}

// Value returns the control's value.
func (e *Editor) Value() Value {
	return e.value
}

// SetValue sets the control's value and notifies the host when it changed.
func (e *Editor) SetValue(v Value) {
	if Equal(v, e.value) {
		return
	}
	e.value = v
	e.host.OnChange(v)
}

// WriteValue sets the value from the host side without notifying it.
func (e *Editor) WriteValue(v Value) {
	e.value = v
}

// Edit enters edit mode: the current value is published to the widget and
// kept as the rollback point, and focus moves to the widget on a later
// tick. Calling Edit while already editing does nothing.
func (e *Editor) Edit() {
	if e.destroyed || e.session != nil {
		return
	}
	v := e.value
	e.channel.Publish(v)

	_, span := e.tracer.Start(context.Background(), "inlineedit.session",
		trace.WithAttributes(
			attribute.String("field.name", e.cfg.Name),
			attribute.String("field.kind", e.cfg.Kind.String()),
		))
	e.session = &EditSession{PreviousValue: v, span: span}
	e.scheduleFocus(e.mount.Current())

	log.Debug(log.CatEditor, "edit", "name", e.cfg.Name, "value", ValueString(v))
}

func (e *Editor) scheduleFocus(w Widget) {
	session := e.session
	e.queue.Defer(func() {
		if e.session != session || !e.mount.IsCurrent(w) {
			log.Debug(log.CatEditor, "focus transfer dropped", "name", e.cfg.Name)
			return
		}
		w.Focus()
	})
}

// Save ends the edit and emits v through OnSave. It does not overwrite the
// control's value. It returns false when not editing.
func (e *Editor) Save(v Value) bool {
	s := e.session
	if s == nil {
		return false
	}
	e.closeSession()
	e.host.OnTouched()
	if e.onSave != nil {
		e.onSave(v)
	}

	s.span.SetAttributes(attribute.String("outcome", "save"), attribute.String("value", ValueString(v)))
	s.span.SetStatus(codes.Ok, "")
	s.span.End()
	log.Info(log.CatEditor, "save", "name", e.cfg.Name, "value", ValueString(v))
	return true
}

// Cancel ends the edit and rolls the widget and the value back to the
// value captured by Edit. It returns false when not editing.
func (e *Editor) Cancel() bool {
	s := e.session
	if s == nil {
		return false
	}
	prev := s.PreviousValue
	e.channel.Publish(prev)
	e.closeSession()
	e.SetValue(prev)
	e.host.OnTouched()
	if e.onCancel != nil {
		e.onCancel(prev)
	}

	s.span.SetAttributes(attribute.String("outcome", "cancel"))
	s.span.End()
	log.Info(log.CatEditor, "cancel", "name", e.cfg.Name, "value", ValueString(prev))
	return true
}

// Blur handles focus leaving the widget for target. Moving to the save
// action suppresses the implicit cancel for this blur only; any other
// target cancels the edit.
func (e *Editor) Blur(target FocusTarget) BlurOutcome {
	s := e.session
	if s == nil {
		return BlurIgnored
	}
	defer func() { s.focusOutPending = false }()

	if target == SaveTarget {
		s.focusOutPending = true
	}
	if s.focusOutPending {
		return BlurSuppressed
	}
	e.Cancel()
	return BlurCancelled
}

func (e *Editor) closeSession() {
	e.session = nil
	if w := e.mount.Current(); w != nil {
		w.Blur()
	}
}

// Validate reports whether the mounted widget holds a valid value.
func (e *Editor) Validate() bool {
	w := e.mount.Current()
	return w != nil && w.Valid()
}

// Tick runs the work deferred to this tick and returns how many tasks ran.
func (e *Editor) Tick() int {
	return e.queue.Flush()
}

// Pending reports whether deferred work is waiting for a tick.
func (e *Editor) Pending() bool {
	return e.queue.Pending()
}

// Destroy tears the control down: the host subscription is dropped, the
// widget destroyed and every deferred callback discarded.
func (e *Editor) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if s := e.session; s != nil {
		s.span.SetAttributes(attribute.String("outcome", "destroyed"))
		s.span.End()
		e.session = nil
	}
	e.hostSub.Unsubscribe()
	e.mount.Unmount()
	e.channel.Close()
	e.queue.Stop()
	log.Debug(log.CatEditor, "destroyed", "name", e.cfg.Name)
}

// Editing reports whether an edit session is open.
func (e *Editor) Editing() bool {
	return e.session != nil
}

// Session returns the open edit session, or nil.
func (e *Editor) Session() *EditSession {
	return e.session
}

// Config returns the resolved configuration.
func (e *Editor) Config() FieldConfig {
	return e.cfg
}

// Inputs returns the caller inputs last given to New or Configure.
func (e *Editor) Inputs() Inputs {
	return e.inputs
}

// Widget returns the mounted widget, or nil after Destroy.
func (e *Editor) Widget() Widget {
	return e.mount.Current()
}

// LiveWidgets returns how many widget instances the control holds.
func (e *Editor) LiveWidgets() int {
	return e.mount.Live()
}

// Channel exposes the control's Value Channel.
func (e *Editor) Channel() *Channel {
	return e.channel
}

// DisplayText is the static text shown outside edit mode.
func (e *Editor) DisplayText() string {
	return Format(e.value, e.cfg.Kind, e.cfg.Options, e.cfg.SelectPlaceholder)
}

// Destroyed reports whether Destroy has run.
func (e *Editor) Destroyed() bool {
	return e.destroyed
}
