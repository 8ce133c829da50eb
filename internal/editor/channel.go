package editor

import "github.com/zjrosen/inlineedit/internal/log"

// Handler receives values delivered by a Channel.
type Handler func(Value)

// Channel is a single-slot broadcast link between the host control and the
// mounted widget. Publish stores the value and schedules delivery on the
// next tick; publishes made before that delivery runs are coalesced, so
// subscribers see the slot as it is when the tick fires.
type Channel struct {
	sched   Scheduler
	current Value
	subs    []*Subscription
	nextID  uint64
	pending bool
	closed  bool
}

// Subscription ties a handler to a Channel until Unsubscribe.
type Subscription struct {
	ch      *Channel
	id      uint64
	handler Handler
	active  bool
}

// NewChannel creates a channel whose slot starts at initial.
func NewChannel(sched Scheduler, initial Value) *Channel {
	return &Channel{sched: sched, current: initial}
}

// Current returns the value in the slot.
func (c *Channel) Current() Value {
	return c.current
}

// Publish stores v and schedules a delivery to every subscriber.
func (c *Channel) Publish(v Value) {
	if c.closed {
		return
	}
	c.current = v
	if c.pending {
		return
	}
	c.pending = true
	c.sched.Defer(c.deliver)
}

// Subscribe registers h. The current value is delivered to h on the next
// tick, followed by every later publish.
func (c *Channel) Subscribe(h Handler) *Subscription {
	c.nextID++
	s := &Subscription{ch: c, id: c.nextID, handler: h, active: !c.closed}
	if !s.active {
		return s
	}
	c.subs = append(c.subs, s)
	c.sched.Defer(func() {
		if s.active {
			s.handler(c.current)
		}
	})
	return s
}

// Subscribers returns the number of active subscriptions.
func (c *Channel) Subscribers() int {
	return len(c.subs)
}

// Close drops every subscriber; later publishes are ignored.
func (c *Channel) Close() {
	for _, s := range c.subs {
		s.active = false
	}
	c.subs = nil
	c.closed = true
}

func (c *Channel) deliver() {
	c.pending = false
	if c.closed {
		return
	}
	v := c.current
	subs := append([]*Subscription(nil), c.subs...)
	log.Debug(log.CatChannel, "deliver", "value", ValueString(v), "subscribers", len(subs))
	for _, s := range subs {
		if s.active {
			s.handler(v)
		}
	}
}

// Unsubscribe detaches the handler. Deliveries already scheduled skip it.
// Calling it more than once is safe.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	subs := s.ch.subs[:0]
	for _, other := range s.ch.subs {
		if other.id != s.id {
			subs = append(subs, other)
		}
	}
	s.ch.subs = subs
}

// Active reports whether the subscription still receives values.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}
