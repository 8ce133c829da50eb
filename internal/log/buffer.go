package log

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Attr is one key=value pair attached to an entry.
type Attr struct {
	Key   string
	Value string
}

// Entry is one logged event.
type Entry struct {
	Time     time.Time
	Level    Level
	Category Category
	Field    string // form field the event concerns, "" when none
	Msg      string
	Attrs    []Attr
}

// Line renders e as it is written to the log file, without a newline:
//
//	2026-03-01T09:30:00 [INFO] [editor] save name=city value=Oslo
func (e Entry) Line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", e.Time.Format("2006-01-02T15:04:05"), e.Level, e.Category, e.Msg)
	for _, a := range e.Attrs {
		b.WriteString(" " + a.Key + "=" + a.Value)
	}
	return b.String()
}

// history keeps the newest entries, oldest first once read.
type history struct {
	mu    sync.Mutex
	items []Entry
	limit int
	start int // oldest entry once items is full
}

func newHistory(limit int) *history {
	return &history{limit: max(limit, 1)}
}

func (h *history) push(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.items) < h.limit {
		h.items = append(h.items, e)
		return
	}
	h.items[h.start] = e
	h.start = (h.start + 1) % h.limit
}

func (h *history) snapshot() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, 0, len(h.items))
	out = append(out, h.items[h.start:]...)
	return append(out, h.items[:h.start]...)
}

func (h *history) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = h.items[:0]
	h.start = 0
}
