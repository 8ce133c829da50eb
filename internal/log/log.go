// Package log is the debug log: leveled, categorized entries written to a
// file through tea.LogToFile and kept in memory for the log overlay. Entries
// about a form field carry its name so the overlay can follow one field.
// Nothing is recorded until Open or Attach runs, which the CLI does for
// --debug or INLINEEDIT_DEBUG.
package log

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level is an entry's severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category says which part of the control produced an entry.
type Category string

const (
	CatEditor  Category = "editor"  // edit state machine
	CatMount   Category = "mount"   // widget mount and unmount
	CatChannel Category = "channel" // value channel deliveries
	CatConfig  Category = "config"  // form definitions and field patterns
	CatStore   Category = "store"   // value store and journal
	CatUI      Category = "ui"      // Bubble Tea control
	CatMode    Category = "mode"    // playground
)

// Categories lists every category in display order.
var Categories = []Category{CatEditor, CatMount, CatChannel, CatConfig, CatStore, CatUI, CatMode}

// DebugEnvVar enables debug logging when set to a non-empty value.
const DebugEnvVar = "INLINEEDIT_DEBUG"

// DebugRequested reports whether debug logging was asked for by the flag
// or the environment.
func DebugRequested(flag bool) bool {
	return flag || os.Getenv(DebugEnvVar) != ""
}

// fieldKeys are the attribute keys naming the field an entry is about.
var fieldKeys = []string{"name", "field"}

type sink struct {
	w    io.Writer
	hist *history
}

var (
	mu     sync.Mutex
	active *sink
)

// Open starts logging to the file at path, prefixed by prefix, keeping the
// last keep entries for the overlay. The returned func stops logging and
// closes the file.
func Open(path, prefix string, keep int) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, fmt.Errorf("open debug log %s: %w", path, err)
	}
	stop := Attach(f, keep)
	return func() {
		stop()
		_ = f.Close()
	}, nil
}

// Attach starts logging to w, keeping the last keep entries. The returned
// func stops logging.
func Attach(w io.Writer, keep int) func() {
	s := &sink{w: w, hist: newHistory(keep)}
	mu.Lock()
	active = s
	mu.Unlock()
	return func() {
		mu.Lock()
		if active == s {
			active = nil
		}
		mu.Unlock()
	}
}

// Debug logs at debug level. fields are key/value pairs.
func Debug(cat Category, msg string, fields ...any) {
	record(LevelDebug, cat, msg, fields)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	record(LevelInfo, cat, msg, fields)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	record(LevelWarn, cat, msg, fields)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	record(LevelError, cat, msg, fields)
}

// ErrorErr logs err at error level under the "error" key.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	text := "<nil>"
	if err != nil {
		text = err.Error()
	}
	record(LevelError, cat, msg, append(fields, "error", text))
}

func record(level Level, cat Category, msg string, fields []any) {
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		return
	}

	e := Entry{Time: time.Now(), Level: level, Category: cat, Msg: msg}
	for i := 0; i < len(fields); i += 2 {
		a := Attr{Key: fmt.Sprint(fields[i]), Value: "<missing>"}
		if i+1 < len(fields) {
			a.Value = fmt.Sprint(fields[i+1])
		}
		if e.Field == "" && slices.Contains(fieldKeys, a.Key) {
			e.Field = a.Value
		}
		e.Attrs = append(e.Attrs, a)
	}

	if active.w != nil {
		_, _ = io.WriteString(active.w, e.Line()+"\n")
	}
	active.hist.push(e)
}

// Recent returns the kept entries accepted by keep, oldest first. A nil
// keep accepts every entry.
func Recent(keep func(Entry) bool) []Entry {
	mu.Lock()
	s := active
	mu.Unlock()
	if s == nil {
		return nil
	}
	all := s.hist.snapshot()
	if keep == nil {
		return all
	}
	return slices.DeleteFunc(all, func(e Entry) bool { return !keep(e) })
}

// FieldNames returns the fields named by kept entries in order of first
// appearance.
func FieldNames() []string {
	var names []string
	for _, e := range Recent(nil) {
		if e.Field != "" && !slices.Contains(names, e.Field) {
			names = append(names, e.Field)
		}
	}
	return names
}

// Clear drops the kept entries. The log file is untouched.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	if active != nil {
		active.hist.reset()
	}
}
