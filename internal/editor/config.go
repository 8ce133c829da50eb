package editor

import (
	"math"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Kind selects the widget variant mounted while editing.
type Kind string

const (
	KindText     Kind = "text"
	KindPassword Kind = "password"
	KindNumber   Kind = "number"
	KindTime     Kind = "time"
	KindSelect   Kind = "select"
)

// Kinds lists the closed set of widget variants in registry order.
var Kinds = []Kind{KindText, KindPassword, KindNumber, KindTime, KindSelect}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// String returns the kind's type tag.
func (k Kind) String() string {
	return string(k)
}

// ParseKind maps a type tag to a Kind. Unknown or empty tags map to KindText.
func ParseKind(tag string) Kind {
	k := Kind(strings.ToLower(strings.TrimSpace(tag)))
	if k.Valid() {
		return k
	}
	return KindText
}

// Option is one entry of a select field: Key is the stored value, Value the
// text shown for it. A nil Value displays as the placeholder.
type Option struct {
	Key   Value `mapstructure:"key" yaml:"key"`
	Value Value `mapstructure:"value" yaml:"value"`
}

// Inputs are the caller-supplied field options. Zero values mean
// "not supplied".
type Inputs struct {
	Type              string   `mapstructure:"type" yaml:"type"`
	Name              string   `mapstructure:"name" yaml:"name"`
	Placeholder       string   `mapstructure:"placeholder" yaml:"placeholder"`
	Title             string   `mapstructure:"title" yaml:"title"`
	Required          bool     `mapstructure:"required" yaml:"required"`
	Min               float64  `mapstructure:"min" yaml:"min"`
	Max               float64  `mapstructure:"max" yaml:"max"`
	MinLength         int      `mapstructure:"minlength" yaml:"minlength"`
	MaxLength         int      `mapstructure:"maxlength" yaml:"maxlength"`
	Pattern           string   `mapstructure:"pattern" yaml:"pattern"`
	Options           []Option `mapstructure:"options" yaml:"options"`
	Step              string   `mapstructure:"step" yaml:"step"`
	SelectPlaceholder string   `mapstructure:"selectPlaceholder" yaml:"selectPlaceholder"`
}

// FieldConfig is the resolved, per-activation configuration of a control.
// It is replaced on every configuration change and never mutated.
type FieldConfig struct {
	Kind              Kind
	Name              string
	Placeholder       string
	Title             string
	Required          bool
	Min               float64
	Max               float64
	MinLength         int
	MaxLength         int
	Pattern           string // empty means no pattern
	Options           []Option
	Step              string
	SelectPlaceholder string
}

// DefaultConfig holds the fallback for every field.
var DefaultConfig = FieldConfig{
	Kind:              KindText,
	Name:              "",
	Required:          false,
	Placeholder:       "",
	Title:             "",
	Min:               0,
	Max:               math.Inf(1),
	MinLength:         0,
	MaxLength:         100,
	Pattern:           "",
	Options:           nil,
	Step:              "any",
	SelectPlaceholder: "Click to add",
}

// Resolve merges in over def. A field takes the input when it is truthy
// (non-empty string, non-zero number, true, non-empty options) and the
// default otherwise, so an explicit Required=false or Min=0 cannot override
// a truthy default.
func Resolve(in Inputs, def FieldConfig) FieldConfig {
	cfg := FieldConfig{
		Kind:              def.Kind,
		Name:              pick(in.Name, def.Name),
		Placeholder:       pick(in.Placeholder, def.Placeholder),
		Title:             pick(in.Title, def.Title),
		Required:          pick(in.Required, def.Required),
		Min:               pick(in.Min, def.Min),
		Max:               pick(in.Max, def.Max),
		MinLength:         pick(in.MinLength, def.MinLength),
		MaxLength:         pick(in.MaxLength, def.MaxLength),
		Pattern:           pick(in.Pattern, def.Pattern),
		Options:           slices.Clone(def.Options),
		Step:              pick(in.Step, def.Step),
		SelectPlaceholder: pick(in.SelectPlaceholder, def.SelectPlaceholder),
	}
	if in.Type != "" {
		cfg.Kind = ParseKind(in.Type)
	}
	if len(in.Options) > 0 {
		cfg.Options = slices.Clone(in.Options)
	}
	return cfg
}

// pick returns in unless it is the zero value.
func pick[T comparable](in, def T) T {
	var zero T
	if in != zero {
		return in
	}
	return def
}

// SameConfig reports whether two configurations would mount the same widget.
func SameConfig(a, b FieldConfig) bool {
	return cmp.Equal(a, b)
}
