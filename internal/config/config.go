// Package config loads form definitions: the list of inline-edit fields a
// form shows, with their inputs and initial values. Definitions are YAML
// files read through viper; INLINEEDIT_* environment variables override
// top-level keys.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/zjrosen/inlineedit/internal/editor"
	"github.com/zjrosen/inlineedit/internal/log"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "INLINEEDIT"

//go:embed default_form.yaml
var defaultForm []byte

var (
	// ErrNoFields is returned for a definition without fields.
	ErrNoFields = errors.New("form defines no fields")
	// ErrInvalidField is returned for a field without a unique name.
	ErrInvalidField = errors.New("invalid field")
)

// FieldDef is one field of a form: the editor inputs plus its initial value.
type FieldDef struct {
	editor.Inputs `mapstructure:",squash" yaml:",inline"`

	Value editor.Value `mapstructure:"value" yaml:"value,omitempty"`
}

// Form is a decoded form definition.
type Form struct {
	Title  string     `mapstructure:"title" yaml:"title"`
	Fields []FieldDef `mapstructure:"fields" yaml:"fields"`
}

// Names returns the field names in order.
func (f Form) Names() []string {
	names := make([]string, len(f.Fields))
	for i, fd := range f.Fields {
		names[i] = fd.Name
	}
	return names
}

// Field returns the definition named name.
func (f Form) Field(name string) (FieldDef, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return FieldDef{}, false
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("title", "Form")
	return v
}

// Default returns the built-in demo form.
func Default() (Form, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(defaultForm)); err != nil {
		return Form{}, fmt.Errorf("read default form: %w", err)
	}
	return decode(v)
}

// Load reads the form definition at path.
func Load(path string) (Form, error) {
	v, err := open(path)
	if err != nil {
		return Form{}, err
	}
	return decode(v)
}

func open(path string) (*viper.Viper, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read form %s: %w", path, err)
	}
	return v, nil
}

func decode(v *viper.Viper) (Form, error) {
	var f Form
	if err := v.Unmarshal(&f); err != nil {
		return Form{}, fmt.Errorf("decode form: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Form{}, err
	}
	return f, nil
}

// Validate checks that the form has fields and that every field has a
// unique name.
func (f Form) Validate() error {
	if len(f.Fields) == 0 {
		return ErrNoFields
	}
	seen := make(map[string]bool, len(f.Fields))
	for i, fd := range f.Fields {
		switch {
		case fd.Name == "":
			return fmt.Errorf("%w: field %d has no name", ErrInvalidField, i)
		case seen[fd.Name]:
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidField, fd.Name)
		}
		seen[fd.Name] = true
	}
	return nil
}

// Watch loads the definition at path and calls onChange with the form
// every time the file changes and still decodes. onChange runs on the
// watcher's goroutine. Invalid edits are logged and skipped.
func Watch(path string, onChange func(Form)) (Form, error) {
	v, err := open(path)
	if err != nil {
		return Form{}, err
	}
	form, err := decode(v)
	if err != nil {
		return Form{}, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		f, err := decode(v)
		if err != nil {
			log.ErrorErr(log.CatConfig, "reload form", err, "path", e.Name)
			return
		}
		log.Info(log.CatConfig, "form reloaded", "path", e.Name, "op", e.Op.String(), "fields", len(f.Fields))
		onChange(f)
	})
	v.WatchConfig()
	log.Debug(log.CatConfig, "watching form", "path", path)
	return form, nil
}
