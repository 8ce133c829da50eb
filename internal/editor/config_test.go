package editor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Resolve(Inputs{}, DefaultConfig)

	require.Equal(t, KindText, cfg.Kind)
	require.Equal(t, "", cfg.Name)
	require.Equal(t, "", cfg.Placeholder)
	require.Equal(t, "", cfg.Title)
	require.False(t, cfg.Required)
	require.Equal(t, 0.0, cfg.Min)
	require.True(t, math.IsInf(cfg.Max, 1), "max defaults to +Inf")
	require.Equal(t, 0, cfg.MinLength)
	require.Equal(t, 100, cfg.MaxLength)
	require.Equal(t, "", cfg.Pattern)
	require.Empty(t, cfg.Options)
	require.Equal(t, "any", cfg.Step)
	require.Equal(t, "Click to add", cfg.SelectPlaceholder)
}

func TestResolve_EachFieldOverrides(t *testing.T) {
	opts := []Option{{Key: "a", Value: "Apple"}}
	tests := []struct {
		name  string
		in    Inputs
		check func(t *testing.T, cfg FieldConfig)
	}{
		{"type", Inputs{Type: "number"}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, KindNumber, cfg.Kind) }},
		{"name", Inputs{Name: "email"}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, "email", cfg.Name) }},
		{"placeholder", Inputs{Placeholder: "you@x"}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, "you@x", cfg.Placeholder) }},
		{"title", Inputs{Title: "Email"}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, "Email", cfg.Title) }},
		{"required", Inputs{Required: true}, func(t *testing.T, cfg FieldConfig) { require.True(t, cfg.Required) }},
		{"min", Inputs{Min: 5}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, 5.0, cfg.Min) }},
		{"max", Inputs{Max: 10}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, 10.0, cfg.Max) }},
		{"minlength", Inputs{MinLength: 2}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, 2, cfg.MinLength) }},
		{"maxlength", Inputs{MaxLength: 8}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, 8, cfg.MaxLength) }},
		{"pattern", Inputs{Pattern: "[a-z]+"}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, "[a-z]+", cfg.Pattern) }},
		{"options", Inputs{Options: opts}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, opts, cfg.Options) }},
		{"step", Inputs{Step: "0.5"}, func(t *testing.T, cfg FieldConfig) { require.Equal(t, "0.5", cfg.Step) }},
		{"selectPlaceholder", Inputs{SelectPlaceholder: "Pick one"}, func(t *testing.T, cfg FieldConfig) {
			require.Equal(t, "Pick one", cfg.SelectPlaceholder)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Resolve(tt.in, DefaultConfig))
		})
	}
}

func TestResolve_FalsyOverridesFallBackToDefault(t *testing.T) {
	// Explicit false/zero cannot be told apart from "not supplied".
	def := DefaultConfig
	def.Required = true
	def.Min = 3
	def.MaxLength = 50

	cfg := Resolve(Inputs{Required: false, Min: 0, MaxLength: 0}, def)

	require.True(t, cfg.Required, "required:false falls back to a truthy default")
	require.Equal(t, 3.0, cfg.Min, "min:0 falls back to the default")
	require.Equal(t, 50, cfg.MaxLength)
}

func TestResolve_UnknownTypeFallsBackToText(t *testing.T) {
	cfg := Resolve(Inputs{Type: "date"}, DefaultConfig)
	require.Equal(t, KindText, cfg.Kind)
}

func TestResolve_CopiesOptions(t *testing.T) {
	opts := []Option{{Key: "a", Value: "Apple"}}
	cfg := Resolve(Inputs{Options: opts}, DefaultConfig)

	opts[0].Value = "Avocado"
	require.Equal(t, "Apple", cfg.Options[0].Value, "resolved config must not alias caller options")
}

func TestResolve_StringFieldsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := Inputs{
			Name:              rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "name"),
			Placeholder:       rapid.StringMatching(`[a-z ]{0,6}`).Draw(t, "placeholder"),
			Title:             rapid.StringMatching(`[A-Za-z]{0,6}`).Draw(t, "title"),
			Step:              rapid.SampledFrom([]string{"", "any", "1", "0.25"}).Draw(t, "step"),
			SelectPlaceholder: rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "selectPlaceholder"),
			MinLength:         rapid.IntRange(0, 5).Draw(t, "minlength"),
			MaxLength:         rapid.IntRange(0, 500).Draw(t, "maxlength"),
		}
		cfg := Resolve(in, DefaultConfig)

		expect := func(got, in, def string, field string) {
			if in != "" {
				require.Equal(t, in, got, field)
			} else {
				require.Equal(t, def, got, field)
			}
		}
		expect(cfg.Name, in.Name, DefaultConfig.Name, "name")
		expect(cfg.Placeholder, in.Placeholder, DefaultConfig.Placeholder, "placeholder")
		expect(cfg.Title, in.Title, DefaultConfig.Title, "title")
		expect(cfg.Step, in.Step, DefaultConfig.Step, "step")
		expect(cfg.SelectPlaceholder, in.SelectPlaceholder, DefaultConfig.SelectPlaceholder, "selectPlaceholder")

		if in.MaxLength != 0 {
			require.Equal(t, in.MaxLength, cfg.MaxLength)
		} else {
			require.Equal(t, 100, cfg.MaxLength)
		}
		require.Equal(t, in.MinLength, cfg.MinLength, "minlength default is 0 either way")
	})
}

func TestParseKind(t *testing.T) {
	require.Equal(t, KindSelect, ParseKind("select"))
	require.Equal(t, KindPassword, ParseKind(" Password "))
	require.Equal(t, KindText, ParseKind(""))
	require.Equal(t, KindText, ParseKind("checkbox"))
}

func TestSameConfig(t *testing.T) {
	a := Resolve(Inputs{Type: "select", Options: []Option{{Key: "a", Value: "Apple"}}}, DefaultConfig)
	b := Resolve(Inputs{Type: "select", Options: []Option{{Key: "a", Value: "Apple"}}}, DefaultConfig)
	require.True(t, SameConfig(a, b))

	b.Options = []Option{{Key: "a", Value: "Apricot"}}
	require.False(t, SameConfig(a, b))
}
