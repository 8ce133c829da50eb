package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFormat(t *testing.T) {
	fruit := []Option{{Key: "a", Value: "Apple"}, {Key: "n", Value: nil}}

	tests := []struct {
		name    string
		value   Value
		kind    Kind
		options []Option
		want    string
	}{
		{"nil", nil, KindText, nil, "Click to add"},
		{"whitespace", "  ", KindText, nil, "Click to add"},
		{"text as is", "hello", KindText, nil, "hello"},
		{"number", 42.5, KindNumber, nil, "42.5"},
		{"integer", 7, KindNumber, nil, "7"},
		{"select match", "a", KindSelect, fruit, "Apple"},
		{"select no match", "z", KindSelect, fruit, "Click to add"},
		{"select nil display", "n", KindSelect, fruit, "Click to add"},
		{"select key type differs", 1, KindSelect, []Option{{Key: "1", Value: "One"}}, "Click to add"},
		{"non-select ignores options", "a", KindText, fruit, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Format(tt.value, tt.kind, tt.options, "Click to add"))
		})
	}
}

func TestFormat_BlankAlwaysPlaceholder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		blank := rapid.StringMatching(`[ \t\n]{0,5}`).Draw(t, "blank")
		kind := rapid.SampledFrom(Kinds).Draw(t, "kind")
		require.Equal(t, "ph", Format(blank, kind, nil, "ph"))
	})
}
