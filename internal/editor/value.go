package editor

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Value is the logical scalar held by the control: nil, a string, an
// integer or a float64. Values read from YAML may also be bools.
type Value = any

// ValueString renders v the way the display and the text widgets show it.
// nil renders as the empty string.
func ValueString(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}

// IsBlank reports whether v has no displayable content.
func IsBlank(v Value) bool {
	return v == nil || strings.TrimSpace(ValueString(v)) == ""
}

// Equal compares two values strictly: same dynamic type and same content.
// Non-comparable values are never equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
