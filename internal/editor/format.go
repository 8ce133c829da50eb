package editor

// Format returns the display text for v. Blank values show placeholder;
// select values show the matching option's display value, or placeholder
// when there is no match or the match has no display value.
func Format(v Value, kind Kind, options []Option, placeholder string) string {
	if IsBlank(v) {
		return placeholder
	}
	if kind != KindSelect {
		return ValueString(v)
	}
	for _, o := range options {
		if !Equal(o.Key, v) {
			continue
		}
		if o.Value == nil {
			return placeholder
		}
		return ValueString(o.Value)
	}
	return placeholder
}
