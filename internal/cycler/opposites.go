package cycler

import "math"

// opposites lists toggle pairs. Both directions are spelled out; a value
// toggles to the second element of the first pair whose first element is
// the same value.
var opposites = [][2]any{
	{true, false},
	{false, true},
	{0.0, 1.0},
	{1.0, 0.0},
	{"on", "off"},
	{"off", "on"},
	{"yes", "no"},
	{"no", "yes"},
	{"enabled", "disabled"},
	{"disabled", "enabled"},
	{"active", "inactive"},
	{"inactive", "active"},
}

// Opposite returns the toggled counterpart of v.
func Opposite(v any) (any, bool) {
	for _, pair := range opposites {
		if sameValue(pair[0], v) {
			return pair[1], true
		}
	}
	return nil, false
}

// sameValue compares by identity: same dynamic type and same value, with -0
// distinct from 0 and NaN equal to itself. There is no coercion, so 0 never
// matches false.
func sameValue(a, b any) bool {
	switch x := a.(type) {
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(x) || math.IsNaN(y) {
			return math.IsNaN(x) && math.IsNaN(y)
		}
		return x == y && math.Signbit(x) == math.Signbit(y)
	case nil:
		return b == nil
	}
	return false
}
