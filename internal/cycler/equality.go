package cycler

import "settingscycler/pkg/cyclertypes"

// ShallowEqual reports whether candidate a matches the observed configuration b.
// Key presence is checked in both directions, values only one level deep:
// when a's value is composite and differs from b's, the pair is treated as
// equal rather than compared recursively.
func ShallowEqual(a, b cyclertypes.Snapshot) bool {
	for key, av := range a {
		bv, ok := b[key]
		if !ok {
			return false
		}
		if strictEqual(av, bv) {
			continue
		}
		if !cyclertypes.IsComposite(av) {
			return false
		}
	}
	for key := range b {
		if _, ok := a[key]; !ok {
			return false
		}
	}
	return true
}

// strictEqual compares primitives without coercion. Composite values are never
// strictly equal to anything, which mirrors reference comparison of freshly
// decoded objects.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if cyclertypes.IsComposite(a) || cyclertypes.IsComposite(b) {
		return false
	}
	switch x := a.(type) {
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	}
	return false
}
