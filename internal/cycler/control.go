package cycler

import (
	"github.com/spf13/cast"

	"settingscycler/pkg/cyclertypes"
)

// ParseSnapshot splits a raw snapshot into its control parameters and the
// value-only snapshot. Control keys missing from raw keep the inherited values.
// Values that cannot be coerced to the expected type are ignored.
func ParseSnapshot(raw cyclertypes.Snapshot, inherited cyclertypes.CyclerControl) (cyclertypes.CyclerControl, cyclertypes.Snapshot) {
	control := inherited
	values := make(cyclertypes.Snapshot, len(raw))

	for key, value := range raw {
		if !cyclertypes.IsControlKey(key) {
			values[key] = value
			continue
		}
		switch key {
		case cyclertypes.ControlKeyGlobal:
			if b, err := cast.ToBoolE(value); err == nil {
				control.Global = b
			}
		case cyclertypes.ControlKeyStep:
			if f, err := cast.ToFloat64E(value); err == nil {
				control.Step = f
			}
		case cyclertypes.ControlKeyMin:
			if f, err := cast.ToFloat64E(value); err == nil {
				control.Min = f
			}
		case cyclertypes.ControlKeyMax:
			if f, err := cast.ToFloat64E(value); err == nil {
				control.Max = f
			}
		}
	}

	return control, values
}

// ParsedSnapshot is one cycle entry after control extraction.
type ParsedSnapshot struct {
	Control cyclertypes.CyclerControl
	Values  cyclertypes.Snapshot
}

// ParseSequence parses every snapshot of a cycle with the same inherited defaults.
func ParseSequence(raw []cyclertypes.Snapshot, inherited cyclertypes.CyclerControl) []ParsedSnapshot {
	parsed := make([]ParsedSnapshot, len(raw))
	for i, snap := range raw {
		control, values := ParseSnapshot(snap, inherited)
		parsed[i] = ParsedSnapshot{Control: control, Values: values}
	}
	return parsed
}
