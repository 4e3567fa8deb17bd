package cyclertypes

import (
	"fmt"
	"math"
)

// Snapshot maps configuration keys to requested values. A requested value is
// either a literal or one of the directive tokens.
type Snapshot map[string]any

// Keys returns the snapshot keys in no particular order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Directive is a special token requesting a computed value instead of a literal.
type Directive string

// Directive tokens recognised in snapshot values.
const (
	DirectiveIncrement Directive = "$inc"
	DirectiveDecrement Directive = "$dec"
	DirectiveToggle    Directive = "$toggle"
)

// AsDirective reports whether v is one of the directive tokens.
func AsDirective(v any) (Directive, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	switch d := Directive(s); d {
	case DirectiveIncrement, DirectiveDecrement, DirectiveToggle:
		return d, true
	}
	return "", false
}

// Scope is the persistence layer a write targets.
type Scope int

// Supported write scopes.
const (
	ScopeWorkspace Scope = iota
	ScopeGlobal
)

// String returns the scope name used in logs and output.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeWorkspace:
		return "workspace"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Reserved snapshot keys carrying cycler control parameters.
const (
	ControlKeyGlobal = "$global"
	ControlKeyStep   = "$step"
	ControlKeyMin    = "$min"
	ControlKeyMax    = "$max"
)

// IsControlKey reports whether key is one of the reserved control keys.
func IsControlKey(key string) bool {
	switch key {
	case ControlKeyGlobal, ControlKeyStep, ControlKeyMin, ControlKeyMax:
		return true
	}
	return false
}

// CyclerControl holds the per-snapshot cycling parameters.
type CyclerControl struct {
	Global bool
	Step   float64
	Min    float64
	Max    float64
}

// DefaultControl returns the control parameters used when a snapshot sets none.
func DefaultControl() CyclerControl {
	return CyclerControl{
		Global: false,
		Step:   1,
		Min:    math.Inf(-1),
		Max:    math.Inf(1),
	}
}

// Scope returns the write scope selected by the control parameters.
func (c CyclerControl) Scope() Scope {
	if c.Global {
		return ScopeGlobal
	}
	return ScopeWorkspace
}

// Clamp limits v to the inclusive [Min, Max] range.
func (c CyclerControl) Clamp(v float64) float64 {
	if v > c.Max {
		v = c.Max
	}
	if v < c.Min {
		v = c.Min
	}
	return v
}

// Value is an optional configuration value. Set distinguishes an absent value
// from an explicit null.
type Value struct {
	Set bool
	V   any
}

// Some returns a present value.
func Some(v any) Value {
	return Value{Set: true, V: v}
}

// InspectionResult is a read of one key across every scope layer.
type InspectionResult struct {
	Key string

	DefaultValue         Value
	GlobalValue          Value
	WorkspaceValue       Value
	WorkspaceFolderValue Value

	DefaultLanguageValue         Value
	GlobalLanguageValue          Value
	WorkspaceLanguageValue       Value
	WorkspaceFolderLanguageValue Value

	LanguageIDs []string
}

// Effective returns the first present value in workspace, global, default order.
// Language-scoped values are not consulted.
func (r *InspectionResult) Effective() (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, v := range []Value{r.WorkspaceValue, r.GlobalValue, r.DefaultValue} {
		if v.Set {
			return v.V, true
		}
	}
	return nil, false
}

// Resolved returns the first non-null value in workspace, global, default
// order. An explicit null in a layer falls through to the next one, which is
// how directives read the value they adjust.
func (r *InspectionResult) Resolved() (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, v := range []Value{r.WorkspaceValue, r.GlobalValue, r.DefaultValue} {
		if v.Set && v.V != nil {
			return v.V, true
		}
	}
	return nil, false
}
