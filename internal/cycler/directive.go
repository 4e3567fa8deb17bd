package cycler

import (
	"context"
	"fmt"

	"settingscycler/pkg/cyclertypes"
)

// WriteFunc performs one deferred configuration write.
type WriteFunc func(ctx context.Context) error

// PendingWrite is a deferred write for one key of the applied snapshot.
type PendingWrite struct {
	Key   string
	Scope cyclertypes.Scope
	Write WriteFunc
}

// ResolveWrite returns the deferred write for key. Nothing is read or written
// until the returned function runs, so directives resolve against the state at
// write time and every pending write reads independently.
func ResolveWrite(store cyclertypes.ConfigStore, key string, requested any, control cyclertypes.CyclerControl) PendingWrite {
	scope := control.Scope()
	return PendingWrite{
		Key:   key,
		Scope: scope,
		Write: func(ctx context.Context) error {
			value, ok, err := resolveValue(ctx, store, key, requested, control)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := store.Update(ctx, key, value, scope); err != nil {
				return fmt.Errorf("failed to update %s in %s scope: %w", key, scope, err)
			}
			return nil
		},
	}
}

// resolveValue computes the concrete value to write. ok is false when the
// write should be skipped, which happens for toggles without an opposite.
func resolveValue(ctx context.Context, store cyclertypes.ConfigStore, key string, requested any, control cyclertypes.CyclerControl) (any, bool, error) {
	directive, isDirective := cyclertypes.AsDirective(requested)
	if !isDirective {
		return requested, true, nil
	}

	result, _, err := store.Inspect(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to inspect %s: %w", key, err)
	}
	current, _ := result.Resolved()

	switch directive {
	case cyclertypes.DirectiveIncrement:
		return control.Clamp(numericBase(current) + control.Step), true, nil
	case cyclertypes.DirectiveDecrement:
		return control.Clamp(numericBase(current) - control.Step), true, nil
	case cyclertypes.DirectiveToggle:
		opposite, found := Opposite(current)
		return opposite, found, nil
	}
	return requested, true, nil
}

func numericBase(v any) float64 {
	if f, ok := cyclertypes.NormalizeValue(v).(float64); ok {
		return f
	}
	return 0
}
