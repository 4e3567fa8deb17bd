package cycler

import (
	"context"
	"fmt"

	"settingscycler/pkg/cyclertypes"
)

// ObserveCurrent reads the current value of every key through the store.
// Each known key resolves to its workspace value, else its global value, else
// its declared default; a known key with none of those maps to nil. Keys the
// store does not know are left out.
func ObserveCurrent(ctx context.Context, store cyclertypes.ConfigStore, keys []string) (cyclertypes.Snapshot, error) {
	observed := make(cyclertypes.Snapshot, len(keys))
	for _, key := range keys {
		result, known, err := store.Inspect(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", key, err)
		}
		if !known || result == nil {
			continue
		}
		value, _ := result.Effective()
		observed[key] = value
	}
	return observed, nil
}

// SequenceKeys returns the union of keys across a cycle, in first-seen order.
func SequenceKeys(sequence []cyclertypes.Snapshot) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, snap := range sequence {
		for key := range snap {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// MatchIndex returns the index of the last snapshot in sequence that matches
// observed, or -1 when none does. The scan never stops early so later
// duplicates win.
func MatchIndex(sequence []cyclertypes.Snapshot, observed cyclertypes.Snapshot) int {
	current := -1
	for i, snap := range sequence {
		if ShallowEqual(snap, observed) {
			current = i
		}
	}
	return current
}

// NextIndex computes the index to apply for cycle id and records it in cache.
// A cached index advances by one; otherwise the position is recovered from the
// observed configuration. sequence must not be empty.
func NextIndex(cache *IndexCache, id string, sequence []cyclertypes.Snapshot, observed cyclertypes.Snapshot) int {
	n := len(sequence)

	var next int
	if cached, ok := cache.Get(id); ok {
		next = mod(cached+1, n)
	} else {
		next = mod(MatchIndex(sequence, observed)+1, n)
	}

	cache.Set(id, next)
	return next
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
