// Package settings provides configuration stores for the cycler: a file store
// modelled on editor settings.json layering and an in-memory store for tests
// and throwaway sessions.
package settings

import (
	"context"
	"sync"

	"settingscycler/pkg/cyclertypes"
)

// UpdateRecord is one write accepted by a MemoryStore.
type UpdateRecord struct {
	Key   string
	Value any
	Scope cyclertypes.Scope
}

// MemoryStore keeps the default, global and workspace layers in memory.
// A key is known once any layer holds a value for it.
type MemoryStore struct {
	mu        sync.RWMutex
	defaults  map[string]any
	global    map[string]any
	workspace map[string]any
	failures  map[string]error
	updates   []UpdateRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		defaults:  make(map[string]any),
		global:    make(map[string]any),
		workspace: make(map[string]any),
		failures:  make(map[string]error),
	}
}

// SetDefault declares the default value of key.
func (m *MemoryStore) SetDefault(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults[key] = cyclertypes.NormalizeValue(value)
}

// Seed sets a value directly, bypassing failure injection and the update log.
func (m *MemoryStore) Seed(scope cyclertypes.Scope, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layer(scope)[key] = cyclertypes.NormalizeValue(value)
}

// FailOn makes every Update of key return err. A nil err clears the failure.
func (m *MemoryStore) FailOn(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

// Value returns the value stored for key in one layer.
func (m *MemoryStore) Value(scope cyclertypes.Scope, key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.layer(scope)[key]
	return v, ok
}

// Updates returns a copy of the accepted writes, in arrival order.
func (m *MemoryStore) Updates() []UpdateRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]UpdateRecord, len(m.updates))
	copy(out, m.updates)
	return out
}

// Inspect implements cyclertypes.ConfigStore.
func (m *MemoryStore) Inspect(_ context.Context, key string) (*cyclertypes.InspectionResult, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := &cyclertypes.InspectionResult{Key: key}
	known := false
	if v, ok := m.defaults[key]; ok {
		result.DefaultValue = cyclertypes.Some(v)
		known = true
	}
	if v, ok := m.global[key]; ok {
		result.GlobalValue = cyclertypes.Some(v)
		known = true
	}
	if v, ok := m.workspace[key]; ok {
		result.WorkspaceValue = cyclertypes.Some(v)
		known = true
	}
	if !known {
		return nil, false, nil
	}
	return result, true, nil
}

// Update implements cyclertypes.ConfigStore.
func (m *MemoryStore) Update(ctx context.Context, key string, value any, scope cyclertypes.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[key]; err != nil {
		return err
	}
	value = cyclertypes.NormalizeValue(value)
	m.layer(scope)[key] = value
	m.updates = append(m.updates, UpdateRecord{Key: key, Value: value, Scope: scope})
	return nil
}

// Current implements cyclertypes.ConfigStore.
func (m *MemoryStore) Current(_ context.Context) (cyclertypes.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return mergeLayers(m.defaults, m.global, m.workspace), nil
}

func (m *MemoryStore) layer(scope cyclertypes.Scope) map[string]any {
	if scope == cyclertypes.ScopeGlobal {
		return m.global
	}
	return m.workspace
}

// mergeLayers overlays layers left to right.
func mergeLayers(layers ...map[string]any) cyclertypes.Snapshot {
	merged := make(cyclertypes.Snapshot)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
