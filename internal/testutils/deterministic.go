// Package testutils provides deterministic generators for test mode runs.
// Generated values keep their production format so output stays comparable.
package testutils

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// Thread-safe counter for deterministic ID generation
	idCounter uint64
	idMutex   sync.Mutex
)

// GenerateUUID returns a random UUID, or a counting one in test mode:
// 00000001-0000-4000-8000-000000000001, 00000002-0000-4000-8000-000000000002, ...
func GenerateUUID(testMode bool) string {
	if testMode {
		return getDeterministicUUID()
	}
	return uuid.New().String()
}

// UUIDSource returns a generator bound to testMode.
func UUIDSource(testMode bool) func() string {
	return func() string { return GenerateUUID(testMode) }
}

func getDeterministicUUID() string {
	idMutex.Lock()
	defer idMutex.Unlock()

	idCounter++

	// Version 4 layout with variant 8.
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", idCounter, idCounter)
}

// ResetTestCounters restarts the deterministic sequence.
func ResetTestCounters() {
	idMutex.Lock()
	defer idMutex.Unlock()

	idCounter = 0
}
