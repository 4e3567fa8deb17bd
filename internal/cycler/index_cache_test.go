package cycler

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexCache_BasicOperations(t *testing.T) {
	cache := NewIndexCache(0)

	_, ok := cache.Get("font")
	assert.False(t, ok)

	cache.Set("font", 2)
	index, ok := cache.Get("font")
	assert.True(t, ok)
	assert.Equal(t, 2, index)

	cache.Set("font", 0)
	index, _ = cache.Get("font")
	assert.Equal(t, 0, index)
	assert.Equal(t, 1, cache.Len())
}

func TestIndexCache_UnboundedNeverEvicts(t *testing.T) {
	cache := NewIndexCache(0)

	for i := 0; i < 5000; i++ {
		cache.Set(fmt.Sprintf("cycle-%d", i), i%3)
	}

	assert.Equal(t, 5000, cache.Len())
	index, ok := cache.Get("cycle-0")
	assert.True(t, ok)
	assert.Equal(t, 0, index)
}

func TestIndexCache_NegativeCapacity(t *testing.T) {
	cache := NewIndexCache(-4)
	assert.Equal(t, 0, cache.Capacity())
}

func TestIndexCache_BoundedEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewIndexCache(2)

	cache.Set("a", 0)
	cache.Set("b", 1)
	_, _ = cache.Get("a") // a becomes most recent
	cache.Set("c", 2)

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = cache.Get("a")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestIndexCache_ResetAndEntries(t *testing.T) {
	cache := NewIndexCache(0)
	cache.Set("zen", 1)
	cache.Set("font", 0)

	assert.Equal(t, []CacheEntry{{ID: "font", Index: 0}, {ID: "zen", Index: 1}}, cache.Entries())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
	assert.Empty(t, cache.Entries())

	cache.Set("after", 3)
	assert.Equal(t, 1, cache.Len())
}

func TestIndexCache_ConcurrentAccess(t *testing.T) {
	cache := NewIndexCache(16)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", n%20)
			cache.Set(id, n)
			_, _ = cache.Get(id)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 16)
}
