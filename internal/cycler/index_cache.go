package cycler

import (
	"sort"
	"sync"
)

// IndexCache maps a cycle identity to the index that was last applied.
// It is created once per process (or per shell session) and handed to the
// engine. With capacity 0 entries are never evicted; a positive capacity
// evicts the least recently used identity once the limit is exceeded.
//
// The mutex only keeps the map memory safe. Two invocations of the same cycle
// can still both read before either writes, which is accepted.
type IndexCache struct {
	capacity int
	entries  map[string]*indexNode
	head     *indexNode
	tail     *indexNode
	mutex    sync.Mutex
}

// indexNode is a node in the recency list. head.next is the most recent entry.
type indexNode struct {
	id    string
	index int
	prev  *indexNode
	next  *indexNode
}

// NewIndexCache creates an empty cache. Negative capacities are treated as 0.
func NewIndexCache(capacity int) *IndexCache {
	if capacity < 0 {
		capacity = 0
	}

	head := &indexNode{}
	tail := &indexNode{}
	head.next = tail
	tail.prev = head

	return &IndexCache{
		capacity: capacity,
		entries:  make(map[string]*indexNode),
		head:     head,
		tail:     tail,
	}
}

// Get returns the last applied index for id.
func (c *IndexCache) Get(id string) (int, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	node, exists := c.entries[id]
	if !exists {
		return 0, false
	}
	c.moveToHead(node)
	return node.index, true
}

// Set records index for id, overwriting any previous entry.
func (c *IndexCache) Set(id string, index int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if node, exists := c.entries[id]; exists {
		node.index = index
		c.moveToHead(node)
		return
	}

	node := &indexNode{id: id, index: index}
	c.entries[id] = node
	c.addToHead(node)

	if c.capacity > 0 && len(c.entries) > c.capacity {
		c.evictLRU()
	}
}

// Reset removes every entry.
func (c *IndexCache) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*indexNode)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the number of cached identities.
func (c *IndexCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

// Capacity returns the configured bound, 0 meaning unbounded.
func (c *IndexCache) Capacity() int {
	return c.capacity
}

// CacheEntry is one identity and its last applied index.
type CacheEntry struct {
	ID    string
	Index int
}

// Entries returns all entries sorted by identity.
func (c *IndexCache) Entries() []CacheEntry {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result := make([]CacheEntry, 0, len(c.entries))
	for id, node := range c.entries {
		result = append(result, CacheEntry{ID: id, Index: node.index})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Must be called with mutex locked.
func (c *IndexCache) moveToHead(node *indexNode) {
	c.removeNode(node)
	c.addToHead(node)
}

// Must be called with mutex locked.
func (c *IndexCache) addToHead(node *indexNode) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

// Must be called with mutex locked.
func (c *IndexCache) removeNode(node *indexNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

// Must be called with mutex locked.
func (c *IndexCache) evictLRU() {
	last := c.tail.prev
	if last == c.head {
		return
	}
	c.removeNode(last)
	delete(c.entries, last.id)
}
