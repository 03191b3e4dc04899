package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process cache with TTL expiry and an LRU size cap.
// Expiry alone would let a long-running process grow without bound, so the
// cap evicts the least recently used entry once capacity is reached.
type MemoryCache struct {
	capacity int
	mu       sync.Mutex
	entries  map[string]*list.Element
	lru      *list.List
}

type memoryEntry struct {
	key    string
	value  []byte
	expiry time.Time
}

// NewMemoryCache creates a cache holding at most capacity entries.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 4096
	}
	return &MemoryCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached value for key if present and not expired.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*memoryEntry)
	if time.Now().After(entry.expiry) {
		c.lru.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return entry.value, true
}

// Set stores value under key with the given TTL, evicting the least recently
// used entry if the cache is full.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	expiry := time.Now().Add(ttl)
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiry = expiry
		return
	}

	elem := c.lru.PushFront(&memoryEntry{key: key, value: value, expiry: expiry})
	c.entries[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*memoryEntry).key)
		}
	}
}

// Len returns the number of entries currently held, including not yet
// collected expired ones.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
