// internal/cache/cache.go
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache stores fetched page markup keyed by URL.
//
// The crawler uses it so that the plain-HTTP link expansion of a page that
// was already fetched over plain HTTP does not go back to the network.
type Cache interface {
	// Get returns the cached markup and whether it was found and still fresh.
	Get(key string) (string, bool)

	// Set stores markup with the specified TTL, replacing any previous entry.
	// Implementations may evict entries based on their eviction strategy.
	Set(key string, markup string, ttl time.Duration)

	// Delete removes an entry. Missing keys are not an error.
	Delete(key string)

	// Clear removes all entries.
	Clear()
}

type cacheEntry struct {
	Markup    string
	ExpiresAt time.Time
	Key       string
}

// MemoryCache is an in-memory page cache with LRU eviction bounded by total
// markup size.
type MemoryCache struct {
	store   map[string]*list.Element
	lruList *list.List
	mu      sync.Mutex
	maxSize int64
	size    int64
	hits    uint64
	misses  uint64
	now     func() time.Time
}

// NewMemoryCache creates a new in-memory cache with LRU eviction
func NewMemoryCache(maxSizeBytes int64) *MemoryCache {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 32 * 1024 * 1024
	}

	return &MemoryCache{
		store:   make(map[string]*list.Element),
		lruList: list.New(),
		maxSize: maxSizeBytes,
		now:     time.Now,
	}
}

// Get retrieves cached markup and moves the entry to the front of the LRU list
func (mc *MemoryCache) Get(key string) (string, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	element, exists := mc.store[key]
	if !exists {
		mc.misses++
		return "", false
	}

	entry := element.Value.(*cacheEntry)
	if mc.now().After(entry.ExpiresAt) {
		mc.misses++
		mc.removeElement(element)
		return "", false
	}

	mc.lruList.MoveToFront(element)
	mc.hits++

	log.Debug().Str("key", key).Msg("Cache hit")
	return entry.Markup, true
}

// Set stores markup with TTL
func (mc *MemoryCache) Set(key string, markup string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	size := int64(len(markup))
	if size > mc.maxSize {
		log.Debug().Str("key", key).Int64("size_bytes", size).Msg("Page too large to cache")
		return
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if element, exists := mc.store[key]; exists {
		mc.removeElement(element)
	}

	for mc.size+size > mc.maxSize && mc.lruList.Len() > 0 {
		mc.evictLRU()
	}

	element := mc.lruList.PushFront(&cacheEntry{
		Markup:    markup,
		ExpiresAt: mc.now().Add(ttl),
		Key:       key,
	})
	mc.store[key] = element
	mc.size += size

	log.Debug().
		Str("key", key).
		Dur("ttl", ttl).
		Int64("size_bytes", size).
		Msg("Cached page")
}

// Delete removes a cached page
func (mc *MemoryCache) Delete(key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if element, exists := mc.store[key]; exists {
		mc.removeElement(element)
	}
}

// Clear removes all cached pages
func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.store = make(map[string]*list.Element)
	mc.lruList = list.New()
	mc.size = 0
	mc.hits = 0
	mc.misses = 0
}

// Len returns the number of cached pages
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.lruList.Len()
}

// Stats returns cache statistics including hit rate
func (mc *MemoryCache) Stats() map[string]interface{} {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	hitRate := 0.0
	total := mc.hits + mc.misses
	if total > 0 {
		hitRate = float64(mc.hits) / float64(total) * 100
	}

	return map[string]interface{}{
		"entries":    mc.lruList.Len(),
		"size_bytes": mc.size,
		"max_size":   mc.maxSize,
		"hits":       mc.hits,
		"misses":     mc.misses,
		"hit_rate":   hitRate,
	}
}

// evictLRU removes the least recently used entry (must be called with lock held)
func (mc *MemoryCache) evictLRU() {
	element := mc.lruList.Back()
	if element == nil {
		return
	}
	log.Debug().Str("key", element.Value.(*cacheEntry).Key).Msg("Evicted from cache (LRU)")
	mc.removeElement(element)
}

// removeElement must be called with lock held
func (mc *MemoryCache) removeElement(element *list.Element) {
	entry := element.Value.(*cacheEntry)
	mc.lruList.Remove(element)
	delete(mc.store, entry.Key)
	mc.size -= int64(len(entry.Markup))
}
