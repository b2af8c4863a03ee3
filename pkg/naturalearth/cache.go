package naturalearth

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// LayerCache keeps decoded layers in memory with LRU eviction.
//
// Memory use is estimated from feature and vertex counts. When adding a
// layer would exceed the limit, least-recently-used layers are evicted
// first.
type LayerCache struct {
	maxMemory  int64
	usedMemory int64
	layers     map[string]*cacheEntry
	lru        *list.List // most recent at front
	hits       int64
	misses     int64
	mu         sync.Mutex
}

type cacheEntry struct {
	key          string
	layer        *Layer
	memorySize   int64
	element      *list.Element
	lastAccessed time.Time
	accessCount  int
}

// NewLayerCache creates a cache with the given memory limit in bytes.
// A limit of 0 means unlimited.
func NewLayerCache(maxMemoryBytes int64) *LayerCache {
	return &LayerCache{
		maxMemory: maxMemoryBytes,
		layers:    make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Get returns a cached layer and marks it most recently used.
func (c *LayerCache) Get(key string) (*Layer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.layers[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	entry.lastAccessed = time.Now()
	entry.accessCount++
	c.lru.MoveToFront(entry.element)
	return entry.layer, true
}

// Add stores a layer, evicting older layers as needed.
//
// Returns an error if the layer alone is larger than the memory limit; the
// layer is then not cached.
func (c *LayerCache) Add(key string, layer *Layer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	memSize := estimateLayerMemory(layer)

	if entry, ok := c.layers[key]; ok {
		c.usedMemory += memSize - entry.memorySize
		entry.layer = layer
		entry.memorySize = memSize
		entry.lastAccessed = time.Now()
		c.lru.MoveToFront(entry.element)
		c.evictOver(entry)
		return nil
	}

	if c.maxMemory > 0 && memSize > c.maxMemory {
		return fmt.Errorf("layer %s too large for cache (%d bytes > %d bytes max)", key, memSize, c.maxMemory)
	}

	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{
		key:          key,
		layer:        layer,
		memorySize:   memSize,
		lastAccessed: time.Now(),
		accessCount:  1,
	}
	entry.element = c.lru.PushFront(entry)
	c.layers[key] = entry
	c.usedMemory += memSize
	return nil
}

// evictOver evicts other entries until usage fits. Must be called with c.mu held.
func (c *LayerCache) evictOver(keep *cacheEntry) {
	if c.maxMemory <= 0 {
		return
	}
	for c.usedMemory > c.maxMemory && c.lru.Back() != nil && c.lru.Back() != keep.element {
		c.evictLRU()
	}
}

// evictLRU removes the least recently used layer. Must be called with c.mu held.
func (c *LayerCache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.layers, entry.key)
	c.usedMemory -= entry.memorySize
}

// Remove drops a layer from the cache.
func (c *LayerCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.layers[key]; ok {
		c.lru.Remove(entry.element)
		delete(c.layers, key)
		c.usedMemory -= entry.memorySize
	}
}

// Clear empties the cache.
func (c *LayerCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.layers = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Keys returns cached layer keys, most recently used first.
func (c *LayerCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.lru.Len())
	for e := c.lru.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*cacheEntry).key)
	}
	return keys
}

// Stats returns cache statistics.
func (c *LayerCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		LayerCount: len(c.layers),
		UsedMemory: c.usedMemory,
		MaxMemory:  c.maxMemory,
		Hits:       c.hits,
		Misses:     c.misses,
	}
}

// CacheStats holds cache counters.
type CacheStats struct {
	LayerCount int   // layers currently cached
	UsedMemory int64 // estimated bytes
	MaxMemory  int64 // limit in bytes, 0 for unlimited
	Hits       int64
	Misses     int64
}

// HitRate returns the fraction of lookups served from memory (0.0 to 1.0).
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// estimateLayerMemory approximates the memory held by a decoded layer:
// 1KB base, 256 bytes per feature (geometry header plus index node) and
// 16 bytes per vertex.
func estimateLayerMemory(layer *Layer) int64 {
	if layer == nil {
		return 0
	}
	size := int64(1024)
	size += int64(len(layer.features)) * 256
	size += int64(layer.vertices) * 16
	return size
}
