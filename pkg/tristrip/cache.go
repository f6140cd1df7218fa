package tristrip

// DefaultVertexCacheSize is the FIFO depth used when no size is given.
const DefaultVertexCacheSize = 16

// VertexCache simulates a post-transform FIFO vertex cache. The most recently
// added vertex sits at index 0.
type VertexCache struct {
	entries []int
	size    int
}

// NewVertexCache creates an empty cache holding up to size vertices.
// A size below zero is treated as zero, which never hits.
func NewVertexCache(size int) *VertexCache {
	if size < 0 {
		size = 0
	}
	return &VertexCache{
		entries: make([]int, 0, size),
		size:    size,
	}
}

// Size returns the cache capacity.
func (c *VertexCache) Size() int {
	return c.size
}

// Len returns the number of cached vertices.
func (c *VertexCache) Len() int {
	return len(c.entries)
}

// At returns the entry at position i (0 is the newest), or -1.
func (c *VertexCache) At(i int) int {
	if i < 0 || i >= len(c.entries) {
		return -1
	}
	return c.entries[i]
}

// InCache reports whether v is currently cached.
func (c *VertexCache) InCache(v int) bool {
	for _, e := range c.entries {
		if e == v {
			return true
		}
	}
	return false
}

// AddEntry pushes v to the front of the cache and returns the evicted vertex,
// or -1 when nothing fell out. Callers check InCache first.
func (c *VertexCache) AddEntry(v int) int {
	if c.size == 0 {
		return -1
	}
	evicted := -1
	if len(c.entries) == c.size {
		evicted = c.entries[c.size-1]
		c.entries = c.entries[:c.size-1]
	}
	c.entries = append(c.entries, 0)
	copy(c.entries[1:], c.entries)
	c.entries[0] = v
	return evicted
}

// Clear empties the cache.
func (c *VertexCache) Clear() {
	c.entries = c.entries[:0]
}

// touch adds v unless it is already cached and reports whether it was a hit.
func (c *VertexCache) touch(v int) bool {
	if c.InCache(v) {
		return true
	}
	c.AddEntry(v)
	return false
}
