package event

import "sync"

// Cache holds the last-fetched detail payload per event id. There is no TTL:
// correctness relies entirely on explicit invalidation by the mutation path.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]EventDetail
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]EventDetail)}
}

// Get returns a copy of the cached detail for id, if present.
func (c *Cache) Get(id string) (EventDetail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[id]
	if !ok {
		return EventDetail{}, false
	}
	return copyDetail(d), true
}

// Put stores the detail, overwriting any previous entry for the same id.
func (c *Cache) Put(d EventDetail) {
	if d.Id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[d.Id] = copyDetail(d)
}

// Invalidate removes the entry for id. Removing an absent id is a no-op.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

func (c *Cache) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// copyDetail detaches the costs slice so cached entries are never shared
// with callers.
func copyDetail(d EventDetail) EventDetail {
	if d.Costs != nil {
		costs := make([]CostLineItem, len(d.Costs))
		copy(costs, d.Costs)
		d.Costs = costs
	}
	return d
}
