package menu

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foodheaven/storefront-backend/pkg/enums"
)

// Cache holds the in-memory menu the storefront renders from. Reload
// replaces the contents wholesale; there is no partial merge. An empty
// catalog is a valid loaded state, distinct from never having loaded.
type Cache struct {
	mu       sync.RWMutex
	items    map[uuid.UUID]ItemDTO
	loaded   bool
	loadedAt time.Time
}

// NewCache returns an empty, not-yet-loaded cache.
func NewCache() *Cache {
	return &Cache{}
}

// Reload swaps the cached catalog for the provided items.
func (c *Cache) Reload(items []ItemDTO) {
	next := make(map[uuid.UUID]ItemDTO, len(items))
	for _, item := range items {
		next[item.ID] = item
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = next
	c.loaded = true
	c.loadedAt = time.Now().UTC()
}

// Get looks up one item. The second return reports whether the item is
// present; callers degrade gracefully when it is not.
func (c *Cache) Get(id uuid.UUID) (ItemDTO, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// Loaded reports whether the cache has been populated at least once.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LoadedAt returns the time of the last successful reload.
func (c *Cache) LoadedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt, c.loaded
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// ByCategory groups the cached items into storefront sections.
func (c *Cache) ByCategory() map[enums.MenuCategory][]ItemDTO {
	c.mu.RLock()
	defer c.mu.RUnlock()

	grouped := make(map[enums.MenuCategory][]ItemDTO)
	for _, item := range c.items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	for _, items := range grouped {
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	}
	return grouped
}
