package fetch

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// defaultCleanupInterval is how often expired entries are purged in the background.
const defaultCleanupInterval = 10 * time.Minute

// Cache holds successful responses by address.
//
// An entry expires strictly after its TTL and is evicted on the first read
// that finds it expired.
type Cache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCache creates a cache whose entries live for ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		cache: gocache.New(ttl, defaultCleanupInterval),
		ttl:   ttl,
	}
}

// Get returns the cached response for address.
func (c *Cache) Get(address string) (*Response, bool) {
	if val, found := c.cache.Get(address); found {
		return val.(*Response), true
	}
	// Expired entries stay in go-cache until the janitor runs.
	c.cache.Delete(address)
	return nil, false
}

// Set stores a response for address.
func (c *Cache) Set(address string, resp *Response) {
	c.cache.Set(address, resp, c.ttl)
}

// Len returns the number of stored entries, including expired entries that
// have not been evicted yet.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.cache.Flush()
}
