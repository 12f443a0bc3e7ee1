package scriptbox

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/crypto/blake2b"
)

// DefaultCacheSize is used by NewCache for non-positive sizes.
const DefaultCacheSize = 256

// Cache is an LRU of parsed programs keyed by a BLAKE2b-256 digest of the
// source. Hosts that build scripts from the same text for many entities
// parse it once. It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	lru    *lru.Cache
	opts   *Options
	hits   int
	misses int
}

// NewCache creates a cache holding up to size programs, checked against
// the default policy.
func NewCache(size int) *Cache {
	return NewCacheWith(size, nil)
}

// NewCacheWith is like NewCache but parses with ParseWith(source, opts).
func NewCacheWith(size int, opts *Options) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{lru: lru.New(size), opts: opts}
}

// Parse returns the cached program for source, parsing it on a miss.
// Sources that fail to parse are not cached.
func (c *Cache) Parse(source string) (*Program, error) {
	key := blake2b.Sum256([]byte(source))

	c.mu.Lock()
	if v, ok := c.lru.Get(key); ok {
		c.hits++
		c.mu.Unlock()
		return v.(*Program), nil
	}
	c.misses++
	c.mu.Unlock()

	prog, err := ParseWith(source, c.opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have parsed the same source meanwhile; keep
	// the first program so callers share one instance.
	if v, ok := c.lru.Get(key); ok {
		return v.(*Program), nil
	}
	c.lru.Add(key, prog)
	return prog, nil
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns the hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
