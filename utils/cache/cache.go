package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	gocache "github.com/patrickmn/go-cache"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// LRU is a size bounded cache whose entries also expire after a fixed TTL. Safe for
// concurrent use.
type LRU[T any] struct {
	storage *lru.Cache[string, entry[T]]
	ttl     time.Duration
	now     func() time.Time
}

// NewLRU creates a cache holding at most size entries for ttl each.
func NewLRU[T any](size int, ttl time.Duration) *LRU[T] {
	if size <= 0 {
		size = 128
	}
	storage, _ := lru.New[string, entry[T]](size)
	return &LRU[T]{storage: storage, ttl: ttl, now: time.Now}
}

func (c *LRU[T]) Set(key string, value T) {
	c.storage.Add(key, entry[T]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Get returns the cached value, dropping it if it expired.
func (c *LRU[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().After(item.expiresAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.value, true
}

func (c *LRU[T]) Delete(key string) {
	c.storage.Remove(key)
}

func (c *LRU[T]) Clear() {
	c.storage.Purge()
}

func (c *LRU[T]) Len() int {
	return c.storage.Len()
}

// Expiring is a typed view over a go-cache store with a default expiry.
type Expiring[T any] struct {
	store *gocache.Cache
}

// NewExpiring creates a cache where entries live for ttl and are swept every cleanup.
func NewExpiring[T any](ttl, cleanup time.Duration) *Expiring[T] {
	return &Expiring[T]{store: gocache.New(ttl, cleanup)}
}

func (c *Expiring[T]) Get(key string) (T, bool) {
	var zero T
	v, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

func (c *Expiring[T]) Set(key string, value T) {
	c.store.SetDefault(key, value)
}

func (c *Expiring[T]) Delete(key string) {
	c.store.Delete(key)
}

func (c *Expiring[T]) Flush() {
	c.store.Flush()
}
