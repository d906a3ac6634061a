// Package cache holds the in-process insight cache: an LRU with per-entry
// TTL, owner-prefix invalidation and an optional background sweep. Entries
// are cheap to regenerate, so the cache favors dropping over keeping.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// LRUCache evicts by recency once maxSize is reached and lazily on TTL
// expiry. All methods are safe for concurrent use.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List // front = most recently used

	sweepStop chan struct{}
	sweepDone chan struct{}
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached value for key. An expired entry is removed and
// reported as a miss.
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		c.remove(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return e.value, true
}

// Set stores value under key, restarting its TTL. The least recently used
// entry is dropped when the cache is full.
func (c *LRUCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(e)

	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

// Delete removes key if present.
func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

// DeletePrefix removes every key starting with prefix and returns how many
// were dropped. Keys are namespaced by owner, so this is how one owner's
// entries are invalidated after a data change.
func (c *LRUCache[T]) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.removeMatching(func(e *entry[T]) bool {
		return strings.HasPrefix(e.key, prefix)
	})
}

// CleanExpired removes every expired entry and returns how many were
// dropped. Get already drops expired entries it touches; this sweeps the
// ones nobody asks for anymore.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	return c.removeMatching(func(e *entry[T]) bool {
		return now.After(e.expiresAt)
	})
}

// Size returns the number of entries currently held, expired or not.
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// StartCleanup launches a goroutine that calls CleanExpired every interval
// until Stop is called. Call at most once.
func (c *LRUCache[T]) StartCleanup(interval time.Duration) {
	c.sweepStop = make(chan struct{})
	c.sweepDone = make(chan struct{})

	go func() {
		defer close(c.sweepDone)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.CleanExpired()
			case <-c.sweepStop:
				return
			}
		}
	}()
}

// Stop terminates the cleanup goroutine and waits for it to exit. Safe to
// call when StartCleanup was never called.
func (c *LRUCache[T]) Stop() {
	if c.sweepStop == nil {
		return
	}
	close(c.sweepStop)
	<-c.sweepDone
}

// remove and removeMatching require c.mu held.

func (c *LRUCache[T]) remove(elem *list.Element) {
	e := elem.Value.(*entry[T])
	delete(c.items, e.key)
	c.order.Remove(elem)
}

func (c *LRUCache[T]) removeMatching(match func(*entry[T]) bool) int {
	var doomed []*list.Element
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		if match(elem.Value.(*entry[T])) {
			doomed = append(doomed, elem)
		}
	}
	for _, elem := range doomed {
		c.remove(elem)
	}
	return len(doomed)
}
