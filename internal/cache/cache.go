package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/pkg/errors"

	"dequedict/internal/metrics"
	"dequedict/pkg/dequedict"
)

// Config controls cache capacity and maintenance behavior.
//
// Correctness-first defaults:
//   - MaxEntries <= 0 means "unbounded" (no LRU eviction)
//   - CleanupInterval <= 0 disables background cleanup (lazy expiration still works)
//   - Impl == "" uses the process-wide container implementation
//
// Background cleanup exists to prevent memory growth when keys are written once and never read again.
type Config struct {
	MaxEntries      int
	CleanupInterval time.Duration
	Impl            dequedict.Impl

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Validate reports a configuration the cache cannot run with.
func (cfg Config) Validate() error {
	switch cfg.Impl {
	case "", dequedict.Linked, dequedict.ArenaImpl:
	default:
		return errors.Errorf("unknown container implementation %q", cfg.Impl)
	}
	return nil
}

// Cache is a concurrency-safe in-memory key–value cache with TTL and LRU eviction.
//
// Recency lives in a dequedict: the front is the least recently used entry
// and the back the most recently used, so eviction is PopFront and a touch is
// MoveToEnd.
//
// Ownership model:
// Cache owns its internal goroutines. Call Close to stop them.
type Cache[K comparable, V any] struct {
	mu sync.RWMutex

	maxEntries int
	entries    dequedict.Dict[K, *entry[V]]
	metrics    *metrics.Metrics

	// Goroutine ownership.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cleanupEvery time.Duration
	closed       bool
}

// entry is the value stored per key.
//
// ExpiresAt is optional: hasExpiry=false means "never expires".
type entry[V any] struct {
	value     V
	expiresAt time.Time
	hasExpiry bool
}

func (e *entry[V]) expired(now time.Time) bool {
	return e.hasExpiry && !e.expiresAt.After(now)
}

var ErrClosed = errors.New("cache is closed")

// New constructs a cache and starts background maintenance (if enabled).
// The logger in ctx is used by the maintenance loop; cancelling ctx stops it.
func New[K comparable, V any](ctx context.Context, cfg Config) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid cache config")
	}
	impl := cfg.Impl
	if impl == "" {
		impl = dequedict.Implementation()
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &Cache[K, V]{
		maxEntries:   cfg.MaxEntries,
		entries:      dequedict.NewImpl[K, *entry[V]](impl),
		metrics:      cfg.Metrics,
		ctx:          ctx,
		cancel:       cancel,
		cleanupEvery: cfg.CleanupInterval,
	}

	log := clog.FromContext(ctx)
	if c.maxEntries > 0 {
		log.Infof("Cache limited to %d entries (%s container)", c.maxEntries, impl)
	} else {
		log.Infof("Cache is unbounded (%s container)", impl)
	}

	if c.cleanupEvery > 0 {
		c.wg.Add(1)
		go c.expiryLoop()
	}

	return c, nil
}

// Close stops background goroutines and prevents further mutation.
//
// Close is safe to call multiple times.
func (c *Cache[K, V]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	// Cancel outside the lock so shutdown doesn't block readers/writers.
	cancel()
	c.wg.Wait()
	return nil
}

// Set writes/overwrites a key and marks it most recently used.
//
// ttl semantics:
//   - ttl <= 0 means "no expiration" (common cache API convention)
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	now := time.Now()
	e := &entry[V]{value: value, hasExpiry: ttl > 0}
	if e.hasExpiry {
		e.expiresAt = now.Add(ttl)
	}

	if c.entries.Contains(key) {
		c.entries.Set(key, e)
		// Updating counts as use.
		_ = c.entries.MoveToEnd(key, false)
	} else {
		c.entries.Set(key, e)
	}

	c.evictIfNeededLocked(now)
	c.observeLenLocked()
	return nil
}

// Get reads a key and marks it most recently used.
//
// It performs lazy TTL expiration: expired keys are removed on access.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries.Lookup(key)
	if !ok {
		c.count(func(m *metrics.Metrics) { m.Misses.Inc() })
		return zero, false
	}
	if e.expired(now) {
		_ = c.entries.Delete(key)
		c.count(func(m *metrics.Metrics) {
			m.Misses.Inc()
			m.Expirations.Inc()
		})
		c.observeLenLocked()
		return zero, false
	}

	_ = c.entries.MoveToEnd(key, false)
	c.count(func(m *metrics.Metrics) { m.Hits.Inc() })
	return e.value, true
}

// Peek reads a key without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	e, ok := c.entries.Lookup(key)
	if !ok || e.expired(time.Now()) {
		return zero, false
	}
	return e.value, true
}

// Delete removes a key if present.
func (c *Cache[K, V]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.entries.PopOr(key, nil)
	c.observeLenLocked()
	return nil
}

// Len returns the number of currently stored entries.
//
// Note: Len includes entries that have expired but haven't been cleaned up yet.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}

// Keys returns keys in MRU -> LRU order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Collect(c.entries.Keys().Backward())
}

// Oldest returns the least recently used key without touching it.
func (c *Cache[K, V]) Oldest() (K, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	k, err := c.entries.PeekFrontKey()
	return k, err == nil
}

func (c *Cache[K, V]) evictIfNeededLocked(now time.Time) {
	if c.maxEntries <= 0 {
		return
	}

	// Prefer to reclaim expired entries first if we're under pressure.
	if c.entries.Len() > c.maxEntries {
		c.deleteExpiredLocked(now)
	}

	for c.entries.Len() > c.maxEntries {
		if _, _, err := c.entries.PopFrontItem(); err != nil {
			return
		}
		c.count(func(m *metrics.Metrics) { m.Evictions.Inc() })
	}
}

// deleteExpiredLocked removes all expired keys.
//
// This is O(n). Expired keys are collected first because the container must
// not be mutated while it is being ranged over.
func (c *Cache[K, V]) deleteExpiredLocked(now time.Time) int {
	var dead []K
	for k, e := range c.entries.All() {
		if e.expired(now) {
			dead = append(dead, k)
		}
	}
	for _, k := range dead {
		_ = c.entries.Delete(k)
	}
	if n := len(dead); n > 0 {
		c.count(func(m *metrics.Metrics) { m.Expirations.Add(float64(n)) })
	}
	return len(dead)
}

func (c *Cache[K, V]) count(fn func(m *metrics.Metrics)) {
	if c.metrics != nil {
		fn(c.metrics)
	}
}

func (c *Cache[K, V]) observeLenLocked() {
	if c.metrics != nil {
		c.metrics.Entries.Set(float64(c.entries.Len()))
	}
}
