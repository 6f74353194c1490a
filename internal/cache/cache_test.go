package cache

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"dequedict/internal/metrics"
	"dequedict/pkg/dequedict"
)

func newCache(t *testing.T, cfg Config) *Cache[string, string] {
	t.Helper()
	c, err := New[string, string](context.Background(), cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLRUEviction(t *testing.T) {
	for _, impl := range []dequedict.Impl{dequedict.Linked, dequedict.ArenaImpl} {
		t.Run(string(impl), func(t *testing.T) {
			c := newCache(t, Config{MaxEntries: 2, Impl: impl})

			if err := c.Set("a", "A", 0); err != nil {
				t.Fatalf("set a: %v", err)
			}
			if err := c.Set("b", "B", 0); err != nil {
				t.Fatalf("set b: %v", err)
			}

			// Touch a so b becomes LRU.
			if _, ok := c.Get("a"); !ok {
				t.Fatalf("expected a to exist")
			}

			// Insert c => should evict b.
			if err := c.Set("c", "C", 0); err != nil {
				t.Fatalf("set c: %v", err)
			}

			if _, ok := c.Get("b"); ok {
				t.Fatalf("expected b to be evicted")
			}
			if _, ok := c.Get("a"); !ok {
				t.Fatalf("expected a to remain")
			}
			if _, ok := c.Get("c"); !ok {
				t.Fatalf("expected c to exist")
			}
		})
	}
}

func TestKeysMostRecentFirst(t *testing.T) {
	c := newCache(t, Config{})
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(k, k, 0); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	c.Get("a")
	if err := c.Set("b", "B", 0); err != nil {
		t.Fatalf("set b: %v", err)
	}

	if got, want := c.Keys(), []string{"b", "a", "c"}; !slices.Equal(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if k, ok := c.Oldest(); !ok || k != "c" {
		t.Fatalf("oldest = %q, %v; want c", k, ok)
	}

	// Peek must not change recency.
	if v, ok := c.Peek("c"); !ok || v != "c" {
		t.Fatalf("peek c = %q, %v", v, ok)
	}
	if k, _ := c.Oldest(); k != "c" {
		t.Fatalf("peek moved c; oldest = %q", k)
	}
}

func TestTTL_LazyExpirationOnGet(t *testing.T) {
	c := newCache(t, Config{MaxEntries: 10})

	if err := c.Set("k", "v", 30*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected k to exist before expiry")
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected k to be expired and removed on get")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("len = %d, want 0", n)
	}
}

func TestTTL_BackgroundCleanupRemovesWithoutGet(t *testing.T) {
	c := newCache(t, Config{MaxEntries: 10, CleanupInterval: 10 * time.Millisecond})

	if err := c.Set("ttl", "v", 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Wait until the cleanup goroutine removes it. Use a deadline to avoid flakes.
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if !slices.Contains(c.Keys(), "ttl") {
			return // success
		}
		time.Sleep(5 * time.Millisecond)
	}

	// As a fallback check, even if Keys happened to still show it,
	// Get must treat it as expired.
	if _, ok := c.Get("ttl"); ok {
		t.Fatalf("expected ttl to be expired")
	}
}

func TestEvictionPrefersExpired(t *testing.T) {
	c := newCache(t, Config{MaxEntries: 2})

	if err := c.Set("old", "v", 0); err != nil {
		t.Fatalf("set old: %v", err)
	}
	if err := c.Set("short", "v", time.Millisecond); err != nil {
		t.Fatalf("set short: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if err := c.Set("new", "v", 0); err != nil {
		t.Fatalf("set new: %v", err)
	}
	if _, ok := c.Peek("old"); !ok {
		t.Fatalf("expected old to survive; the expired entry should go first")
	}
	if got, want := c.Keys(), []string{"new", "old"}; !slices.Equal(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	c := newCache(t, Config{MaxEntries: 1, Metrics: m})

	_ = c.Set("a", "A", 0)
	_ = c.Set("b", "B", 0) // evicts a
	c.Get("a")
	c.Get("b")

	if got := testutil.ToFloat64(m.Hits); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Misses); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Evictions); got != 1 {
		t.Errorf("evictions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Entries); got != 1 {
		t.Errorf("entries = %v, want 1", got)
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New[string, int](context.Background(), Config{Impl: "native"}); err == nil {
		t.Fatalf("expected an error for an unknown implementation")
	}
}

func TestClose_IdempotentAndPreventsMutation(t *testing.T) {
	c, err := New[string, string](context.Background(), Config{MaxEntries: 1, CleanupInterval: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close again: %v", err)
	}

	if err := c.Set("k", "v", 0); err == nil {
		t.Fatalf("expected Set to fail after close")
	}
	if err := c.Delete("k"); err == nil {
		t.Fatalf("expected Delete to fail after close")
	}
}
