package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"dequedict/internal/cache"
	"dequedict/internal/metrics"
)

func demoCmd() *cobra.Command {
	var hold time.Duration

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through LRU eviction and TTL expiry on a dequedict-backed cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			m := metrics.New()
			if cfg.Metrics.Addr != "" {
				stop := serveMetrics(ctx, cfg.Metrics.Addr, m)
				defer stop()
			}

			c, err := cache.New[string, string](ctx, cache.Config{
				MaxEntries:      cfg.Cache.MaxEntries,
				CleanupInterval: cfg.Cache.CleanupInterval,
				Metrics:         m,
			})
			if err != nil {
				return err
			}
			defer func() {
				// Close is idempotent; safe to call in defer.
				if err := c.Close(); err != nil {
					clog.FromContext(ctx).Errorf("cache close: %v", err)
				}
			}()

			if err := runDemo(ctx, c, cfg.Cache.MaxEntries); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done. Press Ctrl+C to exit immediately next time.")

			if hold > 0 && cfg.Metrics.Addr != "" {
				clog.FromContext(ctx).Infof("Serving metrics on %s for %s", cfg.Metrics.Addr, hold)
				select {
				case <-ctx.Done():
				case <-time.After(hold):
				}
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&hold, "hold", 0, "Keep serving metrics this long after the demo finishes")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	if err := v.BindPFlag("metrics.addr", cmd.Flags().Lookup("metrics-addr")); err != nil {
		panic(err)
	}
	return cmd
}

func runDemo(ctx context.Context, c *cache.Cache[string, string], capacity int) error {
	log := clog.FromContext(ctx)
	log.Info("Cache demo starting")

	// -------------------------------------------------------------------
	// 1) LRU eviction demo
	// -------------------------------------------------------------------
	for i := 0; i < capacity; i++ {
		k := string(rune('a' + i))
		if err := c.Set(k, k, 0); err != nil {
			return err
		}
	}

	// Touch "a" so the next key becomes least-recently-used.
	if v, ok := c.Get("a"); ok {
		log.Infof("GET a = %q (touches a -> MRU)", v)
	}
	lru, _ := c.Oldest()

	// Insert one more key => cache overflows and evicts the LRU key.
	if err := c.Set("z", "Z", 0); err != nil {
		return err
	}
	if _, ok := c.Peek(lru); !ok && capacity > 0 {
		log.Infof("GET %s: missing (evicted as LRU)", lru)
	}
	log.Infof("keys after eviction (MRU->LRU): %v", c.Keys())

	// -------------------------------------------------------------------
	// 2) TTL expiration demo (shows background cleanup)
	// -------------------------------------------------------------------
	// The maintenance goroutine should remove the key without a Get.
	if err := c.Set("ttl", "short", 200*time.Millisecond); err != nil {
		return err
	}
	log.Infof("keys after ttl set (MRU->LRU): %v", c.Keys())

	wait := time.NewTimer(500 * time.Millisecond)
	defer wait.Stop()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
		return nil
	case <-wait.C:
	}

	log.Infof("keys after ttl + cleanup (MRU->LRU): %v", c.Keys())
	if _, ok := c.Get("ttl"); !ok {
		log.Info("GET ttl: missing (expired and removed)")
	}
	return nil
}

// serveMetrics starts the /metrics endpoint and returns a function that
// shuts it down.
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics) func() {
	log := clog.FromContext(ctx)
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server: %v", err)
		}
	}()
	log.Infof("Metrics available at http://%s/metrics", addr)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("metrics shutdown: %v", err)
		}
	}
}
