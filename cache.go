package urifs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/urifs/internal/keys"
)

const (
	evictReasonExplicit = "explicit"
	evictReasonStale    = "stale"
	evictReasonIdle     = "idle"
	evictReasonClose    = "close"
)

// handleKey is the cache identity of a handle: root URI plus the
// configuration fingerprint.
func handleKey(root Name, cfg *Config) string {
	return keys.Handle(root.String(), cfg.Fingerprint())
}

type cacheEntry struct {
	id       string
	handle   Handle
	lastUsed atomic.Int64 // unix nanos
}

func (e *cacheEntry) touch() { e.lastUsed.Store(time.Now().UnixNano()) }

// handleCache owns every live Handle. At most one handle exists per key;
// concurrent creations for the same key collapse into a single Connect call
// via singleflight, while distinct keys never serialize on each other.
type handleCache struct {
	connector Connector
	log       Logger
	hooks     Hooks

	idleTimeout time.Duration

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	flight  singleflight.Group

	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newHandleCache(connector Connector, log Logger, hooks Hooks, idleTimeout, sweepInterval time.Duration) *handleCache {
	c := &handleCache{
		connector:   connector,
		log:         log,
		hooks:       hooks,
		idleTimeout: idleTimeout,
		entries:     make(map[string]*cacheEntry),
	}
	if idleTimeout > 0 && sweepInterval > 0 {
		c.ticker = time.NewTicker(sweepInterval)
		c.stopCh = make(chan struct{})
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				select {
				case <-c.ticker.C:
					c.sweep(context.Background())
				case <-c.stopCh:
					return
				}
			}
		}()
	}
	return c
}

// getOrCreate returns the cached handle for (root, cfg), connecting a new
// one on miss. The timeout override rides along as a plain argument so
// concurrent creations for different keys can never smuggle each other's
// override. Nothing is cached when Connect fails.
func (c *handleCache) getOrCreate(ctx context.Context, root Name, cfg *Config, timeout time.Duration) (Handle, error) {
	key := handleKey(root, cfg)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		e.touch()
		return e.handle, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		// lost the race to a creator that already registered
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			e.touch()
			return e.handle, nil
		}

		h, err := c.connector.Connect(ctx, root, cfg, timeout)
		if err != nil {
			return nil, err
		}
		e = &cacheEntry{id: uuid.NewString(), handle: h}
		e.touch()
		c.mu.Lock()
		if cur, registered := c.entries[key]; registered {
			// an eviction forgot this flight mid-Connect and another
			// caller already registered a fresh handle; keep theirs and
			// release ours, or the displaced handle would leak past Close
			c.mu.Unlock()
			if cerr := h.Close(ctx); cerr != nil {
				c.log.Warn("closing duplicate handle", Fields{"key": key, "err": cerr})
			}
			cur.touch()
			return cur.handle, nil
		}
		c.entries[key] = e
		c.mu.Unlock()

		c.log.Debug("connected backend handle", Fields{"key": key, "id": e.id})
		c.hooks.HandleCreated(key, e.id)
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Handle), nil
}

// evict removes the entry for (root, cfg), closing its handle. Evicting an
// absent key is a no-op. Forgetting the singleflight key guarantees a later
// getOrCreate reconnects instead of joining a flight that predates the
// eviction.
func (c *handleCache) evict(ctx context.Context, root Name, cfg *Config, reason string) bool {
	return c.evictKey(ctx, handleKey(root, cfg), reason)
}

func (c *handleCache) evictKey(ctx context.Context, key, reason string) bool {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	c.flight.Forget(key)
	if !ok {
		return false
	}
	if err := e.handle.Close(ctx); err != nil {
		c.log.Warn("closing evicted handle", Fields{"key": key, "id": e.id, "err": err})
	}
	c.hooks.HandleEvicted(key, e.id, reason)
	return true
}

func (c *handleCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// sweep evicts handles unused for longer than idleTimeout. Idleness is
// re-checked under the write lock, so a handle touched between the scan and
// the eviction survives.
func (c *handleCache) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-c.idleTimeout).UnixNano()

	c.mu.RLock()
	var idle []string
	for k, e := range c.entries {
		if e.lastUsed.Load() < cutoff {
			idle = append(idle, k)
		}
	}
	c.mu.RUnlock()

	for _, key := range idle {
		c.mu.Lock()
		e, ok := c.entries[key]
		if !ok || e.lastUsed.Load() >= cutoff {
			c.mu.Unlock()
			continue
		}
		delete(c.entries, key)
		c.mu.Unlock()
		c.flight.Forget(key)
		if err := e.handle.Close(ctx); err != nil {
			c.log.Warn("closing idle handle", Fields{"key": key, "id": e.id, "err": err})
		}
		c.hooks.HandleEvicted(key, e.id, evictReasonIdle)
	}
}

// close stops the sweeper and releases every cached handle. Safe to call
// more than once.
func (c *handleCache) close(ctx context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		if c.stopCh != nil {
			close(c.stopCh)
			c.ticker.Stop()
			c.wg.Wait()
		}
		c.mu.Lock()
		entries := c.entries
		c.entries = make(map[string]*cacheEntry)
		c.mu.Unlock()

		var errs []error
		for key, e := range entries {
			if cerr := e.handle.Close(ctx); cerr != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", key, cerr))
			}
			c.hooks.HandleEvicted(key, e.id, evictReasonClose)
		}
		err = errors.Join(errs...)
	})
	return err
}
