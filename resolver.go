package urifs

import (
	"context"
	"fmt"
	"time"
)

type resolver struct {
	parser Parser
	base   *Name
	log    Logger
	hooks  Hooks
	cache  *handleCache
}

var _ Resolver = (*resolver)(nil)

func newResolver(opts Options) (*resolver, error) {
	if opts.Connector == nil {
		return nil, fmt.Errorf("urifs: connector is required")
	}

	r := &resolver{base: opts.Base}
	r.parser = coalesce[Parser](opts.Parser, URLParser{})
	r.log = coalesce[Logger](opts.Logger, NopLogger{})
	r.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	sweep := coalesce[time.Duration](opts.SweepInterval, time.Minute)
	r.cache = newHandleCache(opts.Connector, r.log, r.hooks, opts.IdleTimeout, sweep)
	return r, nil
}

func (r *resolver) Resolve(ctx context.Context, rawURI string, cfg *Config) (Reference, error) {
	timeout := connectTimeoutOverride(rawURI, r.log, r.hooks)

	name, err := r.parser.Parse(r.base, rawURI)
	if err != nil {
		return nil, &InvalidURIError{URI: rawURI, Err: err}
	}
	return r.ResolveName(ctx, name, cfg, timeout)
}

// ResolveName runs the resolve → cache-or-create → verify → retry-once
// protocol. A probe that errors (rather than answering "does not exist")
// marks the cached handle stale: the entry is evicted, rebuilt, and the name
// resolved once more. The second pass is returned as-is - no further retry,
// and no re-probe.
func (r *resolver) ResolveName(ctx context.Context, name Name, cfg *Config, timeout time.Duration) (Reference, error) {
	root := name.Root()

	h, err := r.cache.getOrCreate(ctx, root, cfg, timeout)
	if err != nil {
		return nil, err
	}
	ref, err := h.Resolve(name)
	if err != nil {
		return nil, err
	}

	if _, err := ref.Exists(ctx); err != nil {
		key := handleKey(root, cfg)
		r.log.Warn("existence probe failed; replacing cached handle", Fields{
			"key":  key,
			"name": name.String(),
			"err":  err,
		})
		r.hooks.StaleHandleDetected(key, err)

		r.cache.evict(ctx, root, cfg, evictReasonStale)
		h, err = r.cache.getOrCreate(ctx, root, cfg, timeout)
		if err != nil {
			return nil, err
		}
		return h.Resolve(name)
	}
	return ref, nil
}

func (r *resolver) Evict(ctx context.Context, root Name, cfg *Config) bool {
	return r.cache.evict(ctx, root.Root(), cfg, evictReasonExplicit)
}

func (r *resolver) Len() int { return r.cache.len() }

func (r *resolver) Close(ctx context.Context) error { return r.cache.close(ctx) }
