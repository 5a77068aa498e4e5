package urifs

import (
	"context"
	"time"
)

// Resolver is the public entry point: it resolves URIs into References
// backed by cached handles, recovering once from a stale cached session.
type Resolver interface {
	// Resolve parses rawURI (relative URIs resolve against Options.Base),
	// honoring a per-call connect-timeout override in the query, and
	// returns a Reference served by the cached handle for the URI's root.
	Resolve(ctx context.Context, rawURI string, cfg *Config) (Reference, error)

	// ResolveName is Resolve for an already-parsed name. timeout is the
	// connect-timeout override; zero means none.
	ResolveName(ctx context.Context, name Name, cfg *Config, timeout time.Duration) (Reference, error)

	// Evict drops the cached handle for (root, cfg) and closes it.
	// Returns false when no entry existed; never fails.
	Evict(ctx context.Context, root Name, cfg *Config) bool

	// Len reports the number of cached handles.
	Len() int

	// Close evicts every cached handle and stops background work.
	Close(ctx context.Context) error
}

// Options tune a Resolver. Only Connector is required.
type Options struct {
	// Required. Builds backend handles on cache miss.
	Connector Connector

	Parser Parser // nil => URLParser{}
	Base   *Name  // base for relative URIs; nil => relative URIs fail
	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks

	// IdleTimeout > 0 enables background eviction of handles unused for at
	// least this long. SweepInterval is how often idleness is checked;
	// 0 => 1m.
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

func New(opts Options) (Resolver, error) {
	return newResolver(opts)
}
