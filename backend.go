package urifs

import (
	"context"
	"io"
	"time"
)

// Connector builds a live Handle for a backend root. One implementation
// exists per backend kind; it is supplied to the Resolver by composition.
//
// timeout is the per-creation connect-timeout override; zero means "use the
// backend's default". It must be honored (or ignored) by the backend itself.
// Connect must be deterministic for a given (root, cfg) and must not leave
// partial global state behind on failure.
type Connector interface {
	Connect(ctx context.Context, root Name, cfg *Config, timeout time.Duration) (Handle, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, root Name, cfg *Config, timeout time.Duration) (Handle, error)

func (f ConnectorFunc) Connect(ctx context.Context, root Name, cfg *Config, timeout time.Duration) (Handle, error) {
	return f(ctx, root, cfg, timeout)
}

// Handle is a live, stateful session to one backend root. It owns the
// backend resources (connections, clients) behind it. Handles are created by
// a Connector, cached by the Resolver, and released through eviction only.
type Handle interface {
	// Root is the (RootName, Config)-bound root this handle serves.
	Root() Name

	// Resolve scopes a name under this handle's root into a Reference.
	// Names outside the root fail with *NotInRootError.
	Resolve(name Name) (Reference, error)

	// Close releases the backend resources. The resolver calls it on
	// eviction; callers that received references from this handle must not.
	Close(ctx context.Context) error
}

// Reference is a handle-scoped pointer to a specific path within a backend.
type Reference interface {
	Name() Name

	// Exists probes the backend for the resource. A clean "not there" is
	// (false, nil); an error means the probe itself could not be carried
	// out, which the resolver treats as a stale-handle signal.
	Exists(ctx context.Context) (bool, error)

	// Open streams the resource's content.
	Open(ctx context.Context) (io.ReadCloser, error)
}
