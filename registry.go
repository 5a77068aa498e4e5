package urifs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Registry routes raw URIs to per-scheme Resolvers. Each backend kind gets
// its own Resolver (and with it its own handle cache); the Registry only
// dispatches on the scheme prefix.
type Registry struct {
	mu      sync.RWMutex
	schemes map[string]Resolver
}

func NewRegistry() *Registry {
	return &Registry{schemes: make(map[string]Resolver)}
}

// Register binds a scheme to a resolver. Registering a scheme twice is an
// error.
func (g *Registry) Register(scheme string, r Resolver) error {
	scheme = strings.ToLower(scheme)
	if scheme == "" || r == nil {
		return fmt.Errorf("urifs: scheme and resolver are required")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.schemes[scheme]; dup {
		return fmt.Errorf("urifs: scheme %q already registered", scheme)
	}
	g.schemes[scheme] = r
	return nil
}

// Schemes returns the registered schemes.
func (g *Registry) Schemes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.schemes))
	for s := range g.schemes {
		out = append(out, s)
	}
	return out
}

func (g *Registry) Resolve(ctx context.Context, rawURI string, cfg *Config) (Reference, error) {
	scheme := uriScheme(rawURI)
	if scheme == "" {
		return nil, &InvalidURIError{URI: rawURI, Err: errors.New("missing scheme")}
	}
	g.mu.RLock()
	r, ok := g.schemes[scheme]
	g.mu.RUnlock()
	if !ok {
		return nil, &UnknownSchemeError{Scheme: scheme}
	}
	return r.Resolve(ctx, rawURI, cfg)
}

// Close closes every registered resolver, joining their errors.
func (g *Registry) Close(ctx context.Context) error {
	g.mu.Lock()
	schemes := g.schemes
	g.schemes = make(map[string]Resolver)
	g.mu.Unlock()

	var errs []error
	for scheme, r := range schemes {
		if err := r.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", scheme, err))
		}
	}
	return errors.Join(errs...)
}

func uriScheme(raw string) string {
	i := strings.Index(raw, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(raw[:i])
}
