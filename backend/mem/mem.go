// Package mem implements an in-process scratch backend. Contents live in a
// bigcache and expire after the configured life window, which makes it a
// convenient staging area and a zero-infrastructure backend for tests.
package mem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/urifs"
)

// KeyTTL sets how long entries stay readable (a time.Duration string,
// e.g. "10m"); default 10 minutes.
const KeyTTL = "mem.ttl"

const defaultTTL = 10 * time.Minute

// Connector builds one bigcache per handle. There is no network, so the
// connect-timeout override is ignored.
type Connector struct{}

var _ urifs.Connector = Connector{}

func (Connector) Connect(_ context.Context, root urifs.Name, cfg *urifs.Config, _ time.Duration) (urifs.Handle, error) {
	conf := bc.DefaultConfig(cfg.Duration(KeyTTL, defaultTTL))
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, fmt.Errorf("mem: %w", err)
	}
	return &handle{root: root, c: c}, nil
}

type handle struct {
	root urifs.Name
	c    *bc.BigCache
}

var _ urifs.Handle = (*handle)(nil)

func (h *handle) Root() urifs.Name { return h.root }

func (h *handle) Resolve(name urifs.Name) (urifs.Reference, error) {
	if name.Root() != h.root {
		return nil, &urifs.NotInRootError{Root: h.root, Name: name}
	}
	return &reference{h: h, name: name}, nil
}

// Put stores content under name.
func (h *handle) Put(name urifs.Name, data []byte) error {
	if name.Root() != h.root {
		return &urifs.NotInRootError{Root: h.root, Name: name}
	}
	return h.c.Set(name.Path(), data)
}

func (h *handle) Close(context.Context) error { return h.c.Close() }

type reference struct {
	h    *handle
	name urifs.Name
}

var _ urifs.Reference = (*reference)(nil)

func (r *reference) Name() urifs.Name { return r.name }

func (r *reference) Exists(context.Context) (bool, error) {
	_, err := r.h.c.Get(r.name.Path())
	if err == bc.ErrEntryNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *reference) Open(context.Context) (io.ReadCloser, error) {
	b, err := r.h.c.Get(r.name.Path())
	if err == bc.ErrEntryNotFound {
		return nil, fmt.Errorf("mem: %s: %w", r.name.Path(), fs.ErrNotExist)
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}
