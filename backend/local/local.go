// Package local implements a urifs backend over the local filesystem.
//
// The filesystem is visible through afero, so callers can point handles at
// an in-memory or read-only view without touching disk.
package local

import (
	"context"
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/unkn0wn-root/urifs"
)

// KeyReadOnly, when "true" in the Config, serves the root through a
// read-only wrapper.
const KeyReadOnly = "local.readOnly"

// Connector builds handles over a local (or injected) filesystem. A local
// handle owns no sockets, so connecting is cheap and the connect-timeout
// override is ignored.
type Connector struct {
	// FS is the filesystem handles operate on. nil => the OS filesystem.
	FS afero.Fs
}

var _ urifs.Connector = (*Connector)(nil)

func (c *Connector) Connect(_ context.Context, root urifs.Name, cfg *urifs.Config, _ time.Duration) (urifs.Handle, error) {
	fs := c.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if cfg.Bool(KeyReadOnly, false) {
		fs = afero.NewReadOnlyFs(fs)
	}
	return &handle{fs: fs, root: root}, nil
}

type handle struct {
	fs   afero.Fs
	root urifs.Name
}

var _ urifs.Handle = (*handle)(nil)

func (h *handle) Root() urifs.Name { return h.root }

func (h *handle) Resolve(name urifs.Name) (urifs.Reference, error) {
	if name.Root() != h.root {
		return nil, &urifs.NotInRootError{Root: h.root, Name: name}
	}
	return &reference{fs: h.fs, name: name}, nil
}

func (h *handle) Close(context.Context) error { return nil }

type reference struct {
	fs   afero.Fs
	name urifs.Name
}

var _ urifs.Reference = (*reference)(nil)

func (r *reference) Name() urifs.Name { return r.name }

func (r *reference) Exists(context.Context) (bool, error) {
	return afero.Exists(r.fs, r.name.Path())
}

func (r *reference) Open(context.Context) (io.ReadCloser, error) {
	return r.fs.Open(r.name.Path())
}
