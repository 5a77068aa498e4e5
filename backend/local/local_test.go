package local

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/urifs"
)

func TestLocalBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/hello.txt", []byte("hi there"), 0o644))

	r, err := urifs.New(urifs.Options{Connector: &Connector{FS: fs}})
	require.NoError(t, err)
	defer r.Close(ctx)

	ref, err := r.Resolve(ctx, "file:///data/hello.txt", nil)
	require.NoError(t, err)

	ok, err := ref.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	rc, err := ref.Open(ctx)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hi there", string(b))
}

func TestLocalBackendMissingFile(t *testing.T) {
	ctx := context.Background()
	r, err := urifs.New(urifs.Options{Connector: &Connector{FS: afero.NewMemMapFs()}})
	require.NoError(t, err)
	defer r.Close(ctx)

	ref, err := r.Resolve(ctx, "file:///nope.txt", nil)
	require.NoError(t, err, "a missing file is a clean miss, not a resolution error")

	ok, err := ref.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLocalBackendReadOnlyConfig(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/x", []byte("v"), 0o644))

	c := &Connector{FS: fs}
	cfg := urifs.NewConfig(map[string]string{KeyReadOnly: "true"})
	h, err := c.Connect(ctx, urifs.NewName("file", "", "", "/"), cfg, 0)
	require.NoError(t, err)
	defer h.Close(ctx)

	ref, err := h.Resolve(urifs.NewName("file", "", "", "/x"))
	require.NoError(t, err)
	ok, err := ref.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLocalBackendRejectsForeignRoot(t *testing.T) {
	ctx := context.Background()
	c := &Connector{FS: afero.NewMemMapFs()}
	h, err := c.Connect(ctx, urifs.NewName("file", "", "", "/"), nil, 0)
	require.NoError(t, err)
	defer h.Close(ctx)

	_, err = h.Resolve(urifs.NewName("ftp", "", "host", "/x"))
	var nir *urifs.NotInRootError
	require.True(t, errors.As(err, &nir))
}
