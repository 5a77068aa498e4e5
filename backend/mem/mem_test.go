package mem

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/urifs"
)

func TestMemBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := urifs.NewName("mem", "", "scratch", "/")

	h, err := Connector{}.Connect(ctx, root, nil, 0)
	require.NoError(t, err)
	defer h.Close(ctx)

	name := urifs.NewName("mem", "", "scratch", "/staging/blob")
	require.NoError(t, h.(*handle).Put(name, []byte("payload")))

	ref, err := h.Resolve(name)
	require.NoError(t, err)

	ok, err := ref.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	rc, err := ref.Open(ctx)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "payload", string(b))
}

func TestMemBackendMiss(t *testing.T) {
	ctx := context.Background()
	root := urifs.NewName("mem", "", "scratch", "/")

	h, err := Connector{}.Connect(ctx, root, nil, 0)
	require.NoError(t, err)
	defer h.Close(ctx)

	ref, err := h.Resolve(urifs.NewName("mem", "", "scratch", "/nope"))
	require.NoError(t, err)

	ok, err := ref.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = ref.Open(ctx)
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemBackendRejectsForeignRoot(t *testing.T) {
	ctx := context.Background()
	h, err := Connector{}.Connect(ctx, urifs.NewName("mem", "", "a", "/"), nil, 0)
	require.NoError(t, err)
	defer h.Close(ctx)

	_, err = h.Resolve(urifs.NewName("mem", "", "b", "/x"))
	var nir *urifs.NotInRootError
	require.True(t, errors.As(err, &nir))

	err = h.(*handle).Put(urifs.NewName("mem", "", "b", "/x"), []byte("v"))
	require.True(t, errors.As(err, &nir))
}
