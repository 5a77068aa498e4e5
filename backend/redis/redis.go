// Package redis implements a urifs backend on a Redis keyspace: each
// resource path is a key holding a msgpack-encoded entry (content plus
// minimal metadata).
package redis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/urifs"
)

// KeyDB selects the logical database; default 0.
const KeyDB = "redis.db"

const defaultPort = "6379"

// entry is the stored form of a resource.
type entry struct {
	Data    []byte    `msgpack:"d"`
	ModTime time.Time `msgpack:"t"`
}

// Connector dials a Redis server per root. Creation pings the server, so a
// bad address fails the Connect rather than the first probe. The
// connect-timeout override maps to the dial timeout.
type Connector struct{}

var _ urifs.Connector = Connector{}

func (Connector) Connect(ctx context.Context, root urifs.Name, cfg *urifs.Config, timeout time.Duration) (urifs.Handle, error) {
	user, pass := credentials(root)
	opts := &goredis.Options{
		Addr:     hostPort(root.Host()),
		Username: user,
		Password: pass,
		DB:       cfg.Int(KeyDB, 0),
	}
	if timeout > 0 {
		opts.DialTimeout = timeout
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connect %s: %w", opts.Addr, err)
	}
	return &handle{root: root, rdb: client}, nil
}

func hostPort(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return host + ":" + defaultPort
}

func credentials(root urifs.Name) (string, string) {
	ui := root.UserInfo()
	if ui == "" {
		return "", ""
	}
	user, pass, _ := strings.Cut(ui, ":")
	return unescape(user), unescape(pass)
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

type handle struct {
	root urifs.Name
	rdb  *goredis.Client
}

var _ urifs.Handle = (*handle)(nil)

func (h *handle) Root() urifs.Name { return h.root }

func (h *handle) Resolve(name urifs.Name) (urifs.Reference, error) {
	if name.Root() != h.root {
		return nil, &urifs.NotInRootError{Root: h.root, Name: name}
	}
	return &reference{h: h, name: name}, nil
}

// Put stores content under name; ttl 0 means no expiry.
func (h *handle) Put(ctx context.Context, name urifs.Name, data []byte, ttl time.Duration) error {
	if name.Root() != h.root {
		return &urifs.NotInRootError{Root: h.root, Name: name}
	}
	b, err := msgpack.Marshal(entry{Data: data, ModTime: time.Now()})
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", name.Path(), err)
	}
	return h.rdb.Set(ctx, name.Path(), b, ttl).Err()
}

func (h *handle) Close(context.Context) error { return h.rdb.Close() }

type reference struct {
	h    *handle
	name urifs.Name
}

var _ urifs.Reference = (*reference)(nil)

func (r *reference) Name() urifs.Name { return r.name }

func (r *reference) Exists(ctx context.Context) (bool, error) {
	n, err := r.h.rdb.Exists(ctx, r.name.Path()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *reference) Open(ctx context.Context) (io.ReadCloser, error) {
	b, err := r.h.rdb.Get(ctx, r.name.Path()).Bytes()
	if err == goredis.Nil {
		return nil, fmt.Errorf("redis: %s: %w", r.name.Path(), fs.ErrNotExist)
	}
	if err != nil {
		return nil, err
	}
	var e entry
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("redis: decode %s: %w", r.name.Path(), err)
	}
	return io.NopCloser(bytes.NewReader(e.Data)), nil
}
