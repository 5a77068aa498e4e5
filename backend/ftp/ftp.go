// Package ftp implements a urifs backend over FTP.
//
// A handle wraps one control connection. FTP control connections die
// silently on server restarts and idle cuts, which is exactly the staleness
// the resolver's probe-and-retry protocol recovers from.
package ftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	goftp "github.com/jlaffaye/ftp"
	"golang.org/x/time/rate"

	"github.com/unkn0wn-root/urifs"
)

// Config keys honored by this backend. Userinfo in the root URI wins over
// config-supplied credentials.
const (
	KeyUser     = "ftp.user"
	KeyPassword = "ftp.password"
)

const (
	defaultPort   = "21"
	anonymousUser = "anonymous"
)

// Connector dials FTP servers. The connect-timeout override maps to the
// dial timeout.
type Connector struct {
	// DialLimit bounds connection attempts across all roots, so a flapping
	// server cannot turn the stale-handle retry path into a reconnect
	// storm. nil => unlimited.
	DialLimit *rate.Limiter
}

var _ urifs.Connector = (*Connector)(nil)

func (c *Connector) Connect(ctx context.Context, root urifs.Name, cfg *urifs.Config, timeout time.Duration) (urifs.Handle, error) {
	if c.DialLimit != nil {
		if err := c.DialLimit.Wait(ctx); err != nil {
			return nil, err
		}
	}

	addr := hostPort(root.Host())
	opts := []goftp.DialOption{goftp.DialWithContext(ctx)}
	if timeout > 0 {
		opts = append(opts, goftp.DialWithTimeout(timeout))
	}
	conn, err := goftp.Dial(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("ftp: dial %s: %w", addr, err)
	}

	user, pass := credentials(root, cfg)
	if err := conn.Login(user, pass); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("ftp: login %s as %s: %w", addr, user, err)
	}
	return &handle{root: root, conn: conn}, nil
}

func hostPort(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return host + ":" + defaultPort
}

func credentials(root urifs.Name, cfg *urifs.Config) (string, string) {
	if ui := root.UserInfo(); ui != "" {
		user, pass, _ := strings.Cut(ui, ":")
		return unescape(user), unescape(pass)
	}
	user, ok := cfg.Get(KeyUser)
	if !ok {
		return anonymousUser, anonymousUser
	}
	pass, _ := cfg.Get(KeyPassword)
	return user, pass
}

// unescape undoes URL encoding in userinfo; a value that fails to decode is
// used verbatim.
func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

type handle struct {
	root urifs.Name

	// the control connection handles one command at a time
	mu   sync.Mutex
	conn *goftp.ServerConn
}

var _ urifs.Handle = (*handle)(nil)

func (h *handle) Root() urifs.Name { return h.root }

func (h *handle) Resolve(name urifs.Name) (urifs.Reference, error) {
	if name.Root() != h.root {
		return nil, &urifs.NotInRootError{Root: h.root, Name: name}
	}
	return &reference{h: h, name: name}, nil
}

func (h *handle) Close(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn.Quit()
}

type reference struct {
	h    *handle
	name urifs.Name
}

var _ urifs.Reference = (*reference)(nil)

func (r *reference) Name() urifs.Name { return r.name }

// Exists sizes the remote file. A 550 reply is the server's clean "no such
// file"; anything else (reset, timeout, parse garbage) means the probe
// itself failed and the control connection is suspect.
func (r *reference) Exists(context.Context) (bool, error) {
	r.h.mu.Lock()
	defer r.h.mu.Unlock()

	_, err := r.h.conn.FileSize(r.name.Path())
	if err == nil {
		return true, nil
	}
	var proto *textproto.Error
	if errors.As(err, &proto) && proto.Code == goftp.StatusFileUnavailable {
		return false, nil
	}
	return false, err
}

// Open retrieves the file. The control connection stays locked until the
// returned reader is closed, since FTP cannot multiplex transfers on it.
func (r *reference) Open(context.Context) (io.ReadCloser, error) {
	r.h.mu.Lock()
	resp, err := r.h.conn.Retr(r.name.Path())
	if err != nil {
		r.h.mu.Unlock()
		return nil, fmt.Errorf("ftp: retr %s: %w", r.name.Path(), err)
	}
	return &transfer{resp: resp, mu: &r.h.mu}, nil
}

type transfer struct {
	resp *goftp.Response
	mu   *sync.Mutex
}

func (t *transfer) Read(p []byte) (int, error) { return t.resp.Read(p) }

func (t *transfer) Close() error {
	err := t.resp.Close()
	t.mu.Unlock()
	return err
}
