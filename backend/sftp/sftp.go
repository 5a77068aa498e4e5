// Package sftp implements a urifs backend over SFTP (SSH file transfer).
package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	gosftp "github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/unkn0wn-root/urifs"
)

// Config keys honored by this backend. Userinfo in the root URI wins over
// config-supplied credentials.
const (
	KeyUser     = "sftp.user"
	KeyPassword = "sftp.password"
)

const defaultPort = "22"

// Connector dials SSH and opens an SFTP subsystem client per handle. The
// connect-timeout override maps to the SSH handshake timeout.
type Connector struct {
	// HostKeyCallback verifies the server key. nil accepts any key, which
	// is only acceptable for tests and closed networks; production callers
	// should wire knownhosts here.
	HostKeyCallback ssh.HostKeyCallback
}

var _ urifs.Connector = (*Connector)(nil)

func (c *Connector) Connect(_ context.Context, root urifs.Name, cfg *urifs.Config, timeout time.Duration) (urifs.Handle, error) {
	hostKey := c.HostKeyCallback
	if hostKey == nil {
		hostKey = ssh.InsecureIgnoreHostKey()
	}
	user, pass := credentials(root, cfg)

	addr := hostPort(root.Host())
	sshClient, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.Password(pass)},
		HostKeyCallback: hostKey,
		Timeout:         timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("sftp: dial %s: %w", addr, err)
	}
	client, err := gosftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, fmt.Errorf("sftp: subsystem on %s: %w", addr, err)
	}
	return &handle{root: root, ssh: sshClient, sftp: client}, nil
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
	user, _ := cfg.Get(KeyUser)
	pass, _ := cfg.Get(KeyPassword)
	return user, pass
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

type handle struct {
	root urifs.Name
	ssh  *ssh.Client
	sftp *gosftp.Client
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
	return errors.Join(h.sftp.Close(), h.ssh.Close())
}

type reference struct {
	h    *handle
	name urifs.Name
}

var _ urifs.Reference = (*reference)(nil)

func (r *reference) Name() urifs.Name { return r.name }

func (r *reference) Exists(context.Context) (bool, error) {
	_, err := r.h.sftp.Stat(r.name.Path())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (r *reference) Open(context.Context) (io.ReadCloser, error) {
	return r.h.sftp.Open(r.name.Path())
}
