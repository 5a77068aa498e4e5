package urifs

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Name is the parsed, immutable form of a resource URI: scheme, optional
// userinfo, host (with optional port) and a cleaned absolute path. Names are
// comparable with ==; two Names are equal iff they point at the same
// location. Query and fragment never survive parsing.
type Name struct {
	scheme   string
	userInfo string
	host     string
	path     string
}

// NewName builds a Name from its parts. The path is cleaned and forced
// absolute; an empty path means the root.
func NewName(scheme, userInfo, host, p string) Name {
	return Name{
		scheme:   scheme,
		userInfo: userInfo,
		host:     host,
		path:     cleanPath(p),
	}
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func (n Name) Scheme() string   { return n.scheme }
func (n Name) UserInfo() string { return n.userInfo }
func (n Name) Host() string     { return n.host }
func (n Name) Path() string     { return n.path }

// Root returns the name of the backend root this name lives under: same
// scheme and authority, path "/". Roots are the unit at which handles are
// cached.
func (n Name) Root() Name {
	n.path = "/"
	return n
}

func (n Name) IsRoot() bool { return n.path == "/" }

func (n Name) IsZero() bool { return n == Name{} }

// Base returns the last path element, or "/" for a root name.
func (n Name) Base() string { return path.Base(n.path) }

func (n Name) String() string {
	var b strings.Builder
	b.WriteString(n.scheme)
	b.WriteString("://")
	if n.userInfo != "" {
		b.WriteString(n.userInfo)
		b.WriteByte('@')
	}
	b.WriteString(n.host)
	b.WriteString(n.path)
	return b.String()
}

// Parser turns a raw URI, optionally relative to a base name, into a Name.
// The URI grammar is the parser's business; the resolver only requires that
// the result carries a scheme.
type Parser interface {
	Parse(base *Name, raw string) (Name, error)
}

// URLParser is the default Parser, built on net/url. Relative URIs are
// resolved against the base name when one is given.
type URLParser struct{}

var _ Parser = URLParser{}

func (URLParser) Parse(base *Name, raw string) (Name, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Name{}, err
	}
	if !u.IsAbs() && base != nil {
		u = base.urlValue().ResolveReference(u)
	}
	if u.Scheme == "" {
		return Name{}, fmt.Errorf("uri %q has no scheme and no base was given", raw)
	}
	userInfo := ""
	if u.User != nil {
		userInfo = u.User.String()
	}
	return NewName(u.Scheme, userInfo, u.Host, u.Path), nil
}

// urlValue renders the name for relative resolution. The base acts as a
// directory, so "sub/x" against "sftp://host/in" lands at "/in/sub/x".
func (n Name) urlValue() *url.URL {
	p := n.path
	if p != "/" {
		p += "/"
	}
	u := &url.URL{Scheme: n.scheme, Host: n.host, Path: p}
	if n.userInfo != "" {
		if user, pass, ok := strings.Cut(n.userInfo, ":"); ok {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(n.userInfo)
		}
	}
	return u
}
