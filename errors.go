package urifs

import "fmt"

// InvalidURIError reports a raw URI that could not be parsed into an
// absolute name. It carries the original input and the parser's cause so
// callers see one failure shape regardless of which grammar rejected it.
type InvalidURIError struct {
	URI string
	Err error
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("urifs: invalid absolute uri %q: %v", e.URI, e.Err)
}

func (e *InvalidURIError) Unwrap() error { return e.Err }

// UnknownSchemeError is returned by a Registry for URIs whose scheme has no
// registered resolver.
type UnknownSchemeError struct {
	Scheme string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("urifs: no resolver registered for scheme %q", e.Scheme)
}

// NotInRootError is returned by handles asked to resolve a name that lives
// under a different root.
type NotInRootError struct {
	Root Name
	Name Name
}

func (e *NotInRootError) Error() string {
	return fmt.Sprintf("urifs: name %s is outside handle root %s", e.Name, e.Root)
}
