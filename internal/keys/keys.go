// Package keys builds the deterministic strings the handle cache keys on.
package keys

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint condenses a configuration bag into a short stable digest:
// sha-256 over the sorted k=v pairs, first 16 hex chars. An empty bag has
// the empty fingerprint, so "no configuration" and nil behave alike.
func Fingerprint(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(values))
	for k, v := range values {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	sum := sha256.Sum256([]byte(strings.Join(pairs, "\n")))
	return fmt.Sprintf("%x", sum)[:16]
}

// Handle joins a root identifier with a configuration fingerprint. When the
// fingerprint is empty the root alone is the key, which keeps the common
// case readable in logs.
func Handle(root, fingerprint string) string {
	if fingerprint == "" {
		return root
	}
	return root + "#" + fingerprint
}
