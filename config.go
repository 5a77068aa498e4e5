package urifs

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/urifs/internal/keys"
)

// Config is an immutable bag of backend options (credentials, protocol
// flags, tunables). Backends interpret the keys they know and ignore the
// rest. A Config participates in handle-cache identity: two lookups against
// the same root but different Configs get distinct handles.
//
// A nil *Config is valid everywhere and means "no options".
type Config struct {
	values map[string]string
	fp     string
}

// NewConfig copies values into a new Config. Pass nil or an empty map for
// an option-less Config equivalent to nil.
func NewConfig(values map[string]string) *Config {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &Config{values: cp, fp: keys.Fingerprint(cp)}
}

// With returns a copy of c with key set to value.
func (c *Config) With(key, value string) *Config {
	cp := make(map[string]string, c.Len()+1)
	if c != nil {
		for k, v := range c.values {
			cp[k] = v
		}
	}
	cp[key] = value
	return &Config{values: cp, fp: keys.Fingerprint(cp)}
}

// Get returns the raw value for key and whether it is set.
func (c *Config) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.values[key]
	return v, ok
}

// Int returns the value for key parsed as an int, or def when the key is
// absent or malformed.
func (c *Config) Int(key string, def int) int {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Bool returns the value for key parsed as a bool, or def when the key is
// absent or malformed.
func (c *Config) Bool(key string, def bool) bool {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Duration returns the value for key parsed as a time.Duration, or def when
// the key is absent or malformed.
func (c *Config) Duration(key string, def time.Duration) time.Duration {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// Keys returns the set keys in sorted order.
func (c *Config) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.values))
	for k := range c.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Fingerprint is the stable digest used for cache identity. nil and empty
// Configs share the empty fingerprint.
func (c *Config) Fingerprint() string {
	if c == nil {
		return ""
	}
	return c.fp
}

// ConfigFromYAML builds a Config from a YAML document. Nested mappings
// flatten into dotted keys, so
//
//	ftp:
//	  user: bob
//
// becomes "ftp.user" = "bob". Scalar values are stringified.
func ConfigFromYAML(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("urifs: parsing config yaml: %w", err)
	}
	values := make(map[string]string)
	if err := flattenYAML("", raw, values); err != nil {
		return nil, err
	}
	return NewConfig(values), nil
}

// LoadConfigFile reads path and parses it with ConfigFromYAML.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("urifs: reading config file: %w", err)
	}
	return ConfigFromYAML(data)
}

func flattenYAML(prefix string, m map[string]any, out map[string]string) error {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]any:
			if err := flattenYAML(key, vv, out); err != nil {
				return err
			}
		case nil:
			out[key] = ""
		case []any:
			return fmt.Errorf("urifs: config key %q: sequences are not supported", key)
		default:
			out[key] = fmt.Sprint(vv)
		}
	}
	return nil
}
