package urifs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigFingerprint(t *testing.T) {
	a := NewConfig(map[string]string{"x": "1", "y": "2"})
	b := NewConfig(map[string]string{"y": "2", "x": "1"})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("same bag, different fingerprints: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}

	c := NewConfig(map[string]string{"x": "1", "y": "3"})
	if c.Fingerprint() == a.Fingerprint() {
		t.Fatalf("different values share a fingerprint")
	}

	var nilCfg *Config
	if nilCfg.Fingerprint() != "" || NewConfig(nil).Fingerprint() != "" {
		t.Fatalf("nil/empty configs must have the empty fingerprint")
	}
}

func TestConfigWithCopies(t *testing.T) {
	a := NewConfig(map[string]string{"x": "1"})
	b := a.With("y", "2")

	if _, ok := a.Get("y"); ok {
		t.Fatalf("With mutated the original")
	}
	if v, ok := b.Get("y"); !ok || v != "2" {
		t.Fatalf("With lost the new key")
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("With did not change identity")
	}

	var nilCfg *Config
	c := nilCfg.With("x", "1")
	if v, ok := c.Get("x"); !ok || v != "1" {
		t.Fatalf("With on nil config: %v %v", v, ok)
	}
}

func TestConfigTypedGetters(t *testing.T) {
	c := NewConfig(map[string]string{
		"n":    "42",
		"b":    "true",
		"d":    "250ms",
		"junk": "zzz",
	})

	if got := c.Int("n", 0); got != 42 {
		t.Errorf("Int = %d", got)
	}
	if got := c.Int("junk", 7); got != 7 {
		t.Errorf("Int malformed = %d, want default", got)
	}
	if got := c.Int("absent", 7); got != 7 {
		t.Errorf("Int absent = %d, want default", got)
	}
	if !c.Bool("b", false) {
		t.Errorf("Bool = false")
	}
	if c.Bool("junk", false) {
		t.Errorf("Bool malformed did not fall back")
	}
	if got := c.Duration("d", 0); got != 250*time.Millisecond {
		t.Errorf("Duration = %v", got)
	}
	if got := c.Duration("junk", time.Second); got != time.Second {
		t.Errorf("Duration malformed = %v, want default", got)
	}
}

func TestConfigFromYAML(t *testing.T) {
	c, err := ConfigFromYAML([]byte(`
ftp:
  user: bob
  password: s3cret
redis:
  db: 3
local.readOnly: true
`))
	if err != nil {
		t.Fatalf("ConfigFromYAML: %v", err)
	}
	if v, _ := c.Get("ftp.user"); v != "bob" {
		t.Errorf("ftp.user = %q", v)
	}
	if got := c.Int("redis.db", 0); got != 3 {
		t.Errorf("redis.db = %d", got)
	}
	if !c.Bool("local.readOnly", false) {
		t.Errorf("local.readOnly not set")
	}
	if got := c.Keys(); len(got) != 4 {
		t.Errorf("Keys = %v", got)
	}

	if _, err := ConfigFromYAML([]byte("xs: [1, 2]")); err == nil {
		t.Fatalf("sequences should be rejected")
	}
	if _, err := ConfigFromYAML([]byte("{")); err == nil {
		t.Fatalf("broken yaml should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backend.yaml")
	if err := os.WriteFile(path, []byte("ftp:\n  user: eve\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if v, _ := c.Get("ftp.user"); v != "eve" {
		t.Fatalf("ftp.user = %q", v)
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("missing file should fail")
	}
}
