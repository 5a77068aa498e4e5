package keys

import "testing"

func TestFingerprint(t *testing.T) {
	if Fingerprint(nil) != "" || Fingerprint(map[string]string{}) != "" {
		t.Fatalf("empty bags must fingerprint to the empty string")
	}

	a := Fingerprint(map[string]string{"x": "1", "y": "2"})
	b := Fingerprint(map[string]string{"y": "2", "x": "1"})
	if a != b {
		t.Fatalf("fingerprint depends on map order: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("fingerprint length = %d, want 16", len(a))
	}
	if a == Fingerprint(map[string]string{"x": "1", "y": "3"}) {
		t.Fatalf("different bags collided")
	}
}

func TestHandle(t *testing.T) {
	if got := Handle("ftp://host/", ""); got != "ftp://host/" {
		t.Fatalf("Handle without fingerprint = %q", got)
	}
	if got := Handle("ftp://host/", "abcd"); got != "ftp://host/#abcd" {
		t.Fatalf("Handle with fingerprint = %q", got)
	}
}
