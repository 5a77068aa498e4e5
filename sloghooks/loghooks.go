// Package sloghooks logs resolver hook events through log/slog, with
// optional sampling and key redaction for multi-tenant deployments where
// root URIs may carry credentials.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/urifs"
)

type Options struct {
	// Sampling to avoid floods on flapping backends; 0/1 = log all.
	CreatedEvery uint64
	EvictedEvery uint64

	// Optional key redactor. Defaults to a SHA-256 prefix, since handle
	// keys can embed userinfo from the root URI.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	createdCtr atomic.Uint64
	evictedCtr atomic.Uint64
}

var _ urifs.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) HandleCreated(key, id string) {
	if h.l == nil || !sample(h.opts.CreatedEvery, &h.createdCtr) {
		return
	}
	h.l.Debug("urifs.handle_created",
		"key", h.redact(key),
		"id", id)
}

func (h *Hooks) HandleEvicted(key, id, reason string) {
	if h.l == nil || !sample(h.opts.EvictedEvery, &h.evictedCtr) {
		return
	}
	h.l.Info("urifs.handle_evicted",
		"key", h.redact(key),
		"id", id,
		"reason", reason)
}

func (h *Hooks) StaleHandleDetected(key string, probeErr error) {
	if h.l == nil {
		return
	}
	h.l.Warn("urifs.stale_handle_detected",
		"key", h.redact(key),
		"err", probeErr)
}

func (h *Hooks) TimeoutOverrideInvalid(value string) {
	if h.l == nil {
		return
	}
	h.l.Warn("urifs.timeout_override_invalid",
		"value", value)
}
