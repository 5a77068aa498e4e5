// Package asynchook decouples hook sinks from the resolver's hot paths.
//
// Events are enqueued onto a bounded channel and replayed by worker
// goroutines; when the queue is full the event is dropped rather than
// blocking a resolution.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	res, _ := urifs.New(urifs.Options{
//	    Connector: connector,
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/urifs"
)

type Hooks struct {
	inner urifs.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ urifs.Hooks = (*Hooks)(nil)

func New(inner urifs.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Close the resolver first;
// events enqueued after Close panic on the closed channel.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) HandleCreated(key, id string) {
	h.try(func() { h.inner.HandleCreated(key, id) })
}

func (h *Hooks) HandleEvicted(key, id, reason string) {
	h.try(func() { h.inner.HandleEvicted(key, id, reason) })
}

func (h *Hooks) StaleHandleDetected(key string, probeErr error) {
	h.try(func() { h.inner.StaleHandleDetected(key, probeErr) })
}

func (h *Hooks) TimeoutOverrideInvalid(value string) {
	h.try(func() { h.inner.TimeoutOverrideInvalid(value) })
}
