package urifs

// Hooks are lightweight callbacks for high-signal handle lifecycle events.
// Implementations MUST be cheap and non-blocking; the resolver calls them on
// hot paths. Wrap with hooks/async to offload slow sinks.
type Hooks interface {
	// A new handle was connected and cached. id correlates later events
	// for the same handle instance.
	HandleCreated(key, id string)

	// A handle left the cache and its resources were released.
	// reason ∈ {"explicit", "stale", "idle", "close"}
	HandleEvicted(key, id, reason string)

	// An existence probe errored, marking the cached handle stale. Fired
	// at detection time, before the replacement attempt runs - the retry
	// itself may still fail.
	StaleHandleDetected(key string, probeErr error)

	// The connect-timeout query parameter carried a non-integer value and
	// was ignored.
	TimeoutOverrideInvalid(value string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) HandleCreated(string, string)         {}
func (NopHooks) HandleEvicted(string, string, string) {}
func (NopHooks) StaleHandleDetected(string, error)    {}
func (NopHooks) TimeoutOverrideInvalid(string)        {}
