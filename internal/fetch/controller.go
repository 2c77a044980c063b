// Package fetch holds the page-level request state machine: loading/data/
// error plus a generation guard that makes parameter changes safe against
// out-of-order responses. Pages issue a request whenever an input parameter
// changes; the guard guarantees last-issued-wins no matter the arrival order,
// without any network cancellation.
package fetch

import "sync"

// State is a point-in-time snapshot of a controller.
type State[T any] struct {
	Loading bool
	Data    *T
	Err     error
	// Generation identifies the request whose outcome the snapshot reflects.
	Generation uint64
}

// Empty reports whether neither data nor an error has arrived yet.
func (s State[T]) Empty() bool { return s.Data == nil && s.Err == nil }

// Controller guards one page's fetched value of type T. Each issued request
// gets a generation number; only the outcome of the most recently issued
// request is ever applied. A response from a superseded request is discarded
// on arrival, never merged.
type Controller[T any] struct {
	mu    sync.Mutex
	seq   uint64
	state State[T]
}

// NewController returns an empty controller.
func NewController[T any]() *Controller[T] {
	return &Controller[T]{}
}

// Begin registers a new request and returns its generation token. The state
// switches to loading; existing data stays visible until the outcome lands,
// so pages can keep rendering the previous list while the next one loads.
func (c *Controller[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state.Loading = true
	return c.seq
}

// Complete applies a request outcome. The outcome replaces (never appends to)
// the current data. Returns false when gen has been superseded by a later
// Begin, in which case nothing changes, not even the loading flag, since the
// newer request is still in flight.
func (c *Controller[T]) Complete(gen uint64, data *T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.seq {
		return false
	}
	c.state = State[T]{Data: data, Err: err, Generation: gen}
	if err != nil {
		// Keep nothing from the failed request; the error display owns the
		// page until the next parameter change.
		c.state.Data = nil
	}
	return true
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset drops all state and invalidates every in-flight generation.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = State[T]{}
}
