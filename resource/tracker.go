package resource

import "sync/atomic"

// Tracker counts requests in flight. One tracker may be shared by several
// clients to drive a single busy indicator.
type Tracker struct {
	active atomic.Int64
}

// NewTracker creates an idle tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) start() {
	if t != nil {
		t.active.Add(1)
	}
}

func (t *Tracker) done() {
	if t != nil {
		t.active.Add(-1)
	}
}

// Active returns the number of requests in flight
func (t *Tracker) Active() int {
	if t == nil {
		return 0
	}
	return int(t.active.Load())
}

// Busy reports whether any request is in flight
func (t *Tracker) Busy() bool {
	return t.Active() > 0
}
