package worker

import (
	"sync/atomic"
	"time"

	"github.com/routegraph/routegraph/graph"
)

// Snapshot is an immutable statistics snapshot.
// Once published, a Snapshot is never mutated, only replaced.
type Snapshot struct {
	Counters []graph.NodeCounters `json:"counters"`
	Updated  time.Time            `json:"updated"`
}

// StatsCell is an atomically replaceable reference to the most recent
// Snapshot, the lock-free handoff from one dataplane thread to control.
type StatsCell struct {
	v     atomic.Pointer[Snapshot]
	reset atomic.Bool
}

// Snapshot returns the most recently published snapshot, or nil if the
// dataplane has not published one yet. Never blocks.
func (c *StatsCell) Snapshot() *Snapshot {
	return c.v.Load()
}

// RequestReset asks the dataplane to zero its counters. The reset takes
// effect at the dataplane's next publish cycle, not immediately.
func (c *StatsCell) RequestReset() {
	c.reset.Store(true)
}

// publish replaces the current snapshot. Dataplane thread only.
func (c *StatsCell) publish(s *Snapshot) {
	c.v.Store(s)
}

// takeReset consumes a pending reset request. Dataplane thread only.
func (c *StatsCell) takeReset() bool {
	return c.reset.CompareAndSwap(true, false)
}
