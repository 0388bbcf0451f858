package worker

import (
	"sync/atomic"
	"time"

	"github.com/routegraph/routegraph/graph"
)

// Config is the unit of configuration handed off to a dataplane thread.
// A Config is immutable once published.
type Config struct {
	// Graph is the packet-processing graph instance to walk. May be nil
	// before the first rebuild.
	Graph graph.Graph

	// MaxSleep bounds the idle sleep between walks when the graph reports
	// no pending work.
	MaxSleep time.Duration
}

// SyncConfig is a two-slot double-buffered configuration cell with generation
// counters, the lock-free handoff between the control thread and one
// dataplane thread.
//
// The control thread writes a full Config into the inactive slot before
// making the new generation visible, so the dataplane never observes a
// partially written configuration. The dataplane advances its own generation
// counter only after adopting a slot, so the control thread can tell when it
// is safe to free the previous graph.
type SyncConfig struct {
	slots [2]atomic.Pointer[Config]
	next  atomic.Uint32 // written by control
	cur   atomic.Uint32 // written by dataplane
}

// Publish stores cfg into the inactive slot and makes the new generation
// visible to the dataplane. Control thread only.
func (sc *SyncConfig) Publish(cfg *Config) (gen uint32) {
	gen = sc.next.Load() + 1
	sc.slots[gen%2].Store(cfg)
	sc.next.Store(gen)
	return gen
}

// Poll checks for a generation newer than cur and adopts it.
// Dataplane thread only, at a safe point between walks.
func (sc *SyncConfig) Poll(cur uint32) (cfg *Config, gen uint32, ok bool) {
	gen = sc.next.Load()
	if gen == cur {
		return nil, cur, false
	}
	cfg = sc.slots[gen%2].Load()
	sc.cur.Store(gen)
	return cfg, gen, true
}

// Published returns the most recently published generation.
func (sc *SyncConfig) Published() uint32 {
	return sc.next.Load()
}

// Adopted returns the generation most recently adopted by the dataplane.
func (sc *SyncConfig) Adopted() uint32 {
	return sc.cur.Load()
}

// WaitAdopted blocks until the dataplane has adopted at least gen.
// Control thread only; the owning worker's loop must be running.
func (sc *SyncConfig) WaitAdopted(gen uint32) {
	for sc.cur.Load() < gen {
		time.Sleep(20 * time.Microsecond)
	}
}
