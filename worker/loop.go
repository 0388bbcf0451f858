package worker

import (
	"time"

	"github.com/routegraph/routegraph/graph"
	"golang.org/x/sys/unix"
)

// DefaultMaxSleep bounds the idle sleep of a dataplane loop whose
// configuration does not specify one.
const DefaultMaxSleep = 100 * time.Microsecond

// statsPublishInterval is how often a dataplane loop publishes a snapshot.
const statsPublishInterval = 100 * time.Millisecond

// main is the dataplane busy loop. It runs on the worker's pinned lcore.
//
// Configuration generation and the shutdown flag are observed only at the
// safe point between walks, never mid-walk.
func (w *Worker) main() int {
	w.tid.Store(int32(unix.Gettid()))

	var cfg *Config
	cur := uint32(0)
	if c, gen, ok := w.config.Poll(cur); ok {
		cfg, cur = c, gen
	}
	w.started.Store(true)
	defer w.started.Store(false)

	var validWalks, emptyWalks uint64
	lastPublish := time.Now()

	for !w.shutdown.Load() {
		if c, gen, ok := w.config.Poll(cur); ok {
			cfg, cur = c, gen
		}

		work := false
		if cfg != nil && cfg.Graph != nil {
			work = cfg.Graph.Walk()
		}
		if work {
			validWalks++
		} else {
			emptyWalks++
		}

		now := time.Now()
		if w.stats.takeReset() {
			if cfg != nil && cfg.Graph != nil {
				cfg.Graph.ResetCounters()
			}
			validWalks, emptyWalks = 0, 0
			lastPublish = now // skip one publish cycle
		} else if now.Sub(lastPublish) >= statsPublishInterval {
			w.publishStats(cfg, validWalks, emptyWalks, now)
			lastPublish = now
		}

		if !work {
			sleep := DefaultMaxSleep
			if cfg != nil && cfg.MaxSleep > 0 {
				sleep = cfg.MaxSleep
			}
			// bounded sleep only; shutdown and config state are re-checked after waking
			time.Sleep(sleep)
		}
	}
	return 0
}

func (w *Worker) publishStats(cfg *Config, validWalks, emptyWalks uint64, now time.Time) {
	var counters []graph.NodeCounters
	if cfg != nil && cfg.Graph != nil {
		counters = cfg.Graph.Counters()
	}
	counters = append(counters, graph.NodeCounters{
		Node:    "loop",
		Calls:   validWalks + emptyWalks,
		Objects: validWalks,
	})
	w.stats.publish(&Snapshot{
		Counters: counters,
		Updated:  now,
	})
}
