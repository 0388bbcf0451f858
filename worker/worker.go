// Package worker implements the dataplane worker lifecycle and the rx-queue
// assignment core of the router.
//
// A Worker is one thread pinned to one logical CPU, busy-polling one
// packet-processing graph instance. The control thread owns the registry and
// all queue bookkeeping; the only cross-thread state is the lock-free
// SyncConfig and StatsCell cells.
package worker

import (
	"sync/atomic"

	"github.com/routegraph/routegraph/core/logging"
	"github.com/routegraph/routegraph/eal"
	"github.com/routegraph/routegraph/eal/ealthread"
	"github.com/routegraph/routegraph/ethport"
)

var logger = logging.New("worker")

// QueueMap is the administrative record of one queue assignment.
type QueueMap struct {
	ethport.Queue
	Enabled bool `json:"enabled"`
}

// Worker owns one pinned dataplane thread and its assigned queues.
type Worker struct {
	cpu int
	seq uint64 // creation order, tie-break for tx-slot renumbering

	th       ealthread.Thread
	tid      atomic.Int32
	started  atomic.Bool // dataplane: wo, control: ro
	shutdown atomic.Bool // dataplane: ro, control: wo

	config SyncConfig
	stats  StatsCell

	// control plane only
	rxqs       []QueueMap
	txqs       []QueueMap
	lastConfig *Config
	stale      bool // live graph lags rxqs/txqs bookkeeping
}

func newWorker(cpu int, seq uint64) *Worker {
	w := &Worker{
		cpu: cpu,
		seq: seq,
	}
	w.th = ealthread.New(w.main, ealthread.NewStopFlag(&w.shutdown))
	w.th.SetLCore(eal.LCoreFromID(cpu))
	return w
}

// CPU returns the logical CPU this worker is pinned to.
func (w *Worker) CPU() int {
	return w.cpu
}

// LCore returns the worker's lcore.
func (w *Worker) LCore() eal.LCore {
	return w.th.LCore()
}

// Tid returns the OS thread ID of the dataplane thread, or 0 before it starts.
func (w *Worker) Tid() int {
	return int(w.tid.Load())
}

// IsStarted reports whether the dataplane loop has entered steady state.
func (w *Worker) IsStarted() bool {
	return w.started.Load()
}

// RxQueues returns a copy of the worker's rx-queue assignments.
func (w *Worker) RxQueues() []QueueMap {
	return append([]QueueMap{}, w.rxqs...)
}

// TxQueues returns a copy of the worker's tx-queue slots.
func (w *Worker) TxQueues() []QueueMap {
	return append([]QueueMap{}, w.txqs...)
}

// Stats returns the most recently published statistics snapshot, or nil.
func (w *Worker) Stats() *Snapshot {
	return w.stats.Snapshot()
}

// ResetStats requests counters to be zeroed at the next publish cycle.
func (w *Worker) ResetStats() {
	w.stats.RequestReset()
}

// ConfigGenerations returns the published and adopted configuration generations.
func (w *Worker) ConfigGenerations() (published, adopted uint32) {
	return w.config.Published(), w.config.Adopted()
}

func (w *Worker) hasRxQueue(q ethport.Queue) bool {
	for _, qm := range w.rxqs {
		if qm.Queue == q {
			return true
		}
	}
	return false
}

func (w *Worker) addRxQueue(q ethport.Queue) {
	w.rxqs = append(w.rxqs, QueueMap{Queue: q, Enabled: true})
}

func (w *Worker) removeRxQueue(q ethport.Queue) {
	for i, qm := range w.rxqs {
		if qm.Queue == q {
			w.rxqs = append(w.rxqs[:i], w.rxqs[i+1:]...)
			return
		}
	}
}

func (w *Worker) enabledRxQueues() (list []ethport.Queue) {
	for _, qm := range w.rxqs {
		if qm.Enabled {
			list = append(list, qm.Queue)
		}
	}
	return list
}

func (w *Worker) enabledTxQueues() (list []ethport.Queue) {
	for _, qm := range w.txqs {
		if qm.Enabled {
			list = append(list, qm.Queue)
		}
	}
	return list
}

// Registry is the set of live workers.
// It is owned and mutated exclusively by the control thread; dataplane
// threads never observe it.
type Registry struct {
	nextSeq uint64
	list    []*Worker // ascending creation sequence
}

// Count returns the number of live workers.
func (r *Registry) Count() int {
	return len(r.list)
}

// List returns live workers in ascending creation order.
func (r *Registry) List() []*Worker {
	return append([]*Worker{}, r.list...)
}

// ByCPU returns the worker pinned to cpu, or nil.
func (r *Registry) ByCPU(cpu int) *Worker {
	for _, w := range r.list {
		if w.cpu == cpu {
			return w
		}
	}
	return nil
}

// OwnerOf returns the worker whose rx-queues contain q, or nil.
func (r *Registry) OwnerOf(q ethport.Queue) *Worker {
	for _, w := range r.list {
		if w.hasRxQueue(q) {
			return w
		}
	}
	return nil
}

func (r *Registry) insert(w *Worker) {
	r.list = append(r.list, w)
}

func (r *Registry) remove(w *Worker) {
	for i, other := range r.list {
		if other == w {
			r.list = append(r.list[:i], r.list[i+1:]...)
			return
		}
	}
}
