package worker

import (
	"fmt"
	"sync"
	"time"

	"github.com/routegraph/routegraph/eal"
	"github.com/routegraph/routegraph/ethport"
	"github.com/routegraph/routegraph/graph"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// PortInfoProvider exposes port facts needed for assignment validation and
// tx-slot renumbering.
type PortInfoProvider interface {
	// Ports enumerates configured port IDs in ascending order.
	Ports() []uint16

	// RxQueueCount returns the number of configured rx-queues of a port.
	RxQueueCount(port uint16) (int, bool)

	// TxQueueCount returns the number of configured tx-queues of a port.
	TxQueueCount(port uint16) (int, bool)
}

// CPUInfoProvider exposes CPU facts needed for assignment validation.
type CPUInfoProvider interface {
	// IsMain reports whether cpu is the control lcore.
	IsMain(cpu int) bool

	// IsUsable reports whether cpu is online and allowed for dataplane work.
	IsUsable(cpu int) bool
}

// Assigner maps NIC rx-queues onto workers, creating and destroying workers
// as needed and keeping tx-queue slots dense and exclusive.
//
// Administrative requests are serialized: the mutex stands in for the single
// control thread; dataplane threads never touch the Assigner.
type Assigner struct {
	mu       sync.Mutex
	ports    PortInfoProvider
	cpus     CPUInfoProvider
	builder  graph.Builder
	reg      Registry
	maxSleep time.Duration
}

// NewAssigner creates an Assigner.
// maxSleep bounds the idle sleep of dataplane loops; zero selects DefaultMaxSleep.
func NewAssigner(ports PortInfoProvider, cpus CPUInfoProvider, builder graph.Builder, maxSleep time.Duration) *Assigner {
	if maxSleep <= 0 {
		maxSleep = DefaultMaxSleep
	}
	return &Assigner{
		ports:    ports,
		cpus:     cpus,
		builder:  builder,
		maxSleep: maxSleep,
	}
}

// Workers returns live workers in ascending creation order.
func (a *Assigner) Workers() []*Worker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reg.List()
}

// CountWorkers returns the number of live workers.
func (a *Assigner) CountWorkers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reg.Count()
}

// WorkerByCPU returns the worker pinned to cpu, or nil.
func (a *Assigner) WorkerByCPU(cpu int) *Worker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reg.ByCPU(cpu)
}

// AssignRxQueue pins rx-queue (port, queue) to the worker on cpu, creating
// the worker if needed and destroying the previous owner if its last
// rx-queue moves away.
func (a *Assigner) AssignRxQueue(port, queue uint16, cpu int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cpus.IsMain(cpu) {
		return fmt.Errorf("cpu %d: %w", cpu, ErrCPUReserved)
	}
	if !a.cpus.IsUsable(cpu) {
		return fmt.Errorf("cpu %d: %w", cpu, ErrCPUInvalid)
	}
	nRxq, ok := a.ports.RxQueueCount(port)
	if !ok {
		return fmt.Errorf("port %d: %w", port, ErrPortNotFound)
	}
	if int(queue) >= nRxq {
		return fmt.Errorf("port %d queue %d: %w", port, queue, ErrQueueNotFound)
	}

	q := ethport.Queue{Port: port, Queue: queue}
	owner := a.reg.OwnerOf(q)
	target := a.reg.ByCPU(cpu)
	if owner != nil && owner == target {
		return nil
	}

	dirty := map[*Worker]bool{}
	if owner != nil {
		owner.removeRxQueue(q)
		if len(owner.rxqs) == 0 {
			a.destroyWorker(owner) // errors logged, never propagated
		} else {
			// live graph keeps polling q until a new one is published
			owner.stale = true
			dirty[owner] = true
		}
	}

	created := false
	if target == nil {
		w, e := a.createWorker(cpu)
		if e != nil {
			a.markStale(a.recomputeTxSlots())
			return fmt.Errorf("create worker on cpu %d: %w: %s", cpu, ErrAllocation, e)
		}
		target, created = w, true
	}
	target.addRxQueue(q)
	dirty[target] = true

	for w := range a.recomputeTxSlots() {
		dirty[w] = true
	}
	for _, w := range a.reg.list {
		if w.stale {
			dirty[w] = true
		}
	}

	if e := a.rebuildGraphs(dirty, target); e != nil {
		// abort: leave the queue unassigned, drop a worker created for it,
		// and remember which live graphs now lag their bookkeeping
		target.removeRxQueue(q)
		if created {
			a.destroyWorker(target)
			delete(dirty, target)
		}
		a.markStale(a.recomputeTxSlots())
		for w := range dirty {
			w.stale = true
		}
		return fmt.Errorf("rebuild graph: %w: %s", ErrAllocation, e)
	}

	emitter.Emit(evtRxQueueAssigned, target, q)
	logger.Info("rx-queue assigned",
		zap.Uint16("port", port),
		zap.Uint16("queue", queue),
		zap.Int("cpu", cpu),
	)

	if e := a.builder.ReloadAll(); e != nil {
		return fmt.Errorf("%w: %s", ErrGraphReload, e)
	}
	return nil
}

// Close destroys all workers and frees their graphs.
func (a *Assigner) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, w := range a.reg.List() {
		a.destroyWorker(w)
	}
	return nil
}

func (a *Assigner) createWorker(cpu int) (*Worker, error) {
	lc := eal.LCoreFromID(cpu)
	if !lc.Valid() {
		return nil, fmt.Errorf("cpu %d is not a valid lcore", cpu)
	}
	if lc.IsBusy() {
		return nil, fmt.Errorf("lcore %d is busy", cpu)
	}
	a.reg.nextSeq++
	w := newWorker(cpu, a.reg.nextSeq)
	w.th.Launch()
	a.reg.insert(w)
	emitter.Emit(evtWorkerCreated, w)
	logger.Info("worker created", zap.Int("cpu", cpu), zap.Uint64("seq", w.seq))
	return w, nil
}

// destroyWorker stops the thread, frees the graph, and removes the worker
// from the registry. Destruction errors are logged, not propagated: the
// system favors forward progress of queue (re)assignment over perfect
// cleanup atomicity.
func (a *Assigner) destroyWorker(w *Worker) {
	e := w.th.Stop()
	if w.lastConfig != nil && w.lastConfig.Graph != nil {
		e = multierr.Append(e, w.lastConfig.Graph.Close())
		w.lastConfig = nil
	}
	a.reg.remove(w)
	emitter.Emit(evtWorkerDestroyed, w.cpu)
	if e != nil {
		logger.Error("worker destroy error", zap.Int("cpu", w.cpu), zap.Error(e))
	} else {
		logger.Info("worker destroyed", zap.Int("cpu", w.cpu))
	}
}

// recomputeTxSlots renumbers the tx-queue slot of every live worker for
// every port. Slots are dense 0..N-1 and unique per port; the ordering key
// is ascending worker creation sequence, so adding or removing a worker
// never leaves a gap.
func (a *Assigner) recomputeTxSlots() map[*Worker]bool {
	changed := map[*Worker]bool{}
	ports := a.ports.Ports()
	for slot, w := range a.reg.list {
		txqs := make([]QueueMap, 0, len(ports))
		for _, port := range ports {
			if n, ok := a.ports.TxQueueCount(port); ok && slot >= n {
				logger.Warn("port tx-queues oversubscribed",
					zap.Uint16("port", port),
					zap.Int("slot", slot),
					zap.Int("tx-queues", n),
				)
			}
			txqs = append(txqs, QueueMap{
				Queue:   ethport.Queue{Port: port, Queue: uint16(slot)},
				Enabled: true,
			})
		}
		if !equalQueueMaps(w.txqs, txqs) {
			w.txqs = txqs
			changed[w] = true
		}
	}
	return changed
}

// markStale flags recomputed workers so their live graph is republished by
// the next successful assignment.
func (a *Assigner) markStale(changed map[*Worker]bool) {
	for w := range changed {
		w.stale = true
	}
}

// rebuildGraphs builds a graph for every dirty worker, and publishes only
// after every build succeeded, so a build failure never leaves a
// half-applied generation live.
//
// Workers losing queues publish before the target, which gains them:
// each publish waits for adoption and retires the old graph, so hardware
// queue ownership stays exclusive throughout the handoff.
func (a *Assigner) rebuildGraphs(dirty map[*Worker]bool, target *Worker) error {
	order := make([]*Worker, 0, len(dirty))
	for _, w := range a.reg.list {
		if w != target && dirty[w] {
			order = append(order, w)
		}
	}
	if dirty[target] {
		order = append(order, target)
	}

	graphs := make([]graph.Graph, len(order))
	for i, w := range order {
		g, e := a.builder.Build(w.enabledRxQueues(), w.enabledTxQueues())
		if e != nil {
			for _, g := range graphs[:i] {
				if ce := g.Close(); ce != nil {
					logger.Warn("unpublished graph close error", zap.Error(ce))
				}
			}
			return e
		}
		graphs[i] = g
	}

	for i, w := range order {
		a.publishGraph(w, graphs[i])
	}
	return nil
}

// publishGraph hands g to w, then frees the graph it replaces once the
// dataplane has adopted the new generation.
func (a *Assigner) publishGraph(w *Worker, g graph.Graph) {
	old := w.lastConfig
	cfg := &Config{Graph: g, MaxSleep: a.maxSleep}
	gen := w.config.Publish(cfg)
	w.lastConfig = cfg
	w.stale = false

	if old != nil && old.Graph != nil {
		// single-writer/single-reader handoff: the old graph may be freed
		// only after the worker has moved off the generation referencing it
		w.config.WaitAdopted(gen)
		if e := old.Graph.Close(); e != nil {
			logger.Warn("old graph close error", zap.Int("cpu", w.cpu), zap.Error(e))
		}
	}
}

func equalQueueMaps(a, b []QueueMap) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
