package worker_test

import (
	"sort"

	"github.com/routegraph/routegraph/core/testenv"
	"github.com/routegraph/routegraph/ethport"
	"github.com/routegraph/routegraph/graph/graphtest"
	"github.com/routegraph/routegraph/worker"
	"github.com/stretchr/testify/assert"
)

var makeAR = testenv.MakeAR

// portFacts is a scripted worker.PortInfoProvider.
type portFacts map[uint16]struct{ rx, tx int }

func (f portFacts) Ports() (list []uint16) {
	for port := range f {
		list = append(list, port)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

func (f portFacts) RxQueueCount(port uint16) (int, bool) {
	p, ok := f[port]
	return p.rx, ok
}

func (f portFacts) TxQueueCount(port uint16) (int, bool) {
	p, ok := f[port]
	return p.tx, ok
}

// cpuFacts is a scripted worker.CPUInfoProvider.
type cpuFacts struct {
	main   int
	usable map[int]bool
}

func (f cpuFacts) IsMain(cpu int) bool {
	return cpu == f.main
}

func (f cpuFacts) IsUsable(cpu int) bool {
	return f.usable[cpu]
}

// threePorts is the topology of most tests: 3 ports with 2 rx-queues each.
func threePorts() portFacts {
	return portFacts{
		0: {rx: 2, tx: 8},
		1: {rx: 2, tx: 8},
		2: {rx: 2, tx: 8},
	}
}

func fourCPUs() cpuFacts {
	return cpuFacts{
		main:   0,
		usable: map[int]bool{1: true, 2: true, 3: true, 4: true},
	}
}

func q(port, queue uint16) ethport.Queue {
	return ethport.Queue{Port: port, Queue: queue}
}

// assertQueues asserts that qmaps contain exactly the expected queues, in any order.
func assertQueues(a *assert.Assertions, qmaps []worker.QueueMap, expected ...ethport.Queue) {
	actual := []ethport.Queue{}
	for _, qm := range qmaps {
		actual = append(actual, qm.Queue)
	}
	a.ElementsMatch(expected, actual)
}

// assertLiveRxExclusive asserts that no hardware rx-queue is polled by more
// than one live graph.
func assertLiveRxExclusive(a *assert.Assertions, b *graphtest.Builder) {
	seen := map[ethport.Queue]int{}
	for _, g := range b.Live() {
		for _, q := range g.Rxqs {
			seen[q]++
		}
	}
	for q, n := range seen {
		a.Equal(1, n, "rx-queue %s", q)
	}
}

// assertLiveTxExclusive asserts that no hardware tx-queue is owned by more
// than one live graph.
func assertLiveTxExclusive(a *assert.Assertions, b *graphtest.Builder) {
	seen := map[ethport.Queue]int{}
	for _, g := range b.Live() {
		for _, q := range g.Txqs {
			seen[q]++
		}
	}
	for q, n := range seen {
		a.Equal(1, n, "tx-queue %s", q)
	}
}

// liveRxOwners counts live graphs polling q.
func liveRxOwners(b *graphtest.Builder, q ethport.Queue) (n int) {
	for _, g := range b.Live() {
		for _, rxq := range g.Rxqs {
			if rxq == q {
				n++
			}
		}
	}
	return n
}

// assertDenseTxSlots asserts that for every port, tx slots across all live
// workers are exactly {0..N-1} with no duplicates and no gaps.
func assertDenseTxSlots(a *assert.Assertions, workers []*worker.Worker, ports portFacts) {
	n := len(workers)
	for _, port := range ports.Ports() {
		slots := map[uint16]int{}
		for _, w := range workers {
			for _, qm := range w.TxQueues() {
				if qm.Port == port {
					slots[qm.Queue.Queue]++
				}
			}
		}
		a.Len(slots, n, "port %d", port)
		for slot := 0; slot < n; slot++ {
			a.Equal(1, slots[uint16(slot)], "port %d slot %d", port, slot)
		}
	}
}
