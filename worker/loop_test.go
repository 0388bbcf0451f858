package worker_test

import (
	"testing"
	"time"

	"github.com/routegraph/routegraph/graph/graphtest"
	"github.com/routegraph/routegraph/worker"
)

func loopCalls(s *worker.Snapshot) (calls uint64, ok bool) {
	if s == nil {
		return 0, false
	}
	for _, c := range s.Counters {
		if c.Node == "loop" {
			return c.Calls, true
		}
	}
	return 0, false
}

func TestWorkerStats(t *testing.T) {
	assert, require := makeAR(t)

	b := graphtest.NewBuilder()
	a := worker.NewAssigner(threePorts(), fourCPUs(), b, time.Millisecond)
	defer a.Close()

	require.NoError(a.AssignRxQueue(0, 0, 1))
	w := a.WorkerByCPU(1)
	require.NotNil(w)
	assert.Nil(w.Stats())

	// a snapshot appears after the first publish interval and keeps growing
	assert.Eventually(func() bool {
		calls, ok := loopCalls(w.Stats())
		return ok && calls >= 150
	}, 5*time.Second, 10*time.Millisecond)

	s := w.Stats()
	require.NotNil(s)
	assert.False(s.Updated.IsZero())
	nodes := map[string]uint64{}
	for _, c := range s.Counters {
		nodes[c.Node] = c.Calls
	}
	assert.Contains(nodes, "test")
	assert.Contains(nodes, "loop")

	// reset zeroes both graph and loop counters at the next cycle
	w.ResetStats()
	assert.Eventually(func() bool {
		calls, ok := loopCalls(w.Stats())
		return ok && calls < 150
	}, 5*time.Second, 10*time.Millisecond)
}
