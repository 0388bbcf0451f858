package worker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/routegraph/routegraph/graph/graphtest"
	"github.com/routegraph/routegraph/worker"
)

var errNoHeadroom = errors.New("no headroom for graph")

func TestAssignValidation(t *testing.T) {
	assert, require := makeAR(t)

	b := graphtest.NewBuilder()
	a := worker.NewAssigner(threePorts(), fourCPUs(), b, time.Millisecond)
	defer a.Close()

	// CPU checks come first, regardless of port validity
	assert.ErrorIs(a.AssignRxQueue(0, 0, 0), worker.ErrCPUReserved)
	assert.ErrorIs(a.AssignRxQueue(9, 0, 0), worker.ErrCPUReserved)
	assert.ErrorIs(a.AssignRxQueue(0, 0, 9999), worker.ErrCPUInvalid)
	assert.ErrorIs(a.AssignRxQueue(9, 9, 9999), worker.ErrCPUInvalid)
	assert.ErrorIs(a.AssignRxQueue(0, 0, -1), worker.ErrCPUInvalid)

	assert.ErrorIs(a.AssignRxQueue(9, 0, 1), worker.ErrPortNotFound)
	assert.ErrorIs(a.AssignRxQueue(0, 2, 1), worker.ErrQueueNotFound)
	assert.ErrorIs(a.AssignRxQueue(2, 9, 1), worker.ErrQueueNotFound)

	require.Equal(0, a.CountWorkers())
	assert.Zero(b.CountBuilds())
}

func TestAssignLifecycle(t *testing.T) {
	assert, require := makeAR(t)

	ports := threePorts()
	b := graphtest.NewBuilder()
	a := worker.NewAssigner(ports, fourCPUs(), b, time.Millisecond)
	defer a.Close()

	// first assignment creates a worker with a tx-queue on every port
	require.NoError(a.AssignRxQueue(0, 0, 1))
	require.Equal(1, a.CountWorkers())
	w1 := a.WorkerByCPU(1)
	require.NotNil(w1)
	assert.Equal(1, w1.CPU())
	assertQueues(assert, w1.RxQueues(), q(0, 0))
	assertQueues(assert, w1.TxQueues(), q(0, 0), q(1, 0), q(2, 0))
	assert.Equal(1, b.CountLive())
	assert.Equal(1, b.CountReloads())

	// second queue lands on the same worker
	require.NoError(a.AssignRxQueue(0, 1, 1))
	assert.Equal(1, a.CountWorkers())
	assertQueues(assert, w1.RxQueues(), q(0, 0), q(0, 1))
	assertQueues(assert, w1.TxQueues(), q(0, 0), q(1, 0), q(2, 0))
	assert.Equal(1, b.CountLive())

	// re-assigning to the current owner is a no-op
	builds := b.CountBuilds()
	reloads := b.CountReloads()
	require.NoError(a.AssignRxQueue(0, 1, 1))
	assert.Equal(builds, b.CountBuilds())
	assert.Equal(reloads, b.CountReloads())
	assertQueues(assert, w1.RxQueues(), q(0, 0), q(0, 1))

	// a different CPU gets its own worker and the next tx slot
	require.NoError(a.AssignRxQueue(1, 0, 2))
	require.Equal(2, a.CountWorkers())
	w2 := a.WorkerByCPU(2)
	require.NotNil(w2)
	assertQueues(assert, w2.RxQueues(), q(1, 0))
	assertQueues(assert, w1.TxQueues(), q(0, 0), q(1, 0), q(2, 0))
	assertQueues(assert, w2.TxQueues(), q(0, 1), q(1, 1), q(2, 1))
	assertDenseTxSlots(assert, a.Workers(), ports)
	assert.Equal(2, b.CountLive())

	// moving w2's only queue away destroys w2 and renumbers tx slots
	require.NoError(a.AssignRxQueue(1, 0, 1))
	assert.Equal(1, a.CountWorkers())
	assert.Nil(a.WorkerByCPU(2))
	assertQueues(assert, w1.RxQueues(), q(0, 0), q(0, 1), q(1, 0))
	assertQueues(assert, w1.TxQueues(), q(0, 0), q(1, 0), q(2, 0))
	assert.Equal(1, b.CountLive())
}

func TestAssignRenumbering(t *testing.T) {
	assert, require := makeAR(t)

	ports := threePorts()
	b := graphtest.NewBuilder()
	a := worker.NewAssigner(ports, fourCPUs(), b, time.Millisecond)
	defer a.Close()

	require.NoError(a.AssignRxQueue(0, 0, 1))
	require.NoError(a.AssignRxQueue(0, 1, 2))
	require.NoError(a.AssignRxQueue(1, 0, 3))
	require.Equal(3, a.CountWorkers())
	assertDenseTxSlots(assert, a.Workers(), ports)
	assert.Equal(3, b.CountLive())

	w1, w2, w3 := a.WorkerByCPU(1), a.WorkerByCPU(2), a.WorkerByCPU(3)
	assertQueues(assert, w1.TxQueues(), q(0, 0), q(1, 0), q(2, 0))
	assertQueues(assert, w2.TxQueues(), q(0, 1), q(1, 1), q(2, 1))
	assertQueues(assert, w3.TxQueues(), q(0, 2), q(1, 2), q(2, 2))

	// destroying the middle worker compacts the slots above it
	require.NoError(a.AssignRxQueue(0, 1, 3))
	assert.Equal(2, a.CountWorkers())
	assert.Nil(a.WorkerByCPU(2))
	assertQueues(assert, w1.TxQueues(), q(0, 0), q(1, 0), q(2, 0))
	assertQueues(assert, w3.TxQueues(), q(0, 1), q(1, 1), q(2, 1))
	assertQueues(assert, w3.RxQueues(), q(0, 1), q(1, 0))
	assertDenseTxSlots(assert, a.Workers(), ports)
	assert.Equal(2, b.CountLive())
}

func TestAssignWorkerThreads(t *testing.T) {
	assert, require := makeAR(t)

	b := graphtest.NewBuilder()
	a := worker.NewAssigner(threePorts(), fourCPUs(), b, time.Millisecond)
	defer a.Close()

	require.NoError(a.AssignRxQueue(0, 0, 1))
	w := a.WorkerByCPU(1)
	require.NotNil(w)

	assert.Eventually(w.IsStarted, time.Second, time.Millisecond)
	assert.NotZero(w.Tid())
	assert.True(w.LCore().IsBusy())

	published, _ := w.ConfigGenerations()
	assert.EqualValues(1, published)
	assert.Eventually(func() bool {
		_, adopted := w.ConfigGenerations()
		return adopted == published
	}, time.Second, time.Millisecond)

	require.NoError(a.Close())
	assert.Equal(0, a.CountWorkers())
	assert.False(w.IsStarted())
	assert.False(w.LCore().IsBusy())
	assert.Zero(b.CountLive())
}

func TestAssignBuildFailure(t *testing.T) {
	assert, require := makeAR(t)

	b := graphtest.NewBuilder()
	a := worker.NewAssigner(threePorts(), fourCPUs(), b, time.Millisecond)
	defer a.Close()

	require.NoError(a.AssignRxQueue(0, 0, 1))
	w1 := a.WorkerByCPU(1)

	// failing to build for a new worker aborts the whole assignment
	b.BuildErr = errNoHeadroom
	assert.ErrorIs(a.AssignRxQueue(1, 0, 2), worker.ErrAllocation)
	assert.Equal(1, a.CountWorkers())
	assert.Nil(a.WorkerByCPU(2))
	assertQueues(assert, w1.RxQueues(), q(0, 0))
	assertQueues(assert, w1.TxQueues(), q(0, 0), q(1, 0), q(2, 0))
	assert.Equal(1, b.CountLive())

	// the queue is retryable after the fault clears
	b.BuildErr = nil
	require.NoError(a.AssignRxQueue(1, 0, 2))
	assert.Equal(2, a.CountWorkers())
	assert.Equal(2, b.CountLive())
}

func TestAssignPartialBuildFailure(t *testing.T) {
	assert, require := makeAR(t)

	ports := threePorts()
	b := graphtest.NewBuilder()
	a := worker.NewAssigner(ports, fourCPUs(), b, time.Millisecond)
	defer a.Close()

	require.NoError(a.AssignRxQueue(0, 0, 1))
	require.NoError(a.AssignRxQueue(0, 1, 2))
	require.NoError(a.AssignRxQueue(1, 0, 2))
	require.NoError(a.AssignRxQueue(1, 1, 3))
	w2 := a.WorkerByCPU(2)
	assertQueues(assert, w2.RxQueues(), q(0, 1), q(1, 0))

	// moving (0,1) to cpu 3 rebuilds both its old and new owner; the second
	// build fails, so no new graph may go live
	b.FailAt = b.CountBuilds() + 2
	assert.ErrorIs(a.AssignRxQueue(0, 1, 3), worker.ErrAllocation)

	assertQueues(assert, w2.RxQueues(), q(1, 0))
	assertLiveRxExclusive(assert, b)
	assertLiveTxExclusive(assert, b)

	// assigning the orphaned queue elsewhere republishes lagging workers
	require.NoError(a.AssignRxQueue(0, 1, 4))
	w4 := a.WorkerByCPU(4)
	require.NotNil(w4)
	assertQueues(assert, w4.RxQueues(), q(0, 1))
	assert.Equal(1, liveRxOwners(b, q(0, 1)))
	assert.Equal(0, liveRxOwners(b, q(0, 2)))
	assertLiveRxExclusive(assert, b)
	assertLiveTxExclusive(assert, b)
	assertDenseTxSlots(assert, a.Workers(), ports)
}

func TestAssignReloadFailure(t *testing.T) {
	assert, require := makeAR(t)

	b := graphtest.NewBuilder()
	a := worker.NewAssigner(threePorts(), fourCPUs(), b, time.Millisecond)
	defer a.Close()

	// reload errors are reported but bookkeeping is kept
	b.ReloadErr = errNoHeadroom
	assert.ErrorIs(a.AssignRxQueue(0, 0, 1), worker.ErrGraphReload)
	require.Equal(1, a.CountWorkers())
	w := a.WorkerByCPU(1)
	require.NotNil(w)
	assertQueues(assert, w.RxQueues(), q(0, 0))
	assert.Equal(1, b.CountLive())
}
