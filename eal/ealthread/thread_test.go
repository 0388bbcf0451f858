package ealthread_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/routegraph/routegraph/core/testenv"
	"github.com/routegraph/routegraph/eal"
	"github.com/routegraph/routegraph/eal/ealthread"
)

var makeAR = testenv.MakeAR

func TestThread(t *testing.T) {
	assert, require := makeAR(t)

	var stop atomic.Bool
	var spins atomic.Int64
	th := ealthread.New(
		func() int {
			for !stop.Load() {
				spins.Add(1)
				time.Sleep(10 * time.Microsecond)
			}
			return 0
		},
		ealthread.NewStopFlag(&stop),
	)

	assert.False(th.IsRunning())
	th.SetLCore(eal.LCoreFromID(1))
	assert.Equal(1, th.LCore().ID())

	th.Launch()
	assert.True(th.IsRunning())
	assert.Panics(func() { th.SetLCore(eal.LCoreFromID(2)) })

	time.Sleep(5 * time.Millisecond)
	assert.Greater(spins.Load(), int64(0))

	require.NoError(th.Stop())
	assert.False(th.IsRunning())
	assert.False(stop.Load(), "stop flag should be cleared for relaunch")

	th.Launch()
	assert.True(th.IsRunning())
	require.NoError(th.Stop())
}
