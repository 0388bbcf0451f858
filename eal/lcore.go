// Package eal models logical cores and launches pinned dataplane threads.
package eal

import (
	"runtime"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// MaxLCoreID is the maximum logical core ID.
const MaxLCoreID = 1023

// LCore represents a logical core.
// Zero value is invalid lcore.
type LCore struct {
	v int // lcore ID + 1
}

// LCoreFromID converts lcore ID to LCore.
func LCoreFromID(id int) (lc LCore) {
	if id < 0 || id > MaxLCoreID {
		return lc
	}
	lc.v = id + 1
	return lc
}

// ID returns lcore ID.
func (lc LCore) ID() int {
	return lc.v - 1
}

// Valid returns true if this is a valid lcore (not zero value).
func (lc LCore) Valid() bool {
	return lc.v != 0
}

func (lc LCore) String() string {
	if !lc.Valid() {
		return "invalid"
	}
	return strconv.Itoa(lc.ID())
}

// ZapField returns a zap.Field for logging.
func (lc LCore) ZapField(key string) zap.Field {
	if !lc.Valid() {
		return zap.String(key, "invalid")
	}
	return zap.Int(key, lc.ID())
}

// NumaSocket returns the NUMA socket where this lcore is located.
func (lc LCore) NumaSocket() int {
	if !lc.Valid() {
		return -1
	}
	return numaOf[lc.ID()]
}

type lcoreState struct {
	busy atomic.Bool
	done chan int
}

var lcoreStates [MaxLCoreID + 1]lcoreState

// IsBusy returns true if this lcore is running a function.
func (lc LCore) IsBusy() bool {
	return lcoreStates[lc.ID()].busy.Load()
}

// RemoteLaunch asynchronously launches a function on this lcore.
// The function runs on an OS thread pinned to the lcore's CPU.
// Returns whether success.
func (lc LCore) RemoteLaunch(f func() int) bool {
	if !lc.Valid() {
		panic("invalid lcore")
	}
	st := &lcoreStates[lc.ID()]
	if !st.busy.CompareAndSwap(false, true) {
		return false
	}
	st.done = make(chan int, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		var cpuset unix.CPUSet
		cpuset.Set(lc.ID())
		if e := unix.SchedSetaffinity(0, &cpuset); e != nil {
			logger.Warn("SchedSetaffinity error, thread not pinned",
				lc.ZapField("lc"), zap.Error(e))
		}

		st.done <- f()
	}()
	return true
}

// Wait blocks until this lcore finishes running, and returns lcore function's return value.
// If this lcore is not running, returns 0 immediately.
func (lc LCore) Wait() (exitCode int) {
	st := &lcoreStates[lc.ID()]
	if !st.busy.Load() {
		return 0
	}
	exitCode = <-st.done
	st.busy.Store(false)
	return exitCode
}
