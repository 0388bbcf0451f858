package ealthread

import "sync/atomic"

// Stopper abstracts how to tell a thread to stop.
type Stopper interface {
	// BeforeWait is invoked before lcore.Wait().
	BeforeWait()

	// AfterWait is invoked after lcore.Wait().
	AfterWait()
}

// StopFlag stops a thread by setting an atomic flag.
// The thread must observe the flag at its safe points and exit its loop.
type StopFlag struct {
	v *atomic.Bool
}

// NewStopFlag constructs a StopFlag around an atomic flag owned by the thread.
func NewStopFlag(v *atomic.Bool) StopFlag {
	return StopFlag{v: v}
}

// BeforeWait requests a stop.
func (stop StopFlag) BeforeWait() {
	stop.v.Store(true)
}

// AfterWait clears the stop request so that the thread can be relaunched.
func (stop StopFlag) AfterWait() {
	stop.v.Store(false)
}
