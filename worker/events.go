package worker

import (
	"io"

	"github.com/routegraph/routegraph/core/events"
	"github.com/routegraph/routegraph/ethport"
)

var emitter = events.NewEmitter()

const (
	evtWorkerCreated   = "worker-created"
	evtWorkerDestroyed = "worker-destroyed"
	evtRxQueueAssigned = "rxq-assigned"
)

// OnWorkerCreated registers a callback for worker creation.
// Returns an io.Closer that cancels the callback registration.
func OnWorkerCreated(cb func(w *Worker)) io.Closer {
	return emitter.On(evtWorkerCreated, cb)
}

// OnWorkerDestroyed registers a callback for worker destruction.
// The callback receives the CPU of the destroyed worker.
// Returns an io.Closer that cancels the callback registration.
func OnWorkerDestroyed(cb func(cpu int)) io.Closer {
	return emitter.On(evtWorkerDestroyed, cb)
}

// OnRxQueueAssigned registers a callback for rx-queue assignment.
// Returns an io.Closer that cancels the callback registration.
func OnRxQueueAssigned(cb func(w *Worker, q ethport.Queue)) io.Closer {
	return emitter.On(evtRxQueueAssigned, cb)
}
