package worker

import "errors"

// Queue assignment failure kinds.
var (
	// ErrCPUReserved indicates the requested CPU is the control lcore.
	ErrCPUReserved = errors.New("CPU reserved for control plane")

	// ErrCPUInvalid indicates the requested CPU is offline or disallowed.
	ErrCPUInvalid = errors.New("CPU not usable for dataplane")

	// ErrPortNotFound indicates the port does not exist.
	ErrPortNotFound = errors.New("port not found")

	// ErrQueueNotFound indicates the rx-queue does not exist on the port.
	ErrQueueNotFound = errors.New("rx-queue not found")

	// ErrAllocation indicates worker or graph allocation failed.
	// The assignment is aborted before any new graph is published; a queue
	// already removed from its previous owner is left unassigned until the
	// next successful assignment republishes the affected workers.
	ErrAllocation = errors.New("worker or graph allocation failed")

	// ErrGraphReload indicates the post-assignment reload pass failed.
	// Assignment bookkeeping is kept; the caller may retry.
	ErrGraphReload = errors.New("graph reload failed")
)
