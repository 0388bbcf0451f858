// Package graph defines the contract between the worker core and the packet-processing graph.
//
// Node implementations live in a separate library; the worker core only
// builds, walks, and frees opaque graph instances.
package graph

import "github.com/routegraph/routegraph/ethport"

// NodeCounters contains per-node statistics of one graph instance.
type NodeCounters struct {
	Node    string `json:"node"`
	Objects uint64 `json:"objects"`
	Calls   uint64 `json:"calls"`
	Cycles  uint64 `json:"cycles"`
}

// Graph is one packet-processing graph instance, owned by one worker.
//
// Walk, Counters, and ResetCounters are invoked only from the owning
// dataplane thread. Close is invoked only from the control thread, after
// the owning worker has moved off this instance.
type Graph interface {
	// Walk processes one round of the graph.
	// Returns whether any node performed work.
	Walk() bool

	// Counters reads per-node counters accumulated since creation or last reset.
	Counters() []NodeCounters

	// ResetCounters zeroes per-node counters.
	ResetCounters()

	// Close frees the graph instance.
	Close() error
}

// Builder creates and validates graph instances.
// All methods are invoked from the control thread only.
type Builder interface {
	// Build creates a graph instance that polls rxqs and owns txqs exclusively.
	Build(rxqs, txqs []ethport.Queue) (Graph, error)

	// ReloadAll revalidates every live graph after a structural change,
	// so that newly required edges are consistent system-wide.
	ReloadAll() error
}
