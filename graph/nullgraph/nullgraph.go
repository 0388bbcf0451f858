// Package nullgraph provides a graph builder without packet-processing nodes.
//
// The service uses it until a datapath node library is attached, so that
// worker lifecycle and queue assignment can be exercised on their own.
package nullgraph

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/routegraph/routegraph/ethport"
	"github.com/routegraph/routegraph/graph"
)

// Builder implements graph.Builder.
type Builder struct {
	mu   sync.Mutex
	live map[*nullGraph]struct{}
}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{
		live: map[*nullGraph]struct{}{},
	}
}

// Build implements graph.Builder.
func (b *Builder) Build(rxqs, txqs []ethport.Queue) (graph.Graph, error) {
	g := &nullGraph{
		builder: b,
		rxqs:    append([]ethport.Queue{}, rxqs...),
		txqs:    append([]ethport.Queue{}, txqs...),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.live[g] = struct{}{}
	return g, nil
}

// ReloadAll implements graph.Builder.
func (b *Builder) ReloadAll() error {
	return nil
}

// CountLive returns the number of live graph instances.
func (b *Builder) CountLive() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

type nullGraph struct {
	builder *Builder
	rxqs    []ethport.Queue
	txqs    []ethport.Queue
	walks   atomic.Uint64
	closed  atomic.Bool
}

func (g *nullGraph) Walk() bool {
	g.walks.Add(1)
	return false
}

func (g *nullGraph) Counters() []graph.NodeCounters {
	return []graph.NodeCounters{
		{Node: "null", Calls: g.walks.Load()},
	}
}

func (g *nullGraph) ResetCounters() {
	g.walks.Store(0)
}

func (g *nullGraph) Close() error {
	if !g.closed.CompareAndSwap(false, true) {
		return errors.New("graph already closed")
	}
	g.builder.mu.Lock()
	defer g.builder.mu.Unlock()
	delete(g.builder.live, g)
	return nil
}
