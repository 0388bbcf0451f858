// Package graphtest provides a scripted graph.Builder for worker tests.
package graphtest

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/routegraph/routegraph/ethport"
	"github.com/routegraph/routegraph/graph"
)

// ErrScriptedBuild is returned by Build when FailAt triggers.
var ErrScriptedBuild = errors.New("scripted build failure")

// Builder implements graph.Builder with scriptable failures and full introspection.
type Builder struct {
	mu sync.Mutex

	// BuildErr, when set, is returned by the next Build calls.
	BuildErr error
	// FailAt, when nonzero, causes the n-th Build call (counting from 1,
	// including failed calls) to return ErrScriptedBuild.
	FailAt int
	// ReloadErr, when set, is returned by ReloadAll.
	ReloadErr error

	attempts int
	nBuilds  int
	nReloads int
	live     map[*Graph]struct{}
}

var _ graph.Builder = &Builder{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{
		live: map[*Graph]struct{}{},
	}
}

// Build implements graph.Builder.
func (b *Builder) Build(rxqs, txqs []ethport.Queue) (graph.Graph, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	if b.BuildErr != nil {
		return nil, b.BuildErr
	}
	if b.FailAt != 0 && b.attempts == b.FailAt {
		return nil, ErrScriptedBuild
	}
	b.nBuilds++
	g := &Graph{
		builder: b,
		Rxqs:    append([]ethport.Queue{}, rxqs...),
		Txqs:    append([]ethport.Queue{}, txqs...),
	}
	b.live[g] = struct{}{}
	return g, nil
}

// ReloadAll implements graph.Builder.
func (b *Builder) ReloadAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nReloads++
	return b.ReloadErr
}

// CountBuilds returns how many graphs have been built.
func (b *Builder) CountBuilds() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nBuilds
}

// CountReloads returns how many times ReloadAll was invoked.
func (b *Builder) CountReloads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nReloads
}

// CountLive returns the number of graphs built and not yet closed.
func (b *Builder) CountLive() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Live returns graphs built and not yet closed.
func (b *Builder) Live() (list []*Graph) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for g := range b.live {
		list = append(list, g)
	}
	return list
}

// Graph implements graph.Graph.
type Graph struct {
	builder *Builder

	// Rxqs and Txqs record the Build arguments.
	Rxqs []ethport.Queue
	Txqs []ethport.Queue

	// OnWalk, when set, is invoked by Walk and its result returned.
	OnWalk func() bool

	walks  atomic.Uint64
	closed atomic.Bool
}

// Walk implements graph.Graph.
func (g *Graph) Walk() bool {
	g.walks.Add(1)
	if g.OnWalk != nil {
		return g.OnWalk()
	}
	return false
}

// Counters implements graph.Graph.
func (g *Graph) Counters() []graph.NodeCounters {
	return []graph.NodeCounters{
		{Node: "test", Calls: g.walks.Load(), Objects: 2 * g.walks.Load()},
	}
}

// ResetCounters implements graph.Graph.
func (g *Graph) ResetCounters() {
	g.walks.Store(0)
}

// Walks returns how many times Walk was invoked.
func (g *Graph) Walks() uint64 {
	return g.walks.Load()
}

// IsClosed reports whether Close was invoked.
func (g *Graph) IsClosed() bool {
	return g.closed.Load()
}

// Close implements graph.Graph.
func (g *Graph) Close() error {
	g.closed.Store(true)
	g.builder.mu.Lock()
	defer g.builder.mu.Unlock()
	delete(g.builder.live, g)
	return nil
}
