package graph

import (
	"sync"
)

// GraphPool recycles ResidualGraph instances through sync.Pool.
//
// Solving allocates a residual graph per run; under concurrent load the
// pool keeps those allocations off the garbage collector. The pool is
// safe for concurrent use.
//
//	pool := graph.GetPool()
//	g := pool.AcquireGraph()
//	defer pool.ReleaseGraph(g)
type GraphPool struct {
	graphs sync.Pool
}

// NewGraphPool creates an isolated pool. Most callers should use the
// shared pool from GetPool.
func NewGraphPool() *GraphPool {
	return &GraphPool{
		graphs: sync.Pool{
			New: func() any {
				return NewResidualGraph()
			},
		},
	}
}

var globalPool = NewGraphPool()

// GetPool returns the shared process-wide graph pool.
func GetPool() *GraphPool {
	return globalPool
}

// AcquireGraph takes a cleared graph from the pool.
// Release it with ReleaseGraph when done.
func (p *GraphPool) AcquireGraph() *ResidualGraph {
	return p.graphs.Get().(*ResidualGraph)
}

// ReleaseGraph clears the graph and returns it to the pool.
// The graph must not be used afterwards. Nil is ignored.
func (p *GraphPool) ReleaseGraph(g *ResidualGraph) {
	if g == nil {
		return
	}
	g.Clear()
	p.graphs.Put(g)
}
