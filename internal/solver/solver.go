// Package solver implements the maximum flow engine and flow decomposition.
//
// The engine runs Edmonds-Karp over a residual graph: BFS always finds a
// shortest augmenting path, which bounds the number of iterations by O(V×E)
// and makes the result deterministic for a fixed input graph.
//
// # Thread Safety
//
// Individual solver functions are NOT thread-safe. Each goroutine should work
// with its own copy of the graph. Use ResidualGraph.Clone() or the SolverPool
// for concurrent operations.
//
// # Determinism
//
// All algorithms produce deterministic results when given the same input
// graph. This is achieved by iterating over nodes and edges in sorted order.
//
// # Context Support
//
// The solver supports context cancellation for timeout and graceful shutdown.
// A cancelled run returns the flow accumulated so far, flagged as partial.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"netflow/internal/graph"
	"netflow/pkg/domain"
)

// =============================================================================
// Error Definitions
// =============================================================================

// Standard errors returned by solver operations.
// These errors can be checked using errors.Is() for robust error handling.
var (
	// ErrNilGraph indicates that a nil graph was passed to a solver function.
	ErrNilGraph = errors.New("graph is nil")

	// ErrSourceNotFound indicates that the source node does not exist in the graph.
	ErrSourceNotFound = errors.New("source node not in graph")

	// ErrSinkNotFound indicates that the sink node does not exist in the graph.
	ErrSinkNotFound = errors.New("sink node not in graph")

	// ErrSourceEqualSink indicates that source and sink are the same node.
	ErrSourceEqualSink = errors.New("source equals sink")

	// ErrContextCanceled indicates that the operation was cancelled via context.
	ErrContextCanceled = errors.New("context canceled")

	// ErrIterationLimit indicates that the augmenting loop hit the
	// configured iteration cap before exhausting all augmenting paths.
	ErrIterationLimit = errors.New("iteration limit reached")
)

// =============================================================================
// Solver Options
// =============================================================================

// Options configures the behavior of the flow engine.
//
// Zero values are safe to use - DefaultOptions() will be applied.
// Options can be chained using the builder pattern:
//
//	opts := DefaultOptions().
//	    WithTimeout(10 * time.Second).
//	    WithPool(customPool)
type Options struct {
	// MaxIterations limits the number of augmenting path iterations.
	// Zero or negative means unlimited.
	// Default: 0 (unlimited)
	MaxIterations int

	// Timeout sets the maximum duration for the algorithm.
	// Zero means no timeout (relies on context).
	// Default: 30 seconds
	Timeout time.Duration

	// ReturnPaths indicates whether to collect and return individual
	// augmenting paths. Enabling this increases memory usage proportional
	// to the number of paths.
	// Default: false
	ReturnPaths bool

	// Pool is the graph pool for memory reuse.
	// If nil, the global pool is used.
	Pool *graph.GraphPool
}

// DefaultOptions returns options with sensible defaults for most use cases.
//
// Default values:
//   - MaxIterations: unlimited
//   - Timeout: 30 seconds
//   - ReturnPaths: false
func DefaultOptions() *Options {
	return &Options{
		MaxIterations: 0,
		Timeout:       30 * time.Second,
		ReturnPaths:   false,
		Pool:          graph.GetPool(),
	}
}

// WithPool sets the graph pool and returns the options for chaining.
func (o *Options) WithPool(pool *graph.GraphPool) *Options {
	o.Pool = pool
	return o
}

// WithTimeout sets the timeout and returns the options for chaining.
func (o *Options) WithTimeout(timeout time.Duration) *Options {
	o.Timeout = timeout
	return o
}

// WithReturnPaths enables path collection and returns the options for chaining.
func (o *Options) WithReturnPaths(returnPaths bool) *Options {
	o.ReturnPaths = returnPaths
	return o
}

// WithMaxIterations sets the iteration limit and returns the options for chaining.
func (o *Options) WithMaxIterations(max int) *Options {
	o.MaxIterations = max
	return o
}

// =============================================================================
// Solver Result
// =============================================================================

// FlowStatus indicates the outcome of a flow computation.
type FlowStatus int

const (
	StatusUnspecified FlowStatus = iota

	// StatusOptimal means the augmenting loop terminated because no
	// augmenting path remained: the flow is a maximum flow.
	StatusOptimal

	// StatusPartial means the run was interrupted (context cancellation
	// or iteration limit). The flow is feasible but not proven maximal.
	StatusPartial

	// StatusError means validation failed and no flow was computed.
	StatusError
)

// String возвращает строковое представление статуса
func (s FlowStatus) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusPartial:
		return "partial"
	case StatusError:
		return "error"
	default:
		return "unspecified"
	}
}

// Result contains the complete result of a flow computation.
//
// Check Status and Error first to determine if the result is valid:
//
//	result := MaxFlow(ctx, g, source, sink, opts)
//	if result.Status == StatusError {
//	    return result.Error
//	}
type Result struct {
	// MaxFlow is the flow value found.
	MaxFlow int64

	// Flow is the antisymmetric flow map: Flow[(u,v)] = -Flow[(v,u)].
	// Positive entries correspond to actual flow directions.
	Flow domain.FlowMap

	// Iterations is the number of augmenting path iterations performed.
	Iterations int

	// Paths contains individual augmenting paths if ReturnPaths was enabled.
	Paths []domain.Path

	// Status indicates the outcome of the computation.
	Status FlowStatus

	// Partial is true when the run was interrupted before the maximum
	// was proven (context cancellation or iteration limit). A partial
	// flow is feasible but must not be treated as a maximum flow.
	Partial bool

	// Error contains any error that occurred during computation.
	// nil if Status is StatusOptimal.
	Error error

	// Duration is the wall-clock time taken by the algorithm.
	Duration time.Duration
}

// =============================================================================
// Validation
// =============================================================================

// validateGraph performs basic validation of the graph and source/sink nodes.
//
// Returns nil if the graph is valid, or a descriptive error otherwise.
// The error wraps one of the standard errors (ErrNilGraph, ErrSourceNotFound,
// etc.) for easy checking with errors.Is(). Validation never mutates the graph.
func validateGraph(g *graph.ResidualGraph, source, sink int64) error {
	if g == nil {
		return ErrNilGraph
	}
	if !g.Nodes[source] {
		return fmt.Errorf("%w: %d", ErrSourceNotFound, source)
	}
	if !g.Nodes[sink] {
		return fmt.Errorf("%w: %d", ErrSinkNotFound, sink)
	}
	if source == sink {
		return ErrSourceEqualSink
	}
	return nil
}

// =============================================================================
// Main Solver Entry Point
// =============================================================================

// MaxFlow is the primary entry point for maximum flow computation.
//
// It validates input, manages the timeout context, runs Edmonds-Karp and
// extracts the flow map snapshot from the residual graph.
//
// # Parameters
//
//   - ctx: Context for cancellation and timeout. Must not be nil.
//   - g: The residual graph. Will be modified by the algorithm.
//   - source: The source node ID. Must exist in the graph.
//   - sink: The sink node ID. Must exist in the graph and differ from source.
//   - options: Solver options. nil uses DefaultOptions().
//
// # Thread Safety
//
// This function is NOT thread-safe. The graph g will be modified.
// For concurrent use, clone the graph first or use SolverPool.
//
// # Unreachable Sink
//
// A sink that cannot be reached from the source is not an error: the
// result is a zero flow with an empty flow map and StatusOptimal.
func MaxFlow(ctx context.Context, g *graph.ResidualGraph, source, sink int64, options *Options) *Result {
	start := time.Now()

	if options == nil {
		options = DefaultOptions()
	}

	// Validate input; nothing is mutated on rejection
	if err := validateGraph(g, source, sink); err != nil {
		return &Result{
			Status:   StatusError,
			Error:    err,
			Duration: time.Since(start),
		}
	}

	// Create context with timeout if specified
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	ek := EdmondsKarpWithContext(ctx, g, source, sink, options)

	result := &Result{
		MaxFlow:    ek.MaxFlow,
		Flow:       g.FlowSnapshot(),
		Iterations: ek.Iterations,
		Paths:      ek.Paths,
		Duration:   time.Since(start),
	}

	switch {
	case ek.Canceled:
		result.Status = StatusPartial
		result.Partial = true
		result.Error = ErrContextCanceled
	case ek.Limited:
		result.Status = StatusPartial
		result.Partial = true
		result.Error = ErrIterationLimit
	default:
		result.Status = StatusOptimal
	}

	return result
}

// SolveGraph runs the flow engine on a domain graph.
//
// The graph is converted into a pooled residual graph which is released
// before returning; the caller keeps only the result. The source and sink
// are taken from the graph itself.
func SolveGraph(ctx context.Context, g *domain.Graph, options *Options) *Result {
	start := time.Now()

	if g == nil {
		return &Result{
			Status:   StatusError,
			Error:    ErrNilGraph,
			Duration: time.Since(start),
		}
	}

	if options == nil {
		options = DefaultOptions()
	}

	pool := options.Pool
	if pool == nil {
		pool = graph.GetPool()
	}

	rg := graph.FromDomainPooled(g, pool)
	defer pool.ReleaseGraph(rg)

	return MaxFlow(ctx, rg, g.SourceID, g.SinkID, options)
}

// =============================================================================
// Minimum Cut
// =============================================================================

// MinCut extracts a minimum s-t cut from a residual graph after a
// completed max-flow run.
//
// The source side of the cut is the set of nodes reachable from the
// source through positive-residual edges; every forward edge leaving
// that set is saturated. By max-flow min-cut duality the returned
// capacity equals the maximum flow value.
func MinCut(g *graph.ResidualGraph, source int64) (int64, []domain.EdgeKey) {
	reachable := graph.BFSReachable(g, source)

	var capacity int64
	var cut []domain.EdgeKey

	for _, from := range g.GetSortedNodes() {
		if !reachable[from] {
			continue
		}
		for _, edge := range g.GetNeighborsList(from) {
			if edge.IsReverse || reachable[edge.To] {
				continue
			}
			capacity += edge.OriginalCapacity
			cut = append(cut, domain.EdgeKey{From: from, To: edge.To})
		}
	}

	return capacity, cut
}

// =============================================================================
// Solver Pool
// =============================================================================

// SolverPool manages concurrent solver executions with resource pooling.
//
// It provides:
//   - Concurrency limiting to prevent resource exhaustion
//   - Graph pooling for memory reuse
//   - Automatic graph cloning for thread safety
type SolverPool struct {
	graphPool *graph.GraphPool
	workers   chan struct{} // Semaphore for concurrency limiting
}

// NewSolverPool creates a new solver pool with the specified maximum concurrency.
//
// maxConcurrency limits the number of simultaneous solver executions.
// If maxConcurrency <= 0, it defaults to 10.
//
// The pool uses the global graph pool for memory reuse.
func NewSolverPool(maxConcurrency int) *SolverPool {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &SolverPool{
		graphPool: graph.GetPool(),
		workers:   make(chan struct{}, maxConcurrency),
	}
}

// Acquire obtains a worker slot from the pool.
//
// Blocks until a slot is available or the context is cancelled.
// Returns nil on success, or ctx.Err() if the context was cancelled.
//
// Call Release() when the work is complete.
func (sp *SolverPool) Acquire(ctx context.Context) error {
	select {
	case sp.workers <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a worker slot to the pool.
//
// Must be called exactly once after each successful Acquire().
func (sp *SolverPool) Release() {
	<-sp.workers
}

// SolvePooled solves a flow problem using pooled resources.
//
// This method is thread-safe and will:
//  1. Acquire a worker slot (blocking if at capacity)
//  2. Clone the graph from the pool
//  3. Run the algorithm on the cloned graph
//  4. Release resources back to the pool
//
// The original graph g is NOT modified.
func (sp *SolverPool) SolvePooled(ctx context.Context, g *graph.ResidualGraph, source, sink int64, options *Options) *Result {
	if err := sp.Acquire(ctx); err != nil {
		return &Result{
			Status: StatusError,
			Error:  err,
		}
	}
	defer sp.Release()

	// Clone graph from pool for thread safety
	cloned := g.CloneToPooled(sp.graphPool)
	defer sp.graphPool.ReleaseGraph(cloned)

	if options == nil {
		options = DefaultOptions()
	}
	options.Pool = sp.graphPool

	return MaxFlow(ctx, cloned, source, sink, options)
}

// BatchSolve solves multiple flow problems in parallel.
//
// Tasks are executed concurrently up to the pool's concurrency limit.
// Results are returned in the same order as the input tasks.
//
// The method blocks until all tasks are complete or the context is cancelled.
func (sp *SolverPool) BatchSolve(ctx context.Context, tasks []BatchTask) []BatchResult {
	results := make([]BatchResult, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, t BatchTask) {
			defer wg.Done()
			result := sp.SolvePooled(ctx, t.Graph, t.Source, t.Sink, t.Options)
			results[idx] = BatchResult{
				TaskID: t.TaskID,
				Result: result,
			}
		}(i, task)
	}

	wg.Wait()
	return results
}

// BatchTask represents a single task for batch processing.
type BatchTask struct {
	// TaskID is a user-defined identifier for correlating results.
	TaskID string

	// Graph is the input graph. Will be cloned internally.
	Graph *graph.ResidualGraph

	// Source is the source node ID.
	Source int64

	// Sink is the sink node ID.
	Sink int64

	// Options for the solver. nil uses defaults.
	Options *Options
}

// BatchResult contains the result of a batch task.
type BatchResult struct {
	// TaskID matches the input BatchTask.TaskID.
	TaskID string

	// Result is the solver result for this task.
	Result *Result
}
