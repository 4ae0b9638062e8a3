package graph

import "sync/atomic"

// Topology is the per-run metadata for one submission of a Graph. A
// Graph may be submitted many times (RunN, RunUntil); each submission
// gets its own Topology, but the executor guarantees at most one
// Topology per Graph is actively scheduling its nodes at any instant —
// concurrent submissions of the same graph queue up FIFO. This follows
// directly from Node state (JoinCounter, Parent, Topology) living on
// the shared Graph's nodes rather than being copied per run: two
// topologies scheduling the same graph concurrently would stomp each
// other's counters.
type Topology struct {
	Graph *Graph

	// Outstanding counts root-level nodes (Parent == nil) spawned into
	// this pass that have not yet fully completed, where "fully
	// completed" for a node with spawned children means all of those
	// children have themselves fully completed. The pass is done when
	// this reaches zero.
	Outstanding atomic.Int32

	// StopPredicate, when non-nil, is evaluated after each completed
	// pass over Graph; a false result causes the topology to reseed
	// and run again (RunUntil semantics). A nil predicate means "run
	// exactly once" (Run); RunN installs a predicate that counts down
	// its repeat count.
	StopPredicate func() bool

	// OnRunDone is invoked exactly once, after the pass on which the
	// stop predicate returns true (or the pass that failed) — never on
	// an intermediate reseed. It receives the error (if any) raised
	// during the run.
	OnRunDone func(err error)

	canceled atomic.Bool

	// done carries the final error (or nil) once the whole topology —
	// including every reseed RunUntil triggers — has finished.
	done chan error

	// err latches the first error raised by any node in any pass; once
	// set it is never overwritten, matching "first failure wins".
	err atomic.Pointer[error]
}

// NewTopology creates topology metadata for g. The caller must not
// reuse a Topology across submissions; call NewTopology per Run/RunN
// iteration count/RunUntil predicate.
func NewTopology(g *Graph) *Topology {
	return &Topology{Graph: g, done: make(chan error, 1)}
}

// Done returns a channel that receives exactly once, when every pass
// this topology will run has finished.
func (t *Topology) Done() <-chan error { return t.done }

// Err returns the first error raised while running this topology, or
// nil if none has been raised (yet).
func (t *Topology) Err() error {
	if p := t.err.Load(); p != nil {
		return *p
	}
	return nil
}

// SetErr latches err as the topology's first failure if none is set
// yet, and marks the topology canceled so no further work is started.
// Safe for concurrent callers.
func (t *Topology) SetErr(err error) {
	if err == nil {
		return
	}
	e := err
	t.err.CompareAndSwap(nil, &e)
	t.canceled.Store(true)
}

// Cancel marks the topology so no node scheduled after the call runs
// its body; nodes already in flight still complete normally so the
// join accounting stays balanced and Done still fires.
func (t *Topology) Cancel() { t.canceled.Store(true) }

// Canceled reports whether Cancel or SetErr has been called.
func (t *Topology) Canceled() bool { return t.canceled.Load() }

// Finish closes Done with the topology's latched error. Called by the
// executor exactly once, when Outstanding has reached zero and no
// reseed will follow.
func (t *Topology) Finish() {
	t.done <- t.Err()
	close(t.done)
}
