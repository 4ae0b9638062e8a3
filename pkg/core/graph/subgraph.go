package graph

// Subflow is the handle a DynamicFunc receives to populate the subgraph
// spawned by a KindDynamic node. It embeds a Graph so callers build it
// with the same AddStatic/AddCondition/Precede/Branch vocabulary used
// for top-level graphs.
type Subflow struct {
	Graph

	// detached marks the subflow as fire-and-forget: its parent node
	// completes without waiting for the subflow to join. A detached
	// subflow's nodes still run under the owning Topology and are
	// still counted by it, so WaitForAll still blocks on them; only
	// the parent-child join relationship is skipped.
	detached bool
}

// NewSubflow returns an empty Subflow ready to be populated by a
// DynamicFunc.
func NewSubflow(name string) *Subflow {
	return &Subflow{Graph: *NewGraph(name)}
}

// Detach marks the subflow as detached: the spawning node does not wait
// for it to complete before releasing its own successors.
func (s *Subflow) Detach() { s.detached = true }

// Detached reports whether Detach was called during population.
func (s *Subflow) Detached() bool { return s.detached }
