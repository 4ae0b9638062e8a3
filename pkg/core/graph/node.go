package graph

import "sync/atomic"

// State bits track a Node's per-run lifecycle. They are cleared by
// Topology setup and set only by the executor.
const (
	StateSpawned uint32 = 1 << iota // populated a Subflow/Module sink this visit
)

// Node is a single unit of schedulable work inside a Graph. Its
// dependency-count fields are fixed at build time by Graph.Precede /
// Graph.Branch; JoinCounter is the only field mutated on the hot path,
// and it is mutated exclusively through atomic ops so a node never needs
// its own mutex.
type Node struct {
	ID     string
	Name   string
	Domain Domain
	Handle Handle

	Successors []*Node

	// numDependents counts every incoming edge. numStrongDependents
	// counts only incoming edges that are NOT selectable branches of a
	// Condition predecessor (i.e. edges that must always fire). A node
	// reachable as a Condition's target has Branch set and uses
	// numStrongDependents for its effective predecessor count; every
	// other node uses numDependents. See EffectivePredecessors.
	numDependents       int32
	numStrongDependents int32
	branch              bool

	// JoinCounter starts each visit at EffectivePredecessors() and is
	// decremented by every predecessor visit that releases this node.
	// The node becomes runnable when it hits zero.
	JoinCounter atomic.Int32

	state atomic.Uint32

	// Parent is non-nil when this node was spawned as part of a
	// Subflow or Module visit; join accounting climbs to Parent's
	// JoinCounter instead of the Topology's when Parent is set.
	Parent *Node

	// Topology is set by the executor each time a topology of this
	// graph is launched; it is not cleared when the run completes. A
	// Node has at most one active Topology at a time (T2 in the topology
	// lifecycle).
	Topology *Topology

	graph *Graph
}

// EffectivePredecessors is the predecessor count used uniformly for
// source detection, initial join-counter seeding, and post-invoke
// join-counter reset. Nodes reachable only via a taken/not-taken
// Condition edge don't count that edge: it may never fire this visit,
// and for a condition-loop's re-entry node it must not hold the node
// permanently un-runnable across visits.
func (n *Node) EffectivePredecessors() int32 {
	if n.branch {
		return n.numStrongDependents
	}
	return n.numDependents
}

// IsConditionTarget reports whether any predecessor of this node is a
// Condition task, i.e. whether reaching this node is ever contingent on
// a runtime branch decision.
func (n *Node) IsConditionTarget() bool { return n.branch }

// SetState, ClearState, and HasState manage the node's per-run state
// bits (StateSpawned). The executor is the only caller; they live here
// so the bits stay next to the atomic they guard.
func (n *Node) SetState(bit uint32) {
	for {
		old := n.state.Load()
		if n.state.CompareAndSwap(old, old|bit) {
			return
		}
	}
}
func (n *Node) ClearState(bit uint32) {
	for {
		old := n.state.Load()
		if n.state.CompareAndSwap(old, old&^bit) {
			return
		}
	}
}
func (n *Node) HasState(bit uint32) bool { return n.state.Load()&bit != 0 }

// ResetJoinCounter reseeds JoinCounter to EffectivePredecessors, used
// both at topology setup and after every visit of a node that may run
// again (condition-loop targets).
func (n *Node) ResetJoinCounter() {
	n.JoinCounter.Store(n.EffectivePredecessors())
}

// Reset clears everything the executor mutates about a node between
// passes of a topology: its state bits, its Parent link, and its join
// counter. Topology assignment is left to the caller.
func (n *Node) Reset() {
	n.state.Store(0)
	n.Parent = nil
	n.ResetJoinCounter()
}

// JoinSite returns the counter this node's completion decrements into:
// its Parent's JoinCounter if it was spawned by a Subflow/Module, else
// the owning Topology's Outstanding counter.
func (n *Node) JoinSite() *atomic.Int32 {
	if n.Parent != nil {
		return &n.Parent.JoinCounter
	}
	return &n.Topology.Outstanding
}
