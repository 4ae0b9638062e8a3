package executor

import (
	"fmt"
	"runtime/debug"

	"github.com/stevelan1995/taskgrid/pkg/core/graph"
	"github.com/stevelan1995/taskgrid/pkg/observer"
)

// dispatch hands n to a queue. w is the worker context making the call,
// or nil for an external (non-worker) caller. When w's domain matches
// n's, n is placed in w's one-slot bypass cache and whatever was
// already there is pushed onto w's local deque instead — the tightest
// possible handoff for a chain of same-domain, same-worker successors.
// Otherwise n goes to the target domain's global queue and one waiting
// worker in that domain is woken.
func (e *Executor) dispatch(w *Worker, n *graph.Node) {
	if w != nil && w.domain == n.Domain {
		prev := w.cache
		w.cache = n
		if prev != nil {
			w.wsq.Push(prev)
			e.notif[w.domain].Notify(false)
		}
		return
	}

	if int(n.Domain) >= len(e.globalQ) {
		panic(fmt.Sprintf("executor: node %s targets unknown domain %v", n.ID, n.Domain))
	}
	if len(e.domainWorkers[n.Domain]) == 0 {
		panic(ErrNoWorkers{Domain: n.Domain}.Error())
	}
	e.globalQ[n.Domain].Push(n)
	e.notif[n.Domain].Notify(false)
}

// scheduleNode accounts n into its topology's Outstanding counter (if
// it is a root-level node) before handing it off, or — if the
// topology has been canceled — immediately completes it without ever
// running its body, so the join-accounting invariant stays balanced
// and Outstanding still reaches zero.
func (e *Executor) scheduleNode(w *Worker, n *graph.Node) {
	if n.Parent == nil {
		n.Topology.Outstanding.Add(1)
	}
	if n.Topology.Canceled() {
		e.completeNode(w, n)
		return
	}
	e.dispatch(w, n)
}

func (e *Executor) scheduleBatch(w *Worker, nodes []*graph.Node) {
	for _, n := range nodes {
		e.scheduleNode(w, n)
	}
}

// releaseSuccessors performs the normal-path successor release for n:
// reset n's own join counter (restoring it for any future re-run, e.g.
// a condition loop feeding back into a node that also has an ordinary
// strong predecessor) and clear its SPAWNED bit, then decrement the
// join counter of every strong successor and schedule the ones that
// reach zero. n's successors are exclusively strong dependents unless n
// is a Condition node, whose successors are exclusively branch targets
// scheduled directly by invoke instead — the two edge kinds never mix
// on the same node.
func (e *Executor) releaseSuccessors(w *Worker, n *graph.Node) {
	n.ResetJoinCounter()
	n.ClearState(graph.StateSpawned)
	for _, s := range n.Successors {
		if s.JoinCounter.Add(-1) == 0 {
			e.scheduleNode(w, s)
		}
	}
}

// completeNode records that n (and, if it spawned any children, all of
// them) has fully finished, propagating the completion up through
// Parent links and, once a root-level node's completion reaches the
// topology, checking whether the whole pass just went quiet.
//
// n.Parent is only ever set on a joined (non-detached) Dynamic/Module
// child, so reaching the n.Parent != nil branch means every child of
// n.Parent has now completed — exactly the point at which n.Parent's
// own successors must be released. A detached subflow's children never
// carry a Parent link (their completion goes straight to the
// topology), which is why detached nodes release their successors
// immediately in invoke instead of here.
func (e *Executor) completeNode(w *Worker, n *graph.Node) {
	if n.JoinSite().Add(-1) != 0 {
		return
	}
	if n.Parent != nil {
		e.releaseSuccessors(w, n.Parent)
		e.completeNode(w, n.Parent)
		return
	}
	e.tryFinishPass(n.Topology)
}

// invoke runs one node's body to completion, dispatching on its Kind,
// then releases whatever the visit unblocks: a chosen branch for
// Condition nodes, strong successors for everything else, and any
// subgraph a Dynamic or Module node spawned.
func (e *Executor) invoke(w *Worker, n *graph.Node) {
	topo := n.Topology
	if topo.Canceled() {
		e.completeNode(w, n)
		return
	}

	view := observer.TaskView{
		GraphName: topo.Graph.Name,
		NodeID:    n.ID, NodeName: n.Name, Domain: n.Domain,
		Kind: n.Handle.Kind, WorkerID: w.id,
	}
	e.notifyEntry(view)

	var children []*graph.Node
	var chosen *graph.Node
	var detached bool

	func() {
		defer func() {
			if r := recover(); r != nil {
				topo.SetErr(fmt.Errorf("node %s panicked: %v\n%s", n.ID, r, debug.Stack()))
			}
		}()

		switch n.Handle.Kind {
		case graph.KindStatic:
			n.Handle.Static()

		case graph.KindCondition:
			n.ResetJoinCounter()
			idx := n.Handle.Condition()
			// An out-of-range idx (spec.md §8 S3: e.g. -1) ends the loop:
			// chosen stays nil and no successor is scheduled below.
			if idx >= 0 && idx < len(n.Successors) {
				chosen = n.Successors[idx]
			}

		case graph.KindDynamic:
			sf := graph.NewSubflow(n.ID + ".subflow")
			n.Handle.Dynamic(sf)
			children = sf.Nodes()
			detached = sf.Detached()
			for _, c := range children {
				c.Topology = topo
				if !detached {
					c.Parent = n
				}
				c.ResetJoinCounter()
			}

		case graph.KindModule:
			children = e.instantiateModule(n, topo)

		case graph.KindCUDAFlow:
			n.Handle.CUDAFlow(&graph.CUDAStream{Domain: n.Domain})

		default:
			panic(fmt.Sprintf("node %s has unrecognized kind %v", n.ID, n.Handle.Kind))
		}
	}()

	e.notifyExit(view)

	// Condition nodes release nothing here — the chosen branch was
	// already resolved above and is scheduled directly, never through
	// the join-counter decrement path. The chosen branch is scheduled
	// before the condition node's own completion is counted, so the
	// join site cannot reach zero in between.
	if n.Handle.Kind == graph.KindCondition {
		if chosen != nil {
			e.scheduleNode(w, chosen)
		}
		e.completeNode(w, n)
		return
	}

	if len(children) > 0 && detached {
		// Detached: fall through to successor release immediately, per
		// the spec's dynamic-subflow dispatch rule — the parent doesn't
		// wait for a detached subflow, so its own successors are never
		// gated on it. Children still run as their own root-level work
		// under the topology.
		e.releaseSuccessors(w, n)
		n.SetState(graph.StateSpawned)
		e.scheduleBatch(w, sourcesAmong(children))
		e.completeNode(w, n)
		return
	}

	if len(children) > 0 {
		// Joined: do NOT release n's successors on this visit. The
		// subflow/module must drain first — completeNode releases them
		// once the last child's completion climbs back to n via
		// n.Parent (see completeNode).
		n.SetState(graph.StateSpawned)
		sources := sourcesAmong(children)
		if len(sources) == 0 {
			// Empty or fully-self-satisfying subgraph: nothing will ever
			// climb back to release n's successors, so release them now
			// and treat n as already joined.
			e.releaseSuccessors(w, n)
			e.completeNode(w, n)
			return
		}
		n.JoinCounter.Store(int32(len(children)))
		e.scheduleBatch(w, sources)
		return
	}

	// Static / CUDAFlow: no children were spawned, so this is the only
	// visit — release successors now.
	e.releaseSuccessors(w, n)
	e.completeNode(w, n)
}

// sourcesAmong returns the nodes in ns with zero effective
// predecessors, restricted to ns itself — used for a freshly spawned
// subflow or module instance rather than a whole Graph.
func sourcesAmong(ns []*graph.Node) []*graph.Node {
	var out []*graph.Node
	for _, n := range ns {
		if n.EffectivePredecessors() == 0 {
			out = append(out, n)
		}
	}
	return out
}

// instantiateModule clones the module's template graph so this visit
// gets its own Node instances — the template may be inlined at more
// than one call site, or the same call site across reseeds, and two
// instantiations must never share a JoinCounter.
func (e *Executor) instantiateModule(n *graph.Node, topo *graph.Topology) []*graph.Node {
	clone := n.Handle.Module.Clone()
	nodes := clone.Nodes()
	for _, c := range nodes {
		c.Topology = topo
		c.Parent = n
		c.ResetJoinCounter()
	}
	return nodes
}
