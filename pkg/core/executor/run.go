package executor

import "github.com/stevelan1995/taskgrid/pkg/core/graph"

// Run submits g for exactly one pass and returns its Topology
// immediately; the caller reads Topology.Done() to block for
// completion. If another topology for the same Graph is already
// scheduling, this one is queued and starts once its predecessor
// finishes (T2: at most one active topology per graph). An optional cb
// is invoked with the pass's error (if any) once that pass finishes,
// before Done() fires — the Go rendering of run(graph)/run(graph, cb).
func (e *Executor) Run(g *graph.Graph, cb ...func(error)) *graph.Topology {
	topo := graph.NewTopology(g)
	setCallback(topo, cb)
	e.submit(topo)
	return topo
}

// RunN submits g for n sequential passes, reseeding automatically
// between them, and returns a single Topology whose Done() fires once
// all n passes (or the first failing pass) have finished. An optional
// cb is invoked exactly once, after the final pass — the Go rendering
// of run_n(graph, N)/run_n(graph, N, cb).
func (e *Executor) RunN(g *graph.Graph, n int, cb ...func(error)) *graph.Topology {
	remaining := n
	topo := graph.NewTopology(g)
	topo.StopPredicate = func() bool {
		done := remaining <= 0
		remaining--
		return done
	}
	setCallback(topo, cb)
	e.submit(topo)
	return topo
}

// RunUntil submits g for repeated passes until pred returns true (or a
// pass fails), reseeding between passes. An optional cb is invoked
// exactly once, after the pass on which pred returns true — the Go
// rendering of run_until(graph, pred)/run_until(graph, pred, cb).
func (e *Executor) RunUntil(g *graph.Graph, pred func() bool, cb ...func(error)) *graph.Topology {
	topo := graph.NewTopology(g)
	topo.StopPredicate = pred
	setCallback(topo, cb)
	e.submit(topo)
	return topo
}

func setCallback(topo *graph.Topology, cb []func(error)) {
	if len(cb) > 0 {
		topo.OnRunDone = cb[0]
	}
}

// WaitForAll blocks until topo has finished every pass it will run.
// It's a thin wrapper over Topology.Done() for callers that don't need
// the error split out separately.
func (e *Executor) WaitForAll(topo *graph.Topology) error {
	return <-topo.Done()
}

func (e *Executor) stateFor(g *graph.Graph) *graphState {
	e.graphsMu.Lock()
	defer e.graphsMu.Unlock()
	st, ok := e.graphs[g]
	if !ok {
		st = &graphState{}
		e.graphs[g] = st
	}
	return st
}

// submit enqueues topo against its graph's FIFO, launching it
// immediately if no topology is currently active for that graph. An
// empty graph or an already-true StopPredicate resolves topo's Done()
// on the spot without ever entering the FIFO or scheduling a node —
// the Go rendering of spec.md §4.7's "empty graph or immediately-true
// predicate: resolve future immediately without scheduling."
func (e *Executor) submit(topo *graph.Topology) {
	if len(topo.Graph.Sources()) == 0 || (topo.StopPredicate != nil && topo.StopPredicate()) {
		topo.Finish()
		return
	}

	e.numTopologies.Add(1)
	st := e.stateFor(topo.Graph)

	st.mu.Lock()
	launchNow := st.active == nil
	if launchNow {
		st.active = topo
	} else {
		st.queue = append(st.queue, topo)
	}
	st.mu.Unlock()

	if launchNow {
		e.launch(topo)
	}
}

// launch resets every node in the topology's graph and schedules its
// sources. Safe to call only when the caller holds (or has just
// released, as the newly-installed active topology) the exclusive
// right to mutate this graph's nodes.
func (e *Executor) launch(topo *graph.Topology) {
	for _, n := range topo.Graph.Nodes() {
		n.Topology = topo
		n.Reset()
	}
	sources := topo.Graph.Sources()
	if len(sources) == 0 {
		// A graph with no sources can never make progress; treat it as
		// immediately complete rather than hanging forever.
		e.finishTopology(topo)
		return
	}
	e.scheduleBatch(nil, sources)
}

// tryFinishPass is called every time a root-level node's completion
// might have driven Outstanding to zero. Only the goroutine whose
// decrement actually produced zero proceeds past the guard, so no
// separate lock is needed here.
func (e *Executor) tryFinishPass(topo *graph.Topology) {
	if topo.Outstanding.Load() != 0 {
		return
	}

	err := topo.Err()

	stop := true
	if err == nil && topo.StopPredicate != nil {
		stop = topo.StopPredicate()
	}

	if !stop {
		e.launch(topo)
		return
	}

	// The completion callback fires exactly once, on the final pass —
	// intermediate reseeds above never reach here.
	if topo.OnRunDone != nil {
		topo.OnRunDone(err)
	}

	e.finishTopology(topo)
}

// finishTopology closes out topo's Done channel and advances its
// graph's FIFO to the next queued topology, if any.
func (e *Executor) finishTopology(topo *graph.Topology) {
	topo.Finish()
	e.numTopologies.Add(-1)

	st := e.stateFor(topo.Graph)
	st.mu.Lock()
	var next *graph.Topology
	if len(st.queue) > 0 {
		next = st.queue[0]
		st.queue = st.queue[1:]
		st.active = next
	} else {
		st.active = nil
	}
	st.mu.Unlock()

	if next != nil {
		e.launch(next)
	}
}
