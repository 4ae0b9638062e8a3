// Package examples builds a handful of reference graphs — a chain, a
// diamond, a condition cycle, a joined subflow, a fan-out stress graph,
// and a cross-domain pipeline — and registers them under names an API
// client or CLI user can submit by name.
package examples

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/stevelan1995/taskgrid/pkg/core/graph"
	"github.com/stevelan1995/taskgrid/pkg/registry"
)

// RegisterAll builds every example graph and registers it with r.
func RegisterAll(r *registry.Registry) {
	r.Register(Chain())
	r.Register(Diamond())
	r.Register(ConditionCycle())
	r.Register(JoinedSubflow())
	r.Register(FanOutStress())
	r.Register(CrossDomainPipeline())
}

// Chain builds A -> B -> C, each appending its id to a shared,
// mutex-guarded slice.
func Chain() *graph.Graph {
	g := graph.NewGraph("chain")

	var mu sync.Mutex
	var order []string
	record := func(id string) func() {
		return func() {
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
		}
	}

	a := g.AddStatic("a", "A", graph.HOST, record("A"))
	b := g.AddStatic("b", "B", graph.HOST, record("B"))
	c := g.AddStatic("c", "C", graph.HOST, record("C"))
	g.Precede(a, b)
	g.Precede(b, c)

	return g
}

// Diamond builds A -> {B, C} -> D. B and C run in either order but both
// finish before D starts.
func Diamond() *graph.Graph {
	g := graph.NewGraph("diamond")

	a := g.AddStatic("a", "A", graph.HOST, func() {})
	b := g.AddStatic("b", "B", graph.HOST, func() {})
	c := g.AddStatic("c", "C", graph.HOST, func() {})
	d := g.AddStatic("d", "D", graph.HOST, func() {})

	g.Precede(a, b)
	g.Precede(a, c)
	g.Precede(b, d)
	g.Precede(c, d)

	return g
}

// ConditionCycle builds A -> cond -> {A, exit}, looping back to A until
// A has run five times in all, then taking the exit branch. The visit
// counter is shared by every run of this graph and of its clones. The
// loop exercises the bypass cache so the cycle never grows the worker's
// local queue or the call stack.
func ConditionCycle() *graph.Graph {
	g := graph.NewGraph("condition-cycle")

	var visits atomic.Int32
	a := g.AddStatic("a", "A", graph.HOST, func() { visits.Add(1) })
	cond := g.AddCondition("cond", "cond", graph.HOST, func() int {
		if visits.Load() < 5 {
			return 0 // successor 0: loop back to A
		}
		return 1 // successor 1: exit
	})
	exit := g.AddStatic("exit", "exit", graph.HOST, func() {})

	g.Precede(a, cond)
	g.Branch(cond, a)
	g.Branch(cond, exit)

	return g
}

// JoinedSubflow builds A -> D -> E, where D is a dynamic node that
// spawns a diamond of four static children {a,b,c,d}. E only starts
// once every spawned child has completed.
func JoinedSubflow() *graph.Graph {
	g := graph.NewGraph("joined-subflow")

	a := g.AddStatic("a", "A", graph.HOST, func() {})
	d := g.AddDynamic("d", "D", graph.HOST, func(sf *graph.Subflow) {
		sa := sf.AddStatic("d.a", "d.a", graph.HOST, func() {})
		sb := sf.AddStatic("d.b", "d.b", graph.HOST, func() {})
		sc := sf.AddStatic("d.c", "d.c", graph.HOST, func() {})
		sd := sf.AddStatic("d.d", "d.d", graph.HOST, func() {})
		sf.Precede(sa, sb)
		sf.Precede(sa, sc)
		sf.Precede(sb, sd)
		sf.Precede(sc, sd)
	})
	e := g.AddStatic("e", "E", graph.HOST, func() {})

	g.Precede(a, d)
	g.Precede(d, e)

	return g
}

const fanOutWidth = 10000

// FanOutStress builds one source fanning out to 10^4 independent static
// nodes of varying (simulated) durations, each adding its cost to a
// shared accumulator. Intended to be driven with RunN to check that
// per-pass overhead amortizes across workers.
func FanOutStress() *graph.Graph {
	g := graph.NewGraph("fan-out-stress")

	var total atomic.Int64
	source := g.AddStatic("source", "source", graph.HOST, func() {})

	for i := 0; i < fanOutWidth; i++ {
		cost := int64(1 + i%10000) // spans roughly 1us..10ms of simulated work units
		id := fmt.Sprintf("w%d", i)
		n := g.AddStatic(id, id, graph.HOST, func() {
			total.Add(cost)
		})
		g.Precede(source, n)
	}

	return g
}

// CrossDomainPipeline builds H1 (HOST) -> G1 (CUDA) -> H2 (HOST),
// exercising cross-domain handoff: HOST workers may go idle while G1
// runs, and the CUDA domain's completion must wake a HOST worker for
// H2.
func CrossDomainPipeline() *graph.Graph {
	g := graph.NewGraph("cross-domain-pipeline")

	h1 := g.AddStatic("h1", "H1", graph.HOST, func() {})
	g1 := g.AddCUDAFlow("g1", "G1", func(stream *graph.CUDAStream) {})
	h2 := g.AddStatic("h2", "H2", graph.HOST, func() {})

	g.Precede(h1, g1)
	g.Precede(g1, h2)

	return g
}
