package executor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stevelan1995/taskgrid/pkg/core/graph"
)

func waitOrFail(t *testing.T, topo *graph.Topology, d time.Duration) error {
	t.Helper()
	select {
	case err := <-topo.Done():
		return err
	case <-time.After(d):
		t.Fatal("topology did not complete in time")
		return nil
	}
}

func TestRunChain(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var order []int
	var mu sync.Mutex
	record := func(i int) func() {
		return func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}
	}

	g := graph.NewGraph("chain")
	a := g.AddStatic("a", "a", graph.HOST, record(1))
	b := g.AddStatic("b", "b", graph.HOST, record(2))
	c := g.AddStatic("c", "c", graph.HOST, record(3))
	g.Precede(a, b)
	g.Precede(b, c)

	topo := e.Run(g)
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("order = %v; want [1 2 3]", order)
	}
}

func TestRunDiamondJoin(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var aDone, bDone atomic.Bool
	var dRan atomic.Bool

	g := graph.NewGraph("diamond")
	a := g.AddStatic("a", "a", graph.HOST, func() { aDone.Store(true) })
	b := g.AddStatic("b", "b", graph.HOST, func() {
		if !aDone.Load() {
			t.Error("b ran before a")
		}
		bDone.Store(true)
	})
	c := g.AddStatic("c", "c", graph.HOST, func() {
		if !aDone.Load() {
			t.Error("c ran before a")
		}
	})
	d := g.AddStatic("d", "d", graph.HOST, func() {
		if !bDone.Load() {
			t.Error("d ran before b")
		}
		dRan.Store(true)
	})
	g.Precede(a, b)
	g.Precede(a, c)
	g.Precede(b, d)
	g.Precede(c, d)

	topo := e.Run(g)
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !dRan.Load() {
		t.Fatal("d never ran")
	}
}

func TestConditionSkipsUntakenBranch(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var leftRan, rightRan atomic.Bool

	g := graph.NewGraph("branch")
	cond := g.AddCondition("cond", "cond", graph.HOST, func() int { return 1 })
	left := g.AddStatic("left", "left", graph.HOST, func() { leftRan.Store(true) })
	right := g.AddStatic("right", "right", graph.HOST, func() { rightRan.Store(true) })
	g.Branch(cond, left)
	g.Branch(cond, right)

	topo := e.Run(g)
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if leftRan.Load() {
		t.Fatal("untaken branch ran")
	}
	if !rightRan.Load() {
		t.Fatal("taken branch did not run")
	}
}

func TestConditionLoopReentry(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var visits atomic.Int32

	g := graph.NewGraph("loop")
	var cond *graph.Node
	a := g.AddStatic("a", "a", graph.HOST, func() { visits.Add(1) })
	cond = g.AddCondition("cond", "cond", graph.HOST, func() int {
		if visits.Load() < 3 {
			return 0 // loop back to a
		}
		return 1 // exit
	})
	exit := g.AddStatic("exit", "exit", graph.HOST, func() {})
	g.Precede(a, cond)
	g.Branch(cond, a)
	g.Branch(cond, exit)

	topo := e.Run(g)
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if visits.Load() != 3 {
		t.Fatalf("visits = %d; want 3", visits.Load())
	}
}

// TestConditionOutOfRangeIndexEndsLoop exercises the actual
// out-of-range-termination path: a condition returning an index outside
// [0, len(Successors)) has no exit branch at all — it must simply end
// the loop rather than schedule anything (or panic).
func TestConditionOutOfRangeIndexEndsLoop(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var visits atomic.Int32

	g := graph.NewGraph("loop-terminates")
	var cond *graph.Node
	b := g.AddStatic("b", "b", graph.HOST, func() { visits.Add(1) })
	cond = g.AddCondition("cond", "cond", graph.HOST, func() int {
		if visits.Load() < 5 {
			return 0 // loop back to b
		}
		return -1 // out of range: end the loop
	})
	g.Precede(b, cond)
	g.Branch(cond, b)

	topo := e.Run(g)
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if visits.Load() != 5 {
		t.Fatalf("visits = %d; want 5", visits.Load())
	}
}

func TestDynamicSubflowJoinsBeforeSuccessor(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var childRan atomic.Bool
	var successorRan atomic.Bool

	g := graph.NewGraph("dynamic")
	parent := g.AddDynamic("parent", "parent", graph.HOST, func(sf *graph.Subflow) {
		sf.AddStatic("child", "child", graph.HOST, func() {
			time.Sleep(10 * time.Millisecond)
			childRan.Store(true)
		})
	})
	successor := g.AddStatic("successor", "successor", graph.HOST, func() {
		if !childRan.Load() {
			t.Error("successor ran before subflow child")
		}
		successorRan.Store(true)
	})
	g.Precede(parent, successor)

	topo := e.Run(g)
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !successorRan.Load() {
		t.Fatal("successor never ran")
	}
}

func TestDetachedSubflowDoesNotBlockParent(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	release := make(chan struct{})
	successorRan := make(chan struct{})
	var childRan atomic.Bool

	g := graph.NewGraph("detached")
	parent := g.AddDynamic("parent", "parent", graph.HOST, func(sf *graph.Subflow) {
		sf.Detach()
		sf.AddStatic("child", "child", graph.HOST, func() {
			<-release
			childRan.Store(true)
		})
	})
	successor := g.AddStatic("successor", "successor", graph.HOST, func() { close(successorRan) })
	g.Precede(parent, successor)

	// The parent's successor must run while the detached child is still
	// blocked; the topology itself still waits for the child.
	topo := e.Run(g)
	select {
	case <-successorRan:
	case <-time.After(time.Second):
		t.Fatal("detached parent blocked on its child")
	}
	if childRan.Load() {
		t.Fatal("child ran before the parent's successor; race in test setup")
	}
	close(release)
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestRunNRepeatsPass(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var count atomic.Int32
	g := graph.NewGraph("repeat")
	g.AddStatic("a", "a", graph.HOST, func() { count.Add(1) })

	topo := e.RunN(g, 5)
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if count.Load() != 5 {
		t.Fatalf("count = %d; want 5", count.Load())
	}
}

func TestRunUntilStopsOnPredicate(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var count atomic.Int32
	g := graph.NewGraph("until")
	g.AddStatic("a", "a", graph.HOST, func() { count.Add(1) })

	topo := e.RunUntil(g, func() bool { return count.Load() >= 4 })
	if err := waitOrFail(t, topo, time.Second); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if count.Load() != 4 {
		t.Fatalf("count = %d; want 4", count.Load())
	}
}

func TestPanicInNodeSetsTopologyError(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	g := graph.NewGraph("panicky")
	g.AddStatic("a", "a", graph.HOST, func() { panic("boom") })

	topo := e.Run(g)
	if err := waitOrFail(t, topo, time.Second); err == nil {
		t.Fatal("expected a non-nil error from a panicking node")
	}
}

func TestQueuedTopologiesRunSequentially(t *testing.T) {
	e, err := NewExecutor(4)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	g := graph.NewGraph("serialized")
	var running atomic.Int32
	var overlapped atomic.Bool
	g.AddStatic("a", "a", graph.HOST, func() {
		if running.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
	})

	const n = 8
	topos := make([]*graph.Topology, n)
	for i := 0; i < n; i++ {
		topos[i] = e.Run(g)
	}
	for _, topo := range topos {
		if err := waitOrFail(t, topo, 2*time.Second); err != nil {
			t.Fatalf("run failed: %v", err)
		}
	}
	if overlapped.Load() {
		t.Fatal("two topologies for the same graph scheduled concurrently")
	}
}

func TestConcurrentSubmissionsAcrossDifferentGraphsDoNotDeadlock(t *testing.T) {
	e, err := NewExecutor(8)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		g := graph.NewGraph("g")
		var done atomic.Bool
		a := g.AddStatic("a", "a", graph.HOST, func() {})
		b := g.AddStatic("b", "b", graph.HOST, func() { done.Store(true) })
		g.Precede(a, b)

		wg.Add(1)
		go func(g *graph.Graph) {
			defer wg.Done()
			topo := e.Run(g)
			waitOrFail(t, topo, 2*time.Second)
		}(g)
	}
	wg.Wait()
}
