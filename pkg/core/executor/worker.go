package executor

import (
	"math/rand"
	"runtime"

	"github.com/stevelan1995/taskgrid/pkg/core/graph"
	"github.com/stevelan1995/taskgrid/pkg/core/queue"
)

// exploreSpins bounds how many random victims a worker tries before
// giving up and parking. Too low wastes real parallelism on transient
// empty queues; too high burns CPU spinning when there truly is no
// work anywhere in the domain.
const exploreSpins = 100

// Worker is one goroutine's slice of the pool: its own domain, its own
// lock-free deque, and a one-slot bypass cache that lets a node hand
// its last-released successor straight to the same worker without a
// queue round trip.
type Worker struct {
	id     int
	domain graph.Domain
	exec   *Executor
	wsq    *queue.TSQ[*graph.Node]
	cache  *graph.Node
	rng    *rand.Rand
}

// ID returns the worker's stable index into Executor.workers.
func (w *Worker) ID() int { return w.id }

// Domain returns the domain this worker exclusively serves.
func (w *Worker) Domain() graph.Domain { return w.domain }

func (w *Worker) loop() {
	defer w.exec.wg.Done()

	id := goid()
	w.exec.workerOf.Store(id, w)
	defer w.exec.workerOf.Delete(id)

	for {
		w.exploit()

		select {
		case <-w.exec.stopping:
			return
		default:
		}

		if n, ok := w.explore(); ok {
			w.cache = n
			continue
		}

		select {
		case <-w.exec.stopping:
			return
		default:
		}

		if !w.park() {
			return
		}
	}
}

// exploit drains the bypass cache and the local deque, running each
// node to completion, until both are empty. Same-parent completions
// popped back-to-back off the local deque are the common case for a
// deep dependency chain, which is exactly what the LIFO Pop order is
// tuned for.
func (w *Worker) exploit() {
	for {
		var n *graph.Node
		if w.cache != nil {
			n = w.cache
			w.cache = nil
		} else if v, ok := w.wsq.Pop(); ok {
			n = v
		} else {
			return
		}
		w.exec.invoke(w, n)
	}
}

// explore looks for work outside this worker's own deque: first the
// domain's global queue (external producers), then a bounded number of
// random-victim steals from peer workers in the same domain. It never
// blocks.
func (w *Worker) explore() (*graph.Node, bool) {
	if n, ok := w.exec.globalQ[w.domain].Pop(); ok {
		return n, true
	}

	peers := w.exec.domainWorkers[w.domain]
	if len(peers) <= 1 {
		return nil, false
	}

	for i := 0; i < exploreSpins; i++ {
		victim := peers[w.rng.Intn(len(peers))]
		if victim == w {
			continue
		}
		if n, ok := victim.wsq.Steal(); ok {
			return n, true
		}
		if n, ok := w.exec.globalQ[w.domain].Pop(); ok {
			return n, true
		}
		if i%8 == 7 {
			runtime.Gosched()
		}
	}
	return nil, false
}

// park registers this worker as waiting, rechecks every source of work
// one last time to close the lost-wakeup window, and blocks until
// Notify wakes it or the executor is shutting down. It returns false
// when the caller should exit its loop.
func (w *Worker) park() bool {
	n := w.exec.notif[w.domain]
	waiter := n.PrepareWait()

	select {
	case <-w.exec.stopping:
		n.CancelWait(waiter)
		return false
	default:
	}

	if found, ok := w.explore(); ok {
		n.CancelWait(waiter)
		w.cache = found
		return true
	}

	n.CommitWait(waiter)

	// Shutdown closes stopping before it broadcasts Notify(true), so a
	// wakeup that arrives via shutdown always observes stopping closed
	// here.
	select {
	case <-w.exec.stopping:
		return false
	default:
		return true
	}
}
