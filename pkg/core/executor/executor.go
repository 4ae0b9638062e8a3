// Package executor implements a work-stealing, domain-partitioned
// scheduler for graph.Graph task graphs: a fixed pool of worker
// goroutines per graph.Domain, each with its own lock-free deque, that
// cooperatively drain a topology's ready nodes to completion and
// release each node's successors as its join counter reaches zero.
package executor

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stevelan1995/taskgrid/pkg/core/graph"
	"github.com/stevelan1995/taskgrid/pkg/core/notifier"
	"github.com/stevelan1995/taskgrid/pkg/core/queue"
	"github.com/stevelan1995/taskgrid/pkg/observer"
)

// ErrNoWorkers names a domain with zero configured workers. NewExecutor
// returns it when no worker is configured in any domain; scheduling a
// node into a domain with no workers panics with its message.
type ErrNoWorkers struct{ Domain graph.Domain }

func (e ErrNoWorkers) Error() string {
	return fmt.Sprintf("executor: domain %s has no workers configured", e.Domain)
}

// graphState tracks the FIFO of topologies queued against one Graph and
// the one currently allowed to schedule (T2: at most one active
// topology per graph, since Node state is mutated in place).
type graphState struct {
	mu     sync.Mutex
	active *graph.Topology
	queue  []*graph.Topology
}

// Executor owns a worker pool and dispatches graph.Topology runs across
// it. The zero value is not usable; construct with NewExecutor.
type Executor struct {
	workers       []*Worker
	domainWorkers [][]*Worker
	globalQ       []*queue.Global[*graph.Node]
	notif         []*notifier.Notifier

	stopping chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	graphsMu sync.Mutex
	graphs   map[*graph.Graph]*graphState

	numTopologies atomic.Int32

	obsMu    sync.RWMutex
	observer observer.Observer

	workerOf sync.Map // int64 goroutine id -> *Worker
}

// Option configures an Executor at construction time.
type Option func(*config)

type config struct {
	workersPerDomain [2]int // indexed by graph.Domain; only HOST and CUDA exist today
}

// WithHostWorkers sets the number of HOST-domain workers.
func WithHostWorkers(n int) Option {
	return func(c *config) { c.workersPerDomain[graph.HOST] = n }
}

// WithCUDAWorkers sets the number of CUDA-domain workers. The default
// is zero: an executor with no CUDA workers can still be constructed,
// but scheduling a CUDA-domain node against it panics.
func WithCUDAWorkers(n int) Option {
	return func(c *config) { c.workersPerDomain[graph.CUDA] = n }
}

// NewExecutor builds and starts a worker pool. hostWorkers is the
// number of HOST-domain workers; it must be positive. Additional
// domains (CUDA) are configured via options and default to zero
// workers.
func NewExecutor(hostWorkers int, opts ...Option) (*Executor, error) {
	if hostWorkers <= 0 {
		return nil, fmt.Errorf("executor: hostWorkers must be positive, got %d", hostWorkers)
	}
	cfg := config{}
	cfg.workersPerDomain[graph.HOST] = hostWorkers
	for _, o := range opts {
		o(&cfg)
	}

	n := graph.NumDomains()
	e := &Executor{
		domainWorkers: make([][]*Worker, n),
		globalQ:       make([]*queue.Global[*graph.Node], n),
		notif:         make([]*notifier.Notifier, n),
		stopping:      make(chan struct{}),
		graphs:        make(map[*graph.Graph]*graphState),
	}

	id := 0
	for d := 0; d < n; d++ {
		e.globalQ[d] = queue.NewGlobal[*graph.Node]()
		e.notif[d] = notifier.New()
		count := cfg.workersPerDomain[d]
		for i := 0; i < count; i++ {
			w := &Worker{
				id:     id,
				domain: graph.Domain(d),
				exec:   e,
				wsq:    queue.New[*graph.Node](),
				rng:    rand.New(rand.NewSource(time.Now().UnixNano() + int64(id))),
			}
			e.workers = append(e.workers, w)
			e.domainWorkers[d] = append(e.domainWorkers[d], w)
			id++
		}
	}

	if len(e.workers) == 0 {
		return nil, ErrNoWorkers{Domain: graph.HOST}
	}

	for _, w := range e.workers {
		e.wg.Add(1)
		go w.loop()
	}

	return e, nil
}

// NumWorkers returns the total number of worker goroutines across every
// domain.
func (e *Executor) NumWorkers() int { return len(e.workers) }

// NumDomainWorkers returns the number of workers configured for d.
func (e *Executor) NumDomainWorkers(d graph.Domain) int {
	if int(d) < 0 || int(d) >= len(e.domainWorkers) {
		return 0
	}
	return len(e.domainWorkers[d])
}

// NumDomains returns the number of domains the executor understands.
func (e *Executor) NumDomains() int { return graph.NumDomains() }

// NumTopologies returns the number of topologies currently active or
// queued across every graph this executor has ever run.
func (e *Executor) NumTopologies() int { return int(e.numTopologies.Load()) }

// ThisWorkerID returns the id of the worker executing the calling
// goroutine, and true, when called from inside a task body. It returns
// (-1, false) from any other goroutine, including the goroutine that
// called Run/RunN/RunUntil.
func (e *Executor) ThisWorkerID() (int, bool) {
	v, ok := e.workerOf.Load(goid())
	if !ok {
		return -1, false
	}
	return v.(*Worker).id, true
}

// MakeObserver installs o as the executor's sole observer, replacing
// whatever was previously installed; SetUp is called immediately with
// the current worker count. At most one observer is ever active — call
// RemoveObserver first if you need to fall back to none. Installing and
// removing is safe to do while topologies are running: an OnEntry/OnExit
// call already in flight when this runs may or may not still reach the
// old observer, but the call itself never races the observer's own
// bookkeeping.
func (e *Executor) MakeObserver(o observer.Observer) {
	o.SetUp(len(e.workers))
	e.obsMu.Lock()
	e.observer = o
	e.obsMu.Unlock()
}

// RemoveObserver uninstalls the current observer, if any.
func (e *Executor) RemoveObserver() {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	e.observer = nil
}

func (e *Executor) notifyEntry(view observer.TaskView) {
	e.obsMu.RLock()
	o := e.observer
	e.obsMu.RUnlock()
	if o != nil {
		o.OnEntry(view)
	}
}

func (e *Executor) notifyExit(view observer.TaskView) {
	e.obsMu.RLock()
	o := e.observer
	e.obsMu.RUnlock()
	if o != nil {
		o.OnExit(view)
	}
}

// Shutdown signals every worker goroutine to stop and blocks until all
// of them have exited. It does not wait for submitted topologies to
// finish: a worker completes the node it is running and drains its own
// bypass cache and local deque, then exits; nodes left in a global
// queue or in another worker's deque at that point may never run, and
// their topologies then never complete. Run/RunN/RunUntil after Shutdown do not
// panic, but the topologies they return never complete.
func (e *Executor) Shutdown() {
	e.stopOnce.Do(func() {
		close(e.stopping)
		for _, n := range e.notif {
			n.Notify(true)
		}
	})
	e.wg.Wait()
}
