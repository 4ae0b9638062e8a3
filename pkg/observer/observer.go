// Package observer defines the executor's instrumentation surface: a
// pluggable hook invoked around every node's execution, plus two
// concrete implementations for logging and for tests/streaming.
package observer

import (
	"log"
	"sync"
	"time"

	"github.com/stevelan1995/taskgrid/pkg/core/graph"
)

// TaskView is the read-only snapshot an Observer receives. It must not
// be retained past the OnEntry/OnExit call it was passed to — its
// fields may be reused by the executor for the next node dispatched to
// the same worker.
type TaskView struct {
	GraphName string
	NodeID    string
	NodeName  string
	Domain    graph.Domain
	Kind      graph.Kind
	WorkerID  int
}

// Observer receives lifecycle callbacks around task execution. All
// three methods must tolerate concurrent invocation from every worker
// goroutine in the pool; the executor makes no attempt to serialize
// calls to a single observer.
type Observer interface {
	// SetUp is called once, when the observer is installed, with the
	// worker-pool size at install time.
	SetUp(numWorkers int)
	// OnEntry is called immediately before a node's body runs.
	OnEntry(view TaskView)
	// OnExit is called immediately after a node's body returns,
	// whether it succeeded or panicked.
	OnExit(view TaskView)
}

// LogObserver writes one line per OnEntry/OnExit through a *log.Logger,
// timing each node's execution. It is safe for concurrent use.
type LogObserver struct {
	logger *log.Logger

	mu     sync.Mutex
	starts map[string]time.Time
}

// NewLogObserver returns an observer that logs through l. A nil l
// defaults to log.Default().
func NewLogObserver(l *log.Logger) *LogObserver {
	if l == nil {
		l = log.Default()
	}
	return &LogObserver{logger: l, starts: make(map[string]time.Time)}
}

func (o *LogObserver) SetUp(numWorkers int) {
	o.logger.Printf("observer: attached, %d workers", numWorkers)
}

func (o *LogObserver) OnEntry(view TaskView) {
	o.mu.Lock()
	o.starts[view.NodeID] = time.Now()
	o.mu.Unlock()
	o.logger.Printf("worker %d: enter %s %q (%s/%s)", view.WorkerID, view.NodeID, view.NodeName, view.Domain, view.Kind)
}

func (o *LogObserver) OnExit(view TaskView) {
	o.mu.Lock()
	start, ok := o.starts[view.NodeID]
	delete(o.starts, view.NodeID)
	o.mu.Unlock()

	if ok {
		o.logger.Printf("worker %d: exit  %s %q after %s", view.WorkerID, view.NodeID, view.NodeName, time.Since(start))
		return
	}
	o.logger.Printf("worker %d: exit  %s %q", view.WorkerID, view.NodeID, view.NodeName)
}

// Event is one entry/exit notification delivered by ChannelObserver.
type Event struct {
	View  TaskView
	Enter bool
	At    time.Time
}

// ChannelObserver streams every lifecycle event onto a channel, for
// tests and other in-process consumers (the API's websocket feed reads
// from messaging.BusObserver instead). Events is
// buffered at construction time; a slow consumer drops events rather
// than blocking a worker, since instrumentation must never throttle
// execution.
type ChannelObserver struct {
	Events chan Event
}

// NewChannelObserver returns an observer whose Events channel has the
// given buffer size.
func NewChannelObserver(buffer int) *ChannelObserver {
	return &ChannelObserver{Events: make(chan Event, buffer)}
}

func (o *ChannelObserver) SetUp(int) {}

func (o *ChannelObserver) OnEntry(view TaskView) { o.emit(view, true) }
func (o *ChannelObserver) OnExit(view TaskView)  { o.emit(view, false) }

func (o *ChannelObserver) emit(view TaskView, enter bool) {
	select {
	case o.Events <- Event{View: view, Enter: enter, At: time.Now()}:
	default:
	}
}
