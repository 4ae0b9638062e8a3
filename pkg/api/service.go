package api

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stevelan1995/taskgrid/pkg/core/executor"
	"github.com/stevelan1995/taskgrid/pkg/core/graph"
	"github.com/stevelan1995/taskgrid/pkg/messaging"
	"github.com/stevelan1995/taskgrid/pkg/registry"
	"github.com/stevelan1995/taskgrid/pkg/storage"
)

// runState tracks one submitted topology for the lifetime of the
// process; ListHistory goes to Store instead once a run has finished
// and its RunRecord has landed. Topology.Done() delivers exactly once,
// so awaitCompletion is its only reader — RunStatus reads the fields
// below instead of the channel directly.
type runState struct {
	graphName string
	startedAt time.Time

	mu       sync.Mutex
	finished bool
	err      error
}

// Service wires together the executor, the named-graph registry, the
// run-history store and the event bus into the handlers Router exposes.
type Service struct {
	exec    *executor.Executor
	reg     *registry.Registry
	store   storage.Store
	bus     *messaging.Bus
	version string

	startTime time.Time
	runs      sync.Map // runID string -> *runState
}

// NewService constructs a Service. store may be nil (run history is then
// unavailable but submission and status queries still work).
func NewService(exec *executor.Executor, reg *registry.Registry, store storage.Store, bus *messaging.Bus, version string) *Service {
	return &Service{
		exec:      exec,
		reg:       reg,
		store:     store,
		bus:       bus,
		version:   version,
		startTime: time.Now(),
	}
}

// SubmitRun looks up graphName in the registry, submits it to the
// executor, and returns a run ID the caller can poll or watch on the
// event stream. Completion is persisted asynchronously.
func (s *Service) SubmitRun(graphName string) (string, error) {
	g, err := s.reg.Lookup(graphName)
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	rs := &runState{graphName: graphName, startedAt: time.Now()}
	s.runs.Store(runID, rs)

	topo := s.exec.Run(g)

	if s.bus != nil {
		s.bus.Publish(messaging.Event{Type: messaging.EventTopologyStarted, GraphName: graphName, At: time.Now()})
	}

	go s.awaitCompletion(runID, rs, topo)

	return runID, nil
}

func (s *Service) awaitCompletion(runID string, rs *runState, topo *graph.Topology) {
	err := <-topo.Done()
	finished := time.Now()

	rs.mu.Lock()
	rs.finished = true
	rs.err = err
	rs.mu.Unlock()

	outcome := "success"
	errMsg := ""
	eventType := messaging.EventTopologyCompleted
	if err != nil {
		outcome = "failed"
		errMsg = err.Error()
		eventType = messaging.EventTopologyFailed
	}

	if s.bus != nil {
		s.bus.Publish(messaging.Event{Type: eventType, GraphName: rs.graphName, Err: errMsg, At: finished})
	}

	if s.store != nil {
		rec := storage.RunRecord{
			ID: runID, GraphName: rs.graphName,
			StartedAt: rs.startedAt, FinishedAt: finished,
			Outcome: outcome, Error: errMsg,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.SaveRun(ctx, rec); err != nil {
			log.Printf("api: persisting run %s: %v", runID, err)
		}
	}
}

// RunStatus reports the current state of a submitted run.
func (s *Service) RunStatus(runID string) (RunSummary, bool) {
	v, ok := s.runs.Load(runID)
	if !ok {
		return RunSummary{}, false
	}
	rs := v.(*runState)

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if !rs.finished {
		return RunSummary{GraphName: rs.graphName, Status: "running"}, true
	}
	if rs.err != nil {
		return RunSummary{GraphName: rs.graphName, Status: "failed", Error: rs.err.Error()}, true
	}
	return RunSummary{GraphName: rs.graphName, Status: "completed"}, true
}

// ListHistory returns persisted runs for graphName, most recent first.
func (s *Service) ListHistory(ctx context.Context, graphName string, limit int) ([]storage.RunRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("api: no run-history store configured")
	}
	return s.store.ListRuns(ctx, graphName, limit)
}

// GraphNames lists every graph the registry knows about.
func (s *Service) GraphNames() []string {
	return s.reg.Names()
}
