package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type graphHandler struct {
	svc       *Service
	version   string
	startTime time.Time
}

func newGraphHandler(svc *Service, version string) *graphHandler {
	return &graphHandler{svc: svc, version: version, startTime: time.Now()}
}

// health reports liveness plus process uptime.
// GET /health
func (h *graphHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, success(HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// ready always reports "ready" while the router is serving; it does not
// inspect the executor.
// GET /ready
func (h *graphHandler) ready(c *gin.Context) {
	c.JSON(http.StatusOK, success(gin.H{"status": "ready"}))
}

// listGraphs returns every graph name registered with the service.
// GET /api/v1/graphs
func (h *graphHandler) listGraphs(c *gin.Context) {
	c.JSON(http.StatusOK, success(h.svc.GraphNames()))
}

// submitRun starts a new run of the named graph.
// POST /api/v1/graphs/:name/runs
func (h *graphHandler) submitRun(c *gin.Context) {
	name := c.Param("name")
	runID, err := h.svc.SubmitRun(name)
	if err != nil {
		c.JSON(http.StatusNotFound, failure(err))
		return
	}
	c.JSON(http.StatusAccepted, success(gin.H{"run_id": runID}))
}

// runStatus reports the current state of a submitted run.
// GET /api/v1/runs/:id
func (h *graphHandler) runStatus(c *gin.Context) {
	id := c.Param("id")
	summary, ok := h.svc.RunStatus(id)
	if !ok {
		c.JSON(http.StatusNotFound, failure(errUnknownRun(id)))
		return
	}
	c.JSON(http.StatusOK, success(summary))
}

// runHistory lists persisted run history for a graph.
// GET /api/v1/graphs/:name/runs
func (h *graphHandler) runHistory(c *gin.Context) {
	name := c.Param("name")
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	recs, err := h.svc.ListHistory(c.Request.Context(), name, limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, failure(err))
		return
	}

	entries := make([]RunHistoryEntry, len(recs))
	for i, r := range recs {
		entries[i] = RunHistoryEntry{
			ID: r.ID, GraphName: r.GraphName,
			StartedAt: r.StartedAt, FinishedAt: r.FinishedAt,
			Outcome: r.Outcome, Error: r.Error,
		}
	}
	c.JSON(http.StatusOK, success(entries))
}

type unknownRunError struct{ id string }

func (e unknownRunError) Error() string { return "api: no run with id " + e.id }

func errUnknownRun(id string) error { return unknownRunError{id} }
