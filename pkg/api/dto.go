package api

import "time"

// Response wraps every JSON body the API returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func failure(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// RunSummary is what GET /runs/:id returns for an in-flight or
// completed topology. POST /graphs/:name/runs returns only the run id.
type RunSummary struct {
	GraphName string `json:"graph_name"`
	Status    string `json:"status"` // "running", "completed", "failed"
	Error     string `json:"error,omitempty"`
}

// RunHistoryEntry mirrors a storage.RunRecord for the history endpoint.
type RunHistoryEntry struct {
	ID         string    `json:"id"`
	GraphName  string    `json:"graph_name"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
}
