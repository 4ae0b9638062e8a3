// Package taskengine is a thin HTTP client for the API service, used by
// the cli command tree to submit runs and query their status without
// linking against the executor directly.
package taskengine

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to a running API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client against baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type apiResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// HealthResponse mirrors api.HealthResponse.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// RunSummary mirrors api.RunSummary.
type RunSummary struct {
	GraphName string `json:"graph_name"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// RunHistoryEntry mirrors api.RunHistoryEntry.
type RunHistoryEntry struct {
	ID         string    `json:"id"`
	GraphName  string    `json:"graph_name"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
}

// Health checks the server's liveness.
func (c *Client) Health() (*HealthResponse, error) {
	var resp apiResponse[HealthResponse]
	if err := c.get("/health", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf(resp.Error)
	}
	return &resp.Data, nil
}

// ListGraphs returns every registered graph name.
func (c *Client) ListGraphs() ([]string, error) {
	var resp apiResponse[[]string]
	if err := c.get("/api/v1/graphs", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf(resp.Error)
	}
	return resp.Data, nil
}

// SubmitRun starts a run of graphName and returns its run ID.
func (c *Client) SubmitRun(graphName string) (string, error) {
	var resp apiResponse[map[string]string]
	if err := c.post("/api/v1/graphs/"+url.PathEscape(graphName)+"/runs", &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf(resp.Error)
	}
	return resp.Data["run_id"], nil
}

// RunStatus fetches the current state of a submitted run.
func (c *Client) RunStatus(runID string) (*RunSummary, error) {
	var resp apiResponse[RunSummary]
	if err := c.get("/api/v1/runs/"+url.PathEscape(runID), &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf(resp.Error)
	}
	return &resp.Data, nil
}

// RunHistory lists up to limit persisted runs for graphName.
func (c *Client) RunHistory(graphName string, limit int) ([]RunHistoryEntry, error) {
	path := "/api/v1/graphs/" + url.PathEscape(graphName) + "/runs"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp apiResponse[[]RunHistoryEntry]
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf(resp.Error)
	}
	return resp.Data, nil
}

func (c *Client) get(path string, result interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("taskengine: request failed: %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, result)
}

func (c *Client) post(path string, result interface{}) error {
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("taskengine: request failed: %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, result)
}

func decode(resp *http.Response, result interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("taskengine: reading response: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("taskengine: parsing response: %w, body: %s", err, string(body))
	}
	return nil
}
