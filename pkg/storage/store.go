package storage

import (
	"context"
	"fmt"
	"time"
)

// RunRecord is one persisted execution of a graph: one submitted
// topology, covering every pass it ran under RunN/RunUntil.
type RunRecord struct {
	ID         string    `db:"id"`
	GraphName  string    `db:"graph_name"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Outcome    string    `db:"outcome"` // "success" or "failed"
	Error      string    `db:"error"`   // first error message, empty on success
}

// Store persists RunRecords and answers run-history queries. Implementations
// live in the sqlite, mysql and postgres subpackages, each backed by a
// Dialect for the SQL differences between them.
type Store interface {
	SaveRun(ctx context.Context, rec RunRecord) error
	ListRuns(ctx context.Context, graphName string, limit int) ([]RunRecord, error)
	Close() error
}

// RunsTableDDL is written in SQLite syntax; a Dialect's CreateTableSQL
// translates it for MySQL/PostgreSQL. Exported so the sqlite/mysql/postgres
// subpackages can feed it through their own Dialect.
const RunsTableDDL = `CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	graph_name TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	outcome TEXT NOT NULL,
	error TEXT
)`

// RunsIndexDDL creates the lookup index used by ListRuns. Its syntax is
// portable across SQLite, MySQL 8+ and PostgreSQL, so no Dialect translation
// is needed.
const RunsIndexDDL = `CREATE INDEX IF NOT EXISTS idx_runs_graph_name ON runs (graph_name)`

// ErrUnknownDriver is returned by Open for a driver name none of the
// bundled dialects implement.
type ErrUnknownDriver struct {
	Driver string
}

func (e *ErrUnknownDriver) Error() string {
	return fmt.Sprintf("storage: unknown driver %q", e.Driver)
}
