package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	"github.com/stevelan1995/taskgrid/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store for run history.
type Store struct {
	db      *sqlx.DB
	dialect *PostgresDialect
}

// Open connects to a PostgreSQL database at dsn and ensures the runs table
// exists.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	s := &Store{db: db, dialect: NewPostgresDialect()}
	if _, err := db.Exec(s.dialect.CreateTableSQL(storage.RunsTableDDL)); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: create runs table: %w", err)
	}
	if _, err := db.Exec(storage.RunsIndexDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: create runs index: %w", err)
	}
	return s, nil
}

func (s *Store) SaveRun(ctx context.Context, rec storage.RunRecord) error {
	_, err := s.db.NamedExecContext(ctx, s.dialect.UpsertSQL(
		"runs",
		[]string{"id", "graph_name", "started_at", "finished_at", "outcome", "error"},
		"id",
		[]string{"graph_name", "started_at", "finished_at", "outcome", "error"},
	), rec)
	if err != nil {
		return fmt.Errorf("postgres: save run: %w", err)
	}
	return nil
}

func (s *Store) ListRuns(ctx context.Context, graphName string, limit int) ([]storage.RunRecord, error) {
	var recs []storage.RunRecord
	err := s.db.SelectContext(ctx, &recs,
		`SELECT id, graph_name, started_at, finished_at, outcome, error FROM runs
		 WHERE graph_name = $1 ORDER BY started_at DESC LIMIT $2`,
		graphName, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list runs: %w", err)
	}
	return recs, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.Store = (*Store)(nil)
