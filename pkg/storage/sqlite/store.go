package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stevelan1995/taskgrid/pkg/storage"
)

// Store is a SQLite-backed storage.Store for run history.
type Store struct {
	db      *sqlx.DB
	dialect *SQLiteDialect
}

// Open opens (creating if necessary) the SQLite database file at path and
// ensures the runs table exists.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: connect: %w", err)
	}

	s := &Store{db: db, dialect: NewSQLiteDialect()}
	for _, stmt := range s.dialect.ConfigureDB() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: configure: %w", err)
		}
	}
	if _, err := db.Exec(s.dialect.CreateTableSQL(storage.RunsTableDDL)); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create runs table: %w", err)
	}
	if _, err := db.Exec(storage.RunsIndexDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create runs index: %w", err)
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
		return fmt.Errorf("sqlite: save run: %w", err)
	}
	return nil
}

func (s *Store) ListRuns(ctx context.Context, graphName string, limit int) ([]storage.RunRecord, error) {
	var recs []storage.RunRecord
	err := s.db.SelectContext(ctx, &recs,
		`SELECT id, graph_name, started_at, finished_at, outcome, error FROM runs
		 WHERE graph_name = ? ORDER BY started_at DESC LIMIT ?`,
		graphName, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list runs: %w", err)
	}
	return recs, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.Store = (*Store)(nil)
