package postgres

import (
	"fmt"
	"strings"

	"github.com/stevelan1995/taskgrid/pkg/storage"
)

// PostgresDialect implements storage.Dialect for PostgreSQL, whose
// numbered placeholders and UPSERT clause differ from SQLite/MySQL.
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

// UpsertSQL uses ":col" named placeholders, not "$1"-style ones: this
// statement is meant for sqlx's NamedExec, which rebinds ":col" to the
// driver's native placeholder style itself.
func (d *PostgresDialect) UpsertSQL(tableName string, columns []string, conflictColumn string, updateColumns []string) string {
	namedPlaceholders := make([]string, len(columns))
	for i, col := range columns {
		namedPlaceholders[i] = ":" + col
	}
	updateParts := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		updateParts[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(namedPlaceholders, ", "),
		conflictColumn,
		strings.Join(updateParts, ", "),
	)
}

func (d *PostgresDialect) CreateTableSQL(schema string) string {
	result := schema
	result = strings.ReplaceAll(result, "AUTOINCREMENT", "")
	result = strings.ReplaceAll(result, "INTEGER PRIMARY KEY", "SERIAL PRIMARY KEY")
	result = strings.ReplaceAll(result, "DATETIME", "TIMESTAMP")
	return result
}

func (d *PostgresDialect) ConfigureDB() []string {
	return nil
}

func (d *PostgresDialect) AutoIncrementKeyword() string { return "SERIAL PRIMARY KEY" }
func (d *PostgresDialect) BooleanType() string          { return "BOOLEAN" }
func (d *PostgresDialect) TextType() string             { return "TEXT" }
func (d *PostgresDialect) TimestampType() string        { return "TIMESTAMP" }
func (d *PostgresDialect) FloatType() string            { return "DOUBLE PRECISION" }

var _ storage.Dialect = (*PostgresDialect)(nil)
