package sqlite

import (
	"fmt"
	"strings"

	"github.com/stevelan1995/taskgrid/pkg/storage"
)

// SQLiteDialect is the reference dialect: RunsTableDDL is already written
// in SQLite syntax, so CreateTableSQL is close to a passthrough.
type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) Placeholder(index int) string { return "?" }

func (d *SQLiteDialect) UpsertSQL(tableName string, columns []string, conflictColumn string, updateColumns []string) string {
	namedPlaceholders := make([]string, len(columns))
	for i, col := range columns {
		namedPlaceholders[i] = ":" + col
	}
	updateParts := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		updateParts[i] = fmt.Sprintf("%s = excluded.%s", col, col)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(namedPlaceholders, ", "),
		conflictColumn,
		strings.Join(updateParts, ", "),
	)
}

func (d *SQLiteDialect) CreateTableSQL(schema string) string {
	return schema
}

func (d *SQLiteDialect) ConfigureDB() []string {
	return []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
	}
}

func (d *SQLiteDialect) AutoIncrementKeyword() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }
func (d *SQLiteDialect) BooleanType() string          { return "INTEGER" }
func (d *SQLiteDialect) TextType() string             { return "TEXT" }
func (d *SQLiteDialect) TimestampType() string        { return "DATETIME" }
func (d *SQLiteDialect) FloatType() string            { return "REAL" }

var _ storage.Dialect = (*SQLiteDialect)(nil)
