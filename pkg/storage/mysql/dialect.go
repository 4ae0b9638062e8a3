package mysql

import (
	"fmt"
	"strings"

	"github.com/stevelan1995/taskgrid/pkg/storage"
)

// MySQLDialect implements storage.Dialect for MySQL/MariaDB, whose
// upsert clause, engine declaration, and a handful of column types
// differ from SQLite's reference schema.
type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string { return "mysql" }

func (d *MySQLDialect) Placeholder(index int) string { return "?" }

func (d *MySQLDialect) UpsertSQL(tableName string, columns []string, conflictColumn string, updateColumns []string) string {
	namedPlaceholders := make([]string, len(columns))
	for i, col := range columns {
		namedPlaceholders[i] = ":" + col
	}
	updateParts := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		updateParts[i] = fmt.Sprintf("%s = VALUES(%s)", col, col)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(namedPlaceholders, ", "),
		strings.Join(updateParts, ", "),
	)
}

// CreateTableSQL rewrites the SQLite-syntax reference schema into
// MySQL-compatible DDL and appends an explicit engine/charset clause,
// since a bare CREATE TABLE would otherwise default to whatever the
// server's configured default storage engine happens to be.
func (d *MySQLDialect) CreateTableSQL(schema string) string {
	result := schema
	result = strings.ReplaceAll(result, "REAL NOT NULL", "DOUBLE NOT NULL")
	result = strings.ReplaceAll(result, "REAL DEFAULT", "DOUBLE DEFAULT")
	result = strings.ReplaceAll(result, "AUTOINCREMENT", "AUTO_INCREMENT")

	if !strings.Contains(result, "ENGINE=") && strings.Contains(result, "CREATE TABLE") {
		result = strings.TrimRight(result, ";") + " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;"
	}
	return result
}

func (d *MySQLDialect) ConfigureDB() []string {
	return []string{
		"SET SESSION sql_mode='STRICT_TRANS_TABLES,NO_ZERO_IN_DATE,NO_ZERO_DATE,ERROR_FOR_DIVISION_BY_ZERO,NO_ENGINE_SUBSTITUTION';",
	}
}

func (d *MySQLDialect) AutoIncrementKeyword() string { return "INT PRIMARY KEY AUTO_INCREMENT" }
func (d *MySQLDialect) BooleanType() string          { return "TINYINT(1)" }
func (d *MySQLDialect) TextType() string             { return "TEXT" }
func (d *MySQLDialect) TimestampType() string        { return "DATETIME" }
func (d *MySQLDialect) FloatType() string            { return "DOUBLE" }

var _ storage.Dialect = (*MySQLDialect)(nil)
