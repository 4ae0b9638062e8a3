// Package factory selects a storage.Store implementation from a driver
// name, keeping the sqlite/mysql/postgres subpackages free of a dependency
// on each other.
package factory

import (
	"github.com/stevelan1995/taskgrid/pkg/storage"
	"github.com/stevelan1995/taskgrid/pkg/storage/mysql"
	"github.com/stevelan1995/taskgrid/pkg/storage/postgres"
	"github.com/stevelan1995/taskgrid/pkg/storage/sqlite"
)

// Open connects to the run-history database named by driver, one of
// "sqlite", "mysql" or "postgres".
func Open(driver, dsn string) (storage.Store, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn)
	case "mysql":
		return mysql.Open(dsn)
	case "postgres":
		return postgres.Open(dsn)
	default:
		return nil, &storage.ErrUnknownDriver{Driver: driver}
	}
}
