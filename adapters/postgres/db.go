// Package postgres holds the sqlx repositories. Queries use ? placeholders
// rebound for the connected driver, so the same code runs against Postgres in
// production and SQLite in tests and local development.
package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database and verifies the connection
func Open(driver, url string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
