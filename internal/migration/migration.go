package migration

import (
	"context"

	"ethnicityfacts/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the CMS schema if it is missing. The DDL sticks to
// types Postgres and SQLite share so tests can run against an in-memory
// database.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	steps := []struct {
		name string
		fn   func(context.Context, *sqlx.DB) error
	}{
		{"topic table", r.createTopicTable},
		{"subtopic table", r.createSubtopicTable},
		{"measure table", r.createMeasureTable},
		{"measure_version table", r.createMeasureVersionTable},
		{"redirect table", r.createRedirectTable},
		{"indexes", r.createIndexes},
	}

	for _, step := range steps {
		if err := step.fn(ctx, db); err != nil {
			return errors.Wrapf(err, "failed to create %s", step.name)
		}
	}
	return nil
}

func (r *MigrationRunner) createTopicTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS topic (
			id VARCHAR(36) PRIMARY KEY,
			slug VARCHAR(255) UNIQUE NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createSubtopicTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS subtopic (
			id VARCHAR(36) PRIMARY KEY,
			topic_id VARCHAR(36) NOT NULL REFERENCES topic(id) ON DELETE CASCADE,
			slug VARCHAR(255) NOT NULL,
			title TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (topic_id, slug)
		)
	`)
	return err
}

func (r *MigrationRunner) createMeasureTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS measure (
			id VARCHAR(36) PRIMARY KEY,
			subtopic_id VARCHAR(36) NOT NULL REFERENCES subtopic(id) ON DELETE CASCADE,
			slug VARCHAR(255) NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (subtopic_id, slug)
		)
	`)
	return err
}

func (r *MigrationRunner) createMeasureVersionTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS measure_version (
			id VARCHAR(36) PRIMARY KEY,
			measure_id VARCHAR(36) NOT NULL REFERENCES measure(id) ON DELETE CASCADE,
			version VARCHAR(20) NOT NULL,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			status VARCHAR(50) NOT NULL DEFAULT 'DRAFT',
			created_by VARCHAR(255) NOT NULL DEFAULT '',
			updated_by VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			published_at TIMESTAMP,
			unpublished_at TIMESTAMP,
			UNIQUE (measure_id, version)
		)
	`)
	return err
}

func (r *MigrationRunner) createRedirectTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS redirect (
			from_uri VARCHAR(255) PRIMARY KEY,
			to_uri VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_measure_version_measure_id ON measure_version(measure_id)`,
		`CREATE INDEX IF NOT EXISTS idx_measure_version_status ON measure_version(status)`,
		`CREATE INDEX IF NOT EXISTS idx_measure_subtopic_id ON measure(subtopic_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
