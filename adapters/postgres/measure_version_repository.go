package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/measure"
	apperrors "ethnicityfacts/internal/errors"
	"ethnicityfacts/ports"

	"github.com/jmoiron/sqlx"
)

const measureVersionColumns = `id, measure_id, version, title, summary, description, status,
	created_by, updated_by, created_at, updated_at, published_at, unpublished_at`

// measureVersionRepository implements the MeasureVersionRepository interface
type measureVersionRepository struct {
	db *sqlx.DB
}

// NewMeasureVersionRepository creates a new measure version repository
func NewMeasureVersionRepository(db *sqlx.DB) ports.MeasureVersionRepository {
	return &measureVersionRepository{db: db}
}

// Create inserts a new measure version
func (r *measureVersionRepository) Create(ctx context.Context, v *measure.MeasureVersion) error {
	query := r.db.Rebind(`INSERT INTO measure_version (` + measureVersionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.MeasureID, v.Version, v.Title, v.Summary, v.Description, v.Status,
		v.CreatedBy, v.UpdatedBy, v.CreatedAt, v.UpdatedAt, v.PublishedAt, v.UnpublishedAt,
	)
	if err != nil {
		return apperrors.DatabaseError("failed to create measure version", err)
	}
	return nil
}

// GetByID retrieves a measure version by its ID
func (r *measureVersionRepository) GetByID(ctx context.Context, id core.ID) (*measure.MeasureVersion, error) {
	var v measure.MeasureVersion
	query := r.db.Rebind(`SELECT ` + measureVersionColumns + ` FROM measure_version WHERE id = ?`)

	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrMeasureVersionNotFound, id)
		}
		return nil, apperrors.DatabaseError("failed to get measure version", err)
	}
	return &v, nil
}

// ListByMeasure returns every version of a measure, newest first. Versions
// are stored as text, so they are ordered here rather than in SQL.
func (r *measureVersionRepository) ListByMeasure(ctx context.Context, measureID core.ID) ([]*measure.MeasureVersion, error) {
	versions := make([]*measure.MeasureVersion, 0)
	query := r.db.Rebind(`SELECT ` + measureVersionColumns + ` FROM measure_version WHERE measure_id = ?`)

	if err := r.db.SelectContext(ctx, &versions, query, measureID); err != nil {
		return nil, apperrors.DatabaseError("failed to list measure versions", err)
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[j].Version.Less(versions[i].Version)
	})
	return versions, nil
}

// Update saves the mutable fields of a measure version
func (r *measureVersionRepository) Update(ctx context.Context, v *measure.MeasureVersion) error {
	query := r.db.Rebind(`UPDATE measure_version SET
		title = ?, summary = ?, description = ?, status = ?, updated_by = ?,
		updated_at = ?, published_at = ?, unpublished_at = ?
	WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		v.Title, v.Summary, v.Description, v.Status, v.UpdatedBy,
		v.UpdatedAt, v.PublishedAt, v.UnpublishedAt, v.ID,
	)
	if err != nil {
		return apperrors.DatabaseError("failed to update measure version", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.DatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", core.ErrMeasureVersionNotFound, v.ID)
	}
	return nil
}

// ExistsVersion reports whether the measure already has the given version number
func (r *measureVersionRepository) ExistsVersion(ctx context.Context, measureID core.ID, version measure.Version) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM measure_version WHERE measure_id = ? AND version = ?`)
	if err := r.db.GetContext(ctx, &count, query, measureID, version.String()); err != nil {
		return false, apperrors.DatabaseError("failed to check measure version", err)
	}
	return count > 0, nil
}
