package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/redirect"
	apperrors "ethnicityfacts/internal/errors"
	"ethnicityfacts/ports"

	"github.com/jmoiron/sqlx"
)

type redirectRepository struct {
	db *sqlx.DB
}

// NewRedirectRepository creates a new redirect repository
func NewRedirectRepository(db *sqlx.DB) ports.RedirectRepository {
	return &redirectRepository{db: db}
}

func (r *redirectRepository) Create(ctx context.Context, rd *redirect.Redirect) error {
	query := r.db.Rebind(`INSERT INTO redirect (from_uri, to_uri, created_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, rd.FromURI, rd.ToURI, rd.CreatedAt); err != nil {
		return apperrors.DatabaseError("failed to create redirect", err)
	}
	return nil
}

func (r *redirectRepository) List(ctx context.Context) ([]*redirect.Redirect, error) {
	redirects := make([]*redirect.Redirect, 0)
	query := `SELECT from_uri, to_uri, created_at FROM redirect ORDER BY from_uri`
	if err := r.db.SelectContext(ctx, &redirects, query); err != nil {
		return nil, apperrors.DatabaseError("failed to list redirects", err)
	}
	return redirects, nil
}

func (r *redirectRepository) GetByFrom(ctx context.Context, fromURI string) (*redirect.Redirect, error) {
	var rd redirect.Redirect
	query := r.db.Rebind(`SELECT from_uri, to_uri, created_at FROM redirect WHERE from_uri = ?`)
	if err := r.db.GetContext(ctx, &rd, query, fromURI); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrRedirectNotFound, fromURI)
		}
		return nil, apperrors.DatabaseError("failed to get redirect", err)
	}
	return &rd, nil
}

func (r *redirectRepository) Delete(ctx context.Context, fromURI string) error {
	query := r.db.Rebind(`DELETE FROM redirect WHERE from_uri = ?`)
	result, err := r.db.ExecContext(ctx, query, fromURI)
	if err != nil {
		return apperrors.DatabaseError("failed to delete redirect", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.DatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", core.ErrRedirectNotFound, fromURI)
	}
	return nil
}
