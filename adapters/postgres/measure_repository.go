package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/measure"
	apperrors "ethnicityfacts/internal/errors"
	"ethnicityfacts/ports"

	"github.com/jmoiron/sqlx"
)

// measureRepository implements the MeasureRepository interface
type measureRepository struct {
	db *sqlx.DB
}

// NewMeasureRepository creates a new measure repository
func NewMeasureRepository(db *sqlx.DB) ports.MeasureRepository {
	return &measureRepository{db: db}
}

func (r *measureRepository) CreateTopic(ctx context.Context, topic *measure.Topic) error {
	query := r.db.Rebind(`INSERT INTO topic (id, slug, title, description, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		topic.ID, topic.Slug, topic.Title, topic.Description, topic.CreatedAt)
	if err != nil {
		return apperrors.DatabaseError("failed to create topic", err)
	}
	return nil
}

func (r *measureRepository) CreateSubtopic(ctx context.Context, subtopic *measure.Subtopic) error {
	query := r.db.Rebind(`INSERT INTO subtopic (id, topic_id, slug, title, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		subtopic.ID, subtopic.TopicID, subtopic.Slug, subtopic.Title, subtopic.Position, subtopic.CreatedAt)
	if err != nil {
		return apperrors.DatabaseError("failed to create subtopic", err)
	}
	return nil
}

func (r *measureRepository) CreateMeasure(ctx context.Context, m *measure.Measure) error {
	query := r.db.Rebind(`INSERT INTO measure (id, subtopic_id, slug, position, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, m.ID, m.SubtopicID, m.Slug, m.Position, m.CreatedAt)
	if err != nil {
		return apperrors.DatabaseError("failed to create measure", err)
	}
	return nil
}

func (r *measureRepository) GetMeasure(ctx context.Context, id core.ID) (*measure.Measure, error) {
	var m measure.Measure
	query := r.db.Rebind(`SELECT id, subtopic_id, slug, position, created_at FROM measure WHERE id = ?`)
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("measure", id.String())
		}
		return nil, apperrors.DatabaseError("failed to get measure", err)
	}
	return &m, nil
}

func (r *measureRepository) ListTopics(ctx context.Context) ([]*measure.Topic, error) {
	topics := make([]*measure.Topic, 0)
	query := `SELECT id, slug, title, description, created_at FROM topic ORDER BY title`
	if err := r.db.SelectContext(ctx, &topics, query); err != nil {
		return nil, apperrors.DatabaseError("failed to list topics", err)
	}
	return topics, nil
}
