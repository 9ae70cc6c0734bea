package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/measure"
	"ethnicityfacts/internal"
	apperrors "ethnicityfacts/internal/errors"
	"ethnicityfacts/internal/markdown"
	"ethnicityfacts/internal/metrics"
	"ethnicityfacts/ports"
)

// MeasureService manages measure pages and their publishing workflow
type MeasureService struct {
	measures ports.MeasureRepository
	versions ports.MeasureVersionRepository
	metrics  *metrics.Metrics
	logger   *internal.Logger
	now      func() time.Time
}

// RenderedVersion is a measure version with its markdown fields as HTML
type RenderedVersion struct {
	*measure.MeasureVersion
	SummaryHTML     string `json:"summary_html"`
	DescriptionHTML string `json:"description_html"`
}

// NewMeasureRequest creates a measure together with its first draft
type NewMeasureRequest struct {
	SubtopicID core.ID `json:"subtopic_id"`
	Slug       string  `json:"slug"`
	Title      string  `json:"title"`
	Position   int     `json:"position"`
	User       string  `json:"user"`
}

// NewMeasureService creates a measure service
func NewMeasureService(measures ports.MeasureRepository, versions ports.MeasureVersionRepository, m *metrics.Metrics) *MeasureService {
	return &MeasureService{
		measures: measures,
		versions: versions,
		metrics:  m,
		logger:   internal.DefaultLogger.WithPrefix("Measures"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateTopic adds a top level topic
func (s *MeasureService) CreateTopic(ctx context.Context, slug, title, description string) (*measure.Topic, error) {
	if strings.TrimSpace(slug) == "" || strings.TrimSpace(title) == "" {
		return nil, apperrors.InvalidInput("topic slug and title are required")
	}
	topic := &measure.Topic{ID: core.NewID(), Slug: slug, Title: title, Description: description, CreatedAt: s.now()}
	if err := s.measures.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// CreateSubtopic adds a subtopic under a topic
func (s *MeasureService) CreateSubtopic(ctx context.Context, topicID core.ID, slug, title string, position int) (*measure.Subtopic, error) {
	if topicID.IsEmpty() || strings.TrimSpace(slug) == "" || strings.TrimSpace(title) == "" {
		return nil, apperrors.InvalidInput("topic id, subtopic slug and title are required")
	}
	sub := &measure.Subtopic{ID: core.NewID(), TopicID: topicID, Slug: slug, Title: title, Position: position, CreatedAt: s.now()}
	if err := s.measures.CreateSubtopic(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListTopics returns all topics ordered by title
func (s *MeasureService) ListTopics(ctx context.Context) ([]*measure.Topic, error) {
	return s.measures.ListTopics(ctx)
}

// CreateMeasure stores a new measure and its 1.0 draft
func (s *MeasureService) CreateMeasure(ctx context.Context, req NewMeasureRequest) (*measure.MeasureVersion, error) {
	if req.SubtopicID.IsEmpty() || strings.TrimSpace(req.Slug) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.InvalidInput("subtopic id, measure slug and title are required")
	}

	now := s.now()
	m := &measure.Measure{ID: core.NewID(), SubtopicID: req.SubtopicID, Slug: req.Slug, Position: req.Position, CreatedAt: now}
	if err := s.measures.CreateMeasure(ctx, m); err != nil {
		return nil, err
	}

	v := measure.NewMeasureVersion(m.ID, req.Title, req.User, now)
	if err := s.versions.Create(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info("created measure %s (%s) with draft %s", m.Slug, m.ID, v.Version)
	return v, nil
}

// Get returns one measure version
func (s *MeasureService) Get(ctx context.Context, id core.ID) (*measure.MeasureVersion, error) {
	return s.versions.GetByID(ctx, id)
}

// List returns every version of a measure, newest first
func (s *MeasureService) List(ctx context.Context, measureID core.ID) ([]*measure.MeasureVersion, error) {
	if _, err := s.measures.GetMeasure(ctx, measureID); err != nil {
		return nil, err
	}
	return s.versions.ListByMeasure(ctx, measureID)
}

// Transition applies a workflow action and saves the result
func (s *MeasureService) Transition(ctx context.Context, id core.ID, action measure.Action, user string) (*measure.MeasureVersion, error) {
	v, err := s.versions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := v.Status
	if err := v.Apply(action, user, s.now()); err != nil {
		return nil, err
	}
	if err := s.versions.Update(ctx, v); err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(string(action))
	s.logger.Info("%s %s: %s -> %s by %s", v.MeasureID, v.Version, from, v.Status, user)
	return v, nil
}

// CreateVersion starts a new minor or major edition from a published version
func (s *MeasureService) CreateVersion(ctx context.Context, id core.ID, kind measure.UpdateKind, user string) (*measure.MeasureVersion, error) {
	current, err := s.versions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := current.NewVersion(kind, user, s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.versions.ExistsVersion(ctx, next.MeasureID, next.Version)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s of measure %s", core.ErrVersionExists, next.Version, next.MeasureID)
	}

	if err := s.versions.Create(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("%s: new %s version %s from %s", next.MeasureID, kind, next.Version, current.Version)
	return next, nil
}

// RenderVersion returns a version with its summary and description rendered
func (s *MeasureService) RenderVersion(ctx context.Context, id core.ID) (*RenderedVersion, error) {
	v, err := s.versions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RenderedVersion{
		MeasureVersion:  v,
		SummaryHTML:     markdown.Render(v.Summary),
		DescriptionHTML: markdown.Render(v.Description),
	}, nil
}
