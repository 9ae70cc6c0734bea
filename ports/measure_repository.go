package ports

import (
	"context"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/measure"
)

// MeasureRepository stores the topic -> subtopic -> measure hierarchy
type MeasureRepository interface {
	CreateTopic(ctx context.Context, topic *measure.Topic) error
	CreateSubtopic(ctx context.Context, subtopic *measure.Subtopic) error
	CreateMeasure(ctx context.Context, m *measure.Measure) error
	GetMeasure(ctx context.Context, id core.ID) (*measure.Measure, error)
	ListTopics(ctx context.Context) ([]*measure.Topic, error)
}

// MeasureVersionRepository stores editions of measure pages
type MeasureVersionRepository interface {
	Create(ctx context.Context, version *measure.MeasureVersion) error
	GetByID(ctx context.Context, id core.ID) (*measure.MeasureVersion, error)
	// ListByMeasure returns versions newest first
	ListByMeasure(ctx context.Context, measureID core.ID) ([]*measure.MeasureVersion, error)
	Update(ctx context.Context, version *measure.MeasureVersion) error
	ExistsVersion(ctx context.Context, measureID core.ID, version measure.Version) (bool, error)
}
