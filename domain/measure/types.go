// Package measure holds the statistics page model: topics contain subtopics,
// subtopics contain measures, and each measure has a series of versions that
// move through the publishing workflow.
package measure

import (
	"time"

	"ethnicityfacts/domain/core"
)

// Topic is a top-level grouping such as "Health"
type Topic struct {
	ID          core.ID   `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Subtopic groups measures within a topic
type Subtopic struct {
	ID        core.ID   `json:"id" db:"id"`
	TopicID   core.ID   `json:"topic_id" db:"topic_id"`
	Slug      string    `json:"slug" db:"slug"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Measure is a published statistic; its content lives in versions
type Measure struct {
	ID         core.ID   `json:"id" db:"id"`
	SubtopicID core.ID   `json:"subtopic_id" db:"subtopic_id"`
	Slug       string    `json:"slug" db:"slug"`
	Position   int       `json:"position" db:"position"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// MeasureVersion is one edition of a measure page
type MeasureVersion struct {
	ID            core.ID    `json:"id" db:"id"`
	MeasureID     core.ID    `json:"measure_id" db:"measure_id"`
	Version       Version    `json:"version" db:"version"`
	Title         string     `json:"title" db:"title"`
	Summary       string     `json:"summary" db:"summary"`
	Description   string     `json:"description" db:"description"`
	Status        Status     `json:"status" db:"status"`
	CreatedBy     string     `json:"created_by" db:"created_by"`
	UpdatedBy     string     `json:"updated_by" db:"updated_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty" db:"published_at"`
	UnpublishedAt *time.Time `json:"unpublished_at,omitempty" db:"unpublished_at"`
}

// NewMeasureVersion creates the first draft of a measure
func NewMeasureVersion(measureID core.ID, title, user string, now time.Time) *MeasureVersion {
	return &MeasureVersion{
		ID:        core.NewID(),
		MeasureID: measureID,
		Version:   InitialVersion,
		Title:     title,
		Status:    StatusDraft,
		CreatedBy: user,
		UpdatedBy: user,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
