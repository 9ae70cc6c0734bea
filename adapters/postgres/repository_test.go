package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/measure"
	"ethnicityfacts/domain/redirect"
	"ethnicityfacts/internal/migration"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.NewRunner().Run(context.Background(), db))
	return db
}

func seedMeasure(t *testing.T, db *sqlx.DB) *measure.Measure {
	t.Helper()
	ctx := context.Background()
	repo := NewMeasureRepository(db)
	now := time.Now().UTC()

	topic := &measure.Topic{ID: core.NewID(), Slug: "work-pay-and-benefits", Title: "Work, pay and benefits", CreatedAt: now}
	require.NoError(t, repo.CreateTopic(ctx, topic))
	sub := &measure.Subtopic{ID: core.NewID(), TopicID: topic.ID, Slug: "employment", Title: "Employment", CreatedAt: now}
	require.NoError(t, repo.CreateSubtopic(ctx, sub))
	m := &measure.Measure{ID: core.NewID(), SubtopicID: sub.ID, Slug: "employment-rate", CreatedAt: now}
	require.NoError(t, repo.CreateMeasure(ctx, m))
	return m
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}

func TestMigrationsAreRepeatable(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, migration.NewRunner().Run(context.Background(), db))
}

func TestMeasureRepository(t *testing.T) {
	db := newTestDB(t)
	m := seedMeasure(t, db)
	repo := NewMeasureRepository(db)

	got, err := repo.GetMeasure(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "employment-rate", got.Slug)
	assert.Equal(t, m.SubtopicID, got.SubtopicID)

	_, err = repo.GetMeasure(context.Background(), core.NewID())
	assert.True(t, core.IsNotFoundError(err))

	topics, err := repo.ListTopics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Work, pay and benefits", topics[0].Title)
}

func TestMeasureVersionRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	m := seedMeasure(t, db)
	repo := NewMeasureVersionRepository(db)

	v := measure.NewMeasureVersion(m.ID, "Employment", "author", time.Now().UTC())
	v.Description = "## Main points"
	require.NoError(t, repo.Create(ctx, v))

	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, measure.InitialVersion, got.Version)
	assert.Equal(t, measure.StatusDraft, got.Status)
	assert.Equal(t, "## Main points", got.Description)
	assert.Nil(t, got.PublishedAt)

	got.Status = measure.StatusApproved
	published := time.Now().UTC()
	got.PublishedAt = &published
	got.UpdatedBy = "dept"
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, measure.StatusApproved, again.Status)
	assert.Equal(t, "dept", again.UpdatedBy)
	require.NotNil(t, again.PublishedAt)
	assert.WithinDuration(t, published, *again.PublishedAt, time.Second)
}

func TestMeasureVersionNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewMeasureVersionRepository(db)

	_, err := repo.GetByID(context.Background(), core.NewID())
	assert.ErrorIs(t, err, core.ErrMeasureVersionNotFound)

	missing := measure.NewMeasureVersion(core.NewID(), "x", "y", time.Now())
	assert.ErrorIs(t, repo.Update(context.Background(), missing), core.ErrMeasureVersionNotFound)
}

func TestListByMeasureNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	m := seedMeasure(t, db)
	repo := NewMeasureVersionRepository(db)

	for _, s := range []string{"1.0", "1.10", "1.9", "2.0"} {
		v := measure.NewMeasureVersion(m.ID, "Employment", "author", time.Now().UTC())
		parsed, err := measure.ParseVersion(s)
		require.NoError(t, err)
		v.Version = parsed
		require.NoError(t, repo.Create(ctx, v))
	}

	versions, err := repo.ListByMeasure(ctx, m.ID)
	require.NoError(t, err)
	var got []string
	for _, v := range versions {
		got = append(got, v.Version.String())
	}
	assert.Equal(t, []string{"2.0", "1.10", "1.9", "1.0"}, got)

	exists, err := repo.ExistsVersion(ctx, m.ID, measure.Version{Major: 1, Minor: 10})
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsVersion(ctx, m.ID, measure.Version{Major: 3, Minor: 0})
	require.NoError(t, err)
	assert.False(t, exists)

	empty, err := repo.ListByMeasure(ctx, core.NewID())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDuplicateVersionRejectedByDatabase(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	m := seedMeasure(t, db)
	repo := NewMeasureVersionRepository(db)

	require.NoError(t, repo.Create(ctx, measure.NewMeasureVersion(m.ID, "a", "u", time.Now())))
	assert.Error(t, repo.Create(ctx, measure.NewMeasureVersion(m.ID, "b", "u", time.Now())))
}

func TestRedirectRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRedirectRepository(db)

	rd, err := redirect.New("/health/old", "/health/new", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, rd))
	other, err := redirect.New("/a", "/b", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	got, err := repo.GetByFrom(ctx, "/health/old")
	require.NoError(t, err)
	assert.Equal(t, "/health/new", got.ToURI)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "/a", all[0].FromURI)

	require.NoError(t, repo.Delete(ctx, "/a"))
	assert.ErrorIs(t, repo.Delete(ctx, "/a"), core.ErrRedirectNotFound)
	_, err = repo.GetByFrom(ctx, "/a")
	assert.True(t, core.IsNotFoundError(err))
}
