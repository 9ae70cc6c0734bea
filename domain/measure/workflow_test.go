package measure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethnicityfacts/domain/core"
)

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newVersion(status Status) *MeasureVersion {
	v := NewMeasureVersion(core.NewID(), "Employment", "author@example.gov.uk", testNow)
	v.Status = status
	return v
}

func TestNextState(t *testing.T) {
	tests := []struct {
		from    Status
		want    Status
		wantErr bool
	}{
		{StatusRejected, StatusDraft, false},
		{StatusDraft, StatusInternalReview, false},
		{StatusInternalReview, StatusDepartmentReview, false},
		{StatusDepartmentReview, StatusApproved, false},
		{StatusApproved, StatusApproved, true},
		{StatusUnpublish, StatusUnpublish, true},
		{StatusUnpublished, StatusUnpublished, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			got, err := tt.from.NextState()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitThroughToApproved(t *testing.T) {
	v := newVersion(StatusDraft)
	later := testNow.Add(time.Hour)

	require.NoError(t, v.Submit("reviewer", later))
	require.NoError(t, v.Submit("reviewer", later))
	assert.Nil(t, v.PublishedAt)
	require.NoError(t, v.Submit("dept", later))

	assert.Equal(t, StatusApproved, v.Status)
	assert.True(t, v.IsPublished())
	require.NotNil(t, v.PublishedAt)
	assert.Equal(t, later, *v.PublishedAt)
	assert.Equal(t, "dept", v.UpdatedBy)
	assert.Equal(t, later, v.UpdatedAt)
}

func TestReject(t *testing.T) {
	for _, st := range []Status{StatusInternalReview, StatusDepartmentReview} {
		v := newVersion(st)
		require.NoError(t, v.Reject("reviewer", testNow))
		assert.Equal(t, StatusRejected, v.Status)
	}

	for _, st := range []Status{StatusDraft, StatusApproved, StatusRejected, StatusUnpublished} {
		v := newVersion(st)
		err := v.Reject("reviewer", testNow)
		assert.ErrorIs(t, err, core.ErrInvalidTransition)
		assert.Equal(t, st, v.Status, "status must not change on a rejected move")
	}
}

func TestUnpublishLifecycle(t *testing.T) {
	v := newVersion(StatusApproved)
	published := testNow
	v.PublishedAt = &published

	require.NoError(t, v.Unpublish("admin", testNow))
	assert.Equal(t, StatusUnpublish, v.Status)
	assert.True(t, v.EligibleForBuild())
	assert.False(t, v.IsPublished())

	done := testNow.Add(24 * time.Hour)
	require.NoError(t, v.MarkUnpublished("builder", done))
	assert.Equal(t, StatusUnpublished, v.Status)
	require.NotNil(t, v.UnpublishedAt)
	assert.Equal(t, done, *v.UnpublishedAt)
	assert.Equal(t, published, *v.PublishedAt)
	assert.False(t, v.EligibleForBuild())
}

func TestUnpublishRequiresApproved(t *testing.T) {
	v := newVersion(StatusDraft)
	assert.ErrorIs(t, v.Unpublish("admin", testNow), core.ErrInvalidTransition)
	assert.ErrorIs(t, v.MarkUnpublished("admin", testNow), core.ErrInvalidTransition)
}

func TestApplyUnknownAction(t *testing.T) {
	v := newVersion(StatusDraft)
	err := v.Apply(Action("publish"), "x", testNow)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Equal(t, StatusDraft, v.Status)
}

func TestRepublishKeepsFirstPublishedAt(t *testing.T) {
	v := newVersion(StatusDepartmentReview)
	first := testNow.Add(-48 * time.Hour)
	v.PublishedAt = &first

	require.NoError(t, v.Submit("dept", testNow))
	assert.Equal(t, first, *v.PublishedAt)
}

func TestParseStatusAndAction(t *testing.T) {
	st, err := ParseStatus("DEPARTMENT_REVIEW")
	require.NoError(t, err)
	assert.Equal(t, StatusDepartmentReview, st)

	_, err = ParseStatus("draft")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	a, err := ParseAction("mark-unpublished")
	require.NoError(t, err)
	assert.Equal(t, ActionMarkUnpublished, a)

	_, err = ParseAction("approve")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
