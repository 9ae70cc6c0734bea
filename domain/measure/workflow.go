package measure

import (
	"fmt"
	"time"

	"ethnicityfacts/domain/core"
)

// Status is a position in the publishing workflow
type Status string

const (
	StatusRejected         Status = "REJECTED"
	StatusDraft            Status = "DRAFT"
	StatusInternalReview   Status = "INTERNAL_REVIEW"
	StatusDepartmentReview Status = "DEPARTMENT_REVIEW"
	StatusApproved         Status = "APPROVED"
	StatusUnpublish        Status = "UNPUBLISH"
	StatusUnpublished      Status = "UNPUBLISHED"
)

// Statuses lists every status in workflow order
var Statuses = []Status{
	StatusRejected,
	StatusDraft,
	StatusInternalReview,
	StatusDepartmentReview,
	StatusApproved,
	StatusUnpublish,
	StatusUnpublished,
}

// Action is a request to move a version through the workflow
type Action string

const (
	ActionSubmit          Action = "submit"
	ActionReject          Action = "reject"
	ActionUnpublish       Action = "unpublish"
	ActionMarkUnpublished Action = "mark-unpublished"
)

var nextStatus = map[Status]Status{
	StatusRejected:         StatusDraft,
	StatusDraft:            StatusInternalReview,
	StatusInternalReview:   StatusDepartmentReview,
	StatusDepartmentReview: StatusApproved,
}

// ParseStatus validates a stored status value
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", core.ErrInvalidInput, s)
}

// ParseAction validates a requested action
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionSubmit, ActionReject, ActionUnpublish, ActionMarkUnpublished:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", core.ErrInvalidInput, s)
}

// NextState returns the status after a successful submit
func (s Status) NextState() (Status, error) {
	next, ok := nextStatus[s]
	if !ok {
		return s, core.NewTransitionError(string(ActionSubmit), string(s))
	}
	return next, nil
}

// InReview reports whether the status is one of the review stages
func (s Status) InReview() bool {
	return s == StatusInternalReview || s == StatusDepartmentReview
}

// IsPublished reports whether the version is live on the site
func (v *MeasureVersion) IsPublished() bool {
	return v.Status == StatusApproved
}

// EligibleForBuild reports whether the static site build must include the version
func (v *MeasureVersion) EligibleForBuild() bool {
	return v.Status == StatusApproved || v.Status == StatusUnpublish
}

// Apply performs an action, stamping user and time on success
func (v *MeasureVersion) Apply(action Action, user string, now time.Time) error {
	var (
		next Status
		err  error
	)
	switch action {
	case ActionSubmit:
		next, err = v.Status.NextState()
	case ActionReject:
		next, err = v.rejected()
	case ActionUnpublish:
		next, err = v.unpublishing()
	case ActionMarkUnpublished:
		next, err = v.unpublished()
	default:
		_, err = ParseAction(string(action))
	}
	if err != nil {
		return err
	}

	v.Status = next
	v.UpdatedBy = user
	v.UpdatedAt = now
	switch next {
	case StatusApproved:
		if v.PublishedAt == nil {
			published := now
			v.PublishedAt = &published
		}
	case StatusUnpublished:
		unpublished := now
		v.UnpublishedAt = &unpublished
	}
	return nil
}

func (v *MeasureVersion) rejected() (Status, error) {
	if !v.Status.InReview() {
		return v.Status, core.NewTransitionError(string(ActionReject), string(v.Status))
	}
	return StatusRejected, nil
}

func (v *MeasureVersion) unpublishing() (Status, error) {
	if v.Status != StatusApproved {
		return v.Status, core.NewTransitionError(string(ActionUnpublish), string(v.Status))
	}
	return StatusUnpublish, nil
}

func (v *MeasureVersion) unpublished() (Status, error) {
	if v.Status != StatusUnpublish {
		return v.Status, core.NewTransitionError(string(ActionMarkUnpublished), string(v.Status))
	}
	return StatusUnpublished, nil
}

// Submit moves the version one step forward
func (v *MeasureVersion) Submit(user string, now time.Time) error {
	return v.Apply(ActionSubmit, user, now)
}

// Reject sends a version under review back to REJECTED
func (v *MeasureVersion) Reject(user string, now time.Time) error {
	return v.Apply(ActionReject, user, now)
}

// Unpublish requests removal of a published version
func (v *MeasureVersion) Unpublish(user string, now time.Time) error {
	return v.Apply(ActionUnpublish, user, now)
}

// MarkUnpublished records that the site build has removed the version
func (v *MeasureVersion) MarkUnpublished(user string, now time.Time) error {
	return v.Apply(ActionMarkUnpublished, user, now)
}
