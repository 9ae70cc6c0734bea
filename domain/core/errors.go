package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound               = errors.New("resource not found")
	ErrMeasureVersionNotFound = fmt.Errorf("%w: measure version", ErrNotFound)
	ErrRedirectNotFound       = fmt.Errorf("%w: redirect", ErrNotFound)
	ErrLookupNotFound         = fmt.Errorf("%w: lookup", ErrNotFound)
	ErrObjectNotFound         = fmt.Errorf("%w: stored object", ErrNotFound)

	// Input errors
	ErrInvalidInput = errors.New("invalid input")
	ErrDataFormat   = errors.New("malformed data")

	// Conflict errors
	ErrConflict       = errors.New("resource already exists")
	ErrVersionExists  = fmt.Errorf("%w: measure version", ErrConflict)
	ErrRedirectExists = fmt.Errorf("%w: redirect", ErrConflict)

	// Workflow errors
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrNotPublished      = errors.New("measure version is not published")
)

// NewNotFoundError builds a not-found error naming the resource and id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewDataFormatError wraps a parse failure as a data format error
func NewDataFormatError(source string, err error) error {
	return fmt.Errorf("%w in %s: %v", ErrDataFormat, source, err)
}

// NewTransitionError describes a rejected workflow move
func NewTransitionError(action, from string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, from)
}

// IsNotFoundError reports whether err is any kind of not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDataFormatError reports whether err came from unparseable input
func IsDataFormatError(err error) bool {
	return errors.Is(err, ErrDataFormat)
}

// IsWorkflowError reports whether err is a rejected workflow operation
func IsWorkflowError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrVersionExists) ||
		errors.Is(err, ErrNotPublished)
}
