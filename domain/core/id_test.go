package core

import (
	"errors"
	"fmt"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input    string
		expected ID
		hasError bool
	}{
		{"valid-id", ID("valid-id"), false},
		{"  padded  ", ID("padded"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseID(test.input)
		if test.hasError && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for input '%s', got %v", test.input, err)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestHash(t *testing.T) {
	a := NewHash([]byte("ethnicity,value\n"))
	b := NewHash([]byte("ethnicity,value\n"))
	c := NewHash([]byte("ethnicity,value\r\n"))

	if a != b {
		t.Errorf("Expected identical input to hash equally: %s vs %s", a, b)
	}
	if a == c {
		t.Error("Expected different input to hash differently")
	}
	if len(a.Short()) != 12 {
		t.Errorf("Expected short hash of 12 characters, got %q", a.Short())
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsNotFoundError(ErrMeasureVersionNotFound) {
		t.Error("measure version not found should be a not-found error")
	}
	if !IsNotFoundError(NewNotFoundError("redirect", "/a")) {
		t.Error("NewNotFoundError should wrap ErrNotFound")
	}
	if !IsDataFormatError(NewDataFormatError("lookup.csv", fmt.Errorf("bare quote"))) {
		t.Error("NewDataFormatError should wrap ErrDataFormat")
	}
	if !IsWorkflowError(NewTransitionError("reject", "DRAFT")) {
		t.Error("NewTransitionError should be a workflow error")
	}
	if IsWorkflowError(ErrNotFound) {
		t.Error("ErrNotFound is not a workflow error")
	}
}
