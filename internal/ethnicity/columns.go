package ethnicity

import "strings"

// Header names searched, in order, when the caller does not name a column.
var (
	DefaultEthnicityColumns     = []string{"ethnicity", "ethnic group"}
	DefaultEthnicityTypeColumns = []string{"ethnicity type", "ethnicity_type", "ethnicity-type"}
)

// FindColumn returns the index of the first header cell matching a candidate
// name case-insensitively, or -1. An explicit name replaces the defaults.
// Header cells are lower-cased but not trimmed.
func FindColumn(header []string, explicit string, defaults []string) int {
	candidates := defaults
	if explicit != "" {
		candidates = []string{explicit}
	}

	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(h)
	}

	for _, candidate := range candidates {
		want := strings.ToLower(candidate)
		for i, h := range lowered {
			if h == want {
				return i
			}
		}
	}
	return -1
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
