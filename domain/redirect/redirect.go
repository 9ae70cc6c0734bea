// Package redirect models permanent URL redirects kept when pages move.
package redirect

import (
	"fmt"
	"strings"
	"time"

	"ethnicityfacts/domain/core"
)

// Redirect sends requests for FromURI to ToURI with a 301
type Redirect struct {
	FromURI   string    `json:"from_uri" db:"from_uri"`
	ToURI     string    `json:"to_uri" db:"to_uri"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// New validates and normalises a redirect rule
func New(from, to string, now time.Time) (*Redirect, error) {
	from = Normalise(from)
	if from == "" {
		return nil, fmt.Errorf("%w: redirect source is required", core.ErrInvalidInput)
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, fmt.Errorf("%w: redirect target is required", core.ErrInvalidInput)
	}
	if !isAbsoluteURL(to) {
		to = Normalise(to)
	}
	if to == from {
		return nil, fmt.Errorf("%w: %s redirects to itself", core.ErrInvalidInput, from)
	}
	return &Redirect{FromURI: from, ToURI: to, CreatedAt: now}, nil
}

// Normalise gives a path a single leading slash and strips any trailing
// slash except on the root. Blank input stays blank.
func Normalise(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ""
	}
	uri = "/" + strings.TrimLeft(uri, "/")
	if len(uri) > 1 {
		uri = strings.TrimRight(uri, "/")
		if uri == "" {
			uri = "/"
		}
	}
	return uri
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
