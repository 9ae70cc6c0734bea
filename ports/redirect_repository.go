package ports

import (
	"context"

	"ethnicityfacts/domain/redirect"
)

// RedirectRepository stores URL redirect rules keyed by source path
type RedirectRepository interface {
	Create(ctx context.Context, r *redirect.Redirect) error
	List(ctx context.Context) ([]*redirect.Redirect, error)
	GetByFrom(ctx context.Context, fromURI string) (*redirect.Redirect, error)
	Delete(ctx context.Context, fromURI string) error
}
