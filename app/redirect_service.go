package app

import (
	"context"
	"fmt"
	"time"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/redirect"
	"ethnicityfacts/ports"
)

// RedirectService manages redirect rules
type RedirectService struct {
	repo ports.RedirectRepository
}

// NewRedirectService creates a redirect service
func NewRedirectService(repo ports.RedirectRepository) *RedirectService {
	return &RedirectService{repo: repo}
}

// Create validates and stores a rule
func (s *RedirectService) Create(ctx context.Context, from, to string) (*redirect.Redirect, error) {
	rd, err := redirect.New(from, to, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByFrom(ctx, rd.FromURI); err == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrRedirectExists, rd.FromURI)
	} else if !core.IsNotFoundError(err) {
		return nil, err
	}
	if err := s.repo.Create(ctx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

func (s *RedirectService) List(ctx context.Context) ([]*redirect.Redirect, error) {
	return s.repo.List(ctx)
}

func (s *RedirectService) Delete(ctx context.Context, from string) error {
	return s.repo.Delete(ctx, redirect.Normalise(from))
}

// Target returns where a request path should be sent, if anywhere
func (s *RedirectService) Target(ctx context.Context, path string) (string, bool, error) {
	rd, err := s.repo.GetByFrom(ctx, redirect.Normalise(path))
	if err != nil {
		if core.IsNotFoundError(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return rd.ToURI, true, nil
}
