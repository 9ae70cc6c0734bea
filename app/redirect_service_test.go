package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/redirect"
)

type MockRedirectRepository struct {
	mock.Mock
}

func (m *MockRedirectRepository) Create(ctx context.Context, r *redirect.Redirect) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRedirectRepository) List(ctx context.Context) ([]*redirect.Redirect, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*redirect.Redirect), args.Error(1)
}

func (m *MockRedirectRepository) GetByFrom(ctx context.Context, from string) (*redirect.Redirect, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redirect.Redirect), args.Error(1)
}

func (m *MockRedirectRepository) Delete(ctx context.Context, from string) error {
	return m.Called(ctx, from).Error(0)
}

func TestRedirectCreate(t *testing.T) {
	repo := &MockRedirectRepository{}
	svc := NewRedirectService(repo)

	repo.On("GetByFrom", mock.Anything, "/old").Return(nil, core.ErrRedirectNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*redirect.Redirect")).Return(nil)

	rd, err := svc.Create(context.Background(), "old/", "/new")
	require.NoError(t, err)
	assert.Equal(t, "/old", rd.FromURI)
	repo.AssertExpectations(t)
}

func TestRedirectCreateDuplicate(t *testing.T) {
	repo := &MockRedirectRepository{}
	svc := NewRedirectService(repo)
	repo.On("GetByFrom", mock.Anything, "/old").Return(&redirect.Redirect{FromURI: "/old", ToURI: "/x"}, nil)

	_, err := svc.Create(context.Background(), "/old", "/new")
	assert.ErrorIs(t, err, core.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRedirectTarget(t *testing.T) {
	repo := &MockRedirectRepository{}
	svc := NewRedirectService(repo)
	repo.On("GetByFrom", mock.Anything, "/old").Return(&redirect.Redirect{FromURI: "/old", ToURI: "/new"}, nil)
	repo.On("GetByFrom", mock.Anything, "/other").Return(nil, core.ErrRedirectNotFound)

	to, ok, err := svc.Target(context.Background(), "/old/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/new", to)

	_, ok, err = svc.Target(context.Background(), "/other")
	require.NoError(t, err)
	assert.False(t, ok)
}
