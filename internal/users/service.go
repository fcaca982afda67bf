// Package users manages accounts and the role check guarding admin routes.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

type Service struct {
	store storage.UserStore
	nowFn func() time.Time
}

func NewService(store storage.UserStore) *Service {
	return &Service{
		store: store,
		nowFn: time.Now,
	}
}

// Signup registers a new account. The id comes from the identity provider,
// so a repeated signup for a known id is a login, not an error.
func (s *Service) Signup(ctx context.Context, user *v1.User) (created bool, err error) {
	existing, err := s.store.GetUser(ctx, user.ID)
	if err == nil {
		slog.Info("[Users] Returning user signed in", "user_id", existing.ID)
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := user.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", httperr.ErrValidation, err)
	}
	if user.Role == "" {
		user.Role = v1.RoleCustomer
	}
	user.CreatedAt = s.nowFn().UTC()

	if err := s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return false, fmt.Errorf("%w: email already in use", httperr.ErrValidation)
		}
		return false, fmt.Errorf("failed to save user: %w", err)
	}

	slog.Info("[Users] New user registered", "user_id", user.ID, "role", user.Role)
	return true, nil
}

func (s *Service) Get(ctx context.Context, id string) (*v1.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s", httperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*v1.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Authorize resolves the calling user and verifies the admin role. It backs
// the admin-only middleware: the caller identifies itself by user id.
func (s *Service) Authorize(ctx context.Context, id string) (*v1.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing user id", httperr.ErrUnauthorized)
	}
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user %s", httperr.ErrUnauthorized, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Role != v1.RoleAdmin {
		return nil, fmt.Errorf("%w: user %s is not an admin", httperr.ErrUnauthorized, id)
	}
	return user, nil
}
