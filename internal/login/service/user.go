package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/internal/login/store"
)

type UserService struct {
	Store store.Store
}

// GetByMetaID fetches a user by Meta platform id.
func (s *UserService) GetByMetaID(ctx context.Context, metaID string) (domain.User, error) {
	u, err := s.Store.Users().GetByMetaID(ctx, metaID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: user with metaId %s was not found", ErrUserNotFound, metaID)
	}
	return u, err
}

// GetByMobile fetches a user by mobile number.
func (s *UserService) GetByMobile(ctx context.Context, mobile string) (domain.User, error) {
	u, err := s.Store.Users().GetByMobile(ctx, mobile)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: user with mobile number %s was not found", ErrUserNotFound, mobile)
	}
	return u, err
}
