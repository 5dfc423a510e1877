package handler

import (
	"context"
	"time"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
)

var stamp = time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.Session, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

type stubUserService struct {
	listFn       func(ctx context.Context) ([]*domain.User, error)
	getFn        func(ctx context.Context, id string) (*domain.User, error)
	createFn     func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateFn     func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error)
	deactivateFn func(ctx context.Context, id string) (*domain.User, error)
	statsFn      func(ctx context.Context) (domain.Stats, error)
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) { return s.listFn(ctx) }

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	return s.deactivateFn(ctx, id)
}

func (s *stubUserService) Stats(ctx context.Context) (domain.Stats, error) { return s.statsFn(ctx) }

func sampleUser(id string) *domain.User {
	return &domain.User{
		ID:           id,
		Name:         "Ada Lovelace",
		Email:        "ada@x.com",
		Username:     "ada",
		PasswordHash: "$2a$10$secret",
		Role:         domain.RoleMember,
		Status:       domain.StatusActive,
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
}
