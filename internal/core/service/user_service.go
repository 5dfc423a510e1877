package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
)

// signupWindow is how far back a creation counts as a new signup.
const signupWindow = 30 * 24 * time.Hour

// UserService implements the directory use cases.
type UserService struct {
	repo   ports.UserRepository
	hasher *Hasher
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, hasher *Hasher, log zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates input, checks email then username uniqueness, and stores
// the account with a hashed password.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	if name == "" || email == "" || username == "" || input.Password == "" {
		return nil, domain.NewValidationError("", "Name, email, username, and password are required.")
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", role.String()).Msg("user created")
	return created, nil
}

// Update applies the provided fields only. Deactivated accounts cannot be edited.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsActive() {
		return nil, domain.ErrUserDeactivated
	}

	var patch domain.UserPatch
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "name cannot be empty")
		}
		patch.Name = &name
	}
	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if email == "" {
			return nil, domain.NewValidationError("email", "email cannot be empty")
		}
		if email != current.Email {
			if err := s.ensureEmailFree(ctx, email, current.ID); err != nil {
				return nil, err
			}
		}
		patch.Email = &email
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, domain.NewValidationError("username", "username cannot be empty")
		}
		if username != current.Username {
			if err := s.ensureUsernameFree(ctx, username, current.ID); err != nil {
				return nil, err
			}
		}
		patch.Username = &username
	}
	if input.Role != nil {
		role, err := domain.ParseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		patch.Role = &role
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	if patch.Empty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, current.ID, patch, s.now())
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// Deactivate soft-deletes the account. Repeating it leaves the account deactivated.
func (s *UserService) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.StatusDeactivated) {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("status cannot change from %s to %s", current.Status, domain.StatusDeactivated))
	}

	user, err := s.repo.SetStatus(ctx, current.ID, domain.StatusDeactivated, s.now())
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user deactivated")
	return user, nil
}

// Seed creates input as an account unless its email is already registered.
// It reports whether a new account was stored.
func (s *UserService) Seed(ctx context.Context, input ports.CreateUserInput) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}
	if _, err := s.Create(ctx, input); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx, s.now().Add(-signupWindow))
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.ErrEmailTaken
	}
	return nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username, selfID string) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.ErrUsernameTaken
	}
	return nil
}
