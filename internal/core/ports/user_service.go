package ports

import (
	"context"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
)

// CreateUserInput carries the fields required to create an account.
type CreateUserInput struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     string
}

// UpdateUserInput is a partial update; nil fields are not changed.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Username *string
	Role     *string
	Password *string
}

// UserService defines the directory use cases.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, id string) (*domain.User, error)
	Stats(ctx context.Context) (domain.Stats, error)
}
