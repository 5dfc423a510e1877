package ports

import (
	"context"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Session, error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}
