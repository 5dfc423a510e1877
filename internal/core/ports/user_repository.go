package ports

import (
	"context"
	"time"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
)

// UserRepository defines persistence operations for directory accounts.
// Email lookups expect an already normalised address.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns every account, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies patch atomically and returns the updated document.
	Update(ctx context.Context, id string, patch domain.UserPatch, now time.Time) (*domain.User, error)
	SetStatus(ctx context.Context, id string, status domain.Status, now time.Time) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// Stats counts accounts; users created at or after since are new signups.
	Stats(ctx context.Context, since time.Time) (domain.Stats, error)
}

// LoginThrottle tracks failed sign-in attempts per account key.
type LoginThrottle interface {
	Locked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec interface {
	Issue(session *domain.Session) (string, time.Time, error)
	Parse(token string) (*domain.Session, error)
}

// LoginEvent is a successful sign-in waiting to be stamped on the account.
type LoginEvent struct {
	UserID string
	At     time.Time
}

// LoginRecorder accepts last-login stamps for asynchronous persistence.
type LoginRecorder interface {
	Record(event LoginEvent)
}
