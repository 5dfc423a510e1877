package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
)

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenCodec
	hasher   *Hasher
	throttle ports.LoginThrottle
	recorder ports.LoginRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithThrottle enables failed-attempt lockout.
func WithThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithLoginRecorder hands last-login stamps to r instead of writing them inline.
func WithLoginRecorder(r ports.LoginRecorder) AuthOption {
	return func(s *AuthService) { s.recorder = r }
}

// WithAuthClock overrides the time source used for last-login stamps.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenCodec, hasher *Hasher, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks email and password against the directory. Every credential
// failure returns ErrInvalidCredentials so callers cannot tell an unknown
// email from a wrong password or a deactivated account.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		locked, err := s.throttle.Locked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable")
		} else if locked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Burn(password)
			return "", nil, s.reject(ctx, email, "unknown_email")
		}
		return "", nil, err
	}

	if !s.hasher.Matches(user.PasswordHash, password) {
		return "", nil, s.reject(ctx, email, "bad_password")
	}
	if !user.IsActive() {
		return "", nil, s.reject(ctx, email, "inactive")
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	if s.recorder != nil {
		s.recorder.Record(ports.LoginEvent{UserID: user.ID, At: s.now()})
	} else if err := s.repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return "", nil, err
	}

	session := domain.NewSession(user)
	token, expiresAt, err := s.tokens.Issue(session)
	if err != nil {
		return "", nil, err
	}
	session.ExpiresAt = expiresAt

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user signed in")
	return token, session, nil
}

// Authenticate verifies a session token and reloads the account it names.
// Deactivated or deleted accounts are rejected, and the returned claims carry
// the account's current name, email and role, so a demotion applies to the
// next request rather than when the token expires.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}
	session, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrInvalidCredentials
	}

	session.Name = user.Name
	session.Email = user.Email
	session.Role = user.Role
	return session, nil
}

func (s *AuthService) reject(ctx context.Context, email, reason string) error {
	s.log.Info().Str("reason", reason).Msg("sign-in rejected")
	if s.throttle != nil {
		if err := s.throttle.Fail(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle update failed")
		}
	}
	return domain.ErrInvalidCredentials
}
