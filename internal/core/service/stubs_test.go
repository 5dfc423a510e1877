package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User // by ID
	nextID  int
	findErr error // if set, FindByEmail returns this error
	touched map[string]time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:   make(map[string]*domain.User),
		touched: make(map[string]time.Time),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.nextID++
	clone := cloneUser(u)
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.UserPatch, now time.Time) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	u.UpdatedAt = now
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetStatus(_ context.Context, id string, status domain.Status, now time.Time) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Status = status
	u.UpdatedAt = now
	return cloneUser(u), nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	r.touched[id] = at
	return nil
}

func (r *stubUserRepo) Stats(_ context.Context, since time.Time) (domain.Stats, error) {
	var s domain.Stats
	for _, u := range r.users {
		s.TotalUsers++
		if u.Status == domain.StatusActive {
			s.ActiveUsers++
		}
		if !u.CreatedAt.Before(since) {
			s.NewSignups++
		}
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Token codec and throttle stubs
// ---------------------------------------------------------------------------

type stubTokens struct {
	issued []*domain.Session
}

func (c *stubTokens) Issue(s *domain.Session) (string, time.Time, error) {
	c.issued = append(c.issued, s)
	return "token-" + s.UserID, time.Unix(1_900_000_000, 0).UTC(), nil
}

func (c *stubTokens) Parse(token string) (*domain.Session, error) {
	for _, s := range c.issued {
		if "token-"+s.UserID == token {
			clone := *s
			return &clone, nil
		}
	}
	return nil, errors.New("bad token")
}

type stubThrottle struct {
	failures map[string]int
	limit    int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) Locked(_ context.Context, key string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[key] >= t.limit, nil
}

func (t *stubThrottle) Fail(_ context.Context, key string) error {
	t.failures[key]++
	return t.err
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	delete(t.failures, key)
	return t.err
}

var testHasher = NewHasher(bcrypt.MinCost)
