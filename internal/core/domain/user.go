package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the access level granted to a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole normalises s and reports whether it names a known role.
// An empty string resolves to RoleMember.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleMember, nil
	case RoleAdmin, RoleMember:
		return r, nil
	default:
		return "", NewValidationError("role", fmt.Sprintf("role must be one of: %s %s", RoleAdmin, RoleMember))
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

func (r Role) String() string { return string(r) }

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDeactivated
}

func (s Status) String() string { return string(s) }

// CanTransitionTo reports whether the account may move from s to next.
// The only transition is active → deactivated; deactivating twice is a no-op.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusActive || next == StatusDeactivated
	case StatusDeactivated:
		return next == StatusDeactivated
	}
	return false
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")
	ErrUserDeactivated    = errors.New("user is deactivated")
	ErrForbidden          = errors.New("access forbidden")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// User is a directory account.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// IsActive reports whether the account may sign in and be edited.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// NormalizeEmail lower-cases and trims an address; emails compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserPatch carries the fields of a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	Username     *string
	Role         *Role
	PasswordHash *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Username == nil && p.Role == nil && p.PasswordHash == nil
}

// Stats summarises the directory for the admin dashboard.
type Stats struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
	NewSignups  int64 `json:"new_signups"`
}
