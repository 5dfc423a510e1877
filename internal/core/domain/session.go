package domain

import "time"

// Session is the identity carried by a signed session token.
type Session struct {
	UserID    string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session grants access to the management surfaces.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// NewSession builds the claims bundle for u.
func NewSession(u *User) *Session {
	return &Session{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}
