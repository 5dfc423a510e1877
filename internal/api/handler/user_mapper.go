package handler

import (
	"time"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	}
}

func toUpdateInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Role:     req.Role,
		Password: req.Password,
	}
}

// --- Domain → HTTP response ---

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role.String(),
		Status:    u.Status.String(),
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
	if u.LastLogin != nil {
		resp.LastLogin = formatTime(*u.LastLogin)
	}
	return resp
}

func toUserListResponse(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toStatsResponse(s domain.Stats) statsResponse {
	return statsResponse{
		TotalUsers:  s.TotalUsers,
		ActiveUsers: s.ActiveUsers,
		NewSignups:  s.NewSignups,
	}
}

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:    s.UserID,
		Name:  s.Name,
		Email: s.Email,
		Role:  s.Role.String(),
	}
	if !s.ExpiresAt.IsZero() {
		resp.ExpiresAt = formatTime(s.ExpiresAt)
	}
	return resp
}
