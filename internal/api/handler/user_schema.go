package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"omitempty,role"`
}

// updateUserRequest is a partial update: absent fields stay nil and are left unchanged.
type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,min=1,max=64"`
	Role     *string `json:"role"     validate:"omitempty,role"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

// --- Response types ---

// userResponse never carries the password hash. Timestamps are RFC 3339 UTC.
type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	LastLogin string `json:"last_login,omitempty"`
}

type deactivateUserResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type statsResponse struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
	NewSignups  int64 `json:"new_signups"`
}

type sessionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  sessionResponse `json:"user"`
}
