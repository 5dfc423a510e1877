// Package web serves the server-rendered dashboard: the sign-in page, the
// member area and the admin dashboard.
package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/useradmin/user-admin-dashboard/internal/api/middleware"
	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
)

const (
	signInPath = "/"
	memberPath = "/member"
	adminPath  = "/admin"
)

type pageData struct {
	Session *domain.Session
	Error   string
	Email   string
	Stats   domain.Stats
	Users   []*domain.User
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Handler serves the dashboard pages.
type Handler struct {
	auth         ports.AuthService
	users        ports.UserService
	cookieSecure bool
	log          zerolog.Logger
}

func NewHandler(auth ports.AuthService, users ports.UserService, cookieSecure bool, log zerolog.Logger) *Handler {
	return &Handler{auth: auth, users: users, cookieSecure: cookieSecure, log: log}
}

// Register mounts the pages on e. loginLimiter guards the form sign-in.
func (h *Handler) Register(e *echo.Echo, loginLimiter echo.MiddlewareFunc) {
	deny := middleware.DenyRedirect(signInPath)
	authenticated := middleware.Auth(h.auth, deny)

	e.GET(signInPath, h.SignIn)
	e.POST("/login", h.Login, loginLimiter)
	e.POST("/logout", h.Logout)
	e.GET(memberPath, h.Member, authenticated)
	e.GET(adminPath, h.Admin, authenticated, middleware.RBAC(deny, domain.RoleAdmin))
}

// SignIn renders the sign-in form, or forwards a signed-in visitor to their landing page.
func (h *Handler) SignIn(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if session, err := h.auth.Authenticate(c.Request().Context(), cookie.Value); err == nil {
			return c.Redirect(http.StatusSeeOther, landingPath(session))
		}
	}
	return c.Render(http.StatusOK, "login", pageData{})
}

// Login handles the sign-in form. Every credential failure shows the same message.
func (h *Handler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "login", pageData{Error: "Invalid email or password."})
	}

	token, session, err := h.auth.Login(c.Request().Context(), form.Email, form.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Render(http.StatusUnauthorized, "login", pageData{Error: "Invalid email or password.", Email: form.Email})
	case errors.Is(err, domain.ErrTooManyAttempts):
		return c.Render(http.StatusTooManyRequests, "login", pageData{Error: "Too many failed attempts. Try again later.", Email: form.Email})
	default:
		h.log.Error().Err(err).Msg("form sign-in failed")
		return c.Render(http.StatusInternalServerError, "login", pageData{Error: err.Error(), Email: form.Email})
	}

	middleware.SetSessionCookie(c, token, session.ExpiresAt, h.cookieSecure)
	return c.Redirect(http.StatusSeeOther, landingPath(session))
}

func (h *Handler) Logout(c echo.Context) error {
	middleware.ClearSessionCookie(c, h.cookieSecure)
	return c.Redirect(http.StatusSeeOther, signInPath)
}

func (h *Handler) Member(c echo.Context) error {
	return c.Render(http.StatusOK, "member", pageData{Session: middleware.SessionFrom(c)})
}

// Admin renders directory statistics and the user table.
func (h *Handler) Admin(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.users.Stats(ctx)
	if err != nil {
		return err
	}
	users, err := h.users.List(ctx)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "admin", pageData{
		Session: middleware.SessionFrom(c),
		Stats:   stats,
		Users:   users,
	})
}

func landingPath(s *domain.Session) string {
	if s.IsAdmin() {
		return adminPath
	}
	return memberPath
}
