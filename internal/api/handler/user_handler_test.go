package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestUserHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{sampleUser("u2"), sampleUser("u1")}, nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users", nil), rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "u2" || resp[0].CreatedAt != "2026-04-02T10:30:00Z" {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestUserHandler_List_StoreError(t *testing.T) {
	e := newEcho()
	boom := errors.New("store unavailable")
	handler := NewUserHandler(&stubUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) { return nil, boom },
	})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users", nil), httptest.NewRecorder())
	if err := handler.List(c); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			if in.Name != "Ada Lovelace" || in.Email != "ada@x.com" || in.Username != "ada" || in.Password != "secret1" || in.Role != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return sampleUser("u1"), nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/users",
		`{"name":"Ada Lovelace","email":"ada@x.com","username":"ada","password":"secret1"}`), rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Role != "member" || resp.Status != "active" || resp.LastLogin != "" {
		t.Fatalf("unexpected user: %+v", resp)
	}
}

func TestUserHandler_Create_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"missing name":   `{"email":"a@x.com","username":"a","password":"secret1"}`,
		"bad email":      `{"name":"A","email":"nope","username":"a","password":"secret1"}`,
		"short password": `{"name":"A","email":"a@x.com","username":"a","password":"123"}`,
		"unknown role":   `{"name":"A","email":"a@x.com","username":"a","password":"secret1","role":"root"}`,
	}

	for name, body := range cases {
		e := newEcho()
		handler := NewUserHandler(&stubUserService{
			createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
				t.Fatalf("%s: service should not be called", name)
				return nil, nil
			},
		})

		c := e.NewContext(jsonRequest(http.MethodPost, "/api/users", body), httptest.NewRecorder())
		var ve *domain.ValidationError
		if err := handler.Create(c); !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
	}
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/users",
		`{"name":"A","email":"a@x.com","username":"a","password":"secret1"}`), httptest.NewRecorder())
	if err := handler.Create(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrUserNotFound
		},
	})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/missing", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Update_PartialFields(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Role == nil || *in.Role != "admin" {
				t.Fatalf("expected role in input, got %+v", in.Role)
			}
			if in.Name != nil || in.Email != nil || in.Username != nil || in.Password != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			u := sampleUser(id)
			u.Role = domain.RoleAdmin
			return u, nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/users/u1", `{"role":"admin"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Role != "admin" {
		t.Fatalf("expected admin, got %q", resp.Role)
	}
}

func TestUserHandler_Update_InvalidEmail(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPut, "/api/users/u1", `{"email":"not-an-email"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("u1")

	var ve *domain.ValidationError
	if err := handler.Update(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		deactivateFn: func(ctx context.Context, id string) (*domain.User, error) {
			u := sampleUser(id)
			u.Status = domain.StatusDeactivated
			return u, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/users/u1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp deactivateUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "User deactivated successfully" || resp.User.Status != "deactivated" || resp.User.ID != "u1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_Stats(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		statsFn: func(ctx context.Context) (domain.Stats, error) {
			return domain.Stats{TotalUsers: 4, ActiveUsers: 3, NewSignups: 2}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/stats", nil), rec)

	if err := handler.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"total_users":4,"active_users":3,"new_signups":2}` {
		t.Fatalf("unexpected body: %s", got)
	}
}
