package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carrental/admin-api/internal/api/session"
	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
)

type stubUserService struct {
	listIn    ports.ListUsersInput
	create    func(actorID string, in ports.CreateUserInput) (*domain.User, error)
	setActive func(actorID, userID string, active bool) (*domain.User, error)
}

func (s *stubUserService) Create(_ context.Context, actorID string, in ports.CreateUserInput) (*domain.User, error) {
	return s.create(actorID, in)
}

func (s *stubUserService) List(_ context.Context, in ports.ListUsersInput) (*ports.UserPage, error) {
	s.listIn = in
	return &ports.UserPage{
		Users:      []*domain.User{{ID: "u-1", Email: "a@b.com"}},
		Total:      1,
		Page:       1,
		Limit:      in.Limit,
		TotalPages: 1,
	}, nil
}

func (s *stubUserService) SetActive(_ context.Context, actorID, userID string, active bool) (*domain.User, error) {
	return s.setActive(actorID, userID, active)
}

func TestUserHandler_List(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubUserService{}
	h := NewUserHandler(stub)

	rec := run(e, h.List, httptest.NewRequest(http.MethodGet, "/api/v1/users?page=2&limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.listIn.Page != 2 || stub.listIn.Limit != 5 {
		t.Fatalf("query not bound: %+v", stub.listIn)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["total"] != float64(1) || len(data["users"].([]any)) != 1 {
		t.Fatalf("unexpected data: %v", data)
	}

	rec = run(e, h.List, httptest.NewRequest(http.MethodGet, "/api/v1/users?page=two", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric page, got %d", rec.Code)
	}
}

func TestUserHandler_SetActive(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubUserService{
		setActive: func(actorID, userID string, active bool) (*domain.User, error) {
			if actorID != "admin-1" || userID != "u-2" || active {
				t.Fatalf("unexpected args: %s %s %v", actorID, userID, active)
			}
			return &domain.User{ID: userID, Active: false}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/api/v1/users/u-2/active", `{"active":false}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("u-2")
	c.Set(session.KeyUserID, "admin-1")
	c.Set(session.KeyRole, "ADMIN")

	if err := h.SetActive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg := decodeEnvelope(t, rec)["message"]; msg != "User deactivated" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestUserHandler_SetActive_RequiresBody(t *testing.T) {
	e := newHandlerEcho()
	h := NewUserHandler(&stubUserService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/api/v1/users/u-2/active", `{}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("u-2")
	c.Set(session.KeyUserID, "admin-1")

	if err := h.SetActive(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeEnvelope(t, rec)["message"]; msg != "active is required" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestUserHandler_Create(t *testing.T) {
	e := newHandlerEcho()
	stub := &stubUserService{
		create: func(actorID string, in ports.CreateUserInput) (*domain.User, error) {
			if actorID != "admin-1" || in.Email != "agent@b.com" || in.Role != "MANAGER" || in.Name != "Agent" {
				t.Fatalf("unexpected args: %s %+v", actorID, in)
			}
			return &domain.User{ID: "u-9", Email: in.Email, Role: domain.RoleManager, Active: true}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users",
		`{"email":" Agent@B.com ","password":"secret1","name":"Agent","role":"MANAGER"}`), rec)
	c.Set(session.KeyUserID, "admin-1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["message"] != "User created successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestUserHandler_Create_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		code int
		msg  string
	}{
		{name: "role missing", body: `{"email":"a@b.com","password":"pw","name":"A"}`, code: http.StatusBadRequest, msg: "role is required"},
		{name: "password missing", body: `{"email":"a@b.com","name":"A","role":"USER"}`, code: http.StatusBadRequest, msg: "password is required"},
		{name: "duplicate", body: `{"email":"a@b.com","password":"pw","name":"A","role":"USER"}`, err: domain.ErrDuplicateEmail, code: http.StatusConflict, msg: "User with this email already exists"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newHandlerEcho()
			h := NewUserHandler(&stubUserService{
				create: func(string, ports.CreateUserInput) (*domain.User, error) {
					if tc.err == nil {
						t.Fatalf("service must not be called")
					}
					return nil, tc.err
				},
			})

			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/users", tc.body), rec)
			c.Set(session.KeyUserID, "admin-1")
			if err := h.Create(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if msg := decodeEnvelope(t, rec)["message"]; msg != tc.msg {
				t.Fatalf("unexpected message: %v", msg)
			}
		})
	}
}
