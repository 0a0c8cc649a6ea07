package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carrental/admin-api/internal/api/response"
	"github.com/carrental/admin-api/internal/api/session"
	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     session.Cookies
}

func NewAuthHandler(authService ports.AuthService, cookies session.Cookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

type loginRequest struct {
	Email    string `json:"email" example:"a@b.com"`
	Password string `json:"password" example:"secret1"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=254" example:"a@b.com"`
	Password string `json:"password" validate:"omitempty,max=72" example:"secret1"`
	Name     string `json:"name" validate:"max=120" example:"A"`
	Role     string `json:"role,omitempty" example:"MANAGER"`
}

func (r *registerRequest) normalize() {
	r.Email = domain.NormalizeEmail(r.Email)
}

type sessionData struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type userData struct {
	User *domain.User `json:"user"`
}

type tokenData struct {
	Token string `json:"token"`
}

// Login authenticates a user and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  response.Envelope{data=sessionData}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      429   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /api/v1/auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		return err
	}

	h.cookies.Set(c, sess.Token)
	return response.JSON(c, http.StatusOK, "Login successful", sessionData{Token: sess.Token, User: sess.User})
}

// Register creates an account. It does not sign the new user in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  response.Envelope{data=domain.User}
// @Failure      400   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /api/v1/auth [put]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusCreated, "User created successfully", user)
}

// Verify reports the account behind the current session token.
//
// @Summary      Verify session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=userData}
// @Failure      401  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /api/v1/auth [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	user, err := h.authService.VerifySession(c.Request().Context(), session.TokenFromRequest(c.Request()))
	if err != nil {
		return h.rejectSession(c, err)
	}
	return response.JSON(c, http.StatusOK, "Token valid", userData{User: user})
}

// Refresh exchanges a valid session token for a new one.
//
// @Summary      Refresh session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=tokenData}
// @Failure      401  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	sess, err := h.authService.Refresh(c.Request().Context(), session.TokenFromRequest(c.Request()))
	if err != nil {
		return h.rejectSession(c, err)
	}

	h.cookies.Set(c, sess.Token)
	return response.JSON(c, http.StatusOK, "Token refreshed", tokenData{Token: sess.Token})
}

// Logout clears the session cookie. Tokens stay valid until they expire.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/v1/auth [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.authService.Logout(c.Request().Context(), session.TokenFromRequest(c.Request()))
	h.cookies.Clear(c)
	return response.JSON(c, http.StatusOK, "Logged out", nil)
}

// rejectSession drops a cookie that no longer names a usable session.
func (h *AuthHandler) rejectSession(c echo.Context, err error) error {
	if code, _ := response.Resolve(err); code == http.StatusUnauthorized {
		h.cookies.Clear(c)
	}
	return err
}
