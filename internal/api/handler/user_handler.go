package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carrental/admin-api/internal/api/response"
	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type userListData struct {
	Users      []*domain.User `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" example:"agent@b.com"`
	Password string `json:"password" validate:"required,max=72" example:"secret1"`
	Name     string `json:"name" validate:"required,max=120" example:"Agent"`
	Role     string `json:"role" validate:"required" example:"MANAGER"`
}

func (r *createUserRequest) normalize() {
	r.Email = domain.NormalizeEmail(r.Email)
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// List returns a page of accounts, newest first.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  response.Envelope{data=userListData}
// @Failure      400    {object}  response.Envelope
// @Failure      401    {object}  response.Envelope
// @Failure      403    {object}  response.Envelope
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var in ports.ListUsersInput
	if err := echo.QueryParamsBinder(c).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError(); err != nil {
		return domain.NewValidationError("page and limit must be integers")
	}

	page, err := h.userService.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, "Users retrieved", userListData{
		Users:      page.Users,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// Create adds an account with an explicit role on behalf of an administrator.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New account"
// @Success      201   {object}  response.Envelope{data=domain.User}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Create(c.Request().Context(), actor.UserID, ports.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusCreated, "User created successfully", user)
}

// SetActive enables or disables an account.
//
// @Summary      Enable or disable a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User ID"
// @Param        body  body      setActiveRequest  true  "Desired state"
// @Success      200   {object}  response.Envelope{data=domain.User}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/v1/users/{id}/active [patch]
func (h *UserHandler) SetActive(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.SetActive(c.Request().Context(), actor.UserID, c.Param("id"), *req.Active)
	if err != nil {
		return err
	}

	msg := "User deactivated"
	if user.Active {
		msg = "User activated"
	}
	return response.JSON(c, http.StatusOK, msg, user)
}
