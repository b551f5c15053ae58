package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"admindesk/internal/apperrors"
	"admindesk/internal/model"
	"admindesk/internal/repository"
	"admindesk/internal/service"
)

// UserHandler bundles the admin user-management handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsersRequest captures the list endpoint's query string.
type ListUsersRequest struct {
	Q    string `query:"q"`
	Sort string `query:"sort" validate:"omitempty,oneof=createdAt name email role"`
	Dir  string `query:"dir" validate:"omitempty,oneof=asc desc"`
}

// CreateUserRequest is the admin-create payload.
type CreateUserRequest struct {
	Email string     `json:"email" validate:"required,email"`
	Name  string     `json:"name" validate:"required"`
	Role  model.Role `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// UpdateUserRequest is the partial-update payload; absent fields stay untouched.
type UpdateUserRequest struct {
	Name *string     `json:"name" validate:"omitempty,min=1"`
	Role *model.Role `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// DeleteResponse acknowledges a successful delete.
type DeleteResponse struct {
	OK bool `json:"ok"`
}

// List godoc
// @Summary List users with search, sort, and pagination
// @Tags users
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param q query string false "Substring filter on email or name"
// @Param sort query string false "Sort key" Enums(createdAt, name, email, role)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} service.UserPage
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var req ListUsersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := pageParam(c)
	if err != nil {
		return err
	}

	q := repository.ListQuery{
		Page: page,
		Q:    req.Q,
		Sort: req.Sort,
		Dir:  req.Dir,
	}
	if q.Sort == "" {
		q.Sort = "createdAt"
	}
	if q.Dir == "" {
		q.Dir = "desc"
	}

	result, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// Create godoc
// @Summary Create a user with a temporary password
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User payload"
// @Success 200 {object} model.User
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Create(c.Request().Context(), service.CreateUserInput{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// Update godoc
// @Summary Update a user's name or role
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Update(c.Request().Context(), id, service.UpdateUserInput{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} DeleteResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DeleteResponse{OK: true})
}

// idParam parses the :id path segment as a positive integer.
func idParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// pageParam parses ?page, defaulting to 1 and rejecting non-positive values.
func pageParam(c echo.Context) (int, error) {
	raw := c.QueryParam("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid page",
			Code:  "INVALID_PAGE",
		})
	}
	return page, nil
}
