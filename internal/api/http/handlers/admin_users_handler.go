package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetdesk/fleetdesk/internal/api/dto"
	"github.com/fleetdesk/fleetdesk/internal/auth"
	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/service"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

// AdminUsersHandler manages dashboard accounts. All routes require the
// admin role, enforced at the router.
type AdminUsersHandler struct {
	service *service.UserAdminService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(userService *service.UserAdminService) *AdminUsersHandler {
	return &AdminUsersHandler{service: userService}
}

// List GET /api/admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	params := pagination.ParseParams(c.Query("page"), c.Query("limit"))
	users, envelope, err := h.service.List(c.Context(), params)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": dto.UserListResponse{Users: items, Pagination: envelope}})
}

// Create POST /api/admin/users.
func (h *AdminUsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.ValidateStruct(req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Context(), service.UserCreateInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Get GET /api/admin/users/:id.
func (h *AdminUsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Update PUT /api/admin/users/:id.
func (h *AdminUsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.ValidateStruct(req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Context(), c.Params("id"), service.UserUpdateInput{
		Email:  req.Email,
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Delete DELETE /api/admin/users/:id. Self-deletion is refused.
func (h *AdminUsersHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	if err := h.service.Delete(c.Context(), actor.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// SetRoles PUT /api/admin/users/:id/roles.
func (h *AdminUsersHandler) SetRoles(c *fiber.Ctx) error {
	var req dto.SetRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.SetRoles(c.Context(), c.Params("id"), req.Roles)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// SetPassword PUT /api/admin/users/:id/password.
func (h *AdminUsersHandler) SetPassword(c *fiber.Ctx) error {
	var req dto.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.ValidateStruct(req); err != nil {
		return err
	}

	if err := h.service.SetPassword(c.Context(), c.Params("id"), req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// ListRoles GET /api/admin/roles.
func (h *AdminUsersHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.service.ListRoles(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roles})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Active:    user.Active,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}
}
