package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetdesk/fleetdesk/internal/api/dto"
	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/service"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

// OwnersHandler manages owner CRUD endpoints.
type OwnersHandler struct {
	service *service.OwnerService
}

// NewOwnersHandler constructs handler.
func NewOwnersHandler(ownerService *service.OwnerService) *OwnersHandler {
	return &OwnersHandler{service: ownerService}
}

// List GET /api/owners.
func (h *OwnersHandler) List(c *fiber.Ctx) error {
	params := pagination.ParseParams(c.Query("page"), c.Query("limit"))
	owners, envelope, err := h.service.List(c.Context(), c.Query("search"), params)
	if err != nil {
		return err
	}
	items := make([]dto.OwnerResponse, 0, len(owners))
	for i := range owners {
		items = append(items, ownerResponse(&owners[i]))
	}
	return c.JSON(fiber.Map{"data": dto.OwnerListResponse{Owners: items, Pagination: envelope}})
}

// Create POST /api/owners.
func (h *OwnersHandler) Create(c *fiber.Ctx) error {
	input, err := parseOwnerInput(c)
	if err != nil {
		return err
	}
	owner, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ownerResponse(owner)})
}

// Get GET /api/owners/:id.
func (h *OwnersHandler) Get(c *fiber.Ctx) error {
	owner, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ownerResponse(owner)})
}

// Update PUT /api/owners/:id.
func (h *OwnersHandler) Update(c *fiber.Ctx) error {
	input, err := parseOwnerInput(c)
	if err != nil {
		return err
	}
	owner, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ownerResponse(owner)})
}

// CheckDependencies GET /api/owners/:id/check-dependencies.
func (h *OwnersHandler) CheckDependencies(c *fiber.Ctx) error {
	deps, err := h.service.CheckDependencies(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OwnerDependenciesResponse{
		Vans:      deps.Vans,
		Tickets:   deps.Tickets,
		CanDelete: deps.CanDelete(),
	}})
}

// Delete DELETE /api/owners/:id.
func (h *OwnersHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseOwnerInput(c *fiber.Ctx) (service.OwnerInput, error) {
	var req dto.OwnerRequest
	if err := c.BodyParser(&req); err != nil {
		return service.OwnerInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.OwnerInput{
		Name:    req.Name,
		Company: req.Company,
		Phone:   req.Phone,
		Email:   req.Email,
	}, nil
}

func ownerResponse(owner *domain.Owner) dto.OwnerResponse {
	return dto.OwnerResponse{
		ID:        owner.ID,
		Name:      owner.Name,
		Company:   owner.Company,
		Phone:     owner.Phone,
		Email:     owner.Email,
		CreatedAt: owner.CreatedAt,
	}
}
