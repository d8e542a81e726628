package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetdesk/fleetdesk/internal/api/dto"
	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/service"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

// VansHandler manages van CRUD endpoints.
type VansHandler struct {
	service *service.VanService
}

// NewVansHandler constructs handler.
func NewVansHandler(vanService *service.VanService) *VansHandler {
	return &VansHandler{service: vanService}
}

// List GET /api/vans. Optional owner_id filter; rows sort by van number.
func (h *VansHandler) List(c *fiber.Ctx) error {
	params := pagination.ParseParams(c.Query("page"), c.Query("limit"))
	var ownerID *string
	if v := c.Query("owner_id"); v != "" {
		ownerID = &v
	}
	vans, envelope, err := h.service.List(c.Context(), ownerID, params)
	if err != nil {
		return err
	}
	items := make([]dto.VanResponse, 0, len(vans))
	for i := range vans {
		items = append(items, vanResponse(&vans[i]))
	}
	return c.JSON(fiber.Map{"data": dto.VanListResponse{Vans: items, Pagination: envelope}})
}

// Create POST /api/vans.
func (h *VansHandler) Create(c *fiber.Ctx) error {
	input, err := parseVanInput(c)
	if err != nil {
		return err
	}
	van, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": vanResponse(van)})
}

// Get GET /api/vans/:id.
func (h *VansHandler) Get(c *fiber.Ctx) error {
	van, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vanResponse(van)})
}

// Update PUT /api/vans/:id.
func (h *VansHandler) Update(c *fiber.Ctx) error {
	input, err := parseVanInput(c)
	if err != nil {
		return err
	}
	van, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vanResponse(van)})
}

// Delete DELETE /api/vans/:id.
func (h *VansHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseVanInput(c *fiber.Ctx) (service.VanInput, error) {
	var req dto.VanRequest
	if err := c.BodyParser(&req); err != nil {
		return service.VanInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.VanInput{
		VanNumber: req.VanNumber,
		Make:      req.Make,
		Model:     req.Model,
		Year:      req.Year,
		OwnerID:   req.OwnerID,
	}, nil
}

func vanResponse(van *domain.Van) dto.VanResponse {
	return dto.VanResponse{
		ID:        van.ID,
		VanNumber: van.VanNumber,
		Make:      van.Make,
		Model:     van.Model,
		Year:      van.Year,
		OwnerID:   van.OwnerID,
		CreatedAt: van.CreatedAt,
	}
}
