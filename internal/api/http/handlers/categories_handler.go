package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetdesk/fleetdesk/internal/repository"
)

// CategoriesHandler serves the category lookup list.
type CategoriesHandler struct {
	categories repository.CategoryRepository
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories repository.CategoryRepository) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// List GET /api/categories. Returns active categories only.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.ListActive(c.Context())
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(categories))
	for _, category := range categories {
		items = append(items, fiber.Map{
			"id":   category.ID,
			"name": category.Name,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
