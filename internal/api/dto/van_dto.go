package dto

import (
	"time"

	"github.com/fleetdesk/fleetdesk/internal/pagination"
)

// VanRequest is the create/update payload.
type VanRequest struct {
	VanNumber string  `json:"van_number" validate:"required"`
	Make      string  `json:"make" validate:"required"`
	Model     string  `json:"model" validate:"required"`
	Year      int     `json:"year" validate:"required,gte=1950"`
	OwnerID   *string `json:"owner_id" validate:"omitempty,uuid4"`
}

// VanResponse row shape.
type VanResponse struct {
	ID        string    `json:"id"`
	VanNumber string    `json:"van_number"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	OwnerID   *string   `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// VanListResponse pairs rows with their pagination envelope.
type VanListResponse struct {
	Vans       []VanResponse       `json:"vans"`
	Pagination pagination.Envelope `json:"pagination"`
}
