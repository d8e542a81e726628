package dto

import (
	"time"

	"github.com/fleetdesk/fleetdesk/internal/pagination"
)

// OwnerRequest is the create/update payload.
type OwnerRequest struct {
	Name    string  `json:"name" validate:"required,min=2"`
	Company *string `json:"company"`
	Phone   string  `json:"phone" validate:"required"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

// OwnerResponse row shape.
type OwnerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   *string   `json:"company"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerListResponse pairs rows with their pagination envelope.
type OwnerListResponse struct {
	Owners     []OwnerResponse     `json:"owners"`
	Pagination pagination.Envelope `json:"pagination"`
}

// OwnerDependenciesResponse reports what blocks a delete.
type OwnerDependenciesResponse struct {
	Vans      int64 `json:"vans"`
	Tickets   int64 `json:"tickets"`
	CanDelete bool  `json:"can_delete"`
}
