package dto

import (
	"time"

	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest payload for admin account creation.
type CreateUserRequest struct {
	Email    string        `json:"email" validate:"required,email"`
	Name     string        `json:"name" validate:"required,min=2"`
	Password string        `json:"password" validate:"required,min=8"`
	Roles    []domain.Role `json:"roles"`
}

// UpdateUserRequest payload for admin account updates.
type UpdateUserRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required,min=2"`
	Active bool   `json:"active"`
}

// SetRolesRequest payload.
type SetRolesRequest struct {
	Roles []domain.Role `json:"roles" validate:"required"`
}

// SetPasswordRequest payload.
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// UserResponse row shape. The password hash never leaves the service.
type UserResponse struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Active    bool          `json:"active"`
	Roles     []domain.Role `json:"roles"`
	CreatedAt time.Time     `json:"created_at"`
}

// UserListResponse pairs rows with their pagination envelope.
type UserListResponse struct {
	Users      []UserResponse      `json:"users"`
	Pagination pagination.Envelope `json:"pagination"`
}
