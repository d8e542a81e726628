package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fleetdesk/fleetdesk/internal/auth"
	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/repository"
	"github.com/fleetdesk/fleetdesk/internal/validation"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

// UserAdminService manages dashboard accounts and role assignments.
type UserAdminService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserAdminService constructs the service.
func NewUserAdminService(users repository.UserRepository, bcryptCost int) *UserAdminService {
	return &UserAdminService{users: users, bcryptCost: bcryptCost}
}

// UserCreateInput describes the account creation payload.
type UserCreateInput struct {
	Email    string
	Name     string
	Password string
	Roles    []domain.Role
}

// UserUpdateInput describes the account update payload.
type UserUpdateInput struct {
	Email  string
	Name   string
	Active bool
}

// Create adds an account and assigns its initial roles.
func (s *UserAdminService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	emailRes := validation.ValidateEmail(input.Email)
	if !emailRes.Valid || emailRes.Formatted == "" {
		return nil, apperrors.NewValidationError("valid email required", nil)
	}
	nameRes := validation.ValidateName(input.Name)
	if !nameRes.Valid {
		return nil, apperrors.NewValidationError(nameRes.Error, nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	for _, role := range input.Roles {
		if !domain.ValidRole(role) {
			return nil, apperrors.NewValidationError("unknown role "+string(role), nil)
		}
	}

	if _, err := s.users.GetByEmail(ctx, emailRes.Formatted); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        emailRes.Formatted,
		Name:         nameRes.Formatted,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if len(input.Roles) > 0 {
		if err := s.users.ReplaceRoles(ctx, user.ID, input.Roles); err != nil {
			return nil, err
		}
		user.Roles = input.Roles
	}
	return user, nil
}

// Get fetches an account with its roles.
func (s *UserAdminService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// Update replaces name/email/active.
func (s *UserAdminService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	emailRes := validation.ValidateEmail(input.Email)
	if !emailRes.Valid || emailRes.Formatted == "" {
		return nil, apperrors.NewValidationError("valid email required", nil)
	}
	nameRes := validation.ValidateName(input.Name)
	if !nameRes.Valid {
		return nil, apperrors.NewValidationError(nameRes.Error, nil)
	}

	user.Email = emailRes.Formatted
	user.Name = nameRes.Formatted
	user.Active = input.Active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns accounts with a pagination envelope.
func (s *UserAdminService) List(ctx context.Context, params pagination.Params) ([]domain.User, pagination.Envelope, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, pagination.Envelope{}, err
	}
	users, err := s.users.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Envelope{}, err
	}
	return users, pagination.BuildEnvelope(params, total), nil
}

// Delete removes an account. An admin cannot delete their own account so a
// dashboard always keeps at least one working admin session.
func (s *UserAdminService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return apperrors.NewConflict("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	return nil
}

// SetRoles replaces the account's role set.
func (s *UserAdminService) SetRoles(ctx context.Context, id string, roles []domain.Role) (*domain.User, error) {
	for _, role := range roles {
		if !domain.ValidRole(role) {
			return nil, apperrors.NewValidationError("unknown role "+string(role), nil)
		}
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.ReplaceRoles(ctx, id, roles); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetPassword replaces the account's password hash.
func (s *UserAdminService) SetPassword(ctx context.Context, id, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(strings.TrimSpace(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// ListRoles returns the fixed role set.
func (s *UserAdminService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.users.ListRoles(ctx)
}
