package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/repository"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

// VanService manages vehicle records.
type VanService struct {
	vans   repository.VanRepository
	owners repository.OwnerRepository
}

// NewVanService constructs the service.
func NewVanService(vans repository.VanRepository, owners repository.OwnerRepository) *VanService {
	return &VanService{vans: vans, owners: owners}
}

// VanInput describes create/update payloads.
type VanInput struct {
	VanNumber string
	Make      string
	Model     string
	Year      int
	OwnerID   *string
}

func (s *VanService) validateInput(ctx context.Context, input VanInput) (*domain.Van, error) {
	fieldErrors := map[string]any{}

	vanNumber := strings.TrimSpace(input.VanNumber)
	if vanNumber == "" {
		fieldErrors["van_number"] = "van number is required"
	}
	if strings.TrimSpace(input.Make) == "" {
		fieldErrors["make"] = "make is required"
	}
	if strings.TrimSpace(input.Model) == "" {
		fieldErrors["model"] = "model is required"
	}
	if input.Year < 1950 || input.Year > time.Now().Year()+1 {
		fieldErrors["year"] = "year is out of range"
	}
	if len(fieldErrors) > 0 {
		return nil, apperrors.NewValidationError("invalid van fields", fieldErrors)
	}

	if input.OwnerID != nil {
		if _, err := s.owners.GetByID(ctx, *input.OwnerID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("owner", nil)
			}
			return nil, err
		}
	}

	return &domain.Van{
		VanNumber: vanNumber,
		Make:      strings.TrimSpace(input.Make),
		Model:     strings.TrimSpace(input.Model),
		Year:      input.Year,
		OwnerID:   input.OwnerID,
	}, nil
}

// Create adds a van.
func (s *VanService) Create(ctx context.Context, input VanInput) (*domain.Van, error) {
	van, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.vans.Create(ctx, van); err != nil {
		return nil, err
	}
	return van, nil
}

// Get fetches a van by id.
func (s *VanService) Get(ctx context.Context, id string) (*domain.Van, error) {
	van, err := s.vans.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("van", nil)
		}
		return nil, err
	}
	return van, nil
}

// Update replaces van fields.
func (s *VanService) Update(ctx context.Context, id string, input VanInput) (*domain.Van, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	van, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}
	van.ID = id
	if err := s.vans.Update(ctx, van); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// List returns vans sorted by van_number with a pagination envelope.
func (s *VanService) List(ctx context.Context, ownerID *string, params pagination.Params) ([]domain.Van, pagination.Envelope, error) {
	filter := repository.VanFilter{
		OwnerID: ownerID,
		Limit:   params.Limit,
		Offset:  params.Offset(),
	}
	total, err := s.vans.Count(ctx, filter)
	if err != nil {
		return nil, pagination.Envelope{}, err
	}
	vans, err := s.vans.List(ctx, filter)
	if err != nil {
		return nil, pagination.Envelope{}, err
	}
	return vans, pagination.BuildEnvelope(params, total), nil
}

// Delete removes a van.
func (s *VanService) Delete(ctx context.Context, id string) error {
	if err := s.vans.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("van", nil)
		}
		return err
	}
	return nil
}
