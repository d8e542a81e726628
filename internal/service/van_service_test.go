package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/pagination"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

func TestVanCreate(t *testing.T) {
	vans := newFakeVanRepo()
	owners := newFakeOwnerRepo()
	svc := NewVanService(vans, owners)

	owner, err := NewOwnerService(owners).Create(context.Background(), validOwnerInput())
	require.NoError(t, err)

	van, err := svc.Create(context.Background(), VanInput{
		VanNumber: "VAN-042",
		Make:      "Mercedes",
		Model:     "Sprinter",
		Year:      2021,
		OwnerID:   &owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "VAN-042", van.VanNumber)
	require.NotNil(t, van.OwnerID)
	assert.Equal(t, owner.ID, *van.OwnerID)
}

func TestVanCreateValidation(t *testing.T) {
	svc := NewVanService(newFakeVanRepo(), newFakeOwnerRepo())

	_, err := svc.Create(context.Background(), VanInput{Year: 1890})
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "van_number")
	assert.Contains(t, domainErr.Details, "make")
	assert.Contains(t, domainErr.Details, "model")
	assert.Contains(t, domainErr.Details, "year")
}

func TestVanCreateUnknownOwner(t *testing.T) {
	svc := NewVanService(newFakeVanRepo(), newFakeOwnerRepo())

	missing := "no-such-owner"
	_, err := svc.Create(context.Background(), VanInput{
		VanNumber: "VAN-001",
		Make:      "Ford",
		Model:     "Transit",
		Year:      2019,
		OwnerID:   &missing,
	})
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestVanListFilterByOwner(t *testing.T) {
	vans := newFakeVanRepo()
	owners := newFakeOwnerRepo()
	svc := NewVanService(vans, owners)
	ownerSvc := NewOwnerService(owners)

	first, err := ownerSvc.Create(context.Background(), validOwnerInput())
	require.NoError(t, err)
	secondInput := validOwnerInput()
	secondInput.Phone = "0201234567"
	second, err := ownerSvc.Create(context.Background(), secondInput)
	require.NoError(t, err)

	for i, ownerID := range []string{first.ID, first.ID, second.ID} {
		id := ownerID
		_, err := svc.Create(context.Background(), VanInput{
			VanNumber: string(rune('A' + i)),
			Make:      "Ford",
			Model:     "Transit",
			Year:      2019,
			OwnerID:   &id,
		})
		require.NoError(t, err)
	}

	mine, envelope, err := svc.List(context.Background(), &first.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.EqualValues(t, 2, envelope.TotalCount)
}
