package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

func validOwnerInput() OwnerInput {
	return OwnerInput{Name: " Jamie Vermeer ", Phone: "0723456789"}
}

func TestOwnerCreate(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := NewOwnerService(repo)

	owner, err := svc.Create(context.Background(), validOwnerInput())
	require.NoError(t, err)
	assert.Equal(t, "Jamie Vermeer", owner.Name)
	assert.Equal(t, "072 345 6789", owner.Phone)
	assert.Nil(t, owner.Email)
}

func TestOwnerCreateValidation(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := NewOwnerService(repo)

	email := "not-an-email"
	_, err := svc.Create(context.Background(), OwnerInput{Name: "X", Phone: "123", Email: &email})
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "name")
	assert.Contains(t, domainErr.Details, "phone")
	assert.Contains(t, domainErr.Details, "email")
}

func TestOwnerDeleteRefusedWithDependencies(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := NewOwnerService(repo)

	owner, err := svc.Create(context.Background(), validOwnerInput())
	require.NoError(t, err)
	repo.deps[owner.ID] = domain.OwnerDependencies{Vans: 2, Tickets: 1}

	deps, err := svc.CheckDependencies(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.False(t, deps.CanDelete())

	err = svc.Delete(context.Background(), owner.ID)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "DEPENDENCY_EXISTS", domainErr.Code)
	assert.EqualValues(t, 2, domainErr.Details["vans"])
	assert.EqualValues(t, 1, domainErr.Details["tickets"])
	assert.Empty(t, repo.deleted)
}

func TestOwnerDeleteWithoutDependencies(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := NewOwnerService(repo)

	owner, err := svc.Create(context.Background(), validOwnerInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), owner.ID))
	assert.Contains(t, repo.deleted, owner.ID)

	_, err = svc.Get(context.Background(), owner.ID)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestOwnerListEnvelope(t *testing.T) {
	repo := newFakeOwnerRepo()
	svc := NewOwnerService(repo)

	for i := 0; i < 3; i++ {
		input := validOwnerInput()
		input.Phone = "07234567" + string(rune('0'+i))
		_, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
	}

	owners, envelope, err := svc.List(context.Background(), "", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, owners, 3)
	assert.EqualValues(t, 3, envelope.TotalCount)
	assert.Equal(t, 1, envelope.TotalPages)
}
