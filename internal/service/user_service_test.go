package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/config"
	"github.com/fleetdesk/fleetdesk/internal/domain"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ReplaceRoles(_ context.Context, userID string, roles []domain.Role) error {
	user, ok := r.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Roles = append([]domain.Role{}, roles...)
	return nil
}

func (r *fakeUserRepo) ListRoles(_ context.Context) ([]domain.Role, error) {
	return []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleTech}, nil
}

// bcrypt.MinCost keeps the hashing fast in tests.
const testBcryptCost = 4

func TestUserCreate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo, testBcryptCost)

	user, err := svc.Create(context.Background(), UserCreateInput{
		Email:    "sam@fleetdesk.test",
		Name:     "Sam Rivers",
		Password: "hunter2hunter2",
		Roles:    []domain.Role{domain.RoleTech},
	})
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.Equal(t, []domain.Role{domain.RoleTech}, user.Roles)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo, testBcryptCost)

	input := UserCreateInput{Email: "sam@fleetdesk.test", Name: "Sam Rivers", Password: "hunter2hunter2"}
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestUserCreateValidation(t *testing.T) {
	svc := NewUserAdminService(newFakeUserRepo(), testBcryptCost)

	_, err := svc.Create(context.Background(), UserCreateInput{Email: "bad", Name: "Sam", Password: "hunter2hunter2"})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Create(context.Background(), UserCreateInput{Email: "sam@fleetdesk.test", Name: "Sam", Password: "short"})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Create(context.Background(), UserCreateInput{
		Email: "sam@fleetdesk.test", Name: "Sam", Password: "hunter2hunter2",
		Roles: []domain.Role{domain.Role("superuser")},
	})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestUserDeleteBlocksSelf(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo, testBcryptCost)

	user, err := svc.Create(context.Background(), UserCreateInput{
		Email: "admin@fleetdesk.test", Name: "Admin", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), user.ID, user.ID)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	_, stillThere := repo.users[user.ID]
	assert.True(t, stillThere)
}

func TestAuthLogin(t *testing.T) {
	repo := newFakeUserRepo()
	userSvc := NewUserAdminService(repo, testBcryptCost)
	authSvc := NewAuthService(config.AuthConfig{JWTSecret: "test-secret", SessionTTLMinutes: 60}, repo)

	created, err := userSvc.Create(context.Background(), UserCreateInput{
		Email: "sam@fleetdesk.test", Name: "Sam Rivers", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	user, token, expiresAt, err := authSvc.Login(context.Background(), "  Sam@Fleetdesk.test ", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := authSvc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
}

func TestAuthLoginRejections(t *testing.T) {
	repo := newFakeUserRepo()
	userSvc := NewUserAdminService(repo, testBcryptCost)
	authSvc := NewAuthService(config.AuthConfig{JWTSecret: "test-secret", SessionTTLMinutes: 60}, repo)

	created, err := userSvc.Create(context.Background(), UserCreateInput{
		Email: "sam@fleetdesk.test", Name: "Sam Rivers", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, _, err = authSvc.Login(context.Background(), "sam@fleetdesk.test", "wrong-password")
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, _, _, err = authSvc.Login(context.Background(), "nobody@fleetdesk.test", "hunter2hunter2")
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	repo.users[created.ID].Active = false
	_, _, _, err = authSvc.Login(context.Background(), "sam@fleetdesk.test", "hunter2hunter2")
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}
