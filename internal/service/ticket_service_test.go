package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/repository"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

type fakeTicketRepo struct {
	tickets    map[string]*domain.Ticket
	nextNumber int64
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, nextNumber: 1000}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = uuid.NewString()
	ticket.TicketNumber = r.nextNumber
	r.nextNumber++
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) GetByPublicToken(_ context.Context, token string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.PublicToken == token {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number int64) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.TicketNumber == number {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) matches(ticket *domain.Ticket, filter repository.TicketFilter) bool {
	if filter.Unassigned && ticket.AssigneeID != nil {
		return false
	}
	if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
		return false
	}
	if filter.OwnerID != nil && ticket.OwnerID != *filter.OwnerID {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if ticket.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if r.matches(ticket, filter) {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) Count(_ context.Context, filter repository.TicketFilter) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if r.matches(ticket, filter) {
			count++
		}
	}
	return count, nil
}

type fakeCommentRepo struct {
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	comment.ID = uuid.NewString()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) forTicket(ticketID string) []domain.Comment {
	out, _ := r.ListByTicket(context.Background(), ticketID)
	return out
}

type fakeAttachmentRepo struct {
	attachments []domain.Attachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	attachment.ID = uuid.NewString()
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	var out []domain.Attachment
	for _, attachment := range r.attachments {
		if attachment.TicketID == ticketID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

type fakeOwnerRepo struct {
	owners  map[string]*domain.Owner
	deps    map[string]domain.OwnerDependencies
	deleted []string
}

func newFakeOwnerRepo() *fakeOwnerRepo {
	return &fakeOwnerRepo{owners: map[string]*domain.Owner{}, deps: map[string]domain.OwnerDependencies{}}
}

func (r *fakeOwnerRepo) Create(_ context.Context, owner *domain.Owner) error {
	owner.ID = uuid.NewString()
	clone := *owner
	r.owners[owner.ID] = &clone
	return nil
}

func (r *fakeOwnerRepo) Update(_ context.Context, owner *domain.Owner) error {
	if _, ok := r.owners[owner.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *owner
	r.owners[owner.ID] = &clone
	return nil
}

func (r *fakeOwnerRepo) GetByID(_ context.Context, id string) (*domain.Owner, error) {
	owner, ok := r.owners[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *owner
	return &clone, nil
}

func (r *fakeOwnerRepo) GetByPhone(_ context.Context, phone string) (*domain.Owner, error) {
	for _, owner := range r.owners {
		if owner.Phone == phone {
			clone := *owner
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeOwnerRepo) List(_ context.Context, _ repository.OwnerFilter) ([]domain.Owner, error) {
	var out []domain.Owner
	for _, owner := range r.owners {
		out = append(out, *owner)
	}
	return out, nil
}

func (r *fakeOwnerRepo) Count(_ context.Context, _ repository.OwnerFilter) (int64, error) {
	return int64(len(r.owners)), nil
}

func (r *fakeOwnerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.owners[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.owners, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeOwnerRepo) CountDependencies(_ context.Context, id string) (domain.OwnerDependencies, error) {
	return r.deps[id], nil
}

type fakeVanRepo struct {
	vans map[string]*domain.Van
}

func newFakeVanRepo() *fakeVanRepo {
	return &fakeVanRepo{vans: map[string]*domain.Van{}}
}

func (r *fakeVanRepo) Create(_ context.Context, van *domain.Van) error {
	van.ID = uuid.NewString()
	clone := *van
	r.vans[van.ID] = &clone
	return nil
}

func (r *fakeVanRepo) Update(_ context.Context, van *domain.Van) error {
	if _, ok := r.vans[van.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *van
	r.vans[van.ID] = &clone
	return nil
}

func (r *fakeVanRepo) GetByID(_ context.Context, id string) (*domain.Van, error) {
	van, ok := r.vans[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *van
	return &clone, nil
}

func (r *fakeVanRepo) List(_ context.Context, filter repository.VanFilter) ([]domain.Van, error) {
	var out []domain.Van
	for _, van := range r.vans {
		if filter.OwnerID != nil && (van.OwnerID == nil || *van.OwnerID != *filter.OwnerID) {
			continue
		}
		out = append(out, *van)
	}
	return out, nil
}

func (r *fakeVanRepo) Count(_ context.Context, filter repository.VanFilter) (int64, error) {
	vans, _ := r.List(context.Background(), filter)
	return int64(len(vans)), nil
}

func (r *fakeVanRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.vans[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.vans, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (r *fakeCategoryRepo) ListActive(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, category := range r.categories {
		if category.Active {
			out = append(out, *category)
		}
	}
	return out, nil
}

type ticketFixture struct {
	service     *TicketService
	tickets     *fakeTicketRepo
	comments    *fakeCommentRepo
	attachments *fakeAttachmentRepo
	owners      *fakeOwnerRepo
	vans        *fakeVanRepo
	categories  *fakeCategoryRepo
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:     newFakeTicketRepo(),
		comments:    &fakeCommentRepo{},
		attachments: &fakeAttachmentRepo{},
		owners:      newFakeOwnerRepo(),
		vans:        newFakeVanRepo(),
		categories:  &fakeCategoryRepo{categories: map[string]*domain.Category{}},
	}
	f.service = NewTicketService(TicketDependencies{
		TicketRepo:     f.tickets,
		CommentRepo:    f.comments,
		AttachmentRepo: f.attachments,
		OwnerRepo:      f.owners,
		VanRepo:        f.vans,
		CategoryRepo:   f.categories,
	})
	return f
}

func validIntake() IntakeInput {
	return IntakeInput{
		OwnerName:   "Jamie Vermeer",
		Phone:       "0723456789",
		Email:       "jamie@example.com",
		Subject:     "Sliding door stuck",
		Description: "The sliding door jams halfway and will not close fully anymore.",
	}
}

func (f *ticketFixture) seedTicket(t *testing.T, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket, err := f.service.CreateTicket(context.Background(), validIntake())
	require.NoError(t, err)
	if status != domain.TicketStatusOpen {
		stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, err)
		stored.Status = status
		if status == domain.TicketStatusResolved || status == domain.TicketStatusClosed {
			resolution := "Fixed door rail"
			stored.Resolution = &resolution
		}
		require.NoError(t, f.tickets.Update(context.Background(), stored))
		return stored
	}
	return ticket
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture()

	ticket, err := f.service.CreateTicket(context.Background(), validIntake())
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityNormal, ticket.Priority)
	assert.NotEmpty(t, ticket.PublicToken)
	assert.EqualValues(t, 1000, ticket.TicketNumber)
	assert.Nil(t, ticket.Resolution)

	owner, err := f.owners.GetByID(context.Background(), ticket.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, "072 345 6789", owner.Phone)
}

func TestCreateTicketFieldValidation(t *testing.T) {
	f := newTicketFixture()

	input := validIntake()
	input.OwnerName = "J"
	input.Subject = "Hey"
	input.Description = "too short"

	_, err := f.service.CreateTicket(context.Background(), input)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "owner_name")
	assert.Contains(t, domainErr.Details, "subject")
	assert.Contains(t, domainErr.Details, "description")
	assert.NotContains(t, domainErr.Details, "phone")
}

func TestCreateTicketReusesOwnerByPhone(t *testing.T) {
	f := newTicketFixture()

	first, err := f.service.CreateTicket(context.Background(), validIntake())
	require.NoError(t, err)
	second, err := f.service.CreateTicket(context.Background(), validIntake())
	require.NoError(t, err)

	assert.Equal(t, first.OwnerID, second.OwnerID)
	assert.Equal(t, int64(1), int64(len(f.owners.owners)))
}

func TestResolvePublic(t *testing.T) {
	f := newTicketFixture()
	ticket := f.seedTicket(t, domain.TicketStatusOpen)

	resolved, err := f.service.ResolvePublic(context.Background(), ticket.PublicToken, "")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusResolved, resolved.Status)
	require.NotNil(t, resolved.Resolution)
	assert.Equal(t, "Marked as resolved by customer", *resolved.Resolution)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "customer", *resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedAt)

	comments := f.comments.forTicket(ticket.ID)
	require.Len(t, comments, 1)
	assert.True(t, comments[0].IsResolution)
	assert.Equal(t, domain.AuthorTypeSystem, comments[0].AuthorType)
}

func TestResolvePublicRejectedFromTerminalStatus(t *testing.T) {
	f := newTicketFixture()
	ticket := f.seedTicket(t, domain.TicketStatusClosed)

	_, err := f.service.ResolvePublic(context.Background(), ticket.PublicToken, "done")
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, err))
}

func TestReopenPublicForksWithoutMutatingOriginal(t *testing.T) {
	f := newTicketFixture()
	original := f.seedTicket(t, domain.TicketStatusResolved)

	fork, err := f.service.ReopenPublic(context.Background(), original.PublicToken, "The door is stuck again")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, fork.Status)
	assert.NotEqual(t, original.ID, fork.ID)
	assert.NotEqual(t, original.PublicToken, fork.PublicToken)
	require.NotNil(t, fork.ReopenedFromID)
	assert.Equal(t, original.ID, *fork.ReopenedFromID)
	assert.Equal(t, original.OwnerID, fork.OwnerID)

	// The original keeps its terminal status and resolution untouched.
	stored, err := f.tickets.GetByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, stored.Status)
	assert.NotNil(t, stored.Resolution)

	forkComments := f.comments.forTicket(fork.ID)
	require.Len(t, forkComments, 1)
	assert.Equal(t, fmt.Sprintf("Ticket reopened from #%d", original.TicketNumber), forkComments[0].Body)

	originalComments := f.comments.forTicket(original.ID)
	require.Len(t, originalComments, 1)
	assert.Equal(t, fmt.Sprintf("Ticket reopened as #%d", fork.TicketNumber), originalComments[0].Body)
}

func TestReopenPublicRequiresReason(t *testing.T) {
	f := newTicketFixture()
	original := f.seedTicket(t, domain.TicketStatusClosed)

	_, err := f.service.ReopenPublic(context.Background(), original.PublicToken, "bad")
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
}

func TestReopenPublicRejectedFromActiveStatus(t *testing.T) {
	f := newTicketFixture()
	ticket := f.seedTicket(t, domain.TicketStatusOpen)

	_, err := f.service.ReopenPublic(context.Background(), ticket.PublicToken, "not actually fixed")
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, err))
}

func TestAddPublicCommentRejectedWhenCancelled(t *testing.T) {
	f := newTicketFixture()
	ticket := f.seedTicket(t, domain.TicketStatusCancelled)

	_, err := f.service.AddPublicComment(context.Background(), ticket.PublicToken, "Jamie", "any news?")
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, err))
}

func TestGetPublicViewHidesInternalComments(t *testing.T) {
	f := newTicketFixture()
	ticket := f.seedTicket(t, domain.TicketStatusOpen)
	tech := &domain.User{ID: uuid.NewString(), Name: "Sam"}

	_, err := f.service.AddStaffComment(context.Background(), tech, ticket.ID, "ordered a new rail", false)
	require.NoError(t, err)
	_, err = f.service.AddStaffComment(context.Background(), tech, ticket.ID, "customer sounded annoyed", true)
	require.NoError(t, err)

	view, err := f.service.GetPublicView(context.Background(), ticket.PublicToken)
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "ordered a new rail", view.Comments[0].Body)

	staffView, err := f.service.GetStaffView(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Len(t, staffView.Comments, 2)
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.TicketStatus
		to       domain.TicketStatus
		wantCode string
	}{
		{name: "open to assigned", from: domain.TicketStatusOpen, to: domain.TicketStatusAssigned},
		{name: "open to in_progress", from: domain.TicketStatusOpen, to: domain.TicketStatusInProgress},
		{name: "assigned to waiting_customer", from: domain.TicketStatusAssigned, to: domain.TicketStatusWaitingCustomer},
		{name: "waiting_customer back to in_progress", from: domain.TicketStatusWaitingCustomer, to: domain.TicketStatusInProgress},
		{name: "resolved to closed", from: domain.TicketStatusResolved, to: domain.TicketStatusClosed},
		{name: "open to closed rejected", from: domain.TicketStatusOpen, to: domain.TicketStatusClosed, wantCode: "INVALID_TRANSITION"},
		{name: "closed is terminal", from: domain.TicketStatusClosed, to: domain.TicketStatusInProgress, wantCode: "INVALID_TRANSITION"},
		{name: "cancelled is terminal", from: domain.TicketStatusCancelled, to: domain.TicketStatusOpen, wantCode: "INVALID_TRANSITION"},
		{name: "waiting_customer cannot cancel", from: domain.TicketStatusWaitingCustomer, to: domain.TicketStatusCancelled, wantCode: "INVALID_TRANSITION"},
		{name: "unknown status rejected", from: domain.TicketStatusOpen, to: domain.TicketStatus("bogus"), wantCode: "VALIDATION_FAILED"},
	}

	actor := &domain.User{ID: uuid.NewString(), Name: "Sam", Roles: []domain.Role{domain.RoleTech}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTicketFixture()
			ticket := f.seedTicket(t, tt.from)

			updated, err := f.service.UpdateStatus(context.Background(), actor, ticket.ID, tt.to, "Replaced the rail")
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, err))
				stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
				require.NoError(t, getErr)
				assert.Equal(t, tt.from, stored.Status, "rejected transition must not write")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
		})
	}
}

func TestUpdateStatusAssignSetsAssignee(t *testing.T) {
	f := newTicketFixture()
	ticket := f.seedTicket(t, domain.TicketStatusOpen)
	actor := &domain.User{ID: uuid.NewString(), Name: "Sam"}

	updated, err := f.service.UpdateStatus(context.Background(), actor, ticket.ID, domain.TicketStatusAssigned, "")
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, actor.ID, *updated.AssigneeID)

	comments := f.comments.forTicket(ticket.ID)
	require.Len(t, comments, 1)
	assert.Equal(t, domain.AuthorTypeSystem, comments[0].AuthorType)
}

func TestUpdateStatusResolveRequiresResolution(t *testing.T) {
	f := newTicketFixture()
	ticket := f.seedTicket(t, domain.TicketStatusInProgress)
	actor := &domain.User{ID: uuid.NewString(), Name: "Sam"}

	_, err := f.service.UpdateStatus(context.Background(), actor, ticket.ID, domain.TicketStatusResolved, "  ")
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	updated, err := f.service.UpdateStatus(context.Background(), actor, ticket.ID, domain.TicketStatusResolved, "Replaced the rail")
	require.NoError(t, err)
	require.NotNil(t, updated.Resolution)
	assert.Equal(t, "Replaced the rail", *updated.Resolution)
	require.NotNil(t, updated.ResolvedBy)
	assert.Equal(t, actor.Name, *updated.ResolvedBy)
}

func TestListUnassigned(t *testing.T) {
	f := newTicketFixture()
	f.seedTicket(t, domain.TicketStatusOpen)
	assigned := f.seedTicket(t, domain.TicketStatusOpen)

	actor := &domain.User{ID: uuid.NewString(), Name: "Sam"}
	_, err := f.service.UpdateStatus(context.Background(), actor, assigned.ID, domain.TicketStatusAssigned, "")
	require.NoError(t, err)

	tickets, envelope, err := f.service.ListUnassigned(context.Background(), pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.EqualValues(t, 1, envelope.TotalCount)
	assert.False(t, envelope.HasNextPage)

	mine, _, err := f.service.ListAssignedTo(context.Background(), actor.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, assigned.ID, mine[0].ID)
}
