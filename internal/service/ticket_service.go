package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/events"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/repository"
	"github.com/fleetdesk/fleetdesk/internal/validation"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	owners      repository.OwnerRepository
	vans        repository.VanRepository
	categories  repository.CategoryRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	OwnerRepo      repository.OwnerRepository
	VanRepo        repository.VanRepository
	CategoryRepo   repository.CategoryRepository
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		owners:      deps.OwnerRepo,
		vans:        deps.VanRepo,
		categories:  deps.CategoryRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// IntakeInput describes the public ticket creation payload.
type IntakeInput struct {
	OwnerName   string
	Phone       string
	Email       string
	Subject     string
	Description string
	Priority    domain.TicketPriority
	Urgency     *domain.TicketUrgency
	OwnerID     *string
	VanID       *string
	CategoryID  *string
}

// TicketView bundles a ticket with its thread for detail responses.
type TicketView struct {
	Ticket      *domain.Ticket
	Comments    []domain.Comment
	Attachments []domain.Attachment
}

// CreateTicket handles the public intake form: field validation, owner
// resolution by phone, then insert. The ticket starts open with priority
// defaulting to normal.
func (s *TicketService) CreateTicket(ctx context.Context, input IntakeInput) (*domain.Ticket, error) {
	fieldErrors := map[string]any{}

	nameRes := validation.ValidateName(input.OwnerName)
	if !nameRes.Valid {
		fieldErrors["owner_name"] = nameRes.Error
	}
	phoneRes := validation.ValidatePhone(input.Phone)
	if !phoneRes.Valid {
		fieldErrors["phone"] = phoneRes.Error
	}
	emailRes := validation.ValidateEmail(input.Email)
	if !emailRes.Valid {
		fieldErrors["email"] = emailRes.Error
	}
	subjectRes := validation.ValidateSubject(input.Subject)
	if !subjectRes.Valid {
		fieldErrors["subject"] = subjectRes.Error
	}
	descRes := validation.ValidateDescription(input.Description)
	if !descRes.Valid {
		fieldErrors["description"] = descRes.Error
	}
	if len(fieldErrors) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket fields", fieldErrors)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", nil)
	}
	if input.Urgency != nil && !domain.ValidUrgency(*input.Urgency) {
		return nil, apperrors.NewValidationError("invalid urgency", nil)
	}

	owner, err := s.resolveOwner(ctx, input, nameRes.Formatted, phoneRes.Formatted, emailRes.Formatted)
	if err != nil {
		return nil, err
	}

	if input.VanID != nil {
		if _, err := s.vans.GetByID(ctx, *input.VanID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("van", nil)
			}
			return nil, err
		}
	}
	if input.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *input.CategoryID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("category", nil)
			}
			return nil, err
		}
		if !category.Active {
			return nil, apperrors.NewValidationError("category is inactive", nil)
		}
	}

	ticket := &domain.Ticket{
		PublicToken: uuid.NewString(),
		OwnerID:     owner.ID,
		VanID:       input.VanID,
		CategoryID:  input.CategoryID,
		Subject:     subjectRes.Formatted,
		Description: descRes.Formatted,
		Priority:    priority,
		Urgency:     input.Urgency,
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketCreated,
		TicketID:    ticket.ID,
		PublicToken: ticket.PublicToken,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			OwnerID:      ticket.OwnerID,
			Priority:     ticket.Priority,
			Subject:      ticket.Subject,
		},
	})
	return ticket, nil
}

// resolveOwner prefers an explicit owner_id, then an existing owner with the
// same phone, and finally creates a new owner from the intake fields.
func (s *TicketService) resolveOwner(ctx context.Context, input IntakeInput, name, phone, email string) (*domain.Owner, error) {
	if input.OwnerID != nil {
		owner, err := s.owners.GetByID(ctx, *input.OwnerID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("owner", nil)
			}
			return nil, err
		}
		return owner, nil
	}

	owner, err := s.owners.GetByPhone(ctx, phone)
	if err == nil {
		return owner, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	owner = &domain.Owner{Name: name, Phone: phone}
	if email != "" {
		owner.Email = &email
	}
	if err := s.owners.Create(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// GetPublicView returns the ticket identified by its public link token with
// customer-visible comments and attachments. Internal notes are filtered out.
func (s *TicketService) GetPublicView(ctx context.Context, publicToken string) (*TicketView, error) {
	ticket, err := s.tickets.GetByPublicToken(ctx, publicToken)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.Internal {
			continue
		}
		visible = append(visible, comment)
	}

	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	return &TicketView{Ticket: ticket, Comments: visible, Attachments: attachments}, nil
}

// AddPublicComment appends a customer comment via the link-access endpoint.
func (s *TicketService) AddPublicComment(ctx context.Context, publicToken, authorName, body string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}
	ticket, err := s.tickets.GetByPublicToken(ctx, publicToken)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if ticket.Status == domain.TicketStatusCancelled {
		return nil, apperrors.NewInvalidTransition("ticket is cancelled")
	}

	name := strings.TrimSpace(authorName)
	if name == "" {
		name = "Customer"
	}
	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorName: name,
		AuthorType: domain.AuthorTypeCustomer,
		Body:       strings.TrimSpace(body),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.publishCommentAdded(ctx, ticket, comment)
	return comment, nil
}

// ResolvePublic marks a ticket resolved on behalf of the customer. Legal
// from open, assigned, in_progress and waiting_customer.
func (s *TicketService) ResolvePublic(ctx context.Context, publicToken, resolution string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByPublicToken(ctx, publicToken)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if !domain.Resolvable(ticket.Status) {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("ticket cannot be resolved from status %s", ticket.Status))
	}

	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		resolution = "Marked as resolved by customer"
	}

	oldStatus := ticket.Status
	now := time.Now()
	resolvedBy := "customer"
	ticket.Status = domain.TicketStatusResolved
	ticket.Resolution = &resolution
	ticket.ResolvedAt = &now
	ticket.ResolvedBy = &resolvedBy
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.recordSystemComment(ctx, ticket, resolution, true); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketResolved,
		TicketID:    ticket.ID,
		PublicToken: ticket.PublicToken,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			ActorName: "customer",
		},
	})
	return ticket, nil
}

// ReopenPublic forks a resolved or closed ticket into a brand-new open
// ticket. The original is never mutated back to open: it keeps its terminal
// status and only gains a system comment pointing at the fork. Callers are
// expected to redirect to the new ticket's public link.
func (s *TicketService) ReopenPublic(ctx context.Context, publicToken, reason string) (*domain.Ticket, error) {
	original, err := s.tickets.GetByPublicToken(ctx, publicToken)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if !domain.Reopenable(original.Status) {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("ticket cannot be reopened from status %s", original.Status))
	}

	reason = strings.TrimSpace(reason)
	if len(reason) < 5 {
		return nil, apperrors.NewValidationError("reopen reason must be at least 5 characters", nil)
	}

	originalID := original.ID
	fork := &domain.Ticket{
		PublicToken:    uuid.NewString(),
		OwnerID:        original.OwnerID,
		VanID:          original.VanID,
		CategoryID:     original.CategoryID,
		Subject:        original.Subject,
		Description:    fmt.Sprintf("Reopened from ticket #%d. Reason: %s", original.TicketNumber, reason),
		Priority:       original.Priority,
		Urgency:        original.Urgency,
		Status:         domain.TicketStatusOpen,
		ReopenedFromID: &originalID,
	}
	if err := s.tickets.Create(ctx, fork); err != nil {
		return nil, err
	}

	if err := s.recordSystemComment(ctx, fork,
		fmt.Sprintf("Ticket reopened from #%d", original.TicketNumber), false); err != nil {
		return nil, err
	}
	if err := s.recordSystemComment(ctx, original,
		fmt.Sprintf("Ticket reopened as #%d", fork.TicketNumber), false); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketReopened,
		TicketID:    original.ID,
		PublicToken: original.PublicToken,
		Payload: events.TicketReopenedPayload{
			OriginalTicketID: original.ID,
			NewTicketID:      fork.ID,
			NewTicketNumber:  fork.TicketNumber,
			Reason:           reason,
		},
	})
	return fork, nil
}

// AttachmentInput describes an already-stored upload to record.
type AttachmentInput struct {
	CommentID      *string
	FileName       string
	MimeType       string
	SizeBytes      int64
	PublicURL      string
	UploadedByType domain.CommentAuthorType
}

// AddAttachment records attachment metadata after the file has been stored.
func (s *TicketService) AddAttachment(ctx context.Context, publicToken string, input AttachmentInput) (*domain.Attachment, error) {
	ticket, err := s.tickets.GetByPublicToken(ctx, publicToken)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	attachment := &domain.Attachment{
		TicketID:       ticket.ID,
		CommentID:      input.CommentID,
		FileName:       input.FileName,
		MimeType:       input.MimeType,
		SizeBytes:      input.SizeBytes,
		PublicURL:      input.PublicURL,
		UploadedByType: input.UploadedByType,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventAttachmentAdded,
		TicketID:    ticket.ID,
		PublicToken: ticket.PublicToken,
		Payload: events.AttachmentAddedPayload{
			AttachmentID: attachment.ID,
			MimeType:     attachment.MimeType,
		},
	})
	return attachment, nil
}

// ListUnassigned returns the triage queue with a pagination envelope.
func (s *TicketService) ListUnassigned(ctx context.Context, params pagination.Params) ([]domain.Ticket, pagination.Envelope, error) {
	filter := repository.TicketFilter{
		Unassigned: true,
		Statuses:   []domain.TicketStatus{domain.TicketStatusOpen},
		Limit:      params.Limit,
		Offset:     params.Offset(),
	}
	return s.listWithEnvelope(ctx, filter, params)
}

// ListAssignedTo returns tickets assigned to a technician.
func (s *TicketService) ListAssignedTo(ctx context.Context, userID string, params pagination.Params) ([]domain.Ticket, pagination.Envelope, error) {
	filter := repository.TicketFilter{
		AssigneeID: &userID,
		Statuses: []domain.TicketStatus{
			domain.TicketStatusAssigned,
			domain.TicketStatusInProgress,
			domain.TicketStatusWaitingCustomer,
		},
		Limit:  params.Limit,
		Offset: params.Offset(),
	}
	return s.listWithEnvelope(ctx, filter, params)
}

func (s *TicketService) listWithEnvelope(ctx context.Context, filter repository.TicketFilter, params pagination.Params) ([]domain.Ticket, pagination.Envelope, error) {
	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, pagination.Envelope{}, err
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, pagination.Envelope{}, err
	}
	return tickets, pagination.BuildEnvelope(params, total), nil
}

// GetStaffView returns a ticket with the full thread, internal notes included.
func (s *TicketService) GetStaffView(ctx context.Context, ticketID string) (*TicketView, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return &TicketView{Ticket: ticket, Comments: comments, Attachments: attachments}, nil
}

// AddStaffComment appends a tech comment, optionally internal-only.
func (s *TicketService) AddStaffComment(ctx context.Context, actor *domain.User, ticketID, body string, internal bool) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorName: actor.Name,
		AuthorType: domain.AuthorTypeTech,
		Body:       strings.TrimSpace(body),
		Internal:   internal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.publishCommentAdded(ctx, ticket, comment)
	return comment, nil
}

// allowedTransitions lists the legal staff-driven status changes. The
// closed and cancelled states are terminal here; closed tickets come back
// only through the public reopen fork or the unresolve maintenance tool.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen: {
		domain.TicketStatusAssigned, domain.TicketStatusInProgress,
		domain.TicketStatusResolved, domain.TicketStatusCancelled,
	},
	domain.TicketStatusAssigned: {
		domain.TicketStatusInProgress, domain.TicketStatusWaitingCustomer,
		domain.TicketStatusResolved, domain.TicketStatusCancelled,
	},
	domain.TicketStatusInProgress: {
		domain.TicketStatusWaitingCustomer, domain.TicketStatusResolved,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusWaitingCustomer: {
		domain.TicketStatusInProgress, domain.TicketStatusResolved,
	},
	domain.TicketStatusResolved:  {domain.TicketStatusClosed},
	domain.TicketStatusClosed:    {},
	domain.TicketStatusCancelled: {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// UpdateStatus applies a staff-driven transition. The authoritative
// legality check happens here, before any write; client-side hints are
// advisory only.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, resolution string) (*domain.Ticket, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("cannot move ticket from %s to %s", ticket.Status, newStatus))
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus

	switch newStatus {
	case domain.TicketStatusAssigned:
		actorID := actor.ID
		ticket.AssigneeID = &actorID
	case domain.TicketStatusResolved:
		resolution = strings.TrimSpace(resolution)
		if resolution == "" {
			return nil, apperrors.NewValidationError("resolution text required", nil)
		}
		now := time.Now()
		ticket.Resolution = &resolution
		ticket.ResolvedAt = &now
		resolvedBy := actor.Name
		ticket.ResolvedBy = &resolvedBy
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Status changed from %s to %s by %s", oldStatus, newStatus, actor.Name)
	isResolution := newStatus == domain.TicketStatusResolved
	if isResolution {
		body = resolution
	}
	if err := s.recordSystemComment(ctx, ticket, body, isResolution); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketStatusChanged,
		TicketID:    ticket.ID,
		PublicToken: ticket.PublicToken,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			ActorName: actor.Name,
		},
	})
	return ticket, nil
}

func (s *TicketService) recordSystemComment(ctx context.Context, ticket *domain.Ticket, body string, isResolution bool) error {
	comment := &domain.Comment{
		TicketID:     ticket.ID,
		AuthorName:   "System",
		AuthorType:   domain.AuthorTypeSystem,
		Body:         body,
		IsResolution: isResolution,
	}
	return s.comments.Create(ctx, comment)
}

func (s *TicketService) publishCommentAdded(ctx context.Context, ticket *domain.Ticket, comment *domain.Comment) {
	s.publishEvent(ctx, events.Event{
		Type:        events.EventCommentAdded,
		TicketID:    ticket.ID,
		PublicToken: ticket.PublicToken,
		Payload: events.CommentAddedPayload{
			CommentID:  comment.ID,
			AuthorType: comment.AuthorType,
			Internal:   comment.Internal,
		},
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
