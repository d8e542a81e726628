package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetdesk/fleetdesk/internal/api/dto"
	"github.com/fleetdesk/fleetdesk/internal/auth"
	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
	"github.com/fleetdesk/fleetdesk/internal/service"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

// TicketsHandler manages staff-facing ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListUnassigned GET /api/tickets/unassigned.
func (h *TicketsHandler) ListUnassigned(c *fiber.Ctx) error {
	params := pagination.ParseParams(c.Query("page"), c.Query("limit"))
	tickets, envelope, err := h.service.ListUnassigned(c.Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketList(tickets, envelope)})
}

// ListMine GET /api/tickets/my-tickets.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	params := pagination.ParseParams(c.Query("page"), c.Query("limit"))
	tickets, envelope, err := h.service.ListAssignedTo(c.Context(), user.ID, params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketList(tickets, envelope)})
}

// Get GET /api/tickets/:id. Staff see the full thread, internal notes included.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	view, err := h.service.GetStaffView(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(view)})
}

// UpdateStatus PUT /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateStatus(c.Context(), user, c.Params("id"), req.Status, req.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AddComment POST /api/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.AddStaffComment(c.Context(), user, c.Params("id"), req.Body, req.Internal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

func ticketList(tickets []domain.Ticket, envelope pagination.Envelope) dto.TicketListResponse {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return dto.TicketListResponse{Tickets: items, Pagination: envelope}
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		OwnerID:      ticket.OwnerID,
		VanID:        ticket.VanID,
		CategoryID:   ticket.CategoryID,
		AssigneeID:   ticket.AssigneeID,
		Subject:      ticket.Subject,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		Urgency:      ticket.Urgency,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketDetail(view *service.TicketView) dto.TicketDetailResponse {
	ticket := view.Ticket
	comments := make([]dto.CommentResponse, 0, len(view.Comments))
	for i := range view.Comments {
		comments = append(comments, commentResponse(&view.Comments[i]))
	}
	attachments := make([]dto.AttachmentResponse, 0, len(view.Attachments))
	for i := range view.Attachments {
		attachments = append(attachments, attachmentResponse(&view.Attachments[i]))
	}
	return dto.TicketDetailResponse{
		ID:             ticket.ID,
		TicketNumber:   ticket.TicketNumber,
		PublicToken:    ticket.PublicToken,
		OwnerID:        ticket.OwnerID,
		VanID:          ticket.VanID,
		CategoryID:     ticket.CategoryID,
		AssigneeID:     ticket.AssigneeID,
		Subject:        ticket.Subject,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		Urgency:        ticket.Urgency,
		Resolution:     ticket.Resolution,
		ResolvedAt:     ticket.ResolvedAt,
		ResolvedBy:     ticket.ResolvedBy,
		ReopenedFromID: ticket.ReopenedFromID,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
		Comments:       comments,
		Attachments:    attachments,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:           comment.ID,
		AuthorName:   comment.AuthorName,
		AuthorType:   comment.AuthorType,
		Body:         comment.Body,
		IsResolution: comment.IsResolution,
		Internal:     comment.Internal,
		CreatedAt:    comment.CreatedAt,
	}
}

func attachmentResponse(attachment *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:             attachment.ID,
		CommentID:      attachment.CommentID,
		FileName:       attachment.FileName,
		MimeType:       attachment.MimeType,
		SizeBytes:      attachment.SizeBytes,
		PublicURL:      attachment.PublicURL,
		UploadedByType: string(attachment.UploadedByType),
	}
}
