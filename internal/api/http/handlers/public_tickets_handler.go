package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fleetdesk/fleetdesk/internal/api/dto"
	"github.com/fleetdesk/fleetdesk/internal/cache"
	"github.com/fleetdesk/fleetdesk/internal/config"
	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/service"
	"github.com/fleetdesk/fleetdesk/internal/storage"
	apperrors "github.com/fleetdesk/fleetdesk/pkg/util"
)

// PublicTicketsHandler serves the link-access routes. The UUID token in the
// path is the only credential; no session is involved.
type PublicTicketsHandler struct {
	service   *service.TicketService
	cache     *cache.PublicTicketCache
	uploader  storage.Uploader
	uploadCfg config.UploadConfig
	baseURL   string
}

// NewPublicTicketsHandler constructs handler.
func NewPublicTicketsHandler(ticketService *service.TicketService, viewCache *cache.PublicTicketCache, uploader storage.Uploader, uploadCfg config.UploadConfig, baseURL string) *PublicTicketsHandler {
	return &PublicTicketsHandler{
		service:   ticketService,
		cache:     viewCache,
		uploader:  uploader,
		uploadCfg: uploadCfg,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Create POST /api/tickets/create.
func (h *PublicTicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.Context(), service.IntakeInput{
		OwnerName:   req.OwnerName,
		Phone:       req.Phone,
		Email:       req.Email,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Urgency:     req.Urgency,
		OwnerID:     req.OwnerID,
		VanID:       req.VanID,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CreateTicketResponse{
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		PublicToken:  ticket.PublicToken,
	}})
}

// Get GET /api/tickets/public/:uuid. The rendered response body is cached in
// redis for the polling interval; event subscribers invalidate it on writes.
func (h *PublicTicketsHandler) Get(c *fiber.Ctx) error {
	token := c.Params("uuid")
	if cached, ok := h.cache.Get(c.Context(), token); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}

	view, err := h.service.GetPublicView(c.Context(), token)
	if err != nil {
		return err
	}

	body, err := json.Marshal(fiber.Map{"data": ticketDetail(view)})
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	h.cache.Set(c.Context(), token, body)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// AddComment POST /api/tickets/public/:uuid/comments.
func (h *PublicTicketsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.AddPublicComment(c.Context(), c.Params("uuid"), req.AuthorName, req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// Resolve PUT /api/tickets/public/:uuid/resolve.
func (h *PublicTicketsHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.ResolvePublic(c.Context(), c.Params("uuid"), req.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Reopen POST /api/tickets/public/:uuid/reopen. Terminal tickets are never
// mutated; a fresh ticket is forked and the caller is pointed at its link.
func (h *PublicTicketsHandler) Reopen(c *fiber.Ctx) error {
	var req dto.ReopenTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	fork, err := h.service.ReopenPublic(c.Context(), c.Params("uuid"), req.Reason)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ReopenTicketResponse{
		TicketID:     fork.ID,
		TicketNumber: fork.TicketNumber,
		PublicToken:  fork.PublicToken,
		RedirectURL:  fmt.Sprintf("%s/ticket/%s", h.baseURL, fork.PublicToken),
	}})
}

// UploadAttachment POST /api/tickets/public/:uuid/attachments. Accepts a
// single multipart "file" field; images and videos only, with per-kind size
// caps enforced before the file leaves the server.
func (h *PublicTicketsHandler) UploadAttachment(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file field required", nil)
	}

	mimeType := fileHeader.Header.Get(fiber.HeaderContentType)
	kind, ok := storage.KindForMime(mimeType)
	if !ok {
		return apperrors.NewUnsupportedMedia("only image and video uploads are accepted")
	}
	if maxBytes := storage.MaxBytes(h.uploadCfg, kind); fileHeader.Size > maxBytes {
		return apperrors.NewValidationError("file too large", map[string]any{
			"max_bytes":  maxBytes,
			"size_bytes": fileHeader.Size,
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	publicURL, err := h.uploader.Upload(c.Context(), file, fileHeader.Filename, kind)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	var commentID *string
	if v := c.FormValue("comment_id"); v != "" {
		commentID = &v
	}
	attachment, err := h.service.AddAttachment(c.Context(), c.Params("uuid"), service.AttachmentInput{
		CommentID:      commentID,
		FileName:       fileHeader.Filename,
		MimeType:       mimeType,
		SizeBytes:      fileHeader.Size,
		PublicURL:      publicURL,
		UploadedByType: domain.AuthorTypeCustomer,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}
