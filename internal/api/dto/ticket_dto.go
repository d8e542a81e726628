package dto

import (
	"time"

	"github.com/fleetdesk/fleetdesk/internal/domain"
	"github.com/fleetdesk/fleetdesk/internal/pagination"
)

// CreateTicketRequest is the public intake payload.
type CreateTicketRequest struct {
	OwnerName   string                 `json:"owner_name"`
	Phone       string                 `json:"phone"`
	Email       string                 `json:"email"`
	Subject     string                 `json:"subject"`
	Description string                 `json:"description"`
	Priority    domain.TicketPriority  `json:"priority"`
	Urgency     *domain.TicketUrgency  `json:"urgency"`
	OwnerID     *string                `json:"owner_id"`
	VanID       *string                `json:"van_id"`
	CategoryID  *string                `json:"category_id"`
}

// CreateTicketResponse returns the identifiers the intake form needs.
type CreateTicketResponse struct {
	TicketID     string `json:"ticket_id"`
	TicketNumber int64  `json:"ticket_number"`
	PublicToken  string `json:"public_token"`
}

// TicketSummary is the list-row shape.
type TicketSummary struct {
	ID           string                `json:"id"`
	TicketNumber int64                 `json:"ticket_number"`
	OwnerID      string                `json:"owner_id"`
	VanID        *string               `json:"van_id"`
	CategoryID   *string               `json:"category_id"`
	AssigneeID   *string               `json:"assignee_id"`
	Subject      string                `json:"subject"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	Urgency      *domain.TicketUrgency `json:"urgency,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketListResponse pairs rows with their pagination envelope.
type TicketListResponse struct {
	Tickets    []TicketSummary     `json:"tickets"`
	Pagination pagination.Envelope `json:"pagination"`
}

// TicketDetailResponse provides full ticket info with thread.
type TicketDetailResponse struct {
	ID             string                `json:"id"`
	TicketNumber   int64                 `json:"ticket_number"`
	PublicToken    string                `json:"public_token,omitempty"`
	OwnerID        string                `json:"owner_id"`
	VanID          *string               `json:"van_id"`
	CategoryID     *string               `json:"category_id"`
	AssigneeID     *string               `json:"assignee_id"`
	Subject        string                `json:"subject"`
	Description    string                `json:"description"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	Urgency        *domain.TicketUrgency `json:"urgency,omitempty"`
	Resolution     *string               `json:"resolution,omitempty"`
	ResolvedAt     *time.Time            `json:"resolved_at,omitempty"`
	ResolvedBy     *string               `json:"resolved_by,omitempty"`
	ReopenedFromID *string               `json:"reopened_from_ticket_id,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Comments       []CommentResponse     `json:"comments"`
	Attachments    []AttachmentResponse  `json:"attachments"`
}

// CommentResponse represents a thread comment.
type CommentResponse struct {
	ID           string                   `json:"id"`
	AuthorName   string                   `json:"author_name"`
	AuthorType   domain.CommentAuthorType `json:"author_type"`
	Body         string                   `json:"comment_text"`
	IsResolution bool                     `json:"is_resolution"`
	Internal     bool                     `json:"internal,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID             string  `json:"id"`
	CommentID      *string `json:"comment_id,omitempty"`
	FileName       string  `json:"file_name"`
	MimeType       string  `json:"mime_type"`
	SizeBytes      int64   `json:"size_bytes"`
	PublicURL      string  `json:"public_url"`
	UploadedByType string  `json:"uploaded_by_type"`
}

// CreateCommentRequest payload for public and staff comment endpoints.
type CreateCommentRequest struct {
	AuthorName string `json:"author_name"`
	Body       string `json:"comment_text"`
	Internal   bool   `json:"internal"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	Resolution string `json:"resolution"`
}

// ReopenTicketRequest payload.
type ReopenTicketRequest struct {
	Reason string `json:"reason"`
}

// ReopenTicketResponse points the caller at the forked ticket.
type ReopenTicketResponse struct {
	TicketID     string `json:"ticket_id"`
	TicketNumber int64  `json:"ticket_number"`
	PublicToken  string `json:"public_token"`
	RedirectURL  string `json:"redirect_url"`
}

// UpdateStatusRequest is the staff transition payload.
type UpdateStatusRequest struct {
	Status     domain.TicketStatus `json:"status"`
	Resolution string              `json:"resolution"`
}
