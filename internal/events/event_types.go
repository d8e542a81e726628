package events

import (
	"time"

	"github.com/fleetdesk/fleetdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketResolved      EventType = "ticket_resolved"
	EventTicketReopened      EventType = "ticket_reopened"
	EventCommentAdded        EventType = "comment_added"
	EventAttachmentAdded     EventType = "attachment_added"
)

// Event represents a domain event emitted by services. PublicToken is
// carried so cache subscribers can invalidate public views without a lookup.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	TicketID    string      `json:"ticket_id"`
	PublicToken string      `json:"public_token"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber int64                 `json:"ticket_number"`
	OwnerID      string                `json:"owner_id"`
	Priority     domain.TicketPriority `json:"priority"`
	Subject      string                `json:"subject"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	ActorName string              `json:"actor_name,omitempty"`
}

// TicketReopenedPayload links the fork to its terminal original.
type TicketReopenedPayload struct {
	OriginalTicketID string `json:"original_ticket_id"`
	NewTicketID      string `json:"new_ticket_id"`
	NewTicketNumber  int64  `json:"new_ticket_number"`
	Reason           string `json:"reason"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID  string                   `json:"comment_id"`
	AuthorType domain.CommentAuthorType `json:"author_type"`
	Internal   bool                     `json:"internal"`
}

// AttachmentAddedPayload payload.
type AttachmentAddedPayload struct {
	AttachmentID string `json:"attachment_id"`
	MimeType     string `json:"mime_type"`
}
