package domain

import "time"

// CommentAuthorType indicates who authored a comment.
type CommentAuthorType string

const (
	AuthorTypeCustomer CommentAuthorType = "customer"
	AuthorTypeTech     CommentAuthorType = "tech"
	AuthorTypeSystem   CommentAuthorType = "system"
)

// Comment captures a message in a ticket thread. Comments are append-only;
// they are never updated or deleted.
type Comment struct {
	ID           string
	TicketID     string
	AuthorName   string
	AuthorType   CommentAuthorType
	Body         string
	IsResolution bool
	Internal     bool
	CreatedAt    time.Time
}
