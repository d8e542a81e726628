package domain

import "time"

// Attachment stores metadata for an uploaded file. CommentID is nil for
// general ticket attachments and set when the file belongs to a specific
// comment. Rows are immutable after creation.
type Attachment struct {
	ID             string
	TicketID       string
	CommentID      *string
	FileName       string
	MimeType       string
	SizeBytes      int64
	PublicURL      string
	UploadedByType CommentAuthorType
	CreatedAt      time.Time
}
