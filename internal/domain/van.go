package domain

import "time"

// Van is a vehicle asset. VanNumber is the unique human-facing identifier
// and the default sort key for listings.
type Van struct {
	ID        string
	VanNumber string
	Make      string
	Model     string
	Year      int
	OwnerID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
