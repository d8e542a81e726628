package domain

import "time"

// Category classifies tickets (engine, bodywork, electrics, ...).
type Category struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}
