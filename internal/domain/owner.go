package domain

import "time"

// Owner is a customer who owns vans and files tickets.
type Owner struct {
	ID        string
	Name      string
	Company   *string
	Phone     string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerDependencies summarizes rows referencing an owner. An owner with any
// dependent rows must not be deleted.
type OwnerDependencies struct {
	Vans    int64
	Tickets int64
}

// CanDelete reports whether the owner has no dependent rows.
func (d OwnerDependencies) CanDelete() bool {
	return d.Vans == 0 && d.Tickets == 0
}
