package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusAssigned        TicketStatus = "assigned"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusWaitingCustomer TicketStatus = "waiting_customer"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
	TicketStatusCancelled       TicketStatus = "cancelled"
)

// TicketPriority enumerates workshop triage priority.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketUrgency is the customer-reported urgency, distinct from triage priority.
type TicketUrgency string

const (
	TicketUrgencyLow    TicketUrgency = "low"
	TicketUrgencyMedium TicketUrgency = "medium"
	TicketUrgencyHigh   TicketUrgency = "high"
)

// Ticket is the aggregate for customer repair requests.
//
// TicketNumber is the sequential human-facing identifier; PublicToken is the
// UUID used in shareable no-auth links. Resolution fields are populated only
// while status is resolved or closed. ReopenedFromID links a fork created by
// the public reopen flow back to the terminal ticket it supersedes.
type Ticket struct {
	ID             string
	TicketNumber   int64
	PublicToken    string
	OwnerID        string
	VanID          *string
	CategoryID     *string
	AssigneeID     *string
	Subject        string
	Description    string
	Priority       TicketPriority
	Urgency        *TicketUrgency
	Status         TicketStatus
	Resolution     *string
	ResolvedAt     *time.Time
	ResolvedBy     *string
	ReopenedFromID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// ValidUrgency reports whether u is a known urgency value.
func ValidUrgency(u TicketUrgency) bool {
	switch u {
	case TicketUrgencyLow, TicketUrgencyMedium, TicketUrgencyHigh:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusAssigned, TicketStatusInProgress,
		TicketStatusWaitingCustomer, TicketStatusResolved, TicketStatusClosed,
		TicketStatusCancelled:
		return true
	}
	return false
}

// Resolvable reports whether a ticket in status s may be marked resolved.
func Resolvable(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusAssigned, TicketStatusInProgress, TicketStatusWaitingCustomer:
		return true
	}
	return false
}

// Reopenable reports whether a ticket in status s may be reopened.
// Reopening never mutates the original ticket; it forks a new one.
func Reopenable(s TicketStatus) bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}
