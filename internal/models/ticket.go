package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Ticket is a maintenance/support request. Tickets are never deleted; they
// form the audit trail of reported issues.
type Ticket struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	HostelID    uuid.UUID  `json:"hostel_id" db:"hostel_id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty" db:"assigned_to"`
	Priority    string     `json:"priority" db:"priority"`
	Category    string     `json:"category" db:"category"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TicketSearchFilter holds filter criteria for ticket listings.
type TicketSearchFilter struct {
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Status   string     `json:"status,omitempty"`
	Query    string     `json:"query,omitempty"` // Matches title
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}

func ValidTicketStatus(s string) bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress || s == TicketStatusResolved || s == TicketStatusClosed
}
