package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusCompleted = "completed"
)

// VacatingRequest is a tenant-initiated notice of intent to leave. A tenant
// may hold at most one outstanding (pending or approved) request at a time.
type VacatingRequest struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	HostelID         uuid.UUID  `json:"hostel_id" db:"hostel_id"`
	TenantID         uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	VacateDate       time.Time  `json:"vacate_date" db:"vacate_date"`
	Reason           string     `json:"reason" db:"reason"`
	Status           string     `json:"status" db:"status"`
	ApprovedBy       *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	ApprovalDate     *time.Time `json:"approval_date,omitempty" db:"approval_date"`
	SettlementAmount float64    `json:"settlement_amount" db:"settlement_amount"`
	RefundAmount     float64    `json:"refund_amount" db:"refund_amount"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// RequestSearchFilter holds filter criteria for vacating/exchange listings.
type RequestSearchFilter struct {
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Status   string     `json:"status,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}

func ValidRequestStatus(s string) bool {
	return s == RequestStatusPending || s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusCompleted
}
