package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"

	PaymentTypeRent        = "rent"
	PaymentTypeDeposit     = "deposit"
	PaymentTypeMaintenance = "maintenance"
	PaymentTypeOther       = "other"
)

// Payment is an append-only financial record. History is never rewritten;
// the only in-place transition is pending -> completed via MarkPaid.
type Payment struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	HostelID  uuid.UUID  `json:"hostel_id" db:"hostel_id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Amount    float64    `json:"amount" db:"amount"`
	Method    string     `json:"method" db:"method"`
	PaidAt    *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	DueDate   *time.Time `json:"due_date,omitempty" db:"due_date"`
	Status    string     `json:"status" db:"status"`
	Type      string     `json:"type" db:"type"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// PaymentSearchFilter holds filter criteria for payment listings.
type PaymentSearchFilter struct {
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Status   string     `json:"status,omitempty"`
	Type     string     `json:"type,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}

// RentDue is the derived "what does this tenant owe next" view.
type RentDue struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Amount   float64   `json:"amount"`
	DueDate  time.Time `json:"due_date"`
}

// Due classification categories produced by the alert sweep.
const (
	DueCategoryOverdue  = "overdue"
	DueCategoryReminder = "reminder"
)

// ClassifiedPayment pairs a pending payment with its sweep category.
type ClassifiedPayment struct {
	Payment  *Payment `json:"payment"`
	Category string   `json:"category"`
}

func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusRefunded
}

func ValidPaymentType(t string) bool {
	return t == PaymentTypeRent || t == PaymentTypeDeposit || t == PaymentTypeMaintenance || t == PaymentTypeOther
}
