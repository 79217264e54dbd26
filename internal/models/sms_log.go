package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SMSStatusSent   = "sent"
	SMSStatusFailed = "failed"

	SMSCategoryReminder     = "rent_reminder"
	SMSCategoryOverdue      = "rent_overdue"
	SMSCategoryConfirmation = "payment_confirmation"
	SMSCategoryManual       = "manual"
)

// SMSLog is the structured record written for every gateway invocation,
// success or failure. The gateway also appends to a plain text log file.
type SMSLog struct {
	ID         uuid.UUID `json:"id" db:"id"`
	HostelID   uuid.UUID `json:"hostel_id" db:"hostel_id"`
	Phone      string    `json:"phone" db:"phone"`
	Body       string    `json:"body" db:"body"`
	Category   string    `json:"category" db:"category"`
	Status     string    `json:"status" db:"status"`
	ProviderID string    `json:"provider_id,omitempty" db:"provider_id"`
	Error      string    `json:"error,omitempty" db:"error"`
	SentAt     time.Time `json:"sent_at" db:"sent_at"`
}

// SMSResult is the gateway contract's outcome:
// send(to, body, category) -> {success, id|error}.
type SMSResult struct {
	Success    bool   `json:"success"`
	ProviderID string `json:"id,omitempty"`
	Error      string `json:"error,omitempty"`
}
