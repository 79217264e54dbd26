package models

import (
	"time"

	"github.com/google/uuid"
)

// ExchangeRequest is a tenant-initiated request to swap the assigned room
// for another. Approval applies a release+assign pair atomically.
type ExchangeRequest struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	HostelID      uuid.UUID  `json:"hostel_id" db:"hostel_id"`
	TenantID      uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	CurrentRoomID uuid.UUID  `json:"current_room_id" db:"current_room_id"`
	DesiredRoomID uuid.UUID  `json:"desired_room_id" db:"desired_room_id"`
	Reason        string     `json:"reason" db:"reason"`
	Status        string     `json:"status" db:"status"`
	ApprovedBy    *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	ApprovalDate  *time.Time `json:"approval_date,omitempty" db:"approval_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
