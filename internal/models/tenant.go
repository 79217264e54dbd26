package models

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	HostelID        uuid.UUID  `json:"hostel_id" db:"hostel_id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	FirstName       string     `json:"first_name" db:"first_name"`
	LastName        string     `json:"last_name" db:"last_name"`
	Email           string     `json:"email" db:"email"`
	Phone           string     `json:"phone" db:"phone"`
	AadhaarNumber   string     `json:"aadhaar_number" db:"aadhaar_number"`
	RoomID          *uuid.UUID `json:"room_id,omitempty" db:"room_id"`
	MoveInDate      *time.Time `json:"move_in_date,omitempty" db:"move_in_date"`
	EmergencyName   string     `json:"emergency_name" db:"emergency_name"`
	EmergencyPhone  string     `json:"emergency_phone" db:"emergency_phone"`
	SecurityDeposit float64    `json:"security_deposit" db:"security_deposit"`
	Active          bool       `json:"active" db:"active"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// TenantSearchFilter holds search and filter criteria for tenant listings.
type TenantSearchFilter struct {
	Query  string `json:"query,omitempty"` // Matches first/last name, email, phone
	Active *bool  `json:"active,omitempty"`
	RoomID *uuid.UUID
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// TenantStats is the aggregate view served by /tenants/stats.
type TenantStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Assigned int `json:"assigned"`
	Unhoused int `json:"unhoused"`
}
