package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleTenant = "tenant"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	HostelID     uuid.UUID  `json:"hostel_id" db:"hostel_id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Name         string     `json:"name" db:"name"`
	Phone        string     `json:"phone" db:"phone"`
	Role         string     `json:"role" db:"role"`
	TenantID     *uuid.UUID `json:"tenant_id,omitempty" db:"tenant_id"` // Back-reference, set only for role=tenant
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidRole reports whether role is one of the three fixed roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff || role == RoleTenant
}
