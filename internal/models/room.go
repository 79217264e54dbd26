package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoomTypeSingle = "single"
	RoomTypeDouble = "double"
	RoomTypeShared = "shared"

	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

type Room struct {
	ID        uuid.UUID `json:"id" db:"id"`
	HostelID  uuid.UUID `json:"hostel_id" db:"hostel_id"`
	Number    string    `json:"number" db:"number"`
	Type      string    `json:"type" db:"type"`
	Rent      float64   `json:"rent" db:"rent"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Occupancy int       `json:"occupancy" db:"occupancy"`
	Status    string    `json:"status" db:"status"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RoomSearchFilter holds search and filter criteria for room listings.
type RoomSearchFilter struct {
	Query  string `json:"query,omitempty"` // Matches room number
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// RoomStats is the aggregate view served by /rooms/stats.
type RoomStats struct {
	Total         int     `json:"total"`
	Available     int     `json:"available"`
	Occupied      int     `json:"occupied"`
	Maintenance   int     `json:"maintenance"`
	TotalBeds     int     `json:"total_beds"`
	OccupiedBeds  int     `json:"occupied_beds"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

func ValidRoomType(t string) bool {
	return t == RoomTypeSingle || t == RoomTypeDouble || t == RoomTypeShared
}

func ValidRoomStatus(s string) bool {
	return s == RoomStatusAvailable || s == RoomStatusOccupied || s == RoomStatusMaintenance
}
