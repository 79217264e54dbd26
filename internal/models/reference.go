package models

import (
	"github.com/google/uuid"
)

// Reference-data collections: weekly menu, daily timetable, room categories
// and the fee breakdown shown to tenants. Seeded with defaults on first use.

type Menu struct {
	ID        uuid.UUID `json:"id" db:"id"`
	HostelID  uuid.UUID `json:"hostel_id" db:"hostel_id"`
	Day       string    `json:"day" db:"day"` // monday..sunday
	Breakfast string    `json:"breakfast" db:"breakfast"`
	Lunch     string    `json:"lunch" db:"lunch"`
	Snacks    string    `json:"snacks" db:"snacks"`
	Dinner    string    `json:"dinner" db:"dinner"`
}

type TimetableSlot struct {
	ID        uuid.UUID `json:"id" db:"id"`
	HostelID  uuid.UUID `json:"hostel_id" db:"hostel_id"`
	Slot      int       `json:"slot" db:"slot"`
	StartTime string    `json:"start_time" db:"start_time"` // HH:MM
	EndTime   string    `json:"end_time" db:"end_time"`
	Activity  string    `json:"activity" db:"activity"`
}

type RoomCategory struct {
	ID          uuid.UUID `json:"id" db:"id"`
	HostelID    uuid.UUID `json:"hostel_id" db:"hostel_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	BaseRent    float64   `json:"base_rent" db:"base_rent"`
}

type FeeComponent struct {
	ID       uuid.UUID `json:"id" db:"id"`
	HostelID uuid.UUID `json:"hostel_id" db:"hostel_id"`
	Name     string    `json:"name" db:"name"`
	Amount   float64   `json:"amount" db:"amount"`
	Note     string    `json:"note" db:"note"`
}

var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func ValidWeekDay(day string) bool {
	for _, d := range WeekDays {
		if d == day {
			return true
		}
	}
	return false
}
