package repositories

import (
	"context"

	"hostelhub/internal/models"

	"github.com/google/uuid"
)

type TimetableRepository interface {
	Upsert(ctx context.Context, slot *models.TimetableSlot) error
	List(ctx context.Context, hostelID uuid.UUID) ([]*models.TimetableSlot, error)
}

type timetableRepo struct {
	db DB
}

func NewTimetableRepo(db DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Upsert(ctx context.Context, slot *models.TimetableSlot) error {
	query := `
		INSERT INTO timetables (id, hostel_id, slot, start_time, end_time, activity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (hostel_id, slot) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, activity = EXCLUDED.activity
	`
	_, err := r.db.Exec(ctx, query, slot.ID, slot.HostelID, slot.Slot, slot.StartTime, slot.EndTime, slot.Activity)
	return err
}

func (r *timetableRepo) List(ctx context.Context, hostelID uuid.UUID) ([]*models.TimetableSlot, error) {
	query := `
		SELECT id, hostel_id, slot, start_time, end_time, activity
		FROM timetables
		WHERE hostel_id = $1
		ORDER BY slot ASC
	`
	rows, err := r.db.Query(ctx, query, hostelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*models.TimetableSlot
	for rows.Next() {
		s := &models.TimetableSlot{}
		if err := rows.Scan(&s.ID, &s.HostelID, &s.Slot, &s.StartTime, &s.EndTime, &s.Activity); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
