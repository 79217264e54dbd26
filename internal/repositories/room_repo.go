package repositories

import (
	"context"
	"errors"
	"fmt"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Room, error)
	GetByNumber(ctx context.Context, hostelID uuid.UUID, number string) (*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, hostelID, id uuid.UUID) error
	List(ctx context.Context, hostelID uuid.UUID, filter *models.RoomSearchFilter) ([]*models.Room, int, error)
	ListAll(ctx context.Context, hostelID uuid.UUID) ([]*models.Room, error)

	// AssignOne atomically increments occupancy, guarded by capacity and
	// maintenance status. Returns false when the guard rejected the update.
	AssignOne(ctx context.Context, hostelID, id uuid.UUID) (bool, error)
	// ReleaseOne atomically decrements occupancy, floored at zero.
	ReleaseOne(ctx context.Context, hostelID, id uuid.UUID) error
	// ExchangeOne applies ReleaseOne(from) and a guarded AssignOne(to) in a
	// single transaction. Returns false (and no change) when the destination
	// guard rejected the assign.
	ExchangeOne(ctx context.Context, hostelID, fromID, toID uuid.UUID) (bool, error)
	// SetOccupancy overwrites the counter; used by the reconciliation job only.
	SetOccupancy(ctx context.Context, hostelID, id uuid.UUID, occupancy int) error

	Stats(ctx context.Context, hostelID uuid.UUID) (*models.RoomStats, error)
}

type roomRepo struct {
	db DB
}

func NewRoomRepo(db DB) RoomRepository {
	return &roomRepo{db: db}
}

const roomColumns = `id, hostel_id, number, type, rent, capacity, occupancy, status, active, created_at, updated_at`

func scanRoom(row pgx.Row) (*models.Room, error) {
	room := &models.Room{}
	err := row.Scan(&room.ID, &room.HostelID, &room.Number, &room.Type, &room.Rent, &room.Capacity, &room.Occupancy, &room.Status, &room.Active, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("room")
		}
		return nil, err
	}
	return room, nil
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	var count int
	numberCheckQuery := `SELECT COUNT(*) FROM rooms WHERE hostel_id = $1 AND number = $2`
	err := r.db.QueryRow(ctx, numberCheckQuery, room.HostelID, room.Number).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check room number uniqueness: %w", err)
	}
	if count > 0 {
		return apperrors.Conflictf("room number '%s' already exists", room.Number)
	}

	query := `
		INSERT INTO rooms (id, hostel_id, number, type, rent, capacity, occupancy, status, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, room.ID, room.HostelID, room.Number, room.Type, room.Rent, room.Capacity, room.Occupancy, room.Status, room.Active)
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hostel_id = $1 AND id = $2`
	return scanRoom(r.db.QueryRow(ctx, query, hostelID, id))
}

func (r *roomRepo) GetByNumber(ctx context.Context, hostelID uuid.UUID, number string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hostel_id = $1 AND number = $2`
	return scanRoom(r.db.QueryRow(ctx, query, hostelID, number))
}

func (r *roomRepo) Update(ctx context.Context, room *models.Room) error {
	query := `
		UPDATE rooms
		SET number = $1, type = $2, rent = $3, capacity = $4, status = $5, active = $6, updated_at = NOW()
		WHERE hostel_id = $7 AND id = $8
	`
	tag, err := r.db.Exec(ctx, query, room.Number, room.Type, room.Rent, room.Capacity, room.Status, room.Active, room.HostelID, room.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("room %s", room.ID)
	}
	return nil
}

func (r *roomRepo) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	query := `DELETE FROM rooms WHERE hostel_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, hostelID, id)
	return err
}

func (r *roomRepo) List(ctx context.Context, hostelID uuid.UUID, filter *models.RoomSearchFilter) ([]*models.Room, int, error) {
	if filter == nil {
		filter = &models.RoomSearchFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	where := ` WHERE hostel_id = $1`
	args := []interface{}{hostelID}
	n := 1

	if filter.Query != "" {
		n++
		where += fmt.Sprintf(` AND number ILIKE $%d`, n)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Type != "" {
		n++
		where += fmt.Sprintf(` AND type = $%d`, n)
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		n++
		where += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, filter.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + roomColumns + ` FROM rooms` + where +
		fmt.Sprintf(` ORDER BY number ASC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.HostelID, &room.Number, &room.Type, &room.Rent, &room.Capacity, &room.Occupancy, &room.Status, &room.Active, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, room)
	}
	return rooms, total, rows.Err()
}

func (r *roomRepo) ListAll(ctx context.Context, hostelID uuid.UUID) ([]*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hostel_id = $1 ORDER BY number ASC`
	rows, err := r.db.Query(ctx, query, hostelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.HostelID, &room.Number, &room.Type, &room.Rent, &room.Capacity, &room.Occupancy, &room.Status, &room.Active, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// assignSQL guards the increment in SQL so concurrent assigns cannot lose
// updates or pass capacity. Status flips to occupied when the room fills.
const assignSQL = `
		UPDATE rooms
		SET occupancy = occupancy + 1,
		    status = CASE WHEN occupancy + 1 >= capacity THEN 'occupied' ELSE status END,
		    updated_at = NOW()
		WHERE hostel_id = $1 AND id = $2 AND status <> 'maintenance' AND occupancy < capacity
	`

const releaseSQL = `
		UPDATE rooms
		SET occupancy = GREATEST(occupancy - 1, 0),
		    status = CASE WHEN status = 'maintenance' THEN status ELSE 'available' END,
		    updated_at = NOW()
		WHERE hostel_id = $1 AND id = $2
	`

func (r *roomRepo) AssignOne(ctx context.Context, hostelID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, assignSQL, hostelID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *roomRepo) ReleaseOne(ctx context.Context, hostelID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, releaseSQL, hostelID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("room %s", id)
	}
	return nil
}

func (r *roomRepo) ExchangeOne(ctx context.Context, hostelID, fromID, toID uuid.UUID) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	// Assign first: if the destination is full the source must stay untouched.
	tag, err := tx.Exec(ctx, assignSQL, hostelID, toID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	tag, err = tx.Exec(ctx, releaseSQL, hostelID, fromID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, apperrors.NotFoundf("room %s", fromID)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *roomRepo) SetOccupancy(ctx context.Context, hostelID, id uuid.UUID, occupancy int) error {
	query := `
		UPDATE rooms
		SET occupancy = $1,
		    status = CASE
		        WHEN status = 'maintenance' THEN status
		        WHEN $1 >= capacity THEN 'occupied'
		        ELSE 'available'
		    END,
		    updated_at = NOW()
		WHERE hostel_id = $2 AND id = $3
	`
	_, err := r.db.Exec(ctx, query, occupancy, hostelID, id)
	return err
}

func (r *roomRepo) Stats(ctx context.Context, hostelID uuid.UUID) (*models.RoomStats, error) {
	stats := &models.RoomStats{}
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'available'),
		       COUNT(*) FILTER (WHERE status = 'occupied'),
		       COUNT(*) FILTER (WHERE status = 'maintenance'),
		       COALESCE(SUM(capacity), 0),
		       COALESCE(SUM(occupancy), 0)
		FROM rooms
		WHERE hostel_id = $1 AND active = TRUE
	`
	err := r.db.QueryRow(ctx, query, hostelID).Scan(&stats.Total, &stats.Available, &stats.Occupied, &stats.Maintenance, &stats.TotalBeds, &stats.OccupiedBeds)
	if err != nil {
		return nil, err
	}
	if stats.TotalBeds > 0 {
		stats.OccupancyRate = float64(stats.OccupiedBeds) / float64(stats.TotalBeds)
	}
	return stats, nil
}
