package repositories

import (
	"context"
	"errors"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MenuRepository interface {
	Upsert(ctx context.Context, menu *models.Menu) error
	GetByDay(ctx context.Context, hostelID uuid.UUID, day string) (*models.Menu, error)
	ListWeek(ctx context.Context, hostelID uuid.UUID) ([]*models.Menu, error)
}

type menuRepo struct {
	db DB
}

func NewMenuRepo(db DB) MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) Upsert(ctx context.Context, menu *models.Menu) error {
	query := `
		INSERT INTO menus (id, hostel_id, day, breakfast, lunch, snacks, dinner)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (hostel_id, day) DO UPDATE SET breakfast = EXCLUDED.breakfast, lunch = EXCLUDED.lunch, snacks = EXCLUDED.snacks, dinner = EXCLUDED.dinner
	`
	_, err := r.db.Exec(ctx, query, menu.ID, menu.HostelID, menu.Day, menu.Breakfast, menu.Lunch, menu.Snacks, menu.Dinner)
	return err
}

func (r *menuRepo) GetByDay(ctx context.Context, hostelID uuid.UUID, day string) (*models.Menu, error) {
	m := &models.Menu{}
	query := `SELECT id, hostel_id, day, breakfast, lunch, snacks, dinner FROM menus WHERE hostel_id = $1 AND day = $2`
	err := r.db.QueryRow(ctx, query, hostelID, day).Scan(&m.ID, &m.HostelID, &m.Day, &m.Breakfast, &m.Lunch, &m.Snacks, &m.Dinner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("menu for %s", day)
		}
		return nil, err
	}
	return m, nil
}

func (r *menuRepo) ListWeek(ctx context.Context, hostelID uuid.UUID) ([]*models.Menu, error) {
	query := `
		SELECT id, hostel_id, day, breakfast, lunch, snacks, dinner
		FROM menus
		WHERE hostel_id = $1
		ORDER BY CASE day
			WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3
			WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6
			ELSE 7 END
	`
	rows, err := r.db.Query(ctx, query, hostelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*models.Menu
	for rows.Next() {
		m := &models.Menu{}
		if err := rows.Scan(&m.ID, &m.HostelID, &m.Day, &m.Breakfast, &m.Lunch, &m.Snacks, &m.Dinner); err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}
