package repositories

import (
	"context"

	"hostelhub/internal/models"

	"github.com/google/uuid"
)

type RoomCategoryRepository interface {
	Upsert(ctx context.Context, category *models.RoomCategory) error
	List(ctx context.Context, hostelID uuid.UUID) ([]*models.RoomCategory, error)
}

type roomCategoryRepo struct {
	db DB
}

func NewRoomCategoryRepo(db DB) RoomCategoryRepository {
	return &roomCategoryRepo{db: db}
}

func (r *roomCategoryRepo) Upsert(ctx context.Context, category *models.RoomCategory) error {
	query := `
		INSERT INTO room_categories (id, hostel_id, name, description, base_rent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hostel_id, name) DO UPDATE SET description = EXCLUDED.description, base_rent = EXCLUDED.base_rent
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.HostelID, category.Name, category.Description, category.BaseRent)
	return err
}

func (r *roomCategoryRepo) List(ctx context.Context, hostelID uuid.UUID) ([]*models.RoomCategory, error) {
	query := `SELECT id, hostel_id, name, description, base_rent FROM room_categories WHERE hostel_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, hostelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.RoomCategory
	for rows.Next() {
		c := &models.RoomCategory{}
		if err := rows.Scan(&c.ID, &c.HostelID, &c.Name, &c.Description, &c.BaseRent); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
