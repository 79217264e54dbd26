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

type HostelRepository interface {
	Create(ctx context.Context, hostel *models.Hostel) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error)
	GetByCode(ctx context.Context, code string) (*models.Hostel, error)
	List(ctx context.Context, limit, offset int) ([]*models.Hostel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type hostelRepo struct {
	db DB
}

func NewHostelRepo(db DB) HostelRepository {
	return &hostelRepo{db: db}
}

func (r *hostelRepo) Create(ctx context.Context, hostel *models.Hostel) error {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hostels WHERE code = $1`, hostel.Code).Scan(&count); err != nil {
		return fmt.Errorf("failed to check hostel code uniqueness: %w", err)
	}
	if count > 0 {
		return apperrors.Conflictf("hostel code '%s' already exists", hostel.Code)
	}

	query := `
		INSERT INTO hostels (id, name, code, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, hostel.ID, hostel.Name, hostel.Code, hostel.Address, hostel.Status)
	return err
}

func (r *hostelRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	h := &models.Hostel{}
	query := `SELECT id, name, code, address, status, created_at, updated_at FROM hostels WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&h.ID, &h.Name, &h.Code, &h.Address, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("hostel %s", id)
		}
		return nil, err
	}
	return h, nil
}

func (r *hostelRepo) GetByCode(ctx context.Context, code string) (*models.Hostel, error) {
	h := &models.Hostel{}
	query := `SELECT id, name, code, address, status, created_at, updated_at FROM hostels WHERE code = $1`
	err := r.db.QueryRow(ctx, query, code).Scan(&h.ID, &h.Name, &h.Code, &h.Address, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("hostel '%s'", code)
		}
		return nil, err
	}
	return h, nil
}

func (r *hostelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM hostels WHERE id = $1`, id)
	return err
}

func (r *hostelRepo) List(ctx context.Context, limit, offset int) ([]*models.Hostel, error) {
	query := `
		SELECT id, name, code, address, status, created_at, updated_at
		FROM hostels
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hostels []*models.Hostel
	for rows.Next() {
		h := &models.Hostel{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Code, &h.Address, &h.Status, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hostels = append(hostels, h)
	}
	return hostels, rows.Err()
}
