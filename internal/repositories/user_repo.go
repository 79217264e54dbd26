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

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateContact(ctx context.Context, hostelID, id uuid.UUID, email, phone string) error
	UpdatePassword(ctx context.Context, hostelID, id uuid.UUID, passwordHash string) error
	SetTenantID(ctx context.Context, hostelID, id uuid.UUID, tenantID *uuid.UUID) error
	Delete(ctx context.Context, hostelID, id uuid.UUID) error
	List(ctx context.Context, hostelID uuid.UUID, limit, offset int) ([]*models.User, error)
	GetHostelIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, hostel_id, email, password_hash, name, phone, role, tenant_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.HostelID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone, &user.Role, &user.TenantID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("user")
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	// Email is globally unique across hostels
	var count int
	emailCheckQuery := `SELECT COUNT(*) FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, emailCheckQuery, user.Email).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return apperrors.Conflictf("user with email '%s' already exists", user.Email)
	}

	query := `
		INSERT INTO users (id, hostel_id, email, password_hash, name, phone, role, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, user.ID, user.HostelID, user.Email, user.PasswordHash, user.Name, user.Phone, user.Role, user.TenantID)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE hostel_id = $1 AND id = $2`
	return scanUser(r.db.QueryRow(ctx, query, hostelID, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, phone = $2, role = $3, updated_at = NOW()
		WHERE hostel_id = $4 AND id = $5
	`
	tag, err := r.db.Exec(ctx, query, user.Name, user.Phone, user.Role, user.HostelID, user.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("user %s", user.ID)
	}
	return nil
}

func (r *userRepo) UpdateContact(ctx context.Context, hostelID, id uuid.UUID, email, phone string) error {
	query := `
		UPDATE users
		SET email = $1, phone = $2, updated_at = NOW()
		WHERE hostel_id = $3 AND id = $4
	`
	tag, err := r.db.Exec(ctx, query, email, phone, hostelID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("user %s", id)
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, hostelID, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE hostel_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, passwordHash, hostelID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("user %s", id)
	}
	return nil
}

func (r *userRepo) SetTenantID(ctx context.Context, hostelID, id uuid.UUID, tenantID *uuid.UUID) error {
	query := `UPDATE users SET tenant_id = $1, updated_at = NOW() WHERE hostel_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, tenantID, hostelID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("user %s", id)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	query := `DELETE FROM users WHERE hostel_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, hostelID, id)
	return err
}

func (r *userRepo) List(ctx context.Context, hostelID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE hostel_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, hostelID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.HostelID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone, &user.Role, &user.TenantID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) GetHostelIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	query := `SELECT hostel_id FROM users WHERE id = $1`
	var hostelID uuid.UUID
	err := r.db.QueryRow(ctx, query, userID).Scan(&hostelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperrors.NotFoundf("user %s", userID)
		}
		return uuid.Nil, err
	}
	return hostelID, nil
}
