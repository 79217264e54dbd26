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

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Tenant, error)
	GetByUserID(ctx context.Context, hostelID, userID uuid.UUID) (*models.Tenant, error)
	GetByEmail(ctx context.Context, hostelID uuid.UUID, email string) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	SetRoom(ctx context.Context, hostelID, id uuid.UUID, roomID *uuid.UUID) error
	Delete(ctx context.Context, hostelID, id uuid.UUID) error
	List(ctx context.Context, hostelID uuid.UUID, filter *models.TenantSearchFilter) ([]*models.Tenant, int, error)
	// CountActiveByRoom recomputes per-room occupancy from the tenant side;
	// the reconciliation job compares it against rooms.occupancy.
	CountActiveByRoom(ctx context.Context, hostelID uuid.UUID) (map[uuid.UUID]int, error)
	Stats(ctx context.Context, hostelID uuid.UUID) (*models.TenantStats, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, hostel_id, user_id, first_name, last_name, email, phone, aadhaar_number, room_id, move_in_date, emergency_name, emergency_phone, security_deposit, active, created_at, updated_at`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := row.Scan(&t.ID, &t.HostelID, &t.UserID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.AadhaarNumber, &t.RoomID, &t.MoveInDate, &t.EmergencyName, &t.EmergencyPhone, &t.SecurityDeposit, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("tenant")
		}
		return nil, err
	}
	return t, nil
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	var count int
	emailCheckQuery := `SELECT COUNT(*) FROM tenants WHERE email = $1`
	err := r.db.QueryRow(ctx, emailCheckQuery, tenant.Email).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return apperrors.Conflictf("tenant with email '%s' already exists", tenant.Email)
	}

	query := `
		INSERT INTO tenants (id, hostel_id, user_id, first_name, last_name, email, phone, aadhaar_number, room_id, move_in_date, emergency_name, emergency_phone, security_deposit, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, tenant.ID, tenant.HostelID, tenant.UserID, tenant.FirstName, tenant.LastName, tenant.Email, tenant.Phone, tenant.AadhaarNumber, tenant.RoomID, tenant.MoveInDate, tenant.EmergencyName, tenant.EmergencyPhone, tenant.SecurityDeposit, tenant.Active)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE hostel_id = $1 AND id = $2`
	return scanTenant(r.db.QueryRow(ctx, query, hostelID, id))
}

func (r *tenantRepo) GetByUserID(ctx context.Context, hostelID, userID uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE hostel_id = $1 AND user_id = $2`
	return scanTenant(r.db.QueryRow(ctx, query, hostelID, userID))
}

func (r *tenantRepo) GetByEmail(ctx context.Context, hostelID uuid.UUID, email string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE hostel_id = $1 AND email = $2`
	return scanTenant(r.db.QueryRow(ctx, query, hostelID, email))
}

func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET first_name = $1, last_name = $2, email = $3, phone = $4, aadhaar_number = $5,
		    move_in_date = $6, emergency_name = $7, emergency_phone = $8, security_deposit = $9,
		    active = $10, updated_at = NOW()
		WHERE hostel_id = $11 AND id = $12
	`
	tag, err := r.db.Exec(ctx, query, tenant.FirstName, tenant.LastName, tenant.Email, tenant.Phone, tenant.AadhaarNumber, tenant.MoveInDate, tenant.EmergencyName, tenant.EmergencyPhone, tenant.SecurityDeposit, tenant.Active, tenant.HostelID, tenant.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("tenant %s", tenant.ID)
	}
	return nil
}

func (r *tenantRepo) SetRoom(ctx context.Context, hostelID, id uuid.UUID, roomID *uuid.UUID) error {
	query := `UPDATE tenants SET room_id = $1, updated_at = NOW() WHERE hostel_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, roomID, hostelID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("tenant %s", id)
	}
	return nil
}

func (r *tenantRepo) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	query := `DELETE FROM tenants WHERE hostel_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, hostelID, id)
	return err
}

func (r *tenantRepo) List(ctx context.Context, hostelID uuid.UUID, filter *models.TenantSearchFilter) ([]*models.Tenant, int, error) {
	if filter == nil {
		filter = &models.TenantSearchFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	where := ` WHERE hostel_id = $1`
	args := []interface{}{hostelID}
	n := 1

	if filter.Query != "" {
		n++
		where += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)`, n, n, n, n)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Active != nil {
		n++
		where += fmt.Sprintf(` AND active = $%d`, n)
		args = append(args, *filter.Active)
	}
	if filter.RoomID != nil {
		n++
		where += fmt.Sprintf(` AND room_id = $%d`, n)
		args = append(args, *filter.RoomID)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tenants`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tenantColumns + ` FROM tenants` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		t := &models.Tenant{}
		if err := rows.Scan(&t.ID, &t.HostelID, &t.UserID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.AadhaarNumber, &t.RoomID, &t.MoveInDate, &t.EmergencyName, &t.EmergencyPhone, &t.SecurityDeposit, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, t)
	}
	return tenants, total, rows.Err()
}

func (r *tenantRepo) CountActiveByRoom(ctx context.Context, hostelID uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT room_id, COUNT(*)
		FROM tenants
		WHERE hostel_id = $1 AND active = TRUE AND room_id IS NOT NULL
		GROUP BY room_id
	`
	rows, err := r.db.Query(ctx, query, hostelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var roomID uuid.UUID
		var count int
		if err := rows.Scan(&roomID, &count); err != nil {
			return nil, err
		}
		counts[roomID] = count
	}
	return counts, rows.Err()
}

func (r *tenantRepo) Stats(ctx context.Context, hostelID uuid.UUID) (*models.TenantStats, error) {
	stats := &models.TenantStats{}
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE active),
		       COUNT(*) FILTER (WHERE active AND room_id IS NOT NULL),
		       COUNT(*) FILTER (WHERE active AND room_id IS NULL)
		FROM tenants
		WHERE hostel_id = $1
	`
	err := r.db.QueryRow(ctx, query, hostelID).Scan(&stats.Total, &stats.Active, &stats.Assigned, &stats.Unhoused)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
