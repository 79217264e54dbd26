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

type VacatingRepository interface {
	Create(ctx context.Context, req *models.VacatingRequest) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.VacatingRequest, error)
	Update(ctx context.Context, req *models.VacatingRequest) error
	Delete(ctx context.Context, hostelID, id uuid.UUID) error
	List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.VacatingRequest, int, error)
	// HasOutstanding reports whether the tenant already holds a pending or
	// approved request. At most one may be outstanding at a time.
	HasOutstanding(ctx context.Context, hostelID, tenantID uuid.UUID) (bool, error)
}

type vacatingRepo struct {
	db DB
}

func NewVacatingRepo(db DB) VacatingRepository {
	return &vacatingRepo{db: db}
}

const vacatingColumns = `id, hostel_id, tenant_id, vacate_date, reason, status, approved_by, approval_date, settlement_amount, refund_amount, created_at, updated_at`

func (r *vacatingRepo) Create(ctx context.Context, req *models.VacatingRequest) error {
	query := `
		INSERT INTO vacating_requests (id, hostel_id, tenant_id, vacate_date, reason, status, approved_by, approval_date, settlement_amount, refund_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.HostelID, req.TenantID, req.VacateDate, req.Reason, req.Status, req.ApprovedBy, req.ApprovalDate, req.SettlementAmount, req.RefundAmount)
	return err
}

func (r *vacatingRepo) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.VacatingRequest, error) {
	v := &models.VacatingRequest{}
	query := `SELECT ` + vacatingColumns + ` FROM vacating_requests WHERE hostel_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, hostelID, id).Scan(&v.ID, &v.HostelID, &v.TenantID, &v.VacateDate, &v.Reason, &v.Status, &v.ApprovedBy, &v.ApprovalDate, &v.SettlementAmount, &v.RefundAmount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("vacating request")
		}
		return nil, err
	}
	return v, nil
}

func (r *vacatingRepo) Update(ctx context.Context, req *models.VacatingRequest) error {
	query := `
		UPDATE vacating_requests
		SET vacate_date = $1, reason = $2, status = $3, approved_by = $4, approval_date = $5,
		    settlement_amount = $6, refund_amount = $7, updated_at = NOW()
		WHERE hostel_id = $8 AND id = $9
	`
	tag, err := r.db.Exec(ctx, query, req.VacateDate, req.Reason, req.Status, req.ApprovedBy, req.ApprovalDate, req.SettlementAmount, req.RefundAmount, req.HostelID, req.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("vacating request %s", req.ID)
	}
	return nil
}

func (r *vacatingRepo) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	query := `DELETE FROM vacating_requests WHERE hostel_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, hostelID, id)
	return err
}

func (r *vacatingRepo) List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.VacatingRequest, int, error) {
	if filter == nil {
		filter = &models.RequestSearchFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	where := ` WHERE hostel_id = $1`
	args := []interface{}{hostelID}
	n := 1

	if filter.TenantID != nil {
		n++
		where += fmt.Sprintf(` AND tenant_id = $%d`, n)
		args = append(args, *filter.TenantID)
	}
	if filter.Status != "" {
		n++
		where += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, filter.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vacating_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + vacatingColumns + ` FROM vacating_requests` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []*models.VacatingRequest
	for rows.Next() {
		v := &models.VacatingRequest{}
		if err := rows.Scan(&v.ID, &v.HostelID, &v.TenantID, &v.VacateDate, &v.Reason, &v.Status, &v.ApprovedBy, &v.ApprovalDate, &v.SettlementAmount, &v.RefundAmount, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		requests = append(requests, v)
	}
	return requests, total, rows.Err()
}

func (r *vacatingRepo) HasOutstanding(ctx context.Context, hostelID, tenantID uuid.UUID) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM vacating_requests
		WHERE hostel_id = $1 AND tenant_id = $2 AND status IN ('pending', 'approved')
	`
	if err := r.db.QueryRow(ctx, query, hostelID, tenantID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
