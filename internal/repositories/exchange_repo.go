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

type ExchangeRepository interface {
	Create(ctx context.Context, req *models.ExchangeRequest) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.ExchangeRequest, error)
	Update(ctx context.Context, req *models.ExchangeRequest) error
	Delete(ctx context.Context, hostelID, id uuid.UUID) error
	List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.ExchangeRequest, int, error)
}

type exchangeRepo struct {
	db DB
}

func NewExchangeRepo(db DB) ExchangeRepository {
	return &exchangeRepo{db: db}
}

const exchangeColumns = `id, hostel_id, tenant_id, current_room_id, desired_room_id, reason, status, approved_by, approval_date, created_at, updated_at`

func (r *exchangeRepo) Create(ctx context.Context, req *models.ExchangeRequest) error {
	query := `
		INSERT INTO exchange_requests (id, hostel_id, tenant_id, current_room_id, desired_room_id, reason, status, approved_by, approval_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.HostelID, req.TenantID, req.CurrentRoomID, req.DesiredRoomID, req.Reason, req.Status, req.ApprovedBy, req.ApprovalDate)
	return err
}

func (r *exchangeRepo) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.ExchangeRequest, error) {
	e := &models.ExchangeRequest{}
	query := `SELECT ` + exchangeColumns + ` FROM exchange_requests WHERE hostel_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, hostelID, id).Scan(&e.ID, &e.HostelID, &e.TenantID, &e.CurrentRoomID, &e.DesiredRoomID, &e.Reason, &e.Status, &e.ApprovedBy, &e.ApprovalDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("exchange request")
		}
		return nil, err
	}
	return e, nil
}

func (r *exchangeRepo) Update(ctx context.Context, req *models.ExchangeRequest) error {
	query := `
		UPDATE exchange_requests
		SET current_room_id = $1, desired_room_id = $2, reason = $3, status = $4, approved_by = $5, approval_date = $6, updated_at = NOW()
		WHERE hostel_id = $7 AND id = $8
	`
	tag, err := r.db.Exec(ctx, query, req.CurrentRoomID, req.DesiredRoomID, req.Reason, req.Status, req.ApprovedBy, req.ApprovalDate, req.HostelID, req.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("exchange request %s", req.ID)
	}
	return nil
}

func (r *exchangeRepo) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	query := `DELETE FROM exchange_requests WHERE hostel_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, hostelID, id)
	return err
}

func (r *exchangeRepo) List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.ExchangeRequest, int, error) {
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
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM exchange_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + exchangeColumns + ` FROM exchange_requests` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []*models.ExchangeRequest
	for rows.Next() {
		e := &models.ExchangeRequest{}
		if err := rows.Scan(&e.ID, &e.HostelID, &e.TenantID, &e.CurrentRoomID, &e.DesiredRoomID, &e.Reason, &e.Status, &e.ApprovedBy, &e.ApprovalDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		requests = append(requests, e)
	}
	return requests, total, rows.Err()
}
