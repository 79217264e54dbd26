package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, hostelID uuid.UUID, filter *models.PaymentSearchFilter) ([]*models.Payment, int, error)
	// LatestCompletedRent returns the most recent completed rent payment for
	// a tenant, or ErrNotFound when none exists.
	LatestCompletedRent(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.Payment, error)
	// LatestPending returns the most recent pending payment for a tenant.
	LatestPending(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.Payment, error)
	// ListPendingDue returns every pending payment carrying a due date,
	// the candidate set for the alert sweep.
	ListPendingDue(ctx context.Context, hostelID uuid.UUID) ([]*models.Payment, error)
	// MarkCompleted transitions pending -> completed and stamps paid_at.
	MarkCompleted(ctx context.Context, hostelID, id uuid.UUID, paidAt time.Time) error
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, hostel_id, tenant_id, amount, method, paid_at, due_date, status, type, created_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.HostelID, &p.TenantID, &p.Amount, &p.Method, &p.PaidAt, &p.DueDate, &p.Status, &p.Type, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("payment")
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, hostel_id, tenant_id, amount, method, paid_at, due_date, status, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.HostelID, payment.TenantID, payment.Amount, payment.Method, payment.PaidAt, payment.DueDate, payment.Status, payment.Type)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE hostel_id = $1 AND id = $2`
	return scanPayment(r.db.QueryRow(ctx, query, hostelID, id))
}

func (r *paymentRepo) List(ctx context.Context, hostelID uuid.UUID, filter *models.PaymentSearchFilter) ([]*models.Payment, int, error) {
	if filter == nil {
		filter = &models.PaymentSearchFilter{}
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
	if filter.Type != "" {
		n++
		where += fmt.Sprintf(` AND type = $%d`, n)
		args = append(args, filter.Type)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.HostelID, &p.TenantID, &p.Amount, &p.Method, &p.PaidAt, &p.DueDate, &p.Status, &p.Type, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

func (r *paymentRepo) LatestCompletedRent(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE hostel_id = $1 AND tenant_id = $2 AND type = 'rent' AND status = 'completed' AND paid_at IS NOT NULL
		ORDER BY paid_at DESC
		LIMIT 1
	`
	return scanPayment(r.db.QueryRow(ctx, query, hostelID, tenantID))
}

func (r *paymentRepo) LatestPending(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE hostel_id = $1 AND tenant_id = $2 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanPayment(r.db.QueryRow(ctx, query, hostelID, tenantID))
}

func (r *paymentRepo) ListPendingDue(ctx context.Context, hostelID uuid.UUID) ([]*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE hostel_id = $1 AND status = 'pending' AND due_date IS NOT NULL
		ORDER BY due_date ASC
	`
	rows, err := r.db.Query(ctx, query, hostelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.HostelID, &p.TenantID, &p.Amount, &p.Method, &p.PaidAt, &p.DueDate, &p.Status, &p.Type, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) MarkCompleted(ctx context.Context, hostelID, id uuid.UUID, paidAt time.Time) error {
	query := `
		UPDATE payments
		SET status = 'completed', paid_at = $1
		WHERE hostel_id = $2 AND id = $3 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, paidAt, hostelID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("pending payment %s", id)
	}
	return nil
}
