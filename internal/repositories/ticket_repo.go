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

// TicketRepository has no Delete: tickets are the audit trail.
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Ticket, error)
	Update(ctx context.Context, ticket *models.Ticket) error
	List(ctx context.Context, hostelID uuid.UUID, filter *models.TicketSearchFilter) ([]*models.Ticket, int, error)
}

type ticketRepo struct {
	db DB
}

func NewTicketRepo(db DB) TicketRepository {
	return &ticketRepo{db: db}
}

const ticketColumns = `id, hostel_id, tenant_id, title, description, status, assigned_to, priority, category, created_at, updated_at`

func (r *ticketRepo) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (id, hostel_id, tenant_id, title, description, status, assigned_to, priority, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, ticket.ID, ticket.HostelID, ticket.TenantID, ticket.Title, ticket.Description, ticket.Status, ticket.AssignedTo, ticket.Priority, ticket.Category)
	return err
}

func (r *ticketRepo) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Ticket, error) {
	t := &models.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE hostel_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, hostelID, id).Scan(&t.ID, &t.HostelID, &t.TenantID, &t.Title, &t.Description, &t.Status, &t.AssignedTo, &t.Priority, &t.Category, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("ticket")
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepo) Update(ctx context.Context, ticket *models.Ticket) error {
	query := `
		UPDATE tickets
		SET title = $1, description = $2, status = $3, assigned_to = $4, priority = $5, category = $6, updated_at = NOW()
		WHERE hostel_id = $7 AND id = $8
	`
	tag, err := r.db.Exec(ctx, query, ticket.Title, ticket.Description, ticket.Status, ticket.AssignedTo, ticket.Priority, ticket.Category, ticket.HostelID, ticket.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("ticket %s", ticket.ID)
	}
	return nil
}

func (r *ticketRepo) List(ctx context.Context, hostelID uuid.UUID, filter *models.TicketSearchFilter) ([]*models.Ticket, int, error) {
	if filter == nil {
		filter = &models.TicketSearchFilter{}
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
	if filter.Query != "" {
		n++
		where += fmt.Sprintf(` AND title ILIKE $%d`, n)
		args = append(args, "%"+filter.Query+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		t := &models.Ticket{}
		if err := rows.Scan(&t.ID, &t.HostelID, &t.TenantID, &t.Title, &t.Description, &t.Status, &t.AssignedTo, &t.Priority, &t.Category, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	return tickets, total, rows.Err()
}
