package repositories

import (
	"context"

	"hostelhub/internal/models"

	"github.com/google/uuid"
)

type FeeBreakdownRepository interface {
	Replace(ctx context.Context, hostelID uuid.UUID, components []*models.FeeComponent) error
	List(ctx context.Context, hostelID uuid.UUID) ([]*models.FeeComponent, error)
}

type feeBreakdownRepo struct {
	db DB
}

func NewFeeBreakdownRepo(db DB) FeeBreakdownRepository {
	return &feeBreakdownRepo{db: db}
}

// Replace swaps the whole breakdown in one transaction; PUT semantics.
func (r *feeBreakdownRepo) Replace(ctx context.Context, hostelID uuid.UUID, components []*models.FeeComponent) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM fee_breakdowns WHERE hostel_id = $1`, hostelID); err != nil {
		return err
	}
	for _, comp := range components {
		_, err := tx.Exec(ctx,
			`INSERT INTO fee_breakdowns (id, hostel_id, name, amount, note) VALUES ($1, $2, $3, $4, $5)`,
			comp.ID, hostelID, comp.Name, comp.Amount, comp.Note)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *feeBreakdownRepo) List(ctx context.Context, hostelID uuid.UUID) ([]*models.FeeComponent, error) {
	query := `SELECT id, hostel_id, name, amount, note FROM fee_breakdowns WHERE hostel_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, hostelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []*models.FeeComponent
	for rows.Next() {
		c := &models.FeeComponent{}
		if err := rows.Scan(&c.ID, &c.HostelID, &c.Name, &c.Amount, &c.Note); err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}
