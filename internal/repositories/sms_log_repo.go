package repositories

import (
	"context"

	"hostelhub/internal/models"

	"github.com/google/uuid"
)

type SMSLogRepository interface {
	Create(ctx context.Context, entry *models.SMSLog) error
	List(ctx context.Context, hostelID uuid.UUID, limit, offset int) ([]*models.SMSLog, int, error)
}

type smsLogRepo struct {
	db DB
}

func NewSMSLogRepo(db DB) SMSLogRepository {
	return &smsLogRepo{db: db}
}

func (r *smsLogRepo) Create(ctx context.Context, entry *models.SMSLog) error {
	query := `
		INSERT INTO sms_logs (id, hostel_id, phone, body, category, status, provider_id, error, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.HostelID, entry.Phone, entry.Body, entry.Category, entry.Status, entry.ProviderID, entry.Error, entry.SentAt)
	return err
}

func (r *smsLogRepo) List(ctx context.Context, hostelID uuid.UUID, limit, offset int) ([]*models.SMSLog, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sms_logs WHERE hostel_id = $1`, hostelID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, hostel_id, phone, body, category, status, provider_id, error, sent_at
		FROM sms_logs
		WHERE hostel_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, hostelID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*models.SMSLog
	for rows.Next() {
		e := &models.SMSLog{}
		if err := rows.Scan(&e.ID, &e.HostelID, &e.Phone, &e.Body, &e.Category, &e.Status, &e.ProviderID, &e.Error, &e.SentAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
