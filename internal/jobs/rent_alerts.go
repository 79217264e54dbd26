package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"

	"hostelhub/internal/models"
	"hostelhub/internal/repositories"
	"hostelhub/internal/services"

	"github.com/google/uuid"
)

// RentAlertsJob sweeps pending payments and nudges tenants: overdue
// payments get an overdue notice, payments inside the reminder window
// get a reminder. One bad tenant or one failed SMS never aborts the
// sweep.
type RentAlertsJob struct {
	billingSvc    services.BillingService
	smsSvc        services.SMSService
	tenantRepo    repositories.TenantRepository
	hostelRepo    repositories.HostelRepository
	maxConcurrent int
}

// AlertSummary reports the outcome of one sweep.
type AlertSummary struct {
	Scanned   int `json:"scanned"`
	Reminders int `json:"reminders"`
	Overdue   int `json:"overdue"`
	Failed    int `json:"failed"`
}

func NewRentAlertsJob(billingSvc services.BillingService, smsSvc services.SMSService, tenantRepo repositories.TenantRepository, hostelRepo repositories.HostelRepository, maxConcurrent int) *RentAlertsJob {
	if maxConcurrent < 1 {
		maxConcurrent = 4
	}
	return &RentAlertsJob{
		billingSvc:    billingSvc,
		smsSvc:        smsSvc,
		tenantRepo:    tenantRepo,
		hostelRepo:    hostelRepo,
		maxConcurrent: maxConcurrent,
	}
}

// RunForHostel sweeps one hostel's pending payments with bounded
// concurrency.
func (j *RentAlertsJob) RunForHostel(ctx context.Context, hostelID uuid.UUID) (*AlertSummary, error) {
	classified, err := j.billingSvc.ClassifyPendingPayments(ctx, hostelID, timeNow())
	if err != nil {
		return nil, err
	}

	summary := &AlertSummary{Scanned: len(classified)}
	var mu sync.Mutex

	semaphore := make(chan struct{}, j.maxConcurrent)
	var wg sync.WaitGroup

	for _, cp := range classified {
		wg.Add(1)
		go func(cp *models.ClassifiedPayment) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			sent := j.sendAlert(ctx, hostelID, cp)

			mu.Lock()
			defer mu.Unlock()
			if !sent {
				summary.Failed++
				return
			}
			switch cp.Category {
			case models.DueCategoryOverdue:
				summary.Overdue++
			case models.DueCategoryReminder:
				summary.Reminders++
			}
		}(cp)
	}

	wg.Wait()
	return summary, nil
}

func (j *RentAlertsJob) sendAlert(ctx context.Context, hostelID uuid.UUID, cp *models.ClassifiedPayment) bool {
	tenant, err := j.tenantRepo.GetByID(ctx, hostelID, cp.Payment.TenantID)
	if err != nil {
		log.Printf("Rent alert: tenant %s lookup failed: %v", cp.Payment.TenantID, err)
		return false
	}

	var body, category string
	switch cp.Category {
	case models.DueCategoryOverdue:
		body = fmt.Sprintf("Hi %s, your payment of Rs %.2f was due on %s and is now overdue. Please pay at the earliest.",
			tenant.FirstName, cp.Payment.Amount, cp.Payment.DueDate.Format("02-Jan-2006"))
		category = models.SMSCategoryOverdue
	case models.DueCategoryReminder:
		body = fmt.Sprintf("Hi %s, a friendly reminder: your payment of Rs %.2f is due on %s.",
			tenant.FirstName, cp.Payment.Amount, cp.Payment.DueDate.Format("02-Jan-2006"))
		category = models.SMSCategoryReminder
	default:
		return false
	}

	if _, err := j.smsSvc.Send(ctx, hostelID, tenant.Phone, body, category); err != nil {
		log.Printf("Rent alert: SMS to tenant %s failed: %v", tenant.ID, err)
		return false
	}
	return true
}

// RunAll sweeps every hostel. Used by the scheduler.
func (j *RentAlertsJob) RunAll(ctx context.Context) error {
	hostels, err := j.hostelRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Rent alert sweep: failed to list hostels: %v", err)
		return err
	}

	for _, hostel := range hostels {
		summary, err := j.RunForHostel(ctx, hostel.ID)
		if err != nil {
			log.Printf("Rent alert sweep failed for hostel %s: %v", hostel.Code, err)
			continue
		}
		if summary.Scanned > 0 {
			log.Printf("Rent alert sweep for %s: scanned=%d reminders=%d overdue=%d failed=%d",
				hostel.Code, summary.Scanned, summary.Reminders, summary.Overdue, summary.Failed)
		}
	}
	return nil
}
