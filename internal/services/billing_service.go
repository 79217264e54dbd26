package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
)

// ReminderWindow is how far ahead of a due date the sweep starts
// nudging tenants.
const ReminderWindow = 72 * time.Hour

// maxPaymentAmount caps a single payment record; anything above it is a
// data-entry mistake, not a rent or deposit.
const maxPaymentAmount = 10_000_000

// BillingService tracks payments and derives rent dues. Payments are
// append-only; the single allowed mutation is pending -> completed.
type BillingService interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, hostelID, id uuid.UUID) (*models.Payment, error)
	ListPayments(ctx context.Context, hostelID uuid.UUID, filter *models.PaymentSearchFilter) ([]*models.Payment, int, error)
	MarkPaid(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.Payment, error)
	ComputeCurrentDue(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.RentDue, error)
	ClassifyPendingPayments(ctx context.Context, hostelID uuid.UUID, now time.Time) ([]*models.ClassifiedPayment, error)
}

type billingService struct {
	paymentRepo repositories.PaymentRepository
	tenantRepo  repositories.TenantRepository
	roomRepo    repositories.RoomRepository
	smsSvc      SMSService
}

func NewBillingService(paymentRepo repositories.PaymentRepository, tenantRepo repositories.TenantRepository, roomRepo repositories.RoomRepository, smsSvc SMSService) BillingService {
	return &billingService{
		paymentRepo: paymentRepo,
		tenantRepo:  tenantRepo,
		roomRepo:    roomRepo,
		smsSvc:      smsSvc,
	}
}

func (s *billingService) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := common.ValidatePositiveFloat(payment.Amount, "amount", maxPaymentAmount); err != nil {
		return apperrors.Validationf("%v", err)
	}
	if !models.ValidPaymentType(payment.Type) {
		return apperrors.Validationf("invalid payment type %q", payment.Type)
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	if !models.ValidPaymentStatus(payment.Status) {
		return apperrors.Validationf("invalid payment status %q", payment.Status)
	}
	if payment.Status == models.PaymentStatusCompleted && payment.PaidAt == nil {
		now := time.Now()
		payment.PaidAt = &now
	}

	// The payer must exist and belong to this hostel.
	if _, err := s.tenantRepo.GetByID(ctx, payment.HostelID, payment.TenantID); err != nil {
		return err
	}

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return s.paymentRepo.Create(ctx, payment)
}

func (s *billingService) GetPayment(ctx context.Context, hostelID, id uuid.UUID) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, hostelID, id)
}

func (s *billingService) ListPayments(ctx context.Context, hostelID uuid.UUID, filter *models.PaymentSearchFilter) ([]*models.Payment, int, error) {
	if filter == nil {
		filter = &models.PaymentSearchFilter{Limit: 20}
	}
	return s.paymentRepo.List(ctx, hostelID, filter)
}

// MarkPaid settles the tenant's most recent pending payment and sends a
// best-effort confirmation SMS. The settlement stands even if the SMS
// fails.
func (s *billingService) MarkPaid(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.Payment, error) {
	payment, err := s.paymentRepo.LatestPending(ctx, hostelID, tenantID)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if err := s.paymentRepo.MarkCompleted(ctx, hostelID, payment.ID, paidAt); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusCompleted
	payment.PaidAt = &paidAt

	tenant, err := s.tenantRepo.GetByID(ctx, hostelID, tenantID)
	if err != nil {
		log.Printf("Payment %s settled but tenant lookup for confirmation failed: %v", payment.ID, err)
		return payment, nil
	}

	body := fmt.Sprintf("Hi %s, we received your payment of Rs %.2f on %s. Thank you!",
		tenant.FirstName, payment.Amount, paidAt.Format("02-Jan-2006"))
	if _, err := s.smsSvc.Send(ctx, hostelID, tenant.Phone, body, models.SMSCategoryConfirmation); err != nil {
		log.Printf("Payment %s settled but confirmation SMS failed: %v", payment.ID, err)
	}

	return payment, nil
}

// ComputeCurrentDue derives what a tenant owes next. With no rent
// history the due date defaults to the first of the coming month and
// the amount to the assigned room's rent (0 when unassigned). With a
// prior rent payment, the next due date is exactly one calendar month
// after its paid date, and the amount falls back to that payment's
// amount when the tenant is between rooms.
func (s *billingService) ComputeCurrentDue(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.RentDue, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, hostelID, tenantID)
	if err != nil {
		return nil, err
	}

	var roomRent float64
	if tenant.RoomID != nil {
		room, err := s.roomRepo.GetByID(ctx, hostelID, *tenant.RoomID)
		if err != nil {
			return nil, err
		}
		roomRent = room.Rent
	}

	lastRent, err := s.paymentRepo.LatestCompletedRent(ctx, hostelID, tenantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return &models.RentDue{
			TenantID: tenantID,
			Amount:   roomRent,
			DueDate:  firstOfNextMonth(time.Now()),
		}, nil
	}

	amount := roomRent
	if tenant.RoomID == nil {
		amount = lastRent.Amount
	}

	paid := lastRent.CreatedAt
	if lastRent.PaidAt != nil {
		paid = *lastRent.PaidAt
	}

	return &models.RentDue{
		TenantID: tenantID,
		Amount:   amount,
		DueDate:  oneMonthAfter(paid),
	}, nil
}

func firstOfNextMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
}

// oneMonthAfter advances by one calendar month keeping the day-of-month,
// clamped to the target month's last day so Jan 31 lands on Feb 28/29
// instead of spilling into March.
func oneMonthAfter(t time.Time) time.Time {
	year, month := t.Year(), t.Month()+1
	if month > time.December {
		month = time.January
		year++
	}
	return time.Date(year, month, clampDay(year, month, t.Day()), 0, 0, 0, 0, t.Location())
}

func clampDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

// ClassifyPendingPayments buckets every pending dated payment for the
// alert sweep: past-due payments are overdue, payments due within the
// reminder window get a nudge, everything further out is skipped.
func (s *billingService) ClassifyPendingPayments(ctx context.Context, hostelID uuid.UUID, now time.Time) ([]*models.ClassifiedPayment, error) {
	pending, err := s.paymentRepo.ListPendingDue(ctx, hostelID)
	if err != nil {
		return nil, err
	}

	var classified []*models.ClassifiedPayment
	for _, p := range pending {
		if p.DueDate == nil {
			continue
		}
		switch {
		case !p.DueDate.After(now):
			classified = append(classified, &models.ClassifiedPayment{Payment: p, Category: models.DueCategoryOverdue})
		case p.DueDate.Sub(now) <= ReminderWindow:
			classified = append(classified, &models.ClassifiedPayment{Payment: p, Category: models.DueCategoryReminder})
		}
	}

	return classified, nil
}
