package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
)

// VacatingService handles a tenant's notice of intent to leave. One
// outstanding request per tenant; approval records the settlement and
// completion runs the actual offboarding.
type VacatingService interface {
	Submit(ctx context.Context, req *models.VacatingRequest) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.VacatingRequest, error)
	Approve(ctx context.Context, hostelID, id, approverID uuid.UUID, settlementAmount, refundAmount float64) (*models.VacatingRequest, error)
	Reject(ctx context.Context, hostelID, id, approverID uuid.UUID) (*models.VacatingRequest, error)
	Complete(ctx context.Context, hostelID, id uuid.UUID) (*models.VacatingRequest, error)
	List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.VacatingRequest, int, error)
}

type vacatingService struct {
	vacatingRepo repositories.VacatingRepository
	tenantRepo   repositories.TenantRepository
	tenantSvc    TenantService
	smsSvc       SMSService
}

func NewVacatingService(vacatingRepo repositories.VacatingRepository, tenantRepo repositories.TenantRepository, tenantSvc TenantService, smsSvc SMSService) VacatingService {
	return &vacatingService{
		vacatingRepo: vacatingRepo,
		tenantRepo:   tenantRepo,
		tenantSvc:    tenantSvc,
		smsSvc:       smsSvc,
	}
}

func (s *vacatingService) Submit(ctx context.Context, req *models.VacatingRequest) error {
	if req.VacateDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return apperrors.Validationf("vacate date cannot be in the past")
	}

	if _, err := s.tenantRepo.GetByID(ctx, req.HostelID, req.TenantID); err != nil {
		return err
	}

	outstanding, err := s.vacatingRepo.HasOutstanding(ctx, req.HostelID, req.TenantID)
	if err != nil {
		return err
	}
	if outstanding {
		return apperrors.Conflictf("tenant already has an outstanding vacating request")
	}

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = models.RequestStatusPending
	return s.vacatingRepo.Create(ctx, req)
}

func (s *vacatingService) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.VacatingRequest, error) {
	return s.vacatingRepo.GetByID(ctx, hostelID, id)
}

func (s *vacatingService) Approve(ctx context.Context, hostelID, id, approverID uuid.UUID, settlementAmount, refundAmount float64) (*models.VacatingRequest, error) {
	req, err := s.vacatingRepo.GetByID(ctx, hostelID, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestStatusPending {
		return nil, apperrors.Conflictf("request is %s, only pending requests can be approved", req.Status)
	}
	if settlementAmount < 0 || refundAmount < 0 {
		return nil, apperrors.Validationf("settlement and refund amounts cannot be negative")
	}

	now := time.Now()
	req.Status = models.RequestStatusApproved
	req.ApprovedBy = &approverID
	req.ApprovalDate = &now
	req.SettlementAmount = settlementAmount
	req.RefundAmount = refundAmount
	if err := s.vacatingRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.notify(ctx, req, fmt.Sprintf("Your vacating request for %s has been approved. Refund due: Rs %.2f.",
		req.VacateDate.Format("02-Jan-2006"), refundAmount))
	return req, nil
}

func (s *vacatingService) Reject(ctx context.Context, hostelID, id, approverID uuid.UUID) (*models.VacatingRequest, error) {
	req, err := s.vacatingRepo.GetByID(ctx, hostelID, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestStatusPending {
		return nil, apperrors.Conflictf("request is %s, only pending requests can be rejected", req.Status)
	}

	now := time.Now()
	req.Status = models.RequestStatusRejected
	req.ApprovedBy = &approverID
	req.ApprovalDate = &now
	if err := s.vacatingRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.notify(ctx, req, "Your vacating request has been rejected. Please contact the office for details.")
	return req, nil
}

// Complete finalizes an approved request: the tenant is offboarded and
// the request becomes the historical record of their departure.
func (s *vacatingService) Complete(ctx context.Context, hostelID, id uuid.UUID) (*models.VacatingRequest, error) {
	req, err := s.vacatingRepo.GetByID(ctx, hostelID, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestStatusApproved {
		return nil, apperrors.Conflictf("request is %s, only approved requests can be completed", req.Status)
	}

	// Mark completed before offboarding so the tenant's departure record
	// survives the roster delete.
	req.Status = models.RequestStatusCompleted
	if err := s.vacatingRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	if err := s.tenantSvc.Offboard(ctx, hostelID, req.TenantID); err != nil {
		return nil, fmt.Errorf("request completed but offboarding failed: %w", err)
	}

	return req, nil
}

func (s *vacatingService) List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.VacatingRequest, int, error) {
	if filter == nil {
		filter = &models.RequestSearchFilter{Limit: 20}
	}
	return s.vacatingRepo.List(ctx, hostelID, filter)
}

func (s *vacatingService) notify(ctx context.Context, req *models.VacatingRequest, body string) {
	tenant, err := s.tenantRepo.GetByID(ctx, req.HostelID, req.TenantID)
	if err != nil {
		log.Printf("Failed to look up tenant %s for vacating notification: %v", req.TenantID, err)
		return
	}
	if _, err := s.smsSvc.Send(ctx, req.HostelID, tenant.Phone, body, models.SMSCategoryManual); err != nil {
		log.Printf("Failed to send vacating notification: %v", err)
	}
}
