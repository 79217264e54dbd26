package services

import (
	"context"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
)

// ExchangeService handles room change requests. Approval applies the
// move through the occupancy ledger in a single atomic step.
type ExchangeService interface {
	Submit(ctx context.Context, req *models.ExchangeRequest) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.ExchangeRequest, error)
	Approve(ctx context.Context, hostelID, id, approverID uuid.UUID) (*models.ExchangeRequest, error)
	Reject(ctx context.Context, hostelID, id, approverID uuid.UUID) (*models.ExchangeRequest, error)
	List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.ExchangeRequest, int, error)
}

type exchangeService struct {
	exchangeRepo repositories.ExchangeRepository
	tenantRepo   repositories.TenantRepository
	roomRepo     repositories.RoomRepository
	occupancySvc OccupancyService
}

func NewExchangeService(exchangeRepo repositories.ExchangeRepository, tenantRepo repositories.TenantRepository, roomRepo repositories.RoomRepository, occupancySvc OccupancyService) ExchangeService {
	return &exchangeService{
		exchangeRepo: exchangeRepo,
		tenantRepo:   tenantRepo,
		roomRepo:     roomRepo,
		occupancySvc: occupancySvc,
	}
}

func (s *exchangeService) Submit(ctx context.Context, req *models.ExchangeRequest) error {
	tenant, err := s.tenantRepo.GetByID(ctx, req.HostelID, req.TenantID)
	if err != nil {
		return err
	}
	if tenant.RoomID == nil {
		return apperrors.Validationf("tenant has no room to exchange")
	}
	req.CurrentRoomID = *tenant.RoomID

	if req.DesiredRoomID == req.CurrentRoomID {
		return apperrors.Validationf("desired room is the current room")
	}
	if _, err := s.roomRepo.GetByID(ctx, req.HostelID, req.DesiredRoomID); err != nil {
		return err
	}

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = models.RequestStatusPending
	return s.exchangeRepo.Create(ctx, req)
}

func (s *exchangeService) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.ExchangeRequest, error) {
	return s.exchangeRepo.GetByID(ctx, hostelID, id)
}

// Approve applies the move. A full destination surfaces as a capacity
// error and the request stays pending so it can be retried or rejected.
func (s *exchangeService) Approve(ctx context.Context, hostelID, id, approverID uuid.UUID) (*models.ExchangeRequest, error) {
	req, err := s.exchangeRepo.GetByID(ctx, hostelID, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestStatusPending {
		return nil, apperrors.Conflictf("request is %s, only pending requests can be approved", req.Status)
	}

	if err := s.occupancySvc.Exchange(ctx, hostelID, req.TenantID, req.DesiredRoomID); err != nil {
		return nil, err
	}

	now := time.Now()
	req.Status = models.RequestStatusApproved
	req.ApprovedBy = &approverID
	req.ApprovalDate = &now
	if err := s.exchangeRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *exchangeService) Reject(ctx context.Context, hostelID, id, approverID uuid.UUID) (*models.ExchangeRequest, error) {
	req, err := s.exchangeRepo.GetByID(ctx, hostelID, id)
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
	if err := s.exchangeRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *exchangeService) List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.ExchangeRequest, int, error) {
	if filter == nil {
		filter = &models.RequestSearchFilter{Limit: 20}
	}
	return s.exchangeRepo.List(ctx, hostelID, filter)
}
