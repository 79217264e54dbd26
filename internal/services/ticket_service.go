package services

import (
	"context"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
)

// TicketService manages maintenance tickets. Tickets are never deleted;
// closing a ticket is the terminal transition.
type TicketService interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Ticket, error)
	UpdateStatus(ctx context.Context, hostelID, id uuid.UUID, status string, assignedTo *uuid.UUID) (*models.Ticket, error)
	List(ctx context.Context, hostelID uuid.UUID, filter *models.TicketSearchFilter) ([]*models.Ticket, int, error)
}

type ticketService struct {
	ticketRepo repositories.TicketRepository
	tenantRepo repositories.TenantRepository
}

func NewTicketService(ticketRepo repositories.TicketRepository, tenantRepo repositories.TenantRepository) TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		tenantRepo: tenantRepo,
	}
}

func (s *ticketService) Create(ctx context.Context, ticket *models.Ticket) error {
	if err := common.ValidateRequiredString(ticket.Title, "title"); err != nil {
		return apperrors.Validationf("%v", err)
	}
	if err := common.ValidateRequiredString(ticket.Description, "description"); err != nil {
		return apperrors.Validationf("%v", err)
	}

	if _, err := s.tenantRepo.GetByID(ctx, ticket.HostelID, ticket.TenantID); err != nil {
		return err
	}

	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	ticket.Status = models.TicketStatusOpen
	if ticket.Priority == "" {
		ticket.Priority = "normal"
	}
	return s.ticketRepo.Create(ctx, ticket)
}

func (s *ticketService) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, hostelID, id)
}

func (s *ticketService) UpdateStatus(ctx context.Context, hostelID, id uuid.UUID, status string, assignedTo *uuid.UUID) (*models.Ticket, error) {
	if !models.ValidTicketStatus(status) {
		return nil, apperrors.Validationf("invalid ticket status %q", status)
	}

	ticket, err := s.ticketRepo.GetByID(ctx, hostelID, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, apperrors.Conflictf("ticket is closed")
	}

	ticket.Status = status
	if assignedTo != nil {
		ticket.AssignedTo = assignedTo
	}
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *ticketService) List(ctx context.Context, hostelID uuid.UUID, filter *models.TicketSearchFilter) ([]*models.Ticket, int, error) {
	if filter == nil {
		filter = &models.TicketSearchFilter{Limit: 20}
	}
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	return s.ticketRepo.List(ctx, hostelID, filter)
}
