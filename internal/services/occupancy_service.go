package services

import (
	"context"
	"fmt"
	"log"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/caching"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
)

// OccupancyService keeps room occupancy counters consistent with tenant
// room assignments. All counter movements go through guarded SQL so two
// concurrent assignments can never oversell a room.
type OccupancyService interface {
	Assign(ctx context.Context, hostelID, tenantID, roomID uuid.UUID) error
	Release(ctx context.Context, hostelID, tenantID uuid.UUID) error
	Exchange(ctx context.Context, hostelID, tenantID, toRoomID uuid.UUID) error
	Reconcile(ctx context.Context, hostelID uuid.UUID) (int, error)
}

type occupancyService struct {
	roomRepo   repositories.RoomRepository
	tenantRepo repositories.TenantRepository
	cacheSvc   caching.CacheService
}

func NewOccupancyService(roomRepo repositories.RoomRepository, tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService) OccupancyService {
	return &occupancyService{
		roomRepo:   roomRepo,
		tenantRepo: tenantRepo,
		cacheSvc:   cacheSvc,
	}
}

// Assign moves a tenant into a room. The occupancy increment is guarded
// against capacity, so a full or under-maintenance room rejects the move
// without any partial state.
func (s *occupancyService) Assign(ctx context.Context, hostelID, tenantID, roomID uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, hostelID, tenantID)
	if err != nil {
		return err
	}
	if !tenant.Active {
		return apperrors.Validationf("tenant is not active")
	}
	if tenant.RoomID != nil {
		if *tenant.RoomID == roomID {
			return nil // already there
		}
		return apperrors.Conflictf("tenant already assigned to a room, use exchange instead")
	}

	ok, err := s.roomRepo.AssignOne(ctx, hostelID, roomID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCapacityExceeded
	}

	if err := s.tenantRepo.SetRoom(ctx, hostelID, tenantID, &roomID); err != nil {
		// Undo the counter so the room does not leak a phantom bed.
		if relErr := s.roomRepo.ReleaseOne(ctx, hostelID, roomID); relErr != nil {
			log.Printf("Failed to roll back occupancy for room %s: %v", roomID, relErr)
		}
		return fmt.Errorf("failed to record room assignment: %w", err)
	}

	s.invalidateRoom(ctx, hostelID, roomID)
	return nil
}

// Release moves a tenant out of their current room. Releasing a tenant
// with no room is a no-op.
func (s *occupancyService) Release(ctx context.Context, hostelID, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, hostelID, tenantID)
	if err != nil {
		return err
	}
	if tenant.RoomID == nil {
		return nil
	}
	roomID := *tenant.RoomID

	if err := s.tenantRepo.SetRoom(ctx, hostelID, tenantID, nil); err != nil {
		return fmt.Errorf("failed to clear room assignment: %w", err)
	}
	if err := s.roomRepo.ReleaseOne(ctx, hostelID, roomID); err != nil {
		log.Printf("Failed to decrement occupancy for room %s: %v", roomID, err)
		// Counter drift is repaired by the reconciliation job.
	}

	s.invalidateRoom(ctx, hostelID, roomID)
	return nil
}

// Exchange atomically moves a tenant from their current room to another.
// The destination is claimed first inside one transaction, so a full
// destination leaves the source room untouched.
func (s *occupancyService) Exchange(ctx context.Context, hostelID, tenantID, toRoomID uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, hostelID, tenantID)
	if err != nil {
		return err
	}
	if tenant.RoomID == nil {
		return apperrors.Validationf("tenant has no current room, use assign instead")
	}
	fromRoomID := *tenant.RoomID
	if fromRoomID == toRoomID {
		return apperrors.Validationf("tenant is already in the requested room")
	}

	ok, err := s.roomRepo.ExchangeOne(ctx, hostelID, fromRoomID, toRoomID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCapacityExceeded
	}

	if err := s.tenantRepo.SetRoom(ctx, hostelID, tenantID, &toRoomID); err != nil {
		return fmt.Errorf("failed to record room exchange: %w", err)
	}

	s.invalidateRoom(ctx, hostelID, fromRoomID)
	s.invalidateRoom(ctx, hostelID, toRoomID)
	return nil
}

// Reconcile recomputes every room's occupancy from the tenants table and
// repairs any counter drift. Returns the number of rooms corrected.
func (s *occupancyService) Reconcile(ctx context.Context, hostelID uuid.UUID) (int, error) {
	counts, err := s.tenantRepo.CountActiveByRoom(ctx, hostelID)
	if err != nil {
		return 0, err
	}

	rooms, err := s.roomRepo.ListAll(ctx, hostelID)
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, room := range rooms {
		actual := counts[room.ID]
		if actual == room.Occupancy {
			continue
		}
		log.Printf("Occupancy drift on room %s: counter=%d actual=%d", room.Number, room.Occupancy, actual)
		if err := s.roomRepo.SetOccupancy(ctx, hostelID, room.ID, actual); err != nil {
			log.Printf("Failed to repair occupancy for room %s: %v", room.Number, err)
			continue
		}
		s.invalidateRoom(ctx, hostelID, room.ID)
		corrected++
	}

	return corrected, nil
}

func (s *occupancyService) invalidateRoom(ctx context.Context, hostelID, roomID uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteRoom(ctx, hostelID, roomID); err != nil {
		log.Printf("Failed to invalidate room cache: %v", err)
	}
}
