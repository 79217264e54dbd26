package services

import (
	"context"
	"log"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/caching"
	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
)

const roomCacheTTL = 10 * time.Minute

// RoomService manages the room inventory. Occupancy counters are owned
// by the occupancy service; this service never touches them directly.
type RoomService interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, hostelID, id uuid.UUID) error
	List(ctx context.Context, hostelID uuid.UUID, filter *models.RoomSearchFilter) ([]*models.Room, int, error)
	Stats(ctx context.Context, hostelID uuid.UUID) (*models.RoomStats, error)
}

type roomService struct {
	roomRepo repositories.RoomRepository
	cacheSvc caching.CacheService
}

func NewRoomService(roomRepo repositories.RoomRepository, cacheSvc caching.CacheService) RoomService {
	return &roomService{
		roomRepo: roomRepo,
		cacheSvc: cacheSvc,
	}
}

func (s *roomService) validate(room *models.Room) error {
	if err := common.ValidateRequiredString(room.Number, "number"); err != nil {
		return apperrors.Validationf("%v", err)
	}
	if !models.ValidRoomType(room.Type) {
		return apperrors.Validationf("invalid room type %q", room.Type)
	}
	if room.Capacity < 1 {
		return apperrors.Validationf("capacity must be at least 1")
	}
	if room.Rent < 0 {
		return apperrors.Validationf("rent cannot be negative")
	}
	return nil
}

func (s *roomService) Create(ctx context.Context, room *models.Room) error {
	if err := s.validate(room); err != nil {
		return err
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	room.Occupancy = 0
	room.Active = true
	return s.roomRepo.Create(ctx, room)
}

func (s *roomService) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Room, error) {
	if cached, err := s.cacheSvc.GetRoom(ctx, hostelID, id); err == nil && cached != nil {
		return cached, nil
	}

	room, err := s.roomRepo.GetByID(ctx, hostelID, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetRoom(ctx, hostelID, room, roomCacheTTL); err != nil {
		log.Printf("Failed to cache room %s: %v", id, err)
	}
	return room, nil
}

func (s *roomService) Update(ctx context.Context, room *models.Room) error {
	if err := s.validate(room); err != nil {
		return err
	}
	if !models.ValidRoomStatus(room.Status) {
		return apperrors.Validationf("invalid room status %q", room.Status)
	}

	existing, err := s.roomRepo.GetByID(ctx, room.HostelID, room.ID)
	if err != nil {
		return err
	}
	if room.Capacity < existing.Occupancy {
		return apperrors.Validationf("capacity %d is below current occupancy %d", room.Capacity, existing.Occupancy)
	}
	// Counter moves belong to the occupancy ledger.
	room.Occupancy = existing.Occupancy

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return err
	}

	if err := s.cacheSvc.DeleteRoom(ctx, room.HostelID, room.ID); err != nil {
		log.Printf("Failed to invalidate room cache: %v", err)
	}
	return nil
}

func (s *roomService) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	room, err := s.roomRepo.GetByID(ctx, hostelID, id)
	if err != nil {
		return err
	}
	if room.Occupancy > 0 {
		return apperrors.Conflictf("room %s still has %d occupant(s)", room.Number, room.Occupancy)
	}

	if err := s.roomRepo.Delete(ctx, hostelID, id); err != nil {
		return err
	}

	if err := s.cacheSvc.DeleteRoom(ctx, hostelID, id); err != nil {
		log.Printf("Failed to invalidate room cache: %v", err)
	}
	return nil
}

func (s *roomService) List(ctx context.Context, hostelID uuid.UUID, filter *models.RoomSearchFilter) ([]*models.Room, int, error) {
	if filter == nil {
		filter = &models.RoomSearchFilter{Limit: 20}
	}
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	return s.roomRepo.List(ctx, hostelID, filter)
}

func (s *roomService) Stats(ctx context.Context, hostelID uuid.UUID) (*models.RoomStats, error) {
	return s.roomRepo.Stats(ctx, hostelID)
}
