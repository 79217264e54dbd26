package services

import (
	"context"
	"log"
	"strings"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/caching"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
)

const referenceCacheTTL = time.Hour

// ReferenceService serves the read-mostly reference data: the weekly
// mess menu, the daily timetable, room categories and the fee breakdown.
// Empty collections are seeded with defaults on first read.
type ReferenceService interface {
	GetMenuForDay(ctx context.Context, hostelID uuid.UUID, day string) (*models.Menu, error)
	GetWeeklyMenu(ctx context.Context, hostelID uuid.UUID) ([]*models.Menu, error)
	UpsertMenu(ctx context.Context, menu *models.Menu) error
	GetTimetable(ctx context.Context, hostelID uuid.UUID) ([]*models.TimetableSlot, error)
	UpsertTimetableSlot(ctx context.Context, slot *models.TimetableSlot) error
	ListRoomCategories(ctx context.Context, hostelID uuid.UUID) ([]*models.RoomCategory, error)
	UpsertRoomCategory(ctx context.Context, category *models.RoomCategory) error
	GetFeeBreakdown(ctx context.Context, hostelID uuid.UUID) ([]*models.FeeComponent, error)
	ReplaceFeeBreakdown(ctx context.Context, hostelID uuid.UUID, components []*models.FeeComponent) error
}

type referenceService struct {
	menuRepo      repositories.MenuRepository
	timetableRepo repositories.TimetableRepository
	categoryRepo  repositories.RoomCategoryRepository
	feeRepo       repositories.FeeBreakdownRepository
	cacheSvc      caching.CacheService
}

func NewReferenceService(menuRepo repositories.MenuRepository, timetableRepo repositories.TimetableRepository, categoryRepo repositories.RoomCategoryRepository, feeRepo repositories.FeeBreakdownRepository, cacheSvc caching.CacheService) ReferenceService {
	return &referenceService{
		menuRepo:      menuRepo,
		timetableRepo: timetableRepo,
		categoryRepo:  categoryRepo,
		feeRepo:       feeRepo,
		cacheSvc:      cacheSvc,
	}
}

func (s *referenceService) GetMenuForDay(ctx context.Context, hostelID uuid.UUID, day string) (*models.Menu, error) {
	day = strings.ToLower(day)
	if !models.ValidWeekDay(day) {
		return nil, apperrors.Validationf("invalid day %q", day)
	}

	menu, err := s.menuRepo.GetByDay(ctx, hostelID, day)
	if err == nil {
		return menu, nil
	}

	// First read on an unseeded hostel: lay down the default week.
	if err := s.seedDefaultMenu(ctx, hostelID); err != nil {
		return nil, err
	}
	return s.menuRepo.GetByDay(ctx, hostelID, day)
}

func (s *referenceService) GetWeeklyMenu(ctx context.Context, hostelID uuid.UUID) ([]*models.Menu, error) {
	if cached, err := s.cacheSvc.GetMenuWeek(ctx, hostelID); err == nil && len(cached) > 0 {
		return cached, nil
	}

	menus, err := s.menuRepo.ListWeek(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	if len(menus) == 0 {
		if err := s.seedDefaultMenu(ctx, hostelID); err != nil {
			return nil, err
		}
		menus, err = s.menuRepo.ListWeek(ctx, hostelID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.cacheSvc.SetMenuWeek(ctx, hostelID, menus, referenceCacheTTL); err != nil {
		log.Printf("Failed to cache weekly menu: %v", err)
	}
	return menus, nil
}

func (s *referenceService) UpsertMenu(ctx context.Context, menu *models.Menu) error {
	menu.Day = strings.ToLower(menu.Day)
	if !models.ValidWeekDay(menu.Day) {
		return apperrors.Validationf("invalid day %q", menu.Day)
	}
	if menu.ID == uuid.Nil {
		menu.ID = uuid.New()
	}
	if err := s.menuRepo.Upsert(ctx, menu); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteMenuWeek(ctx, menu.HostelID); err != nil {
		log.Printf("Failed to invalidate menu cache: %v", err)
	}
	return nil
}

func (s *referenceService) GetTimetable(ctx context.Context, hostelID uuid.UUID) ([]*models.TimetableSlot, error) {
	slots, err := s.timetableRepo.List(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		if err := s.seedDefaultTimetable(ctx, hostelID); err != nil {
			return nil, err
		}
		return s.timetableRepo.List(ctx, hostelID)
	}
	return slots, nil
}

func (s *referenceService) UpsertTimetableSlot(ctx context.Context, slot *models.TimetableSlot) error {
	if slot.Slot < 1 {
		return apperrors.Validationf("slot must be positive")
	}
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	return s.timetableRepo.Upsert(ctx, slot)
}

func (s *referenceService) ListRoomCategories(ctx context.Context, hostelID uuid.UUID) ([]*models.RoomCategory, error) {
	return s.categoryRepo.List(ctx, hostelID)
}

func (s *referenceService) UpsertRoomCategory(ctx context.Context, category *models.RoomCategory) error {
	if category.Name == "" {
		return apperrors.Validationf("name is required")
	}
	if category.BaseRent < 0 {
		return apperrors.Validationf("base rent cannot be negative")
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return s.categoryRepo.Upsert(ctx, category)
}

func (s *referenceService) GetFeeBreakdown(ctx context.Context, hostelID uuid.UUID) ([]*models.FeeComponent, error) {
	if cached, err := s.cacheSvc.GetFeeBreakdown(ctx, hostelID); err == nil && len(cached) > 0 {
		return cached, nil
	}

	components, err := s.feeRepo.List(ctx, hostelID)
	if err != nil {
		return nil, err
	}

	if len(components) > 0 {
		if err := s.cacheSvc.SetFeeBreakdown(ctx, hostelID, components, referenceCacheTTL); err != nil {
			log.Printf("Failed to cache fee breakdown: %v", err)
		}
	}
	return components, nil
}

func (s *referenceService) ReplaceFeeBreakdown(ctx context.Context, hostelID uuid.UUID, components []*models.FeeComponent) error {
	for _, comp := range components {
		if comp.Name == "" {
			return apperrors.Validationf("fee component name is required")
		}
		if comp.Amount < 0 {
			return apperrors.Validationf("fee component amount cannot be negative")
		}
		if comp.ID == uuid.Nil {
			comp.ID = uuid.New()
		}
		comp.HostelID = hostelID
	}

	if err := s.feeRepo.Replace(ctx, hostelID, components); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteFeeBreakdown(ctx, hostelID); err != nil {
		log.Printf("Failed to invalidate fee breakdown cache: %v", err)
	}
	return nil
}

func (s *referenceService) seedDefaultMenu(ctx context.Context, hostelID uuid.UUID) error {
	for _, day := range models.WeekDays {
		menu := &models.Menu{
			ID:        uuid.New(),
			HostelID:  hostelID,
			Day:       day,
			Breakfast: "Idli, sambar, chutney, tea",
			Lunch:     "Rice, dal, seasonal vegetable, curd",
			Snacks:    "Tea and biscuits",
			Dinner:    "Chapati, rice, dal, seasonal vegetable",
		}
		if err := s.menuRepo.Upsert(ctx, menu); err != nil {
			return err
		}
	}
	return nil
}

func (s *referenceService) seedDefaultTimetable(ctx context.Context, hostelID uuid.UUID) error {
	defaults := []models.TimetableSlot{
		{Slot: 1, StartTime: "07:30", EndTime: "09:00", Activity: "Breakfast"},
		{Slot: 2, StartTime: "12:30", EndTime: "14:00", Activity: "Lunch"},
		{Slot: 3, StartTime: "17:00", EndTime: "17:30", Activity: "Evening snacks"},
		{Slot: 4, StartTime: "19:30", EndTime: "21:00", Activity: "Dinner"},
		{Slot: 5, StartTime: "22:30", EndTime: "23:00", Activity: "Gates close"},
	}
	for i := range defaults {
		slot := defaults[i]
		slot.ID = uuid.New()
		slot.HostelID = hostelID
		if err := s.timetableRepo.Upsert(ctx, &slot); err != nil {
			return err
		}
	}
	return nil
}
