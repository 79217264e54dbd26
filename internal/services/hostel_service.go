package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterHostelInput creates a hostel and its first admin together.
type RegisterHostelInput struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Address       string `json:"address"`
	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// HostelService manages hostel registration and lookup.
type HostelService interface {
	Register(ctx context.Context, input *RegisterHostelInput) (*models.Hostel, *models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error)
	List(ctx context.Context, limit, offset int) ([]*models.Hostel, error)
}

type hostelService struct {
	hostelRepo repositories.HostelRepository
	userRepo   repositories.UserRepository
}

func NewHostelService(hostelRepo repositories.HostelRepository, userRepo repositories.UserRepository) HostelService {
	return &hostelService{
		hostelRepo: hostelRepo,
		userRepo:   userRepo,
	}
}

// Register creates the hostel and its first admin login.
func (s *hostelService) Register(ctx context.Context, input *RegisterHostelInput) (*models.Hostel, *models.User, error) {
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return nil, nil, apperrors.Validationf("%v", err)
	}
	if err := common.ValidateRequiredString(input.Code, "code"); err != nil {
		return nil, nil, apperrors.Validationf("%v", err)
	}
	if err := common.ValidateRequiredString(input.AdminEmail, "admin_email"); err != nil {
		return nil, nil, apperrors.Validationf("%v", err)
	}
	if len(input.AdminPassword) < 8 {
		return nil, nil, apperrors.Validationf("admin password must be at least 8 characters")
	}

	hostel := &models.Hostel{
		ID:      uuid.New(),
		Name:    input.Name,
		Code:    strings.ToUpper(input.Code),
		Address: input.Address,
		Status:  "active",
	}
	if err := s.hostelRepo.Create(ctx, hostel); err != nil {
		return nil, nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash admin password: %v", err)
	}

	admin := &models.User{
		ID:           uuid.New(),
		HostelID:     hostel.ID,
		Email:        input.AdminEmail,
		PasswordHash: string(hashed),
		Name:         input.AdminName,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		// Compensate: a hostel without any admin login is unreachable.
		if delErr := s.hostelRepo.Delete(ctx, hostel.ID); delErr != nil {
			log.Printf("Failed to remove hostel %s after admin create failure: %v", hostel.Code, delErr)
		}
		return nil, nil, err
	}

	return hostel, admin, nil
}

func (s *hostelService) GetByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	return s.hostelRepo.GetByID(ctx, id)
}

func (s *hostelService) List(ctx context.Context, limit, offset int) ([]*models.Hostel, error) {
	return s.hostelRepo.List(ctx, limit, offset)
}
