package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTenantPassword is issued when onboarding supplies no explicit
// password, and is returned exactly once in the onboarding response.
const DefaultTenantPassword = "Welcome@123"

// OnboardTenantInput is everything needed to create a tenant and their
// login in one operation.
type OnboardTenantInput struct {
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	AadhaarNumber   string     `json:"aadhaar_number"`
	RoomID          *uuid.UUID `json:"room_id,omitempty"`
	MoveInDate      *time.Time `json:"move_in_date,omitempty"`
	EmergencyName   string     `json:"emergency_name"`
	EmergencyPhone  string     `json:"emergency_phone"`
	SecurityDeposit float64    `json:"security_deposit"`
	// Password is optional; when empty the documented default is issued.
	Password string `json:"password,omitempty"`
}

// OnboardTenantResult carries the created records. InitialPassword is
// set only when the default credential was issued, and is returned
// exactly once.
type OnboardTenantResult struct {
	Tenant          *models.Tenant `json:"tenant"`
	User            *models.User   `json:"user"`
	InitialPassword string         `json:"initial_password,omitempty"`
}

// TenantService owns the tenant lifecycle: onboarding creates the login
// and the tenant record together, updates keep the two in sync, and
// offboarding tears everything down in a safe order.
type TenantService interface {
	Onboard(ctx context.Context, hostelID uuid.UUID, input *OnboardTenantInput) (*OnboardTenantResult, error)
	GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Tenant, error)
	GetByUserID(ctx context.Context, hostelID, userID uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, hostelID uuid.UUID, tenant *models.Tenant) error
	Offboard(ctx context.Context, hostelID, id uuid.UUID) error
	List(ctx context.Context, hostelID uuid.UUID, filter *models.TenantSearchFilter) ([]*models.Tenant, int, error)
	Stats(ctx context.Context, hostelID uuid.UUID) (*models.TenantStats, error)
}

type tenantService struct {
	tenantRepo   repositories.TenantRepository
	userRepo     repositories.UserRepository
	occupancySvc OccupancyService
}

func NewTenantService(tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository, occupancySvc OccupancyService) TenantService {
	return &tenantService{
		tenantRepo:   tenantRepo,
		userRepo:     userRepo,
		occupancySvc: occupancySvc,
	}
}

func (s *tenantService) validateOnboardInput(input *OnboardTenantInput) error {
	if err := common.ValidateRequiredString(input.FirstName, "first_name"); err != nil {
		return apperrors.Validationf("%v", err)
	}
	if err := common.ValidateRequiredString(input.LastName, "last_name"); err != nil {
		return apperrors.Validationf("%v", err)
	}
	if err := common.ValidateRequiredString(input.Email, "email"); err != nil {
		return apperrors.Validationf("%v", err)
	}
	if err := common.ValidatePhone(input.Phone, "phone"); err != nil {
		return apperrors.Validationf("%v", err)
	}
	if err := common.ValidateAadhaar(input.AadhaarNumber, "aadhaar_number"); err != nil {
		return apperrors.Validationf("%v", err)
	}
	if input.SecurityDeposit < 0 {
		return apperrors.Validationf("security deposit cannot be negative")
	}
	return nil
}

// Onboard creates the login user and the tenant record, links them, and
// optionally assigns a room. Any failure after user creation rolls the
// user back so a half-onboarded tenant never survives.
func (s *tenantService) Onboard(ctx context.Context, hostelID uuid.UUID, input *OnboardTenantInput) (*OnboardTenantResult, error) {
	if err := s.validateOnboardInput(input); err != nil {
		return nil, err
	}

	if _, err := s.tenantRepo.GetByEmail(ctx, hostelID, input.Email); err == nil {
		return nil, apperrors.Conflictf("tenant with email %s already exists", input.Email)
	}

	password := input.Password
	generated := password == ""
	if generated {
		password = DefaultTenantPassword
	} else if len(password) < 8 {
		return nil, apperrors.Validationf("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash initial password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		HostelID:     hostelID,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Name:         input.FirstName + " " + input.LastName,
		Phone:        input.Phone,
		Role:         models.RoleTenant,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		ID:              uuid.New(),
		HostelID:        hostelID,
		UserID:          user.ID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Phone:           input.Phone,
		AadhaarNumber:   input.AadhaarNumber,
		MoveInDate:      input.MoveInDate,
		EmergencyName:   input.EmergencyName,
		EmergencyPhone:  input.EmergencyPhone,
		SecurityDeposit: input.SecurityDeposit,
		Active:          true,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		// Compensate: remove the orphan login.
		if delErr := s.userRepo.Delete(ctx, hostelID, user.ID); delErr != nil {
			log.Printf("Failed to remove orphan user %s after tenant create failure: %v", user.ID, delErr)
		}
		return nil, err
	}

	if err := s.userRepo.SetTenantID(ctx, hostelID, user.ID, &tenant.ID); err != nil {
		log.Printf("Failed to back-link user %s to tenant %s: %v", user.ID, tenant.ID, err)
	}
	user.TenantID = &tenant.ID

	if input.RoomID != nil {
		if err := s.occupancySvc.Assign(ctx, hostelID, tenant.ID, *input.RoomID); err != nil {
			// Room assignment is part of the onboarding contract: unwind
			// both records rather than leave a roomless surprise.
			if delErr := s.tenantRepo.Delete(ctx, hostelID, tenant.ID); delErr != nil {
				log.Printf("Failed to remove tenant %s after assignment failure: %v", tenant.ID, delErr)
			}
			if delErr := s.userRepo.Delete(ctx, hostelID, user.ID); delErr != nil {
				log.Printf("Failed to remove user %s after assignment failure: %v", user.ID, delErr)
			}
			return nil, err
		}
		tenant.RoomID = input.RoomID
	}

	result := &OnboardTenantResult{
		Tenant: tenant,
		User:   user,
	}
	if generated {
		result.InitialPassword = DefaultTenantPassword
	}
	return result, nil
}

func (s *tenantService) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, hostelID, id)
}

func (s *tenantService) GetByUserID(ctx context.Context, hostelID, userID uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByUserID(ctx, hostelID, userID)
}

// Update persists tenant profile changes and mirrors contact details to
// the linked user so login email and phone never diverge.
func (s *tenantService) Update(ctx context.Context, hostelID uuid.UUID, tenant *models.Tenant) error {
	if err := common.ValidatePhone(tenant.Phone, "phone"); err != nil {
		return apperrors.Validationf("%v", err)
	}

	existing, err := s.tenantRepo.GetByID(ctx, hostelID, tenant.ID)
	if err != nil {
		return err
	}

	// Room moves go through the occupancy ledger, not profile updates.
	tenant.RoomID = existing.RoomID
	tenant.UserID = existing.UserID

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return err
	}

	if existing.Email != tenant.Email || existing.Phone != tenant.Phone {
		err := s.userRepo.UpdateContact(ctx, hostelID, existing.UserID, tenant.Email, tenant.Phone)
		if err != nil {
			// One retry before surfacing the drift.
			if err = s.userRepo.UpdateContact(ctx, hostelID, existing.UserID, tenant.Email, tenant.Phone); err != nil {
				return fmt.Errorf("tenant updated but login contact sync failed: %w", err)
			}
		}
	}

	return nil
}

// Offboard releases the tenant's room, removes the login, then removes
// the tenant record. Ordering matters: the room is freed first so the
// occupancy counter never exceeds the roster.
func (s *tenantService) Offboard(ctx context.Context, hostelID, id uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, hostelID, id)
	if err != nil {
		return err
	}

	if err := s.occupancySvc.Release(ctx, hostelID, id); err != nil {
		return fmt.Errorf("failed to release room during offboarding: %w", err)
	}

	if err := s.userRepo.Delete(ctx, hostelID, tenant.UserID); err != nil {
		log.Printf("Failed to delete login for tenant %s: %v", id, err)
		// Proceed: the tenant record is the source of truth and the
		// dangling login cannot reach tenant data once the row is gone.
	}

	return s.tenantRepo.Delete(ctx, hostelID, id)
}

func (s *tenantService) List(ctx context.Context, hostelID uuid.UUID, filter *models.TenantSearchFilter) ([]*models.Tenant, int, error) {
	if filter == nil {
		filter = &models.TenantSearchFilter{Limit: 20}
	}
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	return s.tenantRepo.List(ctx, hostelID, filter)
}

func (s *tenantService) Stats(ctx context.Context, hostelID uuid.UUID) (*models.TenantStats, error) {
	return s.tenantRepo.Stats(ctx, hostelID)
}
