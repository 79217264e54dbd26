package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockVacatingRepository struct {
	mock.Mock
}

func (m *MockVacatingRepository) Create(ctx context.Context, req *models.VacatingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockVacatingRepository) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.VacatingRequest, error) {
	args := m.Called(ctx, hostelID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VacatingRequest), args.Error(1)
}

func (m *MockVacatingRepository) Update(ctx context.Context, req *models.VacatingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockVacatingRepository) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	args := m.Called(ctx, hostelID, id)
	return args.Error(0)
}

func (m *MockVacatingRepository) List(ctx context.Context, hostelID uuid.UUID, filter *models.RequestSearchFilter) ([]*models.VacatingRequest, int, error) {
	args := m.Called(ctx, hostelID, filter)
	return args.Get(0).([]*models.VacatingRequest), args.Int(1), args.Error(2)
}

func (m *MockVacatingRepository) HasOutstanding(ctx context.Context, hostelID, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, hostelID, tenantID)
	return args.Bool(0), args.Error(1)
}

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) Onboard(ctx context.Context, hostelID uuid.UUID, input *OnboardTenantInput) (*OnboardTenantResult, error) {
	args := m.Called(ctx, hostelID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OnboardTenantResult), args.Error(1)
}

func (m *MockTenantService) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, hostelID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetByUserID(ctx context.Context, hostelID, userID uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, hostelID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, hostelID uuid.UUID, tenant *models.Tenant) error {
	args := m.Called(ctx, hostelID, tenant)
	return args.Error(0)
}

func (m *MockTenantService) Offboard(ctx context.Context, hostelID, id uuid.UUID) error {
	args := m.Called(ctx, hostelID, id)
	return args.Error(0)
}

func (m *MockTenantService) List(ctx context.Context, hostelID uuid.UUID, filter *models.TenantSearchFilter) ([]*models.Tenant, int, error) {
	args := m.Called(ctx, hostelID, filter)
	return args.Get(0).([]*models.Tenant), args.Int(1), args.Error(2)
}

func (m *MockTenantService) Stats(ctx context.Context, hostelID uuid.UUID) (*models.TenantStats, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantStats), args.Error(1)
}

type VacatingServiceTestSuite struct {
	suite.Suite
	mockVacatingRepo *MockVacatingRepository
	mockTenantRepo   *MockTenantRepository
	mockTenantSvc    *MockTenantService
	mockSMS          *MockSMSService
	service          VacatingService
	hostelID         uuid.UUID
	tenantID         uuid.UUID
	approverID       uuid.UUID
	ctx              context.Context
}

func (suite *VacatingServiceTestSuite) SetupTest() {
	suite.mockVacatingRepo = &MockVacatingRepository{}
	suite.mockTenantRepo = &MockTenantRepository{}
	suite.mockTenantSvc = &MockTenantService{}
	suite.mockSMS = &MockSMSService{}
	suite.service = NewVacatingService(suite.mockVacatingRepo, suite.mockTenantRepo, suite.mockTenantSvc, suite.mockSMS)
	suite.hostelID = uuid.New()
	suite.tenantID = uuid.New()
	suite.approverID = uuid.New()
	suite.ctx = context.Background()

	suite.mockVacatingRepo.Test(suite.T())
	suite.mockTenantRepo.Test(suite.T())
	suite.mockTenantSvc.Test(suite.T())
	suite.mockSMS.Test(suite.T())
}

func (suite *VacatingServiceTestSuite) TearDownTest() {
	suite.mockVacatingRepo.AssertExpectations(suite.T())
	suite.mockTenantRepo.AssertExpectations(suite.T())
	suite.mockTenantSvc.AssertExpectations(suite.T())
	suite.mockSMS.AssertExpectations(suite.T())
}

func TestVacatingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VacatingServiceTestSuite))
}

func (suite *VacatingServiceTestSuite) pendingRequest() *models.VacatingRequest {
	return &models.VacatingRequest{
		ID:         uuid.New(),
		HostelID:   suite.hostelID,
		TenantID:   suite.tenantID,
		VacateDate: time.Now().AddDate(0, 1, 0),
		Reason:     "relocating for work",
		Status:     models.RequestStatusPending,
	}
}

func (suite *VacatingServiceTestSuite) TestSubmit_Success() {
	req := &models.VacatingRequest{
		HostelID:   suite.hostelID,
		TenantID:   suite.tenantID,
		VacateDate: time.Now().AddDate(0, 1, 0),
		Reason:     "course finished",
	}

	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(&models.Tenant{ID: suite.tenantID}, nil)
	suite.mockVacatingRepo.On("HasOutstanding", suite.ctx, suite.hostelID, suite.tenantID).Return(false, nil)
	suite.mockVacatingRepo.On("Create", suite.ctx, req).Return(nil)

	err := suite.service.Submit(suite.ctx, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RequestStatusPending, req.Status)
	assert.NotEqual(suite.T(), uuid.Nil, req.ID)
}

func (suite *VacatingServiceTestSuite) TestSubmit_PastVacateDate() {
	req := &models.VacatingRequest{
		HostelID:   suite.hostelID,
		TenantID:   suite.tenantID,
		VacateDate: time.Now().AddDate(0, 0, -2),
	}

	err := suite.service.Submit(suite.ctx, req)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *VacatingServiceTestSuite) TestSubmit_DuplicateOutstanding() {
	req := &models.VacatingRequest{
		HostelID:   suite.hostelID,
		TenantID:   suite.tenantID,
		VacateDate: time.Now().AddDate(0, 1, 0),
	}

	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(&models.Tenant{ID: suite.tenantID}, nil)
	suite.mockVacatingRepo.On("HasOutstanding", suite.ctx, suite.hostelID, suite.tenantID).Return(true, nil)

	err := suite.service.Submit(suite.ctx, req)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockVacatingRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *VacatingServiceTestSuite) TestApprove_RecordsSettlementAndNotifies() {
	req := suite.pendingRequest()
	tenant := &models.Tenant{ID: suite.tenantID, Phone: "9876543210"}

	suite.mockVacatingRepo.On("GetByID", suite.ctx, suite.hostelID, req.ID).Return(req, nil)
	suite.mockVacatingRepo.On("Update", suite.ctx, req).Return(nil)
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)
	suite.mockSMS.On("Send", suite.ctx, suite.hostelID, "9876543210", mock.AnythingOfType("string"), models.SMSCategoryManual).
		Return(&models.SMSResult{Success: true}, nil)

	got, err := suite.service.Approve(suite.ctx, suite.hostelID, req.ID, suite.approverID, 1500, 3500)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RequestStatusApproved, got.Status)
	assert.Equal(suite.T(), &suite.approverID, got.ApprovedBy)
	assert.NotNil(suite.T(), got.ApprovalDate)
	assert.Equal(suite.T(), 1500.0, got.SettlementAmount)
	assert.Equal(suite.T(), 3500.0, got.RefundAmount)
}

func (suite *VacatingServiceTestSuite) TestApprove_NonPending() {
	req := suite.pendingRequest()
	req.Status = models.RequestStatusRejected

	suite.mockVacatingRepo.On("GetByID", suite.ctx, suite.hostelID, req.ID).Return(req, nil)

	_, err := suite.service.Approve(suite.ctx, suite.hostelID, req.ID, suite.approverID, 0, 0)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

func (suite *VacatingServiceTestSuite) TestApprove_NegativeSettlement() {
	req := suite.pendingRequest()

	suite.mockVacatingRepo.On("GetByID", suite.ctx, suite.hostelID, req.ID).Return(req, nil)

	_, err := suite.service.Approve(suite.ctx, suite.hostelID, req.ID, suite.approverID, -100, 0)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *VacatingServiceTestSuite) TestComplete_OffboardsTenant() {
	req := suite.pendingRequest()
	req.Status = models.RequestStatusApproved

	suite.mockVacatingRepo.On("GetByID", suite.ctx, suite.hostelID, req.ID).Return(req, nil)
	suite.mockVacatingRepo.On("Update", suite.ctx, req).Return(nil)
	suite.mockTenantSvc.On("Offboard", suite.ctx, suite.hostelID, suite.tenantID).Return(nil)

	got, err := suite.service.Complete(suite.ctx, suite.hostelID, req.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RequestStatusCompleted, got.Status)
}

func (suite *VacatingServiceTestSuite) TestComplete_RequiresApproval() {
	req := suite.pendingRequest()

	suite.mockVacatingRepo.On("GetByID", suite.ctx, suite.hostelID, req.ID).Return(req, nil)

	_, err := suite.service.Complete(suite.ctx, suite.hostelID, req.ID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockTenantSvc.AssertNotCalled(suite.T(), "Offboard", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VacatingServiceTestSuite) TestComplete_OffboardFailureSurfaces() {
	req := suite.pendingRequest()
	req.Status = models.RequestStatusApproved

	suite.mockVacatingRepo.On("GetByID", suite.ctx, suite.hostelID, req.ID).Return(req, nil)
	suite.mockVacatingRepo.On("Update", suite.ctx, req).Return(nil)
	suite.mockTenantSvc.On("Offboard", suite.ctx, suite.hostelID, suite.tenantID).Return(errors.New("db down"))

	_, err := suite.service.Complete(suite.ctx, suite.hostelID, req.ID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "offboarding failed")
}
