package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) CreatePayment(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockBillingService) GetPayment(ctx context.Context, hostelID, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, hostelID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockBillingService) ListPayments(ctx context.Context, hostelID uuid.UUID, filter *models.PaymentSearchFilter) ([]*models.Payment, int, error) {
	args := m.Called(ctx, hostelID, filter)
	return args.Get(0).([]*models.Payment), args.Int(1), args.Error(2)
}

func (m *MockBillingService) MarkPaid(ctx context.Context, hostelID, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, hostelID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockBillingService) ComputeCurrentDue(ctx context.Context, hostelID, tenantID uuid.UUID) (*models.RentDue, error) {
	args := m.Called(ctx, hostelID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentDue), args.Error(1)
}

func (m *MockBillingService) ClassifyPendingPayments(ctx context.Context, hostelID uuid.UUID, now time.Time) ([]*models.ClassifiedPayment, error) {
	args := m.Called(ctx, hostelID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClassifiedPayment), args.Error(1)
}

type MockSMSService struct {
	mock.Mock
}

func (m *MockSMSService) Send(ctx context.Context, hostelID uuid.UUID, phone, body, category string) (*models.SMSResult, error) {
	args := m.Called(ctx, hostelID, phone, body, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SMSResult), args.Error(1)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, hostelID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetByUserID(ctx context.Context, hostelID, userID uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, hostelID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetByEmail(ctx context.Context, hostelID uuid.UUID, email string) (*models.Tenant, error) {
	args := m.Called(ctx, hostelID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) SetRoom(ctx context.Context, hostelID, id uuid.UUID, roomID *uuid.UUID) error {
	args := m.Called(ctx, hostelID, id, roomID)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	args := m.Called(ctx, hostelID, id)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, hostelID uuid.UUID, filter *models.TenantSearchFilter) ([]*models.Tenant, int, error) {
	args := m.Called(ctx, hostelID, filter)
	return args.Get(0).([]*models.Tenant), args.Int(1), args.Error(2)
}

func (m *MockTenantRepository) CountActiveByRoom(ctx context.Context, hostelID uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

func (m *MockTenantRepository) Stats(ctx context.Context, hostelID uuid.UUID) (*models.TenantStats, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantStats), args.Error(1)
}

type MockHostelRepository struct {
	mock.Mock
}

func (m *MockHostelRepository) Create(ctx context.Context, hostel *models.Hostel) error {
	args := m.Called(ctx, hostel)
	return args.Error(0)
}

func (m *MockHostelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hostel), args.Error(1)
}

func (m *MockHostelRepository) GetByCode(ctx context.Context, code string) (*models.Hostel, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hostel), args.Error(1)
}

func (m *MockHostelRepository) List(ctx context.Context, limit, offset int) ([]*models.Hostel, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Hostel), args.Error(1)
}

func (m *MockHostelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type RentAlertsJobTestSuite struct {
	suite.Suite
	mockBilling    *MockBillingService
	mockSMS        *MockSMSService
	mockTenantRepo *MockTenantRepository
	mockHostelRepo *MockHostelRepository
	job            *RentAlertsJob
	hostelID       uuid.UUID
	ctx            context.Context
}

func (suite *RentAlertsJobTestSuite) SetupTest() {
	suite.mockBilling = &MockBillingService{}
	suite.mockSMS = &MockSMSService{}
	suite.mockTenantRepo = &MockTenantRepository{}
	suite.mockHostelRepo = &MockHostelRepository{}
	suite.job = NewRentAlertsJob(suite.mockBilling, suite.mockSMS, suite.mockTenantRepo, suite.mockHostelRepo, 2)
	suite.hostelID = uuid.New()
	suite.ctx = context.Background()

	suite.mockBilling.Test(suite.T())
	suite.mockSMS.Test(suite.T())
	suite.mockTenantRepo.Test(suite.T())
	suite.mockHostelRepo.Test(suite.T())
}

func (suite *RentAlertsJobTestSuite) TearDownTest() {
	suite.mockBilling.AssertExpectations(suite.T())
	suite.mockSMS.AssertExpectations(suite.T())
	suite.mockTenantRepo.AssertExpectations(suite.T())
	suite.mockHostelRepo.AssertExpectations(suite.T())
}

func TestRentAlertsJobTestSuite(t *testing.T) {
	suite.Run(t, new(RentAlertsJobTestSuite))
}

func (suite *RentAlertsJobTestSuite) classifiedPayment(category string) (*models.ClassifiedPayment, *models.Tenant) {
	tenantID := uuid.New()
	due := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	cp := &models.ClassifiedPayment{
		Payment:  &models.Payment{ID: uuid.New(), TenantID: tenantID, Amount: 8500, DueDate: &due},
		Category: category,
	}
	tenant := &models.Tenant{ID: tenantID, FirstName: "Ravi", Phone: "9876543210"}
	return cp, tenant
}

func (suite *RentAlertsJobTestSuite) TestRunForHostel_CountsCategories() {
	overdue, overdueTenant := suite.classifiedPayment(models.DueCategoryOverdue)
	reminder, reminderTenant := suite.classifiedPayment(models.DueCategoryReminder)

	suite.mockBilling.On("ClassifyPendingPayments", suite.ctx, suite.hostelID, mock.AnythingOfType("time.Time")).
		Return([]*models.ClassifiedPayment{overdue, reminder}, nil)
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, overdue.Payment.TenantID).Return(overdueTenant, nil)
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, reminder.Payment.TenantID).Return(reminderTenant, nil)
	suite.mockSMS.On("Send", suite.ctx, suite.hostelID, "9876543210", mock.AnythingOfType("string"), models.SMSCategoryOverdue).
		Return(&models.SMSResult{Success: true}, nil)
	suite.mockSMS.On("Send", suite.ctx, suite.hostelID, "9876543210", mock.AnythingOfType("string"), models.SMSCategoryReminder).
		Return(&models.SMSResult{Success: true}, nil)

	summary, err := suite.job.RunForHostel(suite.ctx, suite.hostelID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, summary.Scanned)
	assert.Equal(suite.T(), 1, summary.Overdue)
	assert.Equal(suite.T(), 1, summary.Reminders)
	assert.Equal(suite.T(), 0, summary.Failed)
}

func (suite *RentAlertsJobTestSuite) TestRunForHostel_FailedSendDoesNotAbortSweep() {
	first, firstTenant := suite.classifiedPayment(models.DueCategoryOverdue)
	second, secondTenant := suite.classifiedPayment(models.DueCategoryReminder)

	suite.mockBilling.On("ClassifyPendingPayments", suite.ctx, suite.hostelID, mock.AnythingOfType("time.Time")).
		Return([]*models.ClassifiedPayment{first, second}, nil)
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, first.Payment.TenantID).Return(firstTenant, nil)
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, second.Payment.TenantID).Return(secondTenant, nil)
	suite.mockSMS.On("Send", suite.ctx, suite.hostelID, "9876543210", mock.AnythingOfType("string"), models.SMSCategoryOverdue).
		Return(nil, errors.New("gateway down"))
	suite.mockSMS.On("Send", suite.ctx, suite.hostelID, "9876543210", mock.AnythingOfType("string"), models.SMSCategoryReminder).
		Return(&models.SMSResult{Success: true}, nil)

	summary, err := suite.job.RunForHostel(suite.ctx, suite.hostelID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, summary.Scanned)
	assert.Equal(suite.T(), 1, summary.Failed)
	assert.Equal(suite.T(), 1, summary.Reminders)
	assert.Equal(suite.T(), 0, summary.Overdue)
}

func (suite *RentAlertsJobTestSuite) TestRunForHostel_TenantLookupFailureCountsAsFailed() {
	cp, _ := suite.classifiedPayment(models.DueCategoryOverdue)

	suite.mockBilling.On("ClassifyPendingPayments", suite.ctx, suite.hostelID, mock.AnythingOfType("time.Time")).
		Return([]*models.ClassifiedPayment{cp}, nil)
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, cp.Payment.TenantID).Return(nil, errors.New("not found"))

	summary, err := suite.job.RunForHostel(suite.ctx, suite.hostelID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, summary.Failed)
	suite.mockSMS.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RentAlertsJobTestSuite) TestRunForHostel_EmptySweep() {
	suite.mockBilling.On("ClassifyPendingPayments", suite.ctx, suite.hostelID, mock.AnythingOfType("time.Time")).
		Return([]*models.ClassifiedPayment{}, nil)

	summary, err := suite.job.RunForHostel(suite.ctx, suite.hostelID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, summary.Scanned)
}

func (suite *RentAlertsJobTestSuite) TestRunAll_OneFailingHostelDoesNotStopOthers() {
	hostelA := &models.Hostel{ID: uuid.New(), Code: "HSL-A"}
	hostelB := &models.Hostel{ID: uuid.New(), Code: "HSL-B"}

	suite.mockHostelRepo.On("List", suite.ctx, 1000, 0).Return([]*models.Hostel{hostelA, hostelB}, nil)
	suite.mockBilling.On("ClassifyPendingPayments", suite.ctx, hostelA.ID, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("db down"))
	suite.mockBilling.On("ClassifyPendingPayments", suite.ctx, hostelB.ID, mock.AnythingOfType("time.Time")).
		Return([]*models.ClassifiedPayment{}, nil)

	err := suite.job.RunAll(suite.ctx)
	assert.NoError(suite.T(), err)
	suite.mockBilling.AssertCalled(suite.T(), "ClassifyPendingPayments", suite.ctx, hostelB.ID, mock.AnythingOfType("time.Time"))
}
