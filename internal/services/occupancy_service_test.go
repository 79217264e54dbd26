package services

import (
	"context"
	"errors"
	"testing"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

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

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, hostelID, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, hostelID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByNumber(ctx context.Context, hostelID uuid.UUID, number string) (*models.Room, error) {
	args := m.Called(ctx, hostelID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) Update(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, hostelID, id uuid.UUID) error {
	args := m.Called(ctx, hostelID, id)
	return args.Error(0)
}

func (m *MockRoomRepository) List(ctx context.Context, hostelID uuid.UUID, filter *models.RoomSearchFilter) ([]*models.Room, int, error) {
	args := m.Called(ctx, hostelID, filter)
	return args.Get(0).([]*models.Room), args.Int(1), args.Error(2)
}

func (m *MockRoomRepository) ListAll(ctx context.Context, hostelID uuid.UUID) ([]*models.Room, error) {
	args := m.Called(ctx, hostelID)
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *MockRoomRepository) AssignOne(ctx context.Context, hostelID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, hostelID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomRepository) ReleaseOne(ctx context.Context, hostelID, id uuid.UUID) error {
	args := m.Called(ctx, hostelID, id)
	return args.Error(0)
}

func (m *MockRoomRepository) ExchangeOne(ctx context.Context, hostelID, fromID, toID uuid.UUID) (bool, error) {
	args := m.Called(ctx, hostelID, fromID, toID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomRepository) SetOccupancy(ctx context.Context, hostelID, id uuid.UUID, occupancy int) error {
	args := m.Called(ctx, hostelID, id, occupancy)
	return args.Error(0)
}

func (m *MockRoomRepository) Stats(ctx context.Context, hostelID uuid.UUID) (*models.RoomStats, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoomStats), args.Error(1)
}

type OccupancyServiceTestSuite struct {
	suite.Suite
	mockRoomRepo   *MockRoomRepository
	mockTenantRepo *MockTenantRepository
	service        OccupancyService
	hostelID       uuid.UUID
	tenantID       uuid.UUID
	roomID         uuid.UUID
	ctx            context.Context
}

func (suite *OccupancyServiceTestSuite) SetupTest() {
	suite.mockRoomRepo = &MockRoomRepository{}
	suite.mockTenantRepo = &MockTenantRepository{}
	suite.service = NewOccupancyService(suite.mockRoomRepo, suite.mockTenantRepo, nil)
	suite.hostelID = uuid.New()
	suite.tenantID = uuid.New()
	suite.roomID = uuid.New()
	suite.ctx = context.Background()

	suite.mockRoomRepo.Test(suite.T())
	suite.mockTenantRepo.Test(suite.T())
}

func (suite *OccupancyServiceTestSuite) TearDownTest() {
	suite.mockRoomRepo.AssertExpectations(suite.T())
	suite.mockTenantRepo.AssertExpectations(suite.T())
}

func TestOccupancyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OccupancyServiceTestSuite))
}

func (suite *OccupancyServiceTestSuite) activeTenant() *models.Tenant {
	return &models.Tenant{
		ID:        suite.tenantID,
		HostelID:  suite.hostelID,
		FirstName: "Ravi",
		LastName:  "Kumar",
		Active:    true,
	}
}

func (suite *OccupancyServiceTestSuite) TestAssign_Success() {
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(suite.activeTenant(), nil)
	suite.mockRoomRepo.On("AssignOne", suite.ctx, suite.hostelID, suite.roomID).Return(true, nil)
	suite.mockTenantRepo.On("SetRoom", suite.ctx, suite.hostelID, suite.tenantID, &suite.roomID).Return(nil)

	err := suite.service.Assign(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.NoError(suite.T(), err)
}

func (suite *OccupancyServiceTestSuite) TestAssign_RoomFull() {
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(suite.activeTenant(), nil)
	suite.mockRoomRepo.On("AssignOne", suite.ctx, suite.hostelID, suite.roomID).Return(false, nil)

	err := suite.service.Assign(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrCapacityExceeded)
	// No SetRoom call: the tenant record stays untouched.
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "SetRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OccupancyServiceTestSuite) TestAssign_AlreadyInRequestedRoom() {
	tenant := suite.activeTenant()
	tenant.RoomID = &suite.roomID
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)

	err := suite.service.Assign(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.NoError(suite.T(), err)
	suite.mockRoomRepo.AssertNotCalled(suite.T(), "AssignOne", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OccupancyServiceTestSuite) TestAssign_AlreadyInAnotherRoom() {
	otherRoom := uuid.New()
	tenant := suite.activeTenant()
	tenant.RoomID = &otherRoom
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)

	err := suite.service.Assign(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

func (suite *OccupancyServiceTestSuite) TestAssign_InactiveTenant() {
	tenant := suite.activeTenant()
	tenant.Active = false
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)

	err := suite.service.Assign(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *OccupancyServiceTestSuite) TestAssign_SetRoomFailureRollsBackCounter() {
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(suite.activeTenant(), nil)
	suite.mockRoomRepo.On("AssignOne", suite.ctx, suite.hostelID, suite.roomID).Return(true, nil)
	suite.mockTenantRepo.On("SetRoom", suite.ctx, suite.hostelID, suite.tenantID, &suite.roomID).Return(errors.New("db down"))
	suite.mockRoomRepo.On("ReleaseOne", suite.ctx, suite.hostelID, suite.roomID).Return(nil)

	err := suite.service.Assign(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.Error(suite.T(), err)
	suite.mockRoomRepo.AssertCalled(suite.T(), "ReleaseOne", suite.ctx, suite.hostelID, suite.roomID)
}

func (suite *OccupancyServiceTestSuite) TestRelease_Success() {
	tenant := suite.activeTenant()
	tenant.RoomID = &suite.roomID
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)
	suite.mockTenantRepo.On("SetRoom", suite.ctx, suite.hostelID, suite.tenantID, (*uuid.UUID)(nil)).Return(nil)
	suite.mockRoomRepo.On("ReleaseOne", suite.ctx, suite.hostelID, suite.roomID).Return(nil)

	err := suite.service.Release(suite.ctx, suite.hostelID, suite.tenantID)
	assert.NoError(suite.T(), err)
}

func (suite *OccupancyServiceTestSuite) TestRelease_NoRoomIsNoop() {
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(suite.activeTenant(), nil)

	err := suite.service.Release(suite.ctx, suite.hostelID, suite.tenantID)
	assert.NoError(suite.T(), err)
	suite.mockRoomRepo.AssertNotCalled(suite.T(), "ReleaseOne", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OccupancyServiceTestSuite) TestRelease_CounterFailureDoesNotFailRelease() {
	tenant := suite.activeTenant()
	tenant.RoomID = &suite.roomID
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)
	suite.mockTenantRepo.On("SetRoom", suite.ctx, suite.hostelID, suite.tenantID, (*uuid.UUID)(nil)).Return(nil)
	suite.mockRoomRepo.On("ReleaseOne", suite.ctx, suite.hostelID, suite.roomID).Return(errors.New("db down"))

	// The roster is authoritative; counter drift is repaired by the
	// reconciliation job.
	err := suite.service.Release(suite.ctx, suite.hostelID, suite.tenantID)
	assert.NoError(suite.T(), err)
}

func (suite *OccupancyServiceTestSuite) TestExchange_Success() {
	fromRoom := uuid.New()
	tenant := suite.activeTenant()
	tenant.RoomID = &fromRoom
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)
	suite.mockRoomRepo.On("ExchangeOne", suite.ctx, suite.hostelID, fromRoom, suite.roomID).Return(true, nil)
	suite.mockTenantRepo.On("SetRoom", suite.ctx, suite.hostelID, suite.tenantID, &suite.roomID).Return(nil)

	err := suite.service.Exchange(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.NoError(suite.T(), err)
}

func (suite *OccupancyServiceTestSuite) TestExchange_DestinationFull() {
	fromRoom := uuid.New()
	tenant := suite.activeTenant()
	tenant.RoomID = &fromRoom
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)
	suite.mockRoomRepo.On("ExchangeOne", suite.ctx, suite.hostelID, fromRoom, suite.roomID).Return(false, nil)

	err := suite.service.Exchange(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrCapacityExceeded)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "SetRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OccupancyServiceTestSuite) TestExchange_NoCurrentRoom() {
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(suite.activeTenant(), nil)

	err := suite.service.Exchange(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *OccupancyServiceTestSuite) TestExchange_SameRoom() {
	tenant := suite.activeTenant()
	tenant.RoomID = &suite.roomID
	suite.mockTenantRepo.On("GetByID", suite.ctx, suite.hostelID, suite.tenantID).Return(tenant, nil)

	err := suite.service.Exchange(suite.ctx, suite.hostelID, suite.tenantID, suite.roomID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *OccupancyServiceTestSuite) TestReconcile_RepairsDrift() {
	driftedID := uuid.New()
	correctID := uuid.New()
	rooms := []*models.Room{
		{ID: driftedID, Number: "101", Occupancy: 3, Capacity: 4},
		{ID: correctID, Number: "102", Occupancy: 2, Capacity: 2},
	}
	counts := map[uuid.UUID]int{driftedID: 1, correctID: 2}

	suite.mockTenantRepo.On("CountActiveByRoom", suite.ctx, suite.hostelID).Return(counts, nil)
	suite.mockRoomRepo.On("ListAll", suite.ctx, suite.hostelID).Return(rooms, nil)
	suite.mockRoomRepo.On("SetOccupancy", suite.ctx, suite.hostelID, driftedID, 1).Return(nil)

	corrected, err := suite.service.Reconcile(suite.ctx, suite.hostelID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, corrected)
	suite.mockRoomRepo.AssertNotCalled(suite.T(), "SetOccupancy", mock.Anything, mock.Anything, correctID, mock.Anything)
}

func (suite *OccupancyServiceTestSuite) TestReconcile_EmptyRoomZeroed() {
	roomID := uuid.New()
	rooms := []*models.Room{{ID: roomID, Number: "201", Occupancy: 2, Capacity: 2}}

	suite.mockTenantRepo.On("CountActiveByRoom", suite.ctx, suite.hostelID).Return(map[uuid.UUID]int{}, nil)
	suite.mockRoomRepo.On("ListAll", suite.ctx, suite.hostelID).Return(rooms, nil)
	suite.mockRoomRepo.On("SetOccupancy", suite.ctx, suite.hostelID, roomID, 0).Return(nil)

	corrected, err := suite.service.Reconcile(suite.ctx, suite.hostelID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, corrected)
}
