package jobs

import (
	"context"
	"errors"
	"testing"

	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOccupancyService struct {
	mock.Mock
}

func (m *MockOccupancyService) Assign(ctx context.Context, hostelID, tenantID, roomID uuid.UUID) error {
	args := m.Called(ctx, hostelID, tenantID, roomID)
	return args.Error(0)
}

func (m *MockOccupancyService) Release(ctx context.Context, hostelID, tenantID uuid.UUID) error {
	args := m.Called(ctx, hostelID, tenantID)
	return args.Error(0)
}

func (m *MockOccupancyService) Exchange(ctx context.Context, hostelID, tenantID, toRoomID uuid.UUID) error {
	args := m.Called(ctx, hostelID, tenantID, toRoomID)
	return args.Error(0)
}

func (m *MockOccupancyService) Reconcile(ctx context.Context, hostelID uuid.UUID) (int, error) {
	args := m.Called(ctx, hostelID)
	return args.Int(0), args.Error(1)
}

func TestOccupancyReconcileJob_RunAllHostels(t *testing.T) {
	mockOccupancy := &MockOccupancyService{}
	mockHostelRepo := &MockHostelRepository{}
	mockOccupancy.Test(t)
	mockHostelRepo.Test(t)

	ctx := context.Background()
	hostelA := &models.Hostel{ID: uuid.New(), Code: "HSL-A"}
	hostelB := &models.Hostel{ID: uuid.New(), Code: "HSL-B"}

	mockHostelRepo.On("List", ctx, 1000, 0).Return([]*models.Hostel{hostelA, hostelB}, nil)
	mockOccupancy.On("Reconcile", ctx, hostelA.ID).Return(2, nil)
	mockOccupancy.On("Reconcile", ctx, hostelB.ID).Return(0, nil)

	job := NewOccupancyReconcileJob(mockOccupancy, mockHostelRepo)
	err := job.Run(ctx)
	assert.NoError(t, err)

	mockOccupancy.AssertExpectations(t)
	mockHostelRepo.AssertExpectations(t)
}

func TestOccupancyReconcileJob_ContinuesPastFailures(t *testing.T) {
	mockOccupancy := &MockOccupancyService{}
	mockHostelRepo := &MockHostelRepository{}
	mockOccupancy.Test(t)
	mockHostelRepo.Test(t)

	ctx := context.Background()
	hostelA := &models.Hostel{ID: uuid.New(), Code: "HSL-A"}
	hostelB := &models.Hostel{ID: uuid.New(), Code: "HSL-B"}

	mockHostelRepo.On("List", ctx, 1000, 0).Return([]*models.Hostel{hostelA, hostelB}, nil)
	mockOccupancy.On("Reconcile", ctx, hostelA.ID).Return(0, errors.New("db down"))
	mockOccupancy.On("Reconcile", ctx, hostelB.ID).Return(1, nil)

	job := NewOccupancyReconcileJob(mockOccupancy, mockHostelRepo)
	err := job.Run(ctx)
	assert.NoError(t, err)

	mockOccupancy.AssertCalled(t, "Reconcile", ctx, hostelB.ID)
}
