package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"testing"
	"time"

	"hostelhub/internal/apperrors"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetRoom(ctx context.Context, hostelID, roomID uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, hostelID, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockCacheService) SetRoom(ctx context.Context, hostelID uuid.UUID, room *models.Room, ttl time.Duration) error {
	args := m.Called(ctx, hostelID, room, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteRoom(ctx context.Context, hostelID, roomID uuid.UUID) error {
	args := m.Called(ctx, hostelID, roomID)
	return args.Error(0)
}

func (m *MockCacheService) GetMenuWeek(ctx context.Context, hostelID uuid.UUID) ([]*models.Menu, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Menu), args.Error(1)
}

func (m *MockCacheService) SetMenuWeek(ctx context.Context, hostelID uuid.UUID, menus []*models.Menu, ttl time.Duration) error {
	args := m.Called(ctx, hostelID, menus, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteMenuWeek(ctx context.Context, hostelID uuid.UUID) error {
	args := m.Called(ctx, hostelID)
	return args.Error(0)
}

func (m *MockCacheService) GetFeeBreakdown(ctx context.Context, hostelID uuid.UUID) ([]*models.FeeComponent, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FeeComponent), args.Error(1)
}

func (m *MockCacheService) SetFeeBreakdown(ctx context.Context, hostelID uuid.UUID, components []*models.FeeComponent, ttl time.Duration) error {
	args := m.Called(ctx, hostelID, components, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteFeeBreakdown(ctx context.Context, hostelID uuid.UUID) error {
	args := m.Called(ctx, hostelID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateHostelCache(ctx context.Context, hostelID uuid.UUID) error {
	args := m.Called(ctx, hostelID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockCache    *MockCacheService
	service      AuthService
	hostelID     uuid.UUID
	userID       uuid.UUID
	ctx          context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewAuthService(suite.mockUserRepo, suite.mockCache, "test-signing-secret", 3600, 7*24*3600)
	suite.hostelID = uuid.New()
	suite.userID = uuid.New()
	suite.ctx = context.Background()

	suite.mockUserRepo.Test(suite.T())
	suite.mockCache.Test(suite.T())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) userWithPassword(password string) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(suite.T(), err)
	return &models.User{
		ID:           suite.userID,
		HostelID:     suite.hostelID,
		Email:        "warden@sunrise-pg.example",
		PasswordHash: string(hashed),
		Name:         "Meena Rao",
		Role:         models.RoleStaff,
	}
}

func isRefreshTokenKey(key string) bool {
	return strings.HasPrefix(key, "refresh_token:")
}

func refreshTokenKey(token string) string {
	return fmt.Sprintf("refresh_token:%x", sha256.Sum256([]byte(token)))
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	user := suite.userWithPassword("correct-horse-battery")

	suite.mockUserRepo.On("GetByEmail", suite.ctx, user.Email).Return(user, nil)
	suite.mockCache.On("SetString", suite.ctx, mock.MatchedBy(isRefreshTokenKey), mock.AnythingOfType("string"), 7*24*time.Hour).Return(nil)

	tokens, err := suite.service.Login(suite.ctx, user.Email, "correct-horse-battery")
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), tokens.AccessToken)
	assert.NotEmpty(suite.T(), tokens.RefreshToken)
	assert.Equal(suite.T(), models.RoleStaff, tokens.Role)

	claims, err := suite.service.ValidateToken(suite.ctx, tokens.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID.String(), claims.UserID)
	assert.Equal(suite.T(), suite.hostelID.String(), claims.HostelID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	user := suite.userWithPassword("correct-horse-battery")

	suite.mockUserRepo.On("GetByEmail", suite.ctx, user.Email).Return(user, nil)

	_, err := suite.service.Login(suite.ctx, user.Email, "wrong-password")
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	suite.mockCache.AssertNotCalled(suite.T(), "SetString", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	suite.mockUserRepo.On("GetByEmail", suite.ctx, "nobody@sunrise-pg.example").
		Return(nil, apperrors.NotFoundf("user"))

	_, err := suite.service.Login(suite.ctx, "nobody@sunrise-pg.example", "whatever-pass")
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefreshToken_RotatesOldToken() {
	user := suite.userWithPassword("correct-horse-battery")
	oldToken := "old-refresh-token"
	tokenData := fmt.Sprintf("%s:%s:%s:%d", suite.userID, suite.hostelID, models.RoleStaff, time.Now().Add(time.Hour).Unix())

	// First use succeeds and burns the token; the second lookup misses.
	suite.mockCache.On("GetString", suite.ctx, refreshTokenKey(oldToken)).Return(tokenData, nil).Once()
	suite.mockCache.On("Delete", suite.ctx, refreshTokenKey(oldToken)).Return(nil).Once()
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.hostelID, suite.userID).Return(user, nil)
	suite.mockCache.On("SetString", suite.ctx, mock.MatchedBy(isRefreshTokenKey), mock.AnythingOfType("string"), 7*24*time.Hour).Return(nil)
	suite.mockCache.On("GetString", suite.ctx, refreshTokenKey(oldToken)).Return("", nil).Once()

	tokens, err := suite.service.RefreshToken(suite.ctx, oldToken)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), oldToken, tokens.RefreshToken)

	_, err = suite.service.RefreshToken(suite.ctx, oldToken)
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefreshToken_Expired() {
	oldToken := "stale-refresh-token"
	tokenData := fmt.Sprintf("%s:%s:%s:%d", suite.userID, suite.hostelID, models.RoleStaff, time.Now().Add(-time.Hour).Unix())

	suite.mockCache.On("GetString", suite.ctx, refreshTokenKey(oldToken)).Return(tokenData, nil)
	suite.mockCache.On("Delete", suite.ctx, refreshTokenKey(oldToken)).Return(nil)

	_, err := suite.service.RefreshToken(suite.ctx, oldToken)
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestRefreshToken_UnknownToken() {
	suite.mockCache.On("GetString", suite.ctx, refreshTokenKey("never-issued")).Return("", nil)

	_, err := suite.service.RefreshToken(suite.ctx, "never-issued")
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestChangePassword_PersistsNewHash() {
	user := suite.userWithPassword("OldSecret99")

	suite.mockUserRepo.On("GetHostelIDByUserID", suite.ctx, suite.userID).Return(suite.hostelID, nil)
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.hostelID, suite.userID).Return(user, nil)
	suite.mockUserRepo.On("UpdatePassword", suite.ctx, suite.hostelID, suite.userID, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("NewSecret99")) == nil
	})).Return(nil)

	err := suite.service.ChangePassword(suite.ctx, suite.userID, "OldSecret99", "NewSecret99")
	assert.NoError(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestChangePassword_WrongCurrentPassword() {
	user := suite.userWithPassword("OldSecret99")

	suite.mockUserRepo.On("GetHostelIDByUserID", suite.ctx, suite.userID).Return(suite.hostelID, nil)
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.hostelID, suite.userID).Return(user, nil)

	err := suite.service.ChangePassword(suite.ctx, suite.userID, "not-the-old-one", "NewSecret99")
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestChangePassword_ShortNewPassword() {
	user := suite.userWithPassword("OldSecret99")

	suite.mockUserRepo.On("GetHostelIDByUserID", suite.ctx, suite.userID).Return(suite.hostelID, nil)
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.hostelID, suite.userID).Return(user, nil)

	err := suite.service.ChangePassword(suite.ctx, suite.userID, "OldSecret99", "tiny")
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestRevokeRefreshToken() {
	suite.mockCache.On("Delete", suite.ctx, refreshTokenKey("live-token")).Return(nil)

	err := suite.service.RevokeRefreshToken(suite.ctx, "live-token")
	assert.NoError(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestValidateToken_Tampered() {
	_, err := suite.service.ValidateToken(suite.ctx, "not.a.jwt")
	assert.Error(suite.T(), err)
}
