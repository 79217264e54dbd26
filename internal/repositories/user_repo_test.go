package repositories

import (
	"context"
	"testing"

	"hostelhub/internal/apperrors"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const expectedUpdatePasswordSQL = `
		UPDATE users
		SET password_hash = \$1, updated_at = NOW\(\)
		WHERE hostel_id = \$2 AND id = \$3
	`

type UserRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     UserRepository
	hostelID uuid.UUID
	userID   uuid.UUID
	ctx      context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserRepo(mock)
	suite.hostelID = uuid.New()
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) TestUpdatePassword_WritesHash() {
	suite.mock.ExpectExec(expectedUpdatePasswordSQL).
		WithArgs("$2a$10$newhash", suite.hostelID, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdatePassword(suite.ctx, suite.hostelID, suite.userID, "$2a$10$newhash")
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestUpdatePassword_UnknownUser() {
	suite.mock.ExpectExec(expectedUpdatePasswordSQL).
		WithArgs("$2a$10$newhash", suite.hostelID, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdatePassword(suite.ctx, suite.hostelID, suite.userID, "$2a$10$newhash")
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}
