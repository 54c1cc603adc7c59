package issueresetcode

import (
	c "aiexchange/internal/core/domain/common"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	uow "aiexchange/internal/core/domain/unit_of_work"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	CODE = "483920"
	TTL  = 30 * time.Minute
)

var NOW = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var USER = user.User{
	ID:         1,
	Email:      c.Email("a@x.com"),
	FullName:   "Alice",
	Role:       user.RoleStaff,
	IsActive:   true,
	IsApproved: true,
}

type testSuite struct {
	suite.Suite
	Logger        *logging.FakeLogger
	UnitOfWork    *uow.FakeUnitOfWork
	CodeGenerator *passwordreset.FakeCodeGenerator
	Dispatcher    *notification.FakeDispatcher
	Service       services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UnitOfWork = uow.NewFakeUnitOfWork()
	suite.UnitOfWork.Context.UserRepository.Users = []user.User{USER}
	suite.CodeGenerator = passwordreset.NewFakeCodeGenerator(CODE)
	suite.Dispatcher = notification.NewFakeDispatcher()
	suite.Service = New(
		suite.Logger,
		suite.UnitOfWork,
		suite.CodeGenerator,
		suite.Dispatcher,
		TTL,
		func() time.Time { return NOW },
	)
}

func TestIssueResetCodeService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSuccess() {
	ctx := context.Background()
	result, err := suite.Service.Run(ctx, Input{User: USER})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(passwordreset.Code(CODE), result.Code)
	assert.Equal(NOW.Add(TTL), result.ExpiresAt)
	assert.True(suite.UnitOfWork.Context.WasCommitCalled)

	requests := suite.UnitOfWork.Context.ResetRequestRepository.Requests
	assert.Len(requests, 1)
	assert.Equal(result.RequestID, requests[0].ID)
	assert.Equal(USER.ID, requests[0].UserID)
	assert.Equal(NOW, requests[0].IssuedAt)
	assert.False(requests[0].Used)

	assert.Equal(1, suite.Dispatcher.SentCount())
	sent := suite.Dispatcher.LastSent()
	assert.Equal(USER.Email, sent.To)
	assert.Equal(notification.TypePasswordReset, sent.Type)
	assert.True(strings.Contains(sent.Body, CODE))
}

func (suite *testSuite) TestEachIssueCreatesNewRequest() {
	ctx := context.Background()
	suite.CodeGenerator = passwordreset.NewFakeCodeGenerator("111111", "222222")
	suite.Service = New(
		suite.Logger,
		suite.UnitOfWork,
		suite.CodeGenerator,
		suite.Dispatcher,
		TTL,
		func() time.Time { return NOW },
	)

	first, err := suite.Service.Run(ctx, Input{User: USER})
	suite.Require().Nil(err)
	second, err := suite.Service.Run(ctx, Input{User: USER})
	suite.Require().Nil(err)

	assert := suite.Require()
	assert.NotEqual(first.RequestID, second.RequestID)
	assert.Equal(passwordreset.Code("111111"), first.Code)
	assert.Equal(passwordreset.Code("222222"), second.Code)
	assert.Equal(2, suite.UnitOfWork.Context.ResetRequestRepository.CountByUser(USER.ID))
	assert.Equal(2, suite.Dispatcher.SentCount())
}

func (suite *testSuite) TestDeliveryFailureDiscardsRequest() {
	ctx := context.Background()
	suite.Dispatcher.ReturnError = true

	_, err := suite.Service.Run(ctx, Input{User: USER})

	assert := suite.Require()
	assert.ErrorIs(err, passwordreset.ErrDeliveryFailed)
	assert.False(suite.UnitOfWork.Context.WasCommitCalled)
	assert.True(suite.UnitOfWork.Context.WasRollbackCalled)
	assert.Empty(suite.UnitOfWork.Context.ResetRequestRepository.Requests)
	assert.Equal(1, suite.Logger.CountByLevel(logging.ERROR))
}

func (suite *testSuite) TestPersistenceFailure() {
	ctx := context.Background()
	suite.UnitOfWork.Context.ResetRequestRepository.ReturnError = true

	_, err := suite.Service.Run(ctx, Input{User: USER})

	assert := suite.Require()
	assert.ErrorIs(err, passwordreset.ErrPersistenceFailed)
	assert.Equal(0, suite.Dispatcher.SentCount())
	assert.False(suite.UnitOfWork.Context.WasCommitCalled)
}

func (suite *testSuite) TestCommitFailure() {
	ctx := context.Background()
	suite.UnitOfWork.Context.CommitError = true

	_, err := suite.Service.Run(ctx, Input{User: USER})

	assert := suite.Require()
	assert.ErrorIs(err, passwordreset.ErrPersistenceFailed)
	assert.Empty(suite.UnitOfWork.Context.ResetRequestRepository.Requests)
}

func (suite *testSuite) TestCodeGenerationFailure() {
	ctx := context.Background()
	suite.CodeGenerator.ReturnError = true

	_, err := suite.Service.Run(ctx, Input{User: USER})

	assert := suite.Require()
	assert.NotNil(err)
	assert.Equal(0, suite.Dispatcher.SentCount())
	assert.Empty(suite.UnitOfWork.Context.ResetRequestRepository.Requests)
}
