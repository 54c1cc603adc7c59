package me

import (
	c "aiexchange/internal/core/domain/common"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services/auth"
	getcurrentuser "aiexchange/internal/core/services/get_current_user"
	handlersauth "aiexchange/internal/http/handlers/auth"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	userRepository     *user.FakeUserRepository
	accessTokenManager *user.FakeAccessTokenManager
	handler            http.Handler
	user               user.User
}

func (suite *testSuite) SetupTest() {
	suite.userRepository = user.NewFakeUserRepository()
	suite.accessTokenManager = user.NewFakeAccessTokenManager()
	suite.handler = handlersauth.SetAuthTokenToContext(New(
		auth.WithAuthentication[getcurrentuser.Input, getcurrentuser.Result](
			suite.userRepository,
			suite.accessTokenManager,
			getcurrentuser.New(),
		),
	))

	u, err := suite.userRepository.Create(context.Background(), user.CreateUserInput{
		Email:      c.NewEmail("alice@example.com"),
		FullName:   "Alice",
		Role:       user.RoleStaff,
		IsActive:   true,
		IsApproved: true,
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.Require().Nil(err)
	suite.user = u
}

func TestMeHandler(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) get(token string) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/profile/me", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	suite.handler.ServeHTTP(rw, r)
	return rw
}

func (suite *testSuite) token(u user.User) string {
	token, _, err := suite.accessTokenManager.IssueToken(u)
	suite.Require().Nil(err)
	return string(token)
}

func (suite *testSuite) TestSuccess() {
	assert := suite.Require()

	rw := suite.get(suite.token(suite.user))

	assert.Equal(http.StatusOK, rw.Code)
	assert.JSONEq(
		`{
			"id": 1,
			"email": "alice@example.com",
			"full_name": "Alice",
			"role": "staff",
			"is_active": true,
			"is_approved": true,
			"created_at": "2026-01-01T00:00:00Z"
		}`,
		rw.Body.String(),
	)
}

func (suite *testSuite) TestMissingToken() {
	rw := suite.get("")
	suite.Require().Equal(http.StatusUnauthorized, rw.Code)
}

func (suite *testSuite) TestMalformedToken() {
	rw := suite.get("not-a-token")
	suite.Require().Equal(http.StatusUnauthorized, rw.Code)
}

func (suite *testSuite) TestDeactivatedUser() {
	suite.userRepository.Users[0].IsActive = false

	rw := suite.get(suite.token(suite.user))

	suite.Require().Equal(http.StatusForbidden, rw.Code)
}

func (suite *testSuite) TestUnapprovedUser() {
	suite.userRepository.Users[0].IsApproved = false

	rw := suite.get(suite.token(suite.user))

	suite.Require().Equal(http.StatusForbidden, rw.Code)
}
