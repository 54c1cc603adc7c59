package app

import (
	"aiexchange/internal/app/deps"
	"aiexchange/internal/app/services"
	"aiexchange/internal/config"
	c "aiexchange/internal/core/domain/common"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	ratelimiter "aiexchange/internal/core/domain/rate_limiter"
	uow "aiexchange/internal/core/domain/unit_of_work"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/implementations/metrics"
	requestpasswordreset "aiexchange/internal/http/handlers/auth/request_password_reset"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	Now        time.Time
	Dispatcher *notification.FakeDispatcher
	UnitOfWork *uow.FakeUnitOfWork
	Hasher     *user.FakePasswordHasher
	Router     http.Handler
}

func (suite *testSuite) SetupTest() {
	suite.Now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	suite.Dispatcher = notification.NewFakeDispatcher()
	suite.UnitOfWork = uow.NewFakeUnitOfWork()
	suite.Hasher = user.NewFakePasswordHasher()

	registry := prometheus.NewRegistry()
	d := &deps.Deps{
		Config: &config.Config{
			IsTestMode:                 true,
			Port:                       8000,
			PasswordResetCodeTTL:       30 * time.Minute,
			PasswordResetRetentionDays: 7,
			AccessTokenTTL:             30 * time.Minute,
			AllowedOrigins:             []string{"http://localhost:3000"},
			AuthRequestsPerMinuteByIP:  1000,
		},
		Logger:                 logging.NewFakeLogger(),
		MetricsRegistry:        registry,
		Metrics:                metrics.New(registry),
		Now:                    func() time.Time { return suite.Now },
		UnitOfWork:             suite.UnitOfWork,
		UserRepository:         suite.UnitOfWork.Context.UserRepository,
		ResetRequestRepository: suite.UnitOfWork.Context.ResetRequestRepository,
		RateLimiter:            ratelimiter.NewFakeRateLimiter(true),
		PasswordHasher:         suite.Hasher,
		AccessTokenManager:     user.NewFakeAccessTokenManager(),
		CodeGenerator:          passwordreset.NewFakeCodeGenerator("483920", "105577"),
		NotificationDispatcher: suite.Dispatcher,
	}
	suite.Router = NewRouter(d, services.InitServices(d))

	hash, err := suite.Hasher.HashPassword("old-password")
	suite.Require().Nil(err)
	_, err = suite.UnitOfWork.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        c.NewEmail("alice@example.com"),
		PasswordHash: hash,
		FullName:     "Alice",
		Role:         user.RoleStaff,
		IsActive:     true,
		IsApproved:   true,
		CreatedAt:    suite.Now.Add(-24 * time.Hour),
	})
	suite.Require().Nil(err)
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	for key, values := range header {
		r.Header[key] = values
	}
	rw := httptest.NewRecorder()
	suite.Router.ServeHTTP(rw, r)
	return rw
}

func (suite *testSuite) logIn(password string) *httptest.ResponseRecorder {
	return suite.do(
		http.MethodPost,
		"/auth/login",
		`{"email": "alice@example.com", "password": "`+password+`"}`,
		nil,
	)
}

func (suite *testSuite) TestResetFlow() {
	assert := suite.Require()

	rw := suite.do(http.MethodPost, "/auth/forgot-password", `{"email": "Alice@Example.com"}`, nil)
	assert.Equal(http.StatusOK, rw.Code)
	assert.Equal("483920", rw.Header().Get(requestpasswordreset.TEST_CODE_HEADER))
	assert.Equal(1, suite.Dispatcher.SentCount())
	assert.Contains(suite.Dispatcher.LastSent().Body, "483920")

	suite.Now = suite.Now.Add(10 * time.Minute)

	rw = suite.do(
		http.MethodPost,
		"/auth/reset-password/verify",
		`{"email": "alice@example.com", "code": "483920"}`,
		nil,
	)
	assert.Equal(http.StatusOK, rw.Code)
	assert.JSONEq(`{"valid":true}`, rw.Body.String())

	rw = suite.do(
		http.MethodPost,
		"/auth/reset-password",
		`{"email": "alice@example.com", "code": "483920", "new_password": "N3w!pass"}`,
		nil,
	)
	assert.Equal(http.StatusOK, rw.Code)

	rw = suite.do(
		http.MethodPost,
		"/auth/reset-password",
		`{"email": "alice@example.com", "code": "483920", "new_password": "An0ther!pass"}`,
		nil,
	)
	assert.Equal(http.StatusBadRequest, rw.Code)
	assert.JSONEq(`{"error":"Reset code has already been used"}`, rw.Body.String())

	assert.Equal(http.StatusUnauthorized, suite.logIn("old-password").Code)

	rw = suite.logIn("N3w!pass")
	assert.Equal(http.StatusOK, rw.Code)
	token := struct {
		AccessToken string `json:"access_token"`
	}{}
	assert.Nil(json.Unmarshal(rw.Body.Bytes(), &token))

	rw = suite.do(
		http.MethodGet,
		"/profile/me",
		"",
		http.Header{"Authorization": []string{"Bearer " + token.AccessToken}},
	)
	assert.Equal(http.StatusOK, rw.Code)
	assert.Contains(rw.Body.String(), `"email":"alice@example.com"`)
}

func (suite *testSuite) TestExpiredCode() {
	assert := suite.Require()

	rw := suite.do(http.MethodPost, "/auth/forgot-password", `{"email": "alice@example.com"}`, nil)
	assert.Equal(http.StatusOK, rw.Code)

	suite.Now = suite.Now.Add(31 * time.Minute)

	rw = suite.do(
		http.MethodPost,
		"/auth/reset-password",
		`{"email": "alice@example.com", "code": "483920", "new_password": "N3w!pass"}`,
		nil,
	)
	assert.Equal(http.StatusBadRequest, rw.Code)
	assert.JSONEq(`{"error":"Reset code has expired"}`, rw.Body.String())
	assert.Equal(http.StatusOK, suite.logIn("old-password").Code)
}

func (suite *testSuite) TestUnknownEmail() {
	assert := suite.Require()

	rw := suite.do(http.MethodPost, "/auth/forgot-password", `{"email": "bob@example.com"}`, nil)

	assert.Equal(http.StatusOK, rw.Code)
	assert.Empty(rw.Header().Get(requestpasswordreset.TEST_CODE_HEADER))
	assert.Equal(0, suite.Dispatcher.SentCount())
}

func (suite *testSuite) TestDeliveryFailure() {
	assert := suite.Require()
	suite.Dispatcher.ReturnError = true

	rw := suite.do(http.MethodPost, "/auth/forgot-password", `{"email": "alice@example.com"}`, nil)

	assert.Equal(http.StatusInternalServerError, rw.Code)
	assert.Empty(rw.Header().Get(requestpasswordreset.TEST_CODE_HEADER))
	assert.Empty(suite.UnitOfWork.Context.ResetRequestRepository.Requests)
}

func (suite *testSuite) TestProfileRequiresToken() {
	rw := suite.do(http.MethodGet, "/profile/me", "", nil)
	suite.Require().Equal(http.StatusUnauthorized, rw.Code)
}

func (suite *testSuite) TestMetricsAndHealth() {
	assert := suite.Require()

	suite.do(http.MethodPost, "/auth/forgot-password", `{"email": "alice@example.com"}`, nil)

	rw := suite.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(http.StatusOK, rw.Code)
	assert.Contains(rw.Body.String(), `aiexchange_service_runs_total{outcome="success",service="request_password_reset"} 1`)

	rw = suite.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(http.StatusOK, rw.Code)
}
