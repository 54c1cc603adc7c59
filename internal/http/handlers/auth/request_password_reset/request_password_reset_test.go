package requestpasswordreset

import (
	c "aiexchange/internal/core/domain/common"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	ratelimiter "aiexchange/internal/core/domain/rate_limiter"
	requestpasswordreset "aiexchange/internal/core/services/request_password_reset"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	input  requestpasswordreset.Input
	result requestpasswordreset.Result
	err    error
	calls  int
}

func (s *stubService) Run(
	ctx context.Context,
	input requestpasswordreset.Input,
) (requestpasswordreset.Result, error) {
	s.input = input
	s.calls++
	return s.result, s.err
}

func issued(code string) requestpasswordreset.Result {
	return requestpasswordreset.Result{Code: c.NewOptional(passwordreset.Code(code), true)}
}

func post(handler http.Handler, body string) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", strings.NewReader(body))
	handler.ServeHTTP(rw, r)
	return rw
}

func TestCodeIssued(t *testing.T) {
	service := &stubService{result: issued("483920")}

	rw := post(New(service, false), `{"email": "Alice@Example.com"}`)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, `{"message":"`+msgCodeSent+`"}`, rw.Body.String())
	assert.Equal(t, c.Email("alice@example.com"), service.input.Email)
	assert.Empty(t, rw.Header().Get(TEST_CODE_HEADER))
}

func TestUnknownEmailLooksTheSame(t *testing.T) {
	known := post(New(&stubService{result: issued("483920")}, false), `{"email": "alice@example.com"}`)
	unknown := post(New(&stubService{}, false), `{"email": "nobody@example.com"}`)

	assert.Equal(t, known.Code, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestTestModeExposesCode(t *testing.T) {
	rw := post(New(&stubService{result: issued("483920")}, true), `{"email": "alice@example.com"}`)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "483920", rw.Header().Get(TEST_CODE_HEADER))

	rw = post(New(&stubService{}, true), `{"email": "nobody@example.com"}`)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Empty(t, rw.Header().Get(TEST_CODE_HEADER))
}

func TestRequestErrors(t *testing.T) {
	cases := []struct {
		id     string
		body   string
		err    error
		status int
		called bool
	}{
		{id: "malformed json", body: `{`, status: http.StatusBadRequest},
		{id: "missing email", body: `{}`, status: http.StatusBadRequest},
		{id: "invalid email", body: `{"email": "alice"}`, status: http.StatusBadRequest},
		{
			id:     "rate limited",
			err:    ratelimiter.ErrRateLimitExceeded,
			status: http.StatusTooManyRequests,
			called: true,
		},
		{
			id:     "delivery failed",
			err:    fmt.Errorf("%w: smtp down", passwordreset.ErrDeliveryFailed),
			status: http.StatusInternalServerError,
			called: true,
		},
		{
			id:     "persistence failed",
			err:    passwordreset.ErrPersistenceFailed,
			status: http.StatusInternalServerError,
			called: true,
		},
		{id: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError, called: true},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			body := testcase.body
			if body == "" {
				body = `{"email": "alice@example.com"}`
			}
			service := &stubService{err: testcase.err}

			rw := post(New(service, true), body)

			assert.Equal(t, testcase.status, rw.Code)
			assert.Equal(t, testcase.called, service.calls == 1)
			assert.Empty(t, rw.Header().Get(TEST_CODE_HEADER))
			if testcase.status == http.StatusInternalServerError {
				assert.JSONEq(t, `{"error":"`+msgSendingError+`"}`, rw.Body.String())
			}
		})
	}
}
