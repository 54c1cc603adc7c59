package requestpasswordreset

import (
	c "aiexchange/internal/core/domain/common"
	ratelimiter "aiexchange/internal/core/domain/rate_limiter"
	"aiexchange/internal/core/services"
	requestpasswordreset "aiexchange/internal/core/services/request_password_reset"
	"aiexchange/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// TEST_CODE_HEADER exposes the issued code to end-to-end tests. It is only
// set when the handler is built in test mode.
const TEST_CODE_HEADER = "x-test-password-reset-code"

const (
	msgCodeSent     = "If an account with this email exists, a password reset code has been sent to your email."
	msgSendingError = "Failed to send reset code. Please try again later."
)

type Handler struct {
	service    services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	isTestMode bool
}

func New(
	service services.Service[requestpasswordreset.Input, requestpasswordreset.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic("service must not be nil")
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequestData(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		requestpasswordreset.Input{Email: c.NewEmail(input.Email)},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if err != nil {
		response.RenderError(rw, msgSendingError, http.StatusInternalServerError)
		return
	}

	if h.isTestMode && result.Code.IsPresent {
		rw.Header().Set(TEST_CODE_HEADER, string(result.Code.Value))
	}
	response.RenderMessage(rw, msgCodeSent)
}
