package verifyresetcode

import (
	c "aiexchange/internal/core/domain/common"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	ratelimiter "aiexchange/internal/core/domain/rate_limiter"
	"aiexchange/internal/core/services"
	verifyresetcode "aiexchange/internal/core/services/verify_reset_code"
	"aiexchange/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

type Handler struct {
	service services.Service[verifyresetcode.Input, verifyresetcode.Result]
}

func New(
	service services.Service[verifyresetcode.Input, verifyresetcode.Result],
) *Handler {
	if service == nil {
		panic("service must not be nil")
	}
	return &Handler{service: service}
}

type Input struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type Result struct {
	Valid bool `json:"valid"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(
			&i.Code,
			validation.Required,
			validation.Match(codePattern).Error("must be a 6-digit code"),
		),
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

	_, err := h.service.Run(
		r.Context(),
		verifyresetcode.Input{Email: c.NewEmail(input.Email), Code: passwordreset.Code(input.Code)},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if response.RenderResetCodeError(rw, err) {
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, Result{Valid: true}, http.StatusOK)
}
