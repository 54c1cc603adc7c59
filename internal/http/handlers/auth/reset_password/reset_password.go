package resetpassword

import (
	c "aiexchange/internal/core/domain/common"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	ratelimiter "aiexchange/internal/core/domain/rate_limiter"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	resetpassword "aiexchange/internal/core/services/reset_password"
	"aiexchange/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	msgPasswordReset = "Password reset successfully. You can now log in with your new password."
	msgResetError    = "Failed to reset password. Please try again."
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
) *Handler {
	if service == nil {
		panic("service must not be nil")
	}
	return &Handler{service: service}
}

type Input struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
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
		validation.Field(&i.NewPassword, validation.Required, validation.Length(8, 256)),
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
		resetpassword.Input{
			Email:       c.NewEmail(input.Email),
			Code:        passwordreset.Code(input.Code),
			NewPassword: user.RawPassword(input.NewPassword),
		},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if response.RenderResetCodeError(rw, err) {
		return
	}
	if err != nil {
		response.RenderError(rw, msgResetError, http.StatusInternalServerError)
		return
	}

	response.RenderMessage(rw, msgPasswordReset)
}
