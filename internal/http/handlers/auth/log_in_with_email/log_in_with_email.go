package loginwithemail

import (
	c "aiexchange/internal/core/domain/common"
	ratelimiter "aiexchange/internal/core/domain/rate_limiter"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	loginwithemail "aiexchange/internal/core/services/log_in_with_email"
	"aiexchange/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[loginwithemail.Input, loginwithemail.Result]
}

func New(
	service services.Service[loginwithemail.Input, loginwithemail.Result],
) *Handler {
	if service == nil {
		panic("service must not be nil")
	}
	return &Handler{service: service}
}

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Result struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        response.User `json:"user"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 512)),
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
		loginwithemail.Input{Email: c.NewEmail(input.Email), Password: user.RawPassword(input.Password)},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if errors.Is(err, user.ErrInvalidCredentials) {
		response.RenderError(rw, "Incorrect email or password", http.StatusUnauthorized)
		return
	}
	if errors.Is(err, user.ErrUserIsNotActive) {
		response.RenderError(rw, "Account is deactivated", http.StatusForbidden)
		return
	}
	if errors.Is(err, user.ErrUserIsNotApproved) {
		response.RenderError(rw, "Account is pending approval", http.StatusForbidden)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	res := Result{AccessToken: string(result.Token), TokenType: "bearer", ExpiresAt: result.ExpiresAt}
	res.User.FromDomainUser(result.User)
	response.Render(rw, res, http.StatusOK)
}
