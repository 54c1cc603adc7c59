package response

import (
	passwordreset "aiexchange/internal/core/domain/password_reset"
	"aiexchange/internal/core/domain/user"
	"errors"
	"net/http"
)

// RenderResetCodeError renders the client-facing rejection for a code that
// failed verification. It reports false when err is not a verification failure.
func RenderResetCodeError(rw http.ResponseWriter, err error) bool {
	var msg string
	switch {
	case errors.Is(err, user.ErrUserDoesNotExist):
		msg = "User not found"
	case errors.Is(err, passwordreset.ErrCodeNotFound):
		msg = "Invalid reset code"
	case errors.Is(err, passwordreset.ErrCodeExpired):
		msg = "Reset code has expired"
	case errors.Is(err, passwordreset.ErrCodeAlreadyUsed):
		msg = "Reset code has already been used"
	default:
		return false
	}
	RenderError(rw, msg, http.StatusBadRequest)
	return true
}
