package passwordreset

import "errors"

var (
	ErrCodeNotFound      = errors.New("invalid reset code")
	ErrCodeExpired       = errors.New("reset code has expired")
	ErrCodeAlreadyUsed   = errors.New("reset code has already been used")
	ErrDeliveryFailed    = errors.New("reset code delivery failed")
	ErrPersistenceFailed = errors.New("reset state could not be persisted")
)
