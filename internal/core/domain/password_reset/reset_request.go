package passwordreset

import (
	"aiexchange/internal/core/domain/user"
	"time"

	"github.com/google/uuid"
)

const CodeLength = 6

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Code is a fixed-length numeric one-time code. Leading zeros are significant.
type Code string

func (c Code) String() string {
	return "***"
}

func (c Code) IsWellFormed() bool {
	if len(c) != CodeLength {
		return false
	}
	for _, r := range c {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type ResetRequest struct {
	ID        ID
	UserID    user.ID
	Code      Code
	IssuedAt  time.Time
	ExpiresAt time.Time
	Used      bool
}

func (r *ResetRequest) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

func (r *ResetRequest) IsValid(now time.Time) bool {
	return !r.Used && !r.IsExpired(now)
}

// Check returns nil for a consumable request. Expiry takes precedence over the used flag.
func (r *ResetRequest) Check(now time.Time) error {
	if r.IsExpired(now) {
		return ErrCodeExpired
	}
	if r.Used {
		return ErrCodeAlreadyUsed
	}
	return nil
}
