package passwordreset

import (
	"aiexchange/internal/core/domain/user"
	"context"
	"time"
)

type CreateResetRequestInput struct {
	ID        ID
	UserID    user.ID
	Code      Code
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type PurgeInput struct {
	Now          time.Time
	IssuedBefore time.Time
}

type ResetRequestRepository interface {
	Create(ctx context.Context, input CreateResetRequestInput) (ResetRequest, error)
	// FindByUserAndCode returns the request that is still valid at now if there is one,
	// otherwise the most recently issued match. ErrCodeNotFound if nothing matches.
	FindByUserAndCode(ctx context.Context, userID user.ID, code Code, now time.Time) (ResetRequest, error)
	// MarkUsed flips the used flag of an unused request, ErrCodeAlreadyUsed otherwise.
	MarkUsed(ctx context.Context, id ID) error
	// PurgeStale deletes used or expired requests issued before input.IssuedBefore.
	PurgeStale(ctx context.Context, input PurgeInput) (deleted int64, err error)
}

type CodeGenerator interface {
	GenerateCode() (Code, error)
}
