package uow

import (
	passwordreset "aiexchange/internal/core/domain/password_reset"
	"aiexchange/internal/core/domain/user"
	"context"
)

type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Users() user.UserRepository
	ResetRequests() passwordreset.ResetRequestRepository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
