package uow

import (
	passwordreset "aiexchange/internal/core/domain/password_reset"
	"aiexchange/internal/core/domain/user"
	"context"
	"fmt"
)

type FakeUnitOfWorkContext struct {
	UserRepository         *user.FakeUserRepository
	ResetRequestRepository *passwordreset.FakeResetRequestRepository
	CommitError            bool
	WasRollbackCalled      bool
	WasCommitCalled        bool

	committed             bool
	usersSnapshot         []user.User
	resetRequestsSnapshot []passwordreset.ResetRequest
}

func NewFakeUnitOfWorkContext(
	userRepository *user.FakeUserRepository,
	resetRequestRepository *passwordreset.FakeResetRequestRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository:         userRepository,
		ResetRequestRepository: resetRequestRepository,
	}
}

func (c *FakeUnitOfWorkContext) begin() {
	c.committed = false
	c.usersSnapshot = c.UserRepository.Snapshot()
	c.resetRequestsSnapshot = c.ResetRequestRepository.Snapshot()
}

// Rollback restores the repositories to their state at Begin unless the work was committed.
func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.WasRollbackCalled = true
	if c.committed {
		return nil
	}
	c.UserRepository.Restore(c.usersSnapshot)
	c.ResetRequestRepository.Restore(c.resetRequestsSnapshot)
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.WasCommitCalled = true
	if c.CommitError {
		return fmt.Errorf("could not commit")
	}
	c.committed = true
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) ResetRequests() passwordreset.ResetRequestRepository {
	return c.ResetRequestRepository
}

type FakeUnitOfWork struct {
	Context     *FakeUnitOfWorkContext
	ReturnError bool
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(
			user.NewFakeUserRepository(),
			passwordreset.NewFakeResetRequestRepository(),
		),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnError {
		return nil, fmt.Errorf("could not begin unit of work")
	}
	u.Context.begin()
	return u.Context, nil
}
