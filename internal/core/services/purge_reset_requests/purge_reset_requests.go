package purgeresetrequests

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	"aiexchange/internal/core/services"
	"context"
	"errors"
	"time"

	"github.com/golang-module/carbon/v2"
)

type Input struct{}

type Result struct {
	Deleted int64
}

type service struct {
	log                    logging.Logger
	resetRequestRepository passwordreset.ResetRequestRepository
	retentionDays          int
	now                    func() time.Time
}

// New returns a service that deletes used or expired reset requests
// issued more than retentionDays ago.
func New(
	log logging.Logger,
	resetRequestRepository passwordreset.ResetRequestRepository,
	retentionDays int,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if resetRequestRepository == nil {
		panic(e.NewNilArgumentError("resetRequestRepository"))
	}
	if retentionDays < 0 {
		panic(e.NewInvalidArgumentError("retentionDays", "must not be negative"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                    log,
		resetRequestRepository: resetRequestRepository,
		retentionDays:          retentionDays,
		now:                    now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	now := s.now()
	issuedBefore := carbon.Time2Carbon(now).SubDays(s.retentionDays).Carbon2Time()

	deleted, err := s.resetRequestRepository.PurgeStale(ctx, passwordreset.PurgeInput{
		Now:          now,
		IssuedBefore: issuedBefore,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not purge stale password reset requests.",
			logging.Entry("issuedBefore", issuedBefore),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Stale password reset requests purged.",
		logging.Entry("deleted", deleted),
		logging.Entry("issuedBefore", issuedBefore),
	)
	return Result{Deleted: deleted}, nil
}
