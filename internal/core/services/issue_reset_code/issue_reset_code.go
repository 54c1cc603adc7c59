package issueresetcode

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	uow "aiexchange/internal/core/domain/unit_of_work"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	"context"
	"errors"
	"fmt"
	"time"
)

type Input struct {
	User user.User
}

type Result struct {
	Code      passwordreset.Code
	ExpiresAt time.Time
	RequestID passwordreset.ID
}

type service struct {
	log           logging.Logger
	unitOfWork    uow.UnitOfWork
	codeGenerator passwordreset.CodeGenerator
	dispatcher    notification.Dispatcher
	ttl           time.Duration
	now           func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	codeGenerator passwordreset.CodeGenerator,
	dispatcher notification.Dispatcher,
	ttl time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if codeGenerator == nil {
		panic(e.NewNilArgumentError("codeGenerator"))
	}
	if dispatcher == nil {
		panic(e.NewNilArgumentError("dispatcher"))
	}
	if ttl <= 0 {
		panic(e.NewInvalidArgumentError("ttl", "must be positive"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:           log,
		unitOfWork:    unitOfWork,
		codeGenerator: codeGenerator,
		dispatcher:    dispatcher,
		ttl:           ttl,
		now:           now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	code, err := s.codeGenerator.GenerateCode()
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, fmt.Errorf("%w: %w", passwordreset.ErrPersistenceFailed, err)
	}
	defer uow.Rollback(ctx)

	issuedAt := s.now()
	req, err := uow.ResetRequests().Create(ctx, passwordreset.CreateResetRequestInput{
		ID:        passwordreset.NewID(),
		UserID:    input.User.ID,
		Code:      code,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create password reset request.",
			logging.Entry("userID", input.User.ID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %w", passwordreset.ErrPersistenceFailed, err)
	}

	err = s.dispatcher.Send(ctx, passwordreset.NewCodeMessage(input.User, req))
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not deliver password reset code, discarding the request.",
			logging.Entry("userID", input.User.ID),
			logging.Entry("requestID", req.ID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %w", passwordreset.ErrDeliveryFailed, err)
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID), logging.Entry("requestID", req.ID))
		return result, fmt.Errorf("%w: %w", passwordreset.ErrPersistenceFailed, err)
	}

	s.log.Info(
		ctx,
		"Password reset code issued.",
		logging.Entry("userID", input.User.ID),
		logging.Entry("requestID", req.ID),
		logging.Entry("expiresAt", req.ExpiresAt),
	)
	return Result{Code: req.Code, ExpiresAt: req.ExpiresAt, RequestID: req.ID}, nil
}
