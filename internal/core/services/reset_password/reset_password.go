package resetpassword

import (
	c "aiexchange/internal/core/domain/common"
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	uow "aiexchange/internal/core/domain/unit_of_work"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	verifyresetcode "aiexchange/internal/core/services/verify_reset_code"
	"context"
	"errors"
	"fmt"
	"time"
)

type Input struct {
	Email       c.Email
	Code        passwordreset.Code
	NewPassword user.RawPassword
}

func (i Input) GetRateLimitKey() string {
	return "reset-password::" + string(c.NewEmail(string(i.Email)))
}

type Result struct{}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, fmt.Errorf("%w: %w", passwordreset.ErrPersistenceFailed, err)
	}
	defer uow.Rollback(ctx)

	verified, err := verifyresetcode.New(s.log, uow.Users(), uow.ResetRequests(), s.now).Run(
		ctx,
		verifyresetcode.Input{Email: input.Email, Code: input.Code},
	)
	if err != nil {
		return result, err
	}
	userID := verified.User.ID

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", userID))
		return result, err
	}

	err = uow.Users().SetPassword(ctx, userID, newPasswordHash)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", userID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %w", passwordreset.ErrPersistenceFailed, err)
	}

	err = uow.ResetRequests().MarkUsed(ctx, verified.Request.ID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, passwordreset.ErrCodeAlreadyUsed) {
		s.log.Info(
			ctx,
			"Reset code was consumed concurrently.",
			logging.Entry("userID", userID),
			logging.Entry("requestID", verified.Request.ID),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not mark reset code as used.",
			logging.Entry("userID", userID),
			logging.Entry("requestID", verified.Request.ID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %w", passwordreset.ErrPersistenceFailed, err)
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", userID))
		return result, fmt.Errorf("%w: %w", passwordreset.ErrPersistenceFailed, err)
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userID", userID),
		logging.Entry("requestID", verified.Request.ID),
	)
	return result, nil
}
