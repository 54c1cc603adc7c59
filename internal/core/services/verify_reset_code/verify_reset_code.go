package verifyresetcode

import (
	c "aiexchange/internal/core/domain/common"
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct {
	Email c.Email
	Code  passwordreset.Code
}

func (i Input) GetRateLimitKey() string {
	return "verify-reset-code::" + string(c.NewEmail(string(i.Email)))
}

type Result struct {
	User    user.User
	Request passwordreset.ResetRequest
}

type service struct {
	log                    logging.Logger
	userRepository         user.UserRepository
	resetRequestRepository passwordreset.ResetRequestRepository
	now                    func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	resetRequestRepository passwordreset.ResetRequestRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if resetRequestRepository == nil {
		panic(e.NewNilArgumentError("resetRequestRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                    log,
		userRepository:         userRepository,
		resetRequestRepository: resetRequestRepository,
		now:                    now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	email := c.NewEmail(string(input.Email))
	u, err := s.userRepository.GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found for reset code verification.", logging.Entry("email", email))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for reset code verification.",
			logging.Entry("email", email),
			logging.Entry("err", err),
		)
		return result, err
	}

	now := s.now()
	req, err := s.resetRequestRepository.FindByUserAndCode(ctx, u.ID, input.Code, now)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, passwordreset.ErrCodeNotFound) {
		s.log.Info(ctx, "Reset code does not match.", logging.Entry("userID", u.ID))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not find password reset request.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err := req.Check(now); err != nil {
		s.log.Info(
			ctx,
			"Reset code is not usable.",
			logging.Entry("userID", u.ID),
			logging.Entry("requestID", req.ID),
			logging.Entry("reason", err),
		)
		return result, err
	}

	return Result{User: u, Request: req}, nil
}
