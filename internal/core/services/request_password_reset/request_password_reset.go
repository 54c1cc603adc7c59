package requestpasswordreset

import (
	c "aiexchange/internal/core/domain/common"
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	issueresetcode "aiexchange/internal/core/services/issue_reset_code"
	"context"
	"errors"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "request-password-reset::" + string(c.NewEmail(string(i.Email)))
}

// Result carries the issued code only when one was actually issued.
// Callers must not reveal whether an account exists.
type Result struct {
	Code c.Optional[passwordreset.Code]
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	issuer         services.Service[issueresetcode.Input, issueresetcode.Result]
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	issuer services.Service[issueresetcode.Input, issueresetcode.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if issuer == nil {
		panic(e.NewNilArgumentError("issuer"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		issuer:         issuer,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	email := c.NewEmail(string(input.Email))
	u, err := s.userRepository.GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.", logging.Entry("email", email))
		return result, nil
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("email", email),
			logging.Entry("err", err),
		)
		return result, err
	}

	if !u.CanResetPassword() {
		s.log.Info(
			ctx,
			"Password reset requested for an inactive or unapproved user.",
			logging.Entry("userID", u.ID),
			logging.Entry("isActive", u.IsActive),
			logging.Entry("isApproved", u.IsApproved),
		)
		return result, nil
	}

	issued, err := s.issuer.Run(ctx, issueresetcode.Input{User: u})
	if err != nil {
		return result, err
	}
	result.Code = c.NewOptional(issued.Code, true)
	return result, nil
}
