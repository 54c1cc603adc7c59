package loginwithemail

import (
	c "aiexchange/internal/core/domain/common"
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct {
	Email    c.Email
	Password user.RawPassword
}

func (i Input) GetRateLimitKey() string {
	return "log-in-with-email::" + string(c.NewEmail(string(i.Email)))
}

type Result struct {
	Token     user.AccessToken
	ExpiresAt time.Time
	User      user.User
}

type service struct {
	log                logging.Logger
	userRepository     user.UserRepository
	passwordHasher     user.PasswordHasher
	accessTokenManager user.AccessTokenManager
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	accessTokenManager user.AccessTokenManager,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if accessTokenManager == nil {
		panic(e.NewNilArgumentError("accessTokenManager"))
	}
	return &service{
		log:                log,
		userRepository:     userRepository,
		passwordHasher:     passwordHasher,
		accessTokenManager: accessTokenManager,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	email := c.NewEmail(string(input.Email))
	u, err := s.userRepository.GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Minimize risk for timing attacks
		s.passwordHasher.HashPassword(input.Password)
		return result, user.ErrInvalidCredentials
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for authentication.",
			logging.Entry("email", email),
			logging.Entry("err", err),
		)
		return result, err
	}
	if !s.passwordHasher.ValidatePassword(input.Password, u.PasswordHash) {
		return result, user.ErrInvalidCredentials
	}
	if !u.IsActive {
		return result, user.ErrUserIsNotActive
	}
	if !u.IsApproved {
		return result, user.ErrUserIsNotApproved
	}

	token, expiresAt, err := s.accessTokenManager.IssueToken(u)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not issue access token for user.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"User successfully authenticated, access token issued.",
		logging.Entry("userID", u.ID),
	)
	return Result{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
