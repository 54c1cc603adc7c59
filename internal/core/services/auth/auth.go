package auth

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/core/services"
	"context"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

type Input interface {
	WithAuthenticatedUser(u user.User) Input
}

type service[T Input, S any] struct {
	userRepository     user.UserRepository
	accessTokenManager user.AccessTokenManager
	inner              services.Service[T, S]
}

func WithAuthentication[T Input, S any](
	userRepository user.UserRepository,
	accessTokenManager user.AccessTokenManager,
	inner services.Service[T, S],
) services.Service[T, S] {
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if accessTokenManager == nil {
		panic(e.NewNilArgumentError("accessTokenManager"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		userRepository:     userRepository,
		accessTokenManager: accessTokenManager,
		inner:              inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	token, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(user.AccessToken)
	if !ok {
		return result, user.ErrInvalidAccessToken
	}
	userID, err := s.accessTokenManager.ParseToken(token)
	if err != nil {
		return result, user.ErrInvalidAccessToken
	}
	u, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		return result, err
	}
	if !u.IsActive {
		return result, user.ErrUserIsNotActive
	}
	if !u.IsApproved {
		return result, user.ErrUserIsNotApproved
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u).(T))
}
