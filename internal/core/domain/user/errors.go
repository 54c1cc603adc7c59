package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserIsNotActive    = errors.New("user is not active")
	ErrUserIsNotApproved  = errors.New("user is not approved")
	ErrInvalidAccessToken = errors.New("invalid access token")
)
