package user

import (
	c "aiexchange/internal/core/domain/common"
	e "aiexchange/internal/core/domain/errors"
	"fmt"
	"time"
)

type ID int64

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type AccessToken string

func (t AccessToken) String() string {
	return "***"
}

type User struct {
	ID           ID
	Email        c.Email
	PasswordHash PasswordHash
	FullName     string
	Role         Role
	IsActive     bool
	IsApproved   bool
	CreatedAt    time.Time
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	switch u.Role {
	case RoleAdmin, RoleStaff:
	default:
		return e.NewInvalidStateError(fmt.Sprintf("unknown role %q for user %d", u.Role, u.ID))
	}
	return nil
}

// CanResetPassword reports whether the account may be issued a password reset code.
func (u *User) CanResetPassword() bool {
	return u.IsActive && u.IsApproved
}
