package user

import (
	c "aiexchange/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeAccessTokenManager struct {
	TTL time.Duration
	Now func() time.Time
}

func NewFakeAccessTokenManager() *FakeAccessTokenManager {
	return &FakeAccessTokenManager{
		TTL: time.Hour,
		Now: func() time.Time { return time.Now().UTC() },
	}
}

func (m *FakeAccessTokenManager) IssueToken(u User) (AccessToken, time.Time, error) {
	return AccessToken(fmt.Sprintf("fake-token-%d", u.ID)), m.Now().Add(m.TTL), nil
}

func (m *FakeAccessTokenManager) ParseToken(token AccessToken) (ID, error) {
	raw, ok := strings.CutPrefix(string(token), "fake-token-")
	if !ok {
		return ID(0), ErrInvalidAccessToken
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ID(0), ErrInvalidAccessToken
	}
	return ID(id), nil
}

type FakeUserRepository struct {
	Users            []User
	ReturnError      bool
	SetPasswordError error
	lock             sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     input.IsActive,
		IsApproved:   input.IsApproved,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.SetPasswordError != nil {
		return r.SetPasswordError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = password
			return nil
		}
	}
	return ErrUserDoesNotExist
}

// Snapshot and Restore let a fake unit of work discard writes on rollback.
func (r *FakeUserRepository) Snapshot() []User {
	r.lock.Lock()
	defer r.lock.Unlock()
	users := make([]User, len(r.Users))
	copy(users, r.Users)
	return users
}

func (r *FakeUserRepository) Restore(users []User) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Users = users
}
