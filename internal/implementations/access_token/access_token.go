package accesstoken

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/user"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration, now func() time.Time) *JWTManager {
	if secret == "" {
		panic(e.NewInvalidArgumentError("secret", "must not be empty"))
	}
	if ttl <= 0 {
		panic(e.NewInvalidArgumentError("ttl", "must be positive"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: now}
}

func (m *JWTManager) IssueToken(u user.User) (user.AccessToken, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: string(u.Email),
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return user.AccessToken(""), time.Time{}, err
	}
	return user.AccessToken(signed), expiresAt, nil
}

func (m *JWTManager) ParseToken(token user.AccessToken) (user.ID, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(
		string(token),
		c,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.secret, nil
		},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return user.ID(0), user.ErrInvalidAccessToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return user.ID(0), user.ErrInvalidAccessToken
	}
	return user.ID(id), nil
}
