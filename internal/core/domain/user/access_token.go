package user

import "time"

type AccessTokenManager interface {
	IssueToken(u User) (token AccessToken, expiresAt time.Time, err error)
	ParseToken(token AccessToken) (ID, error)
}
