package passwordhasher

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/user"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt stores bcrypt(base64(HMAC-SHA256(secret, password))). The keyed
// digest keeps the bcrypt input at 44 bytes, so passwords longer than the
// 72-byte bcrypt limit are not silently truncated.
type Bcrypt struct {
	secret []byte
	cost   int
}

func NewBcrypt(secret string, cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		panic(e.NewInvalidArgumentError("cost", "out of bcrypt cost range"))
	}
	return &Bcrypt{secret: []byte(secret), cost: cost}
}

func (h *Bcrypt) peppered(password user.RawPassword) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	digest := mac.Sum(nil)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(digest)))
	base64.StdEncoding.Encode(encoded, digest)
	return encoded
}

func (h *Bcrypt) HashPassword(password user.RawPassword) (user.PasswordHash, error) {
	hash, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return "", err
	}
	return user.PasswordHash(hash), nil
}

func (h *Bcrypt) ValidatePassword(password user.RawPassword, hash user.PasswordHash) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(password)) == nil
}
