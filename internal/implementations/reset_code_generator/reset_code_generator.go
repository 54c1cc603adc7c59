package resetcodegenerator

import (
	passwordreset "aiexchange/internal/core/domain/password_reset"
	"crypto/rand"
	"io"
	"math/big"
)

var digits = []byte("0123456789")

type Generator struct {
	random io.Reader
}

func NewGenerator() *Generator {
	return &Generator{random: rand.Reader}
}

// GenerateCode draws every digit independently and uniformly. Leading zeros are kept.
func (g *Generator) GenerateCode() (passwordreset.Code, error) {
	b := make([]byte, passwordreset.CodeLength)
	max := big.NewInt(int64(len(digits)))
	for i := range b {
		n, err := rand.Int(g.random, max)
		if err != nil {
			return passwordreset.Code(""), err
		}
		b[i] = digits[n.Int64()]
	}
	return passwordreset.Code(b), nil
}
