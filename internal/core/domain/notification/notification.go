package notification

import (
	c "aiexchange/internal/core/domain/common"
	"context"
)

type Type string

const (
	TypePasswordReset Type = "password_reset"
)

type Message struct {
	To      c.Email `json:"to"`
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Type    Type    `json:"type"`
}

// Dispatcher delivers a message out of band. A nil error means the delivery was accepted.
type Dispatcher interface {
	Send(ctx context.Context, message Message) error
}
