package schema

import (
	c "aiexchange/internal/core/domain/common"
	"aiexchange/internal/core/domain/notification"
	"encoding/json"
	"time"
)

type Notification struct {
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Type       string    `json:"type"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func NewNotification(message notification.Message, enqueuedAt time.Time) *Notification {
	return &Notification{
		To:         string(message.To),
		Subject:    message.Subject,
		Body:       message.Body,
		Type:       string(message.Type),
		EnqueuedAt: enqueuedAt,
	}
}

func (n *Notification) Message() notification.Message {
	return notification.Message{
		To:      c.Email(n.To),
		Subject: n.Subject,
		Body:    n.Body,
		Type:    notification.Type(n.Type),
	}
}

func (n *Notification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) Unmarshal(data []byte) error {
	return json.Unmarshal(data, n)
}
