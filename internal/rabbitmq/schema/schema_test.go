package schema

import (
	c "aiexchange/internal/core/domain/common"
	"aiexchange/internal/core/domain/notification"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWireFormat(t *testing.T) {
	n := NewNotification(
		notification.Message{
			To:      c.Email("a@x.com"),
			Subject: "s",
			Body:    "b",
			Type:    notification.TypePasswordReset,
		},
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	)

	data, err := n.Marshal()

	require.NoError(t, err)
	require.JSONEq(
		t,
		`{"to":"a@x.com","subject":"s","body":"b","type":"password_reset","enqueued_at":"2024-03-01T12:00:00Z"}`,
		string(data),
	)
}

func TestUnmarshalInvalid(t *testing.T) {
	n := &Notification{}
	require.Error(t, n.Unmarshal([]byte("{")))
}
