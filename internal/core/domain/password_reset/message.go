package passwordreset

import (
	"aiexchange/internal/core/domain/notification"
	"aiexchange/internal/core/domain/user"
	"fmt"
)

const codeMessageSubject = "Your password reset code"

func NewCodeMessage(u user.User, r ResetRequest) notification.Message {
	name := u.FullName
	if name == "" {
		name = string(u.Email)
	}
	minutes := int(r.ExpiresAt.Sub(r.IssuedAt).Minutes())
	body := fmt.Sprintf(`Hi %s,

We received a request to reset the password for your account.

Your password reset code is: %s

The code expires in %d minutes and can be used only once.
If you did not request a password reset, you can ignore this email.
`, name, string(r.Code), minutes)

	return notification.Message{
		To:      u.Email,
		Subject: codeMessageSubject,
		Body:    body,
		Type:    notification.TypePasswordReset,
	}
}
