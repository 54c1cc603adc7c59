package notificationlog

import (
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/logging"
	"aiexchange/internal/core/domain/notification"
	"context"
)

// Dispatcher writes messages to the log instead of delivering them.
// Used in development and test mode.
type Dispatcher struct {
	log logging.Logger
}

func NewDispatcher(log logging.Logger) *Dispatcher {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &Dispatcher{log: log}
}

func (d *Dispatcher) Send(ctx context.Context, message notification.Message) error {
	d.log.Info(
		ctx,
		"Notification dispatched to log.",
		logging.Entry("to", message.To),
		logging.Entry("type", message.Type),
		logging.Entry("subject", message.Subject),
		logging.Entry("body", message.Body),
	)
	return nil
}
