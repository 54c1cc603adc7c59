package notification

import (
	"context"
	"fmt"
	"sync"
)

type FakeDispatcher struct {
	Sent        []Message
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeDispatcher() *FakeDispatcher {
	return &FakeDispatcher{}
}

func (d *FakeDispatcher) Send(ctx context.Context, message Message) error {
	if d.ReturnError {
		return fmt.Errorf("could not send %s message to %s", message.Type, message.To)
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.Sent = append(d.Sent, message)
	return nil
}

func (d *FakeDispatcher) SentCount() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return len(d.Sent)
}

func (d *FakeDispatcher) LastSent() Message {
	d.lock.Lock()
	defer d.lock.Unlock()
	l := len(d.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return d.Sent[l-1]
}
