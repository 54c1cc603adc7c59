package rabbitmq

import (
	"aiexchange/internal/core/domain/logging"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection re-dials the broker whenever the underlying connection drops.
type Connection struct {
	url    string
	log    logging.Logger
	closed atomic.Bool

	lock sync.RWMutex
	conn *amqp.Connection
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, errors.New("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	connection := &Connection{url: url, log: log, conn: conn}
	go connection.watch(conn)
	return connection, nil
}

func (c *Connection) watch(conn *amqp.Connection) {
	for {
		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || c.closed.Load() {
			c.log.Info(context.Background(), "RabbitMQ connection closed.")
			return
		}

		c.log.Warning(context.Background(), "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
		for !c.closed.Load() {
			time.Sleep(reconnectDelay)

			next, err := amqp.Dial(c.url)
			if err != nil {
				c.log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
				continue
			}

			c.lock.Lock()
			c.conn = next
			c.lock.Unlock()
			conn = next
			c.log.Info(context.Background(), "RabbitMQ reconnect success.")
			break
		}
	}
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	c.closed.Store(true)
	return c.current().Close()
}

// Channel opens a channel that is reopened after unexpected closes. A reopened
// channel gets back its confirm mode and the queues declared through it.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{ch: ch, log: c.log, done: make(chan struct{})}
	go channel.watch(c, ch)
	return channel, nil
}

type Channel struct {
	log    logging.Logger
	closed atomic.Bool
	done   chan struct{}

	lock    sync.RWMutex
	ch      *amqp.Channel
	confirm bool
	queues  []string
}

func (ch *Channel) watch(c *Connection, current *amqp.Channel) {
	for {
		reason, ok := <-current.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || ch.IsClosed() {
			return
		}

		ch.log.Warning(context.Background(), "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
		for !ch.IsClosed() {
			time.Sleep(reconnectDelay)

			next, err := ch.reopen(c)
			if err != nil {
				ch.log.Error(context.Background(), "Channel recreate failed.", logging.Entry("err", err))
				continue
			}
			current = next
			ch.log.Info(context.Background(), "Channel recreate success.")
			break
		}
	}
}

func (ch *Channel) reopen(c *Connection) (*amqp.Channel, error) {
	next, err := c.current().Channel()
	if err != nil {
		return nil, err
	}

	ch.lock.Lock()
	defer ch.lock.Unlock()

	if ch.confirm {
		if err := next.Confirm(false); err != nil {
			next.Close()
			return nil, err
		}
	}
	for _, queue := range ch.queues {
		if _, err := next.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			next.Close()
			return nil, err
		}
	}
	ch.ch = next
	return next, nil
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

// IsClosed reports whether Close was called.
func (ch *Channel) IsClosed() bool {
	return ch.closed.Load()
}

func (ch *Channel) Close() error {
	if ch.closed.Swap(true) {
		return amqp.ErrClosed
	}
	close(ch.done)
	return ch.current().Close()
}

// Confirm puts the channel into publisher confirm mode.
func (ch *Channel) Confirm(noWait bool) error {
	ch.lock.Lock()
	defer ch.lock.Unlock()

	if err := ch.ch.Confirm(noWait); err != nil {
		return err
	}
	ch.confirm = true
	return nil
}

// DeclareQueue declares a durable, non-exclusive queue.
func (ch *Channel) DeclareQueue(name string) error {
	ch.lock.Lock()
	defer ch.lock.Unlock()

	if _, err := ch.ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return err
	}
	ch.queues = append(ch.queues, name)
	return nil
}

func (ch *Channel) PublishWithDeferredConfirmWithContext(
	ctx context.Context,
	exchange string,
	key string,
	mandatory bool,
	immediate bool,
	msg amqp.Publishing,
) (*amqp.DeferredConfirmation, error) {
	return ch.current().PublishWithDeferredConfirmWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

// wait sleeps for the reconnect delay and reports false if the channel was
// closed meanwhile.
func (ch *Channel) wait() bool {
	select {
	case <-ch.done:
		return false
	case <-time.After(reconnectDelay):
		return true
	}
}

// Consume resubscribes after channel recovery. The returned channel is closed
// once Close is called.
func (ch *Channel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)
	go ch.pump(queue, func() (<-chan amqp.Delivery, error) {
		return ch.current().Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
	}, deliveries)
	return deliveries, nil
}

func (ch *Channel) pump(
	queue string,
	subscribe func() (<-chan amqp.Delivery, error),
	deliveries chan<- amqp.Delivery,
) {
	defer close(deliveries)
	defer ch.log.Info(context.Background(), "Channel is closed, stop consuming.", logging.Entry("queue", queue))

	for !ch.IsClosed() {
		d, err := subscribe()
		if err != nil {
			ch.log.Error(context.Background(), "Consume failed.", logging.Entry("err", err))
			if !ch.wait() {
				return
			}
			continue
		}

		if !ch.forward(d, deliveries) || !ch.wait() {
			return
		}
	}
}

// forward copies d into deliveries until d is closed. It reports false if the
// channel was closed first.
func (ch *Channel) forward(d <-chan amqp.Delivery, deliveries chan<- amqp.Delivery) bool {
	for {
		select {
		case <-ch.done:
			return false
		case msg, ok := <-d:
			if !ok {
				return true
			}
			select {
			case deliveries <- msg:
			case <-ch.done:
				return false
			}
		}
	}
}
