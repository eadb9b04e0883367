package event

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"marketplace-messenger/config"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	RabbitMQActionHeader = "x-action"
	ApiQueue             = "api"
	PublishTimeout       = 5 * time.Second
)

// channel is the part of *amqp.Channel the broker uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Broker publishes domain events to a RabbitMQ queue and consumes inbound queues.
type Broker struct {
	conn    *amqp.Connection
	ch      channel
	queue   string
	journal *Journal
	closer  io.Closer
	log     logrus.FieldLogger
	now     func() time.Time
}

func RabbitMQConnect(cfg config.RabbitMQ, log logrus.FieldLogger) (*Broker, error) {
	conn, err := amqp.Dial(fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	))
	if err != nil {
		return nil, errors.Wrap(err, "event.RabbitMQConnect.Dial")
	}
	log.Info("connection opened to RabbitMQ server")

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "event.RabbitMQConnect.Channel")
	}

	for _, name := range []string{cfg.Queue, ApiQueue} {
		_, err := ch.QueueDeclare(
			name,  // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "event.RabbitMQConnect.QueueDeclare %s", name)
		}
		log.WithField("queue", name).Info("declared RabbitMQ queue")
	}

	b := newBroker(ch, cfg.Queue, log)
	b.conn = conn

	if cfg.EventLog != "" {
		f, err := os.OpenFile(cfg.EventLog, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "event.RabbitMQConnect.OpenEventLog")
		}
		b.journal = NewJournal(f)
		b.closer = f
	}
	return b, nil
}

func newBroker(ch channel, queue string, log logrus.FieldLogger) *Broker {
	return &Broker{ch: ch, queue: queue, log: log, now: time.Now}
}

// Publish marshals data and sends it with the action header. It gives up
// after PublishTimeout.
func (b *Broker) Publish(ctx context.Context, action string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "event.Publish.Marshal")
	}
	if err := b.emit(ctx, action, body); err != nil {
		return err
	}

	if b.journal != nil {
		return b.journal.Write(EventLogData{
			Time:    b.now().UnixMicro(),
			Service: b.queue,
			Action:  action,
			Data:    string(body),
		})
	}
	return nil
}

func (b *Broker) emit(ctx context.Context, action string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	err := b.ch.PublishWithContext(
		ctx,
		"",      // exchange
		b.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Timestamp:    b.now(),
			Headers: amqp.Table{
				RabbitMQActionHeader: action,
			},
			Body: body,
		},
	)
	return errors.Wrapf(err, "event.Publish %s", action)
}

// Replay re-publishes every event of a journal, without journaling them again.
func (b *Broker) Replay(ctx context.Context, r io.Reader) (int, error) {
	n := 0
	err := ReadJournal(r, func(data EventLogData) error {
		if err := b.emit(ctx, data.Action, []byte(data.Data)); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// Subscribe forwards deliveries of queue to out until the channel closes.
// Messages without an action header are rejected.
func (b *Broker) Subscribe(queue string, out chan<- Delivery) error {
	msgs, err := b.ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return errors.Wrapf(err, "event.Subscribe %s", queue)
	}
	b.log.WithField("queue", queue).Info("subscribed to RabbitMQ queue")

	go func() {
		defer close(out)
		for msg := range msgs {
			action, ok := msg.Headers[RabbitMQActionHeader].(string)
			if !ok {
				b.log.WithField("queue", queue).Warn("dropping event without action header")
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)

			out <- Delivery{Queue: queue, Action: action, Data: msg.Body}
		}
	}()
	return nil
}

func (b *Broker) Close() error {
	var firstErr error
	if err := b.ch.Close(); err != nil {
		firstErr = err
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.closer != nil {
		if err := b.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
