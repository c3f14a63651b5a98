package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultMailQueue = "email_jobs"

// publisher is the subset of *amqp.Channel the queue mailer needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueMailer enqueues emails as persistent JSON jobs on a durable RabbitMQ
// queue. Delivery itself happens in a separate consumer.
type QueueMailer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	pub     publisher
	queue   string
	logger  *logger.Logger
}

// NewQueueMailer dials cfg.AMQPURL and declares the durable queue.
func NewQueueMailer(cfg config.Mail, log *logger.Logger) (*QueueMailer, error) {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to message broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error opening broker channel: %w", err)
	}

	queue := cfg.AMQPQueue
	if queue == "" {
		queue = defaultMailQueue
	}

	// durable, not auto-deleted, not exclusive, wait for the broker
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("error declaring queue %q: %w", queue, err)
	}

	log.Info().Str("func", "NewQueueMailer").Str("queue", queue).Msg("connected to message broker")

	return &QueueMailer{conn: conn, channel: ch, pub: ch, queue: queue, logger: log}, nil
}

func (m *QueueMailer) Send(ctx context.Context, email models.Email) error {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	err = m.pub.PublishWithContext(ctx, "", m.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		log.Err(err).Str("func", "QueueMailer.Send").Str("queue", m.queue).Msg("failed to publish email job")
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	log.Debug().Str("func", "QueueMailer.Send").Str("subject", email.Subject).Msg("email job published")
	return nil
}

// Close releases the channel and the connection.
func (m *QueueMailer) Close() error {
	if m.channel != nil {
		if err := m.channel.Close(); err != nil {
			return err
		}
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
