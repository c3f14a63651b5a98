package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestQueueMailer_Send(t *testing.T) {
	pub := &fakePublisher{}
	m := &QueueMailer{pub: pub, queue: "email_jobs", logger: logger.Nop()}

	require.NoError(t, m.Send(context.Background(), testEmail()))

	assert.Empty(t, pub.exchange)
	assert.Equal(t, "email_jobs", pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), pub.msg.DeliveryMode)

	var job models.Email
	require.NoError(t, json.Unmarshal(pub.msg.Body, &job))
	assert.Equal(t, testEmail(), job)
}

func TestQueueMailer_PublishFailure(t *testing.T) {
	m := &QueueMailer{pub: &fakePublisher{err: errors.New("channel closed")}, queue: "email_jobs", logger: logger.Nop()}
	assert.ErrorIs(t, m.Send(context.Background(), testEmail()), ErrMailDelivery)
}

func TestQueueMailer_CloseWithoutConnection(t *testing.T) {
	assert.NoError(t, (&QueueMailer{}).Close())
}

func TestNewMailer(t *testing.T) {
	m, closer, err := NewMailer(config.Mail{Transport: config.MailTransportSMTP, Host: "localhost", Port: 25}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &smtpMailer{}, m)
	assert.NoError(t, closer.Close())

	m, _, err = NewMailer(config.Mail{Transport: config.MailTransportSendGrid}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &sendGridMailer{}, m)

	_, _, err = NewMailer(config.Mail{Transport: "pigeon"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownTransport)
}
